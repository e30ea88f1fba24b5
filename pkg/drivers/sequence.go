package drivers

import (
	"context"
	"slices"

	"github.com/go-logr/logr"
)

// DependencyLister returns the dependency names of a package as
// reported by a package index.
type DependencyLister interface {
	Depends(ctx context.Context, name string) ([]string, error)
}

// Sequence orders packages so that every package comes after the
// members of packages it depends on. Dependencies outside of packages
// are ignored.
//
// Packages that are part of a dependency cycle, or that depend on one,
// never become ready and are left out of the result.
func Sequence(ctx context.Context, packages []string, index DependencyLister) []string {
	log := logr.FromContextOrDiscard(ctx)
	log.Info("sorting packages based on dependencies", "count", len(packages))

	dependents := map[string][]string{}
	indegree := map[string]int{}

	for _, pkg := range packages {
		deps, err := index.Depends(ctx, pkg)
		if err != nil {
			log.Error(err, "failed to fetch dependencies", "name", pkg)
			continue
		}
		for _, dep := range deps {
			if !slices.Contains(packages, dep) {
				continue
			}
			dependents[dep] = append(dependents[dep], pkg)
			indegree[pkg]++
		}
	}

	var queue []string
	for _, pkg := range packages {
		if indegree[pkg] == 0 {
			queue = append(queue, pkg)
		}
	}

	sorted := make([]string, 0, len(packages))
	for len(queue) > 0 {
		pkg := queue[0]
		queue = queue[1:]
		sorted = append(sorted, pkg)
		for _, next := range dependents[pkg] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(sorted) < len(packages) {
		log.Info("dropping packages with cyclic dependencies", "count", len(packages)-len(sorted))
	}
	return sorted
}
