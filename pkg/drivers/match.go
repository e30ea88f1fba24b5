package drivers

import (
	"context"
	"slices"
	"strings"

	"github.com/go-logr/logr"
)

// Intersect returns the drivers that also appear in packages, using
// exact string equality. The order of drivers is preserved.
func Intersect(drivers, packages []string) []string {
	available := make(map[string]struct{}, len(packages))
	for _, p := range packages {
		available[p] = struct{}{}
	}
	seen := map[string]struct{}{}
	var out []string
	for _, d := range drivers {
		if _, ok := available[d]; !ok {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// Ignore removes every name contained in ignored.
func Ignore(ctx context.Context, names, ignored []string) []string {
	log := logr.FromContextOrDiscard(ctx)
	var out []string
	for _, n := range names {
		if slices.Contains(ignored, n) {
			log.Info("ignoring package as it is in the ignore list", "name", n)
			continue
		}
		out = append(out, n)
	}
	return out
}

// HasPrefix reports whether s starts with any of the given prefixes.
func HasPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
