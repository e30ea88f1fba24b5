package debian

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/djcass44/indi-audit/pkg/debian"
	"github.com/djcass44/indi-audit/pkg/packages"
	"github.com/go-logr/logr"
	version "github.com/knqyf263/go-deb-version"
)

// NewPackageKeeper loads every repository. A repository is either
// "base release component" or the path of a local Packages file.
func NewPackageKeeper(ctx context.Context, dl debian.Downloader, arch string, repositories []string) (*PackageKeeper, error) {
	log := logr.FromContextOrDiscard(ctx)

	var indices []*debian.Index
	for _, repo := range repositories {
		bits := strings.Fields(repo)
		var idx *debian.Index
		var err error
		switch len(bits) {
		case 1:
			idx, err = debian.Open(ctx, bits[0])
		case 3:
			idx, err = debian.NewIndex(ctx, dl, bits[0], bits[1], bits[2], arch)
		default:
			return nil, fmt.Errorf("malformed repository '%s', expecting: 'base release component' or a file path", repo)
		}
		if err != nil {
			return nil, err
		}
		log.V(2).Info("added index", "count", idx.Count(), "source", idx.Source())
		indices = append(indices, idx)
	}
	return &PackageKeeper{
		indices: indices,
	}, nil
}

func (p *PackageKeeper) Search(ctx context.Context, query string) ([]string, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("query", query)

	seen := map[string]struct{}{}
	var out []string
	for _, idx := range p.indices {
		for _, name := range idx.Names() {
			if !strings.Contains(name, query) {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	log.V(1).Info("searched indices", "count", len(out))
	return out, nil
}

func (p *PackageKeeper) Policy(ctx context.Context, name string) (string, error) {
	pkg, err := p.candidate(ctx, name)
	if err != nil {
		return "", err
	}
	return pkg.Version, nil
}

func (p *PackageKeeper) Depends(ctx context.Context, name string) ([]string, error) {
	pkg, err := p.candidate(ctx, name)
	if err != nil {
		if errors.Is(err, packages.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return pkg.Dependencies()
}

// candidate picks the highest version of name across
// every index.
func (p *PackageKeeper) candidate(ctx context.Context, name string) (*debian.Package, error) {
	var best *debian.Package
	var bestVersion version.Version
	for _, idx := range p.indices {
		pkg, err := idx.Candidate(ctx, name)
		if err != nil {
			if errors.Is(err, debian.ErrNotFound) {
				continue
			}
			return nil, err
		}
		v, err := version.NewVersion(pkg.Version)
		if err != nil {
			return nil, err
		}
		if best == nil || v.GreaterThan(bestVersion) {
			best = pkg
			bestVersion = v
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %s", packages.ErrNotFound, name)
	}
	return best, nil
}
