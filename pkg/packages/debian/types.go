package debian

import "github.com/djcass44/indi-audit/pkg/debian"

// PackageKeeper answers package index queries from one
// or more Debian Packages indices.
type PackageKeeper struct {
	indices []*debian.Index
}
