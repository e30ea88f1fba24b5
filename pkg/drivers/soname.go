package drivers

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
)

// SplitSoname separates a trailing shared-library version from
// a package name. Both "libfoo3" and "libfoo-3" yield ("libfoo", 3).
// Names without a trailing number are returned unchanged with ok=false.
func SplitSoname(name string) (base string, suffix int, ok bool) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) {
		return name, 0, false
	}
	base = strings.TrimSuffix(name[:i], "-")
	if base == "" {
		return name, 0, false
	}
	suffix, err := strconv.Atoi(name[i:])
	if err != nil {
		return name, 0, false
	}
	return base, suffix, true
}

// NormalizeSonames collapses soname variants so that exactly one
// package survives per base name. The variant with the highest
// numeric suffix wins; an unsuffixed name counts as 0 and never
// replaces an existing entry. Ties keep the first name seen.
//
// The result is ordered by the first appearance of each base name.
func NormalizeSonames(ctx context.Context, names []string) []string {
	log := logr.FromContextOrDiscard(ctx)

	type entry struct {
		name   string
		suffix int
	}
	groups := map[string]entry{}
	var order []string

	for _, name := range names {
		base, suffix, ok := SplitSoname(name)
		current, seen := groups[base]
		if !seen {
			groups[base] = entry{name: name, suffix: suffix}
			order = append(order, base)
			continue
		}
		if ok && suffix > current.suffix {
			log.V(4).Info("replacing soname variant", "base", base, "old", current.name, "new", name)
			groups[base] = entry{name: name, suffix: suffix}
		}
	}

	out := make([]string, 0, len(order))
	for _, base := range order {
		out = append(out, groups[base].name)
	}
	log.V(2).Info("normalized soname variants", "in", len(names), "out", len(out))
	return out
}
