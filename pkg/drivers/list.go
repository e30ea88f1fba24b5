package drivers

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"
)

// List returns the names of the directories in dir that start with
// one of the given prefixes, in lexical order.
func List(ctx context.Context, dir string, prefixes []string) ([]string, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("dir", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing drivers: %w", err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() || !HasPrefix(e.Name(), prefixes) {
			continue
		}
		out = append(out, e.Name())
	}
	log.V(1).Info("listed drivers", "count", len(out))
	return out, nil
}
