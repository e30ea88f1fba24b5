package packages

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("package not found")

// Index is a queryable view of the packages available
// to the local system.
type Index interface {
	// Search returns the names of packages matching query.
	Search(ctx context.Context, query string) ([]string, error)
	// Policy returns the candidate version of a package,
	// or ErrNotFound if it has none.
	Policy(ctx context.Context, name string) (string, error)
	// Depends returns the names of the packages that
	// name depends on.
	Depends(ctx context.Context, name string) ([]string, error)
}
