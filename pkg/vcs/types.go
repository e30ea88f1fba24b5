package vcs

import (
	"context"
	"errors"
	"time"
)

var (
	ErrMissing   = errors.New("git is not installed")
	ErrNoCommits = errors.New("no commits found")
)

type Commit struct {
	Hash string
	Date time.Time
}

// Client is the subset of version-control operations
// needed to inspect driver and mirror repositories.
type Client interface {
	// Sync clones url into path, or updates path
	// if it already exists.
	Sync(ctx context.Context, url, path string) error
	// Head returns the commit hash HEAD points to.
	Head(ctx context.Context, path string) (string, error)
	// LatestCommit returns the most recent commit in the repository
	// at path. When subpath is set, only commits touching it count.
	LatestCommit(ctx context.Context, path, subpath string) (Commit, error)
}
