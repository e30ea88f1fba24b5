package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

type Git struct {
	binary string
}

// NewGit locates the git binary on the PATH.
func NewGit() (*Git, error) {
	bin, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissing, err)
	}
	return &Git{binary: bin}, nil
}

func (g *Git) Clone(ctx context.Context, url, path string) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("url", url, "path", path)
	log.Info("cloning repository, this may take a few moments")
	if _, err := g.run(ctx, "", "clone", url, path); err != nil {
		log.Error(err, "failed to clone repository")
		return err
	}
	log.V(1).Info("successfully cloned repository")
	return nil
}

func (g *Git) Update(ctx context.Context, path string) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("path", path)
	log.Info("updating repository")
	if _, err := g.run(ctx, path, "pull"); err != nil {
		log.Error(err, "failed to update repository")
		return err
	}
	log.V(1).Info("repository is up to date")
	return nil
}

func (g *Git) Sync(ctx context.Context, url, path string) error {
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		return g.Clone(ctx, url, path)
	}
	return g.Update(ctx, path)
}

func (g *Git) Head(ctx context.Context, path string) (string, error) {
	out, err := g.run(ctx, path, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return out, nil
}

func (g *Git) LatestCommit(ctx context.Context, path, subpath string) (Commit, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("path", path, "subpath", subpath)

	args := []string{"log", "-1", "--format=%H %cI"}
	if subpath != "" {
		args = append(args, "--", subpath)
	}
	out, err := g.run(ctx, path, args...)
	if err != nil {
		return Commit{}, err
	}
	if out == "" {
		return Commit{}, ErrNoCommits
	}
	hash, date, ok := strings.Cut(out, " ")
	if !ok {
		return Commit{}, fmt.Errorf("unexpected git log output: %q", out)
	}
	ts, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return Commit{}, fmt.Errorf("parsing commit date: %w", err)
	}
	log.V(3).Info("found latest commit", "hash", hash, "date", ts)
	return Commit{Hash: hash, Date: ts}, nil
}

func (g *Git) run(ctx context.Context, dir string, args ...string) (string, error) {
	if dir != "" {
		args = append([]string{"-C", dir}, args...)
	}
	logr.FromContextOrDiscard(ctx).V(5).Info("running git", "args", args)

	cmd := exec.CommandContext(ctx, g.binary, args...)
	// never block waiting for credentials on missing remotes
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
