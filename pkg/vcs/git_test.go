package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// interface guard
var _ Client = &Git{}

var regexpHash = regexp.MustCompile(`^[0-9a-f]{40}$`)

func newGit(t *testing.T) *Git {
	g, err := NewGit()
	if err != nil {
		t.Skip("git is not available")
	}
	// isolate from the user's configuration
	t.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	return g
}

func git(t *testing.T, dir string, env []string, args ...string) {
	cmd := exec.Command("git", append([]string{"-C", dir, "-c", "user.name=test", "-c", "user.email=test@example.org", "-c", "commit.gpgsign=false"}, args...)...)
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func commitFile(t *testing.T, dir, name, date string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name+date), 0644))
	git(t, dir, nil, "add", name)
	git(t, dir, []string{"GIT_AUTHOR_DATE=" + date, "GIT_COMMITTER_DATE=" + date}, "commit", "-m", "update "+name)
}

func TestGit(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))
	g := newGit(t)

	src := t.TempDir()
	git(t, src, nil, "init")
	commitFile(t, src, "indi-asi/CMakeLists.txt", "2024-01-02T10:00:00+01:00")
	commitFile(t, src, "indi-qhy/CMakeLists.txt", "2024-03-04T23:30:00-05:00")

	dst := filepath.Join(t.TempDir(), "clone")

	t.Run("sync clones a missing repository", func(t *testing.T) {
		require.NoError(t, g.Sync(ctx, src, dst))
		assert.DirExists(t, filepath.Join(dst, ".git"))
	})
	t.Run("repository wide latest commit", func(t *testing.T) {
		c, err := g.LatestCommit(ctx, dst, "")
		require.NoError(t, err)
		assert.Regexp(t, regexpHash, c.Hash)
		assert.EqualValues(t, "20240304", c.Date.Format("20060102"))
	})
	t.Run("path scoped latest commit", func(t *testing.T) {
		c, err := g.LatestCommit(ctx, dst, "indi-asi")
		require.NoError(t, err)
		assert.EqualValues(t, "20240102", c.Date.Format("20060102"))

		head, err := g.Head(ctx, dst)
		require.NoError(t, err)
		assert.NotEqual(t, head, c.Hash)
	})
	t.Run("untouched path has no commits", func(t *testing.T) {
		_, err := g.LatestCommit(ctx, dst, "indi-gpsd")
		assert.ErrorIs(t, err, ErrNoCommits)
	})
	t.Run("sync pulls an existing repository", func(t *testing.T) {
		commitFile(t, src, "indi-gpsd/CMakeLists.txt", "2024-05-06T12:00:00+00:00")
		require.NoError(t, g.Sync(ctx, src, dst))

		want, err := g.Head(ctx, src)
		require.NoError(t, err)
		got, err := g.Head(ctx, dst)
		require.NoError(t, err)
		assert.EqualValues(t, want, got)
	})
}

func TestGit_Failures(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))
	g := newGit(t)

	t.Run("clone of a missing remote fails", func(t *testing.T) {
		err := g.Sync(ctx, filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "clone"))
		assert.Error(t, err)
	})
	t.Run("empty repository has no head", func(t *testing.T) {
		dir := t.TempDir()
		git(t, dir, nil, "init")
		_, err := g.Head(ctx, dir)
		assert.Error(t, err)
		_, err = g.LatestCommit(ctx, dir, "")
		assert.Error(t, err)
	})
}
