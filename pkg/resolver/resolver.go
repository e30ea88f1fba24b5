package resolver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/djcass44/indi-audit/pkg/airutil"
	v1 "github.com/djcass44/indi-audit/pkg/api/v1"
	"github.com/djcass44/indi-audit/pkg/changelog"
	"github.com/djcass44/indi-audit/pkg/packages"
	"github.com/djcass44/indi-audit/pkg/vcs"
	"github.com/go-logr/logr"
)

const (
	VersionNotFound = "Version not found"
	HashNotFound    = "Git hash not found"

	// DefaultBaseVersion is used when a mirror has no
	// readable changelog.
	DefaultBaseVersion = "1.0"
)

var (
	ErrNotFound          = errors.New("version not found")
	ErrMirrorUnavailable = errors.New("mirror repository unavailable")
)

var regexpVersion = regexp.MustCompile(`^[\d.]+`)

type Resolver struct {
	index         packages.Index
	vcs           vcs.Client
	mirror        v1.MirrorSpec
	indexVersions bool
}

// New creates a Resolver. When indexVersions is false the package
// index is never consulted and every version is derived from the
// mirror repository.
func New(index packages.Index, client vcs.Client, mirror v1.MirrorSpec, indexVersions bool) *Resolver {
	return &Resolver{
		index:         index,
		vcs:           client,
		mirror:        mirror,
		indexVersions: indexVersions,
	}
}

// CleanVersion returns the leading run of digits and dots
// of v, e.g. "1.2.3" for "1.2.3-1build2".
func CleanVersion(v string) (string, bool) {
	out := regexpVersion.FindString(v)
	return out, out != ""
}

func (r *Resolver) MirrorURL(name string) (string, error) {
	return airutil.Expand(r.mirror.URL, map[string]string{"package": name})
}

func (r *Resolver) MirrorPath(name string) (string, error) {
	path, err := airutil.Expand(r.mirror.Path, map[string]string{"package": name})
	if err != nil {
		return "", err
	}
	return filepath.Clean(path), nil
}

// IndexVersion returns the cleaned candidate version of name
// from the package index.
func (r *Resolver) IndexVersion(ctx context.Context, name string) (string, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("name", name)

	candidate, err := r.index.Policy(ctx, name)
	if err != nil {
		if errors.Is(err, packages.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	v, ok := CleanVersion(candidate)
	if !ok {
		log.V(2).Info("candidate version is not numeric", "candidate", candidate)
		return "", ErrNotFound
	}
	log.V(2).Info("found candidate version", "candidate", candidate, "version", v)
	return v, nil
}

// Resolve produces the version record of a driver. An error is only
// returned when the mirror repository cannot be cloned or updated,
// in which case no record exists for the driver.
func (r *Resolver) Resolve(ctx context.Context, name string) (v1.Record, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("name", name)

	var indexVersion string
	if r.indexVersions {
		v, err := r.IndexVersion(ctx, name)
		switch {
		case err == nil:
			indexVersion = v
		case errors.Is(err, ErrNotFound):
			log.V(1).Info("no usable candidate version in the package index")
		default:
			log.Error(err, "failed to fetch candidate version")
		}
	}

	url, err := r.MirrorURL(name)
	if err != nil {
		return v1.Record{}, fmt.Errorf("%w: %s: %w", ErrMirrorUnavailable, name, err)
	}
	path, err := r.MirrorPath(name)
	if err != nil {
		return v1.Record{}, fmt.Errorf("%w: %s: %w", ErrMirrorUnavailable, name, err)
	}
	if err := r.vcs.Sync(ctx, url, path); err != nil {
		return v1.Record{}, fmt.Errorf("%w: %s: %w", ErrMirrorUnavailable, name, err)
	}

	if indexVersion != "" {
		hash, err := r.vcs.Head(ctx, path)
		if err != nil {
			log.Error(err, "failed to fetch git hash", "path", path)
			hash = HashNotFound
		}
		return v1.Record{Driver: name, Version: indexVersion, GitHash: hash}, nil
	}

	version, hash := r.Synthesize(ctx, path)
	return v1.Record{Driver: name, Version: version, GitHash: hash}, nil
}

// Synthesize derives a "<base>+git<YYYYMMDD>.<hash7>" version from the
// most recent commit of the repository at path. The base version is
// read from debian/changelog.
func (r *Resolver) Synthesize(ctx context.Context, path string) (string, string) {
	log := logr.FromContextOrDiscard(ctx).WithValues("path", path)

	commit, err := r.vcs.LatestCommit(ctx, path, "")
	if err != nil {
		log.Error(err, "failed to calculate version for the repository")
		return VersionNotFound, HashNotFound
	}

	base, err := changelog.ReadVersion(ctx, filepath.Join(path, "debian", "changelog"))
	if err != nil {
		log.V(1).Info("using default base version", "base", DefaultBaseVersion, "err", err.Error())
		base = DefaultBaseVersion
	}

	short := commit.Hash
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s+git%s.%s", base, commit.Date.Format("20060102"), short), commit.Hash
}

// ResolveUpstream reads the version of a driver directly from the
// upstream repository: the changelog under debian/<driver> and the
// latest commit touching the driver directory.
func (r *Resolver) ResolveUpstream(ctx context.Context, repoPath, driver string) v1.Record {
	log := logr.FromContextOrDiscard(ctx).WithValues("driver", driver)

	version, err := changelog.ReadVersion(ctx, filepath.Join(repoPath, "debian", driver, "changelog"))
	if err != nil {
		version = VersionNotFound
	}

	hash := HashNotFound
	commit, err := r.vcs.LatestCommit(ctx, repoPath, driver)
	if err != nil {
		log.Error(err, "failed to fetch git hash")
	} else {
		hash = commit.Hash
	}
	return v1.Record{Driver: driver, Version: version, GitHash: hash}
}
