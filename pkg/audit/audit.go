package audit

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/djcass44/indi-audit/pkg/airutil"
	v1 "github.com/djcass44/indi-audit/pkg/api/v1"
	"github.com/djcass44/indi-audit/pkg/drivers"
	"github.com/djcass44/indi-audit/pkg/packages"
	"github.com/djcass44/indi-audit/pkg/report"
	"github.com/djcass44/indi-audit/pkg/resolver"
	"github.com/djcass44/indi-audit/pkg/vcs"
	"github.com/go-logr/logr"
)

var ErrUpstreamUnavailable = errors.New("failed to clone or update the upstream repository")

type Auditor struct {
	spec  v1.ConfigSpec
	vcs   vcs.Client
	index packages.Index
	out   io.Writer
}

// New creates an Auditor. The index may be nil when only
// List is used.
func New(spec v1.ConfigSpec, client vcs.Client, index packages.Index, out io.Writer) *Auditor {
	return &Auditor{
		spec:  spec,
		vcs:   client,
		index: index,
		out:   out,
	}
}

// upstream clones or updates the third-party driver repository
// and returns its local path.
func (a *Auditor) upstream(ctx context.Context) (string, error) {
	log := logr.FromContextOrDiscard(ctx)

	path, err := airutil.Expand(a.spec.Upstream.Path, nil)
	if err != nil {
		return "", fmt.Errorf("expanding upstream path: %w", err)
	}
	log.V(1).Info("resolved destination path", "path", path)
	if err := a.vcs.Sync(ctx, airutil.ExpandEnv(a.spec.Upstream.URL), path); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	return path, nil
}

// Candidates returns the drivers that are published both upstream
// and in the package index, after applying the configured options.
func (a *Auditor) Candidates(ctx context.Context, upstreamPath string) []string {
	log := logr.FromContextOrDiscard(ctx)
	opts := a.spec.Options

	thirdParty, err := drivers.List(ctx, upstreamPath, a.spec.DriverPrefixes)
	if err != nil {
		log.Error(err, "error occurred while listing drivers")
	}

	var available []string
	names, err := a.index.Search(ctx, a.spec.Index.Query)
	if err != nil {
		log.Error(err, "error occurred while fetching packages")
	}
	for _, n := range names {
		if drivers.HasPrefix(n, a.spec.Index.Prefixes) {
			available = append(available, n)
		}
	}
	log.V(1).Info("found packages", "count", len(available))

	if opts.NormalizeSonames {
		available = drivers.NormalizeSonames(ctx, available)
	}
	common := drivers.Intersect(thirdParty, available)
	log.Info("found common drivers", "count", len(common))

	if opts.SequenceByDependency {
		common = drivers.Sequence(ctx, common, a.index)
	}
	return drivers.Ignore(ctx, common, opts.IgnoreList)
}

// Compare resolves the version of every driver common to the
// upstream repository and the package index. Drivers whose mirror
// repository cannot be synced are reported and left out.
func (a *Auditor) Compare(ctx context.Context) ([]v1.Record, error) {
	log := logr.FromContextOrDiscard(ctx)

	path, err := a.upstream(ctx)
	if err != nil {
		return nil, err
	}

	r := resolver.New(a.index, a.vcs, a.spec.Mirror, a.spec.Options.IndexVersions)

	var records []v1.Record
	for _, driver := range a.Candidates(ctx, path) {
		rec, err := r.Resolve(ctx, driver)
		if err != nil {
			log.Error(err, "failed to process driver", "driver", driver)
			_, _ = fmt.Fprintf(a.out, "Failed to process %s\n", driver)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// List prints the version and latest commit of every driver in the
// upstream repository, read from the repository itself.
func (a *Auditor) List(ctx context.Context) error {
	path, err := a.upstream(ctx)
	if err != nil {
		return err
	}

	list, err := drivers.List(ctx, path, a.spec.DriverPrefixes)
	if err != nil {
		logr.FromContextOrDiscard(ctx).Error(err, "error occurred while listing drivers")
	}

	if err := report.Header(a.out); err != nil {
		return err
	}
	if len(list) == 0 {
		_, err := fmt.Fprintln(a.out, "No drivers found or an error occurred.")
		return err
	}

	r := resolver.New(a.index, a.vcs, a.spec.Mirror, false)
	for _, driver := range list {
		if err := report.Row(a.out, r.ResolveUpstream(ctx, path, driver)); err != nil {
			return err
		}
	}
	return nil
}
