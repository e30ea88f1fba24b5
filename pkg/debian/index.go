package debian

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	version "github.com/knqyf263/go-deb-version"
	"github.com/ulikunitz/xz"
	"pault.ag/go/debian/control"
)

const (
	PackageFileGzip = "Packages.gz"
	PackageFileXZ   = "Packages.xz"
)

var ErrNotFound = errors.New("package not found in index")

// Downloader fetches a remote file and returns its local path.
type Downloader interface {
	Download(ctx context.Context, src string) (string, error)
}

// NewIndex downloads and decodes the Packages index of a
// repository, preferring the gzip variant over xz.
func NewIndex(ctx context.Context, dl Downloader, repository, release, component, arch string) (*Index, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("repo", repository, "release", release, "component", component, "arch", arch)

	var errs []error
	for _, filename := range []string{PackageFileGzip, PackageFileXZ} {
		target := fmt.Sprintf("%s/dists/%s/%s/binary-%s/%s", strings.TrimSuffix(repository, "/"), release, component, arch, filename)
		log.V(1).Info("downloading index", "filename", filename)
		path, err := dl.Download(ctx, target)
		if err != nil {
			log.V(1).Info("failed to locate package index", "url", target)
			errs = append(errs, err)
			continue
		}
		return newIndex(ctx, repository, path)
	}
	return nil, fmt.Errorf("downloading index: %w", errors.Join(errs...))
}

// Open decodes a Packages index from the local filesystem. The
// compression is selected by the file extension.
func Open(ctx context.Context, path string) (*Index, error) {
	return newIndex(ctx, path, path)
}

func newIndex(ctx context.Context, source, path string) (*Index, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("source", source, "path", path)
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := decompress(path, f)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	defer r.Close()

	dec, err := control.NewDecoder(r, nil)
	if err != nil {
		return nil, err
	}
	var out []Package
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	log.V(1).Info("successfully decoded index", "count", len(out))
	return &Index{
		packages: out,
		source:   source,
	}, nil
}

func decompress(path string, r io.Reader) (io.ReadCloser, error) {
	switch filepath.Ext(path) {
	case ".gz":
		return gzip.NewReader(r)
	case ".xz":
		reader, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(reader), nil
	case ".zst":
		reader, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return reader.IOReadCloser(), nil
	default:
		return io.NopCloser(r), nil
	}
}

func (idx *Index) Count() int {
	return len(idx.packages)
}

func (idx *Index) Source() string {
	return idx.source
}

// Names returns the unique package names in the index
// in the order they first appear.
func (idx *Index) Names() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range idx.packages {
		if _, ok := seen[p.Package]; ok {
			continue
		}
		seen[p.Package] = struct{}{}
		out = append(out, p.Package)
	}
	return out
}

// Candidate returns the stanza of name with the highest
// version.
func (idx *Index) Candidate(ctx context.Context, name string) (*Package, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("name", name)

	var best *Package
	var bestVersion version.Version
	for i := range idx.packages {
		p := &idx.packages[i]
		if p.Package != name {
			continue
		}
		v, err := version.NewVersion(p.Version)
		if err != nil {
			log.V(2).Info("skipping package with unparsable version", "version", p.Version, "err", err.Error())
			continue
		}
		if best == nil || v.GreaterThan(bestVersion) {
			best = p
			bestVersion = v
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	log.V(5).Info("found candidate", "version", best.Version, "deps", len(best.Depends))
	return best, nil
}

// Dependencies returns the names of every package the given
// stanza depends on, including all alternatives.
func (p *Package) Dependencies() ([]string, error) {
	var out []string
	for _, dep := range p.Depends {
		if strings.TrimSpace(dep) == "" {
			continue
		}
		rel, err := ParseRelation(dep)
		if err != nil {
			return nil, fmt.Errorf("parsing dependency '%s' of %s: %w", dep, p.Package, err)
		}
		out = append(out, rel.Names...)
	}
	return out, nil
}
