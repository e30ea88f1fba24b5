package downloader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-getter"
)

func NewDownloader(cacheDir string) (*Downloader, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}
	return &Downloader{cacheDir: cacheDir}, nil
}

// Download fetches src without decompressing it. Files are stored
// under a name derived from the full source so that indices from
// different repositories do not collide.
func (d *Downloader) Download(ctx context.Context, src string) (string, error) {
	log := logr.FromContextOrDiscard(ctx)
	log.V(1).Info("downloading file", "src", src)

	uri, err := url.Parse(src)
	if err != nil {
		log.Error(err, "failed to parse url")
		return "", err
	}
	// the index reader picks a decompressor from
	// the file extension
	q := uri.Query()
	q.Set("archive", "false")
	uri.RawQuery = q.Encode()

	dst := filepath.Join(d.cacheDir, HashString(src)+"-"+filepath.Base(uri.Path))
	log.V(2).Info("preparing to download file", "dst", dst)

	client := &getter.Client{
		Ctx:             ctx,
		Src:             uri.String(),
		Dst:             dst,
		Mode:            getter.ClientModeFile,
		DisableSymlinks: true,
	}
	if err := client.Get(); err != nil {
		log.V(1).Info("failed to download file", "src", src, "err", err.Error())
		return "", err
	}
	return dst, nil
}

// HashString returns the first 12 characters of the
// hex-encoded SHA256 of s.
func HashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])[:12]
}
