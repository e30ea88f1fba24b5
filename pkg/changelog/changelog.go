package changelog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
)

var (
	ErrNotFound  = errors.New("changelog not found")
	ErrMalformed = errors.New("malformed changelog entry")
)

// ParseHeader extracts the version from a changelog header line
// such as "indi-asi (2.5-1) unstable; urgency=medium".
func ParseHeader(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	v := strings.Trim(fields[1], "()")
	if v == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	return v, nil
}

// ReadVersion returns the version of the most recent entry in
// the changelog at path. Only the first line is read.
func ReadVersion(ctx context.Context, path string) (string, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("path", path)

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			log.V(3).Info("changelog does not exist")
			return "", ErrNotFound
		}
		log.Error(err, "failed to open changelog")
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			log.Error(err, "failed to read changelog")
			return "", err
		}
		return "", fmt.Errorf("%w: empty file", ErrMalformed)
	}
	v, err := ParseHeader(strings.TrimSpace(scanner.Text()))
	if err != nil {
		log.Error(err, "failed to read version from changelog")
		return "", err
	}
	log.V(3).Info("read changelog version", "version", v)
	return v, nil
}
