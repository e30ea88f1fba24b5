package apt

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/djcass44/indi-audit/pkg/packages"
	"github.com/go-logr/logr"
)

var ErrMissing = errors.New("apt-cache is not installed or available on this system")

const candidateNone = "(none)"

// runner executes a command and returns its standard output.
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Cache queries the local package cache through apt-cache.
type Cache struct {
	binary string
	run    runner
}

func NewCache() (*Cache, error) {
	bin, err := exec.LookPath("apt-cache")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissing, err)
	}
	return &Cache{binary: bin, run: execRunner}, nil
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

func (c *Cache) Search(ctx context.Context, query string) ([]string, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("query", query)
	out, err := c.run(ctx, c.binary, "search", query)
	if err != nil {
		log.Error(err, "failed to search package cache")
		return nil, err
	}
	names := parseSearch(out)
	log.V(1).Info("searched package cache", "count", len(names))
	return names, nil
}

func (c *Cache) Policy(ctx context.Context, name string) (string, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("name", name)
	out, err := c.run(ctx, c.binary, "policy", name)
	if err != nil {
		log.Error(err, "failed to fetch package policy")
		return "", err
	}
	v, ok := parsePolicy(out)
	if !ok {
		log.V(2).Info("package has no candidate version")
		return "", packages.ErrNotFound
	}
	return v, nil
}

func (c *Cache) Depends(ctx context.Context, name string) ([]string, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("name", name)
	out, err := c.run(ctx, c.binary, "depends", name)
	if err != nil {
		log.Error(err, "failed to fetch package dependencies")
		return nil, err
	}
	return parseDepends(out), nil
}

// parseSearch extracts the package name from each
// "name - description" line.
func parseSearch(out []byte) []string {
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		names = append(names, fields[0])
	}
	return names
}

func parsePolicy(out []byte) (string, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		_, after, ok := strings.Cut(line, "Candidate:")
		if !ok {
			continue
		}
		fields := strings.Fields(after)
		if len(fields) == 0 || fields[0] == candidateNone {
			return "", false
		}
		return fields[0], true
	}
	return "", false
}

// parseDepends only considers plain "Depends:" lines. Alternatives
// ("|Depends:") and other relationships are skipped.
func parseDepends(out []byte) []string {
	var deps []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "  Depends:") {
			continue
		}
		dep := strings.TrimSpace(strings.TrimPrefix(line, "  Depends:"))
		if dep == "" {
			continue
		}
		deps = append(deps, dep)
	}
	return deps
}
