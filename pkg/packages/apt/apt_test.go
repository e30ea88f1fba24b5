package apt

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/djcass44/indi-audit/pkg/packages"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// interface guard
var _ packages.Index = &Cache{}

// fixtureRunner serves testdata/<subcommand>.txt, or
// testdata/<subcommand>-<arg>.txt when it exists.
func fixtureRunner(t *testing.T) runner {
	return func(_ context.Context, _ string, args ...string) ([]byte, error) {
		require.NotEmpty(t, args)
		candidates := []string{args[0] + ".txt"}
		if len(args) > 1 {
			candidates = append([]string{args[0] + "-" + args[1] + ".txt"}, candidates...)
		}
		for _, c := range candidates {
			data, err := os.ReadFile(filepath.Join("testdata", c))
			if err == nil {
				return data, nil
			}
		}
		return nil, errors.New("exit status 100: " + strings.Join(args, " "))
	}
}

func TestCache(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))
	c := &Cache{binary: "apt-cache", run: fixtureRunner(t)}

	t.Run("search", func(t *testing.T) {
		names, err := c.Search(ctx, "indi-")
		assert.NoError(t, err)
		assert.EqualValues(t, []string{"indi-asi", "indi-bin", "indi-qhy", "libasi", "libasi-dev", "libindi1", "stellarsolver"}, names)
	})
	t.Run("policy", func(t *testing.T) {
		v, err := c.Policy(ctx, "indi-asi")
		assert.NoError(t, err)
		assert.EqualValues(t, "2.0.6-1build2", v)
	})
	t.Run("policy without candidate", func(t *testing.T) {
		_, err := c.Policy(ctx, "none")
		assert.ErrorIs(t, err, packages.ErrNotFound)
	})
	t.Run("depends", func(t *testing.T) {
		deps, err := c.Depends(ctx, "indi-asi")
		assert.NoError(t, err)
		assert.EqualValues(t, []string{"libasi", "libc6", "libindi-data", "<libusb-1.0-0>"}, deps)
	})
}

func TestCache_Failure(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))
	c := &Cache{binary: "apt-cache", run: func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exit status 100")
	}}

	_, err := c.Search(ctx, "indi-")
	assert.Error(t, err)
	_, err = c.Policy(ctx, "indi-asi")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, packages.ErrNotFound)
	_, err = c.Depends(ctx, "indi-asi")
	assert.Error(t, err)
}

func TestParsePolicy(t *testing.T) {
	var cases = []struct {
		in  string
		out string
		ok  bool
	}{
		{"  Candidate: 1.2.3-1build2\n", "1.2.3-1build2", true},
		{"  Candidate: (none)\n", "", false},
		{"N: Unable to locate package foo\n", "", false},
		{"", "", false},
	}
	for _, tt := range cases {
		t.Run(tt.in, func(t *testing.T) {
			out, ok := parsePolicy([]byte(tt.in))
			assert.EqualValues(t, tt.ok, ok)
			assert.EqualValues(t, tt.out, out)
		})
	}
}
