package cmd

import (
	"testing"

	v1 "github.com/djcass44/indi-audit/pkg/api/v1"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	c := &cobra.Command{}
	c.Flags().StringP(flagConfig, "c", "", "")
	c.Flags().String(flagIndex, "", "")
	c.Flags().StringArray(flagRepository, nil, "")
	c.Flags().String(flagArch, "", "")
	require.NoError(t, c.Flags().Parse(args))
	return c
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := loadConfig(newTestCommand(t), compareVariant)
		require.NoError(t, err)
		assert.EqualValues(t, v1.DefaultUpstreamURL, cfg.Spec.Upstream.URL)
		assert.EqualValues(t, v1.DefaultMirrorURL, cfg.Spec.Mirror.URL)
		assert.EqualValues(t, v1.IndexApt, cfg.Spec.Index.Type)
		assert.EqualValues(t, []string{"indi-"}, cfg.Spec.DriverPrefixes)
		assert.EqualValues(t, []string{"indi-", "lib"}, cfg.Spec.Index.Prefixes)
	})
	t.Run("config file overrides defaults", func(t *testing.T) {
		cfg, err := loadConfig(newTestCommand(t, "-c", "./testdata/config.yaml"), mergedVariant)
		require.NoError(t, err)
		assert.EqualValues(t, "ubuntu-noble", cfg.Name)
		assert.EqualValues(t, "${HOME}/src/indi-3rdparty", cfg.Spec.Upstream.Path)
		assert.EqualValues(t, v1.DefaultUpstreamURL, cfg.Spec.Upstream.URL)
		assert.EqualValues(t, []string{"libapogee"}, cfg.Spec.Options.IgnoreList)
		assert.True(t, cfg.Spec.Options.NormalizeSonames)
		assert.EqualValues(t, []string{"http://archive.ubuntu.com/ubuntu noble universe"}, cfg.Spec.Index.Repositories)
	})
	t.Run("flags override the config file", func(t *testing.T) {
		cfg, err := loadConfig(newTestCommand(t, "-c", "./testdata/config.yaml", "--index", "packages", "--repository", "/var/lib/apt/lists/Packages", "--arch", "arm64"), depsVariant)
		require.NoError(t, err)
		assert.EqualValues(t, v1.IndexPackages, cfg.Spec.Index.Type)
		assert.EqualValues(t, []string{"/var/lib/apt/lists/Packages"}, cfg.Spec.Index.Repositories)
		assert.EqualValues(t, "arm64", cfg.Spec.Index.Arch)
	})
	t.Run("missing config file", func(t *testing.T) {
		_, err := loadConfig(newTestCommand(t, "-c", "./testdata/missing.yaml"), compareVariant)
		assert.Error(t, err)
	})
}

func TestVariants(t *testing.T) {
	var cases = []struct {
		name     string
		variant  func(spec *v1.ConfigSpec)
		prefixes []string
		opts     v1.Options
	}{
		{
			"compare",
			compareVariant,
			[]string{"indi-"},
			v1.Options{NormalizeSonames: true, IndexVersions: true},
		},
		{
			"merged",
			mergedVariant,
			[]string{"indi-", "lib"},
			v1.Options{NormalizeSonames: true, IgnoreList: v1.DefaultIgnoreList},
		},
		{
			"deps",
			depsVariant,
			[]string{"indi-", "lib"},
			v1.Options{NormalizeSonames: true, SequenceByDependency: true, IgnoreList: v1.DefaultIgnoreList, IndexVersions: true},
		},
		{
			"list",
			listVariant,
			[]string{"indi-"},
			v1.Options{},
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			spec := v1.DefaultConfig().Spec
			tt.variant(&spec)
			assert.EqualValues(t, tt.prefixes, spec.DriverPrefixes)
			assert.EqualValues(t, tt.opts, spec.Options)
		})
	}
}
