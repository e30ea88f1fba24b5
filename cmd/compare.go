package cmd

import (
	"errors"
	"fmt"
	"os"

	v1 "github.com/djcass44/indi-audit/pkg/api/v1"
	"github.com/djcass44/indi-audit/pkg/audit"
	"github.com/djcass44/indi-audit/pkg/downloader"
	"github.com/djcass44/indi-audit/pkg/packages"
	"github.com/djcass44/indi-audit/pkg/packages/apt"
	"github.com/djcass44/indi-audit/pkg/packages/debian"
	"github.com/djcass44/indi-audit/pkg/report"
	"github.com/djcass44/indi-audit/pkg/vcs"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "compare upstream drivers with the versions in the package index",
	Args:  cobra.NoArgs,
	RunE:  runVariant(compareVariant),
}

var mergedCmd = &cobra.Command{
	Use:   "merged",
	Short: "report drivers and libraries with versions derived from their packaging repositories",
	Args:  cobra.NoArgs,
	RunE:  runVariant(mergedVariant),
}

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "report drivers and libraries in dependency order",
	Args:  cobra.NoArgs,
	RunE:  runVariant(depsVariant),
}

func compareVariant(spec *v1.ConfigSpec) {
	spec.DriverPrefixes = []string{"indi-"}
	spec.Options = v1.Options{
		NormalizeSonames: true,
		IndexVersions:    true,
	}
}

func mergedVariant(spec *v1.ConfigSpec) {
	spec.DriverPrefixes = []string{"indi-", "lib"}
	spec.Options = v1.Options{
		NormalizeSonames: true,
		IgnoreList:       v1.DefaultIgnoreList,
	}
}

func depsVariant(spec *v1.ConfigSpec) {
	spec.DriverPrefixes = []string{"indi-", "lib"}
	spec.Options = v1.Options{
		NormalizeSonames:     true,
		SequenceByDependency: true,
		IgnoreList:           v1.DefaultIgnoreList,
		IndexVersions:        true,
	}
}

func runVariant(variant func(spec *v1.ConfigSpec)) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		log := logr.FromContextOrDiscard(cmd.Context())

		cfg, err := loadConfig(cmd, variant)
		if err != nil {
			return err
		}

		git, err := vcs.NewGit()
		if err != nil {
			return fmt.Errorf("%w, please install Git and try again", err)
		}

		index, cleanup, err := newIndex(cmd, cfg.Spec.Index)
		if err != nil {
			if errors.Is(err, apt.ErrMissing) {
				log.Error(err, "package index is unavailable")
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Please install apt-cache to proceed. Using command 'sudo apt install apt-cache'")
				return nil
			}
			return err
		}
		defer cleanup()

		records, err := audit.New(cfg.Spec, git, index, cmd.OutOrStdout()).Compare(cmd.Context())
		if err != nil {
			if errors.Is(err, audit.ErrUpstreamUnavailable) {
				log.Error(err, "unable to read upstream drivers")
				return nil
			}
			return err
		}
		return report.Render(cmd.OutOrStdout(), records)
	}
}

// newIndex creates the configured package index. The returned
// function releases any temporary files.
func newIndex(cmd *cobra.Command, spec v1.IndexSpec) (packages.Index, func(), error) {
	log := logr.FromContextOrDiscard(cmd.Context())

	switch spec.Type {
	case v1.IndexApt, "":
		c, err := apt.NewCache()
		if err != nil {
			return nil, nil, err
		}
		return c, func() {}, nil
	case v1.IndexPackages:
		if len(spec.Repositories) == 0 {
			return nil, nil, errors.New("the packages index requires at least one repository")
		}
		tmp, err := os.MkdirTemp("", "indi-audit-*")
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := os.RemoveAll(tmp); err != nil {
				log.Error(err, "failed to remove download directory", "dir", tmp)
			}
		}
		dl, err := downloader.NewDownloader(tmp)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		keeper, err := debian.NewPackageKeeper(cmd.Context(), dl, spec.Arch, spec.Repositories)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		return keeper, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown package index: %s", spec.Type)
	}
}
