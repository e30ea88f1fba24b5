package cmd

import (
	"errors"
	"fmt"

	v1 "github.com/djcass44/indi-audit/pkg/api/v1"
	"github.com/djcass44/indi-audit/pkg/audit"
	"github.com/djcass44/indi-audit/pkg/vcs"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list upstream drivers with their changelog version and latest commit",
	Args:  cobra.NoArgs,
	RunE:  list,
}

func listVariant(spec *v1.ConfigSpec) {
	spec.DriverPrefixes = []string{"indi-"}
}

func list(cmd *cobra.Command, _ []string) error {
	log := logr.FromContextOrDiscard(cmd.Context())

	cfg, err := loadConfig(cmd, listVariant)
	if err != nil {
		return err
	}

	git, err := vcs.NewGit()
	if err != nil {
		return fmt.Errorf("%w, please install Git and try again", err)
	}

	if err := audit.New(cfg.Spec, git, nil, cmd.OutOrStdout()).List(cmd.Context()); err != nil {
		if errors.Is(err, audit.ErrUpstreamUnavailable) {
			log.Error(err, "unable to read upstream drivers")
			return nil
		}
		return err
	}
	return nil
}
