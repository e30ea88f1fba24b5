package cmd

import (
	"os"

	"github.com/djcass44/go-utils/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var command = &cobra.Command{
	Use:          "indi-audit",
	Short:        "compare INDI third-party drivers against Debian packages",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel, _ := cmd.Flags().GetInt(flagLogLevel)

		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.Level(logLevel * -1))

		_, ctx := logging.NewZap(cmd.Context(), zc)
		cmd.SetContext(ctx)
	},
}

const (
	flagLogLevel   = "v"
	flagConfig     = "config"
	flagIndex      = "index"
	flagRepository = "repository"
	flagArch       = "arch"
)

func init() {
	command.PersistentFlags().Int(flagLogLevel, 0, "log level. Higher is more")
	command.PersistentFlags().StringP(flagConfig, "c", "", "path to a configuration file")
	command.PersistentFlags().String(flagIndex, "", "package index to query (apt, packages)")
	command.PersistentFlags().StringArray(flagRepository, nil, "Debian repository ('base release component') or Packages file, used by the 'packages' index")
	command.PersistentFlags().String(flagArch, "", "architecture of remote Packages indices")

	_ = command.MarkPersistentFlagFilename(flagConfig, ".yaml", ".yml", ".json")
	command.AddCommand(compareCmd, mergedCmd, depsCmd, listCmd)
}

func Execute(version string) {
	command.Version = version
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
