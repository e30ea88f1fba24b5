package cmd

import (
	"os"

	v1 "github.com/djcass44/indi-audit/pkg/api/v1"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/util/yaml"
)

// loadConfig builds the configuration of a variant. Defaults are
// applied first, then the configuration file, then any flags.
func loadConfig(cmd *cobra.Command, variant func(spec *v1.ConfigSpec)) (v1.Config, error) {
	cfg := v1.DefaultConfig()
	variant(&cfg.Spec)

	configPath, _ := cmd.Flags().GetString(flagConfig)
	if configPath != "" {
		if err := readConfig(configPath, &cfg); err != nil {
			return v1.Config{}, err
		}
	}

	if cmd.Flags().Changed(flagIndex) {
		index, _ := cmd.Flags().GetString(flagIndex)
		cfg.Spec.Index.Type = v1.IndexType(index)
	}
	if cmd.Flags().Changed(flagRepository) {
		cfg.Spec.Index.Repositories, _ = cmd.Flags().GetStringArray(flagRepository)
	}
	if cmd.Flags().Changed(flagArch) {
		cfg.Spec.Index.Arch, _ = cmd.Flags().GetString(flagArch)
	}
	return cfg, nil
}

func readConfig(s string, config *v1.Config) error {
	f, err := os.Open(s)
	if err != nil {
		return err
	}
	defer f.Close()

	return yaml.NewYAMLOrJSONDecoder(f, 4).Decode(config)
}
