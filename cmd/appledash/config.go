package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/appledash/internal/config"
)

var flagShowConfig string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration a session would start with, after the search
order and APPLEDASH_* environment overrides are applied.

Search order:
  --config <path>
  ~/.appledash/configs/appledash.yaml
  ./configs/appledash.yaml
  built-in defaults

Examples:
  appledash config > ~/.appledash/configs/appledash.yaml
  APPLEDASH_ENGINE=chipmunk appledash config`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagShowConfig, "config", "", "Path to custom config YAML")
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(flagShowConfig, nil)
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}

	if path := config.Resolve(flagShowConfig); path != "" {
		fmt.Printf("# source: %s\n", path)
	} else {
		fmt.Println("# source: built-in defaults")
	}
	fmt.Print(string(data))
	return nil
}
