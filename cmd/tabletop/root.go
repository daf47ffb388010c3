package main

import (
	"fmt"
	"os"

	"github.com/phanxgames/tabletop"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "tabletop",
	Short: "Tabletop - a 3D virtual tabletop",
	Long: `Tabletop places pieces on a ground plane, selects them with single and
multi-select clicks, and moves them by dragging the pointer.`,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a tabletop.yaml config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// loadConfig returns the config named by --config, or the defaults.
func loadConfig() (tabletop.Config, error) {
	if configPath == "" {
		return tabletop.DefaultConfig(), nil
	}
	cfg, err := tabletop.LoadConfig(configPath)
	if err != nil {
		return tabletop.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newLogger builds a development logger with --verbose and a production
// logger otherwise.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
