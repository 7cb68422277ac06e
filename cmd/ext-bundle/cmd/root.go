package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/sqlite-ext-bundle/internal/config"
	"github.com/oshokin/sqlite-ext-bundle/internal/logger"
	"github.com/oshokin/sqlite-ext-bundle/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// logLevel overrides the configured log level.
	logLevel string

	// rootCmd represents the base command for managing extension bundles.
	rootCmd = &cobra.Command{
		Use:   "ext-bundle",
		Short: "Manage precompiled SQLite extension bundles",
		Long: "Manage a catalog of precompiled SQLite extension binaries: " +
			"refresh the manifest from staged bundles, list what is available " +
			"for the host platform, verify integrity and install verified " +
			"binaries into the runtime-loadable directory.",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// The flag wins over the configured level.
			level := logLevel
			if level == "" {
				if cfg, err := config.Load(configPath); err == nil {
					level = cfg.LogLevel
				}
			}

			if lvl, ok := logger.ParseLogLevel(level); ok {
				logger.SetLevel(lvl)
			}
		},
	}
)

// Execute runs the ext-bundle CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c",
		config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l",
		"", "log level (debug, info, warn, error)")
}
