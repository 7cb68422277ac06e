package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/sqlite-ext-bundle/internal/service/installer"
)

// installCmd installs verified extension bundles for the host platform.
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Verify and install extension bundles for this platform",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		return installer.Run(ctx, &installer.Options{
			ConfigPath: configPath,
		})
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(installCmd)
}
