package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/sqlite-ext-bundle/internal/service/bundler"
)

var (
	// refreshVersion is recorded on every refreshed variant.
	refreshVersion string

	// refreshCompiler identifies the toolchain that built the staged bundles.
	refreshCompiler string

	// refreshCmd recomputes manifest digests from staged bundles.
	refreshCmd = &cobra.Command{
		Use:   "refresh",
		Short: "Refresh manifest digests from staged bundles for this platform",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return bundler.Run(ctx, &bundler.Options{
				ConfigPath: configPath,
				Version:    refreshVersion,
				Compiler:   refreshCompiler,
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	refreshCmd.Flags().StringVar(&refreshVersion, "version", "",
		"version to record on refreshed variants")
	refreshCmd.Flags().StringVar(&refreshCompiler, "compiler", "",
		"compiler identifier to record on refreshed variants")

	rootCmd.AddCommand(refreshCmd)
}
