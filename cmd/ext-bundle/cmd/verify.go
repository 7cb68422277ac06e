package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/sqlite-ext-bundle/internal/service/installer"
)

// errVerificationFailed makes the command exit non-zero on a mismatch.
var errVerificationFailed = errors.New("verification failed")

// verifyCmd checks one file against the manifest digest for an extension.
var verifyCmd = &cobra.Command{
	Use:   "verify <extension-id> <path>",
	Short: "Verify a file against the manifest digest for this platform",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		ok, err := installer.VerifyFile(ctx, &installer.Options{
			ConfigPath: configPath,
		}, args[0], args[1])
		if err != nil {
			return err
		}

		if !ok {
			return fmt.Errorf("%s against %s: %w", args[1], args[0], errVerificationFailed)
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", args[1])

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(verifyCmd)
}
