package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/sqlite-ext-bundle/internal/service/installer"
)

// listCmd prints the extensions available for the host platform.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List extensions available for this platform",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		available, err := installer.ListAvailable(ctx, &installer.Options{
			ConfigPath: configPath,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		if len(available) == 0 {
			_, _ = fmt.Fprintln(out, "no extensions are available for this platform")
			return nil
		}

		for _, info := range available {
			_, _ = fmt.Fprintf(out, "%s\t%s\tsqlite>=%s\t%s\n",
				info.ID, info.Variant.Version, info.SQLiteMinVersion,
				strings.Join(info.EntryPoints, ","))
		}

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(listCmd)
}
