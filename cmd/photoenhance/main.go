// Command photoenhance applies color presets to photos and serves the enhancement web UI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "photoenhance",
		Short:         "Apply one-click color presets to photos.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		getApplyCmd(),
		getPresetsCmd(),
		getIdentifyCmd(),
		getServeCmd(),
	)

	return cmd
}
