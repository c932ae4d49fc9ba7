package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pose-viewer/internal/startup"
)

var rootCmd = &cobra.Command{
	Use:     "posecli",
	Short:   "Pose skeleton overlay for video files",
	Version: startup.Version,
}

func main() {
	// Stop cleanly on Ctrl+C so a partial transcode is not left behind
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
