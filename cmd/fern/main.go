package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fern",
		Short: "Server-driven UI for Go",
		Long: `Fern renders component trees on the server and streams DOM
mutations to a thin JavaScript client over WebSocket.

  • Components with lifecycle hooks and reactive state
  • Positional reconciliation against any host tree
  • Binary mutation protocol, one batch per event
  • Prometheus metrics and OpenTelemetry traces built in`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		publishCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}
