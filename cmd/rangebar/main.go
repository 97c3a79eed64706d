// Package main is the entry point for the rangebar CLI.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dshills/rangebar/internal/config"
	"github.com/dshills/rangebar/internal/logging"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rangebar",
		Short:         "Multi-handle range slider for the terminal",
		Long:          `rangebar drives a bar of handles bound by ranges. It runs interactively in the terminal or renders the settled state as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(runCmd())
	cmd.AddCommand(dumpCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads the configuration file layered over the defaults and
// under the environment.
func loadConfig(path string) (*config.Document, error) {
	doc, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return doc, nil
}

// newLogger builds the logger described by the document's log section,
// writing to out.
func newLogger(doc *config.Document, out io.Writer) (zerolog.Logger, error) {
	cfg := logging.DefaultConfig()
	cfg.Level = doc.Log.Level
	cfg.Format = logging.Format(doc.Log.Format)
	cfg.Output = out
	return logging.New(cfg)
}
