package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/rangebar/internal/app"
)

var errNoTerminal = errors.New("run needs an interactive terminal; use dump for headless output")

func runCmd() *cobra.Command {
	var (
		configPath string
		watch      bool
		debounce   time.Duration
		logFile    string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the slider interactively in the terminal",
		Long: `Run draws the bar in the terminal. Drag handles with the mouse, step the
focused handle with the arrow keys, cycle focus with Tab, toggle the bar with
d and quit with q, Esc or Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return errNoTerminal
			}

			doc, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			// The screen owns the terminal, so logs go to a file or nowhere.
			var out io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				out = f
			}
			log, err := newLogger(doc, out)
			if err != nil {
				return err
			}

			a, err := app.New(app.Options{
				ConfigPath: configPath,
				Document:   doc,
				Watch:      watch,
				Debounce:   debounce,
				Logger:     log,
			})
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					log.Warn().Err(err).Msg("close")
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return a.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (TOML, YAML or JSON)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the configuration when the file changes")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "Coalesce file events over this interval")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Append logs to this file")

	return cmd
}
