/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/allbin/tempscope/internal/app"
	"github.com/allbin/tempscope/internal/config"
	"github.com/allbin/tempscope/internal/logging"
)

// rootCmd runs the live plotter
var rootCmd = &cobra.Command{
	Use:   "tempscope",
	Short: "Live terminal chart of a USB temperature sensor",
	Long: `tempscope finds the temperature sensor (USB VID:PID F055:0012), reads one
temperature per line at 115200 baud and draws the last 100 samples as a live
chart with the window average and the latest reading.

Every serial port considered during discovery is printed before the chart
opens. Press q or esc to quit, ctrl+c to interrupt, s to save a PNG of the
current window and ? for help.

Logging, the discovery backend, the metrics endpoint and the snapshot
directory are read from tempscope.yaml (working directory or
$HOME/.config/tempscope) and TEMPSCOPE_* environment variables.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPlotter,
}

// reportedError marks an error that was already shown to the user
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

func runPlotter(cmd *cobra.Command, args []string) error {
	// Held for the whole command so an interrupt during setup still ends in
	// the termination message instead of the default signal exit
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := plot(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	// The port is released by now, whatever happened
	fmt.Println("Program terminated.")

	if err != nil {
		return reportedError{err}
	}
	return nil
}

func plot(ctx context.Context) error {
	cfg, logger, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()

	return app.New(cfg, logger).Run(ctx)
}

// setup loads configuration and opens the session log
func setup() (*config.Config, *zap.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	logger, closeFn, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, logger, func() { _ = closeFn() }, nil
}

// Execute runs the root command and exits with status 1 on failure
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
