package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var (
	// Global flags
	verbose bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "framesim",
	Short: "Simulate a GPU frame loop and report transient memory usage",
	Long: `framesim runs the framekit frame loop on a software GPU. It allocates
persistent descriptors, transient descriptor tables and frame constants the way a
renderer would, then reports how the heaps, rings and constant pages behaved.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every frame operation to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}
		os.Exit(1)
	}
}

// newLogger returns a debug logger on stderr when --verbose is set, and a logger that only
// reports errors otherwise
func newLogger(stderr io.Writer) *slog.Logger {
	level := slog.LevelError
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.HandlerOptions{Level: level}.NewTextHandler(stderr))
}
