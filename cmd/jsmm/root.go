package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/funvibe/jsmm/internal/store"
)

// errFailed is returned by commands that already reported the failure.
var errFailed = errors.New("failed")

type rootOptions struct {
	verbose bool
	dbPath  string
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "jsmm",
		Short: "Run jsmm programs",
		Long: `jsmm runs programs written in a small, strict subset of JavaScript.

Programs run under one of three strategies:
  raw   - plain JavaScript semantics, no checks
  safe  - every operation is checked, errors point at the offending code
  step  - like safe, and every step is narrated`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", store.DefaultPath(), "run history database")

	root.AddCommand(
		newRunCmd(opts),
		newCheckCmd(opts),
		newTestCmd(opts),
		newServeCmd(opts),
		newHistoryCmd(opts),
	)
	return root
}

func (o *rootOptions) log() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return o.logger
}

func (o *rootOptions) openStore() (*store.Store, error) {
	o.log().Debug("opening history", "path", o.dbPath)
	return store.Open(o.dbPath)
}
