package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/funvibe/jsmm/internal/backend"
	"github.com/funvibe/jsmm/internal/evaluator"
	"github.com/funvibe/jsmm/internal/exercise"
	"github.com/funvibe/jsmm/internal/store"
)

type runOptions struct {
	strategy  string
	exercise  string
	trace     bool
	commands  bool
	noHistory bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run a program",
		Long: `Run a program and print its console output.

An exercise file (jsmm.yaml, jsmm.yml or jsmm.toml) next to the program or
in a parent directory sets the strategy, the allowed commands, the limits
and the expected outcome.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(cmd, root, opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "", "raw, safe or step (default from the exercise, else safe)")
	cmd.Flags().StringVarP(&opts.exercise, "exercise", "e", "", "exercise file (default: searched from the program's directory)")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "print the step narration (implies --strategy step)")
	cmd.Flags().BoolVar(&opts.commands, "commands", false, "print the commands the program used")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "do not record the run")
	return cmd
}

// loadExercise returns the exercise for path and whether one was found.
func loadExercise(explicit, path string) (*exercise.Config, bool, error) {
	if explicit == "" {
		found, err := exercise.FindConfig(filepath.Dir(path))
		if err != nil {
			return nil, false, err
		}
		if found == "" {
			return exercise.Default(), false, nil
		}
		explicit = found
	}
	cfg, err := exercise.LoadConfig(explicit)
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

func runFile(cmd *cobra.Command, root *rootOptions, opts *runOptions, path string) error {
	logger := root.log()
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	cfg, graded, err := loadExercise(opts.exercise, path)
	if err != nil {
		return err
	}
	if graded {
		logger.Debug("exercise loaded", "name", cfg.Name, "strategy", cfg.Strategy)
	}

	strategy := cfg.Strategy
	switch {
	case opts.trace:
		strategy = evaluator.Stepped.String()
	case opts.strategy != "":
		strategy = opts.strategy
	}
	b, err := backend.ForStrategy(strategy)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if d := cfg.Timeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	out, err := backend.Execute(b, backend.Request{
		Context: ctx,
		Path:    path,
		Source:  string(src),
		Options: cfg.Options(),
		Hosts:   cfg.Hosts,
	})
	if err != nil {
		return err
	}
	logger.Debug("program finished", "strategy", b.Name(), "failed", out.SyntaxError() != nil || out.Err() != nil)

	w := cmd.OutOrStdout()
	p := styles(w)
	for _, line := range out.Console.Lines() {
		fmt.Fprintln(w, p.console(line.Text, line.Color))
	}
	if out.Result != nil {
		if opts.trace {
			printTrace(w, p, out.Result.Steps)
		}
		if opts.commands {
			printCommands(w, p, out.Result.Commands)
		}
	}

	failed := reportFailure(cmd.ErrOrStderr(), out)

	if !opts.noHistory {
		if err := record(cmd.Context(), root, b.Name(), string(src), out); err != nil {
			logger.Warn("run not recorded", "error", err)
		}
	}

	if graded {
		var syntaxErr error
		if d := out.SyntaxError(); d != nil {
			syntaxErr = d
		}
		if err := cfg.Check(out.Console.Output(), syntaxErr, out.Err()); err != nil {
			fmt.Fprintln(w, p.errorText("Exercise not passed: "+err.Error()))
			return errFailed
		}
		fmt.Fprintln(w, p.okText("Exercise passed!"))
		return nil
	}
	if failed {
		return errFailed
	}
	return nil
}

// reportFailure prints the syntax or runtime error of out, if any.
func reportFailure(w io.Writer, out *backend.Outcome) bool {
	p := styles(w)
	if d := out.SyntaxError(); d != nil {
		fmt.Fprintf(w, "%s %s\n", p.errorText(fmt.Sprintf("%s:%d:%d:", d.File, d.Token.Line, d.Token.Column)), p.markup(d.Message))
		return true
	}
	e := out.Err()
	if e == nil {
		return false
	}
	fmt.Fprintf(w, "%s %s\n", p.errorText(fmt.Sprintf("%s at line %d:", e.Class, e.Line)), p.markup(e.Message))
	for i := len(e.StackTrace) - 1; i >= 0; i-- {
		frame := e.StackTrace[i]
		fmt.Fprintln(w, p.muted(fmt.Sprintf("  at line %d (called %s)", frame.Line, frame.Name)))
	}
	return true
}

func printTrace(w io.Writer, p palette, steps []evaluator.Step) {
	for i, st := range steps {
		prefix := fmt.Sprintf("%4d ", i+1)
		if len(st.Stack) > 0 {
			prefix += strings.Join(st.Stack, " > ") + " > "
		}
		msgs := make([]string, 0, len(st.Fragments))
		for _, f := range st.Fragments {
			msgs = append(msgs, p.markup(f.Message))
		}
		fmt.Fprintln(w, p.muted(prefix)+strings.Join(msgs, "; "))
	}
}

func printCommands(w io.Writer, p palette, cmds []evaluator.Command) {
	counts := make(map[string]int)
	var order []string
	for _, c := range cmds {
		if counts[c.Tag] == 0 {
			order = append(order, c.Tag)
		}
		counts[c.Tag]++
	}
	fmt.Fprintln(w, p.muted("commands:"))
	for _, tag := range order {
		fmt.Fprintf(w, "  %-12s %d\n", tag, counts[tag])
	}
}

func record(ctx context.Context, root *rootOptions, strategy, src string, out *backend.Outcome) error {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := root.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	run := store.FromOutcome(strategy, src, out)
	var steps []evaluator.Step
	if out.Result != nil {
		steps = out.Result.Steps
	}
	if err := st.Save(ctx, run, steps); err != nil {
		return err
	}
	root.log().Debug("run recorded", "id", run.ID)
	return nil
}
