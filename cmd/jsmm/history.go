package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/funvibe/jsmm/internal/store"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [ID]",
		Short: "List recorded runs, or show one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := root.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if len(args) == 1 {
				return showRun(ctx, cmd, st, args[0])
			}
			return listRuns(ctx, cmd, st, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list (0 for all)")
	return cmd
}

func listRuns(ctx context.Context, cmd *cobra.Command, st *store.Store, limit int) error {
	runs, err := st.List(ctx, limit)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	p := styles(w)
	if len(runs) == 0 {
		fmt.Fprintln(w, p.muted("no runs recorded"))
		return nil
	}
	for _, r := range runs {
		outcome := p.okText("ok")
		if r.Failed() {
			outcome = p.errorText(r.ErrorClass)
		}
		fmt.Fprintf(w, "%s  %s  %-4s  %s  %s\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Strategy, outcome, p.muted(firstLine(r.Source)))
	}
	return nil
}

func showRun(ctx context.Context, cmd *cobra.Command, st *store.Store, id string) error {
	r, err := st.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	steps, err := st.Steps(ctx, id)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	p := styles(w)
	fmt.Fprintf(w, "run %s (%s, %s, %d statements)\n", r.ID, r.Strategy, r.CreatedAt.Local().Format(time.DateTime), r.Statements)
	fmt.Fprintln(w, p.muted("source:"))
	fmt.Fprintln(w, r.Source)
	if r.Output != "" {
		fmt.Fprintln(w, p.muted("output:"))
		fmt.Fprint(w, r.Output)
	}
	if r.Failed() {
		fmt.Fprintln(w, p.errorText(fmt.Sprintf("%s at %d:%d: %s", r.ErrorClass, r.ErrorLine, r.ErrorColumn, r.ErrorMessage)))
	}
	if len(steps) > 0 {
		fmt.Fprintln(w, p.muted("steps:"))
		for _, s := range steps {
			fmt.Fprintf(w, "%4d  %s\n", s.Step+1, p.markup(s.Message))
		}
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
