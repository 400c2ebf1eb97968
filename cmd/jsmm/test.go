package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/funvibe/jsmm/internal/conformance"
)

func newTestCmd(root *rootOptions) *cobra.Command {
	var (
		all    bool
		random int
		seed   int64
	)
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check that the strategies agree on the built-in corpus",
		Long: `Check that the strategies agree on the built-in corpus.

With --random, generated programs are checked as well. A failing random
case can be reproduced with the same --seed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			p := styles(w)
			cases := conformance.Corpus
			if random > 0 {
				root.log().Debug("generating programs", "count", random, "seed", seed)
				cases = append(cases[:len(cases):len(cases)], conformance.RandomCases(seed, random)...)
			}
			reports := conformance.RunAll(cmd.Context(), cases)
			failed := false
			for _, r := range reports {
				switch {
				case !r.Passed():
					failed = true
					fmt.Fprintln(w, p.errorText(r.String()))
				case all || root.verbose:
					fmt.Fprintln(w, r.String())
				}
			}
			summary := conformance.Summary(reports)
			if failed {
				fmt.Fprintln(w, p.errorText(summary))
				return errFailed
			}
			fmt.Fprintln(w, p.okText(summary))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "also list the cases that passed")
	cmd.Flags().IntVar(&random, "random", 0, "number of generated programs to check in addition")
	cmd.Flags().Int64Var(&seed, "seed", 1, "seed for --random")
	return cmd
}
