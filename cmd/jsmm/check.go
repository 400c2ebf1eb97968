package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/funvibe/jsmm/internal/diagnostics"
	"github.com/funvibe/jsmm/internal/parser"
)

func newCheckCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Check that programs parse as jsmm",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			p := styles(w)
			failed := false
			for _, path := range args {
				src, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				_, err = parser.Parse(path, string(src))
				if err == nil {
					fmt.Fprintf(w, "%s %s\n", p.okText("ok"), path)
					continue
				}
				failed = true
				var d *diagnostics.DiagnosticError
				if !errors.As(err, &d) {
					return err
				}
				fmt.Fprintf(w, "%s %s:%d:%d: %s\n", p.errorText("error"), path, d.Token.Line, d.Token.Column, p.markup(d.Message))
			}
			root.log().Debug("checked", "files", len(args), "failed", failed)
			if failed {
				return errFailed
			}
			return nil
		},
	}
}
