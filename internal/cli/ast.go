package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stylec/internal/compiler"
	"stylec/internal/frontend/ast"
)

func newASTCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "ast file",
		Short: "Print the tree a stylesheet compiles to, after nesting is flattened and media bubbled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.resolve(cmd)
			if err != nil {
				return err
			}
			opts := compileOptions(cfg, cmd.ErrOrStderr())
			opts.EntryFile = args[0]

			r := compiler.Compile(cmd.Context(), &opts)
			if r.Output != "" {
				fmt.Fprint(cmd.ErrOrStderr(), r.Output)
			}
			if !r.Success {
				return ErrFailed
			}
			ast.Dump(cmd.OutOrStdout(), r.Tree)
			return nil
		},
	}
}
