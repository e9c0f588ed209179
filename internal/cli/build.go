package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"stylec/internal/compiler"
	"stylec/internal/config"
)

func newBuildCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "build [files...]",
		Short: "Compile stylesheets once",
		Long: "Compile each file to CSS. Without files, or with \"-\", the stylesheet is\n" +
			"read from stdin and the CSS written to stdout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.resolve(cmd)
			if err != nil {
				return err
			}
			opts := compileOptions(cfg, cmd.ErrOrStderr())

			if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
				code, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				opts.Code = string(code)
				ok, err := report(cmd, cfg, "stdin.scss", compiler.Compile(cmd.Context(), &opts))
				if err != nil {
					return err
				}
				if !ok {
					return ErrFailed
				}
				return nil
			}

			return buildFiles(cmd, cfg, opts, args)
		},
	}
}

func buildFiles(cmd *cobra.Command, cfg *config.Config, opts compiler.Options, files []string) error {
	results, err := compiler.CompileAll(cmd.Context(), files, opts)
	if err != nil {
		return err
	}

	failed := 0
	for i, r := range results {
		ok, err := report(cmd, cfg, files[i], r)
		if err != nil {
			return err
		}
		if !ok {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d stylesheets", ErrFailed, failed, len(files))
	}
	return nil
}
