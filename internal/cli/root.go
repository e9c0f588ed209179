// Package cli implements the stylec command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"stylec/colors"
	"stylec/internal/compiler"
	"stylec/internal/config"
	"stylec/internal/utils/fs"
)

// ErrFailed is returned when at least one stylesheet did not compile. Its
// diagnostics have already been written to stderr.
var ErrFailed = errors.New("compilation failed")

type settings struct {
	configPath     string
	style          string
	outDir         string
	loadPaths      []string
	debug          bool
	sourceComments bool
}

// NewRootCommand builds the stylec command tree.
func NewRootCommand(version string) *cobra.Command {
	s := &settings{}

	root := &cobra.Command{
		Use:           "stylec",
		Short:         "Compile SCSS stylesheets to CSS",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&s.style, "style", "s", "", "output style: nested, expanded, compact or compressed")
	flags.StringVarP(&s.outDir, "out-dir", "o", "", "write <name>.css files here instead of stdout")
	flags.StringVarP(&s.configPath, "config", "c", "", "config file (default: stylec.hcl or stylec.yaml in the working directory)")
	flags.StringSliceVarP(&s.loadPaths, "load-path", "I", nil, "extra directories searched for @import")
	flags.BoolVarP(&s.debug, "debug", "d", false, "print phase progress and debug logs")
	flags.BoolVar(&s.sourceComments, "source-comments", false, "prefix rules with the line they came from")

	root.AddCommand(
		newBuildCommand(s),
		newWatchCommand(s),
		newASTCommand(s),
	)
	return root
}

// resolve merges the config file, the environment and the flags, in that
// order of precedence from lowest to highest.
func (s *settings) resolve(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if s.configPath != "" {
		cfg, err = config.Load(s.configPath)
	} else {
		cfg, err = config.LoadDir(".")
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("style") {
		cfg.Style = s.style
	}
	if flags.Changed("out-dir") {
		cfg.OutDir = s.outDir
	}
	if flags.Changed("load-path") {
		cfg.LoadPaths = append(cfg.LoadPaths, s.loadPaths...)
	}
	if flags.Changed("debug") {
		cfg.Debug = s.debug
	}
	if flags.Changed("source-comments") {
		cfg.SourceComments = s.sourceComments
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func compileOptions(cfg *config.Config, stderr io.Writer) compiler.Options {
	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	return compiler.Options{
		Style:          cfg.OutputStyle(),
		SourceComments: cfg.SourceComments,
		LoadPaths:      cfg.LoadPaths,
		Debug:          cfg.Debug,
		Logger:         slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}
}

// report writes the CSS of a successful result to the out dir or stdout and
// the diagnostics of any result to stderr. It returns false for failures.
func report(cmd *cobra.Command, cfg *config.Config, file string, r compiler.Result) (bool, error) {
	if r.Output != "" {
		fmt.Fprint(cmd.ErrOrStderr(), r.Output)
	}
	if !r.Success {
		return false, nil
	}

	if cfg.OutDir == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), r.CSS)
		return true, err
	}

	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		return true, fmt.Errorf("create output directory: %w", err)
	}
	target := filepath.Join(cfg.OutDir, fs.OutputName(file))
	if err := os.WriteFile(target, []byte(r.CSS), 0644); err != nil {
		return true, fmt.Errorf("write %s: %w", target, err)
	}
	colors.GREEN.Fprintf(cmd.ErrOrStderr(), "✓ %s -> %s\n", file, target)
	return true, nil
}
