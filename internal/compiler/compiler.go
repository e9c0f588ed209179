package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"stylec/internal/codegen"
	"stylec/internal/context_v2"
	"stylec/internal/diagnostics"
	"stylec/internal/frontend/ast"
	"stylec/internal/pipeline"
)

// Options for compilation
type Options struct {
	// For file-based compilation
	EntryFile string
	// For in-memory compilation. Name is the virtual file name used in
	// diagnostics and Root the directory its imports resolve against.
	Code string
	Name string
	Root string

	Style          codegen.Style
	SourceComments bool
	LoadPaths      []string

	// Debug output
	Debug   bool
	SaveAST bool

	// Logger receives structured progress logs; nil means slog.Default()
	Logger *slog.Logger
}

// Result of compilation
type Result struct {
	Success bool
	Entry   string // key of the entry stylesheet
	CSS     string
	// Tree is the bubbled tree the CSS was generated from
	Tree        *ast.Block
	Diagnostics []*diagnostics.Diagnostic
	// Output holds the rendered diagnostics, colored when colors are enabled
	Output string
}

// Compile compiles one stylesheet, given as a file or as in-memory code.
func Compile(runCtx context.Context, opts *Options) Result {
	ctx := context_v2.New(&context_v2.Config{
		Root:           opts.Root,
		LoadPaths:      opts.LoadPaths,
		Style:          opts.Style,
		SourceComments: opts.SourceComments,
		SaveAST:        opts.SaveAST,
		Debug:          opts.Debug,
	}, opts.Logger)

	var err error
	if opts.EntryFile == "" {
		err = ctx.SetEntryPointWithCode(opts.Code, opts.Name)
	} else {
		err = ctx.SetEntryPoint(opts.EntryFile)
	}

	if err != nil {
		ctx.ReportError(fmt.Sprintf("Failed to set entry point: %v", err), diagnostics.ErrUnreadableFile, nil)
		return result(ctx)
	}

	if err := pipeline.New(ctx).Run(runCtx); err != nil && !errors.Is(err, pipeline.ErrCompilationFailed) {
		// cancellation or an emitter failure; the pipeline reported nothing
		ctx.ReportError(err.Error(), "", nil)
	}

	return result(ctx)
}

func result(ctx *context_v2.CompilerContext) Result {
	return Result{
		Success:     !ctx.HasErrors(),
		Entry:       ctx.EntryModule,
		CSS:         ctx.CSS,
		Tree:        ctx.Bubbled,
		Diagnostics: ctx.Diagnostics.Diagnostics(),
		Output:      ctx.Diagnostics.EmitAllToString(),
	}
}

// CompileAll compiles every file concurrently, each with its own context.
// Results are in the order of files. The error is non-nil only when runCtx
// ends before every file was compiled; failed compilations are reported in
// their Result.
func CompileAll(runCtx context.Context, files []string, opts Options) ([]Result, error) {
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fileOpts := opts
			fileOpts.EntryFile = file
			fileOpts.Code = ""
			results[i] = Compile(gctx, &fileOpts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, runCtx.Err()
}
