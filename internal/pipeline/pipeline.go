package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stylec/colors"
	"stylec/internal/context_v2"
)

var tracer = otel.Tracer("stylec/pipeline")

// ErrCompilationFailed is returned by Run when diagnostics with error
// severity were reported. The diagnostics themselves are in the context.
var ErrCompilationFailed = errors.New("compilation failed with errors")

// Pipeline coordinates the compilation process
type Pipeline struct {
	ctx *context_v2.CompilerContext

	// seen ensures each module is scheduled exactly once
	seen sync.Map // map[string]struct{}

	// wg tracks all parsing tasks
	wg sync.WaitGroup
}

// New creates a new compilation pipeline
func New(ctx *context_v2.CompilerContext) *Pipeline {
	return &Pipeline{
		ctx: ctx,
	}
}

type stage struct {
	name string
	run  func(context.Context) error
}

// Run lexes and parses the entry stylesheet and everything it imports, then
// expands, bubbles and emits the entry module. The CSS ends up in the
// context.
func (p *Pipeline) Run(runCtx context.Context) error {
	runCtx, span := tracer.Start(runCtx, "pipeline.Run",
		trace.WithAttributes(attribute.String("module", p.ctx.EntryModule)),
	)
	defer span.End()

	start := time.Now()
	logger := p.ctx.Logger.With(slog.String("module", p.ctx.EntryModule))

	if p.ctx.Config.Debug {
		colors.CYAN.Printf("\n[Phase 1] Lex + Parse\n")
	}

	// Start with entry module and recursively process imports
	p.processModule(runCtx, p.ctx.EntryModule, nil)
	p.wg.Wait()

	if err := runCtx.Err(); err != nil {
		return fail(span, err)
	}
	if p.ctx.HasErrors() {
		logger.Debug("parsing failed", slog.Int("errors", p.ctx.Diagnostics.ErrorCount()))
		return fail(span, ErrCompilationFailed)
	}

	p.ctx.ComputeTopologicalOrder()

	stages := []stage{
		{"expand", p.runExpandPhase},
		{"bubble", p.runBubblePhase},
		{"emit", p.runEmitPhase},
	}
	for i, st := range stages {
		if err := runCtx.Err(); err != nil {
			return fail(span, err)
		}
		if p.ctx.Config.Debug {
			colors.CYAN.Printf("\n[Phase %d] %s\n", i+2, st.name)
		}
		if err := p.runStage(runCtx, st); err != nil {
			return fail(span, err)
		}
	}

	logger.Info("stylesheet compiled",
		slog.Int("modules", p.ctx.ModuleCount()),
		slog.Int("bytes", len(p.ctx.CSS)),
		slog.Duration("duration", time.Since(start)),
	)
	if p.ctx.Config.Debug {
		colors.GREEN.Printf("\n✓ Compilation successful! (%d modules)\n", p.ctx.ModuleCount())
	}
	return nil
}

func (p *Pipeline) runStage(runCtx context.Context, st stage) error {
	runCtx, span := tracer.Start(runCtx, "pipeline."+st.name,
		trace.WithAttributes(attribute.String("module", p.ctx.EntryModule)),
	)
	defer span.End()

	start := time.Now()
	err := st.run(runCtx)

	p.ctx.Logger.Debug("phase finished",
		slog.String("phase", st.name),
		slog.String("module", p.ctx.EntryModule),
		slog.Duration("duration", time.Since(start)),
		slog.Bool("ok", err == nil),
	)
	if err != nil {
		return fail(span, err)
	}
	return nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// PrintSummary writes a summary of the compilation to w
func (p *Pipeline) PrintSummary(w io.Writer) {
	fmt.Fprintln(w)
	colors.CYAN.Fprintln(w, "═══════════════════════════════════════")
	colors.CYAN.Fprintln(w, "        COMPILATION SUMMARY")
	colors.CYAN.Fprintln(w, "═══════════════════════════════════════")

	fmt.Fprintf(w, "Entry Module: %s\n", p.ctx.EntryModule)
	fmt.Fprintf(w, "Total Modules: %d\n\n", p.ctx.ModuleCount())

	names := append([]string(nil), p.ctx.GetModuleNames()...)
	sort.Strings(names)

	for _, name := range names {
		module, _ := p.ctx.GetModule(name)
		fmt.Fprintf(w, "  • %s (%s)\n", name, module.Phase)
	}

	colors.CYAN.Fprintln(w, "═══════════════════════════════════════")
}
