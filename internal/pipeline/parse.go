package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"stylec/colors"
	"stylec/internal/context_v2"
	"stylec/internal/diagnostics"
	"stylec/internal/frontend/ast"
	"stylec/internal/frontend/lexer"
	"stylec/internal/frontend/parser"
	"stylec/internal/phase"
	"stylec/internal/source"
)

// processModule schedules parsing for a module exactly once (thread-safe)
func (p *Pipeline) processModule(runCtx context.Context, key string, requestedLocation *source.Location) {
	// Fast "do-once" gate. If already scheduled/parsed, return.
	if _, loaded := p.seen.LoadOrStore(key, struct{}{}); loaded {
		return
	}

	p.wg.Add(1)

	go func() {
		defer p.wg.Done()
		if runCtx.Err() != nil {
			return
		}
		p.parseModule(runCtx, key, requestedLocation)
	}()
}

// parseModule reads, lexes and parses one stylesheet, resolves its imports
// and schedules them.
func (p *Pipeline) parseModule(runCtx context.Context, key string, requestedLocation *source.Location) {
	runCtx, span := tracer.Start(runCtx, "pipeline.parse",
		trace.WithAttributes(attribute.String("module", key)),
	)
	defer span.End()

	module, exists := p.ctx.GetModule(key)
	if !exists {
		module = &context_v2.Module{
			FilePath: key,
			Phase:    phase.PhaseNotStarted,
		}
		p.ctx.AddModule(key, module)
	}

	module.Mu.Lock()
	content, filePath, virtual := module.Content, module.FilePath, module.Virtual
	module.Mu.Unlock()

	if !virtual {
		data, err := os.ReadFile(filePath)
		if err != nil {
			p.ctx.ReportError(fmt.Sprintf("cannot read file %s: %v", filePath, err), diagnostics.ErrUnreadableFile, requestedLocation)
			fail(span, err)
			return
		}
		content = string(data)

		module.Mu.Lock()
		module.Content = content
		module.Mu.Unlock()
	}

	p.ctx.Diagnostics.AddSourceContent(filePath, content)

	toks := lexer.New(filePath, content, p.ctx.Diagnostics).Tokenize(false)

	if !p.ctx.AdvanceModulePhase(key, phase.PhaseLexed) {
		p.ctx.ReportError(fmt.Sprintf("cannot advance module %s to PhaseLexed", key), "", nil)
		return
	}

	sheet := parser.Parse(toks, filePath, p.ctx.Diagnostics)
	sheet.ImportPath = key

	imports := p.resolveImports(runCtx, module, sheet)

	module.Mu.Lock()
	module.AST = sheet
	module.Imports = imports
	module.Mu.Unlock()

	if p.ctx.Config.SaveAST {
		if err := sheet.SaveAST(); err != nil {
			p.ctx.Logger.Warn("cannot save ast", slog.String("module", key), slog.Any("error", err))
		}
	}

	if !p.ctx.AdvanceModulePhase(key, phase.PhaseParsed) {
		p.ctx.ReportError(fmt.Sprintf("cannot advance module %s to PhaseParsed", key), "", nil)
		return
	}

	p.ctx.Logger.Debug("module parsed",
		slog.String("module", key),
		slog.Int("tokens", len(toks)),
		slog.Int("statements", sheet.Root.Len()),
		slog.Int("imports", len(imports)),
	)
	if p.ctx.Config.Debug {
		colors.PURPLE.Printf("  ✓ %s\n", key)
	}
}

// resolveImports fills Import.Resolved for every @import in sheet, at any
// depth, registers the dependency edges and schedules the imported
// stylesheets. It returns the imported keys in source order.
func (p *Pipeline) resolveImports(runCtx context.Context, module *context_v2.Module, sheet *ast.Stylesheet) []string {
	var keys []string

	ast.Inspect(sheet.Root, func(stmt ast.Statement, _ int) bool {
		imp, ok := stmt.(*ast.Import)
		if !ok {
			return true
		}

		resolved := make([]string, 0, len(imp.Paths))
		for _, path := range imp.Paths {
			key, err := p.ctx.ResolveImport(path, module)
			if err != nil {
				p.ctx.Diagnostics.Add(diagnostics.ModuleNotFound(imp.Loc(), path))
				continue
			}

			if err := p.ctx.AddDependency(module.Key, key); err != nil {
				var cycle *context_v2.ImportCycleError
				if errors.As(err, &cycle) {
					p.ctx.Diagnostics.Add(diagnostics.CyclicImport(imp.Loc(), cycle.Path()))
				} else {
					p.ctx.ReportError(err.Error(), diagnostics.ErrCyclicImport, imp.Loc())
				}
				continue
			}

			resolved = append(resolved, key)
			keys = append(keys, key)
		}

		if len(resolved) == len(imp.Paths) {
			imp.Resolved = resolved
		}
		for _, key := range resolved {
			p.processModule(runCtx, key, imp.Loc())
		}
		return false
	})

	return keys
}
