package pipeline

import (
	"context"
	"fmt"

	"stylec/colors"
	"stylec/internal/codegen"
	"stylec/internal/phase"
	"stylec/internal/semantics/bubbler"
	"stylec/internal/semantics/expander"
)

// Only the entry module goes through the phases below. Imported
// stylesheets are inlined by the expander.

func (p *Pipeline) runExpandPhase(_ context.Context) error {
	key := p.ctx.EntryModule
	sheet, ok := p.ctx.Module(key)
	if !ok {
		return fmt.Errorf("entry module %s was not parsed", key)
	}

	p.ctx.Expanded = expander.New(p.ctx, p.ctx.Diagnostics).Expand(sheet)
	if p.ctx.HasErrors() {
		return ErrCompilationFailed
	}
	if err := p.advance(key, phase.PhaseExpanded); err != nil {
		return err
	}

	if p.ctx.Config.Debug {
		colors.PURPLE.Printf("  ✓ %s (%d statements)\n", key, p.ctx.Expanded.Len())
	}
	return nil
}

func (p *Pipeline) runBubblePhase(_ context.Context) error {
	key := p.ctx.EntryModule
	p.ctx.Bubbled = bubbler.BubbleMediaQueriesTopLevel(p.ctx.Expanded)
	if err := p.advance(key, phase.PhaseBubbled); err != nil {
		return err
	}

	if p.ctx.Config.Debug {
		colors.PURPLE.Printf("  ✓ %s (%d top-level statements)\n", key, p.ctx.Bubbled.Len())
	}
	return nil
}

func (p *Pipeline) runEmitPhase(_ context.Context) error {
	key := p.ctx.EntryModule
	css, err := codegen.Generate(p.ctx.Bubbled, codegen.Options{
		Style:          p.ctx.Config.Style,
		SourceComments: p.ctx.Config.SourceComments,
	})
	if err != nil {
		return fmt.Errorf("emit %s: %w", key, err)
	}
	p.ctx.CSS = css
	if err := p.advance(key, phase.PhaseEmitted); err != nil {
		return err
	}

	if p.ctx.Config.Debug {
		colors.PURPLE.Printf("  ✓ %s (%s, %d bytes)\n", key, p.ctx.Config.Style, len(css))
	}
	return nil
}

func (p *Pipeline) advance(key string, target phase.ModulePhase) error {
	if p.ctx.AdvanceModulePhase(key, target) {
		return nil
	}
	return fmt.Errorf("cannot advance module %s to %s from %s", key, target, p.ctx.GetModulePhase(key))
}
