package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"stylec/internal/codegen"
	"stylec/internal/context_v2"
	"stylec/internal/diagnostics"
	"stylec/internal/phase"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
}

func newContext(t *testing.T, entry string, config *context_v2.Config) *context_v2.CompilerContext {
	t.Helper()
	ctx := context_v2.New(config, nil)
	if err := ctx.SetEntryPoint(entry); err != nil {
		t.Fatalf("Failed to set entry point: %v", err)
	}
	return ctx
}

func diagnosticCodes(ctx *context_v2.CompilerContext) []string {
	var out []string
	for _, d := range ctx.Diagnostics.Diagnostics() {
		out = append(out, d.Code)
	}
	sort.Strings(out)
	return out
}

func TestPipelineBasic(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{"main.scss": `.a { color: red; }`})

	ctx := newContext(t, filepath.Join(tmpDir, "main.scss"), nil)

	p := New(ctx)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Pipeline failed: %v\n%s", err, ctx.Diagnostics.EmitAllToString())
	}

	if ctx.ModuleCount() != 1 {
		t.Errorf("Expected 1 module, got %d", ctx.ModuleCount())
	}
	if ph := ctx.GetModulePhase(ctx.EntryModule); ph != phase.PhaseEmitted {
		t.Errorf("Expected PhaseEmitted, got %v", ph)
	}
	if ctx.CSS != ".a {\n  color: red; }\n" {
		t.Errorf("Unexpected CSS:\n%s", ctx.CSS)
	}
}

func TestPipelineBubblesMedia(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{"main.scss": `
$bp: 600px;
.card {
  padding: 1px;
  @media screen {
    @media (min-width: $bp) { padding: 2px; }
  }
}`})

	ctx := newContext(t, filepath.Join(tmpDir, "main.scss"), &context_v2.Config{Style: codegen.Expanded})

	if err := New(ctx).Run(context.Background()); err != nil {
		t.Fatalf("Pipeline failed: %v\n%s", err, ctx.Diagnostics.EmitAllToString())
	}

	want := ".card {\n" +
		"  padding: 1px;\n" +
		"}\n" +
		"\n" +
		"@media screen and (min-width: 600px) {\n" +
		"  .card {\n" +
		"    padding: 2px;\n" +
		"  }\n" +
		"}\n"
	if ctx.CSS != want {
		t.Errorf("CSS mismatch\n got:\n%s\nwant:\n%s", ctx.CSS, want)
	}
}

// TestPipelineInvariants checks that a partial imported twice is parsed
// once and that its diagnostics are reported once, identically across runs.
func TestPipelineInvariants(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"main.scss": `@import "utils";
@import "helper";
@import "utils"; // duplicate import

.main { width: 1px; }`,
		// unclosed block
		"_utils.scss":  `.u { color: red;`,
		"_helper.scss": `.h { color: blue; }`,
	})

	runs := 3
	var errorMessages [][]string

	for run := 0; run < runs; run++ {
		ctx := newContext(t, filepath.Join(tmpDir, "main.scss"), nil)

		err := New(ctx).Run(context.Background())
		if !errors.Is(err, ErrCompilationFailed) {
			t.Fatalf("Run %d: expected ErrCompilationFailed, got %v", run, err)
		}

		if ctx.ModuleCount() != 3 {
			t.Errorf("Run %d: Expected 3 modules (main, utils, helper), got %d", run, ctx.ModuleCount())
		}

		for key, module := range ctx.Modules {
			if module.Phase != phase.PhaseParsed {
				t.Errorf("Run %d: Module %q phase = %v, want PhaseParsed", run, key, module.Phase)
			}
			if module.AST == nil {
				t.Errorf("Run %d: Module %q has nil AST", run, key)
			}
		}

		var messages []string
		for _, d := range ctx.Diagnostics.Diagnostics() {
			messages = append(messages, d.Message)
		}
		sort.Strings(messages)
		errorMessages = append(errorMessages, messages)
	}

	first := errorMessages[0]
	if len(first) != 1 {
		t.Fatalf("Expected exactly one diagnostic, got %v", first)
	}
	for i, messages := range errorMessages {
		if strings.Join(messages, "\n") != strings.Join(first, "\n") {
			t.Errorf("Run %d: diagnostics differ:\n  got:  %v\n  want: %v", i, messages, first)
		}
	}
}

// TestDiscoveryGraphStability ensures the dependency graph is deterministic
// for a diamond of imports.
func TestDiscoveryGraphStability(t *testing.T) {
	tmpDir := t.TempDir()

	//     main
	//    /    \
	//   a      b
	//    \    /
	//      c
	writeFiles(t, tmpDir, map[string]string{
		"main.scss":       `@import "a", "b"; .m { color: $c; }`,
		"_a.scss":         `@import "c"; .a { width: 1px; }`,
		"_b.scss":         `@import "c";`,
		"partials/c.scss": `$c: red; .c { x: y; }`,
	})
	// c lives in a load path
	loadPaths := []string{filepath.Join(tmpDir, "partials")}

	var graphs []string
	for run := 0; run < 5; run++ {
		ctx := newContext(t, filepath.Join(tmpDir, "main.scss"), &context_v2.Config{
			LoadPaths: loadPaths,
			Style:     codegen.Expanded,
		})

		if err := New(ctx).Run(context.Background()); err != nil {
			t.Fatalf("Run %d: Pipeline failed: %v\n%s", run, err, ctx.Diagnostics.EmitAllToString())
		}

		if ctx.ModuleCount() != 4 {
			t.Errorf("Run %d: expected 4 modules, got %d", run, ctx.ModuleCount())
		}

		order := ctx.GetModuleNames()
		if len(order) != 4 || order[len(order)-1] != ctx.EntryModule {
			t.Errorf("Run %d: expected the entry module last, got %v", run, order)
		}

		var lines []string
		for importer, deps := range ctx.DepGraph {
			sorted := append([]string(nil), deps...)
			sort.Strings(sorted)
			for _, dep := range sorted {
				lines = append(lines, filepath.Base(importer)+" -> "+filepath.Base(dep))
			}
		}
		sort.Strings(lines)
		graphs = append(graphs, strings.Join(lines, "\n"))

		// c is inlined once per import, the variable reaches main
		if n := strings.Count(ctx.CSS, ".c {"); n != 2 {
			t.Errorf("Run %d: expected .c twice, got %d:\n%s", run, n, ctx.CSS)
		}
		if !strings.Contains(ctx.CSS, ".m {\n  color: red;\n}") {
			t.Errorf("Run %d: expected $c to be substituted:\n%s", run, ctx.CSS)
		}
	}

	want := "_a.scss -> c.scss\n_b.scss -> c.scss\nmain.scss -> _a.scss\nmain.scss -> _b.scss"
	for i, g := range graphs {
		if g != want {
			t.Errorf("Run %d: dependency graph\n%s\nwant\n%s", i, g, want)
		}
	}
}

func TestPipelineMissingImport(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{"main.scss": `@import "nowhere"; .a { b: c; }`})

	ctx := newContext(t, filepath.Join(tmpDir, "main.scss"), nil)
	err := New(ctx).Run(context.Background())

	if !errors.Is(err, ErrCompilationFailed) {
		t.Fatalf("Expected ErrCompilationFailed, got %v", err)
	}
	if got := diagnosticCodes(ctx); len(got) != 1 || got[0] != diagnostics.ErrModuleNotFound {
		t.Errorf("Expected [%s], got %v", diagnostics.ErrModuleNotFound, got)
	}
	if ctx.CSS != "" {
		t.Errorf("Expected no CSS, got %q", ctx.CSS)
	}
}

func TestPipelineCyclicImport(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"main.scss": `@import "a"; .m { b: c; }`,
		"_a.scss":   `@import "main"; .a { b: c; }`,
	})

	ctx := newContext(t, filepath.Join(tmpDir, "main.scss"), nil)
	err := New(ctx).Run(context.Background())

	if !errors.Is(err, ErrCompilationFailed) {
		t.Fatalf("Expected ErrCompilationFailed, got %v", err)
	}
	got := diagnosticCodes(ctx)
	if len(got) != 1 || got[0] != diagnostics.ErrCyclicImport {
		t.Fatalf("Expected [%s], got %v", diagnostics.ErrCyclicImport, got)
	}
	msg := ctx.Diagnostics.Diagnostics()[0].Message
	// reported where the cycle closes, in _a.scss
	if !strings.Contains(msg, "_a.scss -> main.scss -> _a.scss") {
		t.Errorf("Expected the cycle in the message, got %q", msg)
	}
}

func TestPipelineSelfImport(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{"main.scss": `@import "main";`})

	ctx := newContext(t, filepath.Join(tmpDir, "main.scss"), nil)
	_ = New(ctx).Run(context.Background())

	if got := diagnosticCodes(ctx); len(got) != 1 || got[0] != diagnostics.ErrCyclicImport {
		t.Errorf("Expected [%s], got %v", diagnostics.ErrCyclicImport, got)
	}
}

func TestPipelineExpansionErrorStopsBeforeBubbling(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{"main.scss": `
@media screen, print {
  .a { @media (min-width: 1px) { color: red; } }
}`})

	ctx := newContext(t, filepath.Join(tmpDir, "main.scss"), nil)
	err := New(ctx).Run(context.Background())

	if !errors.Is(err, ErrCompilationFailed) {
		t.Fatalf("Expected ErrCompilationFailed, got %v", err)
	}
	if got := diagnosticCodes(ctx); len(got) != 1 || got[0] != diagnostics.ErrNestedMediaQueryList {
		t.Errorf("Expected [%s], got %v", diagnostics.ErrNestedMediaQueryList, got)
	}
	if ph := ctx.GetModulePhase(ctx.EntryModule); ph != phase.PhaseParsed {
		t.Errorf("Expected the entry module to stay at PhaseParsed, got %v", ph)
	}
	if ctx.Bubbled != nil {
		t.Error("Expected the bubbler not to run")
	}
}

func TestPipelineInMemoryEntry(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{"_vars.scss": `$w: 3px;`})

	ctx := context_v2.New(&context_v2.Config{Root: tmpDir, Style: codegen.Compact}, nil)
	if err := ctx.SetEntryPointWithCode(`@import "vars"; .a { width: $w; }`, "input.scss"); err != nil {
		t.Fatal(err)
	}

	if err := New(ctx).Run(context.Background()); err != nil {
		t.Fatalf("Pipeline failed: %v\n%s", err, ctx.Diagnostics.EmitAllToString())
	}
	if ctx.CSS != ".a { width: 3px; }\n" {
		t.Errorf("Unexpected CSS %q", ctx.CSS)
	}
}

func TestPipelineEmptyInMemoryEntry(t *testing.T) {
	ctx := context_v2.New(&context_v2.Config{Root: t.TempDir()}, nil)
	ctx.SetEntryPointWithCode("", "")

	if err := New(ctx).Run(context.Background()); err != nil {
		t.Fatalf("Expected empty input to compile, got %v", err)
	}
	if ctx.CSS != "" {
		t.Errorf("Expected empty CSS, got %q", ctx.CSS)
	}
}

func TestPipelineUnreadableEntry(t *testing.T) {
	tmpDir := t.TempDir()
	main := filepath.Join(tmpDir, "main.scss")
	writeFiles(t, tmpDir, map[string]string{"main.scss": `.a { b: c; }`})

	ctx := newContext(t, main, nil)
	os.Remove(main)

	err := New(ctx).Run(context.Background())
	if !errors.Is(err, ErrCompilationFailed) {
		t.Fatalf("Expected ErrCompilationFailed, got %v", err)
	}
	if got := diagnosticCodes(ctx); len(got) != 1 || got[0] != diagnostics.ErrUnreadableFile {
		t.Errorf("Expected [%s], got %v", diagnostics.ErrUnreadableFile, got)
	}
}

func TestPipelineCanceled(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{"main.scss": `.a { b: c; }`})

	ctx := newContext(t, filepath.Join(tmpDir, "main.scss"), nil)
	runCtx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := New(ctx).Run(runCtx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestPrintSummary(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"main.scss": `@import "a"; .m { b: c; }`,
		"_a.scss":   `.a { b: c; }`,
	})

	ctx := newContext(t, filepath.Join(tmpDir, "main.scss"), nil)
	p := New(ctx)
	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	p.PrintSummary(&buf)

	out := buf.String()
	if !strings.Contains(out, "Total Modules: 2") {
		t.Errorf("Expected module count in summary:\n%s", out)
	}
	if !strings.Contains(out, "main.scss (Emitted)") || !strings.Contains(out, "_a.scss (Parsed)") {
		t.Errorf("Expected module phases in summary:\n%s", out)
	}
}
