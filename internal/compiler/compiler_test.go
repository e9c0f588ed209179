package compiler

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stylec/colors"
	"stylec/internal/codegen"
	"stylec/internal/diagnostics"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestCompile_InMemorySimpleCode(t *testing.T) {
	opts := &Options{
		Code:   ".a { color: red; }",
		Style:  codegen.Expanded,
		Logger: quiet,
	}

	result := Compile(context.Background(), opts)

	if !result.Success {
		t.Fatalf("Expected successful compilation, got:\n%s", result.Output)
	}
	if result.CSS != ".a {\n  color: red;\n}\n" {
		t.Errorf("Unexpected CSS %q", result.CSS)
	}
	if result.Tree == nil || result.Tree.Len() != 1 {
		t.Error("Expected the bubbled tree in the result")
	}
	if result.Output != "" {
		t.Errorf("Expected no diagnostic output, got %q", result.Output)
	}
}

func TestCompile_InMemoryWithSyntaxError(t *testing.T) {
	prev := colors.Enabled()
	colors.SetEnabled(false)
	defer colors.SetEnabled(prev)

	opts := &Options{
		Code:   ".a { color: red;",
		Name:   "broken.scss",
		Logger: quiet,
	}

	result := Compile(context.Background(), opts)

	if result.Success {
		t.Fatal("Expected compilation failure for syntax error")
	}
	if result.CSS != "" {
		t.Errorf("Expected no CSS, got %q", result.CSS)
	}
	if len(result.Diagnostics) != 1 || result.Diagnostics[0].Code != diagnostics.ErrUnterminatedBlock {
		t.Errorf("Expected one %s diagnostic, got %v", diagnostics.ErrUnterminatedBlock, result.Diagnostics)
	}
	if !strings.Contains(result.Output, "broken.scss:1:") {
		t.Errorf("Expected the virtual file name in the output:\n%s", result.Output)
	}
	if !strings.Contains(result.Output, "Compilation failed with 1 error(s)") {
		t.Errorf("Expected a summary line:\n%s", result.Output)
	}
}

func TestCompile_Styles(t *testing.T) {
	code := ".a { b: c; .d { e: f; } }"

	tests := []struct {
		style codegen.Style
		want  string
	}{
		{codegen.Nested, ".a {\n  b: c; }\n  .a .d {\n    e: f; }\n"},
		{codegen.Expanded, ".a {\n  b: c;\n}\n\n.a .d {\n  e: f;\n}\n"},
		{codegen.Compact, ".a { b: c; }\n\n.a .d { e: f; }\n"},
	}

	for _, tt := range tests {
		t.Run(tt.style.String(), func(t *testing.T) {
			result := Compile(context.Background(), &Options{Code: code, Style: tt.style, Logger: quiet})
			if !result.Success {
				t.Fatal(result.Output)
			}
			if result.CSS != tt.want {
				t.Errorf("got %q, want %q", result.CSS, tt.want)
			}
		})
	}
}

func TestCompile_FileMode_NonExistentFile(t *testing.T) {
	opts := &Options{
		EntryFile: "/nonexistent/path/to/file.scss",
		Logger:    quiet,
	}

	result := Compile(context.Background(), opts)

	if result.Success {
		t.Error("Expected failure for non-existent file")
	}
	if len(result.Diagnostics) != 1 || result.Diagnostics[0].Code != diagnostics.ErrUnreadableFile {
		t.Errorf("Expected one %s diagnostic, got %v", diagnostics.ErrUnreadableFile, result.Diagnostics)
	}
}

func TestCompile_FileMode_WithImports(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, "_theme.scss"), []byte("$fg: #333;"), 0644); err != nil {
		t.Fatalf("Failed to create _theme.scss: %v", err)
	}
	mainPath := filepath.Join(tmpDir, "main.scss")
	if err := os.WriteFile(mainPath, []byte(`@import "theme"; body { color: $fg; }`), 0644); err != nil {
		t.Fatalf("Failed to create main.scss: %v", err)
	}

	result := Compile(context.Background(), &Options{EntryFile: mainPath, Style: codegen.Compact, Logger: quiet})

	if !result.Success {
		t.Fatalf("Expected successful compilation with imports:\n%s", result.Output)
	}
	if result.CSS != "body { color: #333; }\n" {
		t.Errorf("Unexpected CSS %q", result.CSS)
	}
}

func TestCompile_InMemoryImportsResolveAgainstRoot(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "_x.scss"), []byte(".x { y: z; }"), 0644); err != nil {
		t.Fatal(err)
	}

	result := Compile(context.Background(), &Options{
		Code:   `@import "x";`,
		Root:   tmpDir,
		Style:  codegen.Compact,
		Logger: quiet,
	})

	if !result.Success || result.CSS != ".x { y: z; }\n" {
		t.Errorf("Unexpected result %q:\n%s", result.CSS, result.Output)
	}
}

func TestCompile_DebugMode(t *testing.T) {
	result := Compile(context.Background(), &Options{
		Code:   ".a { b: c; }",
		Debug:  true,
		Logger: quiet,
	})

	if !result.Success {
		t.Errorf("Expected successful compilation in debug mode")
	}
}

func TestCompile_EmptyCode(t *testing.T) {
	result := Compile(context.Background(), &Options{Code: " ", Logger: quiet})

	if !result.Success {
		t.Errorf("Expected whitespace-only code to compile")
	}
	if result.CSS != "" {
		t.Errorf("Expected empty CSS, got %q", result.CSS)
	}
}

func TestCompile_Canceled(t *testing.T) {
	runCtx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Compile(runCtx, &Options{Code: ".a { b: c; }", Logger: quiet})

	if result.Success {
		t.Error("Expected a canceled compilation to fail")
	}
}

func TestCompileAll(t *testing.T) {
	tmpDir := t.TempDir()
	files := map[string]string{
		"a.scss":      ".a { b: c; }",
		"broken.scss": ".x {",
		"c.scss":      "@media print { .c { d: e; } }",
	}
	var paths []string
	for _, name := range []string{"a.scss", "broken.scss", "c.scss"} {
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, []byte(files[name]), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}

	results, err := CompileAll(context.Background(), paths, Options{Style: codegen.Compact, Logger: quiet})
	if err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	if !results[0].Success || results[0].CSS != ".a { b: c; }\n" {
		t.Errorf("a.scss: %+v", results[0])
	}
	if results[1].Success {
		t.Error("broken.scss: expected failure")
	}
	if !results[2].Success || results[2].CSS != "@media print { .c { d: e; } }\n" {
		t.Errorf("c.scss: %q", results[2].CSS)
	}

	for i, r := range results {
		if !strings.HasSuffix(r.Entry, filepath.ToSlash(filepath.Base(paths[i]))) {
			t.Errorf("Result %d belongs to %s", i, r.Entry)
		}
	}
}

func TestCompileAll_Canceled(t *testing.T) {
	runCtx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CompileAll(runCtx, []string{"a.scss"}, Options{Logger: quiet})
	if err == nil {
		t.Error("Expected an error for a canceled context")
	}
}
