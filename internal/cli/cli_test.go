package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylec/colors"
	"stylec/internal/config"
	"stylec/internal/watch"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	for _, name := range []string{"STYLEC_STYLE", "STYLEC_OUT_DIR", "STYLEC_LOAD_PATHS", "STYLEC_DEBUG", "STYLEC_SOURCE_COMMENTS"} {
		t.Setenv(name, "")
	}
	prev := colors.Enabled()
	colors.SetEnabled(false)
	t.Cleanup(func() { colors.SetEnabled(prev) })

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand("1.2.3")
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, "stylec version 1.2.3\n", out)
}

func TestBuild_Stdin(t *testing.T) {
	out, stderr, err := run(t, ".a { .b { c: d; } }", "build", "--style", "compact")
	require.NoError(t, err)
	assert.Equal(t, ".a .b { c: d; }\n", out)
	assert.Empty(t, stderr)
}

func TestBuild_StdinDash(t *testing.T) {
	out, _, err := run(t, ".a { b: c; }", "build", "-s", "expanded", "-")
	require.NoError(t, err)
	assert.Equal(t, ".a {\n  b: c;\n}\n", out)
}

func TestBuild_FilesToStdout(t *testing.T) {
	dir := t.TempDir()
	one := writeFile(t, dir, "one.scss", ".one { a: b; }")
	two := writeFile(t, dir, "two.scss", ".two { @media print { c: d; } }")

	out, _, err := run(t, "", "build", "--style", "compact", one, two)
	require.NoError(t, err)
	assert.Equal(t, ".one { a: b; }\n@media print { .two { c: d; } }\n", out)
}

func TestBuild_OutDir(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "src/main.scss", "@import 'vars';\n.a { color: $c; }")
	writeFile(t, dir, "src/_vars.scss", "$c: red;")
	outDir := filepath.Join(dir, "dist")

	out, stderr, err := run(t, "", "build", "-o", outDir, "-s", "compact", in)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "main.scss")

	css, err := os.ReadFile(filepath.Join(outDir, "main.css"))
	require.NoError(t, err)
	assert.Equal(t, ".a { color: red; }\n", string(css))
}

func TestBuild_LoadPathFlag(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "app/main.scss", "@import 'shared';")
	writeFile(t, dir, "lib/_shared.scss", ".s { a: b; }")

	out, _, err := run(t, "", "build", "-s", "compact", "-I", filepath.Join(dir, "lib"), in)
	require.NoError(t, err)
	assert.Equal(t, ".s { a: b; }\n", out)
}

func TestBuild_Failure(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.scss", ".a { b: c; }")
	bad := writeFile(t, dir, "bad.scss", "@import 'missing';")

	out, stderr, err := run(t, "", "build", "-s", "compact", good, bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Equal(t, ".a { b: c; }\n", out)
	assert.Contains(t, stderr, "M0001")
}

func TestBuild_StdinFailure(t *testing.T) {
	_, stderr, err := run(t, ".a { b: c;", "build")
	assert.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, stderr, "stdin.scss")
}

func TestBuild_UnknownStyle(t *testing.T) {
	_, _, err := run(t, ".a { b: c; }", "build", "--style", "pretty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output style")
}

func TestBuild_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "stylec.hcl", "style = \"compressed\"\nload_paths = [\"lib\"]\n")
	writeFile(t, dir, "lib/_x.scss", ".x { a: b; }")
	in := writeFile(t, dir, "main.scss", "@import 'x';")

	out, _, err := run(t, "", "build", "--config", cfg, in)
	require.NoError(t, err)
	assert.Contains(t, out, ".x{a:b")
	assert.NotContains(t, out, "\n  ")
}

func TestBuild_FlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "stylec.yaml", "style: compressed\n")
	in := writeFile(t, dir, "main.scss", ".x { a: b; }")

	out, _, err := run(t, "", "build", "-c", cfg, "-s", "compact", in)
	require.NoError(t, err)
	assert.Equal(t, ".x { a: b; }\n", out)
}

func TestBuild_EnvOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "stylec.yaml", "style: compressed\n")
	in := writeFile(t, dir, "main.scss", ".x { a: b; }")

	var stdout bytes.Buffer
	t.Setenv("STYLEC_STYLE", "compact")
	cmd := NewRootCommand("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"build", "-c", cfg, in})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, ".x { a: b; }\n", stdout.String())
}

func TestAST(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "main.scss", ".a { @media print { b: c; } }")

	out, _, err := run(t, "", "ast", in)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Root\n"), out)
	assert.Contains(t, out, `MediaBlock "print"`)
	assert.Contains(t, out, `Ruleset ".a"`)
	assert.Contains(t, out, "Declaration b: c")
}

func TestAST_RequiresFile(t *testing.T) {
	_, _, err := run(t, "", "ast")
	assert.Error(t, err)
}

func TestWatch_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "main.scss", ".a { b: c; }")
	outDir := filepath.Join(dir, "dist")
	target := filepath.Join(outDir, "main.css")

	for _, name := range []string{"STYLEC_STYLE", "STYLEC_OUT_DIR", "STYLEC_LOAD_PATHS", "STYLEC_DEBUG", "STYLEC_SOURCE_COMMENTS"} {
		t.Setenv(name, "")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := NewRootCommand("test")
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&lockedBuffer{})
	cmd.SetArgs([]string{"watch", "-s", "compact", "-o", outDir, "--debounce", "20ms", in})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	readTarget := func() string {
		data, _ := os.ReadFile(target)
		return string(data)
	}

	require.Eventually(t, func() bool {
		return readTarget() == ".a { b: c; }\n"
	}, 5*time.Second, 20*time.Millisecond)

	// the watcher registers its directories right after the first build
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(in, []byte(".a { b: d; }"), 0644))

	require.Eventually(t, func() bool {
		return readTarget() == ".a { b: d; }\n"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestWatchDirs(t *testing.T) {
	cfg := &config.Config{LoadPaths: []string{"/lib"}}
	assert.Equal(t, []string{"a", "a/b", "/lib"}, watchDirs(cfg, []string{"a/x.scss", "a/b/y.scss"}))
}

func TestDescribeChanges(t *testing.T) {
	one := []watch.Change{{Path: "/x/a.scss"}}
	assert.Equal(t, "a.scss", describeChanges(one))

	many := []watch.Change{{Path: "a"}, {Path: "b"}, {Path: "c"}, {Path: "d"}, {Path: "e"}}
	assert.Equal(t, "a, b, c, and 2 more", describeChanges(many))
}

// lockedBuffer is written by the watcher goroutines while the test runs.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func TestOutsideDir(t *testing.T) {
	changes := []watch.Change{{Path: "/p/dist/a.css"}, {Path: "/p/src/a.scss"}, {Path: "/p/distant.scss"}}
	assert.Equal(t, []watch.Change{{Path: "/p/src/a.scss"}, {Path: "/p/distant.scss"}}, outsideDir(changes, "/p/dist"))
	assert.Equal(t, changes, outsideDir(changes, ""))
}
