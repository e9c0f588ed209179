package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCandidates(t *testing.T) {
	assert.Equal(t, []string{"base", "base.scss", "_base.scss"}, ImportCandidates("base"))
	assert.Equal(t,
		[]string{filepath.Join("lib", "base"), filepath.Join("lib", "base.scss"), filepath.Join("lib", "_base.scss")},
		ImportCandidates("lib/base"))
	assert.Equal(t, []string{"base.scss", "_base.scss"}, ImportCandidates("base.scss"))
}

func TestResolveImport(t *testing.T) {
	root := t.TempDir()
	vendor := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "_vars.scss"), []byte("$a: 1;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(vendor, "reset.scss"), []byte(""), 0o644))

	path, ok := ResolveImport("vars", root, nil)
	require.True(t, ok)
	assert.Equal(t, "_vars.scss", filepath.Base(path))

	path, ok = ResolveImport("reset", root, []string{vendor})
	require.True(t, ok)
	assert.Equal(t, filepath.Join(vendor, "reset.scss"), path)

	_, ok = ResolveImport("missing", root, []string{vendor})
	assert.False(t, ok)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "main.css", OutputName("/src/main.scss"))
	assert.Equal(t, "site.css", OutputName("site"))
}
