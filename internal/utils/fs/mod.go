package fs

import (
	"os"
	"path/filepath"
	"strings"
)

// Check if file exists and is a regular file
func IsValidFile(filename string) bool {
	fileInfo, err := os.Stat(filename)
	return err == nil && fileInfo.Mode().IsRegular()
}

func IsDir(path string) bool {
	fileInfo, err := os.Stat(path)
	return err == nil && fileInfo.Mode().IsDir()
}

// ImportCandidates lists the file names an @import of name may refer to,
// in lookup order: the name itself, then with the .scss extension, then
// the partial form with a leading underscore.
func ImportCandidates(name string) []string {
	dir, base := filepath.Split(filepath.FromSlash(name))
	candidates := []string{filepath.Join(dir, base)}
	if filepath.Ext(base) == "" {
		candidates = append(candidates,
			filepath.Join(dir, base+".scss"),
			filepath.Join(dir, "_"+base+".scss"))
	} else if !strings.HasPrefix(base, "_") {
		candidates = append(candidates, filepath.Join(dir, "_"+base))
	}
	return candidates
}

// ResolveImport finds the file for name, searching the importing file's
// directory first and then each load path.
func ResolveImport(name, fromDir string, loadPaths []string) (string, bool) {
	dirs := append([]string{fromDir}, loadPaths...)
	for _, dir := range dirs {
		for _, candidate := range ImportCandidates(name) {
			path := candidate
			if !filepath.IsAbs(path) {
				path = filepath.Join(dir, candidate)
			}
			if IsValidFile(path) {
				abs, err := filepath.Abs(path)
				if err != nil {
					return path, true
				}
				return abs, true
			}
		}
	}
	return "", false
}

// ModuleKey returns the canonical key for a file: an absolute path with
// forward slashes.
func ModuleKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.ToSlash(path)
}

// OutputName maps an input stylesheet name to its .css output name.
func OutputName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".css"
}
