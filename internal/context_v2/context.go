// Package context_v2 provides the central compilation context for stylec.
//
// Every stylesheet (the entry file and each @imported partial) is a module
// keyed by its absolute, slash-separated file path. Modules progress through
// compilation phases independently, so a partial imported from several
// places is read and parsed exactly once.
package context_v2

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"stylec/internal/codegen"
	"stylec/internal/diagnostics"
	"stylec/internal/frontend/ast"
	"stylec/internal/phase"
	"stylec/internal/source"
	"stylec/internal/utils/fs"
)

// Module represents a single stylesheet and its compilation state
type Module struct {
	Key      string          // Canonical key (absolute path, forward slashes)
	FilePath string          // Physical file path
	AST      *ast.Stylesheet // Parsed syntax tree

	Phase phase.ModulePhase

	// Keys of the stylesheets this one imports, in source order
	Imports []string

	// Raw source code (for diagnostics)
	Content string
	// Virtual modules were supplied in memory and have no file to read
	Virtual bool

	// Protects field updates during parallel parsing
	Mu sync.Mutex
}

// CompilerContext is the central compilation state manager
type CompilerContext struct {
	// Module registry: module key -> Module
	Modules map[string]*Module
	mu      sync.RWMutex // protects Modules and DepGraph during parallel parse

	// Sorted module keys in topological order
	sortedModules []string

	EntryPoint  string // Full path to entry file
	EntryModule string // Key of the entry module

	Diagnostics *diagnostics.DiagnosticBag

	// Dependency graph: importer key -> imported keys
	// Used for cycle detection and build ordering
	DepGraph map[string][]string

	Config *Config
	Logger *slog.Logger

	// Results for the entry module
	Expanded *ast.Block
	Bubbled  *ast.Block
	CSS      string
}

// Config holds compiler configuration
type Config struct {
	// Directory in-memory entries are placed in; imports from them resolve
	// relative to it. Defaults to the working directory.
	Root string

	// Extra directories searched for @import targets
	LoadPaths []string

	Style          codegen.Style
	SourceComments bool

	// SaveAST writes <file>.ast.json next to every parsed stylesheet
	SaveAST bool

	Debug bool
}

// New creates a new compiler context. A nil logger logs to slog.Default().
func New(config *Config, logger *slog.Logger) *CompilerContext {
	if config == nil {
		config = &Config{}
	}
	if config.Root == "" {
		if wd, err := os.Getwd(); err == nil {
			config.Root = wd
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CompilerContext{
		Modules:       make(map[string]*Module),
		sortedModules: []string{},
		Diagnostics:   diagnostics.NewDiagnosticBag(),
		DepGraph:      make(map[string][]string),
		Config:        config,
		Logger:        logger,
	}
}

// SetEntryPoint sets the entry point for compilation
func (ctx *CompilerContext) SetEntryPoint(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to resolve entry point: %w", err)
	}

	if !fs.IsValidFile(absPath) {
		return fmt.Errorf("entry point does not exist: %s", absPath)
	}

	ctx.EntryPoint = filepath.ToSlash(absPath)
	ctx.EntryModule = fs.ModuleKey(absPath)
	return nil
}

// SetEntryPointWithCode sets the entry point to in-memory code. name is
// the virtual file name used in diagnostics.
func (ctx *CompilerContext) SetEntryPointWithCode(code, name string) error {
	if name == "" {
		name = "stdin.scss"
	}
	virtualPath := filepath.Join(ctx.Config.Root, name)
	ctx.EntryPoint = filepath.ToSlash(virtualPath)
	ctx.EntryModule = fs.ModuleKey(virtualPath)

	ctx.Diagnostics.AddSourceContent(ctx.EntryPoint, code)

	ctx.AddModule(ctx.EntryModule, &Module{
		FilePath: ctx.EntryPoint,
		Phase:    phase.PhaseNotStarted,
		Content:  code,
		Virtual:  true,
	})
	return nil
}

// ResolveImport finds the stylesheet an @import of path inside from refers
// to and returns its module key.
func (ctx *CompilerContext) ResolveImport(path string, from *Module) (string, error) {
	dir := filepath.Dir(filepath.FromSlash(from.FilePath))
	file, ok := fs.ResolveImport(path, dir, ctx.Config.LoadPaths)
	if !ok {
		return "", fmt.Errorf("cannot find stylesheet to import: %s", path)
	}
	return fs.ModuleKey(file), nil
}

// AddModule registers a module in the context
func (ctx *CompilerContext) AddModule(key string, module *Module) {
	if module == nil {
		panic(fmt.Sprintf("cannot add nil module for %q", key))
	}

	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	// Don't overwrite existing modules
	if _, exists := ctx.Modules[key]; exists {
		return
	}

	module.Key = key
	ctx.Modules[key] = module
}

// GetModule retrieves a module by key
func (ctx *CompilerContext) GetModule(key string) (*Module, bool) {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	module, exists := ctx.Modules[key]
	return module, exists
}

// Module returns the parsed stylesheet registered under key.
func (ctx *CompilerContext) Module(key string) (*ast.Stylesheet, bool) {
	module, ok := ctx.GetModule(key)
	if !ok {
		return nil, false
	}
	module.Mu.Lock()
	defer module.Mu.Unlock()
	return module.AST, module.AST != nil
}

func (ctx *CompilerContext) HasModule(key string) bool {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	_, exists := ctx.Modules[key]
	return exists
}

// GetModulePhase returns the current phase of a module
func (ctx *CompilerContext) GetModulePhase(key string) phase.ModulePhase {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	if module, exists := ctx.Modules[key]; exists {
		return module.Phase
	}
	return phase.PhaseNotStarted
}

// SetModulePhase updates the phase of a module
func (ctx *CompilerContext) SetModulePhase(key string, p phase.ModulePhase) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if module, exists := ctx.Modules[key]; exists {
		module.Mu.Lock()
		module.Phase = p
		module.Mu.Unlock()
	}
}

// AdvanceModulePhase advances a module to the next phase with validation
// Returns false if the phase transition is invalid (prerequisites not met)
func (ctx *CompilerContext) AdvanceModulePhase(key string, target phase.ModulePhase) bool {
	if !ctx.CanProcessPhase(key, target) {
		return false
	}
	ctx.SetModulePhase(key, target)
	return true
}

// CanProcessPhase checks if a module is ready for a specific phase
func (ctx *CompilerContext) CanProcessPhase(key string, required phase.ModulePhase) bool {
	current := ctx.GetModulePhase(key)
	prerequisite, exists := phase.PhasePrerequisites[required]
	if !exists {
		return false
	}
	return current == prerequisite
}

// IsModuleParsed checks if a module has been parsed (at least)
func (ctx *CompilerContext) IsModuleParsed(key string) bool {
	return ctx.GetModulePhase(key) >= phase.PhaseParsed
}

// AddDependency registers an import relationship
// Returns error if adding this dependency would create a cycle
func (ctx *CompilerContext) AddDependency(importer, imported string) error {
	importer = filepath.ToSlash(importer)
	imported = filepath.ToSlash(imported)

	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if cycle := ctx.findCycle(imported, importer); cycle != nil {
		return &ImportCycleError{Cycle: cycle}
	}

	for _, existing := range ctx.DepGraph[importer] {
		if existing == imported {
			return nil
		}
	}

	ctx.DepGraph[importer] = append(ctx.DepGraph[importer], imported)
	return nil
}

// ImportCycleError is returned by AddDependency for an import that would
// close a cycle. Cycle starts and ends with the importing module.
type ImportCycleError struct {
	Cycle []string
}

func (e *ImportCycleError) Error() string {
	return "circular import detected: " + e.Path()
}

// Path renders the cycle as "a.scss -> _b.scss -> a.scss".
func (e *ImportCycleError) Path() string {
	return formatCycle(e.Cycle)
}

// findCycle uses DFS to detect if adding edge (to -> from) closes a cycle
func (ctx *CompilerContext) findCycle(from, to string) []string {
	visited := make(map[string]bool)
	path := []string{}

	if ctx.hasCyclePath(from, to, visited, &path) {
		cycle := append([]string{to}, path...)
		cycle = append(cycle, to)
		return cycle
	}
	return nil
}

// hasCyclePath performs DFS to find path from start to target
func (ctx *CompilerContext) hasCyclePath(start, target string, visited map[string]bool, path *[]string) bool {
	if start == target {
		return true
	}

	if visited[start] {
		return false
	}

	visited[start] = true
	*path = append(*path, start)

	for _, dep := range ctx.DepGraph[start] {
		if ctx.hasCyclePath(dep, target, visited, path) {
			return true
		}
	}

	// Backtrack
	*path = (*path)[:len(*path)-1]
	return false
}

// formatCycle formats a cycle path for error messages
func formatCycle(cycle []string) string {
	parts := make([]string, len(cycle))
	for i, path := range cycle {
		parts[i] = filepath.Base(path)
	}
	return strings.Join(parts, " -> ")
}

func (ctx *CompilerContext) HasErrors() bool {
	return ctx.Diagnostics.HasErrors()
}

// ReportError adds an error diagnostic. location may be nil.
func (ctx *CompilerContext) ReportError(message, code string, location *source.Location) {
	diag := diagnostics.NewError(message).WithCode(code)
	if location != nil {
		diag.WithPrimaryLabel(location, "")
	}
	ctx.Diagnostics.Add(diag)
}

// EmitDiagnostics writes all collected diagnostics to w
func (ctx *CompilerContext) EmitDiagnostics(w io.Writer) {
	ctx.Diagnostics.EmitAll(w)
}

func (ctx *CompilerContext) ModuleCount() int {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return len(ctx.Modules)
}

// GetModuleNames returns the module keys in the order computed by
// ComputeTopologicalOrder: imported stylesheets before their importers.
func (ctx *CompilerContext) GetModuleNames() []string {
	return ctx.sortedModules
}

// ComputeTopologicalOrder computes and stores the topological order of modules
func (ctx *CompilerContext) ComputeTopologicalOrder() {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	inDegree := make(map[string]int)
	for key := range ctx.Modules {
		inDegree[key] = 0
	}
	for importer, deps := range ctx.DepGraph {
		inDegree[importer] += len(deps)
	}

	var queue []string
	for key := range ctx.Modules {
		if inDegree[key] == 0 {
			queue = append(queue, key)
		}
	}
	sort.Strings(queue)

	var sorted []string
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		var next []string
		for importer, deps := range ctx.DepGraph {
			for _, dep := range deps {
				if dep == current {
					inDegree[importer]--
					if inDegree[importer] == 0 {
						next = append(next, importer)
					}
				}
			}
		}
		sort.Strings(next)
		queue = append(queue, next...)
	}

	ctx.sortedModules = sorted
}
