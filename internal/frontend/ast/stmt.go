package ast

import (
	"encoding/json"
	"fmt"
	"os"

	"stylec/internal/source"
)

// Stylesheet represents one source file (pure syntax tree)
type Stylesheet struct {
	FullPath   string // the physical full path to the file
	ImportPath string // the key the file is registered under
	Root       *Block

	source.Location
}

func (s *Stylesheet) INode()                {} // Implements Node interface
func (s *Stylesheet) Loc() *source.Location { return &s.Location }

func (s *Stylesheet) SaveAST() error {
	file, err := os.Create(s.FullPath + ".ast.json")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ") // pretty-print
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("failed to encode AST to JSON: %w", err)
	}
	return nil
}

// Declaration is a `property: value` pair
type Declaration struct {
	Meta
	Property  string
	Value     string
	Important bool `json:",omitempty"`
}

func (d *Declaration) INode() {} // Implements Node interface
func (d *Declaration) Stmt()  {} // Stmt is a marker interface for all statements

// Comment is a preserved /* ... */ comment
type Comment struct {
	Meta
	Text string // including the delimiters
}

func (c *Comment) INode() {} // Implements Node interface
func (c *Comment) Stmt()  {} // Stmt is a marker interface for all statements

// Import is an `@import "a", "b";` of local stylesheets.
// Imports of plain css, urls or media-qualified imports stay AtRules.
type Import struct {
	Meta
	Paths []string
	// Resolved holds the module key for each path, filled by the pipeline.
	Resolved []string `json:",omitempty"`
}

func (i *Import) INode() {} // Implements Node interface
func (i *Import) Stmt()  {} // Stmt is a marker interface for all statements

// VariableDecl is `$name: value [!default];`
type VariableDecl struct {
	Meta
	Name    string // without the '$'
	Value   string
	Default bool `json:",omitempty"`
}

func (v *VariableDecl) INode() {} // Implements Node interface
func (v *VariableDecl) Stmt()  {} // Stmt is a marker interface for all statements
