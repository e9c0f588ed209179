package diagnostics

import (
	"fmt"

	"stylec/internal/source"
)

// Common diagnostic builders shared by the front end and the expander

// UnexpectedToken creates a diagnostic for a token the parser cannot use here
func UnexpectedToken(loc *source.Location, found string) *Diagnostic {
	return NewError(fmt.Sprintf("unexpected %s", found)).
		WithCode(ErrUnexpectedToken).
		WithPrimaryLabel(loc, "not expected here")
}

// ExpectedToken creates a diagnostic for a missing token
func ExpectedToken(loc *source.Location, expected, found string) *Diagnostic {
	return NewError(fmt.Sprintf("expected %s, found %s", expected, found)).
		WithCode(ErrExpectedToken).
		WithPrimaryLabel(loc, "expected "+expected)
}

// UndefinedVariable creates a diagnostic for a variable reference with no declaration in scope
func UndefinedVariable(loc *source.Location, name string) *Diagnostic {
	return NewError("undefined variable: $"+name).
		WithCode(ErrUndefinedVariable).
		WithPrimaryLabel(loc, "not found in this scope").
		WithHelp("declare the variable before it is used, e.g. $" + name + ": value;")
}

// ModuleNotFound creates a diagnostic for an @import that resolves to no file
func ModuleNotFound(loc *source.Location, path string) *Diagnostic {
	return NewError(fmt.Sprintf("cannot find stylesheet to import: %q", path)).
		WithCode(ErrModuleNotFound).
		WithPrimaryLabel(loc, "imported here").
		WithNote("tried " + path + ", " + path + ".scss and _" + path + ".scss relative to the importing file and the load paths")
}

// CyclicImport creates a diagnostic for an @import that closes a cycle
func CyclicImport(loc *source.Location, cycle string) *Diagnostic {
	return NewError("circular import detected: "+cycle).
		WithCode(ErrCyclicImport).
		WithPrimaryLabel(loc, "this import closes the cycle")
}

// NestedMediaQueryList creates a diagnostic for a comma-separated query list
// that would have to be combined with an enclosing @media condition
func NestedMediaQueryList(loc, outer *source.Location) *Diagnostic {
	d := NewError("cannot combine a media query list with an enclosing @media").
		WithCode(ErrNestedMediaQueryList).
		WithPrimaryLabel(loc, "nested @media is combined with its ancestors")
	if outer != nil {
		d.WithSecondaryLabel(outer, "enclosing @media")
	}
	return d.WithHelp("use a single query per level when nesting @media blocks")
}

// ParentSelectorAtRoot creates a diagnostic for '&' used where no parent rule exists
func ParentSelectorAtRoot(loc *source.Location, selector string) *Diagnostic {
	return NewError(fmt.Sprintf("top-level selector %q cannot contain the parent selector '&'", selector)).
		WithCode(ErrParentSelectorAtRoot).
		WithPrimaryLabel(loc, "no enclosing rule")
}

// DeclarationOutsideRule creates a diagnostic for a property declaration with no selector to attach to
func DeclarationOutsideRule(loc *source.Location, property string) *Diagnostic {
	return NewError(fmt.Sprintf("declaration %q is not allowed at the top level", property)).
		WithCode(ErrDeclarationOutsideRule).
		WithPrimaryLabel(loc, "declarations must appear inside a rule").
		WithHelp("wrap the declaration in a selector block")
}

// EmptyRule creates a warning for a rule whose block has no statements
func EmptyRule(loc *source.Location, selector string) *Diagnostic {
	return NewWarning(fmt.Sprintf("empty rule %q", selector)).
		WithCode(WarnEmptyRule).
		WithPrimaryLabel(loc, "this rule produces no output")
}
