package diagnostics

// Error codes for the stylec compiler
const (
	// Lexer errors (L prefix)
	ErrUnexpectedCharacter = "L0001"
	ErrUnterminatedString  = "L0002"
	ErrUnterminatedComment = "L0003"

	// Parser errors (P prefix)
	ErrUnexpectedToken     = "P0001"
	ErrExpectedToken       = "P0002"
	ErrUnterminatedBlock   = "P0003"
	ErrInvalidMediaQuery   = "P0004"
	ErrInvalidDeclaration  = "P0005"
	ErrMissingSelector     = "P0006"
	ErrInvalidVariableDecl = "P0007"

	// Expansion errors (E prefix)
	ErrUndefinedVariable      = "E0001"
	ErrParentSelectorAtRoot   = "E0002"
	ErrDeclarationOutsideRule = "E0003"
	ErrNestedMediaQueryList   = "E0004"
	ErrImportNotExpanded      = "E0005"

	// Module/Import errors (M prefix)
	ErrModuleNotFound = "M0001"
	ErrCyclicImport   = "M0002"
	ErrUnreadableFile = "M0003"

	// Warnings (W prefix)
	WarnEmptyRule = "W0001"
)
