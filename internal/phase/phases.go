package phase

// ModulePhase tracks the compilation phase of an individual stylesheet
//
// Every module is lexed and parsed. Only the entry module goes further:
// - NotStarted -> Lexed -> Parsed -> Expanded -> Bubbled -> Emitted
//
// Imported partials stop at PhaseParsed; their statements reach the output
// through the entry module's expansion.
type ModulePhase int

const (
	PhaseNotStarted ModulePhase = iota // Module discovered but not processed
	PhaseLexed                         // Tokens generated
	PhaseParsed                        // AST built
	PhaseExpanded                      // Imports inlined, variables and selectors resolved
	PhaseBubbled                       // Nested @media hoisted to the root
	PhaseEmitted                       // CSS generated
)

// PhasePrerequisites maps each phase to its required predecessor phase
// This explicit mapping is safer than arithmetic and allows for non-linear phase progressions
var PhasePrerequisites = map[ModulePhase]ModulePhase{
	PhaseLexed:    PhaseNotStarted,
	PhaseParsed:   PhaseLexed,
	PhaseExpanded: PhaseParsed,
	PhaseBubbled:  PhaseExpanded,
	PhaseEmitted:  PhaseBubbled,
}

func (p ModulePhase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhaseLexed:
		return "Lexed"
	case PhaseParsed:
		return "Parsed"
	case PhaseExpanded:
		return "Expanded"
	case PhaseBubbled:
		return "Bubbled"
	case PhaseEmitted:
		return "Emitted"
	default:
		return "Unknown"
	}
}
