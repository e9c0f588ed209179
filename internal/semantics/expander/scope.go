package expander

import (
	"regexp"

	"stylec/internal/diagnostics"
	"stylec/internal/source"
	str "stylec/internal/utils/strings"
)

var variableRef = regexp.MustCompile(`\$([A-Za-z_][-\w]*)`)

// scope is one lexical level of variable bindings
type scope struct {
	vars   map[string]string
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: make(map[string]string), parent: parent}
}

func (s *scope) lookup(name string) (string, bool) {
	name = str.NormalizeUnderscores(name)
	for sc := s; sc != nil; sc = sc.parent {
		if value, ok := sc.vars[name]; ok {
			return value, true
		}
	}
	return "", false
}

// assign updates the nearest scope that already binds name, or binds it
// in s.
func (s *scope) assign(name, value string) {
	name = str.NormalizeUnderscores(name)
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.vars[name]; ok {
			sc.vars[name] = value
			return
		}
	}
	s.vars[name] = value
}

// substitute replaces every $name in text with its value. Undefined names
// are reported and left as written.
func (e *Expander) substitute(text string, sc *scope, loc *source.Location) string {
	if !variableRef.MatchString(text) {
		return text
	}
	return variableRef.ReplaceAllStringFunc(text, func(ref string) string {
		name := ref[1:]
		if value, ok := sc.lookup(name); ok {
			return value
		}
		e.diagnostics.Add(diagnostics.UndefinedVariable(loc, name))
		return ref
	})
}
