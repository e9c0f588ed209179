package ast

import (
	"strings"

	str "stylec/internal/utils/strings"
)

// SelectorList is an ordered list of selector groups, each a complex
// selector in normalized text form.
type SelectorList struct {
	Groups []string
}

func NewSelectorList(groups ...string) *SelectorList {
	return &SelectorList{Groups: groups}
}

// ParseSelectorList splits selector text on top-level commas.
func ParseSelectorList(text string) *SelectorList {
	return &SelectorList{Groups: str.SplitTopLevel(text, ',')}
}

func (s *SelectorList) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Groups)
}

func (s *SelectorList) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(s.Groups, ", ")
}

// HasParentRef reports whether any group uses the parent selector '&'.
func (s *SelectorList) HasParentRef() bool {
	if s == nil {
		return false
	}
	for _, g := range s.Groups {
		if strings.Contains(g, "&") {
			return true
		}
	}
	return false
}

// Resolve nests s inside parent. Every parent group is combined with every
// child group, parent-major: '&' is replaced by the parent group, otherwise
// the child becomes a descendant of it.
func (s *SelectorList) Resolve(parent *SelectorList) *SelectorList {
	if parent.Len() == 0 {
		return s.Clone()
	}
	out := &SelectorList{Groups: make([]string, 0, parent.Len()*s.Len())}
	for _, p := range parent.Groups {
		for _, c := range s.Groups {
			if strings.Contains(c, "&") {
				out.Groups = append(out.Groups, strings.ReplaceAll(c, "&", p))
			} else {
				out.Groups = append(out.Groups, p+" "+c)
			}
		}
	}
	return out
}

// WithoutPlaceholders drops every group that contains a %placeholder.
func (s *SelectorList) WithoutPlaceholders() *SelectorList {
	if s == nil {
		return nil
	}
	out := &SelectorList{Groups: make([]string, 0, len(s.Groups))}
	for _, g := range s.Groups {
		if !hasPlaceholder(g) {
			out.Groups = append(out.Groups, g)
		}
	}
	return out
}

func hasPlaceholder(group string) bool {
	var quote rune
	depth := 0
	for _, r := range group {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '[':
			depth++
		case r == ']':
			depth--
		case r == '%' && depth == 0:
			return true
		}
	}
	return false
}

func (s *SelectorList) Clone() *SelectorList {
	if s == nil {
		return nil
	}
	return &SelectorList{Groups: append([]string(nil), s.Groups...)}
}
