package ast

import "strings"

// MediaExpression is one parenthesized media feature test, `(feature: value)`
// or `(feature)`.
type MediaExpression struct {
	Feature string
	Value   string `json:",omitempty"`
}

func (e MediaExpression) String() string {
	if e.Value == "" {
		return "(" + e.Feature + ")"
	}
	return "(" + e.Feature + ": " + e.Value + ")"
}

// MediaQuery is one media condition: `[not|only] type and (expr) and ...`
type MediaQuery struct {
	Type        string `json:",omitempty"` // "" when the query is expressions only
	Negated     bool   `json:",omitempty"` // not
	Restricted  bool   `json:",omitempty"` // only
	Expressions []MediaExpression
}

func (q *MediaQuery) String() string {
	var b strings.Builder
	if q.Negated {
		b.WriteString("not ")
	} else if q.Restricted {
		b.WriteString("only ")
	}
	b.WriteString(q.Type)
	for i, expr := range q.Expressions {
		if i > 0 || q.Type != "" {
			b.WriteString(" and ")
		}
		b.WriteString(expr.String())
	}
	return b.String()
}

func (q *MediaQuery) Clone() *MediaQuery {
	if q == nil {
		return nil
	}
	out := *q
	out.Expressions = append([]MediaExpression(nil), q.Expressions...)
	return &out
}

// MediaQueryList is the comma-separated condition of one @media block.
type MediaQueryList []*MediaQuery

func (l MediaQueryList) String() string {
	parts := make([]string, len(l))
	for i, q := range l {
		parts[i] = q.String()
	}
	return strings.Join(parts, ", ")
}

func (l MediaQueryList) Clone() MediaQueryList {
	if l == nil {
		return nil
	}
	out := make(MediaQueryList, len(l))
	for i, q := range l {
		out[i] = q.Clone()
	}
	return out
}
