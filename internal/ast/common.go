package ast

import (
	"solfront/internal/source"
)

// IdentPath is a dotted name such as `Lib.S` or `A.B.C`.
type IdentPath struct {
	Names []source.StringID
	Spans []source.Span
	Span  source.Span
}

// Last returns the final segment.
func (p IdentPath) Last() source.StringID {
	if len(p.Names) == 0 {
		return source.NoStringID
	}
	return p.Names[len(p.Names)-1]
}

// Param is a function, event, error or catch parameter.
type Param struct {
	Type     TypeExprID
	Location DataLocation
	Name     source.StringID
	NameSpan source.Span
	Indexed  bool
	Span     source.Span
}

// OverrideSpec is an `override` or `override(A, B)` specifier.
type OverrideSpec struct {
	Present bool
	Bases   []IdentPath
	Span    source.Span
}

// ModifierInvocation is a modifier or base constructor call in a function header.
type ModifierInvocation struct {
	Name    IdentPath
	Args    []ExprID
	HasArgs bool
	Span    source.Span
}

// InheritanceSpec is one entry of an `is` list.
type InheritanceSpec struct {
	Name    IdentPath
	Args    []ExprID
	HasArgs bool
	Span    source.Span
}
