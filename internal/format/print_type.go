package format

import (
	"strings"

	"solfront/internal/ast"
)

func (p *printer) typeExpr(id ast.TypeExprID) string {
	te := p.b.Types.Get(id)
	if te == nil {
		return ""
	}
	switch te.Kind {
	case ast.TypeElementary:
		el, _ := p.b.Types.ElementaryType(id)
		if el.Payable {
			return p.b.Name(el.Name) + " payable"
		}
		return p.b.Name(el.Name)
	case ast.TypeUser:
		u, _ := p.b.Types.User(id)
		return p.path(u.Path)
	case ast.TypeMapping:
		m, _ := p.b.Types.Mapping(id)
		key := p.typeExpr(m.Key)
		if m.KeyName != 0 {
			key += " " + p.b.Name(m.KeyName)
		}
		value := p.typeExpr(m.Value)
		if m.ValueName != 0 {
			value += " " + p.b.Name(m.ValueName)
		}
		return "mapping(" + key + " => " + value + ")"
	case ast.TypeArray:
		a, _ := p.b.Types.Array(id)
		if a.Len.IsValid() {
			return p.typeExpr(a.Elem) + "[" + p.expr(a.Len) + "]"
		}
		return p.typeExpr(a.Elem) + "[]"
	case ast.TypeFunction:
		fn, _ := p.b.Types.Function(id)
		var sb strings.Builder
		sb.WriteString("function")
		sb.WriteString(p.params(fn.Params))
		if fn.Visibility != ast.VisDefault {
			sb.WriteString(" " + fn.Visibility.String())
		}
		if fn.Mutability != ast.MutNonPayable {
			sb.WriteString(" " + fn.Mutability.String())
		}
		if len(fn.Returns) > 0 {
			sb.WriteString(" returns " + p.params(fn.Returns))
		}
		return sb.String()
	}
	return ""
}
