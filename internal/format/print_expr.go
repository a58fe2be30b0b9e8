package format

import (
	"strings"

	"solfront/internal/ast"
	"solfront/internal/parser"
	"solfront/internal/token"
)

const (
	precAssign      = 1
	precConditional = 2
	precUnary       = 14
	precPostfix     = 15
	precPrimary     = 16
)

func (p *printer) precOf(id ast.ExprID) int {
	ex := p.b.Exprs.Get(id)
	switch ex.Kind {
	case ast.ExprAssign:
		return precAssign
	case ast.ExprConditional:
		return precConditional
	case ast.ExprBinary:
		bin, _ := p.b.Exprs.Binary(id)
		return parser.BinaryPrec(bin.Op)
	case ast.ExprUnary:
		if u, _ := p.b.Exprs.Unary(id); u.Postfix {
			return precPostfix
		}
		return precUnary
	case ast.ExprCall, ast.ExprCallOptions, ast.ExprMember, ast.ExprIndex, ast.ExprSlice:
		return precPostfix
	}
	return precPrimary
}

func (p *printer) expr(id ast.ExprID) string {
	return p.exprPrec(id, precAssign)
}

// exprPrec prints id, wrapping it in parentheses when it binds looser than minPrec.
func (p *printer) exprPrec(id ast.ExprID, minPrec int) string {
	s := p.exprRaw(id)
	if p.precOf(id) < minPrec {
		return "(" + s + ")"
	}
	return s
}

func (p *printer) exprList(ids []ast.ExprID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = p.expr(id)
	}
	return strings.Join(parts, ", ")
}

func (p *printer) exprRaw(id ast.ExprID) string {
	ex := p.b.Exprs.Get(id)
	if ex == nil {
		return ""
	}
	switch ex.Kind {
	case ast.ExprIdent:
		ident, _ := p.b.Exprs.Ident(id)
		return p.b.Name(ident.Name)
	case ast.ExprLit:
		lit, _ := p.b.Exprs.Lit(id)
		if lit.Unit != 0 {
			return lit.Raw + " " + p.b.Name(lit.Unit)
		}
		return lit.Raw
	case ast.ExprUnary:
		u, _ := p.b.Exprs.Unary(id)
		if u.Postfix {
			return p.exprPrec(u.Operand, precPostfix) + u.Op.String()
		}
		operand := p.exprPrec(u.Operand, precUnary)
		if u.Op == token.KwDelete {
			return "delete " + operand
		}
		op := u.Op.String()
		// keep `- -x` from printing as a decrement
		if (op == "-" || op == "--") && strings.HasPrefix(operand, "-") {
			return op + " " + operand
		}
		return op + operand
	case ast.ExprBinary:
		bin, _ := p.b.Exprs.Binary(id)
		prec, right := parser.BinaryPrec(bin.Op), bin.Op == token.StarStar
		lp, rp := prec, prec+1
		if right {
			lp, rp = prec+1, prec
		}
		return p.exprPrec(bin.Left, lp) + " " + bin.Op.String() + " " + p.exprPrec(bin.Right, rp)
	case ast.ExprAssign:
		a, _ := p.b.Exprs.Assign(id)
		return p.exprPrec(a.Target, precConditional) + " " + a.Op.String() + " " + p.exprPrec(a.Value, precAssign)
	case ast.ExprConditional:
		c, _ := p.b.Exprs.Conditional(id)
		return p.exprPrec(c.Cond, precConditional+1) + " ? " + p.expr(c.Then) + " : " + p.expr(c.Else)
	case ast.ExprCall:
		call, _ := p.b.Exprs.Call(id)
		callee := p.exprPrec(call.Callee, precPostfix)
		if call.Named {
			args := make([]string, len(call.Args))
			for i, a := range call.Args {
				args[i] = p.b.Name(call.Names[i]) + ": " + p.expr(a)
			}
			return callee + "({" + strings.Join(args, ", ") + "})"
		}
		return callee + "(" + p.exprList(call.Args) + ")"
	case ast.ExprCallOptions:
		opts, _ := p.b.Exprs.CallOptions(id)
		parts := make([]string, len(opts.Values))
		for i, v := range opts.Values {
			parts[i] = p.b.Name(opts.Names[i]) + ": " + p.expr(v)
		}
		return p.exprPrec(opts.Callee, precPostfix) + "{" + strings.Join(parts, ", ") + "}"
	case ast.ExprMember:
		m, _ := p.b.Exprs.Member(id)
		return p.exprPrec(m.Target, precPostfix) + "." + p.b.Name(m.Name)
	case ast.ExprIndex:
		ix, _ := p.b.Exprs.Index(id)
		idx := ""
		if ix.Index.IsValid() {
			idx = p.expr(ix.Index)
		}
		return p.exprPrec(ix.Target, precPostfix) + "[" + idx + "]"
	case ast.ExprSlice:
		s, _ := p.b.Exprs.Slice(id)
		var start, end string
		if s.Start.IsValid() {
			start = p.expr(s.Start)
		}
		if s.End.IsValid() {
			end = p.expr(s.End)
		}
		return p.exprPrec(s.Target, precPostfix) + "[" + start + ":" + end + "]"
	case ast.ExprTuple:
		t, _ := p.b.Exprs.Tuple(id)
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			if e.IsValid() {
				parts[i] = p.expr(e)
			}
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case ast.ExprArray:
		t, _ := p.b.Exprs.Tuple(id)
		return "[" + p.exprList(t.Elems) + "]"
	case ast.ExprNew:
		n, _ := p.b.Exprs.New(id)
		return "new " + p.typeExpr(n.Type)
	case ast.ExprTypeName:
		tn, _ := p.b.Exprs.TypeName(id)
		el, ok := p.b.Types.ElementaryType(tn.Type)
		if ok && el.Payable && p.b.Name(el.Name) == "address" {
			return "payable"
		}
		return p.typeExpr(tn.Type)
	case ast.ExprMetaType:
		mt, _ := p.b.Exprs.MetaType(id)
		return "type(" + p.typeExpr(mt.Type) + ")"
	}
	return ""
}
