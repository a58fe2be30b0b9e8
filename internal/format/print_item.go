package format

import (
	"strconv"
	"strings"

	"solfront/internal/ast"
)

func (p *printer) printDoc(doc string) {
	if doc == "" || p.opt.DropDoc {
		return
	}
	for line := range strings.SplitSeq(doc, "\n") {
		if line == "" {
			p.w.Line("///")
			continue
		}
		p.w.Line("/// " + line)
	}
}

func (p *printer) printItem(id ast.ItemID) {
	item := p.b.Items.Get(id)
	p.printDoc(item.Doc)
	switch item.Kind {
	case ast.ItemPragma:
		pr, _ := p.b.Items.Pragma(id)
		line := "pragma " + p.b.Name(pr.Name)
		if pr.Value != "" {
			line += " " + pr.Value
		}
		p.w.Line(line + ";")
	case ast.ItemImport:
		imp, _ := p.b.Items.Import(id)
		p.w.Line(p.importLine(imp))
	case ast.ItemContract:
		c, _ := p.b.Items.Contract(id)
		p.printContract(c)
	case ast.ItemFunction:
		fn, _ := p.b.Items.Function(id)
		p.printFunction(fn)
	case ast.ItemModifier:
		m, _ := p.b.Items.Modifier(id)
		p.printModifier(m)
	case ast.ItemEvent:
		ev, _ := p.b.Items.Event(id)
		line := "event " + p.b.Name(ev.Name) + p.params(ev.Params)
		if ev.Anonymous {
			line += " anonymous"
		}
		p.w.Line(line + ";")
	case ast.ItemError:
		e, _ := p.b.Items.Error(id)
		p.w.Line("error " + p.b.Name(e.Name) + p.params(e.Params) + ";")
	case ast.ItemVariable:
		v, _ := p.b.Items.Variable(id)
		p.w.Line(p.variableLine(v))
	case ast.ItemStruct:
		s, _ := p.b.Items.Struct(id)
		p.w.Line("struct " + p.b.Name(s.Name) + " {")
		p.w.Indent()
		for _, f := range s.Fields {
			p.w.Line(p.typeExpr(f.Type) + " " + p.b.Name(f.Name) + ";")
		}
		p.w.Dedent()
		p.w.Line("}")
	case ast.ItemEnum:
		e, _ := p.b.Items.Enum(id)
		names := make([]string, len(e.Members))
		for i, m := range e.Members {
			names[i] = p.b.Name(m.Name)
		}
		p.w.Line("enum " + p.b.Name(e.Name) + " { " + strings.Join(names, ", ") + " }")
	case ast.ItemUDVT:
		u, _ := p.b.Items.UDVT(id)
		p.w.Line("type " + p.b.Name(u.Name) + " is " + p.typeExpr(u.Underlying) + ";")
	case ast.ItemUsing:
		u, _ := p.b.Items.Using(id)
		p.w.Line(p.usingLine(u))
	}
}

func (p *printer) importLine(imp *ast.ImportDecl) string {
	path := strconv.Quote(imp.Path)
	switch {
	case imp.Wildcard:
		return "import * as " + p.b.Name(imp.Alias) + " from " + path + ";"
	case len(imp.Symbols) > 0:
		syms := make([]string, len(imp.Symbols))
		for i, s := range imp.Symbols {
			syms[i] = p.b.Name(s.Name)
			if s.Alias != 0 {
				syms[i] += " as " + p.b.Name(s.Alias)
			}
		}
		return "import {" + strings.Join(syms, ", ") + "} from " + path + ";"
	case imp.Alias != 0:
		return "import " + path + " as " + p.b.Name(imp.Alias) + ";"
	}
	return "import " + path + ";"
}

func (p *printer) printContract(c *ast.ContractDecl) {
	var sb strings.Builder
	if c.Abstract {
		sb.WriteString("abstract ")
	}
	sb.WriteString(c.Kind.String())
	sb.WriteString(" ")
	sb.WriteString(p.b.Name(c.Name))
	if len(c.Bases) > 0 {
		bases := make([]string, len(c.Bases))
		for i, base := range c.Bases {
			bases[i] = p.path(base.Name)
			if base.HasArgs {
				bases[i] += "(" + p.exprList(base.Args) + ")"
			}
		}
		sb.WriteString(" is ")
		sb.WriteString(strings.Join(bases, ", "))
	}
	if len(c.Members) == 0 {
		p.w.Line(sb.String() + " {}")
		return
	}
	p.w.Line(sb.String() + " {")
	p.w.Indent()
	for i, id := range c.Members {
		if i > 0 && p.needsBlankLine(c.Members[i-1], id) {
			p.w.BlankLine()
		}
		p.printItem(id)
	}
	p.w.Dedent()
	p.w.Line("}")
}

func (p *printer) printFunction(fn *ast.FunctionDecl) {
	var sb strings.Builder
	if fn.Kind == ast.FnRegular {
		sb.WriteString("function ")
	}
	sb.WriteString(p.b.Name(fn.Name))
	sb.WriteString(p.params(fn.Params))
	if fn.Visibility != ast.VisDefault {
		sb.WriteString(" " + fn.Visibility.String())
	}
	if fn.Mutability != ast.MutNonPayable {
		sb.WriteString(" " + fn.Mutability.String())
	}
	if fn.Virtual {
		sb.WriteString(" virtual")
	}
	if fn.Override.Present {
		sb.WriteString(" " + p.override(fn.Override))
	}
	for _, m := range fn.Modifiers {
		sb.WriteString(" " + p.path(m.Name))
		if m.HasArgs {
			sb.WriteString("(" + p.exprList(m.Args) + ")")
		}
	}
	if len(fn.Returns) > 0 {
		sb.WriteString(" returns " + p.params(fn.Returns))
	}
	p.printBodyOrSemicolon(sb.String(), fn.Body)
}

func (p *printer) printModifier(m *ast.ModifierDecl) {
	head := "modifier " + p.b.Name(m.Name)
	if len(m.Params) > 0 {
		head += p.params(m.Params)
	}
	if m.Virtual {
		head += " virtual"
	}
	if m.Override.Present {
		head += " " + p.override(m.Override)
	}
	p.printBodyOrSemicolon(head, m.Body)
}

func (p *printer) printBodyOrSemicolon(head string, body ast.StmtID) {
	if !body.IsValid() {
		p.w.Line(head + ";")
		return
	}
	p.w.WriteString(head + " ")
	p.printBlock(body)
	p.w.Newline()
}

func (p *printer) override(o ast.OverrideSpec) string {
	if len(o.Bases) == 0 {
		return "override"
	}
	names := make([]string, len(o.Bases))
	for i, b := range o.Bases {
		names[i] = p.path(b)
	}
	return "override(" + strings.Join(names, ", ") + ")"
}

func (p *printer) variableLine(v *ast.VariableDecl) string {
	parts := []string{p.typeExpr(v.Type)}
	if v.Visibility != ast.VisDefault {
		parts = append(parts, v.Visibility.String())
	}
	if v.Constant {
		parts = append(parts, "constant")
	}
	if v.Immutable {
		parts = append(parts, "immutable")
	}
	if v.Override.Present {
		parts = append(parts, p.override(v.Override))
	}
	if v.Location != ast.LocNone {
		parts = append(parts, v.Location.String())
	}
	parts = append(parts, p.b.Name(v.Name))
	line := strings.Join(parts, " ")
	if v.Value.IsValid() {
		line += " = " + p.expr(v.Value)
	}
	return line + ";"
}

func (p *printer) usingLine(u *ast.UsingDecl) string {
	var head string
	if len(u.Functions) > 0 {
		names := make([]string, len(u.Functions))
		for i, f := range u.Functions {
			names[i] = p.path(f)
		}
		head = "using {" + strings.Join(names, ", ") + "}"
	} else {
		head = "using " + p.path(u.Library)
	}
	target := "*"
	if u.Target.IsValid() {
		target = p.typeExpr(u.Target)
	}
	line := head + " for " + target
	if u.Global {
		line += " global"
	}
	return line + ";"
}

func (p *printer) path(ip ast.IdentPath) string {
	names := make([]string, len(ip.Names))
	for i, n := range ip.Names {
		names[i] = p.b.Name(n)
	}
	return strings.Join(names, ".")
}

func (p *printer) params(params []ast.Param) string {
	parts := make([]string, len(params))
	for i, prm := range params {
		s := p.typeExpr(prm.Type)
		if prm.Location != ast.LocNone {
			s += " " + prm.Location.String()
		}
		if prm.Indexed {
			s += " indexed"
		}
		if prm.Name != 0 {
			s += " " + p.b.Name(prm.Name)
		}
		parts[i] = s
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
