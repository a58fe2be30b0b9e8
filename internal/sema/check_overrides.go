package sema

import (
	"fmt"
	"slices"
	"strings"

	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/types"
)

type memberKind uint8

const (
	memberFunction memberKind = iota + 1
	memberModifier
	memberStateVar
)

// member is a declaration taking part in overriding: a function, a modifier
// or a public state variable, which can implement an external function.
type member struct {
	item     ast.ItemID
	contract ast.ItemID
	kind     memberKind
	name     string
	// key identifies the slot a member occupies; functions and getters
	// share the slot of their name and parameter types.
	key         string
	span        source.Span
	virtual     bool
	override    ast.OverrideSpec
	vis         ast.Visibility
	mut         ast.Mutability
	returns     []types.TypeID
	implemented bool
}

func (m *member) noun() string {
	switch m.kind {
	case memberModifier:
		return "modifier"
	case memberStateVar:
		return "public state variable"
	}
	return "function"
}

// checkOverrides checks every contract against its linearized ancestors.
func (tc *typeChecker) checkOverrides() {
	cache := make(map[ast.ItemID][]*member)
	for _, c := range tc.syms.Contracts {
		if tc.syms.Unlinearized[c] {
			continue
		}
		tc.file, tc.contract = tc.syms.ItemFiles[c], c
		own := tc.ownMembers(c, cache)
		ownKeys := make(map[string]bool, len(own))
		for _, m := range own {
			ownKeys[m.key] = true
			tc.checkOverride(m, tc.overriddenBy(c, m.key, cache))
		}
		tc.checkInheritedSlots(c, ownKeys, cache)
		tc.checkAbstract(c, cache)
	}
	tc.file, tc.contract = ast.NoFileID, ast.NoItemID
}

// ownMembers collects the overridable declarations made directly in c.
func (tc *typeChecker) ownMembers(c ast.ItemID, cache map[ast.ItemID][]*member) []*member {
	if ms, ok := cache[c]; ok {
		return ms
	}
	decl := tc.contractDecl(c)
	iface := decl.Kind == ast.ContractInterface
	var out []*member
	for _, id := range decl.Members {
		switch item := tc.b.Items.Get(id); item.Kind {
		case ast.ItemFunction:
			fn, _ := tc.b.Items.Function(id)
			if fn.Kind == ast.FnConstructor {
				continue
			}
			name := tc.b.Name(fn.Name)
			switch fn.Kind {
			case ast.FnReceive:
				name = "receive"
			case ast.FnFallback:
				name = "fallback"
			}
			info, _ := tc.types.FnInfo(tc.result.ItemTypes[id])
			var returns []types.TypeID
			if info != nil {
				returns = info.Returns
			}
			vis := fn.Visibility
			if vis == ast.VisDefault {
				vis = ast.VisPublic
			}
			out = append(out, &member{
				item: id, contract: c, kind: memberFunction, name: name,
				key:  "fn:" + name + "(" + tc.paramKey(tc.result.ItemTypes[id]) + ")",
				span: fn.NameSpan, virtual: fn.Virtual || iface, override: fn.Override,
				vis: vis, mut: fn.Mutability, returns: returns, implemented: fn.Body.IsValid(),
			})
		case ast.ItemModifier:
			m, _ := tc.b.Items.Modifier(id)
			out = append(out, &member{
				item: id, contract: c, kind: memberModifier, name: tc.b.Name(m.Name),
				key:  "mod:" + tc.b.Name(m.Name),
				span: m.NameSpan, virtual: m.Virtual, override: m.Override, implemented: m.Body.IsValid(),
			})
		case ast.ItemVariable:
			v, _ := tc.b.Items.Variable(id)
			if v.Visibility != ast.VisPublic || v.Constant {
				continue
			}
			getter := tc.types.Getter(tc.symbolType(tc.syms.ItemSymbols[id]))
			info, _ := tc.types.FnInfo(getter)
			name := tc.b.Name(v.Name)
			out = append(out, &member{
				item: id, contract: c, kind: memberStateVar, name: name,
				key:  "fn:" + name + "(" + tc.paramKey(getter) + ")",
				span: v.NameSpan, override: v.Override,
				vis: ast.VisPublic, mut: ast.MutView, returns: info.Returns, implemented: true,
			})
		}
	}
	cache[c] = out
	return out
}

// overriddenBy returns the members with key in the ancestors of c that are
// not themselves overridden by another such member, most derived first.
func (tc *typeChecker) overriddenBy(c ast.ItemID, key string, cache map[ast.ItemID][]*member) []*member {
	var found []*member
	for _, k := range tc.syms.Order(c)[1:] {
		for _, m := range tc.ownMembers(k, cache) {
			if m.key == key {
				found = append(found, m)
			}
		}
	}
	var leaves []*member
	for _, m := range found {
		shadowed := slices.ContainsFunc(found, func(o *member) bool {
			return o.contract != m.contract && slices.Contains(tc.syms.Order(o.contract)[1:], m.contract)
		})
		if !shadowed {
			leaves = append(leaves, m)
		}
	}
	return leaves
}

func (tc *typeChecker) checkOverride(m *member, bases []*member) {
	if len(bases) == 0 {
		if m.override.Present {
			tc.inheritError(diag.InhOverridesNothing, m.override.Span,
				"%s '%s' is marked override but does not override anything", m.noun(), m.name).Emit()
		}
		return
	}
	if !m.override.Present {
		if len(bases) == 1 && tc.contractKind(bases[0].contract) == ast.ContractInterface &&
			m.kind == memberFunction && tc.cfg.Has(config.ImplicitInterfaceOverride) {
			tc.checkOverrideShape(m, bases[0])
			return
		}
		rb := tc.inheritError(diag.InhMissingOverride, m.span,
			"%s '%s' overrides %s and must be marked override", m.noun(), m.name, tc.memberList(bases))
		for _, b := range bases {
			rb = rb.WithNote(b.span, "overridden "+b.noun()+" is here")
		}
		rb.Emit()
	} else {
		tc.checkOverrideList(m, bases)
	}
	for _, b := range bases {
		if b.kind == memberStateVar {
			tc.inheritError(diag.InhNonVirtualBase, m.span,
				"public state variable '%s.%s' cannot be overridden", tc.contractName(b.contract), b.name).
				WithNote(b.span, "state variable is here").Emit()
			continue
		}
		if !b.virtual {
			tc.inheritError(diag.InhNonVirtualBase, m.span,
				"'%s.%s' is not virtual and cannot be overridden", tc.contractName(b.contract), b.name).
				WithNote(b.span, "declared here without 'virtual'").Emit()
			continue
		}
		tc.checkOverrideShape(m, b)
	}
}

// checkOverrideList checks that `override(A, B)` names exactly the contracts
// of the overridden members when there is more than one.
func (tc *typeChecker) checkOverrideList(m *member, bases []*member) {
	listed := tc.syms.OverrideBases[m.item]
	if len(bases) == 1 && len(listed) == 0 {
		return
	}
	for _, b := range bases {
		if !slices.Contains(listed, b.contract) {
			tc.inheritError(diag.InhMissingOverrideBase, m.override.Span,
				"override list of '%s' must name '%s'", m.name, tc.contractName(b.contract)).
				WithNote(b.span, "overridden "+b.noun()+" is here").Emit()
		}
	}
	for _, c := range listed {
		if !slices.ContainsFunc(bases, func(b *member) bool { return b.contract == c }) {
			tc.inheritError(diag.InhOverrideListNotBase, m.override.Span,
				"'%s' in the override list of '%s' does not declare an overridden %s", tc.contractName(c), m.name, m.noun()).Emit()
		}
	}
}

// checkOverrideShape compares visibility, mutability and return types of an
// override with the member it overrides.
func (tc *typeChecker) checkOverrideShape(m, base *member) {
	if m.kind == memberModifier {
		return
	}
	visOK := m.vis == base.vis || base.vis == ast.VisExternal && m.vis == ast.VisPublic
	if !visOK {
		tc.inheritError(diag.InhOverrideVisibility, m.span,
			"'%s' changes visibility from %s to %s", m.name, base.vis, m.vis).
			WithNote(base.span, "overridden "+base.noun()+" is here").Emit()
	}
	mutOK := m.mut == base.mut
	if !mutOK && base.mut != ast.MutPayable && m.mut != ast.MutPayable {
		mutOK = m.mut.Rank() < base.mut.Rank()
	}
	if !mutOK {
		tc.inheritError(diag.InhOverrideMutability, m.span,
			"'%s' changes state mutability from %s to %s", m.name, base.mut, m.mut).
			WithNote(base.span, "overridden "+base.noun()+" is here").Emit()
	}
	if !tc.sameTypes(m.returns, base.returns) {
		tc.inheritError(diag.InhOverrideReturns, m.span,
			"'%s' returns (%s) but the overridden %s returns (%s)", m.name, tc.typeList(m.returns), base.noun(), tc.typeList(base.returns)).
			WithNote(base.span, "overridden "+base.noun()+" is here").Emit()
	}
}

func (tc *typeChecker) sameTypes(a, b []types.TypeID) bool {
	return slices.EqualFunc(a, b, func(x, y types.TypeID) bool {
		return tc.types.StripLocation(x) == tc.types.StripLocation(y)
	})
}

// checkInheritedSlots reports slots that c inherits from several unrelated
// bases without overriding them itself.
func (tc *typeChecker) checkInheritedSlots(c ast.ItemID, own map[string]bool, cache map[ast.ItemID][]*member) {
	decl := tc.contractDecl(c)
	seen := make(map[string]bool)
	for _, k := range tc.syms.Order(c)[1:] {
		for _, m := range tc.ownMembers(k, cache) {
			if own[m.key] || seen[m.key] {
				continue
			}
			seen[m.key] = true
			leaves := tc.overriddenBy(c, m.key, cache)
			if len(leaves) < 2 {
				continue
			}
			code := diag.InhMissingOverride
			if m.kind == memberModifier {
				code = diag.InhAmbiguousBases
			}
			rb := tc.inheritError(code, decl.NameSpan,
				"'%s' inherits %s '%s' from %s and must override it", tc.b.Name(decl.Name), m.noun(), m.name, tc.contractList(leaves))
			for _, l := range leaves {
				rb = rb.WithNote(l.span, "declared in '"+tc.contractName(l.contract)+"'")
			}
			rb.Emit()
		}
	}
}

// checkAbstract reports a concrete contract whose most derived version of
// some function or modifier has no body.
func (tc *typeChecker) checkAbstract(c ast.ItemID, cache map[ast.ItemID][]*member) {
	decl := tc.contractDecl(c)
	if decl.Kind != ast.ContractPlain || decl.Abstract {
		return
	}
	seen := make(map[string]bool)
	var missing []*member
	for _, k := range tc.syms.Order(c) {
		for _, m := range tc.ownMembers(k, cache) {
			if seen[m.key] {
				continue
			}
			seen[m.key] = true
			if !m.implemented {
				missing = append(missing, m)
			}
		}
	}
	if len(missing) == 0 {
		return
	}
	rb := tc.inheritError(diag.InhMustBeAbstract, decl.NameSpan,
		"contract '%s' has unimplemented members and must be marked abstract", tc.b.Name(decl.Name))
	for _, m := range missing {
		rb = rb.WithNote(m.span, fmt.Sprintf("%s '%s' is not implemented", m.noun(), m.name))
	}
	rb.Emit()
}

func (tc *typeChecker) contractKind(c ast.ItemID) ast.ContractKind {
	if d := tc.contractDecl(c); d != nil {
		return d.Kind
	}
	return ast.ContractPlain
}

func (tc *typeChecker) memberList(ms []*member) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = "'" + tc.contractName(m.contract) + "." + m.name + "'"
	}
	return strings.Join(parts, ", ")
}

func (tc *typeChecker) contractList(ms []*member) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = "'" + tc.contractName(m.contract) + "'"
	}
	return strings.Join(parts, " and ")
}
