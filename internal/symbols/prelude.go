package symbols

// Names of the contextual builtins whose type depends on the enclosing contract.
const (
	ThisName  = "this"
	SuperName = "super"
)

func (t *Table) installBuiltins() {
	for _, fn := range t.Types.BuiltinFunctions() {
		flags := SymbolFlagBuiltin
		if fn.Reverts {
			flags |= SymbolFlagReverts
		}
		t.add(t.builtin, Symbol{Name: t.Strings.Intern(fn.Name), Kind: SymbolBuiltin, Flags: flags, Type: fn.Type})
	}
	for _, name := range []string{"msg", "block", "tx", "abi"} {
		t.add(t.builtin, Symbol{
			Name:  t.Strings.Intern(name),
			Kind:  SymbolBuiltin,
			Flags: SymbolFlagBuiltin,
			Type:  t.Types.BuiltinObjects()[name],
		})
	}
	for _, name := range []string{ThisName, SuperName} {
		t.add(t.builtin, Symbol{Name: t.Strings.Intern(name), Kind: SymbolBuiltin, Flags: SymbolFlagBuiltin})
	}
}

// IsBuiltinNamed reports whether id is the builtin with the given name.
func (t *Table) IsBuiltinNamed(id SymbolID, name string) bool {
	sym := t.Symbols.Get(id)
	return sym != nil && sym.Flags&SymbolFlagBuiltin != 0 && t.Name(id) == name
}
