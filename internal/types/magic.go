package types

import "solfront/internal/ast"

// MagicKind identifies the builtin objects whose members are fixed by the language.
type MagicKind uint32

const (
	MagicNone MagicKind = iota
	MagicMsg
	MagicBlock
	MagicTx
	MagicAbi
	// MagicTypeInfo is `type(X)`; Type.Elem holds X.
	MagicTypeInfo
	// MagicSuper is the type of `super`.
	MagicSuper
	// MagicModule is an import namespace such as `A` in `import "p" as A`.
	MagicModule
)

func (k MagicKind) String() string {
	switch k {
	case MagicMsg:
		return "msg"
	case MagicBlock:
		return "block"
	case MagicTx:
		return "tx"
	case MagicAbi:
		return "abi"
	case MagicTypeInfo:
		return "type info"
	case MagicSuper:
		return "super"
	case MagicModule:
		return "module"
	}
	return "magic"
}

// Magic returns the type of a magic object. For MagicTypeInfo use TypeInfo.
func (in *Interner) Magic(k MagicKind) TypeID {
	return in.Intern(Type{Kind: KindMagic, Payload: uint32(k)})
}

// TypeInfo returns the type of `type(target)`.
func (in *Interner) TypeInfo(target TypeID) TypeID {
	return in.Intern(Type{Kind: KindMagic, Payload: uint32(MagicTypeInfo), Elem: target})
}

// MagicMember describes a member of a magic object.
type MagicMember struct {
	Type TypeID
	// ReadsState is set for members whose value comes from the environment.
	ReadsState bool
	// Value marks msg.value, which requires a payable function.
	Value bool
}

// MagicMemberOf returns the member name of magic object id.
func (in *Interner) MagicMemberOf(id TypeID, name string) (MagicMember, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindMagic {
		return MagicMember{}, false
	}
	b := in.builtins
	env := func(t TypeID) (MagicMember, bool) { return MagicMember{Type: t, ReadsState: true}, true }
	switch MagicKind(tt.Payload) {
	case MagicMsg:
		switch name {
		case "sender":
			return env(b.Address)
		case "value":
			return MagicMember{Type: b.Uint256, ReadsState: true, Value: true}, true
		case "data":
			return env(b.BytesCalldata)
		case "sig":
			return env(b.Bytes4)
		}
	case MagicBlock:
		switch name {
		case "coinbase":
			return env(b.AddressPayable)
		case "timestamp", "number", "difficulty", "prevrandao", "gaslimit", "chainid", "basefee", "blobbasefee":
			return env(b.Uint256)
		}
	case MagicTx:
		switch name {
		case "origin":
			return env(b.Address)
		case "gasprice":
			return env(b.Uint256)
		}
	case MagicAbi:
		switch name {
		case "encode", "encodePacked", "encodeWithSelector", "encodeWithSignature", "encodeCall":
			return MagicMember{Type: in.RegisterFn(FnInfo{
				Kind: FnBuiltin, Returns: []TypeID{b.BytesMemory}, Mutability: ast.MutPure, Variadic: true,
			})}, true
		case "decode":
			// result type depends on the type list argument
			return MagicMember{Type: in.RegisterFn(FnInfo{Kind: FnBuiltin, Mutability: ast.MutPure, Variadic: true})}, true
		}
	case MagicTypeInfo:
		return in.typeInfoMember(tt.Elem, name)
	}
	return MagicMember{}, false
}

func (in *Interner) typeInfoMember(target TypeID, name string) (MagicMember, bool) {
	b := in.builtins
	tt, _ := in.Lookup(target)
	switch tt.Kind {
	case KindInt, KindEnum:
		if name == "min" || name == "max" {
			return MagicMember{Type: target}, true
		}
	case KindContract:
		info := in.nominal(target)
		switch name {
		case "name":
			return MagicMember{Type: b.StringMemory}, true
		case "interfaceId":
			if info.ContractKind == ast.ContractInterface {
				return MagicMember{Type: b.Bytes4}, true
			}
		case "creationCode", "runtimeCode":
			if info.ContractKind == ast.ContractPlain && !info.Abstract {
				return MagicMember{Type: b.BytesMemory}, true
			}
		}
	}
	return MagicMember{}, false
}

// BuiltinFunc is a global function provided by the language.
type BuiltinFunc struct {
	Name string
	Type TypeID
	// Reverts marks require, assert and revert, which end control flow on failure.
	Reverts bool
}

// BuiltinFunctions returns the global functions. Overloaded names appear once per signature.
func (in *Interner) BuiltinFunctions() []BuiltinFunc {
	b := in.builtins
	fn := func(mut ast.Mutability, params []TypeID, returns ...TypeID) TypeID {
		return in.RegisterFn(FnInfo{Kind: FnBuiltin, Params: params, Returns: returns, Mutability: mut})
	}
	pure, view, nonpayable := ast.MutPure, ast.MutView, ast.MutNonPayable
	return []BuiltinFunc{
		{Name: "require", Type: fn(pure, []TypeID{b.Bool}), Reverts: true},
		{Name: "require", Type: fn(pure, []TypeID{b.Bool, b.StringMemory}), Reverts: true},
		{Name: "assert", Type: fn(pure, []TypeID{b.Bool}), Reverts: true},
		{Name: "revert", Type: fn(pure, nil), Reverts: true},
		{Name: "revert", Type: fn(pure, []TypeID{b.StringMemory}), Reverts: true},
		{Name: "keccak256", Type: fn(pure, []TypeID{b.BytesMemory}, b.Bytes32)},
		{Name: "sha256", Type: fn(pure, []TypeID{b.BytesMemory}, b.Bytes32)},
		{Name: "ripemd160", Type: fn(pure, []TypeID{b.BytesMemory}, b.Bytes20)},
		{Name: "ecrecover", Type: fn(pure, []TypeID{b.Bytes32, b.Uint8, b.Bytes32, b.Bytes32}, b.Address)},
		{Name: "addmod", Type: fn(pure, []TypeID{b.Uint256, b.Uint256, b.Uint256}, b.Uint256)},
		{Name: "mulmod", Type: fn(pure, []TypeID{b.Uint256, b.Uint256, b.Uint256}, b.Uint256)},
		{Name: "gasleft", Type: fn(view, nil, b.Uint256)},
		{Name: "blockhash", Type: fn(view, []TypeID{b.Uint256}, b.Bytes32)},
		{Name: "blobhash", Type: fn(view, []TypeID{b.Uint256}, b.Bytes32)},
		{Name: "selfdestruct", Type: fn(nonpayable, []TypeID{b.AddressPayable})},
	}
}

// BuiltinObjects returns the global magic variables.
func (in *Interner) BuiltinObjects() map[string]TypeID {
	return map[string]TypeID{
		"msg":   in.Magic(MagicMsg),
		"block": in.Magic(MagicBlock),
		"tx":    in.Magic(MagicTx),
		"abi":   in.Magic(MagicAbi),
	}
}
