// Package abi derives the externally visible interface of checked contracts:
// canonical signatures, 4-byte selectors and event topics.
package abi

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"solfront/internal/ast"
	"solfront/internal/sema"
	"solfront/internal/symbols"
	"solfront/internal/types"
)

// Kind of an ABI entry.
type Kind uint8

const (
	Function Kind = iota + 1
	Event
	Error
)

func (k Kind) String() string {
	switch k {
	case Function:
		return "function"
	case Event:
		return "event"
	case Error:
		return "error"
	}
	return "invalid"
}

// Entry is one externally visible function, getter, event or error of a contract.
type Entry struct {
	Contract  string
	Kind      Kind
	Name      string
	Signature string
	// Selector is set for functions and errors.
	Selector [4]byte
	// Topic is the first log topic of a non-anonymous event.
	Topic     common.Hash
	Anonymous bool
	// Decl is the declaring item, which may belong to a base contract.
	Decl ast.ItemID
}

// Input is a checked unit.
type Input struct {
	Builder *ast.Builder
	Symbols *symbols.Result
	Sema    *sema.Result
}

// Selector returns the first four bytes of the Keccak-256 hash of sig.
func Selector(sig string) [4]byte {
	var out [4]byte
	copy(out[:], crypto.Keccak256([]byte(sig)))
	return out
}

// Topic returns the Keccak-256 hash of an event signature.
func Topic(sig string) common.Hash {
	return crypto.Keccak256Hash([]byte(sig))
}

// Signatures lists the ABI entries of every linearized contract in source
// order. Members inherited from bases are included once, from the most
// derived declaration. Declarations whose types have no ABI form are skipped.
func Signatures(in Input) []Entry {
	if in.Builder == nil || in.Symbols == nil || in.Sema == nil {
		return nil
	}
	var out []Entry
	for _, c := range in.Symbols.Contracts {
		if in.Symbols.Unlinearized[c] {
			continue
		}
		out = append(out, contractEntries(in, c)...)
	}
	return out
}

// Contract returns the entries of the contract named name.
func Contract(in Input, name string) []Entry {
	var out []Entry
	for _, e := range Signatures(in) {
		if e.Contract == name {
			out = append(out, e)
		}
	}
	return out
}

func contractEntries(in Input, c ast.ItemID) []Entry {
	b, tys := in.Builder, in.Sema.Types
	decl, _ := b.Items.Contract(c)
	name := b.Name(decl.Name)
	seen := make(map[string]bool)
	var out []Entry
	add := func(e Entry) {
		key := e.Kind.String() + " " + e.Signature
		if seen[key] {
			return
		}
		seen[key] = true
		e.Contract = name
		out = append(out, e)
	}
	for _, k := range in.Symbols.Order(c) {
		kd, _ := b.Items.Contract(k)
		for _, id := range kd.Members {
			switch item := b.Items.Get(id); item.Kind {
			case ast.ItemFunction:
				fn, _ := b.Items.Function(id)
				if fn.Kind != ast.FnRegular || !external(fn.Visibility) {
					continue
				}
				if sig, ok := signature(tys, b.Name(fn.Name), in.Sema.ItemTypes[id]); ok {
					add(Entry{Kind: Function, Name: b.Name(fn.Name), Signature: sig, Selector: Selector(sig), Decl: id})
				}
			case ast.ItemVariable:
				v, _ := b.Items.Variable(id)
				if v.Visibility != ast.VisPublic {
					continue
				}
				t, ok := in.Sema.SymbolTypes[in.Symbols.ItemSymbols[id]]
				if !ok {
					continue
				}
				if sig, ok := signature(tys, b.Name(v.Name), tys.Getter(t)); ok {
					add(Entry{Kind: Function, Name: b.Name(v.Name), Signature: sig, Selector: Selector(sig), Decl: id})
				}
			case ast.ItemEvent:
				ev, _ := b.Items.Event(id)
				if sig, ok := signature(tys, b.Name(ev.Name), in.Sema.ItemTypes[id]); ok {
					e := Entry{Kind: Event, Name: b.Name(ev.Name), Signature: sig, Anonymous: ev.Anonymous, Decl: id}
					if !ev.Anonymous {
						e.Topic = Topic(sig)
					}
					add(e)
				}
			case ast.ItemError:
				er, _ := b.Items.Error(id)
				if sig, ok := signature(tys, b.Name(er.Name), in.Sema.ItemTypes[id]); ok {
					add(Entry{Kind: Error, Name: b.Name(er.Name), Signature: sig, Selector: Selector(sig), Decl: id})
				}
			}
		}
	}
	slices.SortStableFunc(out, func(x, y Entry) int {
		if n := cmp.Compare(x.Kind, y.Kind); n != 0 {
			return n
		}
		return strings.Compare(x.Signature, y.Signature)
	})
	return out
}

func external(v ast.Visibility) bool {
	return v == ast.VisPublic || v == ast.VisExternal || v == ast.VisDefault
}

// signature renders name(T1,T2) from the parameters of a function type.
func signature(tys *types.Interner, name string, fn types.TypeID) (string, bool) {
	info, ok := tys.FnInfo(fn)
	if !ok {
		return "", false
	}
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, p := range info.Params {
		if i > 0 {
			sb.WriteByte(',')
		}
		s, ok := tys.Canonical(p)
		if !ok {
			return "", false
		}
		sb.WriteString(s)
	}
	sb.WriteByte(')')
	return sb.String(), true
}
