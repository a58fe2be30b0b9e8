package ast

// Visibility of functions and state variables. VisDefault means none was written.
type Visibility uint8

const (
	VisDefault Visibility = iota
	VisPublic
	VisExternal
	VisInternal
	VisPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisPublic:
		return "public"
	case VisExternal:
		return "external"
	case VisInternal:
		return "internal"
	case VisPrivate:
		return "private"
	}
	return ""
}

// Mutability is the state mutability lattice pure < view < nonpayable, plus payable.
type Mutability uint8

const (
	MutNonPayable Mutability = iota
	MutPure
	MutView
	MutPayable
)

func (m Mutability) String() string {
	switch m {
	case MutPure:
		return "pure"
	case MutView:
		return "view"
	case MutPayable:
		return "payable"
	}
	return "nonpayable"
}

// Rank orders mutabilities by how much they permit: pure < view < nonpayable < payable.
func (m Mutability) Rank() int {
	switch m {
	case MutPure:
		return 0
	case MutView:
		return 1
	case MutNonPayable:
		return 2
	}
	return 3
}

// DataLocation of a reference-typed variable. LocNone means none was written.
type DataLocation uint8

const (
	LocNone DataLocation = iota
	LocStorage
	LocMemory
	LocCalldata
)

func (l DataLocation) String() string {
	switch l {
	case LocStorage:
		return "storage"
	case LocMemory:
		return "memory"
	case LocCalldata:
		return "calldata"
	}
	return ""
}

type ContractKind uint8

const (
	ContractPlain ContractKind = iota
	ContractInterface
	ContractLibrary
)

func (k ContractKind) String() string {
	switch k {
	case ContractInterface:
		return "interface"
	case ContractLibrary:
		return "library"
	}
	return "contract"
}

type FunctionKind uint8

const (
	FnRegular FunctionKind = iota
	FnConstructor
	FnReceive
	FnFallback
)

func (k FunctionKind) String() string {
	switch k {
	case FnConstructor:
		return "constructor"
	case FnReceive:
		return "receive"
	case FnFallback:
		return "fallback"
	}
	return "function"
}
