package sema

import (
	"math/big"
	"strconv"

	"solfront/internal/ast"
	"solfront/internal/config"
	"solfront/internal/diag"
	"solfront/internal/symbols"
	"solfront/internal/trace"
	"solfront/internal/types"
)

// Options configure the checker for one unit.
type Options struct {
	// Reporter receives type diagnostics.
	Reporter diag.Reporter
	// PassReporter receives mutability, visibility and data location
	// diagnostics; Reporter is used when nil.
	PassReporter diag.Reporter
	// InheritReporter receives override diagnostics; Reporter is used when nil.
	InheritReporter diag.Reporter
	Symbols         *symbols.Result
	// Types defaults to the interner of the symbol table.
	Types  *types.Interner
	Config config.Config
	Tracer trace.Tracer
	// Parent is the span the checker's phase spans are attached to.
	Parent uint64
}

// CallKind classifies what a call expression invokes.
type CallKind uint8

const (
	CallFunction CallKind = iota + 1
	CallBuiltin
	CallConversion
	CallStructCtor
	CallCreation
	CallEvent
	CallError
)

func (k CallKind) String() string {
	switch k {
	case CallFunction:
		return "function"
	case CallBuiltin:
		return "builtin"
	case CallConversion:
		return "conversion"
	case CallStructCtor:
		return "struct constructor"
	case CallCreation:
		return "creation"
	case CallEvent:
		return "event"
	case CallError:
		return "error"
	}
	return "invalid"
}

// Call is the resolved target of a call expression.
type Call struct {
	Kind CallKind
	// Target is the declaration called, NoSymbolID for conversions and member builtins.
	Target symbols.SymbolID
	// Type is the function type selected for the call, or the conversion target.
	Type types.TypeID
}

// AssignmentKind says whether an assignment of a reference value copies it.
type AssignmentKind uint8

const (
	CopyAssignment AssignmentKind = iota + 1
	AliasAssignment
)

func (k AssignmentKind) String() string {
	if k == AliasAssignment {
		return "alias"
	}
	return "copy"
}

// Result holds the side tables produced by the checker. The AST is not modified.
type Result struct {
	Types *types.Interner
	// ExprTypes holds one type per expression; types.Builtins.Error marks failures.
	ExprTypes map[ast.ExprID]types.TypeID
	// ConstValues holds integer values known at compile time, including
	// values propagated from earlier assignments to locals.
	ConstValues map[ast.ExprID]*big.Int
	// Reverts marks expressions that always revert with the given panic code.
	Reverts map[ast.ExprID]types.PanicCode
	Calls   map[ast.ExprID]Call
	// MemberSymbols binds member accesses resolved through types, such as
	// `c.f` on a contract instance or bound library functions.
	MemberSymbols map[ast.ExprID]symbols.SymbolID
	// Assignments classifies assignments and initialisations of reference
	// types, keyed by the assigned value expression.
	Assignments map[ast.ExprID]AssignmentKind
	SymbolTypes map[symbols.SymbolID]types.TypeID
	// ItemTypes holds nominal types of type declarations and the internal
	// function types of functions, modifiers, events and errors.
	ItemTypes map[ast.ItemID]types.TypeID
	// TypeErrors counts type errors; the semantic passes only run when it is zero.
	TypeErrors int
}

// Check type-checks a resolved unit and runs the semantic passes over it.
func Check(b *ast.Builder, opts Options) *Result {
	tys := opts.Types
	if tys == nil && opts.Symbols != nil {
		tys = opts.Symbols.Table.Types
	}
	if tys == nil {
		tys = types.NewInterner()
	}
	res := &Result{
		Types:         tys,
		ExprTypes:     make(map[ast.ExprID]types.TypeID),
		ConstValues:   make(map[ast.ExprID]*big.Int),
		Reverts:       make(map[ast.ExprID]types.PanicCode),
		Calls:         make(map[ast.ExprID]Call),
		MemberSymbols: make(map[ast.ExprID]symbols.SymbolID),
		Assignments:   make(map[ast.ExprID]AssignmentKind),
		SymbolTypes:   make(map[symbols.SymbolID]types.TypeID),
		ItemTypes:     make(map[ast.ItemID]types.TypeID),
	}
	if b == nil || opts.Symbols == nil {
		return res
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	if opts.PassReporter == nil {
		opts.PassReporter = opts.Reporter
	}
	if opts.InheritReporter == nil {
		opts.InheritReporter = opts.Reporter
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	counter := &diag.CountingReporter{Next: opts.Reporter}
	tc := &typeChecker{
		b:           b,
		syms:        opts.Symbols,
		table:       opts.Symbols.Table,
		types:       tys,
		builtins:    tys.Builtins(),
		cfg:         opts.Config,
		reporter:    counter,
		passRep:     opts.PassReporter,
		inhRep:      opts.InheritReporter,
		tracer:      opts.Tracer,
		parent:      opts.Parent,
		result:      res,
		typeCache:   make(map[typeKey]types.TypeID),
		constState:  make(map[ast.ItemID]constState),
		compileTime: make(map[ast.ExprID]bool),
	}
	tc.run(counter)
	return res
}

type typeKey struct {
	id  ast.TypeExprID
	loc ast.DataLocation
}

type constState uint8

const (
	constPending constState = iota
	constEvaluating
	constDone
)

type typeChecker struct {
	b        *ast.Builder
	syms     *symbols.Result
	table    *symbols.Table
	types    *types.Interner
	builtins types.Builtins
	cfg      config.Config
	reporter diag.Reporter
	passRep  diag.Reporter
	inhRep   diag.Reporter
	tracer   trace.Tracer
	parent   uint64
	result   *Result

	// position
	file     ast.FileID
	contract ast.ItemID
	fn       *fnContext

	// emitting and reverting are set while the call of an emit or revert statement is typed.
	emitting  bool
	reverting bool

	typeCache  map[typeKey]types.TypeID
	constState map[ast.ItemID]constState
	// compileTime marks expressions whose value depends only on literals and constants.
	compileTime map[ast.ExprID]bool
}

func (tc *typeChecker) run(counter *diag.CountingReporter) {
	root := trace.Begin(tc.tracer, trace.ScopePass, "sema", tc.parent)
	defer root.End("")

	phase := func(name string) func() {
		span := trace.Begin(tc.tracer, trace.ScopePass, name, root.ID())
		return func() { span.End("") }
	}

	done := phase("declare_types")
	tc.declareTypes()
	done()

	done = phase("signatures")
	tc.collectSignatures()
	done()

	done = phase("bodies")
	tc.checkBodies()
	tc.sealExprTypes()
	done()

	tc.result.TypeErrors = counter.Errors
	if counter.Errors > 0 {
		root.WithExtra("type_errors", strconv.Itoa(counter.Errors))
		return
	}

	done = phase("overrides")
	tc.checkOverrides()
	done()

	done = phase("mutability")
	tc.checkMutability()
	done()

	done = phase("visibility")
	tc.checkVisibility()
	done()

	done = phase("data_location")
	tc.checkDataLocations()
	done()
}

// sealExprTypes gives every expression the checker did not reach the error type.
func (tc *typeChecker) sealExprTypes() {
	n := tc.b.Exprs.Arena.Len()
	for i := uint32(1); i <= n; i++ {
		id := ast.ExprID(i)
		if _, ok := tc.result.ExprTypes[id]; !ok {
			tc.result.ExprTypes[id] = tc.builtins.Error
		}
	}
}
