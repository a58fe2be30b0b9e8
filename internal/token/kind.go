package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Ident represents an identifier token.
	Ident

	keywordBegin
	KwPragma      // pragma
	KwImport      // import
	KwAs          // as
	KwContract    // contract
	KwInterface   // interface
	KwLibrary     // library
	KwAbstract    // abstract
	KwIs          // is
	KwUsing       // using
	KwFor         // for
	KwStruct      // struct
	KwEnum        // enum
	KwType        // type
	KwMapping     // mapping
	KwFunction    // function
	KwModifier    // modifier
	KwEvent       // event
	KwConstructor // constructor
	KwReceive     // receive
	KwFallback    // fallback
	KwReturns     // returns
	KwReturn      // return
	KwIf          // if
	KwElse        // else
	KwWhile       // while
	KwDo          // do
	KwBreak       // break
	KwContinue    // continue
	KwEmit        // emit
	KwNew         // new
	KwDelete      // delete
	KwTry         // try
	KwCatch       // catch
	KwAssembly    // assembly
	KwUnchecked   // unchecked
	KwPublic      // public
	KwExternal    // external
	KwInternal    // internal
	KwPrivate     // private
	KwPure        // pure
	KwView        // view
	KwPayable     // payable
	KwConstant    // constant
	KwImmutable   // immutable
	KwVirtual     // virtual
	KwOverride    // override
	KwMemory      // memory
	KwStorage     // storage
	KwCalldata    // calldata
	KwAnonymous   // anonymous
	KwIndexed     // indexed
	KwTrue        // true
	KwFalse       // false
	keywordEnd

	literalBegin
	NumberLit        // 1_000, 42
	HexNumberLit     // 0xff
	RationalLit      // 1.5, 2e10, .5
	AddressLit       // 0x checksummed 40 hex digits
	StringLit        // "..." or '...'
	UnicodeStringLit // unicode"..."
	HexStringLit     // hex"..."
	literalEnd

	Plus          // +
	Minus         // -
	Star          // *
	StarStar      // **
	Slash         // /
	Percent       // %
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	AmpAssign     // &=
	PipeAssign    // |=
	CaretAssign   // ^=
	ShlAssign     // <<=
	ShrAssign     // >>=
	EqEq          // ==
	Bang          // !
	BangEq        // !=
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	Shl           // <<
	Shr           // >>
	Amp           // &
	Pipe          // |
	Caret         // ^
	Tilde         // ~
	AndAnd        // &&
	OrOr          // ||
	PlusPlus      // ++
	MinusMinus    // --
	Question      // ?
	Colon         // :
	Semicolon     // ;
	Comma         // ,
	Dot           // .
	Arrow         // ->
	FatArrow      // =>
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	LBracket      // [
	RBracket      // ]
	ColonAssign   // := (assembly only)
)

var kindNames = map[Kind]string{
	Invalid: "invalid", EOF: "end of file", Ident: "identifier",
	NumberLit: "number", HexNumberLit: "hex number", RationalLit: "rational number",
	AddressLit: "address literal", StringLit: "string literal",
	UnicodeStringLit: "unicode string literal", HexStringLit: "hex string literal",
	Plus: "+", Minus: "-", Star: "*", StarStar: "**", Slash: "/", Percent: "%",
	Assign: "=", PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", SlashAssign: "/=",
	PercentAssign: "%=", AmpAssign: "&=", PipeAssign: "|=", CaretAssign: "^=",
	ShlAssign: "<<=", ShrAssign: ">>=", EqEq: "==", Bang: "!", BangEq: "!=",
	Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=", Shl: "<<", Shr: ">>",
	Amp: "&", Pipe: "|", Caret: "^", Tilde: "~", AndAnd: "&&", OrOr: "||",
	PlusPlus: "++", MinusMinus: "--", Question: "?", Colon: ":", Semicolon: ";",
	Comma: ",", Dot: ".", Arrow: "->", FatArrow: "=>", LParen: "(", RParen: ")",
	LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]", ColonAssign: ":=",
}

func init() {
	for word, k := range keywords {
		kindNames[k] = word
	}
}

// String returns the source spelling for operators and keywords, a description otherwise.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k > keywordBegin && k < keywordEnd }

// IsLiteral reports whether k is a literal token kind. true/false are keywords.
func (k Kind) IsLiteral() bool { return k > literalBegin && k < literalEnd }

// IsStringLiteral covers plain, unicode and hex strings.
func (k Kind) IsStringLiteral() bool {
	return k == StringLit || k == UnicodeStringLit || k == HexStringLit
}

// IsAssignOp reports = and the compound assignment operators.
func (k Kind) IsAssignOp() bool {
	switch k {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign,
		AmpAssign, PipeAssign, CaretAssign, ShlAssign, ShrAssign:
		return true
	}
	return false
}

// IsDataLocation reports memory, storage and calldata.
func (k Kind) IsDataLocation() bool {
	return k == KwMemory || k == KwStorage || k == KwCalldata
}

// IsVisibility reports the four visibility keywords.
func (k Kind) IsVisibility() bool {
	return k == KwPublic || k == KwExternal || k == KwInternal || k == KwPrivate
}

// IsMutability reports pure, view and payable.
func (k Kind) IsMutability() bool {
	return k == KwPure || k == KwView || k == KwPayable
}
