package token

import "solfront/internal/config"

var keywords = map[string]Kind{
	"pragma":      KwPragma,
	"import":      KwImport,
	"as":          KwAs,
	"contract":    KwContract,
	"interface":   KwInterface,
	"library":     KwLibrary,
	"abstract":    KwAbstract,
	"is":          KwIs,
	"using":       KwUsing,
	"for":         KwFor,
	"struct":      KwStruct,
	"enum":        KwEnum,
	"type":        KwType,
	"mapping":     KwMapping,
	"function":    KwFunction,
	"modifier":    KwModifier,
	"event":       KwEvent,
	"constructor": KwConstructor,
	"receive":     KwReceive,
	"fallback":    KwFallback,
	"returns":     KwReturns,
	"return":      KwReturn,
	"if":          KwIf,
	"else":        KwElse,
	"while":       KwWhile,
	"do":          KwDo,
	"break":       KwBreak,
	"continue":    KwContinue,
	"emit":        KwEmit,
	"new":         KwNew,
	"delete":      KwDelete,
	"try":         KwTry,
	"catch":       KwCatch,
	"assembly":    KwAssembly,
	"unchecked":   KwUnchecked,
	"public":      KwPublic,
	"external":    KwExternal,
	"internal":    KwInternal,
	"private":     KwPrivate,
	"pure":        KwPure,
	"view":        KwView,
	"payable":     KwPayable,
	"constant":    KwConstant,
	"immutable":   KwImmutable,
	"virtual":     KwVirtual,
	"override":    KwOverride,
	"memory":      KwMemory,
	"storage":     KwStorage,
	"calldata":    KwCalldata,
	"anonymous":   KwAnonymous,
	"indexed":     KwIndexed,
	"true":        KwTrue,
	"false":       KwFalse,
}

// keywordSince lists words that were ordinary identifiers before a version.
var keywordSince = map[Kind]config.Version{
	KwEmit:        config.V(0, 4, 21),
	KwConstructor: config.V(0, 4, 22),
	KwCalldata:    config.V(0, 5, 0),
	KwAbstract:    config.V(0, 6, 0),
	KwReceive:     config.V(0, 6, 0),
	KwFallback:    config.V(0, 6, 0),
	KwTry:         config.V(0, 6, 0),
	KwCatch:       config.V(0, 6, 0),
	KwVirtual:     config.V(0, 6, 0),
	KwOverride:    config.V(0, 6, 0),
	KwImmutable:   config.V(0, 6, 5),
	KwUnchecked:   config.V(0, 8, 0),
}

// LookupKeyword returns the keyword kind for ident under language version v.
// Words introduced after v are not keywords.
func LookupKeyword(ident string, v config.Version) (Kind, bool) {
	k, ok := keywords[ident]
	if !ok {
		return Ident, false
	}
	if since, gated := keywordSince[k]; gated && !v.AtLeast(since) {
		return Ident, false
	}
	return k, true
}

// KeywordSince returns the first version in which k is reserved.
func KeywordSince(k Kind) (config.Version, bool) {
	v, ok := keywordSince[k]
	return v, ok
}
