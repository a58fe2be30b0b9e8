package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005
	LexBadAddressChecksum       Code = 1006
	LexBadHexString             Code = 1007
	LexNonASCIIString           Code = 1008
	LexBidiOverride             Code = 1009
	LexIdentAfterNumber         Code = 1010
	LexInvalidUTF8              Code = 1011

	// Syntax
	SynUnexpectedToken     Code = 2001
	SynExpectSemicolon     Code = 2002
	SynExpectIdentifier    Code = 2003
	SynExpectType          Code = 2004
	SynExpectExpression    Code = 2005
	SynUnclosedDelimiter   Code = 2006
	SynCatchOrder          Code = 2007
	SynDuplicateSpecifier  Code = 2008
	SynSpecifierNotAllowed Code = 2009
	SynBadPragma           Code = 2010
	SynPragmaVersion       Code = 2011
	SynBadImport           Code = 2012
	SynBadTupleComponent   Code = 2013
	SynBadAssembly         Code = 2014

	// Name resolution
	NamUnresolved        Code = 3001
	NamDuplicate         Code = 3002
	NamShadowStateVar    Code = 3003
	NamShadow            Code = 3004
	NamInheritedConflict Code = 3005
	NamNotAContract      Code = 3006
	NamImportMissing     Code = 3007
	NamNotAType          Code = 3008
	NamSuperNoTarget     Code = 3009
	NamNotAModifier      Code = 3010

	// Inheritance
	InhCycle               Code = 4001
	InhUnlinearizable      Code = 4002
	InhBaseFailed          Code = 4003
	InhMissingOverride     Code = 4004
	InhMissingOverrideBase Code = 4005
	InhNonVirtualBase      Code = 4006
	InhOverridesNothing    Code = 4007
	InhOverrideMutability  Code = 4008
	InhOverrideVisibility  Code = 4009
	InhMustBeAbstract      Code = 4010
	InhOverrideReturns     Code = 4011
	InhAmbiguousBases      Code = 4012
	InhBadBaseKind         Code = 4013
	InhOverrideListNotBase Code = 4014

	// Type
	TypMismatch          Code = 5001
	TypNoOverload        Code = 5002
	TypAmbiguousOverload Code = 5003
	TypBadOperator       Code = 5004
	TypBadConversion     Code = 5005
	TypNotCallable       Code = 5006
	TypArgCount          Code = 5007
	TypNoMember          Code = 5008
	TypNotIndexable      Code = 5009
	TypLiteralOutOfRange Code = 5010
	TypDivisionByZero    Code = 5011
	TypProvableRevert    Code = 5012
	TypBadMappingKey     Code = 5013
	TypNotLValue         Code = 5014
	TypConditionNotBool  Code = 5015
	TypReturnMismatch    Code = 5016
	TypTupleArity        Code = 5017
	TypDuplicateFunction Code = 5018
	TypIndexOutOfBounds  Code = 5019
	TypBadLiteral        Code = 5020
	TypEmitNotEvent      Code = 5021
	TypRevertNotError    Code = 5022
	TypPlaceholderMisuse Code = 5023
	TypLoopControl       Code = 5024
	TypBadArrayLength    Code = 5025
	TypBadCallOptions    Code = 5026
	TypNotConstant       Code = 5027
	TypReadOnlyAssign    Code = 5028
	TypTryNotExternal    Code = 5029
	TypEnumOutOfRange    Code = 5030
	TypAbstractNew       Code = 5031
	TypBadUDVT           Code = 5032
	TypNotAType          Code = 5033
	TypBadStatement      Code = 5034

	// Mutability
	MutStateRead            Code = 6001
	MutStateWrite           Code = 6002
	MutMsgValueNonPayable   Code = 6003
	MutValueToNonPayable    Code = 6004
	MutPayableNotAllowed    Code = 6005
	MutCallsLessRestrictive Code = 6006

	// Visibility
	VisMissing                  Code = 7001
	VisInterfaceNotExternal     Code = 7002
	VisPrivateVirtual           Code = 7003
	VisExternalCalledInternally Code = 7004
	VisNotAccessible            Code = 7005
	VisStateVarExternal         Code = 7006
	VisFreeFunction             Code = 7007
	VisSpecialMustBeExternal    Code = 7008

	// Data location
	LocMissing             Code = 8001
	LocStorageNotInternal  Code = 8002
	LocMappingNotStorage   Code = 8003
	LocCalldataNotExternal Code = 8004
	LocOnStateVariable     Code = 8005
	LocOnValueType         Code = 8006
	LocMemoryToStorageRef  Code = 8007
	LocStorageSlice        Code = 8008
	LocCalldataAssign      Code = 8009

	// Project
	PrjImportNotFound   Code = 9001
	PrjImportCycle      Code = 9002
	PrjDependencyFailed Code = 9003
	PrjResolverFailed   Code = 9004
)

var codeTitles = map[Code]string{
	UnknownCode: "unknown error",

	LexUnknownChar:              "invalid character",
	LexUnterminatedString:       "unterminated string literal",
	LexUnterminatedBlockComment: "unterminated block comment",
	LexBadNumber:                "malformed number literal",
	LexBadEscape:                "invalid escape sequence",
	LexBadAddressChecksum:       "address literal fails checksum",
	LexBadHexString:             "malformed hex string literal",
	LexNonASCIIString:           "non-ASCII character in plain string literal",
	LexBidiOverride:             "unbalanced bidirectional override",
	LexIdentAfterNumber:         "identifier start right after a number",
	LexInvalidUTF8:              "source is not valid UTF-8",

	SynUnexpectedToken:     "unexpected token",
	SynExpectSemicolon:     "expected ';'",
	SynExpectIdentifier:    "expected identifier",
	SynExpectType:          "expected type name",
	SynExpectExpression:    "expected expression",
	SynUnclosedDelimiter:   "unclosed delimiter",
	SynCatchOrder:          "catch clauses out of order",
	SynDuplicateSpecifier:  "duplicate specifier",
	SynSpecifierNotAllowed: "specifier not allowed here",
	SynBadPragma:           "malformed pragma",
	SynPragmaVersion:       "language version outside pragma range",
	SynBadImport:           "malformed import",
	SynBadTupleComponent:   "malformed tuple component",
	SynBadAssembly:         "malformed assembly block",

	NamUnresolved:        "undeclared identifier",
	NamDuplicate:         "identifier already declared",
	NamShadowStateVar:    "declaration shadows a state variable",
	NamShadow:            "declaration shadows an existing declaration",
	NamInheritedConflict: "conflicting inherited declarations",
	NamNotAContract:      "base is not a contract",
	NamImportMissing:     "imported symbol not found",
	NamNotAType:          "name does not denote a type",
	NamSuperNoTarget:     "no base declares this member",
	NamNotAModifier:      "not a modifier or base constructor",

	InhCycle:               "cyclic inheritance",
	InhUnlinearizable:      "inheritance graph cannot be linearized",
	InhBaseFailed:          "base contract has inheritance errors",
	InhMissingOverride:     "missing override specifier",
	InhMissingOverrideBase: "override list is missing a base",
	InhNonVirtualBase:      "overriding a non-virtual function",
	InhOverridesNothing:    "override specifier without a base function",
	InhOverrideMutability:  "override changes state mutability",
	InhOverrideVisibility:  "override changes visibility",
	InhMustBeAbstract:      "contract must be abstract",
	InhOverrideReturns:     "override changes return types",
	InhAmbiguousBases:      "bases define the same function",
	InhBadBaseKind:         "invalid base kind",
	InhOverrideListNotBase: "override list names a contract that is not a base",

	TypMismatch:          "type mismatch",
	TypNoOverload:        "no matching overload",
	TypAmbiguousOverload: "ambiguous overload",
	TypBadOperator:       "operator not applicable",
	TypBadConversion:     "invalid explicit conversion",
	TypNotCallable:       "expression is not callable",
	TypArgCount:          "wrong number of arguments",
	TypNoMember:          "member not found",
	TypNotIndexable:      "expression is not indexable",
	TypLiteralOutOfRange: "literal out of range",
	TypDivisionByZero:    "division by zero",
	TypProvableRevert:    "operation always reverts",
	TypBadMappingKey:     "invalid mapping key type",
	TypNotLValue:         "expression is not assignable",
	TypConditionNotBool:  "condition is not bool",
	TypReturnMismatch:    "return values do not match",
	TypTupleArity:        "tuple component count mismatch",
	TypDuplicateFunction: "function with the same signature declared twice",
	TypIndexOutOfBounds:  "index out of bounds",
	TypBadLiteral:        "invalid literal",
	TypEmitNotEvent:      "emit requires an event",
	TypRevertNotError:    "revert requires an error",
	TypPlaceholderMisuse: "placeholder outside modifier",
	TypLoopControl:       "break or continue outside loop",
	TypBadArrayLength:    "array length is not a positive constant",
	TypBadCallOptions:    "invalid call options",
	TypNotConstant:       "initializer is not a compile-time constant",
	TypReadOnlyAssign:    "assignment to read-only variable",
	TypTryNotExternal:    "try requires an external call",
	TypEnumOutOfRange:    "enum conversion out of range",
	TypAbstractNew:       "cannot instantiate abstract contract",
	TypBadUDVT:           "invalid user-defined value type",
	TypNotAType:          "expression is not a type",
	TypBadStatement:      "statement not allowed here",

	MutStateRead:            "function reads state",
	MutStateWrite:           "function modifies state",
	MutMsgValueNonPayable:   "msg.value in non-payable function",
	MutValueToNonPayable:    "value sent to non-payable function",
	MutPayableNotAllowed:    "payable not allowed here",
	MutCallsLessRestrictive: "call to function with weaker mutability",

	VisMissing:                  "missing visibility",
	VisInterfaceNotExternal:     "interface function must be external",
	VisPrivateVirtual:           "private function cannot be virtual",
	VisExternalCalledInternally: "external function called internally",
	VisNotAccessible:            "member not accessible",
	VisStateVarExternal:         "state variable cannot be external",
	VisFreeFunction:             "free function cannot have visibility",
	VisSpecialMustBeExternal:    "receive and fallback must be external",

	LocMissing:             "missing data location",
	LocStorageNotInternal:  "storage location in externally callable function",
	LocMappingNotStorage:   "mapping outside storage",
	LocCalldataNotExternal: "calldata outside external function",
	LocOnStateVariable:     "data location on state variable",
	LocOnValueType:         "data location on value type",
	LocMemoryToStorageRef:  "memory value assigned to storage reference",
	LocStorageSlice:        "slice of storage array",
	LocCalldataAssign:      "assignment into calldata",

	PrjImportNotFound:   "import not found",
	PrjImportCycle:      "import cycle",
	PrjDependencyFailed: "dependency has errors",
	PrjResolverFailed:   "resolver failed",
}

// ID is the stable textual code, e.g. TYP5001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("NAM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("INH%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("MUT%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("VIS%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("LOC%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

// Category names the error class of the code range.
func (c Code) Category() string {
	switch int(c) / 1000 {
	case 1:
		return "LexicalError"
	case 2:
		return "SyntaxError"
	case 3:
		return "NameResolutionError"
	case 4:
		return "InheritanceError"
	case 5:
		return "TypeError"
	case 6:
		return "MutabilityError"
	case 7:
		return "VisibilityError"
	case 8:
		return "DataLocationError"
	case 9:
		return "ProjectError"
	}
	return "Error"
}

func (c Code) Title() string {
	if t, ok := codeTitles[c]; ok {
		return t
	}
	return codeTitles[UnknownCode]
}

func (c Code) String() string {
	return c.ID()
}
