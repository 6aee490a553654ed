package diagnostic

import "fmt"

// Kind classifies a diagnostic by the rule that produced it
type Kind int

const (
	KindNone Kind = iota

	// Front end
	LexicalError
	SyntaxError
	InternalError

	// Declarations and names
	UnresolvedReference
	DuplicateDeclaration
	UnknownType
	CyclicInheritance
	InvalidOverride

	// Method bodies
	InvalidReturnType
	MissingReturnOnAllPaths
	NonIntegerArrayIndex
	NonArrayIndexBase
	NonArrayLength
	NonIntegerArraySize
	TypeMismatch
	InvalidCondition
	InvalidPrintArgument
	InvalidOperand
	NonClassReceiver
	ArgumentCountMismatch
	ArgumentTypeMismatch
	UnreachableCode

	// Style (warnings only)
	NamingConvention
	UnusedVariable
	EmptyBody
)

var kindNames = map[Kind]string{
	KindNone:                "None",
	LexicalError:            "LexicalError",
	SyntaxError:             "SyntaxError",
	InternalError:           "InternalError",
	UnresolvedReference:     "UnresolvedReference",
	DuplicateDeclaration:    "DuplicateDeclaration",
	UnknownType:             "UnknownType",
	CyclicInheritance:       "CyclicInheritance",
	InvalidOverride:         "InvalidOverride",
	InvalidReturnType:       "InvalidReturnType",
	MissingReturnOnAllPaths: "MissingReturnOnAllPaths",
	NonIntegerArrayIndex:    "NonIntegerArrayIndex",
	NonArrayIndexBase:       "NonArrayIndexBase",
	NonArrayLength:          "NonArrayLength",
	NonIntegerArraySize:     "NonIntegerArraySize",
	TypeMismatch:            "TypeMismatch",
	InvalidCondition:        "InvalidCondition",
	InvalidPrintArgument:    "InvalidPrintArgument",
	InvalidOperand:          "InvalidOperand",
	NonClassReceiver:        "NonClassReceiver",
	ArgumentCountMismatch:   "ArgumentCountMismatch",
	ArgumentTypeMismatch:    "ArgumentTypeMismatch",
	UnreachableCode:         "UnreachableCode",
	NamingConvention:        "NamingConvention",
	UnusedVariable:          "UnusedVariable",
	EmptyBody:               "EmptyBody",
}

// String returns the name of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Code returns a stable short code: L for lexical, P for parse, I for
// internal, S for semantic and W for style diagnostics.
func (k Kind) Code() string {
	switch k {
	case KindNone:
		return ""
	case LexicalError:
		return "L0001"
	case SyntaxError:
		return "P0001"
	case InternalError:
		return "I0001"
	}
	if k >= NamingConvention {
		return fmt.Sprintf("W%04d", int(k-NamingConvention)+1)
	}
	return fmt.Sprintf("S%04d", int(k-UnresolvedReference)+1)
}

// IsSemantic reports whether the kind comes from symbol collection or
// type checking rather than from the front end.
func (k Kind) IsSemantic() bool {
	return k >= UnresolvedReference && k < NamingConvention
}
