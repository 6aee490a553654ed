package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Literals
	IDENT   // x, y, MyClass
	INT_LIT // 123

	// Keywords
	CLASS
	PUBLIC
	STATIC
	VOID
	EXTENDS
	RETURN
	IF
	ELSE
	WHILE
	TRUE
	FALSE
	THIS
	NEW
	LENGTH
	PRINTLN // System.out.println

	// Type keywords
	INT_TYPE
	BOOLEAN_TYPE
	STRING_TYPE

	// Operators
	PLUS   // +
	MINUS  // -
	STAR   // *
	AND    // &&
	OR     // ||
	NOT    // !
	EQ     // ==
	LT     // <
	GT     // >
	ASSIGN // =

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	SEMICOLON // ;
	DOT       // .
)

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	switch t {
	case ILLEGAL:
		return "ILLEGAL"
	case EOF:
		return "EOF"
	case IDENT:
		return "IDENT"
	case INT_LIT:
		return "INT_LIT"
	case CLASS:
		return "CLASS"
	case PUBLIC:
		return "PUBLIC"
	case STATIC:
		return "STATIC"
	case VOID:
		return "VOID"
	case EXTENDS:
		return "EXTENDS"
	case RETURN:
		return "RETURN"
	case IF:
		return "IF"
	case ELSE:
		return "ELSE"
	case WHILE:
		return "WHILE"
	case TRUE:
		return "TRUE"
	case FALSE:
		return "FALSE"
	case THIS:
		return "THIS"
	case NEW:
		return "NEW"
	case LENGTH:
		return "LENGTH"
	case PRINTLN:
		return "PRINTLN"
	case INT_TYPE:
		return "INT_TYPE"
	case BOOLEAN_TYPE:
		return "BOOLEAN_TYPE"
	case STRING_TYPE:
		return "STRING_TYPE"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case STAR:
		return "STAR"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case NOT:
		return "NOT"
	case EQ:
		return "EQ"
	case LT:
		return "LT"
	case GT:
		return "GT"
	case ASSIGN:
		return "ASSIGN"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case LBRACE:
		return "LBRACE"
	case RBRACE:
		return "RBRACE"
	case LBRACKET:
		return "LBRACKET"
	case RBRACKET:
		return "RBRACKET"
	case COMMA:
		return "COMMA"
	case SEMICOLON:
		return "SEMICOLON"
	case DOT:
		return "DOT"
	default:
		return fmt.Sprintf("TokenType(%d)", t)
	}
}

// Symbol returns the source spelling of an operator token, or its name for
// anything else.
func (t TokenType) Symbol() string {
	switch t {
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case AND:
		return "&&"
	case OR:
		return "||"
	case NOT:
		return "!"
	case EQ:
		return "=="
	case LT:
		return "<"
	case GT:
		return ">"
	default:
		return t.String()
	}
}

// keywords maps keyword strings to their token types
var keywords = map[string]TokenType{
	"class":   CLASS,
	"public":  PUBLIC,
	"static":  STATIC,
	"void":    VOID,
	"extends": EXTENDS,
	"return":  RETURN,
	"if":      IF,
	"else":    ELSE,
	"while":   WHILE,
	"true":    TRUE,
	"false":   FALSE,
	"this":    THIS,
	"new":     NEW,
	"length":  LENGTH,
	"int":     INT_TYPE,
	"boolean": BOOLEAN_TYPE,
	"String":  STRING_TYPE,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
