package lexer

import "strings"

// printlnSuffix follows "System" in the print statement keyword.
const printlnSuffix = ".out.println"

// Lexer scans MiniJava source code and produces tokens
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // current line number
	column       int  // current column number
}

// New creates a new Lexer instance
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances the position
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII code for NUL
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar returns the next character without advancing the position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		l.readChar()
	}
}

// skipSingleLineComment skips a single-line comment (//)
func (l *Lexer) skipSingleLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// skipMultiLineComment skips a multi-line comment (/* */)
func (l *Lexer) skipMultiLineComment() {
	// Already read '/*', now skip until '*/'
	for {
		if l.ch == 0 {
			break
		}
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // consume '*'
			l.readChar() // consume '/'
			break
		}
		l.readChar()
	}
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads an integer literal
func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readPrintln consumes ".out.println" after "System" when it is present.
func (l *Lexer) readPrintln() bool {
	if !strings.HasPrefix(l.input[l.position:], printlnSuffix) {
		return false
	}
	end := l.position + len(printlnSuffix)
	if end < len(l.input) && (isLetter(l.input[end]) || isDigit(l.input[end])) {
		return false
	}
	for i := 0; i < len(printlnSuffix); i++ {
		l.readChar()
	}
	return true
}

// singleChar maps characters that always form a token on their own
var singleChar = map[byte]TokenType{
	'!': NOT,
	'<': LT,
	'>': GT,
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
	'[': LBRACKET,
	']': RBRACKET,
	',': COMMA,
	';': SEMICOLON,
	'.': DOT,
}

// pair scans a token that is doubled in its valid form (==, &&, ||).
// Without the second character the token is single, which is ILLEGAL for
// & and |.
func (l *Lexer) pair(double, single TokenType, line, col int) Token {
	if l.peekChar() == l.ch {
		lit := l.input[l.position : l.position+2]
		l.readChar()
		l.readChar()
		return Token{Type: double, Literal: lit, Line: line, Column: col}
	}
	lit := string(l.ch)
	l.readChar()
	return Token{Type: single, Literal: lit, Line: line, Column: col}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()
		if l.ch != '/' {
			break
		}
		switch l.peekChar() {
		case '/':
			l.skipSingleLineComment()
			continue
		case '*':
			l.readChar()
			l.readChar()
			l.skipMultiLineComment()
			continue
		}
		break
	}

	line, col := l.line, l.column
	switch {
	case l.ch == 0:
		return Token{Type: EOF, Line: line, Column: col}
	case l.ch == '=':
		return l.pair(EQ, ASSIGN, line, col)
	case l.ch == '&':
		return l.pair(AND, ILLEGAL, line, col)
	case l.ch == '|':
		return l.pair(OR, ILLEGAL, line, col)
	case isLetter(l.ch):
		ident := l.readIdentifier()
		if ident == "System" && l.readPrintln() {
			return Token{Type: PRINTLN, Literal: ident + printlnSuffix, Line: line, Column: col}
		}
		return Token{Type: LookupIdent(ident), Literal: ident, Line: line, Column: col}
	case isDigit(l.ch):
		return Token{Type: INT_LIT, Literal: l.readNumber(), Line: line, Column: col}
	}

	tt, ok := singleChar[l.ch]
	if !ok {
		tt = ILLEGAL
	}
	tok := Token{Type: tt, Literal: string(l.ch), Line: line, Column: col}
	l.readChar()
	return tok
}

// Tokenize returns all tokens from the input
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			break
		}
	}
	return tokens
}

// Helper functions

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
