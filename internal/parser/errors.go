package parser

import (
	"github.com/Ozzcarr/minijava-compiler/internal/diagnostic"
	"github.com/Ozzcarr/minijava-compiler/internal/lexer"
)

// syncTokens are tokens the parser can synchronize to after an error
var syncTokens = map[lexer.TokenType]bool{
	lexer.CLASS:        true,
	lexer.PUBLIC:       true,
	lexer.RETURN:       true,
	lexer.IF:           true,
	lexer.WHILE:        true,
	lexer.PRINTLN:      true,
	lexer.INT_TYPE:     true,
	lexer.BOOLEAN_TYPE: true,
	lexer.LBRACE:       true,
	lexer.RBRACE:       true,
	lexer.SEMICOLON:    true,
	lexer.EOF:          true,
}

// Parser holds the parser state
type Parser struct {
	tokens []lexer.Token
	pos    int
	diags  *diagnostic.Diagnostics
}

// current returns the current token
func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

// peek returns the next token without consuming
func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos+1]
}

// advance moves to the next token and returns the consumed token
func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches the expected type,
// otherwise reports an error
func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	tok := p.current()
	if tok.Type != tt {
		p.unexpected(tok, "expected %s, got %s", tt, tok.Type)
		return tok
	}
	return p.advance()
}

// unexpected reports tok, as a lexical error when the lexer could not
// classify it and as a syntax error otherwise
func (p *Parser) unexpected(tok lexer.Token, format string, args ...interface{}) {
	if tok.Type == lexer.ILLEGAL {
		p.diags.Errorf(diagnostic.LexicalError, tok.Line, tok.Column, "illegal character '%s'", tok.Literal)
		return
	}
	p.diags.Errorf(diagnostic.SyntaxError, tok.Line, tok.Column, format, args...)
}

// check returns true if the current token is of the given type
func (p *Parser) check(tt lexer.TokenType) bool {
	return p.current().Type == tt
}

// match consumes the current token if it matches, returns true if consumed
func (p *Parser) match(tt lexer.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

// synchronize skips tokens until a sync point is found. A semicolon sync
// point is consumed.
func (p *Parser) synchronize() {
	for !p.check(lexer.EOF) {
		if p.current().Type == lexer.SEMICOLON {
			p.advance()
			return
		}
		if syncTokens[p.current().Type] {
			return
		}
		p.advance()
	}
}
