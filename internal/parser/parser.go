package parser

import (
	"strconv"

	"github.com/Ozzcarr/minijava-compiler/internal/ast"
	"github.com/Ozzcarr/minijava-compiler/internal/diagnostic"
	"github.com/Ozzcarr/minijava-compiler/internal/lexer"
)

// New creates a new parser
func New(source string) *Parser {
	l := lexer.New(source)
	tokens := l.Tokenize()
	return &Parser{
		tokens: tokens,
		pos:    0,
		diags:  diagnostic.New(),
	}
}

// Diagnostics returns the parser's diagnostics
func (p *Parser) Diagnostics() *diagnostic.Diagnostics {
	return p.diags
}

// Parse parses the token stream into a Program AST
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{}
	prog.Main = p.parseMainClass()

	for !p.check(lexer.EOF) {
		startPos := p.pos
		if p.check(lexer.CLASS) || (p.check(lexer.PUBLIC) && p.peek().Type == lexer.CLASS) {
			prog.Classes = append(prog.Classes, p.parseClassDecl())
		} else {
			p.unexpected(p.current(), "unexpected token %s at top level", p.current().Type)
			p.synchronize()
		}
		if p.pos == startPos {
			p.advance() // ensure forward progress to avoid infinite loop
		}
	}
	return prog
}

// parseMainClass parses:
// [public] class <name> { public static void main(String[] <args>) { stmt* } }
func (p *Parser) parseMainClass() *ast.MainClass {
	p.match(lexer.PUBLIC)
	p.expect(lexer.CLASS)
	name := p.expect(lexer.IDENT)
	p.expect(lexer.LBRACE)

	p.expect(lexer.PUBLIC)
	p.expect(lexer.STATIC)
	p.expect(lexer.VOID)
	mainTok := p.expect(lexer.IDENT)
	if mainTok.Type == lexer.IDENT && mainTok.Literal != "main" {
		p.diags.Errorf(diagnostic.SyntaxError, mainTok.Line, mainTok.Column,
			"expected method 'main' in main class, got '%s'", mainTok.Literal)
	}
	p.expect(lexer.LPAREN)
	p.expect(lexer.STRING_TYPE)
	p.expect(lexer.LBRACKET)
	p.expect(lexer.RBRACKET)
	args := p.expect(lexer.IDENT)
	p.expect(lexer.RPAREN)

	body := p.parseBody()
	p.expect(lexer.RBRACE)

	return &ast.MainClass{
		Name:     name.Literal,
		ArgsName: args.Literal,
		Body:     body,
		Line:     name.Line,
		Column:   name.Column,
	}
}

// parseClassDecl parses: [public] class <name> [extends <name>] { member* }
func (p *Parser) parseClassDecl() *ast.ClassDecl {
	p.match(lexer.PUBLIC)
	p.expect(lexer.CLASS)
	name := p.expect(lexer.IDENT)

	cls := &ast.ClassDecl{
		Name:   name.Literal,
		Line:   name.Line,
		Column: name.Column,
	}
	if p.match(lexer.EXTENDS) {
		cls.Extends = p.expect(lexer.IDENT).Literal
	}

	p.expect(lexer.LBRACE)
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		startPos := p.pos
		switch {
		case p.check(lexer.PUBLIC) || p.isMethodStart():
			cls.Methods = append(cls.Methods, p.parseMethodDecl())
		case p.isTypeStart():
			cls.Fields = append(cls.Fields, p.parseVarDecl())
		default:
			p.unexpected(p.current(), "expected field or method declaration, got %s", p.current().Type)
			p.synchronize()
		}
		if p.pos == startPos {
			p.advance()
		}
	}
	p.expect(lexer.RBRACE)
	return cls
}

// isTypeStart reports whether the current token can begin a type
func (p *Parser) isTypeStart() bool {
	switch p.current().Type {
	case lexer.INT_TYPE, lexer.BOOLEAN_TYPE, lexer.VOID, lexer.IDENT:
		return true
	}
	return false
}

// isMethodStart looks past a type and a name for the opening parenthesis
func (p *Parser) isMethodStart() bool {
	if !p.isTypeStart() {
		return false
	}
	i := p.pos + 1
	if p.current().Type == lexer.INT_TYPE && p.tokenAt(i).Type == lexer.LBRACKET {
		i += 2
	}
	return p.tokenAt(i).Type == lexer.IDENT && p.tokenAt(i+1).Type == lexer.LPAREN
}

func (p *Parser) tokenAt(i int) lexer.Token {
	if i >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[i]
}

// parseMethodDecl parses: [public] <type> <name>(<params>) { (var | stmt)* }
func (p *Parser) parseMethodDecl() *ast.MethodDecl {
	p.match(lexer.PUBLIC)
	retType := p.parseType()
	name := p.expect(lexer.IDENT)
	p.expect(lexer.LPAREN)
	params := p.parseParamList()
	p.expect(lexer.RPAREN)
	body := p.parseBody()

	return &ast.MethodDecl{
		Name:       name.Literal,
		ReturnType: retType,
		Params:     params,
		Body:       body,
		Line:       name.Line,
		Column:     name.Column,
	}
}

func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	if p.check(lexer.RPAREN) {
		return params
	}
	params = append(params, p.parseParam())
	for p.match(lexer.COMMA) {
		params = append(params, p.parseParam())
	}
	return params
}

func (p *Parser) parseParam() *ast.Param {
	typ := p.parseType()
	name := p.expect(lexer.IDENT)
	return &ast.Param{
		Type:   typ,
		Name:   name.Literal,
		Line:   name.Line,
		Column: name.Column,
	}
}

// parseVarDecl parses: <type> <name>;
func (p *Parser) parseVarDecl() *ast.VarDecl {
	typ := p.parseType()
	name := p.expect(lexer.IDENT)
	p.expect(lexer.SEMICOLON)
	return &ast.VarDecl{
		Type:   typ,
		Name:   name.Literal,
		Line:   name.Line,
		Column: name.Column,
	}
}

// parseType parses: int | int[] | boolean | void | <class name>
func (p *Parser) parseType() *ast.TypeRef {
	tok := p.current()
	ref := &ast.TypeRef{Line: tok.Line, Column: tok.Column}

	switch tok.Type {
	case lexer.INT_TYPE:
		p.advance()
		ref.Kind = ast.TypeInt
		if p.match(lexer.LBRACKET) {
			p.expect(lexer.RBRACKET)
			ref.Kind = ast.TypeIntArray
		}
	case lexer.BOOLEAN_TYPE:
		p.advance()
		ref.Kind = ast.TypeBoolean
	case lexer.VOID:
		p.advance()
		ref.Kind = ast.TypeVoid
	case lexer.IDENT:
		p.advance()
		ref.Kind = ast.TypeClass
		ref.Name = tok.Literal
	default:
		p.unexpected(tok, "expected type, got %s", tok.Type)
		ref.Kind = ast.TypeClass
	}
	return ref
}

// parseBody parses: { statement* }
func (p *Parser) parseBody() []ast.Statement {
	p.expect(lexer.LBRACE)
	var stmts []ast.Statement
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		startPos := p.pos
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.pos == startPos {
			p.advance()
		}
	}
	p.expect(lexer.RBRACE)
	return stmts
}

// parseStatement parses a statement or a local variable declaration
func (p *Parser) parseStatement() ast.Statement {
	tok := p.current()
	switch tok.Type {
	case lexer.LBRACE:
		return &ast.Block{Statements: p.parseBody(), Line: tok.Line, Column: tok.Column}
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.PRINTLN:
		return p.parsePrintStmt()
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.INT_TYPE, lexer.BOOLEAN_TYPE:
		return &ast.VarDeclStmt{Decl: p.parseVarDecl()}
	case lexer.IDENT:
		switch p.peek().Type {
		case lexer.IDENT:
			return &ast.VarDeclStmt{Decl: p.parseVarDecl()}
		case lexer.ASSIGN:
			return p.parseAssignStmt()
		case lexer.LBRACKET:
			return p.parseArrayAssignStmt()
		}
	}

	p.unexpected(tok, "expected statement, got %s", tok.Type)
	p.synchronize()
	return nil
}

// parseBranch parses the body of an if or while. A local declaration is only
// allowed directly inside a block, so one here is reported and dropped.
func (p *Parser) parseBranch() ast.Statement {
	stmt := p.parseStatement()
	if decl, ok := stmt.(*ast.VarDeclStmt); ok {
		p.diags.Errorf(diagnostic.SyntaxError, decl.Decl.Line, decl.Decl.Column,
			"declaration of '%s' is not allowed here; wrap it in a block", decl.Decl.Name)
		return nil
	}
	return stmt
}

// parseIfStmt parses: if (<expr>) <stmt> [else <stmt>]
func (p *Parser) parseIfStmt() ast.Statement {
	tok := p.expect(lexer.IF)
	p.expect(lexer.LPAREN)
	condition := p.parseExpression()
	p.expect(lexer.RPAREN)
	then := p.parseBranch()

	var elseStmt ast.Statement
	if p.match(lexer.ELSE) {
		elseStmt = p.parseBranch()
	}

	return &ast.IfStmt{
		Condition: condition,
		Then:      then,
		Else:      elseStmt,
		Line:      tok.Line,
		Column:    tok.Column,
	}
}

// parseWhileStmt parses: while (<expr>) <stmt>
func (p *Parser) parseWhileStmt() ast.Statement {
	tok := p.expect(lexer.WHILE)
	p.expect(lexer.LPAREN)
	condition := p.parseExpression()
	p.expect(lexer.RPAREN)
	body := p.parseBranch()

	return &ast.WhileStmt{
		Condition: condition,
		Body:      body,
		Line:      tok.Line,
		Column:    tok.Column,
	}
}

// parsePrintStmt parses: System.out.println(<expr>);
func (p *Parser) parsePrintStmt() ast.Statement {
	tok := p.expect(lexer.PRINTLN)
	p.expect(lexer.LPAREN)
	value := p.parseExpression()
	p.expect(lexer.RPAREN)
	p.expect(lexer.SEMICOLON)
	return &ast.PrintStmt{Value: value, Line: tok.Line, Column: tok.Column}
}

// parseReturnStmt parses: return [expr];
func (p *Parser) parseReturnStmt() ast.Statement {
	tok := p.expect(lexer.RETURN)
	var value ast.Expression
	if !p.check(lexer.SEMICOLON) {
		value = p.parseExpression()
	}
	p.expect(lexer.SEMICOLON)

	return &ast.ReturnStmt{
		Value:  value,
		Line:   tok.Line,
		Column: tok.Column,
	}
}

// parseAssignStmt parses: <name> = <expr>;
func (p *Parser) parseAssignStmt() ast.Statement {
	name := p.expect(lexer.IDENT)
	p.expect(lexer.ASSIGN)
	value := p.parseExpression()
	p.expect(lexer.SEMICOLON)
	return &ast.AssignStmt{
		Target: &ast.Identifier{Name: name.Literal, Line: name.Line, Column: name.Column},
		Value:  value,
		Line:   name.Line,
		Column: name.Column,
	}
}

// parseArrayAssignStmt parses: <name>[<expr>] = <expr>;
func (p *Parser) parseArrayAssignStmt() ast.Statement {
	name := p.expect(lexer.IDENT)
	p.expect(lexer.LBRACKET)
	index := p.parseExpression()
	p.expect(lexer.RBRACKET)
	p.expect(lexer.ASSIGN)
	value := p.parseExpression()
	p.expect(lexer.SEMICOLON)
	return &ast.ArrayAssignStmt{
		Target: &ast.Identifier{Name: name.Literal, Line: name.Line, Column: name.Column},
		Index:  index,
		Value:  value,
		Line:   name.Line,
		Column: name.Column,
	}
}

// Expression parsing - precedence climbing

// Precedence levels (lowest to highest):
// 1. ||
// 2. &&
// 3. ==
// 4. < >
// 5. + -
// 6. *
// 7. unary !
// 8. postfix ([] .length .m())
//
// All binary operators are left-associative.

const (
	precNone       = 0
	precOr         = 1
	precAnd        = 2
	precEquality   = 3
	precComparison = 4
	precAdditive   = 5
	precMulti      = 6
)

func tokenPrecedence(tt lexer.TokenType) int {
	switch tt {
	case lexer.OR:
		return precOr
	case lexer.AND:
		return precAnd
	case lexer.EQ:
		return precEquality
	case lexer.LT, lexer.GT:
		return precComparison
	case lexer.PLUS, lexer.MINUS:
		return precAdditive
	case lexer.STAR:
		return precMulti
	default:
		return precNone
	}
}

func (p *Parser) parseExpression() ast.Expression {
	return p.parsePrecedence(precOr)
}

func (p *Parser) parsePrecedence(minPrec int) ast.Expression {
	left := p.parseUnary()

	for {
		prec := tokenPrecedence(p.current().Type)
		if prec == precNone || prec < minPrec {
			break
		}

		op := p.advance()
		right := p.parsePrecedence(prec + 1)
		left = &ast.BinaryExpr{
			Left:   left,
			Op:     op.Type,
			Right:  right,
			Line:   op.Line,
			Column: op.Column,
		}
	}

	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.check(lexer.NOT) {
		op := p.advance()
		operand := p.parseUnary()
		return &ast.NotExpr{
			Operand: operand,
			Line:    op.Line,
			Column:  op.Column,
		}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()

	for {
		if p.check(lexer.LBRACKET) {
			tok := p.advance() // consume '['
			index := p.parseExpression()
			p.expect(lexer.RBRACKET)
			expr = &ast.IndexExpr{
				Object: expr,
				Index:  index,
				Line:   tok.Line,
				Column: tok.Column,
			}
		} else if p.check(lexer.DOT) {
			p.advance()
			if p.check(lexer.LENGTH) {
				tok := p.advance()
				expr = &ast.LengthExpr{Object: expr, Line: tok.Line, Column: tok.Column}
				continue
			}
			name := p.expect(lexer.IDENT)
			p.expect(lexer.LPAREN)
			args := p.parseArgList()
			p.expect(lexer.RPAREN)
			expr = &ast.MethodCallExpr{
				Object: expr,
				Method: name.Literal,
				Args:   args,
				Line:   name.Line,
				Column: name.Column,
			}
		} else {
			break
		}
	}

	return expr
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.current()

	switch tok.Type {
	case lexer.INT_LIT:
		p.advance()
		if _, err := strconv.ParseInt(tok.Literal, 10, 32); err != nil {
			p.diags.Errorf(diagnostic.LexicalError, tok.Line, tok.Column,
				"integer literal %s out of range", tok.Literal)
		}
		return &ast.IntLit{Value: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.TRUE:
		p.advance()
		return &ast.BoolLit{Value: true, Line: tok.Line, Column: tok.Column}
	case lexer.FALSE:
		p.advance()
		return &ast.BoolLit{Value: false, Line: tok.Line, Column: tok.Column}
	case lexer.THIS:
		p.advance()
		return &ast.ThisExpr{Line: tok.Line, Column: tok.Column}
	case lexer.IDENT:
		p.advance()
		return &ast.Identifier{Name: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.NEW:
		return p.parseNewExpr()
	case lexer.LPAREN:
		p.advance()
		expr := p.parseExpression()
		p.expect(lexer.RPAREN)
		return expr
	default:
		p.unexpected(tok, "unexpected token %s in expression", tok.Type)
		p.advance()
		return &ast.Identifier{Name: "<error>", Line: tok.Line, Column: tok.Column}
	}
}

// parseNewExpr parses: new int[<expr>] | new <name>()
func (p *Parser) parseNewExpr() ast.Expression {
	tok := p.expect(lexer.NEW)
	if p.match(lexer.INT_TYPE) {
		p.expect(lexer.LBRACKET)
		size := p.parseExpression()
		p.expect(lexer.RBRACKET)
		return &ast.NewArrayExpr{Size: size, Line: tok.Line, Column: tok.Column}
	}
	name := p.expect(lexer.IDENT)
	p.expect(lexer.LPAREN)
	p.expect(lexer.RPAREN)
	return &ast.NewObjectExpr{Class: name.Literal, Line: tok.Line, Column: tok.Column}
}

func (p *Parser) parseArgList() []ast.Expression {
	var args []ast.Expression
	if p.check(lexer.RPAREN) {
		return args
	}
	args = append(args, p.parseExpression())
	for p.match(lexer.COMMA) {
		args = append(args, p.parseExpression())
	}
	return args
}
