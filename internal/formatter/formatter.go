package formatter

import (
	"fmt"
	"strings"

	"github.com/Ozzcarr/minijava-compiler/internal/ast"
	"github.com/Ozzcarr/minijava-compiler/internal/lexer"
)

// Format takes an AST Program and returns canonical MiniJava source code.
// Formatting a program parsed from Format's output yields the same text.
func Format(prog *ast.Program) string {
	f := &formatter{}
	f.formatProgram(prog)
	return f.sb.String()
}

type formatter struct {
	sb     strings.Builder
	indent int
}

// --- helpers ---

func (f *formatter) emit(s string) {
	f.sb.WriteString(s)
}

func (f *formatter) emitf(format string, args ...any) {
	f.sb.WriteString(fmt.Sprintf(format, args...))
}

func (f *formatter) emitLine(s string) {
	if s == "" {
		f.sb.WriteString("\n")
	} else {
		f.sb.WriteString(f.indentStr())
		f.sb.WriteString(s)
		f.sb.WriteString("\n")
	}
}

func (f *formatter) emitLinef(format string, args ...any) {
	f.sb.WriteString(f.indentStr())
	f.sb.WriteString(fmt.Sprintf(format, args...))
	f.sb.WriteString("\n")
}

func (f *formatter) incIndent() { f.indent++ }
func (f *formatter) decIndent() { f.indent-- }

func (f *formatter) indentStr() string {
	return strings.Repeat("    ", f.indent)
}

func (f *formatter) blankLine() {
	f.sb.WriteString("\n")
}

// --- program-level ---

func (f *formatter) formatProgram(prog *ast.Program) {
	if prog == nil {
		return
	}
	first := true
	if prog.Main != nil {
		f.formatMainClass(prog.Main)
		first = false
	}
	for _, cls := range prog.Classes {
		if !first {
			f.blankLine()
		}
		f.formatClassDecl(cls)
		first = false
	}
}

func (f *formatter) formatMainClass(m *ast.MainClass) {
	f.emitLinef("class %s {", m.Name)
	f.incIndent()
	f.emitLinef("public static void main(String[] %s) {", m.ArgsName)
	f.incIndent()
	f.formatStatements(m.Body)
	f.decIndent()
	f.emitLine("}")
	f.decIndent()
	f.emitLine("}")
}

func (f *formatter) formatClassDecl(cls *ast.ClassDecl) {
	if cls.Extends != "" {
		f.emitLinef("class %s extends %s {", cls.Name, cls.Extends)
	} else {
		f.emitLinef("class %s {", cls.Name)
	}
	f.incIndent()
	for _, field := range cls.Fields {
		f.emitLinef("%s %s;", typeString(field.Type), field.Name)
	}
	for i, m := range cls.Methods {
		if i > 0 || len(cls.Fields) > 0 {
			f.blankLine()
		}
		f.formatMethodDecl(m)
	}
	f.decIndent()
	f.emitLine("}")
}

func (f *formatter) formatMethodDecl(m *ast.MethodDecl) {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = typeString(p.Type) + " " + p.Name
	}
	f.emitLinef("public %s %s(%s) {", typeString(m.ReturnType), m.Name, strings.Join(params, ", "))
	f.incIndent()
	f.formatStatements(m.Body)
	f.decIndent()
	f.emitLine("}")
}

// typeString prints a type the way it is written in source.
func typeString(t *ast.TypeRef) string {
	if t == nil {
		return "<missing>"
	}
	return t.String()
}

// --- statements ---

func (f *formatter) formatStatements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		f.formatStmt(stmt)
	}
}

func (f *formatter) formatStmt(s ast.Statement) {
	switch stmt := s.(type) {
	case *ast.VarDeclStmt:
		f.emitLinef("%s %s;", typeString(stmt.Decl.Type), stmt.Decl.Name)

	case *ast.AssignStmt:
		f.emitLinef("%s = %s;", stmt.Target.Name, f.formatExpr(stmt.Value))

	case *ast.ArrayAssignStmt:
		f.emitLinef("%s[%s] = %s;", stmt.Target.Name, f.formatExpr(stmt.Index), f.formatExpr(stmt.Value))

	case *ast.PrintStmt:
		f.emitLinef("System.out.println(%s);", f.formatExpr(stmt.Value))

	case *ast.ReturnStmt:
		if stmt.Value != nil {
			f.emitLinef("return %s;", f.formatExpr(stmt.Value))
		} else {
			f.emitLine("return;")
		}

	case *ast.IfStmt:
		f.formatIfStmt(stmt, false)

	case *ast.WhileStmt:
		f.emitf("%swhile (%s)", f.indentStr(), f.formatExpr(stmt.Condition))
		f.formatBranch(stmt.Body)
		f.emit("\n")

	case *ast.Block:
		f.emitLine("{")
		f.incIndent()
		f.formatStatements(stmt.Statements)
		f.decIndent()
		f.emitLine("}")
	}
}

// formatIfStmt prints an if statement. Chains of else-if are kept on the
// line of the preceding else.
func (f *formatter) formatIfStmt(stmt *ast.IfStmt, isElseIf bool) {
	if !isElseIf {
		f.emit(f.indentStr())
	}
	f.emitf("if (%s)", f.formatExpr(stmt.Condition))
	then := stmt.Then
	if inner, ok := then.(*ast.IfStmt); ok && stmt.Else != nil {
		// braces keep the else attached to this if
		then = &ast.Block{Statements: []ast.Statement{inner}, Line: inner.Line, Column: inner.Column}
	}
	f.formatBranch(then)
	if stmt.Else == nil {
		f.emit("\n")
		return
	}
	if _, ok := then.(*ast.Block); ok {
		f.emit(" else")
	} else {
		f.emit("\n" + f.indentStr() + "else")
	}
	if elseIf, ok := stmt.Else.(*ast.IfStmt); ok {
		f.emit(" ")
		f.formatIfStmt(elseIf, true)
		return
	}
	f.formatBranch(stmt.Else)
	f.emit("\n")
}

// formatBranch prints the body of an if or while without the final newline.
// A block opens on the current line, any other statement goes on its own
// indented line.
func (f *formatter) formatBranch(body ast.Statement) {
	if block, ok := body.(*ast.Block); ok {
		f.emit(" {\n")
		f.incIndent()
		f.formatStatements(block.Statements)
		f.decIndent()
		f.emit(f.indentStr() + "}")
		return
	}
	sub := &formatter{indent: f.indent + 1}
	sub.formatStmt(body)
	f.emit("\n" + strings.TrimSuffix(sub.sb.String(), "\n"))
}

// --- expressions ---

func (f *formatter) formatExpr(e ast.Expression) string {
	return f.formatExprPrec(e, 0)
}

// formatExprPrec formats an expression, wrapping in parens if needed based on parent precedence.
func (f *formatter) formatExprPrec(e ast.Expression, parentPrec int) string {
	switch expr := e.(type) {
	case *ast.BinaryExpr:
		prec := precedence(expr.Op)
		left := f.formatExprPrec(expr.Left, prec)
		right := f.formatExprPrec(expr.Right, prec+1) // +1 for left-associativity
		result := fmt.Sprintf("%s %s %s", left, expr.Op.Symbol(), right)
		if prec < parentPrec {
			return "(" + result + ")"
		}
		return result

	case *ast.NotExpr:
		result := "!" + f.formatExprPrec(expr.Operand, precUnary)
		if precUnary < parentPrec {
			return "(" + result + ")"
		}
		return result

	case *ast.IndexExpr:
		return fmt.Sprintf("%s[%s]", f.formatPostfixBase(expr.Object), f.formatExpr(expr.Index))

	case *ast.LengthExpr:
		return f.formatPostfixBase(expr.Object) + ".length"

	case *ast.MethodCallExpr:
		args := make([]string, len(expr.Args))
		for i, arg := range expr.Args {
			args[i] = f.formatExpr(arg)
		}
		return fmt.Sprintf("%s.%s(%s)", f.formatPostfixBase(expr.Object), expr.Method, strings.Join(args, ", "))

	case *ast.NewArrayExpr:
		return fmt.Sprintf("new int[%s]", f.formatExpr(expr.Size))

	default:
		return ast.Render(e)
	}
}

// formatPostfixBase formats the operand of [], .length or a call. A bare
// new int[n] is wrapped so that new int[n][i] is not read as a second
// dimension.
func (f *formatter) formatPostfixBase(e ast.Expression) string {
	if _, ok := e.(*ast.NewArrayExpr); ok {
		return "(" + f.formatExpr(e) + ")"
	}
	return f.formatExprPrec(e, precPostfix)
}

const (
	precUnary   = 7
	precPostfix = 8
)

func precedence(op lexer.TokenType) int {
	switch op {
	case lexer.OR:
		return 1
	case lexer.AND:
		return 2
	case lexer.EQ:
		return 3
	case lexer.LT, lexer.GT:
		return 4
	case lexer.PLUS, lexer.MINUS:
		return 5
	case lexer.STAR:
		return 6
	default:
		return 0
	}
}
