package linter

import (
	"strings"
	"unicode"

	"github.com/Ozzcarr/minijava-compiler/internal/ast"
	"github.com/Ozzcarr/minijava-compiler/internal/diagnostic"
)

// Linter performs style and best-practice checks on an AST program.
// It reports warnings (never errors) using the diagnostic system.
type Linter struct {
	prog *ast.Program
	diag *diagnostic.Diagnostics
}

// Lint runs all lint rules on the given program and returns diagnostics.
func Lint(prog *ast.Program) *diagnostic.Diagnostics {
	l := &Linter{
		prog: prog,
		diag: diagnostic.New(),
	}

	l.lintMainClass()
	l.lintClasses()

	l.diag.Sort()
	return l.diag
}

func (l *Linter) lintMainClass() {
	m := l.prog.Main
	if m == nil {
		return
	}
	l.checkClassNaming(m.Name, m.Line, m.Column)
	usedNames := l.collectUsedNames(m.Body)
	l.checkUnusedVariables(m.Body, usedNames)
}

// lintClasses checks all class declarations.
func (l *Linter) lintClasses() {
	for _, cls := range l.prog.Classes {
		l.checkClassNaming(cls.Name, cls.Line, cls.Column)
		for _, field := range cls.Fields {
			l.checkVariableNaming("field", field.Name, field.Line, field.Column)
		}

		for _, m := range cls.Methods {
			qualified := cls.Name + "." + m.Name
			l.checkEmptyMethodBody(qualified, m)
			l.checkMethodNaming(m.Name, m.Line, m.Column)

			usedNames := l.collectUsedNames(m.Body)
			l.checkUnusedParams(qualified, m.Params, usedNames)
			l.checkUnusedVariables(m.Body, usedNames)
		}
	}
}

// --- Lint rules ---

// checkEmptyMethodBody warns if a method body has no statements.
func (l *Linter) checkEmptyMethodBody(name string, m *ast.MethodDecl) {
	if len(m.Body) == 0 {
		l.diag.Warningf(diagnostic.EmptyBody, m.Line, m.Column, "method '%s' has an empty body", name)
	}
}

// checkMethodNaming warns if a method name is not camelCase.
func (l *Linter) checkMethodNaming(name string, line, col int) {
	if !isCamelCase(name) {
		l.diag.Warningf(diagnostic.NamingConvention, line, col,
			"method '%s' should use camelCase naming", name)
	}
}

// checkClassNaming warns if a class name is not PascalCase.
func (l *Linter) checkClassNaming(name string, line, col int) {
	if !isPascalCase(name) {
		l.diag.Warningf(diagnostic.NamingConvention, line, col,
			"class '%s' should use PascalCase naming", name)
	}
}

func (l *Linter) checkVariableNaming(what, name string, line, col int) {
	if !isCamelCase(name) {
		l.diag.Warningf(diagnostic.NamingConvention, line, col,
			"%s '%s' should use camelCase naming", what, name)
	}
}

// checkUnusedParams warns about method parameters that are never read in the body.
func (l *Linter) checkUnusedParams(scopeName string, params []*ast.Param, usedNames map[string]bool) {
	for _, p := range params {
		if !usedNames[p.Name] {
			l.diag.Warningf(diagnostic.UnusedVariable, p.Line, p.Column,
				"parameter '%s' in '%s' is never used", p.Name, scopeName)
		}
	}
}

// checkUnusedVariables warns about locals that are never read.
func (l *Linter) checkUnusedVariables(stmts []ast.Statement, usedNames map[string]bool) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.VarDeclStmt:
			l.checkVariableNaming("variable", s.Decl.Name, s.Decl.Line, s.Decl.Column)
			if !usedNames[s.Decl.Name] {
				l.diag.Warningf(diagnostic.UnusedVariable, s.Decl.Line, s.Decl.Column,
					"variable '%s' is declared but never used", s.Decl.Name)
			}
		case *ast.Block:
			l.checkUnusedVariables(s.Statements, usedNames)
		case *ast.IfStmt:
			l.checkUnusedVariables([]ast.Statement{s.Then}, usedNames)
			if s.Else != nil {
				l.checkUnusedVariables([]ast.Statement{s.Else}, usedNames)
			}
		case *ast.WhileStmt:
			l.checkUnusedVariables([]ast.Statement{s.Body}, usedNames)
		}
	}
}

// --- Name collection helpers ---

// collectUsedNames walks all expressions in a slice of statements and collects
// all identifier names that are read (referenced). This is used to detect
// unused variables and parameters.
func (l *Linter) collectUsedNames(stmts []ast.Statement) map[string]bool {
	used := make(map[string]bool)
	for _, stmt := range stmts {
		l.collectUsedNamesFromStmt(stmt, used)
	}
	return used
}

func (l *Linter) collectUsedNamesFromStmt(stmt ast.Statement, used map[string]bool) {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		// The target is a write, only the value side reads names.
		l.collectUsedNamesFromExpr(s.Value, used)
	case *ast.ArrayAssignStmt:
		// Storing into an element reads the array reference.
		used[s.Target.Name] = true
		l.collectUsedNamesFromExpr(s.Index, used)
		l.collectUsedNamesFromExpr(s.Value, used)
	case *ast.ReturnStmt:
		l.collectUsedNamesFromExpr(s.Value, used)
	case *ast.PrintStmt:
		l.collectUsedNamesFromExpr(s.Value, used)
	case *ast.IfStmt:
		l.collectUsedNamesFromExpr(s.Condition, used)
		l.collectUsedNamesFromStmt(s.Then, used)
		if s.Else != nil {
			l.collectUsedNamesFromStmt(s.Else, used)
		}
	case *ast.WhileStmt:
		l.collectUsedNamesFromExpr(s.Condition, used)
		l.collectUsedNamesFromStmt(s.Body, used)
	case *ast.Block:
		for _, inner := range s.Statements {
			l.collectUsedNamesFromStmt(inner, used)
		}
	}
}

func (l *Linter) collectUsedNamesFromExpr(expr ast.Expression, used map[string]bool) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *ast.Identifier:
		used[e.Name] = true
	case *ast.BinaryExpr:
		l.collectUsedNamesFromExpr(e.Left, used)
		l.collectUsedNamesFromExpr(e.Right, used)
	case *ast.NotExpr:
		l.collectUsedNamesFromExpr(e.Operand, used)
	case *ast.MethodCallExpr:
		l.collectUsedNamesFromExpr(e.Object, used)
		for _, arg := range e.Args {
			l.collectUsedNamesFromExpr(arg, used)
		}
	case *ast.IndexExpr:
		l.collectUsedNamesFromExpr(e.Object, used)
		l.collectUsedNamesFromExpr(e.Index, used)
	case *ast.LengthExpr:
		l.collectUsedNamesFromExpr(e.Object, used)
	case *ast.NewArrayExpr:
		l.collectUsedNamesFromExpr(e.Size, used)
	}
}

// --- Naming convention helpers ---

// isCamelCase returns true if the name starts with a lowercase letter
// and contains no underscores.
func isCamelCase(name string) bool {
	if len(name) == 0 {
		return false
	}
	runes := []rune(name)
	if !unicode.IsLower(runes[0]) {
		return false
	}
	return !strings.ContainsRune(name, '_')
}

// isPascalCase returns true if the name starts with an uppercase letter
// and contains no underscores.
func isPascalCase(name string) bool {
	if len(name) == 0 {
		return false
	}
	runes := []rune(name)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	return !strings.ContainsRune(name, '_')
}
