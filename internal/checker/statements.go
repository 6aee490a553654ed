package checker

import (
	"fmt"

	"github.com/Ozzcarr/minijava-compiler/internal/ast"
	"github.com/Ozzcarr/minijava-compiler/internal/diagnostic"
	"github.com/Ozzcarr/minijava-compiler/internal/lexer"
	"github.com/Ozzcarr/minijava-compiler/internal/symbols"
	"github.com/Ozzcarr/minijava-compiler/internal/types"
)

// bodyChecker walks the statements of one method. It is created per method
// and shares its evaluator and diagnostics with the other methods of the
// same class.
type bodyChecker struct {
	table  *symbols.Table
	class  *symbols.Class
	method *symbols.Method // nil inside main
	eval   *Evaluator
	diag   *diagnostic.Diagnostics
}

func (c *bodyChecker) methodName() string {
	if c.method == nil {
		return "main"
	}
	return c.method.Name
}

func (c *bodyChecker) qualifiedName() string {
	return c.class.Name + "." + c.methodName()
}

func (c *bodyChecker) returnType() types.Type {
	if c.method == nil {
		return types.Void
	}
	return c.method.Return
}

// report records a diagnostic at node tagged with the enclosing method
func (c *bodyChecker) report(kind diagnostic.Kind, node ast.Node, expected, actual types.Type, format string, args ...interface{}) {
	line, col := node.Pos()
	c.diag.Report(diagnostic.Diagnostic{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
		Class:    c.class.Name,
		Method:   c.methodName(),
		Expected: expected,
		Actual:   actual,
	})
}

func (c *bodyChecker) checkMain(mc *ast.MainClass) {
	params := NewScope(nil)
	// String[] has no MiniJava type; uses of the argument array stay silent.
	_ = params.Define(&Symbol{Name: mc.ArgsName, Type: types.Error, Kind: symbols.VarParam, Line: mc.Line, Column: mc.Column})
	c.checkStatements(mc.Body, NewScope(params))
}

func (c *bodyChecker) checkMethod() {
	md := c.method.Decl
	params := NewScope(nil)
	for _, p := range c.method.Params {
		_ = params.Define(&Symbol{Name: p.Name, Type: p.Type, Kind: symbols.VarParam, Line: p.Line, Column: p.Column})
	}
	c.checkStatements(md.Body, NewScope(params))

	ret := c.method.Return
	if ret.Equal(types.Void) || ret.IsError() || returnsOnAllPaths(md.Body) {
		return
	}
	c.diag.Report(diagnostic.Diagnostic{
		Kind:     diagnostic.MissingReturnOnAllPaths,
		Message:  fmt.Sprintf("method '%s' does not return a value on every path", c.qualifiedName()),
		Line:     md.Line,
		Column:   md.Column,
		Hint:     fmt.Sprintf("end the method with a return statement of type %s", ret),
		Class:    c.class.Name,
		Method:   md.Name,
		Expected: ret,
		Actual:   types.Void,
	})
}

// checkStatements checks a statement list in order. Code following a
// statement that always returns is flagged once per list.
func (c *bodyChecker) checkStatements(stmts []ast.Statement, scope *Scope) {
	warned := false
	for i, stmt := range stmts {
		if !warned && i > 0 && returns(stmts[i-1]) {
			line, col := stmt.Pos()
			c.diag.Warningf(diagnostic.UnreachableCode, line, col, "unreachable statement in '%s'", c.qualifiedName())
			warned = true
		}
		c.checkStatement(stmt, scope)
	}
}

func (c *bodyChecker) checkStatement(stmt ast.Statement, scope *Scope) {
	switch s := stmt.(type) {
	case *ast.Block:
		c.checkStatements(s.Statements, NewScope(scope))
	case *ast.VarDeclStmt:
		c.checkVarDecl(s.Decl, scope)
	case *ast.IfStmt:
		c.checkCondition(s.Condition, "if", scope)
		c.checkStatement(s.Then, NewScope(scope))
		if s.Else != nil {
			c.checkStatement(s.Else, NewScope(scope))
		}
	case *ast.WhileStmt:
		c.checkCondition(s.Condition, "while", scope)
		c.checkStatement(s.Body, NewScope(scope))
	case *ast.PrintStmt:
		t := c.checkExpr(s.Value, scope)
		if !t.IsError() && !t.Equal(types.Int) && !t.Equal(types.Boolean) {
			c.report(diagnostic.InvalidPrintArgument, s.Value, types.Int, t,
				"System.out.println expects int or boolean, got %s", t)
		}
	case *ast.AssignStmt:
		target := c.checkExpr(s.Target, scope)
		value := c.checkExpr(s.Value, scope)
		if !types.Assignable(target, value, c.table) {
			c.report(diagnostic.TypeMismatch, s.Value, target, value,
				"cannot assign %s to '%s' of type %s", value, s.Target.Name, target)
		}
	case *ast.ArrayAssignStmt:
		c.checkArrayAssign(s, scope)
	case *ast.ReturnStmt:
		c.checkReturn(s, scope)
	}
}

func (c *bodyChecker) checkVarDecl(decl *ast.VarDecl, scope *Scope) {
	t := c.table.Resolve(decl.Type)
	if t.Equal(types.Void) {
		t = types.Error // reported by the symbol table builder
	}
	sym := &Symbol{Name: decl.Name, Type: t, Kind: symbols.VarLocal, Line: decl.Line, Column: decl.Column}
	if err := scope.Define(sym); err != nil {
		c.report(diagnostic.DuplicateDeclaration, decl, types.Error, types.Error,
			"%v in method '%s'", err, c.qualifiedName())
	}
}

func (c *bodyChecker) checkCondition(cond ast.Expression, construct string, scope *Scope) {
	t := c.checkExpr(cond, scope)
	if !types.Assignable(types.Boolean, t, c.table) {
		c.report(diagnostic.InvalidCondition, cond, types.Boolean, t,
			"%s condition must be boolean, got %s", construct, t)
	}
}

func (c *bodyChecker) checkArrayAssign(s *ast.ArrayAssignStmt, scope *Scope) {
	base := c.checkExpr(s.Target, scope)
	index := c.checkExpr(s.Index, scope)
	value := c.checkExpr(s.Value, scope)

	elem := types.Error
	if base.IsArray() {
		elem = base.Elem()
	} else if !base.IsError() {
		c.report(diagnostic.NonArrayIndexBase, s.Target, types.IntArray, base,
			"cannot index '%s' of type %s", s.Target.Name, base)
	}
	c.checkIndex(s.Index, index)
	if !types.Assignable(elem, value, c.table) {
		c.report(diagnostic.TypeMismatch, s.Value, elem, value,
			"cannot assign %s to an element of '%s' of type %s", value, s.Target.Name, base)
	}
}

func (c *bodyChecker) checkIndex(index ast.Expression, t types.Type) {
	if !types.Assignable(types.Int, t, c.table) {
		c.report(diagnostic.NonIntegerArrayIndex, index, types.Int, t,
			"array index '%s' must be int, got %s", ast.Render(index), t)
	}
}

func (c *bodyChecker) checkReturn(s *ast.ReturnStmt, scope *Scope) {
	declared := c.returnType()
	if s.Value == nil {
		if !types.Assignable(declared, types.Void, c.table) {
			c.report(diagnostic.InvalidReturnType, s, declared, types.Void,
				"method '%s' must return %s, got a bare return", c.qualifiedName(), declared)
		}
		return
	}

	actual := c.checkExpr(s.Value, scope)
	if !types.Assignable(declared, actual, c.table) {
		c.report(diagnostic.InvalidReturnType, s.Value, declared, actual,
			"method '%s' must return %s, but 'return %s' has type %s",
			c.qualifiedName(), declared, ast.Render(s.Value), actual)
	}
}

// checkExpr reports problems inside expr and its operands, then returns its
// type. Operands typed Error were already reported where they failed.
func (c *bodyChecker) checkExpr(expr ast.Expression, scope *Scope) types.Type {
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		c.checkBinary(e, scope)
	case *ast.NotExpr:
		t := c.checkExpr(e.Operand, scope)
		c.checkOperand(e.Operand, t, types.Boolean, lexer.NOT)
	case *ast.IndexExpr:
		base := c.checkExpr(e.Object, scope)
		index := c.checkExpr(e.Index, scope)
		if !base.IsError() && !base.IsArray() {
			c.report(diagnostic.NonArrayIndexBase, e.Object, types.IntArray, base,
				"cannot index '%s' of type %s", ast.Render(e.Object), base)
		}
		c.checkIndex(e.Index, index)
	case *ast.LengthExpr:
		base := c.checkExpr(e.Object, scope)
		if !base.IsError() && !base.IsArray() {
			c.report(diagnostic.NonArrayLength, e.Object, types.IntArray, base,
				"length is only defined on arrays, '%s' has type %s", ast.Render(e.Object), base)
		}
	case *ast.MethodCallExpr:
		c.checkCall(e, scope)
	case *ast.Identifier:
		if !c.eval.resolvable(e.Name, scope) {
			c.report(diagnostic.UnresolvedReference, e, types.Error, types.Error,
				"undefined variable '%s' in '%s'", e.Name, c.qualifiedName())
		}
	case *ast.ThisExpr:
		if c.class.IsMain {
			c.report(diagnostic.UnresolvedReference, e, types.Error, types.Error,
				"'this' cannot be used in static method main")
		}
	case *ast.NewArrayExpr:
		size := c.checkExpr(e.Size, scope)
		if !types.Assignable(types.Int, size, c.table) {
			c.report(diagnostic.NonIntegerArraySize, e.Size, types.Int, size,
				"array size must be int, got %s", size)
		}
	case *ast.NewObjectExpr:
		if c.table.Class(e.Class) == nil {
			c.report(diagnostic.UnresolvedReference, e, types.Error, types.Error,
				"unknown class '%s'", e.Class)
		}
	}
	return c.eval.TypeOf(expr, scope)
}

func (c *bodyChecker) checkBinary(e *ast.BinaryExpr, scope *Scope) {
	left := c.checkExpr(e.Left, scope)
	right := c.checkExpr(e.Right, scope)

	switch e.Op {
	case lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.LT, lexer.GT:
		c.checkOperand(e.Left, left, types.Int, e.Op)
		c.checkOperand(e.Right, right, types.Int, e.Op)
	case lexer.AND, lexer.OR:
		c.checkOperand(e.Left, left, types.Boolean, e.Op)
		c.checkOperand(e.Right, right, types.Boolean, e.Op)
	case lexer.EQ:
		if !types.Comparable(left, right, c.table) {
			c.report(diagnostic.InvalidOperand, e, left, right,
				"cannot compare %s and %s with ==", left, right)
		}
	}
}

func (c *bodyChecker) checkOperand(operand ast.Expression, t, want types.Type, op lexer.TokenType) {
	if !types.Assignable(want, t, c.table) {
		c.report(diagnostic.InvalidOperand, operand, want, t,
			"operator %s expects %s operands, got %s", op.Symbol(), want, t)
	}
}

func (c *bodyChecker) checkCall(e *ast.MethodCallExpr, scope *Scope) {
	recv := c.checkExpr(e.Object, scope)
	args := make([]types.Type, len(e.Args))
	for i, arg := range e.Args {
		args[i] = c.checkExpr(arg, scope)
	}

	if recv.IsError() {
		return
	}
	if !recv.IsClass() {
		c.report(diagnostic.NonClassReceiver, e.Object, types.Error, recv,
			"cannot call method '%s' on a value of type %s", e.Method, recv)
		return
	}
	m := c.table.LookupMethod(recv.ClassName(), e.Method)
	if m == nil {
		c.report(diagnostic.UnresolvedReference, e, types.Error, types.Error,
			"class '%s' has no method '%s'", recv.ClassName(), e.Method)
		return
	}
	if len(args) != len(m.Params) {
		c.report(diagnostic.ArgumentCountMismatch, e, types.Error, types.Error,
			"method '%s.%s' takes %d arguments, got %d", m.Class, m.Name, len(m.Params), len(args))
		return
	}
	for i, p := range m.Params {
		if !types.Assignable(p.Type, args[i], c.table) {
			c.report(diagnostic.ArgumentTypeMismatch, e.Args[i], p.Type, args[i],
				"argument %d of '%s.%s' must be %s, got %s", i+1, m.Class, m.Name, p.Type, args[i])
		}
	}
}

// returns reports whether control never continues past stmt
func returns(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.Block:
		return returnsOnAllPaths(s.Statements)
	case *ast.IfStmt:
		return s.Else != nil && returns(s.Then) && returns(s.Else)
	default:
		// a while body may run zero times
		return false
	}
}

// returnsOnAllPaths reports whether some statement of the list always returns
func returnsOnAllPaths(stmts []ast.Statement) bool {
	for _, stmt := range stmts {
		if returns(stmt) {
			return true
		}
	}
	return false
}
