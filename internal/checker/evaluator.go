package checker

import (
	"github.com/Ozzcarr/minijava-compiler/internal/ast"
	"github.com/Ozzcarr/minijava-compiler/internal/lexer"
	"github.com/Ozzcarr/minijava-compiler/internal/symbols"
	"github.com/Ozzcarr/minijava-compiler/internal/types"
)

// Evaluator computes the static type of expressions inside one class. It
// never reports anything: an expression that cannot be typed evaluates to
// types.Error and the statement checker decides what to say about it.
//
// Results are cached per node, so an Evaluator must only be used from one
// goroutine.
type Evaluator struct {
	table *symbols.Table
	class *symbols.Class
	cache map[ast.Expression]types.Type
}

// NewEvaluator creates an evaluator for expressions appearing in class
func NewEvaluator(table *symbols.Table, class *symbols.Class) *Evaluator {
	return &Evaluator{
		table: table,
		class: class,
		cache: make(map[ast.Expression]types.Type),
	}
}

// Types returns every type computed so far, keyed by expression node
func (e *Evaluator) Types() map[ast.Expression]types.Type {
	return e.cache
}

// TypeOf returns the static type of expr evaluated in scope
func (e *Evaluator) TypeOf(expr ast.Expression, scope *Scope) types.Type {
	if expr == nil {
		return types.Error
	}
	if t, ok := e.cache[expr]; ok {
		return t
	}
	t := e.compute(expr, scope)
	e.cache[expr] = t
	return t
}

func (e *Evaluator) compute(expr ast.Expression, scope *Scope) types.Type {
	switch x := expr.(type) {
	case *ast.IntLit:
		return types.Int
	case *ast.BoolLit:
		return types.Boolean
	case *ast.Identifier:
		return e.lookup(x.Name, scope)
	case *ast.ThisExpr:
		if e.class == nil || e.class.IsMain {
			return types.Error
		}
		return types.ClassRef(e.class.Name)
	case *ast.BinaryExpr:
		switch x.Op {
		case lexer.PLUS, lexer.MINUS, lexer.STAR:
			return types.Int
		default:
			return types.Boolean
		}
	case *ast.NotExpr:
		return types.Boolean
	case *ast.IndexExpr:
		base := e.TypeOf(x.Object, scope)
		if !base.IsArray() {
			return types.Error
		}
		return base.Elem()
	case *ast.LengthExpr:
		return types.Int
	case *ast.MethodCallExpr:
		if m := e.method(x, scope); m != nil {
			return m.Return
		}
		return types.Error
	case *ast.NewArrayExpr:
		return types.IntArray
	case *ast.NewObjectExpr:
		if e.table.Class(x.Class) == nil {
			return types.Error
		}
		return types.ClassRef(x.Class)
	default:
		return types.Error
	}
}

// lookup resolves a name to a local or parameter first, then to a field of
// the enclosing class or one of its ancestors
func (e *Evaluator) lookup(name string, scope *Scope) types.Type {
	if sym := scope.Resolve(name); sym != nil {
		return sym.Type
	}
	if e.class != nil && !e.class.IsMain {
		if f := e.table.LookupField(e.class.Name, name); f != nil {
			return f.Type
		}
	}
	return types.Error
}

// method returns the method a call dispatches to, or nil when the receiver
// is not a known class or has no such method
func (e *Evaluator) method(call *ast.MethodCallExpr, scope *Scope) *symbols.Method {
	recv := e.TypeOf(call.Object, scope)
	if !recv.IsClass() {
		return nil
	}
	return e.table.LookupMethod(recv.ClassName(), call.Method)
}

// resolvable reports whether name refers to a variable or field at all,
// including ones whose declared type is unknown
func (e *Evaluator) resolvable(name string, scope *Scope) bool {
	if scope.Resolve(name) != nil {
		return true
	}
	return e.class != nil && !e.class.IsMain && e.table.LookupField(e.class.Name, name) != nil
}
