package checker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ozzcarr/minijava-compiler/internal/ast"
	"github.com/Ozzcarr/minijava-compiler/internal/diagnostic"
	"github.com/Ozzcarr/minijava-compiler/internal/lexer"
	"github.com/Ozzcarr/minijava-compiler/internal/parser"
	"github.com/Ozzcarr/minijava-compiler/internal/symbols"
	"github.com/Ozzcarr/minijava-compiler/internal/types"
)

const invalidReturn = `public class InvalidReturn {
    public static void main(String[] a) {
        System.out.println(new MyClass().xyFunc());
    }
}

class classtest {
    int a;
}

class MyClass {
    int x;
    boolean y;
    int[] z;
    MyClass xyz;

    public int xyFunc() {
        return y;
    }

    public int xzFunc() {
        return z;
    }

    public boolean yxFunc() {
        return x;
    }

    public boolean yzFunc() {
        return this.zxFunc();
    }

    public int[] zxFunc() {
        return x;
    }

    public int[] zyFunc() {
        return this.yxFunc();
    }

    public int swFunc() {
        return z[this.yzFunc()];
    }

}
`

const mainClass = `class Main {
    public static void main(String[] a) {
        System.out.println(0);
    }
}
`

func parseAndBuild(t *testing.T, source string) (*ast.Program, *symbols.Table) {
	t.Helper()
	p := parser.New(source)
	prog := p.Parse()
	require.False(t, p.Diagnostics().HasErrors(), "parser errors: %s", p.Diagnostics().Format("test"))

	table, diags := symbols.Build(prog)
	require.False(t, diags.HasErrors(), "symbol errors: %s", diags.Format("test"))
	return prog, table
}

func parseAndCheck(t *testing.T, source string) *diagnostic.Diagnostics {
	t.Helper()
	prog, table := parseAndBuild(t, source)
	return Check(prog, table).Diagnostics
}

// checkBody checks statements placed in a method of class T with parameters
// n int, b boolean, xs int[] and other T
func checkBody(t *testing.T, body string) *diagnostic.Diagnostics {
	t.Helper()
	src := mainClass + `
class T {
    int field;
    public int run(int n, boolean b, int[] xs, T other) {
` + body + `
        return 0;
    }
    public int f(int a, boolean c) { return a; }
}
class U extends T { }
`
	return parseAndCheck(t, src)
}

func TestInvalidReturnFixture(t *testing.T) {
	diags := parseAndCheck(t, invalidReturn)

	expected := []struct {
		line, col int
		kind      diagnostic.Kind
		method    string
		want, got types.Type
	}{
		{18, 16, diagnostic.InvalidReturnType, "xyFunc", types.Int, types.Boolean},
		{22, 16, diagnostic.InvalidReturnType, "xzFunc", types.Int, types.IntArray},
		{26, 16, diagnostic.InvalidReturnType, "yxFunc", types.Boolean, types.Int},
		{30, 21, diagnostic.InvalidReturnType, "yzFunc", types.Boolean, types.IntArray},
		{34, 16, diagnostic.InvalidReturnType, "zxFunc", types.IntArray, types.Int},
		{38, 21, diagnostic.InvalidReturnType, "zyFunc", types.IntArray, types.Boolean},
		{42, 23, diagnostic.NonIntegerArrayIndex, "swFunc", types.Int, types.Boolean},
	}

	all := diags.All()
	require.Len(t, all, len(expected), diags.Format("InvalidReturn.java"))
	for i, exp := range expected {
		d := all[i]
		assert.Equal(t, exp.kind, d.Kind, "diagnostic %d", i)
		assert.Equal(t, exp.line, d.Line, "diagnostic %d line", i)
		assert.Equal(t, exp.col, d.Column, "diagnostic %d column", i)
		assert.Equal(t, "MyClass", d.Class)
		assert.Equal(t, exp.method, d.Method)
		assert.True(t, exp.want.Equal(d.Expected), "%s: expected %s, got %s", exp.method, exp.want, d.Expected)
		assert.True(t, exp.got.Equal(d.Actual), "%s: actual %s, got %s", exp.method, exp.got, d.Actual)
	}
	assert.Contains(t, all[3].Message, "this.zxFunc()")
}

func TestRecursiveCalls(t *testing.T) {
	tests := []struct {
		name    string
		class   string
		methods []string
	}{
		{"self call", `class T {
    public int f() { return this.f(); }
}`, nil},
		{"self call through argument", `class T {
    public int f(int n) { return this.f(this.f(n)); }
}`, nil},
		{"mutual calls", `class T {
    public int f() { return this.g(); }
    public boolean g() { return this.f(); }
}`, []string{"g"}},
		{"mutual calls across classes", `class T {
    public int f(U u) { return u.g(this); }
}
class U {
    public int g(T t) { return t.f(this); }
}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := parseAndCheck(t, mainClass+tt.class)
			require.Len(t, diags.All(), len(tt.methods), diags.Format("x"))
			for i, d := range diags.All() {
				assert.Equal(t, diagnostic.InvalidReturnType, d.Kind)
				assert.Equal(t, tt.methods[i], d.Method)
			}
		})
	}

	diags := parseAndCheck(t, mainClass+`class T {
    public int f() { return this.g(); }
    public boolean g() { return this.f(); }
}`)
	d := diags.All()[0]
	assert.True(t, types.Boolean.Equal(d.Expected))
	assert.True(t, types.Int.Equal(d.Actual))
	assert.Equal(t, 8, d.Line)
	assert.Equal(t, 38, d.Column)
}

func TestFieldOnlyClassHasNoDiagnostics(t *testing.T) {
	diags := parseAndCheck(t, mainClass+"class classtest { int a; }")
	assert.Zero(t, diags.Count())
}

func TestWellTypedProgram(t *testing.T) {
	src := mainClass + `
class Shape {
    int sides;
    int[] lengths;
    public int perimeter() {
        int i;
        int total;
        i = 0;
        total = 0;
        while (i < lengths.length) {
            total = total + lengths[i];
            i = i + 1;
        }
        return total;
    }
    public Shape self() { return this; }
    public boolean same(Shape other) { return this == other; }
    public int sign(int v) {
        if (v < 0) return 0 - 1; else if (0 < v) return 1; else return 0;
    }
}
class Square extends Shape {
    public Shape make() { return new Square(); }
    public int area(int side) {
        lengths = new int[4];
        lengths[0] = side;
        System.out.println(this.same(this.self()) && !false);
        return side * this.perimeter();
    }
}
`
	diags := parseAndCheck(t, src)
	assert.Zero(t, diags.Count(), diags.Format("test"))
}

func TestStatementDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind diagnostic.Kind
	}{
		{"non-int index in assignment", "xs[b] = 1;", diagnostic.NonIntegerArrayIndex},
		{"index base not array in assignment", "n[0] = 1;", diagnostic.NonArrayIndexBase},
		{"index base not array in expression", "n = xs[0] + n[1];", diagnostic.NonArrayIndexBase},
		{"assign boolean to int", "n = b;", diagnostic.TypeMismatch},
		{"assign boolean to element", "xs[0] = b;", diagnostic.TypeMismatch},
		{"assign superclass to subclass", "other = new U(); other = other; n = 0; { U u; u = other; }", diagnostic.TypeMismatch},
		{"int if condition", "if (n) { } else { }", diagnostic.InvalidCondition},
		{"array while condition", "while (xs) { }", diagnostic.InvalidCondition},
		{"print array", "System.out.println(xs);", diagnostic.InvalidPrintArgument},
		{"print object", "System.out.println(other);", diagnostic.InvalidPrintArgument},
		{"add boolean", "n = n + b;", diagnostic.InvalidOperand},
		{"not int", "b = !n;", diagnostic.InvalidOperand},
		{"and int", "b = n && b;", diagnostic.InvalidOperand},
		{"less than array", "b = n < xs;", diagnostic.InvalidOperand},
		{"compare int and boolean", "b = n == b;", diagnostic.InvalidOperand},
		{"length of boolean", "n = b.length;", diagnostic.NonArrayLength},
		{"boolean array size", "xs = new int[b];", diagnostic.NonIntegerArraySize},
		{"call on int", "n = n.f(1, b);", diagnostic.NonClassReceiver},
		{"too few arguments", "n = other.f(1);", diagnostic.ArgumentCountMismatch},
		{"wrong argument type", "n = other.f(b, b);", diagnostic.ArgumentTypeMismatch},
		{"unknown method", "n = other.g();", diagnostic.UnresolvedReference},
		{"unknown variable", "n = missing;", diagnostic.UnresolvedReference},
		{"unknown class", "other = new Missing();", diagnostic.UnresolvedReference},
		{"local shadows parameter", "int n;", diagnostic.DuplicateDeclaration},
		{"local shadows local", "int k; { boolean k; }", diagnostic.DuplicateDeclaration},
		{"return boolean from int", "if (b) return b; else { }", diagnostic.InvalidReturnType},
		{"bare return from int", "if (b) return; else { }", diagnostic.InvalidReturnType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := checkBody(t, tt.body)
			require.Equal(t, 1, diags.ErrorCount(), diags.Format("test"))
			assert.Len(t, diags.ByKind(tt.kind), 1, diags.Format("test"))
		})
	}
}

func TestValidStatements(t *testing.T) {
	bodies := []string{
		"field = n;",
		"n = this.f(field, b) * 2;",
		"other = new U();",
		"b = other == new U();",
		"b = new U() == other;",
		"xs[n] = xs.length;",
		"{ int k; k = 1; } { boolean k; k = true; }",
		"System.out.println(b || n < 1);",
	}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			diags := checkBody(t, body)
			assert.Zero(t, diags.Count(), diags.Format("test"))
		})
	}
}

func TestErrorTypeDoesNotCascade(t *testing.T) {
	src := mainClass + `
class T {
    public int f() {
        return missing.call(1).more()[undefined + 1];
    }
}
`
	diags := parseAndCheck(t, src)
	require.Len(t, diags.All(), 2, diags.Format("test"))
	assert.Len(t, diags.ByKind(diagnostic.UnresolvedReference), 2)
	assert.Empty(t, diags.ByKind(diagnostic.InvalidReturnType))
}

func TestMissingReturn(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		missing bool
	}{
		{"empty body", "", true},
		{"return only in while", "while (true) { return 1; }", true},
		{"if without else", "if (true) return 1;", true},
		{"if and else", "if (true) return 1; else return 2;", false},
		{"nested block", "{ { return 1; } }", false},
		{"if else in block", "{ if (true) { return 1; } else { return 2; } }", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := mainClass + "class T { public int f() { " + tt.body + " } public void g() { } }"
			diags := parseAndCheck(t, src)
			found := diags.ByKind(diagnostic.MissingReturnOnAllPaths)
			if !tt.missing {
				assert.Empty(t, found)
				return
			}
			require.Len(t, found, 1)
			assert.Equal(t, "f", found[0].Method)
			assert.NotEmpty(t, found[0].Hint)
		})
	}
}

func TestVoidMethodReturns(t *testing.T) {
	src := mainClass + `
class T {
    public void ok() { return; }
    public void bad() { return 1; }
}
`
	diags := parseAndCheck(t, src)
	found := diags.ByKind(diagnostic.InvalidReturnType)
	require.Len(t, found, 1, diags.Format("test"))
	assert.Equal(t, "bad", found[0].Method)
	assert.True(t, found[0].Expected.Equal(types.Void))
}

func TestThisInMain(t *testing.T) {
	src := `class Main {
    public static void main(String[] a) {
        System.out.println(this.f());
    }
}
`
	diags := parseAndCheck(t, src)
	require.Len(t, diags.All(), 1, diags.Format("test"))
	d := diags.All()[0]
	assert.Equal(t, diagnostic.UnresolvedReference, d.Kind)
	assert.Equal(t, "main", d.Method)
}

func TestUnreachableCodeWarning(t *testing.T) {
	src := mainClass + "class T { public int f() { return 1; System.out.println(2); return 3; } }"
	diags := parseAndCheck(t, src)
	assert.False(t, diags.HasErrors())
	warnings := diags.ByKind(diagnostic.UnreachableCode)
	require.Len(t, warnings, 1)
	assert.Equal(t, diagnostic.Warning, warnings[0].Severity)
}

func TestChecksAreIndependentOfWorkerCount(t *testing.T) {
	prog, table := parseAndBuild(t, invalidReturn)

	sequential := Check(prog, table)
	for _, workers := range []int{0, 2, 8} {
		res, err := CheckContext(context.Background(), prog, table, Options{Workers: workers})
		require.NoError(t, err)
		assert.Equal(t, sequential.Diagnostics.Format("x"), res.Diagnostics.Format("x"), "workers=%d", workers)
	}
}

func TestCheckRecoversPanickingClass(t *testing.T) {
	prog, table := parseAndBuild(t, mainClass+`
class A {
    int x;
    public int f() {
        x = 1;
        return x;
    }
}
class B {
    public boolean g() { return 1; }
}
`)
	assign, ok := prog.Classes[0].Methods[0].Body[0].(*ast.AssignStmt)
	require.True(t, ok)
	assign.Target = nil

	for _, workers := range []int{1, 2} {
		var res *Result
		var err error
		require.NotPanics(t, func() {
			res, err = CheckContext(context.Background(), prog, table, Options{Workers: workers})
		})
		require.NoError(t, err)

		internal := res.Diagnostics.ByKind(diagnostic.InternalError)
		require.Len(t, internal, 1, res.Diagnostics.Format("x"))
		assert.Equal(t, "A", internal[0].Class)
		assert.Contains(t, internal[0].Message, "checking class 'A' failed")
		assert.NotEmpty(t, internal[0].Hint)

		other := res.Diagnostics.ByKind(diagnostic.InvalidReturnType)
		require.Len(t, other, 1, "workers=%d", workers)
		assert.Equal(t, "B", other[0].Class)
	}
}

func TestCheckContextCancelled(t *testing.T) {
	prog, table := parseAndBuild(t, invalidReturn)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := CheckContext(ctx, prog, table, Options{Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestExprTypesAreRecorded(t *testing.T) {
	prog, table := parseAndBuild(t, invalidReturn)
	res := Check(prog, table)

	var sw *ast.MethodDecl
	for _, m := range prog.Classes[1].Methods {
		if m.Name == "swFunc" {
			sw = m
		}
	}
	require.NotNil(t, sw)
	ret := sw.Body[0].(*ast.ReturnStmt)
	idx := ret.Value.(*ast.IndexExpr)

	assert.True(t, res.ExprTypes[idx].Equal(types.Int))
	assert.True(t, res.ExprTypes[idx.Object].Equal(types.IntArray))
	assert.True(t, res.ExprTypes[idx.Index].Equal(types.Boolean))
}

func TestEvaluator(t *testing.T) {
	_, table := parseAndBuild(t, mainClass+`
class A { int x; public int[] arr() { return new int[1]; } }
class B extends A { boolean y; }
`)
	ev := NewEvaluator(table, table.Class("B"))
	scope := NewScope(nil)
	require.NoError(t, scope.Define(&Symbol{Name: "xs", Type: types.IntArray, Kind: symbols.VarLocal}))
	require.NoError(t, scope.Define(&Symbol{Name: "x", Type: types.Boolean, Kind: symbols.VarLocal}))

	this := &ast.ThisExpr{}
	tests := []struct {
		name string
		expr ast.Expression
		want types.Type
	}{
		{"int literal", &ast.IntLit{Value: "1"}, types.Int},
		{"bool literal", &ast.BoolLit{Value: true}, types.Boolean},
		{"local shadows field", &ast.Identifier{Name: "x"}, types.Boolean},
		{"own field", &ast.Identifier{Name: "y"}, types.Boolean},
		{"unknown name", &ast.Identifier{Name: "nope"}, types.Error},
		{"this", this, types.ClassRef("B")},
		{"arithmetic", &ast.BinaryExpr{Op: lexer.STAR, Left: &ast.BoolLit{}, Right: &ast.BoolLit{}}, types.Int},
		{"comparison", &ast.BinaryExpr{Op: lexer.LT, Left: &ast.IntLit{Value: "1"}, Right: &ast.IntLit{Value: "2"}}, types.Boolean},
		{"not", &ast.NotExpr{Operand: &ast.IntLit{Value: "1"}}, types.Boolean},
		{"index of array", &ast.IndexExpr{Object: &ast.Identifier{Name: "xs"}, Index: &ast.BoolLit{}}, types.Int},
		{"index of non-array", &ast.IndexExpr{Object: &ast.IntLit{Value: "1"}, Index: &ast.IntLit{Value: "0"}}, types.Error},
		{"length", &ast.LengthExpr{Object: &ast.BoolLit{}}, types.Int},
		{"inherited method", &ast.MethodCallExpr{Object: &ast.ThisExpr{}, Method: "arr"}, types.IntArray},
		{"unknown method", &ast.MethodCallExpr{Object: &ast.ThisExpr{}, Method: "nope"}, types.Error},
		{"call on int", &ast.MethodCallExpr{Object: &ast.IntLit{Value: "1"}, Method: "arr"}, types.Error},
		{"new array", &ast.NewArrayExpr{Size: &ast.BoolLit{}}, types.IntArray},
		{"new known class", &ast.NewObjectExpr{Class: "A"}, types.ClassRef("A")},
		{"new unknown class", &ast.NewObjectExpr{Class: "Nope"}, types.Error},
		{"nil", nil, types.Error},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ev.TypeOf(tt.expr, scope)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}

	// inherited field through the class chain
	assert.True(t, NewEvaluator(table, table.Class("B")).TypeOf(&ast.Identifier{Name: "x"}, nil).Equal(types.Int))

	// results are memoized per node
	before := len(ev.Types())
	ev.TypeOf(this, scope)
	assert.Equal(t, before, len(ev.Types()))
}

func TestEvaluatorInMain(t *testing.T) {
	_, table := parseAndBuild(t, mainClass)
	ev := NewEvaluator(table, table.Main())
	assert.True(t, ev.TypeOf(&ast.ThisExpr{}, nil).IsError())
}

func TestScope(t *testing.T) {
	params := NewScope(nil)
	require.NoError(t, params.Define(&Symbol{Name: "a", Type: types.Int, Kind: symbols.VarParam, Line: 3}))

	block := NewScope(params)
	err := block.Define(&Symbol{Name: "a", Type: types.Boolean, Kind: symbols.VarLocal})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parameter 'a' already declared on line 3")

	require.NoError(t, block.Define(&Symbol{Name: "b", Type: types.Boolean, Kind: symbols.VarLocal}))
	assert.NotNil(t, block.Resolve("a"))
	assert.NotNil(t, block.Resolve("b"))
	assert.Nil(t, params.Resolve("b"))
}
