package ast

import "github.com/Ozzcarr/minijava-compiler/internal/lexer"

// Node is the base interface for all AST nodes
type Node interface {
	Pos() (line, col int)
}

// Statement nodes. The marker method keeps the set of statement kinds closed
// to this package.
type Statement interface {
	Node
	stmtNode()
}

// Expression nodes
type Expression interface {
	Node
	exprNode()
}

// Program represents a MiniJava compilation unit: the main class followed by
// the remaining class declarations in source order.
type Program struct {
	Main    *MainClass
	Classes []*ClassDecl
}

func (p *Program) Pos() (int, int) {
	if p.Main != nil {
		return p.Main.Pos()
	}
	return 0, 0
}

// MainClass represents the class holding `public static void main(String[] a)`
type MainClass struct {
	Name     string
	ArgsName string
	Body     []Statement
	Line     int
	Column   int
}

func (m *MainClass) Pos() (int, int) { return m.Line, m.Column }

// ClassDecl represents a class declaration
type ClassDecl struct {
	Name    string
	Extends string // empty when the class has no superclass
	Fields  []*VarDecl
	Methods []*MethodDecl
	Line    int
	Column  int
}

func (c *ClassDecl) Pos() (int, int) { return c.Line, c.Column }

// VarDecl represents a field or local variable declaration
type VarDecl struct {
	Type   *TypeRef
	Name   string
	Line   int
	Column int
}

func (v *VarDecl) Pos() (int, int) { return v.Line, v.Column }

// MethodDecl represents a method declaration
type MethodDecl struct {
	Name       string
	ReturnType *TypeRef
	Params     []*Param
	Body       []Statement
	Line       int
	Column     int
}

func (m *MethodDecl) Pos() (int, int) { return m.Line, m.Column }

// Param represents a method parameter
type Param struct {
	Type   *TypeRef
	Name   string
	Line   int
	Column int
}

func (p *Param) Pos() (int, int) { return p.Line, p.Column }

// TypeKind distinguishes the syntactic forms of a type reference
type TypeKind int

const (
	TypeInt TypeKind = iota
	TypeBoolean
	TypeIntArray
	TypeVoid
	TypeClass
)

// TypeRef represents a type as written in the source
type TypeRef struct {
	Kind   TypeKind
	Name   string // class name when Kind == TypeClass
	Line   int
	Column int
}

func (t *TypeRef) Pos() (int, int) { return t.Line, t.Column }

// String returns the source spelling of the type
func (t *TypeRef) String() string {
	switch t.Kind {
	case TypeInt:
		return "int"
	case TypeBoolean:
		return "boolean"
	case TypeIntArray:
		return "int[]"
	case TypeVoid:
		return "void"
	default:
		return t.Name
	}
}

// Block represents { statement* }
type Block struct {
	Statements []Statement
	Line       int
	Column     int
}

func (b *Block) Pos() (int, int) { return b.Line, b.Column }
func (b *Block) stmtNode()       {}

// VarDeclStmt is a local variable declaration inside a method body
type VarDeclStmt struct {
	Decl *VarDecl
}

func (v *VarDeclStmt) Pos() (int, int) { return v.Decl.Pos() }
func (v *VarDeclStmt) stmtNode()       {}

// IfStmt represents if (cond) stmt [else stmt]
type IfStmt struct {
	Condition Expression
	Then      Statement
	Else      Statement // nil when there is no else branch
	Line      int
	Column    int
}

func (i *IfStmt) Pos() (int, int) { return i.Line, i.Column }
func (i *IfStmt) stmtNode()       {}

// WhileStmt represents while (cond) stmt
type WhileStmt struct {
	Condition Expression
	Body      Statement
	Line      int
	Column    int
}

func (w *WhileStmt) Pos() (int, int) { return w.Line, w.Column }
func (w *WhileStmt) stmtNode()       {}

// PrintStmt represents System.out.println(expr);
type PrintStmt struct {
	Value  Expression
	Line   int
	Column int
}

func (p *PrintStmt) Pos() (int, int) { return p.Line, p.Column }
func (p *PrintStmt) stmtNode()       {}

// AssignStmt represents name = value;
type AssignStmt struct {
	Target *Identifier
	Value  Expression
	Line   int
	Column int
}

func (a *AssignStmt) Pos() (int, int) { return a.Line, a.Column }
func (a *AssignStmt) stmtNode()       {}

// ArrayAssignStmt represents name[index] = value;
type ArrayAssignStmt struct {
	Target *Identifier
	Index  Expression
	Value  Expression
	Line   int
	Column int
}

func (a *ArrayAssignStmt) Pos() (int, int) { return a.Line, a.Column }
func (a *ArrayAssignStmt) stmtNode()       {}

// ReturnStmt represents return [value];
type ReturnStmt struct {
	Value  Expression // nil for a bare return
	Line   int
	Column int
}

func (r *ReturnStmt) Pos() (int, int) { return r.Line, r.Column }
func (r *ReturnStmt) stmtNode()       {}

// BinaryExpr represents left op right
type BinaryExpr struct {
	Left   Expression
	Op     lexer.TokenType
	Right  Expression
	Line   int
	Column int
}

func (b *BinaryExpr) Pos() (int, int) { return b.Line, b.Column }
func (b *BinaryExpr) exprNode()       {}

// NotExpr represents !operand
type NotExpr struct {
	Operand Expression
	Line    int
	Column  int
}

func (n *NotExpr) Pos() (int, int) { return n.Line, n.Column }
func (n *NotExpr) exprNode()       {}

// IndexExpr represents object[index]
type IndexExpr struct {
	Object Expression
	Index  Expression
	Line   int
	Column int
}

func (i *IndexExpr) Pos() (int, int) { return i.Line, i.Column }
func (i *IndexExpr) exprNode()       {}

// LengthExpr represents object.length
type LengthExpr struct {
	Object Expression
	Line   int
	Column int
}

func (l *LengthExpr) Pos() (int, int) { return l.Line, l.Column }
func (l *LengthExpr) exprNode()       {}

// MethodCallExpr represents object.method(args)
type MethodCallExpr struct {
	Object Expression
	Method string
	Args   []Expression
	Line   int
	Column int
}

func (m *MethodCallExpr) Pos() (int, int) { return m.Line, m.Column }
func (m *MethodCallExpr) exprNode()       {}

// IntLit represents an integer literal
type IntLit struct {
	Value  string
	Line   int
	Column int
}

func (i *IntLit) Pos() (int, int) { return i.Line, i.Column }
func (i *IntLit) exprNode()       {}

// BoolLit represents true or false
type BoolLit struct {
	Value  bool
	Line   int
	Column int
}

func (b *BoolLit) Pos() (int, int) { return b.Line, b.Column }
func (b *BoolLit) exprNode()       {}

// Identifier represents a reference to a local, parameter or field
type Identifier struct {
	Name   string
	Line   int
	Column int
}

func (i *Identifier) Pos() (int, int) { return i.Line, i.Column }
func (i *Identifier) exprNode()       {}

// ThisExpr represents the this keyword
type ThisExpr struct {
	Line   int
	Column int
}

func (t *ThisExpr) Pos() (int, int) { return t.Line, t.Column }
func (t *ThisExpr) exprNode()       {}

// NewArrayExpr represents new int[size]
type NewArrayExpr struct {
	Size   Expression
	Line   int
	Column int
}

func (n *NewArrayExpr) Pos() (int, int) { return n.Line, n.Column }
func (n *NewArrayExpr) exprNode()       {}

// NewObjectExpr represents new ClassName()
type NewObjectExpr struct {
	Class  string
	Line   int
	Column int
}

func (n *NewObjectExpr) Pos() (int, int) { return n.Line, n.Column }
func (n *NewObjectExpr) exprNode()       {}
