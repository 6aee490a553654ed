// Package symbols collects the classes, fields, methods and variables of a
// MiniJava program into a read-only table.
package symbols

import (
	"fmt"
	"io"
	"strings"

	"github.com/Ozzcarr/minijava-compiler/internal/ast"
	"github.com/Ozzcarr/minijava-compiler/internal/types"
)

// VarKind represents where a variable was declared
type VarKind int

const (
	VarField VarKind = iota
	VarParam
	VarLocal
)

// String returns the string representation of the variable kind
func (k VarKind) String() string {
	switch k {
	case VarField:
		return "field"
	case VarParam:
		return "parameter"
	case VarLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Var is a field, parameter or local variable
type Var struct {
	Name   string
	Type   types.Type
	Kind   VarKind
	Line   int
	Column int
}

// Method holds a method's signature and the variables declared in it
type Method struct {
	Name   string
	Class  string
	Return types.Type
	Params []*Var
	Locals []*Var
	Decl   *ast.MethodDecl
	Line   int
	Column int
}

// Signature returns the method as `ret name(p1, p2)`
func (m *Method) Signature() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Type.String()
	}
	return fmt.Sprintf("%s %s(%s)", m.Return, m.Name, strings.Join(params, ", "))
}

// sameSignature reports whether an overriding method keeps the parameter and
// return types of the method it replaces
func (m *Method) sameSignature(other *Method) bool {
	if len(m.Params) != len(other.Params) || !m.Return.Equal(other.Return) {
		return false
	}
	for i := range m.Params {
		if !m.Params[i].Type.Equal(other.Params[i].Type) {
			return false
		}
	}
	return true
}

// Class holds a class's own members in declaration order
type Class struct {
	Name    string
	Extends string
	Fields  []*Var
	Methods []*Method
	IsMain  bool
	Line    int
	Column  int

	fields  map[string]*Var
	methods map[string]*Method
}

func newClass(name string, line, col int) *Class {
	return &Class{
		Name:    name,
		Line:    line,
		Column:  col,
		fields:  make(map[string]*Var),
		methods: make(map[string]*Method),
	}
}

// Field returns a field declared directly in the class, or nil
func (c *Class) Field(name string) *Var {
	return c.fields[name]
}

// Method returns a method declared directly in the class, or nil
func (c *Class) Method(name string) *Method {
	return c.methods[name]
}

// Table is the program-wide symbol table. It is not modified after Build
// returns and may be shared between goroutines.
type Table struct {
	main    *Class
	classes []*Class
	index   map[string]*Class
}

func newTable() *Table {
	return &Table{index: make(map[string]*Class)}
}

// Main returns the class holding the main method
func (t *Table) Main() *Class {
	return t.main
}

// Classes returns every class except the main class, in source order
func (t *Table) Classes() []*Class {
	return t.classes
}

// Class returns the named class, or nil
func (t *Table) Class(name string) *Class {
	return t.index[name]
}

// Superclass implements types.Hierarchy. Unknown superclasses are treated as
// absent.
func (t *Table) Superclass(name string) (string, bool) {
	c := t.index[name]
	if c == nil || c.Extends == "" {
		return "", false
	}
	if _, ok := t.index[c.Extends]; !ok {
		return "", false
	}
	return c.Extends, true
}

// chain returns the class followed by its ancestors, stopping before any
// class repeats
func (t *Table) chain(name string) []*Class {
	var out []*Class
	seen := make(map[string]bool)
	for c := t.index[name]; c != nil && !seen[c.Name]; {
		seen[c.Name] = true
		out = append(out, c)
		super, ok := t.Superclass(c.Name)
		if !ok {
			break
		}
		c = t.index[super]
	}
	return out
}

// LookupField finds a field in the class or its ancestors
func (t *Table) LookupField(class, name string) *Var {
	for _, c := range t.chain(class) {
		if f := c.fields[name]; f != nil {
			return f
		}
	}
	return nil
}

// LookupMethod finds a method in the class or its ancestors
func (t *Table) LookupMethod(class, name string) *Method {
	for _, c := range t.chain(class) {
		if m := c.methods[name]; m != nil {
			return m
		}
	}
	return nil
}

// Resolve converts a source type into a types.Type. Class names that are not
// in the table resolve to types.Error.
func (t *Table) Resolve(ref *ast.TypeRef) types.Type {
	if ref == nil {
		return types.Error
	}
	switch ref.Kind {
	case ast.TypeInt:
		return types.Int
	case ast.TypeBoolean:
		return types.Boolean
	case ast.TypeIntArray:
		return types.IntArray
	case ast.TypeVoid:
		return types.Void
	default:
		if _, ok := t.index[ref.Name]; ok {
			return types.ClassRef(ref.Name)
		}
		return types.Error
	}
}

// Dump writes a listing of every class and its members
func (t *Table) Dump(w io.Writer) error {
	var sb strings.Builder
	all := t.classes
	if t.main != nil {
		all = append([]*Class{t.main}, t.classes...)
	}
	for _, c := range all {
		sb.WriteString("Class: " + c.Name)
		if c.Extends != "" {
			sb.WriteString(" extends " + c.Extends)
		}
		sb.WriteString("\n")
		for _, f := range c.Fields {
			fmt.Fprintf(&sb, "  Variable: %s of type %s\n", f.Name, f.Type)
		}
		for _, m := range c.Methods {
			fmt.Fprintf(&sb, "  Method: %s returns %s\n", m.Name, m.Return)
			for _, p := range m.Params {
				fmt.Fprintf(&sb, "    Param: %s of type %s\n", p.Name, p.Type)
			}
			for _, l := range m.Locals {
				fmt.Fprintf(&sb, "    Local: %s of type %s (line %d)\n", l.Name, l.Type, l.Line)
			}
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
