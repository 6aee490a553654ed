package symbols

import (
	"fmt"

	"github.com/Ozzcarr/minijava-compiler/internal/ast"
	"github.com/Ozzcarr/minijava-compiler/internal/diagnostic"
	"github.com/Ozzcarr/minijava-compiler/internal/types"
)

type builder struct {
	prog  *ast.Program
	table *Table
	diag  *diagnostic.Diagnostics
	decls map[*ast.ClassDecl]*Class // duplicates are left out
}

// Build collects the symbols of prog. Declaration problems are reported in
// the returned diagnostics; the table is always usable, with unresolvable
// types recorded as types.Error.
func Build(prog *ast.Program) (*Table, *diagnostic.Diagnostics) {
	b := &builder{
		prog:  prog,
		table: newTable(),
		diag:  diagnostic.New(),
		decls: make(map[*ast.ClassDecl]*Class),
	}

	b.registerClasses()
	b.checkInheritance()
	b.registerMembers()
	b.checkOverrides()

	return b.table, b.diag
}

func (b *builder) registerClasses() {
	if m := b.prog.Main; m != nil {
		c := newClass(m.Name, m.Line, m.Column)
		c.IsMain = true
		b.table.main = c
		b.table.index[c.Name] = c
	}

	for _, decl := range b.prog.Classes {
		if prev, exists := b.table.index[decl.Name]; exists {
			b.diag.Report(diagnostic.Diagnostic{
				Kind:    diagnostic.DuplicateDeclaration,
				Message: "class '" + decl.Name + "' already defined",
				Line:    decl.Line,
				Column:  decl.Column,
				Class:   decl.Name,
				Hint:    hintPrevious(prev.Line),
			})
			continue
		}
		c := newClass(decl.Name, decl.Line, decl.Column)
		c.Extends = decl.Extends
		b.table.classes = append(b.table.classes, c)
		b.table.index[c.Name] = c
		b.decls[decl] = c
	}
}

func (b *builder) checkInheritance() {
	for _, decl := range b.prog.Classes {
		c := b.decls[decl]
		if c == nil || c.Extends == "" {
			continue
		}
		if _, ok := b.table.index[c.Extends]; !ok {
			b.diag.Errorf(diagnostic.UnresolvedReference, decl.Line, decl.Column,
				"class '%s' extends unknown class '%s'", c.Name, c.Extends)
			continue
		}
		if b.inCycle(c.Name) {
			b.diag.Errorf(diagnostic.CyclicInheritance, decl.Line, decl.Column,
				"class '%s' inherits from itself", c.Name)
		}
	}
}

// inCycle reports whether following superclasses from name leads back to it
func (b *builder) inCycle(name string) bool {
	seen := map[string]bool{name: true}
	cur := name
	for {
		next, ok := b.table.Superclass(cur)
		if !ok {
			return false
		}
		if next == name {
			return true
		}
		if seen[next] {
			return false // a cycle further up that this class only feeds into
		}
		seen[next] = true
		cur = next
	}
}

func (b *builder) registerMembers() {
	for _, decl := range b.prog.Classes {
		c := b.decls[decl]
		if c == nil {
			continue
		}

		for _, field := range decl.Fields {
			if prev := c.fields[field.Name]; prev != nil {
				b.duplicate(c.Name, "", "field", field.Name, field.Line, field.Column, prev.Line)
				continue
			}
			v := b.variable(c.Name, field.Name, field.Type, VarField, field.Line, field.Column)
			c.Fields = append(c.Fields, v)
			c.fields[v.Name] = v
		}

		for _, md := range decl.Methods {
			if prev := c.methods[md.Name]; prev != nil {
				b.duplicate(c.Name, md.Name, "method", md.Name, md.Line, md.Column, prev.Line)
				continue
			}
			m := b.method(c.Name, md)
			c.Methods = append(c.Methods, m)
			c.methods[m.Name] = m
		}
	}
}

func (b *builder) method(class string, md *ast.MethodDecl) *Method {
	m := &Method{
		Name:   md.Name,
		Class:  class,
		Return: b.resolve(class, md.Name, md.ReturnType, true),
		Decl:   md,
		Line:   md.Line,
		Column: md.Column,
	}

	seen := make(map[string]*Var)
	for _, p := range md.Params {
		if prev := seen[p.Name]; prev != nil {
			b.duplicate(class, md.Name, "parameter", p.Name, p.Line, p.Column, prev.Line)
			continue
		}
		v := b.variable(class, p.Name, p.Type, VarParam, p.Line, p.Column)
		m.Params = append(m.Params, v)
		seen[v.Name] = v
	}

	collectLocals(md.Body, func(d *ast.VarDecl) {
		m.Locals = append(m.Locals, b.variable(class, d.Name, d.Type, VarLocal, d.Line, d.Column))
	})
	return m
}

// collectLocals visits every local declaration in a body, nested blocks
// included, in source order
func collectLocals(stmts []ast.Statement, visit func(*ast.VarDecl)) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.VarDeclStmt:
			visit(s.Decl)
		case *ast.Block:
			collectLocals(s.Statements, visit)
		case *ast.IfStmt:
			collectLocals([]ast.Statement{s.Then}, visit)
			if s.Else != nil {
				collectLocals([]ast.Statement{s.Else}, visit)
			}
		case *ast.WhileStmt:
			collectLocals([]ast.Statement{s.Body}, visit)
		}
	}
}

func (b *builder) variable(class, name string, ref *ast.TypeRef, kind VarKind, line, col int) *Var {
	return &Var{
		Name:   name,
		Type:   b.resolve(class, "", ref, false),
		Kind:   kind,
		Line:   line,
		Column: col,
	}
}

// resolve converts ref, reporting class names that do not exist and void
// outside a return type
func (b *builder) resolve(class, method string, ref *ast.TypeRef, allowVoid bool) types.Type {
	t := b.table.Resolve(ref)
	if ref == nil {
		return t
	}
	switch {
	case ref.Kind == ast.TypeClass && t.IsError() && ref.Name != "":
		b.diag.Report(diagnostic.Diagnostic{
			Kind:    diagnostic.UnknownType,
			Message: "unknown type '" + ref.Name + "'",
			Line:    ref.Line,
			Column:  ref.Column,
			Class:   class,
			Method:  method,
		})
	case ref.Kind == ast.TypeVoid && !allowVoid:
		b.diag.Errorf(diagnostic.UnknownType, ref.Line, ref.Column,
			"void is only allowed as a method return type")
		return types.Error
	}
	return t
}

func (b *builder) duplicate(class, method, what, name string, line, col, prevLine int) {
	b.diag.Report(diagnostic.Diagnostic{
		Kind:    diagnostic.DuplicateDeclaration,
		Message: what + " '" + name + "' already defined in class '" + class + "'",
		Line:    line,
		Column:  col,
		Class:   class,
		Method:  method,
		Hint:    hintPrevious(prevLine),
	})
}

// checkOverrides reports methods that redefine an inherited method with a
// different signature
func (b *builder) checkOverrides() {
	for _, c := range b.table.classes {
		super, ok := b.table.Superclass(c.Name)
		if !ok || b.inCycle(c.Name) {
			continue
		}
		for _, m := range c.Methods {
			inherited := b.table.LookupMethod(super, m.Name)
			if inherited == nil || m.sameSignature(inherited) {
				continue
			}
			b.diag.Report(diagnostic.Diagnostic{
				Kind: diagnostic.InvalidOverride,
				Message: "method '" + c.Name + "." + m.Name + "' overrides '" +
					inherited.Class + "." + inherited.Name + "' with a different signature",
				Line:   m.Line,
				Column: m.Column,
				Class:  c.Name,
				Method: m.Name,
				Hint:   "inherited signature is " + inherited.Signature(),
			})
		}
	}
}

func hintPrevious(line int) string {
	if line <= 0 {
		return ""
	}
	return fmt.Sprintf("previous declaration on line %d", line)
}
