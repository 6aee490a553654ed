package checker

import (
	"fmt"

	"github.com/Ozzcarr/minijava-compiler/internal/symbols"
	"github.com/Ozzcarr/minijava-compiler/internal/types"
)

// Symbol is a parameter or local variable visible inside a method body
type Symbol struct {
	Name   string
	Type   types.Type
	Kind   symbols.VarKind
	Line   int
	Column int
}

// Scope represents a lexical scope with a symbol table. The outermost scope
// of a method holds its parameters; fields are not part of the chain.
type Scope struct {
	parent  *Scope
	symbols map[string]*Symbol
}

// NewScope creates a new scope with an optional parent
func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent:  parent,
		symbols: make(map[string]*Symbol),
	}
}

// Define adds a symbol to the current scope. It fails when the name is
// already visible anywhere in the chain, since MiniJava locals may not shadow
// other locals or parameters.
func (s *Scope) Define(sym *Symbol) error {
	if prev := s.Resolve(sym.Name); prev != nil {
		return fmt.Errorf("%s '%s' already declared on line %d", prev.Kind, sym.Name, prev.Line)
	}
	s.symbols[sym.Name] = sym
	return nil
}

// Resolve looks up a symbol in the current scope and parent scopes
// Returns nil if the symbol is not found
func (s *Scope) Resolve(name string) *Symbol {
	if s == nil {
		return nil
	}
	if sym, ok := s.symbols[name]; ok {
		return sym
	}
	return s.parent.Resolve(name)
}
