package types

// Hierarchy is a read-only view of the declared class inheritance chain
type Hierarchy interface {
	// Superclass returns the direct superclass of the named class, and false
	// when the class has none or is unknown.
	Superclass(name string) (string, bool)
}

// IsSubclass reports whether sub is super or inherits from it transitively.
// Cyclic hierarchies terminate once a class repeats.
func IsSubclass(h Hierarchy, sub, super string) bool {
	seen := make(map[string]bool)
	for name := sub; !seen[name]; {
		if name == super {
			return true
		}
		seen[name] = true
		if h == nil {
			return false
		}
		next, ok := h.Superclass(name)
		if !ok {
			return false
		}
		name = next
	}
	return false
}

// Assignable reports whether a value of type source may be used where target
// is expected. Error on either side is absorbed; classes follow the
// inheritance chain; nothing else converts.
func Assignable(target, source Type, h Hierarchy) bool {
	if target.IsError() || source.IsError() {
		return true
	}
	if target.Equal(source) {
		return true
	}
	if target.IsClass() && source.IsClass() {
		return IsSubclass(h, source.class, target.class)
	}
	return false
}

// Comparable reports whether == may compare values of the two types: either
// side must be assignable to the other.
func Comparable(a, b Type, h Hierarchy) bool {
	return Assignable(a, b, h) || Assignable(b, a, h)
}
