package types

import "fmt"

// Scope is the checker's compile-time analog of the interpreter's
// runtime scope: a name→Type map with a parent link, and the same
// shadowing rule — declaring a name already present in *this* scope is
// an error (spec §4.10 "same shadowing rules as runtime scopes").
type Scope struct {
	vars   map[string]*Type
	parent *Scope
}

// NewScope creates a root type scope.
func NewScope() *Scope {
	return &Scope{vars: map[string]*Type{}}
}

// NewChild creates a type scope enclosed by s.
func (s *Scope) NewChild() *Scope {
	return &Scope{vars: map[string]*Type{}, parent: s}
}

// Declare binds name to typ in this scope. Returns an error if name is
// already declared here (double-declare forbidden, spec §4.4/§4.10).
func (s *Scope) Declare(name string, typ *Type) error {
	if _, ok := s.vars[name]; ok {
		return fmt.Errorf("%s is already declared in this scope", name)
	}
	s.vars[name] = typ
	return nil
}

// DeclareForce binds name to typ, overwriting any existing binding in
// this scope. Used for globals and for re-declaring template parameters
// across independent instantiations.
func (s *Scope) DeclareForce(name string, typ *Type) {
	s.vars[name] = typ
}

// Lookup walks the scope chain outward for name.
func (s *Scope) Lookup(name string) (*Type, bool) {
	if s == nil {
		return nil, false
	}
	if t, ok := s.vars[name]; ok {
		return t, true
	}
	return s.parent.Lookup(name)
}

// Clone produces a shallow copy of s with an independent variable map
// but the same parent — used when a template call clones the
// declaration scope before rebinding template parameters for a fresh
// instantiation (spec §4.10 "Templates").
func (s *Scope) Clone() *Scope {
	c := &Scope{vars: map[string]*Type{}, parent: s.parent}
	for k, v := range s.vars {
		c.vars[k] = v
	}
	return c
}

// Own returns the names declared directly in s, excluding its parents —
// used by pkg/probescript to report top-level symbols for a checked
// program.
func (s *Scope) Own() map[string]*Type {
	out := make(map[string]*Type, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}
