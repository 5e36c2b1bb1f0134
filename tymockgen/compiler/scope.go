package compiler

import (
	"github.com/broady/tymock/tymockgen/descriptor"
	"github.com/broady/tymock/tymockgen/ir"
)

// Scope is the traversal context at one node of the type graph.
//
// Scopes are immutable. Entering a declaration, an extension clause or a
// generic owner returns a child that shares its parent chain; lookups walk
// the chain toward the root.
type Scope struct {
	parent   *Scope
	segment  string
	path     string
	hydrated bool

	owner    ir.TypeShape
	ownerKey string

	bindings map[string]descriptor.Descriptor

	boundKey   string
	boundOwner string
}

// NewScope returns a root scope entered at key. Factory bodies compile in
// a root scope named by their own key; use sites start from an empty key.
func NewScope(key string, hydrated bool) *Scope {
	return &Scope{segment: key, path: key, hydrated: hydrated}
}

// Path returns the concatenated keys of the declarations entered so far.
func (s *Scope) Path() string { return s.path }

// Hydrated reports whether optional members are filled.
func (s *Scope) Hydrated() bool { return s.hydrated }

func (s *Scope) child() *Scope {
	return &Scope{parent: s, path: s.path, hydrated: s.hydrated}
}

// Nested returns a child scope whose path is extended by key.
func (s *Scope) Nested(key string) *Scope {
	c := s.child()
	c.segment = key
	c.path = s.path + key
	return c
}

// Active reports whether key was entered on the path from the root to s.
func (s *Scope) Active(key string) bool {
	if key == "" {
		return false
	}
	for x := s; x != nil; x = x.parent {
		if x.segment == key {
			return true
		}
	}
	return false
}

// WithOwner returns a child scope in which the type parameters of decl,
// registered under key, are visible.
func (s *Scope) WithOwner(decl ir.TypeShape, key string) *Scope {
	c := s.child()
	c.owner = decl
	c.ownerKey = key
	return c
}

// WithBindings returns a child scope that substitutes the given generic
// identities inline instead of reading them from factory arguments.
func (s *Scope) WithBindings(b map[string]descriptor.Descriptor) *Scope {
	if len(b) == 0 {
		return s
	}
	c := s.child()
	c.bindings = b
	return c
}

// Binding returns the inline binding for a generic identity.
func (s *Scope) Binding(id string) (descriptor.Descriptor, bool) {
	for x := s; x != nil; x = x.parent {
		if d, ok := x.bindings[id]; ok {
			return d, true
		}
	}
	return nil, false
}

// BindFor returns a child scope recording that the generic values of key,
// an extension clause or a parameter default, are being built, with owner
// naming the constructor that builds them.
func (s *Scope) BindFor(key, owner string) *Scope {
	c := s.child()
	c.boundKey = key
	c.boundOwner = owner
	return c
}

// IsBoundFor reports whether key is already being bound on this path and returns the owner recorded for it.
func (s *Scope) IsBoundFor(key string) (string, bool) {
	for x := s; x != nil; x = x.parent {
		if x.boundKey != "" && x.boundKey == key {
			return x.boundOwner, true
		}
	}
	return "", false
}

// ResolveParameter returns the identity of the nearest visible type
// parameter with the given name.
func (s *Scope) ResolveParameter(name string) (string, bool) {
	for x := s; x != nil; x = x.parent {
		if x.owner == nil {
			continue
		}
		for _, p := range ir.TypeParameters(x.owner) {
			if p.ParamName == name {
				return GenericID(x.ownerKey, name), true
			}
		}
	}
	return "", false
}
