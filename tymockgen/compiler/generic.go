package compiler

import (
	"strings"

	"github.com/broady/tymock/tymockgen/descriptor"
	"github.com/broady/tymock/tymockgen/ir"
)

// GenericID returns the identity of the type parameter name declared by
// the declaration registered under key.
func GenericID(key, name string) string {
	return key + "." + name
}

// GenericResolver collects the generic bindings passed to a factory at one
// use site: the referenced declaration's own parameters plus those of every
// declaration along its heritage chain.
//
// Parameters forwarded unchanged through an extension clause are merged
// into the binding they forward; index maps every identity to its
// canonical binding.
type GenericResolver struct {
	c      *Compiler
	scope  *Scope
	params []*descriptor.GenericParameter
	index  map[string]*descriptor.GenericParameter
}

func (c *Compiler) newGenericResolver(scope *Scope) *GenericResolver {
	return &GenericResolver{
		c:     c,
		scope: scope,
		index: make(map[string]*descriptor.GenericParameter),
	}
}

// BindFromReference binds each type parameter of decl, registered under
// key, to the matching type argument of ref, the parameter's default, or
// null.
func (r *GenericResolver) BindFromReference(ref *ir.ReferenceShape, decl ir.TypeShape, key string) {
	inline := make(map[string]descriptor.Descriptor)
	for i, p := range ir.TypeParameters(decl) {
		id := GenericID(key, p.ParamName)
		var value descriptor.Descriptor
		switch {
		case ref != nil && i < len(ref.TypeArguments):
			value = r.c.compile(ref.TypeArguments[i], r.scope)
		case p.Default != nil:
			// A default that reaches its own parameter again, directly or
			// through other declarations' defaults, binds null on re-entry.
			defaultKey := id + "="
			if _, ok := r.scope.IsBoundFor(defaultKey); ok {
				value = descriptor.Null()
				break
			}
			value = r.c.compile(p.Default, r.scope.BindFor(defaultKey, id).WithOwner(decl, key).WithBindings(copyBindings(inline)))
		default:
			value = descriptor.Null()
		}
		inline[id] = value
		r.add(&descriptor.GenericParameter{IDs: []string{id}, Value: value})
	}
}

// BindFromExtension binds the type parameters of base, registered under
// baseKey, from an extension clause of the declaration registered under
// key.
func (r *GenericResolver) BindFromExtension(key string, base ir.TypeShape, baseKey string, clause ir.HeritageClause) {
	params := ir.TypeParameters(base)
	if len(params) == 0 {
		return
	}
	nested := r.scope.Nested(key)
	clauseKey := key + ">" + baseKey
	for i, p := range params {
		id := GenericID(baseKey, p.ParamName)
		if r.index[id] != nil {
			continue
		}

		var arg ir.TypeShape
		if i < len(clause.TypeArguments) {
			arg = clause.TypeArguments[i]
			if tp, ok := arg.(*ir.TypeParameterShape); ok {
				if existing := r.index[GenericID(key, tp.ParamName)]; existing != nil {
					r.alias(existing, id)
					continue
				}
			}
		} else {
			arg = p.Default
		}
		if arg == nil {
			r.add(&descriptor.GenericParameter{IDs: []string{id}, Value: descriptor.Null()})
			continue
		}

		instantiable := r.c.isInstantiable(arg)
		owner := ownerName(nested.Path(), id)
		var value descriptor.Descriptor
		if bound, ok := nested.IsBoundFor(clauseKey); ok {
			// The same clause is being bound further up: reuse the
			// constructor already building its value.
			value = descriptor.Null()
			if instantiable {
				value = &descriptor.Instantiate{Owner: bound}
			}
		} else {
			value = r.c.compile(arg, nested.BindFor(clauseKey, owner))
			if instantiable {
				value = &descriptor.Instantiate{Owner: owner, Source: value}
			}
		}
		r.add(&descriptor.GenericParameter{IDs: []string{id}, Value: value, Instantiable: instantiable})
	}
}

// ResolvedBindings returns the bindings in the order they were created.
func (r *GenericResolver) ResolvedBindings() []*descriptor.GenericParameter {
	return r.params
}

// Canonical returns the canonical identity of id.
func (r *GenericResolver) Canonical(id string) (string, bool) {
	g, ok := r.index[id]
	if !ok {
		return "", false
	}
	return g.ID(), true
}

// InlineBindings maps every identity, aliases included, to its value.
func (r *GenericResolver) InlineBindings() map[string]descriptor.Descriptor {
	b := make(map[string]descriptor.Descriptor, len(r.index))
	for id, g := range r.index {
		b[id] = g.Value
	}
	return b
}

func (r *GenericResolver) add(g *descriptor.GenericParameter) {
	if r.index[g.ID()] != nil {
		return
	}
	r.params = append(r.params, g)
	r.index[g.ID()] = g
}

func (r *GenericResolver) alias(g *descriptor.GenericParameter, id string) {
	g.IDs = append(g.IDs, id)
	r.index[id] = g
}

// bindGenerics resolves the bindings for a reference to decl: the
// reference's own arguments, then each extension clause along the heritage
// chain.
func (c *Compiler) bindGenerics(ref *ir.ReferenceShape, decl ir.TypeShape, key string, scope *Scope) *GenericResolver {
	r := c.newGenericResolver(scope)
	r.BindFromReference(ref, decl, key)
	c.bindExtensions(r, decl, key, make(map[ir.TypeShape]bool))
	return r
}

func (c *Compiler) bindExtensions(r *GenericResolver, decl ir.TypeShape, key string, seen map[ir.TypeShape]bool) {
	d, ok := decl.(*ir.InterfaceDecl)
	if !ok || seen[d] {
		return
	}
	seen[d] = true
	for _, h := range d.Heritage {
		base := c.schema.Lookup(h.Target)
		if base == nil {
			continue
		}
		baseKey := c.session.KeyFor(base)
		r.BindFromExtension(key, base, baseKey, h)
		c.bindExtensions(r, base, baseKey, seen)
	}
}

// isInstantiable reports whether a generic argument must be constructed
// lazily: it references a declaration that does not resolve, through
// aliases, to a primitive or literal.
func (c *Compiler) isInstantiable(arg ir.TypeShape) bool {
	ref, ok := arg.(*ir.ReferenceShape)
	if !ok {
		return false
	}
	seen := make(map[ir.TypeShape]bool)
	var t ir.TypeShape = ref
	for {
		switch x := t.(type) {
		case *ir.ReferenceShape:
			d := c.schema.Lookup(x.Target)
			if d == nil || seen[d] {
				return false
			}
			seen[d] = true
			t = d
		case *ir.AliasDecl:
			t = x.Underlying
		case *ir.EnumDecl, *ir.PrimitiveShape, *ir.LiteralShape:
			return false
		default:
			return true
		}
	}
}

// ownerName derives the identifier of the constructor building a
// generic value from the scope path and the parameter identity.
func ownerName(path, id string) string {
	return "owner" + strings.Map(func(r rune) rune {
		if r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			return r
		}
		return '_'
	}, path+"_"+id)
}

func copyBindings(b map[string]descriptor.Descriptor) map[string]descriptor.Descriptor {
	c := make(map[string]descriptor.Descriptor, len(b))
	for k, v := range b {
		c[k] = v
	}
	return c
}
