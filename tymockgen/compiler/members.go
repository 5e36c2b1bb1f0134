package compiler

import (
	"github.com/broady/tymock/tymockgen/descriptor"
	"github.com/broady/tymock/tymockgen/ir"
)

// memberEntry is a member together with the declaration that declares it.
// Inherited members compile with their declaring owner in scope so that
// the owner's type parameters resolve to its own generic identities.
type memberEntry struct {
	member   ir.Member
	owner    ir.TypeShape
	ownerKey string
}

type callEntry struct {
	sig      *ir.SignatureShape
	owner    ir.TypeShape
	ownerKey string
}

// memberSet is an ordered set of members keyed by name. Adding a name that
// is already present replaces the earlier entry in its original position.
type memberSet struct {
	order   []string
	entries map[string]memberEntry
	call    *callEntry
}

func newMemberSet() *memberSet {
	return &memberSet{entries: make(map[string]memberEntry)}
}

func ownMembers(members []ir.Member, owner ir.TypeShape, ownerKey string) *memberSet {
	set := newMemberSet()
	for _, m := range members {
		set.add(memberEntry{member: m, owner: owner, ownerKey: ownerKey})
	}
	return set
}

func (s *memberSet) add(e memberEntry) {
	if _, ok := s.entries[e.member.Name]; !ok {
		s.order = append(s.order, e.member.Name)
	}
	s.entries[e.member.Name] = e
}

// merge adds every member of o, which take precedence over s.
func (s *memberSet) merge(o *memberSet) {
	for _, name := range o.order {
		s.add(o.entries[name])
	}
	if o.call != nil {
		s.call = o.call
	}
}

// collectMembers returns the members of d with inherited members first.
// Members declared closer to d override inherited ones.
func (c *Compiler) collectMembers(d *ir.InterfaceDecl, seen map[ir.TypeShape]bool) *memberSet {
	set := newMemberSet()
	if seen[d] {
		return set
	}
	seen[d] = true
	for _, h := range d.Heritage {
		base := c.schema.Lookup(h.Target)
		if base == nil {
			c.warn(CodeUnresolvedHeritage, d.Name.String()+" extends unknown "+h.Target.String(), d.Name.Name)
			continue
		}
		set.merge(c.membersOf(base, seen))
	}
	key := c.session.KeyFor(d)
	set.merge(ownMembers(d.Members, d, key))
	if d.CallSignature != nil {
		set.call = &callEntry{sig: d.CallSignature, owner: d, ownerKey: key}
	}
	return set
}

// membersOf returns the members of an object-like declaration.
func (c *Compiler) membersOf(decl ir.TypeShape, seen map[ir.TypeShape]bool) *memberSet {
	switch d := decl.(type) {
	case *ir.InterfaceDecl:
		return c.collectMembers(d, seen)
	case *ir.AliasDecl:
		if obj, ok := d.Underlying.(*ir.ObjectShape); ok {
			return ownMembers(obj.Members, d, c.session.KeyFor(d))
		}
	}
	return newMemberSet()
}

// objectDecl reports whether decl compiles to an object factory.
func objectDecl(decl ir.TypeShape) bool {
	switch d := decl.(type) {
	case *ir.InterfaceDecl:
		return true
	case *ir.AliasDecl:
		return d.ObjectLike()
	}
	return false
}

// object builds an object literal from set. Members whose value must be
// resolved on access are emitted as lazy properties.
func (c *Compiler) object(set *memberSet, scope *Scope) *descriptor.ObjectLiteral {
	obj := &descriptor.ObjectLiteral{}
	for _, name := range set.order {
		e := set.entries[name]
		ms := scope
		if e.owner != nil {
			ms = scope.WithOwner(e.owner, e.ownerKey)
		}
		d := c.member(e.member, ms)
		if descriptor.NeedsLazy(d) {
			obj.Lazy = append(obj.Lazy, &descriptor.Conditional{Name: name, Value: d})
			continue
		}
		obj.Eager = append(obj.Eager, descriptor.Property{Name: name, Value: d})
	}
	if set.call != nil {
		cs := scope
		if set.call.owner != nil {
			cs = scope.WithOwner(set.call.owner, set.call.ownerKey)
		}
		obj.Call = c.function("", set.call.sig, cs)
	}
	return obj
}

// member compiles one property. An optional member behaves as a union
// with undefined.
func (c *Compiler) member(m ir.Member, scope *Scope) descriptor.Descriptor {
	if m.Optional && !scope.Hydrated() {
		return descriptor.Undefined()
	}
	if sig, ok := m.Type.(*ir.SignatureShape); ok {
		return c.function(m.Name, sig, scope)
	}
	return c.compile(m.Type, scope)
}

// intersection compiles an intersection. A primitive or literal
// constituent wins outright. When every constituent references an object
// declaration the merged members become a shared factory; otherwise they
// are merged inline.
func (c *Compiler) intersection(s *ir.IntersectionShape, scope *Scope) descriptor.Descriptor {
	types := flattenIntersection(s.Types, nil)
	for _, t := range types {
		switch t.(type) {
		case *ir.PrimitiveShape, *ir.LiteralShape:
			return c.compile(t, scope)
		}
	}

	var refs []*ir.ReferenceShape
	var decls []ir.TypeShape
	for _, t := range types {
		ref, ok := t.(*ir.ReferenceShape)
		if !ok {
			break
		}
		decl := c.schema.Lookup(ref.Target)
		if decl == nil || !objectDecl(decl) {
			break
		}
		refs = append(refs, ref)
		decls = append(decls, decl)
	}
	if len(decls) > 0 && len(decls) == len(types) {
		return c.intersectionCall(refs, decls, scope)
	}
	return c.inlineIntersection(types, scope)
}

func flattenIntersection(types []ir.TypeShape, out []ir.TypeShape) []ir.TypeShape {
	for _, t := range types {
		if in, ok := t.(*ir.IntersectionShape); ok {
			out = flattenIntersection(in.Types, out)
			continue
		}
		out = append(out, t)
	}
	return out
}

func (c *Compiler) intersectionCall(refs []*ir.ReferenceShape, decls []ir.TypeShape, scope *Scope) descriptor.Descriptor {
	hydrated := scope.Hydrated()
	key, ok := c.session.compiledIntersection(decls, hydrated)
	if !ok {
		key = c.session.KeyForIntersection(decls, hydrated)
		c.session.beginIntersection(decls, hydrated, key)
		c.logger.Debug("compiling intersection", "key", key, "hydrated", hydrated)
		set := newMemberSet()
		for _, d := range decls {
			set.merge(c.membersOf(d, make(map[ir.TypeShape]bool)))
		}
		c.session.RegisterFactory(key, c.object(set, NewScope(key, hydrated)), ListIntersection)
	}

	r := c.newGenericResolver(scope)
	for i, ref := range refs {
		declKey := c.session.KeyFor(decls[i])
		r.BindFromReference(ref, decls[i], declKey)
		c.bindExtensions(r, decls[i], declKey, make(map[ir.TypeShape]bool))
	}
	c.session.Reference(key)
	return &descriptor.DeferredCall{Key: key, Generics: r.ResolvedBindings()}
}

func (c *Compiler) inlineIntersection(types []ir.TypeShape, scope *Scope) descriptor.Descriptor {
	set := newMemberSet()
	bindings := make(map[string]descriptor.Descriptor)
	for _, t := range types {
		switch x := t.(type) {
		case *ir.ObjectShape:
			set.merge(ownMembers(x.Members, nil, ""))
		case *ir.ReferenceShape:
			decl := c.schema.Lookup(x.Target)
			if decl == nil || !objectDecl(decl) {
				c.warn(CodeIntersectionMember, "intersection member "+x.Target.String()+" is not an object type", x.Target.Name)
				continue
			}
			r := c.bindGenerics(x, decl, c.session.KeyFor(decl), scope)
			for id, d := range r.InlineBindings() {
				bindings[id] = d
			}
			set.merge(c.membersOf(decl, make(map[ir.TypeShape]bool)))
		default:
			c.warn(CodeIntersectionMember, "unsupported intersection member "+t.Kind().String(), "")
		}
	}
	return c.object(set, scope.WithBindings(bindings))
}
