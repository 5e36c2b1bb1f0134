// Package compiler turns type shapes into mock descriptors.
//
// A Compiler walks the shapes of one schema and produces, for every
// interface, class or object alias it reaches, a factory registered once per
// file in the Session. Use sites receive deferred calls to those factories.
// Self-reference never expands twice: a declaration is marked compiled
// before its body is built, so any path back to it becomes a deferred call.
package compiler

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/broady/tymock/tymockgen/descriptor"
	"github.com/broady/tymock/tymockgen/ir"
)

// Warning codes reported by the compiler.
const (
	CodeUnresolvedReference = "UNRESOLVED_REFERENCE"
	CodeUnresolvedHeritage  = "UNRESOLVED_HERITAGE"
	CodeUnsupportedShape    = "UNSUPPORTED_SHAPE"
	CodeEmptyTypeQuery      = "EMPTY_TYPE_QUERY"
	CodeEmptyEnum           = "EMPTY_ENUM"
	CodeIntersectionMember  = "INTERSECTION_MEMBER"
)

// Compiler compiles the shapes of one schema into descriptors.
type Compiler struct {
	schema  *ir.Schema
	session *Session
	logger  *slog.Logger
}

// New returns a compiler for schema that records factories in session.
func New(schema *ir.Schema, session *Session) *Compiler {
	return &Compiler{schema: schema, session: session, logger: session.logger}
}

// Session returns the compiler's session.
func (c *Compiler) Session() *Session { return c.session }

// Compile returns the descriptor of shape in scope.
func (c *Compiler) Compile(shape ir.TypeShape, scope *Scope) descriptor.Descriptor {
	return c.compile(shape, scope)
}

// CompileMockSite compiles a mock request in the current file.
func (c *Compiler) CompileMockSite(site ir.MockSite) descriptor.Descriptor {
	d := c.compile(site.Type, NewScope("", site.Hydrated))
	if site.Count > 0 {
		list := &descriptor.Array{Elements: make([]descriptor.Descriptor, site.Count)}
		for i := range list.Elements {
			list.Elements[i] = d
		}
		return list
	}
	return d
}

// CompileUnit compiles every mock site of unit as a new file.
func (c *Compiler) CompileUnit(unit ir.CompilationUnit) *UnitResult {
	c.session.InitFile(unit.File)
	res := &UnitResult{File: unit.File}
	for i, site := range unit.Mocks {
		name := site.Name
		if name == "" {
			name = ir.MockName(i)
		}
		res.Mocks = append(res.Mocks, Mock{
			Name:     name,
			Value:    c.CompileMockSite(site),
			Hydrated: site.Hydrated,
			Source:   site.Source,
		})
	}
	res.Statements = c.session.EmitTopLevelStatements(unit.File)
	return res
}

// CompileSchema compiles every unit of the schema in order.
func (c *Compiler) CompileSchema() []*UnitResult {
	results := make([]*UnitResult, 0, len(c.schema.Units))
	for _, u := range c.schema.Units {
		results = append(results, c.CompileUnit(u))
	}
	return results
}

func (c *Compiler) compile(shape ir.TypeShape, scope *Scope) descriptor.Descriptor {
	switch s := shape.(type) {
	case nil:
		return descriptor.Undefined()
	case *ir.PrimitiveShape:
		return primitive(s.PrimitiveKind)
	case *ir.LiteralShape:
		return c.literal(s)
	case *ir.ArrayShape:
		arr := &descriptor.Array{}
		if s.Length > 0 {
			elem := c.compile(s.Element, scope)
			for range s.Length {
				arr.Elements = append(arr.Elements, elem)
			}
		}
		return arr
	case *ir.TupleShape:
		arr := &descriptor.Array{Elements: make([]descriptor.Descriptor, 0, len(s.Elements))}
		for _, e := range s.Elements {
			arr.Elements = append(arr.Elements, c.compile(e, scope))
		}
		return arr
	case *ir.MapShape:
		return &descriptor.ObjectLiteral{}
	case *ir.UnionShape:
		return c.union(s.Types, scope)
	case *ir.IntersectionShape:
		return c.intersection(s, scope)
	case *ir.ReferenceShape:
		decl := c.schema.Lookup(s.Target)
		if decl == nil {
			c.warn(CodeUnresolvedReference, "no declaration found for "+s.Target.String(), s.Target.Name)
			return &descriptor.ObjectLiteral{}
		}
		return c.declaration(decl, s, scope)
	case *ir.TypeParameterShape:
		return c.typeParameter(s, scope)
	case *ir.TypeQueryShape:
		return c.typeQuery(s, scope)
	case *ir.SignatureShape:
		return c.function("", s, scope)
	case *ir.ObjectShape:
		return c.object(ownMembers(s.Members, nil, ""), scope)
	case *ir.InterfaceDecl, *ir.AliasDecl, *ir.EnumDecl, *ir.FunctionDecl:
		return c.declaration(s, nil, scope)
	default:
		c.warn(CodeUnsupportedShape, fmt.Sprintf("unsupported type shape %T", shape), "")
		return descriptor.Undefined()
	}
}

func primitive(k ir.PrimitiveKind) descriptor.Descriptor {
	switch k {
	case ir.PrimitiveString:
		return descriptor.String("")
	case ir.PrimitiveNumber:
		return descriptor.Number(0)
	case ir.PrimitiveBoolean:
		return descriptor.Bool(false)
	case ir.PrimitiveBigInt:
		return descriptor.BigInt("0")
	case ir.PrimitiveNull:
		return descriptor.Null()
	case ir.PrimitiveObject:
		return &descriptor.ObjectLiteral{}
	default:
		// void, undefined, any, unknown, never
		return descriptor.Undefined()
	}
}

func (c *Compiler) literal(s *ir.LiteralShape) descriptor.Descriptor {
	switch v := s.Value.(type) {
	case string:
		return descriptor.String(v)
	case bool:
		return descriptor.Bool(v)
	case float64:
		return descriptor.Number(v)
	case int:
		return descriptor.Number(float64(v))
	case int64:
		return descriptor.Number(float64(v))
	case nil:
		return descriptor.Null()
	}
	c.warn(CodeUnsupportedShape, fmt.Sprintf("unsupported literal type %T", s.Value), "")
	return descriptor.Undefined()
}

// union compiles a union. Without hydration any undefined-like member
// makes the whole union undefined; with hydration those members are
// dropped. The first remaining member is the representative value.
func (c *Compiler) union(types []ir.TypeShape, scope *Scope) descriptor.Descriptor {
	var rest []ir.TypeShape
	for _, t := range types {
		if c.undefinedLike(t) {
			if !scope.Hydrated() {
				return descriptor.Undefined()
			}
			continue
		}
		rest = append(rest, t)
	}
	if len(rest) == 0 {
		return descriptor.Undefined()
	}
	return c.compile(rest[0], scope)
}

// undefinedLike reports whether t is undefined or void, looking through
// non-generic aliases.
func (c *Compiler) undefinedLike(t ir.TypeShape) bool {
	seen := make(map[*ir.AliasDecl]bool)
	for {
		ref, ok := t.(*ir.ReferenceShape)
		if !ok {
			break
		}
		alias, ok := c.schema.Lookup(ref.Target).(*ir.AliasDecl)
		if !ok || len(alias.TypeParameters) > 0 || seen[alias] {
			break
		}
		seen[alias] = true
		t = alias.Underlying
	}
	return ir.IsUndefinedLike(t)
}

func (c *Compiler) declaration(decl ir.TypeShape, ref *ir.ReferenceShape, scope *Scope) descriptor.Descriptor {
	switch d := decl.(type) {
	case *ir.InterfaceDecl:
		return c.factoryCall(d, ref, scope)
	case *ir.AliasDecl:
		if d.ObjectLike() {
			return c.factoryCall(d, ref, scope)
		}
		return c.inlineAlias(d, ref, scope)
	case *ir.EnumDecl:
		return c.enumValue(d)
	case *ir.FunctionDecl:
		key := c.session.KeyFor(d)
		r := c.newGenericResolver(scope)
		r.BindFromReference(ref, d, key)
		fs := scope.WithOwner(d, key).WithBindings(r.InlineBindings())
		if d.Signature == nil {
			return c.function(d.Name.Name, &ir.SignatureShape{}, fs)
		}
		return c.function(d.Name.Name, d.Signature, fs)
	}
	c.warn(CodeUnsupportedShape, "unsupported declaration kind "+decl.Kind().String(), decl.TypeName().Name)
	return descriptor.Undefined()
}

// factoryCall returns a deferred call to the factory of decl, compiling the
// factory first if this cache scope has not seen it.
func (c *Compiler) factoryCall(decl ir.TypeShape, ref *ir.ReferenceShape, scope *Scope) descriptor.Descriptor {
	key := c.session.KeyFor(decl)
	generics := c.bindGenerics(ref, decl, key, scope).ResolvedBindings()
	factory := c.factory(decl, scope.Hydrated())
	c.session.Reference(factory)
	return &descriptor.DeferredCall{Key: factory, Generics: generics}
}

func (c *Compiler) factory(decl ir.TypeShape, hydrated bool) string {
	if key, ok := c.session.compiled(decl, hydrated); ok {
		return key
	}
	key, list := c.session.KeyFor(decl), ListPlain
	if hydrated {
		key, list = c.session.KeyForHydrated(decl), ListHydrated
	}
	c.session.begin(decl, hydrated, key)
	c.logger.Debug("compiling factory", "key", key, "kind", decl.Kind().String(), "hydrated", hydrated)
	body := c.declarationBody(decl, NewScope(key, hydrated))
	c.session.RegisterFactory(key, body, list)
	return key
}

func (c *Compiler) declarationBody(decl ir.TypeShape, scope *Scope) descriptor.Descriptor {
	owner := scope.WithOwner(decl, c.session.KeyFor(decl))
	switch d := decl.(type) {
	case *ir.InterfaceDecl:
		return c.object(c.collectMembers(d, make(map[ir.TypeShape]bool)), scope)
	case *ir.AliasDecl:
		return c.compile(d.Underlying, owner)
	}
	return c.compile(decl, owner)
}

// inlineAlias expands a non-object alias at its use site with the type
// arguments substituted. An alias reached again while it is being
// expanded is compiled as a factory instead.
func (c *Compiler) inlineAlias(d *ir.AliasDecl, ref *ir.ReferenceShape, scope *Scope) descriptor.Descriptor {
	key := c.session.KeyFor(d)
	if scope.Active(key) {
		return c.factoryCall(d, ref, scope)
	}
	r := c.newGenericResolver(scope)
	r.BindFromReference(ref, d, key)
	inner := scope.Nested(key).WithOwner(d, key).WithBindings(r.InlineBindings())
	return c.compile(d.Underlying, inner)
}

func (c *Compiler) enumValue(d *ir.EnumDecl) descriptor.Descriptor {
	m, ok := d.First()
	if !ok {
		c.warn(CodeEmptyEnum, "enum "+d.Name.String()+" has no members", d.Name.Name)
		return descriptor.Undefined()
	}
	switch v := m.Value.(type) {
	case string:
		return descriptor.String(v)
	case int64:
		return descriptor.Number(float64(v))
	case float64:
		return descriptor.Number(v)
	}
	c.warn(CodeUnsupportedShape, "enum "+d.Name.String()+" member "+m.Name+" has value of type "+fmt.Sprintf("%T", m.Value), d.Name.Name)
	return descriptor.Undefined()
}

func (c *Compiler) typeQuery(q *ir.TypeQueryShape, scope *Scope) descriptor.Descriptor {
	decl := c.schema.Lookup(q.Target)
	if decl == nil {
		c.warn(CodeEmptyTypeQuery, "no usable declaration for typeof "+q.Target.String(), q.Target.Name)
		return descriptor.Undefined()
	}
	e, ok := decl.(*ir.EnumDecl)
	if !ok {
		return c.declaration(decl, nil, scope)
	}
	key, ok := c.session.compiledEnum(e)
	if !ok {
		key = c.session.KeyForEnumTypeof(e)
		c.session.beginEnum(e, key)
		c.session.RegisterFactory(key, c.enumValue(e), ListPlain)
	}
	c.session.Reference(key)
	return &descriptor.DeferredCall{Key: key}
}

// typeParameter resolves a type parameter against inline bindings first and
// otherwise reads it from the bindings passed to the enclosing factory.
// Parameters with no visible declaration compile to undefined.
func (c *Compiler) typeParameter(p *ir.TypeParameterShape, scope *Scope) descriptor.Descriptor {
	id, ok := scope.ResolveParameter(p.ParamName)
	if !ok {
		c.logger.Debug("free type parameter", "name", p.ParamName, "path", scope.Path())
		return descriptor.Undefined()
	}
	if d, ok := scope.Binding(id); ok {
		return d
	}
	return &descriptor.GenericRef{ID: id}
}

// function compiles a signature. Signature-level type parameters bind to
// their defaults.
func (c *Compiler) function(name string, sig *ir.SignatureShape, scope *Scope) *descriptor.Function {
	if len(sig.TypeParameters) > 0 {
		key := scope.Path() + "#" + name + "@" + strconv.Itoa(len(sig.TypeParameters))
		bindings := make(map[string]descriptor.Descriptor, len(sig.TypeParameters))
		for _, p := range sig.TypeParameters {
			var d descriptor.Descriptor = descriptor.Undefined()
			if p.Default != nil {
				d = c.compile(p.Default, scope)
			}
			bindings[GenericID(key, p.ParamName)] = d
		}
		scope = scope.WithOwner(sig, key).WithBindings(bindings)
	}
	c.session.UseRuntime()
	return &descriptor.Function{Name: name, Returns: c.compile(sig.Returns, scope)}
}

func (c *Compiler) warn(code, msg, typeName string) {
	c.session.warn(ir.Warning{Code: code, Message: msg, TypeName: typeName})
}
