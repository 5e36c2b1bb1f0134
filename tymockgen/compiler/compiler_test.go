package compiler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/tymock/tymockgen/descriptor"
	"github.com/broady/tymock/tymockgen/ir"
)

func TestCompilePrimitives(t *testing.T) {
	tests := []struct {
		name  string
		shape ir.TypeShape
		want  descriptor.Descriptor
	}{
		{"string", ir.String(), descriptor.String("")},
		{"number", ir.Number(), descriptor.Number(0)},
		{"boolean", ir.Boolean(), descriptor.Bool(false)},
		{"bigint", ir.BigInt(), descriptor.BigInt("0")},
		{"null", ir.Null(), descriptor.Null()},
		{"object", &ir.PrimitiveShape{PrimitiveKind: ir.PrimitiveObject}, &descriptor.ObjectLiteral{}},
		{"void", ir.Void(), descriptor.Undefined()},
		{"undefined", ir.Undefined(), descriptor.Undefined()},
		{"any", ir.Any(), descriptor.Undefined()},
		{"unknown", ir.Unknown(), descriptor.Undefined()},
		{"never", &ir.PrimitiveShape{PrimitiveKind: ir.PrimitiveNever}, descriptor.Undefined()},
		{"string literal", ir.Literal("x"), descriptor.String("x")},
		{"number literal", ir.Literal(3.5), descriptor.Number(3.5)},
		{"boolean literal", ir.Literal(true), descriptor.Bool(true)},
		{"array", ir.Array(ir.String()), &descriptor.Array{}},
		{"fixed array", ir.FixedArray(ir.Number(), 2), &descriptor.Array{Elements: []descriptor.Descriptor{descriptor.Number(0), descriptor.Number(0)}}},
		{"tuple", ir.Tuple(ir.String(), ir.Boolean()), &descriptor.Array{Elements: []descriptor.Descriptor{descriptor.String(""), descriptor.Bool(false)}}},
		{"map", ir.Map(ir.String(), ir.Number()), &descriptor.ObjectLiteral{}},
		{"inline object", ir.Object(ir.Prop("n", ir.Number())), &descriptor.ObjectLiteral{Eager: []descriptor.Property{{Name: "n", Value: descriptor.Number(0)}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCompiler(t, Options{})
			got := c.Compile(tt.shape, NewScope("", false))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileUnion(t *testing.T) {
	nothing := &ir.AliasDecl{Name: ir.Identifier{Name: "Nothing"}, Underlying: ir.Undefined()}

	tests := []struct {
		name     string
		shape    ir.TypeShape
		hydrated bool
		want     descriptor.Descriptor
	}{
		{"first member", ir.Union(ir.String(), ir.Number()), false, descriptor.String("")},
		{"undefined member without hydration", ir.Union(ir.String(), ir.Undefined()), false, descriptor.Undefined()},
		{"undefined member with hydration", ir.Union(ir.Undefined(), ir.Number()), true, descriptor.Number(0)},
		{"void member", ir.Union(ir.Boolean(), ir.Void()), false, descriptor.Undefined()},
		{"all undefined", ir.Union(ir.Undefined(), ir.Void()), true, descriptor.Undefined()},
		{"undefined through alias", ir.Union(ir.String(), ir.Ref("Nothing")), false, descriptor.Undefined()},
		{"undefined alias hydrated", ir.Union(ir.Ref("Nothing"), ir.String()), true, descriptor.String("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCompiler(t, Options{}, nothing)
			got := c.Compile(tt.shape, NewScope("", tt.hydrated))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileUnion_AliasChain(t *testing.T) {
	decls := []ir.TypeShape{&ir.AliasDecl{Name: ir.Identifier{Name: "Alias0"}, Underlying: ir.Undefined()}}
	for i := 1; i <= 20; i++ {
		decls = append(decls, &ir.AliasDecl{
			Name:       ir.Identifier{Name: fmt.Sprintf("Alias%d", i)},
			Underlying: ir.Ref(fmt.Sprintf("Alias%d", i-1)),
		})
	}
	loop := &ir.AliasDecl{Name: ir.Identifier{Name: "Loop"}, Underlying: ir.Ref("Loop")}
	c := newTestCompiler(t, Options{}, append(decls, loop)...)

	assert.True(t, c.undefinedLike(ir.Ref("Alias20")))
	assert.False(t, c.undefinedLike(ir.Ref("Loop")))
	assert.Equal(t, descriptor.Undefined(), c.Compile(ir.Union(ir.String(), ir.Ref("Alias20")), NewScope("", false)))
}

func TestInterfaceFactory(t *testing.T) {
	a := ir.Interface("A", ir.Prop("a", ir.String()), ir.OptionalProp("b", ir.Number()))

	t.Run("plain", func(t *testing.T) {
		c := newTestCompiler(t, Options{}, a)
		got, res := mock(t, c, ir.Ref("A"), false)
		assert.Equal(t, &descriptor.DeferredCall{Key: "@A"}, got)

		reg, ok := registration(res, "@A")
		require.True(t, ok)
		assert.Equal(t, ListPlain, reg.List)
		assert.Equal(t, &descriptor.ObjectLiteral{Eager: []descriptor.Property{
			{Name: "a", Value: descriptor.String("")},
			{Name: "b", Value: descriptor.Undefined()},
		}}, reg.Body)
	})

	t.Run("hydrated", func(t *testing.T) {
		c := newTestCompiler(t, Options{}, a)
		got, res := mock(t, c, ir.Ref("A"), true)
		assert.Equal(t, &descriptor.DeferredCall{Key: "@A_hydrated"}, got)

		reg, ok := registration(res, "@A_hydrated")
		require.True(t, ok)
		assert.Equal(t, ListHydrated, reg.List)
		assert.Equal(t, &descriptor.ObjectLiteral{Eager: []descriptor.Property{
			{Name: "a", Value: descriptor.String("")},
			{Name: "b", Value: descriptor.Number(0)},
		}}, reg.Body)
	})

	t.Run("registered once", func(t *testing.T) {
		c := newTestCompiler(t, Options{}, a)
		res := c.CompileUnit(ir.CompilationUnit{File: "a.ts", Mocks: []ir.MockSite{
			{Type: ir.Ref("A")},
			{Type: ir.Ref("A")},
			{Type: ir.Ref("A"), Hydrated: true},
		}})
		assert.Equal(t, []string{"@A", "@A_hydrated"}, registrationKeys(res))
		require.Len(t, res.Mocks, 3)
		assert.Equal(t, "mock0", res.Mocks[0].Name)
		assert.Equal(t, "mock2", res.Mocks[2].Name)
	})
}

func TestCyclicReferencesTerminate(t *testing.T) {
	t.Run("self", func(t *testing.T) {
		node := ir.Interface("Node", ir.Prop("value", ir.Number()), ir.Prop("next", ir.Ref("Node")))
		c := newTestCompiler(t, Options{}, node)
		got, res := mock(t, c, ir.Ref("Node"), false)
		assert.Equal(t, &descriptor.DeferredCall{Key: "@Node"}, got)

		reg, ok := registration(res, "@Node")
		require.True(t, ok)
		assert.Equal(t, &descriptor.ObjectLiteral{
			Eager: []descriptor.Property{{Name: "value", Value: descriptor.Number(0)}},
			Lazy:  []*descriptor.Conditional{{Name: "next", Value: &descriptor.DeferredCall{Key: "@Node"}}},
		}, reg.Body)
	})

	t.Run("mutual", func(t *testing.T) {
		a := ir.Interface("A", ir.Prop("b", ir.Ref("B")))
		b := ir.Interface("B", ir.Prop("a", ir.Ref("A")))
		c := newTestCompiler(t, Options{}, a, b)
		_, res := mock(t, c, ir.Ref("A"), false)
		assert.ElementsMatch(t, []string{"@A", "@B"}, registrationKeys(res))

		reg, ok := registration(res, "@B")
		require.True(t, ok)
		assert.Equal(t, &descriptor.ObjectLiteral{
			Lazy: []*descriptor.Conditional{{Name: "a", Value: &descriptor.DeferredCall{Key: "@A"}}},
		}, reg.Body)
	})

	t.Run("recursive alias", func(t *testing.T) {
		list := &ir.AliasDecl{Name: ir.Identifier{Name: "List"}, Underlying: ir.Tuple(ir.Number(), ir.Ref("List"))}
		c := newTestCompiler(t, Options{}, list)
		got, res := mock(t, c, ir.Ref("List"), false)

		want := &descriptor.Array{Elements: []descriptor.Descriptor{
			descriptor.Number(0),
			&descriptor.DeferredCall{Key: "@List"},
		}}
		assert.Equal(t, want, got)
		reg, ok := registration(res, "@List")
		require.True(t, ok)
		assert.Equal(t, want, reg.Body)
	})
}

func TestGenerics(t *testing.T) {
	box := &ir.InterfaceDecl{
		Name:           ir.Identifier{Name: "Box"},
		TypeParameters: []ir.TypeParameterShape{{ParamName: "T"}},
		Members:        []ir.Member{ir.Prop("value", ir.TypeParam("T"))},
	}

	t.Run("argument", func(t *testing.T) {
		c := newTestCompiler(t, Options{}, box)
		got, res := mock(t, c, ir.Ref("Box", ir.String()), false)
		assert.Equal(t, &descriptor.DeferredCall{Key: "@Box", Generics: []*descriptor.GenericParameter{
			{IDs: []string{"@Box.T"}, Value: descriptor.String("")},
		}}, got)

		reg, ok := registration(res, "@Box")
		require.True(t, ok)
		assert.Equal(t, &descriptor.ObjectLiteral{
			Lazy: []*descriptor.Conditional{{Name: "value", Value: &descriptor.GenericRef{ID: "@Box.T"}}},
		}, reg.Body)
	})

	t.Run("missing argument", func(t *testing.T) {
		c := newTestCompiler(t, Options{}, box)
		got, _ := mock(t, c, ir.Ref("Box"), false)
		assert.Equal(t, &descriptor.DeferredCall{Key: "@Box", Generics: []*descriptor.GenericParameter{
			{IDs: []string{"@Box.T"}, Value: descriptor.Null()},
		}}, got)
	})

	t.Run("default", func(t *testing.T) {
		withDefault := &ir.InterfaceDecl{
			Name:           ir.Identifier{Name: "Box"},
			TypeParameters: []ir.TypeParameterShape{{ParamName: "T", Default: ir.Boolean()}},
			Members:        []ir.Member{ir.Prop("value", ir.TypeParam("T"))},
		}
		c := newTestCompiler(t, Options{}, withDefault)
		got, _ := mock(t, c, ir.Ref("Box"), false)
		assert.Equal(t, &descriptor.DeferredCall{Key: "@Box", Generics: []*descriptor.GenericParameter{
			{IDs: []string{"@Box.T"}, Value: descriptor.Bool(false)},
		}}, got)
	})

	t.Run("mutually recursive defaults", func(t *testing.T) {
		a := &ir.InterfaceDecl{
			Name:           ir.Identifier{Name: "A"},
			TypeParameters: []ir.TypeParameterShape{{ParamName: "T", Default: ir.Ref("B")}},
			Members:        []ir.Member{ir.Prop("a", ir.TypeParam("T"))},
		}
		b := &ir.InterfaceDecl{
			Name:           ir.Identifier{Name: "B"},
			TypeParameters: []ir.TypeParameterShape{{ParamName: "U", Default: ir.Ref("A")}},
			Members:        []ir.Member{ir.Prop("b", ir.TypeParam("U"))},
		}
		c := newTestCompiler(t, Options{}, a, b)
		got, res := mock(t, c, ir.Ref("A"), false)

		innerA := &descriptor.DeferredCall{Key: "@A", Generics: []*descriptor.GenericParameter{
			{IDs: []string{"@A.T"}, Value: descriptor.Null()},
		}}
		assert.Equal(t, &descriptor.DeferredCall{Key: "@A", Generics: []*descriptor.GenericParameter{
			{IDs: []string{"@A.T"}, Value: &descriptor.DeferredCall{Key: "@B", Generics: []*descriptor.GenericParameter{
				{IDs: []string{"@B.U"}, Value: innerA},
			}}},
		}}, got)
		assert.ElementsMatch(t, []string{"@A", "@B"}, registrationKeys(res))
	})

	t.Run("hydrated factory keeps declaration identities", func(t *testing.T) {
		c := newTestCompiler(t, Options{}, box)
		got, _ := mock(t, c, ir.Ref("Box", ir.Number()), true)
		assert.Equal(t, &descriptor.DeferredCall{Key: "@Box_hydrated", Generics: []*descriptor.GenericParameter{
			{IDs: []string{"@Box.T"}, Value: descriptor.Number(0)},
		}}, got)
	})

	t.Run("inline alias", func(t *testing.T) {
		maybe := &ir.AliasDecl{
			Name:           ir.Identifier{Name: "Maybe"},
			TypeParameters: []ir.TypeParameterShape{{ParamName: "T"}},
			Underlying:     ir.Union(ir.TypeParam("T"), ir.Undefined()),
		}
		c := newTestCompiler(t, Options{}, maybe)

		got, res := mock(t, c, ir.Ref("Maybe", ir.String()), false)
		assert.Equal(t, descriptor.Undefined(), got)
		assert.Empty(t, res.Registrations())

		got, _ = mock(t, c, ir.Ref("Maybe", ir.String()), true)
		assert.Equal(t, descriptor.String(""), got)
	})

	t.Run("free parameter", func(t *testing.T) {
		c := newTestCompiler(t, Options{})
		got := c.Compile(ir.TypeParam("T"), NewScope("", false))
		assert.Equal(t, descriptor.Undefined(), got)
	})
}

func TestHeritage(t *testing.T) {
	base := &ir.InterfaceDecl{
		Name:           ir.Identifier{Name: "Base"},
		TypeParameters: []ir.TypeParameterShape{{ParamName: "T"}},
		Members:        []ir.Member{ir.Prop("item", ir.TypeParam("T"))},
	}

	t.Run("concrete argument", func(t *testing.T) {
		derived := &ir.InterfaceDecl{
			Name:     ir.Identifier{Name: "Derived"},
			Heritage: []ir.HeritageClause{{Target: ir.Identifier{Name: "Base"}, TypeArguments: []ir.TypeShape{ir.String()}}},
			Members:  []ir.Member{ir.Prop("own", ir.Number())},
		}
		c := newTestCompiler(t, Options{}, base, derived)
		got, res := mock(t, c, ir.Ref("Derived"), false)
		assert.Equal(t, &descriptor.DeferredCall{Key: "@Derived", Generics: []*descriptor.GenericParameter{
			{IDs: []string{"@Base.T"}, Value: descriptor.String("")},
		}}, got)

		reg, ok := registration(res, "@Derived")
		require.True(t, ok)
		assert.Equal(t, &descriptor.ObjectLiteral{
			Eager: []descriptor.Property{{Name: "own", Value: descriptor.Number(0)}},
			Lazy:  []*descriptor.Conditional{{Name: "item", Value: &descriptor.GenericRef{ID: "@Base.T"}}},
		}, reg.Body)
	})

	t.Run("forwarded parameter", func(t *testing.T) {
		derived := &ir.InterfaceDecl{
			Name:           ir.Identifier{Name: "Derived"},
			TypeParameters: []ir.TypeParameterShape{{ParamName: "U"}},
			Heritage:       []ir.HeritageClause{{Target: ir.Identifier{Name: "Base"}, TypeArguments: []ir.TypeShape{ir.TypeParam("U")}}},
		}
		c := newTestCompiler(t, Options{}, base, derived)
		got, _ := mock(t, c, ir.Ref("Derived", ir.Number()), false)
		assert.Equal(t, &descriptor.DeferredCall{Key: "@Derived", Generics: []*descriptor.GenericParameter{
			{IDs: []string{"@Derived.U", "@Base.T"}, Value: descriptor.Number(0)},
		}}, got)
	})

	t.Run("derived members override", func(t *testing.T) {
		parent := ir.Interface("Parent", ir.Prop("x", ir.String()), ir.Prop("y", ir.Number()))
		child := ir.Interface("Child", ir.Prop("x", ir.Boolean()))
		child.Heritage = []ir.HeritageClause{{Target: ir.Identifier{Name: "Parent"}}}
		c := newTestCompiler(t, Options{}, parent, child)
		_, res := mock(t, c, ir.Ref("Child"), false)

		reg, ok := registration(res, "@Child")
		require.True(t, ok)
		assert.Equal(t, &descriptor.ObjectLiteral{Eager: []descriptor.Property{
			{Name: "x", Value: descriptor.Bool(false)},
			{Name: "y", Value: descriptor.Number(0)},
		}}, reg.Body)
	})

	t.Run("self extension", func(t *testing.T) {
		tree := &ir.InterfaceDecl{
			Name:     ir.Identifier{Name: "Tree"},
			Heritage: []ir.HeritageClause{{Target: ir.Identifier{Name: "Base"}, TypeArguments: []ir.TypeShape{ir.Ref("Tree")}}},
		}
		c := newTestCompiler(t, Options{}, base, tree)
		got, res := mock(t, c, ir.Ref("Tree"), false)

		owner := "owner_Tree__Base_T"
		assert.Equal(t, &descriptor.DeferredCall{Key: "@Tree", Generics: []*descriptor.GenericParameter{{
			IDs: []string{"@Base.T"},
			Value: &descriptor.Instantiate{
				Owner: owner,
				Source: &descriptor.DeferredCall{Key: "@Tree", Generics: []*descriptor.GenericParameter{{
					IDs:          []string{"@Base.T"},
					Value:        &descriptor.Instantiate{Owner: owner},
					Instantiable: true,
				}}},
			},
			Instantiable: true,
		}}}, got)
		assert.Equal(t, []string{"@Tree"}, registrationKeys(res))
	})

	t.Run("unresolved heritage", func(t *testing.T) {
		orphan := ir.Interface("Orphan", ir.Prop("a", ir.String()))
		orphan.Heritage = []ir.HeritageClause{{Target: ir.Identifier{Name: "Gone"}}}
		c := newTestCompiler(t, Options{}, orphan)
		_, res := mock(t, c, ir.Ref("Orphan"), false)

		reg, ok := registration(res, "@Orphan")
		require.True(t, ok)
		assert.Equal(t, 1, reg.Body.(*descriptor.ObjectLiteral).Len())
		assert.Contains(t, warningCodes(c.Session()), CodeUnresolvedHeritage)
	})
}

func TestIntersection(t *testing.T) {
	a := ir.Interface("A", ir.Prop("a", ir.String()), ir.Prop("x", ir.Number()))
	b := ir.Interface("B", ir.Prop("b", ir.Boolean()), ir.Prop("x", ir.String()))

	t.Run("shared factory", func(t *testing.T) {
		c := newTestCompiler(t, Options{}, a, b)
		res := c.CompileUnit(ir.CompilationUnit{File: "i.ts", Mocks: []ir.MockSite{
			{Type: ir.Intersection(ir.Ref("A"), ir.Ref("B"))},
			{Type: ir.Intersection(ir.Ref("B"), ir.Ref("A"))},
		}})
		assert.Equal(t, &descriptor.DeferredCall{Key: "@A&B"}, res.Mocks[0].Value)
		assert.Equal(t, &descriptor.DeferredCall{Key: "@A&B"}, res.Mocks[1].Value)
		assert.Equal(t, []string{"@A&B"}, registrationKeys(res))

		reg, _ := registration(res, "@A&B")
		assert.Equal(t, ListIntersection, reg.List)
		assert.Equal(t, &descriptor.ObjectLiteral{Eager: []descriptor.Property{
			{Name: "a", Value: descriptor.String("")},
			{Name: "x", Value: descriptor.String("")},
			{Name: "b", Value: descriptor.Bool(false)},
		}}, reg.Body)
	})

	t.Run("hydrated", func(t *testing.T) {
		c := newTestCompiler(t, Options{}, a, b)
		got, _ := mock(t, c, ir.Intersection(ir.Ref("A"), ir.Ref("B")), true)
		assert.Equal(t, &descriptor.DeferredCall{Key: "@A&B_hydrated"}, got)
	})

	t.Run("nested", func(t *testing.T) {
		other := ir.Interface("C", ir.Prop("c", ir.Number()))
		c := newTestCompiler(t, Options{}, a, b, other)
		got, _ := mock(t, c, ir.Intersection(ir.Ref("A"), ir.Intersection(ir.Ref("B"), ir.Ref("C"))), false)
		assert.Equal(t, &descriptor.DeferredCall{Key: "@A&B&C"}, got)
	})

	t.Run("branded primitive", func(t *testing.T) {
		c := newTestCompiler(t, Options{}, a)
		got, _ := mock(t, c, ir.Intersection(ir.String(), ir.Ref("A")), false)
		assert.Equal(t, descriptor.String(""), got)
	})

	t.Run("inline", func(t *testing.T) {
		c := newTestCompiler(t, Options{}, a)
		got, res := mock(t, c, ir.Intersection(ir.Ref("A"), ir.Object(ir.Prop("c", ir.Number()))), false)
		assert.Equal(t, &descriptor.ObjectLiteral{Eager: []descriptor.Property{
			{Name: "a", Value: descriptor.String("")},
			{Name: "x", Value: descriptor.Number(0)},
			{Name: "c", Value: descriptor.Number(0)},
		}}, got)
		assert.Empty(t, res.Registrations())
	})
}

func TestEnums(t *testing.T) {
	color := &ir.EnumDecl{Name: ir.Identifier{Name: "Color"}, Members: []ir.EnumMember{
		{Name: "Red", Value: "red"},
		{Name: "Blue", Value: "blue"},
	}}
	level := &ir.EnumDecl{Name: ir.Identifier{Name: "Level"}, Members: []ir.EnumMember{{Name: "Low", Value: int64(1)}}}
	empty := &ir.EnumDecl{Name: ir.Identifier{Name: "Empty"}}

	t.Run("type reference", func(t *testing.T) {
		c := newTestCompiler(t, Options{}, color, level)
		assert.Equal(t, descriptor.String("red"), c.Compile(ir.Ref("Color"), NewScope("", false)))
		assert.Equal(t, descriptor.Number(1), c.Compile(ir.Ref("Level"), NewScope("", false)))
	})

	t.Run("typeof", func(t *testing.T) {
		c := newTestCompiler(t, Options{}, color)
		got, res := mock(t, c, ir.TypeOf("Color"), false)
		assert.Equal(t, &descriptor.DeferredCall{Key: "@Color"}, got)

		reg, ok := registration(res, "@Color")
		require.True(t, ok)
		assert.Equal(t, ListPlain, reg.List)
		assert.Equal(t, descriptor.String("red"), reg.Body)
	})

	t.Run("empty", func(t *testing.T) {
		c := newTestCompiler(t, Options{}, empty)
		got, _ := mock(t, c, ir.Ref("Empty"), false)
		assert.Equal(t, descriptor.Undefined(), got)
		assert.Equal(t, []string{CodeEmptyEnum}, warningCodes(c.Session()))
	})
}

func TestTypeQuery(t *testing.T) {
	a := ir.Interface("A", ir.Prop("a", ir.String()))
	c := newTestCompiler(t, Options{}, a)

	got, _ := mock(t, c, ir.TypeOf("A"), false)
	assert.Equal(t, &descriptor.DeferredCall{Key: "@A"}, got)

	got, _ = mock(t, c, ir.TypeOf("missing"), false)
	assert.Equal(t, descriptor.Undefined(), got)
	assert.Equal(t, []string{CodeEmptyTypeQuery}, warningCodes(c.Session()))
}

func TestUnresolvedReference(t *testing.T) {
	c := newTestCompiler(t, Options{})
	got, _ := mock(t, c, ir.Ref("Missing"), false)
	assert.Equal(t, &descriptor.ObjectLiteral{}, got)

	warnings := c.Session().Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, CodeUnresolvedReference, warnings[0].Code)
	assert.Equal(t, "Missing", warnings[0].TypeName)
	require.NotNil(t, warnings[0].Source)
	assert.Equal(t, "test.ts", warnings[0].Source.File)
}

func TestFunctions(t *testing.T) {
	a := ir.Interface("A", ir.Prop("a", ir.String()))

	t.Run("methods", func(t *testing.T) {
		svc := ir.Interface("Service", ir.Method("get", ir.Ref("A")), ir.Method("close", nil))
		c := newTestCompiler(t, Options{}, a, svc)
		_, res := mock(t, c, ir.Ref("Service"), false)

		assert.Equal(t, []string{"@A", "@Service"}, registrationKeys(res))
		reg, _ := registration(res, "@Service")
		assert.Equal(t, &descriptor.ObjectLiteral{Eager: []descriptor.Property{
			{Name: "get", Value: &descriptor.Function{Name: "get", Returns: &descriptor.DeferredCall{Key: "@A"}}},
			{Name: "close", Value: &descriptor.Function{Name: "close", Returns: descriptor.Undefined()}},
		}}, reg.Body)
	})

	t.Run("signature type parameter default", func(t *testing.T) {
		sig := &ir.SignatureShape{
			TypeParameters: []ir.TypeParameterShape{{ParamName: "R", Default: ir.Number()}},
			Returns:        ir.TypeParam("R"),
		}
		svc := ir.Interface("Service", ir.Member{Name: "get", Type: sig, Method: true})
		c := newTestCompiler(t, Options{}, svc)
		_, res := mock(t, c, ir.Ref("Service"), false)

		reg, _ := registration(res, "@Service")
		got, ok := reg.Body.(*descriptor.ObjectLiteral).Member("get")
		require.True(t, ok)
		assert.Equal(t, &descriptor.Function{Name: "get", Returns: descriptor.Number(0)}, got)
	})

	t.Run("callable interface", func(t *testing.T) {
		callable := ir.Interface("Fn")
		callable.CallSignature = ir.Signature(ir.String())
		c := newTestCompiler(t, Options{}, callable)
		_, res := mock(t, c, ir.Ref("Fn"), false)

		reg, _ := registration(res, "@Fn")
		assert.Equal(t, &descriptor.ObjectLiteral{Call: &descriptor.Function{Returns: descriptor.String("")}}, reg.Body)
	})

	t.Run("function declaration", func(t *testing.T) {
		fn := &ir.FunctionDecl{Name: ir.Identifier{Name: "build"}, Signature: ir.Signature(ir.Boolean())}
		c := newTestCompiler(t, Options{}, fn)
		got, res := mock(t, c, ir.Ref("build"), false)
		assert.Equal(t, &descriptor.Function{Name: "build", Returns: descriptor.Bool(false)}, got)
		assert.True(t, res.UsesRuntime())
	})
}

func TestObjectAlias(t *testing.T) {
	point := &ir.AliasDecl{Name: ir.Identifier{Name: "Point"}, Underlying: ir.Object(ir.Prop("x", ir.Number()))}
	c := newTestCompiler(t, Options{}, point)
	got, res := mock(t, c, ir.Ref("Point"), false)
	assert.Equal(t, &descriptor.DeferredCall{Key: "@Point"}, got)

	reg, ok := registration(res, "@Point")
	require.True(t, ok)
	assert.Equal(t, &descriptor.ObjectLiteral{Eager: []descriptor.Property{{Name: "x", Value: descriptor.Number(0)}}}, reg.Body)
}

func TestMockCount(t *testing.T) {
	a := ir.Interface("A", ir.Prop("a", ir.String()))
	c := newTestCompiler(t, Options{}, a)
	res := c.CompileUnit(ir.CompilationUnit{File: "list.ts", Mocks: []ir.MockSite{{Name: "many", Type: ir.Ref("A"), Count: 2}}})

	call := &descriptor.DeferredCall{Key: "@A"}
	assert.Equal(t, &descriptor.Array{Elements: []descriptor.Descriptor{call, call}}, res.Mocks[0].Value)
	assert.Equal(t, []string{"@A"}, registrationKeys(res))
}

func TestStatementOrder(t *testing.T) {
	a := ir.Interface("A", ir.Prop("a", ir.String()))
	b := ir.Interface("B", ir.Prop("b", ir.String()))
	c := newTestCompiler(t, Options{}, a, b)
	res := c.CompileUnit(ir.CompilationUnit{File: "order.ts", Mocks: []ir.MockSite{
		{Type: ir.Intersection(ir.Ref("A"), ir.Ref("B"))},
		{Type: ir.Ref("A"), Hydrated: true},
		{Type: ir.Ref("A")},
	}})

	require.Len(t, res.Statements, 4)
	assert.Equal(t, RuntimeImport{}, res.Statements[0])
	var lists []RegistrationList
	for _, r := range res.Registrations() {
		lists = append(lists, r.List)
	}
	assert.Equal(t, []RegistrationList{ListPlain, ListHydrated, ListIntersection}, lists)
	assert.Equal(t, []string{"@A", "@A_hydrated", "@A&B"}, registrationKeys(res))
}

func TestCrossFileCaching(t *testing.T) {
	a := ir.Interface("A", ir.Prop("a", ir.String()))
	units := []ir.CompilationUnit{
		{File: "one.ts", Mocks: []ir.MockSite{{Type: ir.Ref("A")}}},
		{File: "two.ts", Mocks: []ir.MockSite{{Type: ir.Ref("A")}}},
	}

	t.Run("cached", func(t *testing.T) {
		c := newTestCompiler(t, Options{CacheBetweenFiles: true}, a)
		first := c.CompileUnit(units[0])
		second := c.CompileUnit(units[1])

		assert.Equal(t, []string{"@A"}, registrationKeys(first))
		assert.Empty(t, second.Registrations())
		assert.Equal(t, []string{"one.ts"}, second.Imports())
		assert.Equal(t, []Statement{RuntimeImport{}, UnitImport{File: "one.ts"}}, second.Statements)
	})

	t.Run("per file", func(t *testing.T) {
		c := newTestCompiler(t, Options{}, a)
		c.CompileUnit(units[0])
		second := c.CompileUnit(units[1])

		assert.Equal(t, []string{"@A"}, registrationKeys(second))
		assert.Empty(t, second.Imports())
	})
}

func TestCompileSchema(t *testing.T) {
	a := ir.Interface("A", ir.Prop("a", ir.String()))
	schema := &ir.Schema{}
	schema.AddDeclaration(a)
	schema.AddUnit(ir.CompilationUnit{File: "x.ts", Mocks: []ir.MockSite{{Type: ir.String()}}})
	schema.AddUnit(ir.CompilationUnit{File: "y.ts", Mocks: []ir.MockSite{{Type: ir.Ref("A")}}})

	c := New(schema, NewSession(Options{Logger: discardLogger()}))
	results := c.CompileSchema()
	require.Len(t, results, 2)

	assert.False(t, results[0].UsesRuntime())
	assert.Empty(t, results[0].Statements)
	assert.Equal(t, descriptor.String(""), results[0].Mocks[0].Value)
	assert.True(t, results[1].UsesRuntime())
}
