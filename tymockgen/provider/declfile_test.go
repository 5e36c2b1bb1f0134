package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/tymock/tymockgen/ir"
)

const petstore = `
module: petstore
declarations:
  - interface: Pet
    doc: |
      Pet is an animal in the store.
      Deprecated: use Animal
    extends: Named
    members:
      id: number
      tag?: string
      owner:
        type: Owner | null
        doc: the current owner
      speak(): string
  - interface: Named
    members:
      name: string
  - class: Owner
    members:
      pets: Pet[]
  - interface: Page<T = Pet>
    members:
      items: T[]
      cursor?: string
  - interface: Counter
    call: "(step: number) => number"
    members:
      reset(): void
  - alias: Id
    type: string | number
  - enum: Color
    members: [Red, Green, Blue]
  - enum: Size
    members:
      Small: 
      Large: 10
      Huge:
      Label: big
      Ratio: 1.5
  - function: makePet<T>
    type: "(seed: T) => Pet"
  - function: reset
units:
  - file: pets.test.ts
    mocks:
      - {name: pet, type: Pet}
      - {name: fullPet, type: Pet, hydrated: true}
      - {name: pages, type: Page<Owner>, count: 2}
      - Color
`

func TestParseDeclFile(t *testing.T) {
	schema := &ir.Schema{}
	require.NoError(t, ParseDeclFile(schema, "petstore.yaml", []byte(petstore)))

	assert.Equal(t, ir.PackageInfo{Path: "petstore", Name: "petstore"}, schema.Package)
	require.Len(t, schema.Declarations, 10)
	assert.Empty(t, schema.Validate())

	pet := schema.Declarations[0].(*ir.InterfaceDecl)
	assert.Equal(t, ir.Identifier{Name: "Pet", Module: "petstore"}, pet.Name)
	assert.Equal(t, "Pet is an animal in the store.", pet.Documentation.Summary)
	require.NotNil(t, pet.Documentation.Deprecated)
	assert.Equal(t, "use Animal", *pet.Documentation.Deprecated)
	assert.Equal(t, []ir.HeritageClause{{Target: ir.Identifier{Name: "Named"}}}, pet.Heritage)
	assert.Equal(t, ir.Source{File: "petstore.yaml", Line: 4, Column: 5}, pet.Source)
	assert.Equal(t, []ir.Member{
		ir.Prop("id", ir.Number()),
		ir.OptionalProp("tag", ir.String()),
		{Name: "owner", Type: ir.Union(ir.Ref("Owner"), ir.Null()), Documentation: ir.Documentation{Summary: "the current owner", Body: "the current owner"}},
		ir.Method("speak", ir.String()),
	}, pet.Members)

	owner := schema.Declarations[2].(*ir.InterfaceDecl)
	assert.True(t, owner.Class)

	page := schema.Declarations[3].(*ir.InterfaceDecl)
	assert.Equal(t, []ir.TypeParameterShape{{ParamName: "T", Default: ir.Ref("Pet")}}, page.TypeParameters)
	assert.Equal(t, ir.Array(ir.TypeParam("T")), page.Members[0].Type)

	counter := schema.Declarations[4].(*ir.InterfaceDecl)
	require.NotNil(t, counter.CallSignature)
	assert.Equal(t, ir.Number(), counter.CallSignature.Returns)
	assert.Equal(t, ir.Method("reset", ir.Void()), counter.Members[0])

	id := schema.Declarations[5].(*ir.AliasDecl)
	assert.Equal(t, ir.Union(ir.String(), ir.Number()), id.Underlying)

	color := schema.Declarations[6].(*ir.EnumDecl)
	assert.Equal(t, []ir.EnumMember{{Name: "Red", Value: int64(0)}, {Name: "Green", Value: int64(1)}, {Name: "Blue", Value: int64(2)}}, color.Members)

	size := schema.Declarations[7].(*ir.EnumDecl)
	assert.Equal(t, []ir.EnumMember{
		{Name: "Small", Value: int64(0)},
		{Name: "Large", Value: int64(10)},
		{Name: "Huge", Value: int64(11)},
		{Name: "Label", Value: "big"},
		{Name: "Ratio", Value: 1.5},
	}, size.Members)

	makePet := schema.Declarations[8].(*ir.FunctionDecl)
	assert.Equal(t, "T", makePet.TypeParameters[0].ParamName)
	assert.Equal(t, ir.TypeParam("T"), makePet.Signature.Parameters[0].Type)
	reset := schema.Declarations[9].(*ir.FunctionDecl)
	assert.Equal(t, ir.Void(), reset.Signature.Returns)

	require.Len(t, schema.Units, 1)
	unit := schema.Units[0]
	assert.Equal(t, "pets.test.ts", unit.File)
	require.Len(t, unit.Mocks, 4)
	assert.Equal(t, "pet", unit.Mocks[0].Name)
	assert.True(t, unit.Mocks[1].Hydrated)
	assert.Equal(t, 2, unit.Mocks[2].Count)
	assert.Equal(t, ir.Ref("Page", ir.Ref("Owner")), unit.Mocks[2].Type)
	assert.Equal(t, "", unit.Mocks[3].Name)
	assert.Equal(t, ir.Ref("Color"), unit.Mocks[3].Type)
}

func TestParseDeclFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown top-level key", "modules: x", `petstore.yaml:1:1: unknown key "modules"`},
		{"no kind", "declarations:\n  - members: {}", "needs one of interface"},
		{"two kinds", "declarations:\n  - interface: A\n    alias: B", "both interface and alias"},
		{"bad type", "declarations:\n  - alias: A\n    type: 'string |'", "petstore.yaml:3:11"},
		{"alias without type", "declarations:\n  - alias: A", "alias A has no type"},
		{"duplicate member", "declarations:\n  - interface: A\n    members:\n      a: string\n      a?: number", `duplicate member "a"`},
		{"extends literal", "declarations:\n  - interface: A\n    extends: \"'x'\"", "can only extend named types"},
		{"call not a function", "declarations:\n  - interface: A\n    call: string", "expected a function type"},
		{"unit without file", "units:\n  - mocks: []", "unit has no file"},
		{"mock without type", "units:\n  - file: a.ts\n    mocks:\n      - name: a", "mock has no type"},
		{"bad count", "units:\n  - file: a.ts\n    mocks:\n      - {type: A, count: many}", "count must be an integer"},
		{"enum type params", "declarations:\n  - enum: E<T>", "cannot have type parameters"},
		{"invalid yaml", "declarations: [", "petstore.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseDeclFile(&ir.Schema{}, "petstore.yaml", []byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDeclFileProvider_MergesFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	require.NoError(t, os.WriteFile(a, []byte("module: app\ndeclarations:\n  - interface: A\n    members: {b: B}\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("module: other\ndeclarations:\n  - interface: B\n    members: {x: number}\nunits:\n  - file: a.ts\n    mocks: [A]\n"), 0o644))

	p := &DeclFileProvider{}
	schema, err := p.BuildSchema(context.Background(), DeclFileOptions{Files: []string{a, b}})
	require.NoError(t, err)
	assert.Equal(t, "app", schema.Package.Path)
	assert.Len(t, schema.Declarations, 2)
	assert.Len(t, schema.Units, 1)
	assert.Empty(t, schema.Validate())
	assert.Equal(t, ir.Identifier{Name: "B", Module: "other"}, schema.Declarations[1].TypeName())

	_, err = p.BuildSchema(context.Background(), DeclFileOptions{})
	assert.Error(t, err)

	_, err = p.BuildSchema(context.Background(), DeclFileOptions{Files: []string{filepath.Join(dir, "missing.yaml")}})
	assert.Error(t, err)
}
