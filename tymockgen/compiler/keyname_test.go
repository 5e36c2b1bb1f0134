package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/broady/tymock/tymockgen/ir"
)

func TestKeyNamer(t *testing.T) {
	n := NewKeyNamer(discardLogger())
	a := ir.Interface("A")
	other := &ir.InterfaceDecl{
		Name:   ir.Identifier{Name: "A", Module: "./other"},
		Source: ir.Source{File: "src/other.ts", Line: 12},
	}
	third := &ir.InterfaceDecl{
		Name:   ir.Identifier{Name: "A", Module: "./third"},
		Source: ir.Source{File: "src/other.ts", Line: 12},
	}

	assert.Equal(t, "@A", n.Name(a, ""))
	assert.Equal(t, "@A", n.Name(a, ""), "keys are stable")
	assert.Equal(t, "@A_hydrated", n.Name(a, "hydrated"))
	assert.Equal(t, "@A_other_12", n.Name(other, ""))
	assert.Equal(t, "@A_2", n.Name(third, ""))
	assert.Equal(t, "@A_other_12", n.Name(other, ""))
}

func TestKeyNamerSets(t *testing.T) {
	n := NewKeyNamer(discardLogger())
	a := ir.Interface("A")
	b := ir.Interface("B")

	assert.Equal(t, "@A&B", n.NameSet([]ir.TypeShape{a, b}, false))
	assert.Equal(t, "@A&B", n.NameSet([]ir.TypeShape{b, a}, false), "sets are unordered")
	assert.Equal(t, "@A&B_hydrated", n.NameSet([]ir.TypeShape{b, a}, true))
}

func TestPositionSuffix(t *testing.T) {
	tests := []struct {
		src  ir.Source
		want string
	}{
		{ir.Source{}, ""},
		{ir.Source{File: "a/b-c.ts", Line: 4}, "b_c_4"},
		{ir.Source{File: "model.go"}, "model"},
		{ir.Source{Line: 9}, "9"},
	}
	for _, tt := range tests {
		if got := positionSuffix(tt.src); got != tt.want {
			t.Errorf("positionSuffix(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestDeclarationListCache(t *testing.T) {
	a, b, c := ir.Interface("A"), ir.Interface("B"), ir.Interface("C")
	cache := NewDeclarationListCache()
	cache.Set([]ir.TypeShape{a, b}, "@A&B")

	key, ok := cache.Get([]ir.TypeShape{b, a})
	assert.True(t, ok)
	assert.Equal(t, "@A&B", key)

	_, ok = cache.Get([]ir.TypeShape{a, b, c})
	assert.False(t, ok)
	_, ok = cache.Get([]ir.TypeShape{a})
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())
}

func TestDeclarationCache(t *testing.T) {
	a := ir.Interface("A")
	same := ir.Interface("A")
	cache := NewDeclarationCache()
	cache.Set(a, "@A")

	_, ok := cache.Get(same)
	assert.False(t, ok, "cache is keyed by identity")
	key, ok := cache.Get(a)
	assert.True(t, ok)
	assert.Equal(t, "@A", key)
}
