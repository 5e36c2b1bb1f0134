package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/tymock/tymockgen/ir"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		expr   string
		params []string
		want   ir.TypeShape
	}{
		{"string", nil, ir.String()},
		{"  number ", nil, ir.Number()},
		{"User", nil, ir.Ref("User")},
		{"T", []string{"T"}, ir.TypeParam("T")},
		{"T[]", []string{"T"}, ir.Array(ir.TypeParam("T"))},
		{"string[][]", nil, ir.Array(ir.Array(ir.String()))},
		{"Array<User>", nil, ir.Array(ir.Ref("User"))},
		{"ReadonlyArray<number>", nil, ir.Array(ir.Number())},
		{"Record<string, number>", nil, ir.Map(ir.String(), ir.Number())},
		{"Page<User, 'x'>", nil, ir.Ref("Page", ir.Ref("User"), ir.Literal("x"))},
		{"api.User", nil, &ir.ReferenceShape{Target: ir.Identifier{Name: "User", Module: "api"}}},
		{"string | null", nil, ir.Union(ir.String(), ir.Null())},
		{"| 'a' | 'b'", nil, ir.Union(ir.Literal("a"), ir.Literal("b"))},
		{"A & B", nil, ir.Intersection(ir.Ref("A"), ir.Ref("B"))},
		{"A | B & C", nil, ir.Union(ir.Ref("A"), ir.Intersection(ir.Ref("B"), ir.Ref("C")))},
		{"(A | B)[]", nil, ir.Array(ir.Union(ir.Ref("A"), ir.Ref("B")))},
		{"[string, number]", nil, ir.Tuple(ir.String(), ir.Number())},
		{"[]", nil, ir.Tuple()},
		{"42", nil, ir.Literal(42.0)},
		{"-1.5", nil, ir.Literal(-1.5)},
		{"0x10", nil, ir.Literal(16.0)},
		{"true", nil, ir.Literal(true)},
		{`"say \"hi\""`, nil, ir.Literal(`say "hi"`)},
		{"typeof config", nil, ir.TypeOf("config")},
		{"void", nil, ir.Void()},
		{"bigint", nil, ir.BigInt()},
		{"{}", nil, ir.Object()},
		{
			"{ id: string; tags?: string[], get(): User }",
			nil,
			ir.Object(
				ir.Prop("id", ir.String()),
				ir.OptionalProp("tags", ir.Array(ir.String())),
				ir.Member{Name: "get", Type: &ir.SignatureShape{Returns: ir.Ref("User")}, Method: true},
			),
		},
		{
			"(id: string, opts?: Options) => User",
			nil,
			&ir.SignatureShape{
				Parameters: []ir.Parameter{{Name: "id", Type: ir.String()}, {Name: "opts", Type: ir.Ref("Options"), Optional: true}},
				Returns:    ir.Ref("User"),
			},
		},
		{
			"<T>(...items: T[]) => T",
			nil,
			&ir.SignatureShape{
				TypeParameters: []ir.TypeParameterShape{{ParamName: "T"}},
				Parameters:     []ir.Parameter{{Name: "items", Type: ir.Array(ir.TypeParam("T"))}},
				Returns:        ir.TypeParam("T"),
			},
		},
		{"() => () => void", nil, &ir.SignatureShape{Returns: &ir.SignatureShape{Returns: ir.Void()}}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseType(tt.expr, tt.params...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseType_Errors(t *testing.T) {
	for _, expr := range []string{
		"",
		"string |",
		"Page<User",
		"{ id: string",
		"[string,",
		"'open",
		"a # b",
		"string number",
		"(x: number) =>",
	} {
		_, err := ParseType(expr)
		assert.Error(t, err, "expr %q", expr)
	}
}

func TestParseHeader(t *testing.T) {
	name, tparams, err := ParseHeader("Page<T, K extends string = 'id'>")
	require.NoError(t, err)
	assert.Equal(t, "Page", name)
	assert.Equal(t, []ir.TypeParameterShape{
		{ParamName: "T"},
		{ParamName: "K", Constraint: ir.String(), Default: ir.Literal("id")},
	}, tparams)

	name, tparams, err = ParseHeader("User")
	require.NoError(t, err)
	assert.Equal(t, "User", name)
	assert.Nil(t, tparams)

	_, _, err = ParseHeader("User Admin")
	assert.Error(t, err)
}

func TestParseHeader_SelfReferencingDefault(t *testing.T) {
	_, tparams, err := ParseHeader("Node<T, U = T[]>")
	require.NoError(t, err)
	require.Len(t, tparams, 2)
	assert.Equal(t, ir.Array(ir.TypeParam("T")), tparams[1].Default)
}

func TestParseMemberKey(t *testing.T) {
	tests := []struct {
		key              string
		name             string
		optional, method bool
	}{
		{"id", "id", false, false},
		{"email?", "email", true, false},
		{"get()", "get", false, true},
		{"find(id: string)", "find", false, true},
		{"load?()", "load", true, true},
	}
	for _, tt := range tests {
		name, optional, method := ParseMemberKey(tt.key)
		assert.Equal(t, tt.name, name, tt.key)
		assert.Equal(t, tt.optional, optional, tt.key)
		assert.Equal(t, tt.method, method, tt.key)
	}
}
