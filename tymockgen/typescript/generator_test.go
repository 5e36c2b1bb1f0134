package typescript

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/broady/tymock/tymockgen/compiler"
	"github.com/broady/tymock/tymockgen/emit"
	"github.com/broady/tymock/tymockgen/ir"
	"github.com/broady/tymock/tymockgen/sink"
)

func compileUnits(t *testing.T, cache bool, decls []ir.TypeShape, units ...ir.CompilationUnit) []*compiler.UnitResult {
	t.Helper()
	schema := &ir.Schema{}
	for _, d := range decls {
		schema.AddDeclaration(d)
	}
	for _, u := range units {
		schema.AddUnit(u)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := compiler.New(schema, compiler.NewSession(compiler.Options{CacheBetweenFiles: cache, Logger: logger}))
	return c.CompileSchema()
}

func TestTypeScriptGenerator_Name(t *testing.T) {
	gen := &TypeScriptGenerator{}
	if got := gen.Name(); got != "typescript" {
		t.Errorf("Name() = %q, want %q", got, "typescript")
	}
}

func TestTypeScriptGenerator_Generate(t *testing.T) {
	user := ir.Interface("User", ir.Prop("id", ir.String()), ir.OptionalProp("age", ir.Number()))
	units := compileUnits(t, true, []ir.TypeShape{user},
		ir.CompilationUnit{File: "a.test.ts", Mocks: []ir.MockSite{{Name: "user", Type: ir.Ref("User")}}},
		ir.CompilationUnit{File: "b.test.ts", Mocks: []ir.MockSite{{Name: "again", Type: ir.Ref("User")}}},
	)

	memSink := sink.NewMemorySink()
	gen := &TypeScriptGenerator{}
	result, err := gen.Generate(context.Background(), units, emit.GenerateOptions{
		Sink:   memSink,
		Config: emit.GeneratorConfig{TrailingNewline: true},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(result.Files) != 2 {
		t.Fatalf("Files = %v, want 2", result.Files)
	}
	if result.FactoriesGenerated != 1 {
		t.Errorf("FactoriesGenerated = %d, want 1", result.FactoriesGenerated)
	}
	if result.MocksGenerated != 2 {
		t.Errorf("MocksGenerated = %d, want 2", result.MocksGenerated)
	}

	a := string(memSink.Get("a.test.mocks.ts"))
	for _, w := range []string{
		`ɵRuntime.registry.registerFactory("@User", function (ɵg) {`,
		"    id: \"\",\n    age: undefined,\n",
		`export const user = ɵRuntime.registry.getFactory("@User")();`,
	} {
		if !strings.Contains(a, w) {
			t.Errorf("a.test.mocks.ts missing %q:\n%s", w, a)
		}
	}

	b := string(memSink.Get("b.test.mocks.ts"))
	if strings.Contains(b, "registerFactory") {
		t.Errorf("b.test.mocks.ts registers a cached factory:\n%s", b)
	}
	if !strings.Contains(b, `import "./a.test.mocks";`) {
		t.Errorf("b.test.mocks.ts does not import a.test.mocks:\n%s", b)
	}
}

func TestTypeScriptGenerator_EmitRuntime(t *testing.T) {
	units := compileUnits(t, false, nil, ir.CompilationUnit{File: "x.ts", Mocks: []ir.MockSite{{Type: ir.String()}}})
	memSink := sink.NewMemorySink()
	result, err := (&TypeScriptGenerator{}).Generate(context.Background(), units, emit.GenerateOptions{
		Sink: memSink,
		Config: emit.GeneratorConfig{
			FileSuffix: ".fixtures.ts",
			Custom:     map[string]any{"EmitRuntime": true, "RuntimeFile": "rt.ts"},
		},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(result.Files) != 2 || result.Files[1].Path != "rt.ts" {
		t.Fatalf("Files = %v", result.Files)
	}
	if got := string(memSink.Get("x.fixtures.ts")); !strings.Contains(got, `export const mock0 = "";`) {
		t.Errorf("x.fixtures.ts =\n%s", got)
	}
	if rt := string(memSink.Get("rt.ts")); !strings.Contains(rt, "export const registry") {
		t.Errorf("runtime =\n%s", rt)
	}
}

func TestTypeScriptGenerator_Errors(t *testing.T) {
	gen := &TypeScriptGenerator{}
	units := []*compiler.UnitResult{{File: "../escape.ts"}}

	if _, err := gen.Generate(context.Background(), units, emit.GenerateOptions{}); err == nil {
		t.Error("Generate() without sink succeeded")
	}
	if _, err := gen.Generate(context.Background(), units, emit.GenerateOptions{Sink: sink.NewMemorySink()}); err == nil {
		t.Error("Generate() with escaping path succeeded")
	}
	_, err := gen.Generate(context.Background(), nil, emit.GenerateOptions{
		Sink:   sink.NewMemorySink(),
		Config: emit.GeneratorConfig{Custom: map[string]any{"EmitRuntime": "yes"}},
	})
	if err == nil {
		t.Error("Generate() with invalid custom config succeeded")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := gen.Generate(ctx, []*compiler.UnitResult{{File: "a.ts"}}, emit.GenerateOptions{Sink: sink.NewMemorySink()}); err == nil {
		t.Error("Generate() with cancelled context succeeded")
	}
}

func TestParseConfig(t *testing.T) {
	ts, err := ParseConfig(emit.GeneratorConfig{})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if ts.RuntimeModule != DefaultRuntimeModule || ts.RuntimeFile != DefaultRuntimeFile {
		t.Errorf("defaults = %+v", ts)
	}

	ts, err = ParseConfig(emit.GeneratorConfig{Custom: map[string]any{
		"RuntimeModule":   "rt",
		"ImportExtension": ".js",
		"Unknown":         1,
	}})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if ts.RuntimeModule != "rt" || ts.ImportExtension != ".js" {
		t.Errorf("ParseConfig() = %+v", ts)
	}
}

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"user", "user"},
		{"", "_"},
		{"1st", "_1st"},
		{"a-b", "a_b"},
		{"class", "class_"},
		{"$ok", "$ok"},
		{"ɵRuntime", "ɵRuntime_"},
		{"await", "await_"},
	}
	for _, tt := range tests {
		if got := sanitizeIdentifier(tt.in); got != tt.want {
			t.Errorf("sanitizeIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPropertyName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"name", "name"},
		{"data-id", `"data-id"`},
		{"0", `"0"`},
		{"default", `"default"`},
	}
	for _, tt := range tests {
		if got := propertyName(tt.in); got != tt.want {
			t.Errorf("propertyName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
