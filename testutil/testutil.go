// Package testutil provides testing helpers for building mocks from
// declarations in-process and asserting on the values they produce.
// This package is designed to be import-cycle safe and can be used from any
// package outside tymockgen.
package testutil

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/broady/tymock"
	"github.com/broady/tymock/middleware"
	"github.com/broady/tymock/tymockgen/compiler"
	"github.com/broady/tymock/tymockgen/interp"
	"github.com/broady/tymock/tymockgen/ir"
)

// MockBuilder helps construct a schema and the mocks requested from it
// with a fluent API.
type MockBuilder struct {
	schema   *ir.Schema
	file     string
	sites    map[string][]ir.MockSite
	cache    bool
	recorder *middleware.Recorder
}

// NewMocks creates a builder over decls. Mocks are requested in the unit
// "mocks.ts" until InUnit selects another.
func NewMocks(decls ...ir.TypeShape) *MockBuilder {
	schema := &ir.Schema{}
	for _, d := range decls {
		schema.AddDeclaration(d)
	}
	return &MockBuilder{
		schema: schema,
		file:   "mocks.ts",
		sites:  make(map[string][]ir.MockSite),
	}
}

// InUnit sends the following mock requests to the unit file.
func (b *MockBuilder) InUnit(file string) *MockBuilder {
	b.file = file
	return b
}

// Mock requests a mock of typ named name.
func (b *MockBuilder) Mock(name string, typ ir.TypeShape) *MockBuilder {
	return b.add(ir.MockSite{Name: name, Type: typ})
}

// Hydrated requests a mock of typ with optional members filled in.
func (b *MockBuilder) Hydrated(name string, typ ir.TypeShape) *MockBuilder {
	return b.add(ir.MockSite{Name: name, Type: typ, Hydrated: true})
}

// List requests count mocks of typ.
func (b *MockBuilder) List(name string, typ ir.TypeShape, count int) *MockBuilder {
	return b.add(ir.MockSite{Name: name, Type: typ, Count: count})
}

// CacheBetweenFiles shares factories between units.
func (b *MockBuilder) CacheBetweenFiles() *MockBuilder {
	b.cache = true
	return b
}

// WithRecorder records the factory calls made while building mocks.
func (b *MockBuilder) WithRecorder(rec *middleware.Recorder) *MockBuilder {
	b.recorder = rec
	return b
}

func (b *MockBuilder) add(site ir.MockSite) *MockBuilder {
	if _, ok := b.sites[b.file]; !ok {
		b.schema.AddUnit(ir.CompilationUnit{File: b.file})
	}
	b.sites[b.file] = append(b.sites[b.file], site)
	return b
}

// Schema returns the schema built so far.
func (b *MockBuilder) Schema() *ir.Schema {
	for i := range b.schema.Units {
		b.schema.Units[i].Mocks = b.sites[b.schema.Units[i].File]
	}
	return b.schema
}

// Build compiles every unit and loads it into a fresh registry.
// Schema validation errors fail the test.
func (b *MockBuilder) Build(t *testing.T) *interp.Interpreter {
	t.Helper()
	schema := b.Schema()
	for _, err := range schema.Validate() {
		t.Errorf("invalid schema: %v", err)
	}
	if t.Failed() {
		t.FailNow()
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := compiler.NewSession(compiler.Options{CacheBetweenFiles: b.cache, Logger: logger})
	reg := tymock.NewRegistry().WithLogger(logger)
	if b.recorder != nil {
		reg.WithInterceptor(b.recorder.Interceptor())
	}
	in := interp.New(reg).WithLogger(logger)
	in.Load(compiler.New(schema, session).CompileSchema()...)
	return in
}

// MustMock builds the named mock, failing the test on error.
func MustMock(t *testing.T, in *interp.Interpreter, name string) tymock.Value {
	t.Helper()
	v, err := in.Mock(name)
	if err != nil {
		t.Fatalf("mock %s: %v", name, err)
	}
	return v
}

// AssertPath asserts that the value at path below v equals expected.
func AssertPath(t *testing.T, v tymock.Value, expected tymock.Value, path ...string) {
	t.Helper()
	got, ok := tymock.Path(v, path...)
	if !ok {
		t.Errorf("path %v: not found", path)
		return
	}
	if tymock.Describe(got) != tymock.Describe(expected) {
		t.Errorf("path %v: expected %s, got %s", path, tymock.Describe(expected), tymock.Describe(got))
	}
}

// AssertSnapshot asserts that the snapshot of v at depth is JSON-equal to
// expected.
func AssertSnapshot(t *testing.T, v tymock.Value, depth int, expected string) {
	t.Helper()
	var want any
	if err := json.Unmarshal([]byte(expected), &want); err != nil {
		t.Fatalf("invalid expected JSON: %v", err)
	}
	data, err := tymock.MarshalSnapshot(v, depth)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	var got any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	gotJSON, _ := json.Marshal(got)
	wantJSON, _ := json.Marshal(want)
	if string(gotJSON) != string(wantJSON) {
		t.Errorf("snapshot mismatch:\nexpected: %s\ngot:      %s", wantJSON, gotJSON)
	}
}

// WriteFile writes content to name below dir and returns its path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}
