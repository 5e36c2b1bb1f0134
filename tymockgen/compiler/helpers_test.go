package compiler

import (
	"io"
	"log/slog"
	"testing"

	"github.com/broady/tymock/tymockgen/descriptor"
	"github.com/broady/tymock/tymockgen/ir"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCompiler(t *testing.T, opts Options, decls ...ir.TypeShape) *Compiler {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	schema := &ir.Schema{Package: ir.PackageInfo{Name: "test"}}
	for _, d := range decls {
		schema.AddDeclaration(d)
	}
	return New(schema, NewSession(opts))
}

// mock compiles a single mock site of shape in a fresh file.
func mock(t *testing.T, c *Compiler, shape ir.TypeShape, hydrated bool) (descriptor.Descriptor, *UnitResult) {
	t.Helper()
	res := c.CompileUnit(ir.CompilationUnit{
		File:  "test.ts",
		Mocks: []ir.MockSite{{Name: "m", Type: shape, Hydrated: hydrated}},
	})
	return res.Mocks[0].Value, res
}

func registration(res *UnitResult, key string) (Registration, bool) {
	for _, r := range res.Registrations() {
		if r.Key == key {
			return r, true
		}
	}
	return Registration{}, false
}

func registrationKeys(res *UnitResult) []string {
	var keys []string
	for _, r := range res.Registrations() {
		keys = append(keys, r.Key)
	}
	return keys
}

func warningCodes(s *Session) []string {
	var codes []string
	for _, w := range s.Warnings() {
		codes = append(codes, w.Code)
	}
	return codes
}
