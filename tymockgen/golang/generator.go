// Package golang renders compiled mock units as Go source files that
// register their factories with tymock.Default from init functions and
// expose one accessor function per mock.
package golang

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/broady/tymock/tymockgen/compiler"
	"github.com/broady/tymock/tymockgen/emit"
	"github.com/broady/tymock/tymockgen/sink"
)

// RuntimePath is the import path of the runtime generated code targets.
const RuntimePath = "github.com/broady/tymock"

// DefaultPackage is the package name of generated files.
const DefaultPackage = "mocks"

// DefaultFileSuffix names generated files after their unit.
const DefaultFileSuffix = "_mocks.go"

// GoConfig contains Go-specific options, read from GeneratorConfig.Custom.
type GoConfig struct {
	// Package is the package clause of generated files. Key: "Package".
	Package string

	// RuntimePath overrides the runtime import path. Key: "RuntimePath".
	RuntimePath string
}

// ParseConfig reads GoConfig from the Custom map of cfg.
func ParseConfig(cfg emit.GeneratorConfig) (GoConfig, error) {
	gc := GoConfig{Package: DefaultPackage, RuntimePath: RuntimePath}
	for key, value := range cfg.Custom {
		switch key {
		case "Package", "RuntimePath":
			s, ok := value.(string)
			if !ok {
				return gc, fmt.Errorf("%s: want string, got %T", key, value)
			}
			if s == "" {
				continue
			}
			if key == "Package" {
				gc.Package = s
			} else {
				gc.RuntimePath = s
			}
		}
	}
	if !isIdentifier(gc.Package) {
		return gc, fmt.Errorf("Package: %q is not a valid package name", gc.Package)
	}
	return gc, nil
}

// GoGenerator implements emit.Generator for Go.
type GoGenerator struct{}

var _ emit.Generator = (*GoGenerator)(nil)

// Name returns "go".
func (g *GoGenerator) Name() string { return "go" }

// Generate writes one Go file per unit. All files share one package, so
// factories registered by other units need no import.
func (g *GoGenerator) Generate(ctx context.Context, units []*compiler.UnitResult, opts emit.GenerateOptions) (*emit.GenerateResult, error) {
	if opts.Sink == nil {
		return nil, errors.New("go: no output sink")
	}
	goConfig, err := ParseConfig(opts.Config)
	if err != nil {
		return nil, errors.Wrap(err, "go config")
	}
	suffix := opts.Config.FileSuffix
	if suffix == "" {
		suffix = DefaultFileSuffix
	}

	emitter := NewEmitter(opts.Config, goConfig)
	result := &emit.GenerateResult{}
	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outPath := emit.OutputPath(unit.File, suffix)
		if err := sink.ValidatePath(outPath); err != nil {
			return nil, errors.Wrapf(err, "output for %s", unit.File)
		}

		var buf bytes.Buffer
		if err := emitter.EmitUnit(&buf, unit); err != nil {
			return nil, errors.Wrapf(err, "render %s", outPath)
		}
		content := buf.Bytes()
		if opts.Config.LineEnding == "crlf" {
			content = bytes.ReplaceAll(content, []byte("\n"), []byte("\r\n"))
		}
		if err := opts.Sink.WriteFile(ctx, outPath, content); err != nil {
			return nil, errors.Wrapf(err, "write %s", outPath)
		}
		result.Files = append(result.Files, emit.OutputFile{Path: outPath, Size: int64(len(content))})
		result.FactoriesGenerated += len(unit.Registrations())
		result.MocksGenerated += len(unit.Mocks)
	}
	result.Warnings = emitter.Warnings()
	return result, nil
}
