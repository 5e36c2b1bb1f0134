// Package typescript renders compiled mock units as TypeScript modules that
// register their factories with the tymock runtime registry.
package typescript

import (
	"bytes"
	"context"

	"github.com/cockroachdb/errors"

	"github.com/broady/tymock/tymockgen/compiler"
	"github.com/broady/tymock/tymockgen/emit"
	"github.com/broady/tymock/tymockgen/sink"
)

// TypeScriptGenerator implements emit.Generator for TypeScript.
type TypeScriptGenerator struct{}

var _ emit.Generator = (*TypeScriptGenerator)(nil)

// Name returns "typescript".
func (g *TypeScriptGenerator) Name() string { return "typescript" }

// Generate writes one module per unit, named after the unit file with its
// extension replaced by the configured suffix.
func (g *TypeScriptGenerator) Generate(ctx context.Context, units []*compiler.UnitResult, opts emit.GenerateOptions) (*emit.GenerateResult, error) {
	if opts.Sink == nil {
		return nil, errors.New("typescript: no output sink")
	}
	tsConfig, err := ParseConfig(opts.Config)
	if err != nil {
		return nil, errors.Wrap(err, "typescript config")
	}
	emitter := NewEmitter(opts.Config, tsConfig)
	result := &emit.GenerateResult{}

	suffix := opts.Config.FileSuffix
	if suffix == "" {
		suffix = DefaultFileSuffix
	}

	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outPath := emit.OutputPath(unit.File, suffix)
		if err := sink.ValidatePath(outPath); err != nil {
			return nil, errors.Wrapf(err, "output for %s", unit.File)
		}

		var buf bytes.Buffer
		emitter.EmitUnit(&buf, unit, outPath)
		if err := g.write(ctx, opts, result, outPath, buf.Bytes()); err != nil {
			return nil, err
		}
		result.FactoriesGenerated += len(unit.Registrations())
		result.MocksGenerated += len(unit.Mocks)
	}

	if tsConfig.EmitRuntime {
		content := "// " + emit.Header + "\n\n" + runtimeSource
		if err := g.write(ctx, opts, result, tsConfig.RuntimeFile, []byte(content)); err != nil {
			return nil, err
		}
	}

	result.Warnings = emitter.Warnings()
	return result, nil
}

func (g *TypeScriptGenerator) write(ctx context.Context, opts emit.GenerateOptions, result *emit.GenerateResult, path string, content []byte) error {
	content = opts.Config.Finish(content)
	if err := opts.Sink.WriteFile(ctx, path, content); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	result.Files = append(result.Files, emit.OutputFile{Path: path, Size: int64(len(content))})
	return nil
}
