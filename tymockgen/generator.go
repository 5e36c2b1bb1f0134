package tymockgen

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/broady/tymock/tymockgen/compiler"
	"github.com/broady/tymock/tymockgen/emit"
	"github.com/broady/tymock/tymockgen/golang"
	"github.com/broady/tymock/tymockgen/ir"
	"github.com/broady/tymock/tymockgen/provider"
	"github.com/broady/tymock/tymockgen/sink"
	"github.com/broady/tymock/tymockgen/typescript"
)

// Config holds the configuration for mock generation.
// Fields carry yaml, toml and schema tags so the same struct is read from
// config files and from key=value overrides.
type Config struct {
	// OutDir is the directory where generated files will be written.
	// When empty and no Sink is set, files are kept in memory.
	OutDir string `yaml:"outDir" toml:"outDir" schema:"outDir"`

	// Provider selects where declarations and mock requests come from.
	// "file" - YAML or JSON declaration files listed in Inputs
	// "source" - Go packages with //tymock:mock directives
	// Defaults to "file" when Inputs is set, otherwise "source".
	Provider string `yaml:"provider" toml:"provider" schema:"provider" validate:"omitempty,oneof=file source schema"`

	// Inputs are the declaration files read by the file provider.
	Inputs []string `yaml:"inputs" toml:"inputs" schema:"inputs" validate:"required_if=Provider file,dive,required"`

	// Packages are the Go package patterns analyzed by the source provider.
	// e.g. []string{"github.com/myorg/myapp/api"}
	Packages []string `yaml:"packages" toml:"packages" schema:"packages" validate:"required_if=Provider source,dive,required"`

	// RootTypes limits the source provider to these types and the types
	// they reference. Directive targets are always included.
	RootTypes []string `yaml:"rootTypes" toml:"rootTypes" schema:"rootTypes"`

	// Dir is the working directory for package loading.
	Dir string `yaml:"dir" toml:"dir" schema:"dir"`

	// Target selects the emission backend: "typescript" (default) or "go".
	Target string `yaml:"target" toml:"target" schema:"target" validate:"omitempty,oneof=typescript go"`

	// CacheBetweenFiles shares factories across units. A unit importing
	// an earlier unit's output replaces registering the factory again.
	CacheBetweenFiles bool `yaml:"cacheBetweenFiles" toml:"cacheBetweenFiles" schema:"cacheBetweenFiles"`

	// RuntimeModule is the TypeScript module the generated files import.
	// Default: "@tymock/runtime"
	RuntimeModule string `yaml:"runtimeModule" toml:"runtimeModule" schema:"runtimeModule"`

	// ImportExtension is appended to relative TypeScript imports, e.g. ".js".
	ImportExtension string `yaml:"importExtension" toml:"importExtension" schema:"importExtension"`

	// EmitRuntime writes the TypeScript runtime next to the generated files
	// and imports it instead of RuntimeModule.
	EmitRuntime bool `yaml:"emitRuntime" toml:"emitRuntime" schema:"emitRuntime"`

	// GoPackage is the package name of generated Go files.
	// Default: "mocks"
	GoPackage string `yaml:"goPackage" toml:"goPackage" schema:"goPackage"`

	// FileSuffix replaces the extension of each unit's file.
	// Defaults to ".mocks.ts" for TypeScript and "_mocks.go" for Go.
	FileSuffix string `yaml:"fileSuffix" toml:"fileSuffix" schema:"fileSuffix"`

	// Frontmatter is content added after the header of each generated file.
	Frontmatter string `yaml:"frontmatter" toml:"frontmatter" schema:"frontmatter"`

	// IndentStyle is "space" (default) or "tab".
	IndentStyle string `yaml:"indentStyle" toml:"indentStyle" schema:"indentStyle" validate:"omitempty,oneof=space tab"`

	// IndentSize is the number of spaces per level. Default: 2
	IndentSize int `yaml:"indentSize" toml:"indentSize" schema:"indentSize" validate:"gte=0,lte=8"`

	// LineEnding is "lf" (default) or "crlf".
	LineEnding string `yaml:"lineEnding" toml:"lineEnding" schema:"lineEnding" validate:"omitempty,oneof=lf crlf"`

	// EmitComments annotates each mock with the location that requested it.
	EmitComments bool `yaml:"emitComments" toml:"emitComments" schema:"emitComments"`

	// Schema is used as-is by the "schema" provider.
	Schema *ir.Schema `yaml:"-" toml:"-" schema:"-"`

	// Sink receives the generated files, overriding OutDir.
	Sink sink.OutputSink `yaml:"-" toml:"-" schema:"-"`

	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger `yaml:"-" toml:"-" schema:"-"`
}

// GenerateResult describes one generation run.
type GenerateResult struct {
	// Files lists the files written, in unit order.
	Files []emit.OutputFile

	// Units are the compiled units, in schema order.
	Units []*compiler.UnitResult

	// Schema is the schema the units were compiled from.
	Schema *ir.Schema

	// FactoriesGenerated counts registered factories across all files.
	FactoriesGenerated int

	// MocksGenerated counts exported mocks across all files.
	MocksGenerated int

	// Warnings collects provider, validation, compiler and emitter
	// warnings in that order.
	Warnings []ir.Warning

	// Memory holds the generated files when no OutDir or Sink was set.
	Memory *sink.MemorySink
}

// Generate loads the configured declarations, compiles every mock request
// and writes one generated file per compilation unit.
func Generate(ctx context.Context, cfg *Config) (*GenerateResult, error) {
	cfg = applyConfigDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger

	// 1. Build schema using configured provider
	schema, err := buildSchema(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build schema")
	}

	result := &GenerateResult{Schema: schema}
	result.Warnings = append(result.Warnings, schema.Warnings...)

	// 2. Validate; dangling references degrade to fallback mocks
	var fatal []string
	for _, e := range schema.Validate() {
		var ve *ir.ValidationError
		if errors.As(e, &ve) && ve.Recoverable() {
			result.Warnings = append(result.Warnings, ir.Warning{Code: strings.ToUpper(ve.Code), Message: ve.Message})
			continue
		}
		fatal = append(fatal, e.Error())
	}
	if len(fatal) > 0 {
		return nil, errors.WithHint(
			errors.Newf("invalid schema: %s", strings.Join(fatal, "; ")),
			"fix the declarations above; unresolved references alone are only warnings",
		)
	}

	// 3. Compile every unit in order
	session := compiler.NewSession(compiler.Options{
		CacheBetweenFiles: cfg.CacheBetweenFiles,
		Logger:            logger,
	})
	result.Units = compiler.New(schema, session).CompileSchema()
	result.Warnings = append(result.Warnings, session.Warnings()...)

	// 4. Choose sink
	out := cfg.Sink
	if out == nil {
		if cfg.OutDir == "" {
			result.Memory = sink.NewMemorySink()
			out = result.Memory
		} else {
			out = sink.NewFilesystemSink(cfg.OutDir)
		}
	}

	// 5. Emit
	gen, err := backend(cfg.Target)
	if err != nil {
		return nil, err
	}
	emitted, err := gen.Generate(ctx, result.Units, emit.GenerateOptions{
		Sink:   out,
		Config: generatorConfig(cfg),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to generate %s", gen.Name())
	}
	result.Files = emitted.Files
	result.FactoriesGenerated = emitted.FactoriesGenerated
	result.MocksGenerated = emitted.MocksGenerated
	result.Warnings = append(result.Warnings, emitted.Warnings...)

	for _, w := range result.Warnings {
		attrs := []any{slog.String("code", w.Code)}
		if w.TypeName != "" {
			attrs = append(attrs, slog.String("type", w.TypeName))
		}
		if w.Source != nil {
			attrs = append(attrs, slog.String("file", w.Source.File), slog.Int("line", w.Source.Line))
		}
		logger.Warn(w.Message, attrs...)
	}
	logger.Debug("generated mocks",
		slog.Int("files", len(result.Files)),
		slog.Int("factories", result.FactoriesGenerated),
		slog.Int("mocks", result.MocksGenerated))

	return result, nil
}

// backend returns the emission backend for target.
func backend(target string) (emit.Generator, error) {
	switch target {
	case "typescript":
		return &typescript.TypeScriptGenerator{}, nil
	case "go":
		return &golang.GoGenerator{}, nil
	}
	return nil, errors.Newf("unknown target: %q (expected \"typescript\" or \"go\")", target)
}

// generatorConfig translates Config into backend options.
func generatorConfig(cfg *Config) emit.GeneratorConfig {
	gc := emit.GeneratorConfig{
		FileSuffix:      cfg.FileSuffix,
		Frontmatter:     cfg.Frontmatter,
		IndentStyle:     cfg.IndentStyle,
		IndentSize:      cfg.IndentSize,
		LineEnding:      cfg.LineEnding,
		TrailingNewline: true,
		EmitComments:    cfg.EmitComments,
		Custom:          map[string]any{},
	}
	switch cfg.Target {
	case "typescript":
		if cfg.RuntimeModule != "" {
			gc.Custom["RuntimeModule"] = cfg.RuntimeModule
		}
		gc.Custom["ImportExtension"] = cfg.ImportExtension
		gc.Custom["EmitRuntime"] = cfg.EmitRuntime
	case "go":
		if cfg.GoPackage != "" {
			gc.Custom["Package"] = cfg.GoPackage
		}
	}
	return gc
}

// applyConfigDefaults applies default values to Config.
func applyConfigDefaults(cfg *Config) *Config {
	// Make a copy to avoid mutating the input
	result := *cfg

	if result.Provider == "" {
		switch {
		case result.Schema != nil:
			result.Provider = "schema"
		case len(result.Inputs) > 0:
			result.Provider = "file"
		default:
			result.Provider = "source"
		}
	}
	if result.Target == "" {
		result.Target = "typescript"
	}
	if result.IndentStyle == "" {
		result.IndentStyle = "space"
	}
	if result.IndentSize == 0 {
		result.IndentSize = 2
	}
	if result.LineEnding == "" {
		result.LineEnding = "lf"
	}
	if result.Logger == nil {
		result.Logger = slog.Default()
	}

	return &result
}

// buildSchema runs the configured provider.
func buildSchema(ctx context.Context, cfg *Config) (*ir.Schema, error) {
	switch cfg.Provider {
	case "schema":
		if cfg.Schema == nil {
			return nil, errors.New("schema provider requires a schema")
		}
		return cfg.Schema, nil
	case "file":
		p := &provider.DeclFileProvider{}
		return p.BuildSchema(ctx, provider.DeclFileOptions{Files: cfg.Inputs})
	case "source":
		p := &provider.SourceProvider{}
		return p.BuildSchema(ctx, provider.SourceInputOptions{
			Packages:  cfg.Packages,
			RootTypes: cfg.RootTypes,
			Dir:       cfg.Dir,
		})
	}
	return nil, errors.Newf("unknown provider: %q (expected \"file\" or \"source\")", cfg.Provider)
}
