package tymockgen

import (
	"context"
	"log/slog"

	"github.com/broady/tymock/tymockgen/ir"
	"github.com/broady/tymock/tymockgen/sink"
)

// Generator provides a fluent API for mock generation.
// Create with FromFiles(), FromPackages() or FromSchema() and configure
// with method chaining.
//
// Example:
//
//	tymockgen.FromFiles("api.yaml").
//	    Target("go").
//	    GoPackage("apimocks").
//	    ToDir("./internal/apimocks")
type Generator struct {
	cfg Config
}

// FromFiles creates a Generator reading YAML or JSON declaration files.
func FromFiles(files ...string) *Generator {
	return &Generator{cfg: Config{Provider: "file", Inputs: files}}
}

// FromPackages creates a Generator analyzing Go packages. Mocks are
// requested with //tymock:mock directives on type declarations.
func FromPackages(pkgs ...string) *Generator {
	return &Generator{cfg: Config{Provider: "source", Packages: pkgs}}
}

// FromSchema creates a Generator for a schema built in code.
//
// Example:
//
//	schema := &ir.Schema{}
//	schema.AddDeclaration(ir.Interface("User", ir.Prop("id", ir.String())))
//	schema.AddUnit(ir.CompilationUnit{File: "user.ts", Mocks: []ir.MockSite{{Name: "user", Type: ir.Ref("User")}}})
//	res, err := tymockgen.FromSchema(schema).Generate(ctx)
func FromSchema(schema *ir.Schema) *Generator {
	return &Generator{cfg: Config{Provider: "schema", Schema: schema}}
}

// FromConfig creates a Generator starting from an existing config.
func FromConfig(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// Target selects the output language: "typescript" (default) or "go".
func (g *Generator) Target(target string) *Generator {
	g.cfg.Target = target
	return g
}

// CacheBetweenFiles shares factories across generated files.
func (g *Generator) CacheBetweenFiles() *Generator {
	g.cfg.CacheBetweenFiles = true
	return g
}

// RootTypes limits Go package analysis to these types and their references.
func (g *Generator) RootTypes(names ...string) *Generator {
	g.cfg.RootTypes = append(g.cfg.RootTypes, names...)
	return g
}

// Dir sets the working directory for package loading.
func (g *Generator) Dir(dir string) *Generator {
	g.cfg.Dir = dir
	return g
}

// RuntimeModule sets the module TypeScript output imports the runtime from.
func (g *Generator) RuntimeModule(module string) *Generator {
	g.cfg.RuntimeModule = module
	return g
}

// ImportExtension sets the extension appended to relative TypeScript imports.
func (g *Generator) ImportExtension(ext string) *Generator {
	g.cfg.ImportExtension = ext
	return g
}

// EmitRuntime writes the TypeScript runtime alongside the generated files.
func (g *Generator) EmitRuntime() *Generator {
	g.cfg.EmitRuntime = true
	return g
}

// GoPackage sets the package name of generated Go files.
func (g *Generator) GoPackage(name string) *Generator {
	g.cfg.GoPackage = name
	return g
}

// FileSuffix sets the suffix that replaces each unit file's extension.
func (g *Generator) FileSuffix(suffix string) *Generator {
	g.cfg.FileSuffix = suffix
	return g
}

// Frontmatter adds content to the top of generated files.
func (g *Generator) Frontmatter(content string) *Generator {
	g.cfg.Frontmatter = content
	return g
}

// EmitComments annotates mocks with the location that requested them.
func (g *Generator) EmitComments() *Generator {
	g.cfg.EmitComments = true
	return g
}

// WithLogger sets the logger that receives diagnostics.
func (g *Generator) WithLogger(logger *slog.Logger) *Generator {
	g.cfg.Logger = logger
	return g
}

// WithSink writes generated files to s instead of a directory.
func (g *Generator) WithSink(s sink.OutputSink) *Generator {
	g.cfg.Sink = s
	return g
}

// Config returns a copy of the accumulated configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// ToDir generates files to the specified directory.
// This is a terminal operation that writes files to disk.
func (g *Generator) ToDir(ctx context.Context, dir string) (*GenerateResult, error) {
	g.cfg.OutDir = dir
	return Generate(ctx, &g.cfg)
}

// Generate runs generation without an output directory. Unless a sink was
// set, files are returned in the result's Memory sink.
func (g *Generator) Generate(ctx context.Context) (*GenerateResult, error) {
	cfg := g.cfg
	cfg.OutDir = ""
	return Generate(ctx, &cfg)
}
