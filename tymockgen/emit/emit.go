// Package emit defines the interface shared by the emission backends that
// render compiled units to source files.
package emit

import (
	"context"
	"path"
	"strings"

	"github.com/broady/tymock/tymockgen/compiler"
	"github.com/broady/tymock/tymockgen/ir"
	"github.com/broady/tymock/tymockgen/sink"
)

// Header is the first line of every generated file.
const Header = "Code generated by tymock. DO NOT EDIT."

// Generator renders compiled units into target language source code.
type Generator interface {
	// Name returns the generator's identifier (e.g., "typescript", "go").
	Name() string

	// Generate writes one output file per unit to opts.Sink.
	Generate(ctx context.Context, units []*compiler.UnitResult, opts GenerateOptions) (*GenerateResult, error)
}

// GenerateOptions configures generation behavior.
type GenerateOptions struct {
	// Sink receives generated output files.
	Sink sink.OutputSink

	// Config contains generator-specific configuration.
	Config GeneratorConfig
}

// GenerateResult contains generation output metadata.
type GenerateResult struct {
	// Files lists all files that were written.
	Files []OutputFile

	// FactoriesGenerated counts registered factories across all files.
	FactoriesGenerated int

	// MocksGenerated counts exported mocks across all files.
	MocksGenerated int

	// Warnings contains non-fatal issues encountered.
	Warnings []ir.Warning
}

// OutputFile describes a generated file.
type OutputFile struct {
	// Path is the relative path of the generated file.
	Path string

	// Size is the number of bytes written.
	Size int64
}

// GeneratorConfig provides common configuration options.
type GeneratorConfig struct {
	// FileSuffix replaces the extension of a unit's file to name its output.
	FileSuffix string

	// Frontmatter is written verbatim after the generated-code header.
	Frontmatter string

	// Formatting
	IndentStyle     string // "space" or "tab"
	IndentSize      int    // Spaces per indent level (when IndentStyle is "space")
	LineEnding      string // "lf" or "crlf"
	TrailingNewline bool   // Ensure files end with a newline

	// EmitComments annotates mocks with the location that requested them.
	EmitComments bool

	// Custom contains generator-specific options.
	Custom map[string]any
}

// Indent returns one level of indentation.
func (c GeneratorConfig) Indent() string {
	if c.IndentStyle == "tab" {
		return "\t"
	}
	size := c.IndentSize
	if size <= 0 {
		size = 2
	}
	return strings.Repeat(" ", size)
}

// Finish applies line ending and trailing newline settings to content.
func (c GeneratorConfig) Finish(content []byte) []byte {
	s := strings.TrimRight(string(content), "\n")
	if c.TrailingNewline {
		s += "\n"
	}
	if c.LineEnding == "crlf" {
		s = strings.ReplaceAll(s, "\n", "\r\n")
	}
	return []byte(s)
}

// OutputPath returns the output path of the unit file, with its extension
// replaced by suffix.
func OutputPath(file, suffix string) string {
	file = path.Clean(strings.ReplaceAll(file, "\\", "/"))
	return strings.TrimSuffix(file, path.Ext(file)) + suffix
}

// RelativeImport returns the import path of target as seen from the file
// from, both slash-separated paths relative to the same root. The result
// always starts with "./" or "../".
func RelativeImport(from, target string) string {
	fromDir := strings.Split(path.Dir(path.Clean(from)), "/")
	to := strings.Split(path.Clean(target), "/")
	if len(fromDir) == 1 && fromDir[0] == "." {
		fromDir = nil
	}
	i := 0
	for i < len(fromDir) && i < len(to)-1 && fromDir[i] == to[i] {
		i++
	}
	var b strings.Builder
	if i == len(fromDir) {
		b.WriteString("./")
	}
	for range fromDir[i:] {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(to[i:], "/"))
	return b.String()
}
