// Package ir defines the type shapes the mock compiler consumes.
// Shapes are built once at the boundary by a provider (declaration files,
// Go packages) and are immutable for the duration of a compilation pass.
package ir

import "strconv"

// Identifier names a declaration together with the module that declares it.
type Identifier struct {
	// Name is the declared name (e.g. "User").
	Name string

	// Module is the declaring module or package path.
	// Empty when the schema has a single namespace.
	Module string
}

// IsZero returns true if the identifier is empty.
func (id Identifier) IsZero() bool {
	return id.Name == "" && id.Module == ""
}

// String returns the qualified name.
func (id Identifier) String() string {
	if id.Module == "" {
		return id.Name
	}
	return id.Module + "." + id.Name
}

// Documentation holds documentation comments extracted from source.
type Documentation struct {
	// Summary is the first sentence or paragraph.
	Summary string

	// Body is the complete documentation text, including the summary.
	Body string

	// Deprecated is non-nil if the symbol is marked deprecated.
	// The string value is the deprecation message (may be empty).
	Deprecated *string
}

// IsZero returns true if the documentation is empty.
func (d Documentation) IsZero() bool {
	return d.Summary == "" && d.Body == "" && d.Deprecated == nil
}

// Source represents source code location information.
type Source struct {
	File   string
	Line   int
	Column int
}

// IsZero returns true if the source location is empty.
func (s Source) IsZero() bool {
	return s.File == "" && s.Line == 0 && s.Column == 0
}

// String formats the location as file:line:column, omitting unknown parts.
func (s Source) String() string {
	out := s.File
	if s.Line > 0 {
		out += ":" + strconv.Itoa(s.Line)
		if s.Column > 0 {
			out += ":" + strconv.Itoa(s.Column)
		}
	}
	return out
}

// Warning represents a non-fatal issue encountered while loading or compiling.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// Source is the location that triggered the warning, if applicable.
	Source *Source

	// TypeName is the type that triggered the warning, if applicable.
	TypeName string
}

// String formats the warning as "CODE: message", prefixed by its location.
func (w Warning) String() string {
	msg := w.Code + ": " + w.Message
	if w.Source != nil && !w.Source.IsZero() {
		return w.Source.String() + ": " + msg
	}
	return msg
}

// PackageInfo describes where the declarations came from.
type PackageInfo struct {
	// Path is the import path or module specifier.
	Path string

	// Name is the package name.
	Name string

	// Dir is the filesystem directory, if known.
	Dir string
}

// IsZero returns true if the package info is empty.
func (p PackageInfo) IsZero() bool {
	return p.Path == "" && p.Name == "" && p.Dir == ""
}
