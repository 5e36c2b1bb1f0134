// Package directive parses tymock directives from Go source files.
//
// Directives are line comments in the doc comment of a type declaration:
//
//	//tymock:mock [name] [hydrated] [count=N]
//
// Each directive requests one mock of the declared type in the compilation
// unit of the file that contains it. The name defaults to the type name
// with its first letter lowered. hydrated fills optional members; count
// requests a list of N mocks.
package directive

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/tools/go/packages"
)

// Prefix starts every directive comment.
const Prefix = "//tymock:"

// Directive represents a parsed mock request.
type Directive struct {
	Name     string         // mock name
	TypeName string         // name of the annotated type
	Hydrated bool           // fill optional members
	Count    int            // list length; 0 for a single mock
	Pos      token.Position // source location
}

// Result contains all directives found in a package.
type Result struct {
	// Mocks contains the //tymock:mock directives in file and source order.
	Mocks []Directive

	// PackagePath is the import path of the parsed package.
	PackagePath string

	// Dir is the directory containing the package.
	Dir string
}

// Files groups the directives by file name, preserving order. The second
// result lists the file names in first-appearance order.
func (r *Result) Files() (map[string][]Directive, []string) {
	byFile := make(map[string][]Directive)
	var order []string
	for _, d := range r.Mocks {
		if _, ok := byFile[d.Pos.Filename]; !ok {
			order = append(order, d.Pos.Filename)
		}
		byFile[d.Pos.Filename] = append(byFile[d.Pos.Filename], d)
	}
	return byFile, order
}

// Parse scans a Go package for tymock directives.
//
// The pattern follows go command semantics:
//   - "." for current directory
//   - Import path like "github.com/foo/bar"
//   - Absolute or relative directory path
//
// Returns an error if:
//   - The package cannot be loaded
//   - A directive is malformed
//   - A directive is not attached to a type declaration
func Parse(pattern string) (*Result, error) {
	return ParseDir(pattern, "")
}

// ParseDir is like Parse but allows specifying a working directory.
// If dir is empty, the current directory is used.
func ParseDir(pattern, dir string) (*Result, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles,
		Dir:  dir,
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %q", pattern)
	}

	if len(pkgs) > 1 {
		return nil, fmt.Errorf("multiple packages found matching %q; specify a single package", pattern)
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("package errors: %v", pkg.Errors[0])
	}

	fset := token.NewFileSet()
	var files []*ast.File
	for _, filename := range pkg.GoFiles {
		f, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
		files = append(files, f)
	}

	result, err := FromSyntax(fset, files)
	if err != nil {
		return nil, err
	}
	result.PackagePath = pkg.PkgPath
	if len(pkg.GoFiles) > 0 {
		result.Dir = filepath.Dir(pkg.GoFiles[0])
	}
	return result, nil
}

// FromSyntax extracts directives from already parsed files. The files must
// have been parsed with parser.ParseComments.
func FromSyntax(fset *token.FileSet, files []*ast.File) (*Result, error) {
	result := &Result{}
	for _, f := range files {
		directives, err := parseFile(fset, f)
		if err != nil {
			return nil, err
		}
		result.Mocks = append(result.Mocks, directives...)
	}
	return result, nil
}

// parseFile extracts directives from a single file.
func parseFile(fset *token.FileSet, f *ast.File) ([]Directive, error) {
	var directives []Directive

	// Directives are keyed by the end of their comment group so they can
	// be matched to the type declaration the group documents.
	pending := make(map[token.Pos][]Directive)

	for _, cg := range f.Comments {
		for _, c := range cg.List {
			if !strings.HasPrefix(c.Text, Prefix) {
				continue
			}
			pos := fset.Position(c.Pos())
			d, err := parseDirective(strings.TrimPrefix(c.Text, Prefix), pos)
			if err != nil {
				return nil, err
			}
			pending[cg.End()] = append(pending[cg.End()], d)
		}
	}

	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && len(gen.Specs) == 1 {
				doc = gen.Doc
			}
			if doc == nil {
				continue
			}
			ds, ok := pending[doc.End()]
			if !ok {
				continue
			}
			for _, d := range ds {
				d.TypeName = ts.Name.Name
				if d.Name == "" {
					d.Name = lowerFirst(ts.Name.Name)
				}
				directives = append(directives, d)
			}
			delete(pending, doc.End())
		}
	}

	for _, ds := range pending {
		return nil, fmt.Errorf("%s: //tymock:mock directive must be followed by a type declaration", ds[0].Pos)
	}

	return directives, nil
}

// parseDirective parses the text after the prefix.
func parseDirective(text string, pos token.Position) (Directive, error) {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return Directive{}, fmt.Errorf("%s: empty directive", pos)
	}
	if parts[0] != "mock" {
		return Directive{}, fmt.Errorf("%s: unknown directive %s%s", pos, Prefix, parts[0])
	}

	d := Directive{Pos: pos}
	for i, p := range parts[1:] {
		switch {
		case p == "hydrated":
			d.Hydrated = true
		case strings.HasPrefix(p, "count="):
			n, err := strconv.Atoi(strings.TrimPrefix(p, "count="))
			if err != nil || n < 1 {
				return Directive{}, fmt.Errorf("%s: invalid count %q", pos, p)
			}
			d.Count = n
		case i == 0 && isIdentifier(p):
			d.Name = p
		default:
			return Directive{}, fmt.Errorf("%s: unexpected argument %q", pos, p)
		}
	}
	return d, nil
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return s != ""
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
