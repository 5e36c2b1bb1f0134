package ir

import (
	"strconv"
	"strings"
)

// Schema represents a complete set of declarations and the mock requests
// made against them.
type Schema struct {
	// Package describes where the declarations came from.
	Package PackageInfo

	// Declarations contains the named declarations: InterfaceDecl,
	// AliasDecl, EnumDecl and FunctionDecl. Expression shapes appear nested
	// within them. Order carries no meaning; declarations may reference
	// each other in cycles.
	Declarations []TypeShape

	// Units contains the compilation units (one per output file), each
	// holding the mock sites requested in that file.
	Units []CompilationUnit

	// Warnings contains non-fatal issues encountered during schema building.
	Warnings []Warning
}

// CompilationUnit groups the mock sites of one source file.
type CompilationUnit struct {
	// File is the unit's file name, used to name the generated output.
	File string

	// Mocks are the requested mocks in source order.
	Mocks []MockSite
}

// MockSite is a single request for a mock value.
type MockSite struct {
	// Name is the exported binding for the mock in generated output.
	// Empty names are assigned positionally ("mock0", "mock1", ...).
	Name string

	// Type is the mocked type, usually a ReferenceShape.
	Type TypeShape

	// Hydrated fills optional and undefined-bearing members.
	Hydrated bool

	// Count > 0 requests a list of Count mocks.
	Count int

	// Source location of the request.
	Source Source
}

// AddDeclaration adds a named declaration to the schema.
func (s *Schema) AddDeclaration(t TypeShape) {
	s.Declarations = append(s.Declarations, t)
}

// AddUnit adds a compilation unit to the schema.
func (s *Schema) AddUnit(u CompilationUnit) {
	s.Units = append(s.Units, u)
}

// AddWarning adds a warning to the schema.
func (s *Schema) AddWarning(w Warning) {
	s.Warnings = append(s.Warnings, w)
}

// FindDeclaration looks up a declaration by exact identifier.
// Returns nil if not found.
func (s *Schema) FindDeclaration(name Identifier) TypeShape {
	for _, t := range s.Declarations {
		if t.TypeName() == name {
			return t
		}
	}
	return nil
}

// Lookup resolves a reference target. An identifier without a module
// matches a declaration of that name in any module when exactly one exists.
func (s *Schema) Lookup(name Identifier) TypeShape {
	if t := s.FindDeclaration(name); t != nil || name.Module != "" {
		return t
	}
	var found TypeShape
	for _, t := range s.Declarations {
		if t.TypeName().Name == name.Name {
			if found != nil {
				return nil
			}
			found = t
		}
	}
	return found
}

// FindUnit looks up a compilation unit by file name. Returns nil if not found.
func (s *Schema) FindUnit(file string) *CompilationUnit {
	for i := range s.Units {
		if s.Units[i].File == file {
			return &s.Units[i]
		}
	}
	return nil
}

// Validate checks the schema for structural issues.
// Returns all validation errors found (not just the first).
func (s *Schema) Validate() []error {
	var errors []*ValidationError

	names := make(map[Identifier]bool)
	for _, t := range s.Declarations {
		name := t.TypeName()
		if name.IsZero() {
			errors = append(errors, &ValidationError{
				Code:    "unnamed_declaration",
				Message: "declaration of kind " + t.Kind().String() + " has no name",
			})
			continue
		}
		if names[name] {
			errors = append(errors, &ValidationError{
				Code:    "duplicate_declaration",
				Message: "duplicate declaration name: " + name.String(),
			})
		}
		names[name] = true
	}

	for _, t := range s.Declarations {
		context := "declaration " + t.TypeName().String()
		switch d := t.(type) {
		case *InterfaceDecl:
			for _, h := range d.Heritage {
				if s.Lookup(h.Target) == nil {
					errors = append(errors, &ValidationError{
						Code:    "missing_heritage_reference",
						Message: context + " extends unknown type: " + h.Target.String(),
					})
				}
				for _, arg := range h.TypeArguments {
					errors = append(errors, s.validateReferences(arg, context)...)
				}
			}
			for _, m := range d.Members {
				errors = append(errors, s.validateReferences(m.Type, context+" member "+m.Name)...)
			}
			if d.CallSignature != nil {
				errors = append(errors, s.validateReferences(d.CallSignature, context)...)
			}
		case *AliasDecl:
			if d.Underlying == nil {
				errors = append(errors, &ValidationError{
					Code:    "missing_underlying",
					Message: context + " has no underlying type",
				})
				continue
			}
			errors = append(errors, s.validateReferences(d.Underlying, context)...)
		case *FunctionDecl:
			if d.Signature != nil {
				errors = append(errors, s.validateReferences(d.Signature, context)...)
			}
		case *EnumDecl:
			for _, m := range d.Members {
				switch m.Value.(type) {
				case string, int64, float64:
				default:
					errors = append(errors, &ValidationError{
						Code:    "invalid_enum_value",
						Message: context + " member " + m.Name + " must be a string, int64 or float64",
					})
				}
			}
		}
	}

	errors = append(errors, s.detectCircularHeritage()...)

	for _, u := range s.Units {
		if u.File == "" {
			errors = append(errors, &ValidationError{
				Code:    "unnamed_unit",
				Message: "compilation unit has no file name",
			})
		}
		bindings := make(map[string]bool)
		for i, m := range u.Mocks {
			context := "unit " + u.File + " mock " + m.Name
			if m.Type == nil {
				errors = append(errors, &ValidationError{
					Code:    "missing_mock_type",
					Message: context + " has no type",
				})
				continue
			}
			if m.Count < 0 {
				errors = append(errors, &ValidationError{
					Code:    "invalid_mock_count",
					Message: context + " has a negative count",
				})
			}
			name := m.Name
			if name == "" {
				name = MockName(i)
			}
			if bindings[name] {
				errors = append(errors, &ValidationError{
					Code:    "duplicate_mock_name",
					Message: "duplicate mock name in unit " + u.File + ": " + name,
				})
			}
			bindings[name] = true
			errors = append(errors, s.validateReferences(m.Type, context)...)
		}
	}

	var result []error
	for _, e := range errors {
		result = append(result, e)
	}
	return result
}

// validateReferences recursively walks a TypeShape and checks that all
// references and type queries point to declarations in the schema.
func (s *Schema) validateReferences(t TypeShape, context string) []*ValidationError {
	if t == nil {
		return nil
	}

	var errors []*ValidationError
	switch d := t.(type) {
	case *ReferenceShape:
		if s.Lookup(d.Target) == nil {
			errors = append(errors, &ValidationError{
				Code:    "missing_type_reference",
				Message: context + " references unknown type: " + d.Target.String(),
			})
		}
		for _, arg := range d.TypeArguments {
			errors = append(errors, s.validateReferences(arg, context)...)
		}
	case *TypeQueryShape:
		if s.Lookup(d.Target) == nil {
			errors = append(errors, &ValidationError{
				Code:    "missing_type_query",
				Message: context + " queries unknown declaration: " + d.Target.String(),
			})
		}
	case *ArrayShape:
		errors = append(errors, s.validateReferences(d.Element, context)...)
	case *TupleShape:
		for _, e := range d.Elements {
			errors = append(errors, s.validateReferences(e, context)...)
		}
	case *MapShape:
		errors = append(errors, s.validateReferences(d.Key, context)...)
		errors = append(errors, s.validateReferences(d.Value, context)...)
	case *UnionShape:
		for _, m := range d.Types {
			errors = append(errors, s.validateReferences(m, context)...)
		}
	case *IntersectionShape:
		for _, m := range d.Types {
			errors = append(errors, s.validateReferences(m, context)...)
		}
	case *SignatureShape:
		for _, p := range d.Parameters {
			errors = append(errors, s.validateReferences(p.Type, context)...)
		}
		errors = append(errors, s.validateReferences(d.Returns, context)...)
	case *ObjectShape:
		for _, m := range d.Members {
			errors = append(errors, s.validateReferences(m.Type, context+"."+m.Name)...)
		}
	case *TypeParameterShape, *PrimitiveShape, *LiteralShape:
		// No references
	}
	return errors
}

// ValidationError represents a schema validation error.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Recoverable reports whether compilation can proceed despite the error.
// Dangling references degrade to fallback mocks with a diagnostic.
func (e *ValidationError) Recoverable() bool {
	switch e.Code {
	case "missing_type_reference", "missing_type_query", "missing_heritage_reference":
		return true
	}
	return false
}

// detectCircularHeritage checks for cycles in interface and class heritage.
func (s *Schema) detectCircularHeritage() []*ValidationError {
	var errors []*ValidationError

	objects := make(map[Identifier]*InterfaceDecl)
	var order []Identifier
	for _, t := range s.Declarations {
		if d, ok := t.(*InterfaceDecl); ok {
			objects[d.Name] = d
			order = append(order, d.Name)
		}
	}

	// DFS cycle detection
	visited := make(map[Identifier]bool)
	inStack := make(map[Identifier]bool)

	var detectCycle func(name Identifier, path []string)
	detectCycle = func(name Identifier, path []string) {
		if inStack[name] {
			cyclePath := append(path, name.Name)
			errors = append(errors, &ValidationError{
				Code:    "circular_heritage",
				Message: "circular heritage detected: " + strings.Join(cyclePath, " -> "),
			})
			return
		}
		if visited[name] {
			return
		}

		visited[name] = true
		inStack[name] = true

		if d, ok := objects[name]; ok {
			for _, h := range d.Heritage {
				if target, ok := s.Lookup(h.Target).(*InterfaceDecl); ok {
					detectCycle(target.Name, append(path, name.Name))
				}
			}
		}

		inStack[name] = false
	}

	for _, name := range order {
		detectCycle(name, nil)
	}

	return errors
}

// MockName returns the positional binding name for an unnamed mock site.
func MockName(i int) string {
	return "mock" + strconv.Itoa(i)
}
