package compiler

import (
	"github.com/broady/tymock/tymockgen/descriptor"
	"github.com/broady/tymock/tymockgen/ir"
)

// Statement is a top-level statement emitted at the head of a generated file.
type Statement interface {
	statement()
}

// RuntimeImport imports the runtime registry.
type RuntimeImport struct{}

// UnitImport imports the generated output of another file so that the
// factories it registers are available.
type UnitImport struct {
	File string
}

// Registration registers a compiled factory body under its key.
type Registration struct {
	descriptor.Factory
	List RegistrationList
}

func (RuntimeImport) statement() {}
func (UnitImport) statement()    {}
func (Registration) statement()  {}

// RegistrationList identifies which per-file list a registration belongs to.
// Lists are emitted in declaration order.
type RegistrationList int

const (
	ListPlain RegistrationList = iota
	ListHydrated
	ListIntersection
)

// String returns the list name.
func (l RegistrationList) String() string {
	switch l {
	case ListPlain:
		return "plain"
	case ListHydrated:
		return "hydrated"
	case ListIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// Mock is the compiled value of one mock site.
type Mock struct {
	Name     string
	Value    descriptor.Descriptor
	Hydrated bool
	Source   ir.Source
}

// UnitResult is the compiled form of one compilation unit.
type UnitResult struct {
	File       string
	Statements []Statement
	Mocks      []Mock
}

// Registrations returns the registration statements in emission order.
func (u *UnitResult) Registrations() []Registration {
	var regs []Registration
	for _, s := range u.Statements {
		if r, ok := s.(Registration); ok {
			regs = append(regs, r)
		}
	}
	return regs
}

// Imports returns the files imported for their registrations.
func (u *UnitResult) Imports() []string {
	var files []string
	for _, s := range u.Statements {
		if i, ok := s.(UnitImport); ok {
			files = append(files, i.File)
		}
	}
	return files
}

// UsesRuntime reports whether the unit imports the runtime registry.
func (u *UnitResult) UsesRuntime() bool {
	for _, s := range u.Statements {
		if _, ok := s.(RuntimeImport); ok {
			return true
		}
	}
	return false
}
