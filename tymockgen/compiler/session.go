package compiler

import (
	"log/slog"

	"github.com/broady/tymock/tymockgen/descriptor"
	"github.com/broady/tymock/tymockgen/ir"
)

// Options configures a compilation session.
type Options struct {
	// CacheBetweenFiles keeps factories across compilation units. A unit
	// that looks up a factory compiled by an earlier unit imports that
	// unit's output instead of registering the factory again.
	CacheBetweenFiles bool

	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Session owns every cache of one compilation run and the per-file
// registration lists. It is not safe for concurrent use; files are
// compiled one at a time.
type Session struct {
	opts   Options
	logger *slog.Logger
	namer  *KeyNamer

	plain         *DeclarationCache
	hydrated      *DeclarationCache
	enums         *DeclarationCache
	intersections [2]*DeclarationListCache

	origin map[string]string
	files  map[string]*fileState
	file   *fileState

	warnings []ir.Warning
}

type fileState struct {
	name       string
	runtime    bool
	imports    []string
	lists      [3][]descriptor.Factory
	registered map[string]bool
}

// NewSession returns a session with empty caches.
func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		opts:   opts,
		logger: logger,
		namer:  NewKeyNamer(logger),
		origin: make(map[string]string),
		files:  make(map[string]*fileState),
	}
	s.resetCaches()
	return s
}

func (s *Session) resetCaches() {
	s.plain = NewDeclarationCache()
	s.hydrated = NewDeclarationCache()
	s.enums = NewDeclarationCache()
	s.intersections = [2]*DeclarationListCache{NewDeclarationListCache(), NewDeclarationListCache()}
}

// InitFile starts a new compilation unit. Factory caches are reset unless
// the session caches between files.
func (s *Session) InitFile(file string) {
	if !s.opts.CacheBetweenFiles {
		s.resetCaches()
	}
	s.file = &fileState{name: file, registered: make(map[string]bool)}
	s.files[file] = s.file
}

// File returns the current compilation unit's file name.
func (s *Session) File() string {
	if s.file == nil {
		return ""
	}
	return s.file.name
}

func (s *Session) current() *fileState {
	if s.file == nil {
		s.InitFile("")
	}
	return s.file
}

// KeyFor returns the plain factory key of a declaration.
func (s *Session) KeyFor(d ir.TypeShape) string {
	return s.namer.Name(d, "")
}

// KeyForHydrated returns the hydrated factory key of a declaration.
func (s *Session) KeyForHydrated(d ir.TypeShape) string {
	return s.namer.Name(d, "hydrated")
}

// KeyForEnumTypeof returns the key of the factory returning the first
// member of an enum.
func (s *Session) KeyForEnumTypeof(d *ir.EnumDecl) string {
	return s.namer.Name(d, "")
}

// KeyForIntersection returns the key of the merged factory for an unordered
// set of declarations.
func (s *Session) KeyForIntersection(decls []ir.TypeShape, hydrated bool) string {
	return s.namer.NameSet(decls, hydrated)
}

func (s *Session) declarationCache(hydrated bool) *DeclarationCache {
	if hydrated {
		return s.hydrated
	}
	return s.plain
}

// compiled returns the key of the factory already compiled for d in the
// current cache scope.
func (s *Session) compiled(d ir.TypeShape, hydrated bool) (string, bool) {
	return s.declarationCache(hydrated).Get(d)
}

// begin marks d as compiled before its body is built, so that references
// reached while building the body become deferred calls.
func (s *Session) begin(d ir.TypeShape, hydrated bool, key string) {
	s.declarationCache(hydrated).Set(d, key)
	s.origin[key] = s.current().name
}

func (s *Session) compiledEnum(d *ir.EnumDecl) (string, bool) {
	return s.enums.Get(d)
}

func (s *Session) beginEnum(d *ir.EnumDecl, key string) {
	s.enums.Set(d, key)
	s.origin[key] = s.current().name
}

func (s *Session) intersectionCache(hydrated bool) *DeclarationListCache {
	if hydrated {
		return s.intersections[1]
	}
	return s.intersections[0]
}

func (s *Session) compiledIntersection(decls []ir.TypeShape, hydrated bool) (string, bool) {
	return s.intersectionCache(hydrated).Get(decls)
}

func (s *Session) beginIntersection(decls []ir.TypeShape, hydrated bool, key string) {
	s.intersectionCache(hydrated).Set(decls, key)
	s.origin[key] = s.current().name
}

// RegisterFactory appends a compiled factory to the current file's
// registration list. A key is registered at most once per file.
func (s *Session) RegisterFactory(key string, body descriptor.Descriptor, list RegistrationList) {
	f := s.current()
	if f.registered[key] {
		return
	}
	f.registered[key] = true
	f.runtime = true
	f.lists[list] = append(f.lists[list], descriptor.Factory{Key: key, Body: body})
	s.logger.Debug("registered factory", "key", key, "list", list.String(), "file", f.name)
}

// Reference records a lookup of key from the current file. Looking up a
// factory registered by another file imports that file.
func (s *Session) Reference(key string) {
	f := s.current()
	f.runtime = true
	from, ok := s.origin[key]
	if !ok || from == f.name {
		return
	}
	for _, imp := range f.imports {
		if imp == from {
			return
		}
	}
	f.imports = append(f.imports, from)
}

// UseRuntime records that the current file needs the runtime registry.
func (s *Session) UseRuntime() {
	s.current().runtime = true
}

// EmitTopLevelStatements returns the statements to place at the head of
// file: imports, then plain, hydrated and intersection registrations.
func (s *Session) EmitTopLevelStatements(file string) []Statement {
	f, ok := s.files[file]
	if !ok {
		return nil
	}
	var stmts []Statement
	if f.runtime {
		stmts = append(stmts, RuntimeImport{})
	}
	for _, imp := range f.imports {
		stmts = append(stmts, UnitImport{File: imp})
	}
	for list, factories := range f.lists {
		for _, fac := range factories {
			stmts = append(stmts, Registration{Factory: fac, List: RegistrationList(list)})
		}
	}
	return stmts
}

// Warnings returns the diagnostics collected so far.
func (s *Session) Warnings() []ir.Warning {
	return s.warnings
}

func (s *Session) warn(w ir.Warning) {
	if w.Source == nil && s.file != nil && s.file.name != "" {
		w.Source = &ir.Source{File: s.file.name}
	}
	s.warnings = append(s.warnings, w)
	s.logger.Warn(w.Message, "code", w.Code, "type", w.TypeName, "file", s.File())
}
