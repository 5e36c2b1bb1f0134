package compiler

import (
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/broady/tymock/tymockgen/ir"
)

// KeyNamer assigns deterministic factory keys.
//
// A declaration keeps its key for the lifetime of the namer, across files
// and cache resets. Keys are "@" followed by the declared name; when two
// declarations claim the same key the later one gets a suffix built from
// its source position, then a counter.
type KeyNamer struct {
	taken  map[string]bool
	names  map[namedDecl]string
	sets   [2]*DeclarationListCache
	logger *slog.Logger
}

type namedDecl struct {
	decl    ir.TypeShape
	variant string
}

// NewKeyNamer returns an empty namer.
func NewKeyNamer(logger *slog.Logger) *KeyNamer {
	if logger == nil {
		logger = slog.Default()
	}
	return &KeyNamer{
		taken:  make(map[string]bool),
		names:  make(map[namedDecl]string),
		sets:   [2]*DeclarationListCache{NewDeclarationListCache(), NewDeclarationListCache()},
		logger: logger,
	}
}

// Name returns the key of decl in a variant namespace. The empty variant
// is the plain namespace.
func (n *KeyNamer) Name(decl ir.TypeShape, variant string) string {
	nd := namedDecl{decl, variant}
	if key, ok := n.names[nd]; ok {
		return key
	}
	base := "@" + declarationName(decl)
	if variant != "" {
		base += "_" + variant
	}
	key := n.claim(base, decl.Src())
	n.names[nd] = key
	return key
}

// NameSet returns the key of an unordered set of declarations. Member
// names are joined in sorted order, so the key does not depend on the
// order the set was first seen in.
func (n *KeyNamer) NameSet(decls []ir.TypeShape, hydrated bool) string {
	i := 0
	if hydrated {
		i = 1
	}
	if key, ok := n.sets[i].Get(decls); ok {
		return key
	}
	names := make([]string, 0, len(decls))
	for _, d := range decls {
		names = append(names, declarationName(d))
	}
	slices.Sort(names)
	base := "@" + strings.Join(names, "&")
	if hydrated {
		base += "_hydrated"
	}
	var src ir.Source
	if len(decls) > 0 {
		src = decls[0].Src()
	}
	key := n.claim(base, src)
	n.sets[i].Set(decls, key)
	return key
}

func (n *KeyNamer) claim(base string, src ir.Source) string {
	if !n.taken[base] {
		n.taken[base] = true
		return base
	}
	if suffix := positionSuffix(src); suffix != "" {
		key := base + "_" + suffix
		if !n.taken[key] {
			n.taken[key] = true
			n.logger.Debug("factory key collision", "key", base, "resolved", key)
			return key
		}
	}
	for i := 2; ; i++ {
		key := base + "_" + strconv.Itoa(i)
		if !n.taken[key] {
			n.taken[key] = true
			n.logger.Debug("factory key collision", "key", base, "resolved", key)
			return key
		}
	}
}

func declarationName(d ir.TypeShape) string {
	if name := d.TypeName().Name; name != "" {
		return name
	}
	return "anonymous"
}

// positionSuffix renders a source position as "<file stem>_<line>".
func positionSuffix(src ir.Source) string {
	var parts []string
	if src.File != "" {
		stem := strings.TrimSuffix(filepath.Base(src.File), filepath.Ext(src.File))
		parts = append(parts, strings.Map(func(r rune) rune {
			if r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
				return r
			}
			return '_'
		}, stem))
	}
	if src.Line > 0 {
		parts = append(parts, strconv.Itoa(src.Line))
	}
	return strings.Join(parts, "_")
}
