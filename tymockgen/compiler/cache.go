package compiler

import "github.com/broady/tymock/tymockgen/ir"

// DeclarationCache maps declarations, by identity, to factory keys.
type DeclarationCache struct {
	keys map[ir.TypeShape]string
}

// NewDeclarationCache returns an empty cache.
func NewDeclarationCache() *DeclarationCache {
	return &DeclarationCache{keys: make(map[ir.TypeShape]string)}
}

// Get returns the key cached for d.
func (c *DeclarationCache) Get(d ir.TypeShape) (string, bool) {
	key, ok := c.keys[d]
	return key, ok
}

// Set caches key for d.
func (c *DeclarationCache) Set(d ir.TypeShape, key string) {
	c.keys[d] = key
}

// Len returns the number of cached declarations.
func (c *DeclarationCache) Len() int { return len(c.keys) }

// DeclarationListCache maps unordered sets of declarations to factory keys.
type DeclarationListCache struct {
	entries []listEntry
}

type listEntry struct {
	set map[ir.TypeShape]bool
	key string
}

// NewDeclarationListCache returns an empty cache.
func NewDeclarationListCache() *DeclarationListCache {
	return &DeclarationListCache{}
}

// Get returns the key cached for the set of decls, ignoring order and
// duplicates.
func (c *DeclarationListCache) Get(decls []ir.TypeShape) (string, bool) {
	want := declarationSet(decls)
	for _, e := range c.entries {
		if sameSet(e.set, want) {
			return e.key, true
		}
	}
	return "", false
}

// Set caches key for the set of decls.
func (c *DeclarationListCache) Set(decls []ir.TypeShape, key string) {
	c.entries = append(c.entries, listEntry{set: declarationSet(decls), key: key})
}

// Len returns the number of cached sets.
func (c *DeclarationListCache) Len() int { return len(c.entries) }

func declarationSet(decls []ir.TypeShape) map[ir.TypeShape]bool {
	set := make(map[ir.TypeShape]bool, len(decls))
	for _, d := range decls {
		set[d] = true
	}
	return set
}

func sameSet(a, b map[ir.TypeShape]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for d := range a {
		if !b[d] {
			return false
		}
	}
	return true
}
