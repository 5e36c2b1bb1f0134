package typescript

import (
	"encoding/json"
	"strings"
	"unicode"
)

// reserved holds the words that cannot name a binding in a strict-mode
// module, plus the bindings every generated module declares itself.
var reserved = func() map[string]bool {
	words := strings.Fields(`
		await break case catch class const continue debugger default delete do
		else enum export extends false finally for function if implements import
		in instanceof interface let new null package private protected public
		return static super switch this throw true try type typeof var void
		while with yield arguments eval`)
	m := make(map[string]bool, len(words)+2)
	for _, w := range words {
		m[w] = true
	}
	m[runtimeBinding] = true
	m[genericsBinding] = true
	return m
}()

func identRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}

// needsQuoting reports whether name must be quoted as a property key.
func needsQuoting(name string) bool {
	if name == "" || unicode.IsDigit(rune(name[0])) || reserved[name] {
		return true
	}
	return strings.IndexFunc(name, func(r rune) bool { return !identRune(r) }) >= 0
}

// propertyName returns name as written in an object literal or member
// access key position.
func propertyName(name string) string {
	if needsQuoting(name) {
		return quote(name)
	}
	return name
}

// quote returns s as a JavaScript string literal.
func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// sanitizeIdentifier turns a mock or owner name into a binding name:
// invalid runes become underscores, a leading digit gains one and a
// reserved word or module binding gets a trailing one.
func sanitizeIdentifier(name string) string {
	if name == "" {
		return "_"
	}
	out := strings.Map(func(r rune) rune {
		if identRune(r) {
			return r
		}
		return '_'
	}, name)
	if unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	if reserved[out] {
		out += "_"
	}
	return out
}
