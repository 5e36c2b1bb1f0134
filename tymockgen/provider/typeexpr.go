package provider

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/broady/tymock/tymockgen/ir"
)

// ParseType parses a TypeScript type expression such as
// "Array<User> | null" or "{ id: string; tags?: string[] }". Names listed
// in params resolve to type parameters instead of references.
func ParseType(expr string, params ...string) (ir.TypeShape, error) {
	p, err := newTypeParser(expr)
	if err != nil {
		return nil, err
	}
	p.scope = append(p.scope, params...)
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.errorf("unexpected %q", p.peek().text)
	}
	return t, nil
}

// ParseHeader parses a declaration header: a name followed by optional
// type parameters, e.g. "Page<T, S extends string = string>".
func ParseHeader(header string) (string, []ir.TypeParameterShape, error) {
	p, err := newTypeParser(header)
	if err != nil {
		return "", nil, err
	}
	name := p.next()
	if name.kind != tokIdent {
		return "", nil, p.errorf("expected declaration name")
	}
	var tparams []ir.TypeParameterShape
	if p.accept("<") {
		if tparams, err = p.parseTypeParams(); err != nil {
			return "", nil, err
		}
	}
	if !p.done() {
		return "", nil, p.errorf("unexpected %q", p.peek().text)
	}
	return name.text, tparams, nil
}

// ParseMemberKey splits a member key into its name, optional flag and,
// for methods written "name(...)", whether it is a method.
func ParseMemberKey(key string) (name string, optional, method bool) {
	key = strings.TrimSpace(key)
	if i := strings.IndexByte(key, '('); i > 0 && strings.HasSuffix(key, ")") {
		key, method = strings.TrimSpace(key[:i]), true
	}
	if strings.HasSuffix(key, "?") {
		key, optional = strings.TrimSuffix(key, "?"), true
	}
	return key, optional, method
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokString
	tokNumber
	tokPunct
)

type typeToken struct {
	kind tokKind
	text string
	pos  int
}

type typeParser struct {
	src    string
	tokens []typeToken
	i      int
	scope  []string
}

func newTypeParser(src string) (*typeParser, error) {
	p := &typeParser{src: src}
	for i := 0; i < len(src); {
		c := rune(src[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(src) && src[j] != src[i] {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(src) {
				return nil, fmt.Errorf("unterminated string in %q", src)
			}
			text := src[i : j+1]
			if c == '\'' {
				text = `"` + strings.ReplaceAll(text[1:len(text)-1], `"`, `\"`) + `"`
			}
			s, err := strconv.Unquote(text)
			if err != nil {
				return nil, fmt.Errorf("invalid string %s in %q", src[i:j+1], src)
			}
			p.tokens = append(p.tokens, typeToken{tokString, s, i})
			i = j + 1
		case unicode.IsDigit(c):
			j := i
			for j < len(src) && (isDigit(src[j]) || src[j] == '.' || src[j] == '_' || src[j] == 'e' || src[j] == 'x' || isHex(src[j])) {
				j++
			}
			p.tokens = append(p.tokens, typeToken{tokNumber, src[i:j], i})
			i = j
		case c == '_' || c == '$' || unicode.IsLetter(c) || c >= 0x80:
			j := i
			for j < len(src) {
				r := rune(src[j])
				if r != '_' && r != '$' && r < 0x80 && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					break
				}
				j++
			}
			p.tokens = append(p.tokens, typeToken{tokIdent, src[i:j], i})
			i = j
		default:
			text := string(c)
			switch {
			case strings.HasPrefix(src[i:], "=>"):
				text = "=>"
			case strings.HasPrefix(src[i:], "..."):
				text = "..."
			case !strings.ContainsRune("|&[](){}<>,;:?.=-", c):
				return nil, fmt.Errorf("unexpected character %q at offset %d in %q", c, i, src)
			}
			p.tokens = append(p.tokens, typeToken{tokPunct, text, i})
			i += len(text)
		}
	}
	return p, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isHex(c byte) bool   { return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' }

func (p *typeParser) errorf(format string, args ...any) error {
	pos := len(p.src)
	if p.i < len(p.tokens) {
		pos = p.tokens[p.i].pos
	}
	return fmt.Errorf("type %q at offset %d: %s", p.src, pos, fmt.Sprintf(format, args...))
}

func (p *typeParser) done() bool { return p.i >= len(p.tokens) }

func (p *typeParser) peek() typeToken { return p.peekAt(0) }

func (p *typeParser) peekAt(n int) typeToken {
	if p.i+n >= len(p.tokens) {
		return typeToken{kind: tokEOF}
	}
	return p.tokens[p.i+n]
}

func (p *typeParser) next() typeToken {
	t := p.peek()
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *typeParser) is(punct string) bool {
	t := p.peek()
	return t.kind == tokPunct && t.text == punct
}

func (p *typeParser) accept(punct string) bool {
	if p.is(punct) {
		p.i++
		return true
	}
	return false
}

func (p *typeParser) expect(punct string) error {
	if !p.accept(punct) {
		return p.errorf("expected %q", punct)
	}
	return nil
}

func (p *typeParser) parseType() (ir.TypeShape, error) {
	p.accept("|")
	first, err := p.parseIntersection()
	if err != nil {
		return nil, err
	}
	if !p.is("|") {
		return first, nil
	}
	u := ir.Union(first)
	for p.accept("|") {
		t, err := p.parseIntersection()
		if err != nil {
			return nil, err
		}
		u.Types = append(u.Types, t)
	}
	return u, nil
}

func (p *typeParser) parseIntersection() (ir.TypeShape, error) {
	p.accept("&")
	first, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if !p.is("&") {
		return first, nil
	}
	x := ir.Intersection(first)
	for p.accept("&") {
		t, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		x.Types = append(x.Types, t)
	}
	return x, nil
}

func (p *typeParser) parsePostfix() (ir.TypeShape, error) {
	t, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.is("[") && p.peekAt(1).text == "]" {
		p.i += 2
		t = ir.Array(t)
	}
	return t, nil
}

func (p *typeParser) parsePrimary() (ir.TypeShape, error) {
	tok := p.peek()
	switch tok.kind {
	case tokEOF:
		return nil, p.errorf("unexpected end of type")
	case tokString:
		p.i++
		return ir.Literal(tok.text), nil
	case tokNumber:
		p.i++
		return p.number(tok.text, false)
	case tokIdent:
		return p.parseNamed()
	}

	switch tok.text {
	case "-":
		p.i++
		n := p.next()
		if n.kind != tokNumber {
			return nil, p.errorf("expected number after '-'")
		}
		return p.number(n.text, true)
	case "(":
		if p.isFunction() {
			return p.parseFunction(nil)
		}
		p.i++
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return t, p.expect(")")
	case "<":
		p.i++
		tparams, err := p.parseTypeParams()
		if err != nil {
			return nil, err
		}
		return p.parseFunction(tparams)
	case "[":
		p.i++
		tuple := ir.Tuple()
		for !p.is("]") {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			tuple.Elements = append(tuple.Elements, t)
			if !p.accept(",") {
				break
			}
		}
		return tuple, p.expect("]")
	case "{":
		p.i++
		members, err := p.parseMembers()
		if err != nil {
			return nil, err
		}
		return ir.Object(members...), nil
	}
	return nil, p.errorf("unexpected %q", tok.text)
}

func (p *typeParser) number(text string, negative bool) (ir.TypeShape, error) {
	clean := strings.ReplaceAll(text, "_", "")
	var f float64
	if strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X") {
		n, err := strconv.ParseInt(clean[2:], 16, 64)
		if err != nil {
			return nil, p.errorf("invalid number %q", text)
		}
		f = float64(n)
	} else {
		var err error
		if f, err = strconv.ParseFloat(clean, 64); err != nil {
			return nil, p.errorf("invalid number %q", text)
		}
	}
	if negative {
		f = -f
	}
	return ir.Literal(f), nil
}

func (p *typeParser) inScope(name string) bool {
	for i := len(p.scope) - 1; i >= 0; i-- {
		if p.scope[i] == name {
			return true
		}
	}
	return false
}

func (p *typeParser) parseNamed() (ir.TypeShape, error) {
	name := p.next().text
	switch name {
	case "true", "false":
		return ir.Literal(name == "true"), nil
	case "typeof":
		id, err := p.parseQualified()
		if err != nil {
			return nil, err
		}
		return &ir.TypeQueryShape{Target: id}, nil
	}
	if p.inScope(name) && !p.is(".") {
		return ir.TypeParam(name), nil
	}
	if kind, ok := ir.ParsePrimitive(name); ok && !p.is("<") && !p.is(".") {
		return &ir.PrimitiveShape{PrimitiveKind: kind}, nil
	}

	p.i--
	id, err := p.parseQualified()
	if err != nil {
		return nil, err
	}
	var args []ir.TypeShape
	if p.accept("<") {
		for {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, t)
			if !p.accept(",") {
				break
			}
		}
		if err := p.expect(">"); err != nil {
			return nil, err
		}
	}

	if id.Module == "" {
		switch {
		case (id.Name == "Array" || id.Name == "ReadonlyArray") && len(args) == 1:
			return ir.Array(args[0]), nil
		case (id.Name == "Record" || id.Name == "Map") && len(args) == 2:
			return ir.Map(args[0], args[1]), nil
		}
	}
	return &ir.ReferenceShape{Target: id, TypeArguments: args}, nil
}

func (p *typeParser) parseQualified() (ir.Identifier, error) {
	t := p.next()
	if t.kind != tokIdent {
		return ir.Identifier{}, p.errorf("expected identifier")
	}
	parts := []string{t.text}
	for p.accept(".") {
		t := p.next()
		if t.kind != tokIdent {
			return ir.Identifier{}, p.errorf("expected identifier after '.'")
		}
		parts = append(parts, t.text)
	}
	last := len(parts) - 1
	return ir.Identifier{Name: parts[last], Module: strings.Join(parts[:last], ".")}, nil
}

// isFunction reports whether the parenthesis at the cursor opens a
// parameter list, i.e. its matching ')' is followed by "=>".
func (p *typeParser) isFunction() bool {
	depth := 0
	for j := p.i; j < len(p.tokens); j++ {
		t := p.tokens[j]
		if t.kind != tokPunct {
			continue
		}
		switch t.text {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				next := j + 1
				return next < len(p.tokens) && p.tokens[next].text == "=>"
			}
		}
	}
	return false
}

func (p *typeParser) parseTypeParams() ([]ir.TypeParameterShape, error) {
	var tparams []ir.TypeParameterShape
	for {
		t := p.next()
		if t.kind != tokIdent {
			return nil, p.errorf("expected type parameter name")
		}
		tp := ir.TypeParameterShape{ParamName: t.text}
		p.scope = append(p.scope, t.text)
		if p.peek().kind == tokIdent && p.peek().text == "extends" {
			p.i++
			c, err := p.parseType()
			if err != nil {
				return nil, err
			}
			tp.Constraint = c
		}
		if p.accept("=") {
			d, err := p.parseType()
			if err != nil {
				return nil, err
			}
			tp.Default = d
		}
		tparams = append(tparams, tp)
		if !p.accept(",") {
			break
		}
	}
	return tparams, p.expect(">")
}

// parseFunction parses "(params) => returns". The type parameters stay
// in scope for the rest of the expression.
func (p *typeParser) parseFunction(tparams []ir.TypeParameterShape) (ir.TypeShape, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if err := p.expect("=>"); err != nil {
		return nil, err
	}
	returns, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &ir.SignatureShape{TypeParameters: tparams, Parameters: params, Returns: returns}, nil
}

// parseParams parses a parameter list after its '(' up to and including ')'.
func (p *typeParser) parseParams() ([]ir.Parameter, error) {
	var params []ir.Parameter
	for !p.is(")") {
		p.accept("...")
		name := p.next()
		if name.kind != tokIdent {
			return nil, p.errorf("expected parameter name")
		}
		param := ir.Parameter{Name: name.text, Optional: p.accept("?")}
		if p.accept(":") {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			param.Type = t
		}
		params = append(params, param)
		if !p.accept(",") {
			break
		}
	}
	return params, p.expect(")")
}

// parseMembers parses the members of an object type after its '{' up to
// and including '}'.
func (p *typeParser) parseMembers() ([]ir.Member, error) {
	var members []ir.Member
	for !p.accept("}") {
		name := p.next()
		if name.kind != tokIdent && name.kind != tokString && name.kind != tokNumber {
			return nil, p.errorf("expected member name")
		}
		m := ir.Member{Name: name.text, Optional: p.accept("?")}
		if p.accept("(") {
			params, err := p.parseParams()
			if err != nil {
				return nil, err
			}
			if err := p.expect(":"); err != nil {
				return nil, err
			}
			returns, err := p.parseType()
			if err != nil {
				return nil, err
			}
			m.Type = &ir.SignatureShape{Parameters: params, Returns: returns}
			m.Method = true
		} else {
			if err := p.expect(":"); err != nil {
				return nil, err
			}
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			m.Type = t
		}
		members = append(members, m)
		if !p.accept(";") {
			p.accept(",")
		}
		if p.done() {
			return nil, p.errorf("unterminated object type")
		}
	}
	return members, nil
}
