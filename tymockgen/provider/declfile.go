package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/broady/tymock/tymockgen/ir"
)

// DeclFileProvider reads declarations and mock requests from YAML
// declaration files.
//
//	module: app
//	declarations:
//	  - interface: Page<T = string>
//	    extends: [Base]
//	    members:
//	      items: T[]
//	      cursor?: string
//	      next(): Page<T>
//	  - enum: Color
//	    members: [Red, Green]
//	units:
//	  - file: page.test.ts
//	    mocks:
//	      - {name: page, type: Page<number>, hydrated: true}
//
// Type expressions use TypeScript syntax.
type DeclFileProvider struct{}

// DeclFileOptions configures declaration file loading.
type DeclFileOptions struct {
	// Files are the declaration files to read, in order. Declarations and
	// units from every file are merged into one schema.
	Files []string
}

// BuildSchema reads every file and returns the merged schema.
func (p *DeclFileProvider) BuildSchema(ctx context.Context, opts DeclFileOptions) (*ir.Schema, error) {
	if len(opts.Files) == 0 {
		return nil, errors.New("no declaration files specified")
	}
	schema := &ir.Schema{}
	for _, file := range opts.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrap(err, "reading declaration file")
		}
		if err := ParseDeclFile(schema, file, data); err != nil {
			return nil, err
		}
	}
	return schema, nil
}

// ParseDeclFile parses one declaration file into schema. The first file
// to name a module sets the schema's package.
func ParseDeclFile(schema *ir.Schema, file string, data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrapf(err, "%s", file)
	}
	if len(doc.Content) == 0 {
		return nil
	}
	r := &declReader{file: file, schema: schema}
	return r.document(doc.Content[0])
}

type declReader struct {
	file   string
	schema *ir.Schema
	module string
}

func (r *declReader) errorf(n *yaml.Node, format string, args ...any) error {
	return errors.Newf("%s:%d:%d: %s", r.file, n.Line, n.Column, fmt.Sprintf(format, args...))
}

func (r *declReader) source(n *yaml.Node) ir.Source {
	return ir.Source{File: r.file, Line: n.Line, Column: n.Column}
}

// pairs returns the key/value pairs of a mapping node in order.
func (r *declReader) pairs(n *yaml.Node) ([][2]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, r.errorf(n, "expected a mapping")
	}
	out := make([][2]*yaml.Node, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, [2]*yaml.Node{n.Content[i], n.Content[i+1]})
	}
	return out, nil
}

func (r *declReader) scalar(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", r.errorf(n, "expected a scalar")
	}
	return n.Value, nil
}

func (r *declReader) document(root *yaml.Node) error {
	pairs, err := r.pairs(root)
	if err != nil {
		return err
	}
	for _, kv := range pairs {
		switch kv[0].Value {
		case "module":
			if r.module, err = r.scalar(kv[1]); err != nil {
				return err
			}
			if r.schema.Package.IsZero() {
				r.schema.Package = ir.PackageInfo{Path: r.module, Name: filepath.Base(r.module)}
			}
		case "declarations":
			if kv[1].Kind != yaml.SequenceNode {
				return r.errorf(kv[1], "declarations must be a list")
			}
			for _, n := range kv[1].Content {
				d, err := r.declaration(n)
				if err != nil {
					return err
				}
				r.schema.AddDeclaration(d)
			}
		case "units":
			if kv[1].Kind != yaml.SequenceNode {
				return r.errorf(kv[1], "units must be a list")
			}
			for _, n := range kv[1].Content {
				u, err := r.unit(n)
				if err != nil {
					return err
				}
				r.schema.AddUnit(u)
			}
		default:
			return r.errorf(kv[0], "unknown key %q", kv[0].Value)
		}
	}
	return nil
}

// declFields holds the raw fields of one declaration entry.
type declFields struct {
	kind, header   string
	at             *yaml.Node
	doc            ir.Documentation
	extends        []*yaml.Node
	members        *yaml.Node
	call, typ, ret *yaml.Node
}

var declKinds = map[string]bool{"interface": true, "class": true, "alias": true, "enum": true, "function": true}

func (r *declReader) declaration(n *yaml.Node) (ir.TypeShape, error) {
	pairs, err := r.pairs(n)
	if err != nil {
		return nil, err
	}
	f := declFields{at: n}
	for _, kv := range pairs {
		key, val := kv[0].Value, kv[1]
		switch {
		case declKinds[key]:
			if f.kind != "" {
				return nil, r.errorf(kv[0], "declaration is both %s and %s", f.kind, key)
			}
			f.kind = key
			if f.header, err = r.scalar(val); err != nil {
				return nil, err
			}
		case key == "doc":
			f.doc = documentation(val.Value)
		case key == "extends":
			switch val.Kind {
			case yaml.ScalarNode:
				f.extends = []*yaml.Node{val}
			case yaml.SequenceNode:
				f.extends = val.Content
			default:
				return nil, r.errorf(val, "extends must be a type or a list of types")
			}
		case key == "members":
			f.members = val
		case key == "call":
			f.call = val
		case key == "type":
			f.typ = val
		case key == "returns":
			f.ret = val
		default:
			return nil, r.errorf(kv[0], "unknown declaration key %q", key)
		}
	}
	if f.kind == "" {
		return nil, r.errorf(n, "declaration needs one of interface, class, alias, enum or function")
	}

	name, tparams, err := ParseHeader(f.header)
	if err != nil {
		return nil, r.errorf(n, "%v", err)
	}
	id := ir.Identifier{Name: name, Module: r.module}
	scope := paramNames(tparams)

	switch f.kind {
	case "interface", "class":
		d := &ir.InterfaceDecl{
			Name:           id,
			Class:          f.kind == "class",
			TypeParameters: tparams,
			Documentation:  f.doc,
			Source:         r.source(n),
		}
		for _, e := range f.extends {
			t, err := r.typeExpr(e, scope)
			if err != nil {
				return nil, err
			}
			ref, ok := t.(*ir.ReferenceShape)
			if !ok {
				return nil, r.errorf(e, "%s can only extend named types", name)
			}
			d.Heritage = append(d.Heritage, ir.HeritageClause{Target: ref.Target, TypeArguments: ref.TypeArguments})
		}
		if f.members != nil {
			if d.Members, err = r.members(f.members, scope); err != nil {
				return nil, err
			}
		}
		if f.call != nil {
			sig, err := r.signature(f.call, scope)
			if err != nil {
				return nil, err
			}
			d.CallSignature = sig
		}
		return d, nil

	case "alias":
		if f.typ == nil {
			return nil, r.errorf(n, "alias %s has no type", name)
		}
		t, err := r.typeExpr(f.typ, scope)
		if err != nil {
			return nil, err
		}
		return &ir.AliasDecl{Name: id, TypeParameters: tparams, Underlying: t, Documentation: f.doc, Source: r.source(n)}, nil

	case "enum":
		if len(tparams) > 0 {
			return nil, r.errorf(n, "enum %s cannot have type parameters", name)
		}
		d := &ir.EnumDecl{Name: id, Documentation: f.doc, Source: r.source(n)}
		if f.members != nil {
			if d.Members, err = r.enumMembers(f.members); err != nil {
				return nil, err
			}
		}
		return d, nil

	case "function":
		var sig *ir.SignatureShape
		switch {
		case f.typ != nil:
			if sig, err = r.signature(f.typ, scope); err != nil {
				return nil, err
			}
		case f.ret != nil:
			t, err := r.typeExpr(f.ret, scope)
			if err != nil {
				return nil, err
			}
			sig = ir.Signature(t)
		default:
			sig = ir.Signature(ir.Void())
		}
		return &ir.FunctionDecl{Name: id, TypeParameters: tparams, Signature: sig, Documentation: f.doc, Source: r.source(n)}, nil
	}
	return nil, r.errorf(n, "unknown declaration kind %q", f.kind)
}

func (r *declReader) typeExpr(n *yaml.Node, scope []string) (ir.TypeShape, error) {
	s, err := r.scalar(n)
	if err != nil {
		return nil, err
	}
	t, err := ParseType(s, scope...)
	if err != nil {
		return nil, r.errorf(n, "%v", err)
	}
	return t, nil
}

func (r *declReader) signature(n *yaml.Node, scope []string) (*ir.SignatureShape, error) {
	t, err := r.typeExpr(n, scope)
	if err != nil {
		return nil, err
	}
	sig, ok := t.(*ir.SignatureShape)
	if !ok {
		return nil, r.errorf(n, "expected a function type such as \"(x: number) => string\"")
	}
	return sig, nil
}

// members reads an ordered mapping of member keys to types. A value may
// also be a mapping with type and doc keys.
func (r *declReader) members(n *yaml.Node, scope []string) ([]ir.Member, error) {
	pairs, err := r.pairs(n)
	if err != nil {
		return nil, err
	}
	out := make([]ir.Member, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))
	for _, kv := range pairs {
		name, optional, method := ParseMemberKey(kv[0].Value)
		if name == "" {
			return nil, r.errorf(kv[0], "empty member name")
		}
		if seen[name] {
			return nil, r.errorf(kv[0], "duplicate member %q", name)
		}
		seen[name] = true

		m := ir.Member{Name: name, Optional: optional, Method: method}
		typeNode := kv[1]
		if kv[1].Kind == yaml.MappingNode {
			typeNode = nil
			fields, _ := r.pairs(kv[1])
			for _, f := range fields {
				switch f[0].Value {
				case "type":
					typeNode = f[1]
				case "doc":
					m.Documentation = documentation(f[1].Value)
				default:
					return nil, r.errorf(f[0], "unknown member key %q", f[0].Value)
				}
			}
			if typeNode == nil {
				return nil, r.errorf(kv[1], "member %q has no type", name)
			}
		}
		t, err := r.typeExpr(typeNode, scope)
		if err != nil {
			return nil, err
		}
		if method {
			if sig, ok := t.(*ir.SignatureShape); ok {
				m.Type = sig
			} else {
				m.Type = ir.Signature(t)
			}
		} else {
			m.Type = t
		}
		out = append(out, m)
	}
	return out, nil
}

// enumMembers reads a list of names, numbered from zero, or a mapping of
// names to string or numeric values.
func (r *declReader) enumMembers(n *yaml.Node) ([]ir.EnumMember, error) {
	switch n.Kind {
	case yaml.SequenceNode:
		out := make([]ir.EnumMember, len(n.Content))
		for i, c := range n.Content {
			name, err := r.scalar(c)
			if err != nil {
				return nil, err
			}
			out[i] = ir.EnumMember{Name: name, Value: int64(i)}
		}
		return out, nil
	case yaml.MappingNode:
		pairs, _ := r.pairs(n)
		out := make([]ir.EnumMember, 0, len(pairs))
		var next int64
		for _, kv := range pairs {
			m := ir.EnumMember{Name: kv[0].Value}
			v := kv[1]
			switch {
			case v.Kind != yaml.ScalarNode:
				return nil, r.errorf(v, "enum member %q must have a scalar value", m.Name)
			case v.Tag == "!!null":
				m.Value = next
			case v.Tag == "!!int":
				i, err := strconv.ParseInt(v.Value, 0, 64)
				if err != nil {
					return nil, r.errorf(v, "invalid enum value %q", v.Value)
				}
				m.Value = i
			case v.Tag == "!!float":
				f, err := strconv.ParseFloat(v.Value, 64)
				if err != nil {
					return nil, r.errorf(v, "invalid enum value %q", v.Value)
				}
				m.Value = f
			default:
				m.Value = v.Value
			}
			if i, ok := m.Value.(int64); ok {
				next = i + 1
			}
			out = append(out, m)
		}
		return out, nil
	}
	return nil, r.errorf(n, "enum members must be a list or a mapping")
}

func (r *declReader) unit(n *yaml.Node) (ir.CompilationUnit, error) {
	var u ir.CompilationUnit
	pairs, err := r.pairs(n)
	if err != nil {
		return u, err
	}
	for _, kv := range pairs {
		switch kv[0].Value {
		case "file":
			if u.File, err = r.scalar(kv[1]); err != nil {
				return u, err
			}
		case "mocks":
			if kv[1].Kind != yaml.SequenceNode {
				return u, r.errorf(kv[1], "mocks must be a list")
			}
			for _, m := range kv[1].Content {
				site, err := r.mockSite(m)
				if err != nil {
					return u, err
				}
				u.Mocks = append(u.Mocks, site)
			}
		default:
			return u, r.errorf(kv[0], "unknown unit key %q", kv[0].Value)
		}
	}
	if u.File == "" {
		return u, r.errorf(n, "unit has no file")
	}
	return u, nil
}

func (r *declReader) mockSite(n *yaml.Node) (ir.MockSite, error) {
	site := ir.MockSite{Source: r.source(n)}
	if n.Kind == yaml.ScalarNode {
		t, err := r.typeExpr(n, nil)
		site.Type = t
		return site, err
	}
	pairs, err := r.pairs(n)
	if err != nil {
		return site, err
	}
	for _, kv := range pairs {
		v := kv[1]
		switch kv[0].Value {
		case "name":
			site.Name = v.Value
		case "type":
			if site.Type, err = r.typeExpr(v, nil); err != nil {
				return site, err
			}
		case "hydrated":
			if err := v.Decode(&site.Hydrated); err != nil {
				return site, r.errorf(v, "hydrated must be a boolean")
			}
		case "count":
			if err := v.Decode(&site.Count); err != nil {
				return site, r.errorf(v, "count must be an integer")
			}
		default:
			return site, r.errorf(kv[0], "unknown mock key %q", kv[0].Value)
		}
	}
	if site.Type == nil {
		return site, r.errorf(n, "mock has no type")
	}
	return site, nil
}

func paramNames(tparams []ir.TypeParameterShape) []string {
	names := make([]string, len(tparams))
	for i, tp := range tparams {
		names[i] = tp.ParamName
	}
	return names
}

// documentation splits doc text into summary and body, recognising a
// "Deprecated:" paragraph the way Go doc comments do.
func documentation(text string) ir.Documentation {
	text = strings.TrimSpace(text)
	if text == "" {
		return ir.Documentation{}
	}
	var lines []string
	var deprecated *string
	for _, line := range strings.Split(text, "\n") {
		if msg, ok := strings.CutPrefix(strings.TrimSpace(line), "Deprecated:"); ok && deprecated == nil {
			msg = strings.TrimSpace(msg)
			deprecated = &msg
			continue
		}
		lines = append(lines, line)
	}
	var summary string
	for _, line := range lines {
		if t := strings.TrimSpace(line); t != "" {
			summary = t
			break
		}
	}
	return ir.Documentation{Summary: summary, Body: strings.Join(lines, "\n"), Deprecated: deprecated}
}
