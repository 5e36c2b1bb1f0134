// Package provider builds ir schemas from declaration sources: YAML
// declaration files and Go packages.
package provider

import (
	"context"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"

	"github.com/broady/tymock/internal/directive"
	"github.com/broady/tymock/tymockgen/ir"
)

// SourceProvider extracts declarations by analyzing Go source code.
// Mock requests come from //tymock:mock directives in the loaded packages.
type SourceProvider struct{}

// SourceInputOptions configures source-based type extraction.
type SourceInputOptions struct {
	// Packages are the Go package paths to analyze.
	Packages []string

	// RootTypes are the type names to extract (e.g., "User", "CreateRequest").
	// If empty, all exported types in the packages are extracted. Types
	// named by directives are always extracted.
	RootTypes []string

	// Dir is the directory packages are loaded from. Empty means the
	// current directory.
	Dir string
}

// BuildSchema analyzes source code and returns a Schema.
// The provider recursively extracts all types reachable from the roots.
func (p *SourceProvider) BuildSchema(ctx context.Context, opts SourceInputOptions) (*ir.Schema, error) {
	if len(opts.Packages) == 0 {
		return nil, errors.New("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}

	pkgs, err := packages.Load(cfg, opts.Packages...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, errors.Newf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}
	if len(pkgs) == 0 {
		return nil, errors.New("no packages found")
	}

	b := newSchemaBuilder(pkgs)

	// packages.Load returns packages in dependency order, not input order
	mainPkg := pkgs[0]
	for _, pkg := range pkgs {
		if pkg.PkgPath == opts.Packages[0] {
			mainPkg = pkg
			break
		}
	}
	b.schema.Package = ir.PackageInfo{
		Path: mainPkg.PkgPath,
		Name: mainPkg.Name,
		Dir:  packageDir(mainPkg),
	}

	if err := b.extractUnits(len(pkgs) > 1); err != nil {
		return nil, err
	}

	if len(opts.RootTypes) > 0 {
		for _, rootName := range opts.RootTypes {
			if err := b.extractRootType(rootName); err != nil {
				return nil, errors.Wrapf(err, "failed to extract root type %s", rootName)
			}
		}
	} else {
		b.extractAllExportedTypes()
	}

	if err := b.drain(); err != nil {
		return nil, err
	}
	return b.schema, nil
}

func packageDir(pkg *packages.Package) string {
	if len(pkg.GoFiles) > 0 {
		return filepath.Dir(pkg.GoFiles[0])
	}
	return ""
}

// schemaBuilder accumulates declarations. Named types are queued when
// first referenced and extracted by drain.
type schemaBuilder struct {
	pkgs      []*packages.Package
	schema    *ir.Schema
	done      map[*types.TypeName]bool
	queue     []*types.TypeName
	docs      map[token.Pos]*ast.CommentGroup
	constDocs map[token.Pos]*ast.CommentGroup
	fset      *token.FileSet
}

func newSchemaBuilder(pkgs []*packages.Package) *schemaBuilder {
	b := &schemaBuilder{
		pkgs:      pkgs,
		schema:    &ir.Schema{},
		done:      make(map[*types.TypeName]bool),
		docs:      make(map[token.Pos]*ast.CommentGroup),
		constDocs: make(map[token.Pos]*ast.CommentGroup),
	}
	for _, pkg := range pkgs {
		if b.fset == nil {
			b.fset = pkg.Fset
		}
		for _, f := range pkg.Syntax {
			b.indexDocs(f)
		}
	}
	return b
}

// indexDocs records the doc comments of type specs, fields, interface
// methods and constants by the position of the name they document.
func (b *schemaBuilder) indexDocs(f *ast.File) {
	ast.Inspect(f, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.GenDecl:
			for _, spec := range x.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					doc := s.Doc
					if doc == nil && len(x.Specs) == 1 {
						doc = x.Doc
					}
					if doc != nil {
						b.docs[s.Name.Pos()] = doc
					}
				case *ast.ValueSpec:
					if s.Doc != nil {
						for _, name := range s.Names {
							b.constDocs[name.Pos()] = s.Doc
						}
					}
				}
			}
		case *ast.Field:
			doc := x.Doc
			if doc == nil {
				doc = x.Comment
			}
			if doc != nil {
				for _, name := range x.Names {
					b.docs[name.Pos()] = doc
				}
			}
		}
		return true
	})
}

// extractUnits turns the directives of every loaded package into
// compilation units, one per source file.
func (b *schemaBuilder) extractUnits(qualify bool) error {
	for _, pkg := range b.pkgs {
		result, err := directive.FromSyntax(pkg.Fset, pkg.Syntax)
		if err != nil {
			return err
		}
		dir := packageDir(pkg)
		byFile, order := result.Files()
		for _, filename := range order {
			unit := ir.CompilationUnit{File: filename}
			if rel, err := filepath.Rel(dir, filename); err == nil {
				unit.File = rel
			}
			if qualify {
				unit.File = filepath.Join(pkg.Name, unit.File)
			}
			for _, d := range byFile[filename] {
				obj, ok := pkg.Types.Scope().Lookup(d.TypeName).(*types.TypeName)
				if !ok {
					return errors.Newf("%s: %s is not a package-level type", d.Pos, d.TypeName)
				}
				b.enqueue(obj)
				unit.Mocks = append(unit.Mocks, ir.MockSite{
					Name:     d.Name,
					Type:     &ir.ReferenceShape{Target: ir.Identifier{Name: d.TypeName, Module: pkg.PkgPath}},
					Hydrated: d.Hydrated,
					Count:    d.Count,
					Source:   ir.Source{File: unit.File, Line: d.Pos.Line, Column: d.Pos.Column},
				})
			}
			b.schema.AddUnit(unit)
		}
	}
	return nil
}

// extractRootType finds and queues a named type by name.
func (b *schemaBuilder) extractRootType(name string) error {
	for _, pkg := range b.pkgs {
		if tn, ok := pkg.Types.Scope().Lookup(name).(*types.TypeName); ok {
			b.enqueue(tn)
			return nil
		}
	}
	return errors.Newf("type %s not found in any package", name)
}

// extractAllExportedTypes queues all exported types of all packages.
func (b *schemaBuilder) extractAllExportedTypes() {
	for _, pkg := range b.pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			if tn, ok := scope.Lookup(name).(*types.TypeName); ok && tn.Exported() {
				b.enqueue(tn)
			}
		}
	}
}

func (b *schemaBuilder) enqueue(tn *types.TypeName) {
	if !b.done[tn] {
		b.done[tn] = true
		b.queue = append(b.queue, tn)
	}
}

func (b *schemaBuilder) drain() error {
	for len(b.queue) > 0 {
		tn := b.queue[0]
		b.queue = b.queue[1:]
		if err := b.extractNamedType(tn); err != nil {
			return err
		}
	}
	return nil
}

func identifierOf(obj types.Object) ir.Identifier {
	id := ir.Identifier{Name: obj.Name()}
	if obj.Pkg() != nil {
		id.Module = obj.Pkg().Path()
	}
	return id
}

// extractNamedType converts one named type into a declaration.
func (b *schemaBuilder) extractNamedType(tn *types.TypeName) error {
	named, ok := types.Unalias(tn.Type()).(*types.Named)
	if !ok {
		return nil
	}
	named = named.Origin()
	id := identifierOf(tn)
	doc := b.extractDocumentation(tn.Pos())
	src := b.extractSource(tn.Pos())
	tparams := b.typeParams(named.TypeParams())

	if members := b.enumConstants(tn); len(members) > 0 {
		b.schema.AddDeclaration(&ir.EnumDecl{Name: id, Members: members, Documentation: doc, Source: src})
		return nil
	}

	if hasCustomMarshaler(named) {
		b.warn("CUSTOM_MARSHALER", fmt.Sprintf("type %s implements custom marshaler, mapped to 'any'", tn.Name()), tn)
		b.schema.AddDeclaration(&ir.AliasDecl{Name: id, TypeParameters: tparams, Underlying: ir.Any(), Documentation: doc, Source: src})
		return nil
	}

	switch u := named.Underlying().(type) {
	case *types.Struct:
		members, heritage, err := b.structMembers(u)
		if err != nil {
			return errors.Wrapf(err, "type %s", tn.Name())
		}
		b.schema.AddDeclaration(&ir.InterfaceDecl{
			Name:           id,
			Class:          true,
			TypeParameters: tparams,
			Members:        members,
			Heritage:       heritage,
			Documentation:  doc,
			Source:         src,
		})

	case *types.Interface:
		if u.Empty() || !u.IsMethodSet() {
			b.schema.AddDeclaration(&ir.AliasDecl{Name: id, TypeParameters: tparams, Underlying: ir.Any(), Documentation: doc, Source: src})
			return nil
		}
		members, heritage, err := b.interfaceMembers(u)
		if err != nil {
			return errors.Wrapf(err, "type %s", tn.Name())
		}
		b.schema.AddDeclaration(&ir.InterfaceDecl{
			Name:           id,
			TypeParameters: tparams,
			Members:        members,
			Heritage:       heritage,
			Documentation:  doc,
			Source:         src,
		})

	case *types.Signature:
		sig, err := b.signature(u)
		if err != nil {
			return errors.Wrapf(err, "type %s", tn.Name())
		}
		b.schema.AddDeclaration(&ir.AliasDecl{Name: id, TypeParameters: tparams, Underlying: sig, Documentation: doc, Source: src})

	default:
		underlying, err := b.convertType(u)
		if err != nil {
			return errors.Wrapf(err, "type %s", tn.Name())
		}
		b.schema.AddDeclaration(&ir.AliasDecl{Name: id, TypeParameters: tparams, Underlying: underlying, Documentation: doc, Source: src})
	}
	return nil
}

func (b *schemaBuilder) warn(code, msg string, obj types.Object) {
	w := ir.Warning{Code: code, Message: msg}
	if obj != nil {
		w.TypeName = obj.Name()
		if src := b.extractSource(obj.Pos()); !src.IsZero() {
			w.Source = &src
		}
	}
	b.schema.AddWarning(w)
}

func (b *schemaBuilder) typeParams(list *types.TypeParamList) []ir.TypeParameterShape {
	if list == nil || list.Len() == 0 {
		return nil
	}
	out := make([]ir.TypeParameterShape, list.Len())
	for i := range list.Len() {
		tp := list.At(i)
		out[i] = ir.TypeParameterShape{
			ParamName:  tp.Obj().Name(),
			Constraint: b.convertTypeParamConstraint(tp.Constraint()),
		}
	}
	return out
}

// convertType converts a Go type to an ir type shape.
func (b *schemaBuilder) convertType(t types.Type) (ir.TypeShape, error) {
	if shape := b.handleSpecialType(t); shape != nil {
		return shape, nil
	}

	switch typ := t.(type) {
	case *types.Basic:
		return convertBasicType(typ), nil

	case *types.Named:
		obj := typ.Obj()
		if obj.Pkg() == nil {
			// error and comparable
			return ir.Any(), nil
		}
		b.enqueue(typ.Origin().Obj())
		ref := &ir.ReferenceShape{Target: identifierOf(obj)}
		if args := typ.TypeArgs(); args != nil {
			for i := range args.Len() {
				arg, err := b.convertType(args.At(i))
				if err != nil {
					return nil, err
				}
				ref.TypeArguments = append(ref.TypeArguments, arg)
			}
		}
		return ref, nil

	case *types.Pointer:
		elem, err := b.convertType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return ir.Union(elem, ir.Undefined()), nil

	case *types.Slice:
		elem, err := b.convertType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return ir.Array(elem), nil

	case *types.Array:
		elem, err := b.convertType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return ir.FixedArray(elem, int(typ.Len())), nil

	case *types.Map:
		if !isValidMapKey(typ.Key()) {
			return nil, errors.Newf("unsupported map key type: %s", typ.Key())
		}
		key, err := b.convertType(typ.Key())
		if err != nil {
			return nil, err
		}
		value, err := b.convertType(typ.Elem())
		if err != nil {
			return nil, err
		}
		return ir.Map(key, value), nil

	case *types.Interface:
		if typ.Empty() {
			return ir.Any(), nil
		}
		b.warn("INTERFACE_TYPE", fmt.Sprintf("anonymous interface type %s mapped to 'any'", typ), nil)
		return ir.Any(), nil

	case *types.Struct:
		members, heritage, err := b.structMembers(typ)
		if err != nil {
			return nil, err
		}
		if len(heritage) > 0 {
			shapes := []ir.TypeShape{ir.Object(members...)}
			for _, h := range heritage {
				shapes = append(shapes, &ir.ReferenceShape{Target: h.Target, TypeArguments: h.TypeArguments})
			}
			return ir.Intersection(shapes...), nil
		}
		return ir.Object(members...), nil

	case *types.TypeParam:
		return ir.TypeParam(typ.Obj().Name()), nil

	case *types.Alias:
		return b.convertType(types.Unalias(typ))

	case *types.Signature:
		return b.signature(typ)

	case *types.Chan:
		b.warn("UNSUPPORTED_TYPE", fmt.Sprintf("channel type %s mapped to 'any'", typ), nil)
		return ir.Any(), nil

	default:
		return nil, errors.Newf("unknown type: %T", t)
	}
}

// handleSpecialType maps types with a fixed JSON form: time.Time and
// []byte encode as strings, time.Duration as a number.
func (b *schemaBuilder) handleSpecialType(t types.Type) ir.TypeShape {
	switch typ := t.(type) {
	case *types.Slice:
		if basic, ok := typ.Elem().(*types.Basic); ok && basic.Kind() == types.Byte {
			return ir.String()
		}

	case *types.Named:
		obj := typ.Obj()
		if obj == nil || obj.Pkg() == nil {
			return nil
		}
		if obj.Pkg().Path() == "time" {
			switch obj.Name() {
			case "Time":
				return ir.String()
			case "Duration":
				return ir.Number()
			}
		}
		if obj.Pkg().Path() == "encoding/json" && obj.Name() == "RawMessage" {
			return ir.Unknown()
		}
	}
	return nil
}

// hasCustomMarshaler checks if a type implements json.Marshaler or
// encoding.TextMarshaler.
func hasCustomMarshaler(named *types.Named) bool {
	mset := types.NewMethodSet(types.NewPointer(named))
	for _, name := range []string{"MarshalJSON", "MarshalText"} {
		sel := mset.Lookup(nil, name)
		if sel == nil {
			continue
		}
		sig := sel.Type().(*types.Signature)
		if sig.Params().Len() == 0 && sig.Results().Len() == 2 {
			return true
		}
	}
	return false
}

// isValidMapKey checks if a type is a valid JSON map key.
func isValidMapKey(t types.Type) bool {
	switch typ := t.(type) {
	case *types.Basic:
		kind := typ.Kind()
		return kind == types.String || kind >= types.Int && kind <= types.Uint64
	case *types.Named:
		return hasCustomMarshaler(typ) || isValidMapKey(typ.Underlying())
	case *types.Alias:
		return isValidMapKey(types.Unalias(typ))
	}
	return false
}

// convertBasicType converts a Go basic type to its JSON primitive.
func convertBasicType(basic *types.Basic) ir.TypeShape {
	info := basic.Info()
	switch {
	case info&types.IsBoolean != 0:
		return ir.Boolean()
	case info&types.IsString != 0:
		return ir.String()
	case info&(types.IsInteger|types.IsFloat) != 0:
		return ir.Number()
	case basic.Kind() == types.UntypedNil:
		return ir.Null()
	}
	return ir.Any()
}

// structMembers converts exported struct fields using their json tags.
// Embedded structs without a json name become heritage.
func (b *schemaBuilder) structMembers(st *types.Struct) ([]ir.Member, []ir.HeritageClause, error) {
	var members []ir.Member
	var heritage []ir.HeritageClause
	for i := range st.NumFields() {
		field := st.Field(i)
		if !field.Exported() && !field.Embedded() {
			continue
		}
		jsonName, jsonOpts := parseJSONTag(parseStructTag(st.Tag(i))["json"])
		if jsonName == "-" && len(jsonOpts) == 0 {
			continue
		}

		if field.Embedded() && jsonName == "" {
			t := types.Unalias(field.Type())
			if ptr, ok := t.(*types.Pointer); ok {
				t = types.Unalias(ptr.Elem())
			}
			if named, ok := t.(*types.Named); ok && named.Obj().Pkg() != nil {
				if _, isStruct := named.Underlying().(*types.Struct); isStruct {
					ref, err := b.convertType(named)
					if err != nil {
						return nil, nil, err
					}
					if r, ok := ref.(*ir.ReferenceShape); ok {
						heritage = append(heritage, ir.HeritageClause{Target: r.Target, TypeArguments: r.TypeArguments})
						continue
					}
				}
			}
			if !field.Exported() {
				continue
			}
		}

		t, err := b.convertType(field.Type())
		if err != nil {
			return nil, nil, errors.Wrapf(err, "field %s", field.Name())
		}
		if slices.Contains(jsonOpts, "string") {
			t = ir.String()
		}
		name := jsonName
		if name == "" {
			name = field.Name()
		}
		members = append(members, ir.Member{
			Name:          name,
			Type:          t,
			Optional:      slices.Contains(jsonOpts, "omitempty") || slices.Contains(jsonOpts, "omitzero"),
			Documentation: b.extractDocumentation(field.Pos()),
		})
	}
	return members, heritage, nil
}

// interfaceMembers converts the explicit methods of an interface into
// method members. Embedded named interfaces become heritage.
func (b *schemaBuilder) interfaceMembers(iface *types.Interface) ([]ir.Member, []ir.HeritageClause, error) {
	var members []ir.Member
	var heritage []ir.HeritageClause
	for i := range iface.NumEmbeddeds() {
		embedded := iface.EmbeddedType(i)
		named, ok := types.Unalias(embedded).(*types.Named)
		if !ok || named.Obj().Pkg() == nil {
			continue
		}
		ref, err := b.convertType(named)
		if err != nil {
			return nil, nil, err
		}
		if r, ok := ref.(*ir.ReferenceShape); ok {
			heritage = append(heritage, ir.HeritageClause{Target: r.Target, TypeArguments: r.TypeArguments})
		}
	}
	for i := range iface.NumExplicitMethods() {
		m := iface.ExplicitMethod(i)
		if !m.Exported() {
			continue
		}
		sig, err := b.signature(m.Type().(*types.Signature))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "method %s", m.Name())
		}
		members = append(members, ir.Member{
			Name:          m.Name(),
			Type:          sig,
			Method:        true,
			Documentation: b.extractDocumentation(m.Pos()),
		})
	}
	return members, heritage, nil
}

// signature converts a Go function type. A trailing error result is
// dropped; several remaining results form a tuple.
func (b *schemaBuilder) signature(sig *types.Signature) (*ir.SignatureShape, error) {
	out := &ir.SignatureShape{TypeParameters: b.typeParams(sig.TypeParams())}
	for i := range sig.Params().Len() {
		p := sig.Params().At(i)
		pt := p.Type()
		if sig.Variadic() && i == sig.Params().Len()-1 {
			pt = types.NewSlice(pt.(*types.Slice).Elem())
		}
		t, err := b.convertType(pt)
		if err != nil {
			return nil, err
		}
		name := p.Name()
		if name == "" || name == "_" {
			name = fmt.Sprintf("arg%d", i)
		}
		out.Parameters = append(out.Parameters, ir.Parameter{Name: name, Type: t})
	}

	var results []ir.TypeShape
	for i := range sig.Results().Len() {
		rt := sig.Results().At(i).Type()
		if i == sig.Results().Len()-1 && isError(rt) {
			continue
		}
		t, err := b.convertType(rt)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	switch len(results) {
	case 0:
		out.Returns = ir.Void()
	case 1:
		out.Returns = results[0]
	default:
		out.Returns = ir.Tuple(results...)
	}
	return out, nil
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

// extractDocumentation returns the documentation recorded for the name
// declared at pos.
func (b *schemaBuilder) extractDocumentation(pos token.Pos) ir.Documentation {
	if cg, ok := b.docs[pos]; ok {
		return parseDocumentation(cg)
	}
	return ir.Documentation{}
}

// parseDocumentation parses a comment group into Documentation, dropping
// tymock directives.
func parseDocumentation(cg *ast.CommentGroup) ir.Documentation {
	if cg == nil {
		return ir.Documentation{}
	}
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(cg.Text()), "\n") {
		if !strings.HasPrefix(line, strings.TrimPrefix(directive.Prefix, "//")) {
			lines = append(lines, line)
		}
	}
	return documentation(strings.Join(lines, "\n"))
}

// extractSource extracts source location information.
func (b *schemaBuilder) extractSource(pos token.Pos) ir.Source {
	if !pos.IsValid() || b.fset == nil {
		return ir.Source{}
	}
	position := b.fset.Position(pos)
	return ir.Source{
		File:   position.Filename,
		Line:   position.Line,
		Column: position.Column,
	}
}

// enumConstants collects the package constants declared with a named
// basic type, in declaration order.
func (b *schemaBuilder) enumConstants(tn *types.TypeName) []ir.EnumMember {
	named, ok := tn.Type().(*types.Named)
	if !ok || tn.Pkg() == nil {
		return nil
	}
	if _, ok := named.Underlying().(*types.Basic); !ok {
		return nil
	}

	var consts []*types.Const
	scope := tn.Pkg().Scope()
	for _, name := range scope.Names() {
		if c, ok := scope.Lookup(name).(*types.Const); ok && types.Identical(c.Type(), named) {
			consts = append(consts, c)
		}
	}
	slices.SortFunc(consts, func(x, y *types.Const) int { return int(x.Pos() - y.Pos()) })

	members := make([]ir.EnumMember, 0, len(consts))
	for _, c := range consts {
		v, ok := constantValue(c.Val())
		if !ok {
			continue
		}
		m := ir.EnumMember{Name: c.Name(), Value: v}
		if cg, ok := b.constDocs[c.Pos()]; ok {
			m.Documentation = parseDocumentation(cg)
		}
		members = append(members, m)
	}
	return members
}

// constantValue converts a constant.Value to string, int64, or float64.
func constantValue(v constant.Value) (any, bool) {
	switch v.Kind() {
	case constant.String:
		return constant.StringVal(v), true
	case constant.Int:
		if i64, exact := constant.Int64Val(v); exact {
			return i64, true
		}
		f64, _ := constant.Float64Val(v)
		return f64, true
	case constant.Float:
		f64, _ := constant.Float64Val(v)
		return f64, true
	}
	return nil, false
}

// convertTypeParamConstraint converts a type parameter constraint. The
// universal constraints any and comparable carry no shape; a union type
// set becomes a union.
func (b *schemaBuilder) convertTypeParamConstraint(constraint types.Type) ir.TypeShape {
	if constraint == nil {
		return nil
	}
	iface, ok := types.Unalias(constraint).Underlying().(*types.Interface)
	if !ok || iface.Empty() {
		return nil
	}
	if iface.NumEmbeddeds() == 1 && iface.NumExplicitMethods() == 0 {
		if u, ok := iface.EmbeddedType(0).(*types.Union); ok {
			union := ir.Union()
			for i := range u.Len() {
				t, err := b.convertType(u.Term(i).Type())
				if err != nil {
					return nil
				}
				union.Types = append(union.Types, t)
			}
			if len(union.Types) == 1 {
				return union.Types[0]
			}
			return union
		}
	}
	return nil
}

func parseJSONTag(tag string) (name string, opts []string) {
	if tag == "" {
		return "", nil
	}
	parts := strings.Split(tag, ",")
	return parts[0], parts[1:]
}

// parseStructTag parses a struct tag string into a map.
func parseStructTag(tag string) map[string]string {
	result := make(map[string]string)
	for tag != "" {
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}
		tag = tag[i:]
		if tag == "" {
			break
		}

		i = 0
		for i < len(tag) && tag[i] != ':' && tag[i] != ' ' {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' {
			break
		}
		key := tag[:i]
		tag = tag[i+1:]

		if tag[0] != '"' {
			break
		}
		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			break
		}
		result[key] = tag[1:i]
		tag = tag[i+1:]
	}
	return result
}
