package typescript

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/broady/tymock/tymockgen/compiler"
	"github.com/broady/tymock/tymockgen/descriptor"
	"github.com/broady/tymock/tymockgen/emit"
	"github.com/broady/tymock/tymockgen/ir"
)

// Reserved names used by generated code. The ɵ prefix keeps them clear of
// user-visible bindings.
const (
	runtimeBinding  = "ɵRuntime"
	genericsBinding = "ɵg"
	storeBinding    = "ɵd"
	mockBinding     = "ɵm"
)

// Emitter renders one compiled unit as a TypeScript module.
type Emitter struct {
	config   emit.GeneratorConfig
	tsConfig TypeScriptConfig
	indent   string
	warnings []ir.Warning
}

// NewEmitter returns an emitter for the given configuration.
func NewEmitter(cfg emit.GeneratorConfig, ts TypeScriptConfig) *Emitter {
	return &Emitter{config: cfg, tsConfig: ts, indent: cfg.Indent()}
}

// Warnings returns the warnings raised by previous EmitUnit calls.
func (e *Emitter) Warnings() []ir.Warning {
	return e.warnings
}

// EmitUnit writes the module for unit, whose output path is outPath.
func (e *Emitter) EmitUnit(buf *bytes.Buffer, unit *compiler.UnitResult, outPath string) {
	buf.WriteString("// " + emit.Header + "\n")
	if e.config.Frontmatter != "" {
		buf.WriteString(strings.TrimRight(e.config.Frontmatter, "\n"))
		buf.WriteString("\n")
	}
	buf.WriteString("\n")

	var wroteImport bool
	for _, s := range unit.Statements {
		switch s := s.(type) {
		case compiler.RuntimeImport:
			buf.WriteString("import * as " + runtimeBinding + " from " + quote(e.runtimeImport(outPath)) + ";\n")
			wroteImport = true
		case compiler.UnitImport:
			target := emit.OutputPath(s.File, e.suffix())
			target = strings.TrimSuffix(target, ".ts") + e.tsConfig.ImportExtension
			buf.WriteString("import " + quote(emit.RelativeImport(outPath, target)) + ";\n")
			wroteImport = true
		}
	}
	if wroteImport {
		buf.WriteString("\n")
	}

	for _, r := range unit.Registrations() {
		buf.WriteString(runtimeBinding + ".registry.registerFactory(" + quote(r.Key) + ", function (" + genericsBinding + ") {\n")
		buf.WriteString(e.indent + "return ")
		e.expr(buf, r.Body, 1)
		buf.WriteString(";\n});\n\n")
	}

	seen := make(map[string]bool)
	for _, m := range unit.Mocks {
		name := sanitizeIdentifier(m.Name)
		if name != m.Name {
			e.warnings = append(e.warnings, ir.Warning{
				Code:     "INVALID_IDENTIFIER",
				Message:  "mock name " + strconv.Quote(m.Name) + " renamed to " + strconv.Quote(name),
				TypeName: m.Name,
			})
		}
		if seen[name] {
			e.warnings = append(e.warnings, ir.Warning{
				Code:     "DUPLICATE_MOCK",
				Message:  "mock " + strconv.Quote(name) + " is declared more than once in " + unit.File + "; keeping the first",
				TypeName: m.Name,
			})
			continue
		}
		seen[name] = true

		if e.config.EmitComments && !m.Source.IsZero() {
			buf.WriteString("/** " + sourceString(m.Source))
			if m.Hydrated {
				buf.WriteString(" (hydrated)")
			}
			buf.WriteString(" */\n")
		}
		buf.WriteString("export const " + name + " = ")
		e.expr(buf, m.Value, 0)
		buf.WriteString(";\n\n")
	}
}

func (e *Emitter) suffix() string {
	if e.config.FileSuffix == "" {
		return DefaultFileSuffix
	}
	return e.config.FileSuffix
}

func (e *Emitter) runtimeImport(outPath string) string {
	if !e.tsConfig.EmitRuntime {
		return e.tsConfig.RuntimeModule
	}
	target := strings.TrimSuffix(e.tsConfig.RuntimeFile, ".ts") + e.tsConfig.ImportExtension
	return emit.RelativeImport(outPath, target)
}

func sourceString(s ir.Source) string {
	out := s.File
	if s.Line > 0 {
		out += ":" + strconv.Itoa(s.Line)
	}
	return out
}

func (e *Emitter) pad(depth int) string {
	return strings.Repeat(e.indent, depth)
}

// expr writes the expression for d. depth is the indentation level of the
// line the expression starts on.
func (e *Emitter) expr(buf *bytes.Buffer, d descriptor.Descriptor, depth int) {
	switch x := d.(type) {
	case nil:
		buf.WriteString("undefined")
	case *descriptor.Literal:
		buf.WriteString(literal(x))
	case *descriptor.Array:
		e.array(buf, x, depth)
	case *descriptor.ObjectLiteral:
		e.object(buf, x, depth)
	case *descriptor.Conditional:
		e.expr(buf, x.Value, depth)
	case *descriptor.Function:
		e.function(buf, x, depth)
	case *descriptor.DeferredCall:
		e.deferredCall(buf, x, depth)
	case *descriptor.GenericRef:
		buf.WriteString(runtimeBinding + ".generic(" + genericsBinding + ", " + quote(x.ID) + ")")
	case *descriptor.Instantiate:
		e.instantiate(buf, x, depth)
	default:
		buf.WriteString("undefined")
	}
}

func literal(l *descriptor.Literal) string {
	switch l.LiteralKind {
	case descriptor.LiteralNull:
		return "null"
	case descriptor.LiteralString:
		s, _ := l.Value.(string)
		return quote(s)
	case descriptor.LiteralNumber:
		f, _ := l.Value.(float64)
		return formatNumber(f)
	case descriptor.LiteralBoolean:
		b, _ := l.Value.(bool)
		return strconv.FormatBool(b)
	case descriptor.LiteralBigInt:
		s, _ := l.Value.(string)
		return "BigInt(" + quote(s) + ")"
	}
	return "undefined"
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (e *Emitter) array(buf *bytes.Buffer, a *descriptor.Array, depth int) {
	if len(a.Elements) == 0 {
		buf.WriteString("[]")
		return
	}
	buf.WriteString("[\n")
	for _, el := range a.Elements {
		buf.WriteString(e.pad(depth + 1))
		e.expr(buf, el, depth+1)
		buf.WriteString(",\n")
	}
	buf.WriteString(e.pad(depth) + "]")
}

// properties writes the eager members of o as an object literal.
func (e *Emitter) properties(buf *bytes.Buffer, o *descriptor.ObjectLiteral, depth int) {
	if len(o.Eager) == 0 {
		buf.WriteString("{}")
		return
	}
	buf.WriteString("{\n")
	for _, p := range o.Eager {
		buf.WriteString(e.pad(depth+1) + propertyName(p.Name) + ": ")
		e.expr(buf, p.Value, depth+1)
		buf.WriteString(",\n")
	}
	buf.WriteString(e.pad(depth) + "}")
}

// base writes the eager part of o: a plain literal, or the call function
// with the eager members assigned onto it.
func (e *Emitter) base(buf *bytes.Buffer, o *descriptor.ObjectLiteral, depth int) {
	if o.Call == nil {
		e.properties(buf, o, depth)
		return
	}
	buf.WriteString("Object.assign(")
	e.function(buf, o.Call, depth)
	buf.WriteString(", ")
	e.properties(buf, o, depth)
	buf.WriteString(")")
}

// object writes o. Lazy members become accessors that memoise their value
// in a per-instance store; assigning the member replaces the stored value.
func (e *Emitter) object(buf *bytes.Buffer, o *descriptor.ObjectLiteral, depth int) {
	if len(o.Lazy) == 0 {
		e.base(buf, o, depth)
		return
	}
	in := e.pad(depth + 1)
	buf.WriteString("(function () {\n")
	buf.WriteString(in + "var " + storeBinding + " = {}, " + mockBinding + " = ")
	e.base(buf, o, depth+1)
	buf.WriteString(";\n")
	buf.WriteString(in + "Object.defineProperties(" + mockBinding + ", {\n")
	for _, c := range o.Lazy {
		e.accessor(buf, c, depth+2)
	}
	buf.WriteString(in + "});\n")
	buf.WriteString(in + "return " + mockBinding + ";\n")
	buf.WriteString(e.pad(depth) + "})()")
}

func (e *Emitter) accessor(buf *bytes.Buffer, c *descriptor.Conditional, depth int) {
	key := quote(c.Name)
	slot := storeBinding + "[" + key + "]"
	p0, p1, p2 := e.pad(depth), e.pad(depth+1), e.pad(depth+2)
	buf.WriteString(p0 + propertyName(c.Name) + ": {\n")
	buf.WriteString(p1 + "get: function () {\n")
	buf.WriteString(p2 + "if (!Object.prototype.hasOwnProperty.call(" + storeBinding + ", " + key + ")) {\n")
	buf.WriteString(e.pad(depth+3) + slot + " = ")
	e.expr(buf, c.Value, depth+3)
	buf.WriteString(";\n")
	buf.WriteString(p2 + "}\n")
	buf.WriteString(p2 + "return " + slot + ";\n")
	buf.WriteString(p1 + "},\n")
	buf.WriteString(p1 + "set: function (value) {\n")
	buf.WriteString(p2 + slot + " = value;\n")
	buf.WriteString(p1 + "},\n")
	buf.WriteString(p1 + "enumerable: true,\n")
	buf.WriteString(p1 + "configurable: true,\n")
	buf.WriteString(p0 + "},\n")
}

func (e *Emitter) function(buf *bytes.Buffer, f *descriptor.Function, depth int) {
	buf.WriteString(runtimeBinding + ".method(" + quote(f.Name) + ", function () {\n")
	buf.WriteString(e.pad(depth+1) + "return ")
	e.expr(buf, f.Returns, depth+1)
	buf.WriteString(";\n" + e.pad(depth) + "})")
}

func (e *Emitter) deferredCall(buf *bytes.Buffer, c *descriptor.DeferredCall, depth int) {
	buf.WriteString(runtimeBinding + ".registry.getFactory(" + quote(c.Key) + ")(")
	if len(c.Generics) == 0 {
		buf.WriteString(")")
		return
	}
	p1, p2 := e.pad(depth+1), e.pad(depth+2)
	buf.WriteString("[\n")
	for _, g := range c.Generics {
		ids := make([]string, len(g.IDs))
		for i, id := range g.IDs {
			ids[i] = quote(id)
		}
		buf.WriteString(p1 + "{\n")
		buf.WriteString(p2 + "ids: [" + strings.Join(ids, ", ") + "],\n")
		buf.WriteString(p2 + "value: function () {\n")
		buf.WriteString(e.pad(depth+3) + "return ")
		e.expr(buf, g.Value, depth+3)
		buf.WriteString(";\n")
		buf.WriteString(p2 + "},\n")
		buf.WriteString(p1 + "},\n")
	}
	buf.WriteString(e.pad(depth) + "])")
}

// instantiate writes a constructor call. The constructor copies the
// property descriptors of the source onto the new instance so accessors
// keep their per-instance store; references to the owner inside the source
// construct further instances with the same constructor.
func (e *Emitter) instantiate(buf *bytes.Buffer, x *descriptor.Instantiate, depth int) {
	owner := sanitizeIdentifier(x.Owner)
	if x.Source == nil {
		buf.WriteString("new " + owner + ".constructor()")
		return
	}
	in := e.pad(depth + 1)
	buf.WriteString("new (function () {\n")
	buf.WriteString(in + "var " + owner + " = this;\n")
	buf.WriteString(in + "Object.defineProperties(this, Object.getOwnPropertyDescriptors(")
	e.expr(buf, x.Source, depth+1)
	buf.WriteString("));\n")
	buf.WriteString(e.pad(depth) + "})()")
}
