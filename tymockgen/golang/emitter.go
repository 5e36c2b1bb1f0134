package golang

import (
	"io"
	"math"
	"path"
	"strconv"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/broady/tymock/tymockgen/compiler"
	"github.com/broady/tymock/tymockgen/descriptor"
	"github.com/broady/tymock/tymockgen/emit"
	"github.com/broady/tymock/tymockgen/ir"
)

// genericsParam names the bindings parameter of every factory function.
const genericsParam = "g"

// Emitter renders compiled units as Go files.
type Emitter struct {
	config   emit.GeneratorConfig
	goConfig GoConfig
	warnings []ir.Warning

	// declared maps accessor names to the unit that declared them. Every
	// unit lands in one package, so names are unique across EmitUnit calls.
	declared map[string]string
}

// NewEmitter returns an emitter for the given configuration.
func NewEmitter(cfg emit.GeneratorConfig, gc GoConfig) *Emitter {
	return &Emitter{config: cfg, goConfig: gc, declared: make(map[string]string)}
}

// Warnings returns the warnings raised by previous EmitUnit calls.
func (e *Emitter) Warnings() []ir.Warning {
	return e.warnings
}

// EmitUnit renders unit to w. The output is gofmt-formatted.
func (e *Emitter) EmitUnit(w io.Writer, unit *compiler.UnitResult) error {
	f := jen.NewFile(e.goConfig.Package)
	f.ImportName(e.goConfig.RuntimePath, "tymock")
	f.HeaderComment(emit.Header)
	if fm := strings.TrimSpace(e.config.Frontmatter); fm != "" {
		f.HeaderComment(fm)
	}

	if regs := unit.Registrations(); len(regs) > 0 {
		f.Func().Id("init").Params().BlockFunc(func(g *jen.Group) {
			for _, r := range regs {
				g.Add(e.rt("Default")).Dot("RegisterFactory").Call(
					jen.Lit(r.Key),
					jen.Func().Params(jen.Id(genericsParam).Add(e.rt("Generics"))).Add(e.rt("Value")).Block(
						jen.Return(e.expr(r.Body)),
					),
				)
			}
		})
	}

	for _, m := range unit.Mocks {
		name := e.accessorName(unit.File, m.Name)
		if _, dup := e.declared[name]; dup {
			e.warnings = append(e.warnings, ir.Warning{
				Code:     "DUPLICATE_MOCK",
				Message:  "mock accessor " + name + " is declared more than once in " + unit.File + "; keeping the first",
				TypeName: m.Name,
			})
			continue
		}
		e.declared[name] = unit.File

		f.Line()
		doc := name + " builds the " + strconv.Quote(m.Name) + " mock"
		if m.Hydrated {
			doc += " with every optional member filled"
		}
		if e.config.EmitComments && !m.Source.IsZero() {
			doc += " requested at " + m.Source.File
			if m.Source.Line > 0 {
				doc += ":" + strconv.Itoa(m.Source.Line)
			}
		}
		f.Comment(doc + ".")
		f.Func().Id(name).Params().Add(e.rt("Value")).Block(
			jen.Return(e.expr(m.Value)),
		)
	}

	return f.Render(w)
}

// accessorName returns the exported accessor for a mock. A name already
// taken by another unit is qualified with the unit's file stem, so Mock0 in
// two.ts becomes TwoMock0.
func (e *Emitter) accessorName(file, mock string) string {
	name := exportedName(mock)
	if owner, ok := e.declared[name]; ok && owner != file {
		name = exportedName(path.Base(emit.OutputPath(file, ""))) + name
	}
	return name
}

func (e *Emitter) rt(name string) *jen.Statement {
	return jen.Qual(e.goConfig.RuntimePath, name)
}

// thunk returns func() tymock.Value { return <d> }.
func (e *Emitter) thunk(d descriptor.Descriptor) *jen.Statement {
	return jen.Func().Params().Add(e.rt("Value")).Block(jen.Return(e.expr(d)))
}

func (e *Emitter) expr(d descriptor.Descriptor) *jen.Statement {
	switch x := d.(type) {
	case *descriptor.Literal:
		return e.literal(x)
	case *descriptor.Array:
		elems := make([]jen.Code, len(x.Elements))
		for i, el := range x.Elements {
			elems[i] = e.expr(el)
		}
		return jen.Index().Add(e.rt("Value")).Values(elems...)
	case *descriptor.ObjectLiteral:
		return e.object(x)
	case *descriptor.Conditional:
		return e.expr(x.Value)
	case *descriptor.Function:
		return e.function(x)
	case *descriptor.DeferredCall:
		return e.deferredCall(x)
	case *descriptor.GenericRef:
		return jen.Id(genericsParam).Dot("Get").Call(jen.Lit(x.ID))
	case *descriptor.Instantiate:
		owner := identifier(x.Owner)
		if x.Source == nil {
			return jen.Id(owner).Call()
		}
		return e.rt("Construct").Call(
			jen.Func().Params(jen.Id(owner).Add(e.rt("Constructor"))).Add(e.rt("Value")).Block(
				jen.Return(e.expr(x.Source)),
			),
		)
	}
	return jen.Nil()
}

func (e *Emitter) literal(l *descriptor.Literal) *jen.Statement {
	switch l.LiteralKind {
	case descriptor.LiteralNull:
		return e.rt("Null")
	case descriptor.LiteralString:
		s, _ := l.Value.(string)
		return jen.Lit(s)
	case descriptor.LiteralNumber:
		f, _ := l.Value.(float64)
		switch {
		case math.IsNaN(f):
			return jen.Qual("math", "NaN").Call()
		case math.IsInf(f, 1):
			return jen.Qual("math", "Inf").Call(jen.Lit(1))
		case math.IsInf(f, -1):
			return jen.Qual("math", "Inf").Call(jen.Lit(-1))
		}
		return jen.Lit(f)
	case descriptor.LiteralBoolean:
		b, _ := l.Value.(bool)
		return jen.Lit(b)
	case descriptor.LiteralBigInt:
		s, _ := l.Value.(string)
		return e.rt("BigInt").Call(jen.Lit(s))
	}
	return jen.Nil()
}

func (e *Emitter) object(o *descriptor.ObjectLiteral) *jen.Statement {
	members := make([]jen.Code, 0, o.Len()+1)
	if o.Call != nil {
		members = append(members, e.function(o.Call))
	}
	for _, p := range o.Eager {
		members = append(members, e.rt("Field").Call(jen.Lit(p.Name), e.expr(p.Value)))
	}
	for _, c := range o.Lazy {
		members = append(members, e.rt("LazyField").Call(jen.Lit(c.Name), e.thunk(c.Value)))
	}
	if o.Call != nil {
		return e.rt("NewCallable").CallFunc(lines(members))
	}
	return e.rt("NewObject").CallFunc(lines(members))
}

// lines renders each argument on its own line.
func lines(args []jen.Code) func(*jen.Group) {
	return func(g *jen.Group) {
		for _, a := range args {
			g.Line().Add(a)
		}
		if len(args) > 0 {
			g.Line()
		}
	}
}

func (e *Emitter) function(f *descriptor.Function) *jen.Statement {
	return e.rt("Default").Dot("Method").Call(jen.Lit(f.Name), e.thunk(f.Returns))
}

func (e *Emitter) deferredCall(c *descriptor.DeferredCall) *jen.Statement {
	if len(c.Generics) == 0 {
		return e.rt("Default").Dot("MustCall").Call(jen.Lit(c.Key), jen.Nil())
	}
	bindings := make([]jen.Code, len(c.Generics))
	for i, gp := range c.Generics {
		ids := make([]jen.Code, len(gp.IDs))
		for j, id := range gp.IDs {
			ids[j] = jen.Lit(id)
		}
		bindings[i] = jen.Values(jen.Dict{
			jen.Id("IDs"):   jen.Index().String().Values(ids...),
			jen.Id("Value"): e.thunk(gp.Value),
		})
	}
	return e.rt("Default").Dot("MustCall").Call(
		jen.Lit(c.Key),
		e.rt("Generics").ValuesFunc(lines(bindings)),
	)
}

// exportedName turns a mock name into an exported Go identifier:
// "user" becomes "User", "admin-user" becomes "AdminUser".
func exportedName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	out := b.String()
	if out == "" || !unicode.IsLetter([]rune(out)[0]) {
		out = "Mock" + out
	}
	return out
}

// identifier replaces characters not allowed in Go identifiers.
func identifier(name string) string {
	out := strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, name)
	if out == "" || unicode.IsDigit([]rune(out)[0]) {
		out = "_" + out
	}
	return out
}

func isIdentifier(name string) bool {
	return name != "" && identifier(name) == name && !strings.HasPrefix(name, "_")
}
