// Package interp evaluates compiled descriptors against a tymock registry,
// producing the same values generated code would produce.
package interp

import (
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/broady/tymock"
	"github.com/broady/tymock/tymockgen/compiler"
	"github.com/broady/tymock/tymockgen/descriptor"
)

// Interpreter registers compiled factories and builds mock values.
type Interpreter struct {
	registry *tymock.Registry
	mocks    map[string]descriptor.Descriptor
	order    []string
	logger   *slog.Logger
}

// New returns an interpreter that registers factories in r.
func New(r *tymock.Registry) *Interpreter {
	return &Interpreter{
		registry: r,
		mocks:    make(map[string]descriptor.Descriptor),
		logger:   slog.Default(),
	}
}

// WithLogger sets the interpreter's logger.
func (in *Interpreter) WithLogger(logger *slog.Logger) *Interpreter {
	in.logger = logger
	return in
}

// Registry returns the registry factories are loaded into.
func (in *Interpreter) Registry() *tymock.Registry { return in.registry }

// Load registers the factories of every unit and records its mocks.
// A later mock with the same name replaces an earlier one.
func (in *Interpreter) Load(units ...*compiler.UnitResult) {
	for _, u := range units {
		for _, reg := range u.Registrations() {
			body := reg.Body
			in.registry.RegisterFactory(reg.Key, func(g tymock.Generics) tymock.Value {
				return in.eval(body, &env{generics: g})
			})
		}
		for _, m := range u.Mocks {
			if _, ok := in.mocks[m.Name]; !ok {
				in.order = append(in.order, m.Name)
			}
			in.mocks[m.Name] = m.Value
		}
		in.logger.Debug("loaded unit", "file", u.File, "factories", len(u.Registrations()), "mocks", len(u.Mocks))
	}
}

// Names returns the loaded mock names in load order.
func (in *Interpreter) Names() []string {
	return in.order
}

// Mock builds the named mock.
func (in *Interpreter) Mock(name string) (tymock.Value, error) {
	d, ok := in.mocks[name]
	if !ok {
		return nil, errors.Newf("no mock named %q", name)
	}
	v, err := in.Eval(d)
	if err != nil {
		return nil, errors.Wrapf(err, "mock %s", name)
	}
	return v, nil
}

// Eval builds the value described by d. Lazy members are evaluated when
// read; a missing factory reached then panics as generated code would.
func (in *Interpreter) Eval(d descriptor.Descriptor) (v tymock.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(evalError)
			if !ok {
				panic(r)
			}
			err = fe.err
		}
	}()
	return in.eval(d, &env{}), nil
}

// evalError carries an evaluation failure through panics raised while
// building nested values.
type evalError struct{ err error }

func (e evalError) Error() string { return e.err.Error() }
func (e evalError) Unwrap() error { return e.err }

// env is the evaluation environment of one factory call: its generic
// bindings and the constructors of enclosing instantiations.
type env struct {
	generics tymock.Generics
	owners   *ownerScope
}

type ownerScope struct {
	parent *ownerScope
	name   string
	ctor   tymock.Constructor
}

func (e *env) withOwner(name string, ctor tymock.Constructor) *env {
	return &env{generics: e.generics, owners: &ownerScope{parent: e.owners, name: name, ctor: ctor}}
}

func (e *env) owner(name string) (tymock.Constructor, bool) {
	for o := e.owners; o != nil; o = o.parent {
		if o.name == name {
			return o.ctor, true
		}
	}
	return nil, false
}

func (in *Interpreter) eval(d descriptor.Descriptor, e *env) tymock.Value {
	switch x := d.(type) {
	case nil:
		return nil
	case *descriptor.Literal:
		return literal(x)
	case *descriptor.Array:
		out := make([]tymock.Value, len(x.Elements))
		for i, el := range x.Elements {
			out[i] = in.eval(el, e)
		}
		return out
	case *descriptor.ObjectLiteral:
		return in.object(x, e)
	case *descriptor.Conditional:
		return in.eval(x.Value, e)
	case *descriptor.Function:
		return in.function(x, e)
	case *descriptor.DeferredCall:
		generics := make(tymock.Generics, 0, len(x.Generics))
		for _, g := range x.Generics {
			value := g.Value
			generics = append(generics, tymock.Generic{
				IDs:   g.IDs,
				Value: func() tymock.Value { return in.eval(value, e) },
			})
		}
		v, err := in.registry.Call(x.Key, generics)
		if err != nil {
			panic(evalError{err})
		}
		return v
	case *descriptor.GenericRef:
		return e.generics.Get(x.ID)
	case *descriptor.Instantiate:
		if x.Source == nil {
			ctor, ok := e.owner(x.Owner)
			if !ok {
				in.logger.Debug("instantiate outside its owner", "owner", x.Owner)
				return nil
			}
			return ctor()
		}
		source := x.Source
		return tymock.Construct(func(self tymock.Constructor) tymock.Value {
			return in.eval(source, e.withOwner(x.Owner, self))
		})
	}
	panic(evalError{tymock.Errorf(tymock.CodeInvalidFactory, "unknown descriptor %T", d)})
}

func (in *Interpreter) object(o *descriptor.ObjectLiteral, e *env) *tymock.Object {
	members := make([]tymock.Member, 0, o.Len())
	for _, p := range o.Eager {
		members = append(members, tymock.Field(p.Name, in.eval(p.Value, e)))
	}
	for _, c := range o.Lazy {
		value := c.Value
		members = append(members, tymock.LazyField(c.Name, func() tymock.Value {
			return in.eval(value, e)
		}))
	}
	if o.Call != nil {
		return tymock.NewCallable(in.function(o.Call, e), members...)
	}
	return tymock.NewObject(members...)
}

func (in *Interpreter) function(f *descriptor.Function, e *env) *tymock.Func {
	returns := f.Returns
	return in.registry.Method(f.Name, func() tymock.Value {
		return in.eval(returns, e)
	})
}

func literal(l *descriptor.Literal) tymock.Value {
	switch l.LiteralKind {
	case descriptor.LiteralNull:
		return tymock.Null
	case descriptor.LiteralBigInt:
		digits, _ := l.Value.(string)
		return tymock.BigInt(digits)
	case descriptor.LiteralUndefined:
		return nil
	}
	return l.Value
}
