// Package descriptor defines the compiled plan for constructing one mock
// value. The compiler produces Descriptor trees; emission backends and the
// mockrt interpreter consume them.
package descriptor

// Kind identifies the category of a descriptor.
type Kind int

const (
	KindLiteral      Kind = iota // Embeddable constant
	KindArray                    // Array literal with compiled elements
	KindObject                   // Object literal with eager and lazy members
	KindConditional              // Memoised lazy member
	KindFunction                 // Function returning a compiled value
	KindDeferredCall             // Factory lookup by key
	KindGenericRef               // Generic parameter lookup inside a factory
	KindInstantiate              // Lazily constructed generic value
)

// String returns the string representation of the descriptor kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "Literal"
	case KindArray:
		return "Array"
	case KindObject:
		return "Object"
	case KindConditional:
		return "Conditional"
	case KindFunction:
		return "Function"
	case KindDeferredCall:
		return "DeferredCall"
	case KindGenericRef:
		return "GenericRef"
	case KindInstantiate:
		return "Instantiate"
	default:
		return "Unknown"
	}
}

// Descriptor is the base interface for all descriptor variants.
type Descriptor interface {
	Kind() Kind
	sealed()
}

// LiteralKind identifies the value category of a Literal.
type LiteralKind int

const (
	LiteralUndefined LiteralKind = iota
	LiteralNull
	LiteralString
	LiteralNumber
	LiteralBoolean
	LiteralBigInt // Value holds the decimal digits as a string
)

// Literal is an embeddable constant expression.
type Literal struct {
	LiteralKind LiteralKind

	// Value is nil, string, float64 or bool depending on LiteralKind.
	Value any
}

func (*Literal) Kind() Kind { return KindLiteral }
func (*Literal) sealed()    {}

// Undefined returns the undefined literal.
func Undefined() *Literal { return &Literal{LiteralKind: LiteralUndefined} }

// Null returns the null literal.
func Null() *Literal { return &Literal{LiteralKind: LiteralNull} }

// String returns a string literal.
func String(s string) *Literal { return &Literal{LiteralKind: LiteralString, Value: s} }

// Number returns a number literal.
func Number(f float64) *Literal { return &Literal{LiteralKind: LiteralNumber, Value: f} }

// Bool returns a boolean literal.
func Bool(b bool) *Literal { return &Literal{LiteralKind: LiteralBoolean, Value: b} }

// BigInt returns a bigint literal from its decimal digits.
func BigInt(digits string) *Literal { return &Literal{LiteralKind: LiteralBigInt, Value: digits} }

// IsUndefined reports whether d is the undefined literal.
func IsUndefined(d Descriptor) bool {
	l, ok := d.(*Literal)
	return ok && l.LiteralKind == LiteralUndefined
}

// Array is an array literal whose elements are compiled individually.
type Array struct {
	Elements []Descriptor
}

func (*Array) Kind() Kind { return KindArray }
func (*Array) sealed()    {}

// Property is a named member embedded directly in an object literal.
type Property struct {
	Name  string
	Value Descriptor
}

// ObjectLiteral is an ordered set of members partitioned into eager
// properties and lazy, memoised getters.
type ObjectLiteral struct {
	Eager []Property
	Lazy  []*Conditional

	// Call makes the object invocable (callable interfaces).
	Call *Function
}

func (*ObjectLiteral) Kind() Kind { return KindObject }
func (*ObjectLiteral) sealed()    {}

// Member returns the descriptor of the named member, eager or lazy.
func (o *ObjectLiteral) Member(name string) (Descriptor, bool) {
	for _, p := range o.Eager {
		if p.Name == name {
			return p.Value, true
		}
	}
	for _, c := range o.Lazy {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// Len returns the number of members.
func (o *ObjectLiteral) Len() int {
	return len(o.Eager) + len(o.Lazy)
}

// Conditional is a getter that returns the memoised value when present in
// the per-instance store and otherwise computes Value once and stores it.
// A matching setter replaces the stored value.
type Conditional struct {
	Name  string
	Value Descriptor
}

func (*Conditional) Kind() Kind { return KindConditional }
func (*Conditional) sealed()    {}

// Function is a function whose body returns the compiled return value.
// Parameters are never mocked.
type Function struct {
	// Name is the member name for methods, used by method providers.
	Name    string
	Returns Descriptor
}

func (*Function) Kind() Kind { return KindFunction }
func (*Function) sealed()    {}

// DeferredCall looks up the factory registered under Key and invokes it
// with the generic bindings.
type DeferredCall struct {
	Key      string
	Generics []*GenericParameter
}

func (*DeferredCall) Kind() Kind { return KindDeferredCall }
func (*DeferredCall) sealed()    {}

// GenericParameter is one generic binding passed to a factory.
type GenericParameter struct {
	// IDs holds the canonical identity followed by its aliases.
	IDs []string

	// Value is returned by the binding's zero-argument function.
	Value Descriptor

	// Instantiable marks non-primitive bindings; Value is then an
	// *Instantiate.
	Instantiable bool
}

// ID returns the canonical identity.
func (g *GenericParameter) ID() string {
	if len(g.IDs) == 0 {
		return ""
	}
	return g.IDs[0]
}

// Has reports whether id is the canonical identity or an alias.
func (g *GenericParameter) Has(id string) bool {
	for _, v := range g.IDs {
		if v == id {
			return true
		}
	}
	return false
}

// GenericRef reads the generic binding with the given identity from the
// bindings passed to the enclosing factory.
type GenericRef struct {
	ID string
}

func (*GenericRef) Kind() Kind { return KindGenericRef }
func (*GenericRef) sealed()    {}

// Instantiate constructs a fresh value bound to Owner. Source is evaluated
// with Owner naming the constructor being run; a nil Source re-runs the
// constructor Owner already names in an enclosing Instantiate.
type Instantiate struct {
	Owner  string
	Source Descriptor
}

func (*Instantiate) Kind() Kind { return KindInstantiate }
func (*Instantiate) sealed()    {}

// Factory is the compiled body registered under a key.
type Factory struct {
	Key  string
	Body Descriptor
}

// NeedsLazy reports whether a member with this descriptor must be exposed
// as a memoised getter: anything that calls into a factory or generic
// binding would otherwise run, and possibly recurse, at construction time.
func NeedsLazy(d Descriptor) bool {
	switch d := d.(type) {
	case *DeferredCall, *GenericRef, *Instantiate:
		return true
	case *Array:
		for _, e := range d.Elements {
			if NeedsLazy(e) {
				return true
			}
		}
	}
	return false
}
