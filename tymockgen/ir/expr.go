package ir

// ArrayShape represents an ordered collection (T[]).
type ArrayShape struct {
	exprBase

	// Element is the array element type.
	Element TypeShape

	// Length is 0 for open arrays, or the minimum length when it is known
	// (fixed-size arrays from Go sources).
	Length int
}

// Kind returns KindArray.
func (d *ArrayShape) Kind() ShapeKind { return KindArray }

// Array returns an ArrayShape with no known length.
func Array(element TypeShape) *ArrayShape {
	return &ArrayShape{Element: element}
}

// FixedArray returns an ArrayShape with a known length.
func FixedArray(element TypeShape, length int) *ArrayShape {
	return &ArrayShape{Element: element, Length: length}
}

// TupleShape represents a fixed positional collection ([A, B]).
type TupleShape struct {
	exprBase

	// Elements are the positional element types.
	Elements []TypeShape
}

// Kind returns KindTuple.
func (d *TupleShape) Kind() ShapeKind { return KindTuple }

// Tuple returns a TupleShape.
func Tuple(elements ...TypeShape) *TupleShape {
	return &TupleShape{Elements: elements}
}

// MapShape represents a key-value mapping (Record<K, V> or an index signature).
type MapShape struct {
	exprBase

	// Key is the map key type.
	Key TypeShape

	// Value is the map value type.
	Value TypeShape
}

// Kind returns KindMap.
func (d *MapShape) Kind() ShapeKind { return KindMap }

// Map returns a MapShape.
func Map(key, value TypeShape) *MapShape {
	return &MapShape{Key: key, Value: value}
}

// ReferenceShape represents a reference to a declaration.
type ReferenceShape struct {
	exprBase

	// Target is the referenced declaration's identifier.
	Target Identifier

	// TypeArguments are positional arguments for Target's type parameters.
	// Missing trailing arguments fall back to the parameter default.
	TypeArguments []TypeShape
}

// Kind returns KindReference.
func (d *ReferenceShape) Kind() ShapeKind { return KindReference }

// Ref returns a ReferenceShape for a declaration in the default module.
func Ref(name string, args ...TypeShape) *ReferenceShape {
	return &ReferenceShape{Target: Identifier{Name: name}, TypeArguments: args}
}

// UnionShape represents a union of types (A | B | ...).
type UnionShape struct {
	exprBase

	// Types contains the union members in declared order.
	Types []TypeShape
}

// Kind returns KindUnion.
func (d *UnionShape) Kind() ShapeKind { return KindUnion }

// Union returns a UnionShape.
func Union(types ...TypeShape) *UnionShape {
	return &UnionShape{Types: types}
}

// IntersectionShape represents an intersection of types (A & B & ...).
type IntersectionShape struct {
	exprBase

	// Types contains the constituents in declared order. Later constituents
	// win on member name collisions.
	Types []TypeShape
}

// Kind returns KindIntersection.
func (d *IntersectionShape) Kind() ShapeKind { return KindIntersection }

// Intersection returns an IntersectionShape.
func Intersection(types ...TypeShape) *IntersectionShape {
	return &IntersectionShape{Types: types}
}

// TypeParameterShape represents a generic type parameter.
//
// It appears in two contexts:
//   - Declaration: in a declaration's TypeParameters, where Constraint and
//     Default describe the parameter.
//   - Usage: as a member or argument type, where only ParamName is used to
//     refer back to the nearest declaration that declares it.
type TypeParameterShape struct {
	exprBase

	// ParamName is the type parameter name (e.g., "T").
	ParamName string

	// Constraint is the declared constraint; nil means unconstrained.
	Constraint TypeShape

	// Default is the declared default type; nil means none.
	Default TypeShape
}

// Kind returns KindTypeParameter.
func (d *TypeParameterShape) Kind() ShapeKind { return KindTypeParameter }

// TypeParam returns a TypeParameterShape.
func TypeParam(name string) *TypeParameterShape {
	return &TypeParameterShape{ParamName: name}
}

// TypeQueryShape represents `typeof X`.
type TypeQueryShape struct {
	exprBase

	// Target is the queried declaration.
	Target Identifier
}

// Kind returns KindTypeQuery.
func (d *TypeQueryShape) Kind() ShapeKind { return KindTypeQuery }

// TypeOf returns a TypeQueryShape.
func TypeOf(name string) *TypeQueryShape {
	return &TypeQueryShape{Target: Identifier{Name: name}}
}

// Parameter is a single function parameter.
type Parameter struct {
	Name     string
	Type     TypeShape
	Optional bool
}

// SignatureShape represents a function type or method signature.
type SignatureShape struct {
	exprBase

	// TypeParameters contains signature-level generic parameters.
	TypeParameters []TypeParameterShape

	// Parameters are listed for completeness; mocks never inspect them.
	Parameters []Parameter

	// Returns is the return type. nil means void.
	Returns TypeShape
}

// Kind returns KindSignature.
func (d *SignatureShape) Kind() ShapeKind { return KindSignature }

// Signature returns a SignatureShape with the given return type.
func Signature(returns TypeShape) *SignatureShape {
	return &SignatureShape{Returns: returns}
}

// ObjectShape represents an inline object type literal.
type ObjectShape struct {
	exprBase

	// Members contains the declared members in order.
	Members []Member
}

// Kind returns KindObject.
func (d *ObjectShape) Kind() ShapeKind { return KindObject }

// Object returns an ObjectShape.
func Object(members ...Member) *ObjectShape {
	return &ObjectShape{Members: members}
}

// LiteralShape represents a literal type such as "a", 1 or true.
type LiteralShape struct {
	exprBase

	// Value is a string, float64 or bool.
	Value any
}

// Kind returns KindLiteral.
func (d *LiteralShape) Kind() ShapeKind { return KindLiteral }

// Literal returns a LiteralShape.
func Literal(v any) *LiteralShape {
	return &LiteralShape{Value: v}
}
