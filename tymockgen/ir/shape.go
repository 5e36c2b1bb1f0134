package ir

// ShapeKind identifies the category of a type shape.
type ShapeKind int

const (
	// Named declarations (appear in Schema.Declarations)
	KindInterface ShapeKind = iota // Object type with named members
	KindClass                      // Object type declared as a class
	KindAlias                      // Type alias (type X = Y)
	KindEnum                       // Enumeration of constants
	KindFunction                   // Declared function signature

	// Expression shapes (appear nested in members and type arguments)
	KindPrimitive     // Built-in primitive type
	KindLiteral       // Literal type ("a", 1, true)
	KindArray         // Ordered collection (T[])
	KindTuple         // Fixed positional collection ([A, B])
	KindMap           // Key-value mapping (Record<K, V>)
	KindReference     // Reference to a declaration, with type arguments
	KindUnion         // Union of types (A | B)
	KindIntersection  // Intersection of types (A & B)
	KindTypeParameter // Generic type parameter (T)
	KindTypeQuery     // typeof X
	KindSignature     // Function type expression ((a: A) => R)
	KindObject        // Inline object type literal ({ a: A })
)

// String returns the string representation of the shape kind.
func (k ShapeKind) String() string {
	switch k {
	case KindInterface:
		return "Interface"
	case KindClass:
		return "Class"
	case KindAlias:
		return "Alias"
	case KindEnum:
		return "Enum"
	case KindFunction:
		return "Function"
	case KindPrimitive:
		return "Primitive"
	case KindLiteral:
		return "Literal"
	case KindArray:
		return "Array"
	case KindTuple:
		return "Tuple"
	case KindMap:
		return "Map"
	case KindReference:
		return "Reference"
	case KindUnion:
		return "Union"
	case KindIntersection:
		return "Intersection"
	case KindTypeParameter:
		return "TypeParameter"
	case KindTypeQuery:
		return "TypeQuery"
	case KindSignature:
		return "Signature"
	case KindObject:
		return "Object"
	default:
		return "Unknown"
	}
}

// IsDeclaration reports whether shapes of this kind are named declarations.
func (k ShapeKind) IsDeclaration() bool {
	return k <= KindFunction
}

// TypeShape is the base interface for all type shapes.
//
// The set of implementations is closed: consumers type-switch over the
// concrete pointer types defined in this package.
type TypeShape interface {
	// Kind returns the shape kind for type switching.
	Kind() ShapeKind

	// TypeName returns the declared name of this type.
	// Returns zero value for expression shapes.
	TypeName() Identifier

	// Doc returns associated documentation comments.
	// Returns zero value for expression shapes.
	Doc() Documentation

	// Src returns the declaration's source location.
	// Returns zero value for expression shapes.
	Src() Source

	// Ensure only types in this package can implement TypeShape.
	sealed()
}

// exprBase provides zero-value implementations of TypeShape methods
// for expression shapes that don't have names, docs, or source.
type exprBase struct{}

func (exprBase) TypeName() Identifier { return Identifier{} }
func (exprBase) Doc() Documentation   { return Documentation{} }
func (exprBase) Src() Source          { return Source{} }
func (exprBase) sealed()              {}

// TypeParameters returns the declared type parameters of a declaration or
// signature, or nil for shapes that cannot be generic.
func TypeParameters(s TypeShape) []TypeParameterShape {
	switch d := s.(type) {
	case *InterfaceDecl:
		return d.TypeParameters
	case *AliasDecl:
		return d.TypeParameters
	case *FunctionDecl:
		return d.TypeParameters
	case *SignatureShape:
		return d.TypeParameters
	}
	return nil
}
