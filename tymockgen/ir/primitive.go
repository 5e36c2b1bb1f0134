package ir

// PrimitiveKind identifies the category of a primitive type.
type PrimitiveKind int

const (
	PrimitiveString PrimitiveKind = iota
	PrimitiveNumber
	PrimitiveBoolean
	PrimitiveBigInt
	PrimitiveVoid
	PrimitiveUndefined
	PrimitiveNull
	PrimitiveAny
	PrimitiveUnknown
	PrimitiveNever
	PrimitiveObject // the non-primitive `object` keyword
)

var primitiveNames = [...]string{
	PrimitiveString:    "string",
	PrimitiveNumber:    "number",
	PrimitiveBoolean:   "boolean",
	PrimitiveBigInt:    "bigint",
	PrimitiveVoid:      "void",
	PrimitiveUndefined: "undefined",
	PrimitiveNull:      "null",
	PrimitiveAny:       "any",
	PrimitiveUnknown:   "unknown",
	PrimitiveNever:     "never",
	PrimitiveObject:    "object",
}

// String returns the keyword spelling of the primitive kind.
func (k PrimitiveKind) String() string {
	if k < 0 || int(k) >= len(primitiveNames) {
		return "unknown"
	}
	return primitiveNames[k]
}

// ParsePrimitive returns the primitive kind for a keyword.
func ParsePrimitive(keyword string) (PrimitiveKind, bool) {
	for i, name := range primitiveNames {
		if name == keyword {
			return PrimitiveKind(i), true
		}
	}
	return 0, false
}

// UndefinedLike reports whether values of this kind are always undefined.
func (k PrimitiveKind) UndefinedLike() bool {
	return k == PrimitiveVoid || k == PrimitiveUndefined
}

// PrimitiveShape represents a built-in primitive type.
type PrimitiveShape struct {
	exprBase
	PrimitiveKind PrimitiveKind
}

// Kind returns KindPrimitive.
func (d *PrimitiveShape) Kind() ShapeKind { return KindPrimitive }

// Convenience constructors for common primitives.

// String returns a PrimitiveShape for string.
func String() *PrimitiveShape { return &PrimitiveShape{PrimitiveKind: PrimitiveString} }

// Number returns a PrimitiveShape for number.
func Number() *PrimitiveShape { return &PrimitiveShape{PrimitiveKind: PrimitiveNumber} }

// Boolean returns a PrimitiveShape for boolean.
func Boolean() *PrimitiveShape { return &PrimitiveShape{PrimitiveKind: PrimitiveBoolean} }

// BigInt returns a PrimitiveShape for bigint.
func BigInt() *PrimitiveShape { return &PrimitiveShape{PrimitiveKind: PrimitiveBigInt} }

// Void returns a PrimitiveShape for void.
func Void() *PrimitiveShape { return &PrimitiveShape{PrimitiveKind: PrimitiveVoid} }

// Undefined returns a PrimitiveShape for undefined.
func Undefined() *PrimitiveShape { return &PrimitiveShape{PrimitiveKind: PrimitiveUndefined} }

// Null returns a PrimitiveShape for null.
func Null() *PrimitiveShape { return &PrimitiveShape{PrimitiveKind: PrimitiveNull} }

// Any returns a PrimitiveShape for any.
func Any() *PrimitiveShape { return &PrimitiveShape{PrimitiveKind: PrimitiveAny} }

// Unknown returns a PrimitiveShape for unknown.
func Unknown() *PrimitiveShape { return &PrimitiveShape{PrimitiveKind: PrimitiveUnknown} }

// IsUndefinedLike reports whether a shape is the undefined or void primitive.
func IsUndefinedLike(s TypeShape) bool {
	p, ok := s.(*PrimitiveShape)
	return ok && p.PrimitiveKind.UndefinedLike()
}
