package ir

// InterfaceDecl represents an object type declared as an interface or a class.
type InterfaceDecl struct {
	// Name is the type identifier.
	Name Identifier

	// Class marks a class declaration. Classes and interfaces compile the
	// same way; the flag only changes Kind.
	Class bool

	// TypeParameters contains generic type parameters in declaration order.
	TypeParameters []TypeParameterShape

	// Members contains the declared properties and methods in order.
	// Inherited members are not repeated here; see Heritage.
	Members []Member

	// Heritage lists extended types in declaration order.
	Heritage []HeritageClause

	// CallSignature is set for callable interfaces.
	CallSignature *SignatureShape

	// Documentation for this type.
	Documentation Documentation

	// Source location.
	Source Source
}

// Kind returns KindInterface or KindClass.
func (d *InterfaceDecl) Kind() ShapeKind {
	if d.Class {
		return KindClass
	}
	return KindInterface
}

// TypeName returns the declaration's name.
func (d *InterfaceDecl) TypeName() Identifier { return d.Name }

// Doc returns the declaration's documentation.
func (d *InterfaceDecl) Doc() Documentation { return d.Documentation }

// Src returns the declaration's source location.
func (d *InterfaceDecl) Src() Source { return d.Source }

func (*InterfaceDecl) sealed() {}

// Member is a single property or method of an object type.
type Member struct {
	// Name is the property name as it appears on the mock.
	Name string

	// Type is the member's type. For methods it is a *SignatureShape.
	Type TypeShape

	// Optional marks `name?: T`. An optional member behaves as a union
	// of Type and undefined.
	Optional bool

	// Method marks a method declaration rather than a function-typed property.
	Method bool

	// Documentation for this member.
	Documentation Documentation
}

// HeritageClause is one extended type together with its type arguments.
type HeritageClause struct {
	// Target is the extended declaration.
	Target Identifier

	// TypeArguments are positional, matching Target's type parameters.
	TypeArguments []TypeShape
}

// Interface returns an InterfaceDecl with the given members.
func Interface(name string, members ...Member) *InterfaceDecl {
	return &InterfaceDecl{Name: Identifier{Name: name}, Members: members}
}

// Prop returns a required member.
func Prop(name string, t TypeShape) Member {
	return Member{Name: name, Type: t}
}

// OptionalProp returns an optional member.
func OptionalProp(name string, t TypeShape) Member {
	return Member{Name: name, Type: t, Optional: true}
}

// Method returns a method member returning the given type.
func Method(name string, returns TypeShape) Member {
	return Member{Name: name, Type: Signature(returns), Method: true}
}
