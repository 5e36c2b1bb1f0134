package ir

// AliasDecl represents a type alias.
//
// Aliases of inline object shapes compile to their own factory like
// interfaces do. Aliases of anything else are expanded inline at each use
// with their type arguments substituted.
type AliasDecl struct {
	// Name is the type identifier.
	Name Identifier

	// TypeParameters contains generic type parameters.
	TypeParameters []TypeParameterShape

	// Underlying is the aliased type.
	Underlying TypeShape

	// Documentation for this type.
	Documentation Documentation

	// Source location.
	Source Source
}

// Kind returns KindAlias.
func (d *AliasDecl) Kind() ShapeKind { return KindAlias }

// TypeName returns the alias's name.
func (d *AliasDecl) TypeName() Identifier { return d.Name }

// Doc returns the alias's documentation.
func (d *AliasDecl) Doc() Documentation { return d.Documentation }

// Src returns the alias's source location.
func (d *AliasDecl) Src() Source { return d.Source }

func (*AliasDecl) sealed() {}

// ObjectLike reports whether the alias names an object shape.
func (d *AliasDecl) ObjectLike() bool {
	_, ok := d.Underlying.(*ObjectShape)
	return ok
}

// FunctionDecl represents a declared function.
type FunctionDecl struct {
	// Name is the function identifier.
	Name Identifier

	// TypeParameters contains generic type parameters.
	TypeParameters []TypeParameterShape

	// Signature is the function's parameter and return shape.
	Signature *SignatureShape

	// Documentation for this function.
	Documentation Documentation

	// Source location.
	Source Source
}

// Kind returns KindFunction.
func (d *FunctionDecl) Kind() ShapeKind { return KindFunction }

// TypeName returns the function's name.
func (d *FunctionDecl) TypeName() Identifier { return d.Name }

// Doc returns the function's documentation.
func (d *FunctionDecl) Doc() Documentation { return d.Documentation }

// Src returns the function's source location.
func (d *FunctionDecl) Src() Source { return d.Source }

func (*FunctionDecl) sealed() {}
