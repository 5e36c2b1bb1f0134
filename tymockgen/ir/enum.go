package ir

// EnumDecl represents an enumeration.
type EnumDecl struct {
	// Name is the type identifier.
	Name Identifier

	// Members contains all enum variants in declaration order.
	Members []EnumMember

	// Documentation for this type.
	Documentation Documentation

	// Source location.
	Source Source
}

// Kind returns KindEnum.
func (d *EnumDecl) Kind() ShapeKind { return KindEnum }

// TypeName returns the enum's name.
func (d *EnumDecl) TypeName() Identifier { return d.Name }

// Doc returns the enum's documentation.
func (d *EnumDecl) Doc() Documentation { return d.Documentation }

// Src returns the enum's source location.
func (d *EnumDecl) Src() Source { return d.Source }

func (*EnumDecl) sealed() {}

// First returns the first member, or false for an empty enum.
func (d *EnumDecl) First() (EnumMember, bool) {
	if len(d.Members) == 0 {
		return EnumMember{}, false
	}
	return d.Members[0], true
}

// EnumMember represents a single enum variant.
type EnumMember struct {
	// Name is the constant name.
	Name string

	// Value is the constant value. Providers convert values to one of
	// exactly three types: string, int64, or float64.
	Value any

	// Documentation for this member.
	Documentation Documentation
}
