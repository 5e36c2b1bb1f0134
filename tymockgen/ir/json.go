package ir

import "encoding/json"

// JSON serialization support for IR types.
// All shapes include a "kind" field for type discrimination.

// MarshalJSON implements json.Marshaler for InterfaceDecl.
func (d *InterfaceDecl) MarshalJSON() ([]byte, error) {
	type Alias InterfaceDecl
	kind := "interface"
	if d.Class {
		kind = "class"
	}
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Kind:  kind,
		Alias: (*Alias)(d),
	})
}

// MarshalJSON implements json.Marshaler for AliasDecl.
func (d *AliasDecl) MarshalJSON() ([]byte, error) {
	type Alias AliasDecl
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Kind:  "alias",
		Alias: (*Alias)(d),
	})
}

// MarshalJSON implements json.Marshaler for EnumDecl.
func (d *EnumDecl) MarshalJSON() ([]byte, error) {
	type Alias EnumDecl
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Kind:  "enum",
		Alias: (*Alias)(d),
	})
}

// MarshalJSON implements json.Marshaler for FunctionDecl.
func (d *FunctionDecl) MarshalJSON() ([]byte, error) {
	type Alias FunctionDecl
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Kind:  "function",
		Alias: (*Alias)(d),
	})
}

// MarshalJSON implements json.Marshaler for PrimitiveShape.
func (d *PrimitiveShape) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind          string `json:"kind"`
		PrimitiveKind string `json:"primitiveKind"`
	}{
		Kind:          "primitive",
		PrimitiveKind: d.PrimitiveKind.String(),
	})
}

// MarshalJSON implements json.Marshaler for LiteralShape.
func (d *LiteralShape) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind  string `json:"kind"`
		Value any    `json:"value"`
	}{
		Kind:  "literal",
		Value: d.Value,
	})
}

// MarshalJSON implements json.Marshaler for ArrayShape.
func (d *ArrayShape) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind    string    `json:"kind"`
		Element TypeShape `json:"element"`
		Length  int       `json:"length,omitempty"`
	}{
		Kind:    "array",
		Element: d.Element,
		Length:  d.Length,
	})
}

// MarshalJSON implements json.Marshaler for TupleShape.
func (d *TupleShape) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind     string      `json:"kind"`
		Elements []TypeShape `json:"elements"`
	}{
		Kind:     "tuple",
		Elements: d.Elements,
	})
}

// MarshalJSON implements json.Marshaler for MapShape.
func (d *MapShape) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind  string    `json:"kind"`
		Key   TypeShape `json:"key"`
		Value TypeShape `json:"value"`
	}{
		Kind:  "map",
		Key:   d.Key,
		Value: d.Value,
	})
}

// MarshalJSON implements json.Marshaler for ReferenceShape.
func (d *ReferenceShape) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind          string      `json:"kind"`
		Name          string      `json:"name"`
		Module        string      `json:"module,omitempty"`
		TypeArguments []TypeShape `json:"typeArguments,omitempty"`
	}{
		Kind:          "reference",
		Name:          d.Target.Name,
		Module:        d.Target.Module,
		TypeArguments: d.TypeArguments,
	})
}

// MarshalJSON implements json.Marshaler for UnionShape.
func (d *UnionShape) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind  string      `json:"kind"`
		Types []TypeShape `json:"types"`
	}{
		Kind:  "union",
		Types: d.Types,
	})
}

// MarshalJSON implements json.Marshaler for IntersectionShape.
func (d *IntersectionShape) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind  string      `json:"kind"`
		Types []TypeShape `json:"types"`
	}{
		Kind:  "intersection",
		Types: d.Types,
	})
}

// MarshalJSON implements json.Marshaler for TypeParameterShape.
func (d *TypeParameterShape) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind       string    `json:"kind"`
		ParamName  string    `json:"paramName"`
		Constraint TypeShape `json:"constraint,omitempty"`
		Default    TypeShape `json:"default,omitempty"`
	}{
		Kind:       "typeParameter",
		ParamName:  d.ParamName,
		Constraint: d.Constraint,
		Default:    d.Default,
	})
}

// MarshalJSON implements json.Marshaler for TypeQueryShape.
func (d *TypeQueryShape) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind   string `json:"kind"`
		Name   string `json:"name"`
		Module string `json:"module,omitempty"`
	}{
		Kind:   "typeQuery",
		Name:   d.Target.Name,
		Module: d.Target.Module,
	})
}

// MarshalJSON implements json.Marshaler for SignatureShape.
func (d *SignatureShape) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind           string               `json:"kind"`
		TypeParameters []TypeParameterShape `json:"typeParameters,omitempty"`
		Parameters     []Parameter          `json:"parameters,omitempty"`
		Returns        TypeShape            `json:"returns,omitempty"`
	}{
		Kind:           "signature",
		TypeParameters: d.TypeParameters,
		Parameters:     d.Parameters,
		Returns:        d.Returns,
	})
}

// MarshalJSON implements json.Marshaler for ObjectShape.
func (d *ObjectShape) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind    string   `json:"kind"`
		Members []Member `json:"members"`
	}{
		Kind:    "object",
		Members: d.Members,
	})
}

// MarshalJSON implements json.Marshaler for Identifier.
func (id Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name   string `json:"name"`
		Module string `json:"module,omitempty"`
	}{
		Name:   id.Name,
		Module: id.Module,
	})
}

// MarshalJSON implements json.Marshaler for Member.
func (m Member) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name     string    `json:"name"`
		Type     TypeShape `json:"type"`
		Optional bool      `json:"optional,omitempty"`
		Method   bool      `json:"method,omitempty"`
		Doc      string    `json:"doc,omitempty"`
	}{
		Name:     m.Name,
		Type:     m.Type,
		Optional: m.Optional,
		Method:   m.Method,
		Doc:      m.Documentation.Summary,
	})
}

// MarshalJSON implements json.Marshaler for EnumMember.
func (m EnumMember) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name  string `json:"name"`
		Value any    `json:"value"`
		Doc   string `json:"doc,omitempty"`
	}{
		Name:  m.Name,
		Value: m.Value,
		Doc:   m.Documentation.Summary,
	})
}

// MarshalJSON implements json.Marshaler for MockSite.
func (m MockSite) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name     string    `json:"name,omitempty"`
		Type     TypeShape `json:"type"`
		Hydrated bool      `json:"hydrated,omitempty"`
		Count    int       `json:"count,omitempty"`
	}{
		Name:     m.Name,
		Type:     m.Type,
		Hydrated: m.Hydrated,
		Count:    m.Count,
	})
}
