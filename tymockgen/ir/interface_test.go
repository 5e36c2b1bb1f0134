package ir

import "testing"

func TestInterfaceDecl_Kind(t *testing.T) {
	if k := (&InterfaceDecl{}).Kind(); k != KindInterface {
		t.Errorf("InterfaceDecl.Kind() = %v, want KindInterface", k)
	}
	if k := (&InterfaceDecl{Class: true}).Kind(); k != KindClass {
		t.Errorf("class InterfaceDecl.Kind() = %v, want KindClass", k)
	}
}

func TestInterfaceDecl_Accessors(t *testing.T) {
	name := Identifier{Name: "User", Module: "./models"}
	doc := Documentation{Summary: "User is a registered account."}
	src := Source{File: "user.ts", Line: 10}
	d := &InterfaceDecl{Name: name, Documentation: doc, Source: src}

	if d.TypeName() != name {
		t.Errorf("TypeName() = %v, want %v", d.TypeName(), name)
	}
	if d.Doc() != doc {
		t.Errorf("Doc() = %v, want %v", d.Doc(), doc)
	}
	if d.Src() != src {
		t.Errorf("Src() = %v, want %v", d.Src(), src)
	}
}

func TestInterfaceDecl_Full(t *testing.T) {
	// interface Derived<T> extends Base<T> {
	//     name: string;
	//     age?: number;
	//     greet(): string;
	// }
	d := &InterfaceDecl{
		Name:           Identifier{Name: "Derived"},
		TypeParameters: []TypeParameterShape{{ParamName: "T"}},
		Heritage: []HeritageClause{
			{Target: Identifier{Name: "Base"}, TypeArguments: []TypeShape{TypeParam("T")}},
		},
		Members: []Member{
			Prop("name", String()),
			OptionalProp("age", Number()),
			Method("greet", String()),
		},
	}

	if len(d.Members) != 3 {
		t.Fatalf("len(Members) = %d, want 3", len(d.Members))
	}
	if d.Members[0].Optional {
		t.Error("name should not be optional")
	}
	if !d.Members[1].Optional {
		t.Error("age should be optional")
	}
	greet := d.Members[2]
	if !greet.Method {
		t.Error("greet should be a method")
	}
	sig, ok := greet.Type.(*SignatureShape)
	if !ok {
		t.Fatalf("greet.Type = %T, want *SignatureShape", greet.Type)
	}
	if sig.Returns.(*PrimitiveShape).PrimitiveKind != PrimitiveString {
		t.Errorf("greet returns %v, want string", sig.Returns)
	}
	if got := d.Heritage[0].TypeArguments[0].(*TypeParameterShape).ParamName; got != "T" {
		t.Errorf("heritage argument = %q, want T", got)
	}
}
