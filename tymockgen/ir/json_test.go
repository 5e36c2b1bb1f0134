package ir

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestJSON_KindDiscriminator(t *testing.T) {
	tests := []struct {
		name  string
		shape TypeShape
		want  string
	}{
		{"interface", Interface("User"), `"kind":"interface"`},
		{"class", &InterfaceDecl{Name: Identifier{Name: "Svc"}, Class: true}, `"kind":"class"`},
		{"alias", &AliasDecl{Name: Identifier{Name: "ID"}, Underlying: String()}, `"kind":"alias"`},
		{"enum", &EnumDecl{Name: Identifier{Name: "Color"}}, `"kind":"enum"`},
		{"primitive", String(), `{"kind":"primitive","primitiveKind":"string"}`},
		{"reference", Ref("Box", Number()), `{"kind":"reference","name":"Box","typeArguments":[{"kind":"primitive","primitiveKind":"number"}]}`},
		{"union", Union(String(), Undefined()), `"kind":"union"`},
		{"type query", TypeOf("Color"), `{"kind":"typeQuery","name":"Color"}`},
		{"literal", Literal("on"), `{"kind":"literal","value":"on"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.shape)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}
			if !strings.Contains(string(b), tt.want) {
				t.Errorf("Marshal() = %s, want it to contain %s", b, tt.want)
			}
		})
	}
}

func TestJSON_Member(t *testing.T) {
	b, err := json.Marshal(OptionalProp("age", Number()))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	want := `{"name":"age","type":{"kind":"primitive","primitiveKind":"number"},"optional":true}`
	if string(b) != want {
		t.Errorf("Marshal() = %s, want %s", b, want)
	}
}
