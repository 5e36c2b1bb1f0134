package ir

import "testing"

func TestIdentifier_IsZero(t *testing.T) {
	tests := []struct {
		name string
		id   Identifier
		want bool
	}{
		{"empty", Identifier{}, true},
		{"name only", Identifier{Name: "Foo"}, false},
		{"module only", Identifier{Module: "pkg"}, false},
		{"both", Identifier{Name: "Foo", Module: "pkg"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.IsZero(); got != tt.want {
				t.Errorf("Identifier.IsZero() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIdentifier_String(t *testing.T) {
	if got := (Identifier{Name: "User"}).String(); got != "User" {
		t.Errorf("String() = %q, want %q", got, "User")
	}
	if got := (Identifier{Name: "User", Module: "./models"}).String(); got != "./models.User" {
		t.Errorf("String() = %q, want %q", got, "./models.User")
	}
}

func TestDocumentation_IsZero(t *testing.T) {
	deprecatedMsg := "use Account"
	tests := []struct {
		name string
		doc  Documentation
		want bool
	}{
		{"empty", Documentation{}, true},
		{"summary only", Documentation{Summary: "A summary"}, false},
		{"body only", Documentation{Body: "Full body"}, false},
		{"deprecated only", Documentation{Deprecated: &deprecatedMsg}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.IsZero(); got != tt.want {
				t.Errorf("Documentation.IsZero() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSource_IsZero(t *testing.T) {
	if !(Source{}).IsZero() {
		t.Error("empty Source should be zero")
	}
	if (Source{File: "user.ts", Line: 3}).IsZero() {
		t.Error("Source with file should not be zero")
	}
}

func TestPackageInfo_IsZero(t *testing.T) {
	if !(PackageInfo{}).IsZero() {
		t.Error("empty PackageInfo should be zero")
	}
	if (PackageInfo{Name: "models"}).IsZero() {
		t.Error("PackageInfo with name should not be zero")
	}
}

func TestSource_String(t *testing.T) {
	tests := []struct {
		src  Source
		want string
	}{
		{Source{}, ""},
		{Source{File: "a.yaml"}, "a.yaml"},
		{Source{File: "a.yaml", Line: 3}, "a.yaml:3"},
		{Source{File: "a.yaml", Line: 3, Column: 7}, "a.yaml:3:7"},
	}
	for _, tt := range tests {
		if got := tt.src.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestWarning_String(t *testing.T) {
	w := Warning{Code: "UNRESOLVED_REFERENCE", Message: "no declaration for Foo"}
	if got, want := w.String(), "UNRESOLVED_REFERENCE: no declaration for Foo"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	w.Source = &Source{File: "api.yaml", Line: 4, Column: 5}
	if got, want := w.String(), "api.yaml:4:5: UNRESOLVED_REFERENCE: no declaration for Foo"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
