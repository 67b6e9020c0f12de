package model

import (
	"errors"
	"strings"
	"testing"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(string(k))
		if err != nil {
			t.Errorf("ParseKind(%q) failed: %v", k, err)
		}
		if parsed != k {
			t.Errorf("ParseKind(%q) = %q", k, parsed)
		}
	}

	_, err := ParseKind("friendship")
	var inv *InvalidArgumentError
	if !errors.As(err, &inv) {
		t.Errorf("expected InvalidArgumentError for unknown kind, got %v", err)
	}

	// Kinds are lowercase on the wire; anything else is rejected.
	if _, err := ParseKind("Inheritance"); err == nil {
		t.Error("expected error for mixed-case kind")
	}
}

func TestMethod_Signature(t *testing.T) {
	tests := []struct {
		name   string
		method Method
		want   string
	}{
		{"no params", Method{Name: "area", ReturnType: "float"}, "area()"},
		{"one param", Method{Name: "scale", Params: []Parameter{{Name: "f", Type: "float"}}}, "scale(float)"},
		{
			"param order matters",
			Method{Name: "move", Params: []Parameter{{Name: "dx", Type: "int"}, {Name: "s", Type: "string"}}},
			"move(int,string)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.method.Signature(); got != tt.want {
				t.Errorf("Signature() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"Shape", "x", "snake_case", "Camel9"}
	for _, name := range valid {
		if err := validateName(name); err != nil {
			t.Errorf("validateName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "9th", "_lead", "with space", "dash-ed", strings.Repeat("a", 51)}
	for _, name := range invalid {
		if err := validateName(name); err == nil {
			t.Errorf("validateName(%q) = nil, want error", name)
		}
	}
}

func TestValidateTypeName(t *testing.T) {
	// Types allow composite syntax.
	for _, typ := range []string{"int", "list[int]", "*Shape", "map[string]int"} {
		if err := validateTypeName(typ); err != nil {
			t.Errorf("validateTypeName(%q) = %v, want nil", typ, err)
		}
	}
	if err := validateTypeName(""); err == nil {
		t.Error("empty type should be rejected")
	}
}
