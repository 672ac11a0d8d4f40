package shape

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestCallKey_ValueInsensitive(t *testing.T) {
	tests := []struct {
		name string
		a    []any
		b    []any
	}{
		{"ints", []any{1, 2}, []any{99, -5}},
		{"mixed", []any{1, "x", 3.5}, []any{0, "hello", 0.0}},
		{"empty", []any{}, []any{}},
		{"nils", []any{nil}, []any{nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka := CallKey("fn", tt.a, nil)
			kb := CallKey("fn", tt.b, nil)
			if ka != kb {
				t.Errorf("keys differ for same shapes: %q vs %q", ka, kb)
			}
		})
	}
}

func TestCallKey_TypeSensitive(t *testing.T) {
	tests := []struct {
		name string
		a    []any
		b    []any
	}{
		{"int vs string", []any{1}, []any{"1"}},
		{"int vs float", []any{1}, []any{1.0}},
		{"arity", []any{1}, []any{1, 2}},
		{"slice elem type", []any{[]int{1}}, []any{[]string{"1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka := CallKey("fn", tt.a, nil)
			kb := CallKey("fn", tt.b, nil)
			if ka == kb {
				t.Errorf("keys identical for different shapes: %q", ka)
			}
		})
	}
}

func TestCallKey_KwargsDeterministic(t *testing.T) {
	// Maps iterate in random order; the key must not.
	want := CallKey("fn", nil, map[string]any{"a": 1, "b": "x", "c": 2.0})
	for i := 0; i < 50; i++ {
		got := CallKey("fn", nil, map[string]any{"c": 9.9, "a": 42, "b": "y"})
		if got != want {
			t.Fatalf("kwarg key not deterministic: %q vs %q", got, want)
		}
	}
}

func TestCallKey_KwargTypeSensitive(t *testing.T) {
	ka := CallKey("fn", nil, map[string]any{"n": 1})
	kb := CallKey("fn", nil, map[string]any{"n": "1"})
	if ka == kb {
		t.Errorf("keys identical for different kwarg types: %q", ka)
	}
}

func TestCallKey_NameSensitive(t *testing.T) {
	if CallKey("fn", []any{1}, nil) == CallKey("gn", []any{1}, nil) {
		t.Error("keys identical across distinct identifiers")
	}
}

func TestSignatureKey_Stable(t *testing.T) {
	d := Decl{
		Name:    "maxInt",
		Doc:     "Return the larger of two integers",
		Params:  []Param{{Name: "a", Type: "int"}, {Name: "b", Type: "int"}},
		Returns: []string{"int"},
	}
	if SignatureKey(d, "ctx") != SignatureKey(d, "ctx") {
		t.Error("signature key not stable")
	}
	if SignatureKey(d, "ctx") == SignatureKey(d, "other") {
		t.Error("context not part of signature key")
	}

	d2 := d
	d2.Params = []Param{{Name: "a", Type: "int"}, {Name: "b", Type: "string"}}
	if SignatureKey(d, "") == SignatureKey(d2, "") {
		t.Error("parameter type change did not change key")
	}
}

func TestSignature_Format(t *testing.T) {
	d := Decl{
		Name:    "greet",
		Doc:     "Say hello",
		Params:  []Param{{Name: "name", Type: "string"}},
		Returns: []string{"string"},
	}
	got := d.Signature()
	want := "Function: greet, Doc: Say hello, Args: [name string], Return: string"
	if got != want {
		t.Errorf("Signature() = %q, want %q", got, want)
	}

	noRet := Decl{Name: "main", Doc: "Entry point"}
	if !strings.HasSuffix(noRet.Signature(), "Return: none") {
		t.Errorf("no-return signature = %q", noRet.Signature())
	}
}

func TestPath(t *testing.T) {
	p := Path("/tmp/cache", "maxInt", "some-key")
	if filepath.Dir(p) != "/tmp/cache" {
		t.Errorf("Path dir = %q", filepath.Dir(p))
	}
	base := filepath.Base(p)
	if !strings.HasPrefix(base, "maxInt_") || !strings.HasSuffix(base, ".go") {
		t.Errorf("Path base = %q", base)
	}
	// 64 hex chars between prefix and extension
	hash := strings.TrimSuffix(strings.TrimPrefix(base, "maxInt_"), ".go")
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64", len(hash))
	}

	if Path("/tmp/cache", "maxInt", "some-key") != p {
		t.Error("Path not deterministic")
	}
	if Path("/tmp/cache", "maxInt", "other-key") == p {
		t.Error("different keys mapped to same path")
	}
}
