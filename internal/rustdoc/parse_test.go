package rustdoc

import (
	"encoding/json"
	"testing"
)

const minimalJSON = `{
	"root": 0,
	"crate_version": "1.2.3",
	"format_version": 37,
	"index": {
		"0": {"id": 0, "name": "mycrate", "inner": {"module": {"items": [1]}}},
		"1": {"id": 1, "name": "X", "inner": {"struct": {"kind": "unit", "impls": []}}}
	},
	"paths": {
		"1": {"crate_id": 0, "path": ["mycrate", "X"], "kind": "struct"}
	},
	"external_crates": {}
}`

func TestDecode(t *testing.T) {
	t.Parallel()

	crate, err := Decode([]byte(minimalJSON))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if crate.Name() != "mycrate" {
		t.Errorf("got name %q, want %q", crate.Name(), "mycrate")
	}
	if crate.Version() != "1.2.3" {
		t.Errorf("got version %q, want %q", crate.Version(), "1.2.3")
	}
	if crate.FormatVersion != 37 {
		t.Errorf("got format version %d, want 37", crate.FormatVersion)
	}

	item, ok := crate.Item(1)
	if !ok {
		t.Fatal("Item(1) not found")
	}
	if item.Name == nil || *item.Name != "X" {
		t.Errorf("got item name %v, want X", item.Name)
	}
	if _, ok := crate.Item(99); ok {
		t.Error("Item(99) unexpectedly found")
	}
}

func TestDecodeMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte(`{"root": 7, "index": {}, "paths": {}}`))
	if err == nil {
		t.Fatal("expected error for missing root item")
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	t.Parallel()

	if _, err := Decode([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestVersionFallback(t *testing.T) {
	t.Parallel()

	crate := &Crate{}
	if got := crate.Version(); got != "latest" {
		t.Errorf("got %q, want %q", got, "latest")
	}
	empty := ""
	crate.CrateVersion = &empty
	if got := crate.Version(); got != "latest" {
		t.Errorf("got %q, want %q", got, "latest")
	}
}

func TestInnerKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		inner string
		want  string
	}{
		{"struct", `{"struct": {"kind": "unit"}}`, "struct"},
		{"function", `{"function": {}}`, "function"},
		{"empty", ``, "unknown"},
		{"not_object", `"text"`, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := InnerKind(json.RawMessage(tt.inner)); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrapInner(t *testing.T) {
	t.Parallel()

	inner := json.RawMessage(`{"struct": {"kind": "unit"}}`)
	if got := UnwrapInner(inner, "struct"); string(got) != `{"kind": "unit"}` {
		t.Errorf("got %s", got)
	}
	if got := UnwrapInner(inner, "enum"); got != nil {
		t.Errorf("got %s, want nil for mismatched kind", got)
	}
	if got := UnwrapInner(nil, "struct"); got != nil {
		t.Errorf("got %s, want nil for empty inner", got)
	}
}
