package render

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/crabman-cli/crabman/internal/rustdoc"
)

func testCrate() *rustdoc.Crate {
	return &rustdoc.Crate{
		Index: map[string]rustdoc.Item{},
		Paths: map[string]rustdoc.Summary{
			"10": {CrateID: 0, Path: []string{"mycrate", "MyType"}, Kind: "struct"},
		},
	}
}

func TestType(t *testing.T) {
	t.Parallel()
	r := New(testCrate())

	tests := []struct {
		name string
		json string
		want string
	}{
		{
			"primitive",
			`{"primitive":"u32"}`,
			"u32",
		},
		{
			"generic",
			`{"generic":"T"}`,
			"T",
		},
		{
			"borrowed_ref_immutable",
			`{"borrowed_ref":{"lifetime":null,"is_mutable":false,"type":{"primitive":"str"}}}`,
			"&str",
		},
		{
			"borrowed_ref_mutable",
			`{"borrowed_ref":{"lifetime":null,"is_mutable":true,"type":{"primitive":"str"}}}`,
			"&mut str",
		},
		{
			"borrowed_ref_lifetime_and_mut",
			`{"borrowed_ref":{"lifetime":"'a","is_mutable":true,"type":{"primitive":"str"}}}`,
			"&'a mut str",
		},
		{
			"slice",
			`{"slice":{"primitive":"u8"}}`,
			"[u8]",
		},
		{
			"array",
			`{"array":{"type":{"primitive":"u8"},"len":"32"}}`,
			"[u8; 32]",
		},
		{
			"tuple",
			`{"tuple":[{"primitive":"u32"},{"slice":{"primitive":"bool"}}]}`,
			"(u32, [bool])",
		},
		{
			"empty_tuple",
			`{"tuple":[]}`,
			"()",
		},
		{
			"raw_pointer_const",
			`{"raw_pointer":{"is_mutable":false,"type":{"primitive":"u8"}}}`,
			"*const u8",
		},
		{
			"raw_pointer_mut",
			`{"raw_pointer":{"is_mutable":true,"type":{"primitive":"u8"}}}`,
			"*mut u8",
		},
		{
			"resolved_path_bare",
			`{"resolved_path":{"path":"Vec","id":5,"args":null}}`,
			"Vec",
		},
		{
			"resolved_path_empty_args",
			`{"resolved_path":{"path":"Vec","id":5,"args":{"angle_bracketed":{"args":[]}}}}`,
			"Vec",
		},
		{
			"resolved_path_with_args",
			`{"resolved_path":{"path":"Vec","id":5,"args":{"angle_bracketed":{"args":[{"type":{"primitive":"u32"}}]}}}}`,
			"Vec<u32>",
		},
		{
			"resolved_path_lifetime_arg",
			`{"resolved_path":{"path":"Ref","id":5,"args":{"angle_bracketed":{"args":[{"lifetime":"'a"},{"type":{"generic":"T"}}]}}}}`,
			"Ref<'a, T>",
		},
		{
			"resolved_path_const_arg",
			`{"resolved_path":{"path":"ArrayVec","id":5,"args":{"angle_bracketed":{"args":[{"const":{"expr":"8"}}]}}}}`,
			"ArrayVec<8>",
		},
		{
			"resolved_path_name_field",
			`{"resolved_path":{"name":"HashMap","id":5,"args":null}}`,
			"HashMap",
		},
		{
			"resolved_path_from_paths_table",
			`{"resolved_path":{"id":10,"args":null}}`,
			"MyType",
		},
		{
			"qualified_path",
			`{"qualified_path":{"name":"Item","self_type":{"generic":"Self"}}}`,
			"Self::Item",
		},
		{
			"impl_trait_placeholder",
			`{"impl_trait":[{"trait_bound":{}}]}`,
			"impl ...",
		},
		{
			"dyn_trait_placeholder",
			`{"dyn_trait":{"traits":[],"lifetime":null}}`,
			"dyn ...",
		},
		{
			"function_pointer",
			`{"function_pointer":{"sig":{"inputs":[["",{"primitive":"u32"}]],"output":{"primitive":"bool"},"is_c_variadic":false},"generics":{"params":[]},"header":{"is_const":false,"is_async":false,"is_unsafe":false,"abi":"Rust"}}}`,
			"fn(u32) -> bool",
		},
		{
			"nested_reference_to_slice",
			`{"borrowed_ref":{"lifetime":null,"is_mutable":false,"type":{"slice":{"generic":"T"}}}}`,
			"&[T]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := r.Type(json.RawMessage(tt.json))
			if err != nil {
				t.Fatalf("Type(%s): %v", tt.json, err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeUnsupported(t *testing.T) {
	t.Parallel()
	r := New(testCrate())

	tests := []struct {
		name string
		json string
	}{
		{"unknown_variant", `{"infer":null}`},
		{"not_an_object", `"u32"`},
		{"empty_object", `{}`},
		{"resolved_path_no_name", `{"resolved_path":{"id":999,"args":null}}`},
		{"unknown_generic_arg", `{"resolved_path":{"path":"Vec","id":5,"args":{"angle_bracketed":{"args":[{"binding":{}}]}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := r.Type(json.RawMessage(tt.json))
			if !errors.Is(err, ErrUnsupportedTypeShape) {
				t.Errorf("got %v, want ErrUnsupportedTypeShape", err)
			}
		})
	}
}

// An error raised deep inside a nested expression surfaces unchanged.
func TestTypeNestedError(t *testing.T) {
	t.Parallel()
	r := New(testCrate())

	_, err := r.Type(json.RawMessage(`{"slice":{"infer":null}}`))
	if !errors.Is(err, ErrUnsupportedTypeShape) {
		t.Fatalf("got %v, want ErrUnsupportedTypeShape", err)
	}
}
