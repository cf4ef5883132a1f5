package render

import (
	"testing"

	"github.com/crabman-cli/crabman/internal/rustdoc"
)

func decodeCrate(t *testing.T, src string) *rustdoc.Crate {
	t.Helper()
	crate, err := rustdoc.Decode([]byte(src))
	if err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	return crate
}

const nestedCrate = `{
	"root": 0,
	"format_version": 37,
	"index": {
		"0": {"id": 0, "name": "mycrate", "inner": {"module": {"items": [1, 2]}}},
		"1": {"id": 1, "name": "m", "inner": {"module": {"items": [3]}}},
		"2": {"id": 2, "name": "Y", "inner": {"struct": {"kind": "unit", "impls": []}}},
		"3": {"id": 3, "name": "X", "inner": {"struct": {"kind": "unit", "impls": [4]}}},
		"4": {"id": 4, "inner": {"impl": {"trait": null, "for": {"resolved_path": {"path": "X", "id": 3}}, "items": [5]}}},
		"5": {"id": 5, "name": "new", "inner": {"function": {"sig": {"inputs": [], "output": null}, "generics": {"params": []}, "header": {}}}}
	},
	"paths": {},
	"external_crates": {}
}`

func TestResolveNestedPaths(t *testing.T) {
	t.Parallel()
	crate := decodeCrate(t, nestedCrate)

	table, err := Resolve(crate)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	tests := []struct {
		id   string
		name string
		want string
	}{
		{"2", "Y", "Y"},
		{"3", "X", "m::X"},
		{"5", "new", "m::X::new"},
	}
	for _, tt := range tests {
		if got := table.QualifiedName(tt.id, tt.name); got != tt.want {
			t.Errorf("QualifiedName(%s): got %q, want %q", tt.id, got, tt.want)
		}
	}

	segments := table["5"]
	want := []Segment{
		{Keyword: "mod", Name: "m"},
		{Keyword: "impl", Name: "X"},
	}
	if len(segments) != len(want) {
		t.Fatalf("got %d segments, want %d", len(segments), len(want))
	}
	for i := range want {
		if segments[i] != want[i] {
			t.Errorf("segment %d: got %+v, want %+v", i, segments[i], want[i])
		}
	}
}

func TestResolveRootContributesNoSegment(t *testing.T) {
	t.Parallel()
	crate := decodeCrate(t, nestedCrate)

	table, err := Resolve(crate)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := len(table["2"]); got != 0 {
		t.Errorf("crate-level item has %d segments, want 0", got)
	}
}

func TestResolveTraitImplSegment(t *testing.T) {
	t.Parallel()
	crate := decodeCrate(t, `{
		"root": 0,
		"format_version": 37,
		"index": {
			"0": {"id": 0, "name": "mycrate", "inner": {"module": {"items": [1]}}},
			"1": {"id": 1, "name": "X", "inner": {"struct": {"kind": "unit", "impls": [2]}}},
			"2": {"id": 2, "span": {"filename": "src/lib.rs", "begin": [1, 0], "end": [9, 0]}, "inner": {"impl": {"trait": {"path": "Clone", "id": 90}, "for": {"resolved_path": {"path": "X", "id": 1}}, "items": [3]}}},
			"3": {"id": 3, "name": "clone", "inner": {"function": {"sig": {"inputs": [], "output": null}, "generics": {"params": []}, "header": {}}}}
		},
		"paths": {},
		"external_crates": {}
	}`)

	table, err := Resolve(crate)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	segments := table["3"]
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	if segments[0].Keyword != "impl Clone for" || segments[0].Name != "X" {
		t.Errorf("got %+v, want impl Clone for X", segments[0])
	}
}

// Members of synthetic and blanket impls get no paths of their own.
func TestResolveSkipsSyntheticImpls(t *testing.T) {
	t.Parallel()
	crate := decodeCrate(t, `{
		"root": 0,
		"format_version": 37,
		"index": {
			"0": {"id": 0, "name": "mycrate", "inner": {"module": {"items": [1]}}},
			"1": {"id": 1, "name": "X", "inner": {"struct": {"kind": "unit", "impls": [2, 4]}}},
			"2": {"id": 2, "inner": {"impl": {"trait": {"path": "Send", "id": 90}, "for": {"resolved_path": {"path": "X", "id": 1}}, "items": [3], "is_synthetic": true}}},
			"3": {"id": 3, "name": "ghost", "inner": {"function": {"sig": {"inputs": [], "output": null}, "generics": {"params": []}, "header": {}}}},
			"4": {"id": 4, "inner": {"impl": {"trait": {"path": "Into", "id": 91}, "for": {"resolved_path": {"path": "X", "id": 1}}, "items": [5], "blanket_impl": {"generic": "T"}}}},
			"5": {"id": 5, "name": "into", "inner": {"function": {"sig": {"inputs": [], "output": null}, "generics": {"params": []}, "header": {}}}}
		},
		"paths": {},
		"external_crates": {}
	}`)

	table, err := Resolve(crate)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	for _, id := range []string{"3", "5"} {
		if _, ok := table[id]; ok {
			t.Errorf("item %s resolved through a synthesized impl", id)
		}
	}
	// The impl records themselves are still reachable.
	if _, ok := table["2"]; !ok {
		t.Error("synthetic impl record missing from table")
	}
}

// An item reachable through two modules keeps the path of the first edge
// walked; the table doubling as the visited set also bounds cyclic input.
func TestResolveFirstEdgeWins(t *testing.T) {
	t.Parallel()
	crate := decodeCrate(t, `{
		"root": 0,
		"format_version": 37,
		"index": {
			"0": {"id": 0, "name": "mycrate", "inner": {"module": {"items": [1, 2]}}},
			"1": {"id": 1, "name": "a", "inner": {"module": {"items": [3]}}},
			"2": {"id": 2, "name": "b", "inner": {"module": {"items": [3]}}},
			"3": {"id": 3, "name": "X", "inner": {"struct": {"kind": "unit", "impls": []}}}
		},
		"paths": {},
		"external_crates": {}
	}`)

	table, err := Resolve(crate)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := table.QualifiedName("3", "X"); got != "a::X" {
		t.Errorf("got %q, want %q", got, "a::X")
	}
}

func TestResolveMissingItemsIgnored(t *testing.T) {
	t.Parallel()
	crate := decodeCrate(t, `{
		"root": 0,
		"format_version": 37,
		"index": {
			"0": {"id": 0, "name": "mycrate", "inner": {"module": {"items": [99]}}}
		},
		"paths": {},
		"external_crates": {}
	}`)

	table, err := Resolve(crate)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(table) != 1 {
		t.Errorf("got %d entries, want only the root", len(table))
	}
}
