package render

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/crabman-cli/crabman/internal/rustdoc"
)

// Segment is one step of an item's qualified path: the keyword and name of a
// containing construct, ordered root to leaf. The item's own name is not a
// segment.
type Segment struct {
	Keyword string
	Name    string
}

// PathTable maps item IDs (index keys) to their qualified paths. Items
// absent from the table were never reached by containment edges and get no
// page of their own.
type PathTable map[string][]Segment

// Separator joins path segment names into a page key.
const Separator = "::"

// QualifiedName joins an item's path segments and its own name into the
// globally addressable page key, e.g. "io::Reader::read".
func (t PathTable) QualifiedName(id, name string) string {
	segments := t[id]
	parts := make([]string, 0, len(segments)+1)
	for _, s := range segments {
		parts = append(parts, s.Name)
	}
	parts = append(parts, name)
	return strings.Join(parts, Separator)
}

// Resolve walks containment edges from the crate root and returns the
// qualified path of every reachable item. The crate itself is never
// mutated. The root module contributes no segment, so a crate-level item's
// page key is just its own name.
//
// The first writer wins when an item is reachable through more than one
// containment edge (seen with inlined re-exports); because the table doubles
// as the visited set, malformed cyclic input cannot recurse forever either.
func Resolve(crate *rustdoc.Crate) (PathTable, error) {
	r := New(crate)
	table := make(PathTable)
	if err := r.resolve(crate.Root, nil, table); err != nil {
		return nil, err
	}
	return table, nil
}

func (r *Renderer) resolve(id int, path []Segment, table PathTable) error {
	key := strconv.Itoa(id)
	if _, seen := table[key]; seen {
		return nil
	}
	item, ok := r.crate.Item(id)
	if !ok {
		return nil
	}
	table[key] = append([]Segment(nil), path...)

	switch rustdoc.InnerKind(item.Inner) {
	case "module":
		return r.resolveModule(item, id, path, table)
	case "struct", "enum", "union":
		return r.resolveComposite(item, path, table)
	case "impl":
		return r.resolveImpl(item, path, table)
	}
	return nil
}

func (r *Renderer) resolveModule(item *rustdoc.Item, id int, path []Segment, table PathTable) error {
	var mod struct {
		Items []int `json:"items"`
	}
	if data := rustdoc.UnwrapInner(item.Inner, "module"); data != nil {
		if err := json.Unmarshal(data, &mod); err != nil {
			return recordErr(ErrUnsupportedItemKind, item.Inner)
		}
	}

	child := path
	if id != r.crate.Root && item.Name != nil {
		child = appendSegment(path, Segment{Keyword: "mod", Name: *item.Name})
	}
	for _, memberID := range mod.Items {
		if err := r.resolve(memberID, child, table); err != nil {
			return err
		}
	}
	return nil
}

// resolveComposite descends into a type's impl blocks with the path
// unchanged: the block, not the type, contributes the next segment.
func (r *Renderer) resolveComposite(item *rustdoc.Item, path []Segment, table PathTable) error {
	var t struct {
		Impls []int `json:"impls"`
	}
	if data := rustdoc.UnwrapInner(item.Inner, rustdoc.InnerKind(item.Inner)); data != nil {
		if err := json.Unmarshal(data, &t); err != nil {
			return recordErr(ErrUnsupportedItemKind, item.Inner)
		}
	}
	for _, implID := range t.Impls {
		if err := r.resolve(implID, path, table); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) resolveImpl(item *rustdoc.Item, path []Segment, table PathTable) error {
	data := rustdoc.UnwrapInner(item.Inner, "impl")
	var impl struct {
		Trait       *json.RawMessage `json:"trait"`
		For         json.RawMessage  `json:"for"`
		Items       []int            `json:"items"`
		IsSynthetic bool             `json:"is_synthetic"`
		BlanketImpl json.RawMessage  `json:"blanket_impl"`
	}
	if err := json.Unmarshal(data, &impl); err != nil {
		return recordErr(ErrUnsupportedItemKind, item.Inner)
	}

	// Members of synthetic and blanket impls belong to other crates'
	// traits; they stay renderable in implementation listings but get no
	// qualified paths of their own.
	if impl.IsSynthetic || (len(impl.BlanketImpl) > 0 && string(impl.BlanketImpl) != "null") {
		return nil
	}

	target, err := r.Type(impl.For)
	if err != nil {
		return err
	}

	keyword := "impl"
	if impl.Trait != nil {
		traitName, err := r.resolvedPath(*impl.Trait)
		if err != nil {
			return err
		}
		keyword = "impl " + traitName + " for"
	}

	child := appendSegment(path, Segment{Keyword: keyword, Name: target})
	for _, memberID := range impl.Items {
		if err := r.resolve(memberID, child, table); err != nil {
			return err
		}
	}
	return nil
}

// appendSegment extends a path without aliasing the caller's backing array,
// since sibling subtrees share the prefix.
func appendSegment(path []Segment, seg Segment) []Segment {
	child := make([]Segment, len(path), len(path)+1)
	copy(child, path)
	return append(child, seg)
}
