package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/crabman-cli/crabman/internal/markdown"
	"github.com/crabman-cli/crabman/internal/roff"
	"github.com/crabman-cli/crabman/internal/rustdoc"
)

// Page is one assembled reference page ready for the output sink.
type Page struct {
	Name      string // output file name, <qualified>.<section>
	Qualified string
	Kind      string
	Section   int
	Summary   string
	Content   string
}

// Assembler composes one man page per named, resolved item. Resolution must
// be complete before any page is assembled.
type Assembler struct {
	crate    *rustdoc.Crate
	paths    PathTable
	renderer *Renderer
	section  int
}

func NewAssembler(crate *rustdoc.Crate, paths PathTable, section int) *Assembler {
	return &Assembler{
		crate:    crate,
		paths:    paths,
		renderer: New(crate),
		section:  section,
	}
}

// Pages assembles every page for the crate in a deterministic order.
// Items without a display name or never reached by resolution get no page;
// re-exports are intentionally skipped rather than resolved to their
// targets.
func (a *Assembler) Pages() ([]Page, error) {
	ids := make([]int, 0, len(a.crate.Index))
	for key := range a.crate.Index {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("non-numeric index key %q", key)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var pages []Page
	for _, id := range ids {
		key := strconv.Itoa(id)
		item := a.crate.Index[key]
		if item.Name == nil {
			continue
		}
		if _, ok := a.paths[key]; !ok {
			continue
		}
		if rustdoc.InnerKind(item.Inner) == "use" {
			continue
		}
		page, err := a.Page(key, &item)
		if err != nil {
			return nil, fmt.Errorf("assembling %s: %w", a.paths.QualifiedName(key, *item.Name), err)
		}
		pages = append(pages, *page)
	}
	return pages, nil
}

// Page assembles a single item's man page: title, NAME, SYNOPSIS (the
// declaration reopened inside its ancestor containment chain), DESCRIPTION,
// an implementations listing for composite kinds, SEE ALSO from intra-doc
// links, and the raw structured record for traceability.
func (a *Assembler) Page(id string, item *rustdoc.Item) (*Page, error) {
	qualified := a.paths.QualifiedName(id, *item.Name)
	kind := rustdoc.InnerKind(item.Inner)

	var docs string
	if item.Docs != nil {
		docs = *item.Docs
	}
	summary := markdown.FirstLine(docs)
	if summary == "" {
		summary = qualified
	}

	var d roff.Builder
	d.Title(qualified, a.section)

	d.Section("NAME")
	d.Raw(roff.Escape(qualified) + ` \(em ` + roff.Escape(summary))

	if err := a.synopsis(&d, id, item); err != nil {
		return nil, err
	}

	if docs != "" {
		d.Section("DESCRIPTION")
		d.Literal()
		for _, line := range strings.Split(docs, "\n") {
			d.Text(line)
		}
		d.LiteralEnd()
	}

	if kind == "struct" || kind == "enum" || kind == "union" {
		if err := a.implementations(&d, item); err != nil {
			return nil, err
		}
	}

	a.seeAlso(&d, item, docs)

	record, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling raw record: %w", err)
	}
	d.Section("RAW RECORD")
	d.Literal()
	for _, line := range strings.Split(string(record), "\n") {
		d.Text(line)
	}
	d.LiteralEnd()

	return &Page{
		Name:      fmt.Sprintf("%s.%d", qualified, a.section),
		Qualified: qualified,
		Kind:      kind,
		Section:   a.section,
		Summary:   summary,
		Content:   d.String(),
	}, nil
}

// synopsis writes the declaration nested inside its ancestor chain, one
// indent block per ancestor, closed in reverse order.
func (a *Assembler) synopsis(d *roff.Builder, id string, item *rustdoc.Item) error {
	lines, err := a.renderer.Item(item)
	if err != nil {
		return err
	}

	d.Section("SYNOPSIS")
	d.Literal()

	segments := a.paths[id]
	for _, seg := range segments {
		d.Text(seg.Keyword + " " + seg.Name + " {")
		d.Indent()
	}

	for _, line := range lines {
		d.Text(line)
	}
	d.Break()

	for range segments {
		d.Outdent()
		d.Text("}")
	}

	d.LiteralEnd()
	return nil
}

// implementations lists a composite type's impl blocks. Blocks carrying a
// source location sort before compiler-synthesized ones (stable, so rustdoc
// order is otherwise preserved); empty blocks render as a bare {} marker.
func (a *Assembler) implementations(d *roff.Builder, item *rustdoc.Item) error {
	kind := rustdoc.InnerKind(item.Inner)
	var t struct {
		Impls []int `json:"impls"`
	}
	if data := rustdoc.UnwrapInner(item.Inner, kind); data != nil {
		if err := json.Unmarshal(data, &t); err != nil {
			return recordErr(ErrUnsupportedItemKind, item.Inner)
		}
	}
	if len(t.Impls) == 0 {
		return nil
	}

	implIDs := append([]int(nil), t.Impls...)
	sort.SliceStable(implIDs, func(i, j int) bool {
		return !a.hasNoSpan(implIDs[i]) && a.hasNoSpan(implIDs[j])
	})

	d.Section("IMPLEMENTATIONS")
	d.Literal()
	wrote := false
	for _, implID := range implIDs {
		implItem, ok := a.crate.Item(implID)
		if !ok {
			continue
		}
		data := rustdoc.UnwrapInner(implItem.Inner, "impl")
		if data == nil {
			continue
		}
		lines, err := a.renderer.ImplBlock(data)
		if err != nil {
			return err
		}
		if wrote {
			d.Break()
		}
		for _, line := range lines {
			d.Text(line)
		}
		wrote = true
	}
	d.LiteralEnd()
	return nil
}

func (a *Assembler) hasNoSpan(id int) bool {
	item, ok := a.crate.Item(id)
	return !ok || item.Span == nil
}

// seeAlso cross-references the items this item's documentation links to,
// in document order, restricted to links that resolve to a page.
func (a *Assembler) seeAlso(d *roff.Builder, item *rustdoc.Item, docs string) {
	if len(item.Links) == 0 {
		return
	}

	var refs []string
	seen := make(map[string]bool)
	for _, target := range markdown.LinkTargets(docs) {
		linkedID, ok := item.Links[target]
		if !ok {
			continue
		}
		key := strconv.Itoa(linkedID)
		linked, ok := a.crate.Item(linkedID)
		if !ok || linked.Name == nil {
			continue
		}
		if _, ok := a.paths[key]; !ok {
			continue
		}
		qualified := a.paths.QualifiedName(key, *linked.Name)
		if !seen[qualified] {
			seen[qualified] = true
			refs = append(refs, qualified)
		}
	}
	if len(refs) == 0 {
		return
	}

	d.Section("SEE ALSO")
	for i, ref := range refs {
		d.Reference(ref, a.section, i == len(refs)-1)
	}
}
