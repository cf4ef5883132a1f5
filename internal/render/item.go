package render

import (
	"encoding/json"
	"strings"

	"github.com/crabman-cli/crabman/internal/rustdoc"
)

const indent = "    "

// Item renders one declaration as a block of source lines, dispatching on
// the item's payload kind. Re-exports render as nothing (they are not
// resolved to their targets). An unknown payload kind aborts with
// ErrUnsupportedItemKind carrying the raw record.
func (r *Renderer) Item(item *rustdoc.Item) ([]string, error) {
	kind := rustdoc.InnerKind(item.Inner)
	data := rustdoc.UnwrapInner(item.Inner, kind)

	var name string
	if item.Name != nil {
		name = *item.Name
	}

	switch kind {
	case "function":
		sig, err := r.FnSignature(name, data)
		if err != nil {
			return nil, err
		}
		return []string{sig}, nil
	case "constant":
		return r.constantDecl(name, data)
	case "assoc_const":
		return r.assocConstDecl(name, data)
	case "type_alias":
		return r.typeAliasDecl(name, data)
	case "assoc_type":
		return r.assocTypeDecl(name, data)
	case "struct":
		return r.structDecl(name, data)
	case "enum":
		return r.enumDecl(name, data)
	case "union":
		return r.unionDecl(name, data)
	case "trait":
		return r.traitDecl(name, data)
	case "module":
		return r.moduleDecl(name, data)
	case "macro":
		return macroDecl(data)
	case "proc_macro":
		return procMacroDecl(name, data)
	case "impl":
		return r.ImplBlock(data)
	case "use":
		return nil, nil
	default:
		return nil, recordErr(ErrUnsupportedItemKind, item.Inner)
	}
}

func (r *Renderer) constantDecl(name string, data json.RawMessage) ([]string, error) {
	var c struct {
		Type  json.RawMessage `json:"type"`
		Const *struct {
			Expr string `json:"expr"`
		} `json:"const"`
		Expr string `json:"expr"`
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, recordErr(ErrUnsupportedItemKind, data)
	}
	typ, err := r.Type(c.Type)
	if err != nil {
		return nil, err
	}

	expr := c.Expr
	if c.Const != nil {
		expr = c.Const.Expr
	}
	line := "const " + name + ": " + typ
	if expr != "" && expr != "_" {
		line += " = " + expr
	}
	return []string{line + ";"}, nil
}

func (r *Renderer) assocConstDecl(name string, data json.RawMessage) ([]string, error) {
	var c struct {
		Type  json.RawMessage `json:"type"`
		Value *string         `json:"value"`
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, recordErr(ErrUnsupportedItemKind, data)
	}
	typ, err := r.Type(c.Type)
	if err != nil {
		return nil, err
	}
	line := "const " + name + ": " + typ
	if c.Value != nil && *c.Value != "" && *c.Value != "_" {
		line += " = " + *c.Value
	}
	return []string{line + ";"}, nil
}

func (r *Renderer) typeAliasDecl(name string, data json.RawMessage) ([]string, error) {
	var t struct {
		Type     json.RawMessage `json:"type"`
		Generics json.RawMessage `json:"generics"`
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, recordErr(ErrUnsupportedItemKind, data)
	}
	typ, err := r.Type(t.Type)
	if err != nil {
		return nil, err
	}
	return []string{"type " + name + genericParams(t.Generics) + " = " + typ + ";"}, nil
}

func (r *Renderer) assocTypeDecl(name string, data json.RawMessage) ([]string, error) {
	var t struct {
		Type json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, recordErr(ErrUnsupportedItemKind, data)
	}
	if len(t.Type) == 0 || string(t.Type) == "null" {
		return []string{"type " + name + ";"}, nil
	}
	typ, err := r.Type(t.Type)
	if err != nil {
		return nil, err
	}
	return []string{"type " + name + " = " + typ + ";"}, nil
}

func (r *Renderer) structDecl(name string, data json.RawMessage) ([]string, error) {
	var s struct {
		Kind     json.RawMessage `json:"kind"`
		Generics json.RawMessage `json:"generics"`
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, recordErr(ErrUnsupportedItemKind, data)
	}
	return r.compositeBody("struct "+name+genericParams(s.Generics), s.Kind, ";")
}

func (r *Renderer) enumDecl(name string, data json.RawMessage) ([]string, error) {
	var e struct {
		Variants            []int           `json:"variants"`
		Generics            json.RawMessage `json:"generics"`
		HasStrippedVariants bool            `json:"has_stripped_variants"`
	}
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, recordErr(ErrUnsupportedItemKind, data)
	}

	lines := []string{"enum " + name + genericParams(e.Generics) + " {"}
	for _, variantID := range e.Variants {
		variant, ok := r.crate.Item(variantID)
		if !ok || variant.Name == nil {
			continue
		}
		vdata := rustdoc.UnwrapInner(variant.Inner, "variant")
		var v struct {
			Kind         json.RawMessage `json:"kind"`
			Discriminant *struct {
				Expr string `json:"expr"`
			} `json:"discriminant"`
		}
		if err := json.Unmarshal(vdata, &v); err != nil {
			return nil, recordErr(ErrUnsupportedCompositeBody, variant.Inner)
		}

		header := *variant.Name
		if v.Discriminant != nil && v.Discriminant.Expr != "" {
			header += " = " + v.Discriminant.Expr
		}
		vlines, err := r.compositeBody(header, v.Kind, ",")
		if err != nil {
			return nil, err
		}
		for _, l := range vlines {
			lines = append(lines, indent+l)
		}
	}
	if e.HasStrippedVariants {
		lines = append(lines, indent+"// some variants omitted")
	}
	return append(lines, "}"), nil
}

func (r *Renderer) unionDecl(name string, data json.RawMessage) ([]string, error) {
	var u struct {
		Fields            []int           `json:"fields"`
		Generics          json.RawMessage `json:"generics"`
		HasStrippedFields bool            `json:"has_stripped_fields"`
	}
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, recordErr(ErrUnsupportedItemKind, data)
	}

	lines := []string{"union " + name + genericParams(u.Generics) + " {"}
	fieldLines, err := r.namedFields(u.Fields, u.HasStrippedFields)
	if err != nil {
		return nil, err
	}
	lines = append(lines, fieldLines...)
	return append(lines, "}"), nil
}

func (r *Renderer) traitDecl(name string, data json.RawMessage) ([]string, error) {
	var t struct {
		Items    []int           `json:"items"`
		Generics json.RawMessage `json:"generics"`
		IsUnsafe bool            `json:"is_unsafe"`
		IsAuto   bool            `json:"is_auto"`
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, recordErr(ErrUnsupportedItemKind, data)
	}

	header := "trait " + name + genericParams(t.Generics)
	if t.IsAuto {
		header = "auto " + header
	}
	if t.IsUnsafe {
		header = "unsafe " + header
	}
	if len(t.Items) == 0 {
		return []string{header + " {}"}, nil
	}

	lines := []string{header + " {"}
	for _, memberID := range t.Items {
		member, ok := r.crate.Item(memberID)
		if !ok {
			continue
		}
		memberLines, err := r.Item(member)
		if err != nil {
			return nil, err
		}
		// Trait methods are declarations, not definitions.
		if rustdoc.InnerKind(member.Inner) == "function" {
			for i := range memberLines {
				memberLines[i] += ";"
			}
		}
		for _, l := range memberLines {
			lines = append(lines, indent+l)
		}
	}
	return append(lines, "}"), nil
}

func (r *Renderer) moduleDecl(name string, data json.RawMessage) ([]string, error) {
	var mod struct {
		Items []int `json:"items"`
	}
	if err := json.Unmarshal(data, &mod); err != nil {
		return nil, recordErr(ErrUnsupportedItemKind, data)
	}

	lines := []string{"mod " + name + " {"}
	for _, memberID := range mod.Items {
		member, ok := r.crate.Item(memberID)
		if !ok {
			continue
		}
		memberLines, err := r.Item(member)
		if err != nil {
			return nil, err
		}
		for _, l := range memberLines {
			lines = append(lines, indent+l)
		}
	}
	return append(lines, "}"), nil
}

func macroDecl(data json.RawMessage) ([]string, error) {
	var src string
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, recordErr(ErrUnsupportedItemKind, data)
	}
	return strings.Split(src, "\n"), nil
}

func procMacroDecl(name string, data json.RawMessage) ([]string, error) {
	var pm struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &pm); err != nil {
		return nil, recordErr(ErrUnsupportedItemKind, data)
	}
	switch pm.Kind {
	case "derive":
		return []string{"#[derive(" + name + ")]"}, nil
	case "attr":
		return []string{"#[" + name + "]"}, nil
	default:
		return []string{name + "!()"}, nil
	}
}

// ImplBlock renders an implementation block: header, member signatures, and
// closing brace. Empty blocks collapse to a bare "{}" marker.
func (r *Renderer) ImplBlock(data json.RawMessage) ([]string, error) {
	var impl struct {
		IsUnsafe   bool             `json:"is_unsafe"`
		IsNegative bool             `json:"is_negative"`
		Trait      *json.RawMessage `json:"trait"`
		For        json.RawMessage  `json:"for"`
		Items      []int            `json:"items"`
	}
	if err := json.Unmarshal(data, &impl); err != nil {
		return nil, recordErr(ErrUnsupportedItemKind, data)
	}

	target, err := r.Type(impl.For)
	if err != nil {
		return nil, err
	}

	header := "impl "
	if impl.IsUnsafe {
		header = "unsafe " + header
	}
	if impl.Trait != nil {
		traitName, err := r.resolvedPath(*impl.Trait)
		if err != nil {
			return nil, err
		}
		if impl.IsNegative {
			traitName = "!" + traitName
		}
		header += traitName + " for " + target
	} else {
		header += target
	}

	if len(impl.Items) == 0 {
		return []string{header + " {}"}, nil
	}

	lines := []string{header + " {"}
	for _, memberID := range impl.Items {
		member, ok := r.crate.Item(memberID)
		if !ok {
			continue
		}
		memberLines, err := r.Item(member)
		if err != nil {
			return nil, err
		}
		for _, l := range memberLines {
			lines = append(lines, indent+l)
		}
	}
	return append(lines, "}"), nil
}

// compositeBody applies the shared body template for structs, unions and
// enum variants: unit, tuple (elided entries skipped), or named fields.
// term closes single-line forms (";" for structs, "," for variants).
func (r *Renderer) compositeBody(header string, kind json.RawMessage, term string) ([]string, error) {
	// Unit bodies are a bare string tag: "unit" for structs, "plain" for
	// enum variants.
	var tag string
	if err := json.Unmarshal(kind, &tag); err == nil {
		switch tag {
		case "unit", "plain":
			return []string{header + term}, nil
		}
		return nil, recordErr(ErrUnsupportedCompositeBody, kind)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(kind, &body); err != nil {
		return nil, recordErr(ErrUnsupportedCompositeBody, kind)
	}

	if tupleData, ok := body["tuple"]; ok {
		var fieldIDs []*int
		if err := json.Unmarshal(tupleData, &fieldIDs); err != nil {
			return nil, recordErr(ErrUnsupportedCompositeBody, kind)
		}
		var parts []string
		for _, fieldID := range fieldIDs {
			if fieldID == nil {
				continue // elided field
			}
			typ, err := r.fieldType(*fieldID)
			if err != nil {
				return nil, err
			}
			if typ != "" {
				parts = append(parts, typ)
			}
		}
		return []string{header + "(" + strings.Join(parts, ", ") + ")" + term}, nil
	}

	// Named bodies: "plain" on structs, "struct" on enum variants.
	namedData, ok := body["plain"]
	if !ok {
		namedData, ok = body["struct"]
	}
	if ok {
		var named struct {
			Fields            []int `json:"fields"`
			HasStrippedFields bool  `json:"has_stripped_fields"`
		}
		if err := json.Unmarshal(namedData, &named); err != nil {
			return nil, recordErr(ErrUnsupportedCompositeBody, kind)
		}
		lines := []string{header + " {"}
		fieldLines, err := r.namedFields(named.Fields, named.HasStrippedFields)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fieldLines...)
		closing := "}"
		if term != ";" {
			closing += term
		}
		return append(lines, closing), nil
	}

	return nil, recordErr(ErrUnsupportedCompositeBody, kind)
}

func (r *Renderer) namedFields(fieldIDs []int, stripped bool) ([]string, error) {
	var lines []string
	for _, fieldID := range fieldIDs {
		field, ok := r.crate.Item(fieldID)
		if !ok || field.Name == nil {
			continue
		}
		typ, err := r.fieldType(fieldID)
		if err != nil {
			return nil, err
		}
		if typ == "" {
			continue
		}
		lines = append(lines, indent+*field.Name+": "+typ+",")
	}
	if stripped {
		lines = append(lines, indent+"/* private fields */")
	}
	return lines, nil
}

// fieldType renders the type of a struct_field item; fields absent from the
// index were stripped by rustdoc and render as nothing.
func (r *Renderer) fieldType(fieldID int) (string, error) {
	field, ok := r.crate.Item(fieldID)
	if !ok {
		return "", nil
	}
	data := rustdoc.UnwrapInner(field.Inner, "struct_field")
	if data == nil {
		return "", recordErr(ErrUnsupportedCompositeBody, field.Inner)
	}
	return r.Type(data)
}

// genericParams renders a declaration's generic parameter list, or "" when
// there are no parameters.
func genericParams(generics json.RawMessage) string {
	if len(generics) == 0 {
		return ""
	}
	var g struct {
		Params []struct {
			Name string `json:"name"`
		} `json:"params"`
	}
	if err := json.Unmarshal(generics, &g); err != nil {
		return ""
	}
	var names []string
	for _, p := range g.Params {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	return "<" + strings.Join(names, ", ") + ">"
}
