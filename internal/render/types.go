package render

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/crabman-cli/crabman/internal/rustdoc"
)

// Renderer turns structured rustdoc records back into Rust surface syntax.
// It is a pure reader of the crate index; the same input always produces the
// same text.
type Renderer struct {
	crate *rustdoc.Crate
}

func New(crate *rustdoc.Crate) *Renderer {
	return &Renderer{crate: crate}
}

// Placeholder tokens for trait bounds that rustdoc leaves unresolved.
// Reconstructing the bound lists is upstream work, not a rendering bug.
const (
	opaquePlaceholder  = "impl ..."
	dynamicPlaceholder = "dyn ..."
)

// Type renders a rustdoc type expression. The variant set is closed; any
// other shape returns ErrUnsupportedTypeShape with the offending record.
func (r *Renderer) Type(expr json.RawMessage) (string, error) {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(expr, &outer); err != nil {
		return "", recordErr(ErrUnsupportedTypeShape, expr)
	}

	if prim, ok := outer["primitive"]; ok {
		var name string
		if err := json.Unmarshal(prim, &name); err != nil {
			return "", recordErr(ErrUnsupportedTypeShape, expr)
		}
		return name, nil
	}

	if g, ok := outer["generic"]; ok {
		var name string
		if err := json.Unmarshal(g, &name); err != nil {
			return "", recordErr(ErrUnsupportedTypeShape, expr)
		}
		return name, nil
	}

	if br, ok := outer["borrowed_ref"]; ok {
		return r.borrowedRef(br)
	}

	if sl, ok := outer["slice"]; ok {
		inner, err := r.Type(sl)
		if err != nil {
			return "", err
		}
		return "[" + inner + "]", nil
	}

	if arr, ok := outer["array"]; ok {
		return r.array(arr)
	}

	if tp, ok := outer["tuple"]; ok {
		return r.tuple(tp)
	}

	if rp, ok := outer["raw_pointer"]; ok {
		return r.rawPointer(rp)
	}

	if resolved, ok := outer["resolved_path"]; ok {
		return r.resolvedPath(resolved)
	}

	if qp, ok := outer["qualified_path"]; ok {
		return r.qualifiedPath(qp)
	}

	if _, ok := outer["impl_trait"]; ok {
		return opaquePlaceholder, nil
	}

	if _, ok := outer["dyn_trait"]; ok {
		return dynamicPlaceholder, nil
	}

	if fp, ok := outer["function_pointer"]; ok {
		return r.FnSignature("", fp)
	}

	return "", recordErr(ErrUnsupportedTypeShape, expr)
}

func (r *Renderer) borrowedRef(br json.RawMessage) (string, error) {
	var ref struct {
		Lifetime  *string         `json:"lifetime"`
		IsMutable bool            `json:"is_mutable"`
		Type      json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(br, &ref); err != nil {
		return "", recordErr(ErrUnsupportedTypeShape, br)
	}

	inner, err := r.Type(ref.Type)
	if err != nil {
		return "", err
	}

	prefix := "&"
	if ref.Lifetime != nil && *ref.Lifetime != "" {
		prefix += *ref.Lifetime + " "
	}
	if ref.IsMutable {
		prefix += "mut "
	}
	return prefix + inner, nil
}

func (r *Renderer) array(arr json.RawMessage) (string, error) {
	var a struct {
		Type json.RawMessage `json:"type"`
		Len  string          `json:"len"`
	}
	if err := json.Unmarshal(arr, &a); err != nil {
		return "", recordErr(ErrUnsupportedTypeShape, arr)
	}
	inner, err := r.Type(a.Type)
	if err != nil {
		return "", err
	}
	return "[" + inner + "; " + a.Len + "]", nil
}

func (r *Renderer) tuple(tp json.RawMessage) (string, error) {
	var types []json.RawMessage
	if err := json.Unmarshal(tp, &types); err != nil {
		return "", recordErr(ErrUnsupportedTypeShape, tp)
	}
	parts := make([]string, 0, len(types))
	for _, t := range types {
		s, err := r.Type(t)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}

func (r *Renderer) rawPointer(rp json.RawMessage) (string, error) {
	var p struct {
		IsMutable bool            `json:"is_mutable"`
		Type      json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(rp, &p); err != nil {
		return "", recordErr(ErrUnsupportedTypeShape, rp)
	}
	inner, err := r.Type(p.Type)
	if err != nil {
		return "", err
	}
	if p.IsMutable {
		return "*mut " + inner, nil
	}
	return "*const " + inner, nil
}

func (r *Renderer) resolvedPath(resolved json.RawMessage) (string, error) {
	var rp struct {
		Path string          `json:"path"`
		Name string          `json:"name"`
		ID   int             `json:"id"`
		Args json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal(resolved, &rp); err != nil {
		return "", recordErr(ErrUnsupportedTypeShape, resolved)
	}

	// Older rustdoc emits "name" instead of "path"; both can be empty,
	// in which case the paths table still knows the item.
	name := rp.Path
	if name == "" {
		name = rp.Name
	}
	if name == "" {
		if summary, ok := r.crate.Paths[strconv.Itoa(rp.ID)]; ok && len(summary.Path) > 0 {
			name = summary.Path[len(summary.Path)-1]
		}
	}
	if name == "" {
		return "", recordErr(ErrUnsupportedTypeShape, resolved)
	}

	args, err := r.genericArgs(rp.Args)
	if err != nil {
		return "", err
	}
	return name + args, nil
}

// genericArgs renders an angle-bracketed argument list, or "" when the list
// is empty so bare paths stay bare (Vec, not Vec<>).
func (r *Renderer) genericArgs(argsJSON json.RawMessage) (string, error) {
	if len(argsJSON) == 0 || string(argsJSON) == "null" {
		return "", nil
	}

	var args struct {
		AngleBracketed *struct {
			Args []json.RawMessage `json:"args"`
		} `json:"angle_bracketed"`
	}
	if err := json.Unmarshal(argsJSON, &args); err != nil || args.AngleBracketed == nil {
		return "", nil
	}

	parts := make([]string, 0, len(args.AngleBracketed.Args))
	for _, arg := range args.AngleBracketed.Args {
		var a map[string]json.RawMessage
		if err := json.Unmarshal(arg, &a); err != nil {
			return "", recordErr(ErrUnsupportedTypeShape, arg)
		}
		if typeData, ok := a["type"]; ok {
			t, err := r.Type(typeData)
			if err != nil {
				return "", err
			}
			parts = append(parts, t)
		} else if lifetime, ok := a["lifetime"]; ok {
			var lt string
			if err := json.Unmarshal(lifetime, &lt); err != nil {
				return "", recordErr(ErrUnsupportedTypeShape, arg)
			}
			parts = append(parts, lt)
		} else if constArg, ok := a["const"]; ok {
			var c struct {
				Expr string `json:"expr"`
			}
			if err := json.Unmarshal(constArg, &c); err != nil {
				return "", recordErr(ErrUnsupportedTypeShape, arg)
			}
			parts = append(parts, c.Expr)
		} else {
			return "", recordErr(ErrUnsupportedTypeShape, arg)
		}
	}

	if len(parts) == 0 {
		return "", nil
	}
	return "<" + strings.Join(parts, ", ") + ">", nil
}

func (r *Renderer) qualifiedPath(qp json.RawMessage) (string, error) {
	var q struct {
		Name     string          `json:"name"`
		SelfType json.RawMessage `json:"self_type"`
	}
	if err := json.Unmarshal(qp, &q); err != nil {
		return "", recordErr(ErrUnsupportedTypeShape, qp)
	}
	selfType, err := r.Type(q.SelfType)
	if err != nil {
		return "", err
	}
	return selfType + "::" + q.Name, nil
}
