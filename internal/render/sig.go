package render

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FnSignature builds a plain-text Rust function signature from structured
// rustdoc JSON. An empty name yields the bare form used for function
// pointer types, e.g. "fn(u32) -> bool".
//
// Header keyword order is a contract: const, async, unsafe, then the extern
// ABI (quoted, only when not the default "Rust").
func (r *Renderer) FnSignature(name string, fnData json.RawMessage) (string, error) {
	var fn struct {
		Sig struct {
			Inputs      []json.RawMessage `json:"inputs"`
			Output      json.RawMessage   `json:"output"`
			IsCVariadic bool              `json:"is_c_variadic"`
		} `json:"sig"`
		Generics struct {
			Params []struct {
				Name string `json:"name"`
			} `json:"params"`
		} `json:"generics"`
		Header struct {
			IsConst  bool            `json:"is_const"`
			IsAsync  bool            `json:"is_async"`
			IsUnsafe bool            `json:"is_unsafe"`
			ABI      json.RawMessage `json:"abi"`
		} `json:"header"`
	}
	if err := json.Unmarshal(fnData, &fn); err != nil {
		return "", recordErr(ErrUnsupportedItemKind, fnData)
	}

	var b strings.Builder

	if fn.Header.IsConst {
		b.WriteString("const ")
	}
	if fn.Header.IsAsync {
		b.WriteString("async ")
	}
	if fn.Header.IsUnsafe {
		b.WriteString("unsafe ")
	}
	if abi := abiName(fn.Header.ABI); abi != "" {
		fmt.Fprintf(&b, "extern %q ", abi)
	}

	b.WriteString("fn")
	if name != "" {
		b.WriteString(" ")
		b.WriteString(name)
	}

	var genericNames []string
	for _, p := range fn.Generics.Params {
		if p.Name != "" {
			genericNames = append(genericNames, p.Name)
		}
	}
	if len(genericNames) > 0 {
		b.WriteString("<")
		b.WriteString(strings.Join(genericNames, ", "))
		b.WriteString(">")
	}

	b.WriteString("(")
	var params []string
	for _, input := range fn.Sig.Inputs {
		var pair []json.RawMessage
		if err := json.Unmarshal(input, &pair); err != nil || len(pair) != 2 {
			return "", recordErr(ErrUnsupportedTypeShape, input)
		}
		var paramName string
		json.Unmarshal(pair[0], &paramName)

		// Render self params with Rust shorthand
		if paramName == "self" {
			params = append(params, selfShorthand(pair[1]))
			continue
		}

		typeStr, err := r.Type(pair[1])
		if err != nil {
			return "", err
		}
		if paramName == "" || paramName == "_" {
			params = append(params, typeStr)
		} else {
			params = append(params, paramName+": "+typeStr)
		}
	}
	if fn.Sig.IsCVariadic {
		params = append(params, "...")
	}
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(")")

	if len(fn.Sig.Output) > 0 && string(fn.Sig.Output) != "null" {
		retType, err := r.Type(fn.Sig.Output)
		if err != nil {
			return "", err
		}
		b.WriteString(" -> ")
		b.WriteString(retType)
	}

	return b.String(), nil
}

// abiName extracts the calling convention from a rustdoc header.
// The default "Rust" ABI renders as nothing; others are shaped like
// {"C": {"unwind": false}} with the convention as the single key.
func abiName(abi json.RawMessage) string {
	if len(abi) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(abi, &s) == nil {
		if s == "Rust" {
			return ""
		}
		return s
	}
	var m map[string]json.RawMessage
	if json.Unmarshal(abi, &m) == nil {
		for k := range m {
			return k
		}
	}
	return ""
}

// selfShorthand converts a rustdoc self-parameter type to Rust shorthand.
// {"generic": "Self"} → "self", a borrowed ref of Self → "&self" / "&mut self".
func selfShorthand(typeJSON json.RawMessage) string {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(typeJSON, &outer); err != nil {
		return "self"
	}
	if _, ok := outer["generic"]; ok {
		return "self"
	}
	if br, ok := outer["borrowed_ref"]; ok {
		var ref struct {
			Lifetime  *string `json:"lifetime"`
			IsMutable bool    `json:"is_mutable"`
		}
		json.Unmarshal(br, &ref)
		prefix := "&"
		if ref.Lifetime != nil && *ref.Lifetime != "" {
			prefix += *ref.Lifetime + " "
		}
		if ref.IsMutable {
			prefix += "mut "
		}
		return prefix + "self"
	}
	return "self"
}
