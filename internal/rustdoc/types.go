package rustdoc

import "encoding/json"

// Crate is the top-level structure of rustdoc JSON output.
type Crate struct {
	Root           int                      `json:"root"`
	CrateVersion   *string                  `json:"crate_version"`
	Index          map[string]Item          `json:"index"`
	Paths          map[string]Summary       `json:"paths"`
	ExternalCrates map[string]ExternalCrate `json:"external_crates"`
	FormatVersion  int                      `json:"format_version"`
}

// ExternalCrate identifies a dependency crate by name.
type ExternalCrate struct {
	Name        string `json:"name"`
	HTMLRootURL string `json:"html_root_url"`
}

// Item is a single declaration node in the rustdoc index. Inner holds the
// kind-specific payload as a single-key tagged union, e.g. {"struct": {...}}.
type Item struct {
	ID      int             `json:"id"`
	CrateID int             `json:"crate_id"`
	Name    *string         `json:"name"`
	Docs    *string         `json:"docs"`
	Span    *Span           `json:"span"`
	Links   map[string]int  `json:"links"`
	Inner   json.RawMessage `json:"inner"`
}

// Span is an item's source location. Impl blocks without a span are
// compiler-synthesized (auto trait and blanket impls).
type Span struct {
	Filename string `json:"filename"`
	Begin    []int  `json:"begin"`
	End      []int  `json:"end"`
}

// Summary provides the path and kind for an item.
type Summary struct {
	CrateID int      `json:"crate_id"`
	Path    []string `json:"path"`
	Kind    string   `json:"kind"`
}

// InnerKind extracts the kind from the inner JSON's single key.
func InnerKind(inner json.RawMessage) string {
	if len(inner) == 0 {
		return "unknown"
	}
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(inner, &outer); err != nil {
		return "unknown"
	}
	for k := range outer {
		return k
	}
	return "unknown"
}

// UnwrapInner extracts the payload for a given kind from an item's Inner
// field. Returns nil if the item is of a different kind.
func UnwrapInner(inner json.RawMessage, kind string) json.RawMessage {
	if len(inner) == 0 {
		return nil
	}
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(inner, &outer); err != nil {
		return nil
	}
	data, ok := outer[kind]
	if !ok {
		return nil
	}
	return data
}
