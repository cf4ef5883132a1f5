package rustdoc

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Decode parses rustdoc JSON bytes into a Crate.
func Decode(data []byte) (*Crate, error) {
	var crate Crate
	if err := json.Unmarshal(data, &crate); err != nil {
		return nil, fmt.Errorf("unmarshaling rustdoc JSON: %w", err)
	}
	if _, ok := crate.Index[strconv.Itoa(crate.Root)]; !ok {
		return nil, fmt.Errorf("rustdoc index has no root item %d", crate.Root)
	}
	return &crate, nil
}

// LoadFile parses a rustdoc JSON file from disk.
func LoadFile(path string) (*Crate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rustdoc JSON: %w", err)
	}
	return Decode(data)
}

// Item looks up an item by numeric ID. Index keys are the decimal form of
// the item IDs.
func (c *Crate) Item(id int) (*Item, bool) {
	item, ok := c.Index[strconv.Itoa(id)]
	if !ok {
		return nil, false
	}
	return &item, true
}

// Name returns the crate's own name, taken from the root module item.
func (c *Crate) Name() string {
	root, ok := c.Item(c.Root)
	if !ok || root.Name == nil {
		return ""
	}
	return *root.Name
}

// Version returns the crate version, or "latest" when rustdoc did not
// record one.
func (c *Crate) Version() string {
	if c.CrateVersion == nil || *c.CrateVersion == "" {
		return "latest"
	}
	return *c.CrateVersion
}
