package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// The rustdoc payload grammars are closed sets. Anything outside them means
// the input is newer or malformed, and emitting wrong declaration text is
// worse than stopping the run, so all three abort instead of degrading.
var (
	ErrUnsupportedTypeShape     = errors.New("unsupported type shape")
	ErrUnsupportedItemKind      = errors.New("unsupported item kind")
	ErrUnsupportedCompositeBody = errors.New("unsupported composite body")
)

// recordErr wraps err with the raw record that triggered it, so the failure
// carries enough context to diagnose the offending input.
func recordErr(err error, record json.RawMessage) error {
	return fmt.Errorf("%w: %s", err, compactRecord(record))
}

func compactRecord(record json.RawMessage) string {
	var buf bytes.Buffer
	if json.Compact(&buf, record) == nil {
		return buf.String()
	}
	return string(record)
}
