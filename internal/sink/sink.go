// Package sink writes assembled man pages to the output directory, one file
// per page, optionally gzip-compressed the way system man pages usually are.
package sink

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

type Sink struct {
	dir  string
	gzip bool
}

// New prepares the output directory. A pre-existing directory is not an
// error.
func New(dir string, gzipOutput bool) (*Sink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Sink{dir: dir, gzip: gzipOutput}, nil
}

// Write stores one page under its file name, returning the path written.
func (s *Sink) Write(name, content string) (string, error) {
	data := []byte(content)

	if s.gzip {
		name += ".gz"
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			w.Close()
			return "", fmt.Errorf("compressing page %s: %w", name, err)
		}
		if err := w.Close(); err != nil {
			return "", fmt.Errorf("closing gzip writer: %w", err)
		}
		data = buf.Bytes()
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing page file: %w", err)
	}
	return path, nil
}
