package suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/format"
	"io"
	"os"
	"path/filepath"
)

// Source renders the suite as gofmt-formatted Go test source.
func Source(s *Suite) ([]byte, error) {
	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, s); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w\n%s", err, buf.String())
	}
	return formatted, nil
}

// Emit writes the Go test source for s to w.
func Emit(w io.Writer, s *Suite) error {
	src, err := Source(s)
	if err != nil {
		return err
	}
	_, err = w.Write(src)
	return err
}

// WriteFile renders s and replaces the contents of path. Nothing is written
// when rendering fails.
func WriteFile(path string, s *Suite) error {
	src, err := Source(s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// EncodeJSON writes the suite descriptors as indented JSON.
func EncodeJSON(w io.Writer, s *Suite) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(s)
}

// DecodeJSON reads suite descriptors written by EncodeJSON.
func DecodeJSON(r io.Reader) (*Suite, error) {
	var s Suite
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode suite: %w", err)
	}
	return &s, nil
}
