package snippet

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the decoder used for a snippet file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// NotFoundError is returned when the snippet file does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("snippet file %s not found", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ParseError is returned when the snippet file is not a well-formed mapping
// of names to snippets. Line and Column are 1-based and zero when unknown.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", loc, e.Line, e.Column)
	}
	return fmt.Sprintf("parse %s: %v", loc, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FormatFor picks a format from the file extension. Anything that is not
// YAML (.json, .code-snippets, ...) is read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads and parses a snippet file.
func LoadFile(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("read snippet file: %w", err)
	}
	col, err := Parse(data, FormatFor(path))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return col, nil
}

// Parse decodes a snippet collection. No placeholder validation happens here.
func Parse(data []byte, format Format) (*Collection, error) {
	if format == FormatYAML {
		return parseYAML(data)
	}
	return parseJSON(data)
}

func parseJSON(data []byte) (*Collection, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		pe := &ParseError{Err: err}
		var se *json.SyntaxError
		if errors.As(err, &se) {
			pe.Line, pe.Column = position(data, se.Offset)
		}
		return nil, pe
	}
	if _, ok := probe.(map[string]any); !ok {
		return nil, &ParseError{Err: fmt.Errorf("top level must be an object of snippets, got %s", kindOf(probe))}
	}

	col := NewCollection()
	if err := col.UnmarshalJSON(data); err != nil {
		return nil, &ParseError{Err: err}
	}
	return col, nil
}

func parseYAML(data []byte) (*Collection, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	col := NewCollection()
	if len(doc.Content) == 0 {
		return col, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{Line: root.Line, Column: root.Column, Err: fmt.Errorf("top level must be a mapping of snippets")}
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		var s Snippet
		if err := val.Decode(&s); err != nil {
			return nil, &ParseError{Line: val.Line, Column: val.Column, Err: fmt.Errorf("snippet %q: %w", key.Value, err)}
		}
		col.Add(key.Value, s)
	}
	return col, nil
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	head := data[:offset]
	line := bytes.Count(head, []byte("\n")) + 1
	col := int(offset) - bytes.LastIndexByte(head, '\n')
	return line, col
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
