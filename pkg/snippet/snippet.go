// Package snippet defines editor snippet definitions (VS Code .code-snippets
// style), the ordered collection they are loaded into, and the placeholder
// syntax the generator understands.
package snippet

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Snippet is a named, parameterized text template with a trigger prefix.
type Snippet struct {
	Prefix      string `yaml:"prefix"          json:"prefix"`
	Body        Body   `yaml:"body"            json:"body"`
	Description string `yaml:"description"     json:"description"`
	Scope       string `yaml:"scope,omitempty" json:"scope,omitempty"`
}

// Body holds the template lines of a snippet. A single string is accepted on
// input and split on newlines.
type Body []string

// UnmarshalJSON accepts either an array of strings or a single string.
func (b *Body) UnmarshalJSON(data []byte) error {
	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		*b = lines
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("body must be a string or an array of strings")
	}
	*b = strings.Split(single, "\n")
	return nil
}

// UnmarshalYAML accepts either a sequence of strings or a single string.
func (b *Body) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		lines := make([]string, 0, len(value.Content))
		for _, n := range value.Content {
			if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
				return fmt.Errorf("line %d: body lines must be strings", n.Line)
			}
			lines = append(lines, n.Value)
		}
		*b = lines
	case yaml.ScalarNode:
		if value.ShortTag() != "!!str" {
			return fmt.Errorf("line %d: body must be a string or a list of strings", value.Line)
		}
		*b = strings.Split(value.Value, "\n")
	default:
		return fmt.Errorf("line %d: body must be a string or a list of strings", value.Line)
	}
	return nil
}

// JSONSchema describes Body for schema export.
func (Body) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		},
	}
}

// Text joins the body lines with newlines.
func (b Body) Text() string {
	return strings.Join(b, "\n")
}

// Entry is one named snippet of a Collection.
type Entry struct {
	Name    string
	Snippet Snippet
}

// Collection maps snippet names to snippets, preserving insertion order.
type Collection struct {
	entries *orderedmap.OrderedMap[string, Snippet]
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{entries: orderedmap.New[string, Snippet]()}
}

// Add inserts or replaces a snippet. Replacing keeps the original position.
func (c *Collection) Add(name string, s Snippet) {
	c.init()
	c.entries.Set(name, s)
}

// Get returns the snippet registered under name.
func (c *Collection) Get(name string) (Snippet, bool) {
	if c.entries == nil {
		return Snippet{}, false
	}
	return c.entries.Get(name)
}

// Len returns the number of snippets.
func (c *Collection) Len() int {
	if c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

// Entries returns the snippets in insertion order.
func (c *Collection) Entries() []Entry {
	if c.entries == nil {
		return nil
	}
	out := make([]Entry, 0, c.entries.Len())
	for pair := c.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Entry{Name: pair.Key, Snippet: pair.Value})
	}
	return out
}

// Names returns the snippet names in insertion order.
func (c *Collection) Names() []string {
	var names []string
	for _, e := range c.Entries() {
		names = append(names, e.Name)
	}
	return names
}

// FindByPrefix returns the first snippet whose prefix equals prefix.
func (c *Collection) FindByPrefix(prefix string) (Entry, bool) {
	for _, e := range c.Entries() {
		if e.Snippet.Prefix == prefix {
			return e, true
		}
	}
	return Entry{}, false
}

// MarshalJSON writes the collection as an object in insertion order.
func (c *Collection) MarshalJSON() ([]byte, error) {
	c.init()
	return c.entries.MarshalJSON()
}

// UnmarshalJSON reads an object of snippets, keeping key order.
func (c *Collection) UnmarshalJSON(data []byte) error {
	c.init()
	return c.entries.UnmarshalJSON(data)
}

func (c *Collection) init() {
	if c.entries == nil {
		c.entries = orderedmap.New[string, Snippet]()
	}
}
