package snippet

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a single validation finding with location context.
type ValidationError struct {
	Phase    string `json:"phase"` // structural, semantic, domain
	Path     string `json:"path"`  // slash separated location, e.g. "Accordion/prefix"
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message)
}

// HasErrors reports whether any finding is an error rather than a warning.
func HasErrors(errs []*ValidationError) bool {
	for _, e := range errs {
		if e.Severity != "warning" {
			return true
		}
	}
	return false
}

// ValidateFile runs the 3-phase validation pipeline on a snippet file.
// Phase 1: Structural (load and decode)
// Phase 2: Semantic (JSON Schema validation of the raw document)
// Phase 3: Domain (prefix and placeholder rules)
func ValidateFile(path string) (*Collection, []*ValidationError) {
	col, err := LoadFile(path)
	if err != nil {
		return nil, []*ValidationError{{
			Phase:    "structural",
			Message:  err.Error(),
			Severity: "error",
		}}
	}

	var allErrors []*ValidationError
	if doc, err := readDocument(path); err != nil {
		allErrors = append(allErrors, &ValidationError{
			Phase:    "semantic",
			Message:  err.Error(),
			Severity: "error",
		})
	} else {
		allErrors = append(allErrors, validateSemantic(doc)...)
	}
	allErrors = append(allErrors, ValidateDomain(col)...)

	if len(allErrors) > 0 {
		return col, allErrors
	}
	return col, nil
}

// readDocument decodes the file into generic JSON values for schema checks.
func readDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc any
	if FormatFor(path) == FormatYAML {
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		// Round-trip through JSON so the validator sees JSON value types.
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, err
		}
		data = b
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func validateSemantic(doc any) []*ValidationError {
	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return []*ValidationError{{
			Phase:    "semantic",
			Message:  fmt.Sprintf("generate schema: %v", err),
			Severity: "error",
		}}
	}

	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return []*ValidationError{{
			Phase:    "semantic",
			Message:  fmt.Sprintf("unmarshal schema: %v", err),
			Severity: "error",
		}}
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource(SchemaID, schemaDoc); err != nil {
		return []*ValidationError{{
			Phase:    "semantic",
			Message:  fmt.Sprintf("add schema resource: %v", err),
			Severity: "error",
		}}
	}
	sch, err := c.Compile(SchemaID)
	if err != nil {
		return []*ValidationError{{
			Phase:    "semantic",
			Message:  fmt.Sprintf("compile schema: %v", err),
			Severity: "error",
		}}
	}

	if err := sch.Validate(doc); err != nil {
		var errs []*ValidationError
		if ve, ok := err.(*sjsonschema.ValidationError); ok {
			for _, cause := range flattenValidationErrors(ve) {
				errs = append(errs, &ValidationError{
					Phase:    "semantic",
					Path:     strings.Join(cause.InstanceLocation, "/"),
					Message:  fmt.Sprintf("%v", cause.ErrorKind),
					Severity: "error",
				})
			}
		} else {
			errs = append(errs, &ValidationError{
				Phase:    "semantic",
				Message:  err.Error(),
				Severity: "error",
			})
		}
		return errs
	}
	return nil
}

// flattenValidationErrors recursively collects all leaf validation errors.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

// ValidateDomain checks rules the schema cannot express. Only an empty prefix
// is an error; everything else is a warning since generation tolerates it.
func ValidateDomain(col *Collection) []*ValidationError {
	var errs []*ValidationError
	prefixes := make(map[string]string)

	for _, e := range col.Entries() {
		s := e.Snippet
		if strings.TrimSpace(s.Prefix) == "" {
			errs = append(errs, &ValidationError{
				Phase:    "domain",
				Path:     e.Name + "/prefix",
				Message:  "prefix is empty; the snippet cannot be triggered",
				Severity: "error",
			})
		} else if other, dup := prefixes[s.Prefix]; dup {
			errs = append(errs, &ValidationError{
				Phase:    "domain",
				Path:     e.Name + "/prefix",
				Message:  fmt.Sprintf("prefix %q is also used by %q", s.Prefix, other),
				Severity: "warning",
			})
		} else {
			prefixes[s.Prefix] = e.Name
		}

		if len(s.Body) == 0 {
			errs = append(errs, &ValidationError{
				Phase:    "domain",
				Path:     e.Name + "/body",
				Message:  "body is empty",
				Severity: "warning",
			})
		}

		counted := CountPlaceholders(s.Body)
		if stops := len(TabStops(s.Body)); stops != counted {
			errs = append(errs, &ValidationError{
				Phase:    "domain",
				Path:     e.Name + "/body",
				Message:  fmt.Sprintf("%d placeholders with defaults counted but %d distinct tab stops; generated tests will press Tab %d times", counted, stops, counted),
				Severity: "warning",
			})
		}

		for i, line := range s.Body {
			stripped := StripPlaceholders(line)
			if strings.Contains(stripped, "${") {
				errs = append(errs, &ValidationError{
					Phase:    "domain",
					Path:     fmt.Sprintf("%s/body/%d", e.Name, i),
					Message:  "unrecognized placeholder syntax is kept as literal text",
					Severity: "warning",
				})
			}
		}
	}
	return errs
}
