package suite

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ormasoftchile/snipgen/pkg/snippet"
)

// Filter selects which snippets get a test case. The expression sees:
//
//	name, prefix, description, scope  string
//	body                              []string
//	placeholders                      int (counted as the generator counts)
//	tabstops                          int (distinct indices)
//
// An empty expression matches everything.
type Filter struct {
	source  string
	program *vm.Program
}

// NewFilter compiles a filter expression, e.g. `scope == "html" && placeholders > 0`.
func NewFilter(source string) (*Filter, error) {
	source = strings.TrimSpace(source)
	f := &Filter{source: source}
	if source == "" {
		return f, nil
	}
	program, err := expr.Compile(source, expr.Env(filterEnv(snippet.Entry{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", source, err)
	}
	f.program = program
	return f, nil
}

// Match reports whether the entry passes the filter.
func (f *Filter) Match(e snippet.Entry) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}
	output, err := expr.Run(f.program, filterEnv(e))
	if err != nil {
		return false, fmt.Errorf("eval filter %q on %q: %w", f.source, e.Name, err)
	}
	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q did not return bool (got %T: %v)", f.source, output, output)
	}
	return result, nil
}

func filterEnv(e snippet.Entry) map[string]any {
	body := []string(e.Snippet.Body)
	if body == nil {
		body = []string{}
	}
	return map[string]any{
		"name":         e.Name,
		"prefix":       e.Snippet.Prefix,
		"description":  e.Snippet.Description,
		"scope":        e.Snippet.Scope,
		"body":         body,
		"placeholders": snippet.CountPlaceholders(body),
		"tabstops":     len(snippet.TabStops(body)),
	}
}
