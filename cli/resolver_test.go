package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveValue(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	flag := &kong.Flag{Value: &kong.Value{Name: name}}

	val, err := r.Resolve(nil, nil, flag)
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", name, err)
	}

	return val
}

func TestResolve_TopLevelMap(t *testing.T) {
	doc := `
log-level: debug
log-format: text
`

	loader := resolve(t.Context(), baseConfig)

	resolver, err := loader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loader failed: %v", err)
	}

	if val := resolveValue(t, resolver, "log-level"); val != "debug" {
		t.Errorf("expected log-level=debug, got %v", val)
	}

	if val := resolveValue(t, resolver, "log-format"); val != "text" {
		t.Errorf("expected log-format=text, got %v", val)
	}

	if val := resolveValue(t, resolver, "unset"); val != nil {
		t.Errorf("expected nil for unset flag, got %v", val)
	}
}

func TestResolve_NestedSection(t *testing.T) {
	doc := `
config: (
	log-level: debug
)
other: (
	foo: bar
)
`

	loader := resolve(t.Context(), baseConfig)

	resolver, err := loader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loader failed: %v", err)
	}

	if val := resolveValue(t, resolver, "log-level"); val != "debug" {
		t.Errorf("expected log-level=debug, got %v", val)
	}

	// Entries outside the config section must not leak into it.
	if val := resolveValue(t, resolver, "foo"); val != nil {
		t.Errorf("expected nil for foo, got %v", val)
	}
}

func TestResolve_UnderscoreHyphenMapping(t *testing.T) {
	doc := `log_level: debug`

	loader := resolve(t.Context(), baseConfig)

	resolver, err := loader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loader failed: %v", err)
	}

	// Kong flag names use hyphens, but the config file may spell the
	// same key with underscores.
	if val := resolveValue(t, resolver, "log-level"); val != "debug" {
		t.Errorf("expected log-level=debug, got %v", val)
	}

	if val := resolveValue(t, resolver, "log_level"); val != "debug" {
		t.Errorf("expected log_level=debug, got %v", val)
	}
}

func TestResolve_ListValue(t *testing.T) {
	doc := `source: ( base.axp extra.axp )`

	loader := resolve(t.Context(), baseConfig)

	resolver, err := loader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loader failed: %v", err)
	}

	val := resolveValue(t, resolver, "source")

	items, ok := val.([]string)
	if !ok {
		t.Fatalf("expected []string, got %T", val)
	}

	if len(items) != 2 || items[0] != "base.axp" || items[1] != "extra.axp" {
		t.Errorf("unexpected list value: %v", items)
	}
}

func TestResolve_SkipsCompoundEntries(t *testing.T) {
	doc := `
log-level: debug
limits: (
	depth: 10
)
(a b): nested
`

	loader := resolve(t.Context(), baseConfig)

	resolver, err := loader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loader failed: %v", err)
	}

	if val := resolveValue(t, resolver, "log-level"); val != "debug" {
		t.Errorf("expected log-level=debug, got %v", val)
	}

	// Nested map values have no flag counterpart.
	if val := resolveValue(t, resolver, "limits"); val != nil {
		t.Errorf("expected nil for map-valued entry, got %v", val)
	}
}

func TestResolve_InvalidSyntax(t *testing.T) {
	doc := `broken: (((`

	loader := resolve(t.Context(), baseConfig)

	// A malformed config file must not prevent the CLI from starting.
	resolver, err := loader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loader failed: %v", err)
	}

	if val := resolveValue(t, resolver, "broken"); val != nil {
		t.Errorf("expected nil from empty config, got %v", val)
	}
}

func TestResolve_ListDocument(t *testing.T) {
	doc := `a b c`

	loader := resolve(t.Context(), baseConfig)

	resolver, err := loader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("loader failed: %v", err)
	}

	// A document without flag bindings resolves nothing.
	if val := resolveValue(t, resolver, "a"); val != nil {
		t.Errorf("expected nil from non-map document, got %v", val)
	}
}
