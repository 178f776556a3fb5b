package cli

import (
	"context"
	"io"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/nalply/axp/lang"
)

// resolve returns a [kong.ConfigurationLoader] that parses config files
// written in axp notation.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, name), "/path/to/config")
//
// The document structure is converted as follows:
//   - The top-level body must be a map keyed by flag name
//   - A nested map under the given name is used instead when present,
//     so a config file can carry unrelated entries alongside it
//   - Atom values are passed to Kong as their text
//   - List values become string slices
//   - Flag names with hyphens (e.g., "log-level") may use underscores
//     in the config file (e.g., "log_level")
//
// Example config file:
//
//	log-level: debug
//	log-format: json
//	source: ( base.axp extra.axp )
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug
//	--log-format=json
//	--source=base.axp --source=extra.axp
//
// Command-line flags override config file values.
func resolve(
	ctx context.Context,
	name string,
) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		doc, err := lang.ParseReader(ctx, r)
		if err != nil {
			// Parse error - return empty config
			return config{}, nil
		}

		if nested, ok := doc.GetAtom(name); ok && nested.IsMap() {
			doc = nested
		}

		if !doc.IsMap() {
			// Not a map - return empty config
			return config{}, nil
		}

		return mapToConfig(doc), nil
	}
}

// config implements [kong.Resolver] for axp notation configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but config keys
	// may use underscores. Try both forms.
	name := flag.Name
	underscoreName := strings.ReplaceAll(name, "-", "_")

	// Look up the value in our config
	if value, ok := r[name]; ok {
		return value, nil
	}

	// Try underscore variant
	if value, ok := r[underscoreName]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// mapToConfig converts a map document to a native map representation.
// Kong parses all values from strings, so atoms pass through as their
// text and lists become string slices. Compound keys and nested map
// values have no flag counterpart and are skipped.
func mapToConfig(doc *lang.Value) config {
	result := make(config, len(doc.Entries))

	for _, e := range doc.Entries {
		if !e.Key.IsAtom() {
			continue
		}

		switch {
		case e.Value.IsAtom():
			result[e.Key.Text] = e.Value.Text

		case e.Value.IsList():
			items := make([]string, 0, len(e.Value.Items))

			for _, item := range e.Value.Items {
				if item.IsAtom() {
					items = append(items, item.Text)
				}
			}

			result[e.Key.Text] = items
		}
	}

	return result
}
