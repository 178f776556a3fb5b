package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"

	"github.com/nalply/axp/lang"
)

// Fmt reads a document, parses it, and renders it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native axp notation (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as abstract syntax tree."`
}

// Native formats a document as native axp notation.
type Native struct {
	Indent int `default:"2" help:"Indent width for formatted output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the fmt command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	doc, err := parseSource(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	return lang.FormatIndent(os.Stdout, doc, f.Indent)
}

// JSON formats a document as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	doc, err := parseSource(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	buf, err := lang.FormatJSON(doc)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, buf, "", indentString(j.Indent)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	indented.WriteByte('\n')

	_, err = indented.WriteTo(os.Stdout)

	return err
}

// YAML formats a document as YAML.
type YAML struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	doc, err := parseSource(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	buf, err := lang.FormatYAML(doc)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	_, err = os.Stdout.Write(buf)

	return err
}

// AST formats a document as an abstract syntax tree representation.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	doc, err := parseSource(ctx, a.Source, "ast")
	if err != nil {
		return err
	}

	return lang.FormatAST(os.Stdout, doc)
}

// parseSource resolves and parses a command's document input.
func parseSource(
	ctx context.Context,
	source, format string,
) (*lang.Value, error) {
	r, done, err := openSource(ctx, source)
	if err != nil {
		return nil, err
	}
	defer done()

	doc, err := lang.ParseReader(ctx, r)
	if err != nil {
		return nil, lang.WrapError(err).
			With(slog.String("format", format))
	}

	return doc, nil
}

func indentString(width int) string {
	if width < 0 {
		width = 0
	}

	return strings.Repeat(" ", width)
}
