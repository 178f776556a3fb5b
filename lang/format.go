package lang

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// String renders v in item form: atoms as a single token, lists and
// maps wrapped in parentheses. The result parses back to an equal
// value when read as an item.
func (v *Value) String() string {
	var sb strings.Builder

	v.appendItem(&sb)

	return sb.String()
}

// Format writes v to w in document form. Lists and maps render as a
// bare body without outer parentheses, which is how a whole document
// reads back in. Atoms render as their single token.
func Format(w io.Writer, v *Value) error {
	var sb strings.Builder

	switch {
	case v.IsList():
		appendSeq(&sb, v.Items)
	case v.IsMap():
		appendEntries(&sb, v.Entries)
	default:
		v.appendItem(&sb)
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

func (v *Value) appendItem(sb *strings.Builder) {
	switch {
	case v == nil:
		sb.WriteString("()")

	case v.Kind == KindAtom:
		appendAtom(sb, v)

	case v.Kind == KindList:
		sb.WriteByte('(')

		if len(v.Items) > 0 {
			sb.WriteByte(' ')
			appendSeq(sb, v.Items)
			sb.WriteByte(' ')
		}

		sb.WriteByte(')')

	case v.Kind == KindMap:
		sb.WriteByte('(')

		if len(v.Entries) > 0 {
			sb.WriteByte(' ')
			appendEntries(sb, v.Entries)
			sb.WriteByte(' ')
		}

		sb.WriteByte(')')
	}
}

func appendSeq(sb *strings.Builder, items []*Value) {
	for i, item := range items {
		if i > 0 {
			sb.WriteByte(' ')
		}

		item.appendItem(sb)
	}
}

func appendEntries(sb *strings.Builder, entries []Entry) {
	for i, e := range entries {
		if i > 0 {
			sb.WriteByte(' ')
		}

		e.Key.appendItem(sb)
		sb.WriteString(": ")
		e.Value.appendItem(sb)
	}
}

// appendAtom picks a surface form for the atom. The recorded form is
// honored when the text still fits it, with fallback to guarded when
// the text contains a quote but no `"#`, and finally to quoted with
// escapes.
func appendAtom(sb *strings.Builder, v *Value) {
	switch {
	case v.Form == FormBare && fitsBare(v.Text):
		sb.WriteString(v.Text)

	case v.Form == FormGuarded && fitsGuarded(v.Text):
		sb.WriteString(`#"`)
		sb.WriteString(v.Text)
		sb.WriteString(`"#`)

	case strings.Contains(v.Text, `"`) && fitsGuarded(v.Text):
		sb.WriteString(`#"`)
		sb.WriteString(v.Text)
		sb.WriteString(`"#`)

	default:
		appendQuoted(sb, v.Text)
	}
}

// fitsBare reports whether text can serialize as a bare atom.
func fitsBare(text string) bool {
	if text == "" {
		return false
	}

	for _, r := range text {
		if !isBare(r) {
			return false
		}
	}

	return true
}

// fitsGuarded reports whether text can serialize as a guarded string,
// which only fails when the text contains the closing delimiter.
func fitsGuarded(text string) bool {
	return !strings.Contains(text, `"#`)
}

func appendQuoted(sb *strings.Builder, text string) {
	sb.WriteByte('"')

	for _, r := range text {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if r < 0x20 {
				fmt.Fprintf(sb, `\x%02X`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}

	sb.WriteByte('"')
}

// FormatIndent writes v to w in document form with one item or entry
// per line and nested bodies indented by width spaces.
func FormatIndent(w io.Writer, v *Value, width int) error {
	var sb strings.Builder

	switch {
	case v.IsList():
		for _, item := range v.Items {
			appendIndented(&sb, item, 0, width)
			sb.WriteByte('\n')
		}

	case v.IsMap():
		for _, e := range v.Entries {
			appendEntryIndented(&sb, e, 0, width)
			sb.WriteByte('\n')
		}

	default:
		v.appendItem(&sb)
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

func appendIndented(sb *strings.Builder, v *Value, depth, width int) {
	pad := strings.Repeat(" ", depth*width)
	sb.WriteString(pad)

	switch {
	case v == nil || v.IsEmpty():
		v.appendItem(sb)

	case v.Kind == KindList:
		sb.WriteString("(\n")

		for _, item := range v.Items {
			appendIndented(sb, item, depth+1, width)
			sb.WriteByte('\n')
		}

		sb.WriteString(pad + ")")

	case v.Kind == KindMap:
		sb.WriteString("(\n")

		for _, e := range v.Entries {
			appendEntryIndented(sb, e, depth+1, width)
			sb.WriteByte('\n')
		}

		sb.WriteString(pad + ")")

	default:
		v.appendItem(sb)
	}
}

// appendEntryIndented renders one map entry. The key stays inline; a
// composite value opens its body on the same line after the colon.
func appendEntryIndented(sb *strings.Builder, e Entry, depth, width int) {
	pad := strings.Repeat(" ", depth*width)
	sb.WriteString(pad)
	e.Key.appendItem(sb)
	sb.WriteString(": ")

	v := e.Value

	switch {
	case v == nil || v.IsEmpty():
		v.appendItem(sb)

	case v.Kind == KindList:
		sb.WriteString("(\n")

		for _, item := range v.Items {
			appendIndented(sb, item, depth+1, width)
			sb.WriteByte('\n')
		}

		sb.WriteString(pad + ")")

	case v.Kind == KindMap:
		sb.WriteString("(\n")

		for _, entry := range v.Entries {
			appendEntryIndented(sb, entry, depth+1, width)
			sb.WriteByte('\n')
		}

		sb.WriteString(pad + ")")

	default:
		v.appendItem(sb)
	}
}

// FormatJSON renders v as JSON: atoms become strings, lists become
// arrays, and maps become objects. Map entry order is preserved; a
// non-atom map key renders as its item form.
func FormatJSON(v *Value) ([]byte, error) {
	var buf bytes.Buffer

	if err := appendJSON(&buf, v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func appendJSON(buf *bytes.Buffer, v *Value) error {
	switch {
	case v == nil:
		buf.WriteString("null")

	case v.Kind == KindAtom:
		return writeJSONString(buf, v.Text)

	case v.Kind == KindList:
		buf.WriteByte('[')

		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := appendJSON(buf, item); err != nil {
				return err
			}
		}

		buf.WriteByte(']')

	case v.Kind == KindMap:
		buf.WriteByte('{')

		for i, e := range v.Entries {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := writeJSONString(buf, jsonKey(e.Key)); err != nil {
				return err
			}

			buf.WriteByte(':')

			if err := appendJSON(buf, e.Value); err != nil {
				return err
			}
		}

		buf.WriteByte('}')
	}

	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	data, err := json.Marshal(s)
	if err != nil {
		return WrapError(err)
	}

	buf.Write(data)

	return nil
}

func jsonKey(key *Value) string {
	if key.IsAtom() {
		return key.Text
	}

	return key.String()
}

// FormatYAML renders v as YAML with map entry order preserved.
func FormatYAML(v *Value) ([]byte, error) {
	data, err := yaml.Marshal(yamlValue(v))
	if err != nil {
		return nil, WrapError(err)
	}

	return data, nil
}

func yamlValue(v *Value) any {
	switch {
	case v == nil:
		return nil

	case v.Kind == KindAtom:
		return v.Text

	case v.Kind == KindList:
		items := make([]any, len(v.Items))
		for i, item := range v.Items {
			items[i] = yamlValue(item)
		}

		return items

	default:
		entries := make(yaml.MapSlice, len(v.Entries))
		for i, e := range v.Entries {
			entries[i] = yaml.MapItem{
				Key:   jsonKey(e.Key),
				Value: yamlValue(e.Value),
			}
		}

		return entries
	}
}

// FormatAST writes an indented structural dump of v, one node per
// line, with atom forms and source positions.
func FormatAST(w io.Writer, v *Value) error {
	var sb strings.Builder

	appendAST(&sb, v, 0)

	_, err := io.WriteString(w, sb.String())

	return err
}

func appendAST(sb *strings.Builder, v *Value, depth int) {
	indent := strings.Repeat("  ", depth)

	switch {
	case v == nil:
		sb.WriteString(indent + "nil\n")

	case v.Kind == KindAtom:
		fmt.Fprintf(sb, "%satom %s %q %s\n",
			indent, v.Form, v.Text, v.Pos)

	case v.Kind == KindList:
		fmt.Fprintf(sb, "%slist (%d items) %s\n",
			indent, len(v.Items), v.Pos)

		for _, item := range v.Items {
			appendAST(sb, item, depth+1)
		}

	case v.Kind == KindMap:
		fmt.Fprintf(sb, "%smap (%d entries) %s\n",
			indent, len(v.Entries), v.Pos)

		for _, e := range v.Entries {
			sb.WriteString(indent + "  key:\n")
			appendAST(sb, e.Key, depth+2)
			sb.WriteString(indent + "  value:\n")
			appendAST(sb, e.Value, depth+2)
		}
	}
}
