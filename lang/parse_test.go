package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, input string, opts ...Option) *Value {
	t.Helper()

	v, err := ParseString(context.Background(), input, opts...)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	return v
}

func TestParseString_Disambiguation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Value
	}{
		{
			name:  "empty input is an empty list",
			input: "",
			want:  NewList(),
		},
		{
			name:  "empty parens",
			input: "()",
			want:  NewList(NewList()),
		},
		{
			name:  "bare items form a list",
			input: "a b c",
			want:  NewList(Bare("a"), Bare("b"), Bare("c")),
		},
		{
			name:  "first colon commits to map",
			input: "name: atto",
			want:  NewMap(Entry{Key: Bare("name"), Value: Bare("atto")}),
		},
		{
			name:  "map value can be a list",
			input: "key: (1 2 3)",
			want: NewMap(Entry{
				Key:   Bare("key"),
				Value: NewList(Bare("1"), Bare("2"), Bare("3")),
			}),
		},
		{
			name:  "nested bodies decide their shape independently",
			input: "outer: (a b c)",
			want: NewMap(Entry{
				Key:   Bare("outer"),
				Value: NewList(Bare("a"), Bare("b"), Bare("c")),
			}),
		},
		{
			name:  "list containing a map",
			input: "a (k: v) b",
			want: NewList(
				Bare("a"),
				NewMap(Entry{Key: Bare("k"), Value: Bare("v")}),
				Bare("b"),
			),
		},
		{
			name:  "map with several entries",
			input: "x: 1 y: 2 z: 3",
			want: NewMap(
				Entry{Key: Bare("x"), Value: Bare("1")},
				Entry{Key: Bare("y"), Value: Bare("2")},
				Entry{Key: Bare("z"), Value: Bare("3")},
			),
		},
		{
			name:  "compound key",
			input: "(a b): c",
			want: NewMap(Entry{
				Key:   NewList(Bare("a"), Bare("b")),
				Value: Bare("c"),
			}),
		},
		{
			name:  "duplicate keys preserved in order",
			input: "k: 1 k: 2",
			want: NewMap(
				Entry{Key: Bare("k"), Value: Bare("1")},
				Entry{Key: Bare("k"), Value: Bare("2")},
			),
		},
		{
			name:  "quoted and guarded atoms",
			input: `"a b" #"c"#`,
			want:  NewList(Quoted("a b"), Guarded("c")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.input)

			if !got.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Error
	}{
		{name: "list then entry", input: "( a b: c )", want: ErrMixedListMap},
		{name: "entry then list item", input: "( a: b c d )", want: ErrMixedListMap},
		{name: "top-level mixing", input: "a b: c", want: ErrMixedListMap},
		{name: "trailing map key", input: "a: b c", want: ErrExpectedColon},
		{name: "leading colon", input: ": a", want: ErrUnexpectedToken},
		{name: "double colon", input: "a: : b", want: ErrUnexpectedToken},
		{name: "stray close paren", input: "a )", want: ErrUnexpectedToken},
		{name: "missing close paren", input: "( a b", want: ErrUnclosedParen},
		{name: "missing value at end", input: "a:", want: ErrUnexpectedToken},
		{name: "missing value in parens", input: "(a:)", want: ErrUnexpectedToken},
		{name: "lex error surfaces", input: `"abc`, want: ErrUnterminatedString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(context.Background(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseString_SyntaxErrorSnippet(t *testing.T) {
	_, err := ParseString(context.Background(), "a b\n( c d: e )\nf")

	se := &SyntaxError{}
	if !errors.As(err, &se) {
		t.Fatalf("expected SyntaxError, got %T: %v", err, err)
	}

	msg := err.Error()
	if !strings.Contains(msg, "2 | ( c d: e )") {
		t.Errorf("expected source line in message, got %q", msg)
	}

	if !strings.Contains(msg, "^") {
		t.Errorf("expected caret marker in message, got %q", msg)
	}
}

func TestParseString_MaxDepth(t *testing.T) {
	deep := strings.Repeat("(", 10) + "a" + strings.Repeat(")", 10)

	if _, err := ParseString(context.Background(), deep); err != nil {
		t.Fatalf("parse error below limit: %v", err)
	}

	_, err := ParseString(context.Background(), deep, WithMaxDepth(5))
	if !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("expected %v, got %v", ErrDepthExceeded, err)
	}
}

func TestParseString_WhitespaceInsensitive(t *testing.T) {
	inputs := []string{
		"key: (1 2 3)",
		"key:(1 2 3)",
		"key :\n\t( 1\n2   3 )",
		"key: # trailing comment\n(1 2 3)",
		"# leading comment\nkey: (1 2 3)",
	}

	want := mustParse(t, inputs[0])

	for _, input := range inputs[1:] {
		got := mustParse(t, input)
		if !got.Equal(want) {
			t.Errorf("input %q: expected %s, got %s", input, want, got)
		}
	}
}

func TestParseBytes_RoundTrip(t *testing.T) {
	inputs := []string{
		"a b c",
		"name: atto",
		"key: (1 2 3)",
		`config: (host: "local host" ports: (80 443)) tags: (a b)`,
		`motto: #"He said: "Hello!" and I nodded."#`,
		"() (()) (a (b (c)))",
	}

	for _, input := range inputs {
		v := mustParse(t, input)

		var sb strings.Builder
		if err := Format(&sb, v); err != nil {
			t.Fatalf("format error: %v", err)
		}

		again := mustParse(t, sb.String())
		if !again.Equal(v) {
			t.Errorf("round trip of %q: expected %s, got %s",
				input, v, again)
		}
	}
}

func TestParseReader(t *testing.T) {
	v, err := ParseReader(
		context.Background(),
		strings.NewReader("name: atto"),
	)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if !v.IsMap() {
		t.Fatalf("expected map, got %s", v.Kind)
	}
}

func TestParseCached(t *testing.T) {
	ClearCache()

	const input = "cached: (a b c)"

	first, err := ParseCached(context.Background(), input)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	second, err := ParseCached(context.Background(), input)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if first != second {
		t.Error("expected cached tree to be shared")
	}

	// A different depth limit must not collide with the cached tree.
	third, err := ParseCached(context.Background(), input, WithMaxDepth(7))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if first == third {
		t.Error("expected distinct cache entries for distinct options")
	}
}
