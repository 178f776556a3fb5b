package lang

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int

const (
	// TokenEOF marks the end of input.
	TokenEOF Kind = iota

	// TokenBare is a bare word: a run of characters that are not
	// whitespace, parentheses, colon, quote, hash, or backslash.
	TokenBare

	// TokenQuoted is a double-quoted string with backslash escapes.
	TokenQuoted

	// TokenGuarded is a raw string delimited by `#"` and `"#`.
	TokenGuarded

	// TokenLParen is an opening parenthesis.
	TokenLParen

	// TokenRParen is a closing parenthesis.
	TokenRParen

	// TokenColon separates a map key from its value.
	TokenColon
)

// String returns a human-readable name for the token kind.
func (k Kind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"

	case TokenBare:
		return "bare word"

	case TokenQuoted:
		return "quoted string"

	case TokenGuarded:
		return "guarded string"

	case TokenLParen:
		return "'('"

	case TokenRParen:
		return "')'"

	case TokenColon:
		return "':'"

	default:
		return "invalid"
	}
}

// Position locates a token or error in the source text.
// Line and Column are 1-based, Offset is a 0-based byte offset.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// String returns the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical unit of an axp document.
//
// Text holds the decoded content: escapes are resolved for quoted
// strings, guarded strings pass through verbatim, and bare words are
// their own text. Raw holds the surface slice as written, used for
// diagnostics and round-trip checks.
type Token struct {
	Kind Kind
	Text string
	Raw  string
	Pos  Position
}

// String returns a compact representation for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case TokenBare, TokenQuoted, TokenGuarded:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	default:
		return t.Kind.String()
	}
}
