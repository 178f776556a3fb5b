package lang

import (
	"iter"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Lexer scans axp source text into tokens in a single forward pass.
// It keeps only the current offset, line, and column; tokens already
// produced are never revisited.
type Lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

// NewLexer returns a lexer over the given input.
func NewLexer(input []byte) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
		col:   1,
	}
}

// Tokens returns a lazy, non-restartable sequence of tokens.
// The sequence ends after the first error or after a TokenEOF.
func Tokens(input []byte) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		lx := NewLexer(input)

		for {
			tok, err := lx.Next()
			if !yield(tok, err) || err != nil || tok.Kind == TokenEOF {
				return
			}
		}
	}
}

// Next scans and returns the next token. After the input is exhausted
// it returns a TokenEOF; after an error it is not safe to continue.
func (lx *Lexer) Next() (Token, error) {
	lx.skipBlank()

	pos := lx.position()

	if lx.eof() {
		return Token{Kind: TokenEOF, Pos: pos}, nil
	}

	switch r := lx.peek(); r {
	case '(':
		lx.advance()

		return Token{Kind: TokenLParen, Raw: "(", Pos: pos}, nil

	case ')':
		lx.advance()

		return Token{Kind: TokenRParen, Raw: ")", Pos: pos}, nil

	case ':':
		lx.advance()

		return Token{Kind: TokenColon, Raw: ":", Pos: pos}, nil

	case '"':
		return lx.scanQuoted(pos)

	case '#':
		// skipBlank consumed every `#` that opens a comment, so this
		// one is followed by `"` and opens a guarded string.
		return lx.scanGuarded(pos)

	case '\\', 0:
		return Token{}, ErrInvalidCharacter.
			WithPosition(pos).
			With(slog.String("char", string(r)))

	default:
		return lx.scanBare(pos)
	}
}

// scanBare consumes a maximal run of bare-word characters.
func (lx *Lexer) scanBare(pos Position) (Token, error) {
	start := lx.pos

	for !lx.eof() && isBare(lx.peek()) {
		lx.advance()
	}

	raw := string(lx.input[start:lx.pos])

	return Token{Kind: TokenBare, Text: raw, Raw: raw, Pos: pos}, nil
}

// scanQuoted consumes a `"..."` string and decodes its escapes.
func (lx *Lexer) scanQuoted(pos Position) (Token, error) {
	start := lx.pos

	lx.advance() // opening quote

	var text strings.Builder

	for {
		if lx.eof() {
			return Token{}, ErrUnterminatedString.WithPosition(pos)
		}

		r := lx.peek()

		if r == '"' {
			lx.advance()

			return Token{
				Kind: TokenQuoted,
				Text: text.String(),
				Raw:  string(lx.input[start:lx.pos]),
				Pos:  pos,
			}, nil
		}

		if r != '\\' {
			text.WriteRune(r)
			lx.advance()

			continue
		}

		decoded, err := lx.scanEscape()
		if err != nil {
			return Token{}, err
		}

		text.WriteRune(decoded)
	}
}

// scanEscape decodes one backslash escape inside a quoted string.
// The cursor is on the backslash when called and past the escape on
// return.
func (lx *Lexer) scanEscape() (rune, error) {
	pos := lx.position()

	lx.advance() // backslash

	if lx.eof() {
		return 0, ErrUnterminatedString.WithPosition(pos)
	}

	r := lx.peek()
	lx.advance()

	switch r {
	case '"':
		return '"', nil
	case '\\':
		return '\\', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case '0':
		return 0, nil
	case ' ':
		return ' ', nil

	case 'x':
		return lx.scanHexEscape(pos, 2)

	case 'u':
		return lx.scanUnicodeEscape(pos)

	default:
		return 0, ErrInvalidCharacter.
			WithPosition(pos).
			With(slog.String("escape", `\`+string(r)))
	}
}

// scanHexEscape decodes exactly n hex digits after `\x`.
func (lx *Lexer) scanHexEscape(pos Position, n int) (rune, error) {
	var code rune

	for range n {
		if lx.eof() {
			return 0, ErrUnterminatedString.WithPosition(pos)
		}

		d := hexDigit(lx.peek())
		if d < 0 {
			return 0, ErrInvalidCharacter.
				WithPosition(lx.position()).
				With(slog.String("escape", `\x`))
		}

		code = code<<4 | rune(d)

		lx.advance()
	}

	return code, nil
}

// scanUnicodeEscape decodes a `\u{H..H}` escape of 1 to 8 hex digits.
func (lx *Lexer) scanUnicodeEscape(pos Position) (rune, error) {
	if lx.eof() || lx.peek() != '{' {
		return 0, ErrInvalidCharacter.
			WithPosition(lx.position()).
			With(slog.String("escape", `\u`))
	}

	lx.advance() // '{'

	var (
		code   rune
		digits int
	)

	for {
		if lx.eof() {
			return 0, ErrUnterminatedString.WithPosition(pos)
		}

		r := lx.peek()

		if r == '}' {
			lx.advance()

			if digits == 0 || !utf8.ValidRune(code) {
				return 0, ErrInvalidCharacter.
					WithPosition(pos).
					With(slog.String("escape", `\u{}`))
			}

			return code, nil
		}

		d := hexDigit(r)
		if d < 0 || digits >= 8 {
			return 0, ErrInvalidCharacter.
				WithPosition(lx.position()).
				With(slog.String("escape", `\u{}`))
		}

		code = code<<4 | rune(d)
		digits++

		lx.advance()
	}
}

// scanGuarded consumes a `#"..."#` raw string. The content between the
// delimiters is taken verbatim, so it may contain literal `"` runes.
func (lx *Lexer) scanGuarded(pos Position) (Token, error) {
	start := lx.pos

	lx.advance() // '#'
	lx.advance() // '"'

	textStart := lx.pos

	for {
		if lx.eof() {
			return Token{}, ErrUnterminatedGuard.WithPosition(pos)
		}

		if lx.peek() == '"' && lx.peekAt(1) == '#' {
			text := string(lx.input[textStart:lx.pos])

			lx.advance() // '"'
			lx.advance() // '#'

			return Token{
				Kind: TokenGuarded,
				Text: text,
				Raw:  string(lx.input[start:lx.pos]),
				Pos:  pos,
			}, nil
		}

		lx.advance()
	}
}

// skipBlank consumes whitespace and line comments. A `#` opens a line
// comment unless it is immediately followed by `"`, in which case it
// opens a guarded string and is left for Next to handle. This check
// must come before guarded-string matching.
func (lx *Lexer) skipBlank() {
	for !lx.eof() {
		r := lx.peek()

		if isBlank(r) {
			lx.advance()

			continue
		}

		if r == '#' && lx.peekAt(1) != '"' {
			for !lx.eof() && lx.peek() != '\n' {
				lx.advance()
			}

			continue
		}

		return
	}
}

// Cursor helpers.

func (lx *Lexer) eof() bool {
	return lx.pos >= len(lx.input)
}

func (lx *Lexer) peek() rune {
	if lx.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(lx.input[lx.pos:])

	return r
}

// peekAt returns the rune n runes past the current one, or 0 at EOF.
// It is only ever asked about the ASCII delimiters `"` and `#`, which
// are a single byte each.
func (lx *Lexer) peekAt(n int) rune {
	at := lx.pos

	for range n {
		if at >= len(lx.input) {
			return 0
		}

		_, size := utf8.DecodeRune(lx.input[at:])
		at += size
	}

	if at >= len(lx.input) {
		return 0
	}

	r, _ := utf8.DecodeRune(lx.input[at:])

	return r
}

func (lx *Lexer) advance() {
	if lx.eof() {
		return
	}

	r, size := utf8.DecodeRune(lx.input[lx.pos:])

	lx.pos += size

	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
}

func (lx *Lexer) position() Position {
	return Position{Offset: lx.pos, Line: lx.line, Column: lx.col}
}

// Character classification.

func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

func isBare(r rune) bool {
	switch r {
	case '(', ')', ':', '"', '#', '\\', 0:
		return false
	}

	return !isBlank(r)
}

func hexDigit(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	default:
		return -1
	}
}
