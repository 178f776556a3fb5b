package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"

	"github.com/nalply/axp/log"
)

// DefaultMaxDepth is the default maximum nesting depth of parsed values.
const DefaultMaxDepth = 100

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth sets the maximum nesting depth the parser accepts.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) { p.maxDepth = depth }
}

// WithLogger sets the logger used for parse tracing.
func WithLogger(logger log.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// Parser consumes tokens from a Lexer and builds a value tree.
// It keeps a single token of lookahead.
type Parser struct {
	lx       *Lexer
	tok      Token
	source   string
	maxDepth int
	logger   log.Logger
}

// NewParser returns a parser over the given input.
func NewParser(input []byte, opts ...Option) *Parser {
	p := &Parser{
		lx:       NewLexer(input),
		source:   string(input),
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ParseString parses a value tree from a string.
//
// The top level is a bare body: it behaves like the inside of a pair of
// parentheses, so `name: atto` is a map and `a b c` is a list. Empty
// input yields an empty list.
func ParseString(ctx context.Context, s string, opts ...Option) (*Value, error) {
	return ParseBytes(ctx, []byte(s), opts...)
}

// ParseBytes parses a value tree from a byte slice.
func ParseBytes(ctx context.Context, input []byte, opts ...Option) (*Value, error) {
	p := NewParser(input, opts...)

	v, err := p.Parse(ctx)
	if err != nil {
		ee := &Error{}
		if errors.As(err, &ee) {
			return nil, NewSyntaxError(ee, p.source)
		}

		return nil, err
	}

	return v, nil
}

// ParseReader parses a value tree from an io.Reader. The reader is
// drained through an asynchronous read-ahead buffer before parsing.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Value, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return ParseBytes(ctx, data, opts...)
}

// Parse consumes the parser's entire input and returns the top-level
// value.
func (p *Parser) Parse(ctx context.Context) (*Value, error) {
	if err := p.next(); err != nil {
		return nil, err
	}

	v, err := p.parseBody(ctx, p.tok.Pos, 0, true)
	if err != nil {
		return nil, err
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.String("kind", v.Kind.String()))

	return v, nil
}

// parseBody parses the contents of a body: the whole input when top is
// true, otherwise everything up to and including the closing paren.
//
// The body commits to list or map after its first item: a colon next
// makes it a map, anything else a list. Each body decides independently
// of its parent, and mixing the two shapes within one body is an error.
func (p *Parser) parseBody(
	ctx context.Context,
	pos Position,
	depth int,
	top bool,
) (*Value, error) {
	if depth > p.maxDepth {
		return nil, ErrDepthExceeded.
			WithPosition(pos).
			With(slog.Int("max_depth", p.maxDepth))
	}

	if p.atTerminator(top) {
		if err := p.closeBody(pos, top); err != nil {
			return nil, err
		}

		return &Value{Kind: KindList, Items: []*Value{}, Pos: pos}, nil
	}

	first, err := p.parseItem(ctx, depth, top)
	if err != nil {
		return nil, err
	}

	if p.tok.Kind == TokenColon {
		return p.parseMapBody(ctx, pos, depth, top, first)
	}

	return p.parseListBody(ctx, pos, depth, top, first)
}

// parseListBody parses the remainder of a body already committed to a
// list by its first item.
func (p *Parser) parseListBody(
	ctx context.Context,
	pos Position,
	depth int,
	top bool,
	first *Value,
) (*Value, error) {
	items := []*Value{first}

	for {
		if p.atTerminator(top) {
			if err := p.closeBody(pos, top); err != nil {
				return nil, err
			}

			return &Value{Kind: KindList, Items: items, Pos: pos}, nil
		}

		item, err := p.parseItem(ctx, depth, top)
		if err != nil {
			return nil, err
		}

		if p.tok.Kind == TokenColon {
			return nil, ErrMixedListMap.
				WithPosition(p.tok.Pos).
				With(slog.String("body", "list"))
		}

		items = append(items, item)
	}
}

// parseMapBody parses the remainder of a body committed to a map. The
// lookahead token is the colon following the first key.
func (p *Parser) parseMapBody(
	ctx context.Context,
	pos Position,
	depth int,
	top bool,
	key *Value,
) (*Value, error) {
	entries := make([]Entry, 0)

	for {
		if err := p.next(); err != nil { // colon
			return nil, err
		}

		value, err := p.parseItem(ctx, depth, top)
		if err != nil {
			return nil, err
		}

		entries = append(entries, Entry{Key: key, Value: value})

		if p.atTerminator(top) {
			if err := p.closeBody(pos, top); err != nil {
				return nil, err
			}

			return &Value{Kind: KindMap, Entries: entries, Pos: pos}, nil
		}

		key, err = p.parseItem(ctx, depth, top)
		if err != nil {
			return nil, err
		}

		switch p.tok.Kind {
		case TokenColon:

		case TokenRParen, TokenEOF:
			return nil, ErrExpectedColon.
				WithPosition(p.tok.Pos).
				With(slog.String("key", key.Text))

		default:
			return nil, ErrMixedListMap.
				WithPosition(key.Pos).
				With(slog.String("body", "map"))
		}
	}
}

// parseItem parses a single item: an atom or a parenthesized body.
// The lookahead token is past the item on return.
func (p *Parser) parseItem(
	ctx context.Context,
	depth int,
	top bool,
) (*Value, error) {
	tok := p.tok

	switch tok.Kind {
	case TokenBare, TokenQuoted, TokenGuarded:
		if err := p.next(); err != nil {
			return nil, err
		}

		return &Value{
			Kind: KindAtom,
			Text: tok.Text,
			Form: atomForm(tok.Kind),
			Pos:  tok.Pos,
		}, nil

	case TokenLParen:
		if err := p.next(); err != nil {
			return nil, err
		}

		return p.parseBody(ctx, tok.Pos, depth+1, false)

	case TokenEOF:
		if top {
			return nil, ErrUnexpectedToken.
				WithPosition(tok.Pos).
				With(slog.String("token", "end of input"))
		}

		return nil, ErrUnclosedParen.WithPosition(tok.Pos)

	default:
		return nil, ErrUnexpectedToken.
			WithPosition(tok.Pos).
			With(slog.String("token", tok.String()))
	}
}

// atTerminator reports whether the lookahead token ends the current
// body.
func (p *Parser) atTerminator(top bool) bool {
	if top {
		return p.tok.Kind == TokenEOF
	}

	return p.tok.Kind == TokenRParen || p.tok.Kind == TokenEOF
}

// closeBody consumes the body terminator, diagnosing stray closing
// parens at the top level and missing ones below it.
func (p *Parser) closeBody(pos Position, top bool) error {
	if top {
		return nil
	}

	if p.tok.Kind == TokenEOF {
		return ErrUnclosedParen.WithPosition(pos)
	}

	return p.next() // closing paren
}

// next advances the lookahead token.
func (p *Parser) next() error {
	tok, err := p.lx.Next()
	if err != nil {
		return err
	}

	p.tok = tok

	return nil
}

// atomForm maps an atom token kind to its value form.
func atomForm(k Kind) AtomForm {
	switch k {
	case TokenQuoted:
		return FormQuoted
	case TokenGuarded:
		return FormGuarded
	default:
		return FormBare
	}
}
