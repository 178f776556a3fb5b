package lang

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/nalply/axp/log"
)

// DefaultMaxCallDepth is the default maximum evaluator call depth.
const DefaultMaxCallDepth = 100

// EvalOption configures an evaluation.
type EvalOption func(*evaluator)

// WithStepBudget caps the number of applications the evaluation may
// perform. Zero means unlimited.
func WithStepBudget(n int) EvalOption {
	return func(ev *evaluator) { ev.budget = n }
}

// WithMaxCallDepth sets the maximum call depth of the evaluation.
func WithMaxCallDepth(n int) EvalOption {
	return func(ev *evaluator) { ev.maxDepth = n }
}

// WithEvalLogger sets the logger used for evaluation tracing.
func WithEvalLogger(logger log.Logger) EvalOption {
	return func(ev *evaluator) { ev.logger = logger }
}

// WithOutput sets the writer the print builtin writes to. Standard
// output is used when unset.
func WithOutput(w io.Writer) EvalOption {
	return func(ev *evaluator) { ev.out = w }
}

// evaluator holds the state of one Evaluate call. Scope frames created
// during evaluation live in local, an overlay over the environment's
// arena, so evaluation never writes to a shared Environment.
type evaluator struct {
	env      *Environment
	local    []frame
	base     int
	out      io.Writer
	budget   int
	steps    int
	maxDepth int
	logger   log.Logger
}

// push appends a frame to the evaluation-local overlay and returns its
// index. Indices below base address the shared arena, indices at or
// above it address the overlay.
func (ev *evaluator) push(parent int) int {
	ev.local = append(ev.local, frame{
		parent:   parent,
		bindings: map[string]Binding{},
	})

	return ev.base + len(ev.local) - 1
}

// bind binds name in an overlay frame. Only frames created by push are
// ever bound during evaluation.
func (ev *evaluator) bind(index int, name string, b Binding) {
	ev.local[index-ev.base].bindings[name] = b
}

// lookup resolves name through the overlay's parent chain, then the
// shared arena.
func (ev *evaluator) lookup(index int, name string) (Binding, bool) {
	for index >= ev.base {
		f := ev.local[index-ev.base]
		if b, ok := f.bindings[name]; ok {
			return b, true
		}

		index = f.parent
	}

	return ev.env.Lookup(index, name)
}

func (ev *evaluator) writer() io.Writer {
	if ev.out != nil {
		return ev.out
	}

	return os.Stdout
}

// Evaluate reinterprets a value tree as code against the given
// environment.
//
// Bare atoms are symbols resolved in the environment, except numeric
// and boolean literals which evaluate to themselves. Quoted and
// guarded atoms self-evaluate. A non-empty list headed by a special
// form, a function literal, or an expression naming a callable is an
// application of its head to the remaining items, evaluated eagerly
// left to right; a list headed by a literal evaluates item-wise, so a
// document of literals evaluates to an equal tree. A map evaluates to
// a new map with the same keys and each value evaluated.
//
// Evaluation never writes to the environment. Scopes created by let
// and closure application live in the evaluator, so concurrent
// Evaluate calls may share one environment without locking.
func Evaluate(
	ctx context.Context,
	v *Value,
	env *Environment,
	opts ...EvalOption,
) (*Value, error) {
	ev := &evaluator{
		env:      env,
		base:     env.size(),
		maxDepth: DefaultMaxCallDepth,
	}

	for _, opt := range opts {
		opt(ev)
	}

	result, err := ev.eval(ctx, v, env.Root(), 0)
	if err != nil {
		return nil, err
	}

	ev.logger.TraceContext(ctx, "evaluation complete",
		slog.Int("steps", ev.steps))

	return result, nil
}

// Define evaluates v and binds the result to name in the environment's
// root frame. A function literal becomes a closure capturing the root
// frame, so a definition can call itself and any later definitions.
//
// Unlike Evaluate, Define writes to the environment and must not run
// concurrently with other uses of it.
func Define(
	ctx context.Context,
	env *Environment,
	name string,
	v *Value,
	opts ...EvalOption,
) error {
	ev := &evaluator{
		env:      env,
		base:     env.size(),
		maxDepth: DefaultMaxCallDepth,
	}

	for _, opt := range opts {
		opt(ev)
	}

	root := env.Root()

	if isFnForm(v) {
		closure, err := ev.makeClosure(v, root)
		if err != nil {
			return err
		}

		env.Define(root, name, Binding{Closure: closure})

		return nil
	}

	result, err := ev.eval(ctx, v, root, 0)
	if err != nil {
		return err
	}

	env.Bind(root, name, result)

	return nil
}

func (ev *evaluator) eval(
	ctx context.Context,
	v *Value,
	frame int,
	depth int,
) (*Value, error) {
	switch {
	case v == nil:
		return NewList(), nil

	case v.Kind == KindAtom:
		return ev.evalAtom(v, frame)

	case v.Kind == KindMap:
		return ev.evalMap(ctx, v, frame, depth)

	default:
		if len(v.Items) == 0 {
			return v, nil
		}

		return ev.evalApply(ctx, v, frame, depth)
	}
}

// evalAtom resolves a single atom. Quoted and guarded atoms are
// literals; bare atoms are symbols unless they read as a number or
// boolean.
func (ev *evaluator) evalAtom(v *Value, frame int) (*Value, error) {
	if literalAtom(v) {
		return v, nil
	}

	b, ok := ev.lookup(frame, v.Text)
	if !ok {
		return nil, ErrUnboundSymbol.
			WithPosition(v.Pos).
			With(slog.String("symbol", v.Text))
	}

	// A name bound to a callable stays symbolic outside head position.
	if b.Callable() {
		return v, nil
	}

	return b.Value, nil
}

// evalMap returns a new map with the same keys and evaluated values.
// Keys are never evaluated.
func (ev *evaluator) evalMap(
	ctx context.Context,
	v *Value,
	frame int,
	depth int,
) (*Value, error) {
	entries := make([]Entry, len(v.Entries))

	for i, e := range v.Entries {
		value, err := ev.eval(ctx, e.Value, frame, depth)
		if err != nil {
			return nil, err
		}

		entries[i] = Entry{Key: e.Key, Value: value}
	}

	return &Value{Kind: KindMap, Entries: entries, Pos: v.Pos}, nil
}

// evalApply evaluates a non-empty list, after giving special forms a
// chance to intercept the unevaluated argument items. A list headed by
// a literal is data rather than a call and evaluates item-wise, which
// keeps documents of literals fixed under evaluation.
func (ev *evaluator) evalApply(
	ctx context.Context,
	v *Value,
	frame int,
	depth int,
) (*Value, error) {
	if depth > ev.maxDepth {
		return nil, ErrDepthExceeded.
			WithPosition(v.Pos).
			With(slog.Int("max_depth", ev.maxDepth))
	}

	head, rest := v.Items[0], v.Items[1:]

	if head.IsAtom() && head.Form == FormBare {
		switch head.Text {
		case "quote":
			return ev.evalQuote(v, rest)
		case "if":
			return ev.evalIf(ctx, v, rest, frame, depth)
		case "let":
			return ev.evalLet(ctx, v, rest, frame, depth)
		case "fn":
			return nil, ErrTypeMismatch.
				WithPosition(v.Pos).
				With(slog.String("form", "fn"),
					slog.String("expected", "call or binding position"))
		}
	}

	if literalAtom(head) {
		return ev.evalItems(ctx, v, frame, depth)
	}

	callee, err := ev.evalHead(ctx, head, frame, depth)
	if err != nil {
		return nil, err
	}

	// A singleton like a bound name on its own denotes its value, not
	// a call of it.
	if !callee.Callable() && len(rest) == 0 && head.IsAtom() {
		return NewList(callee.Value), nil
	}

	ev.steps++
	if ev.budget > 0 && ev.steps > ev.budget {
		return nil, ErrStepBudget.
			WithPosition(v.Pos).
			With(slog.Int("budget", ev.budget))
	}

	args := make([]*Value, len(rest))

	for i, item := range rest {
		arg, err := ev.eval(ctx, item, frame, depth)
		if err != nil {
			return nil, err
		}

		args[i] = arg
	}

	return ev.apply(ctx, callee, head, args, frame, depth)
}

// evalHead resolves the head of an application to a binding. A bare
// symbol resolves in the environment, a function literal becomes a
// closure, and anything else evaluates to a plain value binding which
// the apply step rejects.
func (ev *evaluator) evalHead(
	ctx context.Context,
	head *Value,
	frame int,
	depth int,
) (Binding, error) {
	if head.IsAtom() && head.Form == FormBare {
		b, ok := ev.lookup(frame, head.Text)
		if !ok {
			return Binding{}, ErrUnboundSymbol.
				WithPosition(head.Pos).
				With(slog.String("symbol", head.Text))
		}

		return b, nil
	}

	if isFnForm(head) {
		closure, err := ev.makeClosure(head, frame)
		if err != nil {
			return Binding{}, err
		}

		return Binding{Closure: closure}, nil
	}

	value, err := ev.eval(ctx, head, frame, depth)
	if err != nil {
		return Binding{}, err
	}

	return Binding{Value: value}, nil
}

// apply invokes a callable binding on evaluated arguments.
func (ev *evaluator) apply(
	ctx context.Context,
	callee Binding,
	head *Value,
	args []*Value,
	frame int,
	depth int,
) (*Value, error) {
	switch {
	case callee.Builtin != nil:
		b := callee.Builtin

		if b.Arity != ArityVariadic && len(args) != b.Arity {
			return nil, ErrArityMismatch.
				WithPosition(head.Pos).
				With(
					slog.String("builtin", b.Name),
					slog.Int("expected", b.Arity),
					slog.Int("got", len(args)),
				)
		}

		return b.Fn(ctx, &Call{Args: args, ev: ev, frame: frame})

	case callee.Closure != nil:
		c := callee.Closure

		if len(args) != len(c.Params) {
			return nil, ErrArityMismatch.
				WithPosition(head.Pos).
				With(
					slog.Int("expected", len(c.Params)),
					slog.Int("got", len(args)),
				)
		}

		child := ev.push(c.Frame)

		for i, param := range c.Params {
			ev.bind(child, param, Binding{Value: args[i]})
		}

		return ev.eval(ctx, c.Body, child, depth+1)

	default:
		return nil, ErrNotCallable.
			WithPosition(head.Pos).
			With(slog.String("head", head.String()))
	}
}

// evalItems evaluates every item of a list, keeping list shape.
func (ev *evaluator) evalItems(
	ctx context.Context,
	v *Value,
	frame int,
	depth int,
) (*Value, error) {
	items := make([]*Value, len(v.Items))

	for i, item := range v.Items {
		result, err := ev.eval(ctx, item, frame, depth)
		if err != nil {
			return nil, err
		}

		items[i] = result
	}

	return &Value{Kind: KindList, Items: items, Pos: v.Pos}, nil
}

// evalQuote returns the single argument unevaluated.
func (ev *evaluator) evalQuote(v *Value, rest []*Value) (*Value, error) {
	if len(rest) != 1 {
		return nil, ErrArityMismatch.
			WithPosition(v.Pos).
			With(
				slog.String("form", "quote"),
				slog.Int("expected", 1),
				slog.Int("got", len(rest)),
			)
	}

	return rest[0], nil
}

// evalIf evaluates the condition, then exactly one branch. A missing
// else branch yields an empty list. Every value is truthy except the
// bare atom `false` and the empty list.
func (ev *evaluator) evalIf(
	ctx context.Context,
	v *Value,
	rest []*Value,
	frame int,
	depth int,
) (*Value, error) {
	if len(rest) < 2 || len(rest) > 3 {
		return nil, ErrArityMismatch.
			WithPosition(v.Pos).
			With(
				slog.String("form", "if"),
				slog.Int("got", len(rest)),
			)
	}

	cond, err := ev.eval(ctx, rest[0], frame, depth)
	if err != nil {
		return nil, err
	}

	if truthy(cond) {
		return ev.eval(ctx, rest[1], frame, depth)
	}

	if len(rest) == 3 {
		return ev.eval(ctx, rest[2], frame, depth)
	}

	return NewList(), nil
}

// evalLet introduces a child scope from a map of bindings, then
// evaluates the body in it. Bindings are evaluated sequentially in the
// child scope, so later bindings (and function bodies) can refer to
// earlier ones.
func (ev *evaluator) evalLet(
	ctx context.Context,
	v *Value,
	rest []*Value,
	frame int,
	depth int,
) (*Value, error) {
	if len(rest) != 2 {
		return nil, ErrArityMismatch.
			WithPosition(v.Pos).
			With(
				slog.String("form", "let"),
				slog.Int("expected", 2),
				slog.Int("got", len(rest)),
			)
	}

	bindings, body := rest[0], rest[1]

	if !bindings.IsMap() && !bindings.IsEmpty() {
		return nil, ErrTypeMismatch.
			WithPosition(bindings.Pos).
			With(
				slog.String("form", "let"),
				slog.String("expected", "map of bindings"),
				slog.String("got", bindings.Kind.String()),
			)
	}

	child := ev.push(frame)

	for _, e := range bindings.Entries {
		if !e.Key.IsAtom() || e.Key.Form != FormBare {
			return nil, ErrTypeMismatch.
				WithPosition(e.Key.Pos).
				With(
					slog.String("form", "let"),
					slog.String("expected", "bare symbol key"),
				)
		}

		if isFnForm(e.Value) {
			// Capture the child scope itself, which makes the function
			// visible to its own body.
			closure, err := ev.makeClosure(e.Value, child)
			if err != nil {
				return nil, err
			}

			ev.bind(child, e.Key.Text, Binding{Closure: closure})

			continue
		}

		bound, err := ev.eval(ctx, e.Value, child, depth)
		if err != nil {
			return nil, err
		}

		ev.bind(child, e.Key.Text, Binding{Value: bound})
	}

	return ev.eval(ctx, body, child, depth)
}

// isFnForm reports whether v is a function literal: a three-item list
// of the bare atom `fn`, a parameter list, and a body.
func isFnForm(v *Value) bool {
	return v.IsList() &&
		len(v.Items) == 3 &&
		v.Items[0].IsAtom() &&
		v.Items[0].Form == FormBare &&
		v.Items[0].Text == "fn"
}

// makeClosure builds a closure from a function literal, capturing the
// given frame.
func (ev *evaluator) makeClosure(v *Value, frame int) (*Closure, error) {
	paramList := v.Items[1]
	if !paramList.IsList() {
		return nil, ErrTypeMismatch.
			WithPosition(paramList.Pos).
			With(
				slog.String("form", "fn"),
				slog.String("expected", "parameter list"),
				slog.String("got", paramList.Kind.String()),
			)
	}

	params := make([]string, len(paramList.Items))

	for i, p := range paramList.Items {
		if !p.IsAtom() || p.Form != FormBare {
			return nil, ErrTypeMismatch.
				WithPosition(p.Pos).
				With(
					slog.String("form", "fn"),
					slog.String("expected", "bare symbol parameter"),
				)
		}

		params[i] = p.Text
	}

	return &Closure{
		Params: params,
		Body:   v.Items[2],
		Frame:  frame,
	}, nil
}

// truthy reports the condition value of v: false only for the bare
// atom `false` and the empty list.
func truthy(v *Value) bool {
	switch {
	case v == nil:
		return false
	case v.IsAtom():
		return v.Form != FormBare || v.Text != "false"
	case v.IsList():
		return len(v.Items) > 0
	default:
		return true
	}
}

// literalAtom reports whether v is an atom that evaluates to itself:
// any quoted or guarded atom, or a bare numeric or boolean literal.
func literalAtom(v *Value) bool {
	return v.IsAtom() && (v.Form != FormBare || selfEvaluating(v.Text))
}

// selfEvaluating reports whether a bare atom is a literal rather than
// a symbol: booleans and anything that reads as a number.
func selfEvaluating(text string) bool {
	if text == "true" || text == "false" {
		return true
	}

	if _, err := strconv.ParseInt(text, 0, 64); err == nil {
		return true
	}

	_, err := strconv.ParseFloat(text, 64)

	return err == nil
}
