package lang

// This file defines the evaluation environment and the default builtin
// set. Environments are arenas of scope frames referenced by index:
// frames carry a parent index, so closures can capture an enclosing
// scope without reference cycles. Scopes created while evaluating live
// in the evaluator's overlay, never in the shared arena.

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/ardnew/mung"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Builtin is a function bound in an environment. Arity is the exact
// argument count the builtin requires, or ArityVariadic.
type Builtin struct {
	Name  string
	Arity int
	Fn    func(ctx context.Context, call *Call) (*Value, error)
}

// ArityVariadic marks a builtin that accepts any number of arguments.
const ArityVariadic = -1

// Call carries the evaluated arguments of an application along with
// the evaluator state, so builtins like eval can re-enter evaluation.
type Call struct {
	Args  []*Value
	ev    *evaluator
	frame int
}

// Eval re-enters the evaluator on v in the calling scope.
func (c *Call) Eval(ctx context.Context, v *Value) (*Value, error) {
	return c.ev.eval(ctx, v, c.frame, 0)
}

// Closure is a user-defined function: parameter names, a body, and the
// index of the frame it captured.
type Closure struct {
	Params []string
	Body   *Value
	Frame  int
}

// Binding is one bound name. Exactly one field is set: a literal
// value, a builtin, or a closure.
type Binding struct {
	Value   *Value
	Builtin *Builtin
	Closure *Closure
}

// Callable reports whether the binding can appear in head position.
func (b Binding) Callable() bool {
	return b.Builtin != nil || b.Closure != nil
}

type frame struct {
	parent   int
	bindings map[string]Binding
}

// Environment is an arena of scope frames. Frame 0 is the root scope.
// Lookup walks a frame's parent chain, innermost first.
//
// Evaluation only reads the arena: let scopes and closure calls are
// kept in the evaluator as an overlay, so an environment may be shared
// across concurrent Evaluate calls. Push, Define, and Bind mutate the
// arena and are for setup, such as registering builtins or session
// definitions; they are not synchronized.
type Environment struct {
	frames []frame
}

// NewEnvironment returns an environment with a single empty root
// frame.
func NewEnvironment() *Environment {
	return &Environment{
		frames: []frame{{parent: -1, bindings: map[string]Binding{}}},
	}
}

// Root returns the index of the root frame.
func (e *Environment) Root() int { return 0 }

// size returns the number of frames in the arena. Evaluators address
// their overlay frames starting at this index.
func (e *Environment) size() int { return len(e.frames) }

// Push appends a new empty frame chained to parent and returns its
// index.
func (e *Environment) Push(parent int) int {
	e.frames = append(e.frames, frame{
		parent:   parent,
		bindings: map[string]Binding{},
	})

	return len(e.frames) - 1
}

// Define binds name in the given frame.
func (e *Environment) Define(index int, name string, b Binding) {
	e.frames[index].bindings[name] = b
}

// Bind binds name to a literal value in the given frame.
func (e *Environment) Bind(index int, name string, v *Value) {
	e.Define(index, name, Binding{Value: v})
}

// Lookup resolves name starting at the given frame and walking the
// parent chain.
func (e *Environment) Lookup(index int, name string) (Binding, bool) {
	for index >= 0 {
		f := e.frames[index]
		if b, ok := f.bindings[name]; ok {
			return b, true
		}

		index = f.parent
	}

	return Binding{}, false
}

// Names returns the sorted set of names visible from the given frame,
// walking the parent chain.
func (e *Environment) Names(index int) []string {
	seen := map[string]struct{}{}

	for index >= 0 {
		f := e.frames[index]
		for name := range f.bindings {
			seen[name] = struct{}{}
		}

		index = f.parent
	}

	return slices.Sorted(maps.Keys(seen))
}

// DefaultEnvironment returns an environment whose root frame binds the
// standard builtins: list access (first, tail, list, get), string
// construction (str), printing (print), re-entrant eval, numeric
// operators, process environment lookup (env), and PATH-style
// prefixing (path-prefix).
func DefaultEnvironment() *Environment {
	e := NewEnvironment()
	root := e.Root()

	builtins := []*Builtin{
		{Name: "eval", Arity: 1, Fn: builtinEval},
		{Name: "first", Arity: 1, Fn: builtinFirst},
		{Name: "tail", Arity: 1, Fn: builtinTail},
		{Name: "list", Arity: ArityVariadic, Fn: builtinList},
		{Name: "get", Arity: 2, Fn: builtinGet},
		{Name: "str", Arity: ArityVariadic, Fn: builtinStr},
		{Name: "print", Arity: ArityVariadic, Fn: builtinPrint},
		{Name: "env", Arity: 1, Fn: builtinEnv},
		{Name: "path-prefix", Arity: ArityVariadic, Fn: builtinPathPrefix},
	}

	for _, op := range []string{"+", "-", "*", "/", "%", "=", "<"} {
		builtins = append(builtins, numericBuiltin(op))
	}

	for _, b := range builtins {
		e.Define(root, b.Name, Binding{Builtin: b})
	}

	return e
}

// ---------------------------------------------------------------------------
// List and map builtins
// ---------------------------------------------------------------------------

func builtinEval(ctx context.Context, call *Call) (*Value, error) {
	return call.Eval(ctx, call.Args[0])
}

func builtinFirst(_ context.Context, call *Call) (*Value, error) {
	arg := call.Args[0]
	if !arg.IsList() {
		return nil, ErrTypeMismatch.
			WithPosition(arg.Pos).
			With(
				slog.String("builtin", "first"),
				slog.String("got", arg.Kind.String()),
			)
	}

	if v := arg.First(); v != nil {
		return v, nil
	}

	return NewList(), nil
}

func builtinTail(_ context.Context, call *Call) (*Value, error) {
	arg := call.Args[0]
	if !arg.IsList() {
		return nil, ErrTypeMismatch.
			WithPosition(arg.Pos).
			With(
				slog.String("builtin", "tail"),
				slog.String("got", arg.Kind.String()),
			)
	}

	return arg.Tail(), nil
}

func builtinList(_ context.Context, call *Call) (*Value, error) {
	return NewList(call.Args...), nil
}

func builtinGet(_ context.Context, call *Call) (*Value, error) {
	m, key := call.Args[0], call.Args[1]
	if !m.IsMap() {
		return nil, ErrTypeMismatch.
			WithPosition(m.Pos).
			With(
				slog.String("builtin", "get"),
				slog.String("got", m.Kind.String()),
			)
	}

	if v, ok := m.Get(key); ok {
		return v, nil
	}

	return NewList(), nil
}

func builtinStr(_ context.Context, call *Call) (*Value, error) {
	var sb strings.Builder

	for _, arg := range call.Args {
		if arg.IsAtom() {
			sb.WriteString(arg.Text)
		} else {
			sb.WriteString(arg.String())
		}
	}

	return Quoted(sb.String()), nil
}

// builtinPrint writes its arguments as one list in native notation and
// returns the empty list.
func builtinPrint(_ context.Context, call *Call) (*Value, error) {
	_, err := io.WriteString(call.ev.writer(), NewList(call.Args...).String())
	if err != nil {
		return nil, err
	}

	return NewList(), nil
}

// ---------------------------------------------------------------------------
// Process environment and path builtins
// ---------------------------------------------------------------------------

func builtinEnv(_ context.Context, call *Call) (*Value, error) {
	key := call.Args[0]
	if !key.IsAtom() {
		return nil, ErrTypeMismatch.
			WithPosition(key.Pos).
			With(
				slog.String("builtin", "env"),
				slog.String("got", key.Kind.String()),
			)
	}

	value, _ := os.LookupEnv(key.Text)

	return Quoted(value), nil
}

func builtinPathPrefix(_ context.Context, call *Call) (*Value, error) {
	if len(call.Args) < 1 {
		return nil, ErrArityMismatch.
			With(
				slog.String("builtin", "path-prefix"),
				slog.Int("got", len(call.Args)),
			)
	}

	subject := call.Args[0]
	if !subject.IsAtom() {
		return nil, ErrTypeMismatch.
			WithPosition(subject.Pos).
			With(
				slog.String("builtin", "path-prefix"),
				slog.String("got", subject.Kind.String()),
			)
	}

	prefix := make([]string, 0, len(call.Args)-1)

	for _, arg := range call.Args[1:] {
		if !arg.IsAtom() {
			return nil, ErrTypeMismatch.
				WithPosition(arg.Pos).
				With(
					slog.String("builtin", "path-prefix"),
					slog.String("got", arg.Kind.String()),
				)
		}

		prefix = append(prefix, arg.Text)
	}

	munged := mung.Make(
		mung.WithSubjectItems(subject.Text),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()

	return Quoted(munged), nil
}

// ---------------------------------------------------------------------------
// Numeric builtins
// ---------------------------------------------------------------------------

// Numeric operators fold their arguments pairwise through compiled
// expression programs, one program per operator, compiled once per
// process.

//nolint:gochecknoglobals
var (
	numericOnce sync.Once
	numericProg map[string]*vm.Program
)

// numericExpr maps operator names to the two-operand expression each
// compiles to.
//
//nolint:gochecknoglobals
var numericExpr = map[string]string{
	"+": "a + b",
	"-": "a - b",
	"*": "a * b",
	"/": "a / b",
	"%": "a % b",
	"=": "a == b",
	"<": "a < b",
}

func numericPrograms() map[string]*vm.Program {
	numericOnce.Do(func() {
		numericProg = make(map[string]*vm.Program, len(numericExpr))

		for op, src := range numericExpr {
			prog, err := expr.Compile(src, expr.AllowUndefinedVariables())
			if err != nil {
				continue
			}

			numericProg[op] = prog
		}
	})

	return numericProg
}

func numericBuiltin(op string) *Builtin {
	return &Builtin{
		Name:  op,
		Arity: ArityVariadic,
		Fn: func(_ context.Context, call *Call) (*Value, error) {
			return foldNumeric(op, call.Args)
		},
	}
}

// foldNumeric reduces args left to right with the operator's compiled
// program. Comparison operators require exactly two arguments; the
// arithmetic operators accept two or more.
func foldNumeric(op string, args []*Value) (*Value, error) {
	comparison := op == "=" || op == "<"

	switch {
	case comparison && len(args) != 2:
		return nil, ErrArityMismatch.
			With(
				slog.String("builtin", op),
				slog.Int("expected", 2),
				slog.Int("got", len(args)),
			)

	case !comparison && len(args) < 2:
		return nil, ErrArityMismatch.
			With(
				slog.String("builtin", op),
				slog.Int("got", len(args)),
			)
	}

	prog, ok := numericPrograms()[op]
	if !ok {
		return nil, ErrNotCallable.With(slog.String("builtin", op))
	}

	acc, err := numericOperand(args[0])
	if err != nil {
		return nil, err
	}

	for _, arg := range args[1:] {
		operand, err := numericOperand(arg)
		if err != nil {
			return nil, err
		}

		acc, err = vm.Run(prog, map[string]any{"a": acc, "b": operand})
		if err != nil {
			return nil, ErrTypeMismatch.Wrap(err).
				With(slog.String("builtin", op))
		}
	}

	return numericResult(acc), nil
}

// numericOperand converts an atom to an int64 or float64 operand.
func numericOperand(v *Value) (any, error) {
	if v.IsAtom() {
		if i, err := strconv.ParseInt(v.Text, 0, 64); err == nil {
			return i, nil
		}

		if f, err := strconv.ParseFloat(v.Text, 64); err == nil {
			return f, nil
		}
	}

	return nil, ErrTypeMismatch.
		WithPosition(v.Pos).
		With(slog.String("expected", "number"))
}

// numericResult converts a program result back to a bare atom.
func numericResult(v any) *Value {
	switch val := v.(type) {
	case bool:
		return Bare(strconv.FormatBool(val))
	case int:
		return Bare(strconv.Itoa(val))
	case int64:
		return Bare(strconv.FormatInt(val, 10))
	case float64:
		return Bare(strconv.FormatFloat(val, 'f', -1, 64))
	default:
		return Bare("")
	}
}
