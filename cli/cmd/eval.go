package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/nalply/axp/lang"
)

// Eval parses a document and evaluates it in the default environment.
type Eval struct {
	Expr []string `arg:"" help:"Expression to evaluate instead of a source document" name:"expr" optional:""`

	Source       string `default:"-"   help:"Source input file or '-' for stdin"              short:"f"`
	StepBudget   int    `default:"0"   help:"Abort after this many applications (0 removes the bound)"`
	MaxCallDepth int    `default:"100" help:"Maximum call nesting depth during evaluation"`
	MaxDepth     int    `default:"100" help:"Maximum body nesting depth during parsing"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	doc, err := e.parse(ctx)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "eval"))
	}

	opts := []lang.EvalOption{lang.WithMaxCallDepth(e.MaxCallDepth)}
	if e.StepBudget > 0 {
		opts = append(opts, lang.WithStepBudget(e.StepBudget))
	}

	result, err := lang.Evaluate(ctx, doc, lang.DefaultEnvironment(), opts...)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "eval"))
	}

	err = lang.Format(os.Stdout, result)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	fmt.Println()

	return nil
}

// parse reads the document from the expression arguments if given, or
// from the selected source otherwise. Expression arguments are joined
// with spaces so shell word splitting does not change the document.
func (e *Eval) parse(ctx context.Context) (*lang.Value, error) {
	if len(e.Expr) > 0 {
		return lang.ParseCached(
			ctx,
			strings.Join(e.Expr, " "),
			lang.WithMaxDepth(e.MaxDepth),
		)
	}

	r, done, err := openSource(ctx, e.Source)
	if err != nil {
		return nil, err
	}
	defer done()

	return lang.ParseReader(ctx, r, lang.WithMaxDepth(e.MaxDepth))
}
