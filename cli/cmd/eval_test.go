package cmd

import (
	"io"
	"os"
	"strings"
	"testing"
)

// captureStdout redirects os.Stdout for fn and returns everything
// written to it.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	oldStdout := os.Stdout
	os.Stdout = w

	defer func() { os.Stdout = oldStdout }()

	runErr := fn()

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}

	return string(data), runErr
}

func TestEvalRunInlineExpression(t *testing.T) {
	eval := &Eval{
		Expr:         []string{"+", "1", "2"},
		Source:       "-",
		MaxCallDepth: 100,
		MaxDepth:     100,
	}

	out, err := captureStdout(t, func() error {
		return eval.Run(t.Context())
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if out != "3\n" {
		t.Errorf("got %q, want %q", out, "3\n")
	}
}

func TestEvalRunSourceFile(t *testing.T) {
	path := writeTempFile(t, "input.axp", "+ 1 2 3")

	eval := &Eval{
		Source:       path,
		MaxCallDepth: 100,
		MaxDepth:     100,
	}

	out, err := captureStdout(t, func() error {
		return eval.Run(t.Context())
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if out != "6\n" {
		t.Errorf("got %q, want %q", out, "6\n")
	}
}

func TestEvalRunContextSources(t *testing.T) {
	path := writeTempFile(t, "input.axp", "* 2 3")

	ctx := WithSourceFiles(t.Context(), []string{path})

	eval := &Eval{
		Source:       "-",
		MaxCallDepth: 100,
		MaxDepth:     100,
	}

	out, err := captureStdout(t, func() error {
		return eval.Run(ctx)
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if out != "6\n" {
		t.Errorf("got %q, want %q", out, "6\n")
	}
}

func TestEvalRunMapDocument(t *testing.T) {
	path := writeTempFile(t, "input.axp", "answer: (+ 40 2)")

	eval := &Eval{
		Source:       path,
		MaxCallDepth: 100,
		MaxDepth:     100,
	}

	out, err := captureStdout(t, func() error {
		return eval.Run(t.Context())
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if out != "answer: 42\n" {
		t.Errorf("got %q, want %q", out, "answer: 42\n")
	}
}

func TestEvalRunSyntaxError(t *testing.T) {
	eval := &Eval{
		Expr:         []string{"a", "b", ":", "c"},
		Source:       "-",
		MaxCallDepth: 100,
		MaxDepth:     100,
	}

	_, err := captureStdout(t, func() error {
		return eval.Run(t.Context())
	})
	if err == nil {
		t.Fatal("expected syntax error")
	}
}

func TestEvalRunUnboundSymbol(t *testing.T) {
	eval := &Eval{
		Expr:         []string{"frobnicate", "1"},
		Source:       "-",
		MaxCallDepth: 100,
		MaxDepth:     100,
	}

	_, err := captureStdout(t, func() error {
		return eval.Run(t.Context())
	})
	if err == nil {
		t.Fatal("expected unbound symbol error")
	}

	if !strings.Contains(err.Error(), "unbound symbol") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestEvalRunStepBudget(t *testing.T) {
	// Two applications against a budget of one.
	eval := &Eval{
		Expr:         []string{"+", "1", "(+ 2 3)"},
		Source:       "-",
		StepBudget:   1,
		MaxCallDepth: 100,
		MaxDepth:     100,
	}

	_, err := captureStdout(t, func() error {
		return eval.Run(t.Context())
	})
	if err == nil {
		t.Fatal("expected step budget error")
	}
}

func TestEvalRunMaxDepth(t *testing.T) {
	eval := &Eval{
		Expr:         []string{"(((((1)))))"},
		Source:       "-",
		MaxCallDepth: 100,
		MaxDepth:     3,
	}

	_, err := captureStdout(t, func() error {
		return eval.Run(t.Context())
	})
	if err == nil {
		t.Fatal("expected nesting depth error")
	}
}

func TestEvalParseJoinsExpressionWords(t *testing.T) {
	// Shell word splitting must not change the document.
	eval := &Eval{
		Expr:     []string{"(quote", "a", "b)"},
		MaxDepth: 100,
	}

	doc, err := eval.parse(t.Context())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if !doc.IsList() || len(doc.Items) != 1 {
		t.Fatalf("expected single-item document, got %s", doc)
	}

	inner := doc.Items[0]
	if !inner.IsList() || len(inner.Items) != 3 {
		t.Fatalf("expected three-item list, got %s", inner)
	}
}
