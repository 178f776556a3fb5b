package repl

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/nalply/axp/lang"
)

func TestIsWordBoundary(t *testing.T) {
	boundaries := []rune{'(', ')', ':', '"', '#', ' ', '\t', '\n', '\r', '\f'}

	for _, r := range boundaries {
		if !isWordBoundary(r) {
			t.Errorf("expected %q to be a word boundary", r)
		}
	}

	// Symbols may contain hyphens and operator characters.
	inWord := []rune{'a', 'Z', '0', '-', '_', '+', '<', '=', '/', '.', 'é'}

	for _, r := range inWord {
		if isWordBoundary(r) {
			t.Errorf("expected %q to be part of a word", r)
		}
	}
}

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int
		word   string
		start  int
		end    int
	}{
		{
			name:   "cursor mid word",
			input:  "(first x)",
			cursor: 3,
			word:   "first",
			start:  1,
			end:    6,
		},
		{
			name:   "cursor at word end",
			input:  "first",
			cursor: 5,
			word:   "first",
			start:  0,
			end:    5,
		},
		{
			name:   "cursor after space",
			input:  "first ",
			cursor: 6,
			word:   "",
			start:  6,
			end:    6,
		},
		{
			name:   "cursor after open paren",
			input:  "(",
			cursor: 1,
			word:   "",
			start:  1,
			end:    1,
		},
		{
			name:   "empty input",
			input:  "",
			cursor: 0,
			word:   "",
			start:  0,
			end:    0,
		},
		{
			name:   "cursor clamped to length",
			input:  "ab",
			cursor: 99,
			word:   "ab",
			start:  0,
			end:    2,
		},
		{
			name:   "word after colon",
			input:  "key: val",
			cursor: 8,
			word:   "val",
			start:  5,
			end:    8,
		},
		{
			name:   "multibyte runes",
			input:  "héllo",
			cursor: 3,
			word:   "héllo",
			start:  0,
			end:    6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)

			if word != tt.word || start != tt.start || end != tt.end {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.word, tt.start, tt.end)
			}
		})
	}
}

func newTestModel(t *testing.T) model {
	t.Helper()

	history := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	return newModel(t.Context(), lang.DefaultEnvironment(), history, nil)
}

func TestComputeMatchesEmptyWord(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("first ")
	m.input.SetCursor(6)

	matches, _, _, _ := m.computeMatches()

	// No word under the cursor keeps the hint visible.
	if matches != nil {
		t.Errorf("expected nil matches, got %v", matches)
	}
}

func TestComputeMatchesEnvironmentNames(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("fir")
	m.input.SetCursor(3)

	matches, candidates, start, end := m.computeMatches()

	if start != 0 || end != 3 {
		t.Errorf("word bounds = (%d, %d), want (0, 3)", start, end)
	}

	if !slices.Contains(candidates, "first") {
		t.Fatalf("expected builtin name in candidates, got %v", candidates)
	}

	if len(matches) == 0 {
		t.Fatal("expected at least one match")
	}

	if matches[0].Str != "first" {
		t.Errorf("best match = %q, want %q", matches[0].Str, "first")
	}
}

func TestComputeMatchesSessionDefinitions(t *testing.T) {
	m := newTestModel(t)

	if _, err := m.evalLine("doubled: (fn (x) (* x 2))"); err != nil {
		t.Fatalf("evalLine failed: %v", err)
	}

	m.input.SetValue("dou")
	m.input.SetCursor(3)

	matches, _, _, _ := m.computeMatches()

	found := false

	for _, match := range matches {
		if match.Str == "doubled" {
			found = true
		}
	}

	if !found {
		t.Errorf("expected session definition in matches, got %v", matches)
	}
}

func TestComputeMatchesCtrlCommands(t *testing.T) {
	m := newTestModel(t)
	m.mode = modeCtrl
	m.input.SetValue("he")
	m.input.SetCursor(2)

	matches, candidates, _, _ := m.computeMatches()

	if !slices.Equal(candidates, ctrlCommands) {
		t.Errorf("candidates = %v, want %v", candidates, ctrlCommands)
	}

	if len(matches) == 0 || matches[0].Str != "help" {
		t.Errorf("expected help as best match, got %v", matches)
	}
}

func TestRenderCandidateBarEmpty(t *testing.T) {
	if bar := renderCandidateBar(nil, -1, false, 80); bar != "" {
		t.Errorf("expected empty bar, got %q", bar)
	}

	m := newTestModel(t)
	m.input.SetValue("fir")
	m.input.SetCursor(3)

	matches, _, _, _ := m.computeMatches()

	if bar := renderCandidateBar(matches, -1, false, 0); bar != "" {
		t.Errorf("expected empty bar for zero width, got %q", bar)
	}
}
