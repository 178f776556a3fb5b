package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "names", "clear", "quit"}

// isWordBoundary returns true if the rune is a word delimiter for
// completion purposes. These are the characters that terminate a bare
// word in the notation, plus the string delimiters. Everything else may
// appear inside a symbol, including hyphens and operator characters
// like + and <.
func isWordBoundary(r rune) bool {
	switch r {
	case '(', ')', ':', '"', '#',
		' ', '\t', '\n', '\r', '\f':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// after a paren, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidate list,
// and the word boundaries. When the current word is empty, it returns nil
// matches so the hint text stays visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, ws, we := wordBounds(input, cursor)
	wordStart, wordEnd = ws, we

	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		candidates = m.env.Names(m.env.Root())
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected)
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		// Check if adding this candidate would exceed width.
		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth

		// If this is the last candidate, no need to reserve ellipsis space.
		if i == len(matches)-1 {
			break
		}
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	return b.String()
}
