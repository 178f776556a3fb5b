package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nalply/axp/cli/cmd"
	"github.com/nalply/axp/lang"
	"github.com/nalply/axp/log"
	"github.com/nalply/axp/pkg"
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this cruft
  names    List bound names in the session
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type an expression to evaluate it
  A map body like  double: (fn (x) (* x 2))  defines its entries
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the command echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and
// input styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// Repl starts an interactive evaluator with a persistent environment.
type Repl struct {
	StepBudget   int `default:"0"   help:"Abort after this many applications (0 removes the bound)"`
	MaxCallDepth int `default:"100" help:"Maximum call nesting depth during evaluation"`
}

// Run executes the repl command. When source files are selected, their
// combined document seeds the session: a map body defines each of its
// entries before the first prompt.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env := lang.DefaultEnvironment()

	opts := []lang.EvalOption{lang.WithMaxCallDepth(r.MaxCallDepth)}
	if r.StepBudget > 0 {
		opts = append(opts, lang.WithStepBudget(r.StepBudget))
	}

	if src := cmd.SourceFilesFrom(ctx); src != nil && !src.IsZero() {
		if err := seedSession(ctx, env, src, opts); err != nil {
			return err
		}
	}

	history := NewHistory(filepath.Join(pkg.CacheDir(), baseHistory))
	if err := history.Load(); err != nil {
		fmt.Printf("Warning: could not load history: %v\n", err)
	}

	log.TraceContext(ctx, "repl start",
		slog.Int("history_entries", history.Len()),
	)

	m := newModel(ctx, env, history, opts)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

// seedSession parses the source document and defines its entries in the
// session environment. Only a map body seeds definitions; any other
// document shape is rejected so a stray list is not silently dropped.
func seedSession(
	ctx context.Context,
	env *lang.Environment,
	src cmd.SourceFiles,
	opts []lang.EvalOption,
) error {
	doc, err := lang.ParseReader(ctx, src)
	if err != nil {
		return err
	}

	if doc.IsList() && doc.IsEmpty() {
		return nil
	}

	if !doc.IsMap() {
		return lang.ErrTypeMismatch.
			With(slog.String("want", "map document"))
	}

	for _, e := range doc.Entries {
		if !e.Key.IsAtom() {
			continue
		}

		if err := lang.Define(ctx, env, e.Key.Text, e.Value, opts...); err != nil {
			return err
		}
	}

	return nil
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	env          *lang.Environment
	evalOpts     []lang.EvalOption
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	env *lang.Environment,
	history *History,
	evalOpts []lang.EvalOption,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		env:        env,
		evalOpts:   evalOpts,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Input line.
	b.WriteString(m.input.View())
	b.WriteString("\n")

	// Completion / hint line.
	input := m.input.Value()

	// Check if we're viewing history
	viewingHistory := m.historyIdx < m.history.Len()

	switch {
	case viewingHistory:
		// Show history position indicator
		pos := m.historyIdx + 1 // 1-based for display
		total := m.history.Len()
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(pos)),
			total)
		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case strings.TrimSpace(input) == "":
		// Empty or whitespace-only input: show hint.
		var hint string
		if m.mode == modeEval {
			hint = "Type an expression or press Esc for commands"
		} else {
			hint = "Type: help, names, clear, quit (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case len(m.matches) > 0:
		// Render horizontal candidate bar.
		bar := renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width,
		)
		b.WriteString(bar)
		b.WriteString("\n")

	default:
		// Non-empty input but no matches: blank line.
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.handleTab(1)

	case tea.KeyShiftTab:
		return m.handleTab(-1)

	case tea.KeyUp:
		return m.historyPrev()

	case tea.KeyDown:
		return m.historyNext()

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.toggleMode()

	case tea.KeyRunes:
		// Check for space as "breaking" key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		// Reset history index when typing
		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	// Reset history index when typing
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// handleTab cycles through completion candidates in the given direction.
func (m model) handleTab(dir int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		if dir > 0 {
			m.suggIdx = 0
		} else {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	// Update word boundaries for the replaced text.
	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
// autoConfirm should be false for deletions and cursor navigation so that
// the user can freely edit without unexpected completions.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	// Auto-confirm when the typed word already equals the sole candidate.
	candidate := m.matches[0].Str
	word := m.input.Value()[m.wordStart:m.wordEnd]

	if word == candidate {
		replaceCurrentWord(m, candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	// Reset both mode inputs after submission
	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")

	_, _ = m.history.Write(input, m.mode)
	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echoCmd := tea.Println(formatCommand(input))

	output, err := m.evalLine(input)
	if err != nil {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	return m, tea.Sequence(
		echoCmd,
		tea.Println(resultStyle.Render(output)),
	)
}

// evalLine parses and evaluates one line of input. A map body defines
// each entry in the session environment instead of evaluating to a
// value, so definitions persist across lines.
func (m model) evalLine(input string) (string, error) {
	ctx := m.ctxFunc()

	doc, err := lang.ParseString(ctx, input)
	if err != nil {
		return "", err
	}

	if doc.IsMap() {
		var names []string

		for _, e := range doc.Entries {
			if !e.Key.IsAtom() {
				return "", lang.ErrTypeMismatch.
					WithPosition(e.Key.Pos).
					With(slog.String("want", "atom key"))
			}

			err := lang.Define(ctx, m.env, e.Key.Text, e.Value, m.evalOpts...)
			if err != nil {
				return "", err
			}

			names = append(names, e.Key.Text)
		}

		return "defined " + strings.Join(names, " "), nil
	}

	result, err := lang.Evaluate(ctx, doc, m.env, m.evalOpts...)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := lang.Format(&sb, result); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "n", "names":
		return m, tea.Sequence(echoCmd, tea.Println(m.listNames()))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		m.historyIdx--

		if entry, err := m.history.GetEntry(m.historyIdx); err == nil {
			// Switch mode if needed
			if m.mode != entry.Mode {
				m, _ = m.switchToMode(entry.Mode)
			}

			m.input.SetValue(entry.Line)
			m.input.SetCursor(len(entry.Line))
			refreshMatches(&m, false)
		}
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx < m.history.Len()-1 {
		m.historyIdx++

		if entry, err := m.history.GetEntry(m.historyIdx); err == nil {
			// Switch mode if needed
			if m.mode != entry.Mode {
				m, _ = m.switchToMode(entry.Mode)
			}

			m.input.SetValue(entry.Line)
			m.input.SetCursor(len(entry.Line))
			refreshMatches(&m, false)
		}
	} else {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

// listNames renders every binding visible from the root frame with a
// short preview of what it is bound to.
func (m model) listNames() string {
	var b strings.Builder

	root := m.env.Root()

	for _, name := range m.env.Names(root) {
		binding, ok := m.env.Lookup(root, name)
		if !ok {
			continue
		}

		b.WriteString(fmt.Sprintf("  %s %s\n",
			name, hintStyle.Render(formatPreview(binding))))
	}

	return b.String()
}

// formatPreview generates a short preview string for a binding.
func formatPreview(b lang.Binding) string {
	switch {
	case b.Builtin != nil:
		if b.Builtin.Arity == lang.ArityVariadic {
			return "builtin (...)"
		}

		return fmt.Sprintf("builtin (%d)", b.Builtin.Arity)

	case b.Closure != nil:
		return "fn (" + strings.Join(b.Closure.Params, " ") + ")"

	case b.Value != nil:
		preview := b.Value.String()
		if len(preview) > 40 {
			preview = preview[:37] + "..."
		}

		return preview

	default:
		return "<unbound>"
	}
}

// toggleMode switches between eval and control modes, preserving input state.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	// Save current mode's input
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	// Switch to target mode
	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
