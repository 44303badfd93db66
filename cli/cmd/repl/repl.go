// Package repl implements an interactive session that parses each entered
// template line and shows its syntax tree or the error that stopped it.
package repl

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/smartscript/lang"
	"github.com/ardnew/smartscript/log"
	"github.com/ardnew/smartscript/pkg"
)

const (
	parsePrompt = "➜ "
	ctrlPrompt  = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this message
  vars     List variables and functions seen so far
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a template line to parse it, e.g. {$ FOR i 1 3 $}{$= i $}{$END$}
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between parse and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeParse inputMode = iota
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
	matchStyle      = suggestionStyle.Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	logger       log.Logger
	history      *History
	vocab        *vocabulary
	matches      fuzzy.Matches // current fuzzy match results
	historyIdx   int
	wordStart    int // byte offset of current word start
	wordEnd      int // byte offset of current word end
	suggIdx      int // selected candidate index
	preTabCursor int // cursor position before tab-cycling began
	width        int // terminal width for ellipsization
	preTabText   string
	saved        [2]struct {
		text   string
		cursor int
	} // input of the inactive mode, indexed by inputMode
	mode      inputMode
	tabActive bool // whether user is tab-cycling
	quitting  bool
}

// Run starts the REPL. History is kept in cacheDir if it is not empty.
func Run(ctx context.Context, cacheDir string, logger log.Logger) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger = logger.Component("repl")

	var path string
	if cacheDir != "" {
		path = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	m := newModel(ctx, history, logger)

	logger.TraceContext(ctx, "repl start",
		slog.String("history", path),
		slog.Int("entry_count", history.Len()),
		slog.Int("known_variables", len(m.vocab.vars)),
	)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, history *History, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(parsePrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	m := model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		logger:     logger,
		history:    history,
		vocab:      newVocabulary(),
		historyIdx: history.Len(),
		width:      defaultWidth,
		suggIdx:    -1,
		mode:       modeParse,
	}

	// Names from earlier sessions are offered for completion.
	for _, e := range history.Entries() {
		if e.Mode != modeParse {
			continue
		}

		if doc, err := lang.Parse(ctx, e.Line); err == nil {
			m.vocab.learn(doc)
		}
	}

	return m
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
		m.input.Width = msg.Width - len(parsePrompt) - 2

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

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		hint := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)) +
			"/" + strconv.Itoa(m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(m.input.Value()) == "":
		hint := "Type a template or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

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
		m.refreshMatches(false)

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
		m.refreshMatches(true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches(false)

			return m, nil
		}

		return m.switchToMode(1 - m.mode), nil
	}

	var cmd tea.Cmd

	typing := msg.Type == tea.KeyRunes
	if !typing || msg.String() == " " {
		m.tabActive = false
	}

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(typing)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping around.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	// Single candidate: complete and confirm immediately.
	if n == 1 {
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0

		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	m.replaceCurrentWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also confirms the completion when exactly one
// candidate remains and the typed word already equals it.
func (m *model) refreshMatches(autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
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

	ctx := m.ctxFunc()

	m.saved[modeParse].text, m.saved[modeParse].cursor = "", 0
	m.saved[modeCtrl].text, m.saved[modeCtrl].cursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(ctx, "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := tea.Println(promptStyle.Render(parsePrompt) + inputStyle.Render(input))

	doc, err := lang.Parse(ctx, input, lang.WithLogger(m.logger))
	if err != nil {
		m.logger.TraceContext(ctx, "repl parse failed", slog.Any("error", err))

		return m, tea.Sequence(echo, tea.Println(renderError(err, input)))
	}

	m.vocab.learn(doc)

	var tree strings.Builder

	_ = doc.PrintIndent(ctx, &tree, 1)

	return m, tea.Sequence(
		echo,
		tea.Println(resultStyle.Render(strings.TrimRight(tree.String(), "\n"))),
	)
}

// renderError formats a parse error with a caret under its position.
func renderError(err error, input string) string {
	out := errorStyle.Render("error: " + err.Error())

	var e *pkg.Error
	if errors.As(err, &e) {
		if snippet := e.Snippet(input); snippet != "" {
			out += "\n" + hintStyle.Render(strings.TrimRight(snippet, "\n"))
		}
	}

	return out
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", parts[0]),
		slog.Any("args", parts[1:]),
	)

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "v", "vars":
		return m, tea.Sequence(echo, tea.Println(m.listVocabulary()))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Sequence(echo, tea.Println(
			errorStyle.Render("Unknown command: "+parts[0]+" (try 'help')"),
		))
	}
}

func (m model) listVocabulary() string {
	var b strings.Builder

	for _, name := range m.vocab.variables() {
		b.WriteString("  " + name + "\n")
	}

	for _, name := range m.vocab.functions() {
		b.WriteString("  " + hintStyle.Render("@"+name) + "\n")
	}

	if b.Len() == 0 {
		return hintStyle.Render("  (none)")
	}

	return strings.TrimRight(b.String(), "\n")
}

// historyStep moves through history by step. With sameMode, entries from the
// other mode are skipped; otherwise the mode follows the selected entry.
// Stepping past the newest entry clears the input.
func (m model) historyStep(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		m.refreshMatches(false)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches(false)
	}

	return m
}

// switchToMode switches to the given mode, preserving each mode's input.
func (m model) switchToMode(mode inputMode) model {
	m.saved[m.mode].text = m.input.Value()
	m.saved[m.mode].cursor = m.input.Position()

	m.mode = mode
	m.input.Prompt = promptStyle.Render(parsePrompt)

	if mode == modeCtrl {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.input.SetValue(m.saved[mode].text)
	m.input.SetCursor(m.saved[mode].cursor)
	m.refreshMatches(false)

	return m
}
