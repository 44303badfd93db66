package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/smartscript/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "vars", "clear", "quit"}

// tagKeywords are completed in tag name position, directly after "{$".
var tagKeywords = []string{"FOR", "END", "="}

// isWordBoundary returns true if the rune delimits a completable word: tag
// delimiters, quotes, the function sigil, echo operators, and whitespace.
func isWordBoundary(r rune) bool {
	switch r {
	case '{', '}', '$', '=', '"', '@', '+', '-', '*', '/', '^':
		return true
	}

	return unicode.IsSpace(r)
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits on a
// boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// wordContext classifies what may be typed at a word starting at wordStart.
type wordContext int

const (
	contextVariable wordContext = iota
	contextFunction
	contextTagName
)

// classify reports the completion context of the word starting at wordStart.
func classify(input string, wordStart int) wordContext {
	prefix := input[:wordStart]

	if strings.HasSuffix(prefix, "@") {
		return contextFunction
	}

	if strings.HasSuffix(strings.TrimRightFunc(prefix, unicode.IsSpace), "{$") {
		return contextTagName
	}

	return contextVariable
}

// vocabulary collects the names seen in successfully parsed templates.
type vocabulary struct {
	vars  map[string]struct{}
	funcs map[string]struct{}
}

func newVocabulary() *vocabulary {
	return &vocabulary{
		vars:  make(map[string]struct{}),
		funcs: make(map[string]struct{}),
	}
}

// learn records every variable and function referenced by doc.
func (v *vocabulary) learn(doc *lang.DocumentNode) {
	for _, name := range doc.Variables() {
		v.vars[name] = struct{}{}
	}

	for n := range doc.All() {
		echo, ok := n.(*lang.EchoNode)
		if !ok {
			continue
		}

		for _, e := range echo.Elements {
			if f, ok := e.(lang.FunctionRef); ok {
				v.funcs[f.Name] = struct{}{}
			}
		}
	}
}

func (v *vocabulary) variables() []string { return slices.Sorted(maps.Keys(v.vars)) }
func (v *vocabulary) functions() []string { return slices.Sorted(maps.Keys(v.funcs)) }

// candidates returns the completion candidates for the word starting at
// wordStart.
func (v *vocabulary) candidates(input string, wordStart int) []string {
	switch classify(input, wordStart) {
	case contextFunction:
		return v.functions()

	case contextTagName:
		return tagKeywords

	default:
		return v.variables()
	}
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first) and the word boundaries. An empty
// word yields no matches except in function and tag name position, where all
// candidates are offered.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var candidates []string

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		candidates = m.vocab.candidates(input, wordStart)
	}

	if len(candidates) == 0 {
		return nil, wordStart, wordEnd
	}

	if word == "" {
		if m.mode == modeCtrl || classify(input, wordStart) == contextVariable {
			return nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width.
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

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		if i > 0 {
			last := i == len(matches)-1
			if !last && lipgloss.Width(b.String())+lipgloss.Width(sep+rendered)+reserve > width {
				b.WriteString(sep + ellipsis)

				break
			}

			b.WriteString(sep)
		}

		b.WriteString(rendered)
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		style := base
		if slices.Contains(match.MatchedIndexes, i) {
			style = highlight
		}

		b.WriteString(style.Render(string(r)))
	}

	return b.String()
}
