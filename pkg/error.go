package pkg

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Error represents an error with optional structured logging attributes and
// source location. It implements the error and [slog.LogValuer] interfaces.
//
// Sentinel errors are created with [NewError] and specialized with
// [Error.Kind]. Every Error derived from a sentinel (via Kind, With, Wrap, or
// At) reports true for errors.Is against that sentinel and all of its
// ancestors.
type Error struct {
	msg    string
	err    error       // Wrapped error (for errors.Unwrap)
	attrs  []slog.Attr // Attributes for structured logging
	parent *Error      // Error this one was derived from
	line   int
	column int
}

// NewError creates a new root Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Kind returns a new sentinel with the given message that is classified as e.
func (e *Error) Kind(msg string) *Error {
	return &Error{msg: msg, parent: e}
}

// Error implements the error interface.
func (e *Error) Error() string { return e.text(true) }

func (e *Error) text(withPosition bool) string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<pos>: <msg>: <err>" // position, base, and wrapped error set
	//   2. "<msg>: <err>"        // base and wrapped error both set
	//   3. "<msg>"               // wrapped error is nil
	//   4. "<err>"               // base error message is empty
	//   5. ""                    // no fields are set
	part := make([]string, 0, 3)

	if withPosition && e.line > 0 {
		part = append(part,
			"line "+strconv.Itoa(e.line)+", column "+strconv.Itoa(e.column))
	}

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		// A wrapped Error at the same position would repeat it.
		if inner, ok := e.err.(*Error); ok &&
			inner.line == e.line && inner.column == e.column {
			part = append(part, inner.text(false))
		} else {
			part = append(part, e.err.Error())
		}
	}

	return strings.Join(part, ": ")
}

// Message returns the message of e without position or cause.
func (e *Error) Message() string { return e.msg }

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is e or one of the errors e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	for k := e; k != nil; k = k.parent {
		if k == t {
			return true
		}
	}

	return false
}

// Position returns the 1-based line and column attached with [Error.At].
// Both are zero if no position was attached.
func (e *Error) Position() (line, column int) { return e.line, e.column }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.line > 0 {
		attrs = append(attrs,
			slog.Int("line", e.line),
			slog.Int("column", e.column),
		)
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
//
// If err carries a position and e does not, the position is inherited so the
// outermost error still reports where the failure happened.
func (e *Error) Wrap(err error) *Error {
	w := e.derive()
	w.err = err

	if w.line == 0 {
		if p, ok := err.(interface{ Position() (int, int) }); ok {
			w.line, w.column = p.Position()
		}
	}

	return w
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	w := e.derive()
	w.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(w.attrs, e.attrs)
	copy(w.attrs[len(e.attrs):], attrs)

	return w
}

// At attaches a 1-based source line and column to the error.
func (e *Error) At(line, column int) *Error {
	w := e.derive()
	w.line, w.column = line, column

	return w
}

// Snippet renders the source line referenced by the error's position with a
// caret under the offending column. Columns count runes. It returns the empty
// string if the error has no position or the position lies outside of source.
func (e *Error) Snippet(source string) string {
	if e.line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if e.line > len(lines) {
		return ""
	}

	var buf strings.Builder

	// Print the line with line number
	buf.WriteString("  ")
	buf.WriteString(strconv.Itoa(e.line))
	buf.WriteString(" | ")
	buf.WriteString(lines[e.line-1])
	buf.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	buf.WriteString(strings.Repeat(" ", len(strconv.Itoa(e.line))+5))
	buf.WriteString(caretPadding(lines[e.line-1], e.column))
	buf.WriteString("^\n")

	return buf.String()
}

// caretPadding returns the blank space that lines up a caret under the
// given 1-based rune column of line. Tabs are kept so the caret moves with
// them; other runes become spaces as wide as the rune is displayed.
func caretPadding(line string, column int) string {
	var pad strings.Builder

	for i, r := range []rune(line) {
		if i >= column-1 {
			break
		}

		if r == '\t' {
			pad.WriteByte('\t')

			continue
		}

		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}

	return pad.String()
}

func (e *Error) derive() *Error {
	return &Error{
		msg:    e.msg,
		err:    e.err,
		attrs:  e.attrs, // Share attrs
		parent: e,
		line:   e.line,
		column: e.column,
	}
}
