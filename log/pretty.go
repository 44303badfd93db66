package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Styles used by the pretty handlers. Colors are dropped automatically when
// the output does not support them.
var (
	styleKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleString   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleNumber   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleTrue     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFalse    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleDuration = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	styleTime     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))

	styleComponent = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)

	styleLevel = map[Level]lipgloss.Style{
		LevelTrace: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// levelStyle returns the style of the nearest named level at or below l.
func levelStyle(l slog.Level) lipgloss.Style {
	style := styleLevel[LevelTrace]

	for _, named := range levels {
		if Level(l) >= named {
			style = styleLevel[named]
		}
	}

	return style
}

// prettyHandler holds the state shared by both pretty handlers.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func (h prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// with returns a copy of h with attrs added under the current group.
func (h prettyHandler) with(attrs []slog.Attr) prettyHandler {
	h.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

	return h
}

// group returns a copy of h whose later attributes are nested under name.
func (h prettyHandler) group(name string) prettyHandler {
	if name != "" {
		h.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	}

	return h
}

// qualify prefixes attribute keys with the open group names.
func (h prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if len(h.groups) == 0 {
		return attrs
	}

	prefix := strings.Join(h.groups, ".") + "."

	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: prefix + a.Key, Value: a.Value}
	}

	return out
}

// record collects the attributes of r in output order after applying
// ReplaceAttr. Attributes replaced by an empty Attr are dropped.
func (h prettyHandler) record(r slog.Record) []slog.Attr {
	var attrs []slog.Attr

	add := func(groups []string, a slog.Attr) {
		// Levels keep their slog.Level value so they can be styled.
		if h.opts.ReplaceAttr != nil && a.Key != slog.LevelKey &&
			a.Value.Kind() != slog.KindGroup {
			a = h.opts.ReplaceAttr(groups, a)
		}

		if !a.Equal(slog.Attr{}) {
			attrs = append(attrs, a)
		}
	}

	if !r.Time.IsZero() {
		add(nil, slog.Time(slog.TimeKey, r.Time))
	}

	add(nil, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			add(nil, slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	add(nil, slog.String(slog.MessageKey, r.Message))

	for _, a := range h.attrs {
		add(h.groups, a)
	}

	var own []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		own = append(own, a)

		return true
	})

	for _, a := range h.qualify(own) {
		add(h.groups, a)
	}

	return attrs
}

func (h prettyHandler) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler implements a colorized text handler for log messages.
type prettyTextHandler struct {
	prettyHandler
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{prettyHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}}
}

// Handle writes r on one line. A top-level component attribute is written
// in brackets ahead of the message instead of as key=value.
func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var component string

	attrs := slices.DeleteFunc(h.record(r), func(a slog.Attr) bool {
		if a.Key != ComponentKey {
			return false
		}

		component = a.Value.String()

		return true
	})

	buf := new(bytes.Buffer)
	tagged := component == ""

	for _, a := range attrs {
		if !tagged && a.Key == slog.MessageKey {
			if buf.Len() > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(styleComponent.Render("[" + component + "]"))

			tagged = true
		}

		writeTextAttr(buf, "", a)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.with(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.group(name)}
}

func writeTextAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	v := a.Value.Resolve()

	// Groups (including resolved error values) flatten to dotted keys.
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			writeTextAttr(buf, prefix+a.Key+".", ga)
		}

		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(styleKey.Render(prefix + a.Key))
	buf.WriteByte('=')
	buf.WriteString(renderValue(v))
}

// prettyJSONHandler implements a pretty-printed JSON handler for log messages.
type prettyJSONHandler struct {
	prettyHandler
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{prettyHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	writeJSONObject(buf, h.record(r), 1)

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.with(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.group(name)}
}

func writeJSONObject(buf *bytes.Buffer, attrs []slog.Attr, depth int) {
	indent := strings.Repeat("  ", depth)

	buf.WriteString("{\n")

	for i, a := range attrs {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString(indent)
		buf.WriteString(styleKey.Render(a.Key))
		buf.WriteString(": ")

		if v := a.Value.Resolve(); v.Kind() == slog.KindGroup {
			writeJSONObject(buf, v.Group(), depth+1)
		} else {
			buf.WriteString(renderValue(v))
		}
	}

	buf.WriteString("\n")
	buf.WriteString(strings.Repeat("  ", depth-1))
	buf.WriteString("}")
}

// renderValue renders a resolved, non-group value with the style of its kind.
func renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return styleString.Render(v.String())

	case slog.KindInt64:
		return styleNumber.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return styleNumber.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return styleNumber.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return styleTrue.Render("true")
		}

		return styleFalse.Render("false")

	case slog.KindDuration:
		return styleDuration.Render(v.Duration().String())

	case slog.KindTime:
		return styleTime.Render(v.Time().Format(time.RFC3339))

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			return levelStyle(level).Render(strings.ToUpper(Level(level).String()))
		}

		if v.Any() == nil {
			return styleKey.Render("null")
		}

		return styleString.Render(v.String())

	default:
		return styleString.Render(v.String())
	}
}
