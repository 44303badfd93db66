package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// History file line prefixes identifying the mode an entry was entered in.
const (
	parsePrefix = "P:"
	ctrlPrefix  = "C:"
)

// HistoryEntry represents a single history entry with its mode.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

func (e HistoryEntry) encode() string {
	if e.Mode == modeCtrl {
		return ctrlPrefix + e.Line + "\n"
	}

	return parsePrefix + e.Line + "\n"
}

func decodeEntry(line string) HistoryEntry {
	if s, ok := strings.CutPrefix(line, ctrlPrefix); ok {
		return HistoryEntry{Line: s, Mode: modeCtrl}
	}

	s, _ := strings.CutPrefix(line, parsePrefix)

	return HistoryEntry{Line: s, Mode: modeParse}
}

// History manages input history with optional file persistence. An empty path
// keeps history in memory only.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory creates a new History instance with the given file path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load reads history entries from the history file. A missing file is not an
// error.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return ErrHistory.With(slog.String("path", h.path)).Wrap(err)
	}
	defer file.Close()

	h.entries = h.entries[:0]

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.entries = append(h.entries, decodeEntry(line))
		}
	}

	if err := scanner.Err(); err != nil {
		return ErrHistory.With(slog.String("path", h.path)).Wrap(err)
	}

	return nil
}

// Add appends an entry, moving an existing identical entry to the end instead
// of duplicating it.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	entry := HistoryEntry{Line: line, Mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	i := slices.Index(h.entries, entry)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}

	h.entries = append(h.entries, entry)

	if i >= 0 {
		return h.rewrite()
	}

	return h.append(entry)
}

// Entry retrieves a historic entry by index. Index 0 is the oldest entry.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds.With(slog.Int("index", i))
	}

	return h.entries[i], nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all history entries.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// append writes a single entry to the end of the history file.
// Must be called with h.mu held.
func (h *History) append(entry HistoryEntry) error {
	return h.writeFile(os.O_APPEND|os.O_CREATE|os.O_WRONLY, entry)
}

// rewrite replaces the history file with the current entries.
// Must be called with h.mu held.
func (h *History) rewrite() error {
	return h.writeFile(os.O_TRUNC|os.O_CREATE|os.O_WRONLY, h.entries...)
}

func (h *History) writeFile(flag int, entries ...HistoryEntry) error {
	if h.path == "" {
		return nil
	}

	file, err := os.OpenFile(h.path, flag, 0o600)
	if err != nil {
		return ErrHistory.With(slog.String("path", h.path)).Wrap(err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, e := range entries {
		_, _ = w.WriteString(e.encode())
	}

	if err := w.Flush(); err != nil {
		return ErrHistory.With(slog.String("path", h.path)).Wrap(err)
	}

	return nil
}
