package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/smartscript/lang"
	"github.com/ardnew/smartscript/log"
	"github.com/ardnew/smartscript/pkg"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type outputKey struct{}

// WithOutput returns a new context.Context whose commands write to w.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Source names the template a command reads.
type Source struct {
	Source string `arg:"" default:"-" help:"Source template file or '-' for stdin." name:"source"`
}

// open returns a reader for the source. Stdin is never closed.
func (s Source) open() (io.ReadCloser, error) {
	if s.Source == stdinSource || s.Source == "" {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(s.Source)
	if err != nil {
		return nil, ErrReadSource.
			With(slog.String("source", s.Source)).
			Wrap(err)
	}

	return file, nil
}

// parse reads and parses the source.
func (s Source) parse(
	ctx context.Context,
	opts ...lang.Option,
) (*lang.DocumentNode, error) {
	r, err := s.open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	opts = append([]lang.Option{lang.WithLogger(log.Default())}, opts...)

	doc, err := lang.ParseReader(ctx, r, opts...)
	if err != nil {
		return nil, annotate(err, slog.String("source", s.Source))
	}

	return doc, nil
}

// render parses the source and writes it to the context output with fn.
func (s Source) render(
	ctx context.Context,
	format string,
	fn func(*lang.DocumentNode, io.Writer) error,
) error {
	doc, err := s.parse(ctx)
	if err != nil {
		return annotate(err, slog.String("format", format))
	}

	if err := fn(doc, outputFrom(ctx)); err != nil {
		return ErrWriteOutput.
			With(slog.String("format", format)).
			Wrap(err)
	}

	return nil
}

// annotate attaches attrs to err if it is a [pkg.Error].
func annotate(err error, attrs ...slog.Attr) error {
	var e *pkg.Error
	if errors.As(err, &e) && e == err {
		return e.With(attrs...)
	}

	return err
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniqueSources returns paths with duplicates of the same underlying file
// removed, keeping the first occurrence. Paths that cannot be resolved are
// kept so the caller can report them. All occurrences of "-" collapse into a
// single stdin source placed last.
func uniqueSources(paths []string) []string {
	seen := make(map[fileKey]struct{})
	unique := make([]string, 0, len(paths))
	stdin := false

	for _, path := range paths {
		if path == stdinSource {
			stdin = true

			continue
		}

		key, ok := resolveFileKey(path)
		if ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		unique = append(unique, path)
	}

	if stdin {
		unique = append(unique, stdinSource)
	}

	return unique
}

// resolveFileKey resolves symlinks in path and returns its device/inode key.
func resolveFileKey(path string) (fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
