package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parse results keyed by the hash of their source text.
var globalCache sync.Map

// entry tracks the parse result of one source text.
type entry struct {
	once   sync.Once
	source string
	doc    *DocumentNode
	err    error
}

// ParseReader reads all of r and parses it as template text.
//
// Results are cached by source content: parsing the same text again returns
// a deep copy of the cached tree, so every caller owns the tree it receives.
// Parses with a [TokenHook] bypass the cache, since a cached result would
// not replay its tokens.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*DocumentNode, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	o := makeOptions(opts...)
	o.logger = o.logger.Component("cache")

	o.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true))

	if o.hook != nil {
		o.logger.TraceContext(ctx, "cache bypass",
			slog.Bool("token_hook", true))

		return Parse(ctx, string(data), opts...)
	}

	return parseCached(ctx, string(data), o, opts...)
}

// cacheKey returns the cache key of source and the hash it is built from.
func cacheKey(source string) (string, uint64) {
	hash := xxh3.HashString(source)

	return strconv.FormatUint(hash, 36) + ":" + strconv.Itoa(len(source)), hash
}

// parseCached parses source once per distinct content and returns a copy of
// the stored result.
func parseCached(
	ctx context.Context,
	source string,
	o options,
	opts ...Option,
) (*DocumentNode, error) {
	sourceKey, sourceHash := cacheKey(source)

	value, cacheHit := globalCache.LoadOrStore(sourceKey, &entry{source: source})

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.Bool("cache_hit", cacheHit))

	cached, ok := value.(*entry)
	if !ok || cached.source != source {
		o.logger.TraceContext(ctx, "cache collision",
			slog.String("source_hash", strconv.FormatUint(sourceHash, 16)))

		return Parse(ctx, source, opts...)
	}

	cached.once.Do(func() {
		cached.doc, cached.err = Parse(ctx, source, opts...)
	})

	if cached.err != nil {
		if !errors.Is(cached.err, context.Canceled) &&
			!errors.Is(cached.err, context.DeadlineExceeded) {
			return nil, cached.err
		}

		// Cancellation says nothing about the source. Drop the entry so later
		// callers retry, and parse again for a caller that is still live but
		// waited on the canceled one.
		globalCache.CompareAndDelete(sourceKey, cached)

		if ctx.Err() == nil {
			o.logger.TraceContext(ctx, "cache retry",
				slog.String("cause", cached.err.Error()))

			return Parse(ctx, source, opts...)
		}

		return nil, cached.err
	}

	return cached.doc.Clone(), nil
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
