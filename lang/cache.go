package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// globalCache stores parse results keyed by the combined hash of
// source text and parser options. Cached trees are shared between
// callers, which is safe as long as callers treat parsed values as
// read-only, the same convention the evaluator follows.
//
//nolint:gochecknoglobals
var globalCache sync.Map

// cacheEntry holds one memoized parse.
type cacheEntry struct {
	once  sync.Once
	value *Value
	err   error
}

// hashOptions encodes the parser configuration with gob and hashes it
// with xxh3, so documents parsed under different limits do not collide.
func hashOptions(p *Parser) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(p.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// ParseCached parses a document with process-wide memoization. The
// first parse of a given source and option combination populates the
// cache; subsequent calls return the same tree.
func ParseCached(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Value, error) {
	p := NewParser([]byte(source), opts...)

	sourceHash := xxh3.Hash([]byte(source))
	optsHash := hashOptions(p)
	key := strconv.FormatUint(sourceHash^optsHash, 36)

	entry := new(cacheEntry)

	value, hit := globalCache.LoadOrStore(key, entry)

	cached, ok := value.(*cacheEntry)
	if !ok {
		return ParseString(ctx, source, opts...)
	}

	p.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit))

	cached.once.Do(func() {
		cached.value, cached.err = ParseString(ctx, source, opts...)
	})

	return cached.value, cached.err
}

// ClearCache removes all memoized parse results. This is primarily
// useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache = sync.Map{}
}
