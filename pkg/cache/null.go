package cache

import (
	"context"
	"time"
)

// NullCache is the cache used for --no-cache runs and config files with
// no_cache = true. Every lookup misses, so each run decodes its input file.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache returns a cache that never stores tables.
func NewNullCache() Cache {
	return &NullCache{}
}

// Enabled reports whether c can serve tables at all. Callers use it to skip
// encoding a table that would only be discarded.
func Enabled(c Cache) bool {
	if c == nil {
		return false
	}
	_, disabled := c.(*NullCache)
	return !disabled
}

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }
