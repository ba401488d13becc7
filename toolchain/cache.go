package toolchain

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"
)

// cacheDirMode is the permission used when creating the cache directory.
const cacheDirMode = 0o700

// Cache memoizes boolean probe results by the identity of the query.
//
// Results are kept in memory and, if a directory is configured, persisted
// as one small file per key so later runs can reuse them.
type Cache struct {
	dir string
	mem sync.Map
}

// NewCache returns a Cache persisting under dir. An empty dir keeps results
// in memory only.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Key returns the cache key for the given query parts.
func (c *Cache) Key(parts ...string) string {
	h := xxh3.HashString(strings.Join(parts, "\x00"))

	return strconv.FormatUint(h, 36)
}

// Load returns the cached result for key, if any.
func (c *Cache) Load(key string) (result, ok bool) {
	if v, ok := c.mem.Load(key); ok {
		return v.(bool), true //nolint:forcetypeassert
	}

	if c.dir == "" {
		return false, false
	}

	data, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return false, false
	}

	switch strings.TrimSpace(string(data)) {
	case "1":
		result = true
	case "0":
		result = false
	default:
		return false, false
	}

	c.mem.Store(key, result)

	return result, true
}

// Store records result under key. Persistence failures are ignored; the
// in-memory entry is always kept.
func (c *Cache) Store(key string, result bool) {
	c.mem.Store(key, result)

	if c.dir == "" {
		return
	}

	if err := os.MkdirAll(c.dir, cacheDirMode); err != nil {
		return
	}

	_ = os.WriteFile(filepath.Join(c.dir, key), []byte(strconv.Itoa(btoi(result))), 0o600)
}
