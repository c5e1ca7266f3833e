package cache

import (
	"fmt"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"hfscanner/internal/risk"
)

// DefaultSize bounds the number of remembered files.
const DefaultSize = 65536

type entry struct {
	size    int64
	modTime time.Time
	counts  risk.Counts
}

// Cache remembers classification results per file path. An entry is only
// returned while the file's size and modification time are unchanged.
type Cache struct {
	lru *lru.Cache[string, entry]
}

func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	l, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("result cache: %w", err)
	}
	return &Cache{lru: l}, nil
}

// Get returns the cached counts for path if info still describes the file that
// produced them.
func (c *Cache) Get(path string, info os.FileInfo) (risk.Counts, bool) {
	if c == nil || info == nil {
		return risk.Counts{}, false
	}
	e, ok := c.lru.Get(path)
	if !ok {
		return risk.Counts{}, false
	}
	if e.size != info.Size() || !e.modTime.Equal(info.ModTime()) {
		c.lru.Remove(path)
		return risk.Counts{}, false
	}
	return e.counts, true
}

func (c *Cache) Set(path string, info os.FileInfo, counts risk.Counts) {
	if c == nil || info == nil {
		return
	}
	c.lru.Add(path, entry{size: info.Size(), modTime: info.ModTime(), counts: counts})
}

func (c *Cache) Remove(path string) {
	if c == nil {
		return
	}
	c.lru.Remove(path)
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
