package index

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/aryannaik/bookmark-relevance/internal/bookmark"
)

// Cache keeps the index of the most recently seen snapshot. Callers always
// get an immutable *Index, so concurrent queries never observe a rebuild.
type Cache struct {
	mu      sync.RWMutex
	current *Index
	hits    atomic.Int64
	builds  atomic.Int64
	log     zerolog.Logger
}

func NewCache(log zerolog.Logger) *Cache {
	return &Cache{log: log.With().Str("component", "index").Logger()}
}

// Get returns the index for the snapshot, rebuilding it when the snapshot
// fingerprint differs from the cached one.
func (c *Cache) Get(bookmarks []bookmark.Bookmark) *Index {
	fp := Fingerprint(bookmarks)

	c.mu.RLock()
	cur := c.current
	c.mu.RUnlock()

	if cur != nil && cur.Fingerprint == fp && cur.Len() == len(bookmarks) {
		c.hits.Add(1)
		return cur
	}

	idx := build(bookmarks, fp)

	c.mu.Lock()
	c.current = idx
	c.mu.Unlock()

	c.builds.Add(1)
	c.log.Debug().Int("entries", len(bookmarks)).Uint64("fingerprint", fp).Msg("index rebuilt")
	return idx
}

// CacheStats reports how often the cached index was reused.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Builds  int64 `json:"builds"`
	Entries int   `json:"entries"`
}

func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{
		Hits:    c.hits.Load(),
		Builds:  c.builds.Load(),
		Entries: c.current.Len(),
	}
}

// Fingerprint hashes every bookmark attribute that can change search
// output, in snapshot order.
func Fingerprint(bookmarks []bookmark.Bookmark) uint64 {
	d := xxhash.New()
	var buf []byte

	field := func(s string) {
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0})
	}
	num := func(n int64) {
		buf = strconv.AppendInt(buf[:0], n, 10)
		buf = append(buf, 0)
		_, _ = d.Write(buf)
	}
	flag := func(v bool) {
		if v {
			field("1")
		} else {
			field("0")
		}
	}

	for _, b := range bookmarks {
		field(b.ID)
		field(b.Title)
		field(b.URL)
		field(b.Description)
		num(b.CreatedAt.UnixNano())
		if b.LastVisitedAt != nil {
			num(b.LastVisitedAt.UnixNano())
		} else {
			field("-")
		}
		num(int64(b.VisitCount))
		flag(b.Favorite)
		flag(b.Archived)

		if b.Folder != nil {
			field(b.Folder.ID)
			field(b.Folder.Name)
			field(b.Folder.Color)
		} else {
			field("-")
		}
		for _, t := range b.Tags {
			field(t.ID)
			field(t.Name)
			field(t.Color)
		}
		field("|")

		switch n := b.Notes.(type) {
		case bookmark.PlainNotes:
			field("p")
			field(string(n))
		case bookmark.StructuredNotes:
			field("s")
			field(n.Body)
			for _, item := range n.Checklist {
				field(item.Text)
				flag(item.Done)
			}
		default:
			field("-")
		}
		_, _ = d.Write([]byte{0xff})
	}

	return d.Sum64()
}
