// Package search ranks, filters and summarises a bookmark snapshot for a
// query.
package search

import (
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/aryannaik/bookmark-relevance/internal/bookmark"
	"github.com/aryannaik/bookmark-relevance/internal/fuzzy"
	"github.com/aryannaik/bookmark-relevance/internal/index"
	"github.com/aryannaik/bookmark-relevance/internal/textnorm"
)

const snippetRunes = 200

// Hit carries the ranking details for one returned bookmark.
type Hit struct {
	ID        string             `json:"id"`
	Relevance float64            `json:"relevance"`
	Matches   []fuzzy.FieldMatch `json:"matches,omitempty"`
	Snippet   string             `json:"snippet,omitempty"`
}

// Result is the ranked, filtered answer to a search.
type Result struct {
	Bookmarks  []bookmark.Bookmark `json:"bookmarks"`
	Total      int                 `json:"total"`
	Facets     Facets              `json:"facets"`
	Hits       []Hit               `json:"hits,omitempty"`
	Correction string              `json:"correction,omitempty"`
}

type Searcher struct {
	cache   *index.Cache
	matcher *fuzzy.Matcher
	log     zerolog.Logger
}

func NewSearcher(cache *index.Cache, matcher *fuzzy.Matcher, log zerolog.Logger) *Searcher {
	return &Searcher{
		cache:   cache,
		matcher: matcher,
		log:     log.With().Str("component", "search").Logger(),
	}
}

// Search ranks bookmarks against f.Query and keeps those passing the other
// filters. Facets describe the returned set. A query that normalizes to
// nothing keeps snapshot order and carries no hits.
func (s *Searcher) Search(bookmarks []bookmark.Bookmark, f Filters) Result {
	idx := s.cache.Get(bookmarks)
	p := compile(f)
	scored := textnorm.Normalize(f.Query) != ""

	res := Result{Bookmarks: []bookmark.Bookmark{}}
	for _, h := range s.matcher.Search(idx, f.Query) {
		// Results come from the caller's snapshot, never the cached copy.
		b := bookmarks[h.Position]
		if !p.match(b) {
			continue
		}
		res.Bookmarks = append(res.Bookmarks, b)
		if scored {
			res.Hits = append(res.Hits, Hit{
				ID:        b.ID,
				Relevance: h.Relevance,
				Matches:   h.Matches,
				Snippet:   snippet(b),
			})
		}
	}

	res.Total = len(res.Bookmarks)
	res.Facets = ComputeFacets(res.Bookmarks)

	if scored && res.Total == 0 {
		res.Correction = Correct(bookmarks, f.Query)
	}

	s.log.Debug().
		Str("query", f.Query).
		Int("snapshot", len(bookmarks)).
		Int("total", res.Total).
		Str("correction", res.Correction).
		Msg("search complete")

	return res
}

// snippet previews a bookmark from its description, falling back to notes.
func snippet(b bookmark.Bookmark) string {
	text := strings.TrimSpace(b.Description)
	if text == "" {
		text = textnorm.NotesText(b.Notes)
	}
	if utf8.RuneCountInString(text) <= snippetRunes {
		return text
	}
	return string([]rune(text)[:snippetRunes]) + "..."
}
