package fuzzy

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/aryannaik/bookmark-relevance/internal/bookmark"
)

// JumpResult is a title match for quick "go to bookmark" navigation.
type JumpResult struct {
	Bookmark       bookmark.Bookmark `json:"bookmark"`
	MatchedIndexes []int             `json:"matchedIndexes"`
	Score          int               `json:"score"`
}

// bookmarkTitles implements fuzzy.Source over bookmark titles.
type bookmarkTitles []bookmark.Bookmark

func (bt bookmarkTitles) String(i int) string {
	return bt[i].Title
}

func (bt bookmarkTitles) Len() int {
	return len(bt)
}

// Jump matches the query as a character subsequence of bookmark titles, so
// abbreviations like "rhg" find "React Hooks Guide". Results are best first.
func Jump(bookmarks []bookmark.Bookmark, query string, limit int) []JumpResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, bookmarkTitles(bookmarks))
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]JumpResult, len(matches))
	for i, m := range matches {
		results[i] = JumpResult{
			Bookmark:       bookmarks[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}
