package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/aryannaik/bookmark-relevance/internal/bookmark"
	"github.com/aryannaik/bookmark-relevance/internal/textnorm"
)

const (
	minSuggestRunes = 2
	maxSuggestions  = 8
)

// Suggest completes a partial query from titles, tag names, folder names
// and domains. Candidates starting with the query come first, then shorter
// ones; remaining ties keep collection order.
func Suggest(bookmarks []bookmark.Bookmark, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < minSuggestRunes {
		return []string{}
	}

	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		if strings.Contains(strings.ToLower(s), q) {
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, b := range bookmarks {
		add(b.Title)
		for _, t := range b.Tags {
			add(t.Name)
		}
		if b.Folder != nil {
			add(b.Folder.Name)
		}
		if domain, ok := textnorm.ExtractDomain(b.URL); ok {
			add(domain)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(out[i]), q)
		pj := strings.HasPrefix(strings.ToLower(out[j]), q)
		if pi != pj {
			return pi
		}
		return utf8.RuneCountInString(out[i]) < utf8.RuneCountInString(out[j])
	})

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	if out == nil {
		return []string{}
	}
	return out
}
