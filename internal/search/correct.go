package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"github.com/aryannaik/bookmark-relevance/internal/bookmark"
	"github.com/aryannaik/bookmark-relevance/internal/textnorm"
)

const (
	correctionSimilarity = 0.6
	minVocabularyRunes   = 3
)

// Correct proposes a respelling of query built from words that occur in the
// collection. It returns "" when every word is already known or nothing is
// close enough.
func Correct(bookmarks []bookmark.Bookmark, query string) string {
	words := strings.Fields(textnorm.Normalize(query))
	if len(words) == 0 {
		return ""
	}

	vocab := vocabulary(bookmarks)
	known := make(map[string]bool, len(vocab))
	for _, v := range vocab {
		known[v] = true
	}

	changed := false
	for i, w := range words {
		if known[w] {
			continue
		}
		if best, ok := closest(w, vocab); ok {
			words[i] = best
			changed = true
		}
	}

	if !changed {
		return ""
	}
	return strings.Join(words, " ")
}

func closest(word string, vocab []string) (string, bool) {
	var (
		best    string
		bestSim float32
	)
	for _, v := range vocab {
		sim, err := edlib.StringsSimilarity(word, v, edlib.DamerauLevenshtein)
		if err != nil {
			continue
		}
		if sim > bestSim {
			best, bestSim = v, sim
		}
	}
	return best, bestSim >= correctionSimilarity
}

// vocabulary returns the sorted distinct words of titles, tag names and
// folder names.
func vocabulary(bookmarks []bookmark.Bookmark) []string {
	set := make(map[string]struct{})
	addWords := func(s string) {
		for _, w := range strings.Fields(textnorm.Normalize(s)) {
			if utf8.RuneCountInString(w) >= minVocabularyRunes {
				set[w] = struct{}{}
			}
		}
	}

	for _, b := range bookmarks {
		addWords(b.Title)
		for _, t := range b.Tags {
			addWords(t.Name)
		}
		if b.Folder != nil {
			addWords(b.Folder.Name)
		}
	}

	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
