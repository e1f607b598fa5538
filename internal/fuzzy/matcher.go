// Package fuzzy ranks indexed bookmarks against a free-text query with
// typo-tolerant, unanchored matching across weighted fields.
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/aryannaik/bookmark-relevance/internal/bookmark"
	"github.com/aryannaik/bookmark-relevance/internal/index"
	"github.com/aryannaik/bookmark-relevance/internal/textnorm"
)

// epsilon stands in for a perfect field score so the product stays ordered
// by field weight instead of collapsing to zero.
const epsilon = 2.220446049250313e-16

// DefaultWeights biases which field's match dominates a bookmark's score.
var DefaultWeights = map[index.Field]float64{
	index.FieldTitle:       0.25,
	index.FieldDescription: 0.15,
	index.FieldNotes:       0.20,
	index.FieldChecklist:   0.15,
	index.FieldURL:         0.05,
	index.FieldDomain:      0.10,
	index.FieldTags:        0.15,
	index.FieldFolder:      0.10,
	index.FieldSearchable:  0.05,
}

type Options struct {
	// Threshold is the tolerated share of edits relative to query length.
	Threshold float64
	// MinMatchLength is the shortest query, in runes, that can match.
	MinMatchLength int
	Weights        map[index.Field]float64
}

func DefaultOptions() Options {
	return Options{
		Threshold:      0.4,
		MinMatchLength: 2,
		Weights:        DefaultWeights,
	}
}

// FieldMatch records how closely one field matched; 0 is exact.
type FieldMatch struct {
	Field    index.Field `json:"field"`
	Distance float64     `json:"distance"`
}

// Hit is one ranked bookmark. Score is lower-is-better; Relevance is its
// complement for callers that sort descending.
type Hit struct {
	Position  int               `json:"position"`
	Bookmark  bookmark.Bookmark `json:"bookmark"`
	Score     float64           `json:"score"`
	Relevance float64           `json:"relevance"`
	Matches   []FieldMatch      `json:"matches,omitempty"`
}

type Matcher struct {
	opts Options
}

func NewMatcher(opts Options) *Matcher {
	if opts.Weights == nil {
		opts.Weights = DefaultWeights
	}
	if opts.MinMatchLength < 1 {
		opts.MinMatchLength = 1
	}
	return &Matcher{opts: opts}
}

// Search scores every entry and returns matching bookmarks best first. Equal
// scores keep snapshot order. A blank query returns every bookmark in
// snapshot order without scoring.
func (m *Matcher) Search(idx *index.Index, query string) []Hit {
	q := textnorm.Normalize(query)
	if q == "" {
		hits := make([]Hit, idx.Len())
		for i := range hits {
			hits[i] = Hit{Position: i, Bookmark: idx.Entries[i].Bookmark}
		}
		return hits
	}

	pattern := []rune(q)
	if len(pattern) < m.opts.MinMatchLength {
		return []Hit{}
	}
	maxEdits := int(math.Floor(m.opts.Threshold * float64(len(pattern))))

	hits := make([]Hit, 0)
	for i := range idx.Entries {
		e := &idx.Entries[i]
		if hit, ok := m.score(e, q, pattern, maxEdits); ok {
			hit.Position = i
			hits = append(hits, hit)
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score < hits[b].Score
	})

	return hits
}

func (m *Matcher) score(e *index.Entry, q string, pattern []rune, maxEdits int) (Hit, bool) {
	total := 1.0
	var matches []FieldMatch

	for _, f := range index.Fields {
		weight := m.opts.Weights[f]
		if weight <= 0 {
			continue
		}
		text := e.Text(f)
		if utf8.RuneCountInString(text) < m.opts.MinMatchLength {
			continue
		}

		edits, ok := matchField(q, pattern, text, maxEdits)
		if !ok {
			continue
		}

		d := float64(edits) / float64(len(pattern))
		matches = append(matches, FieldMatch{Field: f, Distance: d})
		total *= math.Pow(math.Max(d, epsilon), weight)
	}

	if len(matches) == 0 {
		return Hit{}, false
	}

	return Hit{
		Bookmark:  e.Bookmark,
		Score:     total,
		Relevance: 1 - total,
		Matches:   matches,
	}, true
}

func matchField(q string, pattern []rune, text string, maxEdits int) (int, bool) {
	if strings.Contains(text, q) {
		return 0, true
	}
	if maxEdits == 0 {
		return 0, false
	}
	edits := substringDistance(pattern, []rune(text), maxEdits)
	return edits, edits <= maxEdits
}

// substringDistance is the smallest edit distance between pattern and any
// substring of text (Sellers' algorithm). Scanning stops early once an
// exact occurrence is found.
func substringDistance(pattern, text []rune, limit int) int {
	m := len(pattern)
	col := make([]int, m+1)
	for i := range col {
		col[i] = i
	}
	best := col[m]

	for _, c := range text {
		diag := col[0]
		col[0] = 0
		for i := 1; i <= m; i++ {
			cost := 1
			if pattern[i-1] == c {
				cost = 0
			}
			prev := col[i]
			col[i] = min(diag+cost, prev+1, col[i-1]+1)
			diag = prev
		}
		if col[m] < best {
			best = col[m]
			if best == 0 {
				break
			}
		}
	}

	if best > limit {
		return limit + 1
	}
	return best
}
