package similarity

import (
	"math"
	"net"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aryannaik/bookmark-relevance/internal/bookmark"
	"github.com/aryannaik/bookmark-relevance/internal/textnorm"
)

const (
	sameHostScore   = 1.0
	sameRootScore   = 0.7
	unvisitedScore  = 0.5
	minKeywordRunes = 4
)

// temporalSteps maps a maximum day difference to its score. The breakpoints
// are inclusive and the function is a step, not a decay.
var temporalSteps = []struct {
	days  float64
	score float64
}{
	{1, 1.0},
	{7, 0.8},
	{30, 0.5},
	{90, 0.2},
}

// TagScore is the Jaccard coefficient of the two tag-id sets, 0 when both
// are empty.
func TagScore(a, b bookmark.Bookmark) float64 {
	return jaccard(setOf(a.TagIDs()), setOf(b.TagIDs()))
}

// ContentScore is the Jaccard coefficient of the keywords (longer than three
// characters) found in each bookmark's title and description.
func ContentScore(a, b bookmark.Bookmark) float64 {
	return jaccard(keywords(a), keywords(b))
}

// DomainScore is 1 for identical hosts, 0.7 for hosts sharing the last two
// labels, and 0 otherwise or when either URL cannot be parsed.
func DomainScore(a, b bookmark.Bookmark) float64 {
	hostA, okA := textnorm.Hostname(a.URL)
	hostB, okB := textnorm.Hostname(b.URL)
	if !okA || !okB {
		return 0
	}
	if hostA == hostB {
		return sameHostScore
	}
	if rootDomain(hostA) == rootDomain(hostB) {
		return sameRootScore
	}
	return 0
}

// TemporalScore steps down with the day difference between the bookmarks'
// reference times.
func TemporalScore(a, b bookmark.Bookmark) float64 {
	days := math.Abs(a.ReferenceTime().Sub(b.ReferenceTime()).Hours()) / 24
	for _, step := range temporalSteps {
		if days <= step.days {
			return step.score
		}
	}
	return 0
}

// BehaviorScore is min/max of the visit counts. Two unvisited bookmarks
// score 0.5.
func BehaviorScore(a, b bookmark.Bookmark) float64 {
	va, vb := max(a.VisitCount, 0), max(b.VisitCount, 0)
	if va == 0 && vb == 0 {
		return unvisitedScore
	}
	return float64(min(va, vb)) / float64(max(va, vb))
}

func rootDomain(host string) string {
	if net.ParseIP(host) != nil {
		return host
	}
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return host
	}
	return strings.Join(labels[len(labels)-2:], ".")
}

func keywords(b bookmark.Bookmark) map[string]struct{} {
	text := strings.ToLower(b.Title + " " + b.Description)
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) >= minKeywordRunes {
			set[w] = struct{}{}
		}
	}
	return set
}

func setOf(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	shared := 0
	for k := range a {
		if _, ok := b[k]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}
