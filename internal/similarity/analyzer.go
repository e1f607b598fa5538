// Package similarity compares two bookmarks along independent dimensions
// and combines them into one weighted score with readable reasons.
package similarity

import (
	"fmt"
	"math"
	"sort"

	"github.com/aryannaik/bookmark-relevance/internal/bookmark"
)

const maxReasons = 3

// Analyze scores candidate against target. It is a pure function of its
// inputs.
func Analyze(target, candidate bookmark.Bookmark, settings Settings) Analysis {
	a := Analysis{
		Tag:      TagScore(target, candidate),
		Content:  ContentScore(target, candidate),
		Domain:   DomainScore(target, candidate),
		Temporal: TemporalScore(target, candidate),
		Behavior: BehaviorScore(target, candidate),
	}
	a.Overall = Aggregate(a, settings.Criteria)
	a.Reasons = reasons(a)
	return a
}

// Aggregate is the weighted mean of the enabled dimensions whose score
// reaches their threshold. Dimensions below threshold are left out of both
// the sum and the weight total; with nothing left the aggregate is 0.
func Aggregate(a Analysis, criteria []Criterion) float64 {
	var total, weights float64
	for _, c := range criteria {
		if !c.Enabled || !(c.Weight > 0) || math.IsInf(c.Weight, 1) {
			continue
		}
		score, ok := a.Score(c.Type)
		if !ok || score < c.Threshold {
			continue
		}
		total += score * c.Weight
		weights += c.Weight
	}

	mean := total / weights
	if weights == 0 || math.IsNaN(mean) {
		return 0
	}
	return math.Min(1, math.Max(0, mean))
}

// Primary returns the computed dimension with the strictly highest score,
// resolving ties in Dimensions order.
func Primary(a Analysis) RelationshipType {
	best := Dimensions[0]
	bestScore, _ := a.Score(best)
	for _, t := range Dimensions[1:] {
		if s, _ := a.Score(t); s > bestScore {
			best, bestScore = t, s
		}
	}
	return best
}

// Reason is the sentence shown next to a related bookmark.
func Reason(t RelationshipType, a Analysis) string {
	overall := percent(a.Overall)
	switch t {
	case TypeTag:
		return fmt.Sprintf("Shares %d%% of tags (%d%% overall similarity)", percent(a.Tag), overall)
	case TypeContent:
		return fmt.Sprintf("Has %d%% keyword overlap (%d%% overall similarity)", percent(a.Content), overall)
	case TypeDomain:
		return fmt.Sprintf("From the same site (%d%% domain match, %d%% overall similarity)", percent(a.Domain), overall)
	case TypeTemporal:
		return fmt.Sprintf("Saved or visited around the same time (%d%% temporal match, %d%% overall similarity)", percent(a.Temporal), overall)
	case TypeBehavior:
		return fmt.Sprintf("Visited with similar frequency (%d%% behavior match, %d%% overall similarity)", percent(a.Behavior), overall)
	case TypeFolder:
		return fmt.Sprintf("In the same folder (%d%% overall similarity)", overall)
	case TypeManual:
		return fmt.Sprintf("Linked manually (%d%% overall similarity)", overall)
	default:
		return fmt.Sprintf("%d%% overall similarity", overall)
	}
}

// reasons lists up to three short phrases for the strongest non-zero
// dimensions.
func reasons(a Analysis) []string {
	dims := make([]RelationshipType, 0, len(Dimensions))
	for _, t := range Dimensions {
		if s, _ := a.Score(t); s > 0 {
			dims = append(dims, t)
		}
	}
	sort.SliceStable(dims, func(i, j int) bool {
		si, _ := a.Score(dims[i])
		sj, _ := a.Score(dims[j])
		return si > sj
	})
	if len(dims) > maxReasons {
		dims = dims[:maxReasons]
	}

	out := make([]string, 0, len(dims))
	for _, t := range dims {
		out = append(out, phrase(t, a))
	}
	return out
}

func phrase(t RelationshipType, a Analysis) string {
	switch t {
	case TypeTag:
		return fmt.Sprintf("Shares %d%% of tags", percent(a.Tag))
	case TypeContent:
		return fmt.Sprintf("%d%% keyword overlap", percent(a.Content))
	case TypeDomain:
		if a.Domain >= sameHostScore {
			return "Same website"
		}
		return "Same root domain"
	case TypeTemporal:
		return "Saved or visited within " + temporalWindow(a.Temporal)
	case TypeBehavior:
		return fmt.Sprintf("Similar visit frequency (%d%%)", percent(a.Behavior))
	default:
		return ""
	}
}

func temporalWindow(score float64) string {
	switch {
	case score >= 1:
		return "a day"
	case score >= 0.8:
		return "a week"
	case score >= 0.5:
		return "a month"
	default:
		return "three months"
	}
}

func percent(v float64) int {
	return int(math.Round(v * 100))
}
