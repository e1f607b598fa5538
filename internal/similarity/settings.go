package similarity

import (
	"errors"
	"fmt"
	"math"
)

// Criterion configures one relationship type. A computed dimension only
// enters the aggregate when it is enabled and its score reaches Threshold.
type Criterion struct {
	Type      RelationshipType `json:"type" yaml:"type"`
	Enabled   bool             `json:"enabled" yaml:"enabled"`
	Weight    float64          `json:"weight" yaml:"weight"`
	Threshold float64          `json:"threshold" yaml:"threshold"`
}

// SortKey orders related bookmarks.
type SortKey string

const (
	SortBySimilarity SortKey = "similarity"
	SortByRecency    SortKey = "recency"
	SortByVisits     SortKey = "visits"
	SortByTitle      SortKey = "title"
)

// SortOrder defines sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Settings drive related-bookmark discovery.
type Settings struct {
	Criteria           []Criterion `json:"criteria" yaml:"criteria"`
	MaxResults         int         `json:"maxResults" yaml:"maxResults"`
	MinSimilarityScore float64     `json:"minSimilarityScore" yaml:"minSimilarityScore"`
	SortBy             SortKey     `json:"sortBy" yaml:"sortBy"`
	SortOrder          SortOrder   `json:"sortOrder" yaml:"sortOrder"`
}

// DefaultSettings enables every relationship type with weights favouring
// tags and content.
func DefaultSettings() Settings {
	return Settings{
		Criteria: []Criterion{
			{Type: TypeTag, Enabled: true, Weight: 0.30, Threshold: 0.1},
			{Type: TypeContent, Enabled: true, Weight: 0.25, Threshold: 0.1},
			{Type: TypeDomain, Enabled: true, Weight: 0.20, Threshold: 0.5},
			{Type: TypeTemporal, Enabled: true, Weight: 0.10, Threshold: 0.5},
			{Type: TypeBehavior, Enabled: true, Weight: 0.05, Threshold: 0.3},
			{Type: TypeFolder, Enabled: true, Weight: 0.10, Threshold: 1},
			{Type: TypeManual, Enabled: true, Weight: 1, Threshold: 0},
		},
		MaxResults:         10,
		MinSimilarityScore: 0.1,
		SortBy:             SortBySimilarity,
		SortOrder:          SortDesc,
	}
}

// Criterion returns the first criterion configured for t.
func (s Settings) Criterion(t RelationshipType) (Criterion, bool) {
	for _, c := range s.Criteria {
		if c.Type == t {
			return c, true
		}
	}
	return Criterion{}, false
}

// Enabled reports whether t has an enabled criterion.
func (s Settings) Enabled(t RelationshipType) bool {
	c, ok := s.Criterion(t)
	return ok && c.Enabled
}

var errInvalidSettings = errors.New("invalid relationship settings")

// Validate rejects settings that cannot produce scores in [0,1].
func (s Settings) Validate() error {
	for _, c := range s.Criteria {
		if !c.Type.Valid() {
			return fmt.Errorf("%w: unknown relationship type %q", errInvalidSettings, c.Type)
		}
		if c.Weight < 0 || !finite(c.Weight) {
			return fmt.Errorf("%w: weight for %s must be finite and not negative", errInvalidSettings, c.Type)
		}
		if !unit(c.Threshold) {
			return fmt.Errorf("%w: threshold for %s must be within [0,1]", errInvalidSettings, c.Type)
		}
	}
	if s.MaxResults < 0 {
		return fmt.Errorf("%w: maxResults must not be negative", errInvalidSettings)
	}
	if !unit(s.MinSimilarityScore) {
		return fmt.Errorf("%w: minSimilarityScore must be within [0,1]", errInvalidSettings)
	}
	switch s.SortBy {
	case "", SortBySimilarity, SortByRecency, SortByVisits, SortByTitle:
	default:
		return fmt.Errorf("%w: unknown sort key %q", errInvalidSettings, s.SortBy)
	}
	switch s.SortOrder {
	case "", SortAsc, SortDesc:
	default:
		return fmt.Errorf("%w: unknown sort order %q", errInvalidSettings, s.SortOrder)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// unit reports whether f lies in [0,1]. NaN does not.
func unit(f float64) bool {
	return f >= 0 && f <= 1
}
