package search

import (
	"strings"
	"time"

	"github.com/aryannaik/bookmark-relevance/internal/bookmark"
)

// DateRange bounds CreatedAt inclusively. A zero bound is open.
type DateRange struct {
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`
}

func (r DateRange) contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// Filters selects and ranks bookmarks. Nil pointer fields do not filter.
type Filters struct {
	Query          string     `json:"query"`
	FolderID       string     `json:"folderId,omitempty"`
	TagIDs         []string   `json:"tagIds,omitempty"`
	Favorite       *bool      `json:"favorite,omitempty"`
	Archived       *bool      `json:"archived,omitempty"`
	DateRange      *DateRange `json:"dateRange,omitempty"`
	HasDescription *bool      `json:"hasDescription,omitempty"`
}

// predicate is Filters compiled for repeated evaluation.
type predicate struct {
	f    Filters
	tags map[string]bool
}

func compile(f Filters) predicate {
	return predicate{f: f, tags: bookmark.IDSet(f.TagIDs)}
}

// match reports whether b passes every set filter. Tags match when the
// bookmark carries any of the requested ids.
func (p predicate) match(b bookmark.Bookmark) bool {
	f := p.f
	if f.FolderID != "" && b.FolderID() != f.FolderID {
		return false
	}
	if len(p.tags) > 0 && !b.HasAnyTag(p.tags) {
		return false
	}
	if f.Favorite != nil && b.Favorite != *f.Favorite {
		return false
	}
	if f.Archived != nil && b.Archived != *f.Archived {
		return false
	}
	if f.DateRange != nil && !f.DateRange.contains(b.CreatedAt) {
		return false
	}
	if f.HasDescription != nil && (strings.TrimSpace(b.Description) != "") != *f.HasDescription {
		return false
	}
	return true
}
