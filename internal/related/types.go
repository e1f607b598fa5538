// Package related finds the bookmarks most related to a target bookmark.
package related

import (
	"github.com/aryannaik/bookmark-relevance/internal/bookmark"
	"github.com/aryannaik/bookmark-relevance/internal/similarity"
)

// Filter narrows the candidate set before and after scoring.
type Filter struct {
	FavoritesOnly    bool     `json:"favoritesOnly,omitempty"`
	ExcludeFolderIDs []string `json:"excludeFolderIds,omitempty"`
	IncludeFolderIDs []string `json:"includeFolderIds,omitempty"`
	ExcludeTagIDs    []string `json:"excludeTagIds,omitempty"`
	IncludeTagIDs    []string `json:"includeTagIds,omitempty"`

	// RelationshipTypes restricts results to these types. Empty allows all.
	RelationshipTypes []similarity.RelationshipType `json:"relationshipTypes,omitempty"`

	// ManualLinks are ids the user linked to the target by hand.
	ManualLinks []string `json:"manualLinks,omitempty"`
}

// Bookmark is a candidate that survived ranking.
type Bookmark struct {
	Bookmark           bookmark.Bookmark           `json:"bookmark"`
	SimilarityScore    float64                     `json:"similarityScore"`
	RelationshipType   similarity.RelationshipType `json:"relationshipType"`
	RelationshipReason string                      `json:"relationshipReason"`
	Analysis           similarity.Analysis         `json:"analysis"`
}

type compiledFilter struct {
	favoritesOnly  bool
	excludeFolders map[string]bool
	includeFolders map[string]bool
	excludeTags    map[string]bool
	includeTags    map[string]bool
	allowed        map[similarity.RelationshipType]bool
	manual         map[string]bool
}

func compile(f Filter) compiledFilter {
	c := compiledFilter{
		favoritesOnly:  f.FavoritesOnly,
		excludeFolders: bookmark.IDSet(f.ExcludeFolderIDs),
		includeFolders: bookmark.IDSet(f.IncludeFolderIDs),
		excludeTags:    bookmark.IDSet(f.ExcludeTagIDs),
		includeTags:    bookmark.IDSet(f.IncludeTagIDs),
		manual:         bookmark.IDSet(f.ManualLinks),
	}
	if len(f.RelationshipTypes) > 0 {
		c.allowed = make(map[similarity.RelationshipType]bool, len(f.RelationshipTypes))
		for _, t := range f.RelationshipTypes {
			c.allowed[t] = true
		}
	}
	return c
}

// keep applies the candidate predicates in order: favorites, folder
// exclusions, folder inclusions, tag exclusions, tag inclusions.
func (c compiledFilter) keep(b bookmark.Bookmark) bool {
	if c.favoritesOnly && !b.Favorite {
		return false
	}
	folder := b.FolderID()
	if folder != "" && c.excludeFolders[folder] {
		return false
	}
	if len(c.includeFolders) > 0 && !c.includeFolders[folder] {
		return false
	}
	if len(c.excludeTags) > 0 && b.HasAnyTag(c.excludeTags) {
		return false
	}
	if len(c.includeTags) > 0 && !b.HasAnyTag(c.includeTags) {
		return false
	}
	return true
}

func (c compiledFilter) allows(t similarity.RelationshipType) bool {
	return c.allowed == nil || c.allowed[t]
}
