package search

import "github.com/aryannaik/bookmark-relevance/internal/bookmark"

type FacetCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Facets break a result set down by folder, tag and status.
type Facets struct {
	Folders   map[string]FacetCount `json:"folders"`
	Tags      map[string]FacetCount `json:"tags"`
	Archived  int                   `json:"archived"`
	Favorites int                   `json:"favorites"`
}

// ComputeFacets tallies bookmarks in a single pass. A bookmark listing the
// same tag twice counts once for it.
func ComputeFacets(bookmarks []bookmark.Bookmark) Facets {
	f := Facets{
		Folders: make(map[string]FacetCount),
		Tags:    make(map[string]FacetCount),
	}

	for _, b := range bookmarks {
		if b.Folder != nil {
			fc := f.Folders[b.Folder.ID]
			fc.Name = b.Folder.Name
			fc.Count++
			f.Folders[b.Folder.ID] = fc
		}

		seen := make(map[string]bool, len(b.Tags))
		for _, t := range b.Tags {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			tc := f.Tags[t.ID]
			tc.Name = t.Name
			tc.Count++
			f.Tags[t.ID] = tc
		}

		if b.Archived {
			f.Archived++
		}
		if b.Favorite {
			f.Favorites++
		}
	}
	return f
}
