package index

import (
	"strings"

	"github.com/aryannaik/bookmark-relevance/internal/bookmark"
	"github.com/aryannaik/bookmark-relevance/internal/textnorm"
)

// Build creates a fresh index over the snapshot. Cost is linear in the
// number of bookmarks and fields.
func Build(bookmarks []bookmark.Bookmark) *Index {
	return build(bookmarks, Fingerprint(bookmarks))
}

func build(bookmarks []bookmark.Bookmark, fp uint64) *Index {
	idx := &Index{
		Entries:     make([]Entry, len(bookmarks)),
		Fingerprint: fp,
	}
	for i, b := range bookmarks {
		idx.Entries[i] = buildEntry(b)
	}
	return idx
}

func buildEntry(b bookmark.Bookmark) Entry {
	domain, _ := textnorm.ExtractDomain(b.URL)

	tagNames := make([]string, len(b.Tags))
	for i, t := range b.Tags {
		tagNames[i] = t.Name
	}

	folder := ""
	if b.Folder != nil {
		folder = b.Folder.Name
	}

	e := Entry{
		Bookmark:    b,
		Title:       textnorm.Normalize(b.Title),
		Description: textnorm.Normalize(b.Description),
		Notes:       textnorm.NotesText(b.Notes),
		Checklist:   textnorm.Normalize(textnorm.ChecklistText(b.Notes)),
		URL:         strings.ToLower(strings.TrimSpace(b.URL)),
		Domain:      domain,
		Tags:        textnorm.Normalize(strings.Join(tagNames, " ")),
		Folder:      textnorm.Normalize(folder),
	}

	e.Searchable = textnorm.Normalize(strings.Join([]string{
		e.Title,
		e.Description,
		e.Notes,
		e.Checklist,
		e.URL,
		e.Domain,
		e.Tags,
		e.Folder,
	}, " "))

	return e
}
