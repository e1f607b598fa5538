package bookmark

import "time"

// Bookmark is a read-only snapshot record owned by the storage provider.
type Bookmark struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	Description   string     `json:"description,omitempty"`
	Notes         Notes      `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastVisitedAt *time.Time `json:"lastVisitedAt,omitempty"`
	VisitCount    int        `json:"visitCount"`
	Favorite      bool       `json:"favorite"`
	Archived      bool       `json:"archived"`
	Folder        *Folder    `json:"folder,omitempty"`
	Tags          []Tag      `json:"tags,omitempty"`
}

type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type Folder struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// ReferenceTime is the last visit when known, otherwise the creation time.
func (b Bookmark) ReferenceTime() time.Time {
	if b.LastVisitedAt != nil && !b.LastVisitedAt.IsZero() {
		return *b.LastVisitedAt
	}
	return b.CreatedAt
}

// FolderID returns the owning folder's id, or "" when unfiled.
func (b Bookmark) FolderID() string {
	if b.Folder == nil {
		return ""
	}
	return b.Folder.ID
}

// TagIDs returns the ids of the bookmark's tags in snapshot order.
func (b Bookmark) TagIDs() []string {
	ids := make([]string, len(b.Tags))
	for i, t := range b.Tags {
		ids[i] = t.ID
	}
	return ids
}

// HasAnyTag reports whether any of the bookmark's tags has one of the given ids.
func (b Bookmark) HasAnyTag(ids map[string]bool) bool {
	for _, t := range b.Tags {
		if ids[t.ID] {
			return true
		}
	}
	return false
}

// IDSet builds a lookup set from a list of ids.
func IDSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// Snapshot is the page envelope returned by the storage provider.
type Snapshot struct {
	Bookmarks []Bookmark `json:"bookmarks"`
}
