package index

import "github.com/aryannaik/bookmark-relevance/internal/bookmark"

// Field names a searchable part of a bookmark.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldNotes       Field = "notes"
	FieldChecklist   Field = "checklist"
	FieldURL         Field = "url"
	FieldDomain      Field = "domain"
	FieldTags        Field = "tags"
	FieldFolder      Field = "folder"
	FieldSearchable  Field = "searchable"
)

// Fields lists every indexed field in a fixed order.
var Fields = []Field{
	FieldTitle,
	FieldDescription,
	FieldNotes,
	FieldChecklist,
	FieldURL,
	FieldDomain,
	FieldTags,
	FieldFolder,
	FieldSearchable,
}

// Entry is the searchable representation of one bookmark. All text is
// lowercased; Searchable is the normalized concatenation of every field.
type Entry struct {
	Bookmark    bookmark.Bookmark
	Title       string
	Description string
	Notes       string
	Checklist   string
	URL         string
	Domain      string
	Tags        string
	Folder      string
	Searchable  string
}

// Text returns the indexed text of a field.
func (e *Entry) Text(f Field) string {
	switch f {
	case FieldTitle:
		return e.Title
	case FieldDescription:
		return e.Description
	case FieldNotes:
		return e.Notes
	case FieldChecklist:
		return e.Checklist
	case FieldURL:
		return e.URL
	case FieldDomain:
		return e.Domain
	case FieldTags:
		return e.Tags
	case FieldFolder:
		return e.Folder
	case FieldSearchable:
		return e.Searchable
	default:
		return ""
	}
}

// Index holds one Entry per bookmark in snapshot order. An Index is never
// modified after Build returns.
type Index struct {
	Entries     []Entry
	Fingerprint uint64
}

// Len returns the number of indexed bookmarks.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.Entries)
}
