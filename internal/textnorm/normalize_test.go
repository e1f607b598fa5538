package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aryannaik/bookmark-relevance/internal/bookmark"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  Hello   World \n", "hello world"},
		{"# Title\n\n**bold** _it_ `code` ~~gone~~ [link]", "title bold it code gone link"},
		{"Tabs\tand\r\nnewlines", "tabs and newlines"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"https://www.Example.com/path?q=1", "example.com", true},
		{"https://docs.example.com/a", "docs.example.com", true},
		{"http://localhost:8080", "localhost", true},
		{"not a url", "", false},
		{"example.com/no-scheme", "", false},
		{"://broken", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ExtractDomain(tt.url)
		assert.Equal(t, tt.wantOK, ok, "url %q", tt.url)
		assert.Equal(t, tt.want, got, "url %q", tt.url)
	}
}

func TestNotesText(t *testing.T) {
	assert.Equal(t, "", NotesText(nil))
	assert.Equal(t, "some notes here", NotesText(bookmark.PlainNotes("Some  **notes**\nhere")))

	structured := bookmark.StructuredNotes{
		Body: "Read later",
		Checklist: []bookmark.ChecklistItem{
			{Text: "Chapter One"},
			{Text: "Chapter Two", Done: true},
		},
	}
	assert.Equal(t, "read later chapter one chapter two", NotesText(structured))
}

func TestChecklistText(t *testing.T) {
	assert.Equal(t, "", ChecklistText(nil))

	plain := bookmark.PlainNotes("intro\n- [ ] first item\n- [X] second item\n * not a box\n-[ ] missing space")
	assert.Equal(t, "first item second item", ChecklistText(plain))

	assert.Equal(t, "", ChecklistText(bookmark.PlainNotes("no boxes at all")))

	structured := bookmark.StructuredNotes{Checklist: []bookmark.ChecklistItem{{Text: "a"}, {Text: "b"}}}
	assert.Equal(t, "a b", ChecklistText(structured))
}
