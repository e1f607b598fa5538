package bookmark

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Notes is either PlainNotes or StructuredNotes. A nil Notes means the
// bookmark has no notes.
type Notes interface {
	isNotes()
}

// PlainNotes is free-form note text, possibly containing markdown checkboxes.
type PlainNotes string

// StructuredNotes is a note body with an explicit checklist.
type StructuredNotes struct {
	Body      string          `json:"content"`
	Checklist []ChecklistItem `json:"checklist,omitempty"`
}

type ChecklistItem struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
	Done bool   `json:"completed"`
}

func (PlainNotes) isNotes()      {}
func (StructuredNotes) isNotes() {}

// ParseNotes resolves a raw notes payload once at ingestion. A JSON object
// carrying "content" or "checklist" becomes StructuredNotes; anything else,
// including malformed JSON, is kept as plain text. Blank input yields nil.
func ParseNotes(raw string) Notes {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "{") {
		if n, ok := parseStructured([]byte(trimmed)); ok {
			return n
		}
	}

	return PlainNotes(raw)
}

func parseStructured(data []byte) (StructuredNotes, bool) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return StructuredNotes{}, false
	}
	_, hasContent := keys["content"]
	_, hasChecklist := keys["checklist"]
	if !hasContent && !hasChecklist {
		return StructuredNotes{}, false
	}

	var n StructuredNotes
	if err := json.Unmarshal(data, &n); err != nil {
		return StructuredNotes{}, false
	}
	return n, true
}

// decodeNotes accepts the snapshot's "notes" value, which may be absent,
// a string (plain or JSON-encoded structured note) or an embedded object.
func decodeNotes(raw json.RawMessage) Notes {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return ParseNotes(s)
	case '{':
		return ParseNotes(string(raw))
	default:
		return PlainNotes(raw)
	}
}

func encodeNotes(n Notes) any {
	switch v := n.(type) {
	case PlainNotes:
		return string(v)
	case StructuredNotes:
		return v
	default:
		return nil
	}
}

// UnmarshalJSON decodes a bookmark, resolving its notes payload.
func (b *Bookmark) UnmarshalJSON(data []byte) error {
	type alias Bookmark
	aux := struct {
		*alias
		Notes json.RawMessage `json:"notes"`
	}{alias: (*alias)(b)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	b.Notes = decodeNotes(aux.Notes)
	return nil
}

// MarshalJSON encodes a bookmark with its notes in their resolved form.
func (b Bookmark) MarshalJSON() ([]byte, error) {
	type alias Bookmark
	return json.Marshal(struct {
		alias
		Notes any `json:"notes,omitempty"`
	}{
		alias: alias(b),
		Notes: encodeNotes(b.Notes),
	})
}
