// Package textnorm turns bookmark fields into comparable plain text.
package textnorm

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/aryannaik/bookmark-relevance/internal/bookmark"
)

var (
	markdownChars = strings.NewReplacer("#", "", "*", "", "_", "", "`", "", "~", "", "[", "", "]", "")
	checkboxLine  = regexp.MustCompile(`(?im)^\s*- \[(?: |x)\] (.+)$`)
)

// Normalize lowercases text, strips markdown control characters and
// collapses whitespace runs to single spaces.
func Normalize(text string) string {
	s := markdownChars.Replace(strings.ToLower(text))
	return strings.Join(strings.Fields(s), " ")
}

// Hostname returns the lowercased host of an absolute URL, or false when
// the URL cannot be parsed or has no host.
func Hostname(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}
	return host, true
}

// ExtractDomain returns the URL's hostname without a leading "www.".
func ExtractDomain(raw string) (string, bool) {
	host, ok := Hostname(raw)
	if !ok {
		return "", false
	}
	return strings.TrimPrefix(host, "www."), true
}

// NotesText flattens notes to normalized text. Structured notes contribute
// their body followed by every checklist item.
func NotesText(n bookmark.Notes) string {
	switch v := n.(type) {
	case bookmark.StructuredNotes:
		parts := make([]string, 0, len(v.Checklist)+1)
		parts = append(parts, v.Body)
		for _, item := range v.Checklist {
			parts = append(parts, item.Text)
		}
		return Normalize(strings.Join(parts, " "))
	case bookmark.PlainNotes:
		return Normalize(string(v))
	default:
		return ""
	}
}

// ChecklistText joins checklist item texts. Plain notes are scanned for
// markdown checkbox lines ("- [ ] item" / "- [x] item").
func ChecklistText(n bookmark.Notes) string {
	switch v := n.(type) {
	case bookmark.StructuredNotes:
		items := make([]string, 0, len(v.Checklist))
		for _, item := range v.Checklist {
			items = append(items, item.Text)
		}
		return strings.Join(items, " ")
	case bookmark.PlainNotes:
		matches := checkboxLine.FindAllStringSubmatch(string(v), -1)
		items := make([]string, 0, len(matches))
		for _, m := range matches {
			items = append(items, strings.TrimSpace(m[1]))
		}
		return strings.Join(items, " ")
	default:
		return ""
	}
}
