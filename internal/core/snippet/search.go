package snippet

import "strings"

// Document is the searchable view of a snippet.
type Document struct {
	Shortcut    string
	Content     string
	Description string
	Folder      string
	Tags        []string
	Enabled     bool
}

// SearchTerms lower-cases query and splits it on whitespace.
func SearchTerms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Matches reports whether every term occurs in the document's searchable
// text. Disabled documents never match. No terms match every enabled
// document.
func Matches(doc Document, terms []string) bool {
	if !doc.Enabled {
		return false
	}

	parts := append([]string{doc.Shortcut, doc.Content, doc.Description, doc.Folder}, doc.Tags...)
	haystack := strings.ToLower(strings.Join(parts, " "))

	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

// RankKey orders search results.
type RankKey struct {
	UseCount int
	Shortcut string
}

// RanksBefore reports whether a sorts before b: higher use count first,
// then shortcut ascending.
func RanksBefore(a, b RankKey) bool {
	if a.UseCount != b.UseCount {
		return a.UseCount > b.UseCount
	}
	return a.Shortcut < b.Shortcut
}
