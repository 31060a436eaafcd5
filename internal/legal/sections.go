package legal

import (
	"regexp"
	"strings"
)

// Section is a numbered section header found in a document.
type Section struct {
	Number string `json:"number"`
	Title  string `json:"title"`
}

// Relationship classifies a normative statement found in the text.
type Relationship struct {
	Kind string `json:"kind"` // obligation, prohibition, condition, exception, definition
	Text string `json:"text"`
}

// Definition binds a defined term to its definition text.
type Definition struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Structure is the relational skeleton of a legal document: its section
// headers, normative statements, and defined terms.
type Structure struct {
	Sections      []Section      `json:"sections,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`
	Definitions   []Definition   `json:"definitions,omitempty"`
}

var (
	sectionHeaderRe = regexp.MustCompile(`(?:Section|Article|Clause)\s+(\d+(?:\.\d+)*)[:.]\s*([^\n.]+)`)
	definitionRe    = regexp.MustCompile(`([A-Z][A-Za-z\s]+?)(?:\s+means|\s+shall\s+mean|\s+refers\s+to)\s+([^.]+)`)

	relationshipPatterns = []struct {
		kind string
		re   *regexp.Regexp
	}{
		{"prohibition", regexp.MustCompile(`(?i)(?:shall\s+not|must\s+not|may\s+not)\s+([^.]+)`)},
		{"obligation", regexp.MustCompile(`(?i)(?:shall|must|will|should)\s+([^.]+)`)},
		{"condition", regexp.MustCompile(`(?i)\b(?:if|when|unless|provided\s+that)\s+([^.]+)`)},
		{"exception", regexp.MustCompile(`(?i)\b(?:except|however|notwithstanding)\s+([^.]+)`)},
	}
)

// ExtractStructure builds the relational skeleton of a document. Prohibition
// patterns run before obligation patterns so "shall not" is never misread as
// a bare "shall".
func ExtractStructure(text string) Structure {
	var s Structure

	for _, m := range sectionHeaderRe.FindAllStringSubmatch(text, -1) {
		s.Sections = append(s.Sections, Section{Number: m[1], Title: trim(m[2])})
	}

	claimed := make(map[string]struct{})
	for _, rp := range relationshipPatterns {
		for _, m := range rp.re.FindAllStringSubmatch(text, -1) {
			body := trim(m[1])
			if body == "" {
				continue
			}
			// The bare-modal pattern also matches "shall not ..." with the
			// negation inside the body; the prohibition pass already owns
			// those.
			if rp.kind == "obligation" && strings.HasPrefix(strings.ToLower(body), "not ") {
				continue
			}
			if _, dup := claimed[body]; dup {
				continue
			}
			claimed[body] = struct{}{}
			s.Relationships = append(s.Relationships, Relationship{Kind: rp.kind, Text: body})
		}
	}

	for _, m := range definitionRe.FindAllStringSubmatch(text, -1) {
		s.Definitions = append(s.Definitions, Definition{Term: trim(m[1]), Definition: trim(m[2])})
	}

	return s
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
