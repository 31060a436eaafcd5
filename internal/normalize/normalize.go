// Package normalize cleans raw legal text before chunking and retrieval.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Artifact runs: escapes, zero-width spaces, bullets, non-breaking
	// spaces, underscore/equals rules. Newlines are handled separately so
	// paragraph boundaries survive for the chunker.
	artifactRe = regexp.MustCompile("[\\\\​• _=]+")
	markupRe   = regexp.MustCompile(`<[^>]*>`)
	hspaceRe   = regexp.MustCompile(`[ \t]{2,}`)
	parabrkRe  = regexp.MustCompile(`(?:\n[ \t]*){2,}`)

	// Section markers. The number is retained: "SEC. 12" carries a
	// retrievable fact, so it becomes "Section 12" rather than being
	// stripped.
	sectionRe = regexp.MustCompile(`(?i)\b(?:SEC\.|Section)\s*(\d+(?:\.\d+)*)\.?`)
	articleRe = regexp.MustCompile(`(?i)\bArticle\s*(\d+(?:\.\d+)*)\.?`)
)

// asciiFold decomposes to NFD, drops combining marks, and removes any rune
// that still falls outside printable ASCII.
var asciiFold = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII || (unicode.IsControl(r) && r != '\n')
	})),
)

// Normalizer cleans raw document text. It is stateless and pure: the same
// input always yields the same output and unrecognized input passes through
// unchanged.
type Normalizer struct{}

// New creates a Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize removes control characters, markup, and bullet artifacts, folds
// non-ASCII symbols, normalizes legal section markers, and collapses
// repeated whitespace. Blank-line paragraph breaks are preserved as a single
// "\n\n" so the chunker can still split on them. It never fails.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	out := strings.ReplaceAll(text, "\r\n", "\n")
	out = strings.ReplaceAll(out, "\r", "\n")
	out = artifactRe.ReplaceAllString(out, " ")
	out = markupRe.ReplaceAllString(out, " ")

	if folded, _, err := transform.String(asciiFold, out); err == nil {
		out = folded
	}

	out = sectionRe.ReplaceAllString(out, "Section $1")
	out = articleRe.ReplaceAllString(out, "Article $1")

	out = parabrkRe.ReplaceAllString(out, "\n\n")
	out = hspaceRe.ReplaceAllString(out, " ")

	// Trim trailing spaces each line leaves behind after artifact removal.
	lines := strings.Split(out, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimRight(ln, " ")
	}
	out = strings.Join(lines, "\n")

	return strings.TrimSpace(out)
}
