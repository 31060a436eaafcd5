package legal

import (
	"regexp"
	"strings"
)

// Entities holds every named legal entity extracted from one document.
type Entities struct {
	Parties       []string `json:"parties,omitempty"`
	Dates         []string `json:"dates,omitempty"`
	Amounts       []string `json:"amounts,omitempty"`
	Citations     []string `json:"citations,omitempty"`
	Jurisdictions []string `json:"jurisdictions,omitempty"`
	Courts        []string `json:"courts,omitempty"`
	Statutes      []string `json:"statutes,omitempty"`
	Regulations   []string `json:"regulations,omitempty"`
	Cases         []string `json:"cases,omitempty"`
}

var entityPatterns = map[string]*regexp.Regexp{
	"parties":       regexp.MustCompile(`\b(?:Party|Parties|Lessor|Lessee|Buyer|Seller|Plaintiff|Defendant)\s+(?:of|to|in|the)\s+(?:the\s+)?(?:first|second|third|fourth|fifth)\s+(?:part|party)\b`),
	"dates":         regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:st|nd|rd|th)?,\s+\d{4}\b`),
	"amounts":       regexp.MustCompile(`\$\d{1,3}(?:,\d{3})*(?:\.\d{2})?`),
	"citations":     regexp.MustCompile(`\b\d+\s+U\.S\.C\.\s+\d+|\b\d+\s+F\.R\.\s+\d+|\b\d+\s+CFR\s+\d+`),
	"jurisdictions": regexp.MustCompile(`\b(?:State|Commonwealth|District|Territory)\s+of\s+[A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)?`),
	"courts":        regexp.MustCompile(`\b(?:Supreme|Appellate|District|Circuit|County|Municipal)\s+Court\b`),
	"statutes":      regexp.MustCompile(`\b(?:Act|Statute|Law|Code)\s+of\s+[A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)?\b`),
	"regulations":   regexp.MustCompile(`\b(?:Regulation|Rule|Order)\s+\d+\b`),
	"cases":         regexp.MustCompile(`\b[A-Z][A-Za-z]+\s+v\.\s+[A-Z][A-Za-z]+\b`),
}

// ExtractEntities pulls named legal entities out of text. Matches are
// de-duplicated per category, first occurrence order.
func ExtractEntities(text string) Entities {
	find := func(key string) []string {
		return uniq(entityPatterns[key].FindAllString(text, -1))
	}
	return Entities{
		Parties:       find("parties"),
		Dates:         find("dates"),
		Amounts:       find("amounts"),
		Citations:     find("citations"),
		Jurisdictions: find("jurisdictions"),
		Courts:        find("courts"),
		Statutes:      find("statutes"),
		Regulations:   find("regulations"),
		Cases:         find("cases"),
	}
}

// Category is the coarse document class used for report headers.
type Category string

// Document categories.
const (
	CategoryContract   Category = "Contract"
	CategoryPleading   Category = "Pleading"
	CategoryStatute    Category = "Statute"
	CategoryRegulation Category = "Regulation"
	CategoryOther      Category = "Other"
)

var categoryKeywords = []struct {
	Category Category
	Keywords []string
}{
	{CategoryContract, []string{"contract", "agreement", "lease"}},
	{CategoryPleading, []string{"complaint", "petition", "motion"}},
	{CategoryStatute, []string{"statute", "act", "law"}},
	{CategoryRegulation, []string{"regulation", "rule", "order"}},
}

// Categorize classifies a document by keyword presence, first match wins.
func Categorize(text string) Category {
	lower := strings.ToLower(text)
	for _, ck := range categoryKeywords {
		for _, kw := range ck.Keywords {
			if strings.Contains(lower, kw) {
				return ck.Category
			}
		}
	}
	return CategoryOther
}

func uniq(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
