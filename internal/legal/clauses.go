// Package legal extracts domain-specific structure from legal text: clauses
// with risk levels, named legal entities, and definitional relationships.
package legal

import (
	"strings"

	"github.com/lexsight/clauselens/internal/chunk"
)

// RiskLevel grades how much attention a detected clause deserves.
type RiskLevel string

// Risk grades, coarsest useful granularity.
const (
	RiskLow     RiskLevel = "Low"
	RiskMedium  RiskLevel = "Medium"
	RiskHigh    RiskLevel = "High"
	RiskUnknown RiskLevel = "Unknown"
)

// ClauseType names a recognized clause category.
type ClauseType string

// Recognized clause categories.
const (
	ClauseTermination     ClauseType = "Termination"
	ClauseIndemnity       ClauseType = "Indemnity"
	ClauseJurisdiction    ClauseType = "Jurisdiction"
	ClauseConfidentiality ClauseType = "Confidentiality"
	ClauseRiskyTerms      ClauseType = "Risky Terms"
)

// DetectedClause is a sentence matched to a clause category.
type DetectedClause struct {
	Sentence string     `json:"clause"`
	Type     ClauseType `json:"type"`
	Risk     RiskLevel  `json:"risk_level"`
}

// clauseKeywords drive sentence classification. A sentence is tagged with
// the first category whose keyword it contains.
var clauseKeywords = []struct {
	Type     ClauseType
	Keywords []string
}{
	{ClauseTermination, []string{"terminate", "termination", "cancel", "notice period"}},
	{ClauseIndemnity, []string{"indemnify", "hold harmless", "liability", "defend"}},
	{ClauseJurisdiction, []string{"governed by", "laws of", "jurisdiction"}},
	{ClauseConfidentiality, []string{"confidential", "non-disclosure", "nda"}},
	{ClauseRiskyTerms, []string{"sole discretion", "no liability", "not responsible"}},
}

var clauseRisk = map[ClauseType]RiskLevel{
	ClauseTermination:     RiskMedium,
	ClauseIndemnity:       RiskHigh,
	ClauseJurisdiction:    RiskLow,
	ClauseConfidentiality: RiskMedium,
	ClauseRiskyTerms:      RiskHigh,
}

// DetectClauses scans text sentence by sentence and tags each sentence with
// the first clause category it matches. A sentence yields at most one
// detection.
func DetectClauses(text string) []DetectedClause {
	var out []DetectedClause
	for _, sentence := range chunk.Sentences(text) {
		lower := strings.ToLower(sentence)
		for _, ck := range clauseKeywords {
			if containsAny(lower, ck.Keywords...) {
				risk, ok := clauseRisk[ck.Type]
				if !ok {
					risk = RiskUnknown
				}
				out = append(out, DetectedClause{
					Sentence: sentence,
					Type:     ck.Type,
					Risk:     risk,
				})
				break
			}
		}
	}
	return out
}

// containsAny checks if s contains any of the given substrings.
func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
