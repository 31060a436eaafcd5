package legal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectClauses(t *testing.T) {
	text := "Either party may terminate this agreement with thirty days notice. " +
		"The Tenant shall indemnify the Landlord against all claims. " +
		"This agreement is governed by the laws of Delaware. " +
		"The weather was pleasant on signing day."

	clauses := DetectClauses(text)
	require.Len(t, clauses, 3)

	assert.Equal(t, ClauseTermination, clauses[0].Type)
	assert.Equal(t, RiskMedium, clauses[0].Risk)
	assert.Equal(t, ClauseIndemnity, clauses[1].Type)
	assert.Equal(t, RiskHigh, clauses[1].Risk)
	assert.Equal(t, ClauseJurisdiction, clauses[2].Type)
	assert.Equal(t, RiskLow, clauses[2].Risk)
}

func TestDetectClauses_OneDetectionPerSentence(t *testing.T) {
	// Matches both termination and indemnity keywords; the first category
	// in table order claims the sentence.
	text := "The Landlord may terminate this lease and the Tenant shall indemnify all costs."

	clauses := DetectClauses(text)
	require.Len(t, clauses, 1)
	assert.Equal(t, ClauseTermination, clauses[0].Type)
}

func TestDetectClauses_RiskyTerms(t *testing.T) {
	clauses := DetectClauses("Provider may modify terms at its sole discretion without notice.")
	require.Len(t, clauses, 1)
	assert.Equal(t, ClauseRiskyTerms, clauses[0].Type)
	assert.Equal(t, RiskHigh, clauses[0].Risk)
}

func TestDetectClauses_NoMatches(t *testing.T) {
	assert.Empty(t, DetectClauses("Nothing normative appears in this text."))
}

func TestExtractEntities(t *testing.T) {
	text := "This lease, dated January 15, 2024, requires rent of $2,500 monthly. " +
		"Disputes go before the Supreme Court of the State of Delaware " +
		"pursuant to 11 U.S.C. 362 and Regulation 44. See Smith v. Jones. " +
		"A second payment of $2,500 is due at closing."

	e := ExtractEntities(text)

	assert.Equal(t, []string{"January 15, 2024"}, e.Dates)
	assert.Equal(t, []string{"$2,500"}, e.Amounts, "duplicate amounts collapse")
	assert.Equal(t, []string{"11 U.S.C. 362"}, e.Citations)
	assert.Equal(t, []string{"State of Delaware"}, e.Jurisdictions)
	assert.Equal(t, []string{"Supreme Court"}, e.Courts)
	assert.Equal(t, []string{"Regulation 44"}, e.Regulations)
	assert.Equal(t, []string{"Smith v. Jones"}, e.Cases)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Category
	}{
		{"lease is a contract", "Residential lease between the parties.", CategoryContract},
		{"complaint is a pleading", "Plaintiff files this complaint for damages.", CategoryPleading},
		{"statute", "The statute provides as follows.", CategoryStatute},
		{"regulation", "This final regulation amends part 42.", CategoryRegulation},
		{"other", "Minutes of the board meeting.", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.text))
		})
	}
}

func TestExtractStructure_Sections(t *testing.T) {
	text := "Section 1: Definitions\nSection 2.1: Payment Terms\nArticle 9: Notices\n"

	s := ExtractStructure(text)
	require.Len(t, s.Sections, 3)
	assert.Equal(t, Section{Number: "1", Title: "Definitions"}, s.Sections[0])
	assert.Equal(t, Section{Number: "2.1", Title: "Payment Terms"}, s.Sections[1])
	assert.Equal(t, Section{Number: "9", Title: "Notices"}, s.Sections[2])
}

func TestExtractStructure_ProhibitionBeforeObligation(t *testing.T) {
	s := ExtractStructure("The Tenant shall not sublet the premises.")

	require.Len(t, s.Relationships, 1)
	assert.Equal(t, "prohibition", s.Relationships[0].Kind)
	assert.Equal(t, "sublet the premises", s.Relationships[0].Text)
}

func TestExtractStructure_Relationships(t *testing.T) {
	text := "The Tenant shall pay rent monthly. " +
		"Except as stated herein, no warranty applies."

	s := ExtractStructure(text)

	kinds := make(map[string]string)
	for _, r := range s.Relationships {
		kinds[r.Kind] = r.Text
	}
	assert.Equal(t, "pay rent monthly", kinds["obligation"])
	assert.Equal(t, "as stated herein, no warranty applies", kinds["exception"])
}

func TestExtractStructure_Definitions(t *testing.T) {
	s := ExtractStructure(`Premises means the property located at 4 Main Street. `)

	require.NotEmpty(t, s.Definitions)
	assert.Equal(t, "Premises", s.Definitions[0].Term)
	assert.Contains(t, s.Definitions[0].Definition, "the property located at 4 Main Street")
}
