package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidence_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		reference string
	}{
		{"identical", "the lease terminates after five years", "the lease terminates after five years"},
		{"disjoint", "completely unrelated wording throughout", "the lease terminates after five years"},
		{"partial", "the lease terminates early", "the lease terminates after five years"},
		{"empty reference", "some output text here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(tt.output, tt.reference)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestConfidence_ShortOutputScoresZero(t *testing.T) {
	assert.Equal(t, 0.0, Confidence("", "reference text with terms"))
	assert.Equal(t, 0.0, Confidence("   \t  ", "reference text with terms"))
	assert.Equal(t, 0.0, Confidence("yes", "reference text with terms"))
}

func TestConfidence_EmptyReferenceNeutral(t *testing.T) {
	assert.Equal(t, 0.5, Confidence("output long enough to count", ""))
	// Reference with only short tokens has no usable terms either.
	assert.Equal(t, 0.5, Confidence("output long enough to count", "a an it to"))
}

func TestConfidence_FullOverlapSaturates(t *testing.T) {
	text := "tenant shall maintain insurance coverage throughout term"
	assert.Equal(t, 1.0, Confidence(text, text))
}

func TestConfidence_OrderingByOverlap(t *testing.T) {
	ref := "the tenant shall maintain liability insurance coverage throughout the lease term"
	high := Confidence("tenant shall maintain liability insurance coverage", ref)
	low := Confidence("weather report differs wildly today", ref)
	assert.Greater(t, high, low)
}

func TestTermOverlap(t *testing.T) {
	ref := "the monthly rent shall be $2,500 payable in advance"

	assert.Equal(t, 1.0, TermOverlap("", ref), "no distinct terms counts as grounded")
	assert.Equal(t, 1.0, TermOverlap("monthly rent payable", ref))
	assert.Equal(t, 0.0, TermOverlap("unrelated answer entirely", ref))

	half := TermOverlap("monthly rent weather forecast", ref)
	assert.InDelta(t, 0.5, half, 1e-9)
}

func TestTermSet_FiltersShortAndPunctuation(t *testing.T) {
	set := termSet(`The fee (due) is: "$2,500."`)
	assert.Contains(t, set, "$2,500")
	assert.NotContains(t, set, "the")
	assert.NotContains(t, set, "fee")
	assert.NotContains(t, set, "is")
	// "(due)" trims to "due", which is below the length floor.
	assert.NotContains(t, set, "due")
}
