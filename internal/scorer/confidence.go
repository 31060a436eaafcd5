// Package scorer computes bounded heuristic confidence for pipeline outputs.
package scorer

import "strings"

const (
	// minTermLen filters trivial tokens before overlap comparison.
	minTermLen = 3
	// minOutputLen is the character floor below which an output scores 0.
	minOutputLen = 10
	// overlapScale stretches raw overlap before clamping. Term overlap
	// between a summary and its source rarely exceeds 0.5, so raw overlap
	// is doubled to use the full range.
	overlapScale = 2.0
)

// Confidence returns a [0,1] signal for how well output is grounded in
// reference. It is normalized term overlap, scaled and clamped; a heuristic
// for sorting and thresholding, not a calibrated probability. Empty or
// near-empty output scores 0.
func Confidence(output, reference string) float64 {
	if len(strings.TrimSpace(output)) < minOutputLen {
		return 0.0
	}

	outTerms := termSet(output)
	refTerms := termSet(reference)
	if len(refTerms) == 0 {
		return 0.5
	}

	overlap := 0
	for t := range outTerms {
		if _, ok := refTerms[t]; ok {
			overlap++
		}
	}

	score := overlapScale * float64(overlap) / float64(len(refTerms))
	if score > 1.0 {
		return 1.0
	}
	return score
}

// TermOverlap returns the fraction of output's distinct terms that appear in
// reference, in [0,1]. Used by the answer validator's grounding check.
func TermOverlap(output, reference string) float64 {
	outTerms := termSet(output)
	if len(outTerms) == 0 {
		return 1.0
	}
	refTerms := termSet(reference)

	overlap := 0
	for t := range outTerms {
		if _, ok := refTerms[t]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(outTerms))
}

// termSet lowercases and tokenizes s, keeping distinct terms longer than
// minTermLen runes.
func termSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, `.,;:!?"'()[]`)
		if len(w) > minTermLen {
			set[w] = struct{}{}
		}
	}
	return set
}
