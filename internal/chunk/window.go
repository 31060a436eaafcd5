package chunk

import "strings"

const (
	// minWindowSentences is the floor below which windowing is skipped;
	// trimming a document this short would remove content the models need.
	minWindowSentences = 10

	headFraction = 0.4
	midFraction  = 0.2
)

// Window reduces an oversized document to a deterministic head/middle/tail
// mixture of its sentences: the first ~40%, a middle ~20% centered on the
// document's midpoint, and the final ~40%, concatenated in original order.
// Legal documents front-load definitions, keep obligations in the body, and
// close with termination and signature terms, so all three regions carry
// answerable facts.
//
// Sentence counts are derived from budget, interpreted as an approximate
// word budget. Documents under ten sentences are returned unmodified.
func Window(text string, budget int) string {
	sentences := Sentences(text)
	if len(sentences) < minWindowSentences {
		return text
	}

	total := len(sentences)
	keep := total
	if budget > 0 {
		// Estimate how many sentences fit the word budget.
		words := 0
		for _, s := range sentences {
			words += wordCount(s)
		}
		avg := words / total
		if avg > 0 && budget/avg < total {
			keep = budget / avg
		}
	}
	if keep >= total {
		return text
	}
	if keep < minWindowSentences {
		keep = minWindowSentences
	}

	headN := int(float64(keep) * headFraction)
	midN := int(float64(keep) * midFraction)
	tailN := keep - headN - midN
	if headN < 1 {
		headN = 1
	}
	if tailN < 1 {
		tailN = 1
	}

	midStart := total/2 - midN/2
	if midStart < headN {
		midStart = headN
	}
	midEnd := midStart + midN
	tailStart := total - tailN
	if midEnd > tailStart {
		midEnd = tailStart
	}

	picked := make([]string, 0, keep)
	picked = append(picked, sentences[:headN]...)
	picked = append(picked, sentences[midStart:midEnd]...)
	picked = append(picked, sentences[tailStart:]...)

	return strings.Join(picked, " ")
}

// Sentences splits text into trimmed, non-empty sentences. Unlike the
// chunker's lossless splitter this is a presentation split: separators are
// dropped.
func Sentences(text string) []string {
	var out []string
	for _, s := range splitSentences(text) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
