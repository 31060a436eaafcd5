// Package chunk splits normalized documents into bounded spans and windows
// oversized documents down to a model's input budget.
package chunk

import (
	"strings"

	"github.com/lexsight/clauselens/internal/model"
)

const (
	// DefaultMaxWords is the per-chunk word ceiling above which a
	// paragraph is re-split on sentence boundaries.
	DefaultMaxWords = 100
)

// Chunker splits text into ordered chunks. Splitting is paragraph-first;
// paragraphs over the word ceiling fall back to sentence boundaries.
type Chunker struct {
	maxWords int
}

// New creates a Chunker with the given per-chunk word ceiling. Non-positive
// values fall back to DefaultMaxWords.
func New(maxWords int) *Chunker {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	return &Chunker{maxWords: maxWords}
}

// Chunk splits text into ordered spans. Every character of the input lands in
// exactly one chunk, separators included, so concatenating the chunks in
// order reconstructs the input byte for byte.
func (c *Chunker) Chunk(text string) []model.Chunk {
	if text == "" {
		return nil
	}

	var chunks []model.Chunk
	offset := 0
	for _, para := range splitAfter(text, "\n\n") {
		if wordCount(para) > c.maxWords {
			for _, sent := range splitSentences(para) {
				chunks = append(chunks, model.Chunk{Text: sent, Offset: offset})
				offset += len(sent)
			}
			continue
		}
		chunks = append(chunks, model.Chunk{Text: para, Offset: offset})
		offset += len(para)
	}
	return chunks
}

// splitAfter splits s after each occurrence of sep, keeping sep attached to
// the preceding piece. Empty pieces are never produced.
func splitAfter(s, sep string) []string {
	parts := strings.SplitAfter(s, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitSentences splits on sentence-terminal punctuation followed by
// whitespace, keeping the punctuation and trailing whitespace attached to
// the sentence so reassembly is lossless.
func splitSentences(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', '!', '?':
			// Consume any run of closing punctuation and whitespace.
			j := i + 1
			for j < len(s) && (s[j] == '.' || s[j] == '!' || s[j] == '?' || s[j] == '"' || s[j] == ')') {
				j++
			}
			if j >= len(s) || !isSpace(s[j]) {
				i = j - 1
				continue
			}
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			out = append(out, s[start:j])
			start = j
			i = j - 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
