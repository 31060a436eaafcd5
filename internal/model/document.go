package model

// Document is a single piece of legal text moving through the pipeline.
// Raw is the text as received; Normalized is set once by the normalizer and
// never mutated afterward. Chunks are derived from Normalized on demand.
type Document struct {
	ID         string  `json:"id"`
	Raw        string  `json:"-"`
	Normalized string  `json:"-"`
	Chunks     []Chunk `json:"chunks,omitempty"`
}

// Chunk is a bounded contiguous span of a document's normalized text.
// Offset is the byte offset of the span in the normalized text, so a
// relevance-ranked selection can be put back into source order.
type Chunk struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"`

	// vectors holds one embedding per embedder, keyed by embedder name.
	// Computed lazily by the retriever and cached for the lifetime of
	// the Document instance.
	vectors map[string][]float32
}

// Vector returns the cached embedding produced by the named embedder,
// or nil if it has not been computed yet.
func (c *Chunk) Vector(embedder string) []float32 {
	return c.vectors[embedder]
}

// SetVector caches an embedding for the named embedder.
func (c *Chunk) SetVector(embedder string, v []float32) {
	if c.vectors == nil {
		c.vectors = make(map[string][]float32, 2)
	}
	c.vectors[embedder] = v
}

// RetrievalResult is the subset of a document's chunks selected for a
// question. Chunks are always in original document order regardless of
// their relevance rank.
type RetrievalResult struct {
	Chunks []Chunk   `json:"chunks"`
	Scores []float64 `json:"scores,omitempty"` // ensemble-averaged, parallel to Chunks
	// Verbatim is true when retrieval was bypassed and the full context
	// was returned unranked (too few chunks, or every embedder failed).
	Verbatim bool `json:"verbatim"`
}

// Text concatenates the selected chunks into the context string handed to
// downstream models.
func (r RetrievalResult) Text() string {
	if len(r.Chunks) == 0 {
		return ""
	}
	n := 0
	for _, c := range r.Chunks {
		n += len(c.Text)
	}
	buf := make([]byte, 0, n)
	for _, c := range r.Chunks {
		buf = append(buf, c.Text...)
	}
	return string(buf)
}
