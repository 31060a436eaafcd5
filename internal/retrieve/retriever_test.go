package retrieve

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexsight/clauselens/internal/model"
	"github.com/lexsight/clauselens/internal/registry"
)

// stubEmbedder maps exact texts to fixed vectors. Unknown text gets a zero
// vector; a non-nil err fails every call.
type stubEmbedder struct {
	name    string
	vectors map[string][]float32
	err     error
	calls   int
}

func (s *stubEmbedder) Name() string { return s.name }

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 0}, nil
}

func chunks(texts ...string) []model.Chunk {
	out := make([]model.Chunk, len(texts))
	offset := 0
	for i, t := range texts {
		out[i] = model.Chunk{Text: t, Offset: offset}
		offset += len(t)
	}
	return out
}

func TestRetrieve_FewChunksVerbatim(t *testing.T) {
	emb := &stubEmbedder{name: "mpnet"}
	r := New(registry.New().AddEmbedder(emb), 2)

	in := chunks("one", "two", "three")
	got := r.Retrieve(context.Background(), "anything", in)

	assert.True(t, got.Verbatim)
	assert.Equal(t, in, got.Chunks)
	assert.Zero(t, emb.calls, "no embedding below the ranking floor")
}

func TestRetrieve_AllEmbeddersFailVerbatim(t *testing.T) {
	reg := registry.New().
		AddEmbedder(&stubEmbedder{name: "mpnet", err: eris.New("backend down")}).
		AddEmbedder(&stubEmbedder{name: "minilm", err: eris.New("backend down")})
	r := New(reg, 2)

	in := chunks("a", "b", "c", "d", "e")
	got := r.Retrieve(context.Background(), "q", in)

	assert.True(t, got.Verbatim)
	assert.Equal(t, in, got.Chunks)
}

func TestRetrieve_TopKInDocumentOrder(t *testing.T) {
	// The question vector aligns with chunks "rent" and "deposit"; the rest
	// are orthogonal.
	emb := &stubEmbedder{name: "mpnet", vectors: map[string][]float32{
		"what is the rent": {1, 0, 0},
		"notices":          {0, 1, 0},
		"rent":             {1, 0, 0},
		"parking":          {0, 0, 1},
		"deposit":          {0.9, 0.1, 0},
		"signatures":       {0, 1, 1},
	}}
	r := New(registry.New().AddEmbedder(emb), 2)

	in := chunks("notices", "rent", "parking", "deposit", "signatures")
	got := r.Retrieve(context.Background(), "what is the rent", in)

	require.False(t, got.Verbatim)
	require.Len(t, got.Chunks, 2)
	require.Len(t, got.Scores, 2)

	// "rent" sits before "deposit" in the document, and similarity order
	// does not override document order.
	assert.Equal(t, "rent", got.Chunks[0].Text)
	assert.Equal(t, "deposit", got.Chunks[1].Text)
	assert.Greater(t, got.Scores[0], got.Scores[1])
	assert.Equal(t, "rentdeposit", got.Text())
}

func TestRetrieve_FailedEmbedderExcluded(t *testing.T) {
	good := &stubEmbedder{name: "mpnet", vectors: map[string][]float32{
		"q": {1, 0}, "a": {1, 0}, "b": {0, 1}, "c": {0, 1}, "d": {0, 1},
	}}
	bad := &stubEmbedder{name: "minilm", err: eris.New("timeout")}
	r := New(registry.New().AddEmbedder(good).AddEmbedder(bad), 1)

	got := r.Retrieve(context.Background(), "q", chunks("a", "b", "c", "d"))

	require.False(t, got.Verbatim)
	require.Len(t, got.Chunks, 1)
	assert.Equal(t, "a", got.Chunks[0].Text)
	// Scores are averaged over contributing embedders only.
	assert.InDelta(t, 1.0, got.Scores[0], 1e-6)
}

func TestRetrieve_ChunkVectorsCached(t *testing.T) {
	emb := &stubEmbedder{name: "mpnet", vectors: map[string][]float32{
		"q": {1, 0}, "a": {1, 0}, "b": {0, 1}, "c": {0, 1}, "d": {0, 1},
	}}
	r := New(registry.New().AddEmbedder(emb), 2)

	in := chunks("a", "b", "c", "d")
	r.Retrieve(context.Background(), "q", in)
	first := emb.calls // 1 question + 4 chunks
	require.Equal(t, 5, first)

	// Second pass re-embeds only the question; chunk vectors are cached on
	// the chunks themselves.
	r.Retrieve(context.Background(), "q", in)
	assert.Equal(t, first+1, emb.calls)
}

func TestRetrieve_TopKClampedToChunkCount(t *testing.T) {
	emb := &stubEmbedder{name: "mpnet", vectors: map[string][]float32{
		"q": {1, 0}, "a": {1, 0}, "b": {1, 0}, "c": {1, 0}, "d": {1, 0},
	}}
	r := New(registry.New().AddEmbedder(emb), 50)

	got := r.Retrieve(context.Background(), "q", chunks("a", "b", "c", "d"))
	assert.Len(t, got.Chunks, 4)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-6)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, 0.0, Cosine(nil, []float32{1}))
	// Mismatched lengths compare over the shared prefix.
	assert.InDelta(t, 1.0, Cosine([]float32{1, 0, 5}, []float32{1, 0}), 1e-6)
}
