// Package retrieve ranks document chunks by semantic relevance to a question
// using an ensemble of embedding models.
package retrieve

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/lexsight/clauselens/internal/model"
	"github.com/lexsight/clauselens/internal/registry"
)

const (
	// DefaultTopK is the number of chunks selected when none is configured.
	DefaultTopK = 5
	// minChunksForRanking is the floor below which ranking is skipped and
	// the whole context returned verbatim; relevance signal on three
	// chunks is too sparse to trust.
	minChunksForRanking = 4
)

// Retriever selects the chunks most relevant to a question. Relevance is the
// cosine similarity between question and chunk embeddings, averaged across
// every configured embedder so no single embedder's blind spots dominate.
type Retriever struct {
	reg  *registry.Registry
	topK int
}

// New creates a Retriever over the registry's embedders. Non-positive topK
// falls back to DefaultTopK.
func New(reg *registry.Registry, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{reg: reg, topK: topK}
}

// Retrieve selects the top-k chunks for the question, re-sorted into
// original document order. With fewer than four chunks, or when every
// embedder fails, the full chunk list is returned verbatim: an answer drawn
// from unranked context beats no answer.
func (r *Retriever) Retrieve(ctx context.Context, question string, chunks []model.Chunk) model.RetrievalResult {
	if len(chunks) < minChunksForRanking {
		return model.RetrievalResult{Chunks: chunks, Verbatim: true}
	}

	embedders := r.reg.Embedders()
	sums := make([]float64, len(chunks))
	contributing := 0

	for _, emb := range embedders {
		qv, err := emb.Embed(ctx, question)
		if err != nil {
			zap.L().Warn("retrieve: question embedding failed",
				zap.String("embedder", emb.Name()),
				zap.Error(err),
			)
			continue
		}

		scores, err := r.scoreChunks(ctx, emb, qv, chunks)
		if err != nil {
			zap.L().Warn("retrieve: chunk embedding failed",
				zap.String("embedder", emb.Name()),
				zap.Error(err),
			)
			continue
		}

		for i, s := range scores {
			sums[i] += s
		}
		contributing++
	}

	if contributing == 0 {
		zap.L().Warn("retrieve: no embedder produced scores, returning full context")
		return model.RetrievalResult{Chunks: chunks, Verbatim: true}
	}

	avg := make([]float64, len(chunks))
	for i := range sums {
		avg[i] = sums[i] / float64(contributing)
	}

	k := r.topK
	if k > len(chunks) {
		k = len(chunks)
	}

	// Rank by averaged score, take k, then restore document order so the
	// assembled context reads coherently.
	idx := make([]int, len(chunks))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return avg[idx[a]] > avg[idx[b]] })
	selected := idx[:k]
	sort.Ints(selected)

	out := model.RetrievalResult{
		Chunks: make([]model.Chunk, 0, k),
		Scores: make([]float64, 0, k),
	}
	for _, i := range selected {
		out.Chunks = append(out.Chunks, chunks[i])
		out.Scores = append(out.Scores, avg[i])
	}
	return out
}

// scoreChunks embeds each chunk (reusing cached vectors when present) and
// returns cosine similarities against the question vector.
func (r *Retriever) scoreChunks(ctx context.Context, emb registry.Embedder, qv []float32, chunks []model.Chunk) ([]float64, error) {
	scores := make([]float64, len(chunks))
	for i := range chunks {
		cv := chunks[i].Vector(emb.Name())
		if cv == nil {
			v, err := emb.Embed(ctx, chunks[i].Text)
			if err != nil {
				return nil, err
			}
			chunks[i].SetVector(emb.Name(), v)
			cv = v
		}
		scores[i] = Cosine(qv, cv)
	}
	return scores, nil
}

// Cosine returns the cosine similarity of two vectors. Mismatched lengths
// compare over the shorter prefix; zero vectors score 0.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
