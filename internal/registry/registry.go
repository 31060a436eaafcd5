// Package registry defines the model capability interfaces the pipeline
// depends on and the injected registry that holds configured instances.
// Components receive a *Registry at construction; there is no package-level
// model state, so tests substitute stubs freely.
package registry

import "context"

// Embedder produces a fixed-length vector for a text span.
type Embedder interface {
	// Name identifies the embedder; used as the per-chunk vector cache key.
	Name() string
	// Embed returns the embedding for text.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// QAModel answers a question over a context span.
type QAModel interface {
	Name() string
	// Infer returns the answer text and a model-reported confidence in
	// [0,1]. Models with no native confidence report a documented default.
	Infer(ctx context.Context, question, context string) (string, float64, error)
}

// SummaryConstraints bound a summarization call.
type SummaryConstraints struct {
	MaxLength int     // generation ceiling, tokens or words per backend
	MinLength int     // soft floor the ensemble enforces afterwards
	Relaxed   bool    // second-attempt mode: larger ceiling, reduced penalty
	Penalty   float64 // repetition penalty hint for generative backends
}

// Summarizer condenses text under the given constraints.
type Summarizer interface {
	Name() string
	Summarize(ctx context.Context, text string, c SummaryConstraints) (string, error)
}

// WeightedQA pairs a QA model with its fixed ensemble weight. Weights
// reflect domain specialization; the legal-tuned model carries the largest.
type WeightedQA struct {
	Model  QAModel
	Weight float64
}

// Registry holds every configured model capability. It is assembled once at
// process start and treated as read-only afterward.
type Registry struct {
	embedders   []Embedder
	qaModels    []WeightedQA
	summarizers []Summarizer
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// AddEmbedder registers an embedding model.
func (r *Registry) AddEmbedder(e Embedder) *Registry {
	r.embedders = append(r.embedders, e)
	return r
}

// AddQA registers a QA model with its ensemble weight. Non-positive weights
// are coerced to a nominal 0.1 so a misconfigured model cannot silently
// disappear from fusion.
func (r *Registry) AddQA(m QAModel, weight float64) *Registry {
	if weight <= 0 {
		weight = 0.1
	}
	r.qaModels = append(r.qaModels, WeightedQA{Model: m, Weight: weight})
	return r
}

// AddSummarizer registers a summarization model.
func (r *Registry) AddSummarizer(s Summarizer) *Registry {
	r.summarizers = append(r.summarizers, s)
	return r
}

// Embedders returns the configured embedding models.
func (r *Registry) Embedders() []Embedder {
	return r.embedders
}

// QAModels returns the configured QA models with weights normalized to sum
// to 1. Model-reported scores are deliberately NOT rescaled: scales differ
// across models and no calibration data exists, so fusion treats raw scores
// as comparable and lets the weights carry the domain preference.
func (r *Registry) QAModels() []WeightedQA {
	total := 0.0
	for _, wm := range r.qaModels {
		total += wm.Weight
	}
	if total == 0 {
		return nil
	}
	out := make([]WeightedQA, len(r.qaModels))
	for i, wm := range r.qaModels {
		out[i] = WeightedQA{Model: wm.Model, Weight: wm.Weight / total}
	}
	return out
}

// Summarizers returns the configured summarization models in priority order.
func (r *Registry) Summarizers() []Summarizer {
	return r.summarizers
}
