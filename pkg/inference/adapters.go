package inference

import (
	"context"

	"github.com/lexsight/clauselens/internal/registry"
)

// defaultQAScore stands in for backends that report no confidence. Seq2seq
// QA models emit text only; a non-empty answer is treated as confident.
const defaultQAScore = 0.9

// Embedder adapts a served embedding model to the registry interface.
type Embedder struct {
	client Client
	model  string
}

// NewEmbedder creates an adapter for the named served embedding model.
func NewEmbedder(client Client, model string) *Embedder {
	return &Embedder{client: client, model: model}
}

// Name implements registry.Embedder.
func (e *Embedder) Name() string { return e.model }

// Embed implements registry.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.client.Embed(ctx, e.model, text)
}

// QAModel adapts a served question-answering model to the registry
// interface.
type QAModel struct {
	client Client
	model  string
}

// NewQAModel creates an adapter for the named served QA model.
func NewQAModel(client Client, model string) *QAModel {
	return &QAModel{client: client, model: model}
}

// Name implements registry.QAModel.
func (m *QAModel) Name() string { return m.model }

// Infer implements registry.QAModel. A missing model-reported score is
// defaulted rather than treated as zero so the model still participates in
// fusion.
func (m *QAModel) Infer(ctx context.Context, question, contextText string) (string, float64, error) {
	resp, err := m.client.Answer(ctx, m.model, question, contextText)
	if err != nil {
		return "", 0, err
	}
	score := resp.Score
	if score == 0 && resp.Answer != "" {
		score = defaultQAScore
	}
	return resp.Answer, score, nil
}

// Summarizer adapts a served summarization model to the registry interface.
type Summarizer struct {
	client Client
	model  string
}

// NewSummarizer creates an adapter for the named served summarization model.
func NewSummarizer(client Client, model string) *Summarizer {
	return &Summarizer{client: client, model: model}
}

// Name implements registry.Summarizer.
func (s *Summarizer) Name() string { return s.model }

// Summarize implements registry.Summarizer.
func (s *Summarizer) Summarize(ctx context.Context, text string, c registry.SummaryConstraints) (string, error) {
	return s.client.Summarize(ctx, s.model, SummarizeRequest{
		Text:              text,
		MaxLength:         c.MaxLength,
		MinLength:         c.MinLength,
		RepetitionPenalty: c.Penalty,
	})
}
