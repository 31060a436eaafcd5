package anthropic

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/lexsight/clauselens/internal/registry"
)

// claudeQAScore is the score Claude answers report into fusion. Claude
// emits no token-level confidence, so a fixed score lets the ensemble
// weight decide its standing against the extractive models.
const claudeQAScore = 0.85

const qaSystemPrompt = `You answer questions about legal documents. Answer using only the
provided context. Reply with the answer text alone: no preamble, no
explanation. If the context does not contain the answer, reply with the
single word UNKNOWN.`

const summarySystemPrompt = `You summarize legal documents for review by attorneys. Write complete
sentences. Cover parties, obligations, payment terms, duration, and
termination conditions present in the document. Do not invent facts.`

// QAModel answers questions by prompting Claude over the retrieved context.
// The document context is sent as a cached system block so repeated
// questions over the same document hit the prompt cache.
type QAModel struct {
	client    Client
	model     string
	maxTokens int64
}

// NewQAModel creates a Claude-backed QA model.
func NewQAModel(client Client, model string, maxTokens int64) *QAModel {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &QAModel{client: client, model: model, maxTokens: maxTokens}
}

// Name implements registry.QAModel.
func (m *QAModel) Name() string { return m.model }

// Infer implements registry.QAModel.
func (m *QAModel) Infer(ctx context.Context, question, contextText string) (string, float64, error) {
	resp, err := m.client.CreateMessage(ctx, MessageRequest{
		Model:     m.model,
		MaxTokens: m.maxTokens,
		System: []SystemBlock{
			{Text: qaSystemPrompt},
			{Text: "Context:\n" + contextText, CacheControl: &CacheControl{TTL: "5m"}},
		},
		Messages: []Message{{Role: "user", Content: question}},
	})
	if err != nil {
		return "", 0, err
	}
	resp.Usage.LogCost(m.model, "qa")

	text := strings.TrimSpace(resp.Text())
	if text == "" || text == "UNKNOWN" {
		return "", 0, eris.Errorf("anthropic: model %s found no answer", m.model)
	}
	return text, claudeQAScore, nil
}

// Summarizer condenses documents by prompting Claude.
type Summarizer struct {
	client Client
	model  string
}

// NewSummarizer creates a Claude-backed summarizer.
func NewSummarizer(client Client, model string) *Summarizer {
	return &Summarizer{client: client, model: model}
}

// Name implements registry.Summarizer.
func (s *Summarizer) Name() string { return s.model }

// Summarize implements registry.Summarizer. Relaxed mode raises the token
// ceiling and drops the temperature hint, mirroring the ensemble's
// second-attempt semantics.
func (s *Summarizer) Summarize(ctx context.Context, text string, c registry.SummaryConstraints) (string, error) {
	maxTokens := int64(c.MaxLength)
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	temp := 0.3
	if c.Relaxed {
		temp = 0.0
	}

	resp, err := s.client.CreateMessage(ctx, MessageRequest{
		Model:       s.model,
		MaxTokens:   maxTokens,
		Temperature: &temp,
		System: []SystemBlock{
			{Text: summarySystemPrompt},
		},
		Messages: []Message{{Role: "user", Content: "Summarize this document in at least " +
			strconv.Itoa(minWords(c.MinLength)) + " words:\n\n" + text}},
	})
	if err != nil {
		return "", err
	}
	resp.Usage.LogCost(s.model, "summarize")

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", eris.Errorf("anthropic: model %s returned empty summary", s.model)
	}
	return out, nil
}

func minWords(n int) int {
	if n <= 0 {
		return 200
	}
	return n
}
