// Package pipeline wires the document-understanding core end to end:
// normalize, chunk, retrieve, ensemble, validate, score, cache.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lexsight/clauselens/internal/answer"
	"github.com/lexsight/clauselens/internal/cache"
	"github.com/lexsight/clauselens/internal/chunk"
	"github.com/lexsight/clauselens/internal/ensemble"
	"github.com/lexsight/clauselens/internal/model"
	"github.com/lexsight/clauselens/internal/normalize"
	"github.com/lexsight/clauselens/internal/registry"
	"github.com/lexsight/clauselens/internal/retrieve"
	"github.com/lexsight/clauselens/internal/scorer"
)

// ErrEmptyInput is returned when the question or context is blank or too
// short to work with. No model is invoked in that case.
var ErrEmptyInput = errors.New("pipeline: empty or too-short input")

// minContextLen is the character floor below which context is rejected.
const minContextLen = 10

// minOverlapChars is the answer length below which term overlap is too
// sparse to grade and is skipped as a confidence signal.
const minOverlapChars = 10

// Options configures an Engine.
type Options struct {
	TopK          int
	MaxChunkWords int
	WindowBudget  int
	CacheEntries  int
	Summary       ensemble.SummaryConfig
	Rules         *answer.RuleTable
}

// Engine is the document-understanding core. It holds no per-request state;
// the result cache is its only shared mutable structure. Construct once,
// share across requests.
type Engine struct {
	normalizer *normalize.Normalizer
	chunker    *chunk.Chunker
	retriever  Retriever
	qa         *ensemble.QAEnsemble
	summarizer *ensemble.SummarizationEnsemble
	validator  *answer.Validator
	cache      *cache.ResultCache

	windowBudget int
}

// Retriever selects question-relevant chunks. Satisfied by
// retrieve.Retriever; narrowed here so tests can substitute a stub.
type Retriever interface {
	Retrieve(ctx context.Context, question string, chunks []model.Chunk) model.RetrievalResult
}

// New creates an Engine over the given model registry.
func New(reg *registry.Registry, opts Options) *Engine {
	return &Engine{
		normalizer:   normalize.New(),
		chunker:      chunk.New(opts.MaxChunkWords),
		retriever:    retrieve.New(reg, opts.TopK),
		qa:           ensemble.NewQA(reg),
		summarizer:   ensemble.NewSummarization(reg, opts.Summary),
		validator:    answer.NewValidator(opts.Rules),
		cache:        cache.New(opts.CacheEntries),
		windowBudget: opts.WindowBudget,
	}
}

// AnswerQuestion answers a free-form question over the given context text.
// Results are memoized on the (question, context) pair: asking the same
// question over the same context twice never re-invokes a model.
func (e *Engine) AnswerQuestion(ctx context.Context, question, contextText string) (*model.QAResult, error) {
	question = strings.TrimSpace(question)
	if question == "" || len(strings.TrimSpace(contextText)) < minContextLen {
		return nil, ErrEmptyInput
	}

	if hit := e.cache.Get(question, contextText); hit != nil {
		out := *hit
		out.FromCache = true
		return &out, nil
	}

	reqID := uuid.NewString()
	start := time.Now()

	doc := model.Document{
		ID:         reqID,
		Raw:        contextText,
		Normalized: e.normalizer.Normalize(contextText),
	}
	doc.Chunks = e.chunker.Chunk(doc.Normalized)

	retrieved := e.retriever.Retrieve(ctx, question, doc.Chunks)
	retrievedText := retrieved.Text()
	if strings.TrimSpace(retrievedText) == "" {
		retrievedText = doc.Normalized
	}

	fused, err := e.qa.Answer(ctx, question, retrievedText)
	if err != nil {
		// ModelUnavailable must not poison the cache: the same request
		// should reach the models again once they recover.
		return nil, err
	}

	final := e.validator.Validate(fused.Selected.Text, question, retrievedText)

	// Confidence is the weighted mean of the contributing models' scores.
	// Term overlap can only lower it, and only for answers long enough to
	// measure: a validated literal like "$2,500" carries no overlap signal
	// and must not be floored to zero for being short.
	confidence := modelConfidence(fused.Contributions)
	if len(strings.TrimSpace(final)) >= minOverlapChars {
		if overlap := scorer.Confidence(final, retrievedText); overlap < confidence {
			confidence = overlap
		}
	}

	result := &model.QAResult{
		RequestID:     reqID,
		Question:      question,
		Answer:        final,
		Confidence:    confidence,
		Model:         fused.Selected.Model,
		ContextUsed:   retrievedText,
		Contributions: fused.Contributions,
	}
	// Cache a copy: the caller owns the returned result and may mutate it.
	stored := *result
	e.cache.Put(question, contextText, &stored)

	zap.L().Info("pipeline: question answered",
		zap.String("request_id", reqID),
		zap.String("model", result.Model),
		zap.Float64("confidence", result.Confidence),
		zap.Bool("verbatim_context", retrieved.Verbatim),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// GenerateSummary condenses a full document. Oversized documents are
// windowed to the configured budget before the model sees them.
func (e *Engine) GenerateSummary(ctx context.Context, documentText string) (*model.SummaryResult, error) {
	if len(strings.TrimSpace(documentText)) < minContextLen {
		return nil, ErrEmptyInput
	}

	reqID := uuid.NewString()
	start := time.Now()

	normalized := e.normalizer.Normalize(documentText)
	windowed := chunk.Window(normalized, e.windowBudget)

	result, err := e.summarizer.Summarize(ctx, windowed)
	if err != nil {
		return nil, err
	}

	result.RequestID = reqID
	result.Confidence = scorer.Confidence(result.Summary, normalized)

	zap.L().Info("pipeline: summary generated",
		zap.String("request_id", reqID),
		zap.String("model", result.Model),
		zap.Bool("extractive", result.Extractive),
		zap.Int("attempts", result.Attempts),
		zap.Float64("confidence", result.Confidence),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// modelConfidence is the weighted mean of the contributing models' reported
// scores. Weights are already normalized but failed models drop out of the
// contributions, so the surviving weights are renormalized here.
func modelConfidence(answers []model.ModelAnswer) float64 {
	var sum, weights float64
	for _, a := range answers {
		sum += a.Score * a.Weight
		weights += a.Weight
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}

// ClearCache empties the result cache.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// CacheLen reports the number of memoized results.
func (e *Engine) CacheLen() int {
	return e.cache.Len()
}
