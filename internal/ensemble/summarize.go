package ensemble

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/lexsight/clauselens/internal/chunk"
	"github.com/lexsight/clauselens/internal/model"
	"github.com/lexsight/clauselens/internal/registry"
)

// SummaryConfig bounds a summarization run.
type SummaryConfig struct {
	MaxLength int // generation ceiling passed to the model
	MinLength int // word floor the ensemble enforces on the result
}

// DefaultSummaryConfig mirrors the defaults tuned for long legal documents.
func DefaultSummaryConfig() SummaryConfig {
	return SummaryConfig{MaxLength: 4096, MinLength: 200}
}

// SummarizationEnsemble produces a summary through an explicit two-attempt
// state machine: a first generative attempt, a completeness evaluation, a
// single retry with relaxed parameters, and finally an extractive fallback
// when the model is unavailable. A short result is extended with
// legally salient source sentences before any retry.
type SummarizationEnsemble struct {
	reg *registry.Registry
	cfg SummaryConfig
}

// NewSummarization creates the ensemble over the registry's summarizers.
func NewSummarization(reg *registry.Registry, cfg SummaryConfig) *SummarizationEnsemble {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = DefaultSummaryConfig().MaxLength
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultSummaryConfig().MinLength
	}
	return &SummarizationEnsemble{reg: reg, cfg: cfg}
}

// salientKeywords mark sentences worth pulling into a short summary.
// Legal instruments concentrate obligations around these terms.
var salientKeywords = []string{
	"lease", "termination", "covenant", "indemnify", "liability",
	"agreement", "obligation", "payment", "confidential", "governing law",
}

// Summarize condenses text. Summarizers are tried in registration order as a
// priority chain; each runs the two-attempt machine before the next one is
// consulted, and the extractive fallback fires only when the whole chain is
// exhausted. The result always ends on a complete sentence and never comes
// back shorter than the configured floor while source sentences remain to
// extend it with.
func (e *SummarizationEnsemble) Summarize(ctx context.Context, text string) (*model.SummaryResult, error) {
	attempts := 0
	for _, s := range e.reg.Summarizers() {
		res, ok := e.generate(ctx, s, text, &attempts)
		if ok {
			return res, nil
		}
		zap.L().Warn("summarize: model exhausted, trying next summarizer",
			zap.String("model", s.Name()),
		)
	}
	return e.extractive(text, attempts)
}

// generate runs the two-attempt machine for one summarizer: a standard
// attempt, a completeness evaluation, and a relaxed retry. ok is false only
// when both attempts failed outright. attempts counts generative invocations
// across the whole chain.
func (e *SummarizationEnsemble) generate(ctx context.Context, s registry.Summarizer, text string, attempts *int) (*model.SummaryResult, bool) {
	out, err := s.Summarize(ctx, text, registry.SummaryConstraints{
		MaxLength: e.cfg.MaxLength,
		MinLength: e.cfg.MinLength,
		Penalty:   2.0,
	})
	*attempts++
	if err == nil {
		out = e.finish(out, text)
		if e.complete(out) {
			return &model.SummaryResult{Summary: out, Model: s.Name(), Attempts: *attempts}, true
		}
		zap.L().Info("summarize: first attempt incomplete, retrying relaxed",
			zap.String("model", s.Name()),
			zap.Int("words", wordCount(out)),
		)
	} else {
		zap.L().Warn("summarize: first attempt failed",
			zap.String("model", s.Name()),
			zap.Error(err),
		)
	}

	// Relaxed parameters: larger ceiling, reduced penalty.
	out2, err2 := s.Summarize(ctx, text, registry.SummaryConstraints{
		MaxLength: e.cfg.MaxLength * 2,
		MinLength: e.cfg.MinLength,
		Relaxed:   true,
		Penalty:   1.0,
	})
	*attempts++
	if err2 == nil {
		out2 = e.finish(out2, text)
		// A retry that comes back shorter than the finished first attempt
		// must not replace it.
		if err == nil && wordCount(out) > wordCount(out2) {
			out2 = out
		}
		return &model.SummaryResult{Summary: out2, Model: s.Name(), Attempts: *attempts}, true
	}
	zap.L().Warn("summarize: relaxed attempt failed",
		zap.String("model", s.Name()),
		zap.Error(err2),
	)

	if err == nil {
		// First attempt succeeded but stayed incomplete after extension;
		// ship it rather than discard a usable summary.
		return &model.SummaryResult{Summary: out, Model: s.Name(), Attempts: *attempts}, true
	}
	return nil, false
}

// finish post-processes a generative summary: truncate any clipped trailing
// fragment, drop duplicate sentences, and extend below-floor results with
// salient source sentences.
func (e *SummarizationEnsemble) finish(summary, source string) string {
	summary = truncateToSentence(summary)
	sentences := dedupe(chunk.Sentences(summary))

	if countWords(sentences) < e.cfg.MinLength {
		sentences = e.extend(sentences, source)
	}
	return strings.Join(sentences, " ")
}

// extend appends legally salient source sentences (then any remaining
// sentences) until the word floor is met or the source is exhausted.
func (e *SummarizationEnsemble) extend(sentences []string, source string) []string {
	have := make(map[string]struct{}, len(sentences))
	for _, s := range sentences {
		have[s] = struct{}{}
	}

	pool := chunk.Sentences(source)
	salient := make([]string, 0, len(pool))
	rest := make([]string, 0, len(pool))
	for _, s := range pool {
		if containsKeyword(s) {
			salient = append(salient, s)
		} else {
			rest = append(rest, s)
		}
	}

	for _, s := range append(salient, rest...) {
		if countWords(sentences) >= e.cfg.MinLength {
			break
		}
		if _, dup := have[s]; dup {
			continue
		}
		sentences = append(sentences, s)
		have[s] = struct{}{}
	}
	return sentences
}

// complete reports whether a finished summary meets the word floor.
func (e *SummarizationEnsemble) complete(summary string) bool {
	return wordCount(summary) >= e.cfg.MinLength && endsTerminal(summary)
}

// extractive ranks source sentences by term-frequency weight and
// concatenates the top-ranked ones in original order, up to the length
// ceiling. It is the last line of defense when generation is unavailable.
func (e *SummarizationEnsemble) extractive(text string, attempts int) (*model.SummaryResult, error) {
	sentences := dedupe(chunk.Sentences(text))
	if len(sentences) == 0 {
		return nil, ErrModelUnavailable
	}

	// Document-wide term frequencies; a sentence's weight is the mean
	// frequency of its terms, so sentences dense in recurring document
	// vocabulary rank highest.
	freq := make(map[string]int)
	for _, s := range sentences {
		for _, w := range terms(s) {
			freq[w]++
		}
	}

	type ranked struct {
		idx    int
		weight float64
	}
	rankings := make([]ranked, len(sentences))
	for i, s := range sentences {
		ws := terms(s)
		if len(ws) == 0 {
			rankings[i] = ranked{idx: i}
			continue
		}
		total := 0
		for _, w := range ws {
			total += freq[w]
		}
		rankings[i] = ranked{idx: i, weight: float64(total) / float64(len(ws))}
	}
	sort.SliceStable(rankings, func(a, b int) bool { return rankings[a].weight > rankings[b].weight })

	budget := e.cfg.MaxLength
	picked := make([]int, 0, len(rankings))
	words := 0
	for _, r := range rankings {
		w := wordCount(sentences[r.idx])
		if words+w > budget && len(picked) > 0 {
			continue
		}
		picked = append(picked, r.idx)
		words += w
		if words >= budget {
			break
		}
	}
	sort.Ints(picked)

	out := make([]string, len(picked))
	for i, idx := range picked {
		out[i] = sentences[idx]
	}

	return &model.SummaryResult{
		Summary:    strings.Join(out, " "),
		Model:      "extractive",
		Extractive: true,
		Attempts:   attempts,
	}, nil
}

// truncateToSentence cuts a summary back to its last terminal punctuation
// mark so a clipped generation never ships a dangling fragment.
func truncateToSentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || endsTerminal(s) {
		return s
	}
	last := strings.LastIndexAny(s, ".!?")
	if last < 0 {
		return s
	}
	return strings.TrimSpace(s[:last+1])
}

func endsTerminal(s string) bool {
	s = strings.TrimRight(strings.TrimSpace(s), `"')`)
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

// dedupe removes repeated sentences while preserving first-seen order.
// Legal boilerplate repeats heavily and duplicates must not count toward
// the length floor.
func dedupe(sentences []string) []string {
	seen := make(map[string]struct{}, len(sentences))
	out := sentences[:0]
	for _, s := range sentences {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func containsKeyword(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, kw := range salientKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func terms(s string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, `.,;:!?"'()[]`)
		if len(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}

func countWords(sentences []string) int {
	n := 0
	for _, s := range sentences {
		n += wordCount(s)
	}
	return n
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
