package answer

import (
	"strings"

	"go.uber.org/zap"

	"github.com/lexsight/clauselens/internal/scorer"
)

// overlapThreshold is the minimum fraction of an answer's distinct terms
// that must appear verbatim in the context for the answer to be trusted.
const overlapThreshold = 0.5

// stopwords are excluded from the term-overlap grounding check.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "that": {}, "this": {}, "with": {}, "from": {},
	"shall": {}, "will": {}, "have": {}, "been": {}, "were": {}, "are": {},
	"for": {}, "not": {}, "any": {}, "all": {}, "such": {}, "may": {},
	"its": {}, "upon": {}, "under": {}, "which": {}, "each": {},
}

// Validator checks a fused answer against the question's archetype pattern
// and the source context, substituting a context-extracted span whenever the
// model's answer cannot be validated. An unvalidatable answer with no
// extractable substitute is returned unchanged, never discarded.
type Validator struct {
	rules *RuleTable
}

// NewValidator creates a Validator over the given rule table; nil falls back
// to the built-in defaults.
func NewValidator(rules *RuleTable) *Validator {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Validator{rules: rules}
}

// Validate post-processes a fused answer. For non-generic archetypes the
// answer must match the archetype's pattern; failing that, the same pattern
// is applied to the context and any match substitutes the model's guess —
// a grounded literal beats an unconstrained generation. Independently, the
// answer must share at least half its content terms with the context.
func (v *Validator) Validate(rawAnswer, question, context string) string {
	answer := strings.TrimSpace(rawAnswer)
	if answer == "" {
		return v.extractOnly(question, context, answer)
	}

	qt, rule := v.rules.Classify(question)
	if rule != nil {
		if m := rule.Regexp().FindString(answer); m != "" {
			// Collapse the answer to the matched span: archetype
			// questions want the fact, not the sentence around it.
			answer = m
		} else if m := rule.Regexp().FindString(context); m != "" {
			zap.L().Debug("answer: pattern validation failed, substituting from context",
				zap.String("type", string(qt)),
				zap.String("raw", truncate(rawAnswer, 80)),
				zap.String("extracted", m),
			)
			return m
		}
	}

	if grounded(answer, context) {
		return answer
	}

	// Ungrounded answer: prefer a context extraction when one exists,
	// otherwise keep the original rather than returning nothing.
	if rule != nil {
		if m := rule.Regexp().FindString(context); m != "" {
			return m
		}
	}
	zap.L().Debug("answer: term overlap below threshold, keeping original",
		zap.String("question_type", string(qt)),
	)
	return answer
}

// extractOnly handles an empty model answer: a context extraction is the
// only possible result.
func (v *Validator) extractOnly(question, context, fallback string) string {
	if _, rule := v.rules.Classify(question); rule != nil {
		if m := rule.Regexp().FindString(context); m != "" {
			return m
		}
	}
	return fallback
}

// grounded reports whether at least half of the answer's distinct
// non-stopword terms appear verbatim in the context.
func grounded(answer, context string) bool {
	answerTerms := contentTerms(answer)
	if len(answerTerms) == 0 {
		return true
	}
	return scorer.TermOverlap(strings.Join(answerTerms, " "), context) >= overlapThreshold
}

// contentTerms returns the answer's distinct lowercased terms with
// stopwords and short tokens removed.
func contentTerms(s string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, `.,;:!?"'()[]`)
		if len(w) <= 3 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func lowercase(s string) string { return strings.ToLower(s) }

func contains(s, sub string) bool { return strings.Contains(s, sub) }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
