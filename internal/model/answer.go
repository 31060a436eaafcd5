package model

// ModelAnswer is the raw output of a single model inside an ensemble.
type ModelAnswer struct {
	Model  string  `json:"model"`
	Text   string  `json:"text"`
	Score  float64 `json:"score"`  // model-reported confidence; defaulted when absent
	Weight float64 `json:"weight"` // fixed ensemble weight, normalized at registry build
}

// Weighted returns the fusion score used for confidence-weighted selection.
func (a ModelAnswer) Weighted() float64 {
	return a.Score * a.Weight
}

// EnsembleResult is the fused output of an ensemble run. Selected is always
// literally one contributing model's text, never a blend. Contributions is
// kept for diagnostics.
type EnsembleResult struct {
	Selected      ModelAnswer   `json:"selected"`
	Contributions []ModelAnswer `json:"contributions"`
	Confidence    float64       `json:"confidence"`
}

// QAResult is the caller-visible answer to a question.
type QAResult struct {
	RequestID  string  `json:"request_id"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
	Model      string  `json:"model"`
	// FromCache reports whether the result was served from the result cache.
	FromCache bool `json:"from_cache"`
	// ContextUsed is the retrieved context the models actually saw.
	ContextUsed string `json:"context_used,omitempty"`
	// Contributions holds every model answer gathered before fusion.
	Contributions []ModelAnswer `json:"contributions,omitempty"`
}

// SummaryResult is the caller-visible output of summarization.
type SummaryResult struct {
	RequestID  string  `json:"request_id"`
	Summary    string  `json:"summary"`
	Confidence float64 `json:"confidence"`
	Model      string  `json:"model"`
	// Extractive is true when the generative model failed entirely and the
	// summary was assembled from ranked source sentences instead.
	Extractive bool `json:"extractive"`
	// Attempts counts generative invocations across the summarizer chain
	// (1 normally, 2 after the relaxed-parameter retry, 0 for a pure
	// extractive fallback with no summarizer configured).
	Attempts int `json:"attempts"`
}
