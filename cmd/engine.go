package main

import (
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lexsight/clauselens/internal/answer"
	"github.com/lexsight/clauselens/internal/config"
	"github.com/lexsight/clauselens/internal/ensemble"
	"github.com/lexsight/clauselens/internal/pipeline"
	"github.com/lexsight/clauselens/internal/registry"
	"github.com/lexsight/clauselens/pkg/anthropic"
	"github.com/lexsight/clauselens/pkg/inference"
)

// buildEngine assembles the model registry and pipeline engine from config.
// Served models come from the local inference daemon; when an Anthropic key
// is configured, Claude joins the QA ensemble and backs up the served
// summarizer in the chain.
func buildEngine(cfg *config.Config) (*pipeline.Engine, error) {
	client := inference.NewClient(cfg.Inference.BaseURL,
		inference.WithTimeout(time.Duration(cfg.Inference.TimeoutSecs)*time.Second),
		inference.WithRateLimit(cfg.Inference.RatePerSec),
	)

	reg := registry.New()
	for _, name := range cfg.Models.Embedders {
		reg.AddEmbedder(inference.NewEmbedder(client, name))
	}
	for name, weight := range cfg.Models.QAWeights {
		reg.AddQA(inference.NewQAModel(client, name), weight)
	}
	if cfg.Models.Summarizer != "" {
		reg.AddSummarizer(inference.NewSummarizer(client, cfg.Models.Summarizer))
	}

	if cfg.Anthropic.Key != "" {
		ac := anthropic.NewClient(cfg.Anthropic.Key)
		reg.AddQA(anthropic.NewQAModel(ac, cfg.Anthropic.QAModel, int64(cfg.Anthropic.MaxTokens)), 0.4)
		reg.AddSummarizer(anthropic.NewSummarizer(ac, cfg.Anthropic.SumModel))
		zap.L().Info("anthropic backend enabled",
			zap.String("qa_model", cfg.Anthropic.QAModel),
			zap.String("summary_model", cfg.Anthropic.SumModel),
		)
	}

	var rules *answer.RuleTable
	if cfg.Rules.Path != "" {
		t, err := answer.LoadRules(cfg.Rules.Path)
		if err != nil {
			return nil, err
		}
		rules = t
	}

	return pipeline.New(reg, pipeline.Options{
		TopK:          cfg.Retrieval.TopK,
		MaxChunkWords: cfg.Chunking.MaxChunkWords,
		WindowBudget:  cfg.Chunking.WindowBudget,
		CacheEntries:  cfg.Cache.MaxEntries,
		Summary: ensemble.SummaryConfig{
			MaxLength: cfg.Summary.MaxLength,
			MinLength: cfg.Summary.MinLength,
		},
		Rules: rules,
	}), nil
}

// readInput returns the contents of path, or stdin when path is "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", eris.Wrap(err, "read stdin")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "read %s", path)
	}
	return string(data), nil
}
