package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Models    ModelsConfig    `yaml:"models" mapstructure:"models"`
	Retrieval RetrievalConfig `yaml:"retrieval" mapstructure:"retrieval"`
	Chunking  ChunkingConfig  `yaml:"chunking" mapstructure:"chunking"`
	Summary   SummaryConfig   `yaml:"summary" mapstructure:"summary"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Rules     RulesConfig     `yaml:"rules" mapstructure:"rules"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Inference InferenceConfig `yaml:"inference" mapstructure:"inference"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ModelsConfig names the ensemble members and their fixed weights.
type ModelsConfig struct {
	// QAWeights maps a QA model name to its ensemble weight. The
	// legal-domain model carries the largest weight by default.
	QAWeights map[string]float64 `yaml:"qa_weights" mapstructure:"qa_weights"`
	// Embedders lists the embedding model names to ensemble.
	Embedders []string `yaml:"embedders" mapstructure:"embedders"`
	// Summarizer names the generative summarization model.
	Summarizer string `yaml:"summarizer" mapstructure:"summarizer"`
}

// RetrievalConfig configures chunk selection.
type RetrievalConfig struct {
	TopK int `yaml:"top_k" mapstructure:"top_k"`
}

// ChunkingConfig configures document splitting and windowing.
type ChunkingConfig struct {
	MaxChunkWords int `yaml:"max_chunk_words" mapstructure:"max_chunk_words"`
	WindowBudget  int `yaml:"window_budget" mapstructure:"window_budget"`
}

// SummaryConfig bounds summary generation.
type SummaryConfig struct {
	MaxLength int `yaml:"max_length" mapstructure:"max_length"`
	MinLength int `yaml:"min_length" mapstructure:"min_length"`
}

// CacheConfig bounds the in-memory result cache.
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"`
}

// RulesConfig points at an optional question-archetype rule table.
type RulesConfig struct {
	// Path to a YAML rule table; empty uses the built-in defaults.
	Path string `yaml:"path" mapstructure:"path"`
}

// AnthropicConfig holds Anthropic API settings for the generative backend.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	QAModel   string `yaml:"qa_model" mapstructure:"qa_model"`
	SumModel  string `yaml:"summary_model" mapstructure:"summary_model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// InferenceConfig holds settings for the local model-serving daemon.
type InferenceConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CLAUSELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("retrieval.top_k", 5)
	v.SetDefault("chunking.max_chunk_words", 100)
	v.SetDefault("chunking.window_budget", 3000)
	v.SetDefault("summary.max_length", 4096)
	v.SetDefault("summary.min_length", 200)
	v.SetDefault("cache.max_entries", 1000)
	v.SetDefault("models.qa_weights", map[string]float64{
		"legal-qa":      0.5,
		"roberta-squad": 0.3,
		"distilbert-qa": 0.2,
	})
	v.SetDefault("models.embedders", []string{"mpnet", "minilm"})
	v.SetDefault("models.summarizer", "legal-summarizer")
	v.SetDefault("anthropic.qa_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.summary_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("inference.base_url", "http://localhost:8800")
	v.SetDefault("inference.timeout_secs", 60)
	v.SetDefault("inference.rate_per_sec", 8)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
