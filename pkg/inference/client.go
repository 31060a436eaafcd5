// Package inference provides a client for a local model-serving daemon that
// hosts the embedding, question-answering, and summarization models.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/lexsight/clauselens/internal/resilience"
)

// Client defines the model-serving operations used by the pipeline.
type Client interface {
	// Embed returns the embedding vector the named model produces for text.
	Embed(ctx context.Context, model, text string) ([]float32, error)
	// Answer runs extractive QA with the named model.
	Answer(ctx context.Context, model, question, context string) (*AnswerResponse, error)
	// Summarize condenses text with the named model.
	Summarize(ctx context.Context, model string, req SummarizeRequest) (string, error)
}

// AnswerResponse is a parsed QA response.
type AnswerResponse struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
}

// SummarizeRequest carries generation parameters to the serving daemon.
type SummarizeRequest struct {
	Text              string  `json:"text"`
	MaxLength         int     `json:"max_length"`
	MinLength         int     `json:"min_length"`
	RepetitionPenalty float64 `json:"repetition_penalty,omitempty"`
}

// Option configures the inference client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps requests per second to the daemon. Zero disables
// limiting.
func WithRateLimit(perSec float64) Option {
	return func(c *httpClient) {
		if perSec > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// WithRetry overrides the default retry policy for transient failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates an inference client for the daemon at baseURL.
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 8,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retry: resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// post sends a JSON request and decodes the JSON response into out,
// retrying transient failures with backoff.
func (c *httpClient) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "inference: marshal request")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	retry := c.retry
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger("inference", path)
	}

	respBody, err := resilience.DoVal(ctx, retry, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, eris.Wrap(err, "inference: create request")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "inference: read response body")
		}

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("inference: %s status %d: %s", path, resp.StatusCode, string(data))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, fmt.Sprintf("inference: unmarshal %s response", path))
	}
	return nil
}

func (c *httpClient) Embed(ctx context.Context, model, text string) ([]float32, error) {
	var resp struct {
		Embedding []float32 `json:"embedding"`
	}
	payload := map[string]string{"model": model, "input": text}
	if err := c.post(ctx, "/embed", payload, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding) == 0 {
		return nil, eris.Errorf("inference: model %s returned empty embedding", model)
	}
	return resp.Embedding, nil
}

func (c *httpClient) Answer(ctx context.Context, model, question, contextText string) (*AnswerResponse, error) {
	var resp AnswerResponse
	payload := map[string]string{"model": model, "question": question, "context": contextText}
	if err := c.post(ctx, "/qa", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *httpClient) Summarize(ctx context.Context, model string, req SummarizeRequest) (string, error) {
	var resp struct {
		Summary string `json:"summary"`
	}
	payload := struct {
		Model string `json:"model"`
		SummarizeRequest
	}{Model: model, SummarizeRequest: req}
	if err := c.post(ctx, "/summarize", payload, &resp); err != nil {
		return "", err
	}
	return resp.Summary, nil
}
