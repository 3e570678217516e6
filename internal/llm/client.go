package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sharpPicks/domain"
	"sharpPicks/pkg/config"
	"sharpPicks/pkg/logger"
)

var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "llm_request_duration_seconds",
		Help:    "Latency of chat completion calls by model and status.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 240},
	},
	[]string{"model", "status"},
)

func init() {
	prometheus.MustRegister(RequestDuration)
}

const completionsPath = "/v1/chat/completions"

// Client talks to any OpenAI-compatible chat completions API (xAI Grok,
// DeepSeek). It makes exactly one request per call; retries belong to the
// caller.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	searchMode  string
	httpClient  *http.Client
}

func NewClient(cfg config.LLMConfig) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("missing LLM_API_KEY")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:      apiKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		searchMode:  cfg.SearchMode,
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type searchParameters struct {
	Mode string `json:"mode"`
}

type chatRequest struct {
	Model            string            `json:"model"`
	Messages         []chatMessage     `json:"messages"`
	Temperature      float64           `json:"temperature"`
	ResponseFormat   *responseFormat   `json:"response_format,omitempty"`
	SearchParameters *searchParameters `json:"search_parameters,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("llm http %d: %s", e.StatusCode, e.Body)
}

// GeneratePicks sends one chat completion and decodes the picks array from the
// reply. Network errors, 429, 5xx and unparseable replies are retryable.
func (c *Client) GeneratePicks(ctx context.Context, system, user string) ([]domain.RawPick, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    c.temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	if c.searchMode != "" {
		req.SearchParameters = &searchParameters{Mode: c.searchMode}
	}

	start := time.Now()
	raw, err := c.post(ctx, completionsPath, req)
	RequestDuration.WithLabelValues(c.model, statusLabel(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, classify("chat completion", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &domain.ToolLayerError{Op: "decode response", Retryable: true, Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &domain.ToolLayerError{Op: "decode response", Retryable: true, Err: errors.New("no choices returned")}
	}

	content := resp.Choices[0].Message.Content
	picks, err := ParsePicks(content)
	if err != nil {
		logger.Warn("unparseable llm reply", "model", c.model, "finish_reason", resp.Choices[0].FinishReason, "error", err)
		return nil, &domain.ToolLayerError{Op: "parse picks", Retryable: true, Err: err}
	}
	return picks, nil
}

func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 512)}
	}
	return raw, nil
}

// classify marks everything except 4xx (other than 408/429) as retryable.
func classify(op string, err error) error {
	var he *httpError
	if errors.As(err, &he) {
		retryable := he.StatusCode == http.StatusTooManyRequests ||
			he.StatusCode == http.StatusRequestTimeout ||
			he.StatusCode >= 500
		return &domain.ToolLayerError{Op: op, Retryable: retryable, Err: err}
	}
	return &domain.ToolLayerError{Op: op, Retryable: true, Err: err}
}

func statusLabel(err error) string {
	if err == nil {
		return "200"
	}
	var he *httpError
	if errors.As(err, &he) {
		return strconv.Itoa(he.StatusCode)
	}
	return "error"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
