package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yungbote/tutorialhub-backend/internal/observability"
	"github.com/yungbote/tutorialhub-backend/internal/platform/httpx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

var (
	// ErrNotConfigured is returned by constructors when the API key is missing
	// or still a placeholder.
	ErrNotConfigured = errors.New("llm: api key not configured")
	// ErrNoResponse means the provider answered without any output text.
	ErrNoResponse = errors.New("llm: no response text")
)

type Config struct {
	APIKey            string        `koanf:"apikey"`
	BaseURL           string        `koanf:"baseurl"`
	Model             string        `koanf:"model"`
	ChatModel         string        `koanf:"chatmodel"`
	Timeout           time.Duration `koanf:"timeout"`
	MaxRetries        int           `koanf:"retries"`
	RequestsPerMinute int           `koanf:"rpm"`
}

// Options are the sampling parameters of a single request.
type Options struct {
	Temperature     float64
	TopP            float64
	MaxOutputTokens int
}

// GenerationOptions is used for course outlines and chapter content.
var GenerationOptions = Options{Temperature: 0.8, TopP: 0.95, MaxOutputTokens: 8192}

// ChatOptions is used for the chat assistant.
var ChatOptions = Options{Temperature: 0.7, TopP: 0.95, MaxOutputTokens: 2048}

// Client is a single-turn text generator. Every call is independent; no
// conversation state is kept between calls.
type Client interface {
	GenerateText(ctx context.Context, system string, user string, opts Options) (string, error)
}

var placeholderKeys = map[string]bool{
	"your_api_key":                         true,
	"your_api_key_here":                    true,
	"your_gemini_api_key":                  true,
	"your_openai_api_key":                  true,
	"changeme":                             true,
	"replace_me":                           true,
	"default-gemini-key-please-set-in-env": true,
}

// ValidAPIKey rejects empty keys, known placeholders and keys shorter than 10 chars.
func ValidAPIKey(key string) bool {
	key = strings.TrimSpace(key)
	if len(key) < 10 {
		return false
	}
	return !placeholderKeys[strings.ToLower(key)]
}

type client struct {
	log        *logger.Logger
	metrics    *observability.Metrics
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

func NewClient(cfg Config, log *logger.Logger, metrics *observability.Metrics) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if !ValidAPIKey(cfg.APIKey) {
		return nil, ErrNotConfigured
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}
	return &client{
		log:        log.With("service", "LLMClient"),
		metrics:    metrics,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		maxRetries: maxRetries,
		backoff:    time.Second,
	}, nil
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpx.StatusError{Service: "llm", StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	backoff := c.backoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("llm decode error: %w", uErr)
			}
			return nil
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return err
		}

		var header http.Header
		if resp != nil {
			header = resp.Header
		}
		sleepFor := httpx.Jitter(httpx.RetryAfterDuration(header, backoff, 10*time.Second))

		c.log.Warn("LLM request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		if sErr := httpx.Sleep(ctx, sleepFor); sErr != nil {
			return sErr
		}
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model           string         `json:"model"`
	Input           []inputMessage `json:"input"`
	Temperature     float64        `json:"temperature,omitempty"`
	TopP            float64        `json:"top_p,omitempty"`
	MaxOutputTokens int            `json:"max_output_tokens,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Refusal string `json:"refusal,omitempty"`
}

func extractOutputText(resp responsesResponse) string {
	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type == "message" && item.Role == "assistant" {
			for _, c := range item.Content {
				if c.Type == "output_text" && c.Text != "" {
					out.WriteString(c.Text)
				}
			}
		}
	}
	return out.String()
}

func (c *client) GenerateText(ctx context.Context, system string, user string, opts Options) (string, error) {
	input := make([]inputMessage, 0, 2)
	if strings.TrimSpace(system) != "" {
		input = append(input, inputMessage{Role: "system", Content: system})
	}
	input = append(input, inputMessage{Role: "user", Content: user})
	req := responsesRequest{
		Model:           c.model,
		Input:           input,
		Temperature:     opts.Temperature,
		TopP:            opts.TopP,
		MaxOutputTokens: opts.MaxOutputTokens,
	}

	start := time.Now()
	var resp responsesResponse
	err := c.do(ctx, http.MethodPost, "/v1/responses", req, &resp)
	status := "ok"
	defer func() { c.metrics.ObserveLLMRequest("responses", "generate_text", status, time.Since(start)) }()
	if err != nil {
		status = "error"
		return "", err
	}
	if resp.Refusal != "" {
		status = "refused"
		return "", fmt.Errorf("model refused: %s", resp.Refusal)
	}

	text := extractOutputText(resp)
	if strings.TrimSpace(text) == "" {
		status = "empty"
		return "", ErrNoResponse
	}
	return text, nil
}
