package pexels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yungbote/tutorialhub-backend/internal/platform/httpx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

var ErrNotConfigured = errors.New("pexels: api key not configured")

const defaultBaseURL = "https://api.pexels.com"

type Config struct {
	APIKey  string        `koanf:"apikey"`
	BaseURL string        `koanf:"baseurl"`
	Timeout time.Duration `koanf:"timeout"`
}

// Client finds a banner image for a course topic.
type Client interface {
	// SearchImageURL returns the best landscape photo URL for query, or "" when none matched.
	SearchImageURL(ctx context.Context, query string) (string, error)
}

type client struct {
	log  *logger.Logger
	http *resty.Client
}

func NewClient(cfg Config, log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrNotConfigured
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Authorization", key)
	return &client{log: log.With("service", "PexelsClient"), http: rc}, nil
}

type searchResponse struct {
	Photos []struct {
		Src struct {
			Large2x string `json:"large2x"`
			Large   string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

func (c *client) SearchImageURL(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":       query,
			"per_page":    "1",
			"orientation": "landscape",
		}).
		Get("/v1/search")
	if err != nil {
		return "", fmt.Errorf("pexels search: %w", err)
	}
	if resp.IsError() {
		return "", &httpx.StatusError{Service: "pexels", StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	var out searchResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("pexels decode: %w", err)
	}
	if len(out.Photos) == 0 {
		return "", nil
	}
	src := out.Photos[0].Src
	if src.Large2x != "" {
		return src.Large2x, nil
	}
	return src.Large, nil
}
