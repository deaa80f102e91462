package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/yungbote/tutorialhub-backend/internal/observability"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

var ErrNotConfigured = errors.New("youtube: api key not configured")

type Config struct {
	APIKey   string `koanf:"apikey"`
	Endpoint string `koanf:"endpoint"`
}

// Client looks up the single most relevant video for a search query.
type Client interface {
	// SearchVideoID returns the id of the first video result, or "" when the
	// search matched nothing.
	SearchVideoID(ctx context.Context, query string) (string, error)
}

type client struct {
	log     *logger.Logger
	metrics *observability.Metrics
	svc     *yt.Service
}

func NewClient(ctx context.Context, cfg Config, log *logger.Logger, metrics *observability.Metrics, extra ...option.ClientOption) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" && len(extra) == 0 {
		return nil, ErrNotConfigured
	}
	opts := []option.ClientOption{}
	if key != "" {
		opts = append(opts, option.WithAPIKey(key))
	}
	if ep := strings.TrimSpace(cfg.Endpoint); ep != "" {
		opts = append(opts, option.WithEndpoint(ep))
	}
	opts = append(opts, extra...)
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init youtube service: %w", err)
	}
	return &client{log: log.With("service", "YouTubeClient"), metrics: metrics, svc: svc}, nil
}

func (c *client) SearchVideoID(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}
	resp, err := c.svc.Search.List([]string{"id", "snippet"}).
		Q(query).
		Type("video").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		c.metrics.IncVideoLookup("error")
		return "", fmt.Errorf("youtube search: %w", err)
	}
	for _, item := range resp.Items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		c.metrics.IncVideoLookup("found")
		return item.Id.VideoId, nil
	}
	c.metrics.IncVideoLookup("not_found")
	c.log.Debug("youtube search returned no video", "query", query)
	return "", nil
}
