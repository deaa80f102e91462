package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/yungbote/tutorialhub-backend/internal/observability"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

// Roles of a chat turn.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

type Turn struct {
	Role    string
	Content string
}

// ChatModel answers a message given the prior turns of a conversation.
type ChatModel interface {
	Chat(ctx context.Context, system string, history []Turn, message string, opts Options) (string, error)
}

type langchainChat struct {
	log     *logger.Logger
	metrics *observability.Metrics
	model   llms.Model
}

// NewChatModel builds a multi-turn chat model on top of langchaingo's OpenAI provider.
func NewChatModel(cfg Config, log *logger.Logger, metrics *observability.Metrics) (ChatModel, error) {
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
	model := strings.TrimSpace(cfg.ChatModel)
	if model == "" {
		model = strings.TrimSpace(cfg.Model)
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	llm, err := openai.New(
		openai.WithToken(strings.TrimSpace(cfg.APIKey)),
		openai.WithModel(model),
		openai.WithBaseURL(baseURL+"/v1"),
	)
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}
	return NewChatModelFrom(llm, log, metrics), nil
}

// NewChatModelFrom wraps an existing langchaingo model.
func NewChatModelFrom(model llms.Model, log *logger.Logger, metrics *observability.Metrics) ChatModel {
	return &langchainChat{log: log.With("service", "ChatModel"), metrics: metrics, model: model}
}

// BuildMessages converts stored turns into langchaingo message content.
// Unknown roles are sent as the user.
func BuildMessages(system string, history []Turn, message string) []llms.MessageContent {
	msgs := make([]llms.MessageContent, 0, len(history)+2)
	if strings.TrimSpace(system) != "" {
		msgs = append(msgs, llms.TextParts(schema.ChatMessageTypeSystem, system))
	}
	for _, t := range history {
		if strings.TrimSpace(t.Content) == "" {
			continue
		}
		role := schema.ChatMessageTypeHuman
		if t.Role == RoleModel {
			role = schema.ChatMessageTypeAI
		}
		msgs = append(msgs, llms.TextParts(role, t.Content))
	}
	msgs = append(msgs, llms.TextParts(schema.ChatMessageTypeHuman, message))
	return msgs
}

func (c *langchainChat) Chat(ctx context.Context, system string, history []Turn, message string, opts Options) (string, error) {
	start := time.Now()
	status := "ok"
	defer func() { c.metrics.ObserveLLMRequest("langchain", "chat", status, time.Since(start)) }()

	callOpts := []llms.CallOption{}
	if opts.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(opts.Temperature))
	}
	if opts.TopP > 0 {
		callOpts = append(callOpts, llms.WithTopP(opts.TopP))
	}
	if opts.MaxOutputTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxOutputTokens))
	}

	resp, err := c.model.GenerateContent(ctx, BuildMessages(system, history, message), callOpts...)
	if err != nil {
		status = "error"
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		status = "empty"
		return "", ErrNoResponse
	}
	return resp.Choices[0].Content, nil
}
