package app

import (
	"context"
	"errors"

	"github.com/yungbote/tutorialhub-backend/internal/clients/llm"
	"github.com/yungbote/tutorialhub-backend/internal/clients/pexels"
	"github.com/yungbote/tutorialhub-backend/internal/clients/razorpay"
	"github.com/yungbote/tutorialhub-backend/internal/clients/youtube"
	"github.com/yungbote/tutorialhub-backend/internal/observability"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

// Clients holds the external integrations. Any of them may be nil when its
// credentials are absent; the services degrade instead of refusing to start.
type Clients struct {
	LLM      llm.Client
	Chat     llm.ChatModel
	YouTube  youtube.Client
	Pexels   pexels.Client
	Razorpay razorpay.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	var out Clients

	textClient, err := llm.NewClient(cfg.LLM, log, metrics)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		log.Warn("LLM API key missing; course generation and chat are disabled")
	case err != nil:
		return out, err
	default:
		out.LLM = textClient
		chat, err := llm.NewChatModel(cfg.LLM, log, metrics)
		if err != nil {
			return out, err
		}
		out.Chat = chat
	}

	yt, err := youtube.NewClient(ctx, cfg.YouTube, log, metrics)
	switch {
	case errors.Is(err, youtube.ErrNotConfigured):
		log.Warn("YouTube API key missing; chapters will be saved without videos")
	case err != nil:
		return out, err
	default:
		out.YouTube = yt
	}

	px, err := pexels.NewClient(cfg.Pexels, log)
	switch {
	case errors.Is(err, pexels.ErrNotConfigured):
		log.Warn("Pexels API key missing; courses will have no banner")
	case err != nil:
		return out, err
	default:
		out.Pexels = px
	}

	rp, err := razorpay.NewClient(cfg.Razorpay, log)
	switch {
	case errors.Is(err, razorpay.ErrNotConfigured):
		log.Warn("Razorpay keys missing; paid plans are disabled")
	case err != nil:
		return out, err
	default:
		out.Razorpay = rp
	}

	return out, nil
}
