package services

import (
	"context"

	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
	"github.com/yungbote/tutorialhub-backend/internal/realtime"
	"github.com/yungbote/tutorialhub-backend/internal/realtime/bus"
)

// SSEEmitter routes realtime messages either to the local hub or across instances.
type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if e == nil || e.Hub == nil {
		return
	}
	e.Hub.Broadcast(msg)
}

// RedisEmitter publishes through the bus; every instance's forwarder feeds its
// own hub. A failed publish falls back to the local hub.
type RedisEmitter struct {
	Bus      bus.Bus
	Fallback *realtime.SSEHub
	Log      *logger.Logger
}

func (e *RedisEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if e == nil {
		return
	}
	if e.Bus != nil {
		err := e.Bus.Publish(ctx, msg)
		if err == nil {
			return
		}
		if e.Log != nil {
			e.Log.Warn("SSE publish failed; delivering locally", "channel", msg.Channel, "error", err)
		}
	}
	if e.Fallback != nil {
		e.Fallback.Broadcast(msg)
	}
}
