package realtime

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

type SSEEvent string

const (
	SSEEventJobCreated  SSEEvent = "JobCreated"
	SSEEventJobProgress SSEEvent = "JobProgress"
	SSEEventJobFailed   SSEEvent = "JobFailed"
	SSEEventJobDone     SSEEvent = "JobDone"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

const outboundBuffer = 32

type SSEHub struct {
	mu            sync.RWMutex
	logger        *logger.Logger
	subscriptions map[string]map[*SSEClient]bool
	heartbeat     time.Duration
}

func NewSSEHub(log *logger.Logger) *SSEHub {
	return &SSEHub{
		logger:        log.With("component", "SSEHub"),
		subscriptions: make(map[string]map[*SSEClient]bool),
		heartbeat:     15 * time.Second,
	}
}

func (hub *SSEHub) NewSSEClient(userID string) *SSEClient {
	id := uuid.New()
	return &SSEClient{
		ID:       id,
		UserID:   userID,
		Channels: make(map[string]bool),
		Outbound: make(chan SSEMessage, outboundBuffer),
		done:     make(chan struct{}),
		Logger:   hub.logger.With("client_id", id.String()),
	}
}

func (hub *SSEHub) AddChannel(client *SSEClient, channel string) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return
	}
	hub.mu.Lock()
	defer hub.mu.Unlock()

	client.Channels[channel] = true
	clients, ok := hub.subscriptions[channel]
	if !ok {
		clients = make(map[*SSEClient]bool)
		hub.subscriptions[channel] = clients
	}
	clients[client] = true
	hub.logger.Debug("SSE client subscribed", "client_id", client.ID.String(), "channel", channel)
}

func (hub *SSEHub) RemoveChannel(client *SSEClient, channel string) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return
	}
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.unsubscribeLocked(client, channel)
}

func (hub *SSEHub) removeClient(client *SSEClient) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for ch := range client.Channels {
		hub.unsubscribeLocked(client, ch)
	}
}

func (hub *SSEHub) unsubscribeLocked(client *SSEClient, channel string) {
	delete(client.Channels, channel)
	if subs, ok := hub.subscriptions[channel]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(hub.subscriptions, channel)
		}
	}
}

// Subscribers reports how many clients listen on channel.
func (hub *SSEHub) Subscribers(channel string) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.subscriptions[channel])
}

// Broadcast delivers msg to every client on msg.Channel. Slow clients drop messages.
func (hub *SSEHub) Broadcast(msg SSEMessage) {
	if msg.Channel == "" {
		return
	}
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	for c := range hub.subscriptions[msg.Channel] {
		select {
		case c.Outbound <- msg:
		default:
			hub.logger.Warn("Dropping SSE message; outbound buffer full", "client_id", c.ID.String())
		}
	}
}

func (hub *SSEHub) ServeHTTP(w http.ResponseWriter, r *http.Request, client *SSEClient) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	heartbeat := time.NewTicker(hub.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			client.Logger.Debug("SSE client context done", "error", ctx.Err())
			return
		case <-client.Done():
			return
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg, ok := <-client.Outbound:
			if !ok {
				return
			}
			if err := client.writeEvent(w, msg); err != nil {
				client.Logger.Warn("Failed to write SSE message", "error", err)
				continue
			}
			flusher.Flush()
		}
	}
}

// CloseClient unsubscribes client and ends its stream. Safe to call twice.
func (hub *SSEHub) CloseClient(client *SSEClient) {
	select {
	case <-client.done:
		return
	default:
	}
	close(client.done)
	hub.removeClient(client)
	close(client.Outbound)
}
