package realtime

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

// SSEClient is one open event stream. UserID is the authenticated subject and
// Channels is guarded by the hub's lock.
type SSEClient struct {
	ID       uuid.UUID
	UserID   string
	Channels map[string]bool
	Outbound chan SSEMessage
	Logger   *logger.Logger

	done chan struct{}
	seq  uint64
}

// Done is closed once the hub has dropped the client.
func (c *SSEClient) Done() <-chan struct{} { return c.done }

// writeEvent frames msg as one server-sent event. Ids count up per stream.
func (c *SSEClient) writeEvent(w io.Writer, msg SSEMessage) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", msg.Event, err)
	}
	c.seq++
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", c.seq, msg.Event, raw)
	return err
}
