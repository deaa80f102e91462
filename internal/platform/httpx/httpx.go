package httpx

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// StatusCoder is implemented by client errors that carry an upstream HTTP status.
type StatusCoder interface {
	HTTPStatusCode() int
}

// StatusError is the generic upstream failure returned by the outbound clients.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 512 {
		body = body[:512]
	}
	return e.Service + " http " + strconv.Itoa(e.StatusCode) + ": " + body
}

func (e *StatusError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func IsRetryableHTTPStatus(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// IsRetryableError reports transport timeouts and retryable upstream statuses.
// Caller cancellation is never retried.
func IsRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		return IsRetryableHTTPStatus(sc.HTTPStatusCode())
	}
	return false
}

// RetryAfterDuration honours a numeric Retry-After header, capped at max.
func RetryAfterDuration(h http.Header, fallback, max time.Duration) time.Duration {
	sleepFor := fallback
	if h != nil {
		if ra := strings.TrimSpace(h.Get("Retry-After")); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				sleepFor = time.Duration(secs) * time.Second
			}
		}
	}
	if max > 0 && sleepFor > max {
		sleepFor = max
	}
	return sleepFor
}

// Jitter spreads base by +/-20%.
func Jitter(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delta := base.Seconds() * 0.2
	low := base.Seconds() - delta
	v := low + rand.Float64()*(2*delta)
	return time.Duration(v * float64(time.Second))
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
