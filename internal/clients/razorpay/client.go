package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yungbote/tutorialhub-backend/internal/platform/httpx"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

var (
	ErrNotConfigured    = errors.New("razorpay: key id/secret not configured")
	ErrInvalidSignature = errors.New("razorpay: invalid signature")
)

const defaultBaseURL = "https://api.razorpay.com"

type Config struct {
	KeyID     string        `koanf:"keyid"`
	KeySecret string        `koanf:"keysecret"`
	BaseURL   string        `koanf:"baseurl"`
	Timeout   time.Duration `koanf:"timeout"`
}

type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type Order struct {
	ID       string            `json:"id"`
	Entity   string            `json:"entity"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type Client interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	// VerifyPaymentSignature checks the checkout signature for order|payment.
	VerifyPaymentSignature(orderID, paymentID, signature string) error
	KeyID() string
}

type client struct {
	log    *logger.Logger
	http   *resty.Client
	keyID  string
	secret string
}

func NewClient(cfg Config, log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	keyID := strings.TrimSpace(cfg.KeyID)
	secret := strings.TrimSpace(cfg.KeySecret)
	if keyID == "" || secret == "" {
		return nil, ErrNotConfigured
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetBasicAuth(keyID, secret).
		SetHeader("Content-Type", "application/json")
	return &client{log: log.With("service", "RazorpayClient"), http: rc, keyID: keyID, secret: secret}, nil
}

func (c *client) KeyID() string { return c.keyID }

func (c *client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("razorpay: amount must be positive")
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/v1/orders")
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}
	if resp.IsError() {
		c.log.Warn("razorpay order rejected", "status", resp.StatusCode(), "receipt", req.Receipt)
		return nil, &httpx.StatusError{Service: "razorpay", StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	var order Order
	if err := json.Unmarshal(resp.Body(), &order); err != nil {
		return nil, fmt.Errorf("razorpay decode: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("razorpay: order response missing id")
	}
	return &order, nil
}

func (c *client) VerifyPaymentSignature(orderID, paymentID, signature string) error {
	return VerifySignature(c.secret, orderID, paymentID, signature)
}

// Sign returns hex(HMAC-SHA256(secret, orderID|paymentID)).
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(secret, orderID, paymentID, signature string) error {
	expected := Sign(secret, orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature)))) {
		return ErrInvalidSignature
	}
	return nil
}
