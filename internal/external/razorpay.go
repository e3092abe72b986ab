package external

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"myna/internal/metrics"
)

// RazorpayClient creates payment orders at the gateway and verifies the
// signatures the checkout hands back to the client.
type RazorpayClient struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

type RazorpayConfig struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Timeout   time.Duration
}

// OrderRequest is the gateway's order creation payload. Amount is in minor
// currency units (paise for INR).
type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type OrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func NewRazorpayClient(cfg RazorpayConfig) *RazorpayClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &RazorpayClient{
		baseURL:   cfg.BaseURL,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// CreateOrder opens an order at the gateway
func (rc *RazorpayClient) CreateOrder(order OrderRequest) (*OrderResponse, error) {
	jsonBody, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, rc.baseURL+"/v1/orders", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(rc.keyID, rc.keySecret)

	resp, err := rc.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("razorpay", "CreateOrder", "error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequestsTotal.WithLabelValues("razorpay", "CreateOrder", "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("order creation returned status %d: %s", resp.StatusCode, string(body))
	}

	var result OrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("razorpay", "CreateOrder", "error").Inc()
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues("razorpay", "CreateOrder", "ok").Inc()
	return &result, nil
}

// VerifySignature recomputes the checkout signature over "orderID|paymentID"
// with the key secret and compares it to the submitted one.
func (rc *RazorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	expected := rc.Signature(orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Signature returns the hex-encoded HMAC-SHA256 the gateway produces for a
// captured payment.
func (rc *RazorpayClient) Signature(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(rc.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
