package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var httpClient = &http.Client{Timeout: 15 * time.Second}

// ABAClient talks to the ABA PayWay order/payment backend.
type ABAClient struct {
	baseURL    string
	merchantID string
	apiKey     string
}

// NewABAClient builds a client for the given PayWay endpoint.
func NewABAClient(baseURL, merchantID, apiKey string) *ABAClient {
	return &ABAClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		merchantID: merchantID,
		apiKey:     apiKey,
	}
}

// OrderItem is one line of an outbound order payload.
type OrderItem struct {
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

// OrderAddress is the destination block of an outbound order payload.
type OrderAddress struct {
	Street   string `json:"street,omitempty"`
	Village  string `json:"village,omitempty"`
	Commune  string `json:"commune,omitempty"`
	District string `json:"district,omitempty"`
	Province string `json:"province,omitempty"`
	Gmaps    string `json:"gmaps,omitempty"`
}

// OrderRequest is the shared body of order creation and payment requests.
type OrderRequest struct {
	Currency string       `json:"currency"`
	Amount   float64      `json:"amount"`
	Items    []OrderItem  `json:"items"`
	Address  OrderAddress `json:"address"`
	Email    string       `json:"email"`
	Name     string       `json:"name"`
	Phone    string       `json:"phone"`
	Method   string       `json:"method"`
	Note     string       `json:"note,omitempty"`
}

// PaymentResponse is the payment initiation result.
type PaymentResponse struct {
	PaymentID string `json:"paymentId"`
	QRString  string `json:"qrString"`
}

// CreateOrder posts the order and returns the backend's record verbatim.
// The response shape varies between backend revisions; callers pass it
// through the receipt normalizer.
func (c *ABAClient) CreateOrder(ctx context.Context, req OrderRequest) (json.RawMessage, error) {
	body, err := c.post(ctx, "/create/order", req)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// RequestPayment initiates an ABA QR payment for the order.
func (c *ABAClient) RequestPayment(ctx context.Context, req OrderRequest) (*PaymentResponse, error) {
	body, err := c.post(ctx, "/payment/aba", req)
	if err != nil {
		return nil, err
	}

	var resp PaymentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal payment response: %w", err)
	}
	if resp.PaymentID == "" {
		return nil, fmt.Errorf("payment response missing paymentId")
	}
	return &resp, nil
}

// PaymentStatus fetches the current status of a payment.
func (c *ABAClient) PaymentStatus(ctx context.Context, paymentID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payment/status/"+paymentID, nil)
	if err != nil {
		return "", fmt.Errorf("create status request: %w", err)
	}
	c.sign(req)

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal status response: %w", err)
	}
	return resp.Status, nil
}

func (c *ABAClient) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.sign(req)

	return c.do(req)
}

func (c *ABAClient) do(req *http.Request) (json.RawMessage, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("payway request failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// sign attaches the PayWay merchant headers. The hash covers merchant ID
// and request time, keyed by the API key.
func (c *ABAClient) sign(req *http.Request) {
	if c.merchantID == "" {
		return
	}

	reqTime := time.Now().UTC().Format("20060102150405")
	req.Header.Set("X-Merchant-Id", c.merchantID)
	req.Header.Set("X-Request-Time", reqTime)
	req.Header.Set("X-Merchant-Hash", MerchantHash(c.apiKey, c.merchantID+reqTime))
}

// MerchantHash computes the base64 HMAC-SHA512 PayWay signature.
func MerchantHash(apiKey, message string) string {
	mac := hmac.New(sha512.New, []byte(apiKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
