// Package paystack is a minimal client for the Paystack transaction API:
// initializing a checkout and verifying webhook signatures.
package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SignatureHeader carries the HMAC-SHA512 of the webhook body.
const SignatureHeader = "x-paystack-signature"

var (
	ErrNotConfigured  = errors.New("paystack: secret key not configured")
	ErrBadSignature   = errors.New("paystack: invalid webhook signature")
	ErrGatewayRefused = errors.New("paystack: request refused")
)

type Client struct {
	secret  string
	baseURL string
	http    *http.Client
}

func NewClient(secret, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		secret:  secret,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// InitializeRequest starts a transaction. Amount is in kobo.
type InitializeRequest struct {
	Email       string         `json:"email"`
	Amount      int64          `json:"amount"`
	Reference   string         `json:"reference"`
	CallbackURL string         `json:"callback_url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Initialize calls POST /transaction/initialize.
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	if c.secret == "" {
		return nil, ErrNotConfigured
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secret)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("paystack: initialize: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	var env envelope[InitializeResult]
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&env); err != nil {
		return nil, fmt.Errorf("paystack: decode initialize response (status %d): %w", res.StatusCode, err)
	}
	if res.StatusCode >= 300 || !env.Status {
		return nil, fmt.Errorf("%w: %s (status %d)", ErrGatewayRefused, env.Message, res.StatusCode)
	}
	if env.Data.AuthorizationURL == "" {
		return nil, fmt.Errorf("%w: missing authorization_url", ErrGatewayRefused)
	}
	return &env.Data, nil
}

// Sign returns the hex HMAC-SHA512 of body under the secret key.
func (c *Client) Sign(body []byte) string {
	mac := hmac.New(sha512.New, []byte(c.secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the webhook signature header against body.
func (c *Client) VerifySignature(body []byte, signature string) error {
	if c.secret == "" {
		return ErrNotConfigured
	}
	want, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(want) == 0 {
		return ErrBadSignature
	}
	mac := hmac.New(sha512.New, []byte(c.secret))
	mac.Write(body)
	if !hmac.Equal(mac.Sum(nil), want) {
		return ErrBadSignature
	}
	return nil
}

// Event is a webhook notification. Only the fields the order flow needs are decoded.
type Event struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
	} `json:"data"`
}

const (
	EventChargeSuccess = "charge.success"
	EventChargeFailed  = "charge.failed"
)

// ParseEvent verifies the signature and decodes the event.
func (c *Client) ParseEvent(body []byte, signature string) (*Event, error) {
	if err := c.VerifySignature(body, signature); err != nil {
		return nil, err
	}
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("paystack: decode event: %w", err)
	}
	return &ev, nil
}
