// Package processor implements the HTTP client for the Mercado Pago
// payments API. The processor is the source of truth for payment
// status: the webhook reconciler always re-fetches a payment here
// instead of trusting a notification body.
package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Payment statuses reported by the processor. Only a subset is acted
// upon locally; the rest are stored or ignored as-is.
const (
	StatusApproved  = "approved"
	StatusPending   = "pending"
	StatusInProcess = "in_process"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// ChargeRequest carries everything needed to submit a charge. The
// ApplicationFeeCents field is the escrow commission withheld by the
// platform before settlement to the talent.
type ChargeRequest struct {
	TransactionAmountCents int64  `json:"transaction_amount"`
	Token                  string `json:"token"`
	Description            string `json:"description"`
	PaymentMethodID        string `json:"payment_method_id"`
	Installments           int    `json:"installments"`
	PayerEmail             string `json:"-"`
	ApplicationFeeCents    int64  `json:"application_fee"`
	IdempotencyKey         string `json:"-"`
}

// Payment is the subset of the processor's payment resource the
// reconciliation core needs: the assigned id and the current status.
type Payment struct {
	ID     string
	Status string
}

// RejectionError is returned when the processor answers a charge
// submission with a 4xx/5xx. Body holds the processor's diagnostic
// payload so callers can log it; it must never be echoed verbatim to
// end users.
type RejectionError struct {
	StatusCode int
	Body       string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("processor rejected charge: status=%d body=%s", e.StatusCode, e.Body)
}

// Client talks to the payments API over HTTP with a bounded timeout.
// All calls either complete or fail within the timeout; they never hang.
type Client struct {
	http *resty.Client
}

// New builds a Client for the given API base URL and access token.
// A zero timeout defaults to ten seconds.
func New(baseURL, accessToken string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(accessToken).
		SetHeader("Content-Type", "application/json")
	return &Client{http: rc}
}

// paymentBody mirrors the wire shape of the processor's payment
// resource. The id arrives as a JSON number.
type paymentBody struct {
	ID     json.Number `json:"id"`
	Status string      `json:"status"`
}

// CreatePayment submits a charge and returns the assigned payment id
// and initial status. Instant payment methods may come back already
// approved; delayed methods come back pending or in_process. A non-2xx
// answer is surfaced as a *RejectionError and no local record should be
// created in that case.
func (c *Client) CreatePayment(ctx context.Context, req ChargeRequest) (*Payment, error) {
	body := struct {
		ChargeRequest
		Payer struct {
			Email string `json:"email"`
		} `json:"payer"`
	}{ChargeRequest: req}
	body.Payer.Email = req.PayerEmail

	var out paymentBody
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Idempotency-Key", req.IdempotencyKey).
		SetBody(body).
		SetResult(&out).
		Post("/v1/payments")
	if err != nil {
		return nil, fmt.Errorf("processor: create payment: %w", err)
	}
	if resp.IsError() {
		return nil, &RejectionError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}
	return &Payment{ID: out.ID.String(), Status: out.Status}, nil
}

// GetPayment fetches the authoritative state of a payment by id. The
// reconciler calls this on every webhook delivery so that forged or
// stale notification bodies cannot advance local state.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	if _, err := strconv.ParseInt(paymentID, 10, 64); err != nil {
		return nil, fmt.Errorf("processor: invalid payment id %q", paymentID)
	}
	var out paymentBody
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v1/payments/" + paymentID)
	if err != nil {
		return nil, fmt.Errorf("processor: get payment %s: %w", paymentID, err)
	}
	if resp.IsError() {
		return nil, &RejectionError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}
	return &Payment{ID: out.ID.String(), Status: out.Status}, nil
}
