package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talentolocal/backend/internal/commission"
	"github.com/talentolocal/backend/internal/service"
)

// PaymentHandler exposes charge initiation. Validation failures are
// reported as 400; processor rejections and store failures as 500 with
// a generic message — processor internals are logged, never echoed to
// the payer beyond the safe subset.
type PaymentHandler struct {
	Payments *service.PaymentService
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(p *service.PaymentService) *PaymentHandler {
	if p == nil {
		panic("nil service passed to NewPaymentHandler")
	}
	return &PaymentHandler{Payments: p}
}

// chargeRequest is the JSON body of POST /v1/payments. Amounts are in
// minor currency units.
type chargeRequest struct {
	TransactionAmount int64  `json:"transaction_amount"`
	Token             string `json:"token"`
	PaymentMethodID   string `json:"payment_method_id"`
	Installments      int    `json:"installments"`
	Payer             struct {
		Email string `json:"email"`
	} `json:"payer"`
	TalentID    uint64  `json:"talent_id"`
	ClientID    *uint64 `json:"client_id"`
	ServiceDate *string `json:"service_date"`
	ServiceTime *string `json:"service_time"`
}

// ProcessPayment handles POST /v1/payments. On success it returns the
// processor's initial status and the assigned payment id; the
// reservation state is derived from that status, not assumed pending.
func (h *PaymentHandler) ProcessPayment(c echo.Context) error {
	var body chargeRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.TalentID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "talent_id is required"})
	}

	result, err := h.Payments.Initiate(c.Request().Context(), service.ChargeInput{
		GrossCents:      body.TransactionAmount,
		Token:           body.Token,
		PaymentMethodID: body.PaymentMethodID,
		Installments:    body.Installments,
		PayerEmail:      body.Payer.Email,
		TalentID:        body.TalentID,
		ClientID:        body.ClientID,
		ServiceDate:     body.ServiceDate,
		ServiceTime:     body.ServiceTime,
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{
			"status": result.Status,
			"id":     result.PaymentID,
		})
	case errors.Is(err, commission.ErrInvalidAmount):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "transaction_amount must be positive"})
	case errors.Is(err, service.ErrPersistFailed):
		// The charge went through; the record did not. Surface the
		// failure (sender-side retry/reconciliation) but still report
		// the processor truth so the caller knows a charge exists.
		log.Printf("payments: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":  "failed to record reservation",
			"status": result.Status,
			"id":     result.PaymentID,
		})
	case errors.Is(err, service.ErrSubmissionFailed):
		log.Printf("payments: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment processing failed"})
	default:
		log.Printf("payments: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment processing failed"})
	}
}
