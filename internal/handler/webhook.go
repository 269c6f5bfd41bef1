package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talentolocal/backend/internal/service"
)

// WebhookHandler receives asynchronous payment notifications from the
// processor. The response code is the only channel back to the sender:
// 200 acknowledges the delivery (including "ignored, not a payment
// event"), anything else asks for redelivery.
type WebhookHandler struct {
	Webhooks *service.WebhookService
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(w *service.WebhookService) *WebhookHandler {
	if w == nil {
		panic("nil service passed to NewWebhookHandler")
	}
	return &WebhookHandler{Webhooks: w}
}

// webhookRequest is the notification body. The processor sends the
// payment id either as a JSON number or a string depending on the
// notification channel, so the field is decoded leniently. Any status
// field in the body is not even decoded: the reconciler re-fetches the
// authoritative status itself.
type webhookRequest struct {
	Type string `json:"type"`
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// Receive handles POST /v1/webhooks/mercadopago. A malformed body is
// acknowledged with 200 and dropped — redelivering it can never help.
// Internal failures answer 500 so the sender retries later; the
// reservation stays pending until a delivery succeeds.
func (h *WebhookHandler) Receive(c echo.Context) error {
	var body webhookRequest
	if err := c.Bind(&body); err != nil {
		log.Printf("webhook: undecodable notification body: %v", err)
		return c.String(http.StatusOK, "OK")
	}

	err := h.Webhooks.HandleNotification(c.Request().Context(), service.Notification{
		Type:      body.Type,
		PaymentID: body.Data.ID.String(),
	})
	if err != nil {
		log.Printf("webhook: %v", err)
		return c.String(http.StatusInternalServerError, "Error")
	}
	return c.String(http.StatusOK, "OK")
}
