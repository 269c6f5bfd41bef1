package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/talentolocal/backend/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers routes that do not require any middleware on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// The /healthz endpoint is used by load balancers and monitoring
	// systems to verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterPayments registers the payment-flow endpoints.  The charge
// initiation and review endpoints get the rate limiter; the webhook
// endpoint deliberately does not, because throttling the processor's
// retries would only delay reconciliation.
func RegisterPayments(e *echo.Echo, p *handler.PaymentHandler, w *handler.WebhookHandler, r *handler.ReviewHandler, rateLimit echo.MiddlewareFunc) {
	// Charge initiation: submits to the processor and records the
	// escrowed reservation.
	e.POST("/v1/payments", p.ProcessPayment, rateLimit)
	// Asynchronous payment notifications from the processor.  Always
	// answers 200 once acknowledged; 500 requests redelivery.
	e.POST("/v1/webhooks/mercadopago", w.Receive)
	// Review submission, which also recomputes the talent rating summary.
	e.POST("/v1/reviews", r.SubmitReview, rateLimit)
}

// RegisterTalents registers the read-only talent endpoints.  The rating
// summary is cacheable, so the Redis response cache is applied here.
func RegisterTalents(e *echo.Echo, t *handler.TalentHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/talents/:id/rating", t.GetRating, cache)
}
