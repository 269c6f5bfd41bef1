package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talentolocal/backend/internal/service"
)

// ReviewHandler exposes review submission. Validation failures are 400
// and never inserted; store failures are 500.
type ReviewHandler struct {
	Reviews *service.ReviewService
}

// NewReviewHandler constructs a ReviewHandler.
func NewReviewHandler(r *service.ReviewService) *ReviewHandler {
	if r == nil {
		panic("nil service passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: r}
}

// reviewRequest is the JSON body of POST /v1/reviews.
type reviewRequest struct {
	TalentID      uint64 `json:"talent_id"`
	ClientID      uint64 `json:"client_id"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	ReservationID uint64 `json:"reservation_id"`
}

// SubmitReview handles POST /v1/reviews. On success the review is
// durable and the talent's rating summary has been recomputed from the
// full review set (or flagged stale in the logs if the recompute
// failed).
func (h *ReviewHandler) SubmitReview(c echo.Context) error {
	var body reviewRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	rv, err := h.Reviews.Submit(c.Request().Context(), service.ReviewInput{
		TalentID:      body.TalentID,
		ClientID:      body.ClientID,
		Rating:        body.Rating,
		Comment:       body.Comment,
		ReservationID: body.ReservationID,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidReview) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review data"})
		}
		log.Printf("reviews: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save review"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "review saved",
		"id":      rv.ID,
	})
}
