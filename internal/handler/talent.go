package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/talentolocal/backend/internal/repository"
)

// TalentHandler exposes the derived rating summary that reporting and
// support tooling read against.
type TalentHandler struct {
	Talents *repository.TalentRepo
}

// NewTalentHandler constructs a TalentHandler.
func NewTalentHandler(t *repository.TalentRepo) *TalentHandler {
	if t == nil {
		panic("nil repository passed to NewTalentHandler")
	}
	return &TalentHandler{Talents: t}
}

// GetRating handles GET /v1/talents/:id/rating. It returns the current
// rating_average and rating_count for a talent.
func (h *TalentHandler) GetRating(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid talent id"})
	}
	t, err := h.Talents.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTalentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "talent not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"talent_id":      t.ID,
		"display_name":   t.DisplayName,
		"rating_average": t.RatingAverage,
		"rating_count":   t.RatingCount,
	})
}
