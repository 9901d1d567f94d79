package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roamstay/spot-booking/internal/repository"
)

// PublicHandler serves the unauthenticated browse endpoints: spot
// listings, spot detail and a spot's reviews. These routes sit behind the
// Redis response cache.
type PublicHandler struct {
	Spots   *repository.SpotRepo
	Reviews *repository.ReviewRepo
}

func NewPublicHandler(spots *repository.SpotRepo, reviews *repository.ReviewRepo) *PublicHandler {
	if spots == nil || reviews == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Spots: spots, Reviews: reviews}
}

// ListSpots returns every spot with its average rating and preview image.
func (h *PublicHandler) ListSpots(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	spots, err := h.Spots.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"spots": spots})
}

// SpotDetail returns one spot with review aggregates, all images and the
// owner's public info.
func (h *PublicHandler) SpotDetail(c echo.Context) error {
	spotID := pathID(c, "id")
	if spotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	detail, err := h.Spots.GetDetail(ctx, spotID)
	if err != nil {
		if errors.Is(err, repository.ErrSpotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "spot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, detail)
}

// SpotReviews returns all reviews of a spot, newest first, with author
// names and attached images.
func (h *PublicHandler) SpotReviews(c echo.Context) error {
	spotID := pathID(c, "id")
	if spotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// A review list for a missing spot is a 404, not an empty list.
	if _, err := h.Spots.GetByID(ctx, spotID); err != nil {
		if errors.Is(err, repository.ErrSpotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "spot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	reviews, err := h.Reviews.ListBySpot(ctx, spotID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews})
}
