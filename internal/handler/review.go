package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roamstay/spot-booking/internal/model"
	"github.com/roamstay/spot-booking/internal/repository"
)

// ReviewHandler serves review creation, edit and removal plus the
// authenticated user's own review listing.
type ReviewHandler struct {
	Spots   *repository.SpotRepo
	Reviews *repository.ReviewRepo
}

func NewReviewHandler(spots *repository.SpotRepo, reviews *repository.ReviewRepo) *ReviewHandler {
	if spots == nil || reviews == nil {
		panic("nil repository passed to NewReviewHandler")
	}
	return &ReviewHandler{Spots: spots, Reviews: reviews}
}

type reviewReq struct {
	Review string `json:"review" validate:"required"`
	Stars  int    `json:"stars" validate:"required,min=1,max=5"`
}

type reviewResp struct {
	ID        uint64    `json:"id"`
	SpotID    uint64    `json:"spot_id"`
	UserID    uint64    `json:"user_id"`
	Review    string    `json:"review"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toReviewResp(r *model.Review) reviewResp {
	return reviewResp{
		ID: r.ID, SpotID: r.SpotID, UserID: r.UserID,
		Review: r.Review, Stars: r.Stars,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// Create adds a review to a spot. A user may review a given spot at most
// once; a second attempt yields 409.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	spotID := pathID(c, "id")
	if spotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Spots.GetByID(ctx, spotID); err != nil {
		if errors.Is(err, repository.ErrSpotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "spot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	rev := &model.Review{SpotID: spotID, UserID: uid, Review: req.Review, Stars: req.Stars}
	if err := h.Reviews.Create(ctx, rev); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user already has a review for this spot"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	return c.JSON(http.StatusCreated, toReviewResp(rev))
}

// Update edits the text and stars of the caller's own review.
func (h *ReviewHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reviewID := pathID(c, "id")
	if reviewID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rev, err := h.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if rev.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Reviews.Update(ctx, reviewID, req.Review, req.Stars); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update review failed"})
	}
	updated, err := h.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toReviewResp(updated))
}

// Delete removes the caller's own review and its images.
func (h *ReviewHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reviewID := pathID(c, "id")
	if reviewID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rev, err := h.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if rev.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Reviews.Delete(ctx, reviewID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete review failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// Mine lists every review the authenticated user has written, with the
// reviewed spot's summary attached.
func (h *ReviewHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	reviews, err := h.Reviews.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews})
}
