package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roamstay/spot-booking/internal/model"
	"github.com/roamstay/spot-booking/internal/repository"
)

// ReviewImageHandler manages photos attached to reviews. Only the review
// author may add or remove them, and a review holds at most ten.
type ReviewImageHandler struct {
	Reviews *repository.ReviewRepo
	Images  *repository.ReviewImageRepo
}

func NewReviewImageHandler(reviews *repository.ReviewRepo, images *repository.ReviewImageRepo) *ReviewImageHandler {
	if reviews == nil || images == nil {
		panic("nil repository passed to NewReviewImageHandler")
	}
	return &ReviewImageHandler{Reviews: reviews, Images: images}
}

type reviewImageReq struct {
	URL string `json:"url" validate:"required,url"`
}

type reviewImageResp struct {
	ID       uint64 `json:"id"`
	ReviewID uint64 `json:"review_id"`
	URL      string `json:"url"`
}

// Add attaches an image to the caller's review, enforcing the per-review
// cap.
func (h *ReviewImageHandler) Add(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reviewID := pathID(c, "id")
	if reviewID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	var req reviewImageReq
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

	count, err := h.Images.CountForReview(ctx, reviewID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if count >= repository.MaxImagesPerReview {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "maximum number of images for this resource was reached"})
	}

	img := &model.ReviewImage{ReviewID: reviewID, URL: req.URL}
	if err := h.Images.Create(ctx, img); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create image failed"})
	}
	return c.JSON(http.StatusCreated, reviewImageResp{ID: img.ID, ReviewID: img.ReviewID, URL: img.URL})
}

// Delete removes a review image. Only the review author may delete.
func (h *ReviewImageHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	imageID := pathID(c, "id")
	if imageID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid image id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	img, authorID, err := h.Images.GetWithAuthor(ctx, imageID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewImageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review image not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if authorID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Images.Delete(ctx, img.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete image failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
