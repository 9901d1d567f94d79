package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roamstay/spot-booking/internal/model"
	"github.com/roamstay/spot-booking/internal/repository"
)

// SpotImageHandler manages photos attached to spots. Only the spot owner
// may add or remove them.
type SpotImageHandler struct {
	Spots  *repository.SpotRepo
	Images *repository.SpotImageRepo
}

func NewSpotImageHandler(spots *repository.SpotRepo, images *repository.SpotImageRepo) *SpotImageHandler {
	if spots == nil || images == nil {
		panic("nil repository passed to NewSpotImageHandler")
	}
	return &SpotImageHandler{Spots: spots, Images: images}
}

type spotImageReq struct {
	URL     string `json:"url" validate:"required,url"`
	Preview bool   `json:"preview"`
}

type spotImageResp struct {
	ID      uint64 `json:"id"`
	SpotID  uint64 `json:"spot_id"`
	URL     string `json:"url"`
	Preview bool   `json:"preview"`
}

// Add attaches an image to a spot. Marking it preview clears the flag on
// any previous preview image.
func (h *SpotImageHandler) Add(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	spotID := pathID(c, "id")
	if spotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
	}
	var req spotImageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	spot, err := h.Spots.GetByID(ctx, spotID)
	if err != nil {
		if errors.Is(err, repository.ErrSpotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "spot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if spot.OwnerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	img := &model.SpotImage{SpotID: spotID, URL: req.URL, Preview: req.Preview}
	if err := h.Images.Create(ctx, img); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create image failed"})
	}
	return c.JSON(http.StatusCreated, spotImageResp{ID: img.ID, SpotID: img.SpotID, URL: img.URL, Preview: img.Preview})
}

// Delete removes a spot image. Only the owner of the spot may delete.
func (h *SpotImageHandler) Delete(c echo.Context) error {
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

	img, ownerID, err := h.Images.GetWithOwner(ctx, imageID)
	if err != nil {
		if errors.Is(err, repository.ErrSpotImageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "spot image not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if ownerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Images.Delete(ctx, img.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete image failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
