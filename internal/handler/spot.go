package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roamstay/spot-booking/internal/model"
	"github.com/roamstay/spot-booking/internal/repository"
)

// SpotHandler serves the host-facing spot endpoints: create, update,
// delete and the owner's own listing.
type SpotHandler struct {
	Spots *repository.SpotRepo
}

func NewSpotHandler(spots *repository.SpotRepo) *SpotHandler {
	if spots == nil {
		panic("nil repository passed to NewSpotHandler")
	}
	return &SpotHandler{Spots: spots}
}

type spotReq struct {
	Address     string  `json:"address" validate:"required"`
	City        string  `json:"city" validate:"required"`
	State       string  `json:"state" validate:"required"`
	Country     string  `json:"country" validate:"required"`
	Lat         float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng         float64 `json:"lng" validate:"gte=-180,lte=180"`
	Name        string  `json:"name" validate:"required,max=50"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gt=0"`
}

type spotResp struct {
	ID          uint64    `json:"id"`
	OwnerID     uint64    `json:"owner_id"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Country     string    `json:"country"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toSpotResp(s *model.Spot) spotResp {
	return spotResp{
		ID: s.ID, OwnerID: s.OwnerID,
		Address: s.Address, City: s.City, State: s.State, Country: s.Country,
		Lat: s.Lat, Lng: s.Lng,
		Name: s.Name, Description: s.Description, Price: s.Price,
		CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

// Create registers a new spot owned by the authenticated user.
func (h *SpotHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req spotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	s := &model.Spot{
		OwnerID: uid,
		Address: req.Address, City: req.City, State: req.State, Country: req.Country,
		Lat: req.Lat, Lng: req.Lng,
		Name: req.Name, Description: req.Description, Price: req.Price,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Spots.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create spot failed"})
	}
	return c.JSON(http.StatusCreated, toSpotResp(s))
}

// Update replaces the fields of a spot owned by the caller.
func (h *SpotHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	spotID := pathID(c, "id")
	if spotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
	}
	var req spotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	s := &model.Spot{
		Address: req.Address, City: req.City, State: req.State, Country: req.Country,
		Lat: req.Lat, Lng: req.Lng,
		Name: req.Name, Description: req.Description, Price: req.Price,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Spots.Update(ctx, spotID, uid, s); err != nil {
		switch {
		case errors.Is(err, repository.ErrSpotNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "spot not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update spot failed"})
	}

	updated, err := h.Spots.GetByID(ctx, spotID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toSpotResp(updated))
}

// Delete removes a spot and everything attached to it. Only the owner may
// delete.
func (h *SpotHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	spotID := pathID(c, "id")
	if spotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Spots.DeleteByIDAndOwner(ctx, spotID, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrSpotNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "spot not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete spot failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// Mine lists the authenticated user's spots with rating and preview image.
func (h *SpotHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	spots, err := h.Spots.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"spots": spots})
}
