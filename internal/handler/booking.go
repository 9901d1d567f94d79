package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/roamstay/spot-booking/internal/booking"
	"github.com/roamstay/spot-booking/internal/model"
	"github.com/roamstay/spot-booking/internal/queue"
	"github.com/roamstay/spot-booking/internal/repository"
	queue_publisher "github.com/roamstay/spot-booking/internal/service"
	"github.com/roamstay/spot-booking/internal/utils"
)

// BookingHandler serves booking creation, modification, cancellation and
// the booking listings. All write paths go through the lifecycle guard,
// which runs its checks and the write inside one transaction.
type BookingHandler struct {
	Guard    *booking.Guard
	Bookings *repository.BookingRepo
	Spots    *repository.SpotRepo
	Users    *repository.UserRepo
}

func NewBookingHandler(g *booking.Guard, b *repository.BookingRepo, s *repository.SpotRepo, u *repository.UserRepo) *BookingHandler {
	if g == nil || b == nil || s == nil || u == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Guard: g, Bookings: b, Spots: s, Users: u}
}

type bookingReq struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

type bookingResp struct {
	ID        uint64    `json:"id"`
	SpotID    uint64    `json:"spot_id"`
	UserID    uint64    `json:"user_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID: b.ID, SpotID: b.SpotID, UserID: b.UserID,
		StartDate: b.StartDate.UTC().Format(dateLayout),
		EndDate:   b.EndDate.UTC().Format(dateLayout),
		CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt,
	}
}

// bookingErr translates guard sentinels into HTTP responses. The sentinel
// messages double as the client-facing error strings.
func bookingErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, booking.ErrInvalidRange),
		errors.Is(err, booking.ErrPastBooking),
		errors.Is(err, booking.ErrAlreadyStarted):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking operation failed"})
}

// parseRange decodes and normalizes the request dates. A malformed date is
// reported the same way as an inverted range.
func parseRange(req bookingReq) (start, end time.Time, err error) {
	start, err = parseDate(req.StartDate)
	if err != nil {
		return start, end, booking.ErrInvalidRange
	}
	end, err = parseDate(req.EndDate)
	if err != nil {
		return start, end, booking.ErrInvalidRange
	}
	return start, end, nil
}

// Mine lists the authenticated user's bookings with spot summaries.
func (h *BookingHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	details, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// ListForSpot returns a spot's bookings. The owner sees full records with
// renter identity; everyone else sees only the occupied date ranges.
func (h *BookingHandler) ListForSpot(c echo.Context) error {
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

	spot, err := h.Spots.GetByID(ctx, spotID)
	if err != nil {
		if errors.Is(err, repository.ErrSpotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "spot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if spot.OwnerID == uid {
		details, err := h.Bookings.ListBySpotForOwner(ctx, spotID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"bookings": details})
	}

	dates, err := h.Bookings.ListDatesBySpot(ctx, spotID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": dates})
}

// Create books a date range on a spot for the authenticated user.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	spotID := pathID(c, "id")
	if spotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, end, err := parseRange(req)
	if err != nil {
		return bookingErr(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Guard.Create(ctx, spotID, uid, start, end)
	if err != nil {
		return bookingErr(c, err)
	}

	h.publishCreated(b)
	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// Update moves an existing booking to a new date range.
func (h *BookingHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID := pathID(c, "id")
	if bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, end, err := parseRange(req)
	if err != nil {
		return bookingErr(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Guard.Update(ctx, bookingID, uid, start, end, time.Now().UTC())
	if err != nil {
		return bookingErr(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Delete cancels a booking. The renter or the spot owner may cancel, but
// only before the stay has started.
func (h *BookingHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID := pathID(c, "id")
	if bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// Snapshot for the cancellation event before the row disappears.
	b, err := h.Bookings.BookingByID(ctx, bookingID)
	if err != nil {
		return bookingErr(c, err)
	}

	if err := h.Guard.Delete(ctx, bookingID, uid, time.Now().UTC()); err != nil {
		return bookingErr(c, err)
	}

	h.publishCancelled(b, uid)
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// publishCreated emits a booking.created event. Best effort: a broker
// outage is logged, never surfaced to the client.
func (h *BookingHandler) publishCreated(b *model.Booking) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ev := queue.BookingCreatedEvent{
			EventID:   uuid.NewString(),
			BookingID: b.ID,
			SpotID:    b.SpotID,
			UserID:    b.UserID,
			StartDate: b.StartDate.UTC().Format(dateLayout),
			EndDate:   b.EndDate.UTC().Format(dateLayout),
			Nights:    int(b.EndDate.Sub(b.StartDate).Hours() / 24),
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if spot, err := h.Spots.GetByID(ctx, b.SpotID); err == nil {
			ev.SpotName = spot.Name
			ev.City = spot.City
			ev.Country = spot.Country
			ev.PricePerDay = spot.Price
		}
		if u, err := h.Users.GetByID(ctx, b.UserID); err == nil {
			ev.UserEmail = u.Email
		}
		if err := queue_publisher.PublishBookingCreated(ctx, ev); err != nil {
			utils.Warn("booking.created publish failed", map[string]any{"booking_id": b.ID, "error": err.Error()})
		}
	}()
}

func (h *BookingHandler) publishCancelled(b *model.Booking, cancelledBy uint64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ev := queue.BookingCancelledEvent{
			EventID:     uuid.NewString(),
			BookingID:   b.ID,
			SpotID:      b.SpotID,
			UserID:      b.UserID,
			CancelledBy: cancelledBy,
			StartDate:   b.StartDate.UTC().Format(dateLayout),
			EndDate:     b.EndDate.UTC().Format(dateLayout),
			CancelledAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := queue_publisher.PublishBookingCancelled(ctx, ev); err != nil {
			utils.Warn("booking.cancelled publish failed", map[string]any{"booking_id": b.ID, "error": err.Error()})
		}
	}()
}
