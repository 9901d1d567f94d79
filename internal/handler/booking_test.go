package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/roamstay/spot-booking/internal/booking"
)

func testCtx() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBookingErrStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", booking.ErrNotFound, http.StatusNotFound},
		{"forbidden", booking.ErrForbidden, http.StatusForbidden},
		{"invalid range", booking.ErrInvalidRange, http.StatusBadRequest},
		{"past booking", booking.ErrPastBooking, http.StatusBadRequest},
		{"already started", booking.ErrAlreadyStarted, http.StatusBadRequest},
		{"conflict", booking.ErrConflict, http.StatusConflict},
		{"wrapped conflict", errors.Join(errors.New("tx"), booking.ErrConflict), http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := testCtx()
			require.NoError(t, bookingErr(c, tt.err))
			require.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestParseRange(t *testing.T) {
	start, end, err := parseRange(bookingReq{StartDate: "2026-03-01", EndDate: "2026-03-05"})
	require.NoError(t, err)
	require.Equal(t, "2026-03-01", start.Format(dateLayout))
	require.Equal(t, "2026-03-05", end.Format(dateLayout))

	for _, req := range []bookingReq{
		{StartDate: "not-a-date", EndDate: "2026-03-05"},
		{StartDate: "2026-03-01", EndDate: "03/05/2026"},
		{StartDate: "", EndDate: ""},
	} {
		_, _, err := parseRange(req)
		require.ErrorIs(t, err, booking.ErrInvalidRange)
	}
}

func TestGetUserID(t *testing.T) {
	c, _ := testCtx()

	// JWT claims decode numeric sub as float64.
	c.Set("user_id", float64(42))
	uid, err := getUserID(c)
	require.NoError(t, err)
	require.Equal(t, uint64(42), uid)

	c.Set("user_id", "17")
	uid, err = getUserID(c)
	require.NoError(t, err)
	require.Equal(t, uint64(17), uid)

	c.Set("user_id", nil)
	_, err = getUserID(c)
	require.Error(t, err)
}
