package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roamstay/spot-booking/internal/model"
)

// fakeStore is an in-memory Store. InTx runs the callback against the same
// store and tracks whether a transaction was opened, so tests can assert
// the guard never writes outside one.
type fakeStore struct {
	spots    map[uint64]*model.Spot
	bookings map[uint64]*model.Booking
	nextID   uint64
	txCount  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		spots:    map[uint64]*model.Spot{},
		bookings: map[uint64]*model.Booking{},
		nextID:   1,
	}
}

func (f *fakeStore) addSpot(id, ownerID uint64) {
	f.spots[id] = &model.Spot{ID: id, OwnerID: ownerID, Name: "spot"}
}

func (f *fakeStore) addBooking(spotID, userID uint64, start, end string) uint64 {
	id := f.nextID
	f.nextID++
	f.bookings[id] = &model.Booking{
		ID: id, SpotID: spotID, UserID: userID,
		StartDate: day(start), EndDate: day(end),
	}
	return id
}

func (f *fakeStore) SpotByID(_ context.Context, id uint64) (*model.Spot, error) {
	s, ok := f.spots[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) BookingByID(_ context.Context, id uint64) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) ListBySpot(_ context.Context, spotID, excludeID uint64) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if b.SpotID == spotID && b.ID != excludeID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) Insert(_ context.Context, b *model.Booking) error {
	b.ID = f.nextID
	f.nextID++
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateDates(_ context.Context, id uint64, start, end time.Time) error {
	b, ok := f.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.StartDate, b.EndDate = start, end
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uint64) error {
	delete(f.bookings, id)
	return nil
}

func (f *fakeStore) InTx(_ context.Context, fn func(Store) error) error {
	f.txCount++
	return fn(f)
}

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"identical ranges", "2026-03-01", "2026-03-05", "2026-03-01", "2026-03-05", true},
		{"nested range", "2026-03-01", "2026-03-10", "2026-03-03", "2026-03-05", true},
		{"partial overlap at start", "2026-03-01", "2026-03-05", "2026-03-04", "2026-03-08", true},
		{"single shared night", "2026-03-01", "2026-03-05", "2026-03-04", "2026-03-05", true},
		{"boundary touch checkout equals checkin", "2026-03-01", "2026-03-05", "2026-03-05", "2026-03-08", false},
		{"boundary touch other direction", "2026-03-05", "2026-03-08", "2026-03-01", "2026-03-05", false},
		{"fully disjoint", "2026-03-01", "2026-03-03", "2026-03-10", "2026-03-12", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(day(tt.s1), day(tt.e1), day(tt.s2), day(tt.e2))
			require.Equal(t, tt.want, got)
			// Overlap is symmetric in its two ranges.
			require.Equal(t, tt.want, Overlaps(day(tt.s2), day(tt.e2), day(tt.s1), day(tt.e1)))
		})
	}
}

func TestDateOf(t *testing.T) {
	in := time.Date(2026, 3, 4, 17, 45, 12, 999, time.UTC)
	require.Equal(t, day("2026-03-04"), DateOf(in))

	// Non-UTC times normalize to the UTC calendar date.
	loc := time.FixedZone("UTC+3", 3*60*60)
	late := time.Date(2026, 3, 5, 1, 0, 0, 0, loc) // still March 4 in UTC
	require.Equal(t, day("2026-03-04"), DateOf(late))
}

func TestGuardCreate(t *testing.T) {
	const (
		ownerID  = 1
		renterID = 2
		otherID  = 3
		spotID   = 10
	)

	tests := []struct {
		name       string
		setup      func(f *fakeStore)
		spotID     uint64
		requester  uint64
		start, end string
		wantErr    error
	}{
		{
			name:      "spot does not exist",
			setup:     func(f *fakeStore) {},
			spotID:    99,
			requester: renterID,
			start:     "2026-03-01", end: "2026-03-05",
			wantErr: ErrNotFound,
		},
		{
			name:      "owner cannot book own spot",
			spotID:    spotID,
			requester: ownerID,
			start:     "2026-03-01", end: "2026-03-05",
			wantErr: ErrForbidden,
		},
		{
			name:      "end equal to start",
			spotID:    spotID,
			requester: renterID,
			start:     "2026-03-01", end: "2026-03-01",
			wantErr: ErrInvalidRange,
		},
		{
			name:      "end before start",
			spotID:    spotID,
			requester: renterID,
			start:     "2026-03-05", end: "2026-03-01",
			wantErr: ErrInvalidRange,
		},
		{
			name: "overlapping booking",
			setup: func(f *fakeStore) {
				f.addBooking(spotID, otherID, "2026-03-03", "2026-03-08")
			},
			spotID:    spotID,
			requester: renterID,
			start:     "2026-03-01", end: "2026-03-05",
			wantErr: ErrConflict,
		},
		{
			name: "owner check precedes range check",
			setup: func(f *fakeStore) {
				f.addBooking(spotID, otherID, "2026-03-01", "2026-03-05")
			},
			spotID:    spotID,
			requester: ownerID,
			start:     "2026-03-05", end: "2026-03-01",
			wantErr: ErrForbidden,
		},
		{
			name: "range check precedes conflict check",
			setup: func(f *fakeStore) {
				f.addBooking(spotID, otherID, "2026-03-01", "2026-03-05")
			},
			spotID:    spotID,
			requester: renterID,
			start:     "2026-03-03", end: "2026-03-02",
			wantErr: ErrInvalidRange,
		},
		{
			name: "back to back with existing booking",
			setup: func(f *fakeStore) {
				f.addBooking(spotID, otherID, "2026-03-01", "2026-03-05")
			},
			spotID:    spotID,
			requester: renterID,
			start:     "2026-03-05", end: "2026-03-08",
		},
		{
			name:      "free range",
			spotID:    spotID,
			requester: renterID,
			start:     "2026-03-01", end: "2026-03-05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeStore()
			f.addSpot(spotID, ownerID)
			if tt.setup != nil {
				tt.setup(f)
			}
			g := NewGuard(f)

			b, err := g.Create(context.Background(), tt.spotID, tt.requester, day(tt.start), day(tt.end))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, b)
				return
			}
			require.NoError(t, err)
			require.NotZero(t, b.ID)
			require.Equal(t, tt.requester, b.UserID)
			require.Equal(t, day(tt.start), b.StartDate)
			require.Equal(t, day(tt.end), b.EndDate)
			require.Equal(t, 1, f.txCount, "create must run in a transaction")
		})
	}
}

func TestGuardCreateNormalizesTimes(t *testing.T) {
	f := newFakeStore()
	f.addSpot(10, 1)
	g := NewGuard(f)

	start := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	end := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	b, err := g.Create(context.Background(), 10, 2, start, end)
	require.NoError(t, err)
	require.Equal(t, day("2026-03-01"), b.StartDate)
	require.Equal(t, day("2026-03-05"), b.EndDate)
}

func TestGuardUpdate(t *testing.T) {
	const (
		ownerID  = 1
		renterID = 2
		otherID  = 3
		spotID   = 10
	)
	now := day("2026-03-10")

	type fixture struct {
		f         *fakeStore
		bookingID uint64
	}
	setup := func() fixture {
		f := newFakeStore()
		f.addSpot(spotID, ownerID)
		id := f.addBooking(spotID, renterID, "2026-03-15", "2026-03-20")
		return fixture{f: f, bookingID: id}
	}

	t.Run("booking does not exist", func(t *testing.T) {
		fx := setup()
		g := NewGuard(fx.f)
		_, err := g.Update(context.Background(), 999, renterID, day("2026-03-16"), day("2026-03-21"), now)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("only the renter may edit", func(t *testing.T) {
		fx := setup()
		g := NewGuard(fx.f)
		_, err := g.Update(context.Background(), fx.bookingID, otherID, day("2026-03-16"), day("2026-03-21"), now)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("spot owner may not edit either", func(t *testing.T) {
		fx := setup()
		g := NewGuard(fx.f)
		_, err := g.Update(context.Background(), fx.bookingID, ownerID, day("2026-03-16"), day("2026-03-21"), now)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("past booking cannot be modified", func(t *testing.T) {
		fx := setup()
		g := NewGuard(fx.f)
		_, err := g.Update(context.Background(), fx.bookingID, renterID, day("2026-03-16"), day("2026-03-21"), day("2026-03-21"))
		require.ErrorIs(t, err, ErrPastBooking)
	})

	t.Run("ending today is still editable", func(t *testing.T) {
		fx := setup()
		g := NewGuard(fx.f)
		b, err := g.Update(context.Background(), fx.bookingID, renterID, day("2026-03-18"), day("2026-03-22"), day("2026-03-20"))
		require.NoError(t, err)
		require.Equal(t, day("2026-03-18"), b.StartDate)
	})

	t.Run("inverted range", func(t *testing.T) {
		fx := setup()
		g := NewGuard(fx.f)
		_, err := g.Update(context.Background(), fx.bookingID, renterID, day("2026-03-21"), day("2026-03-16"), now)
		require.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("conflict with another booking", func(t *testing.T) {
		fx := setup()
		fx.f.addBooking(spotID, otherID, "2026-03-22", "2026-03-25")
		g := NewGuard(fx.f)
		_, err := g.Update(context.Background(), fx.bookingID, renterID, day("2026-03-21"), day("2026-03-23"), now)
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("own range never conflicts with itself", func(t *testing.T) {
		fx := setup()
		g := NewGuard(fx.f)
		b, err := g.Update(context.Background(), fx.bookingID, renterID, day("2026-03-16"), day("2026-03-19"), now)
		require.NoError(t, err)
		require.Equal(t, day("2026-03-16"), b.StartDate)
		require.Equal(t, day("2026-03-19"), b.EndDate)
		stored, err := fx.f.BookingByID(context.Background(), fx.bookingID)
		require.NoError(t, err)
		require.Equal(t, day("2026-03-16"), stored.StartDate)
	})

	t.Run("renter never changes on update", func(t *testing.T) {
		fx := setup()
		g := NewGuard(fx.f)
		b, err := g.Update(context.Background(), fx.bookingID, renterID, day("2026-03-16"), day("2026-03-21"), now)
		require.NoError(t, err)
		require.Equal(t, uint64(renterID), b.UserID)
	})
}

func TestGuardDelete(t *testing.T) {
	const (
		ownerID  = 1
		renterID = 2
		otherID  = 3
		spotID   = 10
	)

	setup := func() (*fakeStore, uint64) {
		f := newFakeStore()
		f.addSpot(spotID, ownerID)
		id := f.addBooking(spotID, renterID, "2026-03-15", "2026-03-20")
		return f, id
	}

	t.Run("booking does not exist", func(t *testing.T) {
		f, _ := setup()
		g := NewGuard(f)
		err := g.Delete(context.Background(), 999, renterID, day("2026-03-10"))
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("renter may cancel before start", func(t *testing.T) {
		f, id := setup()
		g := NewGuard(f)
		require.NoError(t, g.Delete(context.Background(), id, renterID, day("2026-03-10")))
		_, err := f.BookingByID(context.Background(), id)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("spot owner may cancel before start", func(t *testing.T) {
		f, id := setup()
		g := NewGuard(f)
		require.NoError(t, g.Delete(context.Background(), id, ownerID, day("2026-03-10")))
	})

	t.Run("third party may not cancel", func(t *testing.T) {
		f, id := setup()
		g := NewGuard(f)
		err := g.Delete(context.Background(), id, otherID, day("2026-03-10"))
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("cancellation blocked on the start date", func(t *testing.T) {
		f, id := setup()
		g := NewGuard(f)
		err := g.Delete(context.Background(), id, renterID, day("2026-03-15"))
		require.ErrorIs(t, err, ErrAlreadyStarted)
	})

	t.Run("cancellation blocked after start", func(t *testing.T) {
		f, id := setup()
		g := NewGuard(f)
		err := g.Delete(context.Background(), id, renterID, day("2026-03-17"))
		require.ErrorIs(t, err, ErrAlreadyStarted)
	})

	t.Run("cancellation allowed the day before", func(t *testing.T) {
		f, id := setup()
		g := NewGuard(f)
		require.NoError(t, g.Delete(context.Background(), id, renterID, day("2026-03-14")))
	})

	t.Run("authorization checked before start date", func(t *testing.T) {
		// A stranger poking at an already-started booking sees 403, not the
		// started error.
		f, id := setup()
		g := NewGuard(f)
		err := g.Delete(context.Background(), id, otherID, day("2026-03-17"))
		require.ErrorIs(t, err, ErrForbidden)
	})
}

func TestHasConflictExclusion(t *testing.T) {
	f := newFakeStore()
	f.addSpot(10, 1)
	id := f.addBooking(10, 2, "2026-03-01", "2026-03-05")
	g := NewGuard(f)

	got, err := g.HasConflict(context.Background(), 10, day("2026-03-02"), day("2026-03-04"), 0)
	require.NoError(t, err)
	require.True(t, got)

	got, err = g.HasConflict(context.Background(), 10, day("2026-03-02"), day("2026-03-04"), id)
	require.NoError(t, err)
	require.False(t, got)
}
