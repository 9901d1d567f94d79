package booking

import (
    "context"
    "time"

    "github.com/roamstay/spot-booking/internal/model"
)

// Store is the persistence surface the guard operates on.  The repository
// layer implements it twice: once over the connection pool and once over an
// open transaction, so every check-then-write sequence observes a single
// consistent snapshot.  Lookups return ErrNotFound when no row exists; all
// other errors are passed through to the caller untouched.
type Store interface {
    // SpotByID loads a spot.
    SpotByID(ctx context.Context, id uint64) (*model.Spot, error)
    // BookingByID loads a booking.
    BookingByID(ctx context.Context, id uint64) (*model.Booking, error)
    // ListBySpot returns every booking for the spot, skipping the one named
    // by excludeID (0 excludes nothing).
    ListBySpot(ctx context.Context, spotID, excludeID uint64) ([]model.Booking, error)
    // Insert persists a new booking and populates its generated fields.
    Insert(ctx context.Context, b *model.Booking) error
    // UpdateDates replaces a booking's date range.
    UpdateDates(ctx context.Context, id uint64, start, end time.Time) error
    // Delete removes a booking permanently.
    Delete(ctx context.Context, id uint64) error
    // InTx runs fn against a transaction-backed Store, committing when fn
    // returns nil and rolling back otherwise.
    InTx(ctx context.Context, fn func(Store) error) error
}

// Overlaps reports whether the half-open date ranges [s1,e1) and [s2,e2)
// share at least one night.  Ranges that touch only at a boundary date do
// not overlap: checkout and checkin on the same day is allowed.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
    return s1.Before(e2) && s2.Before(e1)
}

// DateOf strips the time-of-day component, returning midnight UTC of the
// calendar date t falls on.  All guard comparisons happen on these
// normalized dates.
func DateOf(t time.Time) time.Time {
    y, m, d := t.UTC().Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Guard wraps every booking write with the marketplace rules: owners cannot
// book their own spots, ranges must be well-formed and conflict-free, and
// bookings stop being editable once their window has started.  The guard
// never consults the wall clock itself; callers pass the request time so
// behavior at date boundaries is deterministic.
type Guard struct {
    store Store
}

// NewGuard returns a Guard backed by the given store.
func NewGuard(store Store) *Guard {
    if store == nil {
        panic("nil store passed to NewGuard")
    }
    return &Guard{store: store}
}

// HasConflict reports whether the candidate range [start,end) overlaps any
// existing booking for the spot other than excludeID (0 = none).  The check
// is advisory when called outside a transaction; the write paths below
// re-run it inside one.
func (g *Guard) HasConflict(ctx context.Context, spotID uint64, start, end time.Time, excludeID uint64) (bool, error) {
    return hasConflict(ctx, g.store, spotID, start, end, excludeID)
}

func hasConflict(ctx context.Context, s Store, spotID uint64, start, end time.Time, excludeID uint64) (bool, error) {
    existing, err := s.ListBySpot(ctx, spotID, excludeID)
    if err != nil {
        return false, err
    }
    for _, b := range existing {
        if Overlaps(start, end, b.StartDate, b.EndDate) {
            return true, nil
        }
    }
    return false, nil
}

// Create books [start,end) on the spot for the requester.  Checks run in
// order and stop at the first failure: the spot must exist (ErrNotFound),
// the requester must not be its owner (ErrForbidden), the range must be
// well-formed (ErrInvalidRange) and free of conflicts (ErrConflict).  On
// success the persisted booking is returned.
func (g *Guard) Create(ctx context.Context, spotID, requesterID uint64, start, end time.Time) (*model.Booking, error) {
    start, end = DateOf(start), DateOf(end)
    var out *model.Booking
    err := g.store.InTx(ctx, func(s Store) error {
        spot, err := s.SpotByID(ctx, spotID)
        if err != nil {
            return err
        }
        if spot.OwnerID == requesterID {
            return ErrForbidden
        }
        if !end.After(start) {
            return ErrInvalidRange
        }
        conflict, err := hasConflict(ctx, s, spotID, start, end, 0)
        if err != nil {
            return err
        }
        if conflict {
            return ErrConflict
        }
        b := &model.Booking{
            SpotID:    spotID,
            UserID:    requesterID,
            StartDate: start,
            EndDate:   end,
        }
        if err := s.Insert(ctx, b); err != nil {
            return err
        }
        out = b
        return nil
    })
    if err != nil {
        return nil, err
    }
    return out, nil
}

// Update moves a booking to [newStart,newEnd).  Only the renter may edit
// their booking (ErrForbidden), and only while its current end date has not
// passed (ErrPastBooking).  The conflict check excludes the booking being
// edited so shrinking or shifting within its own range never conflicts with
// itself.  The updated booking is returned.
func (g *Guard) Update(ctx context.Context, bookingID, requesterID uint64, newStart, newEnd, now time.Time) (*model.Booking, error) {
    newStart, newEnd = DateOf(newStart), DateOf(newEnd)
    var out *model.Booking
    err := g.store.InTx(ctx, func(s Store) error {
        b, err := s.BookingByID(ctx, bookingID)
        if err != nil {
            return err
        }
        if b.UserID != requesterID {
            return ErrForbidden
        }
        if b.EndDate.Before(DateOf(now)) {
            return ErrPastBooking
        }
        if !newEnd.After(newStart) {
            return ErrInvalidRange
        }
        conflict, err := hasConflict(ctx, s, b.SpotID, newStart, newEnd, b.ID)
        if err != nil {
            return err
        }
        if conflict {
            return ErrConflict
        }
        if err := s.UpdateDates(ctx, b.ID, newStart, newEnd); err != nil {
            return err
        }
        b.StartDate, b.EndDate = newStart, newEnd
        out = b
        return nil
    })
    if err != nil {
        return nil, err
    }
    return out, nil
}

// Delete cancels a booking.  Both the renter and the spot's owner may
// delete it (ErrForbidden otherwise), but only before it starts: a booking
// whose start date is today or earlier can no longer be deleted
// (ErrAlreadyStarted).
func (g *Guard) Delete(ctx context.Context, bookingID, requesterID uint64, now time.Time) error {
    return g.store.InTx(ctx, func(s Store) error {
        b, err := s.BookingByID(ctx, bookingID)
        if err != nil {
            return err
        }
        spot, err := s.SpotByID(ctx, b.SpotID)
        if err != nil {
            return err
        }
        if b.UserID != requesterID && spot.OwnerID != requesterID {
            return ErrForbidden
        }
        if !b.StartDate.After(DateOf(now)) {
            return ErrAlreadyStarted
        }
        return s.Delete(ctx, b.ID)
    })
}
