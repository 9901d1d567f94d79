package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/roamstay/spot-booking/internal/booking"
	"github.com/roamstay/spot-booking/internal/model"
)

// dateLayout is how calendar dates appear in API responses.  Bookings carry
// no time-of-day component.
const dateLayout = "2006-01-02"

// queryer is the subset of database/sql shared by *sql.DB and *sql.Tx.  The
// booking store runs the same queries against either, which is how the
// conflict check and the following write end up on one snapshot.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// bookingStore implements the lookups and writes of booking.Store against a
// queryer.  When locking is set (inside a transaction) the spot row is read
// FOR UPDATE, which serializes concurrent booking writes on the same spot:
// two requests racing for overlapping dates cannot both pass the conflict
// check.
type bookingStore struct {
	q       queryer
	locking bool
}

// BookingRepo provides data access to the bookings table and satisfies
// booking.Store.  Reads issued outside InTx see the current committed data;
// the guard's write paths always go through InTx.
type BookingRepo struct {
	bookingStore
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{bookingStore: bookingStore{q: db}, db: db}
}

// InTx begins a transaction, hands fn a transaction-backed store and
// commits when fn returns nil.  Any error rolls the transaction back and is
// returned unchanged so sentinel comparisons in callers keep working.
func (r *BookingRepo) InTx(ctx context.Context, fn func(booking.Store) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&txStore{bookingStore{q: tx, locking: true}}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// txStore is the transaction-backed store handed to InTx callbacks.  Its
// own InTx simply reuses the open transaction; nesting does not start a new
// one.
type txStore struct {
	bookingStore
}

func (s *txStore) InTx(ctx context.Context, fn func(booking.Store) error) error {
	return fn(s)
}

// SpotByID loads a spot, returning booking.ErrNotFound when it does not
// exist.  Inside a transaction the row is locked for the duration.
func (s *bookingStore) SpotByID(ctx context.Context, id uint64) (*model.Spot, error) {
	q := `SELECT id, owner_id, address, city, state, country, lat, lng, name, description, price, created_at, updated_at
	      FROM spots WHERE id = ?`
	if s.locking {
		q += ` FOR UPDATE`
	}
	var sp model.Spot
	err := s.q.QueryRowContext(ctx, q, id).Scan(
		&sp.ID, &sp.OwnerID, &sp.Address, &sp.City, &sp.State, &sp.Country,
		&sp.Lat, &sp.Lng, &sp.Name, &sp.Description, &sp.Price, &sp.CreatedAt, &sp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return &sp, nil
}

// BookingByID loads a booking, returning booking.ErrNotFound when it does
// not exist.
func (s *bookingStore) BookingByID(ctx context.Context, id uint64) (*model.Booking, error) {
	q := `SELECT id, spot_id, user_id, start_date, end_date, created_at, updated_at
	      FROM bookings WHERE id = ?`
	if s.locking {
		q += ` FOR UPDATE`
	}
	var b model.Booking
	err := s.q.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.SpotID, &b.UserID, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListBySpot returns every booking for a spot ordered by start date,
// skipping excludeID when non-zero.
func (s *bookingStore) ListBySpot(ctx context.Context, spotID, excludeID uint64) ([]model.Booking, error) {
	q := `SELECT id, spot_id, user_id, start_date, end_date, created_at, updated_at
	      FROM bookings WHERE spot_id = ?`
	args := []interface{}{spotID}
	if excludeID != 0 {
		q += ` AND id <> ?`
		args = append(args, excludeID)
	}
	q += ` ORDER BY start_date`
	rows, err := s.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.SpotID, &b.UserID, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Insert persists a new booking and populates its ID and timestamps.
func (s *bookingStore) Insert(ctx context.Context, b *model.Booking) error {
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO bookings (spot_id, user_id, start_date, end_date) VALUES (?, ?, ?, ?)`,
		b.SpotID, b.UserID, b.StartDate, b.EndDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return s.q.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM bookings WHERE id = ?`, b.ID).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

// UpdateDates replaces a booking's date range.
func (s *bookingStore) UpdateDates(ctx context.Context, id uint64, start, end time.Time) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE bookings SET start_date = ?, end_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		start, end, id)
	return err
}

// Delete removes a booking permanently.
func (s *bookingStore) Delete(ctx context.Context, id uint64) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	return err
}

// BookingSpotInfo summarizes the booked spot inside a renter's booking
// listing.
type BookingSpotInfo struct {
	ID           uint64   `json:"id"`
	OwnerID      uint64   `json:"owner_id"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Country      string   `json:"country"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	PreviewImage *string  `json:"preview_image"`
}

// BookingDetail is a booking with its spot summary, returned by ListByUser
// for the renter's own listing.
type BookingDetail struct {
	ID        uint64          `json:"id"`
	SpotID    uint64          `json:"spot_id"`
	UserID    uint64          `json:"user_id"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Spot      BookingSpotInfo `json:"spot"`
}

// ListByUser returns all bookings created by the given user along with the
// booked spot's summary and preview image, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.spot_id, b.user_id, b.start_date, b.end_date, b.created_at, b.updated_at,
	                  s.id, s.owner_id, s.address, s.city, s.state, s.country, s.lat, s.lng, s.name, s.price,
	                  (SELECT si.url FROM spot_images si WHERE si.spot_id = s.id AND si.preview = 1 LIMIT 1)
	           FROM bookings b
	           JOIN spots s ON s.id = b.spot_id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var start, end time.Time
		var preview sql.NullString
		if err := rows.Scan(
			&d.ID, &d.SpotID, &d.UserID, &start, &end, &d.CreatedAt, &d.UpdatedAt,
			&d.Spot.ID, &d.Spot.OwnerID, &d.Spot.Address, &d.Spot.City, &d.Spot.State, &d.Spot.Country,
			&d.Spot.Lat, &d.Spot.Lng, &d.Spot.Name, &d.Spot.Price,
			&preview,
		); err != nil {
			return nil, err
		}
		d.StartDate = start.UTC().Format(dateLayout)
		d.EndDate = end.UTC().Format(dateLayout)
		if preview.Valid {
			u := preview.String
			d.Spot.PreviewImage = &u
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// SpotBookingDates is the dates-only shape non-owners see when listing a
// spot's bookings: enough to know which nights are taken, nothing about who
// took them.
type SpotBookingDates struct {
	SpotID    uint64 `json:"spot_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// OwnerBookingDetail is the full record the spot owner sees, including the
// renter's public identity.
type OwnerBookingDetail struct {
	ID        uint64       `json:"id"`
	SpotID    uint64       `json:"spot_id"`
	UserID    uint64       `json:"user_id"`
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Renter    ReviewAuthor `json:"renter"`
}

// ListDatesBySpot returns the occupied date ranges of a spot ordered by
// start date.  Used for non-owner callers.
func (r *BookingRepo) ListDatesBySpot(ctx context.Context, spotID uint64) ([]SpotBookingDates, error) {
	const q = `SELECT spot_id, start_date, end_date FROM bookings WHERE spot_id = ? ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, q, spotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SpotBookingDates, 0)
	for rows.Next() {
		var d SpotBookingDates
		var start, end time.Time
		if err := rows.Scan(&d.SpotID, &start, &end); err != nil {
			return nil, err
		}
		d.StartDate = start.UTC().Format(dateLayout)
		d.EndDate = end.UTC().Format(dateLayout)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBySpotForOwner returns every booking on a spot with renter identity,
// ordered by start date.  Authorization (caller owns the spot) is the
// handler's responsibility.
func (r *BookingRepo) ListBySpotForOwner(ctx context.Context, spotID uint64) ([]OwnerBookingDetail, error) {
	const q = `SELECT b.id, b.spot_id, b.user_id, b.start_date, b.end_date, b.created_at, b.updated_at,
	                  u.id, u.first_name, u.last_name
	           FROM bookings b
	           JOIN users u ON u.id = b.user_id
	           WHERE b.spot_id = ?
	           ORDER BY b.start_date`
	rows, err := r.db.QueryContext(ctx, q, spotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]OwnerBookingDetail, 0)
	for rows.Next() {
		var d OwnerBookingDetail
		var start, end time.Time
		if err := rows.Scan(
			&d.ID, &d.SpotID, &d.UserID, &start, &end, &d.CreatedAt, &d.UpdatedAt,
			&d.Renter.ID, &d.Renter.FirstName, &d.Renter.LastName,
		); err != nil {
			return nil, err
		}
		d.StartDate = start.UTC().Format(dateLayout)
		d.EndDate = end.UTC().Format(dateLayout)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
