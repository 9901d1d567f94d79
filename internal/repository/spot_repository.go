// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for CRUD and lookup operations on
// spots. A Spot is a listing that guests can book; listing responses carry
// two derived fields, the average review rating and the preview image URL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/roamstay/spot-booking/internal/model"
)

// ErrSpotNotFound is returned when a spot cannot be found in the DB.
var ErrSpotNotFound = errors.New("spot not found")

// SpotRepo encapsulates all database queries related to spots.  It depends
// on a sql.DB connection which should be configured elsewhere.
type SpotRepo struct {
	db *sql.DB
}

// NewSpotRepo constructs a SpotRepo with the provided DB handle.  This
// function allows dependency injection of the database in tests and at
// startup.
func NewSpotRepo(db *sql.DB) *SpotRepo {
	return &SpotRepo{db: db}
}

// SpotSummary is the listing shape returned for browse endpoints.  AvgRating
// is nil until the spot has at least one review; PreviewImage is nil until
// an image with the preview flag is uploaded.
type SpotSummary struct {
	ID           uint64    `json:"id"`
	OwnerID      uint64    `json:"owner_id"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	AvgRating    *float64  `json:"avg_rating"`
	PreviewImage *string   `json:"preview_image"`
}

// SpotImageInfo is the image shape embedded in spot detail responses.
type SpotImageInfo struct {
	ID      uint64 `json:"id"`
	URL     string `json:"url"`
	Preview bool   `json:"preview"`
}

// SpotOwnerInfo identifies the host on a spot detail response.  Email and
// password hash are deliberately not included.
type SpotOwnerInfo struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SpotDetail extends SpotSummary with the review count, all images and the
// owner's public info.  It is returned by the public spot detail endpoint.
type SpotDetail struct {
	SpotSummary
	NumReviews int             `json:"num_reviews"`
	Images     []SpotImageInfo `json:"images"`
	Owner      SpotOwnerInfo   `json:"owner"`
}

const spotSummarySelect = `SELECT s.id, s.owner_id, s.address, s.city, s.state, s.country,
              s.lat, s.lng, s.name, s.description, s.price, s.created_at, s.updated_at,
              AVG(r.stars),
              (SELECT si.url FROM spot_images si WHERE si.spot_id = s.id AND si.preview = 1 LIMIT 1)
       FROM spots s
       LEFT JOIN reviews r ON r.spot_id = s.id`

func scanSpotSummary(rows *sql.Rows) (SpotSummary, error) {
	var out SpotSummary
	var avg sql.NullFloat64
	var preview sql.NullString
	err := rows.Scan(
		&out.ID, &out.OwnerID, &out.Address, &out.City, &out.State, &out.Country,
		&out.Lat, &out.Lng, &out.Name, &out.Description, &out.Price, &out.CreatedAt, &out.UpdatedAt,
		&avg, &preview,
	)
	if err != nil {
		return out, err
	}
	if avg.Valid {
		v := avg.Float64
		out.AvgRating = &v
	}
	if preview.Valid {
		u := preview.String
		out.PreviewImage = &u
	}
	return out, nil
}

// Create inserts a new spot into the database.  On success the spot's ID
// field will be populated with the auto‑generated value.  After the insert,
// a SELECT is executed to populate the CreatedAt and UpdatedAt fields so
// that callers receive a fully populated record.
func (r *SpotRepo) Create(ctx context.Context, s *model.Spot) error {
	const qInsert = `INSERT INTO spots (owner_id, address, city, state, country, lat, lng, name, description, price)
	                 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		s.OwnerID, s.Address, s.City, s.State, s.Country, s.Lat, s.Lng, s.Name, s.Description, s.Price)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	const qSelect = `SELECT created_at, updated_at FROM spots WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, s.ID).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// GetByID fetches a spot by its ID regardless of owner.  It returns
// ErrSpotNotFound if no row is found.
func (r *SpotRepo) GetByID(ctx context.Context, id uint64) (*model.Spot, error) {
	const q = `SELECT id, owner_id, address, city, state, country, lat, lng, name, description, price, created_at, updated_at
	           FROM spots WHERE id = ?`
	var s model.Spot
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.OwnerID, &s.Address, &s.City, &s.State, &s.Country,
		&s.Lat, &s.Lng, &s.Name, &s.Description, &s.Price, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListAll returns summaries of every spot ordered by id.  It is used by the
// public browse endpoint to present available listings to guests.
func (r *SpotRepo) ListAll(ctx context.Context) ([]SpotSummary, error) {
	const q = spotSummarySelect + ` GROUP BY s.id ORDER BY s.id`
	return r.listSummaries(ctx, q)
}

// ListByOwner returns summaries of all spots listed by a specific owner
// ordered by id.
func (r *SpotRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]SpotSummary, error) {
	const q = spotSummarySelect + ` WHERE s.owner_id = ? GROUP BY s.id ORDER BY s.id`
	return r.listSummaries(ctx, q, ownerID)
}

func (r *SpotRepo) listSummaries(ctx context.Context, q string, args ...interface{}) ([]SpotSummary, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SpotSummary, 0)
	for rows.Next() {
		s, err := scanSpotSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDetail returns a single spot with its review aggregate, all images and
// the owner's public information.  It returns ErrSpotNotFound when the spot
// does not exist.
func (r *SpotRepo) GetDetail(ctx context.Context, id uint64) (*SpotDetail, error) {
	const q = `SELECT s.id, s.owner_id, s.address, s.city, s.state, s.country,
	                  s.lat, s.lng, s.name, s.description, s.price, s.created_at, s.updated_at,
	                  AVG(r.stars), COUNT(r.id),
	                  u.id, u.first_name, u.last_name
	           FROM spots s
	           LEFT JOIN reviews r ON r.spot_id = s.id
	           JOIN users u ON u.id = s.owner_id
	           WHERE s.id = ?
	           GROUP BY s.id, u.id`
	var det SpotDetail
	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&det.ID, &det.OwnerID, &det.Address, &det.City, &det.State, &det.Country,
		&det.Lat, &det.Lng, &det.Name, &det.Description, &det.Price, &det.CreatedAt, &det.UpdatedAt,
		&avg, &det.NumReviews,
		&det.Owner.ID, &det.Owner.FirstName, &det.Owner.LastName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}
	if avg.Valid {
		v := avg.Float64
		det.AvgRating = &v
	}
	det.Images = make([]SpotImageInfo, 0)
	const imgQ = `SELECT id, url, preview FROM spot_images WHERE spot_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, imgQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var img SpotImageInfo
		if err := rows.Scan(&img.ID, &img.URL, &img.Preview); err != nil {
			return nil, err
		}
		det.Images = append(det.Images, img)
		if img.Preview && det.PreviewImage == nil {
			u := img.URL
			det.PreviewImage = &u
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}

// Update replaces the editable fields of a spot if it belongs to the
// provided owner.  It returns ErrSpotNotFound when the spot does not exist
// and ErrForbidden when it is owned by a different user.
func (r *SpotRepo) Update(ctx context.Context, id, ownerID uint64, s *model.Spot) error {
	var dbOwnerID uint64
	if err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM spots WHERE id = ?`, id).Scan(&dbOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSpotNotFound
		}
		return err
	}
	if dbOwnerID != ownerID {
		return ErrForbidden
	}
	const q = `UPDATE spots
	           SET address = ?, city = ?, state = ?, country = ?, lat = ?, lng = ?,
	               name = ?, description = ?, price = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q,
		s.Address, s.City, s.State, s.Country, s.Lat, s.Lng, s.Name, s.Description, s.Price, id)
	return err
}

// DeleteByIDAndOwner removes a spot and all dependent records (bookings,
// reviews, review images and spot images) provided it belongs to the
// specified owner. If the spot does not exist, ErrSpotNotFound is returned.
// If the spot exists but is owned by a different user, ErrForbidden is
// returned. The deletion occurs within a transaction to maintain integrity.
func (r *SpotRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	// Verify spot exists and ownership
	var dbOwnerID uint64
	if err = tx.QueryRowContext(ctx, `SELECT owner_id FROM spots WHERE id = ?`, id).Scan(&dbOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrSpotNotFound
		}
		return err
	}
	if dbOwnerID != ownerID {
		err = ErrForbidden
		return err
	}
	// Cascade delete: review images for reviews of this spot
	if _, err = tx.ExecContext(ctx,
		`DELETE ri FROM review_images ri
		 JOIN reviews r ON r.id = ri.review_id
		 WHERE r.spot_id = ?`, id); err != nil {
		return err
	}
	// Delete reviews of this spot
	if _, err = tx.ExecContext(ctx, `DELETE FROM reviews WHERE spot_id = ?`, id); err != nil {
		return err
	}
	// Delete bookings on this spot
	if _, err = tx.ExecContext(ctx, `DELETE FROM bookings WHERE spot_id = ?`, id); err != nil {
		return err
	}
	// Delete the spot's images
	if _, err = tx.ExecContext(ctx, `DELETE FROM spot_images WHERE spot_id = ?`, id); err != nil {
		return err
	}
	// Finally delete the spot
	if _, err = tx.ExecContext(ctx, `DELETE FROM spots WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}
