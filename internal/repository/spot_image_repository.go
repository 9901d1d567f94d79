package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roamstay/spot-booking/internal/model"
)

// ErrSpotImageNotFound is returned when a spot image cannot be found.
var ErrSpotImageNotFound = errors.New("spot image not found")

// SpotImageRepo provides data access to the spot_images table.
type SpotImageRepo struct {
	db *sql.DB
}

// NewSpotImageRepo returns a new SpotImageRepo bound to the given database.
func NewSpotImageRepo(db *sql.DB) *SpotImageRepo { return &SpotImageRepo{db: db} }

// Create inserts an image row for a spot.  When the new image carries the
// preview flag, any previous preview on the same spot is cleared first so a
// spot never has two preview images.  Both statements run in a transaction.
func (r *SpotImageRepo) Create(ctx context.Context, img *model.SpotImage) error {
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
	if img.Preview {
		if _, err = tx.ExecContext(ctx,
			`UPDATE spot_images SET preview = 0 WHERE spot_id = ? AND preview = 1`,
			img.SpotID); err != nil {
			return err
		}
	}
	var res sql.Result
	res, err = tx.ExecContext(ctx,
		`INSERT INTO spot_images (spot_id, url, preview) VALUES (?, ?, ?)`,
		img.SpotID, img.URL, img.Preview)
	if err != nil {
		return err
	}
	var id int64
	id, err = res.LastInsertId()
	if err != nil {
		return err
	}
	img.ID = uint64(id)
	err = tx.QueryRowContext(ctx,
		`SELECT created_at FROM spot_images WHERE id = ?`, img.ID).Scan(&img.CreatedAt)
	return err
}

// GetWithOwner loads an image along with the owner of the spot it belongs
// to, so handlers can authorize deletions with a single query.  It returns
// ErrSpotImageNotFound when no such image exists.
func (r *SpotImageRepo) GetWithOwner(ctx context.Context, imageID uint64) (*model.SpotImage, uint64, error) {
	const q = `SELECT si.id, si.spot_id, si.url, si.preview, si.created_at, s.owner_id
	           FROM spot_images si
	           JOIN spots s ON s.id = si.spot_id
	           WHERE si.id = ?`
	var img model.SpotImage
	var ownerID uint64
	err := r.db.QueryRowContext(ctx, q, imageID).Scan(
		&img.ID, &img.SpotID, &img.URL, &img.Preview, &img.CreatedAt, &ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrSpotImageNotFound
		}
		return nil, 0, err
	}
	return &img, ownerID, nil
}

// Delete removes an image row by id.
func (r *SpotImageRepo) Delete(ctx context.Context, imageID uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM spot_images WHERE id = ?`, imageID)
	return err
}
