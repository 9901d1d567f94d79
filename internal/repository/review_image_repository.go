package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roamstay/spot-booking/internal/model"
)

// ErrReviewImageNotFound is returned when a review image cannot be found.
var ErrReviewImageNotFound = errors.New("review image not found")

// MaxImagesPerReview caps how many photos a single review may carry.
const MaxImagesPerReview = 10

// ReviewImageRepo provides data access to the review_images table.
type ReviewImageRepo struct {
	db *sql.DB
}

// NewReviewImageRepo returns a new ReviewImageRepo bound to the given database.
func NewReviewImageRepo(db *sql.DB) *ReviewImageRepo { return &ReviewImageRepo{db: db} }

// CountForReview returns how many images a review currently has.
func (r *ReviewImageRepo) CountForReview(ctx context.Context, reviewID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM review_images WHERE review_id = ?`, reviewID).Scan(&n)
	return n, err
}

// Create inserts an image row for a review and populates its generated
// fields. The per-review cap is enforced by the handler before calling.
func (r *ReviewImageRepo) Create(ctx context.Context, img *model.ReviewImage) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO review_images (review_id, url) VALUES (?, ?)`,
		img.ReviewID, img.URL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	img.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at FROM review_images WHERE id = ?`, img.ID).Scan(&img.CreatedAt)
}

// GetWithAuthor loads an image along with the author of the review it
// belongs to, so handlers can authorize deletions with a single query.
// It returns ErrReviewImageNotFound when no such image exists.
func (r *ReviewImageRepo) GetWithAuthor(ctx context.Context, imageID uint64) (*model.ReviewImage, uint64, error) {
	const q = `SELECT ri.id, ri.review_id, ri.url, ri.created_at, r.user_id
	           FROM review_images ri
	           JOIN reviews r ON r.id = ri.review_id
	           WHERE ri.id = ?`
	var img model.ReviewImage
	var authorID uint64
	err := r.db.QueryRowContext(ctx, q, imageID).Scan(
		&img.ID, &img.ReviewID, &img.URL, &img.CreatedAt, &authorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrReviewImageNotFound
		}
		return nil, 0, err
	}
	return &img, authorID, nil
}

// Delete removes an image row by id.
func (r *ReviewImageRepo) Delete(ctx context.Context, imageID uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM review_images WHERE id = ?`, imageID)
	return err
}
