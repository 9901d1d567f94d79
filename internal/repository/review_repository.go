package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/roamstay/spot-booking/internal/model"
)

// ErrReviewNotFound is returned when a review cannot be found in the DB.
var ErrReviewNotFound = errors.New("review not found")

// ReviewRepo provides CRUD operations for reviews and assembles the
// denormalized shapes the API returns: a review listed under a spot carries
// its author's public name, and a review listed under a user carries a
// summary of the reviewed spot.  Review images are attached in both cases.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// ReviewAuthor is the public identity of a review's author.
type ReviewAuthor struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ReviewImageInfo is the image shape embedded in review responses.
type ReviewImageInfo struct {
	ID  uint64 `json:"id"`
	URL string `json:"url"`
}

// ReviewDetail is a review with its author and images, returned when
// listing the reviews of a spot.
type ReviewDetail struct {
	ID        uint64            `json:"id"`
	SpotID    uint64            `json:"spot_id"`
	UserID    uint64            `json:"user_id"`
	Review    string            `json:"review"`
	Stars     int               `json:"stars"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	User      ReviewAuthor      `json:"user"`
	Images    []ReviewImageInfo `json:"images"`
}

// UserReviewDetail is a review with the reviewed spot's summary, returned
// when listing the current user's own reviews.
type UserReviewDetail struct {
	ID        uint64            `json:"id"`
	SpotID    uint64            `json:"spot_id"`
	UserID    uint64            `json:"user_id"`
	Review    string            `json:"review"`
	Stars     int               `json:"stars"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	SpotName  string            `json:"spot_name"`
	SpotCity  string            `json:"spot_city"`
	Images    []ReviewImageInfo `json:"images"`
}

// Create inserts a new review.  The reviews table has a unique index on
// (spot_id, user_id); a duplicate insert is mapped to ErrDuplicateReview.
// On success the generated ID and timestamps are populated on the record.
func (r *ReviewRepo) Create(ctx context.Context, rev *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (spot_id, user_id, review, stars) VALUES (?, ?, ?, ?)`,
		rev.SpotID, rev.UserID, rev.Review, rev.Stars)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateReview
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM reviews WHERE id = ?`, rev.ID).
		Scan(&rev.CreatedAt, &rev.UpdatedAt)
}

// GetByID fetches a review by id.  It returns ErrReviewNotFound when no row
// exists.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	const q = `SELECT id, spot_id, user_id, review, stars, created_at, updated_at FROM reviews WHERE id = ?`
	var rev model.Review
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&rev.ID, &rev.SpotID, &rev.UserID, &rev.Review, &rev.Stars, &rev.CreatedAt, &rev.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// ListBySpot returns all reviews for a spot with author names and images,
// newest first.  When the spot has no reviews an empty slice is returned.
func (r *ReviewRepo) ListBySpot(ctx context.Context, spotID uint64) ([]ReviewDetail, error) {
	const q = `SELECT r.id, r.spot_id, r.user_id, r.review, r.stars, r.created_at, r.updated_at,
	                  u.id, u.first_name, u.last_name
	           FROM reviews r
	           JOIN users u ON u.id = r.user_id
	           WHERE r.spot_id = ?
	           ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, spotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReviewDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d ReviewDetail
		if err := rows.Scan(
			&d.ID, &d.SpotID, &d.UserID, &d.Review, &d.Stars, &d.CreatedAt, &d.UpdatedAt,
			&d.User.ID, &d.User.FirstName, &d.User.LastName,
		); err != nil {
			return nil, err
		}
		d.Images = make([]ReviewImageInfo, 0)
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	if err := r.attachImages(ctx, index, func(i int, img ReviewImageInfo) {
		details[i].Images = append(details[i].Images, img)
	}); err != nil {
		return nil, err
	}
	return details, nil
}

// ListByUser returns all reviews written by a user along with a summary of
// each reviewed spot, newest first.
func (r *ReviewRepo) ListByUser(ctx context.Context, userID uint64) ([]UserReviewDetail, error) {
	const q = `SELECT r.id, r.spot_id, r.user_id, r.review, r.stars, r.created_at, r.updated_at,
	                  s.name, s.city
	           FROM reviews r
	           JOIN spots s ON s.id = r.spot_id
	           WHERE r.user_id = ?
	           ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]UserReviewDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d UserReviewDetail
		if err := rows.Scan(
			&d.ID, &d.SpotID, &d.UserID, &d.Review, &d.Stars, &d.CreatedAt, &d.UpdatedAt,
			&d.SpotName, &d.SpotCity,
		); err != nil {
			return nil, err
		}
		d.Images = make([]ReviewImageInfo, 0)
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	if err := r.attachImages(ctx, index, func(i int, img ReviewImageInfo) {
		details[i].Images = append(details[i].Images, img)
	}); err != nil {
		return nil, err
	}
	return details, nil
}

// attachImages loads images for all reviews named in index with a single
// query and hands each one to append via the callback.
func (r *ReviewRepo) attachImages(ctx context.Context, index map[uint64]int, appendFn func(int, ReviewImageInfo)) error {
	ids := make([]interface{}, 0, len(index))
	placeholders := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
		placeholders = append(placeholders, "?")
	}
	q := `SELECT review_id, id, url FROM review_images
	      WHERE review_id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY review_id, id`
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var rid uint64
		var img ReviewImageInfo
		if err := rows.Scan(&rid, &img.ID, &img.URL); err != nil {
			return err
		}
		if i, ok := index[rid]; ok {
			appendFn(i, img)
		}
	}
	return rows.Err()
}

// Update replaces the text and stars of a review.  The caller is expected
// to have verified ownership via GetByID first.
func (r *ReviewRepo) Update(ctx context.Context, id uint64, text string, stars int) error {
	const q = `UPDATE reviews SET review = ?, stars = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, text, stars, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// Delete removes a review and its images within a transaction.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
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
	if _, err = tx.ExecContext(ctx, `DELETE FROM review_images WHERE review_id = ?`, id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	return err
}
