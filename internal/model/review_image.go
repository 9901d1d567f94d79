package model

import "time"

// ReviewImage is a photo attached to a review.  A review holds at most
// ten images; the handler enforces the cap before inserting.
type ReviewImage struct {
    ID        uint64    // review_images.id
    ReviewID  uint64    // review_images.review_id
    URL       string    // review_images.url
    CreatedAt time.Time // review_images.created_at
}
