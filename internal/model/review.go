package model

import "time"

// Review is a guest's rating of a spot.  Each user may review a given
// spot at most once.  Stars is an integer from 1 to 5; the average of
// all stars for a spot is reported as its rating in listing responses.
//
// Fields:
//  ID        – primary key identifier.
//  SpotID    – spot being reviewed.
//  UserID    – author of the review.
//  Review    – free-form review text.
//  Stars     – rating from 1 to 5.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Review struct {
    ID        uint64    // reviews.id
    SpotID    uint64    // reviews.spot_id
    UserID    uint64    // reviews.user_id
    Review    string    // reviews.review
    Stars     int       // reviews.stars
    CreatedAt time.Time // reviews.created_at
    UpdatedAt time.Time // reviews.updated_at
}
