// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by someone
// else, while ErrDuplicateReview signals that a user already reviewed
// a spot.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrDuplicateReview is returned when a user attempts a second review
// of the same spot. The reviews table carries a unique index on
// (spot_id, user_id). Handlers should translate this into an HTTP 409
// response.
var ErrDuplicateReview = errors.New("user already reviewed this spot")
