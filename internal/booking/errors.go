// Package booking enforces the date-conflict and lifecycle rules for spot
// bookings.  The sentinel errors below are the only failure kinds the guard
// produces for rule violations; handlers map each one to a distinct HTTP
// status.  Database errors pass through unwrapped.
package booking

import "errors"

// ErrNotFound is returned when the spot or booking named by the request
// does not exist.  Handlers should translate this into a 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the requester is not permitted to perform
// the operation: booking their own spot, or touching a booking they neither
// created nor host.  Handlers should translate this into a 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidRange is returned when the requested end date is not strictly
// after the start date.
var ErrInvalidRange = errors.New("end date must be after start date")

// ErrConflict is returned when the requested range overlaps an existing
// booking on the same spot.  Handlers should translate this into a 409
// response.
var ErrConflict = errors.New("spot is already booked for the specified dates")

// ErrPastBooking is returned from Update when the booking's current end
// date has already passed.
var ErrPastBooking = errors.New("past bookings can't be modified")

// ErrAlreadyStarted is returned from Delete when the booking's start date
// is today or earlier.
var ErrAlreadyStarted = errors.New("bookings that have started can't be deleted")
