package model

import "time"

// Booking reserves a date range on a spot for a renter.  Dates are
// calendar dates stored at midnight UTC with no time-of-day component.
// Ranges are half-open: a booking occupies the nights [StartDate,
// EndDate), so one guest may check out on the same day another checks
// in.  For a given spot no two bookings may overlap under that
// convention; EndDate is always strictly after StartDate.
//
// Fields:
//  ID        – primary key identifier.
//  SpotID    – spot being booked.
//  UserID    – renter who created the booking; never changes.
//  StartDate – check-in date (inclusive).
//  EndDate   – check-out date (exclusive).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Booking struct {
    ID        uint64    // bookings.id
    SpotID    uint64    // bookings.spot_id
    UserID    uint64    // bookings.user_id
    StartDate time.Time // bookings.start_date
    EndDate   time.Time // bookings.end_date
    CreatedAt time.Time // bookings.created_at
    UpdatedAt time.Time // bookings.updated_at
}
