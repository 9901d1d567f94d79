// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when a booking is successfully written.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type BookingCreatedEvent struct {
	EventID     string  `json:"event_id"`
	BookingID   uint64  `json:"booking_id"`
	SpotID      uint64  `json:"spot_id"`
	SpotName    string  `json:"spot_name"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	UserID      uint64  `json:"user_id"`
	UserEmail   string  `json:"user_email"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Nights      int     `json:"nights"`
	PricePerDay float64 `json:"price_per_day"`
	CreatedAt   string  `json:"created_at"`
}

// BookingCancelledEvent is published when a booking is deleted, either by
// the renter or by the spot owner.
type BookingCancelledEvent struct {
	EventID     string `json:"event_id"`
	BookingID   uint64 `json:"booking_id"`
	SpotID      uint64 `json:"spot_id"`
	UserID      uint64 `json:"user_id"`
	CancelledBy uint64 `json:"cancelled_by"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	CancelledAt string `json:"cancelled_at"`
}
