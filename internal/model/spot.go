package model

import "time"

// Spot is a rentable location listed by its owner.  Guests book date
// ranges on a spot; the owner may view those bookings but never edit
// them.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – user who listed the spot.
//  Address     – street address.
//  City        – city name.
//  State       – state or region.
//  Country     – country name.
//  Lat, Lng    – geographic coordinates.
//  Name        – short display name of the listing.
//  Description – free-form description shown on the detail page.
//  Price       – nightly price; informational only, there is no payment flow.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Spot struct {
    ID          uint64    // spots.id
    OwnerID     uint64    // spots.owner_id
    Address     string    // spots.address
    City        string    // spots.city
    State       string    // spots.state
    Country     string    // spots.country
    Lat         float64   // spots.lat
    Lng         float64   // spots.lng
    Name        string    // spots.name
    Description string    // spots.description
    Price       float64   // spots.price
    CreatedAt   time.Time // spots.created_at
    UpdatedAt   time.Time // spots.updated_at
}
