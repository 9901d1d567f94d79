package model

import "time"

// User represents a registered account.  Every user can both list spots
// and book spots listed by others; there is no separate host role.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique login email, stored lower-cased.
//  PasswordHash – bcrypt hash of the password.
//  FirstName    – given name shown on reviews and bookings.
//  LastName     – family name shown on reviews and bookings.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    FirstName    string    // users.first_name
    LastName     string    // users.last_name
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
