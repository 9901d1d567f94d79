package model

import "time"

// SpotImage is a photo attached to a spot.  At most one image per spot
// carries the Preview flag; that image is surfaced in listing responses.
type SpotImage struct {
    ID        uint64    // spot_images.id
    SpotID    uint64    // spot_images.spot_id
    URL       string    // spot_images.url
    Preview   bool      // spot_images.preview
    CreatedAt time.Time // spot_images.created_at
}
