package domain

import "time"

// Lot groups boletos under a unit, keyed by a normalized 4-character
// zero-padded name ("17" imports as "0017").
type Lot struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
