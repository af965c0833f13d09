package sqlite

import "time"

// Slot is one key-value pair of the durable store
type Slot struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
