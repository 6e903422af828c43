package readings

import "time"

// Reading is one meter reading: a timezone-aware instant plus the storage key
// of the uploaded photo. Records are created through the service, never
// mutated afterwards, and live only for the process lifetime.
type Reading struct {
	ID        int       `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	ImageKey  string    `json:"image_key"`
}
