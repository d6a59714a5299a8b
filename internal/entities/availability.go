package entities

import "time"

type AvailabilityRequest struct {
	Date     time.Time `json:"date"`
	Duration int       `json:"duration"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

// Slot is a half-open booking interval [Start, Start+Duration).
type Slot struct {
	Start    time.Time
	Duration int
}

func (s Slot) End() time.Time {
	return s.Start.Add(time.Duration(s.Duration) * time.Minute)
}

// Overlaps reports whether two slots share any instant.
func (s Slot) Overlaps(o Slot) bool {
	return s.Start.Before(o.End()) && o.Start.Before(s.End())
}
