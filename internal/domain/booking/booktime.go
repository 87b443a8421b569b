package booking

import (
	"strings"
	"time"
)

// ValidateBookingTime reports whether candidate lies strictly in the
// future relative to now. A booking at exactly now is rejected.
func ValidateBookingTime(candidate, now time.Time) bool {
	return candidate.After(now)
}

// DefaultSlotLabels returns the half-hour slot catalog, 9:00 AM through
// 5:00 PM. Labels render as "9:00 AM - 9:30 AM".
func DefaultSlotLabels() []string {
	base := time.Date(2000, 1, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2000, 1, 1, 17, 0, 0, 0, time.UTC)
	var labels []string
	for t := base; t.Before(end); t = t.Add(30 * time.Minute) {
		labels = append(labels, t.Format("3:04 PM")+" - "+t.Add(30*time.Minute).Format("3:04 PM"))
	}
	return labels
}

// SlotStart extracts the starting clock string from a slot label
// ("9:00 AM - 9:30 AM" yields "9:00 AM"). A label without the
// separator is returned unchanged.
func SlotStart(label string) string {
	start, _, _ := strings.Cut(label, " - ")
	return strings.TrimSpace(start)
}
