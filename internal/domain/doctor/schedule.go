package doctor

import (
	"fmt"

	"github.com/pharmadesk/pharmadesk/pkg/timeofday"
)

// ConflictResult is the outcome of checking a candidate entry against
// a doctor's existing schedule.
type ConflictResult struct {
	Conflict bool   `json:"conflict"`
	Message  string `json:"message,omitempty"`
}

// CheckConflict decides whether cand overlaps any existing entry on the
// same weekday. Comparison runs at hour granularity: minutes are
// discarded by Hour24. An entry conflicts when its start or end hour
// equals the candidate's, or when the candidate's start or end falls
// strictly inside the entry. The first conflicting entry wins.
//
// Two shapes intentionally pass: a candidate that fully contains an
// existing entry, and a candidate starting exactly at an existing
// entry's end hour. Both are known gaps carried over from the behavior
// this replaces; fixing them silently would change stored schedules.
func CheckConflict(existing []WorkingScheduleEntry, cand WorkingScheduleEntry) ConflictResult {
	cs := timeofday.Hour24(cand.StartTime)
	ce := timeofday.Hour24(cand.EndTime)

	for _, e := range existing {
		if e.Day != cand.Day {
			continue
		}
		es := timeofday.Hour24(e.StartTime)
		ee := timeofday.Hour24(e.EndTime)

		if cs == es || ce == ee || (es < cs && cs < ee) || (es < ce && ce < ee) {
			return ConflictResult{
				Conflict: true,
				Message:  fmt.Sprintf("conflict with existing schedule %d-%d", es, ee),
			}
		}
	}
	return ConflictResult{}
}

// RemoveScheduleEntry returns existing without any entry structurally
// equal to target on all three fields. No conflict checking applies to
// removal.
func RemoveScheduleEntry(existing []WorkingScheduleEntry, target WorkingScheduleEntry) []WorkingScheduleEntry {
	out := make([]WorkingScheduleEntry, 0, len(existing))
	for _, e := range existing {
		if e == target {
			continue
		}
		out = append(out, e)
	}
	return out
}

// IsWithinSchedule reports whether some entry covers the given day and
// time, inclusive on both hour boundaries.
func IsWithinSchedule(schedule []WorkingScheduleEntry, day int, timeOfDay string) bool {
	h := timeofday.Hour24(timeOfDay)
	for _, e := range schedule {
		if e.Day != day {
			continue
		}
		if timeofday.Hour24(e.StartTime) <= h && h <= timeofday.Hour24(e.EndTime) {
			return true
		}
	}
	return false
}
