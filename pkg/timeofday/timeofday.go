// Package timeofday parses 12-hour clock strings ("9:00 AM") into comparable
// hour values. Minutes are discarded on conversion; every schedule comparison
// in the system runs at hour granularity through Hour24.
package timeofday

import (
	"regexp"
	"strconv"
	"strings"
)

// ClockPattern matches a well-formed 12-hour clock string. Exported so
// validation rule tables can reuse it.
var ClockPattern = regexp.MustCompile(`(?i)^([0]?[1-9]|1[0-2]):([0-5]\d)\s?(AM|PM)$`)

// IsValid reports whether s is a well-formed 12-hour clock string.
// "13:00", "9:60 AM" and "9:00" are all rejected; "9:00am" is accepted.
func IsValid(s string) bool {
	return ClockPattern.MatchString(s)
}

// Hour24 converts a 12-hour clock string to a 24-hour hour value.
// Hour 12 maps to 12 regardless of meridiem ("12:30 AM" -> 12); otherwise PM
// adds 12. Callers must validate with IsValid first; malformed input returns 0.
func Hour24(s string) int {
	m := ClockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	hour, _ := strconv.Atoi(m[1])
	if hour == 12 {
		return 12
	}
	if strings.EqualFold(m[3], "PM") {
		return hour + 12
	}
	return hour
}
