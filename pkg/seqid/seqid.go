// Package seqid builds timestamp-based record identifiers of the form
// "prefix_YYYYMMDDHHMMSSmmm". Successive calls spaced at least one
// millisecond apart yield lexicographically increasing values; collisions are
// only possible for concurrent calls within the same millisecond, which
// single-threaded request handlers never produce.
package seqid

import (
	"fmt"
	"regexp"
	"time"
)

// New returns a fresh identifier with the given prefix.
func New(prefix string) string {
	return At(prefix, time.Now())
}

var idShape = regexp.MustCompile(`^[a-z]+_\d{17}$`)

// Valid reports whether id has the prefix_YYYYMMDDHHMMSSmmm shape. When
// prefix is non-empty the id must carry exactly that prefix.
func Valid(id, prefix string) bool {
	if !idShape.MatchString(id) {
		return false
	}
	return prefix == "" || id[:len(id)-18] == prefix
}

// At returns the identifier for the given instant.
func At(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_%04d%02d%02d%02d%02d%02d%03d",
		prefix,
		t.Year(), int(t.Month()), t.Day(),
		t.Hour(), t.Minute(), t.Second(),
		t.Nanosecond()/1e6)
}
