package snapshot

import (
	"strconv"
	"strings"
	"time"
)

// Entry is a payload stamped with the wall-clock time it was written.
// A newer write supersedes an Entry; it is never updated in place.
type Entry[T any] struct {
	Payload         T     `json:"payload"`
	WrittenAtMillis int64 `json:"writtenAt"`
}

// NewEntry stamps payload with now.
func NewEntry[T any](payload T, now time.Time) Entry[T] {
	return Entry[T]{Payload: payload, WrittenAtMillis: now.UnixMilli()}
}

// WrittenAt returns the write time, or the zero time when the entry was never stamped.
func (e Entry[T]) WrittenAt() time.Time {
	if e.WrittenAtMillis <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(e.WrittenAtMillis)
}

// IsFresh reports whether an entry written at writtenAtMillis is younger than maxAge at now.
// A missing timestamp is never fresh.
func IsFresh(writtenAtMillis int64, maxAge time.Duration, now time.Time) bool {
	if writtenAtMillis <= 0 {
		return false
	}
	return now.UnixMilli()-writtenAtMillis < maxAge.Milliseconds()
}

// Age returns how long ago writtenAtMillis was at now.
func Age(writtenAtMillis int64, now time.Time) time.Duration {
	return time.Duration(now.UnixMilli()-writtenAtMillis) * time.Millisecond
}

// FormatTimestamp renders millis the way timestamps are persisted.
func FormatTimestamp(millis int64) string {
	return strconv.FormatInt(millis, 10)
}

// ParseTimestamp parses a persisted timestamp. Blank or malformed input is reported as absent.
func ParseTimestamp(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms <= 0 {
		return 0, false
	}
	return ms, true
}
