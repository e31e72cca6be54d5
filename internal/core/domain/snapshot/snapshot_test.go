package snapshot_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/snapshot"
)

func TestIsFresh_Boundary(t *testing.T) {
	written := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	for _, maxAge := range []time.Duration{time.Millisecond, 5 * time.Minute, 24 * time.Hour} {
		justBefore := time.UnixMilli(written + maxAge.Milliseconds() - 1)
		atBoundary := time.UnixMilli(written + maxAge.Milliseconds())
		assert.True(t, snapshot.IsFresh(written, maxAge, justBefore), "maxAge=%s", maxAge)
		assert.False(t, snapshot.IsFresh(written, maxAge, atBoundary), "maxAge=%s", maxAge)
	}
}

func TestIsFresh_MissingTimestampIsStale(t *testing.T) {
	now := time.Now()
	assert.False(t, snapshot.IsFresh(0, 24*time.Hour, now))
	assert.False(t, snapshot.IsFresh(-5, 24*time.Hour, now))
}

func TestParseTimestamp(t *testing.T) {
	ms, ok := snapshot.ParseTimestamp("1700000000000")
	require.True(t, ok)
	assert.Equal(t, int64(1700000000000), ms)

	for _, raw := range []string{"", "  ", "yesterday", "12.5", "-1", "0"} {
		_, ok := snapshot.ParseTimestamp(raw)
		assert.False(t, ok, "raw=%q", raw)
	}
}

func TestEntry_WrittenAt(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	e := snapshot.NewEntry([]string{"a"}, now)
	assert.Equal(t, now, e.WrittenAt())
	assert.True(t, snapshot.Entry[int]{}.WrittenAt().IsZero())
	assert.Equal(t, "1700000000123", snapshot.FormatTimestamp(e.WrittenAtMillis))
}

func TestLookup_Predicates(t *testing.T) {
	assert.True(t, snapshot.Lookup[int]{Status: snapshot.StatusHit}.Hit())
	assert.True(t, snapshot.Lookup[int]{Status: snapshot.StatusStale}.Usable())
	assert.False(t, snapshot.Miss[int]().Usable())
	assert.False(t, snapshot.Failed[int]().Hit())
}
