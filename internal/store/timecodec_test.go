package store

import (
	"testing"
	"time"
)

func TestDecodeTimestampEpoch(t *testing.T) {
	got := DecodeTimestamp(0)
	want := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DecodeTimestamp(0) = %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", got.Location())
	}
}

func TestDecodeTimestampSubSecond(t *testing.T) {
	got := DecodeTimestamp(1_500_000_000)
	want := time.Date(2001, time.January, 1, 0, 0, 1, 500_000_000, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DecodeTimestamp(1.5s) = %v, want %v", got, want)
	}
}

func TestDecodeTimestampMonotonic(t *testing.T) {
	ticks := []int64{
		-1_000_000_000, -1, 0, 1, 999_999_999, 1_000_000_000,
		600_000_000_000_000_000, 700_000_000_123_456_789,
	}
	for i := 1; i < len(ticks); i++ {
		prev, cur := DecodeTimestamp(ticks[i-1]), DecodeTimestamp(ticks[i])
		if !cur.After(prev) {
			t.Errorf("DecodeTimestamp(%d) = %v not after DecodeTimestamp(%d) = %v", ticks[i], cur, ticks[i-1], prev)
		}
	}
}

func TestDecodeTimestampDeterministic(t *testing.T) {
	const ticks = 654_321_987_654_321_000
	if a, b := DecodeTimestamp(ticks), DecodeTimestamp(ticks); !a.Equal(b) {
		t.Errorf("DecodeTimestamp not deterministic: %v vs %v", a, b)
	}
}
