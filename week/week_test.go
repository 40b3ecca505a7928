package week

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFolderEnding(t *testing.T) {
	r := Resolver{Anchor: Ending}

	tests := []struct {
		in   time.Time
		want string
	}{
		{date(2025, 12, 1), "07-12-25"},  // Monday
		{date(2025, 12, 3), "07-12-25"},  // Wednesday
		{date(2025, 12, 6), "07-12-25"},  // Saturday
		{date(2025, 12, 7), "07-12-25"},  // Sunday resolves to itself
		{date(2025, 12, 8), "14-12-25"},  // next Monday
		{date(2025, 5, 17), "18-05-25"},  // Saturday
		{date(2025, 12, 29), "04-01-26"}, // across the year end
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Folder(tt.in), tt.in.Format(time.DateOnly))
	}
}

func TestFolderStarting(t *testing.T) {
	r := Resolver{Anchor: Starting}

	tests := []struct {
		in   time.Time
		want string
	}{
		{date(2025, 12, 1), "30-11-25"}, // Monday → preceding Sunday
		{date(2025, 11, 30), "30-11-25"},
		{date(2025, 12, 6), "30-11-25"}, // Saturday still in the same week
		{date(2025, 12, 7), "07-12-25"}, // Saturday → Sunday starts a new week
		{date(2026, 1, 1), "28-12-25"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Folder(tt.in), tt.in.Format(time.DateOnly))
	}
}

func TestSameWeekSameFolder(t *testing.T) {
	for _, anchor := range []Anchor{Ending, Starting} {
		r := Resolver{Anchor: anchor}
		w := r.Of(date(2025, 6, 11))
		for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
			assert.Equal(t, w.Folder(), r.Folder(d), "%s %s", anchor, d.Format(time.DateOnly))
		}
		assert.NotEqual(t, w.Folder(), r.Folder(w.Start.AddDate(0, 0, -1)), anchor.String())
		assert.NotEqual(t, w.Folder(), r.Folder(w.End.AddDate(0, 0, 1)), anchor.String())
	}
}

func TestFolderIgnoresTimeOfDay(t *testing.T) {
	r := Resolver{}
	zone := time.FixedZone("UTC-11", -11*3600)
	late := time.Date(2025, 12, 6, 23, 59, 0, 0, zone)
	assert.Equal(t, r.Folder(date(2025, 12, 6)), r.Folder(late))
	assert.Equal(t, r.Folder(late), r.Folder(late), "deterministic")
}

func TestWeekDay(t *testing.T) {
	ending := Resolver{Anchor: Ending}.Of(date(2025, 5, 14))
	assert.Equal(t, date(2025, 5, 12), ending.Day(time.Monday))
	assert.Equal(t, date(2025, 5, 17), ending.Day(time.Saturday))
	assert.Equal(t, date(2025, 5, 18), ending.Day(time.Sunday))
	assert.Equal(t, ending.Start, ending.Day(time.Monday))
	assert.Equal(t, ending.End, ending.Day(time.Sunday))

	starting := Resolver{Anchor: Starting}.Of(date(2025, 5, 14))
	assert.Equal(t, date(2025, 5, 11), starting.Day(time.Sunday))
	assert.Equal(t, date(2025, 5, 12), starting.Day(time.Monday))
	assert.Equal(t, date(2025, 5, 17), starting.Day(time.Saturday))
	assert.Equal(t, starting.End, starting.Day(time.Saturday))
}

func TestParseAnchor(t *testing.T) {
	a, err := ParseAnchor("")
	require.NoError(t, err)
	assert.Equal(t, Ending, a)

	a, err = ParseAnchor("Starting")
	require.NoError(t, err)
	assert.Equal(t, Starting, a)

	_, err = ParseAnchor("monday")
	assert.Error(t, err)
}

func TestParseWeekday(t *testing.T) {
	d, ok := ParseWeekday(" WEDNESDAY ")
	require.True(t, ok)
	assert.Equal(t, time.Wednesday, d)

	_, ok = ParseWeekday("funday")
	assert.False(t, ok)
}
