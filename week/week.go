// Package week maps dates onto the Sunday-anchored weeks used to name
// output folders.
package week

import (
	"fmt"
	"strings"
	"time"
)

// FolderLayout renders a week folder name (DD-MM-YY).
const FolderLayout = "02-01-06"

// Anchor selects which Sunday names a week.
type Anchor int

const (
	// Ending weeks run Monday to Sunday and are named for the closing Sunday.
	Ending Anchor = iota
	// Starting weeks run Sunday to Saturday and are named for the opening Sunday.
	Starting
)

// ParseAnchor accepts "ending" or "starting" (empty means ending).
func ParseAnchor(s string) (Anchor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ending", "end":
		return Ending, nil
	case "starting", "start":
		return Starting, nil
	}
	return Ending, fmt.Errorf("unknown week anchor %q (want ending or starting)", s)
}

func (a Anchor) String() string {
	if a == Starting {
		return "starting"
	}
	return "ending"
}

// Week is a seven-day span and the Sunday that names it.
type Week struct {
	Sunday time.Time
	Start  time.Time
	End    time.Time
	Anchor Anchor
}

// Folder is the output folder name for the week.
func (w Week) Folder() string {
	return w.Sunday.Format(FolderLayout)
}

// Day returns the date of weekday within the week.
func (w Week) Day(day time.Weekday) time.Time {
	if w.Anchor == Starting {
		return w.Sunday.AddDate(0, 0, int(day))
	}
	if day == time.Sunday {
		return w.Sunday
	}
	return w.Sunday.AddDate(0, 0, int(day)-7)
}

// Resolver derives weeks from dates. It reads nothing but its input.
type Resolver struct {
	Anchor Anchor
}

// Of returns the week containing d.
func (r Resolver) Of(d time.Time) Week {
	sunday := r.Sunday(d)
	w := Week{Sunday: sunday, Anchor: r.Anchor}
	if r.Anchor == Starting {
		w.Start, w.End = sunday, sunday.AddDate(0, 0, 6)
	} else {
		w.Start, w.End = sunday.AddDate(0, 0, -6), sunday
	}
	return w
}

// Sunday returns the anchor Sunday of the week containing d.
func (r Resolver) Sunday(d time.Time) time.Time {
	day := dateOnly(d)
	wd := int(day.Weekday())
	if r.Anchor == Starting {
		return day.AddDate(0, 0, -wd)
	}
	return day.AddDate(0, 0, (7-wd)%7)
}

// Folder returns the folder name for the week containing d.
func (r Resolver) Folder(d time.Time) string {
	return r.Sunday(d).Format(FolderLayout)
}

// dateOnly drops the time of day while keeping the calendar date as written,
// so the zone offset of d cannot move it across midnight.
func dateOnly(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// ParseWeekday accepts English weekday names in any case.
func ParseWeekday(name string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "monday":
		return time.Monday, true
	case "tuesday":
		return time.Tuesday, true
	case "wednesday":
		return time.Wednesday, true
	case "thursday":
		return time.Thursday, true
	case "friday":
		return time.Friday, true
	case "saturday":
		return time.Saturday, true
	case "sunday":
		return time.Sunday, true
	}
	return 0, false
}
