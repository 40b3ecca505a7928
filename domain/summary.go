package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// LoadSummary builds the summary line printed above the load notes, e.g.
// "2 CARS LOADED, 1 CARS HAVE DOCUMENTS AND HAVE BEEN PLACED ON THE
// PASSENGER SEAT, 2 CARS HAVE SPARE KEYS". The engine never calls it;
// callers use it to fill LoadsheetRequest.Summary.
func LoadSummary(cars []CarEntry) string {
	var loaded, docs, spare int
	for _, car := range cars {
		if !car.Offloaded.Yes() {
			loaded++
		}
		if car.Docs.Yes() {
			docs++
		}
		if car.SpareKeys.Yes() {
			spare++
		}
	}

	parts := []string{fmt.Sprintf("%d CARS LOADED", loaded)}
	if docs > 0 {
		parts = append(parts, fmt.Sprintf("%d CARS HAVE DOCUMENTS AND HAVE BEEN PLACED ON THE PASSENGER SEAT", docs))
	} else {
		parts = append(parts, "0 CARS HAVE DOCUMENTS")
	}
	parts = append(parts, fmt.Sprintf("%d CARS HAVE SPARE KEYS", spare))
	return strings.Join(parts, ", ")
}

// WeeklyHours sums the numeric day totals, skipping blanks and markers.
func WeeklyHours(days []DayEntry) string {
	total := 0.0
	for _, day := range days {
		v, err := strconv.ParseFloat(day.TotalHours.String(), 64)
		if err != nil {
			continue
		}
		total += v
	}
	return strconv.FormatFloat(total, 'f', -1, 64)
}

// FillDerived fills the fields callers are expected to supply when the
// payload left them empty.
func FillDerived(req any) {
	switch r := req.(type) {
	case *LoadsheetRequest:
		if strings.TrimSpace(r.Summary) == "" {
			r.Summary = LoadSummary(r.Cars)
		}
	case *TimesheetRequest:
		if r.WeeklyTotalHours.String() == "" {
			r.WeeklyTotalHours = Text(WeeklyHours(r.Days))
		}
	}
}
