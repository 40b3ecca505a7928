package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DocumentType selects a template and its cell layout.
type DocumentType string

const (
	Loadsheet DocumentType = "loadsheet"
	Timesheet DocumentType = "timesheet"
)

// Title is the capitalised name used in status messages.
func (t DocumentType) Title() string {
	switch t {
	case Loadsheet:
		return "Loadsheet"
	case Timesheet:
		return "Timesheet"
	}
	return string(t)
}

// DateLayout is the wire format of every date in a payload.
const DateLayout = "2006-01-02"

// Date is a calendar date decoded from "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses s in DateLayout.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("date must be in YYYY-MM-DD format: %w", err)
	}
	return Date{t}, nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// Text is a free-form cell value that accepts JSON strings and numbers.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*t = Text(n.String())
	return nil
}

// String returns the value with surrounding whitespace removed.
func (t Text) String() string {
	return strings.TrimSpace(string(t))
}

// Flag is a Y/N marker as printed on the loadsheet.
type Flag string

// Yes reports whether the flag is set.
func (f Flag) Yes() bool {
	return strings.EqualFold(strings.TrimSpace(string(f)), "Y")
}

func (f Flag) valid() bool {
	switch strings.ToUpper(strings.TrimSpace(string(f))) {
	case "Y", "N":
		return true
	}
	return false
}

// CarEntry is one vehicle on a loadsheet.
type CarEntry struct {
	Reg       string `json:"reg"`
	MakeModel string `json:"make_model"`
	Offloaded Flag   `json:"offloaded"`
	Docs      Flag   `json:"docs"`
	SpareKeys Flag   `json:"spare_keys"`
	Notes     string `json:"car_notes"`
}

// UnmarshalJSON applies the paper defaults: not offloaded, no docs,
// spare keys present.
func (c *CarEntry) UnmarshalJSON(b []byte) error {
	type plain CarEntry
	raw := plain{Offloaded: "N", Docs: "N", SpareKeys: "Y"}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*c = CarEntry(raw)
	return nil
}

// LoadsheetRequest is the payload for one loadsheet.
type LoadsheetRequest struct {
	LoadDate        Date       `json:"load_date"`
	LoadNumber      string     `json:"load_number"`
	CollectionPoint string     `json:"collection_point"`
	DeliveryPoint   string     `json:"delivery_point"`
	FleetReg        string     `json:"fleet_reg"`
	LoadNotes       string     `json:"load_notes"`
	Summary         string     `json:"summary,omitempty"`
	Sig1            Signature  `json:"sig1"`
	Sig2            Signature  `json:"sig2"`
	Cars            []CarEntry `json:"cars"`
	IncludePDF      *bool      `json:"include_pdf,omitempty"`
}

// WantsPDF reports whether the caller asked for a PDF (default yes).
func (r *LoadsheetRequest) WantsPDF() bool {
	return r.IncludePDF == nil || *r.IncludePDF
}

// LoadEntry is one row of a timesheet day: either a normal load or a
// free-text message such as "SICK".
type LoadEntry struct {
	Customer   string `json:"customer,omitempty"`
	CarCount   Text   `json:"car_count,omitempty"`
	Collection string `json:"collection,omitempty"`
	Delivery   string `json:"delivery,omitempty"`
	Note       string `json:"note,omitempty"`
	Message    string `json:"message,omitempty"`
}

// MessageLoad returns the message variant of a LoadEntry.
func MessageLoad(msg string) LoadEntry {
	return LoadEntry{Message: msg}
}

// IsMessage reports whether the entry renders as a single message row.
func (l LoadEntry) IsMessage() bool {
	return strings.TrimSpace(l.Message) != ""
}

func (l *LoadEntry) UnmarshalJSON(b []byte) error {
	type plain LoadEntry
	var raw struct {
		plain
		CustomNote string `json:"custom_note"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*l = LoadEntry(raw.plain)
	if l.Note == "" {
		l.Note = raw.CustomNote
	}
	return nil
}

// DayEntry is one weekday row of a timesheet.
type DayEntry struct {
	Day        string      `json:"day"`
	StartTime  Text        `json:"start_time"`
	FinishTime Text        `json:"finish_time"`
	TotalHours Text        `json:"total_hours"`
	Loads      []LoadEntry `json:"loads"`
}

// FleetRegs holds fleet registrations, decoded from a string or a list and
// normalised to uppercase with blanks dropped.
type FleetRegs []string

func (f *FleetRegs) UnmarshalJSON(b []byte) error {
	var list []string
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		list = []string{s}
	} else if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("fleet_reg must be a string or list of strings")
	}
	*f = NormalizeRegs(list)
	return nil
}

// NormalizeRegs uppercases regs and drops blank entries.
func NormalizeRegs(regs []string) FleetRegs {
	out := make(FleetRegs, 0, len(regs))
	for _, reg := range regs {
		reg = strings.ToUpper(strings.TrimSpace(reg))
		if reg != "" {
			out = append(out, reg)
		}
	}
	return out
}

// TimesheetRequest is the payload for one weekly timesheet.
type TimesheetRequest struct {
	WeekEnding       Date       `json:"week_ending"`
	Driver           string     `json:"driver"`
	FleetRegs        FleetRegs  `json:"fleet_reg"`
	StartMileage     Text       `json:"start_mileage"`
	EndMileage       Text       `json:"end_mileage"`
	WeeklyTotalHours Text       `json:"weekly_total_hours,omitempty"`
	Days             []DayEntry `json:"days"`
	IncludePDF       *bool      `json:"include_pdf,omitempty"`
}

// UnmarshalJSON accepts week_end_date as an alias of week_ending.
func (r *TimesheetRequest) UnmarshalJSON(b []byte) error {
	type plain TimesheetRequest
	var raw struct {
		plain
		WeekEndDate Date `json:"week_end_date"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = TimesheetRequest(raw.plain)
	if r.WeekEnding.IsZero() {
		r.WeekEnding = raw.WeekEndDate
	}
	return nil
}

// WantsPDF reports whether the caller asked for a PDF (default yes).
func (r *TimesheetRequest) WantsPDF() bool {
	return r.IncludePDF == nil || *r.IncludePDF
}
