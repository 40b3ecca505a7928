package template

import (
	"fmt"
	"strings"
	"time"

	"github.com/orayew2002/paperwork/domain"
	"github.com/orayew2002/paperwork/excel"
	"github.com/orayew2002/paperwork/week"
)

// TimesheetVersion identifies the timesheet template generation.
const TimesheetVersion = "timesheet/v1"

const (
	DefaultInlineLoads  = 3
	DefaultOverflowRows = 6
)

// Day markers that blank out a whole day.
var dayMarkers = map[string]bool{"SICK": true, "HOLIDAY": true}

// DayRow is where one weekday starts on the sheet.
type DayRow struct {
	Day time.Weekday
	Row int
}

// TimesheetLayout maps a TimesheetRequest onto the timesheet template.
//
// Every day owns InlineLoads rows starting at its DayRow. Loads past that
// go to the Overflow region, which all days share in payload order; an
// overflow row also carries the day's date in OverflowDate.
type TimesheetLayout struct {
	File         string
	Rev          string
	SheetName    string
	Fields       []Field
	Days         []DayRow
	DayColumns   []Column
	LoadColumns  []Column
	Message      Column
	InlineLoads  int
	Overflow     Region
	OverflowDate Column
}

// DefaultTimesheet returns the v1 layout.
func DefaultTimesheet(inlineLoads, overflowRows int) *TimesheetLayout {
	if inlineLoads <= 0 {
		inlineLoads = DefaultInlineLoads
	}
	if overflowRows <= 0 {
		overflowRows = DefaultOverflowRows
	}
	return &TimesheetLayout{
		File: "timesheet.xlsx",
		Rev:  TimesheetVersion,
		Fields: []Field{
			{Name: "driver", Cells: []excel.Ref{excel.MustParse("K3")}},
			{Name: "week_ending", Cells: []excel.Ref{excel.MustParse("E5")}},
			{Name: "fleet_reg", Cells: []excel.Ref{excel.MustParse("K5")}},
			{Name: "start_mileage", Cells: []excel.Ref{excel.MustParse("H4")}},
			{Name: "end_mileage", Cells: []excel.Ref{excel.MustParse("H5")}},
			{Name: "weekly_total_hours", Cells: []excel.Ref{excel.MustParse("J29")}},
		},
		Days: []DayRow{
			{time.Monday, 8},
			{time.Tuesday, 11},
			{time.Wednesday, 14},
			{time.Thursday, 17},
			{time.Friday, 20},
			{time.Saturday, 23},
			{time.Sunday, 26},
		},
		DayColumns: []Column{
			{Name: "start_time", Col: "H"},
			{Name: "finish_time", Col: "I"},
			{Name: "total_hours", Col: "J"},
		},
		LoadColumns: []Column{
			{Name: "customer", Col: "C"},
			{Name: "car_count", Col: "D"},
			{Name: "collection", Col: "E"},
			{Name: "delivery", Col: "F"},
			{Name: "note", Col: "G"},
		},
		Message:      Column{Name: "message", Col: "C"},
		InlineLoads:  inlineLoads,
		Overflow:     Region{BaseRow: 29, Stride: 1, Capacity: overflowRows},
		OverflowDate: Column{Name: "date", Col: "B"},
	}
}

func (l *TimesheetLayout) Document() domain.DocumentType { return domain.Timesheet }
func (l *TimesheetLayout) TemplateFile() string          { return l.File }
func (l *TimesheetLayout) Version() string               { return l.Rev }
func (l *TimesheetLayout) Sheet() string                 { return l.SheetName }
func (l *TimesheetLayout) Anchors() []SignatureAnchor    { return nil }

// DayGroup returns the load group of one day: its inline rows plus the
// shared overflow region.
func (l *TimesheetLayout) DayGroup(day time.Weekday) (Group, bool) {
	row, ok := l.dayRow(day)
	if !ok {
		return Group{}, false
	}
	overflow := l.Overflow
	return Group{
		Name:     strings.ToLower(day.String()) + " loads",
		Columns:  l.LoadColumns,
		Inline:   Region{BaseRow: row, Stride: 1, Capacity: l.InlineLoads},
		Overflow: &overflow,
	}, true
}

func (l *TimesheetLayout) dayRow(day time.Weekday) (int, bool) {
	for _, d := range l.Days {
		if d.Day == day {
			return d.Row, true
		}
	}
	return 0, false
}

// Validate checks that days, their load rows, overflow rows and fields never
// share a cell.
func (l *TimesheetLayout) Validate() error {
	c := claims{}
	claim := func(ref excel.Ref, owner string) error {
		if err := c.claim(ref, owner); err != nil {
			return fmt.Errorf("%s: %w", l.Rev, err)
		}
		return nil
	}

	for _, f := range l.Fields {
		if f.Overlay {
			continue
		}
		for _, ref := range f.Cells {
			if err := claim(ref, f.Name); err != nil {
				return err
			}
		}
	}
	for _, d := range l.Days {
		name := strings.ToLower(d.Day.String())
		for _, col := range l.DayColumns {
			if err := claim(col.Ref(d.Row), name); err != nil {
				return err
			}
		}
		for i := 0; i < l.InlineLoads; i++ {
			row := d.Row + i
			owner := fmt.Sprintf("%s loads[%d]", name, i)
			cols := append(append([]Column{}, l.LoadColumns...), l.Message)
			for _, col := range cols {
				if err := claim(col.Ref(row), owner); err != nil {
					return err
				}
			}
		}
	}
	for j := 0; j < l.Overflow.Capacity; j++ {
		row := l.Overflow.Row(j)
		owner := fmt.Sprintf("overflow[%d]", j)
		for _, col := range append([]Column{l.OverflowDate, l.Message}, l.LoadColumns...) {
			if err := claim(col.Ref(row), owner); err != nil {
				return err
			}
		}
	}
	return nil
}

// Cells maps req onto the layout for the week w. Overflow capacity is
// checked before anything is placed.
func (l *TimesheetLayout) Cells(req *domain.TimesheetRequest, w week.Week) ([]Placement, error) {
	spill := 0
	for _, day := range req.Days {
		if n := len(day.Loads) - l.InlineLoads; n > 0 {
			spill += n
		}
	}
	if spill > l.Overflow.Capacity {
		return nil, &domain.CapacityError{Group: "overflow loads", Count: spill, Limit: l.Overflow.Capacity}
	}

	p := &placer{fields: l.Fields}

	p.scalar("driver", strings.ToUpper(req.Driver))
	p.scalar("week_ending", formatCellDate(w.End))
	p.scalar("fleet_reg", strings.Join(uniqueRegs(req.FleetRegs), ", "))
	p.scalar("start_mileage", req.StartMileage.String())
	p.scalar("end_mileage", req.EndMileage.String())
	if total := req.WeeklyTotalHours.String(); total != "" {
		p.scalar("weekly_total_hours", total)
	}

	next := 0
	seen := map[time.Weekday]bool{}
	for i, day := range req.Days {
		field := fmt.Sprintf("days[%d]", i)
		wd, ok := week.ParseWeekday(day.Day)
		if !ok {
			p.fail(&domain.FieldError{Field: field + ".day", Reason: fmt.Sprintf("unknown weekday %q", day.Day)})
			break
		}
		if seen[wd] {
			p.fail(&domain.FieldError{Field: field + ".day", Reason: fmt.Sprintf("%s appears twice", wd)})
			break
		}
		seen[wd] = true

		group, ok := l.DayGroup(wd)
		if !ok {
			p.fail(&domain.FieldError{Field: field + ".day", Reason: fmt.Sprintf("layout has no row for %s", wd)})
			break
		}

		l.placeDayTimes(p, field, group.Inline.BaseRow, day)

		for j, load := range day.Loads {
			loadField := fmt.Sprintf("%s.loads[%d]", field, j)
			var row int
			if j < l.InlineLoads {
				row = group.Inline.Row(j)
			} else {
				row = l.Overflow.Row(next)
				next++
				p.cell(loadField+".date", l.OverflowDate.Ref(row), w.Day(wd).Format(ShortDateLayout), l.OverflowDate.Style)
			}
			l.placeLoad(p, loadField, row, load)
		}
	}

	return p.result()
}

func (l *TimesheetLayout) placeDayTimes(p *placer, field string, row int, day domain.DayEntry) {
	start := day.StartTime.String()
	finish := day.FinishTime.String()
	total := day.TotalHours.String()

	if marker := dayMarker(start, finish); marker != "" {
		start, finish, total = marker, marker, "0"
	}

	values := map[string]string{"start_time": start, "finish_time": finish, "total_hours": total}
	for _, col := range l.DayColumns {
		v, ok := values[col.Name]
		if !ok {
			p.fail(&domain.FieldError{Field: field + "." + col.Name, Reason: "no day attribute for layout column"})
			return
		}
		p.cell(field+"."+col.Name, col.Ref(row), v, col.Style)
	}
}

// placeLoad writes a normal load across the load columns, or a message load
// into the message column alone.
func (l *TimesheetLayout) placeLoad(p *placer, field string, row int, load domain.LoadEntry) {
	if load.IsMessage() {
		p.cell(field+".message", l.Message.Ref(row), strings.ToUpper(strings.TrimSpace(load.Message)), l.Message.Style)
		return
	}

	values := map[string]string{
		"customer":   strings.ToUpper(load.Customer),
		"car_count":  load.CarCount.String(),
		"collection": strings.ToUpper(load.Collection),
		"delivery":   strings.ToUpper(load.Delivery),
		"note":       strings.ToUpper(strings.TrimSpace(load.Note)),
	}
	for _, col := range l.LoadColumns {
		v, ok := values[col.Name]
		if !ok {
			p.fail(&domain.FieldError{Field: field + "." + col.Name, Reason: "no load attribute for layout column"})
			return
		}
		if col.Name == "note" && v == "" {
			continue
		}
		p.cell(field+"."+col.Name, col.Ref(row), v, col.Style)
	}
}

func dayMarker(start, finish string) string {
	if s := strings.ToUpper(start); dayMarkers[s] {
		return s
	}
	if f := strings.ToUpper(finish); dayMarkers[f] {
		return f
	}
	return ""
}

func uniqueRegs(regs []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(regs))
	for _, reg := range regs {
		reg = strings.ToUpper(strings.TrimSpace(reg))
		if reg == "" || seen[reg] {
			continue
		}
		seen[reg] = true
		out = append(out, reg)
	}
	return out
}
