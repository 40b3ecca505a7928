package template

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orayew2002/paperwork/domain"
	"github.com/orayew2002/paperwork/week"
)

func load(customer string) domain.LoadEntry {
	return domain.LoadEntry{
		Customer:   customer,
		CarCount:   "2",
		Collection: "wbac maidstone",
		Delivery:   "btt yard",
	}
}

func sampleTimesheet() *domain.TimesheetRequest {
	return &domain.TimesheetRequest{
		WeekEnding:       domain.NewDate(2025, 5, 18),
		Driver:           "Craig Example",
		FleetRegs:        domain.FleetRegs{"Y6BTT", "zz1234", "y6btt"},
		StartMileage:     "12000",
		EndMileage:       "12050",
		WeeklyTotalHours: "16.5",
		Days: []domain.DayEntry{
			{Day: "Monday", StartTime: "07:00", FinishTime: "16:00", TotalHours: "9", Loads: []domain.LoadEntry{
				{Customer: "wbac", CarCount: "2", Collection: "wbac maidstone", Delivery: "btt yard", Note: "docs onboard"},
			}},
			{Day: "tuesday", StartTime: "08:00", FinishTime: "14:30", TotalHours: "7.5"},
		},
	}
}

func timesheetCells(t *testing.T, l *TimesheetLayout, req *domain.TimesheetRequest) map[string]Placement {
	t.Helper()
	w := week.Resolver{Anchor: week.Ending}.Of(req.WeekEnding.Time)
	cells, err := l.Cells(req, w)
	require.NoError(t, err)
	return byCell(cells)
}

func TestTimesheetScalars(t *testing.T) {
	got := timesheetCells(t, DefaultTimesheet(0, 0), sampleTimesheet())

	tests := []struct {
		cell, want string
	}{
		{"K3", "CRAIG EXAMPLE"},
		{"E5", "Sunday 18/05/25"},
		{"K5", "Y6BTT, ZZ1234"},
		{"H4", "12000"},
		{"H5", "12050"},
		{"J29", "16.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, got[tt.cell].Value, tt.cell)
	}
}

func TestTimesheetWeeklyTotalOnlyWhenSupplied(t *testing.T) {
	req := sampleTimesheet()
	req.WeeklyTotalHours = ""
	got := timesheetCells(t, DefaultTimesheet(0, 0), req)
	_, ok := got["J29"]
	assert.False(t, ok)
}

func TestTimesheetDayCells(t *testing.T) {
	got := timesheetCells(t, DefaultTimesheet(0, 0), sampleTimesheet())

	tests := []struct {
		cell, want string
	}{
		{"H8", "07:00"},
		{"I8", "16:00"},
		{"J8", "9"},
		{"C8", "WBAC"},
		{"D8", "2"},
		{"E8", "WBAC MAIDSTONE"},
		{"F8", "BTT YARD"},
		{"G8", "DOCS ONBOARD"},
		{"H11", "08:00"},
		{"I11", "14:30"},
		{"J11", "7.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, got[tt.cell].Value, tt.cell)
	}
	_, ok := got["C11"]
	assert.False(t, ok, "tuesday had no loads")
}

func TestTimesheetThreeLoadsInline(t *testing.T) {
	req := sampleTimesheet()
	req.Days = []domain.DayEntry{{Day: "Wednesday", Loads: []domain.LoadEntry{load("a"), load("b"), load("c")}}}

	got := timesheetCells(t, DefaultTimesheet(0, 0), req)
	assert.Equal(t, "A", got["C14"].Value)
	assert.Equal(t, "B", got["C15"].Value)
	assert.Equal(t, "C", got["C16"].Value)
	_, ok := got["C29"]
	assert.False(t, ok, "nothing overflowed")
}

func TestTimesheetFourthLoadOverflows(t *testing.T) {
	l := DefaultTimesheet(0, 0)
	req := sampleTimesheet()
	req.Days = []domain.DayEntry{{Day: "Wednesday", Loads: []domain.LoadEntry{load("a"), load("b"), load("c"), load("d")}}}

	got := timesheetCells(t, l, req)
	// overflow index 0, not inline index 3
	assert.Equal(t, "D", got["C29"].Value)
	assert.Equal(t, "days[0].loads[3].customer", got["C29"].Field)
	assert.Equal(t, "14/05/25", got["B29"].Value)
	_, ok := got["C17"]
	assert.False(t, ok, "row 17 belongs to thursday")

	group, ok := l.DayGroup(3)
	require.True(t, ok)
	row, overflow, err := group.Locate(3)
	require.NoError(t, err)
	assert.True(t, overflow)
	assert.Equal(t, 29, row)
}

func TestTimesheetOverflowSharedAcrossDaysInOrder(t *testing.T) {
	req := sampleTimesheet()
	req.Days = []domain.DayEntry{
		{Day: "Monday", Loads: []domain.LoadEntry{load("m1"), load("m2"), load("m3"), load("m4"), load("m5")}},
		{Day: "Friday", Loads: []domain.LoadEntry{load("f1"), load("f2"), load("f3"), domain.MessageLoad("late")}},
	}

	got := timesheetCells(t, DefaultTimesheet(0, 0), req)
	assert.Equal(t, "M4", got["C29"].Value)
	assert.Equal(t, "12/05/25", got["B29"].Value)
	assert.Equal(t, "M5", got["C30"].Value)
	assert.Equal(t, "LATE", got["C31"].Value)
	assert.Equal(t, "16/05/25", got["B31"].Value)
	_, ok := got["D31"]
	assert.False(t, ok, "message rows leave the other columns alone")
}

func TestTimesheetMessageRow(t *testing.T) {
	req := sampleTimesheet()
	req.Days = []domain.DayEntry{{Day: "Thursday", Loads: []domain.LoadEntry{domain.MessageLoad("sick"), load("x")}}}

	cells, err := DefaultTimesheet(0, 0).Cells(req, week.Resolver{}.Of(req.WeekEnding.Time))
	require.NoError(t, err)

	var row17 []Placement
	for _, p := range cells {
		if p.Cell.Row == 16 && p.Cell.Col >= 2 && p.Cell.Col <= 6 {
			row17 = append(row17, p)
		}
	}
	require.Len(t, row17, 1)
	assert.Equal(t, "C17", row17[0].Cell.Name())
	assert.Equal(t, "SICK", row17[0].Value)
	assert.Equal(t, "days[0].loads[0].message", row17[0].Field)

	assert.Equal(t, "X", byCell(cells)["C18"].Value)
}

func TestTimesheetDayMarker(t *testing.T) {
	req := sampleTimesheet()
	req.Days = []domain.DayEntry{{Day: "Saturday", StartTime: "holiday", TotalHours: "8"}}

	got := timesheetCells(t, DefaultTimesheet(0, 0), req)
	assert.Equal(t, "HOLIDAY", got["H23"].Value)
	assert.Equal(t, "HOLIDAY", got["I23"].Value)
	assert.Equal(t, "0", got["J23"].Value)
}

func TestTimesheetOverflowCapacity(t *testing.T) {
	req := sampleTimesheet()
	var loads []domain.LoadEntry
	for i := 0; i < 3+DefaultOverflowRows+1; i++ {
		loads = append(loads, load("x"))
	}
	req.Days = []domain.DayEntry{{Day: "Monday", Loads: loads}}

	_, err := DefaultTimesheet(0, 0).Cells(req, week.Resolver{}.Of(req.WeekEnding.Time))
	require.Error(t, err)

	var capErr *domain.CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, DefaultOverflowRows+1, capErr.Count)
	assert.Equal(t, DefaultOverflowRows, capErr.Limit)
}

func TestTimesheetInvalidDays(t *testing.T) {
	l := DefaultTimesheet(0, 0)
	w := week.Resolver{}.Of(domain.NewDate(2025, 5, 18).Time)

	req := sampleTimesheet()
	req.Days = []domain.DayEntry{{Day: "Funday"}}
	_, err := l.Cells(req, w)
	assert.True(t, errors.Is(err, domain.ErrInvalidMappingField))

	req.Days = []domain.DayEntry{{Day: "Monday"}, {Day: "MONDAY"}}
	_, err = l.Cells(req, w)
	assert.True(t, errors.Is(err, domain.ErrInvalidMappingField))

	l.Days = l.Days[:5]
	req.Days = []domain.DayEntry{{Day: "Sunday"}}
	_, err = l.Cells(req, w)
	assert.True(t, errors.Is(err, domain.ErrInvalidMappingField))
}

func TestTimesheetLayoutValidate(t *testing.T) {
	require.NoError(t, DefaultTimesheet(0, 0).Validate())

	l := DefaultTimesheet(4, 0) // monday's fourth row is tuesday's first
	assert.Error(t, l.Validate())

	l = DefaultTimesheet(0, 0)
	l.Overflow.BaseRow = 26
	assert.Error(t, l.Validate())
}

func TestRegistry(t *testing.T) {
	r, err := NewDefault(Capacities{})
	require.NoError(t, err)

	ls, err := r.Loadsheet()
	require.NoError(t, err)
	assert.Equal(t, LoadsheetVersion, ls.Version())
	assert.Len(t, ls.Anchors(), 2)

	ts, err := r.Timesheet()
	require.NoError(t, err)
	assert.Equal(t, "timesheet.xlsx", ts.TemplateFile())

	_, err = r.Lookup("invoice")
	assert.True(t, errors.Is(err, domain.ErrInvalidMappingField))

	_, err = NewDefault(Capacities{InlineLoads: 5})
	assert.Error(t, err)
}
