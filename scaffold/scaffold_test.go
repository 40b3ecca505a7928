package scaffold

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/orayew2002/paperwork/template"
)

func TestBuildLoadsheet(t *testing.T) {
	f, err := Build(template.DefaultLoadsheet(0))
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	title, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "LOADSHEET (loadsheet/v1)", title)

	for cell, want := range map[string]string{
		"A6":  "load date / load number",
		"A10": "Car 1",
		"A38": "Car 8",
		"A42": "Signature",
	} {
		got, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}

	style, err := f.GetCellStyle(sheet, "B13")
	require.NoError(t, err)
	assert.NotZero(t, style, "car reg cell is bordered")
}

func TestBuildTimesheetMergesDriver(t *testing.T) {
	f, err := Build(template.DefaultTimesheet(0, 0))
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	merges, err := f.GetMergeCells(sheet)
	require.NoError(t, err)
	require.Len(t, merges, 1)
	assert.Equal(t, "K3", merges[0].GetStartAxis())
	assert.Equal(t, "M3", merges[0].GetEndAxis())

	monday, err := f.GetCellValue(sheet, "A8")
	require.NoError(t, err)
	assert.Equal(t, "Monday", monday)

	overflow, err := f.GetCellValue(sheet, "A34")
	require.NoError(t, err)
	assert.Equal(t, "Overflow", overflow)
}

func TestBuildNamedSheet(t *testing.T) {
	l := template.DefaultLoadsheet(0)
	l.SheetName = "Load"

	f, err := Build(l)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Load"}, f.GetSheetList())
}

func TestInitDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "templates")
	reg, err := template.NewDefault(template.Capacities{})
	require.NoError(t, err)

	written, err := InitDir(reg, dir, false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "loadsheet.xlsx"),
		filepath.Join(dir, "timesheet.xlsx"),
	}, written)

	f, err := excelize.OpenFile(written[0])
	require.NoError(t, err)
	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, template.LoadsheetVersion, props.Identifier)
	require.NoError(t, f.Close())

	written, err = InitDir(reg, dir, false)
	require.NoError(t, err)
	assert.Empty(t, written, "existing templates are kept")

	written, err = InitDir(reg, dir, true)
	require.NoError(t, err)
	assert.Len(t, written, 2)
}

func horizontal(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	id, err := f.GetCellStyle(sheet, cell)
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, style.Alignment, cell)
	return style.Alignment.Horizontal
}

func TestBuildCentersFlagsAndTimes(t *testing.T) {
	ls, err := Build(template.DefaultLoadsheet(0))
	require.NoError(t, err)
	defer ls.Close()
	sheet := ls.GetSheetName(0)
	assert.Equal(t, "center", horizontal(t, ls, sheet, "E10"), "offloaded")
	assert.Equal(t, "center", horizontal(t, ls, sheet, "I38"), "spare keys, car 8")
	assert.Equal(t, "left", horizontal(t, ls, sheet, "B13"), "reg")

	ts, err := Build(template.DefaultTimesheet(0, 0))
	require.NoError(t, err)
	defer ts.Close()
	sheet = ts.GetSheetName(0)
	for _, cell := range []string{"H8", "I8", "J26", "B29"} {
		assert.Equal(t, "center", horizontal(t, ts, sheet, cell), cell)
	}
	for _, cell := range []string{"C8", "C10", "G28"} {
		assert.Equal(t, "left", horizontal(t, ts, sheet, cell), cell)
	}
}
