// Package scaffold writes skeleton template workbooks straight from the
// layouts: every mapped cell bordered, rows labelled in column A, and the
// merged ranges the real templates carry. Operators replace them with the
// printed forms; tests use them as fixtures.
package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/orayew2002/paperwork/excel"
	"github.com/orayew2002/paperwork/processor"
	"github.com/orayew2002/paperwork/template"
)

const (
	defaultSheet = "Sheet1"
	labelCol     = "A"
)

// skeleton is what a layout needs on the sheet.
type skeleton struct {
	title    string
	cells    []excel.Ref
	centered map[excel.Ref]bool
	labels map[int][]string // 1-based row → labels
	merges [][2]string
	widths map[string]float64
}

func (s *skeleton) label(row int, text string) {
	for _, l := range s.labels[row] {
		if l == text {
			return
		}
	}
	s.labels[row] = append(s.labels[row], text)
}

// Build returns a new workbook laid out for l.
func Build(l template.Layout) (*excelize.File, error) {
	sk, err := describe(l)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := defaultSheet
	if name := l.Sheet(); name != "" && name != defaultSheet {
		if err := f.SetSheetName(defaultSheet, name); err != nil {
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
		sheet = name
	}

	if err := writeTitle(f, sheet, sk.title); err != nil {
		return nil, fmt.Errorf("write title: %w", err)
	}
	if err := writeLabels(f, sheet, sk.labels); err != nil {
		return nil, fmt.Errorf("write labels: %w", err)
	}
	if err := borderCells(f, sheet, sk.cells, sk.centered); err != nil {
		return nil, fmt.Errorf("border cells: %w", err)
	}
	for _, m := range sk.merges {
		if err := f.MergeCell(sheet, m[0], m[1]); err != nil {
			return nil, fmt.Errorf("merge %s:%s: %w", m[0], m[1], err)
		}
	}
	if err := setWidths(f, sheet, sk.widths); err != nil {
		return nil, fmt.Errorf("set widths: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:      l.Document().Title() + " template",
		Creator:    "paperwork",
		Identifier: l.Version(),
	}); err != nil {
		return nil, fmt.Errorf("set doc props: %w", err)
	}
	return f, nil
}

// WriteFile builds the skeleton for l and saves it to path.
func WriteFile(l template.Layout, path string) error {
	f, err := Build(l)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// InitDir writes a skeleton for every layout in r into dir, under each
// layout's template file name. Existing templates are left alone unless
// overwrite is set. It returns the paths written.
func InitDir(r *template.Registry, dir string, overwrite bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	var written []string
	for _, l := range r.Layouts() {
		path := filepath.Join(dir, l.TemplateFile())
		if !overwrite {
			if _, err := os.Stat(path); err == nil {
				continue
			} else if !errors.Is(err, fs.ErrNotExist) {
				return written, fmt.Errorf("stat %s: %w", path, err)
			}
		}
		if err := WriteFile(l, path); err != nil {
			return written, fmt.Errorf("%s: %w", l.Document(), err)
		}
		written = append(written, path)
	}
	return written, nil
}

func describe(l template.Layout) (*skeleton, error) {
	sk := &skeleton{
		title:    strings.ToUpper(l.Document().Title()) + " (" + l.Version() + ")",
		centered: map[excel.Ref]bool{},
		labels:   map[int][]string{},
		widths:   map[string]float64{labelCol: 16},
	}

	switch l := l.(type) {
	case *template.LoadsheetLayout:
		describeFields(sk, l.Fields)
		var flags []template.Column
		for _, name := range []string{"offloaded", "docs", "spare_keys"} {
			if col, ok := l.Cars.Column(name); ok {
				flags = append(flags, col)
			}
		}
		for i := 0; i < l.Cars.Limit(); i++ {
			row, _, err := l.Cars.Locate(i)
			if err != nil {
				return nil, err
			}
			sk.label(row, fmt.Sprintf("Car %d", i+1))
			for _, col := range l.Cars.Columns {
				sk.cells = append(sk.cells, col.Ref(row))
			}
			for _, col := range flags {
				sk.centered[col.Ref(row)] = true
			}
		}
		for _, a := range l.Signatures {
			sk.label(a.Cell.Row+1, "Signature")
		}
		sk.widths["B"], sk.widths["C"], sk.widths["F"] = 24, 30, 24

	case *template.TimesheetLayout:
		describeFields(sk, l.Fields)
		for _, d := range l.Days {
			sk.label(d.Row, d.Day.String())
			for _, col := range l.DayColumns {
				ref := col.Ref(d.Row)
				sk.cells = append(sk.cells, ref)
				sk.centered[ref] = true
			}
			for _, col := range l.LoadColumns {
				for i := 0; i < l.InlineLoads; i++ {
					sk.cells = append(sk.cells, col.Ref(d.Row).Down(i))
				}
			}
		}
		for j := 0; j < l.Overflow.Capacity; j++ {
			row := l.Overflow.Row(j)
			sk.label(row, "Overflow")
			date := l.OverflowDate.Ref(row)
			sk.cells = append(sk.cells, date)
			sk.centered[date] = true
			for _, col := range l.LoadColumns {
				sk.cells = append(sk.cells, col.Ref(row))
			}
		}
		// The printed form merges the driver name across three columns.
		for _, f := range l.Fields {
			if f.Name == "driver" && len(f.Cells) > 0 {
				start := f.Cells[0]
				sk.merges = append(sk.merges, [2]string{start.Name(), excel.Ref{Row: start.Row, Col: start.Col + 2}.Name()})
			}
		}
		sk.widths["C"], sk.widths["E"], sk.widths["F"], sk.widths["G"] = 20, 24, 24, 20

	default:
		return nil, fmt.Errorf("no skeleton for %T", l)
	}
	return sk, nil
}

func describeFields(sk *skeleton, fields []template.Field) {
	for _, f := range fields {
		for _, ref := range f.Cells {
			sk.label(ref.Row+1, strings.ReplaceAll(f.Name, "_", " "))
			sk.cells = append(sk.cells, ref)
		}
	}
}

func writeTitle(f *excelize.File, sheet, title string) error {
	styles := processor.NewStyleManager(f)
	style, err := styles.Header()
	if err != nil {
		return err
	}
	if err := f.SetCellStr(sheet, "A1", title); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", "A1", style)
}

func writeLabels(f *excelize.File, sheet string, labels map[int][]string) error {
	rows := make([]int, 0, len(labels))
	for row := range labels {
		rows = append(rows, row)
	}
	sort.Ints(rows)

	for _, row := range rows {
		cell := excel.At(labelCol, row).Name()
		if err := f.SetCellStr(sheet, cell, strings.Join(labels[row], " / ")); err != nil {
			return fmt.Errorf("label row %d: %w", row, err)
		}
	}
	return nil
}

// borderCells borders every mapped cell; flags, times and dates are centered.
func borderCells(f *excelize.File, sheet string, cells []excel.Ref, centered map[excel.Ref]bool) error {
	styles := processor.NewStyleManager(f)
	left, err := styles.Left()
	if err != nil {
		return err
	}
	center, err := styles.Centered()
	if err != nil {
		return err
	}
	for _, ref := range cells {
		style := left
		if centered[ref] {
			style = center
		}
		cell := ref.Name()
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("cell %s: %w", cell, err)
		}
	}
	return nil
}

func setWidths(f *excelize.File, sheet string, widths map[string]float64) error {
	for col, w := range widths {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}
