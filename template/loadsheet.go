package template

import (
	"fmt"
	"strings"

	"github.com/orayew2002/paperwork/domain"
	"github.com/orayew2002/paperwork/excel"
)

// LoadsheetVersion identifies the loadsheet template generation this
// layout describes. Bump it together with any template edit.
const LoadsheetVersion = "loadsheet/v1"

// DefaultCarCapacity is the number of car blocks on the v1 template.
const DefaultCarCapacity = 8

// LoadsheetLayout maps a LoadsheetRequest onto the loadsheet template.
type LoadsheetLayout struct {
	File       string
	Rev        string
	SheetName  string
	Fields     []Field
	Cars       Group
	Signatures []SignatureAnchor
}

// DefaultLoadsheet returns the v1 layout with room for carCapacity cars.
func DefaultLoadsheet(carCapacity int) *LoadsheetLayout {
	if carCapacity <= 0 {
		carCapacity = DefaultCarCapacity
	}
	return &LoadsheetLayout{
		File: "loadsheet.xlsx",
		Rev:  LoadsheetVersion,
		Fields: []Field{
			{Name: "load_date", Cells: []excel.Ref{excel.MustParse("C6"), excel.MustParse("C46"), excel.MustParse("H46")}},
			{Name: "load_number", Cells: []excel.Ref{excel.MustParse("G6")}},
			{Name: "fleet_reg", Cells: []excel.Ref{excel.MustParse("C7")}},
			{Name: "collection_point", Cells: []excel.Ref{excel.MustParse("B9")}},
			{Name: "delivery_point", Cells: []excel.Ref{excel.MustParse("F9")}},
			// The notes block repeats every car note, so it may cover the
			// last car's note cell.
			{Name: "notes", Cells: []excel.Ref{excel.MustParse("C39")}, Style: StyleWrap, Overlay: true},
		},
		Cars: Group{
			Name: "cars",
			Columns: []Column{
				{Name: "offloaded", Col: "E"},
				{Name: "docs", Col: "G"},
				{Name: "spare_keys", Col: "I"},
				{Name: "make_model", Col: "B", RowOffset: 1},
				{Name: "car_notes", Col: "C", RowOffset: 1},
				{Name: "reg", Col: "B", RowOffset: 3},
			},
			Inline: Region{BaseRow: 10, Stride: 4, Capacity: carCapacity},
		},
		Signatures: []SignatureAnchor{
			{Slot: domain.Sig1, Cell: excel.MustParse("C42"), MaxWidth: 180, MaxHeight: 60},
			{Slot: domain.Sig2, Cell: excel.MustParse("H42"), MaxWidth: 180, MaxHeight: 60},
		},
	}
}

func (l *LoadsheetLayout) Document() domain.DocumentType { return domain.Loadsheet }
func (l *LoadsheetLayout) TemplateFile() string          { return l.File }
func (l *LoadsheetLayout) Version() string               { return l.Rev }
func (l *LoadsheetLayout) Sheet() string                 { return l.SheetName }
func (l *LoadsheetLayout) Anchors() []SignatureAnchor    { return l.Signatures }

// Validate checks that no two car blocks or fields share a cell.
func (l *LoadsheetLayout) Validate() error {
	c := claims{}
	for _, f := range l.Fields {
		if f.Overlay {
			continue
		}
		for _, ref := range f.Cells {
			if err := c.claim(ref, f.Name); err != nil {
				return fmt.Errorf("%s: %w", l.Rev, err)
			}
		}
	}
	for i := 0; i < l.Cars.Limit(); i++ {
		row, _, err := l.Cars.Locate(i)
		if err != nil {
			return err
		}
		owner := fmt.Sprintf("cars[%d]", i)
		for _, col := range l.Cars.Columns {
			if err := c.claim(col.Ref(row), owner); err != nil {
				return fmt.Errorf("%s: %w", l.Rev, err)
			}
		}
	}
	return nil
}

// Cells maps req onto the layout. Capacity is checked before anything is
// placed; unused car blocks are blanked.
func (l *LoadsheetLayout) Cells(req *domain.LoadsheetRequest) ([]Placement, error) {
	if n := len(req.Cars); n > l.Cars.Limit() {
		return nil, &domain.CapacityError{Group: l.Cars.Name, Count: n, Limit: l.Cars.Limit()}
	}

	p := &placer{fields: l.Fields}

	date := formatCellDate(req.LoadDate.Time)
	p.scalar("load_date", date)
	p.scalar("load_number", req.LoadNumber)
	p.scalar("fleet_reg", strings.ToUpper(req.FleetReg))
	p.scalar("collection_point", strings.ToUpper(req.CollectionPoint))
	p.scalar("delivery_point", strings.ToUpper(req.DeliveryPoint))

	for i := 0; i < l.Cars.Limit(); i++ {
		row, _, err := l.Cars.Locate(i)
		if err != nil {
			p.fail(err)
			break
		}
		for _, col := range l.Cars.Columns {
			field := fmt.Sprintf("cars[%d].%s", i, col.Name)
			value := ""
			if i < len(req.Cars) {
				v, err := carValue(req.Cars[i], col.Name)
				if err != nil {
					p.fail(err)
					break
				}
				value = v
			}
			p.cell(field, col.Ref(row), value, col.Style)
		}
	}

	p.scalar("notes", notesBlock(req))

	return p.result()
}

func carValue(car domain.CarEntry, column string) (string, error) {
	switch column {
	case "reg":
		return strings.ToUpper(car.Reg), nil
	case "make_model":
		return strings.ToUpper(car.MakeModel), nil
	case "offloaded":
		return strings.ToUpper(string(car.Offloaded)), nil
	case "docs":
		return strings.ToUpper(string(car.Docs)), nil
	case "spare_keys":
		return strings.ToUpper(string(car.SpareKeys)), nil
	case "car_notes":
		return strings.ToUpper(car.Notes), nil
	}
	return "", &domain.FieldError{Field: "cars." + column, Reason: "no car attribute for layout column"}
}

// notesBlock joins the caller's summary, the load notes and every car note,
// one per line.
func notesBlock(req *domain.LoadsheetRequest) string {
	var lines []string
	if s := strings.TrimSpace(req.Summary); s != "" {
		lines = append(lines, s)
	}
	if s := strings.TrimSpace(req.LoadNotes); s != "" {
		lines = append(lines, s)
	}
	for _, car := range req.Cars {
		if s := strings.TrimSpace(car.Notes); s != "" {
			lines = append(lines, s)
		}
	}
	return strings.ToUpper(strings.Join(lines, "\n"))
}
