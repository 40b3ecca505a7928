package template

import (
	"fmt"
	"time"

	"github.com/orayew2002/paperwork/domain"
	"github.com/orayew2002/paperwork/excel"
)

// CellDateLayout renders dates inside the sheet ("Monday 01/12/25").
const CellDateLayout = "Monday 02/01/06"

// ShortDateLayout renders the date column of overflow rows.
const ShortDateLayout = "02/01/06"

// Style is a formatting hint carried with a placement. The assembler turns
// it into a spreadsheet style; this package never does.
type Style int

const (
	StylePlain Style = iota
	StyleWrap
)

// Placement is one value bound for one cell.
type Placement struct {
	Field string
	Cell  excel.Ref
	Value string
	Style Style
}

// Field binds a scalar to one or more cells. Overlay fields are written
// after the groups and may cover a group cell on purpose.
type Field struct {
	Name    string
	Cells   []excel.Ref
	Style   Style
	Overlay bool
}

// Column places one member of a repeating row, RowOffset rows below the
// row's base.
type Column struct {
	Name      string
	Col       string
	RowOffset int
	Style     Style
}

// Ref returns the cell of this column for a row based at row (1-based).
func (c Column) Ref(row int) excel.Ref {
	return excel.At(c.Col, row+c.RowOffset)
}

// Region is a block of repeating rows: entry i starts at BaseRow+i*Stride.
type Region struct {
	BaseRow  int
	Stride   int
	Capacity int
}

// Row returns the 1-based base row of entry i.
func (r Region) Row(i int) int {
	return r.BaseRow + i*r.Stride
}

// Group is a repeating set of columns with an inline region and an
// optional overflow region.
type Group struct {
	Name     string
	Columns  []Column
	Inline   Region
	Overflow *Region
}

// Limit is the total number of entries the group holds.
func (g Group) Limit() int {
	limit := g.Inline.Capacity
	if g.Overflow != nil {
		limit += g.Overflow.Capacity
	}
	return limit
}

// Locate returns the base row of entry i and whether it overflowed. Overflow
// entries are numbered from zero within the overflow region.
func (g Group) Locate(i int) (row int, overflow bool, err error) {
	if i < g.Inline.Capacity {
		return g.Inline.Row(i), false, nil
	}
	j := i - g.Inline.Capacity
	if g.Overflow != nil && j < g.Overflow.Capacity {
		return g.Overflow.Row(j), true, nil
	}
	return 0, false, &domain.CapacityError{Group: g.Name, Count: i + 1, Limit: g.Limit()}
}

// Column looks up a column by name.
func (g Group) Column(name string) (Column, bool) {
	for _, c := range g.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// SignatureAnchor is where a slot's image goes and the box it must fit.
type SignatureAnchor struct {
	Slot      domain.Slot
	Cell      excel.Ref
	MaxWidth  int
	MaxHeight int
}

// Layout is the cell map of one template generation.
type Layout interface {
	Document() domain.DocumentType
	TemplateFile() string
	Version() string
	Sheet() string
	Anchors() []SignatureAnchor
	Validate() error
}

type fieldSet []Field

func (fs fieldSet) lookup(name string) (Field, error) {
	for _, f := range fs {
		if f.Name == name {
			return f, nil
		}
	}
	return Field{}, &domain.FieldError{Field: name}
}

// placer accumulates placements and remembers the first mapping error.
type placer struct {
	fields fieldSet
	out    []Placement
	err    error
}

func (p *placer) scalar(name, value string) {
	if p.err != nil {
		return
	}
	f, err := p.fields.lookup(name)
	if err != nil {
		p.err = err
		return
	}
	for _, ref := range f.Cells {
		p.out = append(p.out, Placement{Field: name, Cell: ref, Value: value, Style: f.Style})
	}
}

func (p *placer) cell(field string, ref excel.Ref, value string, style Style) {
	if p.err != nil {
		return
	}
	p.out = append(p.out, Placement{Field: field, Cell: ref, Value: value, Style: style})
}

func (p *placer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *placer) result() ([]Placement, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.out, nil
}

// claims records which owner wrote each cell, for layout validation.
type claims map[excel.Ref]string

func (c claims) claim(ref excel.Ref, owner string) error {
	if prev, ok := c[ref]; ok && prev != owner {
		return fmt.Errorf("cell %s claimed by both %s and %s", ref, prev, owner)
	}
	c[ref] = owner
	return nil
}

func formatCellDate(t time.Time) string {
	return t.Format(CellDateLayout)
}
