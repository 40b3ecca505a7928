package excel

import (
	"fmt"
	"strings"
)

// Ref addresses one cell by 0-based row and column.
type Ref struct {
	Row int
	Col int
}

// At builds a Ref from an Excel column name and a 1-based row ("B", 11 → B11).
func At(col string, row int) Ref {
	return Ref{Row: row - 1, Col: ColumnToIndex(col)}
}

// MustParse is Parse for literals known to be valid.
func MustParse(name string) Ref {
	ref, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return ref
}

// Parse converts an Excel reference ("C39", "$K$3") into a Ref.
func Parse(name string) (Ref, error) {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "$", ""))
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(s) {
		return Ref{}, fmt.Errorf("invalid cell reference %q", name)
	}
	row := 0
	for _, c := range s[i:] {
		if c < '0' || c > '9' {
			return Ref{}, fmt.Errorf("invalid cell reference %q", name)
		}
		row = row*10 + int(c-'0')
	}
	if row == 0 {
		return Ref{}, fmt.Errorf("invalid cell reference %q", name)
	}
	return Ref{Row: row - 1, Col: ColumnToIndex(s[:i])}, nil
}

// Down returns the ref n rows below r.
func (r Ref) Down(n int) Ref {
	return Ref{Row: r.Row + n, Col: r.Col}
}

// Name renders r in A1 notation.
func (r Ref) Name() string {
	return CellName(r.Row, r.Col)
}

func (r Ref) String() string {
	return r.Name()
}

// CellName converts 0-based row and column indices to an Excel cell reference (e.g. 0,0 → "A1").
func CellName(row, col int) string {
	return fmt.Sprintf("%s%d", IndexToColumn(col), row+1)
}

// IndexToColumn converts a 0-based column index to Excel column letters (0→A, 25→Z, 26→AA).
func IndexToColumn(n int) string {
	result := ""
	for n >= 0 {
		result = string(rune('A'+(n%26))) + result
		n = n/26 - 1
	}
	return result
}

// ColumnToIndex converts Excel column letters to a 0-based index (A→0, AA→26).
func ColumnToIndex(col string) int {
	n := 0
	for _, c := range strings.ToUpper(col) {
		n = n*26 + int(c-'A'+1)
	}
	return n - 1
}
