package processor

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/orayew2002/paperwork/excel"
)

type mergeRange struct {
	start, end excel.Ref
}

func (m mergeRange) contains(r excel.Ref) bool {
	return r.Row >= m.start.Row && r.Row <= m.end.Row &&
		r.Col >= m.start.Col && r.Col <= m.end.Col
}

// mergeIndex lists the merged ranges of one sheet. Only the top-left cell
// of a merged range holds a value, so writes are redirected there.
type mergeIndex []mergeRange

func loadMerges(f *excelize.File, sheet string) (mergeIndex, error) {
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, fmt.Errorf("get merge cells: %w", err)
	}

	idx := make(mergeIndex, 0, len(merges))
	for _, mc := range merges {
		start, err := excel.Parse(mc.GetStartAxis())
		if err != nil {
			return nil, err
		}
		end, err := excel.Parse(mc.GetEndAxis())
		if err != nil {
			return nil, err
		}
		idx = append(idx, mergeRange{start: start, end: end})
	}
	return idx, nil
}

func (idx mergeIndex) topLeft(r excel.Ref) excel.Ref {
	for _, m := range idx {
		if m.contains(r) {
			return m.start
		}
	}
	return r
}
