package grid

import "strings"

// Selection is an ordered pair of cell positions (spec §4.B "Selection
// model"). Rows are absolute within the combined scrollback+viewport
// coordinate space: 0 is the oldest scrollback row.
type Selection struct {
	StartRow, StartCol int
	EndRow, EndCol     int
}

// SetSelection installs a normalized (start-before-end) selection.
func (g *Grid) SetSelection(aRow, aCol, bRow, bCol int) {
	sel := Selection{StartRow: aRow, StartCol: aCol, EndRow: bRow, EndCol: bCol}
	if sel.StartRow > sel.EndRow || (sel.StartRow == sel.EndRow && sel.StartCol > sel.EndCol) {
		sel.StartRow, sel.EndRow = sel.EndRow, sel.StartRow
		sel.StartCol, sel.EndCol = sel.EndCol, sel.StartCol
	}
	g.sel = &sel
}

// ClearSelection removes the active selection, if any.
func (g *Grid) ClearSelection() {
	g.sel = nil
}

// GetSelection returns the active selection, or nil.
func (g *Grid) GetSelection() *Selection {
	return g.sel
}

// rowsForCopy returns the rows spanning the selection in absolute
// coordinates (scrollback followed by viewport), used by CopySelection.
func (g *Grid) rowsForCopy() []Row {
	all := make([]Row, 0, len(g.scrollback)+len(g.viewport))
	all = append(all, g.scrollback...)
	all = append(all, g.viewport...)
	return all
}

// CopySelection extracts visible glyphs from the active selection,
// replacing wide-trailer markers with nothing and inserting "\n" between
// logical (non-wrapped) lines (spec §4.B, §8 scenario S4).
func (g *Grid) CopySelection() string {
	if g.sel == nil {
		return ""
	}
	rows := g.rowsForCopy()
	sel := *g.sel
	var b strings.Builder
	for r := sel.StartRow; r <= sel.EndRow && r < len(rows); r++ {
		if r < 0 {
			continue
		}
		row := rows[r]
		startCol, endCol := 0, len(row.Cells)
		if r == sel.StartRow {
			startCol = sel.StartCol
		}
		if r == sel.EndRow {
			endCol = sel.EndCol + 1
			if endCol > len(row.Cells) {
				endCol = len(row.Cells)
			}
		}
		slice := row.Cells[startCol:endCol]
		if !row.Wrapped {
			slice = trimTrailingBlanks(slice)
		}
		for _, cell := range slice {
			if cell.IsWideTrailer() {
				continue
			}
			b.WriteRune(cell.Ch)
		}
		if r != sel.EndRow && !row.Wrapped {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
