package grid

// Row is an ordered sequence of StyledCell (spec §3). Cells is always
// padded out to the grid's width by the owning Grid; Row itself does not
// enforce that, to keep reflow's concatenate-then-rebreak step cheap.
type Row struct {
	Cells   []StyledCell
	Wrapped bool // logical line continues onto the next row
	LineID  uint64
}

// NewRow allocates a row of the given width filled with bg-colored blanks.
func NewRow(width int, bg Color, lineID uint64) Row {
	cells := make([]StyledCell, width)
	blank := BlankCell(bg)
	for i := range cells {
		cells[i] = blank
	}
	return Row{Cells: cells, LineID: lineID}
}

// clone deep-copies a row (cells are value types so a slice copy suffices).
func (r Row) clone() Row {
	cells := make([]StyledCell, len(r.Cells))
	copy(cells, r.Cells)
	return Row{Cells: cells, Wrapped: r.Wrapped, LineID: r.LineID}
}

// resizeWidth grows or shrinks Cells to width, padding with bg blanks or
// truncating. Used by the alternate screen, which does not reflow, and for
// rows pulled back from scrollback on a height increase.
func (r *Row) resizeWidth(width int, bg Color) {
	if len(r.Cells) == width {
		return
	}
	if len(r.Cells) > width {
		r.Cells = r.Cells[:width]
		return
	}
	blank := BlankCell(bg)
	for len(r.Cells) < width {
		r.Cells = append(r.Cells, blank)
	}
}
