package grid

// print writes a code point at the cursor and advances it, implementing
// spec §4.A "Printing": pending-wrap defers the line break until the next
// printable so that a line exactly filling the width is not immediately
// wrapped.
func (g *Grid) print(r rune) {
	r = g.mapCharset(r)
	width := RuneWidth(r)

	if g.pendingWrap {
		g.wrapLine()
		g.pendingWrap = false
	}

	rows := g.activeViewport()
	if g.cursorCol+width > g.cols {
		g.wrapLine()
	}
	rows = g.activeViewport()

	row := &rows[g.cursorRow]
	cell := StyledCell{Ch: r, Width: uint8(width), Style: g.style}
	cell.Style.LinkID = g.currentLinkID()
	row.Cells[g.cursorCol] = cell
	if width == 2 && g.cursorCol+1 < g.cols {
		row.Cells[g.cursorCol+1] = StyledCell{Ch: 0, Width: 0, Style: Style{Flags: FlagWideTrailer}}
	}

	if g.cursorCol+width >= g.cols {
		g.cursorCol = g.cols - 1
		if g.autoWrap {
			g.pendingWrap = true
		}
	} else {
		g.cursorCol += width
	}
}

func (g *Grid) currentLinkID() uint32 {
	return g.style.LinkID
}

// wrapLine marks the current row wrapped and moves the cursor to the start
// of the next row, scrolling within the scroll region if already at the
// bottom (spec §4.A "mark the prior row as wrapped").
func (g *Grid) wrapLine() {
	rows := g.activeViewport()
	rows[g.cursorRow].Wrapped = true
	g.cursorCol = 0
	if g.cursorRow == g.scrollBottom {
		g.scrollUpRegion(1)
	} else if g.cursorRow < g.rows-1 {
		g.cursorRow++
	}
}

// execute dispatches a C0 control byte (spec §4.A Execute(c0)).
func (g *Grid) execute(b byte) {
	switch b {
	case 0x07: // BEL
		// No-op for the grid; a real client might flash. Out of scope here.
	case 0x08: // BS
		if g.cursorCol > 0 {
			g.cursorCol--
		}
		g.pendingWrap = false
	case 0x09: // HT
		g.cursorCol = g.nextTabStop(g.cursorCol)
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		g.lineFeed()
	case 0x0D: // CR
		g.cursorCol = 0
		g.pendingWrap = false
	case 0x0E: // SO
		g.shiftOut = true
	case 0x0F: // SI
		g.shiftOut = false
	}
}

func (g *Grid) nextTabStop(col int) int {
	for c := col + 1; c < g.cols; c++ {
		if g.tabStops[c] {
			return c
		}
	}
	return g.cols - 1
}

// lineFeed moves the cursor down one row, scrolling the active region when
// at the bottom (spec §4.A "implicit on newline at bottom of region").
func (g *Grid) lineFeed() {
	g.pendingWrap = false
	if g.cursorRow == g.scrollBottom {
		g.scrollUpRegion(1)
		return
	}
	if g.cursorRow < g.rows-1 {
		g.cursorRow++
	}
}

// invalidateSelection clears the selection unconditionally, used by
// operations that shift row identity (scroll, resize) and so invalidate any
// selection referencing those rows (spec §3 invariant).
func (g *Grid) invalidateSelection() {
	g.sel = nil
}
