package grid

// Resize re-lays out content for a new size, preserving logical lines
// (spec §4.A "Resize", §8 invariant 3, scenario S3). The alternate screen
// does not reflow: it is clipped/padded from the bottom-right (spec §9
// locked Open Question).
func (g *Grid) Resize(newRows, newCols int) {
	if newRows < 1 {
		newRows = 1
	}
	if newCols < 1 {
		newCols = 1
	}
	if newRows == g.rows && newCols == g.cols {
		return
	}

	cursorLineID, cursorOffsetInLine := g.logicalCursorPosition()

	if newCols != g.cols {
		g.viewport = g.reflow(g.viewport, newCols)
	}
	// Drop blank rows below the cursor's line before pushing content off
	// the top.
	for len(g.viewport) > newRows {
		last := g.viewport[len(g.viewport)-1]
		if last.LineID == cursorLineID || len(trimTrailingBlanks(last.Cells)) > 0 {
			break
		}
		g.viewport = g.viewport[:len(g.viewport)-1]
	}
	g.viewport = g.adjustHeight(g.viewport, newRows, newCols)

	if g.altScreen != nil {
		g.altScreen = g.clipOrPadAlt(g.altScreen, newRows, newCols)
	}

	g.rows, g.cols = newRows, newCols
	if g.scrollTop >= newRows {
		g.scrollTop = 0
	}
	if g.scrollBottom >= newRows || g.scrollBottom <= g.scrollTop {
		g.scrollBottom = newRows - 1
	}
	g.tabStops = defaultTabStops(newCols)

	g.relocateCursor(cursorLineID, cursorOffsetInLine)
	g.clampCursor()
	g.invalidateSelection()
	g.lastRendered = cloneRows(g.activeViewport())
}

type logicalLine struct {
	cells  []StyledCell
	lineID uint64
}

// logicalCursorPosition captures the cursor's position as (lineID, offset)
// so it can be relocated onto its logical character after reflow ("the
// cursor is repositioned to stay on its logical character", spec §4.A).
func (g *Grid) logicalCursorPosition() (lineID uint64, offset int) {
	if g.cursorRow >= len(g.viewport) {
		return 0, 0
	}
	groups := groupLogicalLines(g.viewport)
	runningRow := 0
	for _, grp := range groups {
		rowsInGroup := rowsSpanned(grp, g.cols)
		if g.cursorRow < runningRow+rowsInGroup {
			offsetInRow := g.cursorRow - runningRow
			return grp.lineID, offsetInRow*g.cols + g.cursorCol
		}
		runningRow += rowsInGroup
	}
	return 0, 0
}

func rowsSpanned(grp logicalLine, cols int) int {
	if cols <= 0 {
		return 1
	}
	n := (len(grp.cells) + cols - 1) / cols
	if n == 0 {
		n = 1
	}
	return n
}

// groupLogicalLines concatenates consecutive wrapped rows into logical
// lines (spec GLOSSARY "Logical line").
func groupLogicalLines(rows []Row) []logicalLine {
	var groups []logicalLine
	var cur []StyledCell
	var curID uint64
	haveCur := false
	flush := func() {
		if haveCur {
			groups = append(groups, logicalLine{cells: cur, lineID: curID})
		}
		cur = nil
		haveCur = false
	}
	for _, r := range rows {
		if !haveCur {
			curID = r.LineID
			haveCur = true
		}
		cur = append(cur, trimTrailingBlanks(r.Cells)...)
		if !r.Wrapped {
			flush()
		}
	}
	flush()
	return groups
}

// trimTrailingBlanks drops trailing default-styled space cells so reflow's
// "modulo trailing-blank trimming" clause (spec §8 invariant 3) holds.
func trimTrailingBlanks(cells []StyledCell) []StyledCell {
	end := len(cells)
	for end > 0 {
		c := cells[end-1]
		if c.Ch == ' ' && c.Style == (Style{Bg: c.Style.Bg}) && !c.IsWideTrailer() {
			end--
			continue
		}
		break
	}
	out := make([]StyledCell, end)
	copy(out, cells[:end])
	return out
}

// reflow rebreaks every logical line at the new width (spec §4.A "On width
// change, walk the logical-line groups... concatenate cells, then re-break
// at the new width").
func (g *Grid) reflow(rows []Row, newCols int) []Row {
	groups := groupLogicalLines(rows)
	var out []Row
	for _, grp := range groups {
		out = append(out, breakLogicalLine(grp, newCols, g.style.Bg)...)
	}
	if len(out) == 0 {
		out = append(out, g.newBlankRow())
	}
	return out
}

func breakLogicalLine(grp logicalLine, width int, bg Color) []Row {
	cells := grp.cells
	if len(cells) == 0 {
		r := NewRow(width, bg, grp.lineID)
		return []Row{r}
	}
	var rows []Row
	for i := 0; i < len(cells); i += width {
		end := i + width
		wrapped := end < len(cells)
		if end > len(cells) {
			end = len(cells)
		}
		row := NewRow(width, bg, grp.lineID)
		copy(row.Cells, cells[i:end])
		row.Wrapped = wrapped
		rows = append(rows, row)
	}
	return rows
}

// adjustHeight grows by pulling from scrollback, shrinks by pushing the
// viewport top into scrollback (primary screen only, spec §4.A "Resize").
func (g *Grid) adjustHeight(rows []Row, newRows, cols int) []Row {
	for len(rows) < newRows {
		if len(g.scrollback) > 0 {
			n := len(g.scrollback) - 1
			pulled := g.scrollback[n]
			g.scrollback = g.scrollback[:n]
			pulled.resizeWidth(cols, g.style.Bg)
			rows = append([]Row{pulled}, rows...)
		} else {
			rows = append(rows, NewRow(cols, g.style.Bg, g.nextLineIDBump()))
		}
	}
	for len(rows) > newRows {
		if !g.altActive {
			g.pushScrollback(rows[0])
		}
		rows = rows[1:]
	}
	return rows
}

func (g *Grid) nextLineIDBump() uint64 {
	id := g.nextLineID
	g.nextLineID++
	return id
}

// clipOrPadAlt resizes the alternate screen without reflowing: clip from
// the bottom-right on shrink, pad with blanks on grow (spec §9).
func (g *Grid) clipOrPadAlt(rows []Row, newRows, newCols int) []Row {
	for i := range rows {
		rows[i].resizeWidth(newCols, g.style.Bg)
	}
	if len(rows) > newRows {
		rows = rows[:newRows]
	}
	for len(rows) < newRows {
		rows = append(rows, NewRow(newCols, g.style.Bg, g.nextLineIDBump()))
	}
	return rows
}

// relocateCursor repositions the cursor onto the row/col now occupied by
// the logical character it was on before reflow.
func (g *Grid) relocateCursor(lineID uint64, offset int) {
	groups := groupLogicalLines(g.viewport)
	runningRow := 0
	for _, grp := range groups {
		rowsInGroup := rowsSpanned(grp, g.cols)
		if grp.lineID == lineID {
			r := offset / g.cols
			c := offset % g.cols
			if r >= rowsInGroup {
				r = rowsInGroup - 1
				c = g.cols - 1
			}
			g.cursorRow = runningRow + r
			g.cursorCol = c
			return
		}
		runningRow += rowsInGroup
	}
}
