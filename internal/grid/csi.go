package grid

// csiDispatch handles a completed CSI sequence (spec §4.A CsiDispatch,
// §6 CSI finals).
func (g *Grid) csiDispatch(final byte, params []int, intermediates []byte, private byte) {
	if private == '?' {
		g.csiPrivateDispatch(final, params)
		return
	}
	p := func(i, def int) int {
		if i >= len(params) || params[i] == 0 {
			return def
		}
		return params[i]
	}
	switch final {
	case '@': // ICH - insert blank chars
		g.insertChars(p(0, 1))
	case 'A': // CUU
		g.moveCursor(-p(0, 1), 0)
	case 'B': // CUD
		g.moveCursor(p(0, 1), 0)
	case 'C': // CUF
		g.moveCursor(0, p(0, 1))
	case 'D': // CUB
		g.moveCursor(0, -p(0, 1))
	case 'E': // CNL
		g.moveCursor(p(0, 1), 0)
		g.cursorCol = 0
	case 'F': // CPL
		g.moveCursor(-p(0, 1), 0)
		g.cursorCol = 0
	case 'G', '`': // CHA / HPA
		g.setCursorCol(p(0, 1) - 1)
	case 'H', 'f': // CUP / HVP
		g.setCursorPos(p(0, 1)-1, p(1, 1)-1)
	case 'I': // CHT
		for i := 0; i < p(0, 1); i++ {
			g.cursorCol = g.nextTabStop(g.cursorCol)
		}
	case 'J': // ED
		g.eraseInDisplay(p(0, 0))
	case 'K': // EL
		g.eraseInLine(p(0, 0))
	case 'L': // IL
		g.insertLines(p(0, 1))
	case 'M': // DL
		g.deleteLines(p(0, 1))
	case 'P': // DCH
		g.deleteChars(p(0, 1))
	case 'S': // SU
		g.scrollUpRegion(p(0, 1))
	case 'T': // SD
		g.scrollDownRegion(p(0, 1))
	case 'X': // ECH
		g.eraseChars(p(0, 1))
	case 'Z': // CBT
		for i := 0; i < p(0, 1); i++ {
			g.cursorCol = g.prevTabStop(g.cursorCol)
		}
	case 'a': // HPR
		g.moveCursor(0, p(0, 1))
	case 'd': // VPA
		g.setCursorRow(p(0, 1) - 1)
	case 'e': // VPR
		g.moveCursor(p(0, 1), 0)
	case 'g': // TBC
		g.clearTabStops(p(0, 0))
	case 'h': // SM
		g.setMode(params, false)
	case 'l': // RM
		g.setMode(params, true)
	case 'm': // SGR
		g.applySGR(params)
	case 'n': // DSR
		// Device status report: ignored. Nothing answers it; ptymgr only
		// answers OSC 10/11 color queries.
	case 'r': // DECSTBM
		g.setScrollRegion(p(0, 1)-1, p(1, g.rows)-1)
	case 's': // save cursor (ANSI.SYS) / left/right margin when private
		g.saveCursor()
	case 't': // window manipulation, ignored
	case 'u': // restore cursor
		g.restoreCursor()
	}
}

func (g *Grid) prevTabStop(col int) int {
	for c := col - 1; c >= 0; c-- {
		if g.tabStops[c] {
			return c
		}
	}
	return 0
}

func (g *Grid) clearTabStops(mode int) {
	switch mode {
	case 0:
		delete(g.tabStops, g.cursorCol)
	case 3:
		g.tabStops = make(map[int]bool)
	}
}

func (g *Grid) moveCursor(dRow, dCol int) {
	g.pendingWrap = false
	lo, hi := 0, g.rows-1
	if g.originMode {
		lo, hi = g.scrollTop, g.scrollBottom
	}
	g.cursorRow += dRow
	if g.cursorRow < lo {
		g.cursorRow = lo
	}
	if g.cursorRow > hi {
		g.cursorRow = hi
	}
	g.cursorCol += dCol
	g.clampCursor()
}

func (g *Grid) setCursorCol(col int) {
	g.pendingWrap = false
	g.cursorCol = col
	g.clampCursor()
}

func (g *Grid) setCursorRow(row int) {
	g.pendingWrap = false
	if g.originMode {
		row += g.scrollTop
	}
	g.cursorRow = row
	g.clampCursor()
}

// setCursorPos implements CUP/HVP: origin-mode selects whether rows are
// relative to the scroll region or absolute (spec §4.A "Cursor movement").
func (g *Grid) setCursorPos(row, col int) {
	g.pendingWrap = false
	if g.originMode {
		row += g.scrollTop
	}
	g.cursorRow = row
	g.cursorCol = col
	g.clampCursor()
}

func (g *Grid) eraseInDisplay(mode int) {
	rows := g.activeViewport()
	blank := BlankCell(g.style.Bg)
	switch mode {
	case 0:
		g.eraseInLine(0)
		for r := g.cursorRow + 1; r < g.rows; r++ {
			fillRow(&rows[r], blank)
		}
	case 1:
		for r := 0; r < g.cursorRow; r++ {
			fillRow(&rows[r], blank)
		}
		g.eraseInLine(1)
	case 2, 3:
		for r := 0; r < g.rows; r++ {
			fillRow(&rows[r], blank)
		}
	}
	g.setActiveViewport(rows)
}

func (g *Grid) eraseInLine(mode int) {
	rows := g.activeViewport()
	row := &rows[g.cursorRow]
	blank := BlankCell(g.style.Bg)
	switch mode {
	case 0:
		for c := g.cursorCol; c < len(row.Cells); c++ {
			row.Cells[c] = blank
		}
	case 1:
		for c := 0; c <= g.cursorCol && c < len(row.Cells); c++ {
			row.Cells[c] = blank
		}
	case 2:
		fillRow(row, blank)
	}
}

func fillRow(row *Row, blank StyledCell) {
	for i := range row.Cells {
		row.Cells[i] = blank
	}
	row.Wrapped = false
}

func (g *Grid) insertChars(n int) {
	rows := g.activeViewport()
	row := &rows[g.cursorRow]
	blank := BlankCell(g.style.Bg)
	end := len(row.Cells)
	col := g.cursorCol
	if col >= end {
		return
	}
	if n > end-col {
		n = end - col
	}
	copy(row.Cells[col+n:end], row.Cells[col:end-n])
	for i := col; i < col+n; i++ {
		row.Cells[i] = blank
	}
}

func (g *Grid) deleteChars(n int) {
	rows := g.activeViewport()
	row := &rows[g.cursorRow]
	blank := BlankCell(g.style.Bg)
	end := len(row.Cells)
	col := g.cursorCol
	if col >= end {
		return
	}
	if n > end-col {
		n = end - col
	}
	copy(row.Cells[col:end-n], row.Cells[col+n:end])
	for i := end - n; i < end; i++ {
		row.Cells[i] = blank
	}
}

func (g *Grid) eraseChars(n int) {
	rows := g.activeViewport()
	row := &rows[g.cursorRow]
	blank := BlankCell(g.style.Bg)
	end := len(row.Cells)
	col := g.cursorCol
	for i := col; i < col+n && i < end; i++ {
		row.Cells[i] = blank
	}
}

func (g *Grid) insertLines(n int) {
	if g.cursorRow < g.scrollTop || g.cursorRow > g.scrollBottom {
		return
	}
	saveTop := g.scrollTop
	g.scrollTop = g.cursorRow
	g.scrollDownRegion(n)
	g.scrollTop = saveTop
}

func (g *Grid) deleteLines(n int) {
	if g.cursorRow < g.scrollTop || g.cursorRow > g.scrollBottom {
		return
	}
	saveTop := g.scrollTop
	g.scrollTop = g.cursorRow
	g.scrollUpRegion(n)
	g.scrollTop = saveTop
}

// setScrollRegion implements DECSTBM, enforcing 0 <= top < bottom < rows
// (spec §3 invariant).
func (g *Grid) setScrollRegion(top, bottom int) {
	if bottom >= g.rows {
		bottom = g.rows - 1
	}
	if top < 0 {
		top = 0
	}
	if top >= bottom {
		top, bottom = 0, g.rows-1
	}
	g.scrollTop, g.scrollBottom = top, bottom
	g.setCursorPos(0, 0)
}

func (g *Grid) saveCursor() {
	sc := savedCursor{row: g.cursorRow, col: g.cursorCol, style: g.style, g0: g.g0, g1: g.g1, shiftOut: g.shiftOut}
	if g.altActive {
		g.savedAlternateCursor = sc
	} else {
		g.savedPrimaryCursor = sc
	}
}

func (g *Grid) restoreCursor() {
	var sc savedCursor
	if g.altActive {
		sc = g.savedAlternateCursor
	} else {
		sc = g.savedPrimaryCursor
	}
	g.cursorRow, g.cursorCol = sc.row, sc.col
	g.style = sc.style
	g.g0, g.g1, g.shiftOut = sc.g0, sc.g1, sc.shiftOut
	g.pendingWrap = false
	g.clampCursor()
}

// escDispatch handles a completed ESC sequence (non-CSI) such as DECSC/
// DECRC, IND/RI, and charset designation (spec §4.A EscDispatch).
func (g *Grid) escDispatch(final byte, intermediates []byte) {
	if len(intermediates) == 1 {
		switch intermediates[0] {
		case '(': // G0 designation
			g.g0 = charsetFromFinal(final)
			return
		case ')': // G1 designation
			g.g1 = charsetFromFinal(final)
			return
		}
	}
	switch final {
	case '7': // DECSC
		g.saveCursor()
	case '8': // DECRC
		g.restoreCursor()
	case 'D': // IND
		g.lineFeed()
	case 'E': // NEL
		g.cursorCol = 0
		g.lineFeed()
	case 'M': // RI
		if g.cursorRow == g.scrollTop {
			g.scrollDownRegion(1)
		} else if g.cursorRow > 0 {
			g.cursorRow--
		}
	case 'c': // RIS - full reset
		g.reset()
	}
}

func charsetFromFinal(final byte) CharsetDesignation {
	if final == '0' {
		return CharsetDECSpecialGraphics
	}
	return CharsetASCII
}

// reset implements RIS: clears style, modes, tab stops, and the active screen.
func (g *Grid) reset() {
	g.style = DefaultStyle
	g.originMode = false
	g.autoWrap = true
	g.g0, g.g1, g.shiftOut = CharsetASCII, CharsetASCII, false
	g.scrollTop, g.scrollBottom = 0, g.rows-1
	g.tabStops = defaultTabStops(g.cols)
	g.cursorRow, g.cursorCol = 0, 0
	g.pendingWrap = false
	g.cursorVisible = true
	rows := g.activeViewport()
	blank := BlankCell(g.style.Bg)
	for i := range rows {
		fillRow(&rows[i], blank)
	}
	g.setActiveViewport(rows)
}
