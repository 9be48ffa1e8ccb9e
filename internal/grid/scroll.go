package grid

// scrollUpRegion moves n rows out of the top of the scroll region, filling
// the bottom with blank rows (spec §4.A "Scroll"). When the region spans
// the full viewport on the primary screen, evicted rows enter scrollback;
// the alternate screen never feeds scrollback (spec §3 Grid regions).
func (g *Grid) scrollUpRegion(n int) {
	if n <= 0 {
		return
	}
	rows := g.activeViewport()
	top, bottom := g.scrollTop, g.scrollBottom
	fullViewport := top == 0 && bottom == g.rows-1

	for i := 0; i < n; i++ {
		evicted := rows[top]
		if fullViewport && !g.altActive {
			g.pushScrollback(evicted)
		}
		copy(rows[top:bottom], rows[top+1:bottom+1])
		rows[bottom] = g.newBlankRow()
	}
	g.setActiveViewport(rows)
	g.invalidateSelection()
}

// scrollDownRegion moves n rows into the top of the scroll region from
// blank, pushing rows at the bottom out (reverse-index, spec §4.A).
func (g *Grid) scrollDownRegion(n int) {
	if n <= 0 {
		return
	}
	rows := g.activeViewport()
	top, bottom := g.scrollTop, g.scrollBottom
	for i := 0; i < n; i++ {
		copy(rows[top+1:bottom+1], rows[top:bottom])
		rows[top] = g.newBlankRow()
	}
	g.setActiveViewport(rows)
	g.invalidateSelection()
}

func (g *Grid) pushScrollback(r Row) {
	if g.scrollCap <= 0 {
		return
	}
	g.scrollback = append(g.scrollback, r)
	if len(g.scrollback) > g.scrollCap {
		trim := len(g.scrollback) - g.scrollCap
		g.scrollback = g.scrollback[trim:]
	}
}

// ScrollbackLen returns the number of rows currently retained in
// scrollback (spec §3 invariant: "never exceeds the configured limit").
func (g *Grid) ScrollbackLen() int {
	return len(g.scrollback)
}

// ViewportLineAt returns the logical row at scrollback-relative offset
// `delta` above the viewport top (delta==0 is the viewport's first row),
// used by Scroll/render to produce a scrolled-back view without mutating
// grid state (spec §4.A "scroll(delta)").
func (g *Grid) ViewportLineAt(delta int) Row {
	rows := g.activeViewport()
	if delta <= 0 {
		idx := -delta
		if idx < len(rows) {
			return rows[idx]
		}
		return rows[len(rows)-1]
	}
	idx := len(g.scrollback) - delta
	if idx >= 0 && idx < len(g.scrollback) {
		return g.scrollback[idx]
	}
	return rows[0]
}
