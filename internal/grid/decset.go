package grid

// csiPrivateDispatch handles `?`-private CSI sequences: DECSET (`h`) /
// DECRST (`l`) mode toggles named in spec §4.A / §6.
func (g *Grid) csiPrivateDispatch(final byte, params []int) {
	switch final {
	case 'h':
		for _, p := range params {
			g.setPrivateMode(p, true)
		}
	case 'l':
		for _, p := range params {
			g.setPrivateMode(p, false)
		}
	case 's', 'r':
		// save/restore private mode values: not required beyond not
		// corrupting state; no-op.
	}
}

// setMode handles the (non-private) ANSI SM/RM sequences. The grid tracks
// none of these as independently meaningful state beyond what insertChars
// already models, so this exists mainly to consume the parameters without
// falling through to CsiIgnore.
func (g *Grid) setMode(params []int, disable bool) {
	_ = params
	_ = disable
}

func (g *Grid) setPrivateMode(mode int, enable bool) {
	switch mode {
	case 1: // DECCKM application cursor keys — no grid-side state needed
	case 7: // DECAWM autowrap
		g.autoWrap = enable
	case 12: // cursor blink — cosmetic only
	case 25: // DECTCEM cursor visibility
		g.cursorVisible = enable
	case 1000:
		g.mouseModes.X10 = enable
	case 1002:
		g.mouseModes.ButtonEv = enable
	case 1003:
		g.mouseModes.AnyEv = enable
	case 1004:
		// focus reporting — no grid-side state
	case 1005:
		g.mouseModes.UTF8 = enable
	case 1006:
		g.mouseModes.SGR = enable
	case 1049:
		g.setAlternateScreen(enable)
	case 2004:
		g.bracketedPaste = enable
	case 12 + 0x75: // '12u' numeric parse quirk guard: matches mode 129 as a
		// no-op, since CSI params never carry 'u'.
	}
}

// setAlternateScreen implements DECSET/DECRST 1049 (spec §4.A, §8
// scenario S6): entering preserves the primary viewport untouched and
// suspends scrollback accumulation; leaving restores it byte-identical.
func (g *Grid) setAlternateScreen(enable bool) {
	if enable == g.altActive {
		return
	}
	if enable {
		g.saveCursor()
		g.altScreen = make([]Row, g.rows)
		for i := range g.altScreen {
			g.altScreen[i] = g.newBlankRow()
		}
		g.altActive = true
		g.cursorRow, g.cursorCol = 0, 0
		g.pendingWrap = false
	} else {
		g.altActive = false
		g.altScreen = nil
		g.restoreCursor()
	}
	g.invalidateSelection()
}
