package grid

import "unicode/utf8"

// CharsetDesignation names a G0/G1 slot's active character set.
type CharsetDesignation int

const (
	CharsetASCII CharsetDesignation = iota
	CharsetDECSpecialGraphics
)

// savedCursor is the state stashed by DECSC / restored by DECRC, and
// swapped wholesale on alternate-screen entry/exit.
type savedCursor struct {
	row, col int
	style    Style
	g0, g1   CharsetDesignation
	shiftOut bool
}

// Grid is the VT byte-stream parser plus its 2-D styled cell buffer (spec
// §3, §4.A). Its owner serializes every call (Screen does so under its
// mutex, feeding it through Pane.HandleOutput); no internal locking is done here,
// matching spec §9's "a Grid is owned by the Screen thread after its Pane
// is registered" ownership rule.
type Grid struct {
	rows, cols int

	viewport   []Row
	scrollback []Row
	scrollCap  int
	nextLineID uint64

	altActive  bool
	altScreen  []Row
	savedPrimaryCursor   savedCursor
	savedAlternateCursor savedCursor

	cursorRow, cursorCol int
	cursorVisible        bool
	pendingWrap          bool

	scrollTop, scrollBottom int // inclusive, 0-indexed

	originMode bool
	autoWrap   bool

	g0, g1   CharsetDesignation
	shiftOut bool // true selects G1

	style Style

	titleStack []string
	title      string
	iconTitle  string

	mouseModes  MouseModes
	bracketedPaste bool

	tabStops map[int]bool

	sel          *Selection
	nextLinkID   uint32
	linkURIs     map[uint32]string

	parser *parser

	lastRendered []Row // mirror for Render's diff

	// onClipboard is invoked by OSC 52 dispatch; Screen wires this to the
	// clipboard package (spec §4.A: "the grid records this but does not
	// act on it"). Nil is a valid, no-op default.
	onClipboard func(text string, dest ClipboardDest)
	onTitle     func(title string, icon bool)

	// dcsPayload accumulates the most recent DCS passthrough payload so
	// tests can assert it never reached cell storage (SPEC_FULL.md §4).
	dcsPayload []byte

	// colorProfile controls how Render downsamples 24-bit SGR colors for
	// clients that negotiated less than truecolor support (SPEC_FULL.md
	// §2 domain stack: charmbracelet/colorprofile, detected client-side
	// and threaded in by internal/session on attach).
	colorProfile ColorProfile
}

// ColorProfile names the client's color depth, from richest
// (ColorProfileTrueColor, the zero value) to poorest (ColorProfileAscii),
// without importing the client-detection package into grid.
type ColorProfile int

const (
	ColorProfileTrueColor ColorProfile = iota
	ColorProfileANSI256
	ColorProfileANSI
	ColorProfileAscii
)

// SetColorProfile records the attached client's negotiated color
// capability; subsequent Render/RenderAt calls downsample SGR colors to
// match (spec §6 "24-bit SGR", degraded per SPEC_FULL.md §2).
func (g *Grid) SetColorProfile(p ColorProfile) {
	g.colorProfile = p
	g.lastRendered = nil
}

// ClipboardDest mirrors bus.ClipboardDestination without importing bus
// (grid must not depend on the bus/instruction types it's consumed by).
type ClipboardDest int

const (
	ClipboardDestSystem ClipboardDest = iota
	ClipboardDestPrimary
)

// MouseModes tracks which DECSET mouse-reporting modes are active.
type MouseModes struct {
	X10      bool // 1000
	ButtonEv bool // 1002
	AnyEv    bool // 1003
	UTF8     bool // 1005
	SGR      bool // 1006
}

// New creates a Grid with the given viewport size, scrollback cap, and
// initial palette (the default style's colors). Matches spec §3's Grid
// lifecycle: "created with a width, height, scrollback cap, and palette."
func New(rowsN, colsN, scrollbackCap int) *Grid {
	if rowsN < 1 {
		rowsN = 1
	}
	if colsN < 1 {
		colsN = 1
	}
	g := &Grid{
		rows:          rowsN,
		cols:          colsN,
		scrollCap:     scrollbackCap,
		autoWrap:      true,
		cursorVisible: true,
		scrollTop:     0,
		scrollBottom:  rowsN - 1,
		tabStops:      defaultTabStops(colsN),
		linkURIs:      make(map[uint32]string),
		parser:        newParser(),
	}
	g.viewport = make([]Row, rowsN)
	for i := range g.viewport {
		g.viewport[i] = g.newBlankRow()
	}
	g.lastRendered = cloneRows(g.viewport)
	return g
}

func defaultTabStops(cols int) map[int]bool {
	stops := make(map[int]bool)
	for c := 8; c < cols; c += 8 {
		stops[c] = true
	}
	return stops
}

func (g *Grid) newBlankRow() Row {
	r := NewRow(g.cols, g.style.Bg, g.nextLineID)
	g.nextLineID++
	return r
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.clone()
	}
	return out
}

// SetClipboardHandler installs the callback OSC 52 dispatch invokes.
func (g *Grid) SetClipboardHandler(fn func(text string, dest ClipboardDest)) {
	g.onClipboard = fn
}

// SetTitleHandler installs the callback OSC 0/1/2 dispatch invokes.
func (g *Grid) SetTitleHandler(fn func(title string, icon bool)) {
	g.onTitle = fn
}

// activeViewport returns the currently live rows: altScreen when the
// alternate screen is active, viewport otherwise.
func (g *Grid) activeViewport() []Row {
	if g.altActive {
		return g.altScreen
	}
	return g.viewport
}

func (g *Grid) setActiveViewport(rows []Row) {
	if g.altActive {
		g.altScreen = rows
	} else {
		g.viewport = rows
	}
}

// Feed advances the parser across p (spec §4.A contract: "feed(bytes)").
func (g *Grid) Feed(p []byte) {
	g.parser.feed(g, p)
}

// Dims returns the current viewport size.
func (g *Grid) Dims() (rowsN, colsN int) { return g.rows, g.cols }

// Cursor returns the 0-indexed cursor position and visibility.
func (g *Grid) Cursor() (row, col int, visible bool) {
	return g.cursorRow, g.cursorCol, g.cursorVisible
}

// clampCursor enforces the invariant 0 <= row < rows, 0 <= col < cols
// (spec §3 invariants, §8 invariant 1).
func (g *Grid) clampCursor() {
	if g.cursorRow < 0 {
		g.cursorRow = 0
	}
	if g.cursorRow >= g.rows {
		g.cursorRow = g.rows - 1
	}
	if g.cursorCol < 0 {
		g.cursorCol = 0
	}
	if g.cursorCol >= g.cols {
		g.cursorCol = g.cols - 1
	}
}

// mapCharset decodes a rune into its DEC Special Graphics mapping when G0/G1
// shift selects it (spec §4.A "Charsets").
func (g *Grid) mapCharset(r rune) rune {
	set := g.g0
	if g.shiftOut {
		set = g.g1
	}
	if set != CharsetDECSpecialGraphics {
		return r
	}
	return decSpecialGraphics(r)
}

func decSpecialGraphics(r rune) rune {
	if r < 0x60 || r > 0x7E {
		return r
	}
	// Standard VT100 line-drawing set.
	table := map[rune]rune{
		'`': '◆', 'a': '▒', 'b': '\t', 'c': '\f', 'd': '\r', 'e': '\n',
		'f': '°', 'g': '±', 'h': '\n', 'i': '\v', 'j': '┘', 'k': '┐',
		'l': '┌', 'm': '└', 'n': '┼', 'o': '⎺', 'p': '⎻', 'q': '─',
		'r': '⎼', 's': '⎽', 't': '├', 'u': '┤', 'v': '┴', 'w': '┬',
		'x': '│', 'y': '≤', 'z': '≥', '{': 'π', '|': '≠', '}': '£', '~': '·',
	}
	if mapped, ok := table[r]; ok {
		return mapped
	}
	return r
}

// decodeUTF8Fallback decodes one rune from b, mapping invalid input to
// U+FFFD with a size of 1, the same fallback the incremental parser
// applies (spec §4.A, §6 UTF-8).
func decodeUTF8Fallback(b []byte) (rune, int) {
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return 0xFFFD, 1
	}
	return r, size
}
