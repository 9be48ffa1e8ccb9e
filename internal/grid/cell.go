// Package grid implements the VT/ANSI byte-stream parser and the 2-D styled
// character buffer it drives: scrollback, alternate screen, scroll region,
// cursor state, selection, resize/reflow, and frame-diff rendering. This is
// the hard subsystem the rest of the multiplexer is built around; every
// other package treats a Grid as an opaque, single-owner mutable buffer fed
// exclusively through Feed.
package grid

import "github.com/mattn/go-runewidth"

// CellFlags is a bitmask of style attributes carried by a StyledCell.
type CellFlags uint16

const (
	FlagBold CellFlags = 1 << iota
	FlagDim
	FlagItalic
	FlagUnderline
	FlagDoubleUnderline
	FlagCurlyUnderline
	FlagDottedUnderline
	FlagDashedUnderline
	FlagBlink
	FlagReverse
	FlagHidden
	FlagStrike
	FlagWide        // first cell of a 2-column wide character
	FlagWideTrailer // the empty marker cell following a wide character
)

// ColorKind discriminates how Color.Value should be interpreted.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorIndexed           // Value holds a 0-255 palette index
	ColorRGB               // Value holds 0xRRGGBB
)

// Color is a single foreground/background/underline color slot.
type Color struct {
	Kind  ColorKind
	Value uint32
}

// DefaultColor is the sentinel "use the terminal's default" color.
var DefaultColor = Color{Kind: ColorDefault}

// Style bundles every SGR attribute a cell can carry.
type Style struct {
	Fg             Color
	Bg             Color
	UnderlineColor Color
	Flags          CellFlags
	LinkID         uint32 // 0 means no active hyperlink (OSC 8)
}

// DefaultStyle is the zero-value, unstyled style.
var DefaultStyle = Style{}

// StyledCell is the atomic unit of the grid (spec §3). Empty cells are the
// sentinel returned by BlankCell: default style, space code point.
type StyledCell struct {
	Ch    rune
	Width uint8 // 1 or 2; 0 only for a WideTrailer marker
	Style Style
}

// BlankCell returns the sentinel empty cell, styled with bg so that erase
// operations (which inherit the current background, per spec §4.A) produce
// the right fill.
func BlankCell(bg Color) StyledCell {
	return StyledCell{Ch: ' ', Width: 1, Style: Style{Bg: bg}}
}

// IsWideTrailer reports whether c is the marker cell following a wide
// character; such cells must never be independently styled or cleared
// (spec §3).
func (c StyledCell) IsWideTrailer() bool {
	return c.Style.Flags&FlagWideTrailer != 0
}

// RuneWidth returns the column width (1 or 2) a rune occupies, used when
// deciding whether Print needs to emit a trailer cell.
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w <= 0 {
		return 1
	}
	if w > 2 {
		return 2
	}
	return w
}
