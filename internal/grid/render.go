package grid

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Render produces a minimal byte sequence updating a client terminal from
// lastRendered to the current viewport (spec §4.A "Rendering"): a
// cursor-move + style-diff + glyph tuple per changed run, run-length
// encoding consecutive identical styles and omitting the cursor-move when
// the next change is the immediate successor.
func (g *Grid) Render() []byte {
	return g.renderAt(0, 0)
}

// RenderAt is Render with every cursor-move escape offset by
// (rowOffset, colOffset), so the output can be composed directly into a
// larger frame at that absolute position (spec §4.E "frame
// composition") without the caller needing to parse and rewrite escape
// sequences after the fact.
func (g *Grid) RenderAt(rowOffset, colOffset int) []byte {
	return g.renderAt(rowOffset, colOffset)
}

func (g *Grid) renderAt(rowOffset, colOffset int) []byte {
	var out strings.Builder
	cur := g.activeViewport()
	lastCol, lastRow := -1, -1
	var lastStyle Style
	haveStyle := false

	for r := 0; r < g.rows && r < len(cur); r++ {
		row := cur[r]
		prevRow := Row{}
		if r < len(g.lastRendered) {
			prevRow = g.lastRendered[r]
		}
		for c := 0; c < len(row.Cells); c++ {
			cell := row.Cells[c]
			var prevCell StyledCell
			if c < len(prevRow.Cells) {
				prevCell = prevRow.Cells[c]
			}
			if cell == prevCell {
				continue
			}
			if cell.IsWideTrailer() {
				continue
			}
			if r != lastRow || c != lastCol+1 {
				out.WriteString(cursorMove(r+rowOffset, c+colOffset))
			}
			if !haveStyle || cell.Style != lastStyle {
				out.WriteString(g.styleDiff(cell.Style))
				lastStyle = cell.Style
				haveStyle = true
			}
			if cell.Ch == 0 {
				out.WriteByte(' ')
			} else {
				out.WriteRune(cell.Ch)
			}
			lastRow, lastCol = r, c
			if cell.Width == 2 {
				lastCol++
			}
		}
	}

	g.lastRendered = cloneRows(cur)
	return []byte(out.String())
}

// cursorMove builds an absolute CUP escape, 1-indexed per ECMA-48 (spec
// §6 "cursor-move CSI row;col H").
func cursorMove(row, col int) string {
	return fmt.Sprintf("%s%d;%dH", ansi.CSI, row+1, col+1)
}

// styleDiff renders a full SGR reset-and-rebuild for style (spec §6 "reset
// CSI 0 m"); the run-length encoding in Render already avoids emitting this
// per cell when the style hasn't changed.
func (g *Grid) styleDiff(s Style) string {
	var b strings.Builder
	b.WriteString(ansi.CSI)
	b.WriteString("0")
	if s.Flags&FlagBold != 0 {
		b.WriteString(";1")
	}
	if s.Flags&FlagDim != 0 {
		b.WriteString(";2")
	}
	if s.Flags&FlagItalic != 0 {
		b.WriteString(";3")
	}
	if s.Flags&FlagUnderline != 0 {
		b.WriteString(";4")
	}
	if s.Flags&FlagBlink != 0 {
		b.WriteString(";5")
	}
	if s.Flags&FlagReverse != 0 {
		b.WriteString(";7")
	}
	if s.Flags&FlagHidden != 0 {
		b.WriteString(";8")
	}
	if s.Flags&FlagStrike != 0 {
		b.WriteString(";9")
	}
	if s.Flags&FlagDoubleUnderline != 0 {
		b.WriteString(";21")
	}
	g.writeColor(&b, s.Fg, 38)
	g.writeColor(&b, s.Bg, 48)
	g.writeColor(&b, s.UnderlineColor, 58)
	b.WriteByte('m')
	return b.String()
}

// writeColor emits SGR color parameters sized to the client's negotiated
// color profile (spec §6 "24-bit SGR 38;2;r;g;b", downsampled per
// SPEC_FULL.md §2 domain stack). Truecolor clients get the canonical
// 24-bit form; 256-color clients get the nearest xterm-256 index via
// go-colorful's perceptual distance (palette.go); ANSI clients get the
// nearest of the 16 basic colors; Ascii clients get no color at all.
func (g *Grid) writeColor(b *strings.Builder, c Color, base int) {
	if c.Kind == ColorDefault || g.colorProfile == ColorProfileAscii {
		return
	}
	rgb := ResolveColor(c, 0)
	switch g.colorProfile {
	case ColorProfileANSI256:
		fmt.Fprintf(b, ";%d;5;%d", base, Downsample256(rgb))
	case ColorProfileANSI:
		fmt.Fprintf(b, ";%d;5;%d", base, DownsampleANSI16(rgb))
	default: // ColorProfileTrueColor
		r := (rgb >> 16) & 0xFF
		gg := (rgb >> 8) & 0xFF
		bl := rgb & 0xFF
		fmt.Fprintf(b, ";%d;2;%d;%d;%d", base, r, gg, bl)
	}
}
