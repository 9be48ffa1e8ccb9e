package grid

// applySGR parses SGR parameters left-to-right, mutating g.style (spec
// §4.A "SGR"). `0` resets; 38/48/58 with subparameters pick 8-bit or
// 24-bit colors; `4:n` picks underline subtypes.
func (g *Grid) applySGR(params []int) {
	if len(params) == 0 {
		g.style = Style{}
		return
	}
	i := 0
	for i < len(params) {
		p := params[i]
		switch {
		case p == 0:
			g.style = Style{}
		case p == 1:
			g.style.Flags |= FlagBold
		case p == 2:
			g.style.Flags |= FlagDim
		case p == 3:
			g.style.Flags |= FlagItalic
		case p == 4:
			g.style.Flags |= FlagUnderline
		case p == 5:
			g.style.Flags |= FlagBlink
		case p == 7:
			g.style.Flags |= FlagReverse
		case p == 8:
			g.style.Flags |= FlagHidden
		case p == 9:
			g.style.Flags |= FlagStrike
		case p == 21:
			g.style.Flags |= FlagDoubleUnderline
		case p == 22:
			g.style.Flags &^= (FlagBold | FlagDim)
		case p == 23:
			g.style.Flags &^= FlagItalic
		case p == 24:
			g.style.Flags &^= (FlagUnderline | FlagDoubleUnderline | FlagCurlyUnderline | FlagDottedUnderline | FlagDashedUnderline)
		case p == 25:
			g.style.Flags &^= FlagBlink
		case p == 27:
			g.style.Flags &^= FlagReverse
		case p == 28:
			g.style.Flags &^= FlagHidden
		case p == 29:
			g.style.Flags &^= FlagStrike
		case p >= 30 && p <= 37:
			g.style.Fg = Color{Kind: ColorIndexed, Value: uint32(p - 30)}
		case p == 38:
			n := g.parseExtendedColor(params, i)
			g.style.Fg = n.color
			i += n.consumed
			continue
		case p == 39:
			g.style.Fg = DefaultColor
		case p >= 40 && p <= 47:
			g.style.Bg = Color{Kind: ColorIndexed, Value: uint32(p - 40)}
		case p == 48:
			n := g.parseExtendedColor(params, i)
			g.style.Bg = n.color
			i += n.consumed
			continue
		case p == 49:
			g.style.Bg = DefaultColor
		case p == 58:
			n := g.parseExtendedColor(params, i)
			g.style.UnderlineColor = n.color
			i += n.consumed
			continue
		case p == 59:
			g.style.UnderlineColor = DefaultColor
		case p >= 90 && p <= 97:
			g.style.Fg = Color{Kind: ColorIndexed, Value: uint32(p - 90 + 8)}
		case p >= 100 && p <= 107:
			g.style.Bg = Color{Kind: ColorIndexed, Value: uint32(p - 100 + 8)}
		}
		i++
	}
}

type extendedColorResult struct {
	color    Color
	consumed int
}

// parseExtendedColor parses the `38;5;n` / `38;2;r;g;b` family starting at
// params[i] (where params[i] is 38/48/58), returning how many extra
// parameters it consumed beyond the leading one.
func (g *Grid) parseExtendedColor(params []int, i int) extendedColorResult {
	if i+1 >= len(params) {
		return extendedColorResult{DefaultColor, 1}
	}
	switch params[i+1] {
	case 5:
		if i+2 < len(params) {
			return extendedColorResult{Color{Kind: ColorIndexed, Value: uint32(params[i+2])}, 3}
		}
		return extendedColorResult{DefaultColor, 2}
	case 2:
		if i+4 < len(params) {
			r, gg, b := params[i+2], params[i+3], params[i+4]
			v := uint32(r&0xFF)<<16 | uint32(gg&0xFF)<<8 | uint32(b&0xFF)
			return extendedColorResult{Color{Kind: ColorRGB, Value: v}, 5}
		}
		return extendedColorResult{DefaultColor, 2}
	default:
		return extendedColorResult{DefaultColor, 2}
	}
}
