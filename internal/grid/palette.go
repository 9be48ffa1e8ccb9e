package grid

import "github.com/lucasb-eyer/go-colorful"

// xterm256 is the standard 256-color xterm palette expressed as packed
// 0xRRGGBB values, used by Downsample256 to find the nearest match for a
// 24-bit color on a client that negotiated no truecolor support.
var xterm256 = buildXterm256()

func buildXterm256() [256]uint32 {
	var p [256]uint32
	basic := [16]uint32{
		0x000000, 0x800000, 0x008000, 0x808000,
		0x000080, 0x800080, 0x008080, 0xc0c0c0,
		0x808080, 0xff0000, 0x00ff00, 0xffff00,
		0x0000ff, 0xff00ff, 0x00ffff, 0xffffff,
	}
	for i := 0; i < 16; i++ {
		p[i] = basic[i]
	}
	levels := [6]uint32{0, 0x5f, 0x87, 0xaf, 0xd7, 0xff}
	idx := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p[idx] = levels[r]<<16 | levels[g]<<8 | levels[b]
				idx++
			}
		}
	}
	for i := 0; i < 24; i++ {
		v := uint32(8 + i*10)
		p[232+i] = v<<16 | v<<8 | v
	}
	return p
}

// Downsample256 finds the nearest xterm-256 index to an RGB color by
// perceptual (CIE76 Lab) distance, for clients that negotiate no
// truecolor support (SPEC_FULL.md §2 domain stack: go-colorful).
func Downsample256(rgb uint32) int {
	target, _ := colorful.Hex(hexString(rgb))
	best, bestDist := 0, -1.0
	for i, packed := range xterm256 {
		c, _ := colorful.Hex(hexString(packed))
		d := target.DistanceLab(c)
		if bestDist < 0 || d < bestDist {
			bestDist, best = d, i
		}
	}
	return best
}

// DownsampleANSI16 is Downsample256 restricted to the 16 basic ANSI
// colors, for clients that negotiate neither truecolor nor 256-color
// support.
func DownsampleANSI16(rgb uint32) int {
	target, _ := colorful.Hex(hexString(rgb))
	best, bestDist := 0, -1.0
	for i := 0; i < 16; i++ {
		c, _ := colorful.Hex(hexString(xterm256[i]))
		d := target.DistanceLab(c)
		if bestDist < 0 || d < bestDist {
			bestDist, best = d, i
		}
	}
	return best
}

func hexString(rgb uint32) string {
	const hexDigits = "0123456789abcdef"
	b := make([]byte, 7)
	b[0] = '#'
	for i := 0; i < 6; i++ {
		shift := uint(20 - i*4)
		b[i+1] = hexDigits[(rgb>>shift)&0xF]
	}
	return string(b)
}

// ResolveColor converts a Color to a packed 0xRRGGBB value, expanding an
// indexed color via xterm256 and leaving RGB colors untouched. ColorDefault
// resolves to the palette's default foreground/background, supplied by the
// caller as def.
func ResolveColor(c Color, def uint32) uint32 {
	switch c.Kind {
	case ColorIndexed:
		if int(c.Value) < len(xterm256) {
			return xterm256[c.Value]
		}
		return def
	case ColorRGB:
		return c.Value
	default:
		return def
	}
}
