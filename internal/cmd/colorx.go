package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/colorprofile"
	"github.com/muesli/termenv"
)

// colorToX11 converts a termenv.Color to X11 "rgb:rrrr/gggg/bbbb" format,
// adapted from the teacher's internal/session/virtualterminal.ColorToX11
// (used there to answer OSC 10/11 default-color queries truthfully; here
// to report the attaching terminal's real colors to the daemon, see
// protocol.Request.OscFg/OscBg).
func colorToX11(c termenv.Color) string {
	if c == nil {
		return ""
	}
	if v, ok := c.(termenv.RGBColor); ok {
		hex := string(v)
		if len(hex) == 7 && hex[0] == '#' {
			r, _ := strconv.ParseUint(hex[1:3], 16, 8)
			g, _ := strconv.ParseUint(hex[3:5], 16, 8)
			b, _ := strconv.ParseUint(hex[5:7], 16, 8)
			return fmt.Sprintf("rgb:%04x/%04x/%04x", r*0x101, g*0x101, b*0x101)
		}
	}
	rgb := termenv.ConvertToRGB(c)
	r := uint8(rgb.R*255 + 0.5)
	g := uint8(rgb.G*255 + 0.5)
	b := uint8(rgb.B*255 + 0.5)
	return fmt.Sprintf("rgb:%04x/%04x/%04x", uint16(r)*0x101, uint16(g)*0x101, uint16(b)*0x101)
}

// colorProfileName maps a detected colorprofile.Profile to the name
// protocol.Request.ColorProfile expects (see internal/grid.ColorProfile).
func colorProfileName(p colorprofile.Profile) string {
	switch p {
	case colorprofile.TrueColor:
		return "truecolor"
	case colorprofile.ANSI256:
		return "ansi256"
	case colorprofile.ANSI:
		return "ansi"
	default: // Ascii, NoTTY
		return "ascii"
	}
}
