package input

import (
	"strconv"
	"strings"

	"muxd/internal/bus"
	"muxd/internal/tiler"
)

// DecodeMouseSGR parses one SGR mouse report (CSI < Cb ; Cx ; Cy M/m,
// mode 1006) from the front of data. It returns ok=false if data does
// not begin with a complete SGR mouse report.
func DecodeMouseSGR(data []byte) (ev bus.MouseEvent, consumed int, ok bool) {
	if len(data) < 4 || data[0] != 0x1B || data[1] != '[' || data[2] != '<' {
		return bus.MouseEvent{}, 0, false
	}
	end := -1
	for i := 3; i < len(data); i++ {
		if data[i] == 'M' || data[i] == 'm' {
			end = i
			break
		}
	}
	if end == -1 {
		return bus.MouseEvent{}, 0, false
	}
	body := string(data[3:end])
	parts := strings.Split(body, ";")
	if len(parts) != 3 {
		return bus.MouseEvent{}, 0, false
	}
	cb, err1 := strconv.Atoi(parts[0])
	cx, err2 := strconv.Atoi(parts[1])
	cy, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return bus.MouseEvent{}, 0, false
	}

	release := data[end] == 'm'
	motion := cb&32 != 0
	wheel := cb&64 != 0
	button := cb & 0x3

	m := bus.MouseEvent{
		Row:     cy - 1,
		Col:     cx - 1,
		Button:  button,
		Pressed: !release,
		Motion:  motion,
	}
	if wheel {
		if button == 0 {
			m.WheelUp = true
		} else {
			m.WheelDn = true
		}
	}
	return m, end + 1, true
}

// Translate converts an event in absolute screen coordinates to
// coordinates relative to whichever pane's rectangle in leaves contains
// it, along with that pane's id. ok is false when the event falls
// outside every pane (e.g. on a border or the status bar).
func Translate(ev bus.MouseEvent, leaves []tiler.LeafRect) (bus.PaneID, bus.MouseEvent, bool) {
	for _, l := range leaves {
		r := l.Rect
		if ev.Col >= r.X && ev.Col < r.X+r.W && ev.Row >= r.Y && ev.Row < r.Y+r.H {
			rel := ev
			rel.Row = ev.Row - r.Y
			rel.Col = ev.Col - r.X
			return bus.PaneID(l.PaneID), rel, true
		}
	}
	return 0, bus.MouseEvent{}, false
}
