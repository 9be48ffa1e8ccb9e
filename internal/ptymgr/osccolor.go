package ptymgr

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// defaultOscFg/defaultOscBg are the X11 rgb: values answered for OSC 10/11
// default-color queries before SetColors has ever been called, matching a
// conventional dark terminal palette.
const (
	defaultOscFg = "rgb:ffff/ffff/ffff"
	defaultOscBg = "rgb:0000/0000/0000"
)

// SetColors records the real attached terminal's foreground/background
// (detected by the attach client, see internal/cmd) so subsequent OSC
// 10/11 queries from child processes get a truthful answer instead of the
// dark-palette default.
func (m *Manager) SetColors(fg, bg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fg != "" {
		m.oscFg = fg
	}
	if bg != "" {
		m.oscBg = bg
	}
}

func (m *Manager) colors() (fg, bg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fg, bg = m.oscFg, m.oscBg
	if fg == "" {
		fg = defaultOscFg
	}
	if bg == "" {
		bg = defaultOscBg
	}
	return fg, bg
}

// answerColorQueries scans a chunk of PTY output for OSC 10/11 "?" queries
// (`ESC ] 10 ; ? BEL` or the ST-terminated form) and writes the recorded
// color straight back to the child's stdin, the way a real terminal would.
// The Grid's own OSC dispatch records these as no-ops (spec §4.A) since
// answering them is this layer's job, matching the byte-stream-level
// handling grid/osc.go documents.
func (m *Manager) answerColorQueries(c *child, data []byte) {
	rest := data
	for {
		idx := bytes.Index(rest, []byte("\x1b]"))
		if idx < 0 {
			return
		}
		rest = rest[idx:]
		num, query, length, ok := parseOSCColorQuery(rest)
		if !ok {
			rest = rest[2:]
			continue
		}
		if query {
			fg, bg := m.colors()
			var resp string
			switch num {
			case 10:
				resp = fmt.Sprintf("\x1b]10;%s\x07", fg)
			case 11:
				resp = fmt.Sprintf("\x1b]11;%s\x07", bg)
			}
			if resp != "" {
				c.mu.Lock()
				c.ptm.Write([]byte(resp))
				c.mu.Unlock()
			}
		}
		rest = rest[length:]
	}
}

// parseOSCColorQuery recognizes `ESC ] <num> ; ? (BEL|ESC\)` at the start
// of data. Returns the OSC number, whether it was a "?" query, the byte
// length of the whole sequence, and whether a complete OSC 10/11 sequence
// was found at all (incomplete/unrelated sequences return ok=false so the
// caller advances past just the introducer and keeps scanning).
func parseOSCColorQuery(data []byte) (num int, query bool, length int, ok bool) {
	if len(data) < 2 || data[0] != 0x1B || data[1] != ']' {
		return 0, false, 0, false
	}
	term := bytes.IndexByte(data, 0x07)
	termLen := 1
	if term < 0 {
		if st := bytes.Index(data, []byte("\x1b\\")); st >= 0 {
			term = st
			termLen = 2
		}
	}
	if term < 0 {
		return 0, false, 0, false
	}
	body := string(data[2:term])
	parts := strings.SplitN(body, ";", 2)
	n, err := strconv.Atoi(parts[0])
	if err != nil || (n != 10 && n != 11) {
		return 0, false, 0, false
	}
	isQuery := len(parts) == 2 && strings.TrimSpace(parts[1]) == "?"
	return n, isQuery, term + termLen, true
}
