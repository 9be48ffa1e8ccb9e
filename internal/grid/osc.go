package grid

import (
	"bytes"
	"encoding/base64"
	"strconv"
)

// oscDispatch handles a completed OSC string (spec §4.A OscDispatch, §6 OSC
// numbers 0/1/2/4/7/8/10/11/52/104/110/111).
func (g *Grid) oscDispatch(raw []byte) {
	numStr, rest, ok := cutOSC(raw)
	if !ok {
		return
	}
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return
	}
	switch num {
	case 0: // icon + window title
		g.setTitle(string(rest), true)
		g.setTitle(string(rest), false)
	case 1: // icon title only
		g.setTitle(string(rest), true)
	case 2: // window title only
		g.setTitle(string(rest), false)
	case 8: // hyperlink: OSC 8 ; params ; uri ST
		g.handleHyperlink(rest)
	case 52: // clipboard: OSC 52 ; c ; base64 ST (spec §8 scenario S5)
		g.handleOSC52(rest)
	case 4, 7, 10, 11, 104, 110, 111:
		// Palette/cwd/default-color queries: recorded as no-ops at the grid
		// layer; the PTY manager answers 10/11 queries directly from the
		// byte stream (see ptymgr), matching spec §4.A "the grid records
		// this but does not act on it."
	}
}

func (g *Grid) setTitle(title string, icon bool) {
	if icon {
		g.iconTitle = title
	} else {
		g.title = title
	}
	if g.onTitle != nil {
		g.onTitle(title, icon)
	}
}

// Title returns the current window title.
func (g *Grid) Title() string { return g.title }

// IconTitle returns the current icon title.
func (g *Grid) IconTitle() string { return g.iconTitle }

// PushTitle implements the title-stack push half of OSC 22/23-adjacent
// xterm title-stack extension some apps rely on.
func (g *Grid) PushTitle() {
	g.titleStack = append(g.titleStack, g.title)
}

// PopTitle restores the most recently pushed title.
func (g *Grid) PopTitle() {
	if len(g.titleStack) == 0 {
		return
	}
	n := len(g.titleStack) - 1
	g.title = g.titleStack[n]
	g.titleStack = g.titleStack[:n]
}

func cutOSC(raw []byte) (num string, rest []byte, ok bool) {
	idx := bytes.IndexByte(raw, ';')
	if idx < 0 {
		return string(raw), nil, true
	}
	return string(raw[:idx]), raw[idx+1:], true
}

// handleHyperlink implements OSC 8: `params ; uri`. An empty uri resets the
// active link id; any cell printed hereafter carries the new id until the
// next OSC 8 reset (spec §4.A "store link id in subsequent cells until
// reset").
func (g *Grid) handleHyperlink(rest []byte) {
	idx := bytes.IndexByte(rest, ';')
	var uri string
	if idx >= 0 {
		uri = string(rest[idx+1:])
	} else {
		uri = string(rest)
	}
	if uri == "" {
		g.style.LinkID = 0
		return
	}
	g.nextLinkID++
	id := g.nextLinkID
	if g.linkURIs == nil {
		g.linkURIs = make(map[uint32]string)
	}
	g.linkURIs[id] = uri
	g.style.LinkID = id
}

// LinkURI returns the URI registered for a cell's LinkID, or "" if none.
func (g *Grid) LinkURI(id uint32) string {
	return g.linkURIs[id]
}

// handleOSC52 implements OSC 52 (spec §8 scenario S5): decode the base64
// clipboard payload and invoke onClipboard without mutating cell data.
func (g *Grid) handleOSC52(rest []byte) {
	idx := bytes.IndexByte(rest, ';')
	if idx < 0 {
		return
	}
	selector := rest[:idx]
	payload := rest[idx+1:]
	if string(payload) == "?" {
		return // query form: answering it is the PTY manager's job
	}
	decoded, err := base64.StdEncoding.DecodeString(string(payload))
	if err != nil {
		return
	}
	dest := ClipboardDestSystem
	if bytes.Contains(selector, []byte("p")) && !bytes.Contains(selector, []byte("c")) {
		dest = ClipboardDestPrimary
	}
	if g.onClipboard != nil {
		g.onClipboard(string(decoded), dest)
	}
}

// dcsHook/dcsPut/dcsUnhook implement the DCS passthrough contract (spec
// §4.A "DCS", §9 open question on Sixel/Kitty): the payload is recorded
// only so tests can assert it never reached cell storage, then discarded.
func (g *Grid) dcsHook(final byte, params []int, intermediates []byte, private byte) {
	g.dcsPayload = g.dcsPayload[:0]
}

func (g *Grid) dcsPut(b byte) {
	g.dcsPayload = append(g.dcsPayload, b)
}

func (g *Grid) dcsUnhook() {
	// Payload available via LastDCSPayload for tests; cell storage was
	// never touched.
}

// LastDCSPayload returns the most recently consumed DCS passthrough
// payload, exposed only for tests (SPEC_FULL.md §4).
func (g *Grid) LastDCSPayload() []byte {
	return append([]byte(nil), g.dcsPayload...)
}
