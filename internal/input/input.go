// Package input turns raw key and mouse bytes from an attached client
// into Actions, by way of a per-mode keybinding table with a documented
// default action per mode (spec §4.G). The byte-at-a-time dispatch, which
// holds back an incomplete escape sequence until more bytes or a Flush
// arrive, is grounded on the source's overlay input
// handler (HandleDefaultBytes / StartPendingEsc / HandleCSI in
// overlay/input.go), generalized from the source's single fixed mode set
// to the full InputMode table the spec defines.
package input

import (
	"time"

	"muxd/internal/bus"
)

// escTimeout is the pending-escape interval; nothing reads it. Decode
// never waits: an incomplete escape sequence stays held back until the
// next Decode call or a Flush.
const escTimeout = 50 * time.Millisecond

// Keybinds maps mode -> key name -> the actions that key triggers. A
// mode with no entry for a key falls through to that mode's default
// action (spec §4.G default-action table).
type Keybinds map[bus.InputMode]map[string][]bus.Action

// DefaultKeybinds returns an empty table; callers populate it (or load
// one from config) before passing it to New.
func DefaultKeybinds() Keybinds {
	return make(Keybinds)
}

// Input decodes raw bytes into Actions according to Keybinds and the
// current InputMode.
type Input struct {
	Binds Keybinds
	Mode  bus.InputMode

	pending    []byte
	pendingEsc bool
}

// New creates an Input starting in ModeNormal.
func New(binds Keybinds) *Input {
	return &Input{Binds: binds, Mode: bus.ModeNormal}
}

// SetMode switches the active mode, as driven by an ActionSetMode.
func (in *Input) SetMode(m bus.InputMode) { in.Mode = m }

// Decode consumes buf and returns the Actions it produces. It may hold
// back a trailing, incomplete escape sequence internally (callers should
// call Decode again with the next chunk; Flush forces resolution of any
// held-back bytes, e.g. on an idle timeout).
func (in *Input) Decode(buf []byte) []bus.Action {
	var out []bus.Action
	data := append(in.pending, buf...)
	in.pending = nil

	i := 0
	for i < len(data) {
		b := data[i]
		if b == 0x1B {
			key, consumed, complete := decodeEscape(data[i:])
			if !complete {
				in.pending = append(in.pending, data[i:]...)
				break
			}
			out = append(out, in.dispatch(key)...)
			i += consumed
			continue
		}
		key, size := decodeKey(data[i:])
		out = append(out, in.dispatch(key)...)
		i += size
	}
	return out
}

// Flush resolves any bytes Decode held back waiting for more of an
// escape sequence — used when the client goes idle and a lone ESC must
// be treated as the Escape key itself (mirrors the source's
// StartPendingEsc/EscTimer pattern).
func (in *Input) Flush() []bus.Action {
	if len(in.pending) == 0 {
		return nil
	}
	data := in.pending
	in.pending = nil
	if data[0] == 0x1B && len(data) == 1 {
		return in.dispatch("Escape")
	}
	key, _, _ := decodeEscape(data)
	return in.dispatch(key)
}

// dispatch looks up key in the active mode's bindings, falling back to
// the mode's documented default action (spec §4.G).
func (in *Input) dispatch(key string) []bus.Action {
	if m, ok := in.Binds[in.Mode]; ok {
		if actions, ok := m[key]; ok {
			return actions
		}
	}
	if a, ok := defaultAction(in.Mode, key); ok {
		return []bus.Action{a}
	}
	return nil
}

// defaultAction implements spec §4.E's per-mode default-action table:
// Normal/Locked write the raw key bytes to the focused pane; RenameTab
// and RenamePane append typed text to the name being edited; EnterSearch
// appends to the pending search term; every other mode is a no-op
// unless the keybind table overrides it.
func defaultAction(mode bus.InputMode, key string) (bus.Action, bool) {
	raw, isPrintable := rawBytesFor(key)
	switch mode {
	case bus.ModeNormal, bus.ModeLocked:
		if raw == nil {
			return bus.Action{}, false
		}
		return bus.Action{Kind: bus.ActionWrite, Bytes: raw}, true
	case bus.ModeRenameTab:
		if !isPrintable {
			return bus.Action{}, false
		}
		return bus.Action{Kind: bus.ActionRenameTab, Name: key}, true
	case bus.ModeRenamePane:
		if !isPrintable {
			return bus.Action{}, false
		}
		return bus.Action{Kind: bus.ActionRenamePane, Name: key}, true
	case bus.ModeEnterSearch:
		if !isPrintable {
			return bus.Action{}, false
		}
		return bus.Action{Kind: bus.ActionSearchTerm, Name: key}, true
	default:
		return bus.Action{}, false
	}
}

// rawBytesFor recovers the literal bytes a decoded key name stands for,
// and reports whether it names a single printable rune (as opposed to a
// control key like "Enter" or "Left").
func rawBytesFor(key string) (raw []byte, printable bool) {
	if namedKeyBytes, ok := namedKeys[key]; ok {
		return namedKeyBytes, false
	}
	r := []rune(key)
	if len(r) == 1 {
		return []byte(key), true
	}
	return nil, false
}
