// Package clipboard bridges OSC 52 clipboard requests coming out of a
// Grid to the system clipboard, and carries the reverse direction (a
// local paste) back out to attached clients as an OSC 52 response (spec
// §4.A "OSC 52", §9 domain-stack wiring). The source has no clipboard
// package of its own (VT.RespondOSCColors only echoes OSC 10/11 color
// queries); the request/response shape here is grounded on that same
// pattern of matching an OSC query and writing a formatted OSC reply
// back down the PTY.
package clipboard

import (
	"github.com/aymanbagabas/go-osc52/v2"
	"golang.design/x/clipboard"

	"muxd/internal/bus"
)

// initErr/initDone guard golang.design/x/clipboard's required Init call, which
// touches platform clipboard APIs and must run exactly once per process.
var initErr error
var initDone bool

func ensureInit() error {
	if initDone {
		return initErr
	}
	initErr = clipboard.Init()
	initDone = true
	return initErr
}

// SetSystem writes text to the system clipboard (spec §4.A OSC 52,
// destination "c" / system clipboard).
func SetSystem(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// Destination names which clipboard buffer an OSC 52 payload named.
type Destination = bus.ClipboardDestination

// Encode formats text as an OSC 52 set-clipboard sequence addressed to
// dest, for relaying to an attached client's real terminal (spec §4.A
// "OSC 8/52 ... clipboard set requests are parsed... and also
// re-emitted to the attached client").
func Encode(text string, dest Destination) string {
	seq := osc52.New(text)
	switch dest {
	case bus.ClipboardPrimary:
		seq = seq.Primary()
	default:
		seq = seq.Clipboard()
	}
	return seq.String()
}
