package session

import (
	"encoding/json"
	"net"

	"muxd/internal/bus"
	"muxd/internal/grid"
	"muxd/internal/session/protocol"
)

// handleConn performs the handshake for one connection, then either
// answers a status request and closes, or switches to the framed attach
// protocol and blocks until the client disconnects (spec §6 "attach").
func (d *Daemon) handleConn(ctx bus.ErrorContext, conn net.Conn) {
	req, err := protocol.ReadRequest(conn)
	if err != nil {
		conn.Close()
		return
	}

	switch req.Type {
	case "status":
		d.handleStatus(conn)
		conn.Close()
		return
	case "attach":
		d.handleAttach(ctx, conn, req)
	default:
		protocol.SendResponse(conn, &protocol.Response{Error: "unknown request type"})
		conn.Close()
	}
}

func (d *Daemon) handleStatus(conn net.Conn) {
	d.mu.Lock()
	attached := d.attached != nil
	d.mu.Unlock()

	tabs, panes := d.screen.Counts()
	protocol.SendResponse(conn, &protocol.Response{
		OK: true,
		Status: &protocol.Status{
			Name:      d.Name,
			Tabs:      tabs,
			Panes:     panes,
			StartedAt: d.StartTime.Format("2006-01-02T15:04:05Z07:00"),
			Attached:  attached,
		},
	})
}

// handleAttach takes over conn for the framed data/control protocol,
// resizing the Screen to the client's reported terminal size and
// forwarding every outbound frame it renders back to this connection
// until the client disconnects (spec §4.E/§6).
func (d *Daemon) handleAttach(ctx bus.ErrorContext, conn net.Conn, req *protocol.Request) {
	d.mu.Lock()
	if d.attached != nil {
		d.mu.Unlock()
		protocol.SendResponse(conn, &protocol.Response{Error: "another client is already attached"})
		conn.Close()
		return
	}
	d.attached = conn
	d.mu.Unlock()

	if err := protocol.SendResponse(conn, &protocol.Response{OK: true}); err != nil {
		d.detach(conn)
		return
	}

	if req.Rows > 0 && req.Cols > 0 {
		d.screenBus.Send(ctx, bus.ScreenInstruction{Kind: bus.SIResizeClient, Rows: req.Rows, Cols: req.Cols})
	}
	d.ptymgr.SetColors(req.OscFg, req.OscBg)
	d.screen.SetColorProfile(parseColorProfile(req.ColorProfile))
	d.screenBus.Send(ctx, bus.ScreenInstruction{Kind: bus.SIRender})

	if d.log != nil {
		d.log.Info("daemon", "client attached", ctx)
	}

	d.readFrames(ctx, conn)

	d.detach(conn)
	if d.log != nil {
		d.log.Info("daemon", "client detached", ctx)
	}
}

// parseColorProfile maps the client-reported profile name to the Grid's
// downsampling level, defaulting to truecolor for an empty or unknown
// value so an older client (or a direct socket poke) still renders.
func parseColorProfile(name string) grid.ColorProfile {
	switch name {
	case "ansi256":
		return grid.ColorProfileANSI256
	case "ansi":
		return grid.ColorProfileANSI
	case "ascii":
		return grid.ColorProfileAscii
	default:
		return grid.ColorProfileTrueColor
	}
}

func (d *Daemon) detach(conn net.Conn) {
	d.mu.Lock()
	if d.attached == conn {
		d.attached = nil
	}
	d.mu.Unlock()
	conn.Close()
}

// readFrames decodes data frames through the Input router into Actions,
// dispatching them on the screen bus, and applies control frames
// (currently just "resize") directly.
func (d *Daemon) readFrames(ctx bus.ErrorContext, conn net.Conn) {
	for {
		ft, payload, err := protocol.ReadFrame(conn)
		if err != nil {
			return
		}
		switch ft {
		case protocol.FrameData:
			d.mu.Lock()
			actions := d.input.Decode(payload)
			d.mu.Unlock()
			for _, a := range actions {
				d.screenBus.Send(ctx, bus.ScreenInstruction{Kind: bus.SIAction, Action: a})
			}
		case protocol.FrameControl:
			var ctrl protocol.ResizeControl
			if json.Unmarshal(payload, &ctrl) == nil && ctrl.Type == "resize" {
				d.screenBus.Send(ctx, bus.ScreenInstruction{Kind: bus.SIResizeClient, Rows: ctrl.Rows, Cols: ctrl.Cols})
			}
		}
	}
}
