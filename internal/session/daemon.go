// Package session wires components A-H (Grid through Input, connected
// by Bus) into a running server process with a Unix-socket attach
// protocol, adapting the teacher's daemon/attach split
// (internal/session/daemon.go, internal/session/attach.go) from a
// single-agent-process model to muxd's tabs-of-panes Screen (spec §6
// "external interfaces").
package session

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"muxd/internal/bus"
	"muxd/internal/config"
	"muxd/internal/input"
	"muxd/internal/ptymgr"
	"muxd/internal/screen"
	"muxd/internal/session/eventlog"
	"muxd/internal/session/protocol"
	"muxd/internal/socketdir"
)

const busCapacity = 256

// Daemon owns one running session: its Screen, its PTY manager, the
// socket listener attach clients dial into, and the advisory lock that
// keeps a second daemon from starting against the same socket name
// (spec §9 Open Question, SPEC_FULL.md §3 "single-daemon advisory
// lock").
type Daemon struct {
	Name      string
	StartTime time.Time

	screen *screen.Screen
	ptymgr *ptymgr.Manager

	screenBus *bus.Bus[bus.ScreenInstruction]
	ptyBus    *bus.Bus[bus.PtyInstruction]
	serverBus *bus.Bus[bus.ServerInstruction]

	mu       sync.Mutex
	attached net.Conn // nil when no client is attached
	input    *input.Input

	listener net.Listener
	lock     *flock.Flock
	log      *eventlog.Logger
}

// New builds a Daemon with one empty Screen, wired buses, and a PTY
// manager (Run starts both), but does not yet listen on a socket.
func New(name string, cfg *config.Config, log *eventlog.Logger) *Daemon {
	screenBus := bus.New[bus.ScreenInstruction]("screen", busCapacity)
	ptyBus := bus.New[bus.PtyInstruction]("pty", busCapacity)
	serverBus := bus.New[bus.ServerInstruction]("server", busCapacity)

	sc := screen.New(24, 80, cfg.DefaultShell, cfg.ScrollbackLines, ptyBus, serverBus)
	pm := ptymgr.New(ptyBus, screenBus)

	d := &Daemon{
		Name:      name,
		StartTime: time.Now(),
		screen:    sc,
		ptymgr:    pm,
		screenBus: screenBus,
		ptyBus:    ptyBus,
		serverBus: serverBus,
		input:     input.New(input.DefaultKeybinds()),
		log:       log,
	}
	return d
}

// Listen acquires the single-daemon advisory lock and opens the Unix
// socket this daemon accepts attach connections on.
func (d *Daemon) Listen() error {
	dir := socketdir.Dir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}

	lockPath := socketdir.Path(socketdir.TypeSession, d.Name) + ".lock"
	d.lock = flock.New(lockPath)
	locked, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire session lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("a daemon for session %q is already running", d.Name)
	}

	sockPath := socketdir.Path(socketdir.TypeSession, d.Name)
	os.Remove(sockPath) // stale socket from a killed daemon
	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		d.lock.Unlock()
		return fmt.Errorf("listen on socket: %w", err)
	}
	d.listener = ln
	return nil
}

// Run starts the Screen and PTY manager worker goroutines, spawns the
// first tab, and accepts attach connections until Close is called or a
// Quit instruction propagates through the server bus.
func (d *Daemon) Run() error {
	ctx := bus.NewErrorContext().Push("daemon." + d.Name)

	go func() {
		defer bus.Guard(ctx.Push("ptymgr"), d.serverBus)
		d.ptymgr.Run(ctx.Push("ptymgr"), d.serverBus)
	}()
	go func() {
		defer bus.Guard(ctx.Push("screen"), d.serverBus)
		d.screen.Run(d.screenBus)
	}()

	d.screen.NewTab("main", "")

	go d.acceptLoop(ctx)

	for env := range d.serverBus.Recv() {
		instr := env.Ctx
		switch instr.Kind {
		case bus.SvRender:
			d.broadcast(instr)
		case bus.SvError:
			if d.log != nil {
				d.log.Error("server", instr.Message, env.Err)
			}
		case bus.SvQuit:
			d.Close()
			return nil
		}
	}
	return nil
}

// broadcast writes a rendered frame or a relayed clipboard escape to the
// currently attached client, if any (spec §4.E "frame composition" ->
// client).
func (d *Daemon) broadcast(instr bus.ServerInstruction) {
	d.mu.Lock()
	conn := d.attached
	d.mu.Unlock()
	if conn == nil {
		return
	}
	if len(instr.Bytes) > 0 {
		protocol.WriteFrame(conn, protocol.FrameData, instr.Bytes)
	}
	if instr.Message != "" {
		protocol.WriteFrame(conn, protocol.FrameData, []byte(instr.Message))
	}
}

// Close tears down the listener, advisory lock, and socket file.
func (d *Daemon) Close() {
	d.screenBus.Send(bus.NewErrorContext(), bus.ScreenInstruction{Kind: bus.SIQuit})
	d.ptyBus.Send(bus.NewErrorContext(), bus.PtyInstruction{Kind: bus.PIQuit})
	d.serverBus.Close() // ends Run's receive loop
	if d.listener != nil {
		d.listener.Close()
		os.Remove(socketdir.Path(socketdir.TypeSession, d.Name))
	}
	if d.lock != nil {
		d.lock.Unlock()
		os.Remove(d.lock.Path())
	}
	if d.log != nil {
		d.log.Close()
	}
}

// acceptLoop accepts connections concurrently so a `status` query can
// still be answered while a client holds the attach slot; the attach
// slot itself stays "only one client at a time" (internal/session/attach.go),
// enforced in handleAttach.
func (d *Daemon) acceptLoop(ctx bus.ErrorContext) {
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			return // listener closed
		}
		go d.handleConn(ctx, conn)
	}
}
