// Package ptymgr owns every pane's child process and PTY master fd. It
// is the only package that touches os/exec and the PTY ioctls; the rest
// of the server only ever sees bus.PtyInstruction / bus.ScreenInstruction
// traffic (spec §4.F), mirroring the ownership discipline the source's
// VT type applies to a single terminal (see virtualterminal.VT.StartPTY /
// PipeOutput / Resize) generalized here to many concurrently-owned panes.
package ptymgr

import (
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
	"github.com/google/shlex"

	"muxd/internal/bus"
)

// child is the live state for one spawned pane.
type child struct {
	ptm *os.File
	cmd *exec.Cmd
	mu  sync.Mutex // guards writes to ptm
}

// Manager processes bus.PtyInstruction values and emits
// bus.ScreenInstruction values for output and process-exit notifications
// (spec §4.F).
type Manager struct {
	in     *bus.Bus[bus.PtyInstruction]
	screen *bus.Bus[bus.ScreenInstruction]

	mu       sync.Mutex
	children map[bus.PaneID]*child
	oscFg    string
	oscBg    string
}

// New wires a Manager between the PTY instruction bus it consumes and
// the Screen instruction bus it produces on.
func New(in *bus.Bus[bus.PtyInstruction], screen *bus.Bus[bus.ScreenInstruction]) *Manager {
	return &Manager{
		in:       in,
		screen:   screen,
		children: make(map[bus.PaneID]*child),
	}
}

// Run drains instructions until the bus closes or a Quit instruction
// arrives. It is meant to run as the body of its own goroutine, guarded
// by bus.Guard at the call site.
func (m *Manager) Run(ctx bus.ErrorContext, server *bus.Bus[bus.ServerInstruction]) {
	for env := range m.in.Recv() {
		instr := env.Ctx
		switch instr.Kind {
		case bus.PISpawnTerminal:
			if err := m.spawn(env.Err, instr); err != nil {
				server.Send(env.Err.Push("ptymgr.spawn"), bus.ServerInstruction{
					Kind:    bus.SvError,
					Message: err.Error(),
				})
			}
		case bus.PIWrite:
			m.write(instr.PaneID, instr.Bytes)
		case bus.PIResize:
			if instr.Barrier != nil {
				m.ResizeSync(instr.PaneID, instr.Rows, instr.Cols, instr.Barrier)
			} else {
				m.resize(instr.PaneID, instr.Rows, instr.Cols)
			}
		case bus.PIClosePane:
			m.kill(instr.PaneID)
		case bus.PIQuit:
			m.quitAll()
			return
		}
	}
}

// spawn splits Command with shlex (so quoted arguments in a user-supplied
// shell command survive), starts it attached to a new PTY sized rows x
// cols, and launches the per-pane reader goroutine.
func (m *Manager) spawn(ctx bus.ErrorContext, instr bus.PtyInstruction) error {
	argv, err := shlex.Split(instr.Command)
	if err != nil || len(argv) == 0 {
		return fmt.Errorf("spawn pane %d: invalid command %q", instr.PaneID, instr.Command)
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	if instr.Cwd != "" {
		cmd.Dir = instr.Cwd
	}
	ptm, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(instr.Rows),
		Cols: uint16(instr.Cols),
	})
	if err != nil {
		return fmt.Errorf("spawn pane %d: %w", instr.PaneID, err)
	}

	c := &child{ptm: ptm, cmd: cmd}
	m.mu.Lock()
	m.children[instr.PaneID] = c
	m.mu.Unlock()

	go m.pipeOutput(ctx, instr.PaneID, c)
	return nil
}

// pipeOutput reads child output until EOF/error, forwarding every chunk
// to Screen in order, then reports the process's exit (spec §4.F
// "ClosePane(pane_id, exit_status)").
func (m *Manager) pipeOutput(ctx bus.ErrorContext, id bus.PaneID, c *child) {
	buf := make([]byte, 32*1024)
	for {
		n, err := c.ptm.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			m.answerColorQueries(c, chunk)
			m.screen.Send(ctx.Push("ptymgr.output"), bus.ScreenInstruction{
				Kind:   bus.SIHandleOutput,
				PaneID: id,
				Bytes:  chunk,
			})
		}
		if err != nil {
			break
		}
	}

	waitErr := c.cmd.Wait()
	status := bus.ExitStatus{}
	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			status.Code = exitErr.ExitCode()
		} else {
			status.Crashed = true
		}
	}
	m.mu.Lock()
	delete(m.children, id)
	m.mu.Unlock()

	m.screen.Send(ctx.Push("ptymgr.exit"), bus.ScreenInstruction{
		Kind:   bus.SIClosePane,
		PaneID: id,
		Exit:   &status,
	})
}

func (m *Manager) write(id bus.PaneID, b []byte) {
	m.mu.Lock()
	c := m.children[id]
	m.mu.Unlock()
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ptm.Write(b)
}

// resize applies the winsize change to the child's PTY. Ordering it
// against the Grid's own resize (so the next frame renders at the right
// size) is the caller's job: see ResizeSync and the PIResize.Barrier
// field.
func (m *Manager) resize(id bus.PaneID, rows, cols int) {
	m.mu.Lock()
	c := m.children[id]
	m.mu.Unlock()
	if c == nil {
		return
	}
	pty.Setsize(c.ptm, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

func (m *Manager) kill(id bus.PaneID) {
	m.mu.Lock()
	c := m.children[id]
	delete(m.children, id)
	m.mu.Unlock()
	if c == nil {
		return
	}
	if c.cmd.Process != nil {
		c.cmd.Process.Kill()
	}
	c.ptm.Close()
}

func (m *Manager) quitAll() {
	m.mu.Lock()
	ids := make([]bus.PaneID, 0, len(m.children))
	for id := range m.children {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		m.kill(id)
	}
}

// ResizeSync applies the winsize change and then fires barrier, the
// rendezvous spec §5 requires before the initiating thread (Screen, via
// PIResize) may process any further input against the new geometry
// (spec §9's AckBarrier redesign replacing the source's single global
// Mutex+Condvar resize rendezvous).
func (m *Manager) ResizeSync(id bus.PaneID, rows, cols int, barrier *bus.AckBarrier) {
	m.resize(id, rows, cols)
	barrier.Done()
}
