// Package screen owns every Tab and Pane in a running session, and is
// the sole consumer of bus.ScreenInstruction (spec §4.E "Screen"). It
// turns Actions into Tiler/Tab/Pane mutations, fans PTY output into the
// right Pane's Grid, and composes the panes of the active tab into one
// outbound frame. The single-owner discipline (every access to a Pane or
// its Grid goes through Screen, under Screen's mutex) is the same discipline the
// source's Overlay applies to a single VT, generalized here to many
// tabs of many panes (spec §9).
package screen

import (
	"sort"
	"sync"

	"muxd/internal/bus"
	"muxd/internal/clipboard"
	"muxd/internal/grid"
	"muxd/internal/pane"
	"muxd/internal/tab"
	"muxd/internal/tiler"
)

// Screen is the top-level container for a session's tabs (spec §3
// "Screen").
type Screen struct {
	mu sync.Mutex

	Tabs           []*tab.Tab
	ActiveTabIndex int

	Rows, Cols int

	nextPaneID bus.PaneID
	nextTabID  bus.TabID

	defaultShell string

	pty    *bus.Bus[bus.PtyInstruction]
	server *bus.Bus[bus.ServerInstruction]

	scrollbackCap int

	// colorProfile is the attached client's negotiated color capability
	// (spec §6 "24-bit SGR", degraded per SPEC_FULL.md §2 domain stack:
	// charmbracelet/colorprofile). Applied to every existing pane's Grid
	// and to every pane spawned afterward.
	colorProfile grid.ColorProfile

	// lastFrame is the previously composed frame. Nothing reads it back:
	// Screen always recomposes fresh since individual Grids already diff
	// internally.
	lastFrame []byte
}

// SetColorProfile records the attaching client's color capability,
// detected client-side (internal/cmd) and forwarded on attach, and
// applies it to every pane already running so a reattach with a
// different terminal re-renders at the right color depth.
func (s *Screen) SetColorProfile(p grid.ColorProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colorProfile = p
	for _, t := range s.Tabs {
		for _, pn := range t.Panes {
			pn.Grid.SetColorProfile(p)
		}
	}
}

// New creates an empty Screen wired to the given buses.
func New(rows, cols int, defaultShell string, scrollbackCap int, pty *bus.Bus[bus.PtyInstruction], server *bus.Bus[bus.ServerInstruction]) *Screen {
	return &Screen{
		Rows:          rows,
		Cols:          cols,
		nextPaneID:    1, // 0 means "no pane" to Tab and ApplyAction
		defaultShell:  defaultShell,
		scrollbackCap: scrollbackCap,
		pty:           pty,
		server:        server,
	}
}

// Rect is the full-screen rectangle tabs lay their panes out into,
// reserving no space for a status line (callers that want one should
// shrink Rows before constructing Screen).
func (s *Screen) Rect() tiler.Rect {
	return tiler.Rect{X: 0, Y: 0, W: s.Cols, H: s.Rows}
}

// ActiveTab returns the currently active tab, or nil if there are none.
func (s *Screen) ActiveTab() *tab.Tab {
	if s.ActiveTabIndex < 0 || s.ActiveTabIndex >= len(s.Tabs) {
		return nil
	}
	return s.Tabs[s.ActiveTabIndex]
}

// NewTab creates a tab with one pane running command (or the default
// shell, if command is empty) and makes it active (spec §4.C/D
// "NewTab").
func (s *Screen) NewTab(name, command string) *tab.Tab {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextTabID
	s.nextTabID++
	t := tab.New(id, name)
	s.Tabs = append(s.Tabs, t)
	s.ActiveTabIndex = len(s.Tabs) - 1

	s.spawnPaneLocked(t, command, tiler.Horizontal)
	return t
}

// CloseTab removes the tab at index, killing every pane it held.
func (s *Screen) CloseTab(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.Tabs) {
		return
	}
	t := s.Tabs[index]
	for id := range t.Panes {
		s.pty.Send(bus.NewErrorContext(), bus.PtyInstruction{Kind: bus.PIClosePane, PaneID: bus.PaneID(id)})
	}
	s.Tabs = append(s.Tabs[:index], s.Tabs[index+1:]...)
	if s.ActiveTabIndex >= len(s.Tabs) {
		s.ActiveTabIndex = len(s.Tabs) - 1
	}
}

// SwitchTab makes the tab at index active (spec §4.D "SwitchTab").
func (s *Screen) SwitchTab(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.Tabs) {
		return
	}
	s.ActiveTabIndex = index
}

// spawnPaneLocked allocates a Pane, wires its clipboard/title callbacks,
// registers it with t (splitting off the focused pane when axis >= 0
// and the tab already has panes), and asks the PTY manager to spawn its
// child process. Caller must hold s.mu.
func (s *Screen) spawnPaneLocked(t *tab.Tab, command string, axis tiler.Axis) *pane.Pane {
	id := s.nextPaneID
	s.nextPaneID++

	p := pane.New(pane.ID(id), s.Rows, s.Cols, s.scrollbackCap)
	p.Grid.SetClipboardHandler(func(text string, dest grid.ClipboardDest) {
		s.relayClipboard(bus.ClipboardDestination(dest), text)
	})
	p.Grid.SetColorProfile(s.colorProfile)

	if err := t.AddPane(p, axis); err != nil {
		// AddPane only fails if FocusedPaneID isn't actually in the tab,
		// which can't happen given spawnPaneLocked is the only writer.
		return nil
	}

	cmd := command
	if cmd == "" {
		cmd = s.defaultShell
	}
	s.pty.Send(bus.NewErrorContext(), bus.PtyInstruction{
		Kind:    bus.PISpawnTerminal,
		PaneID:  bus.PaneID(id),
		Command: cmd,
		Rows:    s.Rows,
		Cols:    s.Cols,
	})
	return p
}

func (s *Screen) relayClipboard(dest bus.ClipboardDestination, text string) {
	clipboard.SetSystem(text)
	s.server.Send(bus.NewErrorContext(), bus.ServerInstruction{
		Kind:    bus.SvRender,
		Message: clipboard.Encode(text, dest),
	})
}

// HandleOutput feeds PTY output into the pane's Grid (spec §4.F ->
// §4.E "HandleOutput").
func (s *Screen) HandleOutput(id bus.PaneID, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findPaneLocked(pane.ID(id))
	if p == nil {
		return
	}
	p.HandleOutput(data)
}

// ClosePane marks a pane exited and removes it from its tab, closing
// the tab too if it was the tab's last pane (spec §4.F "ClosePane").
func (s *Screen) ClosePane(id bus.PaneID, exit bus.ExitStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ti, t := range s.Tabs {
		if p, ok := t.Panes[pane.ID(id)]; ok {
			p.MarkExited(exit.Code)
			t.ClosePane(pane.ID(id))
			if t.Empty() {
				s.Tabs = append(s.Tabs[:ti], s.Tabs[ti+1:]...)
				if s.ActiveTabIndex >= len(s.Tabs) {
					s.ActiveTabIndex = len(s.Tabs) - 1
				}
			} else {
				s.resizePanesToLayoutLocked(t)
			}
			return
		}
	}
}

func (s *Screen) findPaneLocked(id pane.ID) *pane.Pane {
	for _, t := range s.Tabs {
		if p, ok := t.Panes[id]; ok {
			return p
		}
	}
	return nil
}

// Resize updates the Screen's dimensions and every pane's Grid and PTY
// winsize to match its new rectangle (spec §4.F/§9 AckBarrier resize).
func (s *Screen) Resize(rows, cols int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Rows, s.Cols = rows, cols
	for _, t := range s.Tabs {
		s.resizePanesToLayoutLocked(t)
	}
}

// resizePanesToLayoutLocked re-derives t's current pane rectangles from
// its Tiler and pushes any changed size down to the affected Pane's Grid
// and, synchronously via an AckBarrier, the PTY's winsize (spec §5
// "Resize is a synchronous barrier": the initiating thread waits for the
// PTY manager's acknowledgment before any further input against the new
// geometry). Caller must hold s.mu.
func (s *Screen) resizePanesToLayoutLocked(t *tab.Tab) {
	for _, l := range t.Layout(s.Rect()) {
		p, ok := t.Panes[pane.ID(l.PaneID)]
		if !ok {
			continue
		}
		rowsN, colsN := p.Dims()
		if rowsN == l.Rect.H && colsN == l.Rect.W {
			continue
		}
		p.Resize(l.Rect.H, l.Rect.W)
		barrier := bus.NewAckBarrier()
		s.pty.Send(bus.NewErrorContext(), bus.PtyInstruction{
			Kind:    bus.PIResize,
			PaneID:  bus.PaneID(p.ID),
			Rows:    l.Rect.H,
			Cols:    l.Rect.W,
			Barrier: barrier,
		})
		barrier.Wait()
	}
}

// Counts returns the number of tabs and the total number of panes across
// all of them, for status reporting (spec §6 "status").
func (s *Screen) Counts() (tabs, panes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tabs = len(s.Tabs)
	for _, t := range s.Tabs {
		panes += len(t.Panes)
	}
	return tabs, panes
}

// sortedTabIDs returns the tabs' IDs in ascending order.
func (s *Screen) sortedTabIDs() []bus.TabID {
	ids := make([]bus.TabID, 0, len(s.Tabs))
	for _, t := range s.Tabs {
		ids = append(ids, t.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
