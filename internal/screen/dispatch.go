package screen

import (
	"muxd/internal/bus"
	"muxd/internal/clipboard"
	"muxd/internal/tab"
	"muxd/internal/tiler"
)

// Run drains ScreenInstructions until the bus closes or a Quit
// instruction arrives, recomposing and posting a fresh frame to the
// server bus after every instruction that could have changed the
// screen (spec §4.E "frame composition"). Meant to run as the body of
// its own goroutine, guarded by bus.Guard at the call site (spec §9
// panic-relay).
func (s *Screen) Run(in *bus.Bus[bus.ScreenInstruction]) {
	for env := range in.Recv() {
		instr := env.Ctx
		switch instr.Kind {
		case bus.SIHandleOutput:
			s.HandleOutput(instr.PaneID, instr.Bytes)
		case bus.SIClosePane:
			exit := bus.ExitStatus{}
			if instr.Exit != nil {
				exit = *instr.Exit
			}
			s.ClosePane(instr.PaneID, exit)
		case bus.SIResizeClient:
			s.Resize(instr.Rows, instr.Cols)
		case bus.SINewTab:
			s.NewTab(instr.Name, "")
		case bus.SISwitchTab:
			s.SwitchTab(instr.TabIndex)
		case bus.SICloseTab:
			s.CloseTab(instr.TabIndex)
		case bus.SIAction:
			s.ApplyAction(instr.Action)
		case bus.SIRender:
			// Falls through to the post-switch push below like every
			// other instruction; this Kind exists so a caller can ask
			// for a frame without any other state change.
		case bus.SIQuit:
			return
		}

		if frame := s.Render(); len(frame) > 0 {
			s.server.Send(env.Err, bus.ServerInstruction{Kind: bus.SvRender, Bytes: frame})
		}
	}
}

// ApplyAction routes a decoded user Action to the Tiler, the focused
// Tab, or the focused Pane, the way spec §4.E's Screen is defined to
// (spec §4.G "Action -> Screen::apply"). Every Tab-level geometry
// change re-derives its current pane rectangles and pushes any changed
// size down to the affected Pane and PTY.
func (s *Screen) ApplyAction(a bus.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.activeTabLocked()
	if t == nil && a.Kind != bus.ActionNewTab && a.Kind != bus.ActionQuit {
		return
	}

	switch a.Kind {
	case bus.ActionWrite:
		s.writeLocked(t, a.Bytes)

	case bus.ActionNewPane:
		s.spawnPaneLocked(t, a.Command, tiler.Horizontal)
		s.resizePanesToLayoutLocked(t)

	case bus.ActionSplitHorizontal:
		s.spawnPaneLocked(t, a.Command, tiler.Horizontal)
		s.resizePanesToLayoutLocked(t)

	case bus.ActionSplitVertical:
		s.spawnPaneLocked(t, a.Command, tiler.Vertical)
		s.resizePanesToLayoutLocked(t)

	case bus.ActionClosePane:
		if t.FocusedPaneID != 0 {
			s.pty.Send(bus.NewErrorContext(), bus.PtyInstruction{
				Kind:   bus.PIClosePane,
				PaneID: bus.PaneID(t.FocusedPaneID),
			})
		}

	case bus.ActionMoveFocus:
		t.MoveFocus(s.Rect(), a.Direction)

	case bus.ActionToggleFullscreen:
		t.Tiler.ToggleFullscreen(t.FocusedPaneID)
		s.resizePanesToLayoutLocked(t)

	case bus.ActionToggleFloating:
		s.toggleFloatingLocked(t)
		s.resizePanesToLayoutLocked(t)

	case bus.ActionScroll:
		// Scrollback viewing is a client-side render concern layered over
		// the Grid's retained lines; nothing in the pane model mutates.

	case bus.ActionClearScroll:

	case bus.ActionNewTab:
		s.unlockAndNewTab(a.Name, a.Command)

	case bus.ActionSwitchTab:
		s.ActiveTabIndex = a.TabIndex

	case bus.ActionCloseTab:
		s.closeTabLocked(a.TabIndex)

	case bus.ActionRenameTab:
		t.Name = a.Name

	case bus.ActionRenamePane:
		if p, ok := t.Panes[t.FocusedPaneID]; ok {
			p.UserTitle = a.Name
		}

	case bus.ActionSetMode:
		// Mode is Input-thread state; Screen doesn't track it.

	case bus.ActionCopyToClipboard:
		if p, ok := t.Panes[t.FocusedPaneID]; ok {
			text := p.CopySelection()
			clipboard.SetSystem(text)
			s.server.Send(bus.NewErrorContext(), bus.ServerInstruction{
				Kind:    bus.SvRender,
				Message: clipboard.Encode(text, a.ClipDest),
			})
		}

	case bus.ActionSearchTerm:

	case bus.ActionQuit:
		s.pty.Send(bus.NewErrorContext(), bus.PtyInstruction{Kind: bus.PIQuit})
		s.server.Send(bus.NewErrorContext(), bus.ServerInstruction{Kind: bus.SvQuit})
	}
}

func (s *Screen) activeTabLocked() *tab.Tab {
	if s.ActiveTabIndex < 0 || s.ActiveTabIndex >= len(s.Tabs) {
		return nil
	}
	return s.Tabs[s.ActiveTabIndex]
}

func (s *Screen) writeLocked(t *tab.Tab, b []byte) {
	if t == nil {
		return
	}
	for _, id := range t.Write(b) {
		s.pty.Send(bus.NewErrorContext(), bus.PtyInstruction{
			Kind:   bus.PIWrite,
			PaneID: bus.PaneID(id),
			Bytes:  b,
		})
	}
}

func (s *Screen) toggleFloatingLocked(t *tab.Tab) {
	id := t.FocusedPaneID
	if id == 0 {
		return
	}
	if t.Tiler.IsFloating(id) {
		t.Tiler.RemoveFloating(id)
		return
	}
	rect := s.Rect()
	t.Tiler.AddFloating(id, tiler.Rect{X: rect.W / 4, Y: rect.H / 4, W: rect.W / 2, H: rect.H / 2})
}

func (s *Screen) closeTabLocked(index int) {
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

// unlockAndNewTab is used from within ApplyAction, which already holds
// s.mu, to call the exported NewTab (which takes the lock itself)
// without deadlocking.
func (s *Screen) unlockAndNewTab(name, command string) {
	s.mu.Unlock()
	s.NewTab(name, command)
	s.mu.Lock()
}
