// Package tab groups a Tiler with the Panes it arranges and the small
// amount of per-tab state (focus, name, synchronized input) that the
// Screen thread needs when routing an Action (spec §4.D).
package tab

import (
	"fmt"
	"sort"

	"muxd/internal/bus"
	"muxd/internal/pane"
	"muxd/internal/tiler"
)

// Tab is one screen of panes: a Tiler geometry plus the Pane objects it
// arranges (spec §3 "Tab").
type Tab struct {
	ID   bus.TabID
	Name string

	Tiler *tiler.Tiler
	Panes map[pane.ID]*pane.Pane

	FocusedPaneID pane.ID
	SyncInput     bool
}

// New creates an empty tab (no panes yet).
func New(id bus.TabID, name string) *Tab {
	return &Tab{
		ID:    id,
		Name:  name,
		Tiler: tiler.New(),
		Panes: make(map[pane.ID]*pane.Pane),
	}
}

// AddPane registers p as a tiled leaf and focuses it. If this is the
// tab's first pane, it becomes the tree's sole leaf; otherwise it is
// split off of the currently-focused pane in the given axis.
func (t *Tab) AddPane(p *pane.Pane, axis tiler.Axis) error {
	if len(t.Panes) == 0 {
		t.Tiler = tiler.NewWithPane(p.ID)
	} else {
		if err := t.Tiler.Split(t.FocusedPaneID, axis, p.ID); err != nil {
			return fmt.Errorf("add pane: %w", err)
		}
	}
	t.Panes[p.ID] = p
	t.FocusedPaneID = p.ID
	return nil
}

// ClosePane removes id from the tiler and the pane map. If id was
// focused, focus moves to any remaining pane (deterministically, the
// lowest surviving id) so the tab is never left unfocused while panes
// remain.
func (t *Tab) ClosePane(id pane.ID) error {
	if _, ok := t.Panes[id]; !ok {
		return fmt.Errorf("close pane: %d not in tab", id)
	}
	if err := t.Tiler.Close(id); err != nil {
		return fmt.Errorf("close pane: %w", err)
	}
	delete(t.Panes, id)
	if t.FocusedPaneID == id {
		t.FocusedPaneID = t.lowestPaneID()
	}
	return nil
}

func (t *Tab) lowestPaneID() pane.ID {
	ids := make([]pane.ID, 0, len(t.Panes))
	for id := range t.Panes {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return 0
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids[0]
}

// Empty reports whether the tab has no panes left.
func (t *Tab) Empty() bool { return len(t.Panes) == 0 }

// FocusedPane returns the currently focused pane, or nil if none.
func (t *Tab) FocusedPane() *pane.Pane {
	return t.Panes[t.FocusedPaneID]
}

// Layout computes each pane's rectangle within rect (spec §4.C
// "layout").
func (t *Tab) Layout(rect tiler.Rect) []tiler.LeafRect {
	return t.Tiler.Layout(rect)
}

// MoveFocus updates FocusedPaneID to the best neighbor of the current
// focus in dir, within rect (spec §4.C "move_focus").
func (t *Tab) MoveFocus(rect tiler.Rect, dir bus.Direction) bool {
	id, ok := t.Tiler.MoveFocus(rect, t.FocusedPaneID, toTilerDirection(dir))
	if !ok {
		return false
	}
	t.FocusedPaneID = id
	return true
}

func toTilerDirection(d bus.Direction) tiler.Direction {
	switch d {
	case bus.DirLeft:
		return tiler.DirLeft
	case bus.DirRight:
		return tiler.DirRight
	case bus.DirUp:
		return tiler.DirUp
	case bus.DirDown:
		return tiler.DirDown
	default:
		return tiler.DirLeft
	}
}

// Write returns the ids of the panes a write of b goes to: the focused
// pane, or every pane in the tab (in ascending pane-id order) when
// SyncInput is set. It sends nothing itself; the caller sends the
// identical payload b to each returned pane (spec §8 invariant 5).
func (t *Tab) Write(b []byte) []pane.ID {
	if !t.SyncInput {
		if t.FocusedPaneID == 0 {
			return nil
		}
		return []pane.ID{t.FocusedPaneID}
	}
	ids := make([]pane.ID, 0, len(t.Panes))
	for id := range t.Panes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
