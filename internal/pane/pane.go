// Package pane wraps a single Grid with its PTY child process handle,
// titles, and selection/float bookkeeping (spec §4.B). A Pane is owned
// exclusively by the Screen thread once registered, per spec §9's
// ownership-disciplined reimplementation: the PTY reader sends bytes over
// the bus, it never touches the Pane or Grid directly.
package pane

import (
	"fmt"

	"muxd/internal/grid"
)

// ID identifies a pane for the life of the server.
type ID uint64

// Placement names where a pane lives within its tab.
type Placement int

const (
	PlacementTiled Placement = iota
	PlacementFloating
	PlacementPinned
)

// Pane owns one Grid and the bookkeeping the spec assigns it: a child
// process handle, title strings, selection, and tiled/floating/pinned
// placement (spec §3 "Pane").
type Pane struct {
	ID    ID
	Grid  *grid.Grid
	Place Placement

	UserTitle string // user-set title, takes precedence when non-empty
	AppTitle  string // application-set title (OSC 0/1/2)

	PID      int
	Exited   bool
	ExitCode int

	rows, cols int
}

// New creates a Pane with a fresh Grid of the given size and scrollback
// cap (spec §3 Grid lifecycle).
func New(id ID, rowsN, colsN, scrollbackCap int) *Pane {
	g := grid.New(rowsN, colsN, scrollbackCap)
	p := &Pane{ID: id, Grid: g, rows: rowsN, cols: colsN}
	g.SetTitleHandler(func(title string, icon bool) {
		if !icon {
			p.AppTitle = title
		}
	})
	return p
}

// Title returns the user title if set, else the application title.
func (p *Pane) Title() string {
	if p.UserTitle != "" {
		return p.UserTitle
	}
	if p.AppTitle != "" {
		return p.AppTitle
	}
	return fmt.Sprintf("pane %d", p.ID)
}

// HandleOutput forwards PTY output to the Grid (spec §4.B contract).
func (p *Pane) HandleOutput(b []byte) {
	p.Grid.Feed(b)
}

// Resize informs the Grid of a window-size change. The kernel-level
// window-size ioctl is the PTY manager's responsibility (spec §4.F); this
// only updates the Grid's model, matching the Pane/PTY-manager split in
// spec §4.B ("resize... informs the kernel of window-size change, then
// Grid::resize").
func (p *Pane) Resize(rowsN, colsN int) {
	p.rows, p.cols = rowsN, colsN
	p.Grid.Resize(rowsN, colsN)
}

// Dims returns the pane's current size.
func (p *Pane) Dims() (rowsN, colsN int) { return p.rows, p.cols }

// Render delegates to the Grid's frame-diff renderer (spec §4.B).
func (p *Pane) Render() []byte {
	return p.Grid.Render()
}

// RenderAt delegates to the Grid's frame-diff renderer, offsetting every
// cursor-move escape so the output composes directly into a larger
// frame at (rowOffset, colOffset) (spec §4.E "frame composition").
func (p *Pane) RenderAt(rowOffset, colOffset int) []byte {
	return p.Grid.RenderAt(rowOffset, colOffset)
}

// SetSelection, ClearSelection, and CopySelection delegate selection
// operations to the Grid (spec §4.B "Selection operations are delegated
// to the Grid").
func (p *Pane) SetSelection(aRow, aCol, bRow, bCol int) { p.Grid.SetSelection(aRow, aCol, bRow, bCol) }
func (p *Pane) ClearSelection()                         { p.Grid.ClearSelection() }
func (p *Pane) CopySelection() string                   { return p.Grid.CopySelection() }

// MarkExited records the child's termination (spec §4.F ClosePane).
func (p *Pane) MarkExited(code int) {
	p.Exited = true
	p.ExitCode = code
}
