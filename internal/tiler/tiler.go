// Package tiler implements the geometry engine that arranges panes into a
// tiled layout plus a floating overlay (spec §4.C). Nodes are stored in an
// arena and referenced by index rather than by pointer, per spec §9's
// redesign note replacing the source's cyclic child-to-parent
// back-pointers; traversal is by explicit stack, not pointer chasing.
package tiler

import (
	"fmt"

	"muxd/internal/pane"
)

// Axis names a split's orientation. Horizontal stacks children top/bottom
// (each spanning the full width); Vertical places children side by side
// (each spanning the full height) — matching spec §8 scenario S1/S2's
// naming (SplitHorizontal stacks rows, SplitVertical makes columns).
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// minFrac guarantees each child of a split retains at least one cell in
// its split dimension (spec §4.C resize clamp).
const minFrac = 0.05

// Rect is an absolute, integer-cell rectangle.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) right() int  { return r.X + r.W }
func (r Rect) bottom() int { return r.Y + r.H }

// nodeKind discriminates a leaf from an internal split node.
type nodeKind int

const (
	kindLeaf nodeKind = iota
	kindSplit
)

// node is one arena slot: either a leaf (Pane) or an internal split with
// two child indices. free marks a slot available for reuse after a close.
type node struct {
	kind     nodeKind
	parent   int // -1 for root
	free     bool
	paneID   pane.ID
	axis     Axis
	frac     float64
	children [2]int
}

// floatEntry is one floating-layer pane with absolute coordinates.
type floatEntry struct {
	paneID ID
	rect   Rect
	pinned bool
}

// ID is a re-export of pane.ID for readability within this package's API.
type ID = pane.ID

// fullscreenState stacks the pre-fullscreen tree so a second toggle
// restores it (spec §4.C "toggle_fullscreen").
type fullscreenState struct {
	paneID    ID
	savedRoot int
	savedArena []node
}

// Tiler is a binary split tree over tiled leaves plus a parallel floating
// list (spec §3 "Tiler").
type Tiler struct {
	arena []node
	root  int // -1 when the tree is empty

	floats []floatEntry

	fullscreen *fullscreenState
}

// New creates an empty Tiler (no panes tiled yet).
func New() *Tiler {
	return &Tiler{root: -1}
}

// NewWithPane creates a Tiler whose single leaf is id.
func NewWithPane(id ID) *Tiler {
	t := New()
	t.root = t.alloc(node{kind: kindLeaf, parent: -1, paneID: id})
	return t
}

func (t *Tiler) alloc(n node) int {
	for i := range t.arena {
		if t.arena[i].free {
			t.arena[i] = n
			return i
		}
	}
	t.arena = append(t.arena, n)
	return len(t.arena) - 1
}

func (t *Tiler) free(i int) {
	t.arena[i] = node{free: true}
}

// findLeaf returns the arena index of the leaf holding id, or -1.
func (t *Tiler) findLeaf(id ID) int {
	if t.root == -1 {
		return -1
	}
	stack := []int{t.root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.arena[i]
		if n.free {
			continue
		}
		if n.kind == kindLeaf {
			if n.paneID == id {
				return i
			}
			continue
		}
		stack = append(stack, n.children[0], n.children[1])
	}
	return -1
}

// Split replaces the leaf holding target with an internal node with two
// equal-sized children: the existing leaf and a new leaf holding newID
// (spec §4.C "split").
func (t *Tiler) Split(target ID, axis Axis, newID ID) error {
	leafIdx := t.findLeaf(target)
	if leafIdx == -1 {
		return fmt.Errorf("split: pane %d not found", target)
	}
	parent := t.arena[leafIdx].parent

	origLeaf := t.alloc(node{kind: kindLeaf, paneID: target})
	newLeaf := t.alloc(node{kind: kindLeaf, paneID: newID})

	t.arena[leafIdx] = node{
		kind:     kindSplit,
		parent:   parent,
		axis:     axis,
		frac:     0.5,
		children: [2]int{origLeaf, newLeaf},
	}
	t.arena[origLeaf].parent = leafIdx
	t.arena[newLeaf].parent = leafIdx
	return nil
}

// Close removes the leaf holding id; its sibling subtree absorbs the
// space (spec §4.C "close").
func (t *Tiler) Close(id ID) error {
	leafIdx := t.findLeaf(id)
	if leafIdx == -1 {
		return fmt.Errorf("close: pane %d not found", id)
	}
	parent := t.arena[leafIdx].parent
	if parent == -1 {
		// Closing the only remaining leaf empties the tree.
		t.free(leafIdx)
		t.root = -1
		return nil
	}
	p := t.arena[parent]
	var sibling int
	if p.children[0] == leafIdx {
		sibling = p.children[1]
	} else {
		sibling = p.children[0]
	}
	grandparent := p.parent
	t.arena[sibling].parent = grandparent
	if grandparent == -1 {
		t.root = sibling
	} else {
		gp := &t.arena[grandparent]
		if gp.children[0] == parent {
			gp.children[0] = sibling
		} else {
			gp.children[1] = sibling
		}
	}
	t.free(leafIdx)
	t.free(parent)
	return nil
}

// Resize walks up from leaf to the nearest ancestor whose split axis
// matches axis, adjusting its fraction by delta clamped to
// [minFrac, 1-minFrac] (spec §4.C "resize").
func (t *Tiler) Resize(id ID, axis Axis, delta float64) error {
	i := t.findLeaf(id)
	if i == -1 {
		return fmt.Errorf("resize: pane %d not found", id)
	}
	for i != -1 {
		parent := t.arena[i].parent
		if parent == -1 {
			return fmt.Errorf("resize: no ancestor split on axis %v", axis)
		}
		p := &t.arena[parent]
		if p.axis == axis {
			frac := p.frac
			if p.children[1] == i {
				frac -= delta
			} else {
				frac += delta
			}
			if frac < minFrac {
				frac = minFrac
			}
			if frac > 1-minFrac {
				frac = 1 - minFrac
			}
			p.frac = frac
			return nil
		}
		i = parent
	}
	return fmt.Errorf("resize: no ancestor split on axis %v", axis)
}

// LeafRect pairs a pane id with its computed rectangle.
type LeafRect struct {
	PaneID ID
	Rect   Rect
}

// Layout computes the rectangle for every tiled leaf by recursive
// partition, then overlays the floating layer clipped to rect (spec §4.C
// "layout(rect) -> map<leaf, rect>").
func (t *Tiler) Layout(rect Rect) []LeafRect {
	var out []LeafRect
	if t.root != -1 {
		t.layoutNode(t.root, rect, &out)
	}
	for _, f := range t.floats {
		out = append(out, LeafRect{PaneID: f.paneID, Rect: clipRect(f.rect, rect)})
	}
	return out
}

func (t *Tiler) layoutNode(idx int, rect Rect, out *[]LeafRect) {
	n := t.arena[idx]
	if n.kind == kindLeaf {
		*out = append(*out, LeafRect{PaneID: n.paneID, Rect: rect})
		return
	}
	a, b := splitRect(rect, n.axis, n.frac)
	t.layoutNode(n.children[0], a, out)
	t.layoutNode(n.children[1], b, out)
}

func splitRect(rect Rect, axis Axis, frac float64) (Rect, Rect) {
	if axis == Horizontal {
		topH := clampDim(int(float64(rect.H)*frac), rect.H)
		a := Rect{X: rect.X, Y: rect.Y, W: rect.W, H: topH}
		b := Rect{X: rect.X, Y: rect.Y + topH, W: rect.W, H: rect.H - topH}
		return a, b
	}
	leftW := clampDim(int(float64(rect.W)*frac), rect.W)
	a := Rect{X: rect.X, Y: rect.Y, W: leftW, H: rect.H}
	b := Rect{X: rect.X + leftW, Y: rect.Y, W: rect.W - leftW, H: rect.H}
	return a, b
}

func clampDim(v, max int) int {
	if v < 1 {
		v = 1
	}
	if v > max-1 {
		v = max - 1
	}
	if max < 2 {
		v = max
	}
	return v
}

func clipRect(r, bound Rect) Rect {
	x0, y0 := r.X, r.Y
	x1, y1 := r.right(), r.bottom()
	if x0 < bound.X {
		x0 = bound.X
	}
	if y0 < bound.Y {
		y0 = bound.Y
	}
	if x1 > bound.right() {
		x1 = bound.right()
	}
	if y1 > bound.bottom() {
		y1 = bound.bottom()
	}
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// AddFloating adds id to the floating layer at coords (spec §4.C
// "add_floating").
func (t *Tiler) AddFloating(id ID, rect Rect) {
	t.floats = append(t.floats, floatEntry{paneID: id, rect: rect})
}

// RemoveFloating removes id from the floating layer (spec §4.C
// "remove_floating").
func (t *Tiler) RemoveFloating(id ID) {
	for i, f := range t.floats {
		if f.paneID == id {
			t.floats = append(t.floats[:i], t.floats[i+1:]...)
			return
		}
	}
}

// ChangeFloatingCoords updates id's absolute rectangle (spec §4.C
// "change_floating_coords").
func (t *Tiler) ChangeFloatingCoords(id ID, rect Rect) error {
	for i := range t.floats {
		if t.floats[i].paneID == id {
			t.floats[i].rect = rect
			return nil
		}
	}
	return fmt.Errorf("change_floating_coords: pane %d not floating", id)
}

// IsFloating reports whether id is currently in the floating layer.
func (t *Tiler) IsFloating(id ID) bool {
	for _, f := range t.floats {
		if f.paneID == id {
			return true
		}
	}
	return false
}

// ToggleFullscreen makes id the tree's sole leaf, or restores the saved
// tree if id is already fullscreen (spec §4.C "toggle_fullscreen").
func (t *Tiler) ToggleFullscreen(id ID) error {
	if t.fullscreen != nil {
		if t.fullscreen.paneID != id {
			return fmt.Errorf("toggle_fullscreen: pane %d is not the fullscreen pane", id)
		}
		t.arena = t.fullscreen.savedArena
		t.root = t.fullscreen.savedRoot
		t.fullscreen = nil
		return nil
	}
	if t.findLeaf(id) == -1 {
		return fmt.Errorf("toggle_fullscreen: pane %d not found", id)
	}
	saved := make([]node, len(t.arena))
	copy(saved, t.arena)
	t.fullscreen = &fullscreenState{paneID: id, savedRoot: t.root, savedArena: saved}
	t.arena = []node{{kind: kindLeaf, parent: -1, paneID: id}}
	t.root = 0
	return nil
}

// IsFullscreen reports whether any pane is currently fullscreen, and which.
func (t *Tiler) IsFullscreen() (ID, bool) {
	if t.fullscreen == nil {
		return 0, false
	}
	return t.fullscreen.paneID, true
}

// MoveFocus finds, among the current layout's leaves, the best neighbor of
// source in dir and returns its pane id (spec §4.C "move_focus"). For the
// leftward case: candidates are leaves whose right edge is at or left of
// source's left edge; each is scored by (vertical overlap, negative
// horizontal distance) and the maximum wins (spec §8 scenario S2). The
// other three directions apply the mirrored rule.
func (t *Tiler) MoveFocus(rect Rect, source ID, dir Direction) (ID, bool) {
	leaves := t.Layout(rect)
	var srcRect Rect
	found := false
	for _, l := range leaves {
		if l.PaneID == source {
			srcRect = l.Rect
			found = true
			break
		}
	}
	if !found {
		return 0, false
	}

	best := ID(0)
	bestOverlap := -1
	bestDist := -1
	haveBest := false

	for _, l := range leaves {
		if l.PaneID == source {
			continue
		}
		r := l.Rect
		var candidate bool
		var overlap, dist int
		switch dir {
		case DirLeft:
			candidate = r.right() <= srcRect.X
			overlap = verticalOverlap(r, srcRect)
			dist = srcRect.X - r.right()
		case DirRight:
			candidate = r.X >= srcRect.right()
			overlap = verticalOverlap(r, srcRect)
			dist = r.X - srcRect.right()
		case DirUp:
			candidate = r.bottom() <= srcRect.Y
			overlap = horizontalOverlap(r, srcRect)
			dist = srcRect.Y - r.bottom()
		case DirDown:
			candidate = r.Y >= srcRect.bottom()
			overlap = horizontalOverlap(r, srcRect)
			dist = r.Y - srcRect.bottom()
		}
		if !candidate || overlap <= 0 {
			continue
		}
		if !haveBest || overlap > bestOverlap || (overlap == bestOverlap && dist < bestDist) {
			best = l.PaneID
			bestOverlap = overlap
			bestDist = dist
			haveBest = true
		}
	}
	return best, haveBest
}

// Direction names a focus-movement direction (spec §4.C "move_focus").
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

func verticalOverlap(a, b Rect) int {
	top := a.Y
	if b.Y > top {
		top = b.Y
	}
	bottom := a.bottom()
	if b.bottom() < bottom {
		bottom = b.bottom()
	}
	if bottom <= top {
		return 0
	}
	return bottom - top
}

func horizontalOverlap(a, b Rect) int {
	left := a.X
	if b.X > left {
		left = b.X
	}
	right := a.right()
	if b.right() < right {
		right = b.right()
	}
	if right <= left {
		return 0
	}
	return right - left
}

// Leaves returns the pane ids of every tiled leaf, in tree traversal order.
func (t *Tiler) Leaves() []ID {
	var out []ID
	if t.root == -1 {
		return out
	}
	stack := []int{t.root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.arena[i]
		if n.kind == kindLeaf {
			out = append(out, n.paneID)
			continue
		}
		stack = append(stack, n.children[0], n.children[1])
	}
	return out
}
