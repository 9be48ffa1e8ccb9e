package screen

import (
	"muxd/internal/pane"
)

// Render composes the active tab's panes into one outbound byte stream:
// each pane's own frame-diff output, with its cursor-move escapes
// already offset to the pane's absolute position within the Screen
// (spec §4.E "frame composition").
func (s *Screen) Render() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.activeTabLocked()
	if t == nil {
		return nil
	}

	var out []byte
	for _, l := range t.Layout(s.Rect()) {
		p, ok := t.Panes[pane.ID(l.PaneID)]
		if !ok {
			continue
		}
		frame := p.RenderAt(l.Rect.Y, l.Rect.X)
		out = append(out, frame...)
	}
	s.lastFrame = out
	return out
}
