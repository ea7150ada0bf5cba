package render

// Sprite ties a draw function, a layer and a visibility flag to one object.
// It owns at most one live DrawRequest at any time
type Sprite[S any] struct {
	drawer   *Drawer[S]
	req      *DrawRequest[S]
	draw     DrawFunc[S]
	priority int
}

// NewSprite registers draw at priority; a hidden sprite holds no live request
func NewSprite[S any](d *Drawer[S], draw DrawFunc[S], priority int, visible bool) *Sprite[S] {
	s := &Sprite[S]{drawer: d, draw: draw, priority: priority}
	if visible {
		s.req = d.Add(draw, priority)
	}
	return s
}

// Visible reports whether the sprite is drawn
func (s *Sprite[S]) Visible() bool {
	return s.req != nil && !s.req.Cancelled()
}

// SetVisible shows or hides the sprite
func (s *Sprite[S]) SetVisible(visible bool) {
	if visible == s.Visible() {
		return
	}
	if visible {
		s.req = s.drawer.Add(s.draw, s.priority)
		return
	}
	s.req.Cancel()
}

// Priority returns the sprite's layer
func (s *Sprite[S]) Priority() int {
	return s.priority
}

// SetPriority moves the sprite to another layer, replacing its live request
func (s *Sprite[S]) SetPriority(priority int) {
	if priority == s.priority {
		return
	}
	s.priority = priority
	if s.Visible() {
		s.req.Cancel()
		s.req = s.drawer.Add(s.draw, priority)
	}
}

// SetDraw replaces the draw function in place
func (s *Sprite[S]) SetDraw(draw DrawFunc[S]) {
	s.draw = draw
	if s.req != nil {
		s.req.SetDraw(draw)
	}
}

// Close hides the sprite for good; further calls are no-ops unless it is shown again
func (s *Sprite[S]) Close() {
	s.SetVisible(false)
}
