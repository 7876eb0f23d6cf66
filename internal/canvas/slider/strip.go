// Package slider runs the auto-scrolling highlight strips of a case page.
package slider

import (
	"github.com/louisbranch/showcase/internal/canvas/mathx"
	"github.com/louisbranch/showcase/internal/canvas/overlay"
)

const (
	desktopSpeed float32 = 7.5
	phoneSpeed   float32 = 1
)

// Direction is the way a strip scrolls.
type Direction int

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	if d == Right {
		return "right"
	}
	return "left"
}

// Button is one repeated label inside a strip, measured at layout time.
type Button struct {
	Offset float32
	Width  float32

	position float32
}

// Strip loops its buttons through a band of fixed width.
type Strip struct {
	id        int
	band      float32
	buttons   []Button
	phone     bool
	sink      overlay.Sink
	direction Direction
	speed     float32
	held      bool
	current   float32
	target    float32
}

// New lays out a strip. band is the visible width in pixels.
func New(id int, band float32, buttons []Button, phone bool, sink overlay.Sink) *Strip {
	if sink == nil {
		sink = overlay.Discard{}
	}
	s := &Strip{id: id, phone: phone, sink: sink}
	s.layout(band, buttons)
	s.Left()
	return s
}

// Left scrolls content leftward.
func (s *Strip) Left() {
	s.direction = Left
	s.speed = desktopSpeed
	if s.phone {
		s.speed = phoneSpeed
	}
}

// Right scrolls content rightward.
func (s *Strip) Right() {
	s.direction = Right
	s.speed = -desktopSpeed
	if s.phone {
		s.speed = -phoneSpeed
	}
}

// Hold pauses the automatic advance while the pointer is down.
func (s *Strip) Hold(down bool) {
	s.held = down
}

// Direction returns the current scroll direction.
func (s *Strip) Direction() Direction {
	return s.direction
}

// Current is the smoothed scroll offset.
func (s *Strip) Current() float32 {
	return s.current
}

// ButtonPosition is the recycle translation of button i.
func (s *Strip) ButtonPosition(i int) float32 {
	if i < 0 || i >= len(s.buttons) {
		return 0
	}
	return s.buttons[i].position
}

// Update advances one frame.
func (s *Strip) Update() {
	if !s.held {
		s.target += s.speed
	}
	s.current = mathx.Damp(s.current, s.target, mathx.Damping)
	s.sink.SetStripOffset(s.id, -s.current)

	for i := range s.buttons {
		b := &s.buttons[i]
		edge := b.Offset + b.position + b.Width - s.current
		before := edge < 0
		after := edge > s.band
		switch {
		case s.direction == Left && before:
			b.position += s.band
		case s.direction == Right && after:
			b.position -= s.band
		default:
			continue
		}
		s.sink.SetStripButton(s.id, i, b.position)
	}
}

// Resize resets scrolling and takes the new layout.
func (s *Strip) Resize(band float32, buttons []Button) {
	s.layout(band, buttons)
	s.sink.SetStripOffset(s.id, 0)
	for i := range s.buttons {
		s.sink.SetStripButton(s.id, i, 0)
	}
}

func (s *Strip) layout(band float32, buttons []Button) {
	s.band = band
	s.current = 0
	s.target = 0
	s.buttons = make([]Button, len(buttons))
	for i, b := range buttons {
		s.buttons[i] = Button{Offset: b.Offset, Width: b.Width}
	}
}
