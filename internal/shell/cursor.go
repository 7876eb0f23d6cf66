package shell

import (
	"github.com/louisbranch/showcase/internal/canvas/mathx"
	"github.com/louisbranch/showcase/internal/canvas/view"
)

const cursorEase = 0.1

// Cursor radii at rest, while holding and while navigating.
const (
	bulletRest  = 3
	circleRest  = 30
	circleHold  = 10
	arrowsShown = 1
)

// Spring is a value eased toward its target every frame.
type Spring struct {
	Value  float32
	Target float32
}

func (s *Spring) update() {
	s.Value = mathx.Lerp(s.Value, s.Target, cursorEase)
}

// Cursor is the desktop pointer: a bullet pinned to the pointer, a circle
// trailing it and the drag arrows shown while holding.
type Cursor struct {
	Bullet view.Point
	Circle view.Point

	BulletScale Spring
	CircleScale Spring
	Arrows      Spring

	pointer view.Point
	holding bool
}

// NewCursor centers the cursor in the viewport.
func NewCursor(width, height float32) *Cursor {
	center := view.Point{X: width / 2, Y: height / 2}
	return &Cursor{
		Bullet:      center,
		Circle:      center,
		pointer:     center,
		BulletScale: Spring{Value: bulletRest, Target: bulletRest},
		CircleScale: Spring{Value: circleRest, Target: circleRest},
	}
}

// Holding reports whether the pointer is down.
func (c *Cursor) Holding() bool { return c.holding }

func (c *Cursor) Down() {
	c.holding = true
	c.Arrows.Target = arrowsShown
	c.BulletScale.Target = 0
	c.CircleScale.Target = circleHold
}

func (c *Cursor) Move(p view.Point) {
	c.pointer = p
}

func (c *Cursor) Up() {
	c.holding = false
	c.rest()
}

// NavigationStart collapses the cursor while a page loads.
func (c *Cursor) NavigationStart() {
	c.Arrows.Target = 0
	c.BulletScale.Target = 0
	c.CircleScale.Target = 0
}

// NavigationEnd restores the resting cursor.
func (c *Cursor) NavigationEnd() {
	c.rest()
}

func (c *Cursor) rest() {
	c.Arrows.Target = 0
	c.BulletScale.Target = bulletRest
	c.CircleScale.Target = circleRest
}

// Update eases the scales and trails the circle behind the pointer. While
// holding the circle sticks to the pointer.
func (c *Cursor) Update() {
	c.Arrows.update()
	c.BulletScale.update()
	c.CircleScale.update()

	c.Bullet = c.pointer
	amount := float32(cursorEase)
	if c.holding {
		amount = 1
	}
	c.Circle.X = mathx.Lerp(c.Circle.X, c.pointer.X, amount)
	c.Circle.Y = mathx.Lerp(c.Circle.Y, c.pointer.Y, amount)
}
