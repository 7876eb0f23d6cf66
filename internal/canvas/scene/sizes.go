package scene

import "cogentcore.org/core/math32"

// Dimensions is a width/height pair.
type Dimensions struct {
	Width  float32
	Height float32
}

// Sizes is the viewport snapshot shared by every node of the canvas. The
// canvas owns the single instance and rewrites it in place on resize, so
// nodes keep a pointer instead of a copy.
type Sizes struct {
	Screen      Dimensions
	Environment Dimensions
	PixelRatio  float32
	ScaleRatio  float32
}

// Update recomputes every field from the viewport and camera.
func (s *Sizes) Update(screen Dimensions, devicePixelRatio, rootFontSize float32, cam *Camera) {
	s.Screen = screen
	s.PixelRatio = math32.Min(devicePixelRatio, 2)
	if s.PixelRatio <= 0 {
		s.PixelRatio = 1
	}
	s.ScaleRatio = rootFontSize / 10
	if cam != nil {
		if screen.Height > 0 {
			cam.Aspect = screen.Width / screen.Height
		}
		s.Environment = cam.Environment()
	}
}

// UnitHeight is the vertical distance between stacked full-bleed projects.
func (s *Sizes) UnitHeight() float32 {
	return s.Environment.Height * 1.33
}
