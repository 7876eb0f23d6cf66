package scene

import "cogentcore.org/core/math32"

// Camera is a perspective camera on the z axis looking toward the origin.
type Camera struct {
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32
	Z      float32
}

// NewCamera returns the canvas camera: 45° fov, near 1, far 500, z 300.
func NewCamera(aspect float32) *Camera {
	return &Camera{FOV: 45, Aspect: aspect, Near: 1, Far: 500, Z: 300}
}

// Environment is the world-space size of the visible plane at z = 0.
func (c *Camera) Environment() Dimensions {
	height := 2 * math32.Tan(math32.DegToRad(c.FOV)/2) * c.Z
	return Dimensions{Width: height * c.Aspect, Height: height}
}

// ViewProjection returns the column-major projection × view matrix.
func (c *Camera) ViewProjection() math32.Matrix4 {
	f := 1 / math32.Tan(math32.DegToRad(c.FOV)/2)
	depth := c.Far - c.Near
	aspect := c.Aspect
	if aspect == 0 {
		aspect = 1
	}
	var m math32.Matrix4
	m[0] = f / aspect
	m[5] = f
	m[10] = -(c.Far + c.Near) / depth
	m[11] = -1
	// view translates the world by -Z along the camera axis
	m[14] = m[10]*-c.Z - 2*c.Far*c.Near/depth
	m[15] = c.Z
	return m
}

// Project maps a world position to normalized device coordinates.
func (c *Camera) Project(world math32.Vector3) math32.Vector3 {
	m := c.ViewProjection()
	return math32.Vector4{X: world.X, Y: world.Y, Z: world.Z, W: 1}.MulMatrix4(&m).PerspDiv()
}

// ToScreen maps a world position to pixel coordinates with y growing down.
func (c *Camera) ToScreen(world math32.Vector3, screen Dimensions) math32.Vector2 {
	ndc := c.Project(world)
	return math32.Vector2{
		X: math32.Round((ndc.X + 1) * screen.Width / 2),
		Y: math32.Round((-ndc.Y + 1) * screen.Height / 2),
	}
}

// ScreenBox projects a world-space box and returns its pixel rectangle.
func (c *Camera) ScreenBox(box math32.Box3, screen Dimensions) (center math32.Vector2, width, height float32) {
	m := c.ViewProjection()
	ndc := box.MVProjToNDC(&m)
	width = (ndc.Max.X - ndc.Min.X) / 2 * screen.Width
	height = (ndc.Max.Y - ndc.Min.Y) / 2 * screen.Height
	center = c.ToScreen(box.Center(), screen)
	return center, width, height
}
