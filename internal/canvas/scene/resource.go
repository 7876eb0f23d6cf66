package scene

import "cogentcore.org/core/math32"

// Device hands out geometry and material resources and keeps count of the
// ones not yet disposed. It stands in for the GPU context: nothing is
// reclaimed unless a node disposes it explicitly.
type Device struct {
	geometries int
	materials  int
}

// NewDevice returns an empty device.
func NewDevice() *Device {
	return &Device{}
}

// Live is the number of outstanding geometry and material resources.
func (d *Device) Live() int {
	return d.geometries + d.materials
}

// Geometries is the number of outstanding geometries.
func (d *Device) Geometries() int { return d.geometries }

// Materials is the number of outstanding materials.
func (d *Device) Materials() int { return d.materials }

// Geometry is a subdivided plane.
type Geometry struct {
	Width     float32
	Height    float32
	SegmentsX int
	SegmentsY int

	device   *Device
	disposed bool
}

// NewPlane allocates a plane geometry.
func (d *Device) NewPlane(width, height float32, segmentsX, segmentsY int) *Geometry {
	d.geometries++
	return &Geometry{Width: width, Height: height, SegmentsX: segmentsX, SegmentsY: segmentsY, device: d}
}

// Dispose releases the geometry. It is safe to call more than once.
func (g *Geometry) Dispose() {
	if g == nil || g.disposed {
		return
	}
	g.disposed = true
	if g.device != nil {
		g.device.geometries--
	}
}

// Disposed reports whether Dispose has run.
func (g *Geometry) Disposed() bool {
	return g == nil || g.disposed
}

// Shader selects the program a material renders with.
type Shader int

const (
	// ShaderImage draws a cover image with distortion and depth scaling.
	ShaderImage Shader = iota
	// ShaderTitle draws a title fill/stroke pair. Its alpha is inverted:
	// 0 is fully visible, 1 fully hidden.
	ShaderTitle
	// ShaderPreloader draws the grayscale preloader cover.
	ShaderPreloader
)

// Uniforms are the animatable shader parameters. Fields are addressed by
// pointer from tweens, so a material never copies them.
type Uniforms struct {
	Alpha         float32
	Distortion    float32
	DistortionX   float32
	DistortionY   float32
	DisplacementX float32
	DisplacementY float32
	Scale         float32
	Time          float32
	Transition    float32
	Grayscale     float32
	Width         float32
}

// Material is a shader program with its uniforms and textures.
type Material struct {
	Shader          Shader
	Uniforms        Uniforms
	Image           *Texture
	Stroke          *Texture
	Additive        bool
	Resolution      math32.Vector2
	ImageResolution math32.Vector2

	device   *Device
	disposed bool
}

// NewMaterial allocates a material for shader.
func (d *Device) NewMaterial(shader Shader) *Material {
	d.materials++
	return &Material{Shader: shader, device: d}
}

// SetImage swaps the image texture and its resolution.
func (m *Material) SetImage(tex *Texture) {
	m.Image = tex
	if tex != nil {
		m.ImageResolution = math32.Vec2(float32(tex.Width), float32(tex.Height))
	}
}

// Dispose releases the material. It is safe to call more than once.
func (m *Material) Dispose() {
	if m == nil || m.disposed {
		return
	}
	m.disposed = true
	if m.device != nil {
		m.device.materials--
	}
}

// Disposed reports whether Dispose has run.
func (m *Material) Disposed() bool {
	return m == nil || m.disposed
}
