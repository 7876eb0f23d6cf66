package view

import (
	"time"

	"cogentcore.org/core/math32"
	"github.com/louisbranch/showcase/internal/canvas/anim"
	"github.com/louisbranch/showcase/internal/canvas/mathx"
	"github.com/louisbranch/showcase/internal/canvas/scene"
)

const (
	showDuration  = 2 * time.Second
	touchDuration = 400 * time.Millisecond
)

const (
	backgroundZ float32 = -0.01
	titleZ      float32 = 0.01
	awayZ       float32 = -50
)

// plane is a mesh node and the shared state needed to rebuild it.
type plane struct {
	node  *scene.Node
	sizes *scene.Sizes
	dev   *scene.Device
}

func (p *plane) uniforms() *scene.Uniforms {
	return &p.node.Mesh.Material.Uniforms
}

func (p *plane) alive() bool {
	return p != nil && !p.node.Mesh.Destroyed()
}

// destroy detaches the node and releases its mesh.
func (p *plane) destroy() {
	if p == nil {
		return
	}
	if parent := p.node.Parent(); parent != nil {
		parent.Remove(p.node)
	}
	p.node.Mesh.Destroy()
}

func (p *plane) setResolution() {
	p.node.Mesh.Material.Resolution = math32.Vec2(p.sizes.Screen.Width, p.sizes.Screen.Height)
}

// background is a full-bleed cover image.
type background struct {
	plane
	animating bool
}

func newBackground(dev *scene.Device, sizes *scene.Sizes, cover *scene.Texture) *background {
	mat := dev.NewMaterial(scene.ShaderImage)
	mat.Uniforms.Alpha = 1
	mat.Uniforms.DistortionX = 1.75
	mat.Uniforms.DistortionY = 2
	mat.SetImage(cover)
	b := &background{plane: plane{
		node:  scene.NewMeshNode("background", &scene.Mesh{Material: mat}),
		sizes: sizes,
		dev:   dev,
	}}
	b.layout()
	b.node.Position.Z = backgroundZ
	return b
}

func (b *background) layout() {
	env := b.sizes.Environment
	b.node.Mesh.SetGeometry(b.dev.NewPlane(env.Width, env.Height, 100, 50))
	b.setResolution()
}

func (b *background) resize() {
	if !b.alive() {
		return
	}
	b.layout()
}

func (b *background) setCover(cover *scene.Texture) {
	if !b.alive() || cover == nil {
		return
	}
	b.node.Mesh.Material.SetImage(cover)
}

func (b *background) ref() BackgroundRef {
	return BackgroundRef{Z: b.node.Position.Z, Scale: b.uniforms().Scale}
}

// touchStart and touchEnd push the displacement while a gesture is held.
func (b *background) touchStart(player *anim.Player) {
	if !b.alive() {
		return
	}
	player.Play(anim.NewTimeline().To(&b.uniforms().DisplacementY, touchDuration, 0.1))
}

func (b *background) touchEnd(player *anim.Player) {
	if !b.alive() {
		return
	}
	player.Kill(&b.uniforms().DisplacementY)
	player.Play(anim.NewTimeline().To(&b.uniforms().DisplacementY, touchDuration, 0))
}

// slideIn brings the background up from below the fold, ending at depth z
// and scale.
func (b *background) slideIn(player *anim.Player, z, scale float32) *anim.Task {
	u := b.uniforms()
	ease := anim.WithEase(anim.Power4Out)
	b.animating = true
	tl := anim.NewTimeline().
		FromTo(&b.node.Position.Y, showDuration, -b.sizes.UnitHeight(), 0, ease).
		FromTo(&b.node.Position.Z, showDuration, awayZ, z, ease).
		FromTo(&u.DisplacementY, showDuration, 0.1, 0, ease).
		FromTo(&u.Distortion, showDuration, 5, 0, ease).
		FromTo(&u.Scale, showDuration, 0.5, scale, ease).
		Call(func() { b.animating = false })
	return player.Play(tl)
}

// slideOut pushes the background above the fold toward depth z.
func (b *background) slideOut(player *anim.Player, z float32) *anim.Task {
	u := b.uniforms()
	ease := anim.WithEase(anim.Power4Out)
	b.animating = true
	tl := anim.NewTimeline().
		To(&b.node.Position.Y, showDuration, b.sizes.UnitHeight(), ease).
		To(&b.node.Position.Z, showDuration, z, ease).
		To(&u.DisplacementY, showDuration, 0.1, ease).
		To(&u.Distortion, showDuration, 5, ease).
		To(&u.Scale, showDuration, 0.5, ease).
		Call(func() { b.animating = false })
	return player.Play(tl)
}

// title is a project name rendered from its fill and stroke textures.
type title struct {
	plane
	index   int
	fill    *scene.Texture
	stroke  *scene.Texture
	scaling float32
	width   float32
	height  float32
}

func newTitle(dev *scene.Device, sizes *scene.Sizes, index int, fill, stroke *scene.Texture, scaling float32) *title {
	mat := dev.NewMaterial(scene.ShaderTitle)
	mat.Additive = true
	mat.Uniforms.Alpha = 1
	mat.Uniforms.Transition = 1
	mat.Uniforms.DistortionY = 2
	mat.Uniforms.DistortionX = 1.75
	if float32(fill.Width) > sizes.Screen.Width {
		mat.Uniforms.DistortionX = 1.4
	}
	t := &title{
		plane: plane{
			node:  scene.NewMeshNode("title", &scene.Mesh{Material: mat}),
			sizes: sizes,
			dev:   dev,
		},
		index:   index,
		scaling: scaling,
	}
	t.setTextures(fill, stroke)
	t.layout()
	t.node.Position.Z = titleZ
	return t
}

func (t *title) setTextures(fill, stroke *scene.Texture) {
	if fill != nil {
		t.fill = fill
		t.node.Mesh.Material.SetImage(fill)
	}
	if stroke != nil {
		t.stroke = stroke
		t.node.Mesh.Material.Stroke = stroke
	}
}

// layout sizes the plane so the texture keeps its pixel size relative to
// the root font scale.
func (t *title) layout() {
	s := t.sizes
	t.width, t.height = 0, 0
	if s.Screen.Width > 0 && s.Screen.Height > 0 {
		ratioW := float32(t.fill.Width) * s.ScaleRatio / s.Screen.Width / 2
		ratioH := float32(t.fill.Height) * s.ScaleRatio / s.Screen.Height / 2
		t.width = s.Environment.Width * ratioW * t.scaling
		t.height = s.Environment.Height * ratioH * t.scaling
	}
	t.node.Mesh.SetGeometry(t.dev.NewPlane(t.width, t.height, 100, 50))
	t.uniforms().Width = t.width
}

func (t *title) resize(fill, stroke *scene.Texture) {
	if !t.alive() {
		return
	}
	t.setTextures(fill, stroke)
	t.layout()
}

func (t *title) ref() TitleRef {
	u := t.uniforms()
	return TitleRef{
		World:      t.node.WorldPosition(),
		Rest:       t.node.Position,
		Scaling:    t.scaling,
		Transition: u.Transition,
		Alpha:      u.Alpha,
	}
}

// offset clamps a node's signed distance from the focus.
func offset(percent float32) float32 {
	return mathx.Clamp(percent, -1, 1)
}
