package view

import (
	"time"

	"github.com/louisbranch/showcase/internal/canvas/anim"
	"github.com/louisbranch/showcase/internal/canvas/scene"
)

// Preloader is the full-bleed grayscale cover shown while textures load.
// It is not a navigational view.
type Preloader struct {
	plane
	player *anim.Player
	scene  *scene.Scene
}

// NewPreloader attaches the preloader to the scene and starts fading it in.
func NewPreloader(opts Options, cover *scene.Texture) *Preloader {
	mat := opts.Device.NewMaterial(scene.ShaderPreloader)
	mat.Uniforms.DisplacementX = 0.5
	mat.Uniforms.DisplacementY = 0.5
	mat.SetImage(cover)
	p := &Preloader{
		plane: plane{
			node:  scene.NewMeshNode("preloader", &scene.Mesh{Material: mat}),
			sizes: opts.Sizes,
			dev:   opts.Device,
		},
		player: opts.Player,
		scene:  opts.Scene,
	}
	p.layout()
	p.scene.Add(p.node)
	p.Show()
	return p
}

func (p *Preloader) layout() {
	env := p.sizes.Environment
	p.node.Mesh.SetGeometry(p.dev.NewPlane(env.Width, env.Height, 100, 100))
	p.setResolution()
}

// Show fades the cover in to a faint tint.
func (p *Preloader) Show() *anim.Task {
	return p.player.Play(anim.NewTimeline().To(&p.uniforms().Alpha, time.Second, 0.1))
}

// Hide reveals the full-color cover and then destroys the preloader.
func (p *Preloader) Hide() *anim.Task {
	u := p.uniforms()
	d := 1500 * time.Millisecond
	tl := anim.NewTimeline().
		To(&u.Alpha, d, 1).
		To(&u.DisplacementX, d, 0).
		To(&u.DisplacementY, d, 0).
		To(&u.Grayscale, d, 1).
		Call(p.Destroy)
	return p.player.Play(tl)
}

// Resize rebuilds the plane for the new viewport.
func (p *Preloader) Resize() {
	if !p.alive() {
		return
	}
	p.layout()
}

// Update advances the shader clock.
func (p *Preloader) Update(f Frame) {
	if !p.alive() {
		return
	}
	p.uniforms().Time = float32(f.Time.Seconds())
}

// Node exposes the preloader's node.
func (p *Preloader) Node() *scene.Node { return p.node }

// Alive reports whether the preloader still owns its mesh.
func (p *Preloader) Alive() bool { return p.alive() }

// Destroy removes the preloader from the scene and releases its mesh.
func (p *Preloader) Destroy() {
	p.scene.Remove(p.node)
	p.plane.destroy()
}
