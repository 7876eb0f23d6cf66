// Package transition animates the hand-off between two page views of
// different kinds with temporary copies of the background and titles.
package transition

import (
	"time"

	"cogentcore.org/core/math32"
	"github.com/louisbranch/showcase/internal/canvas/anim"
	"github.com/louisbranch/showcase/internal/canvas/scene"
	"github.com/louisbranch/showcase/internal/canvas/view"
)

const (
	duration      = 1500 * time.Millisecond
	pulseDuration = 750 * time.Millisecond
)

const (
	backgroundPulse float32 = 3
	titlePulse      float32 = 5
	initialScale    float32 = 0.2
)

// Config holds what a session needs from the canvas.
type Config struct {
	// Index is the focused project the titles pivot around.
	Index    int
	Sizes    *scene.Sizes
	Scene    *scene.Scene
	Device   *scene.Device
	Player   *anim.Player
	Textures view.Textures
}

// Session owns the temporary nodes of one navigation.
type Session struct {
	cfg        Config
	background *scene.Node
	titles     []*scene.Node
	pulses     int
	done       bool
}

// New allocates the temporary background for the focused cover and one
// title per fill.
func New(cfg Config) *Session {
	s := &Session{cfg: cfg}
	env := cfg.Sizes.Environment

	mat := cfg.Device.NewMaterial(scene.ShaderImage)
	mat.Uniforms.Alpha = 1
	mat.Uniforms.DistortionX = 1.75
	mat.Uniforms.DistortionY = 2
	mat.Uniforms.Scale = initialScale
	if cover := at(cfg.Textures.Covers, cfg.Index); cover != nil {
		mat.SetImage(cover)
	}
	mat.Resolution = math32.Vec2(cfg.Sizes.Screen.Width, cfg.Sizes.Screen.Height)
	s.background = scene.NewMeshNode("transition-background", &scene.Mesh{
		Geometry: cfg.Device.NewPlane(env.Width, env.Height, 100, 50),
		Material: mat,
	})

	s.titles = make([]*scene.Node, len(cfg.Textures.Fills))
	for i, fill := range cfg.Textures.Fills {
		if fill == nil {
			continue
		}
		s.titles[i] = s.newTitle(fill, at(cfg.Textures.Strokes, i))
	}
	return s
}

func (s *Session) newTitle(fill, stroke *scene.Texture) *scene.Node {
	sizes := s.cfg.Sizes
	var w, h float32
	if sizes.Screen.Width > 0 && sizes.Screen.Height > 0 {
		w = sizes.Environment.Width * (float32(fill.Width) * sizes.ScaleRatio / sizes.Screen.Width / 2)
		h = sizes.Environment.Height * (float32(fill.Height) * sizes.ScaleRatio / sizes.Screen.Height / 2)
	}
	mat := s.cfg.Device.NewMaterial(scene.ShaderTitle)
	mat.Additive = true
	mat.Uniforms.DistortionY = 2
	mat.Uniforms.DistortionX = 1.75
	if float32(fill.Width) > sizes.Screen.Width {
		mat.Uniforms.DistortionX = 1.4
	}
	mat.SetImage(fill)
	mat.Stroke = stroke
	return scene.NewMeshNode("transition-title", &scene.Mesh{
		Geometry: s.cfg.Device.NewPlane(w, h, 100, 50),
		Material: mat,
	})
}

// Animate plays the hand-off from previous to next and destroys every
// temporary node once all parts have finished.
func (s *Session) Animate(next, previous view.PageView) *anim.Task {
	if next == nil || previous == nil {
		s.Destroy()
		return anim.Resolved()
	}
	tasks := []*anim.Task{s.animateBackground(next, previous)}
	for i, node := range s.titles {
		if node == nil {
			continue
		}
		tasks = append(tasks, s.animateTitle(i, node, next, previous))
	}
	return anim.Join(tasks...).Then(s.Destroy)
}

func (s *Session) animateBackground(next, previous view.PageView) *anim.Task {
	to, okNext := next.Background()
	from, okPrev := previous.Background()
	if !okNext || !okPrev {
		return anim.Resolved()
	}
	u := &s.background.Mesh.Material.Uniforms
	ease := anim.WithEase(anim.Power3InOut)
	s.cfg.Scene.Add(s.background)

	tl := anim.NewTimeline()
	if math32.Round(from.Z) != math32.Round(to.Z) {
		peak := backgroundPulse
		if from.Z > to.Z {
			peak = -peak
		}
		tl.FromTo(&u.Distortion, pulseDuration, 0, peak, ease, anim.Yoyo())
		s.pulses++
	}
	tl.FromTo(&u.Scale, duration, from.Scale, to.Scale, ease).
		FromTo(&s.background.Position.Z, duration, from.Z, to.Z, ease).
		Call(func() { s.cfg.Scene.Remove(s.background) })
	return s.cfg.Player.Play(tl)
}

func (s *Session) animateTitle(i int, node *scene.Node, next, previous view.PageView) *anim.Task {
	to, okNext := next.Title(i)
	from, okPrev := previous.Title(i)
	if !okNext || !okPrev {
		return anim.Resolved()
	}
	u := &node.Mesh.Material.Uniforms
	ease := anim.WithEase(anim.Power3InOut)
	s.cfg.Scene.Add(node)

	tl := anim.NewTimeline()
	if from.Scaling != to.Scaling {
		tl.FromTo(&node.Scale.X, duration, from.Scaling, to.Scaling, ease).
			FromTo(&node.Scale.Y, duration, from.Scaling, to.Scaling, ease).
			FromTo(&node.Scale.Z, duration, from.Scaling, to.Scaling, ease)
	} else {
		node.Scale = math32.Vec3(from.Scaling, from.Scaling, from.Scaling)
	}

	start, end := s.positions(i, next, previous, from, to)
	tl.FromTo(&node.Position.X, duration, start.X, end.X, ease).
		FromTo(&node.Position.Y, duration, start.Y, end.Y, ease).
		FromTo(&node.Position.Z, duration, start.Z, end.Z, ease)

	peak := titlePulse
	if from.Scaling > to.Scaling {
		peak = -peak
	}
	tl.FromTo(&u.Distortion, pulseDuration, 0, peak, ease, anim.Yoyo()).
		FromTo(&u.Transition, duration, from.Transition, to.Transition, ease).
		FromTo(&u.Alpha, duration, from.Alpha, to.Alpha, ease).
		Call(func() { s.cfg.Scene.Remove(node) })
	return s.cfg.Player.Play(tl)
}

// positions returns where title i starts and lands. Titles other than the
// focused one are pushed one unit up or down so they slide in from the side
// they sit on relative to the focus.
func (s *Session) positions(i int, next, previous view.PageView, from, to view.TitleRef) (start, end math32.Vector3) {
	shift := func(y float32) float32 {
		unit := s.cfg.Sizes.UnitHeight()
		switch {
		case s.cfg.Index < i:
			return y - unit
		case s.cfg.Index > i:
			return y + unit
		}
		return y
	}
	start, end = from.World, to.World
	switch next.Kind() {
	case view.KindCase:
		end.Y = shift(to.World.Y)
	case view.KindHome:
		y := from.World.Y
		if s.cfg.Index == i {
			y = to.World.Y
		}
		end.Y = shift(y)
	case view.KindIndexes:
		y := from.Rest.Y
		if previous.Kind() == view.KindCase {
			y = from.World.Y
		}
		start.Y = shift(y)
	}
	return start, end
}

// Pulses is the number of background distortion pulses started.
func (s *Session) Pulses() int { return s.pulses }

// BackgroundNode exposes the temporary background.
func (s *Session) BackgroundNode() *scene.Node { return s.background }

// TitleNode exposes the temporary title for index i, if any.
func (s *Session) TitleNode(i int) *scene.Node {
	if i < 0 || i >= len(s.titles) {
		return nil
	}
	return s.titles[i]
}

// Done reports whether the temporary nodes have been released.
func (s *Session) Done() bool { return s.done }

// Destroy detaches and releases every temporary node. It is idempotent.
func (s *Session) Destroy() {
	if s.done {
		return
	}
	s.done = true
	s.cfg.Scene.Remove(s.background)
	s.background.Mesh.Destroy()
	for _, node := range s.titles {
		if node == nil {
			continue
		}
		s.cfg.Scene.Remove(node)
		node.Mesh.Destroy()
	}
}

func at(list []*scene.Texture, i int) *scene.Texture {
	if i < 0 || i >= len(list) {
		return nil
	}
	return list[i]
}
