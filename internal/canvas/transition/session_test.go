package transition

import (
	"testing"
	"time"

	"cogentcore.org/core/math32"
	"github.com/louisbranch/showcase/internal/canvas/anim"
	"github.com/louisbranch/showcase/internal/canvas/scene"
	"github.com/louisbranch/showcase/internal/canvas/view"
)

const frame = time.Second / 60

type harness struct {
	sizes    *scene.Sizes
	scene    *scene.Scene
	device   *scene.Device
	player   *anim.Player
	textures view.Textures
}

func newHarness(projects int) *harness {
	cam := scene.NewCamera(1)
	sizes := &scene.Sizes{}
	sizes.Update(scene.Dimensions{Width: 1280, Height: 800}, 1, 8, cam)
	h := &harness{sizes: sizes, scene: scene.NewScene(), device: scene.NewDevice(), player: anim.NewPlayer()}
	for i := 0; i < projects; i++ {
		cover := scene.NewTexture("p", i, "", nil)
		cover.Width, cover.Height = 1600, 900
		fill := scene.NewTexture("p", i, "", nil)
		fill.Width, fill.Height = 600, 90
		h.textures.Covers = append(h.textures.Covers, cover)
		h.textures.Fills = append(h.textures.Fills, fill)
		h.textures.Strokes = append(h.textures.Strokes, fill)
	}
	return h
}

func (h *harness) build(kind view.Kind, index int) view.PageView {
	return view.Build(kind, view.Options{
		Index:    index,
		Sizes:    h.sizes,
		Scene:    h.scene,
		Device:   h.device,
		Player:   h.player,
		Textures: h.textures,
	})
}

func (h *harness) session(index int) *Session {
	return New(Config{
		Index:    index,
		Sizes:    h.sizes,
		Scene:    h.scene,
		Device:   h.device,
		Player:   h.player,
		Textures: h.textures,
	})
}

// excursions counts how many times value leaves zero and comes back.
func excursions(samples []float32) int {
	count := 0
	away := false
	for _, v := range samples {
		switch {
		case !away && math32.Abs(v) > 1e-4:
			away = true
		case away && math32.Abs(v) <= 1e-4:
			away = false
			count++
		}
	}
	return count
}

func (h *harness) play(task *anim.Task, sample func() float32) []float32 {
	var samples []float32
	for i := 0; i < 600 && !task.Done(); i++ {
		h.player.Advance(frame)
		samples = append(samples, sample())
	}
	return samples
}

func TestEqualDepthSkipsPulse(t *testing.T) {
	t.Parallel()

	h := newHarness(3)
	prev := h.build(view.KindHome, 1)
	prev.Show(view.SlugHome)
	prev.Hide(view.SlugCase)
	next := h.build(view.KindCase, 1)

	s := h.session(1)
	u := &s.BackgroundNode().Mesh.Material.Uniforms
	task := s.Animate(next, prev)
	samples := h.play(task, func() float32 { return u.Distortion })

	if !task.Done() {
		t.Fatal("transition did not finish")
	}
	if s.Pulses() != 0 || excursions(samples) != 0 {
		t.Fatalf("pulses = %d excursions = %d, want none", s.Pulses(), excursions(samples))
	}
}

func TestDepthChangePulsesOnce(t *testing.T) {
	t.Parallel()

	h := newHarness(3)
	prev := h.build(view.KindHome, 0)
	prev.Show(view.SlugHome)
	prev.Hide(view.SlugIndex)
	next := h.build(view.KindIndexes, 0)

	s := h.session(0)
	u := &s.BackgroundNode().Mesh.Material.Uniforms
	task := s.Animate(next, prev)
	var low float32
	samples := h.play(task, func() float32 {
		low = math32.Min(low, u.Distortion)
		return u.Distortion
	})

	if s.Pulses() != 1 || excursions(samples) != 1 {
		t.Fatalf("pulses = %d excursions = %d, want 1", s.Pulses(), excursions(samples))
	}
	if math32.Abs(low+3) > 0.05 {
		t.Fatalf("pulse peak = %v, want about -3 for a background moving back", low)
	}
	if z := s.BackgroundNode().Position.Z; math32.Abs(z+50) > 1e-3 {
		t.Fatalf("background z = %v, want -50", z)
	}
}

func TestSessionReleasesTemporaryNodes(t *testing.T) {
	t.Parallel()

	h := newHarness(4)
	prev := h.build(view.KindCase, 2)
	prev.Show(view.SlugHome)
	prev.Hide(view.SlugHome)
	next := h.build(view.KindHome, 2)
	baseline := h.device.Live()

	s := h.session(2)
	if h.device.Live() == baseline {
		t.Fatal("session allocated nothing")
	}
	task := s.Animate(next, prev)
	if h.scene.Len() == 0 {
		t.Fatal("temporary nodes not attached")
	}
	h.play(task, func() float32 { return 0 })

	if !task.Done() || !s.Done() {
		t.Fatal("session not finished")
	}
	if h.device.Live() != baseline {
		t.Fatalf("live = %d, want %d", h.device.Live(), baseline)
	}
	if h.scene.Len() != 0 {
		t.Fatalf("scene still holds %d nodes", h.scene.Len())
	}
	s.Destroy()
	if h.device.Live() != baseline {
		t.Fatal("second destroy changed resources")
	}
}

func TestTitlesSlideFromTheirSide(t *testing.T) {
	t.Parallel()

	h := newHarness(3)
	prev := h.build(view.KindHome, 1)
	prev.Hide(view.SlugCase)
	next := h.build(view.KindCase, 1)

	s := h.session(1)
	task := s.Animate(next, prev)
	unit := h.sizes.UnitHeight()

	var ends [3]float32
	for !task.Done() {
		h.player.Advance(frame)
		for i := range ends {
			ends[i] = s.TitleNode(i).Position.Y
		}
	}
	focus, _ := next.Title(1)
	if math32.Abs(ends[1]-focus.World.Y) > 1e-3 {
		t.Fatalf("focused title y = %v, want %v", ends[1], focus.World.Y)
	}
	after, _ := next.Title(2)
	if math32.Abs(ends[2]-(after.World.Y-unit)) > 1e-3 {
		t.Fatalf("later title y = %v, want %v", ends[2], after.World.Y-unit)
	}
	before, _ := next.Title(0)
	if math32.Abs(ends[0]-(before.World.Y+unit)) > 1e-3 {
		t.Fatalf("earlier title y = %v, want %v", ends[0], before.World.Y+unit)
	}
}

func TestMissingTitleIsSkipped(t *testing.T) {
	t.Parallel()

	h := newHarness(2)
	prev := h.build(view.KindHome, 0)
	prev.Hide(view.SlugCase)
	h.textures.Fills = h.textures.Fills[:1]
	next := h.build(view.KindCase, 0)
	h.textures.Fills = append(h.textures.Fills, h.textures.Covers[1])

	s := h.session(0)
	s.Animate(next, prev)
	if h.scene.Contains(s.TitleNode(1)) {
		t.Fatal("title missing from the next view should not be attached")
	}
	if !h.scene.Contains(s.TitleNode(0)) {
		t.Fatal("shared title should be attached")
	}
}
