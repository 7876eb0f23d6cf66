package view

import (
	"testing"
	"time"

	"cogentcore.org/core/math32"
	"github.com/louisbranch/showcase/internal/canvas/anim"
	"github.com/louisbranch/showcase/internal/canvas/overlay"
	"github.com/louisbranch/showcase/internal/canvas/scene"
	"github.com/louisbranch/showcase/internal/canvas/slider"
)

const frame = time.Second / 60

type fixture struct {
	opts    Options
	changes []int
}

func newFixture(t *testing.T, projects int) *fixture {
	t.Helper()

	cam := scene.NewCamera(1)
	sizes := &scene.Sizes{}
	sizes.Update(scene.Dimensions{Width: 1600, Height: 900}, 1, 10, cam)

	var textures Textures
	for i := 0; i < projects; i++ {
		cover := scene.NewTexture("p", i, "", nil)
		cover.Width, cover.Height = 1920, 1080
		fill := scene.NewTexture("p", i, "", nil)
		fill.Width, fill.Height = 800, 120
		stroke := scene.NewTexture("p", i, "", nil)
		stroke.Width, stroke.Height = 800, 120
		textures.Covers = append(textures.Covers, cover)
		textures.Fills = append(textures.Fills, fill)
		textures.Strokes = append(textures.Strokes, stroke)
	}

	f := &fixture{}
	f.opts = Options{
		Sizes:    sizes,
		Camera:   cam,
		Scene:    scene.NewScene(),
		Device:   scene.NewDevice(),
		Player:   anim.NewPlayer(),
		Textures: textures,
		Sink:     overlay.NewRecorder(),
		OnChange: func(i int) { f.changes = append(f.changes, i) },
	}
	return f
}

func (f *fixture) run(v PageView, d time.Duration) {
	var now time.Duration
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		now += frame
		f.opts.Player.Advance(frame)
		if v != nil {
			v.Update(Frame{Time: now, Delta: frame})
		}
	}
}

func TestKindForSlug(t *testing.T) {
	t.Parallel()

	tests := map[string]Kind{
		SlugHome:   KindHome,
		SlugCase:   KindCase,
		SlugIndex:  KindIndexes,
		SlugAbout:  KindNone,
		SlugEssays: KindNone,
		"":         KindNone,
	}
	for slug, want := range tests {
		if got := KindForSlug(slug); got != want {
			t.Fatalf("KindForSlug(%q) = %v, want %v", slug, got, want)
		}
	}
	if Build(KindNone, Options{}) != nil {
		t.Fatal("Build(KindNone) should return nil")
	}
}

func TestHomeKeepsSlotsForMissingTextures(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3)
	f.opts.Textures.Covers[1] = nil
	f.opts.Textures.Fills = f.opts.Textures.Fills[:2]
	h := NewHome(f.opts)

	// three backgrounds keep indexes aligned with the project order; the
	// missing fill drops one title
	if got := h.NodeCount(); got != 5 {
		t.Fatalf("NodeCount() = %d, want 5", got)
	}
	if _, ok := h.Title(2); ok {
		t.Fatal("title built without a fill texture")
	}
	h.Set(2)
	if h.Index() != 2 {
		t.Fatalf("Index() = %d, want 2", h.Index())
	}
}

func TestHomeWrapsBackward(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 4)
	home := NewHome(f.opts)
	home.Show(SlugHome)

	home.Wheel(-f.opts.Sizes.UnitHeight())
	f.run(home, frame)

	if home.Index() != 3 {
		t.Fatalf("index = %d, want 3", home.Index())
	}
	if len(f.changes) != 1 || f.changes[0] != 3 {
		t.Fatalf("changes = %v, want [3]", f.changes)
	}
}

func TestHomeWrapsForwardPastEnd(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3)
	f.opts.Index = 2
	home := NewHome(f.opts)
	home.Show(SlugHome)

	home.Wheel(f.opts.Sizes.UnitHeight())
	f.run(home, frame)
	if home.Index() != 0 {
		t.Fatalf("index = %d, want 0", home.Index())
	}
}

func TestHomeDampsTowardTarget(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3)
	home := NewHome(f.opts)
	home.Show(SlugHome)

	home.PointerDown(Point{Y: 500})
	home.PointerMove(Point{Y: 400})
	if home.Target() != 100 {
		t.Fatalf("target = %v, want 100", home.Target())
	}
	f.run(home, frame)
	if math32.Abs(home.Position()-10) > 1e-3 {
		t.Fatalf("position after one frame = %v, want 10", home.Position())
	}
	last := home.Position()
	for i := 0; i < 200; i++ {
		f.run(home, frame)
		if home.Position() < last || home.Position() > 100 {
			t.Fatalf("position %v not monotone toward 100 (last %v)", home.Position(), last)
		}
		last = home.Position()
	}
}

func TestHomeSnapsAfterWheelSettles(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3)
	home := NewHome(f.opts)
	home.Show(SlugHome)

	unit := f.opts.Sizes.UnitHeight()
	home.Wheel(unit * 0.8)
	f.run(home, 300*time.Millisecond)
	if got := home.Target(); math32.Abs(got-unit) > 1e-3 {
		t.Fatalf("target after snap = %v, want %v", got, unit)
	}
}

func TestHomeRecyclesProjects(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3)
	home := NewHome(f.opts)
	home.Show(SlugHome)

	unit := f.opts.Sizes.UnitHeight()
	home.Wheel(-unit)
	f.run(home, 2*time.Second)

	last := home.projects[2]
	if got := last.group.Position.Y; math32.Abs(got) > 1 {
		t.Fatalf("last project y = %v, want near 0 after wrapping above the first", got)
	}
}

func TestHomeHideToCaseReleasesEverything(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3)
	home := NewHome(f.opts)
	home.Show(SlugHome)
	if home.NodeCount() != 6 {
		t.Fatalf("node count = %d, want 6", home.NodeCount())
	}

	task := home.Hide(SlugCase)
	if !task.Done() {
		t.Fatal("hide toward case should complete immediately")
	}
	if home.NodeCount() != 0 || f.opts.Device.Live() != 0 || f.opts.Scene.Len() != 0 {
		t.Fatalf("leaked: nodes=%d live=%d scene=%d", home.NodeCount(), f.opts.Device.Live(), f.opts.Scene.Len())
	}
	home.Destroy()
	if f.opts.Device.Live() != 0 {
		t.Fatal("second destroy changed resource count")
	}
}

func TestHomeHideToAboutAnimatesCurrent(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3)
	home := NewHome(f.opts)
	home.Show(SlugHome)

	task := home.Hide(SlugAbout)
	if task.Done() {
		t.Fatal("hide toward about should animate")
	}
	if home.NodeCount() != 2 {
		t.Fatalf("node count during hide = %d, want 2", home.NodeCount())
	}
	f.run(nil, 2100*time.Millisecond)
	if !task.Done() || home.NodeCount() != 0 || f.opts.Device.Live() != 0 {
		t.Fatalf("after hide: done=%t nodes=%d live=%d", task.Done(), home.NodeCount(), f.opts.Device.Live())
	}
}

func TestHomeTitleMapping(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1)
	home := NewHome(f.opts)
	title := home.projects[0].title

	title.update(0)
	if u := title.uniforms(); u.Alpha != 0 || u.Distortion != 0 {
		t.Fatalf("focused title alpha=%v distortion=%v, want 0", u.Alpha, u.Distortion)
	}
	title.update(4)
	if u := title.uniforms(); u.Alpha != 1 || u.Distortion != 5 {
		t.Fatalf("far title alpha=%v distortion=%v, want 1 and 5", u.Alpha, u.Distortion)
	}
	if got, want := title.node.Position.X, title.x-60; math32.Abs(got-want) > 1e-3 {
		t.Fatalf("far title x = %v, want %v", got, want)
	}
}

func TestCaseRelated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		index, count, want int
	}{
		{4, 5, 0},
		{0, 5, 1},
		{2, 3, 0},
		{0, 1, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := Related(tt.index, tt.count); got != tt.want {
			t.Fatalf("Related(%d, %d) = %d, want %d", tt.index, tt.count, got, tt.want)
		}
	}
}

func TestCaseSetShowsOnlyFocusedTitle(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3)
	f.opts.Index = 1
	c := NewCase(f.opts)

	for _, title := range c.titles {
		want := float32(1)
		if title.index == 1 {
			want = 0
		}
		if got := title.uniforms().Alpha; got != want {
			t.Fatalf("title %d alpha = %v, want %v", title.index, got, want)
		}
	}
	if c.background.node.Mesh.Material.Image != f.opts.Textures.Covers[1] {
		t.Fatal("background cover not swapped")
	}
	if c.Related() != 2 {
		t.Fatalf("related = %d, want 2", c.Related())
	}
}

func TestCaseShowFromHomeDoesNotAnimate(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 2)
	c := NewCase(f.opts)
	if !c.Show(SlugHome).Done() {
		t.Fatal("show from home should not animate")
	}
	if task := NewCase(f.opts).Show(SlugAbout); task.Done() {
		t.Fatal("show from about should animate")
	}
}

func TestCaseHideTowardCaseKeepsDepth(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 2)
	c := NewCase(f.opts)
	c.Show(SlugAbout)
	f.run(c, 2100*time.Millisecond)

	task := c.Hide(SlugCase)
	f.run(nil, time.Second)
	if z := c.background.node.Position.Z; math32.Abs(z) > 1e-3 {
		t.Fatalf("background z = %v, want 0", z)
	}
	f.run(nil, 1100*time.Millisecond)
	if !task.Done() || c.NodeCount() != 0 || f.opts.Device.Live() != 0 {
		t.Fatalf("after hide: done=%t nodes=%d live=%d", task.Done(), c.NodeCount(), f.opts.Device.Live())
	}
}

func TestCaseWheelTurnsStrips(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 2)
	f.opts.Strips = []StripLayout{{Band: 300, Buttons: []slider.Button{{Width: 100}}}}
	c := NewCase(f.opts)

	c.Wheel(-3)
	if c.Strips()[0].Direction() != slider.Right {
		t.Fatal("negative wheel should turn strips right")
	}
	c.Wheel(0)
	if c.Strips()[0].Direction() != slider.Right {
		t.Fatal("zero wheel should keep direction")
	}
	c.Wheel(3)
	if c.Strips()[0].Direction() != slider.Left {
		t.Fatal("positive wheel should turn strips left")
	}
}

func TestIndexesClampsScroll(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 4)
	x := NewIndexes(f.opts)
	x.Show(SlugIndex)

	if x.ItemHeight() <= 0 {
		t.Fatalf("item height = %v, want positive", x.ItemHeight())
	}
	if want := x.ItemHeight() * 3; math32.Abs(x.Max()-want) > 1e-3 {
		t.Fatalf("max = %v, want %v", x.Max(), want)
	}

	x.PointerDown(Point{Y: 0})
	for _, y := range []float32{-1e6, 1e6, -250, 250} {
		x.PointerMove(Point{Y: y})
		if got := x.Target(); got < 0 || got > x.Max() {
			t.Fatalf("target %v escaped [0, %v] for drag %v", got, x.Max(), y)
		}
	}
	x.PointerUp(Point{})

	for i := 0; i < 10; i++ {
		x.Wheel(1)
	}
	if x.Target() != x.Max() {
		t.Fatalf("target after wheel = %v, want %v", x.Target(), x.Max())
	}
	for i := 0; i < 10; i++ {
		x.Wheel(-1)
	}
	if x.Target() != 0 {
		t.Fatalf("target after reverse wheel = %v, want 0", x.Target())
	}
}

func TestIndexesScrollEmitsChangeAndLinks(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3)
	x := NewIndexes(f.opts)
	x.Show(SlugIndex)
	rec := f.opts.Sink.(*overlay.Recorder)

	x.Wheel(1)
	f.run(x, time.Second)

	if x.Index() != 1 {
		t.Fatalf("index = %d, want 1", x.Index())
	}
	if len(f.changes) != 1 || f.changes[0] != 1 {
		t.Fatalf("changes = %v, want [1]", f.changes)
	}
	if !rec.LinkActive(1) || rec.LinkActive(0) {
		t.Fatal("active link not updated")
	}
	box, ok := rec.LinkBox(1)
	if !ok || box.Width <= 0 || box.Height <= 0 {
		t.Fatalf("link box = %+v, want positive size", box)
	}
	// focused row sits on the vertical center of the screen
	if mid := box.Y + box.Height/2; math32.Abs(mid-450) > 2 {
		t.Fatalf("focused box center y = %v, want 450", mid)
	}
}

func TestIndexesSafariWritesOnlyFocusedBox(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3)
	f.opts.Profile.Safari = true
	x := NewIndexes(f.opts)
	x.Show(SlugIndex)
	rec := f.opts.Sink.(*overlay.Recorder)
	f.run(x, frame)

	if _, ok := rec.LinkBox(0); !ok {
		t.Fatal("focused box not written")
	}
	if _, ok := rec.LinkBox(1); ok {
		t.Fatal("unfocused box written on safari")
	}
}

func TestIndexesTitleTransitionEases(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 2)
	x := NewIndexes(f.opts)
	if got := x.titles[0].uniforms().Transition; got != 1 {
		t.Fatalf("focused transition = %v, want 1", got)
	}
	x.setTitles(1, false)
	x.titles[1].update()
	if got := x.titles[1].uniforms().Transition; math32.Abs(got-0.1) > 1e-6 {
		t.Fatalf("transition after one step = %v, want 0.1", got)
	}
}

func TestPreloaderLifecycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1)
	p := NewPreloader(f.opts, f.opts.Textures.Covers[0])
	if !f.opts.Scene.Contains(p.Node()) {
		t.Fatal("preloader not attached")
	}
	f.run(nil, 1100*time.Millisecond)
	if got := p.uniforms().Alpha; math32.Abs(got-0.1) > 1e-6 {
		t.Fatalf("alpha after show = %v, want 0.1", got)
	}
	task := p.Hide()
	f.run(nil, 1600*time.Millisecond)
	if !task.Done() || p.Alive() || f.opts.Device.Live() != 0 || f.opts.Scene.Len() != 0 {
		t.Fatalf("after hide: done=%t alive=%t live=%d", task.Done(), p.Alive(), f.opts.Device.Live())
	}
}
