package view

import (
	"time"

	"cogentcore.org/core/math32"
	"github.com/louisbranch/showcase/internal/canvas/anim"
	"github.com/louisbranch/showcase/internal/canvas/mathx"
	"github.com/louisbranch/showcase/internal/canvas/overlay"
	"github.com/louisbranch/showcase/internal/canvas/scene"
)

const indexesSnapDelay = 400 * time.Millisecond

// The index background rests deep and zoomed behind the list.
const (
	indexesBackgroundZ     float32 = -50
	indexesBackgroundScale float32 = 0.5
)

// indexTitle is one row of the list. Its transition uniform eases toward 1
// while it holds the focus.
type indexTitle struct {
	*title
	padding float32
	goal    float32
}

func newIndexTitle(opts *Options, index int, fill, stroke *scene.Texture) *indexTitle {
	scaling := float32(0.375)
	if opts.Profile.Phone {
		scaling = 1
	}
	t := &indexTitle{title: newTitle(opts.Device, opts.Sizes, index, fill, stroke, scaling)}
	u := t.uniforms()
	u.Alpha = 0
	u.Distortion = 0
	u.Transition = 0
	t.place()
	return t
}

func (t *indexTitle) place() {
	env := t.sizes.Environment
	t.padding = t.sizes.ScaleRatio * 10
	t.node.Position.X = t.width*0.5 - env.Width*0.425
	t.node.Position.Y = -((t.height + t.padding) * float32(t.index))
}

func (t *indexTitle) resize(fill, stroke *scene.Texture) {
	if !t.alive() {
		return
	}
	t.title.resize(fill, stroke)
	t.place()
}

func (t *indexTitle) set(current, forced bool) {
	t.goal = 0
	if current {
		t.goal = 1
	}
	if forced && t.alive() {
		t.uniforms().Transition = t.goal
	}
}

func (t *indexTitle) update() {
	if !t.alive() {
		return
	}
	u := t.uniforms()
	u.Transition = mathx.Lerp(u.Transition, t.goal, mathx.Damping)
}

// Indexes is the clamped list of every project title.
type Indexes struct {
	opts       Options
	background *background
	group      *scene.Node
	titles     []*indexTitle
	height     float32
	max        float32
	index      int

	target     float32
	down       bool
	dragFrom   float32
	dragStartY float32
	animating  bool
	dirty      bool

	snap *anim.Debouncer
}

// NewIndexes builds the list focused on opts.Index.
func NewIndexes(opts Options) *Indexes {
	x := &Indexes{opts: opts, group: scene.NewGroup("titles")}
	x.snap = anim.NewDebouncer(indexesSnapDelay, x.onSnap)
	x.background = newBackground(opts.Device, opts.Sizes, textureAt(opts.Textures.Covers, 0))
	x.background.node.Position.Z = indexesBackgroundZ
	x.background.uniforms().Scale = indexesBackgroundScale

	for i, fill := range opts.Textures.Fills {
		if fill == nil {
			continue
		}
		t := newIndexTitle(&x.opts, i, fill, textureAt(opts.Textures.Strokes, i))
		x.titles = append(x.titles, t)
		x.group.Add(t.node)
	}
	x.measure()
	x.Set(opts.Index)
	return x
}

func (x *Indexes) measure() {
	x.height = 0
	if len(x.titles) > 0 {
		x.height = x.titles[0].height + x.titles[0].padding
	}
	x.max = x.height * float32(max(len(x.titles)-1, 0))
}

func (x *Indexes) clamp(v float32) float32 {
	return mathx.Clamp(v, 0, x.max)
}

func (x *Indexes) Kind() Kind { return KindIndexes }

func (x *Indexes) Index() int { return x.index }

// Target is the clamped scroll position the list eases toward.
func (x *Indexes) Target() float32 { return x.target }

// Max is the largest scroll position.
func (x *Indexes) Max() float32 { return x.max }

// ItemHeight is the distance between two rows.
func (x *Indexes) ItemHeight() float32 { return x.height }

// Set jumps to index without animating.
func (x *Indexes) Set(index int) {
	x.index = index
	x.target = x.clamp(x.height * float32(index))
	x.group.Position.Y = x.target
	x.background.setCover(textureAt(x.opts.Textures.Covers, index))
	x.setTitles(index, true)
	x.dirty = true
}

func (x *Indexes) setTitles(index int, forced bool) {
	for _, t := range x.titles {
		t.set(t.index == index, forced)
	}
}

func (x *Indexes) Show(prevHint string) *anim.Task {
	x.opts.Scene.Add(x.background.node)
	x.opts.Scene.Add(x.group)
	x.dirty = true
	if prevHint != "" && !isTextPage(prevHint) {
		return anim.Resolved()
	}
	x.animating = true
	from := -(x.target + x.opts.Sizes.Environment.Height*1.66)
	tl := anim.NewTimeline().
		FromTo(&x.group.Position.Y, showDuration, from, x.target, anim.WithEase(anim.Power4Out)).
		Call(func() {
			x.animating = false
			x.dirty = true
		})
	return anim.Join(
		x.background.slideIn(x.opts.Player, indexesBackgroundZ, indexesBackgroundScale),
		x.opts.Player.Play(tl),
	)
}

func (x *Indexes) Hide(nextHint string) *anim.Task {
	bg, titles := anim.Resolved(), anim.Resolved()
	if isTextPage(nextHint) {
		x.animating = true
		to := x.opts.Sizes.Environment.Height*1.66 + x.height
		bg = x.background.slideOut(x.opts.Player, awayZ)
		titles = x.opts.Player.Play(anim.NewTimeline().
			To(&x.group.Position.Y, showDuration, to, anim.WithEase(anim.Power4Out)))
	}
	return anim.Join(
		bg.Then(x.destroyBackground),
		titles.Then(x.destroyTitles),
	)
}

func (x *Indexes) destroyBackground() {
	x.opts.Scene.Remove(x.background.node)
	x.background.destroy()
}

func (x *Indexes) destroyTitles() {
	x.opts.Scene.Remove(x.group)
	for _, t := range x.titles {
		t.destroy()
	}
}

func (x *Indexes) Resize(textures Textures) {
	x.background.resize()
	for _, t := range x.titles {
		t.resize(textureAt(textures.Fills, t.index), textureAt(textures.Strokes, t.index))
	}
	x.measure()
	x.target = x.clamp(x.target)
	x.dirty = true
}

func (x *Indexes) Update(f Frame) {
	x.snap.Advance(f.Delta)
	if len(x.titles) == 0 {
		return
	}
	if !x.animating && x.height > 0 {
		index := int(math32.Round(x.group.Position.Y / x.height))
		if index != x.index {
			x.index = index
			x.opts.emit(index)
			x.setTitles(index, x.opts.Profile.Safari)
		}
	}
	x.group.Position.Y = mathx.Damp(x.group.Position.Y, x.target, mathx.Damping)
	x.background.setCover(textureAt(x.opts.Textures.Covers, x.index))
	if x.background.alive() {
		x.background.uniforms().Time = float32(f.Time.Seconds())
	}
	if !x.animating {
		for _, t := range x.titles {
			t.update()
		}
	}
	if x.dirty || !settled(x.group.Position.Y, x.target) {
		x.calculate()
		x.dirty = false
	}
}

// settled compares to three decimals.
func settled(a, b float32) bool {
	return math32.Round(a*1000) == math32.Round(b*1000)
}

// calculate projects each title onto the screen and writes the link boxes
// laid over them. On Safari only the focused link is moved.
func (x *Indexes) calculate() {
	sink := x.opts.Sink
	for _, t := range x.titles {
		if !t.alive() {
			continue
		}
		focused := t.index == x.index
		sink.SetLinkActive(t.index, focused)
		if x.opts.Profile.Safari && !focused {
			continue
		}
		center, w, h := x.opts.Camera.ScreenBox(t.node.WorldBounds(), x.opts.Sizes.Screen)
		sink.SetLinkBox(t.index, overlay.Box{
			X:      center.X - w/2,
			Y:      center.Y - h/2,
			Width:  w,
			Height: h,
		})
	}
}

func (x *Indexes) PointerDown(pt Point) {
	x.down = true
	x.dragFrom = x.group.Position.Y
	x.dragStartY = pt.Y
}

func (x *Indexes) PointerMove(pt Point) {
	if !x.down {
		return
	}
	x.target = x.clamp(x.dragFrom + (x.dragStartY - pt.Y))
}

func (x *Indexes) PointerUp(Point) {
	x.down = false
	x.onSnap()
}

// Wheel moves one row per event.
func (x *Indexes) Wheel(speed float32) {
	step := x.height
	if speed <= 0 {
		step = -step
	}
	x.target = x.clamp(x.target + step)
	x.snap.Trigger()
}

func (x *Indexes) onSnap() {
	x.target = x.clamp(x.height * float32(x.index))
}

func (x *Indexes) Background() (BackgroundRef, bool) {
	return x.background.ref(), true
}

func (x *Indexes) Title(i int) (TitleRef, bool) {
	for _, t := range x.titles {
		if t.index == i {
			return t.ref(), true
		}
	}
	return TitleRef{}, false
}

func (x *Indexes) NodeCount() int {
	total := 0
	if x.background.alive() {
		total++
	}
	for _, t := range x.titles {
		if t.alive() {
			total++
		}
	}
	return total
}

func (x *Indexes) Destroy() {
	x.destroyBackground()
	x.destroyTitles()
}
