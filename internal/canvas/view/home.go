package view

import (
	"time"

	"cogentcore.org/core/math32"
	"github.com/louisbranch/showcase/internal/canvas/anim"
	"github.com/louisbranch/showcase/internal/canvas/mathx"
	"github.com/louisbranch/showcase/internal/canvas/scene"
)

const (
	homeSnapDelay = 200 * time.Millisecond
	homeHoldDelay = 100 * time.Millisecond
)

// homeBackground follows the scroll: it sinks, distorts and zooms as its
// project moves away from the focus.
type homeBackground struct {
	*background
}

func (b homeBackground) update(percent float32) {
	if b.animating || !b.alive() {
		return
	}
	p := offset(percent)
	abs := math32.Abs(p)
	u := b.uniforms()
	u.Distortion = mathx.MapRange(abs, 0, 1, 0, 5)
	u.Scale = mathx.MapRange(p, 0, 1, 0, 0.5)
	b.node.Position.Z = mathx.MapRange(abs, 0, 1, backgroundZ, awayZ)
}

func (b homeBackground) show(player *anim.Player, current bool, hint string) *anim.Task {
	if !current || !isTextPage(hint) {
		return anim.Resolved()
	}
	return b.slideIn(player, 0, 0)
}

func (b homeBackground) hide(player *anim.Player, current bool, hint string) *anim.Task {
	if !current || !isTextPage(hint) {
		return anim.Resolved()
	}
	return b.slideOut(player, awayZ)
}

// homeTitle sits in the lower left corner of its project.
type homeTitle struct {
	*title
	x         float32
	y         float32
	phone     bool
	animating bool
}

func newHomeTitle(opts *Options, index int, fill *scene.Texture) *homeTitle {
	scaling := float32(1)
	if opts.Profile.Phone {
		scaling = 0.25
	}
	t := &homeTitle{title: newTitle(opts.Device, opts.Sizes, index, fill, nil, scaling), phone: opts.Profile.Phone}
	t.uniforms().Distortion = 1
	t.place()
	return t
}

func (t *homeTitle) place() {
	env := t.sizes.Environment
	if t.phone {
		t.x = t.width*0.5 - env.Width*0.5 + 0.035*env.Width
		t.y = -(env.Height * 0.475) + 0.495*env.Width
	} else {
		t.x = t.width*0.5 - env.Width*0.5 + 0.025*env.Width
		t.y = -(env.Height * 0.5) + t.height*0.8
	}
	t.node.Position.X = t.x
	t.node.Position.Y = t.y
}

func (t *homeTitle) resize(fill *scene.Texture) {
	if !t.alive() {
		return
	}
	t.title.resize(fill, nil)
	t.place()
}

func (t *homeTitle) update(percent float32) {
	if t.animating || !t.alive() {
		return
	}
	p := offset(percent)
	abs := math32.Abs(p)
	u := t.uniforms()
	u.Alpha = mathx.MapRange(abs, 0, 0.5, 0, 1)
	u.Distortion = mathx.MapRange(abs, 0, 1, 0, 5)
	t.node.Position.X = t.x + mathx.MapRange(p, -1.25, 1.25, 75, -75)
	t.node.Position.Z = mathx.MapRange(p, -1.25, 1.25, 50, -50)
	t.node.Rotation.X = mathx.MapRange(p, -1.25, 1.25, math32.Pi/8, -math32.Pi/8)
}

func (t *homeTitle) show(player *anim.Player, current bool, hint string) *anim.Task {
	if !current || (hint != "" && !isTextPage(hint)) {
		return anim.Resolved()
	}
	u := t.uniforms()
	pos := &t.node.Position
	ease := anim.WithEase(anim.Power4Out)
	t.animating = true
	tl := anim.NewTimeline().
		FromTo(&pos.X, showDuration, t.x+75, t.x, ease).
		FromTo(&pos.Y, showDuration, t.y-t.sizes.Environment.Height, t.y, ease).
		FromTo(&pos.Z, showDuration, 50, 0, ease).
		FromTo(&t.node.Rotation.X, showDuration, math32.Pi/8, 0, ease).
		FromTo(&u.Alpha, showDuration, 1, 0, ease).
		FromTo(&u.Distortion, showDuration, 5, 0, ease).
		Call(func() { t.animating = false })
	return player.Play(tl)
}

func (t *homeTitle) hide(player *anim.Player, current bool, hint string) *anim.Task {
	if !current || !isTextPage(hint) {
		return anim.Resolved()
	}
	u := t.uniforms()
	pos := &t.node.Position
	ease := anim.WithEase(anim.Power4Out)
	t.animating = true
	tl := anim.NewTimeline().
		To(&pos.X, showDuration, t.x-75, ease).
		To(&pos.Y, showDuration, t.y+t.sizes.Environment.Height, ease).
		To(&pos.Z, showDuration, 50, ease).
		To(&t.node.Rotation.X, showDuration, math32.Pi/8, ease).
		To(&u.Alpha, showDuration, 1).
		To(&u.Distortion, showDuration, 5, ease).
		Call(func() { t.animating = false })
	return player.Play(tl)
}

// project groups one cover and its title in the infinite column.
type project struct {
	index      int
	group      *scene.Node
	location   float32
	sizes      *scene.Sizes
	background homeBackground
	title      *homeTitle
}

func (p *project) update(scroll float32) {
	percent := float32(0)
	if h := p.sizes.Environment.Height; h != 0 {
		percent = p.group.Position.Y / h
	}
	p.group.Position.Y = p.location + scroll
	p.background.update(percent)
	if p.title != nil {
		p.title.update(percent)
	}
}

// Home is the infinite vertical column of projects.
type Home struct {
	opts     Options
	projects []*project
	index    int
	infinite int
	current  *project

	position float32
	previous float32
	target   float32

	down       bool
	dragFrom   float32
	dragStartY float32

	snap    *anim.Debouncer
	holdEnd *anim.Debouncer
}

// NewHome builds one project per cover, focused on opts.Index.
func NewHome(opts Options) *Home {
	h := &Home{opts: opts, index: -1}
	h.snap = anim.NewDebouncer(homeSnapDelay, h.onSnap)
	h.holdEnd = anim.NewDebouncer(homeHoldDelay, h.onHoldEnd)

	unit := opts.Sizes.UnitHeight()
	for i, cover := range opts.Textures.Covers {
		p := &project{
			index:      i,
			group:      scene.NewGroup("project"),
			location:   -unit * float32(i),
			sizes:      opts.Sizes,
			background: homeBackground{newBackground(opts.Device, opts.Sizes, cover)},
		}
		p.group.Position.Y = p.location
		p.group.Add(p.background.node)
		if fill := textureAt(opts.Textures.Fills, i); fill != nil {
			p.title = newHomeTitle(&h.opts, i, fill)
			p.group.Add(p.title.node)
		}
		h.projects = append(h.projects, p)
	}
	h.Set(opts.Index)
	return h
}

func (h *Home) Kind() Kind { return KindHome }

func (h *Home) Index() int { return h.index }

// Set jumps to index without animating.
func (h *Home) Set(index int) {
	if len(h.projects) == 0 {
		return
	}
	index = mathx.WrapIndex(index, len(h.projects))
	if h.index == index {
		return
	}
	h.place(index)
}

func (h *Home) place(index int) {
	unit := h.opts.Sizes.UnitHeight()
	h.index = index
	h.infinite = index
	h.current = h.projects[index]
	h.target = unit * float32(index)
	h.position = h.target
	for i, p := range h.projects {
		p.location = -unit * float32(i)
		p.group.Position.Y = p.location
		p.update(h.position)
	}
	h.previous = h.position
	h.calculate()
}

func (h *Home) Show(prevHint string) *anim.Task {
	var tasks []*anim.Task
	for _, p := range h.projects {
		h.opts.Scene.Add(p.group)
		current := p == h.current
		tasks = append(tasks, p.background.show(h.opts.Player, current, prevHint))
		if p.title != nil {
			tasks = append(tasks, p.title.show(h.opts.Player, current, prevHint))
		}
	}
	return anim.Join(tasks...)
}

func (h *Home) Hide(nextHint string) *anim.Task {
	var tasks []*anim.Task
	for _, p := range h.projects {
		current := p == h.current
		bg := p.background
		var parts []*anim.Task
		parts = append(parts, bg.hide(h.opts.Player, current, nextHint).Then(bg.destroy))
		if t := p.title; t != nil {
			parts = append(parts, t.hide(h.opts.Player, current, nextHint).Then(t.destroy))
		}
		group := p.group
		tasks = append(tasks, anim.Join(parts...).Then(func() { h.opts.Scene.Remove(group) }))
	}
	return anim.Join(tasks...)
}

func (h *Home) Resize(textures Textures) {
	for i, p := range h.projects {
		p.background.resize()
		if p.title != nil {
			p.title.resize(textureAt(textures.Fills, i))
		}
	}
	if len(h.projects) > 0 && h.index >= 0 {
		h.place(h.index)
	}
}

func (h *Home) Update(f Frame) {
	h.snap.Advance(f.Delta)
	h.holdEnd.Advance(f.Delta)
	if len(h.projects) == 0 {
		return
	}

	h.infinite = mathx.SnapIndex(h.target, h.opts.Sizes.UnitHeight())
	index := mathx.WrapIndex(h.infinite, len(h.projects))
	if index != h.index {
		h.index = index
		h.opts.emit(index)
	}
	h.current = h.projects[h.index]

	h.position = mathx.Damp(h.position, h.target, mathx.Damping)
	h.calculate()
	h.previous = h.position

	seconds := float32(f.Time.Seconds())
	for _, p := range h.projects {
		if p.background.alive() {
			p.background.uniforms().Time = seconds
		}
	}
}

// calculate recycles projects that scrolled a full unit past the viewport
// to the opposite end of the column, then lays everything out.
func (h *Home) calculate() {
	unit := h.opts.Sizes.UnitHeight()
	total := unit * float32(len(h.projects))
	down := h.position > h.previous
	up := h.position < h.previous
	for _, p := range h.projects {
		before := p.group.Position.Y > unit
		after := p.group.Position.Y < -unit
		switch {
		case down && before:
			p.location -= total
		case up && after:
			p.location += total
		}
		p.update(h.position)
	}
}

func (h *Home) PointerDown(pt Point) {
	h.down = true
	h.dragFrom = h.position
	h.dragStartY = pt.Y
	h.onHoldStart()
}

func (h *Home) PointerMove(pt Point) {
	if !h.down {
		return
	}
	h.target = h.dragFrom + (h.dragStartY - pt.Y)
}

func (h *Home) PointerUp(Point) {
	h.down = false
	h.onSnap()
	h.onHoldEnd()
}

func (h *Home) Wheel(speed float32) {
	h.target += speed
	h.snap.Trigger()
	h.onHoldStart()
	h.holdEnd.Trigger()
}

func (h *Home) onSnap() {
	h.target = h.opts.Sizes.UnitHeight() * float32(h.infinite)
}

func (h *Home) onHoldStart() {
	for _, p := range h.projects {
		p.background.touchStart(h.opts.Player)
	}
}

func (h *Home) onHoldEnd() {
	for _, p := range h.projects {
		p.background.touchEnd(h.opts.Player)
	}
}

// Target is the scroll position the column is easing toward.
func (h *Home) Target() float32 { return h.target }

// Position is the smoothed scroll position.
func (h *Home) Position() float32 { return h.position }

func (h *Home) Background() (BackgroundRef, bool) {
	if h.current == nil {
		return BackgroundRef{}, false
	}
	return h.current.background.ref(), true
}

func (h *Home) Title(i int) (TitleRef, bool) {
	if i < 0 || i >= len(h.projects) || h.projects[i].title == nil {
		return TitleRef{}, false
	}
	t := h.projects[i].title
	ref := t.ref()
	ref.Rest = math32.Vec3(t.x, t.y, titleZ)
	return ref, true
}

func (h *Home) NodeCount() int {
	total := 0
	for _, p := range h.projects {
		if p.background.alive() {
			total++
		}
		if p.title != nil && p.title.alive() {
			total++
		}
	}
	return total
}

func (h *Home) Destroy() {
	for _, p := range h.projects {
		p.background.destroy()
		if p.title != nil {
			p.title.destroy()
		}
		h.opts.Scene.Remove(p.group)
	}
}
