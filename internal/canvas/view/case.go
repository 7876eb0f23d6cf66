package view

import (
	"github.com/louisbranch/showcase/internal/canvas/anim"
	"github.com/louisbranch/showcase/internal/canvas/scene"
	"github.com/louisbranch/showcase/internal/canvas/slider"
)

// Case shows one project's cover with its title centered over it and runs
// the highlight strips of the case page.
type Case struct {
	opts       Options
	background *background
	group      *scene.Node
	titles     []*title
	strips     []*slider.Strip
	index      int
}

// NewCase builds the case view focused on opts.Index.
func NewCase(opts Options) *Case {
	c := &Case{opts: opts, group: scene.NewGroup("titles")}
	c.background = newBackground(opts.Device, opts.Sizes, textureAt(opts.Textures.Covers, 0))

	scaling := float32(0.375)
	if opts.Profile.Phone {
		scaling = 0.125
	}
	for i, fill := range opts.Textures.Fills {
		if fill == nil {
			continue
		}
		t := newTitle(opts.Device, opts.Sizes, i, fill, nil, scaling)
		c.titles = append(c.titles, t)
		c.group.Add(t.node)
	}
	for i, layout := range opts.Strips {
		c.strips = append(c.strips, slider.New(i, layout.Band, layout.Buttons, opts.Profile.Phone, opts.Sink))
	}
	c.Set(opts.Index)
	return c
}

func (c *Case) Kind() Kind { return KindCase }

func (c *Case) Index() int { return c.index }

// Related is the project linked at the bottom of the case page.
func (c *Case) Related() int {
	return Related(c.index, len(c.opts.Textures.Covers))
}

// Related returns the project after index, wrapping to the first.
func Related(index, count int) int {
	if count <= 0 {
		return 0
	}
	return (index + 1) % count
}

// Set swaps the cover and shows only the focused title.
func (c *Case) Set(index int) {
	c.index = index
	c.background.setCover(textureAt(c.opts.Textures.Covers, index))
	for _, t := range c.titles {
		if !t.alive() {
			continue
		}
		if t.index == index {
			t.uniforms().Alpha = 0
		} else {
			t.uniforms().Alpha = 1
		}
	}
}

func (c *Case) Show(prevHint string) *anim.Task {
	c.opts.Scene.Add(c.background.node)
	c.opts.Scene.Add(c.group)
	if prevHint == SlugHome || prevHint == SlugIndex {
		return anim.Resolved()
	}
	titles := anim.NewTimeline().
		FromTo(&c.group.Position.Y, showDuration, -c.opts.Sizes.UnitHeight(), 0, anim.WithEase(anim.ExpoOut))
	return anim.Join(
		c.background.slideIn(c.opts.Player, 0, 0),
		c.opts.Player.Play(titles),
	)
}

func (c *Case) Hide(nextHint string) *anim.Task {
	var bg, titles *anim.Task
	switch {
	case isTextPage(nextHint):
		bg = c.background.slideOut(c.opts.Player, awayZ)
		titles = c.slideTitlesOut()
	case nextHint == SlugCase:
		bg = c.background.slideOut(c.opts.Player, 0)
		titles = c.slideTitlesOut()
	default:
		bg, titles = anim.Resolved(), anim.Resolved()
	}
	return anim.Join(
		bg.Then(c.destroyBackground),
		titles.Then(c.destroyTitles),
	)
}

func (c *Case) slideTitlesOut() *anim.Task {
	tl := anim.NewTimeline().
		To(&c.group.Position.Y, showDuration, c.opts.Sizes.UnitHeight(), anim.WithEase(anim.ExpoOut))
	return c.opts.Player.Play(tl)
}

func (c *Case) destroyBackground() {
	c.opts.Scene.Remove(c.background.node)
	c.background.destroy()
}

func (c *Case) destroyTitles() {
	c.opts.Scene.Remove(c.group)
	for _, t := range c.titles {
		t.destroy()
	}
}

func (c *Case) Resize(textures Textures) {
	c.background.resize()
	for _, t := range c.titles {
		t.resize(textureAt(textures.Fills, t.index), nil)
	}
	for i, s := range c.strips {
		if i < len(c.opts.Strips) {
			s.Resize(c.opts.Strips[i].Band, c.opts.Strips[i].Buttons)
		}
	}
}

// ResizeStrips replaces the measured strip layouts and resets the strips.
func (c *Case) ResizeStrips(layouts []StripLayout) {
	c.opts.Strips = layouts
	for i, s := range c.strips {
		if i < len(layouts) {
			s.Resize(layouts[i].Band, layouts[i].Buttons)
		}
	}
}

func (c *Case) Update(f Frame) {
	if c.background.alive() {
		c.background.uniforms().Time = float32(f.Time.Seconds())
	}
	for _, s := range c.strips {
		s.Update()
	}
}

// Strips exposes the highlight strips.
func (c *Case) Strips() []*slider.Strip { return c.strips }

func (c *Case) PointerDown(Point) {
	for _, s := range c.strips {
		s.Hold(true)
	}
}

func (c *Case) PointerMove(Point) {}

func (c *Case) PointerUp(Point) {
	for _, s := range c.strips {
		s.Hold(false)
	}
}

// Wheel points the strips the way the page is being scrolled.
func (c *Case) Wheel(speed float32) {
	for _, s := range c.strips {
		switch {
		case speed < 0:
			s.Right()
		case speed > 0:
			s.Left()
		}
	}
}

func (c *Case) Background() (BackgroundRef, bool) {
	return c.background.ref(), true
}

func (c *Case) Title(i int) (TitleRef, bool) {
	for _, t := range c.titles {
		if t.index == i {
			return t.ref(), true
		}
	}
	return TitleRef{}, false
}

func (c *Case) NodeCount() int {
	total := 0
	if c.background.alive() {
		total++
	}
	for _, t := range c.titles {
		if t.alive() {
			total++
		}
	}
	return total
}

func (c *Case) Destroy() {
	c.destroyBackground()
	c.destroyTitles()
}
