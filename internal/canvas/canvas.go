// Package canvas owns the scene, the active page view and the navigation
// sequence between views. Everything here runs on the frame loop goroutine.
package canvas

import (
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/louisbranch/showcase/internal/canvas/anim"
	"github.com/louisbranch/showcase/internal/canvas/overlay"
	"github.com/louisbranch/showcase/internal/canvas/scene"
	"github.com/louisbranch/showcase/internal/canvas/transition"
	"github.com/louisbranch/showcase/internal/canvas/view"
)

// Renderer draws one frame of the scene.
type Renderer interface {
	Render(s *scene.Scene, cam *scene.Camera, sizes *scene.Sizes) error
}

// Options configure a canvas.
type Options struct {
	// Projects is the canonical project order by UID.
	Projects     []string
	Profile      view.Profile
	Sink         overlay.Sink
	Renderer     Renderer
	Logger       *log.Logger
	Screen       scene.Dimensions
	PixelRatio   float32
	RootFontSize float32
}

type navigation struct {
	current  string
	previous string
	index    int
	task     *anim.Task
}

func (n *navigation) same(current string, index int) bool {
	return n.current == current && (index < 0 || n.index == index)
}

// Canvas is the canvas controller.
type Canvas struct {
	opts   Options
	log    *log.Logger
	scene  *scene.Scene
	camera *scene.Camera
	sizes  *scene.Sizes
	device *scene.Device
	player *anim.Player

	covers  []*scene.Texture
	fills   []*scene.Texture
	strokes []*scene.Texture
	strips  []view.StripLayout

	slug      string
	index     int
	current   view.PageView
	preloader *view.Preloader
	session   *transition.Session
	elapsed   time.Duration

	inflight *navigation
	queued   *navigation

	listeners map[int]func(int)
	nextID    int
	pending   int
	changed   bool
	emitted   int
}

// New builds an idle canvas sized to opts.Screen.
func New(opts Options) *Canvas {
	if opts.Sink == nil {
		opts.Sink = overlay.Discard{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.PixelRatio == 0 {
		opts.PixelRatio = 1
	}
	if opts.RootFontSize == 0 {
		opts.RootFontSize = 10
	}
	c := &Canvas{
		opts:      opts,
		log:       opts.Logger,
		scene:     scene.NewScene(),
		camera:    scene.NewCamera(1),
		sizes:     &scene.Sizes{},
		device:    scene.NewDevice(),
		player:    anim.NewPlayer(),
		listeners: make(map[int]func(int)),
		emitted:   -1,
	}
	c.sizes.Update(opts.Screen, opts.PixelRatio, opts.RootFontSize, c.camera)
	return c
}

// Initialize records the slug of the first page. Navigation starts once
// preloading completes.
func (c *Canvas) Initialize(slug string) {
	c.slug = slug
}

// Focus moves the focus to index without navigating. Views built afterwards
// open on it. A negative index is ignored.
func (c *Canvas) Focus(index int) {
	if index < 0 {
		return
	}
	c.setIndex(index)
	if c.current != nil {
		c.current.Set(index)
	}
}

// OnPreloadCover stores a cover. The first project's cover also starts the
// preloader unless the first page covers the canvas.
func (c *Canvas) OnPreloadCover(tex *scene.Texture) {
	if tex == nil {
		return
	}
	c.covers = insertByIndex(c.covers, tex)
	if c.preloader != nil || len(c.opts.Projects) == 0 || tex.UID != c.opts.Projects[0] {
		return
	}
	switch c.slug {
	case view.SlugAbout, view.SlugEssays, view.SlugCase:
		return
	}
	c.preloader = view.NewPreloader(c.viewOptions(), tex)
}

// OnPreloadFill stores a title fill texture.
func (c *Canvas) OnPreloadFill(tex *scene.Texture) {
	if tex != nil {
		c.fills = insertByIndex(c.fills, tex)
	}
}

// OnPreloadStroke stores a title stroke texture.
func (c *Canvas) OnPreloadStroke(tex *scene.Texture) {
	if tex != nil {
		c.strokes = insertByIndex(c.strokes, tex)
	}
}

func insertByIndex(list []*scene.Texture, tex *scene.Texture) []*scene.Texture {
	i, _ := slices.BinarySearchFunc(list, tex.Index, func(t *scene.Texture, index int) int {
		return t.Index - index
	})
	return slices.Insert(list, i, tex)
}

// OnPreloadComplete orders covers by project, dismisses the preloader and
// navigates to the initial page.
func (c *Canvas) OnPreloadComplete() *anim.Task {
	if len(c.opts.Projects) > 0 {
		ordered := make([]*scene.Texture, 0, len(c.opts.Projects))
		for _, uid := range c.opts.Projects {
			idx := slices.IndexFunc(c.covers, func(t *scene.Texture) bool { return t.UID == uid })
			if idx < 0 {
				c.log.Printf("canvas: no cover preloaded for %q", uid)
				ordered = append(ordered, nil)
				continue
			}
			ordered = append(ordered, c.covers[idx])
		}
		c.covers = ordered
	}
	return anim.Sequence(
		func() *anim.Task {
			if c.preloader == nil {
				return anim.Resolved()
			}
			return c.preloader.Hide().Then(func() { c.preloader = nil })
		},
		func() *anim.Task {
			return c.Navigate(c.slug, "", -1)
		},
	)
}

// Navigate hides the active view, builds the view for current, runs a
// transition when the kinds differ and shows the new view with previous as
// hint. A negative index keeps the current focus. A request matching the
// navigation in flight returns its task; any other request waits for it, and
// a newer request replaces a waiting one, whose task is dropped.
func (c *Canvas) Navigate(current, previous string, index int) *anim.Task {
	if c.inflight != nil {
		if c.inflight.same(current, index) {
			return c.inflight.task
		}
		if c.queued != nil {
			if c.queued.same(current, index) {
				return c.queued.task
			}
			c.queued.task.Drop()
		}
		c.queued = &navigation{current: current, previous: previous, index: index, task: anim.NewTask()}
		return c.queued.task
	}
	nav := &navigation{current: current, previous: previous, index: index, task: anim.NewTask()}
	c.start(nav)
	return nav.task
}

func (c *Canvas) start(nav *navigation) {
	c.inflight = nav
	if nav.index >= 0 {
		c.setIndex(nav.index)
	}
	prev := c.current
	c.current = nil
	var next view.PageView

	steps := anim.Sequence(
		func() *anim.Task {
			if prev == nil {
				return anim.Resolved()
			}
			return prev.Hide(nav.current)
		},
		func() *anim.Task {
			next = view.Build(view.KindForSlug(nav.current), c.buildOptions())
			if prev == nil || next == nil || prev.Kind() == next.Kind() {
				return anim.Resolved()
			}
			c.session = transition.New(transition.Config{
				Index:    c.index,
				Sizes:    c.sizes,
				Scene:    c.scene,
				Device:   c.device,
				Player:   c.player,
				Textures: c.Textures(),
			})
			return c.session.Animate(next, prev)
		},
		func() *anim.Task {
			if prev != nil {
				prev.Destroy()
			}
			c.session = nil
			c.slug = nav.current
			c.current = next
			if next == nil {
				return anim.Resolved()
			}
			return next.Show(nav.previous)
		},
	)
	steps.Then(func() { c.finish(nav) })
}

func (c *Canvas) finish(nav *navigation) {
	c.inflight = nil
	nav.task.Resolve()
	if q := c.queued; q != nil {
		c.queued = nil
		c.start(q)
	}
}

func (c *Canvas) buildOptions() view.Options {
	opts := c.viewOptions()
	opts.Index = c.index
	opts.OnChange = c.setIndex
	opts.Strips = c.strips
	return opts
}

func (c *Canvas) viewOptions() view.Options {
	return view.Options{
		Sizes:    c.sizes,
		Camera:   c.camera,
		Scene:    c.scene,
		Device:   c.device,
		Player:   c.player,
		Textures: c.Textures(),
		Profile:  c.opts.Profile,
		Sink:     c.opts.Sink,
	}
}

// setIndex records a focus change. Listeners hear about it on the next Tick.
func (c *Canvas) setIndex(index int) {
	c.index = index
	c.pending = index
	c.changed = true
}

// OnChange subscribes fn to focus index changes and returns the
// unsubscribe function.
func (c *Canvas) OnChange(fn func(int)) (unsubscribe func()) {
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() { delete(c.listeners, id) }
}

func (c *Canvas) flushChanges() {
	if !c.changed {
		return
	}
	c.changed = false
	if c.pending == c.emitted {
		return
	}
	c.emitted = c.pending
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		c.listeners[id](c.pending)
	}
}

// SetStrips stores the measured highlight strips of the case page.
func (c *Canvas) SetStrips(layouts []view.StripLayout) {
	c.strips = layouts
	if cs, ok := c.current.(*view.Case); ok {
		cs.ResizeStrips(layouts)
	}
}

// Resize recomputes the shared sizes in place and relays them.
func (c *Canvas) Resize(rootFontSize float32, screen scene.Dimensions) {
	c.opts.RootFontSize = rootFontSize
	c.opts.Screen = screen
	c.sizes.Update(screen, c.opts.PixelRatio, rootFontSize, c.camera)
	if c.current != nil {
		c.current.Resize(c.Textures())
	}
	if c.preloader != nil {
		c.preloader.Resize()
	}
}

func (c *Canvas) PointerDown(p view.Point) {
	if c.current != nil {
		c.current.PointerDown(p)
	}
}

func (c *Canvas) PointerMove(p view.Point) {
	if c.current != nil {
		c.current.PointerMove(p)
	}
}

func (c *Canvas) PointerUp(p view.Point) {
	if c.current != nil {
		c.current.PointerUp(p)
	}
}

func (c *Canvas) Wheel(speed float32) {
	if c.current != nil {
		c.current.Wheel(speed)
	}
}

// Tick advances animations by dt, updates the active view, emits at most
// one focus change and renders.
func (c *Canvas) Tick(dt time.Duration) error {
	c.elapsed += dt
	c.player.Advance(dt)
	f := view.Frame{Time: c.elapsed, Delta: dt}
	if c.current != nil {
		c.current.Update(f)
	}
	if c.preloader != nil {
		c.preloader.Update(f)
	}
	c.flushChanges()
	if c.opts.Renderer == nil {
		return nil
	}
	if err := c.opts.Renderer.Render(c.scene, c.camera, c.sizes); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	return nil
}

// Textures returns the preloaded textures in project order.
func (c *Canvas) Textures() view.Textures {
	return view.Textures{Covers: c.covers, Fills: c.fills, Strokes: c.strokes}
}

// Current is the active view, nil while navigating or on text pages.
func (c *Canvas) Current() view.PageView { return c.current }

// Busy reports whether a navigation is in flight.
func (c *Canvas) Busy() bool { return c.inflight != nil }

// Slug is the slug of the last page shown.
func (c *Canvas) Slug() string { return c.slug }

// Index is the focused project.
func (c *Canvas) Index() int { return c.index }

// Preloading reports whether the preloader is still on screen.
func (c *Canvas) Preloading() bool { return c.preloader != nil }

// Scene exposes the scene for renderers.
func (c *Canvas) Scene() *scene.Scene { return c.scene }

// Camera exposes the camera for renderers.
func (c *Canvas) Camera() *scene.Camera { return c.camera }

// Sizes exposes the shared viewport sizes.
func (c *Canvas) Sizes() *scene.Sizes { return c.sizes }

// Device exposes resource accounting.
func (c *Canvas) Device() *scene.Device { return c.device }
