// Package view builds the page views the canvas switches between. Each view
// owns its scene nodes, shows and hides them with tracked animations, and
// exposes the title and background state the transition reads.
package view

import (
	"time"

	"cogentcore.org/core/math32"
	"github.com/louisbranch/showcase/internal/canvas/anim"
	"github.com/louisbranch/showcase/internal/canvas/overlay"
	"github.com/louisbranch/showcase/internal/canvas/scene"
	"github.com/louisbranch/showcase/internal/canvas/slider"
)

// Page slugs as they appear in data-slug attributes.
const (
	SlugHome   = "home"
	SlugCase   = "case"
	SlugIndex  = "index"
	SlugAbout  = "about"
	SlugEssays = "essays"
)

// Kind selects a page view variant.
type Kind int

const (
	KindNone Kind = iota
	KindHome
	KindCase
	KindIndexes
)

func (k Kind) String() string {
	switch k {
	case KindHome:
		return "home"
	case KindCase:
		return "case"
	case KindIndexes:
		return "indexes"
	default:
		return "none"
	}
}

// KindForSlug maps a page slug to the view that renders it. Pages without a
// canvas view return KindNone.
func KindForSlug(slug string) Kind {
	switch slug {
	case SlugHome:
		return KindHome
	case SlugCase:
		return KindCase
	case SlugIndex:
		return KindIndexes
	default:
		return KindNone
	}
}

// isTextPage reports whether slug is one of the text pages views slide
// away from and back to.
func isTextPage(slug string) bool {
	return slug == SlugAbout || slug == SlugEssays
}

// Frame is the clock passed to Update.
type Frame struct {
	Time  time.Duration
	Delta time.Duration
}

// Point is a pointer position in pixels.
type Point struct {
	X float32
	Y float32
}

// Textures are the preloaded images, ordered by project.
type Textures struct {
	Covers  []*scene.Texture
	Fills   []*scene.Texture
	Strokes []*scene.Texture
}

func textureAt(list []*scene.Texture, i int) *scene.Texture {
	if i < 0 || i >= len(list) {
		return nil
	}
	return list[i]
}

// Profile holds the device flags views branch on.
type Profile struct {
	Phone  bool
	Safari bool
}

// StripLayout is the measured layout of one case highlight strip.
type StripLayout struct {
	Band    float32
	Buttons []slider.Button
}

// Options carry everything a view needs. The pointers are shared with the
// canvas and outlive the view.
type Options struct {
	Index    int
	Sizes    *scene.Sizes
	Camera   *scene.Camera
	Scene    *scene.Scene
	Device   *scene.Device
	Player   *anim.Player
	Textures Textures
	Profile  Profile
	Sink     overlay.Sink
	Strips   []StripLayout
	// OnChange receives focus index changes driven by scrolling.
	OnChange func(int)
}

func (o *Options) emit(index int) {
	if o.OnChange != nil {
		o.OnChange(index)
	}
}

// TitleRef is the state of one title the transition interpolates between.
type TitleRef struct {
	World      math32.Vector3
	Rest       math32.Vector3
	Scaling    float32
	Transition float32
	Alpha      float32
}

// BackgroundRef is the state of the view's background.
type BackgroundRef struct {
	Z     float32
	Scale float32
}

// PageView is one navigational state of the canvas.
type PageView interface {
	Kind() Kind
	// Show attaches the view's nodes. prevHint is the slug navigated from.
	Show(prevHint string) *anim.Task
	// Hide detaches and destroys every node once its animation finishes.
	Hide(nextHint string) *anim.Task
	Resize(textures Textures)
	Update(f Frame)
	Set(index int)
	Index() int
	Destroy()
	Background() (BackgroundRef, bool)
	Title(i int) (TitleRef, bool)
	// NodeCount is the number of meshes the view still owns.
	NodeCount() int

	PointerDown(p Point)
	PointerMove(p Point)
	PointerUp(p Point)
	Wheel(speed float32)
}

// Build constructs the view for kind, focused on opts.Index. KindNone
// returns nil.
func Build(kind Kind, opts Options) PageView {
	if opts.Sink == nil {
		opts.Sink = overlay.Discard{}
	}
	if opts.Player == nil {
		opts.Player = anim.NewPlayer()
	}
	if opts.Device == nil {
		opts.Device = scene.NewDevice()
	}
	if opts.Scene == nil {
		opts.Scene = scene.NewScene()
	}
	if opts.Camera == nil {
		opts.Camera = scene.NewCamera(1)
	}
	switch kind {
	case KindHome:
		return NewHome(opts)
	case KindCase:
		return NewCase(opts)
	case KindIndexes:
		return NewIndexes(opts)
	default:
		return nil
	}
}
