// Package shell is the headless client application. It boots from a page
// served by the web service, preloads textures, routes input to the canvas
// and follows links by fetching pages and navigating the canvas.
package shell

import (
	"bytes"
	"context"
	"errors"
	"log"
	"time"

	"github.com/louisbranch/showcase/internal/canvas"
	"github.com/louisbranch/showcase/internal/canvas/overlay"
	"github.com/louisbranch/showcase/internal/canvas/scene"
	"github.com/louisbranch/showcase/internal/canvas/slider"
	"github.com/louisbranch/showcase/internal/canvas/view"
	"github.com/louisbranch/showcase/internal/device"
	apperrors "github.com/louisbranch/showcase/internal/platform/errors"
)

// DefaultFPS is the frame rate Run uses when none is given.
const DefaultFPS = 60

// wheelFactor scales normalized wheel pixels into scroll speed.
const wheelFactor = 0.2

// ErrNotStarted is returned by Settle when Start was never called.
var ErrNotStarted = errors.New("shell: app not started")

// ErrUnsupported is returned by Settle while the unsupported browser screen
// is up. Continue dismisses it.
var ErrUnsupported = errors.New("shell: browser unsupported")

// Theme is the page color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Config wires an App. Document is the parsed first page; it carries the
// project textures the server selected for the device.
type Config struct {
	URL        string
	Document   Document
	Profile    device.Profile
	Screen     scene.Dimensions
	PixelRatio float32

	Fetcher  Fetcher
	Loader   TextureLoader
	Renderer canvas.Renderer
	Sink     overlay.Sink
	Logger   *log.Logger
}

// NavigationState mirrors the site navigation bar.
type NavigationState struct {
	Active        string
	Transitioning bool
}

// InputKind discriminates Input.
type InputKind int

const (
	InputPointerDown InputKind = iota + 1
	InputPointerMove
	InputPointerUp
	InputWheel
	InputResize
	InputNavigate
)

// Input is one event for the frame loop.
type Input struct {
	Kind   InputKind
	Point  view.Point
	Delta  float32
	Screen scene.Dimensions
	URL    string
}

type pageResult struct {
	url string
	doc Document
	err error
}

// App is the client application. Its state is owned by the goroutine that
// calls Step or Run; other goroutines talk to it through Send.
type App struct {
	cfg    Config
	log    *log.Logger
	canvas *canvas.Canvas
	cursor *Cursor

	inputs   chan Input
	preloads chan preloadEvent
	pages    chan pageResult

	ctx     context.Context
	started bool

	url        string
	slug       string
	title      string
	focus      int
	theme      Theme
	navigation NavigationState
	history    []string
	screen     scene.Dimensions
	fontSize   float32

	loading     bool
	preloaded   bool
	unsupported bool
	pending     int
}

// New builds the app and its canvas. Nothing loads until Start or Run.
func New(cfg Config) (*App, error) {
	if cfg.Fetcher == nil {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "page fetcher is required")
	}
	if cfg.Loader == nil {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "texture loader is required")
	}
	if cfg.Document.Slug == "" {
		return nil, apperrors.New(apperrors.CodeBindingMissing, "first page has no slug")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Sink == nil {
		cfg.Sink = overlay.Discard{}
	}
	if cfg.URL == "" {
		cfg.URL = "/"
	}

	projects := make([]string, 0, len(cfg.Document.Data.Projects))
	for _, p := range cfg.Document.Data.Projects {
		projects = append(projects, p.UID)
	}
	fontSize := RootFontSize(cfg.Screen, cfg.Profile.Phone)

	a := &App{
		cfg:      cfg,
		log:      cfg.Logger,
		inputs:   make(chan Input, 64),
		preloads: make(chan preloadEvent, 3*len(projects)+1),
		pages:    make(chan pageResult, 1),
		url:      cfg.URL,
		slug:     cfg.Document.Slug,
		title:    cfg.Document.Title,
		focus:    cfg.Document.Index,
		history:  []string{cfg.URL},
		screen:   cfg.Screen,
		fontSize: fontSize,

		unsupported: cfg.Profile.Desktop && !cfg.Profile.Supported(),
	}
	a.canvas = canvas.New(canvas.Options{
		Projects:     projects,
		Profile:      view.Profile{Phone: cfg.Profile.Phone, Safari: cfg.Profile.Safari},
		Sink:         cfg.Sink,
		Renderer:     cfg.Renderer,
		Logger:       cfg.Logger,
		Screen:       cfg.Screen,
		PixelRatio:   cfg.PixelRatio,
		RootFontSize: fontSize,
	})
	a.canvas.Initialize(a.slug)
	a.canvas.OnChange(func(index int) { a.focus = index })
	a.canvas.Focus(cfg.Document.Index)
	a.canvas.SetStrips(stripLayouts(cfg.Document, fontSize))
	if cfg.Profile.Desktop {
		a.cursor = NewCursor(cfg.Screen.Width, cfg.Screen.Height)
	}
	a.theme = themeFor(a.slug, cfg.Profile)
	a.navigation = NavigationState{Active: a.slug}
	return a, nil
}

// Boot fetches the first page through client and builds an app on it. The
// client also serves as fetcher and loader unless cfg sets them.
func Boot(ctx context.Context, client *HTTPClient, ref string, cfg Config) (*App, error) {
	if client == nil {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "http client is required")
	}
	body, err := client.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	cfg.URL = ref
	cfg.Document = doc
	if cfg.Fetcher == nil {
		cfg.Fetcher = client
	}
	if cfg.Loader == nil {
		cfg.Loader = client
	}
	return New(cfg)
}

// Start begins preloading. On an unsupported browser preloading waits for
// Continue. Later calls are no-ops.
func (a *App) Start(ctx context.Context) {
	if a.started {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	a.started = true
	a.ctx = ctx
	if a.unsupported {
		a.log.Printf("shell: unsupported browser %s %s", a.cfg.Profile.Browser, a.cfg.Profile.Version)
		return
	}
	a.preload()
}

// Continue dismisses the unsupported browser screen and preloads anyway.
func (a *App) Continue() {
	if !a.unsupported {
		return
	}
	a.unsupported = false
	if a.started {
		a.preload()
	}
}

func (a *App) preload() {
	ctx := a.ctx
	projects := a.cfg.Document.Data.Projects
	if len(projects) == 0 {
		a.preloads <- preloadEvent{done: true}
		return
	}
	go preload(ctx, a.cfg.Loader, projects, a.log, func(ev preloadEvent) bool {
		select {
		case a.preloads <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// Run starts the app and steps it fps times a second until ctx ends or a
// fatal error occurs.
func (a *App) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = DefaultFPS
	}
	a.Start(ctx)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if err := a.Step(dt); err != nil {
				return err
			}
		}
	}
}

// Send queues an input for the next Step.
func (a *App) Send(in Input) {
	a.inputs <- in
}

// Navigate follows a link.
func (a *App) Navigate(url string) { a.Send(Input{Kind: InputNavigate, URL: url}) }

func (a *App) PointerDown(p view.Point) { a.Send(Input{Kind: InputPointerDown, Point: p}) }

func (a *App) PointerMove(p view.Point) { a.Send(Input{Kind: InputPointerMove, Point: p}) }

func (a *App) PointerUp(p view.Point) { a.Send(Input{Kind: InputPointerUp, Point: p}) }

// Wheel scrolls by normalized wheel pixels.
func (a *App) Wheel(pixelY float32) { a.Send(Input{Kind: InputWheel, Delta: pixelY}) }

// Resize changes the viewport size.
func (a *App) Resize(w, h float32) {
	a.Send(Input{Kind: InputResize, Screen: scene.Dimensions{Width: w, Height: h}})
}

// Step drains queued input and loader results, then advances one frame.
func (a *App) Step(dt time.Duration) error {
drain:
	for {
		select {
		case in := <-a.inputs:
			a.handle(in)
		case ev := <-a.preloads:
			a.onPreload(ev)
		case res := <-a.pages:
			if err := a.onPage(res); err != nil {
				return err
			}
		default:
			break drain
		}
	}
	if a.cursor != nil {
		a.cursor.Update()
	}
	return a.canvas.Tick(dt)
}

// Await blocks until a loader result arrives and applies it. It lets a
// fixed-step driver wait for the network without spinning.
func (a *App) Await(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case ev := <-a.preloads:
		a.onPreload(ev)
		return nil
	case res := <-a.pages:
		return a.onPage(res)
	}
}

func (a *App) handle(in Input) {
	switch in.Kind {
	case InputPointerDown:
		if a.cursor != nil {
			a.cursor.Move(in.Point)
			a.cursor.Down()
		}
		a.canvas.PointerDown(in.Point)
	case InputPointerMove:
		if a.cursor != nil {
			a.cursor.Move(in.Point)
		}
		a.canvas.PointerMove(in.Point)
	case InputPointerUp:
		if a.cursor != nil {
			a.cursor.Move(in.Point)
			a.cursor.Up()
		}
		a.canvas.PointerUp(in.Point)
	case InputWheel:
		a.canvas.Wheel(in.Delta * wheelFactor)
	case InputResize:
		a.resize(in.Screen)
	case InputNavigate:
		a.navigate(in.URL)
	}
}

func (a *App) resize(screen scene.Dimensions) {
	a.screen = screen
	a.fontSize = RootFontSize(screen, a.cfg.Profile.Phone)
	a.canvas.Resize(a.fontSize, screen)
}

// navigate starts fetching url unless a page is already loading or url is
// the current page. A failed fetch falls back to the home page.
func (a *App) navigate(url string) {
	if a.loading || url == a.url {
		return
	}
	if a.ctx == nil {
		a.log.Printf("shell: navigate %s before start", url)
		return
	}
	a.url = url
	a.loading = true
	ctx := a.ctx
	go func() {
		target := url
		body, err := a.cfg.Fetcher.Fetch(ctx, target)
		if err != nil && ctx.Err() == nil {
			a.log.Printf("shell: fetch %s: %v; falling back to /", target, err)
			target = "/"
			body, err = a.cfg.Fetcher.Fetch(ctx, target)
		}
		res := pageResult{url: target, err: err}
		if err == nil {
			res.doc, res.err = ParseDocument(bytes.NewReader(body))
		}
		select {
		case a.pages <- res:
		case <-ctx.Done():
		}
	}()
}

// onPage applies a fetched page. Only a page without the content binding
// is fatal.
func (a *App) onPage(res pageResult) error {
	a.loading = false
	if res.err != nil {
		if apperrors.CodeOf(res.err) == apperrors.CodeBindingMissing {
			return res.err
		}
		a.log.Printf("shell: load %s: %v", res.url, res.err)
		a.url = a.history[len(a.history)-1]
		return nil
	}
	doc := res.doc
	if a.cursor != nil {
		a.cursor.NavigationStart()
	}
	a.navigation.Transitioning = true
	a.theme = themeFor(doc.Slug, a.cfg.Profile)

	previous := a.slug
	a.canvas.SetStrips(stripLayouts(doc, a.fontSize))
	a.pending++
	task := a.canvas.Navigate(doc.Slug, previous, doc.Index)
	a.slug = doc.Slug
	a.title = doc.Title
	a.url = res.url
	a.history = append(a.history, res.url)
	task.Then(func() {
		a.pending--
		if a.cursor != nil {
			a.cursor.NavigationEnd()
		}
		a.navigation = NavigationState{Active: a.slug}
	})
	return nil
}

func (a *App) onPreload(ev preloadEvent) {
	if ev.done {
		a.preloaded = true
		a.pending++
		a.canvas.OnPreloadComplete().Then(func() { a.pending-- })
		return
	}
	switch ev.kind {
	case TextureCover:
		a.canvas.OnPreloadCover(ev.tex)
	case TextureFill:
		a.canvas.OnPreloadFill(ev.tex)
	case TextureStroke:
		a.canvas.OnPreloadStroke(ev.tex)
	}
}

// themeFor picks the light theme on the about page unless the browser
// cannot blend the canvas into it.
func themeFor(slug string, profile device.Profile) Theme {
	if slug == view.SlugAbout && !profile.MixBlendModeUnsupported {
		return ThemeLight
	}
	return ThemeDark
}

// stripLayouts lays the case highlights out as a single strip of buttons
// 30rem wide.
func stripLayouts(doc Document, fontSize float32) []view.StripLayout {
	if doc.Slug != view.SlugCase || doc.Highlights == 0 {
		return nil
	}
	width := 30 * fontSize
	buttons := make([]slider.Button, doc.Highlights)
	for i := range buttons {
		buttons[i] = slider.Button{Offset: float32(i) * width, Width: width}
	}
	return []view.StripLayout{{Band: float32(doc.Highlights) * width, Buttons: buttons}}
}

// Settle steps the app by dt until preloading has finished and no page
// load or navigation is outstanding, awaiting loader results when there is
// nothing to animate. It returns the number of frames stepped.
func (a *App) Settle(ctx context.Context, dt time.Duration, maxFrames int) (int, error) {
	if !a.started {
		return 0, ErrNotStarted
	}
	if a.unsupported {
		return 0, ErrUnsupported
	}
	frames := 0
	for !a.Idle() {
		if maxFrames > 0 && frames >= maxFrames {
			return frames, apperrors.New(apperrors.CodeUnknown, "app did not settle")
		}
		if (a.loading || !a.preloaded) && a.pending == 0 && len(a.inputs) == 0 {
			if err := a.Await(ctx); err != nil {
				return frames, err
			}
			continue
		}
		if err := a.Step(dt); err != nil {
			return frames, err
		}
		frames++
	}
	return frames, nil
}

// Idle reports whether nothing is loading, preloading or animating a
// navigation.
func (a *App) Idle() bool {
	return a.started && a.preloaded && !a.loading && a.pending == 0 && !a.canvas.Busy() && len(a.inputs) == 0
}

// Canvas exposes the canvas for renderers and tests.
func (a *App) Canvas() *canvas.Canvas { return a.canvas }

// Cursor is nil off desktop.
func (a *App) Cursor() *Cursor { return a.cursor }

// Unsupported reports whether the unsupported browser screen is up.
func (a *App) Unsupported() bool { return a.unsupported }

func (a *App) URL() string                 { return a.url }
func (a *App) Slug() string                { return a.slug }
func (a *App) Title() string               { return a.title }
func (a *App) Focus() int                  { return a.focus }
func (a *App) Theme() Theme                { return a.theme }
func (a *App) Navigation() NavigationState { return a.navigation }
func (a *App) FontSize() float32           { return a.fontSize }
func (a *App) Loading() bool               { return a.loading }
func (a *App) Preloaded() bool             { return a.preloaded }

// History lists the URLs shown, oldest first.
func (a *App) History() []string { return append([]string(nil), a.history...) }
