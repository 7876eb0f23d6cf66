package shell

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/louisbranch/showcase/internal/canvas/scene"
	"github.com/louisbranch/showcase/internal/canvas/view"
	"github.com/louisbranch/showcase/internal/content/fixture"
	"github.com/louisbranch/showcase/internal/device"
	apperrors "github.com/louisbranch/showcase/internal/platform/errors"
	"github.com/louisbranch/showcase/internal/services/web"
)

const (
	legacyUA  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/65.0.3325.181 Safari/537.36"
	desktopUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.6099.129 Safari/537.36"
	frame     = 16 * time.Millisecond
	maxFrames = 5000
)

var discard = log.New(io.Discard, "", 0)

var (
	view0 = view.Point{X: 100, Y: 100}
	view1 = view.Point{X: 300, Y: 200}
)

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	provider, err := fixture.Load("../services/web/testdata/site.yaml", discard)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	h, err := web.NewHandler(web.Config{Provider: provider, Logger: discard})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

// failingFetcher fails every listed reference and delegates the rest.
type failingFetcher struct {
	next Fetcher
	fail map[string]bool
	body map[string]string
}

func (f failingFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if f.fail[ref] {
		return nil, errors.New("boom")
	}
	if body, ok := f.body[ref]; ok {
		return []byte(body), nil
	}
	return f.next.Fetch(ctx, ref)
}

func boot(t *testing.T, ref string, wrap func(Fetcher) Fetcher) *App {
	t.Helper()
	srv := newSite(t)
	client, err := NewHTTPClient(srv.URL, WithUserAgent(desktopUA))
	if err != nil {
		t.Fatalf("NewHTTPClient() error = %v", err)
	}
	cfg := Config{
		Profile:    device.Detect(desktopUA),
		Screen:     scene.Dimensions{Width: 1600, Height: 900},
		PixelRatio: 1,
		Logger:     discard,
	}
	if wrap != nil {
		cfg.Fetcher = wrap(client)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	app, err := Boot(ctx, client, ref, cfg)
	if err != nil {
		t.Fatalf("Boot() error = %v", err)
	}
	app.Start(ctx)
	settle(t, app)
	return app
}

func settle(t *testing.T, app *App) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := app.Settle(ctx, frame, maxFrames); err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
}

func TestBootPreloadsAndShowsHome(t *testing.T) {
	t.Parallel()

	app := boot(t, "/", nil)
	if !app.Preloaded() {
		t.Fatal("expected preload to complete")
	}
	if app.Slug() != "home" {
		t.Fatalf("slug = %q, want home", app.Slug())
	}
	if app.Canvas().Preloading() {
		t.Fatal("preloader still on screen")
	}
	textures := app.Canvas().Textures()
	if len(textures.Covers) != 3 || len(textures.Fills) != 3 || len(textures.Strokes) != 3 {
		t.Fatalf("textures = %d/%d/%d, want 3 each", len(textures.Covers), len(textures.Fills), len(textures.Strokes))
	}
	for i, uid := range []string{"alpha", "beta", "gamma"} {
		if textures.Covers[i] == nil || textures.Covers[i].UID != uid {
			t.Fatalf("cover %d = %+v, want %s", i, textures.Covers[i], uid)
		}
	}
	if app.Cursor() == nil {
		t.Fatal("desktop should have a cursor")
	}
	if app.Theme() != ThemeDark {
		t.Fatalf("theme = %q, want dark", app.Theme())
	}
}

func TestNavigateCaseAboutAndBack(t *testing.T) {
	t.Parallel()

	app := boot(t, "/", nil)

	app.Navigate("/case/beta")
	settle(t, app)
	if app.Slug() != "case" || app.Title() != "Beta" {
		t.Fatalf("page = %q %q, want case Beta", app.Slug(), app.Title())
	}
	if app.Focus() != 1 {
		t.Fatalf("focus = %d, want 1", app.Focus())
	}
	if app.Canvas().Current() == nil {
		t.Fatal("case view missing")
	}

	app.Navigate("/about")
	settle(t, app)
	if app.Theme() != ThemeLight {
		t.Fatalf("theme = %q, want light on about", app.Theme())
	}
	if app.Navigation().Active != "about" || app.Navigation().Transitioning {
		t.Fatalf("navigation = %+v", app.Navigation())
	}

	app.Navigate("/")
	settle(t, app)
	if app.Theme() != ThemeDark || app.Slug() != "home" {
		t.Fatalf("back home: theme %q slug %q", app.Theme(), app.Slug())
	}
	want := []string{"/", "/case/beta", "/about", "/"}
	got := app.History()
	if len(got) != len(want) {
		t.Fatalf("history = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("history = %v, want %v", got, want)
		}
	}
}

func TestDeepLinkFocusCarriesIntoIndex(t *testing.T) {
	t.Parallel()

	app := boot(t, "/case/gamma", nil)
	if app.Focus() != 2 || app.Canvas().Index() != 2 {
		t.Fatalf("focus = %d, canvas index = %d, want 2", app.Focus(), app.Canvas().Index())
	}
	if current := app.Canvas().Current(); current == nil || current.Index() != 2 {
		t.Fatalf("case view = %v, want focused on 2", current)
	}

	app.Navigate("/index")
	settle(t, app)
	current := app.Canvas().Current()
	if app.Slug() != "index" || current == nil {
		t.Fatalf("slug = %q, view = %v, want index", app.Slug(), current)
	}
	if current.Index() != 2 || app.Canvas().Index() != 2 {
		t.Fatalf("index view focused on %d (canvas %d), want 2", current.Index(), app.Canvas().Index())
	}
}

func TestUnsupportedBrowserWaitsForContinue(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	client, err := NewHTTPClient(srv.URL, WithUserAgent(legacyUA))
	if err != nil {
		t.Fatalf("NewHTTPClient() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	app, err := Boot(ctx, client, "/", Config{
		Profile:    device.Detect(legacyUA),
		Screen:     scene.Dimensions{Width: 1600, Height: 900},
		PixelRatio: 1,
		Logger:     discard,
	})
	if err != nil {
		t.Fatalf("Boot() error = %v", err)
	}
	app.Start(ctx)
	if !app.Unsupported() {
		t.Fatal("expected unsupported screen for an old desktop browser")
	}
	if _, err := app.Settle(ctx, frame, maxFrames); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Settle() error = %v, want %v", err, ErrUnsupported)
	}
	if app.Preloaded() {
		t.Fatal("preload ran behind the unsupported screen")
	}

	app.Continue()
	settle(t, app)
	if app.Unsupported() || !app.Preloaded() || app.Slug() != "home" {
		t.Fatalf("after continue: unsupported = %t, preloaded = %t, slug = %q", app.Unsupported(), app.Preloaded(), app.Slug())
	}
}

func TestNavigateIgnoresCurrentURL(t *testing.T) {
	t.Parallel()

	app := boot(t, "/", nil)
	app.Navigate("/")
	if err := app.Step(frame); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if app.Loading() {
		t.Fatal("navigating to the current url should be ignored")
	}
}

func TestNavigateIgnoredWhileLoading(t *testing.T) {
	t.Parallel()

	app := boot(t, "/", nil)
	app.Navigate("/about")
	app.Navigate("/case/alpha")
	settle(t, app)
	if app.Slug() != "about" {
		t.Fatalf("slug = %q, want about", app.Slug())
	}
	if got := app.History(); len(got) != 2 {
		t.Fatalf("history = %v, want two entries", got)
	}
}

func TestNavigateFetchFailureFallsBackHome(t *testing.T) {
	t.Parallel()

	app := boot(t, "/about", func(next Fetcher) Fetcher {
		return failingFetcher{next: next, fail: map[string]bool{"/broken": true}}
	})
	if app.Slug() != "about" {
		t.Fatalf("slug = %q, want about", app.Slug())
	}
	app.Navigate("/broken")
	settle(t, app)
	if app.Slug() != "home" || app.URL() != "/" {
		t.Fatalf("page = %q at %q, want home at /", app.Slug(), app.URL())
	}
}

func TestMissingContentBindingIsFatal(t *testing.T) {
	t.Parallel()

	app := boot(t, "/", func(next Fetcher) Fetcher {
		return failingFetcher{next: next, body: map[string]string{"/bare": "<html><body>bare</body></html>"}}
	})
	app.Navigate("/bare")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err := app.Settle(ctx, frame, maxFrames)
	if got := apperrors.CodeOf(err); got != apperrors.CodeBindingMissing {
		t.Fatalf("code = %v, want %v (err %v)", got, apperrors.CodeBindingMissing, err)
	}
}

func TestResizeRecomputesFontSize(t *testing.T) {
	t.Parallel()

	app := boot(t, "/", nil)
	app.Resize(800, 600)
	if err := app.Step(frame); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if app.FontSize() != 5 {
		t.Fatalf("font size = %v, want 5", app.FontSize())
	}
	if sizes := app.Canvas().Sizes(); sizes.Screen.Width != 800 || sizes.Screen.Height != 600 {
		t.Fatalf("screen = %+v, want 800x600", sizes.Screen)
	}
}

func TestPointerInputMovesCursor(t *testing.T) {
	t.Parallel()

	app := boot(t, "/", nil)
	app.PointerDown(view0)
	app.PointerMove(view1)
	if err := app.Step(frame); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if !app.Cursor().Holding() || app.Cursor().Circle != view1 {
		t.Fatalf("cursor = %+v, want holding at %+v", app.Cursor(), view1)
	}
	app.PointerUp(view1)
	app.Wheel(100)
	if err := app.Step(frame); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if app.Cursor().Holding() {
		t.Fatal("cursor still holding after pointer up")
	}
}

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	client, err := NewHTTPClient("http://localhost")
	if err != nil {
		t.Fatalf("NewHTTPClient() error = %v", err)
	}
	doc := Document{Slug: "home", Index: -1}
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "no fetcher", cfg: Config{Loader: client, Document: doc}},
		{name: "no loader", cfg: Config{Fetcher: client, Document: doc}},
		{name: "no slug", cfg: Config{Fetcher: client, Loader: client}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	if _, err := NewHTTPClient("/relative"); err == nil {
		t.Fatal("expected error for relative base url")
	}
}

func TestSettleRequiresStart(t *testing.T) {
	t.Parallel()

	client, err := NewHTTPClient("http://localhost")
	if err != nil {
		t.Fatalf("NewHTTPClient() error = %v", err)
	}
	app, err := New(Config{Fetcher: client, Loader: client, Document: Document{Slug: "about", Index: -1}, Logger: discard})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := app.Settle(context.Background(), frame, 1); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("Settle() error = %v, want ErrNotStarted", err)
	}
}

func TestThemeFor(t *testing.T) {
	t.Parallel()

	if got := themeFor("about", device.Profile{}); got != ThemeLight {
		t.Fatalf("about theme = %q, want light", got)
	}
	if got := themeFor("about", device.Profile{MixBlendModeUnsupported: true}); got != ThemeDark {
		t.Fatalf("about theme without blending = %q, want dark", got)
	}
	if got := themeFor("case", device.Profile{}); got != ThemeDark {
		t.Fatalf("case theme = %q, want dark", got)
	}
}
