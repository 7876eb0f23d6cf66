// Package storyboard drives the headless shell through a list of routes on a
// running site and saves rendered frames as PNG files.
package storyboard

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/louisbranch/showcase/internal/canvas/raster"
	"github.com/louisbranch/showcase/internal/canvas/scene"
	"github.com/louisbranch/showcase/internal/device"
	entrypoint "github.com/louisbranch/showcase/internal/platform/cmd"
	"github.com/louisbranch/showcase/internal/shell"
)

// User agents the server classifies as each device class.
var userAgents = map[device.Class]string{
	device.ClassDesktop: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.6099.129 Safari/537.36",
	device.ClassTablet:  "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1",
	device.ClassPhone:   "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
}

// Config holds storyboard command configuration.
type Config struct {
	BaseURL    string   `env:"STORYBOARD_BASE_URL"    envDefault:"http://localhost:8080"`
	Device     string   `env:"STORYBOARD_DEVICE"      envDefault:"desktop"`
	Width      int      `env:"STORYBOARD_WIDTH"       envDefault:"1600"`
	Height     int      `env:"STORYBOARD_HEIGHT"      envDefault:"900"`
	PixelRatio float64  `env:"STORYBOARD_PIXEL_RATIO" envDefault:"1"`
	FPS        int      `env:"STORYBOARD_FPS"         envDefault:"30"`
	Every      int      `env:"STORYBOARD_EVERY"       envDefault:"5"`
	Scroll     int      `env:"STORYBOARD_SCROLL"      envDefault:"0"`
	MaxFrames  int      `env:"STORYBOARD_MAX_FRAMES"  envDefault:"3000"`
	Routes     []string `env:"STORYBOARD_ROUTES"      envDefault:"/,/index,/about" envSeparator:","`
	OutDir     string   `env:"STORYBOARD_OUT"         envDefault:"storyboard"`
	Background string   `env:"STORYBOARD_BACKGROUND"  envDefault:"#0d0d0d"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	routes := strings.Join(cfg.Routes, ",")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Site to drive")
	fs.StringVar(&cfg.Device, "device", cfg.Device, "Device class to request pages as: desktop, tablet or phone")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Viewport width in pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Viewport height in pixels")
	fs.IntVar(&cfg.FPS, "fps", cfg.FPS, "Simulated frame rate")
	fs.IntVar(&cfg.Every, "every", cfg.Every, "Save one frame in this many")
	fs.IntVar(&cfg.Scroll, "scroll", cfg.Scroll, "Wheel impulses sent after landing on a scrolling page")
	fs.StringVar(&routes, "routes", routes, "Comma separated routes to visit, the first is the landing page")
	fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "Directory frames are written to")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Routes = splitList(routes)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.Routes) == 0 {
		return fmt.Errorf("at least one route is required")
	}
	if _, ok := userAgents[device.Class(c.Device)]; !ok {
		return fmt.Errorf("unknown device %q", c.Device)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("viewport %dx%d is empty", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive")
	}
	return nil
}

// Run drives the routes and writes frames plus a manifest.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceStoryboard, func(ctx context.Context) error {
		manifest, err := Record(ctx, cfg, log.Default())
		if err != nil {
			return err
		}
		log.Printf("wrote %d frames over %d scenes to %s", manifest.Frames, len(manifest.Scenes), cfg.OutDir)
		return nil
	})
}

// Manifest describes a recorded storyboard.
type Manifest struct {
	BaseURL string  `yaml:"base_url"`
	Device  string  `yaml:"device"`
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Frames  int     `yaml:"frames"`
	Scenes  []Scene `yaml:"scenes"`
}

// Scene is one visited route and the frames saved while it played.
type Scene struct {
	Route string   `yaml:"route"`
	Slug  string   `yaml:"slug"`
	Title string   `yaml:"title"`
	Theme string   `yaml:"theme"`
	Files []string `yaml:"files"`
}

// Record boots the shell on the first route, visits the rest and saves
// every cfg.Every-th frame. The manifest is written to manifest.yaml in the
// output directory.
func Record(ctx context.Context, cfg Config, logger *log.Logger) (Manifest, error) {
	if err := cfg.validate(); err != nil {
		return Manifest{}, err
	}
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("create output dir: %w", err)
	}
	ua := userAgents[device.Class(cfg.Device)]
	client, err := shell.NewHTTPClient(cfg.BaseURL, shell.WithUserAgent(ua))
	if err != nil {
		return Manifest{}, err
	}
	strip := newFilmstrip(raster.New(raster.WithBackground(cfg.Background)), cfg.OutDir, cfg.Every)
	defer strip.Close()

	app, err := shell.Boot(ctx, client, cfg.Routes[0], shell.Config{
		Profile:    device.Detect(ua),
		Screen:     scene.Dimensions{Width: float32(cfg.Width), Height: float32(cfg.Height)},
		PixelRatio: float32(cfg.PixelRatio),
		Renderer:   strip,
		Logger:     logger,
	})
	if err != nil {
		return Manifest{}, fmt.Errorf("boot %s: %w", cfg.Routes[0], err)
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.Start(runCtx)
	app.Continue()

	dt := time.Second / time.Duration(cfg.FPS)
	manifest := Manifest{BaseURL: cfg.BaseURL, Device: cfg.Device, Width: cfg.Width, Height: cfg.Height}
	for i, route := range cfg.Routes {
		strip.begin()
		if i > 0 {
			app.Navigate(route)
		}
		if _, err := app.Settle(runCtx, dt, cfg.MaxFrames); err != nil {
			return manifest, fmt.Errorf("play %s: %w", route, err)
		}
		if cfg.Scroll > 0 && (app.Slug() == "home" || app.Slug() == "index") {
			for n := 0; n < cfg.Scroll; n++ {
				app.Wheel(120)
				if err := app.Step(dt); err != nil {
					return manifest, fmt.Errorf("scroll %s: %w", route, err)
				}
			}
			if _, err := app.Settle(runCtx, dt, cfg.MaxFrames); err != nil {
				return manifest, fmt.Errorf("scroll %s: %w", route, err)
			}
		}
		if err := strip.Err(); err != nil {
			return manifest, err
		}
		manifest.Scenes = append(manifest.Scenes, Scene{
			Route: route,
			Slug:  app.Slug(),
			Title: app.Title(),
			Theme: string(app.Theme()),
			Files: strip.files(),
		})
	}
	manifest.Frames = strip.saved
	if err := writeManifest(filepath.Join(cfg.OutDir, "manifest.yaml"), manifest); err != nil {
		return manifest, err
	}
	return manifest, nil
}

func writeManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
