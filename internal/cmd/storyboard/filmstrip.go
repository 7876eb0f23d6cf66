package storyboard

import (
	"fmt"
	"path/filepath"

	"github.com/louisbranch/showcase/internal/canvas/raster"
	"github.com/louisbranch/showcase/internal/canvas/scene"
)

// filmstrip renders every frame and saves one in every few to disk.
type filmstrip struct {
	renderer *raster.Renderer
	dir      string
	every    int

	frame   int
	saved   int
	current []string
	err     error
}

func newFilmstrip(r *raster.Renderer, dir string, every int) *filmstrip {
	if every <= 0 {
		every = 1
	}
	return &filmstrip{renderer: r, dir: dir, every: every}
}

// Render draws the frame and saves it when it falls on the sampling step.
// Save failures are kept for Err so the frame loop keeps running.
func (f *filmstrip) Render(s *scene.Scene, cam *scene.Camera, sizes *scene.Sizes) error {
	if err := f.renderer.Render(s, cam, sizes); err != nil {
		return err
	}
	f.frame++
	if f.err != nil || f.frame%f.every != 0 {
		return nil
	}
	name := fmt.Sprintf("frame-%05d.png", f.frame)
	if err := f.renderer.SavePNG(filepath.Join(f.dir, name)); err != nil {
		f.err = fmt.Errorf("save %s: %w", name, err)
		return nil
	}
	f.saved++
	f.current = append(f.current, name)
	return nil
}

func (f *filmstrip) begin() { f.current = nil }

func (f *filmstrip) files() []string { return append([]string(nil), f.current...) }

// Err is the first save failure.
func (f *filmstrip) Err() error { return f.err }

func (f *filmstrip) Close() error { return f.renderer.Close() }
