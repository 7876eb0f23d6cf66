package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/louisbranch/showcase/internal/canvas/scene"
)

type fixture struct {
	scene  *scene.Scene
	camera *scene.Camera
	sizes  *scene.Sizes
	device *scene.Device
}

func newFixture() *fixture {
	f := &fixture{
		scene:  scene.NewScene(),
		camera: scene.NewCamera(2),
		sizes:  &scene.Sizes{},
		device: scene.NewDevice(),
	}
	f.sizes.Update(scene.Dimensions{Width: 200, Height: 100}, 1, 10, f.camera)
	return f
}

// fullscreen adds a plane covering the whole viewport at z = 0.
func (f *fixture) fullscreen(shader scene.Shader, tex *scene.Texture) *scene.Material {
	env := f.sizes.Environment
	mat := f.device.NewMaterial(shader)
	mat.SetImage(tex)
	mesh := &scene.Mesh{Geometry: f.device.NewPlane(env.Width, env.Height, 1, 1), Material: mat}
	f.scene.Add(scene.NewMeshNode("plane", mesh))
	return mat
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func channel(img image.Image, x, y int) (r, g, b uint32) {
	r, g, b, _ = img.At(x, y).RGBA()
	return r >> 8, g >> 8, b >> 8
}

func TestRenderDrawsCoverOverBackground(t *testing.T) {
	t.Parallel()

	f := newFixture()
	tex := scene.NewTexture("alpha", 0, "alpha.png", solid(40, 40, color.NRGBA{R: 255, A: 255}))
	mat := f.fullscreen(scene.ShaderImage, tex)
	mat.Uniforms.Alpha = 1

	r := New(WithBackground("#000000"))
	if err := r.Render(f.scene, f.camera, f.sizes); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if r.Draws() != 1 {
		t.Fatalf("draws = %d, want 1", r.Draws())
	}
	red, green, _ := channel(r.Image(), 100, 50)
	if red < 200 || green > 40 {
		t.Fatalf("center pixel = (%d, %d), want red", red, green)
	}
	if r.Frames() != 1 {
		t.Fatalf("frames = %d, want 1", r.Frames())
	}
}

func TestRenderSkipsHiddenTitles(t *testing.T) {
	t.Parallel()

	f := newFixture()
	tex := scene.NewTexture("alpha", 0, "alpha.png", solid(10, 10, color.White))
	mat := f.fullscreen(scene.ShaderTitle, tex)
	mat.Stroke = tex
	mat.Uniforms.Alpha = 1

	r := New()
	if err := r.Render(f.scene, f.camera, f.sizes); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if r.Draws() != 0 {
		t.Fatalf("draws = %d, want 0 for a hidden title", r.Draws())
	}

	mat.Uniforms.Alpha = 0
	mat.Uniforms.Transition = 1
	if err := r.Render(f.scene, f.camera, f.sizes); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if r.Draws() != 1 {
		t.Fatalf("draws = %d, want fill only", r.Draws())
	}
}

func TestRenderFillsMissingCover(t *testing.T) {
	t.Parallel()

	f := newFixture()
	mat := f.fullscreen(scene.ShaderImage, nil)
	mat.Uniforms.Alpha = 1

	r := New(WithBackground("#000000"), WithPlaceholder("#00ff00"))
	if err := r.Render(f.scene, f.camera, f.sizes); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	_, green, _ := channel(r.Image(), 100, 50)
	if green < 200 {
		t.Fatalf("center green = %d, want placeholder", green)
	}
}

func TestRenderSkipsDestroyedMeshes(t *testing.T) {
	t.Parallel()

	f := newFixture()
	mat := f.fullscreen(scene.ShaderImage, nil)
	mat.Uniforms.Alpha = 1
	for _, n := range f.scene.Meshes() {
		n.Mesh.Destroy()
	}

	r := New()
	if err := r.Render(f.scene, f.camera, f.sizes); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if r.Draws() != 0 {
		t.Fatalf("draws = %d, want 0", r.Draws())
	}
}

func TestRenderRejectsEmptyViewport(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.sizes.Screen = scene.Dimensions{}
	if err := New().Render(f.scene, f.camera, f.sizes); err == nil {
		t.Fatal("expected error for empty viewport")
	}
}

func TestEncodePNG(t *testing.T) {
	t.Parallel()

	r := New()
	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err == nil {
		t.Fatal("expected error before first frame")
	}

	f := newFixture()
	if err := r.Render(f.scene, f.camera, f.sizes); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(200, 100) {
		t.Fatalf("size = %v, want 200x100", got)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if r.Image() != nil {
		t.Fatal("image after close should be nil")
	}
}

func TestCover(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		w, h         int
		aspect, zoom float64
		want         image.Rectangle
	}{
		{name: "wide source", w: 400, h: 100, aspect: 2, want: image.Rect(100, 0, 300, 100)},
		{name: "tall source", w: 100, h: 400, aspect: 1, want: image.Rect(0, 150, 100, 250)},
		{name: "zoomed", w: 100, h: 100, aspect: 1, zoom: 1, want: image.Rect(25, 25, 75, 75)},
		{name: "degenerate", w: 10, h: 10, aspect: 0, want: image.Rect(0, 0, 10, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := cover(tt.w, tt.h, tt.aspect, tt.zoom); got != tt.want {
				t.Fatalf("cover() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGrayscaleKeepsAlpha(t *testing.T) {
	t.Parallel()

	img := grayscale(solid(2, 2, color.NRGBA{R: 255, A: 128}))
	r, g, b, _ := img.At(0, 0).RGBA()
	if r != g || g != b {
		t.Fatalf("pixel = (%d, %d, %d), want gray", r, g, b)
	}
	if got := img.(*image.NRGBA).NRGBAAt(0, 0).A; got != 128 {
		t.Fatalf("alpha = %d, want 128", got)
	}
}
