// Package raster draws canvas frames in software with gogpu/gg.
//
// The renderer approximates the WebGL programs: covers are cropped to fill
// their plane and zoomed by the scale uniform, titles crossfade between
// their stroke and fill textures, and the preloader blends from grayscale
// to color. Vertex distortion is not reproduced.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"cogentcore.org/core/math32"
	"github.com/gogpu/gg"

	"github.com/louisbranch/showcase/internal/canvas/scene"
)

// DefaultBackground is the clear color of the dark theme.
const DefaultBackground = "#0d0d0d"

// Option configures a Renderer.
type Option func(*Renderer)

// WithBackground sets the clear color as a hex string.
func WithBackground(hex string) Option {
	return func(r *Renderer) { r.background = gg.Hex(hex) }
}

// WithPlaceholder sets the color drawn for planes whose texture is missing.
func WithPlaceholder(hex string) Option {
	return func(r *Renderer) { r.placeholder = gg.Hex(hex) }
}

// Renderer draws the scene into an in-memory pixmap. The zero value is not
// usable; call New.
type Renderer struct {
	background  gg.RGBA
	placeholder gg.RGBA

	dc     *gg.Context
	frames int
	draws  int

	buffers map[*scene.Texture]*gg.ImageBuf
	grays   map[*scene.Texture]*gg.ImageBuf
}

// New returns a renderer with the dark theme colors.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		background:  gg.Hex(DefaultBackground),
		placeholder: gg.Hex("#262626"),
		buffers:     make(map[*scene.Texture]*gg.ImageBuf),
		grays:       make(map[*scene.Texture]*gg.ImageBuf),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render clears the frame and draws every live mesh in scene order.
func (r *Renderer) Render(s *scene.Scene, cam *scene.Camera, sizes *scene.Sizes) error {
	if s == nil || cam == nil || sizes == nil {
		return fmt.Errorf("raster: render: missing scene, camera or sizes")
	}
	w := int(math32.Round(sizes.Screen.Width))
	h := int(math32.Round(sizes.Screen.Height))
	if w <= 0 || h <= 0 {
		return fmt.Errorf("raster: render: empty viewport %dx%d", w, h)
	}
	if r.dc == nil || r.dc.Width() != w || r.dc.Height() != h {
		if r.dc != nil {
			_ = r.dc.Close()
		}
		r.dc = gg.NewContext(w, h)
	}
	r.dc.ClearWithColor(r.background)
	r.draws = 0

	for _, node := range s.Meshes() {
		mat := node.Mesh.Material
		if mat == nil || mat.Disposed() {
			continue
		}
		center, bw, bh := cam.ScreenBox(node.WorldBounds(), sizes.Screen)
		if bw <= 0 || bh <= 0 {
			continue
		}
		box := rect{
			x: float64(center.X - bw/2),
			y: float64(center.Y - bh/2),
			w: float64(bw),
			h: float64(bh),
		}
		if !box.visible(w, h) {
			continue
		}
		if err := r.draw(mat, box); err != nil {
			return fmt.Errorf("raster: draw %s: %w", node.Name, err)
		}
	}
	r.frames++
	return nil
}

// Frames is the number of frames rendered so far.
func (r *Renderer) Frames() int { return r.frames }

// Draws is the number of draw calls issued by the last frame.
func (r *Renderer) Draws() int { return r.draws }

// Image returns the last rendered frame, or nil before the first one.
func (r *Renderer) Image() image.Image {
	if r.dc == nil {
		return nil
	}
	return r.dc.Image()
}

// EncodePNG writes the last rendered frame as PNG.
func (r *Renderer) EncodePNG(w io.Writer) error {
	if r.dc == nil {
		return fmt.Errorf("raster: encode: no frame rendered")
	}
	return r.dc.EncodePNG(w)
}

// SavePNG writes the last rendered frame to path.
func (r *Renderer) SavePNG(path string) error {
	if r.dc == nil {
		return fmt.Errorf("raster: save: no frame rendered")
	}
	return r.dc.SavePNG(path)
}

// Forget drops the cached pixel buffers for tex.
func (r *Renderer) Forget(tex *scene.Texture) {
	delete(r.buffers, tex)
	delete(r.grays, tex)
}

// Close releases the drawing context.
func (r *Renderer) Close() error {
	if r.dc == nil {
		return nil
	}
	err := r.dc.Close()
	r.dc = nil
	return err
}

type rect struct {
	x, y, w, h float64
}

func (b rect) visible(width, height int) bool {
	return b.x < float64(width) && b.y < float64(height) && b.x+b.w > 0 && b.y+b.h > 0
}

func (r *Renderer) draw(mat *scene.Material, box rect) error {
	u := mat.Uniforms
	switch mat.Shader {
	case scene.ShaderTitle:
		visible := clamp01(1 - u.Alpha)
		blend := gg.BlendNormal
		if mat.Additive {
			blend = gg.BlendScreen
		}
		fill := clamp01(u.Transition)
		r.image(mat.Image, r.buffer(mat.Image), box, 0, visible*fill, blend)
		r.image(mat.Stroke, r.buffer(mat.Stroke), box, 0, visible*(1-fill), blend)
		return nil
	case scene.ShaderPreloader:
		alpha := clamp01(u.Alpha)
		mix := clamp01(u.Grayscale)
		box.y += float64(u.DisplacementY) * box.h
		box.x += float64(u.DisplacementX) * box.w
		if mat.Image == nil {
			return r.flat(box, alpha)
		}
		r.image(mat.Image, r.gray(mat.Image), box, 0, alpha*(1-mix), gg.BlendNormal)
		r.image(mat.Image, r.buffer(mat.Image), box, 0, alpha*mix, gg.BlendNormal)
		return nil
	default:
		alpha := clamp01(u.Alpha)
		box.y += float64(u.DisplacementY) * box.h
		if mat.Image == nil {
			return r.flat(box, alpha)
		}
		r.image(mat.Image, r.buffer(mat.Image), box, u.Scale, alpha, gg.BlendNormal)
		return nil
	}
}

func (r *Renderer) flat(box rect, alpha float64) error {
	if alpha <= 0 {
		return nil
	}
	c := r.placeholder
	r.dc.SetRGBA(c.R, c.G, c.B, c.A*alpha)
	r.dc.DrawRectangle(box.x, box.y, box.w, box.h)
	r.draws++
	return r.dc.Fill()
}

// image draws buf cropped to cover box. gg treats a zero opacity as opaque,
// so fully transparent draws are skipped here.
func (r *Renderer) image(tex *scene.Texture, buf *gg.ImageBuf, box rect, zoom float32, opacity float64, blend gg.BlendMode) {
	if tex == nil || buf == nil || opacity <= 0 {
		return
	}
	src := cover(tex.Width, tex.Height, box.w/box.h, float64(zoom))
	r.dc.DrawImageEx(buf, gg.DrawImageOptions{
		X:         box.x,
		Y:         box.y,
		DstWidth:  box.w,
		DstHeight: box.h,
		SrcRect:   &src,
		Opacity:   opacity,
		BlendMode: blend,
	})
	r.draws++
}

func (r *Renderer) buffer(tex *scene.Texture) *gg.ImageBuf {
	if tex == nil || tex.Image == nil {
		return nil
	}
	if buf, ok := r.buffers[tex]; ok {
		return buf
	}
	buf := gg.ImageBufFromImage(tex.Image)
	r.buffers[tex] = buf
	return buf
}

func (r *Renderer) gray(tex *scene.Texture) *gg.ImageBuf {
	if tex == nil || tex.Image == nil {
		return nil
	}
	if buf, ok := r.grays[tex]; ok {
		return buf
	}
	buf := gg.ImageBufFromImage(grayscale(tex.Image))
	r.grays[tex] = buf
	return buf
}

// cover returns the centered source rectangle of a w×h image that fills a
// destination with the given aspect ratio, shrunk further by zoom.
func cover(w, h int, aspect, zoom float64) image.Rectangle {
	if w <= 0 || h <= 0 || aspect <= 0 {
		return image.Rect(0, 0, w, h)
	}
	cw, ch := float64(w), float64(h)
	if cw/ch > aspect {
		cw = ch * aspect
	} else {
		ch = cw / aspect
	}
	if zoom > 0 {
		cw /= 1 + zoom
		ch /= 1 + zoom
	}
	x0 := (float64(w) - cw) / 2
	y0 := (float64(h) - ch) / 2
	src := image.Rect(int(x0), int(y0), int(x0+cw), int(y0+ch))
	if src.Dx() < 1 || src.Dy() < 1 {
		return image.Rect(0, 0, w, h)
	}
	return src
}

func grayscale(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(src.At(x, y)).(color.Gray)
			_, _, _, a := src.At(x, y).RGBA()
			dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, color.NRGBA{R: g.Y, G: g.Y, B: g.Y, A: uint8(a >> 8)})
		}
	}
	return dst
}

func clamp01(v float32) float64 {
	return float64(math32.Clamp(v, 0, 1))
}
