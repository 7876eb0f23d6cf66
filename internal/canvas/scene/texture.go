package scene

import "image"

// Texture is a decoded image bound to a project.
type Texture struct {
	UID    string
	Index  int
	URL    string
	Width  int
	Height int
	Image  image.Image
}

// NewTexture builds a texture from a decoded image. img may be nil when only
// the dimensions are known.
func NewTexture(uid string, index int, url string, img image.Image) *Texture {
	tex := &Texture{UID: uid, Index: index, URL: url, Image: img}
	if img != nil {
		bounds := img.Bounds()
		tex.Width = bounds.Dx()
		tex.Height = bounds.Dy()
	}
	return tex
}
