package shell

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/showcase/internal/canvas/scene"
	"github.com/louisbranch/showcase/internal/content"
)

// preloadConcurrency bounds the projects loading at once.
const preloadConcurrency = 4

// TextureKind names the slot a preloaded texture fills.
type TextureKind int

const (
	TextureCover TextureKind = iota + 1
	TextureFill
	TextureStroke
)

func (k TextureKind) String() string {
	switch k {
	case TextureCover:
		return "cover"
	case TextureFill:
		return "fill"
	case TextureStroke:
		return "stroke"
	default:
		return "unknown"
	}
}

// preloadEvent is one loaded texture, or the end of preloading when done is
// set.
type preloadEvent struct {
	kind TextureKind
	tex  *scene.Texture
	done bool
}

// preload loads every project's cover, fill and stroke in that order and
// emits each texture as it decodes. Projects load concurrently. A failed
// texture is logged and skipped; the project's chain carries on.
func preload(ctx context.Context, loader TextureLoader, projects []content.ProjectTextures, logger *log.Logger, emit func(preloadEvent) bool) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadConcurrency)
	for index, project := range projects {
		g.Go(func() error {
			chain := []struct {
				kind TextureKind
				url  string
			}{
				{TextureCover, project.Cover},
				{TextureFill, project.Fill},
				{TextureStroke, project.Stroke},
			}
			for _, item := range chain {
				if err := ctx.Err(); err != nil {
					return err
				}
				if item.url == "" {
					logger.Printf("shell: project %q has no %s", project.UID, item.kind)
					continue
				}
				img, err := loader.Load(ctx, item.url)
				if err != nil {
					logger.Printf("shell: preload %s %s: %v", item.kind, item.url, err)
					continue
				}
				if !emit(preloadEvent{kind: item.kind, tex: scene.NewTexture(project.UID, index, item.url, img)}) {
					return context.Canceled
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return
	}
	emit(preloadEvent{done: true})
}
