package content

import (
	"context"

	"github.com/louisbranch/showcase/internal/device"
)

// Provider fetches every document for a locale.
type Provider interface {
	Query(ctx context.Context, lang string) (*Results, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, lang string) (*Results, error)

// Query calls f.
func (f ProviderFunc) Query(ctx context.Context, lang string) (*Results, error) {
	return f(ctx, lang)
}

// Site is the bundle every page render needs.
type Site struct {
	Analytics   string
	Lang        string
	Functionals Record
	Meta        Record
	Navigation  Record
	Sharing     Record
	Social      Record
	Projects    []Record
	Device      device.Profile
}

// NewSite gathers the shared documents from results.
func NewSite(results *Results, analytics, lang string, profile device.Profile) Site {
	s := Site{
		Analytics: analytics,
		Lang:      lang,
		Projects:  results.Projects(),
		Device:    profile,
	}
	s.Functionals, _ = results.Find(TypeFunctionals)
	s.Meta, _ = results.Find(TypeMeta)
	s.Navigation, _ = results.Find(TypeNavigation)
	s.Sharing, _ = results.Find(TypeSharing)
	s.Social, _ = results.Find(TypeSocial)
	return s
}

// ProjectTextures are the image URLs the canvas preloads for one project.
type ProjectTextures struct {
	UID    string `json:"uid"`
	Cover  string `json:"cover"`
	Fill   string `json:"fill"`
	Stroke string `json:"stroke"`
}

// Textures picks the cover sized for class and the title fill and stroke for
// every project.
func Textures(projects []Record, class device.Class) []ProjectTextures {
	key := "desktop"
	switch class {
	case device.ClassPhone:
		key = "phone"
	case device.ClassTablet:
		key = "tablet"
	}
	out := make([]ProjectTextures, 0, len(projects))
	for _, p := range projects {
		out = append(out, ProjectTextures{
			UID:    p.UID,
			Cover:  p.Image(key).URL,
			Fill:   p.Image("fill").URL,
			Stroke: p.Image("stroke").URL,
		})
	}
	return out
}

// AppDataID is the id of the JSON script element carrying AppData.
const AppDataID = "app-data"

// AppData is what a rendered page hands to the client application.
type AppData struct {
	Device    device.Class      `json:"device"`
	Supported bool              `json:"supported"`
	Analytics string            `json:"analytics,omitempty"`
	Lang      string            `json:"lang"`
	Projects  []ProjectTextures `json:"projects"`
}
