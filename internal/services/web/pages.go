package web

import (
	"github.com/a-h/templ"

	"github.com/louisbranch/showcase/internal/content"
)

// Page slugs written to data-slug.
const (
	SlugHome   = "home"
	SlugIndex  = "index"
	SlugAbout  = "about"
	SlugEssays = "essays"
	SlugCase   = "case"
)

// Page is one rendered route.
type Page struct {
	Slug        string
	Index       int
	Title       string
	Description string
	Site        content.Site
	Body        templ.Component
}

// documentClass is the class list of the html element.
func documentClass(site content.Site) string {
	class := string(site.Device.Class)
	if site.Device.MixBlendModeUnsupported {
		class += " mix-blend-mode-unsupported"
	}
	if !site.Device.Supported() {
		class += " unsupported-browser"
	}
	return class
}

func unsupportedClass(supported bool) string {
	if supported {
		return "unsupported unsupported--disabled"
	}
	return "unsupported"
}

// pageData is the payload of the app data script.
func pageData(site content.Site) content.AppData {
	return content.AppData{
		Device:    site.Device.Class,
		Supported: site.Device.Supported(),
		Analytics: site.Analytics,
		Lang:      site.Lang,
		Projects:  content.Textures(site.Projects, site.Device.Class),
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
