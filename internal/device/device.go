// Package device classifies browsers from their user agent.
package device

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/mileusna/useragent"
)

// Class is the layout class a page is rendered for.
type Class string

const (
	ClassPhone   Class = "phone"
	ClassTablet  Class = "tablet"
	ClassDesktop Class = "desktop"
)

// Requirement is a minimum browser version for desktop visitors.
type Requirement struct {
	Browser    string
	MinVersion string
}

// DesktopRequirements lists the desktop browsers the canvas supports.
var DesktopRequirements = []Requirement{
	{Browser: useragent.Chrome, MinVersion: "70"},
	{Browser: useragent.Firefox, MinVersion: "60"},
	{Browser: useragent.Safari, MinVersion: "11"},
	{Browser: useragent.Edge, MinVersion: "16"},
	{Browser: useragent.Opera, MinVersion: "58"},
}

// Profile is what the server and shell know about the visitor's browser.
type Profile struct {
	Class   Class
	Browser string
	Version string

	Phone   bool
	Tablet  bool
	Desktop bool
	Mobile  bool

	Edge    bool
	Firefox bool
	IE      bool
	Safari  bool

	// MixBlendModeUnsupported is set for engines without CSS mix-blend-mode.
	MixBlendModeUnsupported bool
	// AppBrowser is set for in-app browsers (Facebook, Twitter).
	AppBrowser bool
}

// Detect parses a User-Agent header.
func Detect(userAgent string) Profile {
	ua := useragent.Parse(userAgent)
	p := Profile{
		Browser: ua.Name,
		Version: ua.Version,
		Phone:   ua.Mobile,
		Tablet:  ua.Tablet,
	}
	switch {
	case p.Phone:
		p.Class = ClassPhone
	case p.Tablet:
		p.Class = ClassTablet
	default:
		p.Class = ClassDesktop
	}
	p.Mobile = p.Phone || p.Tablet
	p.Desktop = !p.Mobile

	p.Edge = ua.Name == useragent.Edge && !p.Mobile
	p.Firefox = ua.Name == useragent.Firefox && !p.Mobile
	ie := isIE(ua.Name, userAgent)
	p.IE = ie && !p.Mobile && !strings.Contains(userAgent, "Maxthon")
	p.Safari = strings.Contains(ua.Name, useragent.Safari) && !p.Mobile
	p.AppBrowser = strings.Contains(userAgent, "FBAN") || strings.Contains(userAgent, "FBAV") || strings.Contains(userAgent, "Twitter")
	p.MixBlendModeUnsupported = ie || (ua.Name == useragent.Edge && majorBelow(ua.Version, 79))
	return p
}

// Supported reports whether the canvas experience can run. In-app and mobile
// browsers always pass; desktop browsers must meet DesktopRequirements.
func (p Profile) Supported() bool {
	if p.AppBrowser || p.Mobile {
		return true
	}
	for _, req := range DesktopRequirements {
		if req.Browser == p.Browser && AtLeast(p.Version, req.MinVersion) {
			return true
		}
	}
	return false
}

// AtLeast reports whether version satisfies >= min. Versions with more than
// three components are truncated; unparsable versions never satisfy.
func AtLeast(version, min string) bool {
	c, err := semver.NewConstraint(">= " + min)
	if err != nil {
		return false
	}
	v, err := semver.NewVersion(truncate(version))
	if err != nil {
		return false
	}
	return c.Check(v)
}

// isIE matches IE up to 10 by name and IE11, which the parser reports by its
// Trident engine token.
func isIE(name, userAgent string) bool {
	return name == useragent.InternetExplorer || name == "Trident" || strings.Contains(userAgent, "Trident/")
}

func majorBelow(version string, major uint64) bool {
	v, err := semver.NewVersion(truncate(version))
	if err != nil {
		return false
	}
	return v.Major() < major
}

func truncate(version string) string {
	parts := strings.SplitN(strings.TrimSpace(version), ".", 4)
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, ".")
}
