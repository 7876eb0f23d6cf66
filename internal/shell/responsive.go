package shell

import (
	"github.com/louisbranch/showcase/internal/canvas/scene"
)

// Design sizes the root font size scales against.
const (
	phoneDesignWidth   = 414
	phoneDesignHeight  = 736
	desktopDesignWidth = 1600
	desktopBreakpoint  = 768
	fontSizeMultiplier = 10
)

// RootFontSize is the rem size for a viewport: 10 at the design width. Phones
// held in landscape fit the portrait design into the short side instead.
func RootFontSize(screen scene.Dimensions, phone bool) float32 {
	if screen.Width <= 0 || screen.Height <= 0 {
		return fontSizeMultiplier
	}
	if phone && screen.Width > screen.Height {
		return fontSizeMultiplier * min(screen.Width/phoneDesignHeight, screen.Height/phoneDesignWidth)
	}
	width := float32(phoneDesignWidth)
	if screen.Width >= desktopBreakpoint {
		width = desktopDesignWidth
	}
	return fontSizeMultiplier * screen.Width / width
}
