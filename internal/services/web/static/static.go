// Package static embeds the browser assets served under /static/.
package static

import "embed"

// FS exposes web static assets for HTTP serving.
//
//go:embed *.css *.js fixtures/*.png
var FS embed.FS
