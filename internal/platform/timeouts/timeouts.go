// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// ContentQuery caps a single CMS round trip.
const ContentQuery = 10 * time.Second

// PageFetch caps the shell's fetch of a rendered page.
const PageFetch = 10 * time.Second

// TextureFetch caps the download and decode of one texture.
const TextureFetch = 15 * time.Second
