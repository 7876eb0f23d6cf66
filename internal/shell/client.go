package shell

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	_ "golang.org/x/image/webp"

	apperrors "github.com/louisbranch/showcase/internal/platform/errors"
	"github.com/louisbranch/showcase/internal/platform/otel"
	"github.com/louisbranch/showcase/internal/platform/timeouts"
)

// Fetcher loads the HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// TextureLoader loads and decodes an image.
type TextureLoader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// HTTPClient fetches pages and textures from a running site. It implements
// Fetcher and TextureLoader.
type HTTPClient struct {
	base      *url.URL
	pages     *http.Client
	textures  *http.Client
	userAgent string
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithUserAgent sets the User-Agent the server detects the device from.
func WithUserAgent(ua string) ClientOption {
	return func(c *HTTPClient) { c.userAgent = ua }
}

// WithTransport replaces the transport of both page and texture requests.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *HTTPClient) {
		c.pages.Transport = rt
		c.textures.Transport = rt
	}
}

// NewHTTPClient resolves every reference against base.
func NewHTTPClient(base string, opts ...ClientOption) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "parse base url", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, fmt.Sprintf("base url %q must be absolute", base))
	}
	c := &HTTPClient{
		base:     u,
		pages:    &http.Client{Timeout: timeouts.PageFetch},
		textures: &http.Client{Timeout: timeouts.TextureFetch},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Resolve returns ref as an absolute URL on the site.
func (c *HTTPClient) Resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "parse reference", err)
	}
	return c.base.ResolveReference(u).String(), nil
}

// Fetch GETs a page as HTML. Any status but 200 is a CodePageFetch error.
func (c *HTTPClient) Fetch(ctx context.Context, ref string) ([]byte, error) {
	ctx, span := otel.Tracer().Start(ctx, "shell.fetch", trace.WithAttributes(attribute.String("url.path", ref)))
	defer span.End()

	body, err := c.get(ctx, c.pages, ref, "text/html")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return body, nil
}

// Load GETs and decodes an image. PNG, JPEG and WebP are understood.
func (c *HTTPClient) Load(ctx context.Context, ref string) (image.Image, error) {
	ctx, span := otel.Tracer().Start(ctx, "shell.texture", trace.WithAttributes(attribute.String("url.full", ref)))
	defer span.End()

	body, err := c.get(ctx, c.textures, ref, "image/*")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		err = apperrors.Wrap(apperrors.CodeContentMalformed, "decode texture "+ref, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return img, nil
}

func (c *HTTPClient) get(ctx context.Context, client *http.Client, ref, accept string) ([]byte, error) {
	target, err := c.Resolve(ref)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePageFetch, "build request", err)
	}
	req.Header.Set("Accept", accept)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePageFetch, "get "+ref, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(apperrors.CodePageFetch, fmt.Sprintf("get %s: status %d", ref, resp.StatusCode))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePageFetch, "read "+ref, err)
	}
	return body, nil
}
