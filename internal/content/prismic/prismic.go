// Package prismic queries a Prismic repository over its REST API.
package prismic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/showcase/internal/content"
	apperrors "github.com/louisbranch/showcase/internal/platform/errors"
	"github.com/louisbranch/showcase/internal/platform/otel"
	"github.com/louisbranch/showcase/internal/platform/timeouts"
)

// DefaultPageSize matches the single page every route reads.
const DefaultPageSize = 100

// Snapshots stores the last good response body per locale.
type Snapshots interface {
	Save(ctx context.Context, lang string, body []byte) error
	Load(ctx context.Context, lang string) ([]byte, time.Time, error)
}

// Config configures a Client.
type Config struct {
	// Endpoint is the API root, e.g. https://repo.cdn.prismic.io/api/v2.
	Endpoint    string
	AccessToken string
	PageSize    int
	HTTPClient  *http.Client
	Snapshots   Snapshots
	Logger      *log.Logger
}

// Client implements content.Provider.
type Client struct {
	endpoint  string
	token     string
	pageSize  int
	http      *http.Client
	snapshots Snapshots
	logger    *log.Logger
}

// New validates cfg and returns a client.
func New(cfg Config) (*Client, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "prismic endpoint is required")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "parse prismic endpoint", err)
	}
	c := &Client{
		endpoint:  endpoint,
		token:     cfg.AccessToken,
		pageSize:  cfg.PageSize,
		http:      cfg.HTTPClient,
		snapshots: cfg.Snapshots,
		logger:    cfg.Logger,
	}
	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: timeouts.ContentQuery}
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c, nil
}

type apiRef struct {
	ID          string `json:"id"`
	Ref         string `json:"ref"`
	Label       string `json:"label"`
	IsMasterRef bool   `json:"isMasterRef"`
}

type apiResponse struct {
	Refs []apiRef `json:"refs"`
}

// Ref returns the repository's master ref.
func (c *Client) Ref(ctx context.Context) (string, error) {
	ctx, span := otel.Tracer().Start(ctx, "prismic.ref")
	defer span.End()

	body, err := c.get(ctx, c.endpoint, nil)
	if err != nil {
		return "", fail(span, err)
	}
	var api apiResponse
	if err := json.Unmarshal(body, &api); err != nil {
		return "", fail(span, apperrors.Wrap(apperrors.CodeContentMalformed, "decode api response", err))
	}
	for _, ref := range api.Refs {
		if ref.IsMasterRef {
			return ref.Ref, nil
		}
	}
	return "", fail(span, apperrors.New(apperrors.CodeContentMalformed, "no master ref"))
}

// Query fetches every document for lang. On failure it serves the last
// snapshot for lang when one exists.
func (c *Client) Query(ctx context.Context, lang string) (*content.Results, error) {
	ctx, span := otel.Tracer().Start(ctx, "prismic.query", trace.WithAttributes(
		attribute.String("cms.lang", lang),
		attribute.Int("cms.page_size", c.pageSize),
	))
	defer span.End()

	results, body, err := c.search(ctx, lang)
	if err == nil {
		span.SetAttributes(attribute.Int("cms.results", results.Len()))
		if c.snapshots != nil {
			if err := c.snapshots.Save(ctx, lang, body); err != nil {
				c.logger.Printf("prismic: save snapshot lang=%s: %v", lang, err)
			}
		}
		return results, nil
	}

	fallback, fetchedAt, snapErr := c.fromSnapshot(ctx, lang)
	if snapErr != nil {
		return nil, fail(span, apperrors.Wrap(apperrors.CodeContentUnavailable, "query cms", err))
	}
	c.logger.Printf("prismic: serving snapshot lang=%s fetched_at=%s after error: %v", lang, fetchedAt.Format(time.RFC3339), err)
	span.SetAttributes(attribute.Bool("cms.snapshot", true))
	return fallback, nil
}

func (c *Client) search(ctx context.Context, lang string) (*content.Results, []byte, error) {
	ref, err := c.Ref(ctx)
	if err != nil {
		return nil, nil, err
	}
	query := url.Values{}
	query.Set("ref", ref)
	query.Set("pageSize", strconv.Itoa(c.pageSize))
	if lang != "" {
		query.Set("lang", lang)
	}
	body, err := c.get(ctx, c.endpoint+"/documents/search", query)
	if err != nil {
		return nil, nil, err
	}
	results, err := content.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	return results, body, nil
}

func (c *Client) fromSnapshot(ctx context.Context, lang string) (*content.Results, time.Time, error) {
	if c.snapshots == nil {
		return nil, time.Time{}, apperrors.New(apperrors.CodeSnapshotEmpty, "no snapshot store")
	}
	body, at, err := c.snapshots.Load(ctx, lang)
	if err != nil {
		return nil, time.Time{}, err
	}
	results, err := content.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, time.Time{}, err
	}
	return results, at, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	if c.token != "" {
		query.Set("access_token", c.token)
	}
	target := endpoint
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d", endpoint, resp.StatusCode)
	}
	return body, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
