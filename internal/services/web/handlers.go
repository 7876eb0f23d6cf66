package web

import (
	"bytes"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/showcase/internal/content"
	"github.com/louisbranch/showcase/internal/device"
	apperrors "github.com/louisbranch/showcase/internal/platform/errors"
	"github.com/louisbranch/showcase/internal/platform/httpx"
	"github.com/louisbranch/showcase/internal/platform/requestctx"
)

type handlers struct {
	provider  content.Provider
	locales   *content.Locales
	analytics string
	logger    *log.Logger
}

// request is the shared state of one page render.
type request struct {
	results *content.Results
	site    content.Site
}

// load resolves the locale, queries content and builds the site bundle.
// It writes the error response itself and reports false on failure.
func (h *handlers) load(w http.ResponseWriter, r *http.Request) (request, bool) {
	lang := h.lang(r)
	results, err := h.provider.Query(httpx.RequestContext(r), lang)
	if err != nil {
		h.logger.Printf("web: query content lang=%s path=%s request_id=%s: %v",
			lang, r.URL.Path, requestctx.RequestIDFromContext(r.Context()), err)
		httpx.WriteError(w, err)
		return request{}, false
	}
	profile := device.Detect(r.UserAgent())
	return request{
		results: results,
		site:    content.NewSite(results, h.analytics, lang, profile),
	}, true
}

// lang honours an explicit ?lang= override when it names a configured
// locale, and negotiates Accept-Language otherwise.
func (h *handlers) lang(r *http.Request) string {
	if override := strings.TrimSpace(r.URL.Query().Get("lang")); override != "" {
		if matched := h.locales.Match(override); strings.EqualFold(matched, override) {
			return matched
		}
	}
	return h.locales.Match(r.Header.Get("Accept-Language"))
}

func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	req, ok := h.load(w, r)
	if !ok {
		return
	}
	home, _ := req.results.Find(content.TypeHome)
	h.render(w, r, Page{
		Slug:        SlugHome,
		Index:       -1,
		Title:       title(req.site, home),
		Description: description(req.site, home),
		Site:        req.site,
		Body:        homeBody(home, req.site.Projects),
	})
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	if device.Detect(r.UserAgent()).Phone {
		httpx.WriteRedirect(w, r, "/")
		return
	}
	req, ok := h.load(w, r)
	if !ok {
		return
	}
	index, _ := req.results.Find(content.TypeIndex)
	h.render(w, r, Page{
		Slug:        SlugIndex,
		Index:       -1,
		Title:       title(req.site, index),
		Description: description(req.site, index),
		Site:        req.site,
		Body:        indexBody(index, req.site.Projects),
	})
}

func (h *handlers) about(w http.ResponseWriter, r *http.Request) {
	req, ok := h.load(w, r)
	if !ok {
		return
	}
	about, _ := req.results.Find(content.TypeAbout)
	h.render(w, r, Page{
		Slug:        SlugAbout,
		Index:       -1,
		Title:       title(req.site, about),
		Description: description(req.site, about),
		Site:        req.site,
		Body:        aboutBody(about),
	})
}

func (h *handlers) essays(w http.ResponseWriter, r *http.Request) {
	req, ok := h.load(w, r)
	if !ok {
		return
	}
	about, _ := req.results.Find(content.TypeAbout)
	essays, _ := req.results.Find(content.TypeEssays)
	h.render(w, r, Page{
		Slug:        SlugEssays,
		Index:       -1,
		Title:       title(req.site, essays),
		Description: description(req.site, essays),
		Site:        req.site,
		Body:        essaysBody(about, essays),
	})
}

func (h *handlers) caseStudy(w http.ResponseWriter, r *http.Request) {
	req, ok := h.load(w, r)
	if !ok {
		return
	}
	uid := r.PathValue("uid")
	index := req.results.ProjectIndex(uid)
	if index < 0 {
		h.notFound(w, r)
		return
	}
	project := req.site.Projects[index]
	related, _ := req.results.Related(index)
	cases, _ := req.results.Find(content.TypeCase)
	h.render(w, r, Page{
		Slug:        SlugCase,
		Index:       index,
		Title:       title(req.site, project),
		Description: description(req.site, project),
		Site:        req.site,
		Body:        caseBody(cases, project, related, index),
	})
}

// notFound redirects browsers home, answers JSON clients with an error
// object, and everyone else with plain text.
func (h *handlers) notFound(w http.ResponseWriter, r *http.Request) {
	switch httpx.Accepts(r, "html", "json") {
	case "html":
		httpx.WriteRedirect(w, r, "/")
	case "json":
		_ = httpx.WriteJSONError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	default:
		_ = httpx.WriteText(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	}
}

// render buffers the page so a template failure still yields a clean 500.
func (h *handlers) render(w http.ResponseWriter, r *http.Request, p Page) {
	var buf bytes.Buffer
	if err := Layout(p).Render(httpx.RequestContext(r), &buf); err != nil {
		h.logger.Printf("web: render %s: %v", p.Slug, err)
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeUnknown, "render page", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Printf("web: write %s: %v", p.Slug, err)
	}
}

// title prefers the document's meta title, then its title, then the site
// meta title.
func title(site content.Site, doc content.Record) string {
	for _, v := range []string{doc.Text("meta_title"), doc.Text("title"), site.Meta.Text("title")} {
		if v != "" {
			return v
		}
	}
	return ""
}

func description(site content.Site, doc content.Record) string {
	if v := doc.Text("meta_description"); v != "" {
		return v
	}
	return site.Meta.Text("description")
}
