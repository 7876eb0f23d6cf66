package shell

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/louisbranch/showcase/internal/content"
	apperrors "github.com/louisbranch/showcase/internal/platform/errors"
)

// Document is what the shell reads from a fetched page.
type Document struct {
	Slug  string
	Index int
	Title string
	Data  content.AppData
	// Highlights counts the case highlight figures.
	Highlights int
}

// ParseDocument reads the .content binding, the title and the app data of a
// page. A page without a .content element carrying data-slug is a
// CodeBindingMissing error.
func ParseDocument(r io.Reader) (Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return Document{}, apperrors.Wrap(apperrors.CodeBindingMissing, "parse page", err)
	}
	doc := Document{Index: -1}

	binding := find(root, func(n *html.Node) bool {
		_, ok := attr(n, "data-slug")
		return hasClass(n, "content") && ok
	})
	if binding == nil {
		return Document{}, apperrors.New(apperrors.CodeBindingMissing, "page has no .content element")
	}
	doc.Slug, _ = attr(binding, "data-slug")
	if raw, ok := attr(binding, "data-index"); ok {
		if index, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			doc.Index = index
		}
	}
	walk(binding, func(n *html.Node) {
		if hasClass(n, "case__highlight") {
			doc.Highlights++
		}
	})

	if title := find(root, isElement("title")); title != nil {
		doc.Title = strings.TrimSpace(text(title))
	}
	script := find(root, func(n *html.Node) bool {
		id, _ := attr(n, "id")
		return isElement("script")(n) && id == content.AppDataID
	})
	if script != nil {
		if err := json.Unmarshal([]byte(text(script)), &doc.Data); err != nil {
			return Document{}, apperrors.Wrap(apperrors.CodeContentMalformed, "decode app data", err)
		}
	}
	return doc, nil
}

func isElement(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

func attr(n *html.Node, key string) (string, bool) {
	if n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	value, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(value) {
		if c == class {
			return true
		}
	}
	return false
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func text(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}
