// Package content models the CMS documents a page render is built from.
package content

import (
	"strings"
)

// Type discriminates CMS documents.
type Type string

const (
	TypeHome        Type = "home"
	TypeAbout       Type = "about"
	TypeCase        Type = "case"
	TypeEssays      Type = "essays"
	TypeIndex       Type = "index"
	TypeProject     Type = "project"
	TypeProjects    Type = "projects"
	TypeNavigation  Type = "navigation"
	TypeMeta        Type = "meta"
	TypeFunctionals Type = "functionals"
	TypeSharing     Type = "sharing"
	TypeSocial      Type = "social"
	TypeOrdering    Type = "ordering"
)

// Record is one CMS document. Records are not modified after decoding.
type Record struct {
	ID   string `json:"id"   yaml:"id"`
	UID  string `json:"uid"  yaml:"uid"`
	Type Type   `json:"type" yaml:"type"`
	Lang string `json:"lang" yaml:"lang"`
	Data Fields `json:"data" yaml:"data"`
}

// Text returns the plain text of a field of the record.
func (r Record) Text(key string) string { return r.Data.Text(key) }

// Image returns an image field of the record.
func (r Record) Image(key string) Image { return r.Data.Image(key) }

// Group returns a repeatable group field of the record.
func (r Record) Group(key string) []Fields { return r.Data.Group(key) }

// Link returns the UID of a linked document.
func (r Record) Link(key string) string { return r.Data.Link(key) }

// Fields is the loosely typed data bag of a document or group item.
type Fields map[string]any

// Image is a CMS image field.
type Image struct {
	URL    string
	Width  int
	Height int
	Alt    string
}

// Text flattens a rich text field (a list of blocks with a text key) or
// returns a plain string field as is. Blocks are joined with a space.
func (f Fields) Text(key string) string {
	switch v := f[key].(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, block := range v {
			if m := asMap(block); m != nil {
				if text, ok := m["text"].(string); ok && text != "" {
					parts = append(parts, text)
				}
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// Image reads an image field. Missing or malformed fields are zero.
func (f Fields) Image(key string) Image {
	m := asMap(f[key])
	if m == nil {
		return Image{}
	}
	img := Image{}
	img.URL, _ = m["url"].(string)
	img.Alt, _ = m["alt"].(string)
	if dims := asMap(m["dimensions"]); dims != nil {
		img.Width = asInt(dims["width"])
		img.Height = asInt(dims["height"])
	}
	return img
}

// Group reads a repeatable group as its items.
func (f Fields) Group(key string) []Fields {
	items, ok := f[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Fields, 0, len(items))
	for _, item := range items {
		if m := asMap(item); m != nil {
			out = append(out, Fields(m))
		}
	}
	return out
}

// Link reads a document link and returns the target UID.
func (f Fields) Link(key string) string {
	m := asMap(f[key])
	if m == nil {
		return ""
	}
	uid, _ := m["uid"].(string)
	return uid
}

// asMap accepts both JSON (map[string]any) and YAML decoded maps.
func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case Fields:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if s, ok := k.(string); ok {
				out[s] = val
			}
		}
		return out
	default:
		return nil
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
