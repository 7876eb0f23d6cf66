package content

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locales matches Accept-Language headers against the CMS locales.
type Locales struct {
	codes   []string
	matcher language.Matcher
}

// NewLocales builds a matcher; the first locale is the fallback. Codes use
// the CMS spelling (en-us).
func NewLocales(codes []string) (*Locales, error) {
	if len(codes) == 0 {
		return nil, fmt.Errorf("at least one locale is required")
	}
	tags := make([]language.Tag, 0, len(codes))
	clean := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("parse locale %q: %w", code, err)
		}
		tags = append(tags, tag)
		clean = append(clean, code)
	}
	return &Locales{codes: clean, matcher: language.NewMatcher(tags)}, nil
}

// Default is the fallback locale.
func (l *Locales) Default() string {
	return l.codes[0]
}

// Match returns the CMS locale best matching an Accept-Language header.
func (l *Locales) Match(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return l.Default()
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return l.Default()
	}
	_, idx, confidence := l.matcher.Match(tags...)
	if confidence == language.No || idx < 0 || idx >= len(l.codes) {
		return l.Default()
	}
	return l.codes[idx]
}
