package httpx

import (
	"net/http"
	"strconv"
	"strings"
)

var shortTypes = map[string]string{
	"html": "text/html",
	"json": "application/json",
	"text": "text/plain",
}

// Accepts returns the offer the request prefers, or "" when none is
// acceptable. Offers may be short names (html, json, text) or full media
// types. A missing Accept header accepts the first offer.
func Accepts(r *http.Request, offers ...string) string {
	if len(offers) == 0 {
		return ""
	}
	header := ""
	if r != nil {
		header = strings.TrimSpace(r.Header.Get("Accept"))
	}
	if header == "" {
		return offers[0]
	}
	ranges := parseAccept(header)
	best, bestQ := "", 0.0
	for _, offer := range offers {
		media := offer
		if full, ok := shortTypes[offer]; ok {
			media = full
		}
		q := quality(ranges, media)
		if q > bestQ {
			best, bestQ = offer, q
		}
	}
	return best
}

type mediaRange struct {
	typ     string
	subtype string
	q       float64
}

func parseAccept(header string) []mediaRange {
	var ranges []mediaRange
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(part, ";")
		media := strings.ToLower(strings.TrimSpace(fields[0]))
		typ, subtype, ok := strings.Cut(media, "/")
		if !ok {
			continue
		}
		q := 1.0
		for _, param := range fields[1:] {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if ok && strings.EqualFold(key, "q") {
				if parsed, err := strconv.ParseFloat(value, 64); err == nil {
					q = parsed
				}
			}
		}
		ranges = append(ranges, mediaRange{typ: typ, subtype: subtype, q: q})
	}
	return ranges
}

// quality is the q of the most specific range matching media.
func quality(ranges []mediaRange, media string) float64 {
	typ, subtype, _ := strings.Cut(media, "/")
	q, specificity := 0.0, -1
	for _, rg := range ranges {
		s := -1
		switch {
		case rg.typ == typ && rg.subtype == subtype:
			s = 2
		case rg.typ == typ && rg.subtype == "*":
			s = 1
		case rg.typ == "*" && rg.subtype == "*":
			s = 0
		}
		if s > specificity {
			q, specificity = rg.q, s
		}
	}
	return q
}
