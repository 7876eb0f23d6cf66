package content

import (
	"encoding/json"
	"fmt"
	"io"

	apperrors "github.com/louisbranch/showcase/internal/platform/errors"
)

// Results is a flat ordered list of CMS documents with the project order
// derived once at construction.
type Results struct {
	records  []Record
	projects []Record
}

// NewResults indexes records. The project order comes from the ordering
// document's list[].project link; unknown UIDs are skipped.
func NewResults(records []Record) *Results {
	r := &Results{records: records}
	ordering, ok := r.Find(TypeOrdering)
	if !ok {
		return r
	}
	byUID := make(map[string]Record)
	for _, rec := range records {
		if rec.Type == TypeProject {
			byUID[rec.UID] = rec
		}
	}
	for _, item := range ordering.Group("list") {
		if project, ok := byUID[item.Link("project")]; ok {
			r.projects = append(r.projects, project)
		}
	}
	return r
}

// Records returns every document in response order.
func (r *Results) Records() []Record {
	if r == nil {
		return nil
	}
	return r.records
}

// Len is the number of documents.
func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.records)
}

// Find returns the first document of type t.
func (r *Results) Find(t Type) (Record, bool) {
	if r == nil {
		return Record{}, false
	}
	for _, rec := range r.records {
		if rec.Type == t {
			return rec, true
		}
	}
	return Record{}, false
}

// Filter returns every document of type t in order.
func (r *Results) Filter(t Type) []Record {
	if r == nil {
		return nil
	}
	var out []Record
	for _, rec := range r.records {
		if rec.Type == t {
			out = append(out, rec)
		}
	}
	return out
}

// Projects returns the projects in editorial order.
func (r *Results) Projects() []Record {
	if r == nil {
		return nil
	}
	return r.projects
}

// ProjectIndex returns the position of uid in the project order, or -1.
func (r *Results) ProjectIndex(uid string) int {
	for i, p := range r.Projects() {
		if p.UID == uid {
			return i
		}
	}
	return -1
}

// Related returns the project after index, wrapping to the first.
func (r *Results) Related(index int) (Record, bool) {
	projects := r.Projects()
	if len(projects) == 0 || index < 0 {
		return Record{}, false
	}
	return projects[(index+1)%len(projects)], true
}

type searchResponse struct {
	Page             int      `json:"page"`
	ResultsPerPage   int      `json:"results_per_page"`
	TotalResultsSize int      `json:"total_results_size"`
	Results          []Record `json:"results"`
}

// Decode reads a CMS search response body.
func Decode(r io.Reader) (*Results, error) {
	records, err := DecodeRecords(r)
	if err != nil {
		return nil, err
	}
	return NewResults(records), nil
}

// DecodeRecords reads the raw documents of a CMS search response body.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var resp searchResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeContentMalformed, "decode search response", err)
	}
	return resp.Results, nil
}

// Encode writes records in the CMS search response shape.
func Encode(w io.Writer, records []Record) error {
	resp := searchResponse{Page: 1, ResultsPerPage: len(records), TotalResultsSize: len(records), Results: records}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		return fmt.Errorf("encode search response: %w", err)
	}
	return nil
}
