package facet

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexTotal is a result count that the search API serializes either as a
// number or as a string, depending on API version.
type FlexTotal int

func (t *FlexTotal) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = 0
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("parsing result total %q: %w", s, err)
	}

	*t = FlexTotal(n)
	return nil
}

// RawResponse is the raw search-API result payload.
//
// Two shapes exist depending on API version: the hit/field shape, where
// each document is a mapping of field name to a single-element sequence
// carrying the API's highlight markup, and the flatter services shape,
// where documents are flat mappings with an optional highlight block.
// Exactly one of Hits and Services is populated.
type RawResponse struct {
	Hits     *RawHits         `json:"hits,omitempty"`
	Services []map[string]any `json:"services,omitempty"`
	Total    FlexTotal        `json:"total,omitempty"`
}

// RawHits is the hit/field shape's result envelope.
type RawHits struct {
	Total FlexTotal `json:"total"`
	Hits  []RawHit  `json:"hits"`
}

// RawHit is one document in the hit/field shape.
type RawHit struct {
	Fields map[string][]string `json:"fields"`
}

// Links carries the search API's pagination links, full URLs whose query
// strings parse back into request parameters via ParsePageLink.
type Links struct {
	Prev string `json:"prev,omitempty"`
	Next string `json:"next,omitempty"`
}

// Result is one display-ready search result.
type Result struct {
	// Fields holds each document field flattened to its first value.
	Fields map[string]string
	// Lot is the lot acronym expanded to its full display name.
	Lot string
}

// Summary returns the document summary, which may carry the search API's
// highlight markup around matched keywords.
func (r Result) Summary() string {
	return r.Fields["serviceSummary"]
}

// SearchResults presents a raw search payload as display-ready records.
//
// Example:
//
//	var raw facet.RawResponse
//	if err := json.Unmarshal(body, &raw); err != nil {
//	    // ...
//	}
//	results, err := facet.NewSearchResults(&raw)
type SearchResults struct {
	Total   int
	Results []Result
}

// NewSearchResults maps a raw payload into flat result records,
// expanding each document's lot acronym to its display name.
//
// An unrecognized lot code fails the whole mapping: it indicates drift
// between the search index and this frontend, and must not silently
// render garbage.
func NewSearchResults(raw *RawResponse) (*SearchResults, error) {
	if raw.Hits != nil {
		return resultsFromHits(raw.Hits)
	}

	return resultsFromServices(raw)
}

func resultsFromHits(hits *RawHits) (*SearchResults, error) {
	sr := &SearchResults{
		Total:   int(hits.Total),
		Results: make([]Result, 0, len(hits.Hits)),
	}

	for _, hit := range hits.Hits {
		fields := make(map[string]string, len(hit.Fields))
		for name, values := range hit.Fields {
			if len(values) > 0 {
				fields[name] = values[0]
			}
		}

		result := Result{Fields: fields}
		if acronym, ok := fields["lot"]; ok {
			name, err := ExpandLotAcronym(acronym)
			if err != nil {
				return nil, err
			}
			result.Lot = name
		}

		sr.Results = append(sr.Results, result)
	}

	return sr, nil
}

func resultsFromServices(raw *RawResponse) (*SearchResults, error) {
	sr := &SearchResults{
		Total:   int(raw.Total),
		Results: make([]Result, 0, len(raw.Services)),
	}

	for _, service := range raw.Services {
		fields := make(map[string]string, len(service))
		for name, value := range service {
			if name == "highlight" {
				continue
			}
			fields[name] = fmt.Sprint(value)
		}

		// highlighted fragments replace the stored summary
		if fragments := highlightFragments(service, "serviceSummary"); fragments != "" {
			fields["serviceSummary"] = fragments
		}

		result := Result{Fields: fields}
		if acronym, ok := fields["lot"]; ok {
			name, err := ExpandLotAcronym(acronym)
			if err != nil {
				return nil, err
			}
			result.Lot = name
		}

		sr.Results = append(sr.Results, result)
	}

	return sr, nil
}

// highlightFragments joins the highlight fragments for one field of a
// flat-shape document, or returns "" when the document has none.
func highlightFragments(service map[string]any, field string) string {
	highlight, ok := service["highlight"].(map[string]any)
	if !ok {
		return ""
	}

	fragments, ok := highlight[field].([]any)
	if !ok {
		return ""
	}

	var b strings.Builder
	for _, fragment := range fragments {
		if s, ok := fragment.(string); ok {
			b.WriteString(s)
		}
	}

	return b.String()
}

// ParseSearchResponse decodes a raw search-API response body.
func ParseSearchResponse(body []byte) (*RawResponse, error) {
	var raw RawResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	return &raw, nil
}
