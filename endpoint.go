package facet

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// SearchPage is everything the HTTP layer needs to render one search
// results page.
type SearchPage struct {
	// Groups is the lot-sifted filter-group structure with IsSet flags
	// marking the active filters.
	Groups []FilterGroup
	// Query is the validated query that was sent to the search API.
	Query Query
	// Results are the display-ready result records.
	Results *SearchResults
	// Pagination is the paging state for the result count.
	Pagination Pagination
	// Summary is the rendered, filter-aware summary sentence.
	Summary string
	// Duration is the time spent executing the search.
	Duration time.Duration
}

// Endpoint wires the full search data flow: request parameters are
// whitelisted and grouped against the question-driven filter vocabulary,
// executed against the backend, and the raw results are presented with
// pagination state and a summary sentence.
//
// Example:
//
//	endpoint := facet.NewEndpoint(catalog, backend,
//	    facet.WithSummaryRules(facet.CategoriesRule("Categories")))
//
//	page, err := endpoint.Search(ctx, facet.LotSaaS, httpRequest.URL.Query())
type Endpoint struct {
	catalog  *QuestionCatalog
	builder  *FilterGroupBuilder
	backend  Backend
	pageSize int
	rules    []SummaryRule
}

// EndpointOption configures an Endpoint.
type EndpointOption func(*Endpoint)

// WithEndpointPageSize sets the page size used for pagination state
// (default DefaultPageSize). It must match the backend's page size.
func WithEndpointPageSize(pageSize int) EndpointOption {
	return func(e *Endpoint) {
		e.pageSize = pageSize
	}
}

// WithSummaryRules sets the summary-sentence rules for filter groups.
func WithSummaryRules(rules ...SummaryRule) EndpointOption {
	return func(e *Endpoint) {
		e.rules = rules
	}
}

// WithFilterGroupBuilder replaces the default filter-group builder, for
// callers supplying their own alias table.
func WithFilterGroupBuilder(builder *FilterGroupBuilder) EndpointOption {
	return func(e *Endpoint) {
		e.builder = builder
	}
}

// NewEndpoint returns a search endpoint over a question catalog and a
// backend.
func NewEndpoint(catalog *QuestionCatalog, backend Backend, opts ...EndpointOption) *Endpoint {
	e := &Endpoint{
		catalog:  catalog,
		builder:  NewFilterGroupBuilder(catalog),
		backend:  backend,
		pageSize: DefaultPageSize,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Search runs one search request end to end for the given lot.
//
// Malformed filter parameters narrow the result set or collapse the
// query to empty; they never fail the request. A genuine data
// inconsistency in the results (an unknown lot code) does fail, since it
// indicates a deployment bug.
func (e *Endpoint) Search(ctx context.Context, lot Lot, args url.Values) (*SearchPage, error) {
	start := time.Now()

	groups, err := SiftForLot(e.builder.Build(), lot)
	if err != nil {
		return nil, err
	}

	request := ParseRequest(args)
	request.Set(LotParameterName, string(lot))

	resolver := NewResolver(e.catalog, groups)
	query := resolver.Resolve(request)

	raw, err := e.backend.Execute(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("backend failed executing request: %w", err)
	}

	results, err := NewSearchResults(raw)
	if err != nil {
		return nil, err
	}

	page := 0
	if p, ok := ValidPage(query[PageParameterName].Value()); ok {
		page = p
	}

	SetFilterStates(groups, request)

	return &SearchPage{
		Groups:     groups,
		Query:      query,
		Results:    results,
		Pagination: Paginate(results.Total, e.pageSize, page),
		Summary:    WriteSummary(results.Total, resolver.CleanRequest(request), groups, e.rules),
		Duration:   time.Since(start),
	}, nil
}
