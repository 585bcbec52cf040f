package facet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// Backend executes a resolved search query and returns the raw result
// payload the presenter consumes.
//
// The facet core is pure transformation logic; network calls live behind
// this boundary.
type Backend interface {
	Execute(ctx context.Context, query Query) (*RawResponse, error)
}

// ElasticBackend is an Elasticsearch-backed search API.
//
// It translates a resolved Query into an Elasticsearch bool query:
// comma-joined single values become OR'd term sets, sequences become
// AND'd terms, keywords become a highlighted multi-match, and the page
// key becomes a from/size window.
type ElasticBackend struct {
	client   *elasticsearch.TypedClient
	config   elasticsearch.Config
	index    string
	pageSize int
	fields   []string
}

// ElasticBackendOption configures the ElasticBackend.
type ElasticBackendOption func(*ElasticBackend)

// WithScheme defines which scheme to use when communicating with
// Elasticsearch (default is "http").
//
// Example:
//
//	backend, err := facet.NewElasticBackend(
//	    []string{"localhost:9200"},
//	    "g-cloud-services",
//	    facet.WithScheme("https"),
//	)
func WithScheme(scheme string) ElasticBackendOption {
	return func(b *ElasticBackend) {
		b.config.Addresses = updateURLScheme(b.config.Addresses, scheme)
	}
}

func updateURLScheme(addresses []string, scheme string) []string {
	updated := make([]string, len(addresses))
	for i, addr := range addresses {
		addr = strings.TrimPrefix(addr, "http://")
		addr = strings.TrimPrefix(addr, "https://")
		updated[i] = scheme + "://" + addr
	}
	return updated
}

// WithCredentials adds username and password to requests to
// Elasticsearch.
func WithCredentials(username, password string) ElasticBackendOption {
	return func(b *ElasticBackend) {
		b.config.Username = username
		b.config.Password = password
	}
}

// WithCACert configures a custom CA certificate for requests to
// Elasticsearch.
func WithCACert(cert []byte) ElasticBackendOption {
	return func(b *ElasticBackend) {
		b.config.CACert = cert
	}
}

// WithHttpClient configures the http client used for requests to
// Elasticsearch.
func WithHttpClient(httpClient *http.Client) ElasticBackendOption {
	return func(b *ElasticBackend) {
		b.config.Transport = httpClient.Transport
	}
}

// WithPageSize sets the result page size (default DefaultPageSize).
func WithPageSize(pageSize int) ElasticBackendOption {
	return func(b *ElasticBackend) {
		b.pageSize = pageSize
	}
}

// WithResultFields sets the document fields returned for each hit.
func WithResultFields(fields ...string) ElasticBackendOption {
	return func(b *ElasticBackend) {
		b.fields = fields
	}
}

// NewElasticBackend creates a search backend targeting Elasticsearch.
//
// Example:
//
//	backend, err := facet.NewElasticBackend(
//	    []string{"localhost:9200"},
//	    "g-cloud-services",
//	)
func NewElasticBackend(nodes []string, index string, opts ...ElasticBackendOption) (*ElasticBackend, error) {
	addresses := make([]string, len(nodes))
	for i, node := range nodes {
		if !strings.HasPrefix(node, "http://") && !strings.HasPrefix(node, "https://") {
			addresses[i] = "http://" + node
		} else {
			addresses[i] = node
		}
	}

	backend := &ElasticBackend{
		config: elasticsearch.Config{
			Addresses: addresses,
		},
		index:    index,
		pageSize: DefaultPageSize,
		fields:   []string{"id", "lot", "serviceName", "serviceSummary", "supplierName"},
	}

	for _, opt := range opts {
		opt(backend)
	}

	client, err := elasticsearch.NewTypedClient(backend.config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	backend.client = client
	return backend, nil
}

// GetClient returns the underlying Elasticsearch client, primarily for
// tests and advanced use.
func (b *ElasticBackend) GetClient() *elasticsearch.TypedClient {
	return b.client
}

// Execute runs a resolved query and returns the raw payload in the
// hit/field shape.
func (b *ElasticBackend) Execute(ctx context.Context, query Query) (*RawResponse, error) {
	req := b.buildRequest(query)

	res, err := b.client.Search().
		Index(b.index).
		Request(req).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	return mapSearchResponse(res)
}

func (b *ElasticBackend) buildRequest(query Query) *search.Request {
	boolQuery := &types.BoolQuery{}

	for name, value := range query {
		switch name {
		case KeywordsParameterName:
			boolQuery.Must = append(boolQuery.Must, types.Query{
				MultiMatch: &types.MultiMatchQuery{
					Query:  value.Value(),
					Fields: []string{"serviceName", "serviceSummary"},
				},
			})

		case LotParameterName:
			caseInsensitive := true
			boolQuery.Filter = append(boolQuery.Filter, types.Query{
				Term: map[string]types.TermQuery{
					"lot.keyword": {
						Value:           value.Value(),
						CaseInsensitive: &caseInsensitive,
					},
				},
			})

		case PageParameterName:
			// handled below as a from/size window

		default:
			boolQuery.Must = append(boolQuery.Must, filterQuery(name, value))
		}
	}

	size := b.pageSize
	from := 0
	if page, ok := ValidPage(query[PageParameterName].Value()); ok {
		from = (page - 1) * size
	}

	fields := make([]types.FieldAndFormat, 0, len(b.fields))
	for _, field := range b.fields {
		fields = append(fields, types.FieldAndFormat{Field: field})
	}

	return &search.Request{
		Query:   &types.Query{Bool: boolQuery},
		From:    &from,
		Size:    &size,
		Fields:  fields,
		Source_: false,
		Highlight: &types.Highlight{
			Fields: map[string]types.HighlightField{
				"serviceSummary": {
					PreTags:  []string{summaryEmphasisPre},
					PostTags: []string{summaryEmphasisPost},
				},
			},
		},
	}
}

// filterQuery maps one resolved filter field onto an Elasticsearch
// query: a comma-joined value is an OR'd term set, a sequence is AND'd
// terms, and a plain value is a single term.
func filterQuery(name string, value QueryValue) types.Query {
	keyword := fmt.Sprintf("%s.keyword", name)

	if value.IsMulti() {
		inner := &types.BoolQuery{}
		for _, v := range value.Values() {
			inner.Must = append(inner.Must, types.Query{
				Term: map[string]types.TermQuery{keyword: {Value: v}},
			})
		}
		return types.Query{Bool: inner}
	}

	terms := strings.Split(value.Value(), ",")
	if len(terms) > 1 {
		inner := &types.BoolQuery{
			MinimumShouldMatch: 1,
		}
		for _, v := range terms {
			inner.Should = append(inner.Should, types.Query{
				Term: map[string]types.TermQuery{keyword: {Value: v}},
			})
		}
		return types.Query{Bool: inner}
	}

	return types.Query{
		Term: map[string]types.TermQuery{keyword: {Value: value.Value()}},
	}
}

// mapSearchResponse converts a typed Elasticsearch response into the
// raw hit/field payload shape, folding highlight fragments into the
// summary field.
func mapSearchResponse(res *search.Response) (*RawResponse, error) {
	hits := &RawHits{}
	if res.Hits.Total != nil {
		hits.Total = FlexTotal(res.Hits.Total.Value)
	}

	for _, hit := range res.Hits.Hits {
		fields := make(map[string][]string, len(hit.Fields))
		for name, raw := range hit.Fields {
			var values []any
			if err := json.Unmarshal(raw, &values); err != nil {
				continue
			}

			strs := make([]string, 0, len(values))
			for _, v := range values {
				strs = append(strs, fmt.Sprint(v))
			}
			fields[name] = strs
		}

		if fragments, ok := hit.Highlight["serviceSummary"]; ok && len(fragments) > 0 {
			fields["serviceSummary"] = []string{strings.Join(fragments, "")}
		}

		hits.Hits = append(hits.Hits, RawHit{Fields: fields})
	}

	return &RawResponse{Hits: hits}, nil
}
