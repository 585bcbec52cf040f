package facet

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryValue is a single search-query field value: either one string or
// an ordered sequence of strings.
//
// Single values transmit as one parameter; sequences transmit as repeated
// parameter instances (the search API's AND convention).
type QueryValue struct {
	value  string
	values []string
	multi  bool
}

// Single wraps one string as a query value.
func Single(v string) QueryValue {
	return QueryValue{value: v}
}

// Multi wraps an ordered sequence of strings as a query value.
func Multi(vs ...string) QueryValue {
	return QueryValue{values: vs, multi: true}
}

// IsMulti reports whether the value is a sequence.
func (qv QueryValue) IsMulti() bool {
	return qv.multi
}

// Value returns the single string form; for sequences it returns the
// first element.
func (qv QueryValue) Value() string {
	if qv.multi {
		if len(qv.values) == 0 {
			return ""
		}
		return qv.values[0]
	}

	return qv.value
}

// Values returns the sequence form; single values yield a one-element
// sequence.
func (qv QueryValue) Values() []string {
	if qv.multi {
		return qv.values
	}

	return []string{qv.value}
}

// Query is a validated search query, ready for transmission to the
// external search API. The reserved q, lot and page keys are carried as
// single values when present.
type Query map[string]QueryValue

// Values converts the query to its wire form.
func (q Query) Values() url.Values {
	values := url.Values{}
	for name, qv := range q {
		values[name] = append([]string(nil), qv.Values()...)
	}

	return values
}

// Resolver turns raw request parameters into a search query against the
// filter vocabulary of a set of (already lot-sifted) filter groups.
//
// Example:
//
//	groups, _ := facet.SiftForLot(builder.Build(), facet.LotSaaS)
//	resolver := facet.NewResolver(catalog, groups)
//	query := resolver.Resolve(request)
type Resolver struct {
	catalog *QuestionCatalog
	groups  []FilterGroup
}

// NewResolver returns a resolver over the given catalog and sifted
// filter groups.
func NewResolver(catalog *QuestionCatalog, groups []FilterGroup) *Resolver {
	return &Resolver{
		catalog: catalog,
		groups:  groups,
	}
}

// CleanRequest removes any unknown keys or values from the request's
// filter parameters.
//
// Every surviving (name, value) pair is a member of the filter-group
// vocabulary: this is a whitelist, not a blacklist, and dropped pairs are
// not an error. The order of surviving values for a repeated key is
// preserved from the request.
func (r *Resolver) CleanRequest(request *Request) *Request {
	allowed := allowedFilters(r.groups)

	clean := NewRequest()
	for _, name := range request.Filters().Keys() {
		p, err := request.Get(name)
		if err != nil {
			continue
		}

		var survivors []string
		for _, v := range p.Values() {
			if allowed[[2]string{name, v}] {
				survivors = append(survivors, v)
			}
		}

		if len(survivors) > 0 {
			clean.Append(NewParameter(name, survivors...))
		}
	}

	return clean
}

// Resolve builds the search query for a request.
//
// Unknown filter keys and values are silently dropped. Surviving values
// for radios-type questions join with commas into one string (the search
// API's OR convention); all other types pass through as sequences (AND
// semantics). The reserved keys are then re-attached: q when non-empty,
// page when it parses as a positive integer, and lot when it names a
// single real lot.
//
// A structurally invalid lot, either unrecognized or comma-joined,
// collapses the entire query to empty rather than partially executing;
// a too-broad result set would be worse than none. An empty lot value
// means no lot was selected and leaves the rest of the query intact.
func (r *Resolver) Resolve(request *Request) Query {
	query := Query{}

	clean := r.CleanRequest(request)
	for _, name := range clean.Keys() {
		p, _ := clean.Get(name)
		values := p.Values()

		switch {
		case r.isRadioType(name):
			query[name] = Single(strings.Join(values, ","))
		case len(values) == 1:
			query[name] = Single(values[0])
		default:
			query[name] = Multi(values...)
		}
	}

	if request.Has(LotParameterName) {
		p, _ := request.Get(LotParameterName)
		// forms submit lot= with no value when nothing is selected; that is
		// an absent lot, not a malformed one
		if v := p.Value(); v != "" {
			switch lot, ok := ParseLot(v); {
			case !ok:
				return Query{}
			case lot != LotAll:
				query[LotParameterName] = Single(string(lot))
			}
		}
	}

	if keywords := request.Keywords(); keywords != "" {
		query[KeywordsParameterName] = Single(keywords)
	}

	if p, err := request.Get(PageParameterName); err == nil {
		if page, ok := ValidPage(p.Value()); ok {
			query[PageParameterName] = Single(strconv.Itoa(page))
		}
	}

	return query
}

// isRadioType reports whether a filter key maps to a single-choice
// question, whose repeated values combine with OR semantics.
func (r *Resolver) isRadioType(key string) bool {
	if key == LotParameterName {
		return true
	}

	return r.catalog.GetQuestion(key).Type == RadiosQuestion
}
