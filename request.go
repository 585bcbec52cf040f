package facet

import (
	"fmt"
	"net/url"
	"sort"
)

// Reserved query keys handled separately from filter parameters.
const (
	KeywordsParameterName string = "q"
	LotParameterName      string = "lot"
	PageParameterName     string = "page"
)

// Parameter is a single named filter parameter with one or more values.
//
// Parameters come from untrusted HTTP query strings; value order within a
// parameter is preserved from the request, because the filter whitelist is
// order-preserving.
//
// Example:
//
//	param := facet.NewParameter("serviceTypes", "collaboration", "crm")
type Parameter struct {
	name   string
	values []string
}

// NewParameter creates a parameter with the given name and values.
func NewParameter(name string, values ...string) Parameter {
	return Parameter{name: name, values: values}
}

// Name returns the parameter name.
func (p Parameter) Name() string {
	return p.name
}

// Value returns the first value for a parameter.
//
// This is a convenience for parameters expected to carry a single value,
// such as the reserved q/lot/page keys.
func (p Parameter) Value() string {
	if len(p.values) == 0 {
		return ""
	}

	return p.values[0]
}

// Values returns all values for a parameter, in request order.
func (p Parameter) Values() []string {
	return p.values
}

// Merge appends another parameter's values to this one.
func (p Parameter) Merge(m Parameter) Parameter {
	p.values = append(p.values, m.values...)
	return p
}

// Request is a container for the raw, untrusted query parameters of one
// incoming search request.
//
// Example:
//
//	request := facet.NewRequest(
//	    facet.NewParameter("q", "email"),
//	    facet.NewParameter("lot", "saas"),
//	    facet.NewParameter("serviceTypes", "collaboration"),
//	)
type Request struct {
	params map[string]Parameter
}

// NewRequest creates a new request with the specified parameters.
func NewRequest(params ...Parameter) *Request {
	r := &Request{
		params: make(map[string]Parameter),
	}

	for _, p := range params {
		r.Append(p)
	}

	return r
}

// ParseRequest builds a request from parsed URL query values.
//
// Example:
//
//	request := facet.ParseRequest(httpRequest.URL.Query())
func ParseRequest(values url.Values) *Request {
	r := NewRequest()
	for name, vs := range values {
		r.Append(NewParameter(name, vs...))
	}

	return r
}

// Append adds a parameter to the request, merging values when a parameter
// with the same name already exists.
func (r *Request) Append(param Parameter) *Request {
	if existing, ok := r.params[param.name]; ok {
		param = existing.Merge(param)
	}

	r.params[param.name] = param
	return r
}

// Has checks if a parameter with the specified name exists.
func (r *Request) Has(name string) bool {
	_, ok := r.params[name]
	return ok
}

// Get retrieves a parameter by name.
func (r *Request) Get(name string) (Parameter, error) {
	p, ok := r.params[name]
	if !ok {
		return Parameter{}, fmt.Errorf("no such parameter: %s", name)
	}

	return p, nil
}

// Set adds or replaces a parameter with the specified name and values.
func (r *Request) Set(name string, values ...string) {
	r.params[name] = NewParameter(name, values...)
}

// Del removes a parameter by name.
func (r *Request) Del(name string) {
	delete(r.params, name)
}

// Keys returns the parameter names in sorted order, for deterministic
// iteration where no request-defined order applies.
func (r *Request) Keys() []string {
	keys := make([]string, 0, len(r.params))
	for name := range r.params {
		keys = append(keys, name)
	}
	sort.Strings(keys)

	return keys
}

// Filters returns a copy of the request with the reserved q, lot and page
// keys removed, leaving only candidate filter parameters.
func (r *Request) Filters() *Request {
	filters := NewRequest()
	for name, p := range r.params {
		switch name {
		case KeywordsParameterName, LotParameterName, PageParameterName:
			continue
		}
		filters.Append(NewParameter(name, append([]string(nil), p.values...)...))
	}

	return filters
}

// Keywords returns the free-text search keywords, if any.
func (r *Request) Keywords() string {
	p, err := r.Get(KeywordsParameterName)
	if err != nil {
		return ""
	}

	return p.Value()
}

// Values converts the request back to url.Values.
func (r *Request) Values() url.Values {
	values := url.Values{}
	for name, p := range r.params {
		values[name] = append([]string(nil), p.values...)
	}

	return values
}
