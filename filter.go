package facet

import (
	"fmt"
	"strings"
)

// Filter is one selectable search constraint derived from a question
// option (or from a boolean question's implied "true" value).
//
// Name maps back to a question id, or to an alias group name for folded
// question families; Lots is always a subset of the source question's
// lot dependencies.
type Filter struct {
	Label string
	Name  string
	ID    string
	Value string
	Lots  []Lot

	// IsSet marks the filter as active for the current request.
	IsSet bool
}

// AppliesToLot reports whether the filter is valid for the given real lot.
func (f Filter) AppliesToLot(lot Lot) bool {
	for _, l := range f.Lots {
		if l == lot {
			return true
		}
	}

	return false
}

// appliesToAllLots reports whether the filter is valid for every real lot.
func (f Filter) appliesToAllLots() bool {
	for _, lot := range RealLots() {
		if !f.AppliesToLot(lot) {
			return false
		}
	}

	return true
}

// FilterGroup is the ordered set of filters derived from one content
// section.
type FilterGroup struct {
	Label         string
	DependsOnLots []Lot
	Filters       []Filter
}

// DefaultFilterNameAliases folds the per-lot serviceTypes question family
// into a single merged filter name, so per-lot category lists present as
// one "Categories" facet. This is a content-authoring convenience limited
// to the serviceTypes family, not a generic rule.
var DefaultFilterNameAliases = map[string]string{
	"serviceTypesSaaS": "serviceTypes",
	"serviceTypesPaaS": "serviceTypes",
	"serviceTypesIaaS": "serviceTypes",
	"serviceTypesSCS":  "serviceTypes",
}

// FilterGroupBuilder derives the UI filter-group structure from a
// question catalog: one group per section, one filter per question or
// question option.
//
// Example:
//
//	builder := facet.NewFilterGroupBuilder(catalog)
//	groups := builder.Build()
type FilterGroupBuilder struct {
	catalog *QuestionCatalog
	aliases map[string]string
}

// FilterGroupOption configures a FilterGroupBuilder.
type FilterGroupOption func(*FilterGroupBuilder)

// WithFilterNameAliases replaces the default question-id alias table.
func WithFilterNameAliases(aliases map[string]string) FilterGroupOption {
	return func(b *FilterGroupBuilder) {
		b.aliases = aliases
	}
}

// NewFilterGroupBuilder returns a builder over the given catalog.
func NewFilterGroupBuilder(catalog *QuestionCatalog, opts ...FilterGroupOption) *FilterGroupBuilder {
	b := &FilterGroupBuilder{
		catalog: catalog,
		aliases: DefaultFilterNameAliases,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build emits one filter group per catalog section, in manifest order.
// Filters within a group follow declared question order, then option
// order.
func (b *FilterGroupBuilder) Build() []FilterGroup {
	sections := b.catalog.Sections()

	groups := make([]FilterGroup, 0, len(sections))
	for _, section := range sections {
		group := FilterGroup{
			Label:         section.Name,
			DependsOnLots: section.DependsOnLots,
		}

		for _, question := range section.Questions {
			group.Filters = append(group.Filters, b.filtersForQuestion(question)...)
		}

		groups = append(groups, group)
	}

	return groups
}

// filtersForQuestion maps a single question onto zero or more filters.
func (b *FilterGroupBuilder) filtersForQuestion(q Question) []Filter {
	name := q.ID
	if alias, ok := b.aliases[q.ID]; ok {
		name = alias
	}

	switch q.Type {
	case BooleanQuestion:
		// boolean questions have no options, "true" is implied
		return []Filter{{
			Label: q.Label(),
			Name:  name,
			ID:    name,
			Value: "true",
			Lots:  q.DependsOnLots,
		}}

	case RadiosQuestion, CheckboxesQuestion:
		filters := make([]Filter, 0, len(q.Options))
		for _, option := range q.Options {
			value := option.FilterValue()
			filters = append(filters, Filter{
				Label: option.Label,
				Name:  name,
				ID:    fmt.Sprintf("%s-%s", name, strings.ReplaceAll(value, " ", "-")),
				Value: value,
				Lots:  q.DependsOnLots,
			})
		}
		return filters
	}

	return nil
}

// SiftForLot narrows filter groups to the filters valid for the selected
// lot. For a real lot a filter is kept iff the lot is among its
// dependencies; for LotAll a filter is kept only when it applies to every
// real lot, deliberately hiding lot-specific facets from the unfiltered
// view. Groups left with no filters are dropped.
//
// An out-of-enum lot fails loudly to surface content or config bugs, so
// callers decide their own fallback policy.
func SiftForLot(groups []FilterGroup, lot Lot) ([]FilterGroup, error) {
	if _, ok := ParseLot(string(lot)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLot, lot)
	}

	var sifted []FilterGroup
	for _, group := range groups {
		kept := FilterGroup{
			Label:         group.Label,
			DependsOnLots: group.DependsOnLots,
		}

		for _, f := range group.Filters {
			if lot == LotAll && f.appliesToAllLots() {
				kept.Filters = append(kept.Filters, f)
			} else if lot != LotAll && f.AppliesToLot(lot) {
				kept.Filters = append(kept.Filters, f)
			}
		}

		if len(kept.Filters) > 0 {
			sifted = append(sifted, kept)
		}
	}

	return sifted, nil
}

// SetFilterStates marks each filter whose (name, value) pair appears in
// the request's filter parameters as set.
func SetFilterStates(groups []FilterGroup, request *Request) {
	filters := request.Filters()

	for gi := range groups {
		for fi := range groups[gi].Filters {
			f := &groups[gi].Filters[fi]
			f.IsSet = false

			p, err := filters.Get(f.Name)
			if err != nil {
				continue
			}

			for _, v := range p.Values() {
				if v == f.Value {
					f.IsSet = true
					break
				}
			}
		}
	}
}

// allowedFilters computes the whitelist of (name, value) pairs that exist
// in the sifted filter-group vocabulary.
func allowedFilters(groups []FilterGroup) map[[2]string]bool {
	allowed := make(map[[2]string]bool)
	for _, group := range groups {
		for _, f := range group.Filters {
			allowed[[2]string{f.Name, f.Value}] = true
		}
	}

	return allowed
}
