package facet

import (
	"fmt"
	"html"
	"strings"
)

const (
	summaryEmphasisPre  = "<em>"
	summaryEmphasisPost = "</em>"
)

// SummaryRule controls how one filter group's active filters render in
// the search summary sentence.
//
// A rule with a Singular/Plural label renders as
// "{Preposition} {label} {values}", e.g. "in the category X" or
// "in the categories X and Y". A rule with a FilterPreposition instead
// prefixes every value, e.g. "with a X and with a Y". Groups without a
// rule render their values joined with "or".
type SummaryRule struct {
	Group             string
	Singular          string
	Plural            string
	Preposition       string
	Conjunction       string
	FilterPreposition bool
}

// CategoriesRule is the standard rule for an option-driven group:
// "in the category X" / "in the categories X, Y and Z".
func CategoriesRule(group string) SummaryRule {
	return SummaryRule{
		Group:       group,
		Singular:    "category",
		Plural:      "categories",
		Preposition: "in the",
		Conjunction: "and",
	}
}

// FeaturesRule is the standard rule for a boolean-style group:
// "with a X and with an Y".
func FeaturesRule(group string) SummaryRule {
	return SummaryRule{
		Group:             group,
		Conjunction:       "and",
		FilterPreposition: true,
	}
}

// ListAsSentence joins items into a natural-language list: one item is
// itself, two join with the conjunction, three or more form a comma list
// with the conjunction before the last item and no Oxford comma.
//
// Example:
//
//	facet.ListAsSentence([]string{"A", "B", "C"}, "and") // "A, B and C"
func ListAsSentence(items []string, conjunction string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}

	return fmt.Sprintf("%s %s %s",
		strings.Join(items[:len(items)-1], ", "),
		conjunction,
		items[len(items)-1])
}

// WriteSummary produces the pluralized, filter-aware summary sentence for
// a search: "N results found", followed by one clause per filter group
// with active filters, in group declaration order, joined with ", " and a
// final "and".
//
// Filter values resolve to their display labels and are HTML-emphasized;
// the labels are escaped, so the returned string is safe to render as
// markup.
//
// Example:
//
//	facet.WriteSummary(9, request, groups, []facet.SummaryRule{
//	    facet.CategoriesRule("Categories"),
//	})
//	// "9 results found in the category <em>collaboration</em>"
func WriteSummary(total int, request *Request, groups []FilterGroup, rules []SummaryRule) string {
	sentence := fmt.Sprintf("%d results found", total)
	if total == 1 {
		sentence = "1 result found"
	}

	var fragments []string
	for _, group := range groups {
		labels := activeFilterLabels(group, request)
		if len(labels) == 0 {
			continue
		}

		fragments = append(fragments, writeFragment(group.Label, labels, rules))
	}

	if len(fragments) == 0 {
		return sentence
	}

	return sentence + " " + ListAsSentence(fragments, "and")
}

// activeFilterLabels collects the display labels of the group's filters
// that are active in the request, in declared filter order.
func activeFilterLabels(group FilterGroup, request *Request) []string {
	filters := request.Filters()

	var labels []string
	for _, f := range group.Filters {
		p, err := filters.Get(f.Name)
		if err != nil {
			continue
		}

		for _, v := range p.Values() {
			if v == f.Value {
				labels = append(labels, f.Label)
				break
			}
		}
	}

	return labels
}

func writeFragment(group string, labels []string, rules []SummaryRule) string {
	rule, ok := ruleForGroup(group, rules)
	if !ok {
		return ListAsSentence(emphasize(labels), "or")
	}

	if rule.FilterPreposition {
		parts := make([]string, 0, len(labels))
		for _, label := range labels {
			parts = append(parts, fmt.Sprintf("with %s %s", article(label), emphasizeOne(label)))
		}
		return ListAsSentence(parts, rule.Conjunction)
	}

	form := rule.Singular
	if len(labels) > 1 {
		form = rule.Plural
	}

	return fmt.Sprintf("%s %s %s",
		rule.Preposition,
		form,
		ListAsSentence(emphasize(labels), rule.Conjunction))
}

func ruleForGroup(group string, rules []SummaryRule) (SummaryRule, bool) {
	for _, rule := range rules {
		if rule.Group == group {
			return rule, true
		}
	}

	return SummaryRule{}, false
}

func emphasize(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		out = append(out, emphasizeOne(label))
	}

	return out
}

func emphasizeOne(label string) string {
	return summaryEmphasisPre + html.EscapeString(label) + summaryEmphasisPost
}

// article picks the indefinite article for a label.
func article(label string) string {
	if label == "" {
		return "a"
	}

	switch label[0] {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return "an"
	}

	return "a"
}
