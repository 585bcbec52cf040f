package facet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ListAsSentence(t *testing.T) {
	table := []struct {
		name  string
		items []string
		conj  string
		out   string
	}{
		{"empty", nil, "and", ""},
		{"one item", []string{"A"}, "and", "A"},
		{"two items", []string{"A", "B"}, "and", "A and B"},
		{"three items", []string{"A", "B", "C"}, "and", "A, B and C"},
		{"or conjunction", []string{"A", "B"}, "or", "A or B"},
	}

	for _, tt := range table {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.out, ListAsSentence(tt.items, tt.conj))
		})
	}
}

func summaryGroups() []FilterGroup {
	return []FilterGroup{
		{
			Label: "Categories",
			Filters: []Filter{
				{Label: "collaboration", Name: "serviceTypes", Value: "collaboration"},
				{Label: "energy and environment", Name: "serviceTypes", Value: "energy and environment"},
				{Label: "healthcare", Name: "serviceTypes", Value: "healthcare"},
			},
		},
		{
			Label: "Pricing",
			Filters: []Filter{
				{Label: "Free trial option", Name: "trialOption", Value: "true"},
				{Label: "educational pricing", Name: "educationPricing", Value: "true"},
			},
		},
	}
}

func summaryRules() []SummaryRule {
	return []SummaryRule{
		CategoriesRule("Categories"),
		FeaturesRule("Pricing"),
	}
}

func Test_WriteSummary_Pluralization(t *testing.T) {
	groups := summaryGroups()

	assert.Equal(t, "1 result found",
		WriteSummary(1, NewRequest(), groups, summaryRules()))
	assert.Equal(t, "0 results found",
		WriteSummary(0, NewRequest(), groups, summaryRules()))
	assert.Equal(t, "9 results found",
		WriteSummary(9, NewRequest(), groups, summaryRules()))
}

func Test_WriteSummary_SingleCategory(t *testing.T) {
	request := NewRequest(NewParameter("serviceTypes", "collaboration"))

	assert.Equal(t,
		"9 results found in the category <em>collaboration</em>",
		WriteSummary(9, request, summaryGroups(), summaryRules()))
}

func Test_WriteSummary_TwoCategories(t *testing.T) {
	request := NewRequest(
		NewParameter("serviceTypes", "collaboration", "energy and environment"))

	assert.Equal(t,
		"9 results found in the categories <em>collaboration</em> and <em>energy and environment</em>",
		WriteSummary(9, request, summaryGroups(), summaryRules()))
}

func Test_WriteSummary_ThreeCategories(t *testing.T) {
	request := NewRequest(
		NewParameter("serviceTypes", "collaboration", "energy and environment", "healthcare"))

	assert.Equal(t,
		"9 results found in the categories <em>collaboration</em>, "+
			"<em>energy and environment</em> and <em>healthcare</em>",
		WriteSummary(9, request, summaryGroups(), summaryRules()))
}

func Test_WriteSummary_BooleanFilters(t *testing.T) {
	request := NewRequest(
		NewParameter("trialOption", "true"),
		NewParameter("educationPricing", "true"))

	assert.Equal(t,
		"9 results found with a <em>Free trial option</em> and with an <em>educational pricing</em>",
		WriteSummary(9, request, summaryGroups(), summaryRules()))
}

func Test_WriteSummary_MultipleGroups(t *testing.T) {
	request := NewRequest(
		NewParameter("serviceTypes", "collaboration"),
		NewParameter("trialOption", "true"))

	assert.Equal(t,
		"9 results found in the category <em>collaboration</em> "+
			"and with a <em>Free trial option</em>",
		WriteSummary(9, request, summaryGroups(), summaryRules()))
}

func Test_WriteSummary_UnruledGroupJoinsWithOr(t *testing.T) {
	groups := []FilterGroup{{
		Label: "Support",
		Filters: []Filter{
			{Label: "phone", Name: "supportTypes", Value: "phone"},
			{Label: "onsite", Name: "supportTypes", Value: "onsite"},
		},
	}}

	request := NewRequest(NewParameter("supportTypes", "phone", "onsite"))

	assert.Equal(t,
		"9 results found <em>phone</em> or <em>onsite</em>",
		WriteSummary(9, request, groups, nil))
}

func Test_WriteSummary_EscapesLabels(t *testing.T) {
	groups := []FilterGroup{{
		Label: "Categories",
		Filters: []Filter{
			{Label: "R&D", Name: "serviceTypes", Value: "r&d"},
		},
	}}

	request := NewRequest(NewParameter("serviceTypes", "r&d"))

	assert.Equal(t,
		"9 results found in the category <em>R&amp;D</em>",
		WriteSummary(9, request, groups, []SummaryRule{CategoriesRule("Categories")}))
}

func Test_Article(t *testing.T) {
	assert.Equal(t, "a", article("free trial"))
	assert.Equal(t, "an", article("educational discount"))
	assert.Equal(t, "a", article(""))
}
