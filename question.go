package facet

import "strings"

// QuestionType is the closed set of question kinds that drive
// filter rendering and query grouping.
type QuestionType int

const (
	// OtherQuestion is any question type without filter semantics.
	OtherQuestion QuestionType = iota
	// BooleanQuestion has an implied single "true" value and no options.
	BooleanQuestion
	// RadiosQuestion is single-choice; multiple selected values
	// combine with OR semantics.
	RadiosQuestion
	// CheckboxesQuestion is multi-choice; multiple selected values
	// combine with AND semantics.
	CheckboxesQuestion
)

// ParseQuestionType maps a content-file type string onto the enumeration.
//
// Unknown strings map to OtherQuestion rather than failing; question
// content is externally authored and may carry types this core has no
// filter semantics for.
func ParseQuestionType(s string) QuestionType {
	switch s {
	case "boolean":
		return BooleanQuestion
	case "radios":
		return RadiosQuestion
	case "checkboxes":
		return CheckboxesQuestion
	}

	return OtherQuestion
}

func (t QuestionType) String() string {
	switch t {
	case BooleanQuestion:
		return "boolean"
	case RadiosQuestion:
		return "radios"
	case CheckboxesQuestion:
		return "checkboxes"
	}

	return "other"
}

// Option is one selectable answer to a radios or checkboxes question.
type Option struct {
	Label string
	Value string
}

// FilterValue processes an option into a search term value.
//
// The search API does not allow commas in filter values, because commas
// separate the terms of an OR search. The indexer strips and lowercases
// values the same way.
func (o Option) FilterValue() string {
	v := o.Value
	if v == "" {
		v = o.Label
	}

	return strings.ReplaceAll(strings.ToLower(v), ",", "")
}

// Question is a single externally-authored question definition.
//
// Questions are immutable once loaded; identity is the ID. The zero value
// (plus an ID) is a valid question: missing content files resolve to an
// empty question rather than an error.
type Question struct {
	ID            string
	Type          QuestionType
	Text          string
	FilterLabel   string
	Options       []Option
	DependsOnLots []Lot
}

// Label returns the display label for a boolean-style filter derived
// from this question, preferring the filter-specific label.
func (q Question) Label() string {
	if q.FilterLabel != "" {
		return q.FilterLabel
	}

	return q.Text
}

// AppliesToLot reports whether the question is valid for the given lot.
func (q Question) AppliesToLot(lot Lot) bool {
	for _, l := range q.DependsOnLots {
		if l == lot {
			return true
		}
	}

	return false
}

// Section is an ordered group of questions from the content manifest.
type Section struct {
	ID            string
	Name          string
	Questions     []Question
	DependsOnLots []Lot
}

// sectionLots unions the questions' lot dependencies, de-duplicated,
// preserving first-seen order.
func sectionLots(questions []Question) []Lot {
	var lots []Lot
	seen := make(map[Lot]bool)

	for _, q := range questions {
		for _, l := range q.DependsOnLots {
			if !seen[l] {
				seen[l] = true
				lots = append(lots, l)
			}
		}
	}

	return lots
}
