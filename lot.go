package facet

import (
	"fmt"
	"strings"
)

// Lot is a procurement category a service belongs to.
//
// The marketplace has a fixed, small set of real lots, plus the synthetic
// LotAll which means "only show filters valid across every real lot".
type Lot string

const (
	LotSaaS Lot = "saas"
	LotPaaS Lot = "paas"
	LotIaaS Lot = "iaas"
	LotSCS  Lot = "scs"

	// LotAll is not a real lot; it selects the intersection
	// of filters valid for every real lot.
	LotAll Lot = "all"
)

// ErrUnknownLot signals a lot code that is not part of the enumeration.
//
// In result presentation this is a hard failure: an unrecognized lot in a
// search hit means the index and the frontend have drifted apart, and
// rendering garbage would hide the deployment bug.
var ErrUnknownLot = fmt.Errorf("unknown lot")

// RealLots returns the real lot codes in their canonical order.
func RealLots() []Lot {
	return []Lot{LotSaaS, LotPaaS, LotIaaS, LotSCS}
}

// ParseLot parses a lot token from a request or content file.
//
// It accepts the four real lot codes and "all", case-insensitively.
// Anything else, including comma-joined multi-lot strings, is rejected.
//
// Example:
//
//	lot, ok := facet.ParseLot("saas")
//	if !ok {
//	    // not a recognized lot token
//	}
func ParseLot(s string) (Lot, bool) {
	switch Lot(strings.ToLower(strings.TrimSpace(s))) {
	case LotSaaS:
		return LotSaaS, true
	case LotPaaS:
		return LotPaaS, true
	case LotIaaS:
		return LotIaaS, true
	case LotSCS:
		return LotSCS, true
	case LotAll:
		return LotAll, true
	}

	return "", false
}

// ParseRealLot parses a lot token, rejecting the synthetic "all" value.
func ParseRealLot(s string) (Lot, bool) {
	lot, ok := ParseLot(s)
	if !ok || lot == LotAll {
		return "", false
	}

	return lot, true
}

// Name returns the display name for a lot.
//
// Example:
//
//	fmt.Println(facet.LotSaaS.Name()) // "Software as a Service"
func (l Lot) Name() string {
	switch l {
	case LotSaaS:
		return "Software as a Service"
	case LotPaaS:
		return "Platform as a Service"
	case LotIaaS:
		return "Infrastructure as a Service"
	case LotSCS:
		return "Specialist Cloud Services"
	case LotAll:
		return "All categories"
	}

	return string(l)
}

// lotAcronyms maps the acronym form used in search documents
// to the lot it denotes.
var lotAcronyms = map[string]Lot{
	"SaaS": LotSaaS,
	"PaaS": LotPaaS,
	"IaaS": LotIaaS,
	"SCS":  LotSCS,
}

// ExpandLotAcronym expands a lot acronym from a search document
// (IaaS, PaaS, SaaS, SCS) to its full display name.
//
// An unrecognized acronym returns ErrUnknownLot: it indicates data or
// schema drift between the search index and this frontend, and must not
// silently render.
func ExpandLotAcronym(acronym string) (string, error) {
	lot, ok := lotAcronyms[acronym]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLot, acronym)
	}

	return lot.Name(), nil
}
