package models

import (
	"fmt"
	"sort"
	"strings"
)

// MatchKind distinguishes peaks inside a published interval from peaks
// that only fall within the matching tolerance of one.
type MatchKind string

const (
	MatchExact       MatchKind = "exact"
	MatchApproximate MatchKind = "approximate"
)

// PeakMatch associates one detected peak with one reference range.
// Deviation is 0 for exact matches, otherwise the distance from the peak
// to the nearest interval boundary.
type PeakMatch struct {
	Peak            DetectedPeak `json:"peak"`
	BondType        string       `json:"bondType"`
	FunctionalGroup string       `json:"functionalGroup"`
	Compound        string       `json:"compound,omitempty"`
	Kind            MatchKind    `json:"kind"`
	Deviation       float64      `json:"deviation"`
}

// GroupMatches collects every match of one (bond type, functional group)
// pair, in ascending peak wavenumber order.
type GroupMatches struct {
	BondType        string      `json:"bondType"`
	FunctionalGroup string      `json:"functionalGroup"`
	Matches         []PeakMatch `json:"matches"`
}

// CorrelationReport is the externally visible result of peak correlation:
// matches grouped by bond type then functional group in the reference
// table's declared order, plus the peaks nothing matched.
type CorrelationReport struct {
	Groups    []GroupMatches `json:"groups"`
	Unmatched []DetectedPeak `json:"unmatched"`
}

// TotalMatches returns the number of peak-range associations in the report.
func (r *CorrelationReport) TotalMatches() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Matches)
	}
	return n
}

// maxPeaksPerBond caps how many peak positions one bond-type sentence
// lists. A noisy spectrum can match dozens of peaks to the same bond;
// only the lowest wavenumbers are rendered.
const maxPeaksPerBond = 6

// RenderLines formats the report as the human-readable sentences exposed in
// the API response, one line per bond type, wavenumbers ascending and
// capped at maxPeaksPerBond positions per sentence.
func (r *CorrelationReport) RenderLines() []string {
	if len(r.Groups) == 0 {
		return []string{"No peaks were detected or matched to the reference data."}
	}

	type bondAgg struct {
		wavenumbers []float64
		groups      []string
		seenGroup   map[string]bool
		seenWn      map[float64]bool
		approxOnly  bool
	}

	var order []string
	byBond := map[string]*bondAgg{}

	for _, g := range r.Groups {
		agg, ok := byBond[g.BondType]
		if !ok {
			agg = &bondAgg{
				seenGroup:  map[string]bool{},
				seenWn:     map[float64]bool{},
				approxOnly: true,
			}
			byBond[g.BondType] = agg
			order = append(order, g.BondType)
		}
		if !agg.seenGroup[g.FunctionalGroup] && g.FunctionalGroup != "" {
			agg.seenGroup[g.FunctionalGroup] = true
			agg.groups = append(agg.groups, g.FunctionalGroup)
		}
		for _, m := range g.Matches {
			if m.Kind == MatchExact {
				agg.approxOnly = false
			}
			if !agg.seenWn[m.Peak.Wavenumber] {
				agg.seenWn[m.Peak.Wavenumber] = true
				agg.wavenumbers = append(agg.wavenumbers, m.Peak.Wavenumber)
			}
		}
	}

	lines := make([]string, 0, len(order))
	for _, bond := range order {
		agg := byBond[bond]
		sort.Float64s(agg.wavenumbers)
		if len(agg.wavenumbers) > maxPeaksPerBond {
			agg.wavenumbers = agg.wavenumbers[:maxPeaksPerBond]
		}
		wns := make([]string, len(agg.wavenumbers))
		for i, wn := range agg.wavenumbers {
			wns[i] = fmt.Sprintf("%.2f cm⁻¹", wn)
		}
		wnList := strings.Join(wns, ", ")
		fgList := strings.Join(agg.groups, ", ")

		if agg.approxOnly {
			lines = append(lines, fmt.Sprintf(
				"The peak positions at %s are approximately assigned to the %s bond type found in functional group(s): %s.",
				wnList, bond, fgList))
		} else {
			lines = append(lines, fmt.Sprintf(
				"The peak positions at %s represent the %s bond type in functional group(s): %s.",
				wnList, bond, fgList))
		}
	}

	return lines
}
