package ir

import (
	"sort"

	"spectroscan/models"
	"spectroscan/reference"
)

// Match correlates detected peaks against the reference table and builds
// the grouped report. For a peak P every range R with
// R.Low-tol <= P.Wavenumber <= R.High+tol is a candidate: exact when P
// falls inside [R.Low, R.High] (boundaries included), approximate when it
// only falls within the tolerance margin. All qualifying candidates are
// kept: overlapping bond absorptions are domain-correct, so a peak may
// legitimately belong to several functional groups at once. A peak with
// no candidate lands in the unmatched list, never both.
//
// The report's group order follows the reference table's declared row
// order, not peak-detection order, so output is deterministic for a given
// table.
func Match(peaks []models.DetectedPeak, table *reference.Table, tolerance float64) models.CorrelationReport {
	report := models.CorrelationReport{
		Groups:    []models.GroupMatches{},
		Unmatched: []models.DetectedPeak{},
	}

	type groupKey struct {
		bond  string
		group string
	}
	groupIdx := map[groupKey]int{}

	for _, peak := range peaks {
		candidates := matchPeak(peak, table, tolerance)
		if len(candidates) == 0 {
			report.Unmatched = append(report.Unmatched, peak)
			continue
		}

		for _, m := range candidates {
			key := groupKey{m.BondType, m.FunctionalGroup}
			idx, ok := groupIdx[key]
			if !ok {
				idx = len(report.Groups)
				groupIdx[key] = idx
				report.Groups = append(report.Groups, models.GroupMatches{
					BondType:        m.BondType,
					FunctionalGroup: m.FunctionalGroup,
				})
			}
			report.Groups[idx].Matches = append(report.Groups[idx].Matches, m)
		}
	}

	// peaks arrive in ascending wavenumber order, but group creation order
	// tracks peak order; re-anchor it to the table's declared order
	sortGroupsByTableOrder(&report, table)

	return report
}

// matchPeak returns every qualifying match for one peak, exact matches
// first, then by smallest boundary deviation.
func matchPeak(peak models.DetectedPeak, table *reference.Table, tolerance float64) []models.PeakMatch {
	var matches []models.PeakMatch

	for _, r := range table.Ranges {
		wn := peak.Wavenumber
		if wn < r.Low-tolerance || wn > r.High+tolerance {
			continue
		}

		kind := models.MatchApproximate
		deviation := 0.0
		if r.Contains(wn) {
			kind = models.MatchExact
		} else if wn < r.Low {
			deviation = r.Low - wn
		} else {
			deviation = wn - r.High
		}

		matches = append(matches, models.PeakMatch{
			Peak:            peak,
			BondType:        r.BondType,
			FunctionalGroup: r.FunctionalGroup,
			Compound:        r.Compound,
			Kind:            kind,
			Deviation:       deviation,
		})
	}

	// exact before approximate, then smallest deviation; stable so that
	// equal candidates keep table order
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Kind != matches[j].Kind {
			return matches[i].Kind == models.MatchExact
		}
		return matches[i].Deviation < matches[j].Deviation
	})

	return matches
}

// sortGroupsByTableOrder reorders report groups to the first position at
// which each (bond type, functional group) pair appears in the table.
func sortGroupsByTableOrder(report *models.CorrelationReport, table *reference.Table) {
	type groupKey struct {
		bond  string
		group string
	}

	rank := map[groupKey]int{}
	for i, r := range table.Ranges {
		key := groupKey{r.BondType, r.FunctionalGroup}
		if _, ok := rank[key]; !ok {
			rank[key] = i
		}
	}

	sort.SliceStable(report.Groups, func(i, j int) bool {
		gi := report.Groups[i]
		gj := report.Groups[j]
		return rank[groupKey{gi.BondType, gi.FunctionalGroup}] < rank[groupKey{gj.BondType, gj.FunctionalGroup}]
	})
}
