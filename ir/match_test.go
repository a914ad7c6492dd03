package ir

import (
	"testing"

	"spectroscan/models"
	"spectroscan/reference"
)

func peakAt(wn float64) models.DetectedPeak {
	return models.DetectedPeak{Wavenumber: wn, Absorbance: 0.5, Transmittance: 31.6, Prominence: 0.1}
}

func carbonylTable() *reference.Table {
	return &reference.Table{Ranges: []reference.Range{
		{BondType: "C=O", FunctionalGroup: "carbonyl", Low: 1700, High: 1750, Center: 1725},
	}}
}

func TestMatchInsideRangeIsExact(t *testing.T) {
	report := Match([]models.DetectedPeak{peakAt(1745)}, carbonylTable(), 10)

	if len(report.Groups) != 1 || len(report.Groups[0].Matches) != 1 {
		t.Fatalf("want exactly one match, got %+v", report.Groups)
	}
	m := report.Groups[0].Matches[0]
	if m.Kind != models.MatchExact {
		t.Errorf("kind = %v, want exact", m.Kind)
	}
	if m.Deviation != 0 {
		t.Errorf("deviation = %v, want 0", m.Deviation)
	}
	if len(report.Unmatched) != 0 {
		t.Errorf("unmatched = %v, want empty", report.Unmatched)
	}
}

func TestMatchBoundaryIsExact(t *testing.T) {
	for _, wn := range []float64{1700, 1750} {
		report := Match([]models.DetectedPeak{peakAt(wn)}, carbonylTable(), 10)
		if len(report.Groups) != 1 {
			t.Fatalf("peak at %v: no match", wn)
		}
		if kind := report.Groups[0].Matches[0].Kind; kind != models.MatchExact {
			t.Errorf("peak at boundary %v: kind = %v, want exact", wn, kind)
		}
	}
}

func TestMatchWithinToleranceIsApproximate(t *testing.T) {
	report := Match([]models.DetectedPeak{peakAt(1755)}, carbonylTable(), 10)

	if len(report.Groups) != 1 || len(report.Groups[0].Matches) != 1 {
		t.Fatalf("want one approximate match, got %+v", report.Groups)
	}
	m := report.Groups[0].Matches[0]
	if m.Kind != models.MatchApproximate {
		t.Errorf("kind = %v, want approximate", m.Kind)
	}
	if m.Deviation != 5 {
		t.Errorf("deviation = %v, want 5", m.Deviation)
	}
}

func TestMatchToleranceBoundary(t *testing.T) {
	// at exactly high+tolerance the peak still matches, one unit past it doesn't
	report := Match([]models.DetectedPeak{peakAt(1760)}, carbonylTable(), 10)
	if len(report.Groups) != 1 {
		t.Fatalf("peak at high+tolerance should match, got %+v", report)
	}
	if report.Groups[0].Matches[0].Kind != models.MatchApproximate {
		t.Errorf("kind = %v, want approximate", report.Groups[0].Matches[0].Kind)
	}

	report = Match([]models.DetectedPeak{peakAt(1761)}, carbonylTable(), 10)
	if len(report.Groups) != 0 {
		t.Fatalf("peak past tolerance matched: %+v", report.Groups)
	}
	if len(report.Unmatched) != 1 {
		t.Fatalf("peak past tolerance missing from unmatched list")
	}
}

func TestMatchUnmatchedPeak(t *testing.T) {
	report := Match([]models.DetectedPeak{peakAt(1770)}, carbonylTable(), 10)
	if len(report.Groups) != 0 {
		t.Errorf("groups = %+v, want none", report.Groups)
	}
	if len(report.Unmatched) != 1 || report.Unmatched[0].Wavenumber != 1770 {
		t.Errorf("unmatched = %+v, want the 1770 peak", report.Unmatched)
	}
}

func TestMatchKeepsAllOverlappingGroups(t *testing.T) {
	// overlapping absorptions: one peak may belong to several groups
	table := &reference.Table{Ranges: []reference.Range{
		{BondType: "C=O", FunctionalGroup: "carbonyl", Low: 1700, High: 1750, Center: 1725},
		{BondType: "C=C", FunctionalGroup: "alkene", Low: 1620, High: 1710, Center: 1665},
	}}

	report := Match([]models.DetectedPeak{peakAt(1705)}, table, 10)
	if len(report.Groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2 (both absorb here)", len(report.Groups))
	}
}

func TestMatchTieBreakOrdering(t *testing.T) {
	table := &reference.Table{Ranges: []reference.Range{
		{BondType: "A", FunctionalGroup: "near-approx", Low: 1600, High: 1690, Center: 1645},
		{BondType: "B", FunctionalGroup: "exact", Low: 1695, High: 1750, Center: 1722},
		{BondType: "C", FunctionalGroup: "far-approx", Low: 1710, High: 1712, Center: 1711},
	}}

	// 1701 sits inside B (exact), 9 below C's low and 11 above A's high
	matches := matchPeak(peakAt(1701), table, 12)
	if len(matches) != 3 {
		t.Fatalf("len(matches) = %d, want 3", len(matches))
	}
	if matches[0].Kind != models.MatchExact || matches[0].BondType != "B" {
		t.Errorf("first match = %+v, want exact B", matches[0])
	}
	if matches[1].BondType != "C" || matches[1].Deviation != 9 {
		t.Errorf("second match = %+v, want C with deviation 9", matches[1])
	}
	if matches[2].BondType != "A" || matches[2].Deviation != 11 {
		t.Errorf("third match = %+v, want A with deviation 11", matches[2])
	}
}

func TestMatchTotality(t *testing.T) {
	table := &reference.Table{Ranges: []reference.Range{
		{BondType: "O-H", FunctionalGroup: "hydroxyl", Low: 3200, High: 3550, Center: 3375},
		{BondType: "C=O", FunctionalGroup: "carbonyl", Low: 1700, High: 1750, Center: 1725},
	}}

	peaks := []models.DetectedPeak{
		peakAt(1000), peakAt(1725), peakAt(3300), peakAt(2500),
	}
	report := Match(peaks, table, 10)

	seen := map[float64]int{}
	for _, g := range report.Groups {
		for _, m := range g.Matches {
			seen[m.Peak.Wavenumber]++
		}
	}
	for _, p := range report.Unmatched {
		if seen[p.Wavenumber] > 0 {
			t.Errorf("peak %v both matched and unmatched", p.Wavenumber)
		}
		seen[p.Wavenumber]++
	}

	for _, p := range peaks {
		if seen[p.Wavenumber] == 0 {
			t.Errorf("peak %v missing from report", p.Wavenumber)
		}
	}
	if len(report.Unmatched) != 2 {
		t.Errorf("len(unmatched) = %d, want 2", len(report.Unmatched))
	}
}

func TestMatchGroupsFollowTableOrder(t *testing.T) {
	table := &reference.Table{Ranges: []reference.Range{
		{BondType: "O-H", FunctionalGroup: "hydroxyl", Low: 3200, High: 3550, Center: 3375},
		{BondType: "C=O", FunctionalGroup: "carbonyl", Low: 1700, High: 1750, Center: 1725},
	}}

	// peaks ascend, so carbonyl is seen first; groups must still follow
	// the table's declared order
	peaks := []models.DetectedPeak{peakAt(1725), peakAt(3300)}
	report := Match(peaks, table, 10)

	if len(report.Groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(report.Groups))
	}
	if report.Groups[0].BondType != "O-H" || report.Groups[1].BondType != "C=O" {
		t.Errorf("group order = %s, %s; want O-H, C=O",
			report.Groups[0].BondType, report.Groups[1].BondType)
	}
}
