// Package reference loads the IR correlation table: the curated mapping of
// bond types and functional groups to characteristic wavenumber ranges that
// detected peaks are matched against.
package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// centerSpread expands a bare center wavenumber (no range, no uncertainty)
// into an interval of ±5% around it.
const centerSpread = 0.05

// headerSimilarityThreshold is the Jaro-Winkler score above which a column
// header is accepted as a fuzzy spelling of a known header.
const headerSimilarityThreshold = 0.92

// ErrBadHeader is returned when the table's columns cannot be identified.
// This is the one fatal load error: a table whose layout is unknown cannot
// safely drive matching.
var ErrBadHeader = errors.New("reference: unresolvable table headers")

// Range is one row of the correlation table normalized to an explicit
// wavenumber interval. Low <= High always holds.
type Range struct {
	BondType        string
	FunctionalGroup string
	Compound        string
	Low             float64
	High            float64
	Center          float64
}

// Contains reports whether wn falls inside the published interval,
// boundaries included.
func (r Range) Contains(wn float64) bool {
	return r.Low <= wn && wn <= r.High
}

// Table is an immutable, ordered correlation table. Row order is the
// table's declared order and drives deterministic report grouping.
type Table struct {
	Ranges  []Range
	Skipped int // malformed rows dropped during parsing
}

// Len returns the number of usable ranges.
func (t *Table) Len() int { return len(t.Ranges) }

// BondTypes returns the distinct bond types in declared order.
func (t *Table) BondTypes() []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range t.Ranges {
		if !seen[r.BondType] {
			seen[r.BondType] = true
			out = append(out, r.BondType)
		}
	}
	return out
}

var headerSynonyms = map[string][]string{
	"wavenumber": {"wavenumbers (cm-1)", "wavenumbers", "wavenumber", "wavenumber (cm-1)", "cm-1", "1/cm", "cm^-1"},
	"bond":       {"bond type", "bond", "bond types"},
	"group":      {"functional group", "functional groups", "group"},
	"compound":   {"compound", "compounds", "compound class"},
}

// resolveColumns maps logical column names to indices in the header row.
// Exact (case/whitespace-insensitive) synonyms are tried first, then a
// Jaro-Winkler similarity fallback absorbs minor spelling drift.
func resolveColumns(header []string) map[string]int {
	jw := metrics.NewJaroWinkler()
	cols := map[string]int{}

	for i, raw := range header {
		cell := strings.ToLower(strings.TrimSpace(raw))
		if cell == "" {
			continue
		}
		for key, names := range headerSynonyms {
			if _, taken := cols[key]; taken {
				continue
			}
			for _, name := range names {
				if cell == name || strutil.Similarity(cell, name, jw) >= headerSimilarityThreshold {
					cols[key] = i
					break
				}
			}
		}
	}

	return cols
}

// parseInterval converts the wavenumber cell of one row into (low, high,
// center). Accepted forms: "low-high", "center ± uncertainty" and a bare
// center, which is expanded by centerSpread.
func parseInterval(cell string) (low, high, center float64, err error) {
	s := strings.TrimSpace(strings.ReplaceAll(cell, "cm-1", ""))

	switch {
	case strings.Contains(s, "-"):
		parts := strings.SplitN(s, "-", 2)
		low, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("bad lower bound %q: %v", parts[0], err)
		}
		high, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("bad upper bound %q: %v", parts[1], err)
		}
		if low > high {
			low, high = high, low
		}
		return low, high, (low + high) / 2, nil

	case strings.Contains(s, "±"):
		parts := strings.SplitN(s, "±", 2)
		center, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("bad center %q: %v", parts[0], err)
		}
		unc, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("bad uncertainty %q: %v", parts[1], err)
		}
		if unc < 0 {
			unc = -unc
		}
		return center - unc, center + unc, center, nil

	default:
		center, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("bad wavenumber %q: %v", cell, err)
		}
		return center * (1 - centerSpread), center * (1 + centerSpread), center, nil
	}
}

// ParseTable reads the correlation table from CSV data. Malformed rows are
// skipped and counted, never fatal; only unidentifiable headers abort.
func ParseTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reference: failed to read header row: %v", err)
	}

	cols := resolveColumns(header)
	if _, ok := cols["wavenumber"]; !ok {
		return nil, fmt.Errorf("%w: no wavenumber column in %v", ErrBadHeader, header)
	}
	if _, ok := cols["bond"]; !ok {
		return nil, fmt.Errorf("%w: no bond type column in %v", ErrBadHeader, header)
	}
	if _, ok := cols["group"]; !ok {
		return nil, fmt.Errorf("%w: no functional group column in %v", ErrBadHeader, header)
	}

	table := &Table{}
	rowNum := 1

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			slog.Warn("reference: skipping unreadable row", "row", rowNum, "error", err)
			table.Skipped++
			continue
		}

		cell := func(key string) string {
			idx, ok := cols[key]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		wnCell := cell("wavenumber")
		if wnCell == "" {
			slog.Warn("reference: skipping row with empty wavenumber", "row", rowNum)
			table.Skipped++
			continue
		}

		low, high, center, err := parseInterval(wnCell)
		if err != nil {
			slog.Warn("reference: skipping malformed wavenumber", "row", rowNum, "value", wnCell, "error", err)
			table.Skipped++
			continue
		}

		table.Ranges = append(table.Ranges, Range{
			BondType:        cell("bond"),
			FunctionalGroup: cell("group"),
			Compound:        cell("compound"),
			Low:             low,
			High:            high,
			Center:          center,
		})
	}

	return table, nil
}

// LoadFile parses the correlation table from a CSV file on disk.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reference: failed to open table %q: %v", path, err)
	}
	defer f.Close()

	table, err := ParseTable(f)
	if err != nil {
		return nil, err
	}

	slog.Info("reference table loaded", "path", path, "ranges", table.Len(), "skipped", table.Skipped)
	return table, nil
}
