package ingest

import (
	"strconv"
	"strings"
	"time"

	"salespulse/pkg/contracts/domain"
)

// RejectReason classifies why a row was dropped during cleaning. Rows are
// rejected silently (the export format is noisy by nature), but the reasons
// are counted so the drop rate stays observable.
type RejectReason string

const (
	RejectMissingKey     RejectReason = "missing_key_field"
	RejectBadDate        RejectReason = "unparsable_date"
	RejectMissingNumeric RejectReason = "missing_numeric"
	RejectNonPositive    RejectReason = "non_positive_total"
	RejectNegativeCogs   RejectReason = "negative_cogs"
	RejectCogsPctRange   RejectReason = "cogs_pct_out_of_range"
)

// CleanStats counts dropped rows per rejection reason for one file.
type CleanStats map[RejectReason]int

// Total returns the number of rows dropped across all reasons.
func (s CleanStats) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}

// cleanRows applies the validation pipeline to every data row, in order:
//
//	(a) drop if Menu, Sales Date or Total is blank
//	(b) coerce Sales Date, drop on failure
//	(c) coerce numeric columns, unparsable cells become missing
//	(d) drop if Sales Date, Total, COGS Total or Margin is missing
//	(e) drop if Total <= 0
//	(f) drop if COGS Total < 0
//	(g) drop if COGS Total (%) is present and outside [0, 100]
//
// Discount Total defaults to 0 when missing instead of dropping the row.
// Derived time fields and MarginPct are left zero here; the combiner fills
// them uniformly over the merged set.
func cleanRows(branch string, rows [][]string, cols columnMap) ([]domain.SalesTransaction, CleanStats) {
	txs := make([]domain.SalesTransaction, 0, len(rows))
	stats := make(CleanStats)

	for _, row := range rows {
		menu := cell(row, cols, colMenu)
		rawDate := cell(row, cols, colSalesDate)
		rawTotal := cell(row, cols, colTotal)
		if menu == "" || rawDate == "" || rawTotal == "" {
			stats[RejectMissingKey]++
			continue
		}

		salesDate, ok := parseTimestamp(rawDate)
		if !ok {
			stats[RejectBadDate]++
			continue
		}

		qty, _ := parseNumber(cell(row, cols, colQty))
		price, _ := parseNumber(cell(row, cols, colPrice))
		total, totalOK := parseNumber(rawTotal)
		cogsTotal, cogsOK := parseNumber(cell(row, cols, colCogsTotal))
		margin, marginOK := parseNumber(cell(row, cols, colMargin))
		if !totalOK || !cogsOK || !marginOK {
			stats[RejectMissingNumeric]++
			continue
		}

		if total <= 0 {
			stats[RejectNonPositive]++
			continue
		}
		if cogsTotal < 0 {
			stats[RejectNegativeCogs]++
			continue
		}

		cogsPct, cogsPctOK := parseNumber(cell(row, cols, colCogsPct))
		if cogsPctOK && (cogsPct < 0 || cogsPct > 100) {
			stats[RejectCogsPctRange]++
			continue
		}

		discount, discountOK := parseNumber(cell(row, cols, colDiscountTotal))
		if !discountOK {
			discount = 0
		}

		txs = append(txs, domain.SalesTransaction{
			Branch:        branch,
			SalesNumber:   cell(row, cols, colSalesNumber),
			SalesDate:     salesDate,
			Menu:          menu,
			MenuCategory:  cell(row, cols, colMenuCategory),
			Qty:           qty,
			Price:         price,
			Total:         total,
			DiscountTotal: discount,
			CogsTotal:     cogsTotal,
			CogsPct:       cogsPct,
			Margin:        margin,
		})
	}

	return txs, stats
}

// cell returns the trimmed value of a named column in a row, or "" when the
// column is unmapped or the row is too short.
func cell(row []string, cols columnMap, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseNumber coerces a cell to a float. Thousands separators are stripped;
// blank or unparsable cells report missing.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// timestampLayouts are the formats the exporter has been observed to emit,
// tried in order. excelize returns formatted cell text, so both ISO-ish and
// display formats show up across files.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"01-02-06 15:04",
	"2006/01/02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// excelEpoch is day zero of Excel's 1900 date system.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// parseTimestamp coerces a cell to a timestamp, accepting the known display
// layouts and raw Excel serial day numbers.
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		days := int(serial)
		frac := serial - float64(days)
		t := excelEpoch.AddDate(0, 0, days).
			Add(time.Duration(frac * 24 * float64(time.Hour)))
		return t, true
	}
	return time.Time{}, false
}
