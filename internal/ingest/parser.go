// Package ingest turns one raw branch spreadsheet into a validated
// BranchDataset. The upstream point-of-sale exporter writes a
// variable-length preamble (title, branch name, generation metadata) before
// the real header row, so the parser has to locate the header instead of
// assuming a fixed offset.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"salespulse/pkg/contracts/domain"
)

const (
	// headerScanRows is how many leading rows are tried as candidate
	// header rows before falling back.
	headerScanRows = 20

	// fallbackHeaderRow is the absolute 0-based row index of the header in
	// the exporter's default layout (header on sheet row 14). Used when the
	// scan finds no candidate.
	fallbackHeaderRow = 13

	// branchCellRow is the 0-based row of the branch-name metadata cell
	// (cell A2, first column).
	branchCellRow = 1

	// UnknownBranch labels files whose branch metadata cell is blank.
	// A missing branch name alone never fails ingestion.
	UnknownBranch = "Unknown Branch"
)

// Column names as they appear in the source header row.
const (
	colSalesNumber   = "Sales Number"
	colSalesDate     = "Sales Date"
	colMenu          = "Menu"
	colMenuCategory  = "Menu Category"
	colQty           = "Qty"
	colPrice         = "Price"
	colTotal         = "Total"
	colDiscountTotal = "Discount Total"
	colCogsTotal     = "COGS Total"
	colCogsPct       = "COGS Total (%)"
	colMargin        = "Margin"
)

// requiredColumns is the set a candidate header row must cover to be
// accepted. Menu Category, Price and Discount Total are optional.
var requiredColumns = []string{
	colSalesNumber, colSalesDate, colMenu,
	colCogsTotal, colCogsPct, colMargin, colTotal, colQty,
}

// ErrSchema marks a file whose header could not be located or whose header
// lacks required columns. The batch loader skips such files and continues.
var ErrSchema = errors.New("spreadsheet does not match the sales export schema")

// columnMap maps a source column name to its cell index in the header row.
type columnMap map[string]int

// headerMatch is the result of the ordered header search: the accepted
// header row index and the column mapping it produced.
type headerMatch struct {
	row  int
	cols columnMap
}

// Parser reads a single branch sales export. It holds no per-file state and
// is safe for concurrent use across files.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser. A nil logger falls back to slog.Default.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger.With(slog.String("component", "ingest"))}
}

// ParseBranchFile parses one uploaded spreadsheet into a BranchDataset.
// Files that do not expose the required columns return an error wrapping
// ErrSchema. Rows that fail cleaning are dropped silently; the returned
// CleanStats counts the drops per reason so callers can export them.
func (p *Parser) ParseBranchFile(file domain.SourceFile) (*domain.BranchDataset, CleanStats, error) {
	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %s: %v", ErrSchema, file.Name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: %s has no sheets", ErrSchema, file.Name)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %v", ErrSchema, file.Name, err)
	}

	branch := branchName(rows)
	match, ok := findHeader(rows)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s: no header row with required columns %v",
			ErrSchema, file.Name, requiredColumns)
	}

	txs, stats := cleanRows(branch, rows[match.row+1:], match.cols)

	p.logger.Info("branch file parsed",
		slog.String("file", file.Name),
		slog.String("branch", branch),
		slog.Int("header_row", match.row),
		slog.Int("records", len(txs)),
		slog.Int("rows_dropped", stats.Total()))

	return &domain.BranchDataset{
		Branch:       branch,
		Transactions: txs,
		SourceFile:   file.Name,
		Records:      len(txs),
	}, stats, nil
}

// branchName reads the branch identity from the fixed metadata cell
// (second row, first column) of the raw grid.
func branchName(rows [][]string) string {
	if len(rows) > branchCellRow && len(rows[branchCellRow]) > 0 {
		if name := strings.TrimSpace(rows[branchCellRow][0]); name != "" {
			return name
		}
	}
	return UnknownBranch
}

// findHeader performs the ordered header search: each of the first
// headerScanRows rows is tried as a candidate header, and the first whose
// column set covers requiredColumns wins. If none does, the fixed fallback
// row is tried as an explicit final candidate. The result is a
// found-or-not value, never an error used for control flow.
func findHeader(rows [][]string) (headerMatch, bool) {
	limit := headerScanRows
	if len(rows) < limit {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		if cols, ok := mapColumns(rows[i]); ok {
			return headerMatch{row: i, cols: cols}, true
		}
	}
	if fallbackHeaderRow < len(rows) {
		if cols, ok := mapColumns(rows[fallbackHeaderRow]); ok {
			return headerMatch{row: fallbackHeaderRow, cols: cols}, true
		}
	}
	return headerMatch{}, false
}

// mapColumns builds a name-to-index map from a candidate header row and
// reports whether it covers every required column.
func mapColumns(row []string) (columnMap, bool) {
	cols := make(columnMap, len(row))
	for i, cell := range row {
		name := strings.TrimSpace(cell)
		if name == "" {
			continue
		}
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, false
		}
	}
	return cols, true
}
