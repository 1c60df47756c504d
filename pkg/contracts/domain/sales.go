// Package domain contains the shared data contracts for the SalesPulse
// analytics engine. Types here are plain values: once a batch is built they
// are never mutated, so they can be shared freely across goroutines.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// SalesTransaction is the atomic, validated record of one sold line item.
// A transaction is immutable once it has passed cleaning; the derived time
// fields are filled in uniformly by the combiner so that every branch uses
// the same locale and numbering scheme.
type SalesTransaction struct {
	Branch        string    `json:"branch"`
	SalesNumber   string    `json:"sales_number"`
	SalesDate     time.Time `json:"sales_date"`
	Menu          string    `json:"menu"`
	MenuCategory  string    `json:"menu_category"`
	Qty           float64   `json:"qty"`
	Price         float64   `json:"price"`
	Total         float64   `json:"total"`
	DiscountTotal float64   `json:"discount_total"`
	CogsTotal     float64   `json:"cogs_total"`
	CogsPct       float64   `json:"cogs_pct"`
	Margin        float64   `json:"margin"`
	MarginPct     float64   `json:"margin_pct"`

	// Derived fields, computed over the merged set by the combiner.
	Hour      int    `json:"hour"`
	DayOfWeek string `json:"day_of_week"`
	ISOWeek   int    `json:"iso_week"`
	Month     int    `json:"month"`
	DateKey   string `json:"date"`
}

// IsValid reports whether the transaction satisfies the domain invariants
// enforced by the cleaner. It exists so that tests and the combiner can
// assert the invariants without re-running the cleaning pipeline.
func (t SalesTransaction) IsValid() bool {
	return t.Branch != "" &&
		!t.SalesDate.IsZero() &&
		t.Total > 0 &&
		t.CogsTotal >= 0 &&
		t.CogsPct >= 0 && t.CogsPct <= 100
}

// SourceFile is one uploaded spreadsheet handed to the batch loader.
// Data carries the full file contents; batches are bounded, so buffering
// whole files is acceptable and keeps parsing free of reader lifetimes.
type SourceFile struct {
	Name string
	Data []byte
}

// FileInfo records the provenance of one successfully ingested branch file.
type FileInfo struct {
	Filename string `json:"filename"`
	Records  int    `json:"records"`
}

// BranchDataset wraps the validated transactions of a single branch file.
type BranchDataset struct {
	Branch       string
	Transactions []SalesTransaction
	SourceFile   string
	Records      int
}

// IsEmpty reports whether the dataset holds no usable transactions.
func (b *BranchDataset) IsEmpty() bool {
	return b == nil || len(b.Transactions) == 0
}

// CombinedDataset is the immutable, merged, analysis-ready set of all valid
// transactions across branches in one upload batch. It is built atomically
// by the combiner after every per-file result has arrived; a new batch
// produces an entirely new value that replaces the old one as a unit.
type CombinedDataset struct {
	BatchID      uuid.UUID           `json:"batch_id"`
	LoadedAt     time.Time           `json:"loaded_at"`
	Transactions []SalesTransaction  `json:"-"`
	Branches     []string            `json:"branches"`
	MinDate      time.Time           `json:"min_date"`
	MaxDate      time.Time           `json:"max_date"`
	TotalRecords int                 `json:"total_records"`
	Files        map[string]FileInfo `json:"files"`
}

// IsEmpty reports whether the dataset carries no transactions. A nil
// receiver is treated as empty so that query code can pass around an absent
// dataset without guarding every call site.
func (d *CombinedDataset) IsEmpty() bool {
	return d == nil || len(d.Transactions) == 0
}

// DateRange returns the dataset period formatted as dd/mm/yyyy - dd/mm/yyyy,
// or an empty string for an empty dataset.
func (d *CombinedDataset) DateRange() string {
	if d.IsEmpty() {
		return ""
	}
	return d.MinDate.Format("02/01/2006") + " - " + d.MaxDate.Format("02/01/2006")
}
