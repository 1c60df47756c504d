package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"salespulse/pkg/contracts/domain"
)

// Combine merges all non-empty per-file branch datasets into a single
// CombinedDataset. Derived time fields are recomputed here over the merged
// set, not per branch, so every file ends up with one consistent weekday
// naming and week numbering scheme. The result is always non-nil; a batch
// with zero valid transactions yields a dataset whose IsEmpty reports true.
func Combine(batchID uuid.UUID, datasets []*domain.BranchDataset) *domain.CombinedDataset {
	combined := &domain.CombinedDataset{
		BatchID:  batchID,
		LoadedAt: time.Now().UTC(),
		Files:    make(map[string]domain.FileInfo),
	}

	branchSet := make(map[string]struct{})
	for _, ds := range datasets {
		if ds.IsEmpty() {
			continue
		}
		branchSet[ds.Branch] = struct{}{}
		combined.Files[ds.Branch] = domain.FileInfo{
			Filename: ds.SourceFile,
			Records:  ds.Records,
		}
		for _, tx := range ds.Transactions {
			combined.Transactions = append(combined.Transactions, derive(tx))
		}
	}

	combined.TotalRecords = len(combined.Transactions)
	if combined.TotalRecords == 0 {
		return combined
	}

	combined.MinDate = combined.Transactions[0].SalesDate
	combined.MaxDate = combined.Transactions[0].SalesDate
	for _, tx := range combined.Transactions[1:] {
		if tx.SalesDate.Before(combined.MinDate) {
			combined.MinDate = tx.SalesDate
		}
		if tx.SalesDate.After(combined.MaxDate) {
			combined.MaxDate = tx.SalesDate
		}
	}

	combined.Branches = make([]string, 0, len(branchSet))
	for b := range branchSet {
		combined.Branches = append(combined.Branches, b)
	}
	sort.Strings(combined.Branches)

	return combined
}

// derive fills in the time-bucket fields and the safe margin percentage for
// one transaction. Weekday names come from time.Weekday, which is ASCII and
// locale-independent (Monday through Sunday).
func derive(tx domain.SalesTransaction) domain.SalesTransaction {
	tx.Hour = tx.SalesDate.Hour()
	tx.DayOfWeek = tx.SalesDate.Weekday().String()
	_, tx.ISOWeek = tx.SalesDate.ISOWeek()
	tx.Month = int(tx.SalesDate.Month())
	tx.DateKey = tx.SalesDate.Format("2006-01-02")
	tx.MarginPct = SafeDivide(tx.Margin, tx.Total) * 100
	return tx
}
