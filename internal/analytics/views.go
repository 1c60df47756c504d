package analytics

import (
	"sort"
	"time"

	"salespulse/pkg/contracts/domain"
)

// Default top-product windows used by the cross-branch insight queries,
// matching the product comparison and COGS views' usual slice sizes.
const (
	defaultTopProducts     = 20
	defaultTopCogsProducts = 15
)

// branchAcc accumulates per-branch sums for the revenue comparison.
type branchAcc struct {
	total, margin, cogs, qty float64
	count                    int
	minDate, maxDate         time.Time
}

// BranchRevenueComparison groups the dataset by branch and ranks branches by
// total revenue. Ordering is descending revenue with ties broken by
// ascending branch name; the tie-break is explicit in the comparator so it
// never depends on input order. Ranks are assigned 1..N in that order.
func BranchRevenueComparison(ds *domain.CombinedDataset) []BranchSummaryRow {
	rows := []BranchSummaryRow{}
	if ds.IsEmpty() {
		return rows
	}

	accs := make(map[string]*branchAcc)
	for _, tx := range ds.Transactions {
		acc, ok := accs[tx.Branch]
		if !ok {
			acc = &branchAcc{minDate: tx.SalesDate, maxDate: tx.SalesDate}
			accs[tx.Branch] = acc
		}
		acc.total += tx.Total
		acc.margin += tx.Margin
		acc.cogs += tx.CogsTotal
		acc.qty += tx.Qty
		acc.count++
		if tx.SalesDate.Before(acc.minDate) {
			acc.minDate = tx.SalesDate
		}
		if tx.SalesDate.After(acc.maxDate) {
			acc.maxDate = tx.SalesDate
		}
	}

	for branch, acc := range accs {
		daysSpan := int(acc.maxDate.Sub(acc.minDate).Hours() / 24)
		denom := daysSpan + 1
		if denom < 1 {
			denom = 1
		}
		rows = append(rows, BranchSummaryRow{
			Branch:           branch,
			TotalRevenue:     acc.total,
			AvgTransaction:   SafeDivide(acc.total, float64(acc.count)),
			TransactionCount: acc.count,
			TotalMargin:      acc.margin,
			AvgMargin:        SafeDivide(acc.margin, float64(acc.count)),
			TotalCogs:        acc.cogs,
			TotalQty:         acc.qty,
			StartDate:        acc.minDate.Format("2006-01-02"),
			EndDate:          acc.maxDate.Format("2006-01-02"),
			MarginPct:        SafeDivide(acc.margin, acc.total) * 100,
			CogsPct:          SafeDivide(acc.cogs, acc.total) * 100,
			RevenuePerDay:    acc.total / float64(denom),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalRevenue != rows[j].TotalRevenue {
			return rows[i].TotalRevenue > rows[j].TotalRevenue
		}
		return rows[i].Branch < rows[j].Branch
	})
	for i := range rows {
		rows[i].RevenueRank = i + 1
	}
	return rows
}

// topProductsByRevenue returns the top-N menu names by total revenue across
// the whole dataset. topN <= 0 means all products. Ties are broken by
// ascending menu name so the selection is deterministic.
func topProductsByRevenue(ds *domain.CombinedDataset, topN int) map[string]struct{} {
	revenue := make(map[string]float64)
	for _, tx := range ds.Transactions {
		revenue[tx.Menu] += tx.Total
	}

	menus := make([]string, 0, len(revenue))
	for menu := range revenue {
		menus = append(menus, menu)
	}
	sort.Slice(menus, func(i, j int) bool {
		if revenue[menus[i]] != revenue[menus[j]] {
			return revenue[menus[i]] > revenue[menus[j]]
		}
		return menus[i] < menus[j]
	})

	if topN > 0 && len(menus) > topN {
		menus = menus[:topN]
	}
	selected := make(map[string]struct{}, len(menus))
	for _, menu := range menus {
		selected[menu] = struct{}{}
	}
	return selected
}

// menuBranchKey identifies one (menu, branch) aggregation cell.
type menuBranchKey struct {
	menu, branch string
}

// menuBranchAcc accumulates sums for one (menu, branch) cell.
type menuBranchAcc struct {
	qty, total, margin, cogs float64
	cogsPctSum               float64
	count                    int
}

// groupByMenuBranch aggregates transactions for the selected products into
// (menu, branch) cells.
func groupByMenuBranch(ds *domain.CombinedDataset, selected map[string]struct{}) map[menuBranchKey]*menuBranchAcc {
	cells := make(map[menuBranchKey]*menuBranchAcc)
	for _, tx := range ds.Transactions {
		if _, ok := selected[tx.Menu]; !ok {
			continue
		}
		key := menuBranchKey{menu: tx.Menu, branch: tx.Branch}
		acc, ok := cells[key]
		if !ok {
			acc = &menuBranchAcc{}
			cells[key] = acc
		}
		acc.qty += tx.Qty
		acc.total += tx.Total
		acc.margin += tx.Margin
		acc.cogs += tx.CogsTotal
		acc.cogsPctSum += tx.CogsPct
		acc.count++
	}
	return cells
}

// ProductComparisonByBranch restricts the dataset to the top-N products by
// overall revenue (topN <= 0 selects all) and compares them across branches.
// Rows are ordered by menu then branch, both ascending.
func ProductComparisonByBranch(ds *domain.CombinedDataset, topN int) []ProductComparisonRow {
	rows := []ProductComparisonRow{}
	if ds.IsEmpty() {
		return rows
	}

	cells := groupByMenuBranch(ds, topProductsByRevenue(ds, topN))
	for key, acc := range cells {
		rows = append(rows, ProductComparisonRow{
			Menu:           key.menu,
			Branch:         key.branch,
			TotalQty:       acc.qty,
			TotalRevenue:   acc.total,
			TotalMargin:    acc.margin,
			AvgCogsPct:     SafeDivide(acc.cogsPctSum, float64(acc.count)),
			RevenuePerUnit: SafeDivide(acc.total, acc.qty),
			MarginPerUnit:  SafeDivide(acc.margin, acc.qty),
			MarginPct:      SafeDivide(acc.margin, acc.total) * 100,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Menu != rows[j].Menu {
			return rows[i].Menu < rows[j].Menu
		}
		return rows[i].Branch < rows[j].Branch
	})
	return rows
}
