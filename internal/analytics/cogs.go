package analytics

import (
	"sort"

	"salespulse/pkg/contracts/domain"
)

// CogsPerProductPerBranch breaks down cost of goods sold for the top-N
// products by overall revenue (topN <= 0 selects all), per branch. Rows are
// ordered by menu name and then ascending average COGS%, so the cheapest
// branch for each product reads first.
func CogsPerProductPerBranch(ds *domain.CombinedDataset, topN int) []CogsRow {
	rows := []CogsRow{}
	if ds.IsEmpty() {
		return rows
	}

	cells := groupByMenuBranch(ds, topProductsByRevenue(ds, topN))
	for key, acc := range cells {
		avgCogsPct := SafeDivide(acc.cogsPctSum, float64(acc.count))
		rows = append(rows, CogsRow{
			Menu:           key.menu,
			Branch:         key.branch,
			CogsTotal:      acc.cogs,
			AvgCogsPct:     avgCogsPct,
			TotalRevenue:   acc.total,
			TotalQty:       acc.qty,
			TotalMargin:    acc.margin,
			CogsPerUnit:    SafeDivide(acc.cogs, acc.qty),
			RevenuePerUnit: SafeDivide(acc.total, acc.qty),
			MarginPerUnit:  SafeDivide(acc.margin, acc.qty),
			CogsEfficiency: 100 - avgCogsPct,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Menu != rows[j].Menu {
			return rows[i].Menu < rows[j].Menu
		}
		if rows[i].AvgCogsPct != rows[j].AvgCogsPct {
			return rows[i].AvgCogsPct < rows[j].AvgCogsPct
		}
		return rows[i].Branch < rows[j].Branch
	})
	return rows
}
