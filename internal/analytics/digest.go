package analytics

import (
	"sort"

	"salespulse/pkg/contracts/domain"
)

// digestTopMenus is how many menus each digest leaderboard carries.
const digestTopMenus = 5

// PrepareDigest condenses the dataset into the compact structured summary
// consumed by the conversational assistant. Only aggregates leave this
// function; raw transactions stay inside the engine.
func PrepareDigest(ds *domain.CombinedDataset) Digest {
	digest := Digest{
		TopSellingMenus:     []MenuQtyEntry{},
		MostProfitableMenus: []MenuMarginEntry{},
		CategoryPerformance: []CategoryPerformance{},
	}
	if ds.IsEmpty() {
		return digest
	}

	type menuAcc struct {
		qty, total, margin float64
		count              int
	}
	type categoryAcc struct {
		total, margin, cogsPctSum float64
		count                     int
	}

	menus := make(map[string]*menuAcc)
	categories := make(map[string]*categoryAcc)
	days := make(map[string]struct{})
	var totalRevenue, totalCogs, totalMargin, cogsPctSum float64

	for _, tx := range ds.Transactions {
		totalRevenue += tx.Total
		totalCogs += tx.CogsTotal
		totalMargin += tx.Margin
		cogsPctSum += tx.CogsPct
		days[tx.DateKey] = struct{}{}

		m := menus[tx.Menu]
		if m == nil {
			m = &menuAcc{}
			menus[tx.Menu] = m
		}
		m.qty += tx.Qty
		m.total += tx.Total
		m.margin += tx.Margin
		m.count++

		c := categories[tx.MenuCategory]
		if c == nil {
			c = &categoryAcc{}
			categories[tx.MenuCategory] = c
		}
		c.total += tx.Total
		c.margin += tx.Margin
		c.cogsPctSum += tx.CogsPct
		c.count++
	}

	digest.Period = ds.DateRange()
	digest.TotalRevenue = totalRevenue
	digest.TotalCogs = totalCogs
	digest.TotalMargin = totalMargin
	digest.AvgCogsPct = SafeDivide(cogsPctSum, float64(len(ds.Transactions)))
	digest.TotalTransactions = len(ds.Transactions)
	digest.DailyAverageRevenue = SafeDivide(totalRevenue, float64(len(days)))

	names := make([]string, 0, len(menus))
	for name := range menus {
		names = append(names, name)
	}

	byQty := append([]string(nil), names...)
	sort.Slice(byQty, func(i, j int) bool {
		if menus[byQty[i]].qty != menus[byQty[j]].qty {
			return menus[byQty[i]].qty > menus[byQty[j]].qty
		}
		return byQty[i] < byQty[j]
	})
	for _, name := range truncate(byQty, digestTopMenus) {
		digest.TopSellingMenus = append(digest.TopSellingMenus, MenuQtyEntry{
			Menu:         name,
			TotalQty:     menus[name].qty,
			TotalRevenue: menus[name].total,
		})
	}

	avgMargin := func(name string) float64 {
		return SafeDivide(menus[name].margin, float64(menus[name].count))
	}
	byMargin := append([]string(nil), names...)
	sort.Slice(byMargin, func(i, j int) bool {
		if avgMargin(byMargin[i]) != avgMargin(byMargin[j]) {
			return avgMargin(byMargin[i]) > avgMargin(byMargin[j])
		}
		return byMargin[i] < byMargin[j]
	})
	for _, name := range truncate(byMargin, digestTopMenus) {
		digest.MostProfitableMenus = append(digest.MostProfitableMenus, MenuMarginEntry{
			Menu:      name,
			AvgMargin: avgMargin(name),
			MarginPct: SafeDivide(menus[name].margin, menus[name].total) * 100,
		})
	}

	catNames := make([]string, 0, len(categories))
	for name := range categories {
		catNames = append(catNames, name)
	}
	sort.Strings(catNames)
	for _, name := range catNames {
		c := categories[name]
		digest.CategoryPerformance = append(digest.CategoryPerformance, CategoryPerformance{
			Category:   name,
			Revenue:    c.total,
			Margin:     c.margin,
			AvgCogsPct: SafeDivide(c.cogsPctSum, float64(c.count)),
		})
	}

	return digest
}

func truncate(xs []string, n int) []string {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}
