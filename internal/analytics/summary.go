package analytics

import (
	"sort"

	"salespulse/pkg/contracts/domain"
)

// BranchSummaryStats computes the whole-dataset headline statistics,
// including the per-branch file provenance carried over from ingestion.
func BranchSummaryStats(ds *domain.CombinedDataset) SummaryStats {
	stats := SummaryStats{FilesProcessed: map[string]FileInfo{}}
	if ds.IsEmpty() {
		return stats
	}

	products := make(map[string]struct{})
	var totalRevenue, totalMargin, totalCogs, cogsPctSum float64
	for _, tx := range ds.Transactions {
		totalRevenue += tx.Total
		totalMargin += tx.Margin
		totalCogs += tx.CogsTotal
		cogsPctSum += tx.CogsPct
		products[tx.Menu] = struct{}{}
	}

	n := len(ds.Transactions)
	stats.TotalBranches = len(ds.Branches)
	stats.TotalRecords = ds.TotalRecords
	stats.DateRange = ds.DateRange()
	stats.TotalRevenue = totalRevenue
	stats.TotalMargin = totalMargin
	stats.TotalCogs = totalCogs
	stats.AvgCogsPct = SafeDivide(cogsPctSum, float64(n))
	stats.TotalTransactions = n
	stats.UniqueProducts = len(products)
	stats.AvgTransactionValue = SafeDivide(totalRevenue, float64(n))
	for branch, info := range ds.Files {
		stats.FilesProcessed[branch] = FileInfo{Filename: info.Filename, Records: info.Records}
	}
	return stats
}

// CrossBranchInsights derives the cross-branch insight bundle: revenue
// concentration across top and bottom branches, how consistently products
// are stocked, and how much COGS% varies per product across branches.
func CrossBranchInsights(ds *domain.CombinedDataset) Insights {
	insights := Insights{}
	if ds.IsEmpty() {
		return insights
	}

	comparison := BranchRevenueComparison(ds)
	var totalRevenue float64
	revenues := make([]float64, 0, len(comparison))
	for _, row := range comparison {
		totalRevenue += row.TotalRevenue
		revenues = append(revenues, row.TotalRevenue)
	}

	topN := 3
	if len(comparison) < topN {
		topN = len(comparison)
	}
	var topSum, bottomSum float64
	for _, row := range comparison[:topN] {
		topSum += row.TotalRevenue
	}
	for _, row := range comparison[len(comparison)-topN:] {
		bottomSum += row.TotalRevenue
	}
	insights.RevenueConcentration = RevenueConcentration{
		Top3Share:         SafeDivide(topSum, totalRevenue) * 100,
		Bottom3Share:      SafeDivide(bottomSum, totalRevenue) * 100,
		RevenueInequality: SafeDivide(stddev(revenues), mean(revenues)),
	}

	insights.ProductConsistency = productConsistency(ds)
	insights.CogsConsistency = cogsConsistency(ds)
	return insights
}

// productConsistency measures what fraction of branches stock each of the
// top compared products. A product in every branch is universal; one in
// fewer than half of the branches is limited.
func productConsistency(ds *domain.CombinedDataset) ProductConsistency {
	branchesPerMenu := make(map[string]map[string]struct{})
	for _, row := range ProductComparisonByBranch(ds, defaultTopProducts) {
		if branchesPerMenu[row.Menu] == nil {
			branchesPerMenu[row.Menu] = make(map[string]struct{})
		}
		branchesPerMenu[row.Menu][row.Branch] = struct{}{}
	}

	result := ProductConsistency{}
	if len(branchesPerMenu) == 0 || len(ds.Branches) == 0 {
		return result
	}

	availabilities := make([]float64, 0, len(branchesPerMenu))
	for _, branches := range branchesPerMenu {
		pct := float64(len(branches)) / float64(len(ds.Branches)) * 100
		availabilities = append(availabilities, pct)
		if pct == 100 {
			result.UniversalProducts++
		}
		if pct < 50 {
			result.LimitedProducts++
		}
	}
	result.AvgAvailability = mean(availabilities)
	return result
}

// cogsConsistency flags products whose COGS% coefficient of variation
// (std/mean) across branches exceeds 0.2.
func cogsConsistency(ds *domain.CombinedDataset) CogsConsistency {
	const cvThreshold = 0.2

	pctsPerMenu := make(map[string][]float64)
	for _, row := range CogsPerProductPerBranch(ds, defaultTopCogsProducts) {
		pctsPerMenu[row.Menu] = append(pctsPerMenu[row.Menu], row.AvgCogsPct)
	}

	result := CogsConsistency{}
	if len(pctsPerMenu) == 0 {
		return result
	}

	menus := make([]string, 0, len(pctsPerMenu))
	for menu := range pctsPerMenu {
		menus = append(menus, menu)
	}
	sort.Strings(menus)

	cvs := make([]float64, 0, len(menus))
	bestCV := -1.0
	for _, menu := range menus {
		cv := SafeDivide(stddev(pctsPerMenu[menu]), mean(pctsPerMenu[menu]))
		cvs = append(cvs, cv)
		if cv > cvThreshold {
			result.HighVarianceProducts++
		}
		if bestCV < 0 || cv < bestCV {
			bestCV = cv
			result.MostConsistentMenu = menu
		}
	}
	result.AvgCogsCV = mean(cvs)
	return result
}
