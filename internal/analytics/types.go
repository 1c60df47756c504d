// Package analytics computes the aggregate projections over a
// CombinedDataset. Every exported query here is a pure function of its
// input: no state is kept between calls, the dataset is only read, and
// calling the same query twice on the same dataset yields identical output.
// Values retain full float precision; rounding is left to presentation.
package analytics

// BranchSummaryRow compares one branch against the others by revenue.
type BranchSummaryRow struct {
	Branch           string  `json:"branch"`
	TotalRevenue     float64 `json:"total_revenue"`
	AvgTransaction   float64 `json:"avg_transaction"`
	TransactionCount int     `json:"transaction_count"`
	TotalMargin      float64 `json:"total_margin"`
	AvgMargin        float64 `json:"avg_margin"`
	TotalCogs        float64 `json:"total_cogs"`
	TotalQty         float64 `json:"total_qty"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	MarginPct        float64 `json:"margin_pct"`
	CogsPct          float64 `json:"cogs_pct"`
	RevenuePerDay    float64 `json:"revenue_per_day"`
	RevenueRank      int     `json:"revenue_rank"`
}

// ProductComparisonRow holds one (menu, branch) cell of the product
// comparison matrix, restricted to the top products by overall revenue.
type ProductComparisonRow struct {
	Menu           string  `json:"menu"`
	Branch         string  `json:"branch"`
	TotalQty       float64 `json:"total_qty"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalMargin    float64 `json:"total_margin"`
	AvgCogsPct     float64 `json:"avg_cogs_pct"`
	RevenuePerUnit float64 `json:"revenue_per_unit"`
	MarginPerUnit  float64 `json:"margin_per_unit"`
	MarginPct      float64 `json:"margin_pct"`
}

// HourlyRow buckets revenue by branch and hour of day (0-23).
type HourlyRow struct {
	Branch  string  `json:"branch"`
	Hour    int     `json:"hour"`
	Revenue float64 `json:"total"`
	Qty     float64 `json:"qty"`
	Margin  float64 `json:"margin"`
}

// DailyPatternRow buckets revenue by branch and canonical weekday name.
type DailyPatternRow struct {
	Branch       string  `json:"branch"`
	DayOfWeek    string  `json:"day_of_week"`
	TotalRevenue float64 `json:"total_revenue"`
	AvgRevenue   float64 `json:"avg_revenue"`
	TotalQty     float64 `json:"total_qty"`
}

// DailyTrendRow buckets revenue by branch and calendar date (YYYY-MM-DD),
// suitable for time-series trend lines.
type DailyTrendRow struct {
	Branch  string  `json:"branch"`
	Date    string  `json:"date"`
	Revenue float64 `json:"total"`
	Qty     float64 `json:"qty"`
	Margin  float64 `json:"margin"`
}

// WeeklyRow buckets revenue by branch and ISO week number.
type WeeklyRow struct {
	Branch  string  `json:"branch"`
	Week    int     `json:"week"`
	Revenue float64 `json:"total"`
	Qty     float64 `json:"qty"`
}

// MonthlyRow buckets revenue by branch and calendar month number.
type MonthlyRow struct {
	Branch  string  `json:"branch"`
	Month   int     `json:"month"`
	Revenue float64 `json:"total"`
	Qty     float64 `json:"qty"`
	Margin  float64 `json:"margin"`
}

// TimeBuckets carries the five independent time-based tables.
type TimeBuckets struct {
	Hourly       []HourlyRow       `json:"hourly"`
	DailyPattern []DailyPatternRow `json:"daily_pattern"`
	DailyTrend   []DailyTrendRow   `json:"daily_trend"`
	Weekly       []WeeklyRow       `json:"weekly"`
	Monthly      []MonthlyRow      `json:"monthly"`
}

// CogsRow holds the cost breakdown for one (menu, branch) pair.
type CogsRow struct {
	Menu           string  `json:"menu"`
	Branch         string  `json:"branch"`
	CogsTotal      float64 `json:"cogs_total"`
	AvgCogsPct     float64 `json:"avg_cogs_pct"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalQty       float64 `json:"total_qty"`
	TotalMargin    float64 `json:"total_margin"`
	CogsPerUnit    float64 `json:"cogs_per_unit"`
	RevenuePerUnit float64 `json:"revenue_per_unit"`
	MarginPerUnit  float64 `json:"margin_per_unit"`
	CogsEfficiency float64 `json:"cogs_efficiency"`
}

// SummaryStats is the whole-dataset headline view.
type SummaryStats struct {
	TotalBranches       int                 `json:"total_branches"`
	TotalRecords        int                 `json:"total_records"`
	DateRange           string              `json:"date_range"`
	TotalRevenue        float64             `json:"total_revenue"`
	TotalMargin         float64             `json:"total_margin"`
	TotalCogs           float64             `json:"total_cogs"`
	AvgCogsPct          float64             `json:"avg_cogs_percentage"`
	TotalTransactions   int                 `json:"total_transactions"`
	UniqueProducts      int                 `json:"unique_products"`
	AvgTransactionValue float64             `json:"avg_transaction_value"`
	FilesProcessed      map[string]FileInfo `json:"files_processed"`
}

// FileInfo mirrors the per-branch provenance carried by the dataset.
type FileInfo struct {
	Filename string `json:"filename"`
	Records  int    `json:"records"`
}

// RevenueConcentration describes how revenue spreads across branches.
type RevenueConcentration struct {
	Top3Share         float64 `json:"top_3_branches_share"`
	Bottom3Share      float64 `json:"bottom_3_branches_share"`
	RevenueInequality float64 `json:"revenue_inequality"`
}

// ProductConsistency describes how uniformly products are stocked.
type ProductConsistency struct {
	UniversalProducts int     `json:"universal_products"`
	LimitedProducts   int     `json:"limited_products"`
	AvgAvailability   float64 `json:"avg_availability"`
}

// CogsConsistency describes cross-branch COGS% variance per product.
type CogsConsistency struct {
	HighVarianceProducts int     `json:"high_variance_products"`
	AvgCogsCV            float64 `json:"avg_cogs_variance"`
	MostConsistentMenu   string  `json:"most_consistent_cogs"`
}

// Insights is the cross-branch insight bundle.
type Insights struct {
	RevenueConcentration RevenueConcentration `json:"revenue_concentration"`
	ProductConsistency   ProductConsistency   `json:"product_consistency"`
	CogsConsistency      CogsConsistency      `json:"cogs_consistency"`
}

// MenuQtyEntry is a top-seller line in the digest.
type MenuQtyEntry struct {
	Menu         string  `json:"menu"`
	TotalQty     float64 `json:"total_qty"`
	TotalRevenue float64 `json:"total_revenue"`
}

// MenuMarginEntry is a most-profitable line in the digest.
type MenuMarginEntry struct {
	Menu      string  `json:"menu"`
	AvgMargin float64 `json:"avg_margin"`
	MarginPct float64 `json:"margin_pct"`
}

// CategoryPerformance is a per-category rollup in the digest.
type CategoryPerformance struct {
	Category   string  `json:"category"`
	Revenue    float64 `json:"total"`
	Margin     float64 `json:"margin"`
	AvgCogsPct float64 `json:"avg_cogs_pct"`
}

// Digest is the compact structured summary handed to the conversational
// assistant. It is the only surface that consumer may read; raw
// per-transaction data never crosses this boundary.
type Digest struct {
	Period              string                `json:"period"`
	TotalRevenue        float64               `json:"total_revenue"`
	TotalCogs           float64               `json:"total_cogs"`
	TotalMargin         float64               `json:"total_margin"`
	AvgCogsPct          float64               `json:"avg_cogs_percentage"`
	TotalTransactions   int                   `json:"total_transactions"`
	DailyAverageRevenue float64               `json:"daily_average_revenue"`
	TopSellingMenus     []MenuQtyEntry        `json:"top_selling_menus"`
	MostProfitableMenus []MenuMarginEntry     `json:"most_profitable_menus"`
	CategoryPerformance []CategoryPerformance `json:"category_performance"`
}
