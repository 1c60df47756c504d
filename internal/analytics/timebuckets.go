package analytics

import (
	"sort"

	"salespulse/pkg/contracts/domain"
)

// weekdayOrder maps canonical ASCII weekday names to their Monday-first
// position. Weekday-bucketed output sorts by this index, so the table always
// reads Monday through Sunday no matter what order the source rows arrived
// in. Weekdays absent from the data are simply absent, never zero-filled.
var weekdayOrder = map[string]int{
	"Monday":    0,
	"Tuesday":   1,
	"Wednesday": 2,
	"Thursday":  3,
	"Friday":    4,
	"Saturday":  5,
	"Sunday":    6,
}

// SalesByTimeAllBranches computes the five independent time-bucketed tables,
// each grouped first by branch and then by its bucket.
func SalesByTimeAllBranches(ds *domain.CombinedDataset) TimeBuckets {
	buckets := TimeBuckets{
		Hourly:       []HourlyRow{},
		DailyPattern: []DailyPatternRow{},
		DailyTrend:   []DailyTrendRow{},
		Weekly:       []WeeklyRow{},
		Monthly:      []MonthlyRow{},
	}
	if ds.IsEmpty() {
		return buckets
	}

	type hourKey struct {
		branch string
		hour   int
	}
	type dayKey struct {
		branch string
		day    string
	}
	type dateKey struct {
		branch string
		date   string
	}
	type weekKey struct {
		branch string
		week   int
	}
	type monthKey struct {
		branch string
		month  int
	}
	type sums struct {
		total, qty, margin float64
		count              int
	}

	hourly := make(map[hourKey]*sums)
	daily := make(map[dayKey]*sums)
	trend := make(map[dateKey]*sums)
	weekly := make(map[weekKey]*sums)
	monthly := make(map[monthKey]*sums)

	add := func(s *sums, tx domain.SalesTransaction) {
		s.total += tx.Total
		s.qty += tx.Qty
		s.margin += tx.Margin
		s.count++
	}

	for _, tx := range ds.Transactions {
		hk := hourKey{tx.Branch, tx.Hour}
		if hourly[hk] == nil {
			hourly[hk] = &sums{}
		}
		add(hourly[hk], tx)

		dk := dayKey{tx.Branch, tx.DayOfWeek}
		if daily[dk] == nil {
			daily[dk] = &sums{}
		}
		add(daily[dk], tx)

		tk := dateKey{tx.Branch, tx.DateKey}
		if trend[tk] == nil {
			trend[tk] = &sums{}
		}
		add(trend[tk], tx)

		wk := weekKey{tx.Branch, tx.ISOWeek}
		if weekly[wk] == nil {
			weekly[wk] = &sums{}
		}
		add(weekly[wk], tx)

		mk := monthKey{tx.Branch, tx.Month}
		if monthly[mk] == nil {
			monthly[mk] = &sums{}
		}
		add(monthly[mk], tx)
	}

	for k, s := range hourly {
		buckets.Hourly = append(buckets.Hourly, HourlyRow{
			Branch: k.branch, Hour: k.hour,
			Revenue: s.total, Qty: s.qty, Margin: s.margin,
		})
	}
	sort.Slice(buckets.Hourly, func(i, j int) bool {
		if buckets.Hourly[i].Branch != buckets.Hourly[j].Branch {
			return buckets.Hourly[i].Branch < buckets.Hourly[j].Branch
		}
		return buckets.Hourly[i].Hour < buckets.Hourly[j].Hour
	})

	for k, s := range daily {
		buckets.DailyPattern = append(buckets.DailyPattern, DailyPatternRow{
			Branch: k.branch, DayOfWeek: k.day,
			TotalRevenue: s.total,
			AvgRevenue:   SafeDivide(s.total, float64(s.count)),
			TotalQty:     s.qty,
		})
	}
	sort.Slice(buckets.DailyPattern, func(i, j int) bool {
		if buckets.DailyPattern[i].Branch != buckets.DailyPattern[j].Branch {
			return buckets.DailyPattern[i].Branch < buckets.DailyPattern[j].Branch
		}
		return weekdayOrder[buckets.DailyPattern[i].DayOfWeek] < weekdayOrder[buckets.DailyPattern[j].DayOfWeek]
	})

	for k, s := range trend {
		buckets.DailyTrend = append(buckets.DailyTrend, DailyTrendRow{
			Branch: k.branch, Date: k.date,
			Revenue: s.total, Qty: s.qty, Margin: s.margin,
		})
	}
	sort.Slice(buckets.DailyTrend, func(i, j int) bool {
		if buckets.DailyTrend[i].Branch != buckets.DailyTrend[j].Branch {
			return buckets.DailyTrend[i].Branch < buckets.DailyTrend[j].Branch
		}
		return buckets.DailyTrend[i].Date < buckets.DailyTrend[j].Date
	})

	for k, s := range weekly {
		buckets.Weekly = append(buckets.Weekly, WeeklyRow{
			Branch: k.branch, Week: k.week,
			Revenue: s.total, Qty: s.qty,
		})
	}
	sort.Slice(buckets.Weekly, func(i, j int) bool {
		if buckets.Weekly[i].Branch != buckets.Weekly[j].Branch {
			return buckets.Weekly[i].Branch < buckets.Weekly[j].Branch
		}
		return buckets.Weekly[i].Week < buckets.Weekly[j].Week
	})

	for k, s := range monthly {
		buckets.Monthly = append(buckets.Monthly, MonthlyRow{
			Branch: k.branch, Month: k.month,
			Revenue: s.total, Qty: s.qty, Margin: s.margin,
		})
	}
	sort.Slice(buckets.Monthly, func(i, j int) bool {
		if buckets.Monthly[i].Branch != buckets.Monthly[j].Branch {
			return buckets.Monthly[i].Branch < buckets.Monthly[j].Branch
		}
		return buckets.Monthly[i].Month < buckets.Monthly[j].Month
	})

	return buckets
}
