package analytics

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesByTimeAllBranches_EmptyDataset(t *testing.T) {
	buckets := SalesByTimeAllBranches(Combine(uuid.New(), nil))

	assert.NotNil(t, buckets.Hourly)
	assert.Empty(t, buckets.Hourly)
	assert.Empty(t, buckets.DailyPattern)
	assert.Empty(t, buckets.DailyTrend)
	assert.Empty(t, buckets.Weekly)
	assert.Empty(t, buckets.Monthly)
}

func TestSalesByTimeAllBranches_HourlyAggregation(t *testing.T) {
	ds := combined(t,
		tx("Kemang", "Es Teh", date(4, 12), 1, 8000, 2000, 25, 6000),
		tx("Kemang", "Kopi Susu", date(4, 12), 1, 18000, 7000, 39, 11000),
		tx("Kemang", "Es Teh", date(4, 19), 2, 16000, 4000, 25, 12000),
	)

	buckets := SalesByTimeAllBranches(ds)
	require.Len(t, buckets.Hourly, 2)

	assert.Equal(t, 12, buckets.Hourly[0].Hour)
	assert.Equal(t, 26000.0, buckets.Hourly[0].Revenue)
	assert.Equal(t, 2.0, buckets.Hourly[0].Qty)
	assert.Equal(t, 19, buckets.Hourly[1].Hour)
	assert.Equal(t, 16000.0, buckets.Hourly[1].Revenue)
}

func TestSalesByTimeAllBranches_WeekdayCanonicalOrder(t *testing.T) {
	// Input arrives Sunday, Wednesday, Monday; the table must still read in
	// Monday-first order. Friday etc. never sold, so they are absent rather
	// than zero-filled. March 2024: the 4th is Monday, 6th Wednesday, 10th
	// Sunday.
	ds := combined(t,
		tx("Kemang", "Es Teh", date(10, 12), 1, 10000, 2500, 25, 7500),
		tx("Kemang", "Es Teh", date(6, 12), 1, 20000, 5000, 25, 15000),
		tx("Kemang", "Es Teh", date(4, 12), 1, 30000, 7500, 25, 22500),
		tx("Kemang", "Es Teh", date(4, 15), 1, 10000, 2500, 25, 7500),
	)

	buckets := SalesByTimeAllBranches(ds)
	require.Len(t, buckets.DailyPattern, 3)

	assert.Equal(t, "Monday", buckets.DailyPattern[0].DayOfWeek)
	assert.Equal(t, 40000.0, buckets.DailyPattern[0].TotalRevenue)
	assert.Equal(t, 20000.0, buckets.DailyPattern[0].AvgRevenue)
	assert.Equal(t, "Wednesday", buckets.DailyPattern[1].DayOfWeek)
	assert.Equal(t, "Sunday", buckets.DailyPattern[2].DayOfWeek)
}

func TestSalesByTimeAllBranches_TrendWeeklyMonthly(t *testing.T) {
	// March 4 sits in ISO week 10, March 12 in week 11; one transaction in
	// April moves to month 4.
	ds := combined(t,
		tx("Kemang", "Es Teh", date(4, 12), 1, 10000, 2500, 25, 7500),
		tx("Kemang", "Es Teh", date(4, 18), 1, 10000, 2500, 25, 7500),
		tx("Kemang", "Es Teh", date(12, 12), 1, 20000, 5000, 25, 15000),
		tx("Kemang", "Es Teh", date(35, 12), 1, 40000, 10000, 25, 30000), // normalizes to April 4
	)

	buckets := SalesByTimeAllBranches(ds)

	require.Len(t, buckets.DailyTrend, 3)
	assert.Equal(t, "2024-03-04", buckets.DailyTrend[0].Date)
	assert.Equal(t, 20000.0, buckets.DailyTrend[0].Revenue)
	assert.Equal(t, "2024-03-12", buckets.DailyTrend[1].Date)
	assert.Equal(t, "2024-04-04", buckets.DailyTrend[2].Date)

	require.Len(t, buckets.Weekly, 3)
	assert.Equal(t, 10, buckets.Weekly[0].Week)
	assert.Equal(t, 20000.0, buckets.Weekly[0].Revenue)
	assert.Equal(t, 11, buckets.Weekly[1].Week)
	assert.Equal(t, 14, buckets.Weekly[2].Week)

	require.Len(t, buckets.Monthly, 2)
	assert.Equal(t, 3, buckets.Monthly[0].Month)
	assert.Equal(t, 30000.0, buckets.Monthly[0].Revenue)
	assert.Equal(t, 4, buckets.Monthly[1].Month)
	assert.Equal(t, 40000.0, buckets.Monthly[1].Revenue)
}

func TestSalesByTimeAllBranches_GroupedByBranchFirst(t *testing.T) {
	ds := combined(t,
		tx("Senopati", "Es Teh", date(4, 9), 1, 10000, 2500, 25, 7500),
		tx("Kemang", "Es Teh", date(4, 21), 1, 10000, 2500, 25, 7500),
	)

	buckets := SalesByTimeAllBranches(ds)
	require.Len(t, buckets.Hourly, 2)
	assert.Equal(t, "Kemang", buckets.Hourly[0].Branch)
	assert.Equal(t, 21, buckets.Hourly[0].Hour)
	assert.Equal(t, "Senopati", buckets.Hourly[1].Branch)
	assert.Equal(t, 9, buckets.Hourly[1].Hour)
}
