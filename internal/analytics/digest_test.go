package analytics

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/pkg/contracts/domain"
)

func TestPrepareDigest_Totals(t *testing.T) {
	ds := combined(t,
		tx("Kemang", "Nasi Goreng", date(4, 12), 2, 50000, 20000, 40, 30000),
		tx("Kemang", "Es Teh", date(5, 13), 1, 8000, 2000, 25, 6000),
	)

	digest := PrepareDigest(ds)

	assert.Equal(t, "04/03/2024 - 05/03/2024", digest.Period)
	assert.Equal(t, 58000.0, digest.TotalRevenue)
	assert.Equal(t, 22000.0, digest.TotalCogs)
	assert.Equal(t, 36000.0, digest.TotalMargin)
	assert.Equal(t, 2, digest.TotalTransactions)
	assert.InDelta(t, 32.5, digest.AvgCogsPct, 1e-9)
	// Two distinct sale days.
	assert.Equal(t, 29000.0, digest.DailyAverageRevenue)
}

func TestPrepareDigest_TopSellingCapped(t *testing.T) {
	var txs []domain.SalesTransaction
	for i := 0; i < 7; i++ {
		menu := fmt.Sprintf("Menu %c", 'A'+i)
		qty := float64(10 - i)
		txs = append(txs, tx("Kemang", menu, date(4, 10+i), qty, qty*10000, qty*4000, 40, qty*6000))
	}
	digest := PrepareDigest(combined(t, txs...))

	require.Len(t, digest.TopSellingMenus, 5)
	assert.Equal(t, "Menu A", digest.TopSellingMenus[0].Menu)
	assert.Equal(t, 10.0, digest.TopSellingMenus[0].TotalQty)
	assert.Equal(t, "Menu E", digest.TopSellingMenus[4].Menu)
}

func TestPrepareDigest_TopSellingTieBrokenByName(t *testing.T) {
	digest := PrepareDigest(combined(t,
		tx("Kemang", "Zebra", date(4, 10), 3, 30000, 12000, 40, 18000),
		tx("Kemang", "Apple", date(4, 11), 3, 30000, 12000, 40, 18000),
	))

	require.Len(t, digest.TopSellingMenus, 2)
	assert.Equal(t, "Apple", digest.TopSellingMenus[0].Menu)
	assert.Equal(t, "Zebra", digest.TopSellingMenus[1].Menu)
}

func TestPrepareDigest_MostProfitableByAvgMargin(t *testing.T) {
	// "Premium" earns more margin per transaction even though "Volume" has
	// the larger total.
	digest := PrepareDigest(combined(t,
		tx("Kemang", "Premium", date(4, 10), 1, 100000, 30000, 30, 70000),
		tx("Kemang", "Volume", date(4, 11), 1, 50000, 20000, 40, 30000),
		tx("Kemang", "Volume", date(4, 12), 1, 50000, 20000, 40, 30000),
		tx("Kemang", "Volume", date(4, 13), 1, 50000, 20000, 40, 30000),
	))

	require.Len(t, digest.MostProfitableMenus, 2)
	assert.Equal(t, "Premium", digest.MostProfitableMenus[0].Menu)
	assert.Equal(t, 70000.0, digest.MostProfitableMenus[0].AvgMargin)
	assert.Equal(t, 70.0, digest.MostProfitableMenus[0].MarginPct)
	assert.Equal(t, "Volume", digest.MostProfitableMenus[1].Menu)
	assert.Equal(t, 30000.0, digest.MostProfitableMenus[1].AvgMargin)
}

func TestPrepareDigest_CategoryPerformance(t *testing.T) {
	drink := tx("Kemang", "Es Teh", date(4, 10), 1, 8000, 2000, 25, 6000)
	drink.MenuCategory = "Drink"
	food := tx("Kemang", "Nasi Goreng", date(4, 11), 1, 50000, 20000, 40, 30000)
	food.MenuCategory = "Food"

	digest := PrepareDigest(combined(t, drink, food))

	require.Len(t, digest.CategoryPerformance, 2)
	assert.Equal(t, "Drink", digest.CategoryPerformance[0].Category)
	assert.Equal(t, 8000.0, digest.CategoryPerformance[0].Revenue)
	assert.Equal(t, 25.0, digest.CategoryPerformance[0].AvgCogsPct)
	assert.Equal(t, "Food", digest.CategoryPerformance[1].Category)
	assert.Equal(t, 30000.0, digest.CategoryPerformance[1].Margin)
}

func TestPrepareDigest_EmptyDataset(t *testing.T) {
	digest := PrepareDigest(Combine(uuid.New(), nil))

	assert.Empty(t, digest.Period)
	assert.Zero(t, digest.TotalRevenue)
	assert.NotNil(t, digest.TopSellingMenus)
	assert.Empty(t, digest.TopSellingMenus)
	assert.NotNil(t, digest.MostProfitableMenus)
	assert.NotNil(t, digest.CategoryPerformance)
}
