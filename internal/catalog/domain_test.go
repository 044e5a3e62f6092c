package catalog

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveRestockStatus(t *testing.T) {
	tests := []struct {
		name     string
		stockQty int
		velocity float64
		want     RestockStatus
	}{
		{"no stock", 0, 2.0, RestockOutOfStock},
		{"no stock no velocity", 0, 0, RestockOutOfStock},
		{"seven days cover", 14, 2.0, RestockReorderNow},
		{"under a week", 5, 1.0, RestockReorderNow},
		{"thirty days cover", 30, 1.0, RestockLowStock},
		{"two weeks cover", 28, 2.0, RestockLowStock},
		{"plenty of cover", 500, 1.0, RestockInStock},
		{"stock with zero velocity", 3, 0, RestockInStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DeriveRestockStatus(tt.stockQty, tt.velocity))
		})
	}
}

func TestDeriveStockDaysUnbounded(t *testing.T) {
	require.True(t, math.IsInf(DeriveStockDays(10, 0), 1))
	require.Equal(t, 0.0, DeriveStockDays(0, 0))
}

func TestRefreshKeepsUnboundedCoverEncodable(t *testing.T) {
	p := Product{StockQty: 5, Velocity: 0}
	p.Refresh()
	require.Nil(t, p.StockDays)
	require.Equal(t, RestockInStock, p.RestockStatus)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"stock_days":null`)

	p.Velocity = 2
	p.Refresh()
	require.NotNil(t, p.StockDays)
	require.InDelta(t, 2.5, *p.StockDays, 0.0001)
}

func TestMarketplaceStateDefaultsToNotListed(t *testing.T) {
	p := Product{Marketplaces: []MarketplaceStatus{{Platform: "amazon", Status: ListingLive}}}
	require.Equal(t, ListingLive, p.MarketplaceState("amazon"))
	require.Equal(t, ListingNotListed, p.MarketplaceState("walmart"))
}

func TestProfitMargin(t *testing.T) {
	p := Product{SalePrice: 100, LandedCost: 40, ShippingCost: 10}
	require.InDelta(t, 0.5, p.ProfitMargin(), 0.0001)
	require.Equal(t, 0.0, Product{}.ProfitMargin())
}
