package filters

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/listforge/listforge/internal/catalog"
)

func sampleProduct() catalog.Product {
	return catalog.Product{
		ID:        "p1",
		ProductID: "p1",
		Name:      "Steel Water Bottle",
		SKU:       "SWB-100",
		Brand:     "Hydra",
		SalePrice: 24.99,
		StockQty:  12,
		Velocity:  1.5,
		Marketplaces: []catalog.MarketplaceStatus{
			{Platform: "amazon", Status: catalog.ListingLive},
			{Platform: "walmart", Status: catalog.ListingError},
		},
		ProductType: catalog.TypeSingle,
	}
}

func TestMatchCriterionOperators(t *testing.T) {
	p := sampleProduct()
	tests := []struct {
		name string
		c    Criterion
		want bool
	}{
		{"equals string case-insensitive", Criterion{Field: "brand", Operator: OpEquals, Value: "hydra"}, true},
		{"not equals string", Criterion{Field: "brand", Operator: OpNotEquals, Value: "acme"}, true},
		{"equals numeric", Criterion{Field: "sale_price", Operator: OpEquals, Value: "24.99"}, true},
		{"equals numeric garbage value", Criterion{Field: "sale_price", Operator: OpEquals, Value: "abc"}, false},
		{"starts with", Criterion{Field: "name", Operator: OpStartsWith, Value: "steel"}, true},
		{"not starts with", Criterion{Field: "name", Operator: OpNotStartsWith, Value: "plastic"}, true},
		{"ends with", Criterion{Field: "sku", Operator: OpEndsWith, Value: "100"}, true},
		{"contains", Criterion{Field: "name", Operator: OpContains, Value: "water"}, true},
		{"not contains", Criterion{Field: "name", Operator: OpNotContains, Value: "glass"}, true},
		{"greater than", Criterion{Field: "stock_qty", Operator: OpGreaterThan, Value: "10"}, true},
		{"less than false", Criterion{Field: "stock_qty", Operator: OpLessThan, Value: "10"}, false},
		{"greater or equal boundary", Criterion{Field: "stock_qty", Operator: OpGreaterOrEqual, Value: "12"}, true},
		{"less or equal boundary", Criterion{Field: "stock_qty", Operator: OpLessOrEqual, Value: "12"}, true},
		{"numeric compare on text field", Criterion{Field: "brand", Operator: OpGreaterThan, Value: "1"}, false},
		{"between inclusive", Criterion{Field: "sale_price", Operator: OpBetween, Value: "24.99,30"}, true},
		{"between outside", Criterion{Field: "sale_price", Operator: OpBetween, Value: "30,40"}, false},
		{"between malformed", Criterion{Field: "sale_price", Operator: OpBetween, Value: "30"}, false},
		{"marketplace status live", Criterion{Field: "marketplace_amazon", Operator: OpEquals, Value: "live"}, true},
		{"marketplace status error", Criterion{Field: "marketplace_walmart", Operator: OpEquals, Value: "error"}, true},
		{"marketplace unlisted defaults", Criterion{Field: "marketplace_ebay", Operator: OpEquals, Value: "not_listed"}, true},
		{"unknown operator", Criterion{Field: "brand", Operator: "sounds_like", Value: "hydra"}, false},
		{"unknown field is blank", Criterion{Field: "nonsense", Operator: OpIsBlank}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, MatchCriterion(p, tt.c))
		})
	}
}

// Numeric zero counts as blank. A product with zero stock matches is_blank on
// stock_qty even though zero is a legitimate quantity.
func TestIsBlankMatchesZero(t *testing.T) {
	p := sampleProduct()
	p.StockQty = 0

	require.True(t, MatchCriterion(p, Criterion{Field: "stock_qty", Operator: OpIsBlank}))
	require.False(t, MatchCriterion(p, Criterion{Field: "stock_qty", Operator: OpIsNotBlank}))

	p.StockQty = 1
	require.False(t, MatchCriterion(p, Criterion{Field: "stock_qty", Operator: OpIsBlank}))
	require.True(t, MatchCriterion(p, Criterion{Field: "stock_qty", Operator: OpIsNotBlank}))
}

func TestMatchesAndSemantics(t *testing.T) {
	p := sampleProduct()

	both := &CustomFilter{Criteria: []Criterion{
		{Field: "brand", Operator: OpEquals, Value: "Hydra"},
		{Field: "stock_qty", Operator: OpGreaterThan, Value: "100"},
	}}
	require.False(t, Matches(p, both))

	one := &CustomFilter{Criteria: both.Criteria[:1]}
	require.True(t, Matches(p, one))
}

func TestApplySupersetOnCriterionRemoval(t *testing.T) {
	cheap := sampleProduct()
	expensive := sampleProduct()
	expensive.ID = "p2"
	expensive.SalePrice = 99
	products := []catalog.Product{cheap, expensive}

	strict := &CustomFilter{Criteria: []Criterion{
		{Field: "brand", Operator: OpEquals, Value: "Hydra"},
		{Field: "sale_price", Operator: OpLessThan, Value: "50"},
	}}
	relaxed := &CustomFilter{Criteria: strict.Criteria[:1]}

	strictOut := Apply(products, strict)
	relaxedOut := Apply(products, relaxed)
	require.Len(t, strictOut, 1)
	require.Len(t, relaxedOut, 2)
}

func TestNilAndEmptyFilterAreIdentity(t *testing.T) {
	products := []catalog.Product{sampleProduct()}
	require.Equal(t, products, Apply(products, nil))
	require.Equal(t, products, Apply(products, &CustomFilter{}))
	require.True(t, Matches(products[0], nil))
}

func TestUnboundedStockDaysOrdersAboveThresholds(t *testing.T) {
	p := catalog.Product{StockQty: 10, Velocity: 0}
	p.Refresh()
	require.Nil(t, p.StockDays)

	require.True(t, MatchCriterion(p, Criterion{Field: "stock_days", Operator: OpGreaterThan, Value: "30"}))
	require.False(t, MatchCriterion(p, Criterion{Field: "stock_days", Operator: OpLessOrEqual, Value: "30"}))
	require.False(t, MatchCriterion(p, Criterion{Field: "stock_days", Operator: OpIsBlank}))
}
