package catalog

import (
	"errors"
	"math"
	"time"
)

// RestockStatus classifies how urgently a product needs replenishment.
type RestockStatus string

const (
	RestockInStock    RestockStatus = "in_stock"
	RestockLowStock   RestockStatus = "low_stock"
	RestockOutOfStock RestockStatus = "out_of_stock"
	RestockReorderNow RestockStatus = "reorder_now"
)

// ProductType distinguishes plain products, kits and variations.
type ProductType string

const (
	TypeSingle    ProductType = "single"
	TypeKit       ProductType = "kit"
	TypeVariation ProductType = "variation"
)

// ListingState is the per-marketplace listing status of a product.
type ListingState string

const (
	ListingLive      ListingState = "live"
	ListingInactive  ListingState = "inactive"
	ListingError     ListingState = "error"
	ListingNotListed ListingState = "not_listed"
)

// MarketplaceStatus pairs a marketplace platform with its listing state.
type MarketplaceStatus struct {
	Platform string       `json:"platform"`
	Status   ListingState `json:"status"`
}

// KitComponent references a component product inside a kit.
type KitComponent struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Product is the catalog entity the listing tooling operates over.
type Product struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	VariationID *string `json:"variation_id,omitempty"`
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Brand       string  `json:"brand"`
	ImageURL    string  `json:"image_url"`

	SalePrice    float64 `json:"sale_price"`
	LandedCost   float64 `json:"landed_cost"`
	ShippingCost float64 `json:"shipping_cost"`

	PurchaseQty int `json:"purchase_qty"`
	SoldQty     int `json:"sold_qty"`
	StockQty    int `json:"stock_qty"`
	ReturnQty   int `json:"return_qty"`
	Sold7d      int `json:"sold_7d"`
	Sold30d     int `json:"sold_30d"`
	Sold90d     int `json:"sold_90d"`

	Velocity      float64       `json:"velocity"`
	StockDays     *float64      `json:"stock_days"`
	RestockStatus RestockStatus `json:"restock_status"`

	Marketplaces  []MarketplaceStatus `json:"marketplaces"`
	ProductType   ProductType         `json:"product_type"`
	KitComponents []KitComponent      `json:"kit_components,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarketplaceState resolves the listing state for one platform. Products with
// no entry for the platform report not_listed.
func (p Product) MarketplaceState(platform string) ListingState {
	for _, m := range p.Marketplaces {
		if m.Platform == platform {
			return m.Status
		}
	}
	return ListingNotListed
}

// ProfitMargin returns the margin fraction of the sale price.
func (p Product) ProfitMargin() float64 {
	if p.SalePrice == 0 {
		return 0
	}
	return (p.SalePrice - p.LandedCost - p.ShippingCost) / p.SalePrice
}

// DeriveStockDays computes days of cover from stock and daily velocity.
// Zero velocity with stock on hand means unbounded cover.
func DeriveStockDays(stockQty int, velocity float64) float64 {
	if stockQty <= 0 {
		return 0
	}
	if velocity <= 0 {
		return math.Inf(1)
	}
	return float64(stockQty) / velocity
}

// DeriveRestockStatus maps stock cover to a restock bucket. The thresholds
// are fixed: 0 days out of stock, 7 days reorder, 30 days low stock.
func DeriveRestockStatus(stockQty int, velocity float64) RestockStatus {
	days := DeriveStockDays(stockQty, velocity)
	switch {
	case days == 0:
		return RestockOutOfStock
	case days <= 7:
		return RestockReorderNow
	case days <= 30:
		return RestockLowStock
	default:
		return RestockInStock
	}
}

// Refresh recomputes the derived forecasting fields in place.
func (p *Product) Refresh() {
	p.StockDays = boundedStockDays(DeriveStockDays(p.StockQty, p.Velocity))
	p.RestockStatus = DeriveRestockStatus(p.StockQty, p.Velocity)
}

// boundedStockDays represents unbounded cover as nil. encoding/json cannot
// encode +Inf, and the stock_days column is nullable for the same reason.
func boundedStockDays(days float64) *float64 {
	if math.IsInf(days, 1) {
		return nil
	}
	return &days
}

// ErrProductNotFound indicates a missing catalog row.
var ErrProductNotFound = errors.New("catalog: product not found")

// ErrDuplicateSKU indicates a SKU collision on create.
var ErrDuplicateSKU = errors.New("catalog: sku already exists")
