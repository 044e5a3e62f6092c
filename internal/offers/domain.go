package offers

import (
	"errors"
	"time"
)

// OfferType enumerates supported promotion mechanics.
type OfferType string

const (
	TypeFreeShipping     OfferType = "free_shipping"
	TypePercentDiscount  OfferType = "percent_discount"
	TypeFixedDiscount    OfferType = "fixed_discount"
	TypeQuantityDiscount OfferType = "quantity_discount"
	TypeBulkPurchase     OfferType = "bulk_purchase"
	TypeBogoHalf         OfferType = "bogo_half"
	TypeBogoFree         OfferType = "bogo_free"
)

// OfferScope states whether the offer targets products or whole marketplaces.
type OfferScope string

const (
	ScopeProduct     OfferScope = "product"
	ScopeMarketplace OfferScope = "marketplace"
)

// Status is the derived temporal state of an offer. Never stored.
type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusActive      Status = "active"
	StatusJustCreated Status = "just_created"
	StatusEndingSoon  Status = "ending_soon"
	StatusExpired     Status = "expired"
)

// Condition carries optional quantity gates for an offer.
type Condition struct {
	MinQty *int `json:"min_qty,omitempty"`
	BuyQty *int `json:"buy_qty,omitempty"`
	GetQty *int `json:"get_qty,omitempty"`
}

// Offer is a time-bounded promotional rule over products and marketplaces.
type Offer struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Type            OfferType  `json:"type"`
	Scope           OfferScope `json:"scope"`
	DiscountPercent *float64   `json:"discount_percent,omitempty"`
	DiscountAmount  *float64   `json:"discount_amount,omitempty"`
	Condition       *Condition `json:"condition,omitempty"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	ProductIDs      []string   `json:"product_ids"`
	// Marketplaces the offer applies to; empty means all.
	Marketplaces []string  `json:"marketplaces"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	IsActive     bool      `json:"is_active"`
}

// AppliesToMarketplace reports whether the offer covers the platform.
func (o Offer) AppliesToMarketplace(platform string) bool {
	if len(o.Marketplaces) == 0 {
		return true
	}
	for _, m := range o.Marketplaces {
		if m == platform {
			return true
		}
	}
	return false
}

// ErrOfferNotFound indicates a missing offer id.
var ErrOfferNotFound = errors.New("offers: offer not found")
