package offers

import (
	"sort"
	"time"
)

const (
	justCreatedWindow = 24 * time.Hour
	endingSoonWindow  = 48 * time.Hour
)

// ComputeStatus derives the temporal status of an offer at the given instant.
// The rules run in a fixed order: deactivation wins over everything, then the
// date bounds, then the just_created window, then ending_soon. An offer inside
// both the just_created and ending_soon windows reports just_created.
func ComputeStatus(o Offer, now time.Time) Status {
	if !o.IsActive {
		return StatusExpired
	}
	if now.Before(o.StartDate) {
		return StatusScheduled
	}
	if now.After(o.EndDate) {
		return StatusExpired
	}
	if now.Sub(o.CreatedAt) <= justCreatedWindow {
		return StatusJustCreated
	}
	if until := o.EndDate.Sub(now); until > 0 && until <= endingSoonWindow {
		return StatusEndingSoon
	}
	return StatusActive
}

// statusPriority ranks statuses for best-offer selection.
var statusPriority = map[Status]int{
	StatusEndingSoon:  3,
	StatusJustCreated: 2,
	StatusActive:      1,
	StatusScheduled:   0,
	StatusExpired:     -1,
}

// discountValue is the tie-break figure: percent if set, else amount, else 0.
func discountValue(o Offer) float64 {
	if o.DiscountPercent != nil {
		return *o.DiscountPercent
	}
	if o.DiscountAmount != nil {
		return *o.DiscountAmount
	}
	return 0
}

// containsProduct reports whether the offer targets the product.
func containsProduct(o Offer, productID string) bool {
	for _, id := range o.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// Eligible filters offers down to the active, non-expired ones covering the
// product.
func Eligible(all []Offer, productID string, now time.Time) []Offer {
	var out []Offer
	for _, o := range all {
		if !o.IsActive || !containsProduct(o, productID) {
			continue
		}
		if ComputeStatus(o, now) == StatusExpired {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Best selects the winning offer among the eligible ones: highest status
// priority first, larger discount breaking ties. The sort is stable so equal
// offers resolve to the earliest in input order. Returns nil when none apply.
func Best(all []Offer, productID string, now time.Time) *Offer {
	eligible := Eligible(all, productID, now)
	if len(eligible) == 0 {
		return nil
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		pi := statusPriority[ComputeStatus(eligible[i], now)]
		pj := statusPriority[ComputeStatus(eligible[j], now)]
		if pi != pj {
			return pi > pj
		}
		return discountValue(eligible[i]) > discountValue(eligible[j])
	})
	winner := eligible[0]
	return &winner
}
