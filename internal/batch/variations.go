package batch

import (
	"fmt"
	"regexp"
	"strings"
)

// Variation ids carry a numeric suffix on the master product id, either a
// bare "-N" or an explicit "-VAR-N".
var (
	varSuffix = regexp.MustCompile(`(?i)-VAR-\d+$`)
	numSuffix = regexp.MustCompile(`-\d+$`)
)

// MasterProductID strips the variation suffix to obtain the grouping key.
// An id without a suffix is its own master id.
func MasterProductID(productID string) string {
	if loc := varSuffix.FindStringIndex(productID); loc != nil {
		return productID[:loc[0]]
	}
	if loc := numSuffix.FindStringIndex(productID); loc != nil {
		return productID[:loc[0]]
	}
	return productID
}

// IsVariation reports whether the id carries a variation suffix.
func IsVariation(productID string) bool {
	return varSuffix.MatchString(productID) || numSuffix.MatchString(productID)
}

// SiblingItems returns the other items in the same batch that share the
// target item's master product id. Grouping never crosses batches.
func SiblingItems(item Item, batchItems []Item) []Item {
	master := MasterProductID(item.ProductID)
	var siblings []Item
	for _, other := range batchItems {
		if other.ID == item.ID || other.BatchID != item.BatchID {
			continue
		}
		if MasterProductID(other.ProductID) == master {
			siblings = append(siblings, other)
		}
	}
	return siblings
}

// Attribute keys worth summarising in a variation label, in display order.
var displayAttrs = []string{"color", "size", "material"}

// VariationDisplayName builds a human label for a variation item. Attribute
// values for color, size, or material win over the positional fallback
// "Variation N".
func VariationDisplayName(item Item, attrs map[string]string, position int) string {
	var parts []string
	for _, key := range displayAttrs {
		if v := strings.TrimSpace(attrs[key]); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " / ")
	}
	return fmt.Sprintf("Variation %d", position)
}
