package filters

import (
	"math"
	"strconv"
	"strings"

	"github.com/listforge/listforge/internal/catalog"
)

// fieldKind tags how a resolved field value compares.
type fieldKind int

const (
	kindMissing fieldKind = iota
	kindNumeric
	kindText
)

// fieldValue is a resolved product field, tagged numeric or text.
type fieldValue struct {
	kind fieldKind
	num  float64
	str  string
}

// marketplaceFieldPrefix addresses per-platform listing status, e.g.
// "marketplace_amazon" resolves to that platform's status string.
const marketplaceFieldPrefix = "marketplace_"

type fieldSpec struct {
	numeric func(catalog.Product) float64
	text    func(catalog.Product) string
}

// fieldTable enumerates every addressable product field. Adding a field here
// is the only step needed to make it filterable.
var fieldTable = map[string]fieldSpec{
	"sale_price":    {numeric: func(p catalog.Product) float64 { return p.SalePrice }},
	"landed_cost":   {numeric: func(p catalog.Product) float64 { return p.LandedCost }},
	"shipping_cost": {numeric: func(p catalog.Product) float64 { return p.ShippingCost }},
	"purchase_qty":  {numeric: func(p catalog.Product) float64 { return float64(p.PurchaseQty) }},
	"sold_qty":      {numeric: func(p catalog.Product) float64 { return float64(p.SoldQty) }},
	"stock_qty":     {numeric: func(p catalog.Product) float64 { return float64(p.StockQty) }},
	"return_qty":    {numeric: func(p catalog.Product) float64 { return float64(p.ReturnQty) }},
	"sold_7d":       {numeric: func(p catalog.Product) float64 { return float64(p.Sold7d) }},
	"sold_30d":      {numeric: func(p catalog.Product) float64 { return float64(p.Sold30d) }},
	"sold_90d":      {numeric: func(p catalog.Product) float64 { return float64(p.Sold90d) }},
	"velocity":      {numeric: func(p catalog.Product) float64 { return p.Velocity }},
	"stock_days":    {numeric: func(p catalog.Product) float64 { return stockDaysValue(p) }},
	"profit_margin": {numeric: func(p catalog.Product) float64 { return p.ProfitMargin() }},

	"id":             {text: func(p catalog.Product) string { return p.ID }},
	"product_id":     {text: func(p catalog.Product) string { return p.ProductID }},
	"name":           {text: func(p catalog.Product) string { return p.Name }},
	"sku":            {text: func(p catalog.Product) string { return p.SKU }},
	"brand":          {text: func(p catalog.Product) string { return p.Brand }},
	"product_type":   {text: func(p catalog.Product) string { return string(p.ProductType) }},
	"restock_status": {text: func(p catalog.Product) string { return string(p.RestockStatus) }},
}

// stockDaysValue resolves nil (unbounded cover) to +Inf so the numeric
// comparisons order it above every finite threshold.
func stockDaysValue(p catalog.Product) float64 {
	if p.StockDays == nil {
		return math.Inf(1)
	}
	return *p.StockDays
}

func resolveField(p catalog.Product, field string) fieldValue {
	if platform, ok := strings.CutPrefix(field, marketplaceFieldPrefix); ok {
		return fieldValue{kind: kindText, str: string(p.MarketplaceState(platform))}
	}
	spec, ok := fieldTable[field]
	if !ok {
		return fieldValue{kind: kindMissing}
	}
	if spec.numeric != nil {
		return fieldValue{kind: kindNumeric, num: spec.numeric(p)}
	}
	return fieldValue{kind: kindText, str: spec.text(p)}
}

// isBlank reports whether a field value counts as blank. Numeric zero counts
// as blank: a product with zero stock matches is_blank on stock_qty. Callers
// relying on "0 is a real value" must use equals instead.
func (v fieldValue) isBlank() bool {
	switch v.kind {
	case kindMissing:
		return true
	case kindNumeric:
		return v.num == 0
	default:
		return v.str == ""
	}
}

func (v fieldValue) text() string {
	if v.kind == kindNumeric {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

// MatchCriterion evaluates one criterion against a product.
func MatchCriterion(p catalog.Product, c Criterion) bool {
	v := resolveField(p, c.Field)
	switch c.Operator {
	case OpIsBlank:
		return v.isBlank()
	case OpIsNotBlank:
		return !v.isBlank()
	case OpEquals, OpNotEquals:
		eq := equalsValue(v, c.Value)
		if c.Operator == OpNotEquals {
			return !eq
		}
		return eq
	case OpStartsWith:
		return strings.HasPrefix(foldText(v), fold(c.Value))
	case OpNotStartsWith:
		return !strings.HasPrefix(foldText(v), fold(c.Value))
	case OpEndsWith:
		return strings.HasSuffix(foldText(v), fold(c.Value))
	case OpNotEndsWith:
		return !strings.HasSuffix(foldText(v), fold(c.Value))
	case OpContains:
		return strings.Contains(foldText(v), fold(c.Value))
	case OpNotContains:
		return !strings.Contains(foldText(v), fold(c.Value))
	case OpGreaterThan:
		return compareNumeric(v, c.Value, func(a, b float64) bool { return a > b })
	case OpLessThan:
		return compareNumeric(v, c.Value, func(a, b float64) bool { return a < b })
	case OpGreaterOrEqual:
		return compareNumeric(v, c.Value, func(a, b float64) bool { return a >= b })
	case OpLessOrEqual:
		return compareNumeric(v, c.Value, func(a, b float64) bool { return a <= b })
	case OpBetween:
		return betweenNumeric(v, c.Value)
	default:
		return false
	}
}

// Matches reports whether the product satisfies every criterion. A nil filter
// or empty criteria list is the identity filter.
func Matches(p catalog.Product, f *CustomFilter) bool {
	if f == nil || len(f.Criteria) == 0 {
		return true
	}
	for _, c := range f.Criteria {
		if !MatchCriterion(p, c) {
			return false
		}
	}
	return true
}

// Apply returns the subset of products matching the filter.
func Apply(products []catalog.Product, f *CustomFilter) []catalog.Product {
	if f == nil || len(f.Criteria) == 0 {
		return products
	}
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, f) {
			out = append(out, p)
		}
	}
	return out
}

func equalsValue(v fieldValue, raw string) bool {
	if v.kind == kindNumeric {
		want, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return false
		}
		return v.num == want
	}
	return fold(v.str) == fold(raw)
}

func compareNumeric(v fieldValue, raw string, cmp func(a, b float64) bool) bool {
	if v.kind != kindNumeric {
		return false
	}
	want, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return false
	}
	return cmp(v.num, want)
}

// betweenNumeric parses raw as "min,max" and checks inclusive containment.
func betweenNumeric(v fieldValue, raw string) bool {
	if v.kind != kindNumeric {
		return false
	}
	parts := strings.SplitN(raw, ",", 2)
	if len(parts) != 2 {
		return false
	}
	min, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	max, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return false
	}
	return v.num >= min && v.num <= max
}

func fold(s string) string { return strings.ToLower(s) }

func foldText(v fieldValue) string { return fold(v.text()) }
