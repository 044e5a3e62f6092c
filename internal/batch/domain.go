// Package batch owns the marketplace listing submission lifecycle: batches of
// (product, marketplace) items, their processing state machine, and the
// derived batch summary.
package batch

import (
	"errors"
	"time"
)

// Status is the aggregate state of a batch. Outside of an in-flight
// processing run it is always derived from the item statuses.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ItemStatus is the state of one submission unit.
type ItemStatus string

const (
	ItemPending    ItemStatus = "pending"
	ItemProcessing ItemStatus = "processing"
	ItemSuccess    ItemStatus = "success"
	ItemFailed     ItemStatus = "failed"
)

// Batch is a named collection of listing submission attempts created
// together. Status, SuccessCount and FailedCount are stored for query
// efficiency but every write funnels through Service.UpdateSummary.
type Batch struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Status               Status    `json:"status"`
	TotalItems           int       `json:"total_items"`
	SuccessCount         int       `json:"success_count"`
	FailedCount          int       `json:"failed_count"`
	SelectedMarketplaces []string  `json:"selected_marketplaces"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Item is one (product, marketplace) submission unit within a batch. Items
// are created in bulk with their batch and cascade-deleted with it.
type Item struct {
	ID           string     `json:"id"`
	BatchID      string     `json:"batch_id"`
	ProductID    string     `json:"product_id"`
	ProductName  string     `json:"product_name"`
	ProductSKU   string     `json:"product_sku"`
	ProductImage string     `json:"product_image"`
	StockQty     int        `json:"stock_qty"`
	SalePrice    float64    `json:"sale_price"`
	ProfitMargin float64    `json:"profit_margin"`
	Marketplace  string     `json:"marketplace"`
	Status       ItemStatus `json:"status"`
	// ErrorMessage is set iff Status is failed.
	ErrorMessage *string   `json:"error_message,omitempty"`
	CategoryID   *string   `json:"category_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Summary aggregates item statuses into the derived batch fields.
type Summary struct {
	SuccessCount int
	FailedCount  int
	Status       Status
}

// Summarize derives the batch summary from its items: failed when any item
// failed, completed when nothing is left pending or processing, else pending.
func Summarize(items []Item) Summary {
	s := Summary{}
	open := 0
	for _, item := range items {
		switch item.Status {
		case ItemSuccess:
			s.SuccessCount++
		case ItemFailed:
			s.FailedCount++
		case ItemPending, ItemProcessing:
			open++
		}
	}
	switch {
	case s.FailedCount > 0:
		s.Status = StatusFailed
	case open == 0:
		s.Status = StatusCompleted
	default:
		s.Status = StatusPending
	}
	return s
}

// FilterItems projects the item list down to one status. An empty or
// unrecognised filter returns the list unchanged.
func FilterItems(items []Item, status ItemStatus) []Item {
	switch status {
	case ItemPending, ItemProcessing, ItemSuccess, ItemFailed:
	default:
		return items
	}
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Status == status {
			out = append(out, item)
		}
	}
	return out
}

var (
	// ErrBatchNotFound indicates a missing batch id.
	ErrBatchNotFound = errors.New("batch: batch not found")
	// ErrItemNotFound indicates a missing item id.
	ErrItemNotFound = errors.New("batch: item not found")
	// ErrDuplicateName indicates a batch name collision.
	ErrDuplicateName = errors.New("batch: name already exists")
	// ErrEmptySelection indicates a create request without products or
	// marketplaces.
	ErrEmptySelection = errors.New("batch: at least one product and one marketplace required")
)
