package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	ListBatches(ctx context.Context) ([]Batch, error)
	GetBatch(ctx context.Context, id string) (Batch, error)
	CreateBatch(ctx context.Context, b Batch) error
	UpdateBatch(ctx context.Context, id string, patch BatchPatch) error
	DeleteBatch(ctx context.Context, id string) error

	ListItems(ctx context.Context, batchID string) ([]Item, error)
	GetItem(ctx context.Context, id string) (Item, error)
	InsertItems(ctx context.Context, items []Item) error
	UpdateItem(ctx context.Context, id string, patch ItemPatch) error
}

// NotifierPort broadcasts that a table changed so connected dashboards can
// re-fetch. Payload-agnostic by design.
type NotifierPort interface {
	Bump(ctx context.Context, table string)
}

// ItemObserver receives settled item outcomes, e.g. for metrics.
type ItemObserver interface {
	ObserveBatchItem(marketplace, outcome string)
}

// BatchPatch is a partial batch update.
type BatchPatch struct {
	Name         *string
	Status       *Status
	SuccessCount *int
	FailedCount  *int
}

// ItemPatch is a partial item update. ClearError resets ErrorMessage to null
// independently of ErrorMessage being set.
type ItemPatch struct {
	Status       *ItemStatus
	ErrorMessage *string
	ClearError   bool
	ProductName  *string
	ProductSKU   *string
	StockQty     *int
	SalePrice    *float64
	ProfitMargin *float64
}

// Tables used for change notification.
const (
	TableBatches = "marketplace_batches"
	TableItems   = "batch_items"
)

// ProductSnapshot captures the product fields frozen into an item at batch
// creation time.
type ProductSnapshot struct {
	ProductID    string
	Name         string
	SKU          string
	Image        string
	StockQty     int
	SalePrice    float64
	ProfitMargin float64
	CategoryID   *string
}

// CreateInput describes a new batch.
type CreateInput struct {
	Name         string
	Products     []ProductSnapshot
	Marketplaces []string
}

// Service coordinates the batch listing lifecycle.
type Service struct {
	repo      RepositoryPort
	submitter Submitter
	notifier  NotifierPort
	observer  ItemObserver
	logger    *slog.Logger
}

// NewService builds Service. notifier and observer may be nil.
func NewService(repo RepositoryPort, submitter Submitter, notifier NotifierPort, observer ItemObserver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, submitter: submitter, notifier: notifier, observer: observer, logger: logger}
}

func (s *Service) bump(ctx context.Context, table string) {
	if s.notifier != nil {
		s.notifier.Bump(ctx, table)
	}
}

// ListBatches returns every batch, newest first.
func (s *Service) ListBatches(ctx context.Context) ([]Batch, error) {
	return s.repo.ListBatches(ctx)
}

// GetBatch fetches one batch.
func (s *Service) GetBatch(ctx context.Context, id string) (Batch, error) {
	return s.repo.GetBatch(ctx, id)
}

// GetItem fetches one item.
func (s *Service) GetItem(ctx context.Context, id string) (Item, error) {
	return s.repo.GetItem(ctx, id)
}

// ListItems returns a batch's items, optionally projected to one status.
func (s *Service) ListItems(ctx context.Context, batchID string, status ItemStatus) ([]Item, error) {
	items, err := s.repo.ListItems(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return FilterItems(items, status), nil
}

// Create fans a product and marketplace selection into one item per
// (product, marketplace) pair, all pending.
func (s *Service) Create(ctx context.Context, input CreateInput) (Batch, []Item, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Batch{}, nil, errors.New("batch: name required")
	}
	if len(input.Products) == 0 || len(input.Marketplaces) == 0 {
		return Batch{}, nil, ErrEmptySelection
	}
	now := time.Now().UTC()
	b := Batch{
		ID:                   uuid.NewString(),
		Name:                 input.Name,
		Status:               StatusPending,
		TotalItems:           len(input.Products) * len(input.Marketplaces),
		SelectedMarketplaces: input.Marketplaces,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	items := make([]Item, 0, b.TotalItems)
	for _, p := range input.Products {
		for _, marketplace := range input.Marketplaces {
			items = append(items, Item{
				ID:           uuid.NewString(),
				BatchID:      b.ID,
				ProductID:    p.ProductID,
				ProductName:  p.Name,
				ProductSKU:   p.SKU,
				ProductImage: p.Image,
				StockQty:     p.StockQty,
				SalePrice:    p.SalePrice,
				ProfitMargin: p.ProfitMargin,
				Marketplace:  marketplace,
				Status:       ItemPending,
				CategoryID:   p.CategoryID,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
		}
	}
	if err := s.repo.CreateBatch(ctx, b); err != nil {
		return Batch{}, nil, err
	}
	if err := s.repo.InsertItems(ctx, items); err != nil {
		return Batch{}, nil, fmt.Errorf("batch: insert items: %w", err)
	}
	s.bump(ctx, TableBatches)
	s.bump(ctx, TableItems)
	return b, items, nil
}

// Process runs one submission pass over the batch's currently pending items.
// Items added after the snapshot is taken are left for the next run. The
// caller must not start two runs against the same batch concurrently.
func (s *Service) Process(ctx context.Context, batchID string) (Batch, error) {
	if _, err := s.repo.GetBatch(ctx, batchID); err != nil {
		return Batch{}, err
	}
	processing := StatusProcessing
	if err := s.repo.UpdateBatch(ctx, batchID, BatchPatch{Status: &processing}); err != nil {
		return Batch{}, err
	}
	s.bump(ctx, TableBatches)

	items, err := s.repo.ListItems(ctx, batchID)
	if err != nil {
		return Batch{}, err
	}
	for _, item := range items {
		if item.Status != ItemPending {
			continue
		}
		if err := s.processItem(ctx, item); err != nil {
			return Batch{}, err
		}
	}
	// Recomputing only after the snapshot settles keeps the batch in
	// processing for the whole run; mid-run derivation would flip it back
	// to pending while items are still open.
	return s.UpdateSummary(ctx, batchID)
}

func (s *Service) processItem(ctx context.Context, item Item) error {
	inFlight := ItemProcessing
	if err := s.repo.UpdateItem(ctx, item.ID, ItemPatch{Status: &inFlight}); err != nil {
		return err
	}
	s.bump(ctx, TableItems)

	result, err := s.submitter.Submit(ctx, item)
	if err != nil {
		return fmt.Errorf("batch: submit item %s: %w", item.ID, err)
	}
	patch := ItemPatch{ClearError: true}
	outcome := ItemSuccess
	if !result.OK {
		outcome = ItemFailed
		msg := result.ErrorMessage
		patch.ErrorMessage = &msg
		patch.ClearError = false
	}
	patch.Status = &outcome
	if err := s.repo.UpdateItem(ctx, item.ID, patch); err != nil {
		return err
	}
	if s.observer != nil {
		s.observer.ObserveBatchItem(item.Marketplace, string(outcome))
	}
	s.bump(ctx, TableItems)
	return nil
}

// UpdateSummary recomputes and persists the derived batch fields from the
// current item statuses. Idempotent; every item mutation funnels through it.
func (s *Service) UpdateSummary(ctx context.Context, batchID string) (Batch, error) {
	items, err := s.repo.ListItems(ctx, batchID)
	if err != nil {
		return Batch{}, err
	}
	summary := Summarize(items)
	patch := BatchPatch{
		Status:       &summary.Status,
		SuccessCount: &summary.SuccessCount,
		FailedCount:  &summary.FailedCount,
	}
	if err := s.repo.UpdateBatch(ctx, batchID, patch); err != nil {
		return Batch{}, err
	}
	s.bump(ctx, TableBatches)
	return s.repo.GetBatch(ctx, batchID)
}

// RetryFailed resets failed items back to pending. With explicit itemIDs only
// those are considered; targets that are missing or not failed are silently
// skipped. Retrying a missing batch is a no-op.
func (s *Service) RetryFailed(ctx context.Context, batchID string, itemIDs []string) (Batch, error) {
	b, err := s.repo.GetBatch(ctx, batchID)
	if err != nil {
		if errors.Is(err, ErrBatchNotFound) {
			return Batch{}, nil
		}
		return Batch{}, err
	}
	items, err := s.repo.ListItems(ctx, batchID)
	if err != nil {
		return Batch{}, err
	}
	selected := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		selected[id] = true
	}
	reset := 0
	pending := ItemPending
	for _, item := range items {
		if len(itemIDs) > 0 && !selected[item.ID] {
			continue
		}
		if item.Status != ItemFailed {
			continue
		}
		if err := s.repo.UpdateItem(ctx, item.ID, ItemPatch{Status: &pending, ClearError: true}); err != nil {
			return Batch{}, err
		}
		reset++
	}
	if reset == 0 {
		return b, nil
	}
	s.bump(ctx, TableItems)
	return s.UpdateSummary(ctx, batchID)
}

// ItemUpdate carries the editable item fields for edit-and-retry.
type ItemUpdate struct {
	ProductName  *string
	ProductSKU   *string
	StockQty     *int
	SalePrice    *float64
	ProfitMargin *float64
}

// UpdateItemAndRetry applies field edits to one item, forces it back to
// pending with a cleared error, and recomputes the owning batch's summary.
func (s *Service) UpdateItemAndRetry(ctx context.Context, itemID string, update ItemUpdate) (Batch, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return Batch{}, err
	}
	pending := ItemPending
	patch := ItemPatch{
		Status:       &pending,
		ClearError:   true,
		ProductName:  update.ProductName,
		ProductSKU:   update.ProductSKU,
		StockQty:     update.StockQty,
		SalePrice:    update.SalePrice,
		ProfitMargin: update.ProfitMargin,
	}
	if err := s.repo.UpdateItem(ctx, itemID, patch); err != nil {
		return Batch{}, err
	}
	s.bump(ctx, TableItems)
	return s.UpdateSummary(ctx, item.BatchID)
}

// Rename updates the batch name only.
func (s *Service) Rename(ctx context.Context, batchID, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("batch: name required")
	}
	if err := s.repo.UpdateBatch(ctx, batchID, BatchPatch{Name: &name}); err != nil {
		return err
	}
	s.bump(ctx, TableBatches)
	return nil
}

// Delete removes the batch and cascades deletion of its items.
func (s *Service) Delete(ctx context.Context, batchID string) error {
	if err := s.repo.DeleteBatch(ctx, batchID); err != nil {
		return err
	}
	s.bump(ctx, TableBatches)
	s.bump(ctx, TableItems)
	return nil
}
