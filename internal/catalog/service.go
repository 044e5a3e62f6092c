package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	ListProducts(ctx context.Context, filter ListFilter) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	InsertProduct(ctx context.Context, p Product) error
	UpdateProduct(ctx context.Context, p Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// ListFilter narrows catalog listings.
type ListFilter struct {
	Search        string
	Brand         string
	ProductType   ProductType
	RestockStatus RestockStatus
	Limit         int
}

// Service coordinates catalog operations.
type Service struct {
	repo  RepositoryPort
	group singleflight.Group
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns catalog products. Concurrent identical reads are coalesced.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	key := listKey(filter)
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.repo.ListProducts(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Product), nil
}

// Get fetches one product by id.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	if id == "" {
		return Product{}, errors.New("catalog: id required")
	}
	return s.repo.GetProduct(ctx, id)
}

// Create inserts a product, deriving forecast fields before persisting.
func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Product{}, errors.New("catalog: name required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.ProductID == "" {
		p.ProductID = p.ID
	}
	if p.ProductType == "" {
		p.ProductType = TypeSingle
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Refresh()
	if err := s.repo.InsertProduct(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Update applies inventory and pricing edits. Identity fields are immutable.
func (s *Service) Update(ctx context.Context, id string, patch ProductPatch) (Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return Product{}, err
	}
	patch.apply(&p)
	p.UpdatedAt = time.Now().UTC()
	p.Refresh()
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Delete removes a product from the catalog.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("catalog: id required")
	}
	return s.repo.DeleteProduct(ctx, id)
}

// RefreshRestockStatuses recomputes derived forecast fields for the whole
// catalog. Run nightly by the worker.
func (s *Service) RefreshRestockStatuses(ctx context.Context) (int, error) {
	products, err := s.repo.ListProducts(ctx, ListFilter{})
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, p := range products {
		before := p.RestockStatus
		p.Refresh()
		if p.RestockStatus == before {
			continue
		}
		p.UpdatedAt = time.Now().UTC()
		if err := s.repo.UpdateProduct(ctx, p); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// ProductPatch carries the mutable subset of product fields.
type ProductPatch struct {
	Name         *string
	Brand        *string
	ImageURL     *string
	SalePrice    *float64
	LandedCost   *float64
	ShippingCost *float64
	StockQty     *int
	PurchaseQty  *int
	SoldQty      *int
	ReturnQty    *int
	Velocity     *float64
	Marketplaces []MarketplaceStatus
}

func (patch ProductPatch) apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Brand != nil {
		p.Brand = *patch.Brand
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.SalePrice != nil {
		p.SalePrice = *patch.SalePrice
	}
	if patch.LandedCost != nil {
		p.LandedCost = *patch.LandedCost
	}
	if patch.ShippingCost != nil {
		p.ShippingCost = *patch.ShippingCost
	}
	if patch.StockQty != nil {
		p.StockQty = *patch.StockQty
	}
	if patch.PurchaseQty != nil {
		p.PurchaseQty = *patch.PurchaseQty
	}
	if patch.SoldQty != nil {
		p.SoldQty = *patch.SoldQty
	}
	if patch.ReturnQty != nil {
		p.ReturnQty = *patch.ReturnQty
	}
	if patch.Velocity != nil {
		p.Velocity = *patch.Velocity
	}
	if patch.Marketplaces != nil {
		p.Marketplaces = patch.Marketplaces
	}
}

func listKey(f ListFilter) string {
	var b strings.Builder
	b.WriteString(f.Search)
	b.WriteByte('|')
	b.WriteString(f.Brand)
	b.WriteByte('|')
	b.WriteString(string(f.ProductType))
	b.WriteByte('|')
	b.WriteString(string(f.RestockStatus))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(f.Limit))
	return b.String()
}
