package catalog

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	products map[string]Product
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: make(map[string]Product)}
}

func (r *memoryRepo) ListProducts(ctx context.Context, filter ListFilter) ([]Product, error) {
	var out []Product
	for _, p := range r.products {
		if filter.Brand != "" && p.Brand != filter.Brand {
			continue
		}
		if filter.RestockStatus != "" && p.RestockStatus != filter.RestockStatus {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) GetProduct(ctx context.Context, id string) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *memoryRepo) InsertProduct(ctx context.Context, p Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memoryRepo) UpdateProduct(ctx context.Context, p Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return ErrProductNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *memoryRepo) DeleteProduct(ctx context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func TestCreateDerivesForecastFields(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, Product{Name: "Widget", StockQty: 5, Velocity: 1})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.Equal(t, p.ID, p.ProductID)
	require.Equal(t, RestockReorderNow, p.RestockStatus)
	require.NotNil(t, p.StockDays)
	require.InDelta(t, 5.0, *p.StockDays, 0.0001)
}

func TestUpdateRecomputesRestockStatus(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, Product{Name: "Widget", StockQty: 500, Velocity: 1})
	require.NoError(t, err)
	require.Equal(t, RestockInStock, p.RestockStatus)

	zero := 0
	p, err = svc.Update(ctx, p.ID, ProductPatch{StockQty: &zero})
	require.NoError(t, err)
	require.Equal(t, RestockOutOfStock, p.RestockStatus)
}

func TestRefreshRestockStatuses(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, Product{Name: "Widget", StockQty: 100, Velocity: 1})
	require.NoError(t, err)

	// Simulate drift: velocity spiked but the stored bucket is stale.
	stale := repo.products[p.ID]
	stale.Velocity = 50
	repo.products[p.ID] = stale

	updated, err := svc.RefreshRestockStatuses(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, updated)
	require.Equal(t, RestockReorderNow, repo.products[p.ID].RestockStatus)
}

func TestUpdateMissingProduct(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Update(context.Background(), "nope", ProductPatch{})
	require.ErrorIs(t, err, ErrProductNotFound)
}
