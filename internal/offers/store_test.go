package offers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/listforge/listforge/internal/shared"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(shared.NewKV(client, nil))
}

func TestStoreCreateUpdateDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	o, err := store.Create(ctx, Offer{
		Name:       "Spring Sale",
		Type:       TypePercentDiscount,
		Scope:      ScopeProduct,
		IsActive:   true,
		StartDate:  time.Now().Add(-time.Hour),
		EndDate:    time.Now().Add(30 * 24 * time.Hour),
		ProductIDs: []string{"p1"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, o.ID)
	require.False(t, o.CreatedAt.IsZero())

	updated := o
	updated.Name = "Spring Sale v2"
	got, err := store.Update(ctx, o.ID, updated)
	require.NoError(t, err)
	require.Equal(t, "Spring Sale v2", got.Name)
	require.True(t, got.UpdatedAt.After(o.UpdatedAt) || got.UpdatedAt.Equal(o.UpdatedAt))
	require.Equal(t, o.CreatedAt, got.CreatedAt)

	require.NoError(t, store.Delete(ctx, o.ID))
	require.Empty(t, store.List(ctx))

	require.ErrorIs(t, store.Delete(ctx, o.ID), ErrOfferNotFound)
	_, err = store.Update(ctx, o.ID, updated)
	require.ErrorIs(t, err, ErrOfferNotFound)
}

func TestStoreSurvivesReload(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	kv := shared.NewKV(client, nil)
	ctx := context.Background()

	first := NewStore(kv)
	o, err := first.Create(ctx, Offer{Name: "Persisted", IsActive: true, ProductIDs: []string{"p1"},
		StartDate: time.Now().Add(-time.Hour), EndDate: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	second := NewStore(kv)
	got, err := second.Get(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, "Persisted", got.Name)
}

func TestStoreBestForProduct(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, Offer{
		Name: "A", IsActive: true, ProductIDs: []string{"p1"},
		StartDate: time.Now().Add(-72 * time.Hour), EndDate: time.Now().Add(720 * time.Hour),
		DiscountPercent: floatPtr(10),
	})
	require.NoError(t, err)

	best := store.BestForProduct(ctx, "p1")
	require.NotNil(t, best)
	require.Equal(t, "A", best.Name)
	require.Nil(t, store.BestForProduct(ctx, "p2"))
}
