package tags

import (
	"context"
	"testing"

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

func TestAddTagUpsertsByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tag, err := store.AddTag(ctx, Tag{Name: "Clearance", Color: "#ff0000"})
	require.NoError(t, err)
	require.NotEmpty(t, tag.ID)

	renamed := tag
	renamed.Name = "Closeout"
	_, err = store.AddTag(ctx, renamed)
	require.NoError(t, err)

	all := store.List(ctx)
	require.Len(t, all, 1)
	require.Equal(t, "Closeout", all[0].Name)
}

func TestDeleteTagCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tag, err := store.AddTag(ctx, Tag{Name: "Summer", Color: "#00ff00"})
	require.NoError(t, err)
	other, err := store.AddTag(ctx, Tag{Name: "Keep", Color: "#0000ff"})
	require.NoError(t, err)

	products := []string{"p1", "p2", "p3"}
	require.NoError(t, store.BulkAddTag(ctx, products, tag.ID))
	require.NoError(t, store.BulkAddTag(ctx, products, other.ID))

	require.NoError(t, store.DeleteTag(ctx, tag.ID))

	for _, productID := range products {
		ids := store.ProductTags(ctx, productID)
		require.NotContains(t, ids, tag.ID)
		require.Contains(t, ids, other.ID)
	}
}

func TestDeleteMissingTag(t *testing.T) {
	store := newTestStore(t)
	require.ErrorIs(t, store.DeleteTag(context.Background(), "nope"), ErrTagNotFound)
}

func TestToggleProductTag(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tag, err := store.AddTag(ctx, Tag{Name: "New", Color: "#123456"})
	require.NoError(t, err)

	require.NoError(t, store.ToggleProductTag(ctx, "p1", tag.ID))
	require.Contains(t, store.ProductTags(ctx, "p1"), tag.ID)

	require.NoError(t, store.ToggleProductTag(ctx, "p1", tag.ID))
	require.NotContains(t, store.ProductTags(ctx, "p1"), tag.ID)
}

func TestBulkAddIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tag, err := store.AddTag(ctx, Tag{Name: "Featured", Color: "#abcdef"})
	require.NoError(t, err)

	require.NoError(t, store.BulkAddTag(ctx, []string{"p1", "p2"}, tag.ID))
	require.NoError(t, store.BulkAddTag(ctx, []string{"p1", "p2"}, tag.ID))

	require.Len(t, store.ProductTags(ctx, "p1"), 1)
	require.Len(t, store.ProductTags(ctx, "p2"), 1)
}

func TestRemoveProductsDropsAssignments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tag, err := store.AddTag(ctx, Tag{Name: "Old", Color: "#808080"})
	require.NoError(t, err)
	require.NoError(t, store.BulkAddTag(ctx, []string{"p1", "p2"}, tag.ID))

	require.NoError(t, store.RemoveProducts(ctx, []string{"p1"}))
	require.Empty(t, store.ProductTags(ctx, "p1"))
	require.Contains(t, store.ProductTags(ctx, "p2"), tag.ID)
}

func TestClearTagFromAllProductsKeepsDefinition(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tag, err := store.AddTag(ctx, Tag{Name: "Promo", Color: "#fff000"})
	require.NoError(t, err)
	require.NoError(t, store.BulkAddTag(ctx, []string{"p1", "p2"}, tag.ID))

	require.NoError(t, store.ClearTagFromAllProducts(ctx, tag.ID))
	require.Empty(t, store.ProductTags(ctx, "p1"))
	require.Empty(t, store.ProductTags(ctx, "p2"))
	require.Len(t, store.List(ctx), 1)
}

func TestAssignmentsSurviveReload(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	kv := shared.NewKV(client, nil)
	ctx := context.Background()

	first := NewStore(kv)
	tag, err := first.AddTag(ctx, Tag{Name: "Durable", Color: "#112233"})
	require.NoError(t, err)
	require.NoError(t, first.ToggleProductTag(ctx, "p1", tag.ID))

	second := NewStore(kv)
	require.Contains(t, second.ProductTags(ctx, "p1"), tag.ID)
}

func TestFailedPersistRestoresDocument(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewStore(shared.NewKV(client, nil))
	ctx := context.Background()

	tag, err := store.AddTag(ctx, Tag{Name: "Seasonal", Color: "#0000ff"})
	require.NoError(t, err)
	require.NoError(t, store.ToggleProductTag(ctx, "p1", tag.ID))

	mr.Close()

	require.Error(t, store.DeleteTag(ctx, tag.ID))
	require.Error(t, store.ToggleProductTag(ctx, "p1", tag.ID))
	require.Error(t, store.BulkRemoveTag(ctx, []string{"p1"}, tag.ID))
	require.Error(t, store.RemoveProducts(ctx, []string{"p1"}))
	require.Error(t, store.ClearTagFromAllProducts(ctx, tag.ID))
	_, err = store.AddTag(ctx, Tag{Name: "Extra", Color: "#00ffff"})
	require.Error(t, err)

	all := store.List(ctx)
	require.Len(t, all, 1)
	require.Equal(t, tag.ID, all[0].ID)
	require.Equal(t, []string{tag.ID}, store.ProductTags(ctx, "p1"))
}

func TestLoadRetriesAfterOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	kv := shared.NewKV(client, nil)
	ctx := context.Background()

	seeded := NewStore(kv)
	tag, err := seeded.AddTag(ctx, Tag{Name: "Durable", Color: "#445566"})
	require.NoError(t, err)

	store := NewStore(kv)
	mr.Close()
	require.Empty(t, store.List(ctx))

	require.NoError(t, mr.Restart())
	all := store.List(ctx)
	require.Len(t, all, 1)
	require.Equal(t, tag.ID, all[0].ID)
}
