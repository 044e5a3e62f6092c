package shared

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) (*KV, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewKV(client, nil), mr
}

func TestKVRoundTrip(t *testing.T) {
	kv, _ := newTestKV(t)
	ctx := context.Background()

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, kv.Save(ctx, "test:doc", doc{Name: "a", Count: 3}))

	var got doc
	found, err := kv.Load(ctx, "test:doc", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, doc{Name: "a", Count: 3}, got)
}

func TestKVMissingKeyKeepsDefault(t *testing.T) {
	kv, _ := newTestKV(t)

	got := map[string]string{"seed": "kept"}
	found, err := kv.Load(context.Background(), "test:absent", &got)
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, "kept", got["seed"])
}

func TestKVCorruptPayloadKeepsDefault(t *testing.T) {
	kv, mr := newTestKV(t)
	mr.Set("test:bad", "{not json")

	var got map[string]string
	found, err := kv.Load(context.Background(), "test:bad", &got)
	require.NoError(t, err)
	require.False(t, found)
}

func TestKVLoadReportsOutage(t *testing.T) {
	kv, mr := newTestKV(t)
	mr.Close()

	var got map[string]string
	found, err := kv.Load(context.Background(), "test:doc", &got)
	require.Error(t, err)
	require.False(t, found)
}
