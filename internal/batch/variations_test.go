package batch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMasterProductID(t *testing.T) {
	cases := []struct {
		id   string
		want string
	}{
		{"2802-1", "2802"},
		{"PROD-2802-VAR-1", "PROD-2802"},
		{"2802", "2802"},
		{"prod-2802-var-12", "prod-2802"},
		{"SKU-ABC", "SKU-ABC"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, MasterProductID(tc.id), "id %q", tc.id)
	}
}

func TestIsVariation(t *testing.T) {
	require.True(t, IsVariation("2802-1"))
	require.True(t, IsVariation("PROD-2802-VAR-3"))
	require.False(t, IsVariation("2802"))
	require.False(t, IsVariation("SKU-ABC"))
}

func TestSiblingItemsAreBatchScoped(t *testing.T) {
	target := Item{ID: "i1", BatchID: "b1", ProductID: "2802-1"}
	items := []Item{
		target,
		{ID: "i2", BatchID: "b1", ProductID: "2802-2"},
		{ID: "i3", BatchID: "b1", ProductID: "2802"},
		{ID: "i4", BatchID: "b1", ProductID: "9999-1"},
		{ID: "i5", BatchID: "b2", ProductID: "2802-3"},
	}
	siblings := SiblingItems(target, items)
	require.Len(t, siblings, 2)
	require.Equal(t, "i2", siblings[0].ID)
	require.Equal(t, "i3", siblings[1].ID)
}

func TestVariationDisplayName(t *testing.T) {
	item := Item{ProductID: "2802-1"}
	require.Equal(t, "Red / L", VariationDisplayName(item, map[string]string{"color": "Red", "size": "L"}, 1))
	require.Equal(t, "Cotton", VariationDisplayName(item, map[string]string{"material": "Cotton"}, 2))
	require.Equal(t, "Variation 3", VariationDisplayName(item, map[string]string{"color": "  "}, 3))
	require.Equal(t, "Variation 1", VariationDisplayName(item, nil, 1))
}
