package offers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func baseOffer(now time.Time) Offer {
	return Offer{
		ID:         "o1",
		Type:       TypePercentDiscount,
		Scope:      ScopeProduct,
		IsActive:   true,
		CreatedAt:  now.Add(-72 * time.Hour),
		StartDate:  now.Add(-48 * time.Hour),
		EndDate:    now.Add(30 * 24 * time.Hour),
		ProductIDs: []string{"p1"},
	}
}

func TestComputeStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("active", func(t *testing.T) {
		require.Equal(t, StatusActive, ComputeStatus(baseOffer(now), now))
	})

	t.Run("scheduled before start", func(t *testing.T) {
		o := baseOffer(now)
		o.StartDate = now.Add(time.Hour)
		require.Equal(t, StatusScheduled, ComputeStatus(o, now))
	})

	t.Run("expired after end", func(t *testing.T) {
		o := baseOffer(now)
		o.EndDate = now.Add(-time.Minute)
		require.Equal(t, StatusExpired, ComputeStatus(o, now))
	})

	t.Run("inactive overrides future dates", func(t *testing.T) {
		o := baseOffer(now)
		o.IsActive = false
		o.StartDate = now.Add(24 * time.Hour)
		o.EndDate = now.Add(48 * time.Hour)
		require.Equal(t, StatusExpired, ComputeStatus(o, now))
	})

	t.Run("just created inside window", func(t *testing.T) {
		o := baseOffer(now)
		o.CreatedAt = now.Add(-2 * time.Hour)
		require.Equal(t, StatusJustCreated, ComputeStatus(o, now))
	})

	t.Run("ending soon", func(t *testing.T) {
		o := baseOffer(now)
		o.EndDate = now.Add(12 * time.Hour)
		require.Equal(t, StatusEndingSoon, ComputeStatus(o, now))
	})

	// An offer created just now that also ends within 48h reports
	// just_created; the creation window is checked first.
	t.Run("just created beats ending soon", func(t *testing.T) {
		o := baseOffer(now)
		o.CreatedAt = now
		o.StartDate = now.Add(-time.Hour)
		o.EndDate = now.Add(time.Hour)
		require.Equal(t, StatusJustCreated, ComputeStatus(o, now))
	})
}

func TestEligibleSkipsExpiredAndForeign(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	active := baseOffer(now)
	expired := baseOffer(now)
	expired.ID = "o2"
	expired.EndDate = now.Add(-time.Hour)
	inactive := baseOffer(now)
	inactive.ID = "o3"
	inactive.IsActive = false
	other := baseOffer(now)
	other.ID = "o4"
	other.ProductIDs = []string{"p2"}

	got := Eligible([]Offer{active, expired, inactive, other}, "p1", now)
	require.Len(t, got, 1)
	require.Equal(t, "o1", got[0].ID)
}

func TestBestPrefersHigherStatusPriority(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	active := baseOffer(now)
	active.DiscountPercent = floatPtr(50)

	endingSoon := baseOffer(now)
	endingSoon.ID = "o2"
	endingSoon.EndDate = now.Add(6 * time.Hour)
	endingSoon.DiscountPercent = floatPtr(5)

	best := Best([]Offer{active, endingSoon}, "p1", now)
	require.NotNil(t, best)
	require.Equal(t, "o2", best.ID)
}

func TestBestBreaksTiesByDiscount(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	small := baseOffer(now)
	small.DiscountPercent = floatPtr(10)
	big := baseOffer(now)
	big.ID = "o2"
	big.DiscountPercent = floatPtr(25)
	amountOnly := baseOffer(now)
	amountOnly.ID = "o3"
	amountOnly.DiscountAmount = floatPtr(15)

	best := Best([]Offer{small, big, amountOnly}, "p1", now)
	require.NotNil(t, best)
	require.Equal(t, "o2", best.ID)
}

func TestBestStableAmongEquals(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	first := baseOffer(now)
	second := baseOffer(now)
	second.ID = "o2"

	best := Best([]Offer{first, second}, "p1", now)
	require.NotNil(t, best)
	require.Equal(t, "o1", best.ID)
}

func TestBestNilWhenNoneEligible(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	require.Nil(t, Best(nil, "p1", now))
}
