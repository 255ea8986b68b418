package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiringreferrals/backend/models"
)

func newTestGamification(t *testing.T) *GamificationService {
	t.Helper()
	g, err := NewGamificationService(DefaultGamificationConfig())
	require.NoError(t, err)
	return g
}

func TestTierForPointsDefaults(t *testing.T) {
	g := newTestGamification(t)

	tests := []struct {
		points int
		want   models.UserTier
	}{
		{0, models.TierBronze},
		{999, models.TierBronze},
		{1000, models.TierSilver},
		{2999, models.TierSilver},
		{3000, models.TierGold},
		{7500, models.TierPlatinum},
		{14999, models.TierPlatinum},
		{15000, models.TierDiamond},
		{1000000, models.TierDiamond},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.TierForPoints(tt.points), "points %d", tt.points)
	}
}

func TestTierForPointsCustomTable(t *testing.T) {
	cfg := DefaultGamificationConfig()
	cfg.RewardTiers = []models.RewardTier{
		{Tier: models.TierGold, PointThreshold: 2000},
		{Tier: models.TierBronze, PointThreshold: 0},
		{Tier: models.TierSilver, PointThreshold: 500},
	}
	g, err := NewGamificationService(cfg)
	require.NoError(t, err)

	assert.Equal(t, models.TierBronze, g.TierForPoints(499))
	assert.Equal(t, models.TierSilver, g.TierForPoints(500))
	assert.Equal(t, models.TierSilver, g.TierForPoints(1999))
	assert.Equal(t, models.TierGold, g.TierForPoints(2000))
}

func TestNextTier(t *testing.T) {
	g := newTestGamification(t)

	next, needed, ok := g.NextTier(0)
	require.True(t, ok)
	assert.Equal(t, models.TierSilver, next)
	assert.Equal(t, 1000, needed)

	next, needed, ok = g.NextTier(2500)
	require.True(t, ok)
	assert.Equal(t, models.TierGold, next)
	assert.Equal(t, 500, needed)

	_, _, ok = g.NextTier(20000)
	assert.False(t, ok)
}

func TestPlacementTierForCount(t *testing.T) {
	g := newTestGamification(t)

	tests := []struct {
		placements int
		want       models.UserTier
	}{
		{0, models.TierBronze},
		{5, models.TierBronze},
		{6, models.TierSilver},
		{15, models.TierSilver},
		{16, models.TierGold},
		{31, models.TierPlatinum},
		{51, models.TierDiamond},
		{200, models.TierDiamond},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.PlacementTierForCount(tt.placements), "placements %d", tt.placements)
	}
}

func TestNewGamificationServiceValidation(t *testing.T) {
	cfg := DefaultGamificationConfig()
	cfg.RewardTiers = nil
	_, err := NewGamificationService(cfg)
	assert.ErrorIs(t, err, ErrConfiguration)

	cfg = DefaultGamificationConfig()
	cfg.RewardTiers = []models.RewardTier{{Tier: models.TierSilver, PointThreshold: 100}}
	_, err = NewGamificationService(cfg)
	assert.ErrorIs(t, err, ErrConfiguration)

	cfg = DefaultGamificationConfig()
	cfg.FreezeEveryDays = 0
	_, err = NewGamificationService(cfg)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestUpdateStreakFirstActivity(t *testing.T) {
	g := newTestGamification(t)

	state := g.UpdateStreak(models.StreakState{}, day("2026-03-01"))
	assert.Equal(t, 1, state.CurrentStreak)
	assert.Equal(t, 1, state.MaxStreak)
	assert.Equal(t, "2026-03-01", state.LastActiveDate)
	assert.False(t, state.FreezeAvailable)
}

func TestUpdateStreakSameDayNoOp(t *testing.T) {
	g := newTestGamification(t)

	state := models.StreakState{CurrentStreak: 5, MaxStreak: 9, LastActiveDate: "2026-03-01"}
	updated := g.UpdateStreak(state, day("2026-03-01"))
	assert.Equal(t, state, updated)
}

func TestUpdateStreakConsecutiveDays(t *testing.T) {
	g := newTestGamification(t)

	state := models.StreakState{}
	current := day("2026-03-01")
	for i := 0; i < 20; i++ {
		state = g.UpdateStreak(state, current)
		current = current.AddDate(0, 0, 1)
	}
	assert.Equal(t, 20, state.CurrentStreak)
	assert.Equal(t, 20, state.MaxStreak)
	// Freeze granted when the streak hit 14 and not yet consumed.
	assert.True(t, state.FreezeAvailable)
}

func TestUpdateStreakFreezeConsumption(t *testing.T) {
	g := newTestGamification(t)

	state := models.StreakState{CurrentStreak: 14, MaxStreak: 14, LastActiveDate: "2026-03-14", FreezeAvailable: true}

	// One missed day: the freeze absorbs it and the count survives.
	updated := g.UpdateStreak(state, day("2026-03-16"))
	assert.Equal(t, 14, updated.CurrentStreak)
	assert.False(t, updated.FreezeAvailable)
	assert.Equal(t, "2026-03-16", updated.LastActiveDate)

	// A second two-day gap with no freeze left resets.
	updated = g.UpdateStreak(updated, day("2026-03-18"))
	assert.Equal(t, 1, updated.CurrentStreak)
	assert.Equal(t, 14, updated.MaxStreak)
}

func TestUpdateStreakLongGapResets(t *testing.T) {
	g := newTestGamification(t)

	// A freeze never covers more than one missed day.
	state := models.StreakState{CurrentStreak: 20, MaxStreak: 20, LastActiveDate: "2026-03-01", FreezeAvailable: true}
	updated := g.UpdateStreak(state, day("2026-03-05"))
	assert.Equal(t, 1, updated.CurrentStreak)
	assert.Equal(t, 20, updated.MaxStreak)
	assert.True(t, updated.FreezeAvailable)
}

func TestUpdateStreakUnparseableState(t *testing.T) {
	g := newTestGamification(t)

	state := models.StreakState{CurrentStreak: 7, LastActiveDate: "not-a-date"}
	updated := g.UpdateStreak(state, day("2026-03-01"))
	assert.Equal(t, 1, updated.CurrentStreak)
	assert.Equal(t, "2026-03-01", updated.LastActiveDate)
}

func TestCheckAchievements(t *testing.T) {
	g := newTestGamification(t)

	stats := models.UserStats{
		ReferralCount:  5,
		PlacementCount: 1,
		CurrentStreak:  7,
		Unlocked:       map[string]bool{},
	}
	unlocked := g.CheckAchievements(stats)

	ids := make(map[string]bool, len(unlocked))
	for _, def := range unlocked {
		ids[def.ID] = true
	}
	assert.True(t, ids["first_referral"])
	assert.True(t, ids["referral_5"])
	assert.True(t, ids["first_hire"])
	assert.True(t, ids["streak_week"])
	assert.False(t, ids["referral_10"])
	assert.False(t, ids["placement_5"])
	assert.False(t, ids["profile_complete"])
}

func TestCheckAchievementsIdempotent(t *testing.T) {
	g := newTestGamification(t)

	stats := models.UserStats{
		ReferralCount: 5,
		Unlocked: map[string]bool{
			"first_referral": true,
			"referral_5":     true,
		},
	}
	unlocked := g.CheckAchievements(stats)
	assert.Empty(t, unlocked)
}

func TestCheckAchievementsRenewableStreak(t *testing.T) {
	g := newTestGamification(t)

	// Streak achievements renew at each multiple even once unlocked.
	stats := models.UserStats{
		CurrentStreak: 14,
		Unlocked:      map[string]bool{"streak_week": true},
	}
	unlocked := g.CheckAchievements(stats)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "streak_week", unlocked[0].ID)

	// But not on an off-cycle day.
	stats.CurrentStreak = 15
	assert.Empty(t, g.CheckAchievements(stats))
}
