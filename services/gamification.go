// services/gamification.go
package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/hiringreferrals/backend/models"
)

// GamificationConfig holds the tier thresholds, placement-tier bands, and
// achievement definitions. Injected once; read-only afterwards.
type GamificationConfig struct {
	// RewardTiers map point totals to tiers, in any order; validated and
	// sorted at construction.
	RewardTiers []models.RewardTier
	// PlacementTierThresholds map successful-placement counts to the user
	// tier consumed by the commission calculator.
	PlacementTierThresholds map[models.UserTier]int
	// Achievements are the static unlock definitions.
	Achievements []models.AchievementDef
	// FreezeEveryDays grants a streak freeze each time the streak reaches a
	// multiple of this many consecutive days.
	FreezeEveryDays int
}

// DefaultGamificationConfig returns the platform's standard tables.
func DefaultGamificationConfig() GamificationConfig {
	return GamificationConfig{
		RewardTiers: []models.RewardTier{
			{Tier: models.TierBronze, PointThreshold: 0},
			{Tier: models.TierSilver, PointThreshold: 1000},
			{Tier: models.TierGold, PointThreshold: 3000},
			{Tier: models.TierPlatinum, PointThreshold: 7500},
			{Tier: models.TierDiamond, PointThreshold: 15000},
		},
		PlacementTierThresholds: map[models.UserTier]int{
			models.TierBronze:   0,
			models.TierSilver:   6,
			models.TierGold:     16,
			models.TierPlatinum: 31,
			models.TierDiamond:  51,
		},
		Achievements: []models.AchievementDef{
			{ID: "first_referral", Name: "First Connection", Description: "Successfully refer your first candidate", Type: "referral", Points: 100, Tier: 1},
			{ID: "referral_5", Name: "Growing Network", Description: "Successfully refer 5 candidates", Type: "referral", Points: 250, Tier: 2},
			{ID: "referral_10", Name: "Referral Pro", Description: "Successfully refer 10 candidates", Type: "referral", Points: 500, Tier: 3},
			{ID: "referral_25", Name: "Referral Master", Description: "Successfully refer 25 candidates", Type: "referral", Points: 1000, Tier: 4},
			{ID: "first_hire", Name: "First Success", Description: "Your first referral gets hired", Type: "placement", Points: 500, Tier: 2},
			{ID: "placement_5", Name: "Talent Scout", Description: "5 of your referrals get hired", Type: "placement", Points: 1500, Tier: 3},
			{ID: "placement_10", Name: "Placement Pro", Description: "10 successful placements", Type: "placement", Points: 2500, Tier: 4},
			{ID: "profile_complete", Name: "Identity Established", Description: "Complete your profile with all details", Type: "profile", Points: 50, Tier: 1},
			{ID: "streak_week", Name: "Weekly Streak", Description: "Active for 7 days in a row", Type: "streak", Points: 100, Tier: 1, Renewable: true},
			{ID: "streak_month", Name: "Monthly Dedication", Description: "Active for 30 days in a row", Type: "streak", Points: 500, Tier: 3, Renewable: true},
		},
		FreezeEveryDays: 14,
	}
}

// GamificationService maps points to tiers, tracks daily-activity streaks,
// and evaluates achievement unlocks. Pure transforms; callers persist.
type GamificationService struct {
	cfg GamificationConfig
	// tiers sorted ascending by threshold
	tiers []models.RewardTier
}

// NewGamificationService validates and orders the tier table once.
func NewGamificationService(cfg GamificationConfig) (*GamificationService, error) {
	if len(cfg.RewardTiers) == 0 {
		return nil, fmt.Errorf("%w: reward tier table is empty", ErrConfiguration)
	}
	tiers := make([]models.RewardTier, len(cfg.RewardTiers))
	copy(tiers, cfg.RewardTiers)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].PointThreshold < tiers[j].PointThreshold })
	if tiers[0].PointThreshold != 0 {
		return nil, fmt.Errorf("%w: lowest reward tier must start at 0 points", ErrConfiguration)
	}
	if cfg.FreezeEveryDays <= 0 {
		return nil, fmt.Errorf("%w: freeze interval must be positive", ErrConfiguration)
	}
	return &GamificationService{cfg: cfg, tiers: tiers}, nil
}

// TierForPoints returns the highest tier whose threshold does not exceed the
// point total. Always derived fresh from points, never cached.
func (g *GamificationService) TierForPoints(totalPoints int) models.UserTier {
	tier := g.tiers[0].Tier
	for _, t := range g.tiers {
		if totalPoints >= t.PointThreshold {
			tier = t.Tier
		}
	}
	return tier
}

// NextTier returns the next tier above the point total and the points still
// needed to reach it. ok is false at the top tier.
func (g *GamificationService) NextTier(totalPoints int) (models.UserTier, int, bool) {
	for _, t := range g.tiers {
		if totalPoints < t.PointThreshold {
			return t.Tier, t.PointThreshold - totalPoints, true
		}
	}
	return "", 0, false
}

// PlacementTierForCount maps a successful-placement count to the user tier
// the commission calculator consumes.
func (g *GamificationService) PlacementTierForCount(placements int) models.UserTier {
	tier := models.TierBronze
	for _, t := range models.TierOrder {
		if threshold, ok := g.cfg.PlacementTierThresholds[t]; ok && placements >= threshold {
			tier = t
		}
	}
	return tier
}

const streakDateLayout = "2006-01-02"

// UpdateStreak applies one day of activity to the streak state and returns
// the new state. Pure transform; the caller persists the result.
//
// Same-day calls are no-ops. A one-day gap increments the streak and grants
// a freeze at every FreezeEveryDays multiple. A two-day gap consumes an
// available freeze, preserving the count; any longer gap resets to 1.
func (g *GamificationService) UpdateStreak(state models.StreakState, today time.Time) models.StreakState {
	todayDate := today.UTC().Truncate(24 * time.Hour)

	if state.LastActiveDate == "" {
		state.CurrentStreak = 1
		if state.MaxStreak < 1 {
			state.MaxStreak = 1
		}
		state.LastActiveDate = todayDate.Format(streakDateLayout)
		return state
	}

	last, err := time.Parse(streakDateLayout, state.LastActiveDate)
	if err != nil {
		// Unparseable state counts as a fresh start.
		return g.UpdateStreak(models.StreakState{}, today)
	}

	dayDiff := int(todayDate.Sub(last).Hours() / 24)
	switch {
	case dayDiff <= 0:
		return state
	case dayDiff == 1:
		state.CurrentStreak++
		if state.CurrentStreak%g.cfg.FreezeEveryDays == 0 {
			state.FreezeAvailable = true
		}
	case dayDiff == 2 && state.FreezeAvailable:
		// Freeze covers the single missed day; consumed once.
		state.FreezeAvailable = false
	default:
		state.CurrentStreak = 1
	}

	if state.CurrentStreak > state.MaxStreak {
		state.MaxStreak = state.CurrentStreak
	}
	state.LastActiveDate = todayDate.Format(streakDateLayout)
	return state
}

// CheckAchievements evaluates every definition against the user's running
// stats and returns the newly unlocked ones. Idempotent: achievements in
// stats.Unlocked are skipped unless renewable.
func (g *GamificationService) CheckAchievements(userStats models.UserStats) []models.AchievementDef {
	var unlocked []models.AchievementDef
	for _, def := range g.cfg.Achievements {
		if userStats.Unlocked[def.ID] && !def.Renewable {
			continue
		}
		if g.achieved(def, userStats) {
			unlocked = append(unlocked, def)
		}
	}
	return unlocked
}

func (g *GamificationService) achieved(def models.AchievementDef, stats models.UserStats) bool {
	switch def.ID {
	case "first_referral":
		return stats.ReferralCount >= 1
	case "referral_5":
		return stats.ReferralCount >= 5
	case "referral_10":
		return stats.ReferralCount >= 10
	case "referral_25":
		return stats.ReferralCount >= 25
	case "first_hire":
		return stats.PlacementCount >= 1
	case "placement_5":
		return stats.PlacementCount >= 5
	case "placement_10":
		return stats.PlacementCount >= 10
	case "profile_complete":
		return stats.ProfileComplete
	case "streak_week":
		return stats.CurrentStreak >= 7 && stats.CurrentStreak%7 == 0
	case "streak_month":
		return stats.CurrentStreak >= 30 && stats.CurrentStreak%30 == 0
	}
	return false
}

// AchievementDefs exposes the static definitions for the achievements API.
func (g *GamificationService) AchievementDefs() []models.AchievementDef {
	return g.cfg.Achievements
}

// PlacementTierThresholds exposes the tier thresholds for commission
// summaries.
func (g *GamificationService) PlacementTierThresholds() map[models.UserTier]int {
	return g.cfg.PlacementTierThresholds
}
