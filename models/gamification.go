// models/gamification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StreakState tracks a user's consecutive-day activity. Mutated at most once
// per calendar day by the streak-update operation.
type StreakState struct {
	CurrentStreak   int    `json:"currentStreak" bson:"currentStreak"`
	MaxStreak       int    `json:"maxStreak" bson:"maxStreak"`
	LastActiveDate  string `json:"lastActiveDate" bson:"lastActiveDate"` // "2006-01-02"
	FreezeAvailable bool   `json:"freezeAvailable" bson:"freezeAvailable"`
}

// AchievementDef is a static achievement definition.
type AchievementDef struct {
	ID          string `json:"id" bson:"id"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`
	Type        string `json:"type" bson:"type"` // "referral", "placement", "streak", "profile", "milestone"
	Points      int    `json:"points" bson:"points"`
	Tier        int    `json:"tier" bson:"tier"`
	Renewable   bool   `json:"renewable,omitempty" bson:"renewable,omitempty"`
}

// UnlockedAchievement records an achievement earned by a user.
type UnlockedAchievement struct {
	UserID        primitive.ObjectID `json:"userId" bson:"userId"`
	AchievementID string             `json:"achievementId" bson:"achievementId"`
	Points        int                `json:"points" bson:"points"`
	AchievedAt    time.Time          `json:"achievedAt" bson:"achievedAt"`
}

// RewardTier maps a point threshold to a named tier.
type RewardTier struct {
	Tier           UserTier `json:"tier" bson:"tier"`
	PointThreshold int      `json:"pointThreshold" bson:"pointThreshold"`
}

// UserStats are the running statistics achievement predicates evaluate against.
type UserStats struct {
	ReferralCount   int  `json:"referralCount" bson:"referralCount"`
	PlacementCount  int  `json:"placementCount" bson:"placementCount"`
	CurrentStreak   int  `json:"currentStreak" bson:"currentStreak"`
	ProfileComplete bool `json:"profileComplete" bson:"profileComplete"`
	Unlocked        map[string]bool `json:"-" bson:"-"`
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	Rank        int      `json:"rank" bson:"rank,omitempty"`
	UserID      string   `json:"userId" bson:"userId"`
	FullName    string   `json:"fullName" bson:"fullName"`
	TotalPoints int      `json:"totalPoints" bson:"totalPoints"`
	Tier        UserTier `json:"tier" bson:"tier,omitempty"`
}

// GamificationStatus is the aggregate view returned by the stats endpoint.
type GamificationStatus struct {
	UserID          string                `json:"userId"`
	TotalPoints     int                   `json:"totalPoints"`
	Tier            UserTier              `json:"tier"`
	NextTier        UserTier              `json:"nextTier,omitempty"`
	PointsToNext    int                   `json:"pointsToNext"`
	Streak          StreakState           `json:"streak"`
	Achievements    []UnlockedAchievement `json:"achievements"`
}
