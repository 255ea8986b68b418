// controllers/gamification_controller.go
package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hiringreferrals/backend/config"
	"github.com/hiringreferrals/backend/middleware"
	"github.com/hiringreferrals/backend/models"
	"github.com/hiringreferrals/backend/repositories"
	"github.com/hiringreferrals/backend/services"
	ws "github.com/hiringreferrals/backend/websocket"
)

const leaderboardCacheKey = "leaderboard:points"

// GamificationController exposes points, tiers, streaks, achievements and
// the leaderboard.
type GamificationController struct {
	DB           *mongo.Client
	Redis        *redis.Client
	Users        *repositories.UserRepository
	Gamification *services.GamificationService
	Hub          *ws.Hub
	logger       *log.Logger
}

// NewGamificationController creates a new gamification controller
func NewGamificationController(db *mongo.Client, redisClient *redis.Client, users *repositories.UserRepository, gamification *services.GamificationService, hub *ws.Hub) *GamificationController {
	return &GamificationController{
		DB:           db,
		Redis:        redisClient,
		Users:        users,
		Gamification: gamification,
		Hub:          hub,
		logger:       log.New(os.Stdout, "[GAMIFICATION] ", log.LstdFlags),
	}
}

// GetStatus returns the caller's points, tier (always derived fresh from
// points), streak and unlocked achievements.
func (gc *GamificationController) GetStatus(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := gc.Users.FindByID(ctx, objID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	status := models.GamificationStatus{
		UserID:      userID,
		TotalPoints: user.TotalPoints,
		Tier:        gc.Gamification.TierForPoints(user.TotalPoints),
	}
	if next, needed, ok := gc.Gamification.NextTier(user.TotalPoints); ok {
		status.NextTier = next
		status.PointsToNext = needed
	}
	if user.Streak != nil {
		status.Streak = *user.Streak
	}

	cursor, err := config.GetCollection(gc.DB, "achievements").Find(ctx, bson.M{"userId": objID})
	if err == nil {
		defer cursor.Close(ctx)
		cursor.All(ctx, &status.Achievements)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Gamification status retrieved",
		Data:    status,
	})
}

// RecordActivity applies one day of activity to the caller's streak and
// evaluates streak achievements.
func (gc *GamificationController) RecordActivity(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := gc.Users.FindByID(ctx, objID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	streak := models.StreakState{}
	if user.Streak != nil {
		streak = *user.Streak
	}
	newStreak := gc.Gamification.UpdateStreak(streak, time.Now())

	if err := gc.Users.UpdateStreak(ctx, objID, newStreak); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update streak",
		})
	}

	stats := models.UserStats{
		ReferralCount: len(user.Referrals),
		CurrentStreak: newStreak.CurrentStreak,
		Unlocked:      unlockedMap(ctx, gc.DB, objID),
	}
	newlyUnlocked := awardAchievements(ctx, gc.DB, gc.Gamification, objID, stats)
	for _, def := range newlyUnlocked {
		gc.Hub.NotifyAchievement(objID, def)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Activity recorded",
		Data: map[string]interface{}{
			"streak":       newStreak,
			"achievements": newlyUnlocked,
		},
	})
}

// AwardPoints lets an admin grant points manually
func (gc *GamificationController) AwardPoints(c echo.Context) error {
	var req struct {
		UserID string `json:"userId" validate:"required"`
		Points int    `json:"points" validate:"required,gt=0"`
		Reason string `json:"reason,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	objID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	before, err := gc.Users.FindByID(ctx, objID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	if err := gc.Users.AddPoints(ctx, objID, req.Points); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to award points",
		})
	}

	newTotal := before.TotalPoints + req.Points
	oldTier := gc.Gamification.TierForPoints(before.TotalPoints)
	newTier := gc.Gamification.TierForPoints(newTotal)
	if newTier != oldTier {
		gc.Hub.NotifyTierPromotion(objID, map[string]interface{}{
			"tier":        newTier,
			"totalPoints": newTotal,
		})
	}

	invalidateLeaderboard(ctx)

	gc.logger.Printf("Awarded %d points to %s (%s)", req.Points, req.UserID, req.Reason)
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Points awarded",
		Data: map[string]interface{}{
			"totalPoints": newTotal,
			"tier":        newTier,
		},
	})
}

// GetAchievements lists the static achievement catalogue
func (gc *GamificationController) GetAchievements(c echo.Context) error {
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Achievements retrieved",
		Data:    gc.Gamification.AchievementDefs(),
	})
}

// GetLeaderboard returns the top users by points. Results are cached in a
// redis sorted set; mongo is the fallback when redis is unavailable.
func (gc *GamificationController) GetLeaderboard(c echo.Context) error {
	limit := int64(20)
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if parsed, err := strconv.ParseInt(limitStr, 10, 64); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if entries, ok := gc.leaderboardFromCache(ctx, limit); ok {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Leaderboard retrieved",
			Data:    entries,
		})
	}

	entries, err := gc.leaderboardFromMongo(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build leaderboard",
		})
	}

	gc.cacheLeaderboard(ctx, entries)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Leaderboard retrieved",
		Data:    entries,
	})
}

func (gc *GamificationController) leaderboardFromCache(ctx context.Context, limit int64) ([]models.LeaderboardEntry, bool) {
	if gc.Redis == nil {
		return nil, false
	}

	results, err := gc.Redis.ZRevRangeWithScores(ctx, leaderboardCacheKey, 0, limit-1).Result()
	if err != nil || len(results) == 0 {
		return nil, false
	}

	entries := make([]models.LeaderboardEntry, 0, len(results))
	for i, z := range results {
		var entry models.LeaderboardEntry
		member, ok := z.Member.(string)
		if !ok {
			return nil, false
		}
		if err := json.Unmarshal([]byte(member), &entry); err != nil {
			return nil, false
		}
		entry.Rank = i + 1
		entry.TotalPoints = int(z.Score)
		entries = append(entries, entry)
	}
	return entries, true
}

func (gc *GamificationController) leaderboardFromMongo(ctx context.Context, limit int64) ([]models.LeaderboardEntry, error) {
	users, err := gc.Users.TopByPoints(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, models.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      user.ID.Hex(),
			FullName:    user.FullName,
			TotalPoints: user.TotalPoints,
			Tier:        gc.Gamification.TierForPoints(user.TotalPoints),
		})
	}
	return entries, nil
}

func (gc *GamificationController) cacheLeaderboard(ctx context.Context, entries []models.LeaderboardEntry) {
	if gc.Redis == nil || len(entries) == 0 {
		return
	}

	pipe := gc.Redis.TxPipeline()
	pipe.Del(ctx, leaderboardCacheKey)
	for _, entry := range entries {
		payload, err := json.Marshal(models.LeaderboardEntry{
			UserID:   entry.UserID,
			FullName: entry.FullName,
			Tier:     entry.Tier,
		})
		if err != nil {
			continue
		}
		pipe.ZAdd(ctx, leaderboardCacheKey, &redis.Z{
			Score:  float64(entry.TotalPoints),
			Member: string(payload),
		})
	}
	pipe.Expire(ctx, leaderboardCacheKey, 5*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		gc.logger.Printf("Failed to cache leaderboard: %v", err)
	}
}

// invalidateLeaderboard drops the cached leaderboard after point changes
func invalidateLeaderboard(ctx context.Context) {
	if client := config.GetRedisClient(); client != nil {
		if err := client.Del(ctx, leaderboardCacheKey).Err(); err != nil {
			log.Printf("Failed to invalidate leaderboard cache: %v", err)
		}
	}
}

// unlockedMap loads the set of achievement IDs the user already holds
func unlockedMap(ctx context.Context, db *mongo.Client, userID primitive.ObjectID) map[string]bool {
	unlocked := make(map[string]bool)
	cursor, err := config.GetCollection(db, "achievements").Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return unlocked
	}
	defer cursor.Close(ctx)

	var records []models.UnlockedAchievement
	if err := cursor.All(ctx, &records); err != nil {
		return unlocked
	}
	for _, r := range records {
		unlocked[r.AchievementID] = true
	}
	return unlocked
}

// awardAchievements evaluates the catalogue against the user's stats,
// persists new unlocks, and credits their points. Returns the new unlocks.
func awardAchievements(ctx context.Context, db *mongo.Client, svc *services.GamificationService, userID primitive.ObjectID, stats models.UserStats) []models.AchievementDef {
	newlyUnlocked := svc.CheckAchievements(stats)
	if len(newlyUnlocked) == 0 {
		return nil
	}

	achColl := config.GetCollection(db, "achievements")
	userColl := config.GetCollection(db, "users")

	totalBonus := 0
	now := time.Now()
	for _, def := range newlyUnlocked {
		record := models.UnlockedAchievement{
			UserID:        userID,
			AchievementID: def.ID,
			Points:        def.Points,
			AchievedAt:    now,
		}
		if _, err := achColl.InsertOne(ctx, record); err != nil {
			log.Printf("Failed to record achievement %s for user %s: %v", def.ID, userID.Hex(), err)
			continue
		}
		totalBonus += def.Points
	}

	if totalBonus > 0 {
		if _, err := userColl.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
			"$inc": bson.M{"totalPoints": totalBonus},
			"$set": bson.M{"updatedAt": now},
		}); err != nil {
			log.Printf("Failed to credit achievement points for user %s: %v", userID.Hex(), err)
		}
		invalidateLeaderboard(ctx)
	}

	return newlyUnlocked
}
