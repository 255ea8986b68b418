// controllers/dashboard_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hiringreferrals/backend/config"
	"github.com/hiringreferrals/backend/middleware"
	"github.com/hiringreferrals/backend/models"
	"github.com/hiringreferrals/backend/services"
)

// DashboardController aggregates counts for the landing dashboard.
type DashboardController struct {
	DB           *mongo.Client
	Gamification *services.GamificationService
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(db *mongo.Client, gamification *services.GamificationService) *DashboardController {
	return &DashboardController{DB: db, Gamification: gamification}
}

// GetStats returns counts scoped to the caller's role. Admins get
// platform-wide totals, everyone else sees their own activity.
func (dc *DashboardController) GetStats(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}
	objID, _ := primitive.ObjectIDFromHex(userID)
	role := middleware.ExtractRole(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats := bson.M{}
	if role == "admin" {
		users, _ := config.GetCollection(dc.DB, "users").CountDocuments(ctx, bson.M{"isActive": true})
		jobs, _ := config.GetCollection(dc.DB, "jobs").CountDocuments(ctx, bson.M{"status": "open"})
		applications, _ := config.GetCollection(dc.DB, "applications").CountDocuments(ctx, bson.M{})
		hires, _ := config.GetCollection(dc.DB, "applications").CountDocuments(ctx, bson.M{"status": models.StatusHired})
		pendingCommissions, _ := config.GetCollection(dc.DB, "commissions").CountDocuments(ctx, bson.M{"status": "pending"})
		pendingPayouts, _ := config.GetCollection(dc.DB, "payouts").CountDocuments(ctx, bson.M{"status": "requested"})

		stats = bson.M{
			"activeUsers":        users,
			"openJobs":           jobs,
			"totalApplications":  applications,
			"totalHires":         hires,
			"pendingCommissions": pendingCommissions,
			"pendingPayouts":     pendingPayouts,
		}
	} else {
		ownership := bson.M{"$or": bson.A{
			bson.M{"referrerId": objID},
			bson.M{"recruiterId": objID},
		}}
		applications, _ := config.GetCollection(dc.DB, "applications").CountDocuments(ctx, ownership)
		hires, _ := config.GetCollection(dc.DB, "applications").CountDocuments(ctx, bson.M{
			"status": models.StatusHired,
			"$or": bson.A{
				bson.M{"referrerId": objID},
				bson.M{"recruiterId": objID},
			},
		})
		pending, _ := config.GetCollection(dc.DB, "commissions").CountDocuments(ctx, bson.M{
			"userId": objID,
			"status": bson.M{"$in": bson.A{"pending", "approved"}},
		})

		var user models.User
		points := 0
		referrals := 0
		if err := config.GetCollection(dc.DB, "users").FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err == nil {
			points = user.TotalPoints
			referrals = len(user.Referrals)
		}

		stats = bson.M{
			"applications":       applications,
			"hires":              hires,
			"pendingCommissions": pending,
			"totalPoints":        points,
			"tier":               dc.Gamification.TierForPoints(points),
			"commissionTier":     dc.Gamification.PlacementTierForCount(int(hires)),
			"referralCount":      referrals,
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard stats retrieved",
		Data:    stats,
	})
}
