package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hiringreferrals/backend/controllers"
	"github.com/hiringreferrals/backend/middleware"
	"github.com/hiringreferrals/backend/models"
	"github.com/hiringreferrals/backend/utils"
	"github.com/hiringreferrals/backend/websocket"
)

// RegisterGamificationRoutes sets up tier, streak, achievement and leaderboard routes
func RegisterGamificationRoutes(e *echo.Echo, db *mongo.Client, gamificationController *controllers.GamificationController, dashboardController *controllers.DashboardController, hub *websocket.Hub) {
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())
	r.Use(middleware.ActivityTracker(db))

	r.GET("/gamification/status", gamificationController.GetStatus)
	r.POST("/gamification/activity", gamificationController.RecordActivity)
	r.GET("/gamification/achievements", gamificationController.GetAchievements)
	r.GET("/gamification/leaderboard", gamificationController.GetLeaderboard)

	admin := r.Group("/gamification")
	admin.Use(middleware.RequireRole("admin"))
	admin.POST("/award-points", gamificationController.AwardPoints)

	r.GET("/dashboard/stats", dashboardController.GetStats)

	// WebSocket route
	r.GET("/ws", func(c echo.Context) error {
		user, err := utils.GetUserFromToken(c, db)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Unauthorized",
			})
		}
		return websocket.HandleWebSocket(c, hub, user.ID)
	})
}
