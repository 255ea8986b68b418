package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hiringreferrals/backend/controllers"
	"github.com/hiringreferrals/backend/middleware"
)

// RegisterMatchingRoutes sets up candidate-job matching routes
func RegisterMatchingRoutes(e *echo.Echo, db *mongo.Client, matchingController *controllers.MatchingController) {
	r := e.Group("/api/matching")
	r.Use(middleware.JWTMiddleware())
	r.Use(middleware.ActivityTracker(db))

	r.POST("/score", matchingController.ScorePair)
	r.GET("/candidates/:candidateId/jobs/:jobId", matchingController.ScoreStored)
	r.GET("/jobs/:id/candidates", matchingController.RankCandidates)
}
