package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hiringreferrals/backend/controllers"
	"github.com/hiringreferrals/backend/middleware"
)

// RegisterReferralRoutes sets up referral code and QR routes
func RegisterReferralRoutes(e *echo.Echo, db *mongo.Client, referralController *controllers.ReferralController) {
	r := e.Group("/api/referrals")
	r.Use(middleware.JWTMiddleware())
	r.Use(middleware.ActivityTracker(db))

	r.GET("", referralController.GetReferralData)
	r.POST("/regenerate", referralController.RegenerateReferralCode)
	r.GET("/users", referralController.GetReferredUsers)
}
