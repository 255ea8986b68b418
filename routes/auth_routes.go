package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hiringreferrals/backend/controllers"
	"github.com/hiringreferrals/backend/middleware"
)

// RegisterAuthRoutes sets up authentication and session routes
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client, authController *controllers.AuthController) {
	// Public authentication routes
	e.POST("/api/auth/register", authController.Register)
	e.POST("/api/auth/login", authController.Login)
	e.GET("/api/auth/validate-token", authController.ValidateSession)

	// Protected session routes
	r := e.Group("/api/auth")
	r.Use(middleware.JWTMiddleware())
	r.Use(middleware.ActivityTracker(db))
	r.POST("/logout", authController.Logout)
	r.GET("/me", authController.GetCurrentUser)
}
