package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hiringreferrals/backend/controllers"
	"github.com/hiringreferrals/backend/middleware"
)

// RegisterApplicationRoutes sets up the application pipeline routes
func RegisterApplicationRoutes(e *echo.Echo, db *mongo.Client, applicationController *controllers.ApplicationController) {
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())
	r.Use(middleware.ActivityTracker(db))

	r.POST("/applications", applicationController.CreateApplication)
	r.GET("/jobs/:id/applications", applicationController.GetApplicationsByJob)

	// Only hiring roles may move applications through the pipeline
	pipeline := r.Group("/applications")
	pipeline.Use(middleware.RequireRole("company", "recruiter"))
	pipeline.PUT("/:id/status", applicationController.UpdateApplicationStatus)
}
