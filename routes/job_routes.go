package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hiringreferrals/backend/controllers"
	"github.com/hiringreferrals/backend/middleware"
)

// RegisterJobRoutes sets up job and candidate management routes
func RegisterJobRoutes(e *echo.Echo, db *mongo.Client, jobController *controllers.JobController, candidateController *controllers.CandidateController) {
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())
	r.Use(middleware.ActivityTracker(db))

	// Job routes; creation is restricted to hiring roles
	r.GET("/jobs", jobController.GetJobs)
	r.GET("/jobs/:id", jobController.GetJob)

	hiring := r.Group("/jobs")
	hiring.Use(middleware.RequireRole("company", "recruiter"))
	hiring.POST("", jobController.CreateJob)
	hiring.PUT("/:id/status", jobController.UpdateJobStatus)

	// Candidate routes
	r.POST("/candidates", candidateController.CreateCandidate)
	r.GET("/candidates", candidateController.GetCandidates)
	r.GET("/candidates/:id", candidateController.GetCandidate)
}
