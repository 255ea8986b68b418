// controllers/matching_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hiringreferrals/backend/config"
	"github.com/hiringreferrals/backend/models"
	"github.com/hiringreferrals/backend/services"
)

// MatchingController exposes the candidate-job scorer
type MatchingController struct {
	DB      *mongo.Client
	Matcher *services.CandidateMatcher
}

// NewMatchingController creates a new matching controller
func NewMatchingController(db *mongo.Client, matcher *services.CandidateMatcher) *MatchingController {
	return &MatchingController{DB: db, Matcher: matcher}
}

// ScorePair scores one candidate profile against one job profile, both
// supplied inline.
func (mc *MatchingController) ScorePair(c echo.Context) error {
	var req models.MatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	result, err := mc.Matcher.Match(req.Candidate, req.Job)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Matching failed",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Match scored",
		Data:    result,
	})
}

// ScoreStored scores a stored candidate against a stored job by their IDs
func (mc *MatchingController) ScoreStored(c echo.Context) error {
	candidateID, err := primitive.ObjectIDFromHex(c.Param("candidateId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid candidate ID",
		})
	}
	jobID, err := primitive.ObjectIDFromHex(c.Param("jobId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid job ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var candidate models.Candidate
	if err := config.GetCollection(mc.DB, "candidates").FindOne(ctx, bson.M{"_id": candidateID}).Decode(&candidate); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Candidate not found",
		})
	}

	var job models.Job
	if err := config.GetCollection(mc.DB, "jobs").FindOne(ctx, bson.M{"_id": jobID}).Decode(&job); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Job not found",
		})
	}

	result, err := mc.Matcher.Match(candidate.Profile(), job.Profile())
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Matching failed",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Match scored",
		Data:    result,
	})
}

// RankCandidates scores every stored candidate against a job and returns the
// ranked list, best match first.
func (mc *MatchingController) RankCandidates(c echo.Context) error {
	jobID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid job ID",
		})
	}

	minScore := 0
	if minStr := c.QueryParam("minScore"); minStr != "" {
		if parsed, err := strconv.Atoi(minStr); err == nil && parsed >= 0 && parsed <= 100 {
			minScore = parsed
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var job models.Job
	if err := config.GetCollection(mc.DB, "jobs").FindOne(ctx, bson.M{"_id": jobID}).Decode(&job); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Job not found",
		})
	}

	cursor, err := config.GetCollection(mc.DB, "candidates").Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch candidates",
		})
	}
	defer cursor.Close(ctx)

	var candidates []models.Candidate
	if err := cursor.All(ctx, &candidates); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode candidates",
		})
	}

	// Candidates with unscorable profiles are skipped, not fatal
	profiles := make([]models.CandidateProfile, 0, len(candidates))
	for _, cand := range candidates {
		profile := cand.Profile()
		if profile.Skills == nil || (profile.Location == "" && len(profile.PreferredLocations) == 0) {
			continue
		}
		profiles = append(profiles, profile)
	}

	results, err := mc.Matcher.MatchCandidates(job.Profile(), profiles, minScore)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Ranking failed: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Candidates ranked",
		Data:    results,
	})
}
