// controllers/application_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hiringreferrals/backend/config"
	"github.com/hiringreferrals/backend/middleware"
	"github.com/hiringreferrals/backend/models"
	"github.com/hiringreferrals/backend/services"
	"github.com/hiringreferrals/backend/utils"
	ws "github.com/hiringreferrals/backend/websocket"
)

// Points awarded to the referrer when their candidate is hired
const placementPoints = 500

// ApplicationController drives candidates through the hiring pipeline
type ApplicationController struct {
	DB           *mongo.Client
	Matcher      *services.CandidateMatcher
	Calculator   *services.CommissionCalculator
	Gamification *services.GamificationService
	Hub          *ws.Hub
	logger       *log.Logger
}

// NewApplicationController creates a new application controller
func NewApplicationController(db *mongo.Client, matcher *services.CandidateMatcher, calculator *services.CommissionCalculator, gamification *services.GamificationService, hub *ws.Hub) *ApplicationController {
	return &ApplicationController{
		DB:           db,
		Matcher:      matcher,
		Calculator:   calculator,
		Gamification: gamification,
		Hub:          hub,
		logger:       log.New(os.Stdout, "[APPLICATIONS] ", log.LstdFlags),
	}
}

// CreateApplication applies a candidate to a job. The match score is computed
// on creation; candidates at or above the shortlist threshold are flagged.
func (apc *ApplicationController) CreateApplication(c echo.Context) error {
	var req models.ApplicationCreateRequest
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

	jobID, err := primitive.ObjectIDFromHex(req.JobID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid job ID",
		})
	}
	candidateID, err := primitive.ObjectIDFromHex(req.CandidateID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid candidate ID",
		})
	}

	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}
	recruiterID, _ := primitive.ObjectIDFromHex(userID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var job models.Job
	if err := config.GetCollection(apc.DB, "jobs").FindOne(ctx, bson.M{"_id": jobID}).Decode(&job); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Job not found",
		})
	}
	if job.Status != "open" {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Job is not accepting applications",
		})
	}

	var candidate models.Candidate
	if err := config.GetCollection(apc.DB, "candidates").FindOne(ctx, bson.M{"_id": candidateID}).Decode(&candidate); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Candidate not found",
		})
	}

	appColl := config.GetCollection(apc.DB, "applications")
	count, err := appColl.CountDocuments(ctx, bson.M{"jobId": jobID, "candidateId": candidateID})
	if err == nil && count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Candidate has already applied to this job",
		})
	}

	match, err := apc.Matcher.Match(candidate.Profile(), job.Profile())
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Matching failed: " + err.Error(),
		})
	}

	now := time.Now()
	application := models.Application{
		JobID:         jobID,
		CandidateID:   candidateID,
		RecruiterID:   recruiterID,
		Status:        models.StatusApplied,
		MatchScore:    match.OverallScore,
		AutoShortlist: match.AutoShortlist,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.ReferrerID != "" {
		if referrerID, err := primitive.ObjectIDFromHex(req.ReferrerID); err == nil {
			application.ReferrerID = referrerID
		}
	}

	result, err := appColl.InsertOne(ctx, application)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create application",
		})
	}
	application.ID = result.InsertedID.(primitive.ObjectID)

	// Shortlisted candidates hear about it right away
	if match.AutoShortlist && candidate.UserID != primitive.NilObjectID {
		var owner models.User
		if err := config.GetCollection(apc.DB, "users").FindOne(ctx, bson.M{"_id": candidate.UserID}).Decode(&owner); err == nil {
			go utils.SendShortlistEmail(owner.Email, candidate.FullName, job.Title)
		}
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Application created",
		Data: map[string]interface{}{
			"application": application,
			"match":       match,
		},
	})
}

// GetApplicationsByJob lists applications for one job, best match first
func (apc *ApplicationController) GetApplicationsByJob(c echo.Context) error {
	jobID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid job ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"jobId": jobID}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "matchScore", Value: -1}})
	cursor, err := config.GetCollection(apc.DB, "applications").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch applications",
		})
	}
	defer cursor.Close(ctx)

	var applications []models.Application
	if err := cursor.All(ctx, &applications); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode applications",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Applications retrieved",
		Data:    applications,
	})
}

// UpdateApplicationStatus moves an application through the pipeline. Hiring
// awards points to the referrer and creates the commission record.
func (apc *ApplicationController) UpdateApplicationStatus(c echo.Context) error {
	applicationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid application ID",
		})
	}

	var req models.ApplicationStatusRequest
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

	newStatus, err := models.ParseApplicationStatus(req.Status)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	appColl := config.GetCollection(apc.DB, "applications")

	var application models.Application
	if err := appColl.FindOne(ctx, bson.M{"_id": applicationID}).Decode(&application); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Application not found",
		})
	}

	if !models.IsStatusTransitionAllowed(application.Status, newStatus) {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Cannot move application from " + string(application.Status) + " to " + string(newStatus),
		})
	}

	now := time.Now()
	update := bson.M{"status": newStatus, "updatedAt": now}
	if newStatus == models.StatusHired {
		if req.AnnualPackage <= 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "annualPackage is required when hiring",
			})
		}
		update["annualPackage"] = req.AnnualPackage
		update["hiredAt"] = now
	}

	if _, err := appColl.UpdateOne(ctx, bson.M{"_id": applicationID}, bson.M{"$set": update}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update application",
		})
	}
	application.Status = newStatus
	application.UpdatedAt = now
	if newStatus == models.StatusHired {
		application.AnnualPackage = req.AnnualPackage
		application.HiredAt = &now
	}

	switch newStatus {
	case models.StatusHired:
		if err := apc.onHired(ctx, &application); err != nil {
			apc.logger.Printf("Post-hire processing failed for application %s: %v", applicationID.Hex(), err)
		}
	case models.StatusInterview:
		apc.sendInterviewInvite(ctx, &application)
	}

	// Keep the referrer informed in real time; failure just means not connected
	if application.ReferrerID != primitive.NilObjectID {
		if err := apc.Hub.NotifyApplicationStatus(application.ReferrerID, application); err == nil {
			apc.logger.Printf("Notified referrer %s of status change", application.ReferrerID.Hex())
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Application status updated",
		Data:    application,
	})
}

// sendInterviewInvite emails the candidate when their application reaches
// the interview stage
func (apc *ApplicationController) sendInterviewInvite(ctx context.Context, application *models.Application) {
	var candidate models.Candidate
	if err := config.GetCollection(apc.DB, "candidates").FindOne(ctx, bson.M{"_id": application.CandidateID}).Decode(&candidate); err != nil {
		return
	}
	if candidate.UserID == primitive.NilObjectID {
		return
	}
	var owner models.User
	if err := config.GetCollection(apc.DB, "users").FindOne(ctx, bson.M{"_id": candidate.UserID}).Decode(&owner); err != nil {
		return
	}
	var job models.Job
	if err := config.GetCollection(apc.DB, "jobs").FindOne(ctx, bson.M{"_id": application.JobID}).Decode(&job); err != nil {
		return
	}
	go utils.SendInterviewEmail(owner.Email, candidate.FullName, job.Title)
}

// onHired awards placement points to the referrer and creates the pending
// commission record through the calculator.
func (apc *ApplicationController) onHired(ctx context.Context, application *models.Application) error {
	beneficiary := application.ReferrerID
	commissionType := models.CommissionReferral
	if beneficiary == primitive.NilObjectID {
		beneficiary = application.RecruiterID
		commissionType = models.CommissionPlacement
	}
	if beneficiary == primitive.NilObjectID {
		return nil
	}

	userColl := config.GetCollection(apc.DB, "users")
	appColl := config.GetCollection(apc.DB, "applications")

	// Tier comes from the beneficiary's successful placement count
	placements, err := appColl.CountDocuments(ctx, bson.M{
		"status": models.StatusHired,
		"$or": bson.A{
			bson.M{"referrerId": beneficiary},
			bson.M{"recruiterId": beneficiary},
		},
	})
	if err != nil {
		return err
	}
	tier := apc.Gamification.PlacementTierForCount(int(placements))

	breakdown, err := apc.Calculator.CalculateForPackage(application.AnnualPackage, tier, commissionType)
	if err != nil {
		return err
	}

	record := models.CommissionRecord{
		UserID:        beneficiary,
		ApplicationID: application.ID,
		Breakdown:     breakdown,
		Status:        "pending",
		CreatedAt:     time.Now(),
	}
	if _, err := config.GetCollection(apc.DB, "commissions").InsertOne(ctx, record); err != nil {
		return err
	}

	// Award placement points and re-derive the tier fresh from points
	var before models.User
	if err := userColl.FindOne(ctx, bson.M{"_id": beneficiary}).Decode(&before); err != nil {
		return err
	}
	oldTier := apc.Gamification.TierForPoints(before.TotalPoints)

	if _, err := userColl.UpdateOne(ctx, bson.M{"_id": beneficiary}, bson.M{
		"$inc": bson.M{"totalPoints": placementPoints},
		"$set": bson.M{"updatedAt": time.Now()},
	}); err != nil {
		return err
	}

	newTier := apc.Gamification.TierForPoints(before.TotalPoints + placementPoints)
	if newTier != oldTier {
		apc.Hub.NotifyTierPromotion(beneficiary, map[string]interface{}{
			"tier":        newTier,
			"totalPoints": before.TotalPoints + placementPoints,
		})
	}

	stats := models.UserStats{
		ReferralCount:  len(before.Referrals),
		PlacementCount: int(placements),
		Unlocked:       unlockedMap(ctx, apc.DB, beneficiary),
	}
	if before.Streak != nil {
		stats.CurrentStreak = before.Streak.CurrentStreak
	}
	awardAchievements(ctx, apc.DB, apc.Gamification, beneficiary, stats)

	invalidateLeaderboard(ctx)

	return nil
}
