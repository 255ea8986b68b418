// controllers/candidate_controller.go
package controllers

import (
	"context"
	"net/http"
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
)

// CandidateController manages candidate profiles
type CandidateController struct {
	DB           *mongo.Client
	Gamification *services.GamificationService
}

// NewCandidateController creates a new candidate controller
func NewCandidateController(db *mongo.Client, gamification *services.GamificationService) *CandidateController {
	return &CandidateController{DB: db, Gamification: gamification}
}

// CreateCandidate registers a candidate profile for the authenticated user
func (cc *CandidateController) CreateCandidate(c echo.Context) error {
	var req models.CandidateCreateRequest
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

	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid user ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	candidate := models.Candidate{
		UserID:             ownerID,
		FullName:           utils.SanitizeInput(req.FullName),
		Skills:             req.Skills,
		ExperienceYears:    req.ExperienceYears,
		Education:          req.Education,
		Location:           req.Location,
		PreferredLocations: req.PreferredLocations,
		WillingToRelocate:  req.WillingToRelocate,
		ExpectedSalary:     req.ExpectedSalary,
		CurrentCompany:     req.CurrentCompany,
		NoticePeriodDays:   req.NoticePeriodDays,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	collection := config.GetCollection(cc.DB, "candidates")
	result, err := collection.InsertOne(ctx, candidate)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create candidate profile",
		})
	}
	candidate.ID = result.InsertedID.(primitive.ObjectID)

	// A complete profile counts toward the profile achievement
	if profileComplete(candidate) {
		stats := models.UserStats{
			ProfileComplete: true,
			Unlocked:        unlockedMap(ctx, cc.DB, ownerID),
		}
		awardAchievements(ctx, cc.DB, cc.Gamification, ownerID, stats)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Candidate profile created",
		Data:    candidate,
	})
}

func profileComplete(cand models.Candidate) bool {
	return cand.FullName != "" && len(cand.Skills) > 0 &&
		len(cand.Education) > 0 && cand.Location != "" && cand.ExpectedSalary > 0
}

// GetCandidates lists candidate profiles
func (cc *CandidateController) GetCandidates(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(cc.DB, "candidates")
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
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

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Candidates retrieved",
		Data:    candidates,
	})
}

// GetCandidate returns one candidate profile by ID
func (cc *CandidateController) GetCandidate(c echo.Context) error {
	candidateID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid candidate ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var candidate models.Candidate
	err = config.GetCollection(cc.DB, "candidates").FindOne(ctx, bson.M{"_id": candidateID}).Decode(&candidate)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Candidate not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch candidate",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Candidate retrieved",
		Data:    candidate,
	})
}
