// controllers/commission_controller.go
package controllers

import (
	"context"
	"errors"
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
	ws "github.com/hiringreferrals/backend/websocket"
)

// Allowed commission record transitions; paid and cancelled are terminal.
var commissionTransitions = map[string][]string{
	"pending":  {"approved", "cancelled"},
	"approved": {"paid", "cancelled"},
}

// CommissionController exposes the commission calculator and manages
// persisted commission records.
type CommissionController struct {
	DB           *mongo.Client
	Calculator   *services.CommissionCalculator
	Gamification *services.GamificationService
	Hub          *ws.Hub
}

// NewCommissionController creates a new commission controller
func NewCommissionController(db *mongo.Client, calculator *services.CommissionCalculator, gamification *services.GamificationService, hub *ws.Hub) *CommissionController {
	return &CommissionController{
		DB:           db,
		Calculator:   calculator,
		Gamification: gamification,
		Hub:          hub,
	}
}

// callerTier derives the caller's commission tier from their hired placements
func (coc *CommissionController) callerTier(ctx context.Context, userID primitive.ObjectID) (models.UserTier, int, error) {
	placements, err := config.GetCollection(coc.DB, "applications").CountDocuments(ctx, bson.M{
		"status": models.StatusHired,
		"$or": bson.A{
			bson.M{"referrerId": userID},
			bson.M{"recruiterId": userID},
		},
	})
	if err != nil {
		return "", 0, err
	}
	return coc.Gamification.PlacementTierForCount(int(placements)), int(placements), nil
}

// Calculate runs the calculator for one placement without persisting anything
func (coc *CommissionController) Calculate(c echo.Context) error {
	var req models.CommissionRequest
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
	objID, _ := primitive.ObjectIDFromHex(userID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tier, _, err := coc.callerTier(ctx, objID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to derive tier",
		})
	}

	ctype, err := models.ParseCommissionType(req.CommissionType)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	var breakdown models.CommissionBreakdown
	if req.PackageLevel != "" {
		level, err := models.ParsePackageLevel(req.PackageLevel)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}
		breakdown, err = coc.Calculator.Calculate(req.BaseAmount, level, tier, ctype)
		if err != nil {
			return commissionError(c, err)
		}
	} else {
		breakdown, err = coc.Calculator.CalculateForPackage(req.BaseAmount, tier, ctype)
		if err != nil {
			return commissionError(c, err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission calculated",
		Data:    breakdown,
	})
}

// CalculateBatch runs the calculator across several placements at once
func (coc *CommissionController) CalculateBatch(c echo.Context) error {
	var req models.BatchCommissionRequest
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
	objID, _ := primitive.ObjectIDFromHex(userID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tier, _, err := coc.callerTier(ctx, objID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to derive tier",
		})
	}

	result, err := coc.Calculator.CalculateBatch(req.Placements, tier)
	if err != nil {
		return commissionError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Batch calculated",
		Data:    result,
	})
}

// GetSummary reports the caller's tier standing and per-band rates
func (coc *CommissionController) GetSummary(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}
	objID, _ := primitive.ObjectIDFromHex(userID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tier, placements, err := coc.callerTier(ctx, objID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to derive tier",
		})
	}

	summary, err := coc.Calculator.Summary(tier, placements, coc.Gamification.PlacementTierThresholds())
	if err != nil {
		return commissionError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission summary retrieved",
		Data:    summary,
	})
}

// ListCommissions returns the caller's commission records, newest first.
// Admins can pass userId to inspect another account.
func (coc *CommissionController) ListCommissions(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	targetID := userID
	if requested := c.QueryParam("userId"); requested != "" && middleware.ExtractRole(c) == "admin" {
		targetID = requested
	}
	objID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"userId": objID}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := config.GetCollection(coc.DB, "commissions").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch commissions",
		})
	}
	defer cursor.Close(ctx)

	var records []models.CommissionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode commissions",
		})
	}

	var totalNet, totalPending float64
	for _, r := range records {
		if r.Status == "paid" {
			totalNet += r.Breakdown.NetCommission
		}
		if r.Status == "pending" || r.Status == "approved" {
			totalPending += r.Breakdown.NetCommission
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commissions retrieved",
		Data: map[string]interface{}{
			"records":      records,
			"totalPaid":    totalNet,
			"totalPending": totalPending,
		},
	})
}

// UpdateCommissionStatus moves a commission record between statuses
func (coc *CommissionController) UpdateCommissionStatus(c echo.Context) error {
	commissionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid commission ID",
		})
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=approved paid cancelled"`
	}
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := config.GetCollection(coc.DB, "commissions")
	var record models.CommissionRecord
	if err := coll.FindOne(ctx, bson.M{"_id": commissionID}).Decode(&record); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Commission not found",
		})
	}

	allowed := false
	for _, next := range commissionTransitions[record.Status] {
		if next == req.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Cannot move commission from " + record.Status + " to " + req.Status,
		})
	}

	now := time.Now()
	update := bson.M{"status": req.Status}
	switch req.Status {
	case "approved":
		update["approvedAt"] = now
	case "paid":
		update["paidAt"] = now
	}

	if _, err := coll.UpdateOne(ctx, bson.M{"_id": commissionID}, bson.M{"$set": update}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update commission",
		})
	}
	record.Status = req.Status

	coc.Hub.NotifyCommission(record.UserID, record)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission status updated",
		Data:    record,
	})
}

// commissionError maps engine errors to HTTP statuses
func commissionError(c echo.Context, err error) error {
	if errors.Is(err, services.ErrInvalidInput) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}
	if errors.Is(err, services.ErrConfiguration) {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Commission configuration error",
		})
	}
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Commission calculation failed",
	})
}
