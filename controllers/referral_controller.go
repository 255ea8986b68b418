// controllers/referral_controller.go
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

	"github.com/hiringreferrals/backend/config"
	"github.com/hiringreferrals/backend/middleware"
	"github.com/hiringreferrals/backend/models"
	"github.com/hiringreferrals/backend/utils"
)

// ReferralController serves referral codes, links and QR codes.
type ReferralController struct {
	DB     *mongo.Client
	logger *log.Logger
}

// NewReferralController creates a new referral controller
func NewReferralController(db *mongo.Client) *ReferralController {
	return &ReferralController{
		DB:     db,
		logger: log.New(os.Stdout, "[REFERRAL] ", log.LstdFlags),
	}
}

// GetReferralData returns the caller's referral code, count, points and QR code
func (rc *ReferralController) GetReferralData(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := config.GetCollection(rc.DB, "users")
	var user models.User
	if err := coll.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	// Older accounts may predate referral codes; mint one lazily.
	if user.ReferralCode == "" {
		code, err := utils.GenerateReferralCode(utils.ReferralTypeForRole(user.Role))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to generate referral code",
			})
		}
		if _, err := coll.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"referralCode": code}}); err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to save referral code",
			})
		}
		user.ReferralCode = code
	}

	qr, err := utils.GenerateReferralQRCode(user.ReferralCode)
	if err != nil {
		// The code and link are still useful without the image.
		rc.logger.Printf("QR generation failed for %s: %v", user.ReferralCode, err)
		qr = ""
	}

	data := models.ReferralData{
		ReferralCode:  user.ReferralCode,
		ReferralCount: len(user.Referrals),
		Points:        user.TotalPoints,
		ReferralLink:  utils.ReferralLink(user.ReferralCode),
		QRCode:        qr,
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referral data retrieved",
		Data:    data,
	})
}

// RegenerateReferralCode replaces the caller's referral code with a fresh one.
// The old code stops resolving immediately.
func (rc *ReferralController) RegenerateReferralCode(c echo.Context) error {
	objID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := config.GetCollection(rc.DB, "users")
	var user models.User
	if err := coll.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	code, err := utils.GenerateReferralCode(utils.ReferralTypeForRole(user.Role))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate referral code",
		})
	}
	if _, err := coll.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"referralCode": code, "updatedAt": time.Now()}}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save referral code",
		})
	}

	rc.logger.Printf("User %s rotated referral code", objID.Hex())

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referral code regenerated",
		Data:    models.ReferralResponse{ReferrerID: objID, NewReferralCode: code},
	})
}

// GetReferredUsers lists the accounts the caller has referred
func (rc *ReferralController) GetReferredUsers(c echo.Context) error {
	objID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := config.GetCollection(rc.DB, "users")
	var user models.User
	if err := coll.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	referred := []bson.M{}
	if len(user.Referrals) > 0 {
		cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": user.Referrals}})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to fetch referred users",
			})
		}
		defer cursor.Close(ctx)

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to decode referred users",
			})
		}
		for _, u := range users {
			referred = append(referred, bson.M{
				"id":       u.ID,
				"fullName": u.FullName,
				"role":     u.Role,
				"joinedAt": u.CreatedAt,
			})
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referred users retrieved",
		Data:    referred,
	})
}
