// controllers/auth_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/hiringreferrals/backend/config"
	"github.com/hiringreferrals/backend/middleware"
	"github.com/hiringreferrals/backend/models"
	"github.com/hiringreferrals/backend/repositories"
	"github.com/hiringreferrals/backend/services"
	"github.com/hiringreferrals/backend/utils"
)

// AuthController contains authentication logic
type AuthController struct {
	DB           *mongo.Client
	Users        *repositories.UserRepository
	Gamification *services.GamificationService
	logger       *log.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client, users *repositories.UserRepository, gamification *services.GamificationService) *AuthController {
	return &AuthController{
		DB:           db,
		Users:        users,
		Gamification: gamification,
		logger:       log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
	}
}

// Points awarded to the referrer when a referred user registers
const referralSignupPoints = 100

// Register creates a new user account
func (ac *AuthController) Register(c echo.Context) error {
	var req models.RegisterRequest
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
	if err := utils.ValidatePassword(req.Password); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.IsValidEmail(email) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email address",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.DB, "users")

	// Check for existing account
	count, err := collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check existing users",
		})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Email already registered",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to hash password",
		})
	}

	referralCode, err := utils.GenerateReferralCode(utils.ReferralTypeForRole(req.Role))
	if err != nil {
		ac.logger.Printf("Failed to generate referral code: %v", err)
	}

	now := time.Now()
	user := models.User{
		Email:          email,
		Password:       string(hashedPassword),
		FullName:       utils.SanitizeInput(req.FullName),
		Role:           req.Role,
		Phone:          req.Phone,
		CompanyName:    utils.SanitizeInput(req.CompanyName),
		IsActive:       true,
		LastActivityAt: now,
		ReferralCode:   referralCode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	result, err := collection.InsertOne(ctx, user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create user",
		})
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	// Credit the referrer, if a valid code was supplied
	if req.ReferralCode != "" {
		if err := ac.creditReferrer(ctx, req.ReferralCode, user.ID); err != nil {
			ac.logger.Printf("Referral credit failed for code %s: %v", req.ReferralCode, err)
		}
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Registration successful",
		Data: models.TokenResponse{
			Token:        token,
			RefreshToken: refreshToken,
			User:         user,
		},
	})
}

// creditReferrer awards points and the referral counter to the owner of the
// referral code. Self-referral is rejected by the code lookup happening
// before the new user owns a code.
func (ac *AuthController) creditReferrer(ctx context.Context, code string, newUserID primitive.ObjectID) error {
	referrer, err := ac.Users.FindByReferralCode(ctx, code)
	if err != nil {
		return err
	}
	if referrer.ID == newUserID {
		return nil
	}

	if err := ac.Users.CreditReferral(ctx, referrer.ID, newUserID, referralSignupPoints); err != nil {
		return err
	}

	// Evaluate referral achievements against the new counts
	stats := models.UserStats{
		ReferralCount: len(referrer.Referrals) + 1,
		Unlocked:      unlockedMap(ctx, ac.DB, referrer.ID),
	}
	awardAchievements(ctx, ac.DB, ac.Gamification, referrer.ID, stats)

	return nil
}

// Login authenticates a user and returns a JWT
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
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

	user, err := ac.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	if !user.IsActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Account is deactivated",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	// Record the login as daily activity for the streak engine
	streak := models.StreakState{}
	if user.Streak != nil {
		streak = *user.Streak
	}
	newStreak := ac.Gamification.UpdateStreak(streak, time.Now())
	if err := ac.Users.UpdateStreak(ctx, user.ID, newStreak); err != nil {
		ac.logger.Printf("Failed to persist streak for user %s: %v", user.ID.Hex(), err)
	}
	user.Streak = &newStreak

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: models.TokenResponse{
			Token:        token,
			RefreshToken: refreshToken,
			User:         *user,
		},
	})
}

// Logout blacklists the current token
func (ac *AuthController) Logout(c echo.Context) error {
	user, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "No active session",
		})
	}

	claims := user.Claims.(*middleware.JwtCustomClaims)
	expiry := time.Now().Add(72 * time.Hour)
	if claims.ExpiresAt > 0 {
		expiry = time.Unix(claims.ExpiresAt, 0)
	}
	middleware.BlacklistToken(user.Raw, expiry)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out",
	})
}

// GetCurrentUser returns the authenticated user's record
func (ac *AuthController) GetCurrentUser(c echo.Context) error {
	user, err := utils.GetUserFromToken(c, ac.DB)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User retrieved",
		Data:    user,
	})
}

// ValidateSession lets the frontend check whether a token is still usable
func (ac *AuthController) ValidateSession(c echo.Context) error {
	resp, err := utils.ValidateTokenFromHeader(c.Request().Header.Get("Authorization"), ac.DB)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Validation error",
		})
	}

	status := http.StatusOK
	if !resp.Valid {
		status = http.StatusUnauthorized
	}
	return c.JSON(status, models.Response{
		Status:  status,
		Message: resp.Message,
		Data:    resp,
	})
}
