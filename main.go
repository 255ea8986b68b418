package main

import (
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/hiringreferrals/backend/config"
	"github.com/hiringreferrals/backend/controllers"
	"github.com/hiringreferrals/backend/middleware"
	"github.com/hiringreferrals/backend/repositories"
	"github.com/hiringreferrals/backend/routes"
	"github.com/hiringreferrals/backend/services"
	"github.com/hiringreferrals/backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis
	config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()

	// Build the calculation engines; configs are validated at startup so a
	// bad table fails fast instead of surfacing mid-request.
	calculator, err := services.NewCommissionCalculator(services.DefaultCommissionConfig())
	if err != nil {
		log.Fatalf("commission config: %v", err)
	}
	matcher, err := services.NewCandidateMatcher(services.DefaultMatchingConfig())
	if err != nil {
		log.Fatalf("matching config: %v", err)
	}
	gamification, err := services.NewGamificationService(services.DefaultGamificationConfig())
	if err != nil {
		log.Fatalf("gamification config: %v", err)
	}
	payoutGateway := services.NewPayoutGateway()

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(middleware.SecurityHeaders())
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Hiring Referrals Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	e.Use(httpsRedirect())

	// Initialize repositories
	userRepo := repositories.NewUserRepository(client)

	// Initialize controllers
	authController := controllers.NewAuthController(client, userRepo, gamification)
	jobController := controllers.NewJobController(client)
	candidateController := controllers.NewCandidateController(client, gamification)
	applicationController := controllers.NewApplicationController(client, matcher, calculator, gamification, wsHub)
	matchingController := controllers.NewMatchingController(client, matcher)
	commissionController := controllers.NewCommissionController(client, calculator, gamification, wsHub)
	financialController := controllers.NewFinancialController(client, payoutGateway, wsHub)
	gamificationController := controllers.NewGamificationController(client, config.GetRedisClient(), userRepo, gamification, wsHub)
	dashboardController := controllers.NewDashboardController(client, gamification)
	referralController := controllers.NewReferralController(client)

	// Register routes
	routes.RegisterAuthRoutes(e, client, authController)
	routes.RegisterJobRoutes(e, client, jobController, candidateController)
	routes.RegisterApplicationRoutes(e, client, applicationController)
	routes.RegisterMatchingRoutes(e, client, matchingController)
	routes.RegisterFinancialRoutes(e, client, commissionController, financialController)
	routes.RegisterGamificationRoutes(e, client, gamificationController, dashboardController, wsHub)
	routes.RegisterReferralRoutes(e, client, referralController)

	// Background workers
	go middleware.CleanupBlacklist()
	go func() {
		for {
			middleware.MarkInactiveUsers(client, 30*time.Minute)
			time.Sleep(5 * time.Minute)
		}
	}()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

func httpsRedirect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Forwarded-Proto") == "http" {
				return c.Redirect(301, "https://"+c.Request().Host+c.Request().RequestURI)
			}
			return next(c)
		}
	}
}
