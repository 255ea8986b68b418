package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hiringreferrals/backend/controllers"
	"github.com/hiringreferrals/backend/middleware"
)

// RegisterFinancialRoutes sets up commission, invoice and payout routes
func RegisterFinancialRoutes(e *echo.Echo, db *mongo.Client, commissionController *controllers.CommissionController, financialController *controllers.FinancialController) {
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())
	r.Use(middleware.ActivityTracker(db))

	// Commission calculator
	r.POST("/commissions/calculate", commissionController.Calculate)
	r.POST("/commissions/calculate-batch", commissionController.CalculateBatch)
	r.GET("/commissions/summary", commissionController.GetSummary)
	r.GET("/commissions", commissionController.ListCommissions)

	// Payouts
	r.POST("/payouts", financialController.RequestPayout)
	r.GET("/payouts", financialController.ListPayouts)
	r.GET("/payouts/:id/status", financialController.GetPayoutStatus)

	// Admin-only financial operations
	admin := r.Group("")
	admin.Use(middleware.RequireRole("admin"))
	admin.PUT("/commissions/:id/status", commissionController.UpdateCommissionStatus)
	admin.POST("/invoices", financialController.CreateInvoice)
	admin.GET("/invoices", financialController.ListInvoices)
	admin.PUT("/invoices/:id/status", financialController.UpdateInvoiceStatus)
	admin.PUT("/payouts/:id/approve", financialController.ApprovePayout)
}
