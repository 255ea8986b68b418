// controllers/financial_controller.go
package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
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

const invoiceTaxRate = 0.18 // GST on placement fees

var invoiceTransitions = map[string][]string{
	"draft":   {"sent", "cancelled"},
	"sent":    {"paid", "overdue", "cancelled"},
	"overdue": {"paid", "cancelled"},
}

// FinancialController manages invoices and payout requests.
type FinancialController struct {
	DB      *mongo.Client
	Gateway *services.PayoutGateway
	Hub     *ws.Hub
	logger  *log.Logger
}

// NewFinancialController creates a new financial controller
func NewFinancialController(db *mongo.Client, gateway *services.PayoutGateway, hub *ws.Hub) *FinancialController {
	return &FinancialController{
		DB:      db,
		Gateway: gateway,
		Hub:     hub,
		logger:  log.New(os.Stdout, "[FINANCIAL] ", log.LstdFlags),
	}
}

// CreateInvoice issues a draft invoice for a completed placement
func (fc *FinancialController) CreateInvoice(c echo.Context) error {
	var req models.InvoiceCreateRequest
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

	companyID, err := primitive.ObjectIDFromHex(req.CompanyID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid company ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var company models.User
	if err := config.GetCollection(fc.DB, "users").FindOne(ctx, bson.M{"_id": companyID}).Decode(&company); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Company not found",
		})
	}

	companyName := company.CompanyName
	if companyName == "" {
		companyName = company.FullName
	}

	now := time.Now()
	tax := req.Amount * invoiceTaxRate
	invoice := models.Invoice{
		InvoiceNumber: "INV-" + strings.ToUpper(uuid.New().String()[:8]),
		CompanyID:     companyID,
		CompanyName:   companyName,
		CandidateName: req.CandidateName,
		JobTitle:      req.JobTitle,
		Amount:        req.Amount,
		TaxAmount:     tax,
		TotalAmount:   req.Amount + tax,
		Currency:      "INR",
		Status:        "draft",
		IssueDate:     now,
		DueDate:       now.AddDate(0, 0, 30),
		Notes:         req.Notes,
	}
	if req.CommissionID != "" {
		commissionID, err := primitive.ObjectIDFromHex(req.CommissionID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid commission ID",
			})
		}
		invoice.CommissionID = commissionID
	}

	result, err := config.GetCollection(fc.DB, "invoices").InsertOne(ctx, invoice)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create invoice",
		})
	}
	invoice.ID = result.InsertedID.(primitive.ObjectID)

	fc.logger.Printf("Invoice %s issued to %s for %.2f", invoice.InvoiceNumber, invoice.CompanyName, invoice.TotalAmount)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Invoice created",
		Data:    invoice,
	})
}

// ListInvoices returns invoices, optionally filtered by status or company
func (fc *FinancialController) ListInvoices(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}
	if company := c.QueryParam("companyId"); company != "" {
		companyID, err := primitive.ObjectIDFromHex(company)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid company ID",
			})
		}
		filter["companyId"] = companyID
	}

	opts := options.Find().SetSort(bson.D{{Key: "issueDate", Value: -1}})
	cursor, err := config.GetCollection(fc.DB, "invoices").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch invoices",
		})
	}
	defer cursor.Close(ctx)

	var invoices []models.Invoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode invoices",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Invoices retrieved",
		Data:    invoices,
	})
}

// UpdateInvoiceStatus moves an invoice through its lifecycle
func (fc *FinancialController) UpdateInvoiceStatus(c echo.Context) error {
	invoiceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid invoice ID",
		})
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=sent paid overdue cancelled"`
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

	coll := config.GetCollection(fc.DB, "invoices")
	var invoice models.Invoice
	if err := coll.FindOne(ctx, bson.M{"_id": invoiceID}).Decode(&invoice); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Invoice not found",
		})
	}

	allowed := false
	for _, next := range invoiceTransitions[invoice.Status] {
		if next == req.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Cannot move invoice from " + invoice.Status + " to " + req.Status,
		})
	}

	update := bson.M{"status": req.Status}
	if req.Status == "paid" {
		update["paidAt"] = time.Now()
	}
	if _, err := coll.UpdateOne(ctx, bson.M{"_id": invoiceID}, bson.M{"$set": update}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update invoice",
		})
	}
	invoice.Status = req.Status

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Invoice status updated",
		Data:    invoice,
	})
}

// RequestPayout lets a user ask for their earned commission to be paid out.
// The requested amount cannot exceed the user's approved, unpaid balance.
func (fc *FinancialController) RequestPayout(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}
	objID, _ := primitive.ObjectIDFromHex(userID)

	var req models.PayoutCreateRequest
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

	available, err := fc.approvedBalance(ctx, objID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to compute balance",
		})
	}
	if req.Amount > available {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("Requested amount exceeds available balance of %.2f", available),
		})
	}

	payout := models.PayoutRequest{
		Reference:   "PAY-" + strings.ToUpper(uuid.New().String()[:8]),
		UserID:      objID,
		Amount:      req.Amount,
		Status:      "requested",
		RequestedAt: time.Now(),
	}
	result, err := config.GetCollection(fc.DB, "payouts").InsertOne(ctx, payout)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create payout request",
		})
	}
	payout.ID = result.InsertedID.(primitive.ObjectID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Payout requested",
		Data:    payout,
	})
}

// approvedBalance sums approved commissions minus payouts already requested or paid
func (fc *FinancialController) approvedBalance(ctx context.Context, userID primitive.ObjectID) (float64, error) {
	cursor, err := config.GetCollection(fc.DB, "commissions").Find(ctx, bson.M{
		"userId": userID,
		"status": bson.M{"$in": bson.A{"approved", "paid"}},
	})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var earned float64
	var records []models.CommissionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return 0, err
	}
	for _, r := range records {
		earned += r.Breakdown.NetCommission
	}

	payoutCursor, err := config.GetCollection(fc.DB, "payouts").Find(ctx, bson.M{
		"userId": userID,
		"status": bson.M{"$in": bson.A{"requested", "approved", "paid"}},
	})
	if err != nil {
		return 0, err
	}
	defer payoutCursor.Close(ctx)

	var payouts []models.PayoutRequest
	if err := payoutCursor.All(ctx, &payouts); err != nil {
		return 0, err
	}
	for _, p := range payouts {
		earned -= p.Amount
	}
	return earned, nil
}

// ApprovePayout approves a payout request and dispatches it to the gateway
func (fc *FinancialController) ApprovePayout(c echo.Context) error {
	payoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payout ID",
		})
	}

	adminID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}
	adminObjID, _ := primitive.ObjectIDFromHex(adminID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := config.GetCollection(fc.DB, "payouts")
	var payout models.PayoutRequest
	if err := coll.FindOne(ctx, bson.M{"_id": payoutID}).Decode(&payout); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Payout not found",
		})
	}
	if payout.Status != "requested" {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Payout is not awaiting approval",
		})
	}

	now := time.Now()
	status := "approved"

	// Best effort: a gateway failure leaves the payout approved for a
	// manual retry rather than failing the whole request.
	txnID, dispatchErr := fc.Gateway.Dispatch(services.PayoutDispatch{
		Reference: payout.Reference,
		UserID:    payout.UserID.Hex(),
		Amount:    payout.Amount,
		Currency:  "INR",
	})
	if dispatchErr != nil {
		fc.logger.Printf("Payout %s dispatch failed: %v", payout.Reference, dispatchErr)
	} else {
		status = "paid"
		fc.logger.Printf("Payout %s dispatched, transaction %s", payout.Reference, txnID)
	}

	update := bson.M{
		"status":     status,
		"approvedAt": now,
		"approvedBy": adminObjID,
	}
	if _, err := coll.UpdateOne(ctx, bson.M{"_id": payoutID}, bson.M{"$set": update}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update payout",
		})
	}
	payout.Status = status
	payout.ApprovedAt = &now
	payout.ApprovedBy = adminObjID

	var user models.User
	if err := config.GetCollection(fc.DB, "users").FindOne(ctx, bson.M{"_id": payout.UserID}).Decode(&user); err == nil {
		utils.SendPayoutEmail(user.Email, payout.Amount, status)
	}
	fc.Hub.NotifyPayout(payout.UserID, payout)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payout " + status,
		Data:    payout,
	})
}

// GetPayoutStatus reads the live disbursement status from the gateway for
// a dispatched payout; undispatched payouts report their stored status.
func (fc *FinancialController) GetPayoutStatus(c echo.Context) error {
	payoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payout ID",
		})
	}

	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var payout models.PayoutRequest
	if err := config.GetCollection(fc.DB, "payouts").FindOne(ctx, bson.M{"_id": payoutID}).Decode(&payout); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Payout not found",
		})
	}
	if payout.UserID.Hex() != userID && middleware.ExtractRole(c) != "admin" {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Access denied",
		})
	}

	gatewayStatus := ""
	if payout.Status == "paid" {
		if status, err := fc.Gateway.Status(payout.Reference); err != nil {
			fc.logger.Printf("Gateway status lookup failed for %s: %v", payout.Reference, err)
		} else {
			gatewayStatus = status
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payout status retrieved",
		Data: map[string]interface{}{
			"reference":     payout.Reference,
			"status":        payout.Status,
			"gatewayStatus": gatewayStatus,
		},
	})
}

// ListPayouts returns the caller's payout requests; admins see all
func (fc *FinancialController) ListPayouts(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication failed",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if middleware.ExtractRole(c) != "admin" {
		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid user ID",
			})
		}
		filter["userId"] = objID
	}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "requestedAt", Value: -1}})
	cursor, err := config.GetCollection(fc.DB, "payouts").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch payouts",
		})
	}
	defer cursor.Close(ctx)

	var payouts []models.PayoutRequest
	if err := cursor.All(ctx, &payouts); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode payouts",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payouts retrieved",
		Data:    payouts,
	})
}
