// models/invoice.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invoice bills a company for a completed placement.
type Invoice struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	InvoiceNumber string             `json:"invoiceNumber" bson:"invoiceNumber"`
	CompanyID     primitive.ObjectID `json:"companyId" bson:"companyId"`
	CompanyName   string             `json:"companyName" bson:"companyName"`
	CommissionID  primitive.ObjectID `json:"commissionId,omitempty" bson:"commissionId,omitempty"`
	CandidateName string             `json:"candidateName" bson:"candidateName"`
	JobTitle      string             `json:"jobTitle" bson:"jobTitle"`
	Amount        float64            `json:"amount" bson:"amount"`
	TaxAmount     float64            `json:"taxAmount" bson:"taxAmount"`
	TotalAmount   float64            `json:"totalAmount" bson:"totalAmount"`
	Currency      string             `json:"currency" bson:"currency"`
	Status        string             `json:"status" bson:"status"` // "draft", "sent", "paid", "overdue", "cancelled"
	IssueDate     time.Time          `json:"issueDate" bson:"issueDate"`
	DueDate       time.Time          `json:"dueDate" bson:"dueDate"`
	PaidAt        *time.Time         `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
}

// InvoiceCreateRequest is the payload for issuing an invoice.
type InvoiceCreateRequest struct {
	CompanyID     string  `json:"companyId" validate:"required"`
	CommissionID  string  `json:"commissionId,omitempty"`
	CandidateName string  `json:"candidateName" validate:"required"`
	JobTitle      string  `json:"jobTitle" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Notes         string  `json:"notes,omitempty"`
}

// PayoutRequest asks for earned commission to be paid out.
type PayoutRequest struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Reference   string             `json:"reference" bson:"reference"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	Amount      float64            `json:"amount" bson:"amount"`
	Status      string             `json:"status" bson:"status"` // "requested", "approved", "rejected", "paid"
	RequestedAt time.Time          `json:"requestedAt" bson:"requestedAt"`
	ApprovedAt  *time.Time         `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	ApprovedBy  primitive.ObjectID `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
}

// PayoutCreateRequest is the payload for requesting a payout.
type PayoutCreateRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}
