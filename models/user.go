// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User model
type User struct {
	ID             primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Email          string               `json:"email" bson:"email"`
	Password       string               `json:"password,omitempty" bson:"password"`
	FullName       string               `json:"fullName" bson:"fullName"`
	Role           string               `json:"role" bson:"role"` // "candidate", "recruiter", "company", "admin"
	Phone          string               `json:"phone,omitempty" bson:"phone,omitempty"`
	CompanyName    string               `json:"companyName,omitempty" bson:"companyName,omitempty"`
	IsActive       bool                 `json:"isActive" bson:"isActive"`
	LastActivityAt time.Time            `json:"lastActivityAt" bson:"lastActivityAt"`
	TotalPoints    int                  `json:"totalPoints" bson:"totalPoints"`
	Referrals      []primitive.ObjectID `json:"referrals,omitempty" bson:"referrals,omitempty"`
	ReferralCode   string               `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	Streak         *StreakState         `json:"streak,omitempty" bson:"streak,omitempty"`
	CreatedAt      time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt" bson:"updatedAt"`
}

type ReferralRequest struct {
	ReferralCode string `json:"referralCode"`
}

type ReferralResponse struct {
	ReferrerID      primitive.ObjectID `json:"referrerId"`
	PointsAdded     int                `json:"pointsAdded"`
	NewReferralCode string             `json:"newReferralCode"`
}

// ReferralData is returned by the referral-data endpoint
type ReferralData struct {
	ReferralCode  string `json:"referralCode"`
	ReferralCount int    `json:"referralCount"`
	Points        int    `json:"points"`
	ReferralLink  string `json:"referralLink"`
	QRCode        string `json:"qrCode,omitempty"`
}

// Response is the common API response envelope
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
