// models/application.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApplicationStatus values for the hiring pipeline.
type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "applied"
	StatusScreening ApplicationStatus = "screening"
	StatusInterview ApplicationStatus = "interview"
	StatusOffer     ApplicationStatus = "offer"
	StatusHired     ApplicationStatus = "hired"
	StatusRejected  ApplicationStatus = "rejected"
)

// ParseApplicationStatus converts a raw string to an ApplicationStatus.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	switch st {
	case StatusApplied, StatusScreening, StatusInterview, StatusOffer, StatusHired, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// validStatusTransitions lists every allowed (from -> to) pair. hired and
// rejected are terminal.
var validStatusTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusApplied:   {StatusScreening, StatusRejected},
	StatusScreening: {StatusInterview, StatusRejected},
	StatusInterview: {StatusOffer, StatusRejected},
	StatusOffer:     {StatusHired, StatusRejected},
}

// IsStatusTransitionAllowed reports whether moving from -> to is permitted.
func IsStatusTransitionAllowed(from, to ApplicationStatus) bool {
	for _, s := range validStatusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Application links a candidate to a job through the hiring pipeline.
type Application struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	JobID         primitive.ObjectID `json:"jobId" bson:"jobId"`
	CandidateID   primitive.ObjectID `json:"candidateId" bson:"candidateId"`
	RecruiterID   primitive.ObjectID `json:"recruiterId,omitempty" bson:"recruiterId,omitempty"`
	ReferrerID    primitive.ObjectID `json:"referrerId,omitempty" bson:"referrerId,omitempty"`
	Status        ApplicationStatus  `json:"status" bson:"status"`
	MatchScore    int                `json:"matchScore" bson:"matchScore"`
	AutoShortlist bool               `json:"autoShortlist" bson:"autoShortlist"`
	AnnualPackage float64            `json:"annualPackage,omitempty" bson:"annualPackage,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
	HiredAt       *time.Time         `json:"hiredAt,omitempty" bson:"hiredAt,omitempty"`
}

// ApplicationCreateRequest is the payload for applying/referring a candidate.
type ApplicationCreateRequest struct {
	JobID       string `json:"jobId" validate:"required"`
	CandidateID string `json:"candidateId" validate:"required"`
	ReferrerID  string `json:"referrerId,omitempty"`
}

// ApplicationStatusRequest updates pipeline status.
type ApplicationStatusRequest struct {
	Status        string  `json:"status" validate:"required"`
	AnnualPackage float64 `json:"annualPackage,omitempty"`
}
