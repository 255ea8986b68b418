// models/candidate.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Candidate is a stored candidate record (user of role "candidate" plus the
// profile data the matcher consumes).
type Candidate struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID             primitive.ObjectID `json:"userId" bson:"userId"`
	FullName           string             `json:"fullName" bson:"fullName"`
	Skills             []string           `json:"skills" bson:"skills"`
	ExperienceYears    int                `json:"experienceYears" bson:"experienceYears"`
	Education          []string           `json:"education" bson:"education"`
	Location           string             `json:"location" bson:"location"`
	PreferredLocations []string           `json:"preferredLocations,omitempty" bson:"preferredLocations,omitempty"`
	WillingToRelocate  bool               `json:"willingToRelocate" bson:"willingToRelocate"`
	ExpectedSalary     float64            `json:"expectedSalary" bson:"expectedSalary"`
	CurrentCompany     string             `json:"currentCompany,omitempty" bson:"currentCompany,omitempty"`
	NoticePeriodDays   int                `json:"noticePeriodDays,omitempty" bson:"noticePeriodDays,omitempty"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Profile projects the matcher's view of this candidate.
func (c *Candidate) Profile() CandidateProfile {
	return CandidateProfile{
		ID:                 c.ID.Hex(),
		Skills:             c.Skills,
		ExperienceYears:    c.ExperienceYears,
		Education:          c.Education,
		Location:           c.Location,
		PreferredLocations: c.PreferredLocations,
		WillingToRelocate:  c.WillingToRelocate,
		ExpectedSalary:     c.ExpectedSalary,
	}
}

// CandidateCreateRequest is the payload for registering a candidate profile.
type CandidateCreateRequest struct {
	FullName           string   `json:"fullName" validate:"required"`
	Skills             []string `json:"skills" validate:"required"`
	ExperienceYears    int      `json:"experienceYears" validate:"gte=0"`
	Education          []string `json:"education"`
	Location           string   `json:"location" validate:"required"`
	PreferredLocations []string `json:"preferredLocations,omitempty"`
	WillingToRelocate  bool     `json:"willingToRelocate"`
	ExpectedSalary     float64  `json:"expectedSalary"`
	CurrentCompany     string   `json:"currentCompany,omitempty"`
	NoticePeriodDays   int      `json:"noticePeriodDays,omitempty"`
}
