// models/job.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job is a posted opening.
type Job struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description" bson:"description"`
	CompanyID       primitive.ObjectID `json:"companyId" bson:"companyId"`
	CompanyName     string             `json:"companyName" bson:"companyName"`
	RequiredSkills  []string           `json:"requiredSkills" bson:"requiredSkills"`
	PreferredSkills []string           `json:"preferredSkills,omitempty" bson:"preferredSkills,omitempty"`
	ExperienceMin   int                `json:"experienceMin" bson:"experienceMin"`
	ExperienceMax   int                `json:"experienceMax,omitempty" bson:"experienceMax,omitempty"`
	EducationLevel  string             `json:"educationLevel,omitempty" bson:"educationLevel,omitempty"`
	Location        string             `json:"location" bson:"location"`
	RemoteAvailable bool               `json:"remoteAvailable" bson:"remoteAvailable"`
	SalaryMin       float64            `json:"salaryMin" bson:"salaryMin"`
	SalaryMax       float64            `json:"salaryMax" bson:"salaryMax"`
	Status          string             `json:"status" bson:"status"` // "open", "on_hold", "closed"
	CreatedBy       primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Profile projects the matcher's view of this job.
func (j *Job) Profile() JobProfile {
	return JobProfile{
		ID:              j.ID.Hex(),
		RequiredSkills:  j.RequiredSkills,
		PreferredSkills: j.PreferredSkills,
		ExperienceMin:   j.ExperienceMin,
		ExperienceMax:   j.ExperienceMax,
		EducationLevel:  j.EducationLevel,
		Location:        j.Location,
		RemoteAvailable: j.RemoteAvailable,
		SalaryMin:       j.SalaryMin,
		SalaryMax:       j.SalaryMax,
	}
}

// JobCreateRequest is the payload for posting a job.
type JobCreateRequest struct {
	Title           string   `json:"title" validate:"required"`
	Description     string   `json:"description"`
	CompanyName     string   `json:"companyName"`
	RequiredSkills  []string `json:"requiredSkills" validate:"required"`
	PreferredSkills []string `json:"preferredSkills,omitempty"`
	ExperienceMin   int      `json:"experienceMin" validate:"gte=0"`
	ExperienceMax   int      `json:"experienceMax,omitempty"`
	EducationLevel  string   `json:"educationLevel,omitempty"`
	Location        string   `json:"location" validate:"required"`
	RemoteAvailable bool     `json:"remoteAvailable"`
	SalaryMin       float64  `json:"salaryMin"`
	SalaryMax       float64  `json:"salaryMax"`
}
