// models/matching.go
package models

// CandidateProfile is the matcher's read-only view of a candidate.
type CandidateProfile struct {
	ID                 string   `json:"id" bson:"id"`
	Skills             []string `json:"skills" bson:"skills"`
	ExperienceYears    int      `json:"experienceYears" bson:"experienceYears"`
	Education          []string `json:"education" bson:"education"`
	Location           string   `json:"location" bson:"location"`
	PreferredLocations []string `json:"preferredLocations,omitempty" bson:"preferredLocations,omitempty"`
	WillingToRelocate  bool     `json:"willingToRelocate" bson:"willingToRelocate"`
	ExpectedSalary     float64  `json:"expectedSalary" bson:"expectedSalary"`
}

// JobProfile is the matcher's read-only view of a job posting.
type JobProfile struct {
	ID              string   `json:"id" bson:"id"`
	RequiredSkills  []string `json:"requiredSkills" bson:"requiredSkills"`
	PreferredSkills []string `json:"preferredSkills,omitempty" bson:"preferredSkills,omitempty"`
	ExperienceMin   int      `json:"experienceMin" bson:"experienceMin"`
	ExperienceMax   int      `json:"experienceMax,omitempty" bson:"experienceMax,omitempty"`
	EducationLevel  string   `json:"educationLevel,omitempty" bson:"educationLevel,omitempty"`
	Location        string   `json:"location" bson:"location"`
	RemoteAvailable bool     `json:"remoteAvailable" bson:"remoteAvailable"`
	SalaryMin       float64  `json:"salaryMin" bson:"salaryMin"`
	SalaryMax       float64  `json:"salaryMax" bson:"salaryMax"`
}

// FactorScore is one weighted sub-score of a match.
type FactorScore struct {
	Score    float64 `json:"score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
	Detail   string  `json:"detail,omitempty"`
}

// MatchResult is the immutable result of scoring one candidate/job pair.
type MatchResult struct {
	CandidateID    string      `json:"candidateId"`
	JobID          string      `json:"jobId"`
	OverallScore   int         `json:"overallScore"`
	Recommendation string      `json:"recommendation"` // "auto_shortlist", "manual_review", "consider", "not_recommended"
	AutoShortlist  bool        `json:"autoShortlist"`
	Skills         FactorScore `json:"skills"`
	Experience     FactorScore `json:"experience"`
	Education      FactorScore `json:"education"`
	Location       FactorScore `json:"location"`
	Salary         FactorScore `json:"salary"`
	MissingSkills  []string    `json:"missingSkills,omitempty"`
}

// MatchRequest scores a single candidate/job pair.
type MatchRequest struct {
	Candidate CandidateProfile `json:"candidate" validate:"required"`
	Job       JobProfile       `json:"job" validate:"required"`
}
