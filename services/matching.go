// services/matching.go
package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hiringreferrals/backend/models"
)

// MatchingConfig holds the weight constants and reference tables for the
// candidate-job scorer. Injected once at construction; read-only afterwards.
type MatchingConfig struct {
	// Weights per factor, must sum to 1.
	SkillsWeight     float64
	ExperienceWeight float64
	EducationWeight  float64
	LocationWeight   float64
	SalaryWeight     float64
	// AutoShortlistThreshold is the overall score at or above which a
	// candidate is auto-shortlisted.
	AutoShortlistThreshold int
	// RelatedSkills maps a skill to skills that earn partial (80%) credit.
	RelatedSkills map[string][]string
	// EducationLevels is the ordinal hierarchy of education levels.
	EducationLevels map[string]int
	// MetroCities soften location mismatches between two metro areas.
	MetroCities []string
}

// DefaultMatchingConfig returns the platform's standard weights and tables.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		SkillsWeight:           0.40,
		ExperienceWeight:       0.25,
		EducationWeight:        0.15,
		LocationWeight:         0.10,
		SalaryWeight:           0.10,
		AutoShortlistThreshold: 70,
		RelatedSkills: map[string][]string{
			"python":           {"django", "flask", "fastapi", "pandas", "numpy"},
			"javascript":       {"typescript", "react", "vue", "angular", "nodejs"},
			"react":            {"redux", "nextjs", "javascript", "typescript"},
			"nodejs":           {"express", "javascript", "typescript", "nestjs"},
			"java":             {"spring", "springboot", "hibernate", "maven"},
			"sql":              {"mysql", "postgresql", "mongodb", "database"},
			"aws":              {"cloud", "azure", "gcp", "devops"},
			"docker":           {"kubernetes", "containerization", "devops"},
			"machine learning": {"ai", "deep learning", "tensorflow", "pytorch"},
			"data science":     {"python", "statistics", "machine learning", "analytics"},
		},
		EducationLevels: map[string]int{
			"phd":         5,
			"masters":     4,
			"bachelors":   3,
			"diploma":     2,
			"high_school": 1,
		},
		MetroCities: []string{"bangalore", "mumbai", "delhi", "hyderabad", "chennai", "pune", "kolkata"},
	}
}

// CandidateMatcher scores candidate-job fit with multi-factor weighted
// scoring. Pure: each call reads only its inputs and the fixed config.
type CandidateMatcher struct {
	cfg MatchingConfig
}

// NewCandidateMatcher validates the weight table once, up front.
func NewCandidateMatcher(cfg MatchingConfig) (*CandidateMatcher, error) {
	sum := cfg.SkillsWeight + cfg.ExperienceWeight + cfg.EducationWeight + cfg.LocationWeight + cfg.SalaryWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return nil, fmt.Errorf("%w: matching weights must sum to 1, got %.4f", ErrConfiguration, sum)
	}
	if len(cfg.EducationLevels) == 0 {
		return nil, fmt.Errorf("%w: education hierarchy is empty", ErrConfiguration)
	}
	return &CandidateMatcher{cfg: cfg}, nil
}

func normalizeSkill(skill string) string {
	s := strings.ToLower(strings.TrimSpace(skill))
	s = strings.ReplaceAll(s, "-", " ")
	return strings.ReplaceAll(s, "_", " ")
}

// scoreSkills returns the 0-100 skills sub-score plus the required skills the
// candidate is missing entirely.
func (m *CandidateMatcher) scoreSkills(candidate, required, preferred []string) (float64, []string) {
	if len(required) == 0 {
		return 100, nil
	}

	candidateSet := make(map[string]bool, len(candidate))
	for _, s := range candidate {
		candidateSet[normalizeSkill(s)] = true
	}

	related := func(a, b string) bool {
		for _, r := range m.cfg.RelatedSkills[a] {
			if normalizeSkill(r) == b {
				return true
			}
		}
		return false
	}

	var exact, relatedCount, transferable int
	var missing []string
	for _, raw := range required {
		req := normalizeSkill(raw)
		if candidateSet[req] {
			exact++
			continue
		}

		matched := false
		for cand := range candidateSet {
			if related(cand, req) || related(req, cand) {
				relatedCount++
				matched = true
				break
			}
		}
		if !matched {
			for cand := range candidateSet {
				if strings.Contains(cand, req) || strings.Contains(req, cand) {
					transferable++
					matched = true
					break
				}
			}
		}
		if !matched {
			missing = append(missing, req)
		}
	}

	total := float64(len(required))
	score := float64(exact)/total*100 + float64(relatedCount)/total*80 + float64(transferable)/total*60
	if score > 100 {
		score = 100
	}

	if len(preferred) > 0 {
		matched := 0
		for _, p := range preferred {
			if candidateSet[normalizeSkill(p)] {
				matched++
			}
		}
		score += float64(matched) / float64(len(preferred)) * 10
		if score > 100 {
			score = 100
		}
	}
	return score, missing
}

// scoreExperience applies a stepped penalty the further outside the band the
// candidate's years fall.
func (m *CandidateMatcher) scoreExperience(years, reqMin, reqMax int) float64 {
	// An open-ended band never penalises extra experience.
	if reqMax <= 0 {
		if years >= reqMin {
			return 100
		}
		reqMax = reqMin + 5
	}
	switch {
	case years >= reqMin && years <= reqMax:
		return 100
	case years < reqMin:
		gap := reqMin - years
		switch {
		case gap <= 1:
			return 85
		case gap <= 2:
			return 70
		default:
			return math.Max(40, 100-float64(gap)*15)
		}
	default:
		over := years - reqMax
		switch {
		case over <= 2:
			return 90
		case over <= 5:
			return 75
		default:
			return 60
		}
	}
}

// scoreEducation compares the candidate's highest level against the required
// one on the ordinal hierarchy; a missing requirement is neutral.
func (m *CandidateMatcher) scoreEducation(candidateEducation []string, requiredLevel string) float64 {
	if requiredLevel == "" {
		return 75
	}
	required, ok := m.cfg.EducationLevels[strings.ReplaceAll(strings.ToLower(requiredLevel), " ", "_")]
	if !ok {
		required = 2
	}

	highest := 0
	for _, edu := range candidateEducation {
		lower := strings.ToLower(edu)
		for level, value := range m.cfg.EducationLevels {
			if strings.Contains(lower, strings.ReplaceAll(level, "_", " ")) || strings.Contains(lower, level) {
				if value > highest {
					highest = value
				}
			}
		}
	}

	switch {
	case highest >= required:
		return 100
	case highest == required-1:
		return 80
	default:
		return math.Max(50, 100-float64(required-highest)*20)
	}
}

func (m *CandidateMatcher) scoreLocation(candidate models.CandidateProfile, job models.JobProfile) float64 {
	jobLoc := strings.ToLower(strings.TrimSpace(job.Location))
	candLoc := strings.ToLower(strings.TrimSpace(candidate.Location))

	locations := []string{candLoc}
	for _, l := range candidate.PreferredLocations {
		locations = append(locations, strings.ToLower(strings.TrimSpace(l)))
	}
	for _, l := range locations {
		if l != "" && jobLoc != "" && (l == jobLoc || strings.Contains(l, jobLoc) || strings.Contains(jobLoc, l)) {
			return 100
		}
	}

	if job.RemoteAvailable || strings.Contains(jobLoc, "remote") {
		return 95
	}
	if candidate.WillingToRelocate {
		return 80
	}

	inMetro := func(loc string) bool {
		for _, metro := range m.cfg.MetroCities {
			if strings.Contains(loc, metro) {
				return true
			}
		}
		return false
	}
	if inMetro(candLoc) && inMetro(jobLoc) {
		return 60
	}
	return 40
}

// scoreSalary penalises expectations above the offered range proportionally
// to the excess; expecting below range is never penalised. A missing
// expectation or range is neutral.
func (m *CandidateMatcher) scoreSalary(expected, jobMin, jobMax float64) float64 {
	if expected <= 0 || jobMax <= 0 {
		return 75
	}
	if expected < jobMin {
		return 100
	}
	if expected <= jobMax {
		position := 0.5
		if jobMax > jobMin {
			position = (expected - jobMin) / (jobMax - jobMin)
		}
		return 100 - position*10
	}

	excessPercent := (expected - jobMax) / jobMax * 100
	switch {
	case excessPercent <= 10:
		return 75
	case excessPercent <= 20:
		return 60
	case excessPercent <= 30:
		return 45
	default:
		return math.Max(20, 100-excessPercent)
	}
}

// Match scores one candidate/job pair. Fails with ErrInvalidInput only when a
// structurally required field is entirely absent; missing optional fields get
// neutral defaults instead.
func (m *CandidateMatcher) Match(candidate models.CandidateProfile, job models.JobProfile) (models.MatchResult, error) {
	if job.RequiredSkills == nil {
		return models.MatchResult{}, fmt.Errorf("%w: job has no required-skills list", ErrInvalidInput)
	}
	if candidate.Skills == nil {
		return models.MatchResult{}, fmt.Errorf("%w: candidate has no skills list", ErrInvalidInput)
	}
	if strings.TrimSpace(candidate.Location) == "" && len(candidate.PreferredLocations) == 0 {
		return models.MatchResult{}, fmt.Errorf("%w: candidate has no location", ErrInvalidInput)
	}

	skills, missing := m.scoreSkills(candidate.Skills, job.RequiredSkills, job.PreferredSkills)
	experience := m.scoreExperience(candidate.ExperienceYears, job.ExperienceMin, job.ExperienceMax)
	education := m.scoreEducation(candidate.Education, job.EducationLevel)
	location := m.scoreLocation(candidate, job)
	salary := m.scoreSalary(candidate.ExpectedSalary, job.SalaryMin, job.SalaryMax)

	total := skills*m.cfg.SkillsWeight +
		experience*m.cfg.ExperienceWeight +
		education*m.cfg.EducationWeight +
		location*m.cfg.LocationWeight +
		salary*m.cfg.SalaryWeight

	overall := int(math.Round(total))
	if overall < 0 {
		overall = 0
	}
	if overall > 100 {
		overall = 100
	}

	factor := func(score, weight float64) models.FactorScore {
		return models.FactorScore{
			Score:    round1(score),
			Weight:   weight,
			Weighted: round1(score * weight),
		}
	}

	return models.MatchResult{
		CandidateID:    candidate.ID,
		JobID:          job.ID,
		OverallScore:   overall,
		Recommendation: m.recommendation(overall),
		AutoShortlist:  overall >= m.cfg.AutoShortlistThreshold,
		Skills:         factor(skills, m.cfg.SkillsWeight),
		Experience:     factor(experience, m.cfg.ExperienceWeight),
		Education:      factor(education, m.cfg.EducationWeight),
		Location:       factor(location, m.cfg.LocationWeight),
		Salary:         factor(salary, m.cfg.SalaryWeight),
		MissingSkills:  missing,
	}, nil
}

// MatchCandidates scores each candidate against the job independently and
// returns results sorted by score descending, tie-broken by candidate ID.
func (m *CandidateMatcher) MatchCandidates(job models.JobProfile, candidates []models.CandidateProfile, minScore int) ([]models.MatchResult, error) {
	results := make([]models.MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		result, err := m.Match(candidate, job)
		if err != nil {
			return nil, fmt.Errorf("candidate %s: %w", candidate.ID, err)
		}
		if result.OverallScore >= minScore {
			results = append(results, result)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].OverallScore != results[j].OverallScore {
			return results[i].OverallScore > results[j].OverallScore
		}
		return results[i].CandidateID < results[j].CandidateID
	})
	return results, nil
}

func (m *CandidateMatcher) recommendation(score int) string {
	switch {
	case score >= m.cfg.AutoShortlistThreshold:
		return "auto_shortlist"
	case score >= 60:
		return "manual_review"
	case score >= 40:
		return "consider"
	default:
		return "not_recommended"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
