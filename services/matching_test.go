package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiringreferrals/backend/models"
)

func newTestMatcher(t *testing.T) *CandidateMatcher {
	t.Helper()
	m, err := NewCandidateMatcher(DefaultMatchingConfig())
	require.NoError(t, err)
	return m
}

func perfectCandidate() models.CandidateProfile {
	return models.CandidateProfile{
		ID:              "cand-1",
		Skills:          []string{"Python", "Django", "SQL"},
		ExperienceYears: 4,
		Education:       []string{"Masters in Computer Science"},
		Location:        "Bangalore",
		ExpectedSalary:  900000,
	}
}

func backendJob() models.JobProfile {
	return models.JobProfile{
		ID:             "job-1",
		RequiredSkills: []string{"python", "django", "sql"},
		ExperienceMin:  3,
		ExperienceMax:  6,
		EducationLevel: "bachelors",
		Location:       "Bangalore",
		SalaryMin:      800000,
		SalaryMax:      1400000,
	}
}

func TestMatchPerfectCandidate(t *testing.T) {
	m := newTestMatcher(t)

	result, err := m.Match(perfectCandidate(), backendJob())
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.Skills.Score)
	assert.Equal(t, 100.0, result.Experience.Score)
	assert.Equal(t, 100.0, result.Education.Score)
	assert.Equal(t, 100.0, result.Location.Score)
	assert.GreaterOrEqual(t, result.OverallScore, 95)
	assert.True(t, result.AutoShortlist)
	assert.Equal(t, "auto_shortlist", result.Recommendation)
	assert.Empty(t, result.MissingSkills)
}

func TestMatchScoreBounds(t *testing.T) {
	m := newTestMatcher(t)

	candidates := []models.CandidateProfile{
		perfectCandidate(),
		{ID: "c2", Skills: []string{"cobol"}, ExperienceYears: 0, Location: "nowhere"},
		{ID: "c3", Skills: []string{"react", "nodejs"}, ExperienceYears: 25, Location: "remote town", ExpectedSalary: 99999999},
	}
	for _, c := range candidates {
		result, err := m.Match(c, backendJob())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.OverallScore, 0)
		assert.LessOrEqual(t, result.OverallScore, 100)
	}
}

func TestScoreSkillsPartialCredit(t *testing.T) {
	m := newTestMatcher(t)

	// 2 of 3 required skills exact: 2/3 * 100 with "go" fully missing.
	score, missing := m.scoreSkills([]string{"python", "sql"}, []string{"python", "sql", "go"}, nil)
	assert.InDelta(t, 66.67, score, 0.5)
	assert.Equal(t, []string{"go"}, missing)

	// Related skill earns 80% credit: django is related to python.
	score, missing = m.scoreSkills([]string{"django"}, []string{"python"}, nil)
	assert.InDelta(t, 80, score, 0.01)
	assert.Empty(t, missing)

	// Transferable (substring) earns 60% credit.
	score, _ = m.scoreSkills([]string{"advanced golang"}, []string{"golang"}, nil)
	assert.InDelta(t, 60, score, 0.01)

	// Preferred skills add up to 10 bonus points.
	score, _ = m.scoreSkills([]string{"python", "redis"}, []string{"python"}, []string{"redis"})
	assert.InDelta(t, 100, score, 0.01)

	// No required skills is a trivial full match.
	score, missing = m.scoreSkills([]string{"anything"}, []string{}, nil)
	assert.Equal(t, 100.0, score)
	assert.Empty(t, missing)
}

func TestScoreExperience(t *testing.T) {
	m := newTestMatcher(t)

	tests := []struct {
		years, min, max int
		want            float64
	}{
		{4, 3, 6, 100},
		{3, 3, 6, 100},
		{6, 3, 6, 100},
		{2, 3, 6, 85},  // one year short
		{1, 3, 6, 70},  // two years short
		{0, 3, 6, 55},  // three short: 100 - 3*15
		{0, 8, 12, 40}, // floor
		{7, 3, 6, 90},  // slightly over
		{10, 3, 6, 75},
		{15, 3, 6, 60},
		{20, 5, 0, 100}, // open-ended band: any years >= min is a match
		{3, 5, 0, 70},   // open-ended still penalises being short
	}
	for _, tt := range tests {
		got := m.scoreExperience(tt.years, tt.min, tt.max)
		assert.Equal(t, tt.want, got, "years=%d band=[%d,%d]", tt.years, tt.min, tt.max)
	}
}

func TestScoreEducation(t *testing.T) {
	m := newTestMatcher(t)

	assert.Equal(t, 100.0, m.scoreEducation([]string{"PhD in Physics"}, "masters"))
	assert.Equal(t, 100.0, m.scoreEducation([]string{"Masters in CS"}, "masters"))
	assert.Equal(t, 80.0, m.scoreEducation([]string{"Bachelors of Engineering"}, "masters"))
	assert.Equal(t, 75.0, m.scoreEducation([]string{"Bachelors"}, ""))
	// No recognisable level at all: 100 - 4*20 floored at 50.
	assert.Equal(t, 50.0, m.scoreEducation(nil, "masters"))
}

func TestScoreLocation(t *testing.T) {
	m := newTestMatcher(t)

	job := backendJob()

	c := perfectCandidate()
	assert.Equal(t, 100.0, m.scoreLocation(c, job))

	c.Location = "Mumbai"
	c.PreferredLocations = []string{"Bangalore"}
	assert.Equal(t, 100.0, m.scoreLocation(c, job))

	c.PreferredLocations = nil
	remote := job
	remote.RemoteAvailable = true
	assert.Equal(t, 95.0, m.scoreLocation(c, remote))

	c.WillingToRelocate = true
	assert.Equal(t, 80.0, m.scoreLocation(c, job))

	c.WillingToRelocate = false
	assert.Equal(t, 60.0, m.scoreLocation(c, job)) // metro to metro

	c.Location = "Smalltown"
	assert.Equal(t, 40.0, m.scoreLocation(c, job))
}

func TestScoreSalary(t *testing.T) {
	m := newTestMatcher(t)

	assert.Equal(t, 100.0, m.scoreSalary(700000, 800000, 1400000)) // below range
	assert.InDelta(t, 90.0, m.scoreSalary(1400000, 800000, 1400000), 0.01)
	assert.Equal(t, 75.0, m.scoreSalary(1500000, 800000, 1400000)) // within 10% over
	assert.Equal(t, 60.0, m.scoreSalary(1650000, 800000, 1400000)) // within 20% over
	assert.Equal(t, 45.0, m.scoreSalary(1800000, 800000, 1400000)) // within 30% over
	assert.Equal(t, 20.0, m.scoreSalary(5000000, 800000, 1400000)) // floor
	assert.Equal(t, 75.0, m.scoreSalary(0, 800000, 1400000))       // no expectation
	assert.Equal(t, 75.0, m.scoreSalary(900000, 0, 0))             // no range
}

func TestMatchStructuralValidation(t *testing.T) {
	m := newTestMatcher(t)

	job := backendJob()
	c := perfectCandidate()

	badJob := job
	badJob.RequiredSkills = nil
	_, err := m.Match(c, badJob)
	assert.ErrorIs(t, err, ErrInvalidInput)

	badCand := c
	badCand.Skills = nil
	_, err = m.Match(badCand, job)
	assert.ErrorIs(t, err, ErrInvalidInput)

	badCand = c
	badCand.Location = "  "
	badCand.PreferredLocations = nil
	_, err = m.Match(badCand, job)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Empty (but present) skills list is valid, just scores low.
	emptyCand := c
	emptyCand.Skills = []string{}
	result, err := m.Match(emptyCand, job)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Skills.Score)
	assert.Len(t, result.MissingSkills, 3)
}

func TestMatchCandidatesOrdering(t *testing.T) {
	m := newTestMatcher(t)
	job := backendJob()

	weak := models.CandidateProfile{
		ID:              "cand-weak",
		Skills:          []string{"php"},
		ExperienceYears: 1,
		Location:        "Smalltown",
	}
	// Two identical candidates to exercise the ID tie-break.
	twinA := perfectCandidate()
	twinA.ID = "cand-a"
	twinB := perfectCandidate()
	twinB.ID = "cand-b"

	results, err := m.MatchCandidates(job, []models.CandidateProfile{weak, twinB, twinA}, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "cand-a", results[0].CandidateID)
	assert.Equal(t, "cand-b", results[1].CandidateID)
	assert.Equal(t, "cand-weak", results[2].CandidateID)

	// minScore filters out the weak candidate.
	results, err = m.MatchCandidates(job, []models.CandidateProfile{weak, twinA}, 70)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "cand-a", results[0].CandidateID)
}

func TestMatchDeterministic(t *testing.T) {
	m := newTestMatcher(t)

	a, err := m.Match(perfectCandidate(), backendJob())
	require.NoError(t, err)
	b, err := m.Match(perfectCandidate(), backendJob())
	require.NoError(t, err)
	assert.Equal(t, a.OverallScore, b.OverallScore)
	assert.Equal(t, a.Recommendation, b.Recommendation)
}

func TestRecommendationBands(t *testing.T) {
	m := newTestMatcher(t)

	tests := []struct {
		score int
		want  string
	}{
		{85, "auto_shortlist"},
		{70, "auto_shortlist"},
		{69, "manual_review"},
		{60, "manual_review"},
		{59, "consider"},
		{40, "consider"},
		{39, "not_recommended"},
		{0, "not_recommended"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.recommendation(tt.score), fmt.Sprintf("score %d", tt.score))
	}
}

func TestNewCandidateMatcherConfigValidation(t *testing.T) {
	cfg := DefaultMatchingConfig()
	cfg.SkillsWeight = 0.5 // sum now 1.1
	_, err := NewCandidateMatcher(cfg)
	assert.ErrorIs(t, err, ErrConfiguration)

	cfg = DefaultMatchingConfig()
	cfg.EducationLevels = nil
	_, err = NewCandidateMatcher(cfg)
	assert.ErrorIs(t, err, ErrConfiguration)
}
