package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseApplicationStatus(t *testing.T) {
	for _, s := range []string{"applied", "screening", "interview", "offer", "hired", "rejected"} {
		parsed, err := ParseApplicationStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, ApplicationStatus(s), parsed)
	}

	_, err := ParseApplicationStatus("shortlisted")
	assert.Error(t, err)
	_, err = ParseApplicationStatus("")
	assert.Error(t, err)
}

func TestStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to ApplicationStatus
	}{
		{StatusApplied, StatusScreening},
		{StatusScreening, StatusInterview},
		{StatusInterview, StatusOffer},
		{StatusOffer, StatusHired},
		{StatusApplied, StatusRejected},
		{StatusScreening, StatusRejected},
		{StatusInterview, StatusRejected},
		{StatusOffer, StatusRejected},
	}
	for _, tc := range allowed {
		assert.True(t, IsStatusTransitionAllowed(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct {
		from, to ApplicationStatus
	}{
		{StatusApplied, StatusInterview},
		{StatusApplied, StatusHired},
		{StatusScreening, StatusOffer},
		{StatusInterview, StatusHired},
		{StatusHired, StatusRejected},
		{StatusRejected, StatusApplied},
		{StatusHired, StatusApplied},
		{StatusOffer, StatusScreening},
	}
	for _, tc := range denied {
		assert.False(t, IsStatusTransitionAllowed(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	for _, to := range []ApplicationStatus{StatusApplied, StatusScreening, StatusInterview, StatusOffer, StatusHired, StatusRejected} {
		assert.False(t, IsStatusTransitionAllowed(StatusHired, to))
		assert.False(t, IsStatusTransitionAllowed(StatusRejected, to))
	}
}

func TestTierRank(t *testing.T) {
	assert.Equal(t, 0, TierBronze.Rank())
	assert.Equal(t, 4, TierDiamond.Rank())
	assert.Equal(t, -1, UserTier("copper").Rank())

	for i := 1; i < len(TierOrder); i++ {
		assert.Greater(t, TierOrder[i].Rank(), TierOrder[i-1].Rank())
	}
}
