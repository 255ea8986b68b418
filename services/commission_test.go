package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiringreferrals/backend/models"
)

func newTestCalculator(t *testing.T) *CommissionCalculator {
	t.Helper()
	calc, err := NewCommissionCalculator(DefaultCommissionConfig())
	require.NoError(t, err)
	return calc
}

func TestPackageLevelForAmount(t *testing.T) {
	tests := []struct {
		amount float64
		want   models.PackageLevel
	}{
		{100000, models.PackageEntry},
		{300000, models.PackageEntry},
		{300001, models.PackageJunior},
		{600000, models.PackageJunior},
		{600001, models.PackageMidLevel},
		{1200000, models.PackageMidLevel},
		{1500000, models.PackageSenior},
		{2500000, models.PackageLeadership},
		{3500001, models.PackageExecutive},
		{10000000, models.PackageExecutive},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PackageLevelForAmount(tt.amount), "amount %.0f", tt.amount)
	}
}

func TestCalculateSeniorGoldPlacement(t *testing.T) {
	calc := newTestCalculator(t)

	// 15L senior package, gold tier: 12% * 1.25 = 15% effective.
	b, err := calc.Calculate(1500000, models.PackageSenior, models.TierGold, models.CommissionPlacement)
	require.NoError(t, err)

	assert.InDelta(t, 0.15, b.EffectiveRate, 1e-9)
	assert.InDelta(t, 225000, b.GrossCommission, 0.01)
	assert.InDelta(t, 22500, b.TDSAmount, 0.01)
	assert.InDelta(t, 11250, b.PlatformFee, 0.01)
	assert.InDelta(t, 191250, b.NetCommission, 0.01)
}

func TestCalculateAccountingIdentity(t *testing.T) {
	calc := newTestCalculator(t)

	amounts := []float64{150000, 450000, 900000, 1500000, 2500000, 5000000}
	for _, amount := range amounts {
		level := PackageLevelForAmount(amount)
		for _, tier := range models.TierOrder {
			b, err := calc.Calculate(amount, level, tier, models.CommissionPlacement)
			require.NoError(t, err)
			assert.InDelta(t, b.GrossCommission, b.TDSAmount+b.PlatformFee+b.NetCommission, 0.011,
				"identity for amount %.0f tier %s", amount, tier)
			assert.GreaterOrEqual(t, b.NetCommission, 0.0)
		}
	}
}

func TestCalculateTierMonotonicity(t *testing.T) {
	calc := newTestCalculator(t)

	prev := -1.0
	for _, tier := range models.TierOrder {
		b, err := calc.Calculate(800000, models.PackageMidLevel, tier, models.CommissionPlacement)
		require.NoError(t, err)
		assert.Greater(t, b.NetCommission, prev, "net should grow with tier %s", tier)
		prev = b.NetCommission
	}
}

func TestCalculateTDSThreshold(t *testing.T) {
	calc := newTestCalculator(t)

	// 100k entry bronze: 6% = 6000 gross, below the 30k TDS threshold.
	b, err := calc.Calculate(100000, models.PackageEntry, models.TierBronze, models.CommissionPlacement)
	require.NoError(t, err)
	assert.Equal(t, 0.0, b.TDSAmount)
	assert.InDelta(t, 6000*0.95, b.NetCommission, 0.01)

	// Gross exactly at the threshold: still exempt.
	b, err = calc.Calculate(500000, models.PackageEntry, models.TierBronze, models.CommissionPlacement)
	require.NoError(t, err)
	assert.InDelta(t, 30000, b.GrossCommission, 0.01)
	assert.Equal(t, 0.0, b.TDSAmount)
}

func TestEffectiveRateClamp(t *testing.T) {
	cfg := DefaultCommissionConfig()
	cfg.TierMultipliers[models.TierDiamond] = 3.0
	calc, err := NewCommissionCalculator(cfg)
	require.NoError(t, err)

	// 18% * 3.0 = 54%, clamped to the configured ceiling.
	b, err := calc.Calculate(5000000, models.PackageExecutive, models.TierDiamond, models.CommissionPlacement)
	require.NoError(t, err)
	assert.InDelta(t, cfg.MaxEffectiveRate, b.EffectiveRate, 1e-9)
}

func TestCalculateTypeFactors(t *testing.T) {
	calc := newTestCalculator(t)

	placement, err := calc.Calculate(1000000, models.PackageMidLevel, models.TierSilver, models.CommissionPlacement)
	require.NoError(t, err)
	referral, err := calc.Calculate(1000000, models.PackageMidLevel, models.TierSilver, models.CommissionReferral)
	require.NoError(t, err)
	renewal, err := calc.Calculate(1000000, models.PackageMidLevel, models.TierSilver, models.CommissionRenewal)
	require.NoError(t, err)

	assert.InDelta(t, placement.GrossCommission*0.75, referral.GrossCommission, 0.011)
	assert.InDelta(t, placement.GrossCommission*0.50, renewal.GrossCommission, 0.011)
}

func TestCalculateDeterministic(t *testing.T) {
	calc := newTestCalculator(t)

	a, err := calc.Calculate(1234567, models.PackageSenior, models.TierPlatinum, models.CommissionPlacement)
	require.NoError(t, err)
	b, err := calc.Calculate(1234567, models.PackageSenior, models.TierPlatinum, models.CommissionPlacement)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCalculateInvalidInput(t *testing.T) {
	calc := newTestCalculator(t)

	_, err := calc.Calculate(0, models.PackageEntry, models.TierBronze, models.CommissionPlacement)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = calc.Calculate(-5, models.PackageEntry, models.TierBronze, models.CommissionPlacement)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = calc.Calculate(100000, models.PackageLevel("mythical"), models.TierBronze, models.CommissionPlacement)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = calc.Calculate(100000, models.PackageEntry, models.UserTier("wood"), models.CommissionPlacement)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = calc.Calculate(100000, models.PackageEntry, models.TierBronze, models.CommissionType("bonus"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = calc.CalculateForPackage(0, models.TierBronze, models.CommissionPlacement)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewCommissionCalculatorConfigValidation(t *testing.T) {
	cfg := DefaultCommissionConfig()
	cfg.BaseRates[models.PackageSenior] = -0.1
	_, err := NewCommissionCalculator(cfg)
	assert.ErrorIs(t, err, ErrConfiguration)

	cfg = DefaultCommissionConfig()
	delete(cfg.TierMultipliers, models.TierGold)
	_, err = NewCommissionCalculator(cfg)
	assert.ErrorIs(t, err, ErrConfiguration)

	cfg = DefaultCommissionConfig()
	cfg.TierMultipliers[models.TierSilver] = 0.5 // below bronze, breaks ordering
	_, err = NewCommissionCalculator(cfg)
	assert.ErrorIs(t, err, ErrConfiguration)

	cfg = DefaultCommissionConfig()
	cfg.MaxEffectiveRate = 0
	_, err = NewCommissionCalculator(cfg)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestCalculateForPackage(t *testing.T) {
	calc := newTestCalculator(t)

	b, err := calc.CalculateForPackage(700000, models.TierBronze, models.CommissionPlacement)
	require.NoError(t, err)
	assert.Equal(t, models.PackageMidLevel, b.PackageLevel)
	assert.InDelta(t, 0.10, b.EffectiveRate, 1e-9)
}

func TestCalculateBatch(t *testing.T) {
	calc := newTestCalculator(t)

	reqs := []models.CommissionRequest{
		{BaseAmount: 400000, CommissionType: "placement"},
		{BaseAmount: 1500000, PackageLevel: "senior", CommissionType: "placement"},
		{BaseAmount: 200000, CommissionType: "referral"},
	}

	result, err := calc.CalculateBatch(reqs, models.TierGold)
	require.NoError(t, err)
	require.Len(t, result.Breakdowns, 3)

	var gross, net float64
	for _, b := range result.Breakdowns {
		gross += b.GrossCommission
		net += b.NetCommission
	}
	assert.InDelta(t, gross, result.TotalGross, 0.05)
	assert.InDelta(t, net, result.TotalNet, 0.05)

	_, err = calc.CalculateBatch([]models.CommissionRequest{
		{BaseAmount: -1, CommissionType: "placement"},
	}, models.TierGold)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = calc.CalculateBatch([]models.CommissionRequest{
		{BaseAmount: 100000, CommissionType: "bonus"},
	}, models.TierGold)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSummary(t *testing.T) {
	calc := newTestCalculator(t)

	thresholds := map[models.UserTier]int{
		models.TierBronze:   0,
		models.TierSilver:   6,
		models.TierGold:     16,
		models.TierPlatinum: 31,
		models.TierDiamond:  51,
	}

	s, err := calc.Summary(models.TierSilver, 10, thresholds)
	require.NoError(t, err)
	assert.Equal(t, models.TierSilver, s.UserTier)
	assert.Equal(t, models.TierGold, s.NextTier)
	assert.Equal(t, 6, s.PlacementsToNextTier)
	assert.InDelta(t, 0.12*1.1, s.EffectiveRates[models.PackageSenior], 1e-9)

	// Diamond has no next tier.
	s, err = calc.Summary(models.TierDiamond, 60, thresholds)
	require.NoError(t, err)
	assert.Equal(t, models.UserTier(""), s.NextTier)
}
