// services/commission.go
package services

import (
	"fmt"
	"math"

	"github.com/hiringreferrals/backend/models"
)

// CommissionConfig holds the static rate tables for commission calculation.
// It is loaded once at startup and never mutated afterwards; each calculator
// gets its own copy so tests can swap tables freely.
type CommissionConfig struct {
	// BaseRates maps a package level to its commission rate (fraction of the
	// annual package).
	BaseRates map[models.PackageLevel]float64
	// TierMultipliers scale the base rate per user tier. Non-decreasing with
	// tier order.
	TierMultipliers map[models.UserTier]float64
	// TypeFactors reduce the rate for non-primary commission types.
	TypeFactors map[models.CommissionType]float64
	// MaxEffectiveRate caps the band x tier stack. Clamping is silent.
	MaxEffectiveRate float64
	// TDSRate is withheld from gross commissions above TDSThreshold.
	TDSRate      float64
	TDSThreshold float64
	// PlatformFeeRate is deducted from every gross commission.
	PlatformFeeRate float64
}

// DefaultCommissionConfig returns the platform's standard rate tables.
func DefaultCommissionConfig() CommissionConfig {
	return CommissionConfig{
		BaseRates: map[models.PackageLevel]float64{
			models.PackageEntry:      0.06,
			models.PackageJunior:     0.08,
			models.PackageMidLevel:   0.10,
			models.PackageSenior:     0.12,
			models.PackageLeadership: 0.15,
			models.PackageExecutive:  0.18,
		},
		TierMultipliers: map[models.UserTier]float64{
			models.TierBronze:   1.0,
			models.TierSilver:   1.1,
			models.TierGold:     1.25,
			models.TierPlatinum: 1.5,
			models.TierDiamond:  1.75,
		},
		TypeFactors: map[models.CommissionType]float64{
			models.CommissionPlacement: 1.0,
			models.CommissionReferral:  0.75,
			models.CommissionRenewal:   0.50,
		},
		MaxEffectiveRate: 0.25,
		TDSRate:          0.10,
		TDSThreshold:     30000,
		PlatformFeeRate:  0.05,
	}
}

// CommissionCalculator deterministically converts placement events into net
// payable amounts. Pure: no storage, no side effects.
type CommissionCalculator struct {
	cfg CommissionConfig
}

// NewCommissionCalculator validates the rate tables once, up front.
func NewCommissionCalculator(cfg CommissionConfig) (*CommissionCalculator, error) {
	for _, level := range []models.PackageLevel{
		models.PackageEntry, models.PackageJunior, models.PackageMidLevel,
		models.PackageSenior, models.PackageLeadership, models.PackageExecutive,
	} {
		rate, ok := cfg.BaseRates[level]
		if !ok || rate <= 0 {
			return nil, fmt.Errorf("%w: missing base rate for package level %q", ErrConfiguration, level)
		}
	}
	prev := 0.0
	for _, tier := range models.TierOrder {
		m, ok := cfg.TierMultipliers[tier]
		if !ok || m <= 0 {
			return nil, fmt.Errorf("%w: missing multiplier for tier %q", ErrConfiguration, tier)
		}
		if m < prev {
			return nil, fmt.Errorf("%w: tier multipliers must be non-decreasing, %q breaks the order", ErrConfiguration, tier)
		}
		prev = m
	}
	for _, t := range []models.CommissionType{models.CommissionPlacement, models.CommissionReferral, models.CommissionRenewal} {
		f, ok := cfg.TypeFactors[t]
		if !ok || f <= 0 {
			return nil, fmt.Errorf("%w: missing type factor for commission type %q", ErrConfiguration, t)
		}
	}
	if cfg.MaxEffectiveRate <= 0 || cfg.TDSRate < 0 || cfg.PlatformFeeRate < 0 {
		return nil, fmt.Errorf("%w: rates must be positive", ErrConfiguration)
	}
	return &CommissionCalculator{cfg: cfg}, nil
}

// PackageLevelForAmount bands an annual package into its commission level.
func PackageLevelForAmount(annualPackage float64) models.PackageLevel {
	switch {
	case annualPackage <= 300000:
		return models.PackageEntry
	case annualPackage <= 600000:
		return models.PackageJunior
	case annualPackage <= 1200000:
		return models.PackageMidLevel
	case annualPackage <= 2000000:
		return models.PackageSenior
	case annualPackage <= 3500000:
		return models.PackageLeadership
	default:
		return models.PackageExecutive
	}
}

// EffectiveRate returns the clamped rate for a level/tier/type combination.
func (cc *CommissionCalculator) EffectiveRate(level models.PackageLevel, tier models.UserTier, ctype models.CommissionType) (float64, error) {
	baseRate, ok := cc.cfg.BaseRates[level]
	if !ok {
		return 0, fmt.Errorf("%w: unknown package level %q", ErrInvalidInput, level)
	}
	multiplier, ok := cc.cfg.TierMultipliers[tier]
	if !ok {
		return 0, fmt.Errorf("%w: unknown user tier %q", ErrInvalidInput, tier)
	}
	factor, ok := cc.cfg.TypeFactors[ctype]
	if !ok {
		return 0, fmt.Errorf("%w: unknown commission type %q", ErrInvalidInput, ctype)
	}
	rate := baseRate * factor * multiplier
	if rate > cc.cfg.MaxEffectiveRate {
		rate = cc.cfg.MaxEffectiveRate
	}
	return rate, nil
}

// Calculate computes the full commission breakdown for one placement.
// Identical inputs always produce identical, currency-rounded results.
func (cc *CommissionCalculator) Calculate(baseAmount float64, level models.PackageLevel, tier models.UserTier, ctype models.CommissionType) (models.CommissionBreakdown, error) {
	if baseAmount <= 0 {
		return models.CommissionBreakdown{}, fmt.Errorf("%w: base amount must be positive, got %.2f", ErrInvalidInput, baseAmount)
	}
	rate, err := cc.EffectiveRate(level, tier, ctype)
	if err != nil {
		return models.CommissionBreakdown{}, err
	}

	gross := baseAmount * rate

	tdsRate := 0.0
	tdsAmount := 0.0
	if gross > cc.cfg.TDSThreshold {
		tdsRate = cc.cfg.TDSRate
		tdsAmount = gross * tdsRate
	}
	platformFee := gross * cc.cfg.PlatformFeeRate

	gross = roundCurrency(gross)
	tdsAmount = roundCurrency(tdsAmount)
	platformFee = roundCurrency(platformFee)
	net := roundCurrency(gross - tdsAmount - platformFee)

	return models.CommissionBreakdown{
		BaseAmount:      baseAmount,
		PackageLevel:    level,
		UserTier:        tier,
		CommissionType:  ctype,
		BaseRate:        cc.cfg.BaseRates[level],
		TierMultiplier:  cc.cfg.TierMultipliers[tier],
		EffectiveRate:   rate,
		GrossCommission: gross,
		TDSRate:         tdsRate,
		TDSAmount:       tdsAmount,
		PlatformFeeRate: cc.cfg.PlatformFeeRate,
		PlatformFee:     platformFee,
		NetCommission:   net,
	}, nil
}

// CalculateForPackage infers the package level from the annual package before
// calculating, the common path for placement events.
func (cc *CommissionCalculator) CalculateForPackage(annualPackage float64, tier models.UserTier, ctype models.CommissionType) (models.CommissionBreakdown, error) {
	if annualPackage <= 0 {
		return models.CommissionBreakdown{}, fmt.Errorf("%w: annual package must be positive, got %.2f", ErrInvalidInput, annualPackage)
	}
	return cc.Calculate(annualPackage, PackageLevelForAmount(annualPackage), tier, ctype)
}

// CalculateBatch applies Calculate elementwise and totals the results.
func (cc *CommissionCalculator) CalculateBatch(requests []models.CommissionRequest, tier models.UserTier) (models.BatchCommissionResult, error) {
	result := models.BatchCommissionResult{}
	for i, req := range requests {
		ctype, err := models.ParseCommissionType(req.CommissionType)
		if err != nil {
			return models.BatchCommissionResult{}, fmt.Errorf("%w: placement %d: %v", ErrInvalidInput, i, err)
		}

		var breakdown models.CommissionBreakdown
		if req.PackageLevel != "" {
			level, err := models.ParsePackageLevel(req.PackageLevel)
			if err != nil {
				return models.BatchCommissionResult{}, fmt.Errorf("%w: placement %d: %v", ErrInvalidInput, i, err)
			}
			breakdown, err = cc.Calculate(req.BaseAmount, level, tier, ctype)
			if err != nil {
				return models.BatchCommissionResult{}, err
			}
		} else {
			breakdown, err = cc.CalculateForPackage(req.BaseAmount, tier, ctype)
			if err != nil {
				return models.BatchCommissionResult{}, err
			}
		}

		result.Breakdowns = append(result.Breakdowns, breakdown)
		result.TotalGross = roundCurrency(result.TotalGross + breakdown.GrossCommission)
		result.TotalTDS = roundCurrency(result.TotalTDS + breakdown.TDSAmount)
		result.TotalPlatformFee = roundCurrency(result.TotalPlatformFee + breakdown.PlatformFee)
		result.TotalNet = roundCurrency(result.TotalNet + breakdown.NetCommission)
	}
	return result, nil
}

// Summary reports a user's tier standing and the effective placement rates
// per package level.
func (cc *CommissionCalculator) Summary(tier models.UserTier, placementCount int, thresholds map[models.UserTier]int) (models.CommissionSummary, error) {
	multiplier, ok := cc.cfg.TierMultipliers[tier]
	if !ok {
		return models.CommissionSummary{}, fmt.Errorf("%w: unknown user tier %q", ErrInvalidInput, tier)
	}

	rates := make(map[models.PackageLevel]float64, len(cc.cfg.BaseRates))
	for level := range cc.cfg.BaseRates {
		rate, err := cc.EffectiveRate(level, tier, models.CommissionPlacement)
		if err != nil {
			return models.CommissionSummary{}, err
		}
		rates[level] = rate
	}

	summary := models.CommissionSummary{
		UserTier:        tier,
		TierMultiplier:  multiplier,
		TotalPlacements: placementCount,
		EffectiveRates:  rates,
	}

	if rank := tier.Rank(); rank >= 0 && rank < len(models.TierOrder)-1 {
		next := models.TierOrder[rank+1]
		summary.NextTier = next
		if remaining := thresholds[next] - placementCount; remaining > 0 {
			summary.PlacementsToNextTier = remaining
		}
	}
	return summary, nil
}

func roundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}
