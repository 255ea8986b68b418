// models/commission.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PackageLevel bands a placement's annual package into a commission-rate band.
type PackageLevel string

const (
	PackageEntry      PackageLevel = "entry"      // 0-3L
	PackageJunior     PackageLevel = "junior"     // 3-6L
	PackageMidLevel   PackageLevel = "mid_level"  // 6-12L
	PackageSenior     PackageLevel = "senior"     // 12-20L
	PackageLeadership PackageLevel = "leadership" // 20-35L
	PackageExecutive  PackageLevel = "executive"  // 35L+
)

// ParsePackageLevel converts a raw string to a PackageLevel.
func ParsePackageLevel(s string) (PackageLevel, error) {
	l := PackageLevel(s)
	switch l {
	case PackageEntry, PackageJunior, PackageMidLevel, PackageSenior, PackageLeadership, PackageExecutive:
		return l, nil
	}
	return "", fmt.Errorf("unknown package level %q", s)
}

// UserTier is the reward tier a recruiter/referrer occupies. Tiers are
// totally ordered: bronze < silver < gold < platinum < diamond.
type UserTier string

const (
	TierBronze   UserTier = "bronze"
	TierSilver   UserTier = "silver"
	TierGold     UserTier = "gold"
	TierPlatinum UserTier = "platinum"
	TierDiamond  UserTier = "diamond"
)

// TierOrder lists tiers from lowest to highest.
var TierOrder = []UserTier{TierBronze, TierSilver, TierGold, TierPlatinum, TierDiamond}

// ParseUserTier converts a raw string to a UserTier.
func ParseUserTier(s string) (UserTier, error) {
	t := UserTier(s)
	switch t {
	case TierBronze, TierSilver, TierGold, TierPlatinum, TierDiamond:
		return t, nil
	}
	return "", fmt.Errorf("unknown user tier %q", s)
}

// Rank returns the tier's position in the total order, bronze = 0.
func (t UserTier) Rank() int {
	for i, tier := range TierOrder {
		if tier == t {
			return i
		}
	}
	return -1
}

// CommissionType distinguishes how a commission was earned.
type CommissionType string

const (
	CommissionPlacement CommissionType = "placement"
	CommissionReferral  CommissionType = "referral"
	CommissionRenewal   CommissionType = "renewal"
)

// ParseCommissionType converts a raw string to a CommissionType.
func ParseCommissionType(s string) (CommissionType, error) {
	t := CommissionType(s)
	switch t {
	case CommissionPlacement, CommissionReferral, CommissionRenewal:
		return t, nil
	}
	return "", fmt.Errorf("unknown commission type %q", s)
}

// CommissionBreakdown is the immutable result of one commission calculation.
// Never mutated after creation; status transitions live on CommissionRecord.
type CommissionBreakdown struct {
	BaseAmount     float64        `json:"baseAmount" bson:"baseAmount"`
	PackageLevel   PackageLevel   `json:"packageLevel" bson:"packageLevel"`
	UserTier       UserTier       `json:"userTier" bson:"userTier"`
	CommissionType CommissionType `json:"commissionType" bson:"commissionType"`
	BaseRate       float64        `json:"baseRate" bson:"baseRate"`
	TierMultiplier float64        `json:"tierMultiplier" bson:"tierMultiplier"`
	EffectiveRate  float64        `json:"effectiveRate" bson:"effectiveRate"`
	GrossCommission float64       `json:"grossCommission" bson:"grossCommission"`
	TDSRate        float64        `json:"tdsRate" bson:"tdsRate"`
	TDSAmount      float64        `json:"tdsAmount" bson:"tdsAmount"`
	PlatformFeeRate float64       `json:"platformFeeRate" bson:"platformFeeRate"`
	PlatformFee    float64        `json:"platformFee" bson:"platformFee"`
	NetCommission  float64        `json:"netCommission" bson:"netCommission"`
}

// CommissionRecord is the persisted form of a calculated commission, owned by
// the financial router. Status: "pending", "approved", "paid", "cancelled".
type CommissionRecord struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        primitive.ObjectID  `json:"userId" bson:"userId"`
	ApplicationID primitive.ObjectID  `json:"applicationId,omitempty" bson:"applicationId,omitempty"`
	Breakdown     CommissionBreakdown `json:"breakdown" bson:"breakdown"`
	Status        string              `json:"status" bson:"status"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
	ApprovedAt    *time.Time          `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	PaidAt        *time.Time          `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}

// CommissionRequest is the payload for calculating/creating a commission.
type CommissionRequest struct {
	BaseAmount     float64 `json:"baseAmount" validate:"required,gt=0"`
	PackageLevel   string  `json:"packageLevel,omitempty"`
	CommissionType string  `json:"commissionType" validate:"required"`
	ApplicationID  string  `json:"applicationId,omitempty"`
}

// BatchCommissionRequest calculates commissions for several placements at once.
type BatchCommissionRequest struct {
	Placements []CommissionRequest `json:"placements" validate:"required,min=1,dive"`
}

// BatchCommissionResult summarises a batch calculation.
type BatchCommissionResult struct {
	Breakdowns      []CommissionBreakdown `json:"breakdowns"`
	TotalGross      float64               `json:"totalGross"`
	TotalTDS        float64               `json:"totalTds"`
	TotalPlatformFee float64              `json:"totalPlatformFee"`
	TotalNet        float64               `json:"totalNet"`
}

// CommissionSummary reports a user's tier standing and per-band rates.
type CommissionSummary struct {
	UserTier             UserTier            `json:"userTier"`
	TierMultiplier       float64             `json:"tierMultiplier"`
	TotalPlacements      int                 `json:"totalPlacements"`
	EffectiveRates       map[PackageLevel]float64 `json:"effectiveRates"`
	NextTier             UserTier            `json:"nextTier,omitempty"`
	PlacementsToNextTier int                 `json:"placementsToNextTier"`
}
