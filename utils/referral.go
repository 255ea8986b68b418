package utils

import (
	"bytes"
	"crypto/rand"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// ReferralType represents the type of account for which a referral code is being generated
type ReferralType string

const (
	RecruiterType ReferralType = "REC"
	CandidateType ReferralType = "CAN"
	CompanyType   ReferralType = "COM"
)

// GenerateReferralCode generates a unique referral code for the specified account type
// Format: {TYPE}-{RANDOM} where RANDOM is 6 alphanumeric characters
// Example: REC-ABC123, CAN-XYZ789, COM-DEF456
func GenerateReferralCode(accountType ReferralType) (string, error) {
	randomBytes := make([]byte, 4)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	randomStr := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	randomStr = randomStr[:6]

	randomStr = strings.ToUpper(randomStr)
	randomStr = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return 'X'
	}, randomStr)

	return string(accountType) + "-" + randomStr, nil
}

// ReferralTypeForRole maps a user role to its referral code prefix
func ReferralTypeForRole(role string) ReferralType {
	switch role {
	case "candidate":
		return CandidateType
	case "company":
		return CompanyType
	default:
		return RecruiterType
	}
}

// ReferralLink builds the signup link for a referral code
func ReferralLink(referralCode string) string {
	baseURL := os.Getenv("REFERRAL_BASE_URL")
	if baseURL == "" {
		baseURL = "https://app.hiringreferrals.com"
	}
	return fmt.Sprintf("%s/signup?ref=%s", baseURL, referralCode)
}

// GenerateReferralQRCode renders a referral code as a base64 PNG data URI
// encoding the signup link.
func GenerateReferralQRCode(referralCode string) (string, error) {
	qrCode, err := qr.Encode(ReferralLink(referralCode), qr.M, qr.Auto)
	if err != nil {
		return "", err
	}

	qrCode, err = barcode.Scale(qrCode, 300, 300)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = png.Encode(&buf, qrCode)
	if err != nil {
		return "", err
	}

	base64QR := base64.StdEncoding.EncodeToString(buf.Bytes())
	return "data:image/png;base64," + base64QR, nil
}
