package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello  "))
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", SanitizeInput("<script>alert(1)</script>"))
	assert.Equal(t, "abc", SanitizeInput("a\x00b\x1fc"))
	assert.Equal(t, "", SanitizeInput("   "))
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last+tag@sub.example.co",
		" padded@example.com ",
	}
	for _, e := range valid {
		assert.True(t, IsValidEmail(e), e)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@example",
		"user example@example.com",
	}
	for _, e := range invalid {
		assert.False(t, IsValidEmail(e), e)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Str0ngpass"))

	assert.Error(t, ValidatePassword("Sh0rt"))
	assert.Error(t, ValidatePassword("alllowercase1"))
	assert.Error(t, ValidatePassword("ALLUPPERCASE1"))
	assert.Error(t, ValidatePassword("NoDigitsHere"))
}

func TestGenerateReferralCode(t *testing.T) {
	code, err := GenerateReferralCode(RecruiterType)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "REC-"))
	assert.Len(t, code, 10)

	suffix := strings.TrimPrefix(code, "REC-")
	for _, r := range suffix {
		isAlnum := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		assert.True(t, isAlnum, "unexpected character %q in %s", r, code)
	}

	// Codes should not collide in practice
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		c, err := GenerateReferralCode(CandidateType)
		assert.NoError(t, err)
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}
}

func TestReferralTypeForRole(t *testing.T) {
	assert.Equal(t, CandidateType, ReferralTypeForRole("candidate"))
	assert.Equal(t, CompanyType, ReferralTypeForRole("company"))
	assert.Equal(t, RecruiterType, ReferralTypeForRole("recruiter"))
	assert.Equal(t, RecruiterType, ReferralTypeForRole("admin"))
}

func TestReferralLink(t *testing.T) {
	t.Setenv("REFERRAL_BASE_URL", "")
	assert.Equal(t, "https://app.hiringreferrals.com/signup?ref=REC-ABC123", ReferralLink("REC-ABC123"))

	t.Setenv("REFERRAL_BASE_URL", "https://staging.example.com")
	assert.Equal(t, "https://staging.example.com/signup?ref=CAN-XYZ789", ReferralLink("CAN-XYZ789"))
}

func TestGenerateReferralQRCode(t *testing.T) {
	t.Setenv("REFERRAL_BASE_URL", "")
	qr, err := GenerateReferralQRCode("REC-ABC123")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))
	assert.Greater(t, len(qr), 100)
}
