package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalFromCode(t *testing.T) {
	cases := map[int]Goal{
		100: GoalLoseWeight,
		200: GoalEatHealthier,
		300: GoalManageHealth,
	}
	for code, want := range cases {
		got, ok := GoalFromCode(code)
		require.True(t, ok, "code %d", code)
		assert.Equal(t, want, got)
	}

	for _, code := range []int{0, 99, 101, 400, 999, -100} {
		_, ok := GoalFromCode(code)
		assert.False(t, ok, "code %d should be rejected", code)
	}
}

func TestActivityLevelFromBand(t *testing.T) {
	got, ok := ActivityLevelFromBand(" 3-5 ")
	require.True(t, ok)
	assert.Equal(t, ActivityModeratelyActive, got)

	got, ok = ActivityLevelFromBand("0-1")
	require.True(t, ok)
	assert.Equal(t, ActivitySedentary, got)

	for _, band := range []string{"", "6-7", "3 - 5", "seven"} {
		_, ok := ActivityLevelFromBand(band)
		assert.False(t, ok, "band %q should be rejected", band)
	}
}

func TestAgeGroupFromBand(t *testing.T) {
	got, ok := AgeGroupFromBand("60+ years")
	require.True(t, ok)
	assert.Equal(t, AgeOlderAdulthood, got)

	got, ok = AgeGroupFromBand("20-39")
	require.True(t, ok)
	assert.Equal(t, AgeYoungAdulthood, got)

	for _, band := range []string{"60+", "60+ YEARS", "2-12", ""} {
		_, ok := AgeGroupFromBand(band)
		assert.False(t, ok, "band %q should be rejected", band)
	}
}

func TestEnumViews(t *testing.T) {
	assert.Equal(t, EnumView{Code: "EAT_HEALTHIER", Description: "Balanced nutrition for overall wellness"}, GoalEatHealthier.View())
	assert.Equal(t, "LIGHTLY_ACTIVE", ActivityLightlyActive.View().Code)
	assert.Equal(t, "Light exercise 1-3 days/week", ActivityLightlyActive.View().Description)
	assert.Contains(t, AgeYoungAdulthood.View().Description, "20-39 years")

	for _, g := range goalByCode {
		assert.NotEmpty(t, g.View().Description, "goal %s", g)
	}
	for _, a := range activityByBand {
		assert.NotEmpty(t, a.View().Description, "activity %s", a)
	}
	for _, a := range ageByBand {
		assert.NotEmpty(t, a.View().Description, "age %s", a)
	}
}

func TestOTPCodeExpiry(t *testing.T) {
	created := time.Date(2025, 4, 9, 10, 0, 0, 0, time.UTC)
	otp := OTPCode{CreatedAt: created}

	assert.False(t, otp.IsExpired(created.Add(29*time.Minute)))
	assert.False(t, otp.IsExpired(created.Add(OTPExpiry)))
	assert.True(t, otp.IsExpired(created.Add(OTPExpiry+time.Second)))
	assert.Equal(t, created.Add(30*time.Minute), otp.ExpiresAt())
}

func TestUserStatusHelpers(t *testing.T) {
	u := User{Status: StatusPendingVerification}
	assert.False(t, u.IsVerified())
	assert.False(t, u.CanOnboard())

	u.Status = StatusVerified
	assert.True(t, u.IsVerified())
	assert.False(t, u.CanOnboard())

	u.Status = StatusPasswordSet
	assert.True(t, u.CanOnboard())

	u.Status = StatusOnboarded
	assert.True(t, u.CanOnboard())
}
