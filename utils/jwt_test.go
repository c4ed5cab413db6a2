package utils

import (
	"testing"
	"time"

	"telvia/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(models.TokenClaims{
		PartnerID:       7,
		CustomerPrePaid: models.BillingPrepaid,
		Roles:           []string{"partner", "billing"},
		Email:           "billing@meghna.example",
	}, time.Hour)
	require.NoError(t, err)

	claims, err := ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.PartnerID)
	assert.Equal(t, models.BillingPrepaid, claims.CustomerPrePaid)
	assert.Equal(t, []string{"partner", "billing"}, claims.Roles)
	assert.Equal(t, "billing@meghna.example", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestExpiredTokenIsDistinguished(t *testing.T) {
	token, err := GenerateToken(models.TokenClaims{PartnerID: 7}, -time.Minute)
	require.NoError(t, err)

	_, err = ParseClaims(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestGarbageTokenIsNotExpired(t *testing.T) {
	_, err := ParseClaims("not.a.token")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestTokenWithoutPartnerIDRejected(t *testing.T) {
	token, err := GenerateToken(models.TokenClaims{PartnerID: 0}, time.Hour)
	require.NoError(t, err)

	_, err = ParseClaims(token)
	assert.Error(t, err)
}
