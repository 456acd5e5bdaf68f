package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symptom-checker-server/internal/config"
	"symptom-checker-server/internal/models"
)

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret", JWTExpirationMinutes: 10}

	token, err := GenerateToken("ops-1", models.RoleAdmin, cfg)
	require.NoError(t, err)

	claims, err := ValidateToken(token, cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "ops-1", claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), claims.ExpiresAt.Time, 5*time.Second)

	_, err = ValidateToken(token, "other")
	assert.Error(t, err)
}

func TestGenerateToken_RejectsUnknownRole(t *testing.T) {
	_, err := GenerateToken("ops-1", models.Role("root"), &config.Config{JWTSecret: "s"})
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	claims := &Claims{
		Role: models.RoleEditor,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ops-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	require.NoError(t, err)

	_, err = ValidateToken(token, "s")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: models.RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(token, "s")
	assert.Error(t, err)
}
