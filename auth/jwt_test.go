package auth

import (
	"testing"
	"time"

	"townbank/domain/entities"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	service := NewService("test-secret-key", time.Hour)

	token, err := service.GenerateToken(42, entities.RoleMayor)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.AccountID)
	assert.Equal(t, entities.RoleMayor, claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.True(t, time.Now().Before(claims.ExpiresAt.Time))
}

func TestValidateToken_Rejects(t *testing.T) {
	service := NewService("test-secret-key", time.Hour)

	wrongSecret, err := NewService("other-secret", time.Hour).GenerateToken(1, entities.RoleUser)
	require.NoError(t, err)

	expired, err := NewService("test-secret-key", -time.Minute).GenerateToken(1, entities.RoleUser)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{AccountID: 1, RegisteredClaims: jwt.RegisteredClaims{Issuer: "townbank"}}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", wrongSecret},
		{"expired", expired},
		{"unsigned", noneAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
