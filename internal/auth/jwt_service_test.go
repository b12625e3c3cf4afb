package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.Generate(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.AccountID)
	assert.NotEmpty(t, claims.ID, "token must carry a jti for revocation")
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(TokenExpiry), claims.ExpiresAt.Time, time.Minute,
		"expiry is absolute from issuance")
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").Generate(42)
	require.NoError(t, err)

	_, err = NewJWTService("secret-b").Validate(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	claims := &Claims{
		AccountID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "expired",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewJWTService("test-secret").Validate(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsWrongSigningMethod(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{AccountID: 42})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTService("test-secret").Validate(signed)
	assert.Error(t, err)
}
