package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-chat/internal/config"
)

const testSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func setupTestJWTService(_ *testing.T, expirationHours int) *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          testSecret,
		ExpirationHours: expirationHours,
	})
}

func signClaims(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJWTService_GenerateToken(t *testing.T) {
	service := setupTestJWTService(t, 24)
	userID := uuid.New()

	token, err := service.GenerateToken(userID, "jane@example.com", "Jane Doe")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3, "JWT should have 3 parts separated by dots")

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "jane@example.com", claims.GetEmail())
	assert.Equal(t, "Jane Doe", claims.GetName())
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTService_SubjectOnlyToken(t *testing.T) {
	service := setupTestJWTService(t, 1)
	userID := uuid.New()

	token := signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
}

func TestJWTService_ValidateToken_Rejections(t *testing.T) {
	service := setupTestJWTService(t, 24)
	userID := uuid.New()
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantErr string
	}{
		{
			name:    "empty",
			token:   func(*testing.T) string { return "" },
			wantErr: "token string is empty",
		},
		{
			name:    "malformed",
			token:   func(*testing.T) string { return "not.a.jwt" },
			wantErr: "malformed token",
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return signClaims(t, jwt.SigningMethodHS256, []byte("another-secret-entirely-different"), &Claims{
					UserID:           userID,
					RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future},
				})
			},
			wantErr: "invalid token signature",
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				return signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), &Claims{
					UserID:           userID,
					RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
				})
			},
			wantErr: "token expired",
		},
		{
			name: "no expiry",
			token: func(t *testing.T) string {
				return signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), &Claims{UserID: userID})
			},
			wantErr: "failed to parse token",
		},
		{
			name: "unsigned",
			token: func(t *testing.T) string {
				return signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, &Claims{
					UserID:           userID,
					RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future},
				})
			},
			wantErr: "invalid token signature",
		},
		{
			name: "no user",
			token: func(t *testing.T) string {
				return signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), &Claims{
					RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-uuid", ExpiresAt: future},
				})
			},
			wantErr: "does not identify a user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token(t))
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestJWTService_Issuer(t *testing.T) {
	service := NewJWTService(&config.JWTConfig{Secret: testSecret, Issuer: "https://auth.example.com", ExpirationHours: 1})
	other := NewJWTService(&config.JWTConfig{Secret: testSecret, Issuer: "https://elsewhere.example.com", ExpirationHours: 1})
	userID := uuid.New()

	token, err := service.GenerateToken(userID, "", "")
	require.NoError(t, err)
	_, err = service.ValidateToken(token)
	assert.NoError(t, err)

	foreign, err := other.GenerateToken(userID, "", "")
	require.NoError(t, err)
	_, err = service.ValidateToken(foreign)
	assert.Error(t, err)
}

func TestJWTService_AsTokenValidator(t *testing.T) {
	service := setupTestJWTService(t, 1)
	userID := uuid.New()
	token, err := service.GenerateToken(userID, "", "")
	require.NoError(t, err)

	claims, err := service.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())

	_, err = service.AsTokenValidator().ValidateToken("garbage")
	assert.Error(t, err)
}
