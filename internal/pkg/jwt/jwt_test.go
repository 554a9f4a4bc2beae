package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, time.Minute)
	p := access.Principal{Role: access.RoleEmployee, UserID: 4, EmployeeID: 12, Email: "ada@example.com"}

	token, expiresAt, err := svc.GenerateAccessToken(p)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TypeAccess, claims["type"])

	got, err := PrincipalFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestStreamToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, 5*time.Minute)
	p := access.Principal{Role: access.RoleAdmin, UserID: 1, Email: "root@example.com"}

	token, expiresIn, err := svc.GenerateStreamToken(p)
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	got, err := svc.ValidateStreamToken(token)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	accessToken, _, err := svc.GenerateAccessToken(p)
	require.NoError(t, err)
	_, err = svc.ValidateStreamToken(accessToken)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestTokenFromOtherSecretRejected(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour, time.Minute)
	verifier := NewJWTService("secret-b", time.Hour, time.Minute)

	token, _, err := issuer.GenerateStreamToken(access.Principal{Role: access.RoleAdmin, UserID: 1})
	require.NoError(t, err)
	_, err = verifier.ValidateStreamToken(token)
	assert.Error(t, err)
}

func TestPrincipalFromClaimsRejectsBadInput(t *testing.T) {
	_, err := PrincipalFromClaims(map[string]interface{}{"role": "owner", "user_id": float64(1)})
	assert.ErrorIs(t, err, ErrInvalidClaims)

	_, err = PrincipalFromClaims(map[string]interface{}{"role": "employee", "user_id": float64(1)})
	assert.ErrorIs(t, err, ErrInvalidClaims, "employee without employee_id")

	_, err = PrincipalFromClaims(map[string]interface{}{"role": "admin"})
	assert.ErrorIs(t, err, ErrInvalidClaims)
}
