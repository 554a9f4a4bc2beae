package jwt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TypeAccess = "access"
	TypeStream = "stream"
)

var ErrInvalidClaims = errors.New("invalid token claims")

type Service interface {
	GenerateAccessToken(p access.Principal) (token string, expiresAt int64, err error)
	// GenerateStreamToken issues a short-lived token for event-stream
	// connections, which cannot send an Authorization header.
	GenerateStreamToken(p access.Principal) (token string, expiresIn int, err error)
	ValidateStreamToken(tokenString string) (access.Principal, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	streamTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpiration, streamTokenExpiration time.Duration) Service {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		streamTokenExpiration: streamTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(p access.Principal) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(principalClaims(p, TypeAccess, expiresAt))
	return tokenString, expiresAt, err
}

// GenerateStreamToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateStreamToken(p access.Principal) (token string, expiresIn int, err error) {
	expiresAt := time.Now().Add(j.streamTokenExpiration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(principalClaims(p, TypeStream, expiresAt))
	if err != nil {
		return "", 0, err
	}
	return tokenString, int(j.streamTokenExpiration.Seconds()), nil
}

// ValidateStreamToken validates an SSE token and returns its principal
func (j *JWTService) ValidateStreamToken(tokenString string) (access.Principal, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return access.Principal{}, err
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		return access.Principal{}, err
	}
	if claims["type"] != TypeStream {
		return access.Principal{}, ErrInvalidClaims
	}
	return PrincipalFromClaims(claims)
}

func principalClaims(p access.Principal, tokenType string, expiresAt int64) map[string]interface{} {
	claims := map[string]interface{}{
		"user_id": p.UserID,
		"email":   p.Email,
		"role":    string(p.Role),
		"type":    tokenType,
		"exp":     expiresAt,
	}
	if p.EmployeeID > 0 {
		claims["employee_id"] = p.EmployeeID
	}
	return claims
}

// PrincipalFromClaims rebuilds the caller from verified token claims.
func PrincipalFromClaims(claims map[string]interface{}) (access.Principal, error) {
	roleStr, _ := claims["role"].(string)
	role, err := access.ParseRole(roleStr)
	if err != nil {
		return access.Principal{}, fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	}
	userID, ok := claimInt(claims["user_id"])
	if !ok || userID <= 0 {
		return access.Principal{}, fmt.Errorf("%w: user_id", ErrInvalidClaims)
	}
	employeeID, _ := claimInt(claims["employee_id"])
	if role == access.RoleEmployee && employeeID <= 0 {
		return access.Principal{}, fmt.Errorf("%w: employee_id", ErrInvalidClaims)
	}
	email, _ := claims["email"].(string)
	return access.Principal{Role: role, UserID: userID, EmployeeID: employeeID, Email: email}, nil
}

func claimInt(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), n == float64(int64(n))
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}
