package auth

import (
	"time"

	"courselab_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session token payload. Role, business affiliation and the
// entitlement flag are mirrored from the user row at issue time; a webhook
// driven entitlement change reaches the session on the next refresh.
type Claims struct {
	UserID     string          `json:"uid"`
	Role       models.UserRole `json:"role"`
	BusinessID string          `json:"bid,omitempty"`
	HasPaid    bool            `json:"paid"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens. The secret is threaded in
// from config at startup, never read from the environment here.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate issues an access token for user.
func (m *TokenManager) Generate(user *models.User) (string, error) {
	now := time.Now()

	businessID := ""
	if user.BusinessID != nil {
		businessID = *user.BusinessID
	}

	claims := Claims{
		UserID:     user.ID,
		Role:       user.Role,
		BusinessID: businessID,
		HasPaid:    user.HasPaid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies the signature and expiry and returns the claims.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
