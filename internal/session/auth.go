package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/meerski/arakh/internal/ids"
)

// OwnerClaims extends jwt.RegisteredClaims with the owner identity an
// authenticated session resolves to. Grounded on the teacher's
// auth.Claims, trimmed to this engine's single external-actor concept
// (owner) rather than user/username/roles.
type OwnerClaims struct {
	OwnerID ids.OwnerId `json:"owner_id"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates the bearer tokens registerSession
// authenticates with, grounded on the teacher's auth.TokenManager (same
// HS256 signing, without the AES envelope: an owner ID carries no
// sensitive payload worth encrypting at rest the way username/roles did).
type TokenManager struct {
	signingKey []byte
	ttl        time.Duration
}

// NewTokenManager returns a token manager. signingKey should be at least
// 32 bytes, matching the teacher's HS256 recommendation.
func NewTokenManager(signingKey []byte) *TokenManager {
	return &TokenManager{signingKey: signingKey, ttl: 24 * time.Hour}
}

// IssueToken mints a signed bearer token for ownerID.
func (tm *TokenManager) IssueToken(ownerID ids.OwnerId) (string, error) {
	now := time.Now()
	claims := OwnerClaims{
		OwnerID: ownerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.signingKey)
}

// ValidateToken parses and verifies a bearer token, returning the owner it
// authenticates.
func (tm *TokenManager) ValidateToken(tokenString string) (ids.OwnerId, error) {
	var claims OwnerClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tm.signingKey, nil
	})
	if err != nil {
		return ids.OwnerId{}, err
	}
	if !token.Valid {
		return ids.OwnerId{}, errors.New("session: invalid token")
	}
	return claims.OwnerID, nil
}
