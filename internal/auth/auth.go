// Package auth mints and verifies the session tokens players present when
// reconnecting. A token proves ownership of a logical player identity; it
// carries no game state.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL covers a full evening of games.
const DefaultTokenTTL = 12 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("expired session token")
)

// Claims is the JWT payload: the player's logical UUID as subject.
type Claims struct {
	PlayerID string `json:"pid"`
	jwt.RegisteredClaims
}

// Service signs and verifies session tokens with a shared secret.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service. A zero ttl falls back to the default.
func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Mint issues a signed token for playerID.
func (s *Service) Mint(playerID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		PlayerID: playerID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the player identity it
// proves.
func (s *Service) Verify(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrExpiredToken
		}
		return uuid.Nil, ErrInvalidToken
	}
	if !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	playerID, err := uuid.Parse(claims.PlayerID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return playerID, nil
}
