package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/raghavk/vidtube/internal/config"
	"github.com/raghavk/vidtube/internal/domain"
)

type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// ErrInvalidToken is the single externally visible verification failure.
// Malformed, wrong signature, expired and wrong kind all collapse to it so
// callers cannot distinguish which check failed.
var ErrInvalidToken = domain.Unauthorized("invalid token")

type tokenClaims struct {
	Kind TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies access and refresh tokens. The two kinds use
// independent secrets and TTLs; tokens are opaque everywhere else.
type TokenService struct {
	cfg *config.Config
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{cfg: cfg}
}

func (s *TokenService) IssueAccess(userID uuid.UUID) (string, error) {
	return s.issue(userID, TokenKindAccess, s.cfg.AccessTokenSecret, s.cfg.AccessTokenTTL)
}

func (s *TokenService) IssueRefresh(userID uuid.UUID) (string, error) {
	return s.issue(userID, TokenKindRefresh, s.cfg.RefreshTokenSecret, s.cfg.RefreshTokenTTL)
}

func (s *TokenService) issue(userID uuid.UUID, kind TokenKind, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID.String(),
			// Unique per token so two rotations in the same second never
			// produce byte-identical values.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verify checks signature, expiry and kind, returning the subject account id.
// Every failure is ErrInvalidToken.
func (s *TokenService) Verify(tokenString string, kind TokenKind) (uuid.UUID, error) {
	secret := s.cfg.AccessTokenSecret
	if kind == TokenKindRefresh {
		secret = s.cfg.RefreshTokenSecret
	}

	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	if claims.Kind != kind {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return userID, nil
}
