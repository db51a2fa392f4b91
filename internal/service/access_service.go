package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"fx-transactions/internal/custom_err"
	"fx-transactions/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Access verifies the bearer tokens presented to the API and mints new ones.
type Access interface {
	ValidateToken(tokenString string) (*models.AccessClaims, error)
	IssueToken(subject string) (string, error)
}

type AccessService struct {
	apiKey    string
	jwtSecret []byte
	issuer    string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAccessService(apiKey, jwtSecret, issuer string, tokenTTL time.Duration) Access {
	return &AccessService{
		apiKey:    apiKey,
		jwtSecret: []byte(jwtSecret),
		issuer:    issuer,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// ValidateToken admits a token only when its HMAC signature verifies and its
// apiKey claim equals the configured key. Every rejection carries the same
// caller-facing message.
func (s *AccessService) ValidateToken(tokenString string) (*models.AccessClaims, error) {
	if tokenString == "" {
		return nil, custom_err.Unauthorized(custom_err.TokenMissingMessage, custom_err.ErrTokenMissing)
	}

	claims := &models.AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, custom_err.Unauthorized(custom_err.TokenRejectedMessage, errors.Join(custom_err.ErrInvalidToken, err))
	}

	if !token.Valid {
		return nil, custom_err.Unauthorized(custom_err.TokenRejectedMessage, custom_err.ErrInvalidToken)
	}

	if claims.APIKey == "" || subtle.ConstantTimeCompare([]byte(claims.APIKey), []byte(s.apiKey)) != 1 {
		return nil, custom_err.Unauthorized(custom_err.TokenRejectedMessage,
			fmt.Errorf("%w: api key mismatch", custom_err.ErrInvalidToken))
	}

	return claims, nil
}

func (s *AccessService) IssueToken(subject string) (string, error) {
	now := s.now()
	claims := models.AccessClaims{
		APIKey: s.apiKey,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("service.IssueToken: %w", err)
	}
	return signed, nil
}
