package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the payload of a service access token. APIKey must equal the
// configured shared key.
type AccessClaims struct {
	APIKey string `json:"apiKey"`
	jwt.RegisteredClaims
}
