package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the payload of the signed session cookie.
type SessionClaims struct {
	Email string   `json:"email"`
	Plan  PlanTier `json:"plan"`
	jwt.RegisteredClaims
}
