package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients. The cart
// API only ever reads the user identifier out of it.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"userId"`
	jwt.RegisteredClaims
}
