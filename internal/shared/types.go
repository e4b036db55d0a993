package shared

import "github.com/golang-jwt/jwt/v5"

// shared types across the application
// AuthClaims is the JWT payload issued by the token exchange and read back by the auth middleware.
type AuthClaims struct {
	UserID   string `json:"user_id"`
	UserName string `json:"username"`
	Type     string `json:"type"` // always "access"
	jwt.RegisteredClaims
}
