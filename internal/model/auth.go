package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the JWT claims issued at login.
type UserClaims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Token      string `json:"token"`
	UserID     string `json:"userId"`
	Role       Role   `json:"role"`
	FirstLogin bool   `json:"firstLogin"`
}
