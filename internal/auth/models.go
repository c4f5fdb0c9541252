package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin  = "admin"
	RoleReader = "reader"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
