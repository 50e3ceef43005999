package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// StaffClaims represents the JWT claims for an authenticated staff session.
// GymID pins every request to a single tenant; handlers never accept a
// tenant id from the request body.
type StaffClaims struct {
	Email   string `json:"email"`
	StaffID uint   `json:"staff_id"`
	GymID   uint   `json:"gym_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *JWTConfig
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(config *JWTConfig) *JWTUtil {
	return &JWTUtil{
		config: config,
	}
}

// GenerateToken creates a JWT token with staff and tenant information
func (j *JWTUtil) GenerateToken(email string, staffID, gymID uint, role string) (string, error) {
	if j.config == nil {
		return "", errors.New("JWT configuration not provided")
	}

	claims := StaffClaims{
		Email:   email,
		StaffID: staffID,
		GymID:   gymID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(j.config.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*StaffClaims, error) {
	if j.config == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&StaffClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.SigningKey), nil
		},
	)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*StaffClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
