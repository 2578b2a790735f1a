// File: internal/auth/jwt.go
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the authenticated subject's role carried in the session token.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// GenerateJWT mints a session token for an authenticated subject. The secret
// key is always passed in; there is no package-level secret.
func GenerateJWT(subjectID uint, role Role, secretKey []byte) (string, error) {
	if subjectID == 0 {
		return "", errors.New("subject ID cannot be zero")
	}
	if role != RolePatient && role != RoleDoctor {
		return "", errors.New("invalid subject role")
	}

	claims := jwt.MapClaims{
		"sub":  subjectID,
		"role": string(role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ValidateToken checks the signature and returns the subject ID and role.
func ValidateToken(tokenString string, secretKey []byte) (uint, Role, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
	if err != nil {
		return 0, "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", errors.New("invalid token")
	}

	subFloat, ok := claims["sub"].(float64)
	if !ok {
		return 0, "", errors.New("invalid token subject")
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return 0, "", errors.New("invalid token role")
	}
	role := Role(roleStr)
	if role != RolePatient && role != RoleDoctor {
		return 0, "", errors.New("invalid token role")
	}

	return uint(subFloat), role, nil
}
