package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/voyago/trip-planner-api/internal/models"
	"github.com/voyago/trip-planner-api/pkg/config"
	appErrors "github.com/voyago/trip-planner-api/pkg/errors"
)

// TokenService validates access tokens minted by the external identity
// service.
type TokenService struct {
	config config.JWTConfig
}

// NewTokenService instantiates TokenService.
func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{config: cfg}
}

// ValidateToken parses and verifies an access token.
func (s *TokenService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}
