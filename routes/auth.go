package routes

import (
	"fmt"
	"net/http"
	"strings"

	"shrinkray/config"
	"shrinkray/models"
	"shrinkray/settings"
	"shrinkray/utils"
)

// Settings is the per-user encode settings store, wired in from main.
var Settings *settings.Store

// verifyToken verifies the bearer token on the request and returns the claims.
func verifyToken(r *http.Request) (*models.AccessClaims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header required")
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader {
		return nil, fmt.Errorf("invalid authorization header format")
	}

	claims, err := utils.VerifyAccessToken(token, utils.VerifyConfig{
		SecretKey: config.JWTSecret(),
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}
