package cms

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the expiry claim out of a backend access token without
// verifying its signature. The backend signs with a key this process never
// holds, so the claim is advisory and only used for refresh scheduling.
func TokenExpiry(accessToken string) (time.Time, error) {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse access token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read token expiry: %w", err)
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("access token carries no expiry claim")
	}

	return exp.Time, nil
}
