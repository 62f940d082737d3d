package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims decodes the claims of a JWT bearer token without checking its
// signature or expiry. For display only: whether a token is still valid is
// decided by the server's verification endpoint.
func TokenClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("session: token is not a jwt: %w", err)
	}
	return claims, nil
}
