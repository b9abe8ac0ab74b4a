package session

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/api"
)

// ErrNoIdentity is returned when a token carries no usable user claim.
var ErrNoIdentity = errors.New("token has no user identity")

// tokenClaims is the subset of the access token payload the client reads.
type tokenClaims struct {
	UserID api.UserID `json:"user_id"`
	jwt.RegisteredClaims
}

// DecodeIdentity extracts the user id from an access token WITHOUT verifying
// its signature. The result is client-asserted identity used to decide which
// affordances to render; the server remains responsible for authorization.
func DecodeIdentity(token string) (api.UserID, error) {
	if token == "" {
		return "", ErrNoIdentity
	}
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	if !claims.UserID.IsZero() {
		return claims.UserID, nil
	}
	if claims.Subject != "" {
		return api.UserID(claims.Subject), nil
	}
	return "", ErrNoIdentity
}
