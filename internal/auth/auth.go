package auth

import (
	"net/http"

	"go.uber.org/zap"
)

// Authenticator guards the API routes. Implementations wrap the router as
// an HTTP middleware.
type Authenticator interface {
	Authenticator(next http.Handler) http.Handler
}

// NewAuthenticator selects the token authenticator when an admin token is
// configured and falls back to the pass-through authenticator otherwise.
func NewAuthenticator(adminToken string) (Authenticator, error) {
	if adminToken == "" {
		zap.S().Named("auth").Warn("no admin token configured, authentication disabled")
		return NewNoneAuthenticator()
	}
	zap.S().Named("auth").Info("authentication: 'token'")
	return NewTokenAuthenticator(adminToken)
}
