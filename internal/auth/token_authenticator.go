package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// TokenAuthenticator checks a static bearer token on every request.
// The health endpoint stays open so load balancers can probe the service.
type TokenAuthenticator struct {
	token string
}

func NewTokenAuthenticator(token string) (*TokenAuthenticator, error) {
	return &TokenAuthenticator{token: token}, nil
}

func (a *TokenAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		presented := bearerToken(r)
		if presented == "" {
			http.Error(w, "missing authorization token", http.StatusUnauthorized)
			return
		}
		if subtle.ConstantTimeCompare([]byte(presented), []byte(a.token)) != 1 {
			http.Error(w, "invalid authorization token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
