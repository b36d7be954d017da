package auth

import "net/http"

// NoneAuthenticator lets every request through. Used for local development
// where no admin token is set.
type NoneAuthenticator struct{}

func NewNoneAuthenticator() (*NoneAuthenticator, error) {
	return &NoneAuthenticator{}, nil
}

func (n *NoneAuthenticator) Authenticator(next http.Handler) http.Handler {
	return next
}
