package auth

import (
	"strings"

	"catalog/internal/errors"
)

// Authenticator checks bearer tokens against a configured hash.
type Authenticator struct {
	hash string
}

// NewAuthenticator returns an authenticator for tokenHash. An empty hash
// disables authentication.
func NewAuthenticator(tokenHash string) *Authenticator {
	return &Authenticator{hash: strings.TrimSpace(tokenHash)}
}

// Enabled reports whether requests must carry a token.
func (a *Authenticator) Enabled() bool {
	return a != nil && a.hash != ""
}

// Authenticate validates an Authorization header value.
func (a *Authenticator) Authenticate(header string) error {
	if !a.Enabled() {
		return nil
	}

	token, ok := BearerToken(header)
	if !ok {
		return errors.New(errors.Unauthorized, "missing bearer token")
	}
	if !IsValidTokenFormat(token) || !VerifyToken(token, a.hash) {
		return errors.New(errors.Unauthorized, "invalid API token")
	}
	return nil
}

// BearerToken extracts the token from "Bearer <token>".
func BearerToken(header string) (string, bool) {
	const scheme = "bearer "
	if len(header) < len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return "", false
	}
	token := strings.TrimSpace(header[len(scheme):])
	return token, token != ""
}
