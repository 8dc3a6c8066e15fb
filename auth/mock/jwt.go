package mock

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IssueAccessToken mints an access token the stub accepts, so tests can seed
// stores with valid credentials.
func (m *PlatformService) IssueAccessToken(expiry time.Duration) (string, error) {
	return m.createAccessToken(expiry)
}

// createAccessToken mints a signed HS256 access token with the given expiry.
func (m *PlatformService) createAccessToken(expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": m.Issuer,
		"sub": m.Profile.Email,
		"exp": now.Add(expiry).Unix(),
		"iat": now.Unix(),
		"typ": "access_token",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.Secret)
}

// authorized reports whether the request carries a bearer token the stub
// minted and that has not expired.
func (m *PlatformService) authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return false
	}
	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		return m.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err == nil && parsed.Valid
}
