package auth

import "math/rand"

const (
	tokenChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	TokenLength = 8
)

// NewToken returns a fresh access token: TokenLength characters drawn
// uniformly from A-Z0-9. Tokens are long-lived login credentials, not
// secrets with an expiry, so math/rand is sufficient here.
func NewToken() string {
	b := make([]byte, TokenLength)
	for i := range b {
		b[i] = tokenChars[rand.Intn(len(tokenChars))]
	}
	return string(b)
}
