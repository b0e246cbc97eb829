package auth

import (
	"time"

	jwtv4 "github.com/golang-jwt/jwt/v4"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the cookie that carries the signed session token.
const SessionCookie = "puspagen_session"

// Session is the authenticated state minted on login: the account's email,
// its access token and its store id. It lives client-side in a signed JWT,
// never on the server.
type Session struct {
	Email  string
	Token  string
	UserID int64
}

// NewSessionToken mints an HS256 session token with an explicit TTL.
func NewSessionToken(secret, email, accessToken string, userID int64, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":   email,
		"token":   accessToken,
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	})
	return token.SignedString([]byte(secret))
}

// SessionFromToken extracts the session from a token already verified by the
// route guard. The jwt/v4 type is what gofiber/jwt stores in the request
// context. A session missing any of email, token or user id is rejected.
func SessionFromToken(token *jwtv4.Token) (Session, bool) {
	claims, ok := token.Claims.(jwtv4.MapClaims)
	if !ok {
		return Session{}, false
	}
	email, _ := claims["email"].(string)
	accessToken, _ := claims["token"].(string)
	userID, hasID := claims["user_id"].(float64)
	if email == "" || accessToken == "" || !hasID {
		return Session{}, false
	}
	return Session{Email: email, Token: accessToken, UserID: int64(userID)}, true
}
