package utils

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/inkpress/inkpress/config"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// SessionClaims is the payload of the session token: the authenticated
// user's id, signed with the app secret so the client cannot forge it.
type SessionClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateSessionToken issues a signed token for the given user identity.
func GenerateSessionToken(userID uint, duration time.Duration) (string, error) {
	cfg := config.Get()

	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SecretKey))
}

// ParseSessionToken validates a session token and returns its claims.
func ParseSessionToken(tokenStr string) (*SessionClaims, error) {
	cfg := config.Get()
	parsed, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// SetSessionCookie overwrites any prior session state with a fresh token
// identifying the user.
func SetSessionCookie(ctx *gin.Context, userID uint) error {
	cfg := config.Get()
	ttl := time.Duration(cfg.SessionTTLHours) * time.Hour

	token, err := GenerateSessionToken(userID, ttl)
	if err != nil {
		return err
	}

	ctx.SetCookie(SessionCookieName, token, int(ttl.Seconds()), "/", "", false, true)
	return nil
}

// ClearSessionCookie removes the session cookie. Safe to call when no
// session exists.
func ClearSessionCookie(ctx *gin.Context) {
	ctx.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
}

// SessionUserID reads the session cookie and returns the user id it
// carries. Returns false when the cookie is absent, expired or tampered.
func SessionUserID(ctx *gin.Context) (uint, bool) {
	token, err := ctx.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return 0, false
	}

	claims, err := ParseSessionToken(token)
	if err != nil {
		return 0, false
	}

	return claims.UserID, true
}
