package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context key under which AuthRequired stores the caller's email.
const emailKey = "userEmail"

var (
	ErrMissingToken = errors.New("no authorization token provided")
	ErrInvalidToken = errors.New("invalid or expired token")
)

func tokenKey() ([]byte, error) {
	key := os.Getenv("TOKEN_KEY")
	if key == "" {
		return nil, errors.New("TOKEN_KEY is not configured")
	}
	return []byte(key), nil
}

// DecodeJWT validates a raw (optionally "Bearer "-prefixed) token and
// returns the email claim. This is the single place identity is
// resolved from a token, for both REST and socket connections.
func DecodeJWT(raw string) (string, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if raw == "" {
		return "", ErrMissingToken
	}

	key, err := tokenKey()
	if err != nil {
		return "", err
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", fmt.Errorf("%w: email claim missing", ErrInvalidToken)
	}
	return email, nil
}

// CreateToken mints a signed token for the given email. Issuing real
// credentials belongs to the auth service; this is used by tooling and
// tests.
func CreateToken(email string, ttl time.Duration) (string, error) {
	key, err := tokenKey()
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// AuthRequired rejects requests without a valid Bearer token with 401
// and stores the caller's email in the context. Not being the host of
// a lobby is a different condition (403) handled by the controllers.
func AuthRequired(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	email, err := DecodeJWT(header)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.Set(emailKey, email)
	c.Next()
}

// CallerEmail returns the authenticated email stored by AuthRequired.
func CallerEmail(c *gin.Context) (string, bool) {
	email := c.GetString(emailKey)
	return email, email != ""
}

// SocketJWTDecoder extracts and validates the JWT carried in a
// socket.io handshake auth map and returns the caller's email.
func SocketJWTDecoder(authData map[string]interface{}) (string, error) {
	raw, ok := authData["authorization"].(string)
	if !ok || raw == "" {
		return "", ErrMissingToken
	}
	return DecodeJWT(raw)
}
