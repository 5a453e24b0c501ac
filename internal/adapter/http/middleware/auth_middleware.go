package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"offer_negotiation/pkg"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "userID"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid or expired token")

	errUnauthenticated = pkg.NewDomainErrorSimple("UNAUTHENTICATED", "Missing or invalid bearer token", http.StatusUnauthorized)
)

// Claims carries the caller identity. Tokens are issued by the identity
// service; this service only verifies them.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Issue signs an HS256 token for userID. Used by tests and local tooling.
func (v *TokenVerifier) Issue(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func (v *TokenVerifier) UserID(tokenString string) (string, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", ErrInvalidToken
	}
	userID := strings.TrimSpace(claims.UserID)
	if userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// Auth resolves the caller from "Authorization: Bearer <token>". Browsers
// cannot set headers on a WebSocket upgrade, so the access_token query
// parameter is accepted as a fallback.
func Auth(v *TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err == nil {
			var userID string
			if userID, err = v.UserID(token); err == nil {
				c.Set(ContextUserID, userID)
				c.Next()
				return
			}
		}
		log.Printf("[http][auth] rejected path=%s err=%v", c.FullPath(), err)
		c.AbortWithStatusJSON(errUnauthenticated.HTTPStatus, errUnauthenticated.ToHTTPError())
	}
}

// UserIDFrom returns the id set by Auth, or "" on unauthenticated routes.
func UserIDFrom(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func bearerToken(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", ErrMissingToken
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if q := strings.TrimSpace(c.Query("access_token")); q != "" {
		return q, nil
	}
	return "", ErrMissingToken
}
