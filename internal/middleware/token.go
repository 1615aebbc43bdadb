package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"peppermint/internal/models"
	"peppermint/internal/services"
)

// Context keys set by RequireAuth for downstream handlers.
const (
	ContextUserKey   = "currentUser"
	ContextUserIDKey = "userID"
)

// TokenManager issues and verifies bearer tokens. The signing secret and
// token lifetime are fixed at construction; build one from configuration at
// startup and inject it wherever tokens are handled.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a TokenManager with the given signing secret and
// token lifetime.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Generate signs a token for the user. The subject claim carries the
// username; expiry is enforced by the signing library at verification time.
func (tm *TokenManager) Generate(user *models.User) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   user.Username,
		ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    "peppermint-api",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(tm.secret)
}

// Parse verifies a token's signature and expiry and returns its claims.
func (tm *TokenManager) Parse(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}
	return claims, nil
}

// RequireAuth verifies the bearer token and resolves its subject back to a
// user through the user service. The user is stored in the request context;
// a missing, invalid or expired token, or a subject with no matching user,
// ends the request with 401.
func (tm *TokenManager) RequireAuth(users services.UserServicer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := tm.Parse(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		user, err := users.GetUserByUsername(claims.Subject)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}

// abortUnauthorized ends the request with 401 and the re-authentication
// hint clients expect on every unauthorized response.
func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
	c.Abort()
}
