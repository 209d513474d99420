package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const authUserKey = "auth_user"

// Identity parses an optional Bearer token and stashes its subject. Requests
// without a token (or with a bad one) pass through; user scoping falls back
// to header/query resolution.
func Identity(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			token, err := jwt.Parse(auth[7:], func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			})
			if err == nil && token.Valid {
				if claims, ok := token.Claims.(jwt.MapClaims); ok {
					if sub, ok := claims["sub"].(string); ok {
						c.Set(authUserKey, sub)
					}
				}
			}
		}
		c.Next()
	}
}

// ResolveUser picks the effective user id: X-User-ID header wins over the
// user query parameter, which wins over the bearer token subject; absent all
// three, the fixed default applies.
func ResolveUser(c *gin.Context) string {
	if v := c.GetHeader("X-User-ID"); v != "" {
		return v
	}
	if v := c.Query("user"); v != "" {
		return v
	}
	if v := c.GetString(authUserKey); v != "" {
		return v
	}
	return "default"
}
