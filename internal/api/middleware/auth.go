package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"yatube/pkg/jwt"
)

const (
	// ContextUserID and ContextUsername are the gin context keys the
	// auth middleware sets for the resolved actor.
	ContextUserID   = "userID"
	ContextUsername = "username"

	// LoginPath is where unauthenticated callers are sent. Protected
	// operations redirect there instead of returning 401.
	LoginPath = "/auth/login/"
)

// Auth resolves the acting user from a bearer token or the token cookie.
// Anonymous callers are redirected to the login route with a next hint.
func Auth(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			if v, err := c.Cookie("token"); err == nil {
				raw = v
			}
		}
		if raw == "" {
			redirectToLogin(c)
			return
		}
		claims, err := tokens.Validate(raw)
		if err != nil {
			redirectToLogin(c)
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func redirectToLogin(c *gin.Context) {
	next := url.QueryEscape(c.Request.URL.Path)
	c.Redirect(http.StatusFound, LoginPath+"?next="+next)
	c.Abort()
}
