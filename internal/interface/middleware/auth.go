package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/marketplace-api/pkg/helpers"
	"github.com/oksasatya/marketplace-api/pkg/response"
)

const (
	CtxUserIDKey   = "userID"
	CtxUserRoleKey = "userRole"
)

// tokenFrom reads the bearer token, falling back to the session cookie.
func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	if tok, err := c.Cookie(helpers.AccessTokenCookie); err == nil {
		return tok
	}
	return ""
}

func authenticate(c *gin.Context, jwt *helpers.JWTManager) (*helpers.Claims, bool) {
	token := tokenFrom(c)
	if token == "" {
		response.Abort(c, http.StatusUnauthorized, "No token, authorization denied")
		return nil, false
	}
	claims, err := jwt.ParseToken(token)
	if err != nil {
		response.Abort(c, http.StatusUnauthorized, "Token is not valid")
		return nil, false
	}
	c.Set(CtxUserIDKey, claims.UserID)
	c.Set(CtxUserRoleKey, claims.Role)
	return claims, true
}

// Auth validates the token and sets userID and userRole in the Gin context.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c, jwt); !ok {
			return
		}
		c.Next()
	}
}

// AdminOnly additionally requires a token issued by the admin login.
// A valid token without the admin claim gets 403.
func AdminOnly(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, jwt)
		if !ok {
			return
		}
		if !claims.IsAdmin() {
			response.Abort(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}
