package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"stockroom/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the custom claims embedded in every session token.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// SessionCookie sets and clears the HttpOnly cookie carrying the token.
type SessionCookie struct {
	Name   string
	Secure bool
}

func (s SessionCookie) Set(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, token, maxAge, "/", "", s.Secure, true)
}

func (s SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, "", -1, "/", "", s.Secure, true)
}

// ParseToken validates an HS256 token and returns its claims.
func ParseToken(secret, tokenStr string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func tokenFromRequest(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if v, err := c.Cookie(cookieName); err == nil {
		return v
	}
	return ""
}

// JWTAuth validates the session cookie, or a Bearer token, on every
// protected route. Pages redirect to /login; the JSON API answers 401.
func JWTAuth(secret string, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c, cookie.Name)
		if tokenStr == "" {
			unauthorized(c, "Authentication required")
			return
		}

		claims, err := ParseToken(secret, tokenStr)
		if err != nil {
			cookie.Clear(c)
			unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// OptionalAuth loads the claims of a valid session when present and never
// rejects the request. Public pages use it to know who is signed in.
func OptionalAuth(secret string, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr := tokenFromRequest(c, cookie.Name); tokenStr != "" {
			if claims, err := ParseToken(secret, tokenStr); err == nil {
				c.Set(ClaimsKey, claims)
			}
		}
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	if WantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(msg))
		return
	}
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}

// RequireRole rejects requests whose JWT role is not in the allowed list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !allowed[claims.Role] {
			const msg = "You do not have permission to perform this action"
			if WantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, apierror.New(msg))
				return
			}
			c.Redirect(http.StatusSeeOther, "/dashboard?error="+url.QueryEscape(msg))
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
// Returns nil on routes without JWTAuth.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}
