package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mercatto/pos/internal/interfaces/http/dto"
)

// Context keys and header constants
const (
	OperatorKey   = "operator"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// OperatorClaims are the terminal token claims the backend issues at login
type OperatorClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// Auth validates the operator bearer token. An empty secret disables the
// check entirely, which is how development terminals run.
func Auth(secret, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		header := c.GetHeader(AuthHeaderKey)
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, "Missing bearer token")
			return
		}
		tokenStr := strings.TrimPrefix(header, BearerPrefix)

		claims := &OperatorClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		}, jwt.WithIssuer(issuer))
		if err != nil || !token.Valid {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(OperatorKey, claims)
		c.Next()
	}
}

// GetOperator returns the authenticated operator claims, if any
func GetOperator(c *gin.Context) *OperatorClaims {
	if v, ok := c.Get(OperatorKey); ok {
		if claims, ok := v.(*OperatorClaims); ok {
			return claims
		}
	}
	return nil
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("UNAUTHORIZED", message))
}
