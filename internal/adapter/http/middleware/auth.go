package middleware

import (
	"net/http"
	"strings"

	"quotation_service/pkg"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextKeyUserID holds the authenticated caller id in the gin context.
const ContextKeyUserID = "userId"

var (
	errNoToken     = pkg.NewDomainErrorSimple("NOT_AUTHORIZED", "Not authorized, no token", http.StatusUnauthorized)
	errTokenFailed = pkg.NewDomainErrorSimple("NOT_AUTHORIZED", "Not authorized, token failed", http.StatusUnauthorized)
)

// Auth verifies an HS256 bearer token and stores the caller id (the "sub"
// claim, or "id" for tokens issued without a subject).
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
			abortWith(c, errNoToken)
			return
		}
		tokenString := strings.TrimSpace(header[7:])
		if tokenString == "" {
			abortWith(c, errNoToken)
			return
		}

		claims := jwt.MapClaims{}
		token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			abortWith(c, errTokenFailed)
			return
		}

		userID := callerFromClaims(claims)
		if userID == "" {
			abortWith(c, errTokenFailed)
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// CallerID returns the id set by Auth, or "" on unauthenticated routes.
func CallerID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

func callerFromClaims(claims jwt.MapClaims) string {
	if sub, err := claims.GetSubject(); err == nil && strings.TrimSpace(sub) != "" {
		return strings.TrimSpace(sub)
	}
	if id, ok := claims["id"].(string); ok {
		return strings.TrimSpace(id)
	}
	return ""
}

func abortWith(c *gin.Context, appErr *pkg.AppError) {
	_ = c.Error(appErr)
	c.Abort()
}
