package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ngooning-backend/internal/platform/ctxutil"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
	"github.com/yungbote/ngooning-backend/internal/platform/supabase"
)

type AuthMiddleware struct {
	log      *logger.Logger
	verifier supabase.TokenVerifier
}

func NewAuthMiddleware(log *logger.Logger, verifier supabase.TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), verifier: verifier}
}

// RequireAuth resolves the session token and stores the caller on the request
// context. Requests without a valid session stop here with 401.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			unauthorized(c)
			return
		}
		user, err := am.verifier.Verify(c.Request.Context(), tokenString)
		if err != nil || user == nil || user.ID == "" {
			am.log.Debug("Rejected session token", append(ctxutil.LogFields(c.Request.Context()), "error", err)...)
			unauthorized(c)
			return
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			TokenString: tokenString,
			User:        user,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}

// extractToken reads the bearer header; EventSource cannot set headers, so
// the access_token query parameter is accepted too.
func extractToken(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return strings.TrimSpace(c.Query("access_token"))
}
