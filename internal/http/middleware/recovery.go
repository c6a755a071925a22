package middleware

import (
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ngooning-backend/internal/platform/ctxutil"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

// Recovery turns panics into the generic 500 body and logs the stack.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	recLog := log.With("middleware", "Recovery")
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		fields := append(ctxutil.LogFields(c.Request.Context()),
			"path", c.Request.URL.Path,
			"panic", recovered,
			"stack", string(debug.Stack()),
		)
		recLog.Error("Panic while handling request", fields...)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}
