package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/types"
)

// Recovery turns a panic in a handler into a logged 500 JSON response.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		panicRecoveries.Inc()
		log.Error("panic recovered",
			slog.String("error", fmt.Sprint(recovered)),
			slog.String("requestID", c.GetString(RequestIDKey)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
		AbortWithError(c, http.StatusInternalServerError, types.ErrCodeInternal, "Internal server error")
	})
}

// AbortWithError writes the standard JSON error body and stops the chain.
func AbortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, types.ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: c.GetString(RequestIDKey),
	})
}
