package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/AnTengye/carrierdiscounts/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Recovery turns a panic in a later handler into a 500 response. The panic
// is logged with the request's context attributes and the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			logger.WithContext(c.Request.Context()).Error("panic recovered",
				"panic", fmt.Sprint(recovered),
				"method", c.Request.Method,
				"route", c.FullPath(),
				"stack", string(debug.Stack()),
			)

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":      "Internal server error",
				"request_id": c.Writer.Header().Get(RequestIDHeader),
			})
		}()

		c.Next()
	}
}
