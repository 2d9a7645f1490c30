package middleware

import (
	"net/http"
	"runtime/debug"

	"blog-backend/internal/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware 捕获处理器 panic，记录堆栈并返回500
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				zap.L().Error("发生panic",
					zap.Any("error", r),
					zap.String("stack", stack),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method))

				c.AbortWithStatusJSON(http.StatusInternalServerError, errors.ErrorResponse{
					Code:    errors.ErrInternal,
					Message: "Internal Server Error",
				})
			}
		}()
		c.Next()
	}
}
