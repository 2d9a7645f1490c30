package middleware

import (
	"strings"

	"blog-backend/internal/errors"
	"blog-backend/internal/service"
	"blog-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bearerToken 提取 Authorization 头中的 Bearer 令牌
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// resolveCaller 校验令牌并从存储中加载用户（管理员标记以存储为准）。
// 返回值依次为：用户ID、管理员标记、身份是否有效、致命错误。
// 令牌无效与用户不存在都算身份无效；存储故障是致命错误，不降级为匿名。
func resolveCaller(c *gin.Context, userService service.UserServiceInterface) (int, bool, bool, error) {
	token, ok := bearerToken(c)
	if !ok {
		return 0, false, false, nil
	}

	userID, _, err := util.ValidateToken(token)
	if err != nil {
		return 0, false, false, nil
	}

	user, err := userService.GetUserByID(userID)
	if err != nil {
		if errors.Code(err) == errors.ErrUserNotFound {
			return 0, false, false, nil
		}
		return 0, false, false, err
	}

	c.Set("user_id", user.ID)
	c.Set("is_admin", user.IsAdmin)
	return user.ID, user.IsAdmin, true, nil
}

// AuthRequired 要求请求携带有效身份，否则返回401
func AuthRequired(userService service.UserServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, _, authenticated, err := resolveCaller(c, userService)
		if err != nil {
			util.Logger.Error("解析请求身份失败", zap.Error(err), zap.String("path", c.Request.URL.Path))
			errors.HandleError(c, err)
			c.Abort()
			return
		}
		if !authenticated {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Authentication required."))
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthOptional 尽力解析身份：令牌缺失或无效视为匿名继续，
// 但解析过程中的存储故障对本次请求是致命的
func AuthOptional(userService service.UserServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, _, _, err := resolveCaller(c, userService)
		if err != nil {
			util.Logger.Error("解析请求身份失败", zap.Error(err), zap.String("path", c.Request.URL.Path))
			errors.HandleError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired 确保只有管理员可以访问，必须在 AuthRequired 之后使用
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("is_admin") {
			util.Logger.Warn("非管理员访问",
				zap.Int("user_id", c.GetInt("user_id")),
				zap.String("path", c.Request.URL.Path))
			errors.HandleError(c, errors.New(errors.ErrForbidden, "Admin access required."))
			c.Abort()
			return
		}
		c.Next()
	}
}
