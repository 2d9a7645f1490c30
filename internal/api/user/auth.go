package user

import (
	"net/http"

	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/service"
	"blog-backend/internal/util"
	"blog-backend/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler 处理与认证相关的HTTP请求
type AuthHandler struct {
	userService service.UserServiceInterface
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(userService service.UserServiceInterface) *AuthHandler {
	return &AuthHandler{userService}
}

// Register 处理用户注册请求。
// 校验失败、管理员码错误、邮箱已占用都返回 401 + 完整违规列表。
func (h *AuthHandler) Register(c *gin.Context) {
	var registerData struct {
		FirstName       string `json:"firstName"`
		LastName        string `json:"lastName"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		AdminCode       string `json:"adminCode"`
	}

	if err := c.ShouldBindJSON(&registerData); err != nil {
		util.Logger.Warn("注册失败，无效的请求数据", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"errors": []validation.Violation{
			{Field: "body", Message: "Invalid request body."},
		}})
		return
	}

	violations := validation.Run(validation.RegisterRules(
		registerData.FirstName, registerData.LastName, registerData.Email,
		registerData.Password, registerData.ConfirmPassword,
	))
	if len(violations) > 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": violations})
		return
	}

	user := &model.User{
		FirstName: registerData.FirstName,
		LastName:  registerData.LastName,
		Email:     registerData.Email,
	}

	if err := h.userService.Register(user, registerData.Password, registerData.AdminCode); err != nil {
		switch errors.Code(err) {
		case errors.ErrUnauthorized:
			c.JSON(http.StatusUnauthorized, gin.H{"errors": []validation.Violation{
				{Field: "adminCode", Message: "Invalid admin code."},
			}})
		case errors.ErrUserExists:
			util.Logger.Warn("注册失败，邮箱已被占用", zap.String("email", user.Email))
			c.JSON(http.StatusUnauthorized, gin.H{"errors": []validation.Violation{
				{Field: "email", Message: "Email is already in use."},
			}})
		default:
			util.Logger.Error("注册失败", zap.Error(err))
			errors.HandleError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Login 处理用户登录请求
func (h *AuthHandler) Login(c *gin.Context) {
	var loginData struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&loginData); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": []validation.Violation{
			{Field: "body", Message: "Invalid request body."},
		}})
		return
	}

	user, err := h.userService.Login(loginData.Email, loginData.Password)
	if err != nil {
		if errors.Code(err) == errors.ErrInvalidCredentials {
			c.JSON(http.StatusUnauthorized, gin.H{"errors": []validation.Violation{
				{Field: "email", Message: "Incorrect email or password."},
			}})
			return
		}
		util.Logger.Error("登录失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	token, err := util.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrSigning, "生成令牌失败", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

// CurrentUser 返回当前请求身份对应的用户公开信息。
// 匿名请求返回 401 + user: null，供前端判断登录态。
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"user": nil})
		return
	}

	user, err := h.userService.GetUserByID(userID.(int))
	if err != nil {
		util.Logger.Error("获取当前用户失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id":         user.ID,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"is_admin":   user.IsAdmin,
	}})
}
