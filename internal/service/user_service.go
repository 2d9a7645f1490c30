package service

import (
	"blog-backend/config"
	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/repository/interfaces"
	"blog-backend/internal/util"

	"go.uber.org/zap"

	"golang.org/x/crypto/bcrypt"
)

// UserServiceInterface 便于在处理器测试中替换为 mock
type UserServiceInterface interface {
	Register(user *model.User, password, adminCode string) error
	Login(email, password string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
}

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo interfaces.UserRepository
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// IsEmailTaken 检查邮箱是否已被使用
func (s *UserService) IsEmailTaken(email string) (bool, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// Register 注册新用户。adminCode 非空时必须与配置一致，
// 一致则用户获得管理员标记，不一致注册失败。
func (s *UserService) Register(user *model.User, password, adminCode string) error {
	if adminCode != "" {
		if config.AppConfig.AdminCode == "" || adminCode != config.AppConfig.AdminCode {
			return errors.New(errors.ErrUnauthorized, "Invalid admin code.")
		}
		user.IsAdmin = true
	}

	taken, err := s.IsEmailTaken(user.Email)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "检查邮箱失败", err)
	}
	if taken {
		return errors.New(errors.ErrUserExists, "Email is already in use.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "密码哈希失败", err)
	}
	user.PasswordHash = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		return errors.Wrap(errors.ErrDatabase, "创建用户失败", err)
	}
	return nil
}

// Login 用户登录
func (s *UserService) Login(email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查找用户失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "Incorrect email.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidCredentials, "Incorrect password.", err)
	}

	// 最后登录时间不属于登录契约，失败只记录
	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		util.Logger.Warn("更新最后登录时间失败", zap.Error(err), zap.Int("user_id", user.ID))
	}

	util.Logger.Info("用户登录成功", zap.Int("user_id", user.ID))
	return user, nil
}

// GetUserByID 通过ID获取用户信息
func (s *UserService) GetUserByID(id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found.")
	}
	return user, nil
}
