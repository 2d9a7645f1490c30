package util

import (
	"blog-backend/config"
	"errors"

	"github.com/dgrijalva/jwt-go"
)

// GenerateToken 生成携带用户ID和管理员标记的令牌。
// 令牌不设过期时间，身份有效性以存储中的用户记录为准。
func GenerateToken(userID int, isAdmin bool) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"is_admin": isAdmin,
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ValidateToken 校验令牌并返回用户ID和管理员标记
func ValidateToken(tokenString string) (int, bool, error) {
	if tokenString == "" {
		return 0, false, errors.New("令牌为空")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("意外的签名方法")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return 0, false, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userID, ok := claims["user_id"].(float64)
		if !ok {
			return 0, false, errors.New("无效的用户ID")
		}
		isAdmin, _ := claims["is_admin"].(bool)
		return int(userID), isAdmin, nil
	}

	return 0, false, errors.New("无效的令牌")
}
