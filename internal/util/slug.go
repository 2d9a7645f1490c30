package util

import (
	"strings"

	"github.com/google/uuid"
)

// DeriveSlug 由标题派生 url slug：小写、空格换连字符、去掉问号
func DeriveSlug(title string) string {
	slug := strings.ToLower(title)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "?", "")
	return slug
}

// SlugToken 生成用于消除 slug 冲突的短随机后缀
func SlugToken() string {
	return strings.Split(uuid.NewString(), "-")[0]
}
