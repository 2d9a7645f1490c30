package validation

import (
	"github.com/go-playground/validator/v10"
)

// 声明式字段校验：每条规则是 (字段, 校验, 消息) 三元组，
// 按声明顺序全部求值，返回完整的违规列表而不是第一条。

var validate = validator.New()

// Violation 单条校验违规
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"msg"`
}

// Rule 单条校验规则
type Rule struct {
	Field   string
	Message string
	Valid   func() bool
}

// Run 依次求值所有规则，收集全部违规
func Run(rules []Rule) []Violation {
	var violations []Violation
	for _, r := range rules {
		if !r.Valid() {
			violations = append(violations, Violation{Field: r.Field, Message: r.Message})
		}
	}
	return violations
}

// Var 用 validator 标签校验单个值
func Var(value interface{}, tag string) bool {
	return validate.Var(value, tag) == nil
}
