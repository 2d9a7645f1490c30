package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool {
	return &b
}

// TestPostRulesValid 合法请求不产生违规
func TestPostRulesValid(t *testing.T) {
	violations := Run(PostRules(
		"test title",
		"test content",
		"https://i.imgur.com/0vSEb71.jpg",
		[]string{"test", "test2"},
		boolPtr(true), boolPtr(false),
	))
	assert.Empty(t, violations)
}

// TestPostRulesCollectsAllViolations 违规必须全量收集而不是短路
func TestPostRulesCollectsAllViolations(t *testing.T) {
	violations := Run(PostRules(
		"abc",       // 标题过短
		"abc",       // 内容过短
		"not-a-url", // 非法图片地址
		nil,         // 没有标签
		nil, nil,    // published/featured 缺失
	))

	assert.Len(t, violations, 6)
	assert.Equal(t, "title", violations[0].Field)
	assert.Equal(t, "Title must include at least 5 characters.", violations[0].Message)
	assert.Equal(t, "Image must be a valid URL.", violations[2].Message)
	assert.Equal(t, "Published must be a boolean.", violations[4].Message)
	assert.Equal(t, "Featured must be a boolean.", violations[5].Message)
}

// TestPostRulesTagCount 21个标签必须产生提及标签数量的违规
func TestPostRulesTagCount(t *testing.T) {
	tags := make([]string, 21)
	for i := range tags {
		tags[i] = "tagvalue"
	}

	violations := Run(PostRules(
		"test title", "test content", "https://i.imgur.com/0vSEb71.jpg",
		tags, boolPtr(true), boolPtr(false),
	))

	assert.Len(t, violations, 1)
	assert.Equal(t, "tags", violations[0].Field)
	assert.Contains(t, violations[0].Message, "20 tags")
}

// TestPostRulesTagLength 单个标签的长度约束
func TestPostRulesTagLength(t *testing.T) {
	violations := Run(PostRules(
		"test title", "test content", "https://i.imgur.com/0vSEb71.jpg",
		[]string{"ab"}, boolPtr(true), boolPtr(false),
	))

	assert.Len(t, violations, 1)
	assert.Equal(t, "Each tag must include between 4 and 20 characters.", violations[0].Message)

	violations = Run(PostRules(
		"test title", "test content", "https://i.imgur.com/0vSEb71.jpg",
		[]string{strings.Repeat("a", 21)}, boolPtr(true), boolPtr(false),
	))
	assert.Len(t, violations, 1)
}

// TestRegisterRules 注册规则集
func TestRegisterRules(t *testing.T) {
	// 合法输入
	violations := Run(RegisterRules("John", "Doe", "john@gmail.com", "12345678", "12345678"))
	assert.Empty(t, violations)

	// 全部字段为空时每条规则都违规
	violations = Run(RegisterRules("", "", "", "", ""))
	assert.Len(t, violations, 4)

	// 两次密码不一致
	violations = Run(RegisterRules("John", "Doe", "john@gmail.com", "12345678", "123456789"))
	assert.Len(t, violations, 1)
	assert.Equal(t, "Passwords do not match.", violations[0].Message)
}

// TestCommentAndReplyRules 评论与回复的内容长度约束
func TestCommentAndReplyRules(t *testing.T) {
	assert.Empty(t, Run(CommentRules("test content")))
	assert.Empty(t, Run(ReplyRules("test content")))

	violations := Run(CommentRules("abc"))
	assert.Len(t, violations, 1)
	assert.Equal(t, "Comment must include at least 5 characters.", violations[0].Message)

	violations = Run(ReplyRules(strings.Repeat("a", 241)))
	assert.Len(t, violations, 1)
	assert.Equal(t, "Reply must not include over 240 characters.", violations[0].Message)
}
