package validation

// PostRules 返回文章创建/更新的规则集，消息为对外契约的一部分
func PostRules(title, content, image string, tags []string, published, featured *bool) []Rule {
	return []Rule{
		{Field: "title", Message: "Title must include at least 5 characters.", Valid: func() bool { return Var(title, "min=5") }},
		{Field: "title", Message: "Title must not include over 75 characters.", Valid: func() bool { return Var(title, "max=75") }},
		{Field: "content", Message: "Content must include at least 5 characters.", Valid: func() bool { return Var(content, "min=5") }},
		{Field: "content", Message: "Content must not include over 10000 characters.", Valid: func() bool { return Var(content, "max=10000") }},
		{Field: "image", Message: "Image must be a valid URL.", Valid: func() bool { return Var(image, "url") }},
		{Field: "tags", Message: "Tags must include at least 1 tag.", Valid: func() bool { return len(tags) >= 1 }},
		{Field: "tags", Message: "Tags must not include over 20 tags.", Valid: func() bool { return len(tags) <= 20 }},
		{Field: "tags", Message: "Each tag must include between 4 and 20 characters.", Valid: func() bool {
			for _, tag := range tags {
				if !Var(tag, "min=4,max=20") {
					return false
				}
			}
			return true
		}},
		{Field: "published", Message: "Published must be a boolean.", Valid: func() bool { return published != nil }},
		{Field: "featured", Message: "Featured must be a boolean.", Valid: func() bool { return featured != nil }},
	}
}

// RegisterRules 用户注册规则集
func RegisterRules(firstName, lastName, email, password, confirmPassword string) []Rule {
	return []Rule{
		{Field: "firstName", Message: "First name must include between 3 and 15 characters.", Valid: func() bool { return Var(firstName, "min=3,max=15") }},
		{Field: "lastName", Message: "Last name must include between 3 and 15 characters.", Valid: func() bool { return Var(lastName, "min=3,max=15") }},
		{Field: "email", Message: "Email must be a valid email address.", Valid: func() bool { return Var(email, "required,email") }},
		{Field: "password", Message: "Password must include at least 8 characters.", Valid: func() bool { return Var(password, "min=8") }},
		{Field: "confirmPassword", Message: "Passwords do not match.", Valid: func() bool { return confirmPassword == password }},
	}
}

// CommentRules 评论内容规则集
func CommentRules(content string) []Rule {
	return []Rule{
		{Field: "content", Message: "Comment must include at least 5 characters.", Valid: func() bool { return Var(content, "min=5") }},
		{Field: "content", Message: "Comment must not include over 240 characters.", Valid: func() bool { return Var(content, "max=240") }},
	}
}

// ReplyRules 回复内容规则集
func ReplyRules(content string) []Rule {
	return []Rule{
		{Field: "content", Message: "Reply must include at least 5 characters.", Valid: func() bool { return Var(content, "min=5") }},
		{Field: "content", Message: "Reply must not include over 240 characters.", Valid: func() bool { return Var(content, "max=240") }},
	}
}
