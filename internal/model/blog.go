package model

import "time"

// Post 博客文章模型，URL 为由标题派生的唯一 slug
type Post struct {
	ID            int         `json:"id"`
	Title         string      `json:"title"`
	URL           string      `json:"url"`
	Content       string      `json:"content"`
	Image         string      `json:"image"`
	Tags          []string    `json:"tags"`
	UserID        int         `json:"user_id"`
	Published     bool        `json:"published"`
	Featured      bool        `json:"featured"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	User          *PublicUser `json:"user,omitempty"`
	Comments      []*Comment  `json:"comments"`
	CommentsCount int         `json:"comments_count,omitempty"` // 评论数加回复数，每次请求重新计算，只在管理员全量列表中对外
}

type Comment struct {
	ID        int         `json:"id"`
	PostID    int         `json:"post_id"`
	UserID    int         `json:"user_id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	User      *PublicUser `json:"user,omitempty"`
	Replies   []*Reply    `json:"replies"`
}

// Reply 评论的回复，OriginalUserID 记录被回复的用户
type Reply struct {
	ID             int         `json:"id"`
	CommentID      int         `json:"comment_id"`
	UserID         int         `json:"user_id"`
	OriginalUserID int         `json:"original_user_id"`
	Content        string      `json:"content"`
	CreatedAt      time.Time   `json:"created_at"`
	User           *PublicUser `json:"user,omitempty"`
	OriginalUser   *PublicUser `json:"original_user,omitempty"`
}
