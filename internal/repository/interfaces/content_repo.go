package interfaces

import "blog-backend/internal/model"

// ContentRepository 定义了文章、评论、回复相关的数据库操作接口。
// ListPostsWithCounts 是排名引擎使用的聚合联查操作：
// 一次性返回文章、作者公开字段以及评论数+回复数。
type ContentRepository interface {
	CreatePost(post *model.Post) error
	GetPostByID(id int) (*model.Post, error)
	GetPostBySlug(slug string) (*model.Post, error)
	SlugExists(slug string, excludeID int) (bool, error)
	UpdatePost(post *model.Post) error
	DeletePost(id int) error
	ListPostsWithCounts(includeUnpublished bool) ([]*model.Post, error)

	CreateComment(comment *model.Comment) error
	GetCommentByID(id int) (*model.Comment, error)
	DeleteComment(id int) error
	GetCommentThread(postID int) ([]*model.Comment, error)

	CreateReply(reply *model.Reply) error
	GetReplyByID(id int) (*model.Reply, error)
	DeleteReply(id int) error
	ListRepliesByComment(commentID, limit int) ([]*model.Reply, error)
}
