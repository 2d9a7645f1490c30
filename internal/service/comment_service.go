package service

import (
	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/repository/interfaces"
)

// 回复列表单次返回的最大条数
const replyListLimit = 10

// CommentServiceInterface 便于在处理器测试中替换为 mock
type CommentServiceInterface interface {
	CreateComment(postID, userID int, content string) (*model.Comment, error)
	ListComments(postID int) ([]*model.Comment, error)
	DeleteComment(id, callerID int) error
	CreateReply(commentID, userID, originalUserID int, content string) (*model.Reply, error)
	ListReplies(commentID int) ([]*model.Reply, error)
	DeleteReply(commentID, replyID, callerID int) error
}

// CommentService 评论与回复的业务逻辑，删除仅限作者本人
type CommentService struct {
	contentRepo interfaces.ContentRepository
}

// NewCommentService 创建一个新的 CommentService 实例
func NewCommentService(contentRepo interfaces.ContentRepository) *CommentService {
	return &CommentService{contentRepo: contentRepo}
}

// CreateComment 在指定文章下创建评论
func (s *CommentService) CreateComment(postID, userID int, content string) (*model.Comment, error) {
	post, err := s.contentRepo.GetPostByID(postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询文章失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "Post not found.")
	}

	comment := &model.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.contentRepo.CreateComment(comment); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建评论失败", err)
	}
	return comment, nil
}

// ListComments 获取文章的评论树
func (s *CommentService) ListComments(postID int) ([]*model.Comment, error) {
	post, err := s.contentRepo.GetPostByID(postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询文章失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "Post not found.")
	}

	comments, err := s.contentRepo.GetCommentThread(postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询评论树失败", err)
	}
	return comments, nil
}

// DeleteComment 删除评论，仅限评论作者
func (s *CommentService) DeleteComment(id, callerID int) error {
	comment, err := s.contentRepo.GetCommentByID(id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询评论失败", err)
	}
	if comment == nil {
		return errors.New(errors.ErrCommentNotFound, "Comment not found.")
	}
	if comment.UserID != callerID {
		return errors.New(errors.ErrForbidden, "You are not authorized to delete this comment.")
	}

	if err := s.contentRepo.DeleteComment(id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除评论失败", err)
	}
	return nil
}

// CreateReply 在指定评论下创建回复，记录被回复的用户
func (s *CommentService) CreateReply(commentID, userID, originalUserID int, content string) (*model.Reply, error) {
	comment, err := s.contentRepo.GetCommentByID(commentID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询评论失败", err)
	}
	if comment == nil {
		return nil, errors.New(errors.ErrCommentNotFound, "Comment not found.")
	}

	reply := &model.Reply{
		CommentID:      commentID,
		UserID:         userID,
		OriginalUserID: originalUserID,
		Content:        content,
	}
	if err := s.contentRepo.CreateReply(reply); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建回复失败", err)
	}
	return reply, nil
}

// ListReplies 获取评论的回复列表
func (s *CommentService) ListReplies(commentID int) ([]*model.Reply, error) {
	replies, err := s.contentRepo.ListRepliesByComment(commentID, replyListLimit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询回复列表失败", err)
	}
	return replies, nil
}

// DeleteReply 删除回复，仅限回复作者
func (s *CommentService) DeleteReply(commentID, replyID, callerID int) error {
	reply, err := s.contentRepo.GetReplyByID(replyID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询回复失败", err)
	}
	if reply == nil || reply.CommentID != commentID {
		return errors.New(errors.ErrReplyNotFound, "Reply not found.")
	}
	if reply.UserID != callerID {
		return errors.New(errors.ErrForbidden, "You are not authorized to delete this reply.")
	}

	if err := s.contentRepo.DeleteReply(replyID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除回复失败", err)
	}
	return nil
}
