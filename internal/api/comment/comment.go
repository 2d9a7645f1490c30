package comment

import (
	"net/http"
	"strconv"

	"blog-backend/internal/errors"
	"blog-backend/internal/service"
	"blog-backend/internal/util"
	"blog-backend/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommentHandler 处理评论与回复相关的HTTP请求
type CommentHandler struct {
	commentService service.CommentServiceInterface
}

// NewCommentHandler 创建一个新的 CommentHandler 实例
func NewCommentHandler(commentService service.CommentServiceInterface) *CommentHandler {
	return &CommentHandler{commentService}
}

// Create 在文章下创建评论，任何已登录用户可用
func (h *CommentHandler) Create(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []validation.Violation{
			{Field: "id", Message: "Invalid post ID."},
		}})
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []validation.Violation{
			{Field: "body", Message: "Invalid request body."},
		}})
		return
	}

	if violations := validation.Run(validation.CommentRules(req.Content)); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": violations})
		return
	}

	comment, err := h.commentService.CreateComment(postID, c.GetInt("user_id"), req.Content)
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err), zap.Int("post_id", postID))
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// List 获取文章的评论树。
// 路由参数携带文章ID，参数名与 GET 路由树下的 :url 保持一致。
func (h *CommentHandler) List(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("url"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []validation.Violation{
			{Field: "id", Message: "Invalid post ID."},
		}})
		return
	}

	comments, err := h.commentService.ListComments(postID)
	if err != nil {
		util.Logger.Error("获取评论失败", zap.Error(err), zap.Int("post_id", postID))
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// Delete 删除评论，仅限评论作者。
// 路由参数名与 DELETE 路由树下的回复路由保持一致。
func (h *CommentHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []validation.Violation{
			{Field: "commentId", Message: "Invalid comment ID."},
		}})
		return
	}

	if err := h.commentService.DeleteComment(id, c.GetInt("user_id")); err != nil {
		util.Logger.Error("删除评论失败", zap.Error(err), zap.Int("comment_id", id))
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted."})
}
