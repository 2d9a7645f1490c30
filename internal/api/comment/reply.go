package comment

import (
	"net/http"
	"strconv"

	"blog-backend/internal/errors"
	"blog-backend/internal/util"
	"blog-backend/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateReply 在评论下创建回复，originalUser 是被回复的用户
func (h *CommentHandler) CreateReply(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []validation.Violation{
			{Field: "commentId", Message: "Invalid comment ID."},
		}})
		return
	}

	var req struct {
		Content      string `json:"content"`
		OriginalUser int    `json:"originalUser"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []validation.Violation{
			{Field: "body", Message: "Invalid request body."},
		}})
		return
	}

	if violations := validation.Run(validation.ReplyRules(req.Content)); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": violations})
		return
	}

	reply, err := h.commentService.CreateReply(commentID, c.GetInt("user_id"), req.OriginalUser, req.Content)
	if err != nil {
		util.Logger.Error("创建回复失败", zap.Error(err), zap.Int("comment_id", commentID))
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reply": reply})
}

// ListReplies 获取评论的回复列表，没有回复时返回404
func (h *CommentHandler) ListReplies(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []validation.Violation{
			{Field: "commentId", Message: "Invalid comment ID."},
		}})
		return
	}

	replies, err := h.commentService.ListReplies(commentID)
	if err != nil {
		util.Logger.Error("获取回复失败", zap.Error(err), zap.Int("comment_id", commentID))
		errors.HandleError(c, err)
		return
	}

	if len(replies) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"errors": []validation.Violation{
			{Field: "commentId", Message: "No replies found."},
		}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"replies": replies})
}

// DeleteReply 删除回复，仅限回复作者
func (h *CommentHandler) DeleteReply(c *gin.Context) {
	commentID, err := strconv.Atoi(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []validation.Violation{
			{Field: "commentId", Message: "Invalid comment ID."},
		}})
		return
	}
	replyID, err := strconv.Atoi(c.Param("replyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []validation.Violation{
			{Field: "replyId", Message: "Invalid reply ID."},
		}})
		return
	}

	if err := h.commentService.DeleteReply(commentID, replyID, c.GetInt("user_id")); err != nil {
		util.Logger.Error("删除回复失败", zap.Error(err), zap.Int("reply_id", replyID))
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reply deleted."})
}
