package post

import (
	"net/http"
	"strconv"

	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/service"
	"blog-backend/internal/util"
	"blog-backend/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PostHandler 处理文章相关的HTTP请求
type PostHandler struct {
	postService service.PostServiceInterface
}

// NewPostHandler 创建一个新的 PostHandler 实例
func NewPostHandler(postService service.PostServiceInterface) *PostHandler {
	return &PostHandler{postService}
}

// postRequest 文章创建/更新请求体。published 和 featured 用指针
// 区分"缺失"和"false"，缺失会产生校验违规。
type postRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Image     string   `json:"image"`
	Tags      []string `json:"tags"`
	Published *bool    `json:"published"`
	Featured  *bool    `json:"featured"`
}

func (r *postRequest) validate() []validation.Violation {
	return validation.Run(validation.PostRules(r.Title, r.Content, r.Image, r.Tags, r.Published, r.Featured))
}

// Create 创建文章，仅限管理员（路由层已校验）
func (h *PostHandler) Create(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Logger.Warn("创建文章失败，无效的请求数据", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"errors": []validation.Violation{
			{Field: "body", Message: "Invalid request body."},
		}})
		return
	}

	if violations := req.validate(); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": violations})
		return
	}

	post := &model.Post{
		Title:     req.Title,
		Content:   req.Content,
		Image:     req.Image,
		Tags:      req.Tags,
		UserID:    c.GetInt("user_id"),
		Published: *req.Published,
		Featured:  *req.Featured,
	}

	if err := h.postService.CreatePost(c.Request.Context(), post); err != nil {
		util.Logger.Error("创建文章失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// List 文章排名列表。请求头 sort 选择排序，limit 控制条数，
// allposts 仅对管理员生效，可把未发布文章纳入结果。
func (h *PostHandler) List(c *gin.Context) {
	sortKey := service.ParseSortKey(c.GetHeader("sort"))

	includeUnpublished := c.GetBool("is_admin") && c.GetHeader("allposts") == "true"

	defaultLimit := service.DefaultPublicLimit
	if includeUnpublished {
		defaultLimit = service.DefaultAdminLimit
	}
	limit, err := strconv.Atoi(c.GetHeader("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}

	posts, err := h.postService.ListPosts(includeUnpublished, sortKey, limit)
	if err != nil {
		util.Logger.Error("获取文章列表失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	// 互动计数参与排序但不属于公开列表的响应，只在管理员全量列表中返回
	if !includeUnpublished {
		for _, p := range posts {
			p.CommentsCount = 0
		}
	}

	c.JSON(http.StatusOK, posts)
}

// Detail 通过 slug 获取单篇文章。未发布的文章对非管理员返回403，
// 但响应体仍携带文章内容并标记 authorized: false（产品层面的既定行为）。
func (h *PostHandler) Detail(c *gin.Context) {
	post, err := h.postService.GetPostBySlug(c.Param("url"))
	if err != nil {
		if errors.Code(err) == errors.ErrPostNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Post not found."})
			return
		}
		util.Logger.Error("获取文章失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	if !post.Published && !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{
			"post":       post,
			"authorized": false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// Update 更新文章，仅限文章所有者
func (h *PostHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []validation.Violation{
			{Field: "id", Message: "Invalid post ID."},
		}})
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []validation.Violation{
			{Field: "body", Message: "Invalid request body."},
		}})
		return
	}

	if violations := req.validate(); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": violations})
		return
	}

	post := &model.Post{
		Title:     req.Title,
		Content:   req.Content,
		Image:     req.Image,
		Tags:      req.Tags,
		Published: *req.Published,
		Featured:  *req.Featured,
	}

	updated, err := h.postService.UpdatePost(c.Request.Context(), id, c.GetInt("user_id"), post)
	if err != nil {
		util.Logger.Error("更新文章失败", zap.Error(err), zap.Int("post_id", id))
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": updated})
}

// Delete 删除文章，仅限文章所有者
func (h *PostHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []validation.Violation{
			{Field: "id", Message: "Invalid post ID."},
		}})
		return
	}

	if err := h.postService.DeletePost(id, c.GetInt("user_id")); err != nil {
		util.Logger.Error("删除文章失败", zap.Error(err), zap.Int("post_id", id))
		errors.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
