package comment

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCommentService 是 CommentServiceInterface 的模拟实现
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) CreateComment(postID, userID int, content string) (*model.Comment, error) {
	args := m.Called(postID, userID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentService) ListComments(postID int) ([]*model.Comment, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *MockCommentService) DeleteComment(id, callerID int) error {
	args := m.Called(id, callerID)
	return args.Error(0)
}

func (m *MockCommentService) CreateReply(commentID, userID, originalUserID int, content string) (*model.Reply, error) {
	args := m.Called(commentID, userID, originalUserID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reply), args.Error(1)
}

func (m *MockCommentService) ListReplies(commentID int) ([]*model.Reply, error) {
	args := m.Called(commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Reply), args.Error(1)
}

func (m *MockCommentService) DeleteReply(commentID, replyID, callerID int) error {
	args := m.Called(commentID, replyID, callerID)
	return args.Error(0)
}

// 确保 MockCommentService 实现了 CommentServiceInterface
var _ service.CommentServiceInterface = (*MockCommentService)(nil)

// setCaller 在路由层注入已认证的调用者身份
func setCaller(userID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

// TestCreateComment 测试评论创建处理器
func TestCreateComment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockCommentService)
	handler := NewCommentHandler(mockService)

	router := gin.New()
	router.POST("/posts/:id/comments", setCaller(7), handler.Create)

	mockService.On("CreateComment", 1, 7, "test content").
		Return(&model.Comment{ID: 3, PostID: 1, UserID: 7, Content: "test content"}, nil)

	body := []byte(`{"content": "test content"}`)
	req, _ := http.NewRequest("POST", "/posts/1/comments", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response, "comment")
	mockService.AssertExpectations(t)

	// 内容过短返回400，服务不被调用
	body = []byte(`{"content": "abc"}`)
	req, _ = http.NewRequest("POST", "/posts/1/comments", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Comment must include at least 5 characters.")

	// 文章不存在返回404
	mockService.On("CreateComment", 99, 7, "test content").
		Return(nil, errors.New(errors.ErrPostNotFound, "Post not found."))

	body = []byte(`{"content": "test content"}`)
	req, _ = http.NewRequest("POST", "/posts/99/comments", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestListComments 测试评论列表处理器
func TestListComments(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockCommentService)
	handler := NewCommentHandler(mockService)

	router := gin.New()
	router.GET("/posts/:url/comments", handler.List)

	mockService.On("ListComments", 1).Return([]*model.Comment{
		{ID: 3, PostID: 1, Content: "test content", Replies: []*model.Reply{{ID: 5, CommentID: 3}}},
	}, nil)

	req, _ := http.NewRequest("GET", "/posts/1/comments", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Comments []*model.Comment `json:"comments"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Comments, 1)
	assert.Len(t, response.Comments[0].Replies, 1)
}

// TestDeleteComment 作者删除成功，非作者返回403
func TestDeleteComment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockCommentService)
	handler := NewCommentHandler(mockService)

	router := gin.New()
	router.DELETE("/comments/:commentId", setCaller(7), handler.Delete)

	mockService.On("DeleteComment", 3, 7).Return(nil)

	req, _ := http.NewRequest("DELETE", "/comments/3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Comment deleted.")

	mockService.On("DeleteComment", 4, 7).
		Return(errors.New(errors.ErrForbidden, "You are not authorized to delete this comment."))

	req, _ = http.NewRequest("DELETE", "/comments/4", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// TestCreateReply 回复创建携带被回复用户
func TestCreateReply(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockCommentService)
	handler := NewCommentHandler(mockService)

	router := gin.New()
	router.POST("/comments/:commentId/replies", setCaller(7), handler.CreateReply)

	mockService.On("CreateReply", 3, 7, 5, "test content").
		Return(&model.Reply{ID: 9, CommentID: 3, UserID: 7, OriginalUserID: 5}, nil)

	body := []byte(`{"content": "test content", "originalUser": 5}`)
	req, _ := http.NewRequest("POST", "/comments/3/replies", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response, "reply")

	// 内容超长返回400
	long := strings.Repeat("a", 241)
	body, _ = json.Marshal(gin.H{"content": long, "originalUser": 5})
	req, _ = http.NewRequest("POST", "/comments/3/replies", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Reply must not include over 240 characters.")
}

// TestListReplies 空回复列表返回404
func TestListReplies(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockCommentService)
	handler := NewCommentHandler(mockService)

	router := gin.New()
	router.GET("/comments/:commentId/replies", handler.ListReplies)

	mockService.On("ListReplies", 3).Return([]*model.Reply{{ID: 9, CommentID: 3}}, nil)
	mockService.On("ListReplies", 4).Return([]*model.Reply{}, nil)

	req, _ := http.NewRequest("GET", "/comments/3/replies", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "replies")

	req, _ = http.NewRequest("GET", "/comments/4/replies", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No replies found.")
}

// TestDeleteReply 回复不挂在指定评论下时按不存在处理
func TestDeleteReply(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockCommentService)
	handler := NewCommentHandler(mockService)

	router := gin.New()
	router.DELETE("/comments/:commentId/replies/:replyId", setCaller(7), handler.DeleteReply)

	mockService.On("DeleteReply", 3, 9, 7).Return(nil)

	req, _ := http.NewRequest("DELETE", "/comments/3/replies/9", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Reply deleted.")

	mockService.On("DeleteReply", 4, 9, 7).
		Return(errors.New(errors.ErrReplyNotFound, "Reply not found."))

	req, _ = http.NewRequest("DELETE", "/comments/4/replies/9", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
