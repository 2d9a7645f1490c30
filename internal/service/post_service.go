package service

import (
	"context"
	"sort"

	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/repository/interfaces"
	"blog-backend/internal/storage"
	"blog-backend/internal/util"

	"go.uber.org/zap"
)

// SortKey 文章列表排序方式
type SortKey int

const (
	RecencyDesc SortKey = iota // 创建时间倒序（默认）
	RecencyAsc                 // 创建时间正序
	EngagementDesc             // 互动数倒序
)

// 列表默认条数：公开列表 15，管理员全量列表 12
const (
	DefaultPublicLimit = 15
	DefaultAdminLimit  = 12
)

// ParseSortKey 解析 sort 请求头。缺省按创建时间倒序，
// "createdAt" 为正序，其余非空值一律按互动数。
func ParseSortKey(header string) SortKey {
	switch header {
	case "", "-createdAt":
		return RecencyDesc
	case "createdAt":
		return RecencyAsc
	default:
		return EngagementDesc
	}
}

// PostServiceInterface 便于在处理器测试中替换为 mock
type PostServiceInterface interface {
	CreatePost(ctx context.Context, post *model.Post) error
	UpdatePost(ctx context.Context, id, callerID int, post *model.Post) (*model.Post, error)
	DeletePost(id, callerID int) error
	GetPostBySlug(slug string) (*model.Post, error)
	ListPosts(includeUnpublished bool, sortKey SortKey, limit int) ([]*model.Post, error)
}

// PostService 文章业务逻辑：排名列表、slug 维护、精选唯一性、图片转存
type PostService struct {
	contentRepo interfaces.ContentRepository
	uploader    storage.Uploader
}

// NewPostService 创建一个新的 PostService 实例
func NewPostService(contentRepo interfaces.ContentRepository, uploader storage.Uploader) *PostService {
	return &PostService{contentRepo: contentRepo, uploader: uploader}
}

// CreatePost 创建文章：派生 slug 并消除冲突、必要时转存图片、入库。
// 精选标记的清除与写入由存储层在同一事务内完成。
func (s *PostService) CreatePost(ctx context.Context, post *model.Post) error {
	slug, err := s.resolveSlug(post.Title, 0)
	if err != nil {
		return err
	}
	post.URL = slug

	if err := s.resolveImage(ctx, post); err != nil {
		return err
	}

	if err := s.contentRepo.CreatePost(post); err != nil {
		return errors.Wrap(errors.ErrDatabase, "创建文章失败", err)
	}
	return nil
}

// UpdatePost 更新文章，仅限文章所有者（其他管理员同样被拒绝）
func (s *PostService) UpdatePost(ctx context.Context, id, callerID int, post *model.Post) (*model.Post, error) {
	existing, err := s.contentRepo.GetPostByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询文章失败", err)
	}
	if existing == nil {
		return nil, errors.New(errors.ErrPostNotFound, "Post not found.")
	}
	if existing.UserID != callerID {
		return nil, errors.New(errors.ErrForbidden, "You are not authorized to edit this post.")
	}

	slug, err := s.resolveSlug(post.Title, id)
	if err != nil {
		return nil, err
	}

	post.ID = id
	post.URL = slug
	post.UserID = existing.UserID
	post.CreatedAt = existing.CreatedAt

	if err := s.resolveImage(ctx, post); err != nil {
		return nil, err
	}

	if err := s.contentRepo.UpdatePost(post); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "更新文章失败", err)
	}
	return post, nil
}

// DeletePost 删除文章，仅限文章所有者
func (s *PostService) DeletePost(id, callerID int) error {
	existing, err := s.contentRepo.GetPostByID(id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询文章失败", err)
	}
	if existing == nil {
		return errors.New(errors.ErrPostNotFound, "Post not found.")
	}
	if existing.UserID != callerID {
		return errors.New(errors.ErrForbidden, "You are not authorized to delete this post.")
	}

	if err := s.contentRepo.DeletePost(id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除文章失败", err)
	}
	return nil
}

// GetPostBySlug 通过 slug 获取文章及完整评论树
func (s *PostService) GetPostBySlug(slug string) (*model.Post, error) {
	post, err := s.contentRepo.GetPostBySlug(slug)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询文章失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "Post not found.")
	}
	return post, nil
}

// ListPosts 排名列表管线：
//  1. 聚合联查拿到可见文章与每篇的互动数（评论+回复，现算不缓存）
//  2. 按排序键排序，互动数相同按创建时间倒序，结果确定
//  3. 截断到 limit
//  4. 为存留的文章补上完整评论树
//
// 任何存储错误直接向上传播，绝不降级为空结果。
func (s *PostService) ListPosts(includeUnpublished bool, sortKey SortKey, limit int) ([]*model.Post, error) {
	posts, err := s.contentRepo.ListPostsWithCounts(includeUnpublished)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "文章聚合查询失败", err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		switch sortKey {
		case RecencyAsc:
			return posts[i].CreatedAt.Before(posts[j].CreatedAt)
		case EngagementDesc:
			if posts[i].CommentsCount != posts[j].CommentsCount {
				return posts[i].CommentsCount > posts[j].CommentsCount
			}
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		default:
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
	})

	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}

	for _, post := range posts {
		thread, err := s.contentRepo.GetCommentThread(post.ID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "查询评论树失败", err)
		}
		post.Comments = thread
	}

	if posts == nil {
		posts = []*model.Post{}
	}
	return posts, nil
}

// resolveSlug 派生 slug 并处理冲突：已被其它文章占用时追加随机后缀。
// 读后写之间存在并发窗口，重复 slug 作为已接受的异常不在此处理。
func (s *PostService) resolveSlug(title string, excludeID int) (string, error) {
	slug := util.DeriveSlug(title)
	exists, err := s.contentRepo.SlugExists(slug, excludeID)
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, "检查slug失败", err)
	}
	if exists {
		slug = slug + "-" + util.SlugToken()
		util.Logger.Info("slug冲突，已追加随机后缀", zap.String("url", slug))
	}
	return slug, nil
}

// resolveImage 图片地址未被图床托管时同步转存，
// 转存失败中止整个操作，不产生半成品文章
func (s *PostService) resolveImage(ctx context.Context, post *model.Post) error {
	if s.uploader.IsHosted(post.Image) {
		return nil
	}

	hosted, err := s.uploader.Upload(ctx, post.Image)
	if err != nil {
		util.Logger.Error("图片转存失败", zap.Error(err), zap.String("image", post.Image))
		return errors.Wrap(errors.ErrUpload, "图片转存失败", err)
	}
	post.Image = hosted
	return nil
}
