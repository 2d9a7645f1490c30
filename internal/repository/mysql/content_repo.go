package mysql

import (
	"blog-backend/internal/model"
	"blog-backend/internal/util"
	"database/sql"

	"go.uber.org/zap"
)

// contentRepository 实现了 ContentRepository 接口
type contentRepository struct {
	db *sql.DB
}

// NewContentRepository 创建一个新的 contentRepository 实例
func NewContentRepository(db *sql.DB) *contentRepository {
	return &contentRepository{db: db}
}

// CreatePost 创建文章。featured 为 true 时在同一事务内
// 先清除其它文章的 featured 标记再写入，保证提交后最多一篇精选。
func (r *contentRepository) CreatePost(post *model.Post) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if post.Featured {
		if _, err := tx.Exec(`UPDATE posts SET featured = FALSE WHERE featured = TRUE`); err != nil {
			util.Logger.Error("清除精选标记失败", zap.Error(err))
			return err
		}
	}

	query := `INSERT INTO posts (title, url, content, image, user_id, published, featured, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`
	result, err := tx.Exec(query, post.Title, post.URL, post.Content, post.Image, post.UserID, post.Published, post.Featured)
	if err != nil {
		util.Logger.Error("创建文章失败", zap.Error(err))
		return err
	}

	postID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = int(postID)

	if err := insertTags(tx, post.ID, post.Tags); err != nil {
		util.Logger.Error("插入文章标签失败", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return err
	}

	util.Logger.Info("文章创建成功", zap.Int("post_id", post.ID), zap.String("url", post.URL))
	return nil
}

// UpdatePost 更新文章，featured 清除与标签重写都在同一事务内完成
func (r *contentRepository) UpdatePost(post *model.Post) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if post.Featured {
		if _, err := tx.Exec(`UPDATE posts SET featured = FALSE WHERE featured = TRUE AND id != ?`, post.ID); err != nil {
			util.Logger.Error("清除精选标记失败", zap.Error(err))
			return err
		}
	}

	query := `UPDATE posts SET title = ?, url = ?, content = ?, image = ?, published = ?, featured = ?, updated_at = NOW()
              WHERE id = ?`
	if _, err := tx.Exec(query, post.Title, post.URL, post.Content, post.Image, post.Published, post.Featured, post.ID); err != nil {
		util.Logger.Error("更新文章失败", zap.Error(err), zap.Int("post_id", post.ID))
		return err
	}

	if _, err := tx.Exec(`DELETE FROM post_tags WHERE post_id = ?`, post.ID); err != nil {
		return err
	}
	if err := insertTags(tx, post.ID, post.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

func insertTags(tx *sql.Tx, postID int, tags []string) error {
	for i, tag := range tags {
		if _, err := tx.Exec(`INSERT INTO post_tags (post_id, position, tag) VALUES (?, ?, ?)`, postID, i, tag); err != nil {
			return err
		}
	}
	return nil
}

// GetPostByID 获取文章基本信息（含标签，不含评论树），未找到返回 (nil, nil)
func (r *contentRepository) GetPostByID(id int) (*model.Post, error) {
	query := `SELECT id, title, url, content, image, user_id, published, featured, created_at, updated_at
              FROM posts WHERE id = ?`
	post, err := r.scanPost(r.db.QueryRow(query, id))
	if err != nil || post == nil {
		return nil, err
	}
	if post.Tags, err = r.tagsForPost(post.ID); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPostBySlug 通过 slug 获取文章，联查作者公开字段与完整评论树
func (r *contentRepository) GetPostBySlug(slug string) (*model.Post, error) {
	query := `SELECT p.id, p.title, p.url, p.content, p.image, p.user_id, p.published, p.featured, p.created_at, p.updated_at,
                     u.first_name, u.last_name
              FROM posts p
              JOIN users u ON u.id = p.user_id
              WHERE p.url = ?`

	var post model.Post
	var user model.PublicUser
	err := r.db.QueryRow(query, slug).Scan(
		&post.ID, &post.Title, &post.URL, &post.Content, &post.Image, &post.UserID,
		&post.Published, &post.Featured, &post.CreatedAt, &post.UpdatedAt,
		&user.FirstName, &user.LastName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		util.Logger.Error("查询文章失败", zap.Error(err), zap.String("url", slug))
		return nil, err
	}
	user.ID = post.UserID
	post.User = &user

	if post.Tags, err = r.tagsForPost(post.ID); err != nil {
		return nil, err
	}
	if post.Comments, err = r.GetCommentThread(post.ID); err != nil {
		return nil, err
	}
	return &post, nil
}

// SlugExists 判断 slug 是否已被其它文章占用
func (r *contentRepository) SlugExists(slug string, excludeID int) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE url = ? AND id != ?`, slug, excludeID).Scan(&count)
	if err != nil {
		util.Logger.Error("检查slug失败", zap.Error(err), zap.String("url", slug))
		return false, err
	}
	return count > 0, nil
}

// DeletePost 删除文章，评论、回复、标签由外键级联删除
func (r *contentRepository) DeletePost(id int) error {
	_, err := r.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("删除文章失败", zap.Error(err), zap.Int("post_id", id))
		return err
	}
	util.Logger.Info("文章删除成功", zap.Int("post_id", id))
	return nil
}

// ListPostsWithCounts 排名引擎的聚合联查：文章 + 作者公开字段 + 互动计数。
// 互动计数 = 评论数 + 这些评论的回复数，每次查询现算。
func (r *contentRepository) ListPostsWithCounts(includeUnpublished bool) ([]*model.Post, error) {
	query := `SELECT p.id, p.title, p.url, p.content, p.image, p.user_id, p.published, p.featured, p.created_at, p.updated_at,
                     u.first_name, u.last_name,
                     COUNT(DISTINCT c.id) + COUNT(DISTINCT rp.id) AS engagement
              FROM posts p
              JOIN users u ON u.id = p.user_id
              LEFT JOIN comments c ON c.post_id = p.id
              LEFT JOIN replies rp ON rp.comment_id = c.id
              WHERE p.published = TRUE OR ?
              GROUP BY p.id, p.title, p.url, p.content, p.image, p.user_id, p.published, p.featured,
                       p.created_at, p.updated_at, u.first_name, u.last_name`

	rows, err := r.db.Query(query, includeUnpublished)
	if err != nil {
		util.Logger.Error("文章聚合查询失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		var post model.Post
		var user model.PublicUser
		err := rows.Scan(
			&post.ID, &post.Title, &post.URL, &post.Content, &post.Image, &post.UserID,
			&post.Published, &post.Featured, &post.CreatedAt, &post.UpdatedAt,
			&user.FirstName, &user.LastName, &post.CommentsCount,
		)
		if err != nil {
			return nil, err
		}
		user.ID = post.UserID
		post.User = &user
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, post := range posts {
		if post.Tags, err = r.tagsForPost(post.ID); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (r *contentRepository) tagsForPost(postID int) ([]string, error) {
	rows, err := r.db.Query(`SELECT tag FROM post_tags WHERE post_id = ? ORDER BY position ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *contentRepository) scanPost(row *sql.Row) (*model.Post, error) {
	var post model.Post
	err := row.Scan(
		&post.ID, &post.Title, &post.URL, &post.Content, &post.Image, &post.UserID,
		&post.Published, &post.Featured, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// CreateComment 创建评论
func (r *contentRepository) CreateComment(comment *model.Comment) error {
	query := `INSERT INTO comments (post_id, user_id, content, created_at) VALUES (?, ?, ?, NOW())`
	result, err := r.db.Exec(query, comment.PostID, comment.UserID, comment.Content)
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = int(id)
	return nil
}

// GetCommentByID 获取单条评论，未找到返回 (nil, nil)
func (r *contentRepository) GetCommentByID(id int) (*model.Comment, error) {
	query := `SELECT id, post_id, user_id, content, created_at FROM comments WHERE id = ?`
	var comment model.Comment
	err := r.db.QueryRow(query, id).Scan(
		&comment.ID, &comment.PostID, &comment.UserID, &comment.Content, &comment.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		util.Logger.Error("查询评论失败", zap.Error(err), zap.Int("comment_id", id))
		return nil, err
	}
	return &comment, nil
}

// DeleteComment 删除评论，回复由外键级联删除
func (r *contentRepository) DeleteComment(id int) error {
	_, err := r.db.Exec(`DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("删除评论失败", zap.Error(err), zap.Int("comment_id", id))
	}
	return err
}

// GetCommentThread 组装一篇文章的完整评论树：
// 评论按时间升序，回复挂在所属评论下，用户只带公开字段
func (r *contentRepository) GetCommentThread(postID int) ([]*model.Comment, error) {
	query := `SELECT c.id, c.post_id, c.user_id, c.content, c.created_at, u.first_name, u.last_name
              FROM comments c
              JOIN users u ON u.id = c.user_id
              WHERE c.post_id = ?
              ORDER BY c.created_at ASC, c.id ASC`

	rows, err := r.db.Query(query, postID)
	if err != nil {
		util.Logger.Error("查询评论树失败", zap.Error(err), zap.Int("post_id", postID))
		return nil, err
	}
	defer rows.Close()

	comments := []*model.Comment{}
	byID := make(map[int]*model.Comment)
	for rows.Next() {
		var comment model.Comment
		var user model.PublicUser
		err := rows.Scan(&comment.ID, &comment.PostID, &comment.UserID, &comment.Content, &comment.CreatedAt,
			&user.FirstName, &user.LastName)
		if err != nil {
			return nil, err
		}
		user.ID = comment.UserID
		comment.User = &user
		comment.Replies = []*model.Reply{}
		comments = append(comments, &comment)
		byID[comment.ID] = &comment
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	replyQuery := `SELECT r.id, r.comment_id, r.user_id, r.original_user_id, r.content, r.created_at,
                          u.first_name, u.last_name, ou.first_name, ou.last_name
                   FROM replies r
                   JOIN comments c ON c.id = r.comment_id
                   JOIN users u ON u.id = r.user_id
                   JOIN users ou ON ou.id = r.original_user_id
                   WHERE c.post_id = ?
                   ORDER BY r.created_at ASC, r.id ASC`

	replyRows, err := r.db.Query(replyQuery, postID)
	if err != nil {
		util.Logger.Error("查询回复失败", zap.Error(err), zap.Int("post_id", postID))
		return nil, err
	}
	defer replyRows.Close()

	for replyRows.Next() {
		reply, err := scanReply(replyRows)
		if err != nil {
			return nil, err
		}
		if parent, ok := byID[reply.CommentID]; ok {
			parent.Replies = append(parent.Replies, reply)
		}
	}
	return comments, replyRows.Err()
}

// CreateReply 创建回复
func (r *contentRepository) CreateReply(reply *model.Reply) error {
	query := `INSERT INTO replies (comment_id, user_id, original_user_id, content, created_at) VALUES (?, ?, ?, ?, NOW())`
	result, err := r.db.Exec(query, reply.CommentID, reply.UserID, reply.OriginalUserID, reply.Content)
	if err != nil {
		util.Logger.Error("创建回复失败", zap.Error(err))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	reply.ID = int(id)
	return nil
}

// GetReplyByID 获取单条回复，未找到返回 (nil, nil)
func (r *contentRepository) GetReplyByID(id int) (*model.Reply, error) {
	query := `SELECT id, comment_id, user_id, original_user_id, content, created_at FROM replies WHERE id = ?`
	var reply model.Reply
	err := r.db.QueryRow(query, id).Scan(
		&reply.ID, &reply.CommentID, &reply.UserID, &reply.OriginalUserID, &reply.Content, &reply.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		util.Logger.Error("查询回复失败", zap.Error(err), zap.Int("reply_id", id))
		return nil, err
	}
	return &reply, nil
}

// DeleteReply 删除回复
func (r *contentRepository) DeleteReply(id int) error {
	_, err := r.db.Exec(`DELETE FROM replies WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("删除回复失败", zap.Error(err), zap.Int("reply_id", id))
	}
	return err
}

// ListRepliesByComment 获取某条评论的回复列表
func (r *contentRepository) ListRepliesByComment(commentID, limit int) ([]*model.Reply, error) {
	query := `SELECT r.id, r.comment_id, r.user_id, r.original_user_id, r.content, r.created_at,
                     u.first_name, u.last_name, ou.first_name, ou.last_name
              FROM replies r
              JOIN users u ON u.id = r.user_id
              JOIN users ou ON ou.id = r.original_user_id
              WHERE r.comment_id = ?
              ORDER BY r.created_at ASC, r.id ASC
              LIMIT ?`

	rows, err := r.db.Query(query, commentID, limit)
	if err != nil {
		util.Logger.Error("查询回复列表失败", zap.Error(err), zap.Int("comment_id", commentID))
		return nil, err
	}
	defer rows.Close()

	var replies []*model.Reply
	for rows.Next() {
		reply, err := scanReply(rows)
		if err != nil {
			return nil, err
		}
		replies = append(replies, reply)
	}
	return replies, rows.Err()
}

func scanReply(rows *sql.Rows) (*model.Reply, error) {
	var reply model.Reply
	var user, originalUser model.PublicUser
	err := rows.Scan(&reply.ID, &reply.CommentID, &reply.UserID, &reply.OriginalUserID,
		&reply.Content, &reply.CreatedAt,
		&user.FirstName, &user.LastName, &originalUser.FirstName, &originalUser.LastName)
	if err != nil {
		return nil, err
	}
	user.ID = reply.UserID
	originalUser.ID = reply.OriginalUserID
	reply.User = &user
	reply.OriginalUser = &originalUser
	return &reply, nil
}
