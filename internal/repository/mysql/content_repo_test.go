package mysql

import (
	"regexp"
	"testing"

	"blog-backend/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

// 期望语句按声明顺序匹配，多执行或漏执行语句都会让测试失败。

// TestCreatePostFeaturedClearsOthers 创建精选文章时，
// 同一事务内先清除其它文章的精选标记再写入
func TestCreatePostFeaturedClearsOthers(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewContentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE posts SET featured = FALSE WHERE featured = TRUE`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO posts").
		WithArgs("test title", "test-title", "test content", "https://i.imgur.com/0vSEb71.jpg", 7, true, true).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO post_tags").
		WithArgs(42, 0, "test").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	post := &model.Post{
		Title:     "test title",
		URL:       "test-title",
		Content:   "test content",
		Image:     "https://i.imgur.com/0vSEb71.jpg",
		Tags:      []string{"test"},
		UserID:    7,
		Published: true,
		Featured:  true,
	}

	assert.NoError(t, repo.CreatePost(post))
	assert.Equal(t, 42, post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCreatePostNotFeaturedSkipsClear 非精选文章不触碰其它文章的精选标记
func TestCreatePostNotFeaturedSkipsClear(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewContentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO posts").
		WithArgs("test title", "test-title", "test content", "https://i.imgur.com/0vSEb71.jpg", 7, true, false).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO post_tags").
		WithArgs(42, 0, "test").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	post := &model.Post{
		Title:     "test title",
		URL:       "test-title",
		Content:   "test content",
		Image:     "https://i.imgur.com/0vSEb71.jpg",
		Tags:      []string{"test"},
		UserID:    7,
		Published: true,
		Featured:  false,
	}

	assert.NoError(t, repo.CreatePost(post))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestUpdatePostFeaturedClearsOthers 把文章改为精选时，
// 清除语句排除文章自身，标签重写在同一事务内
func TestUpdatePostFeaturedClearsOthers(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewContentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE posts SET featured = FALSE WHERE featured = TRUE AND id != ?`)).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE posts SET title").
		WithArgs("new title", "new-title", "new content", "https://i.imgur.com/0vSEb71.jpg", true, true, 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM post_tags").
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO post_tags").
		WithArgs(42, 0, "test").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	post := &model.Post{
		ID:        42,
		Title:     "new title",
		URL:       "new-title",
		Content:   "new content",
		Image:     "https://i.imgur.com/0vSEb71.jpg",
		Tags:      []string{"test"},
		Published: true,
		Featured:  true,
	}

	assert.NoError(t, repo.UpdatePost(post))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestUpdatePostNotFeaturedSkipsClear 取消精选只更新文章自身
func TestUpdatePostNotFeaturedSkipsClear(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewContentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE posts SET title").
		WithArgs("new title", "new-title", "new content", "https://i.imgur.com/0vSEb71.jpg", true, false, 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM post_tags").
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO post_tags").
		WithArgs(42, 0, "test").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	post := &model.Post{
		ID:        42,
		Title:     "new title",
		URL:       "new-title",
		Content:   "new content",
		Image:     "https://i.imgur.com/0vSEb71.jpg",
		Tags:      []string{"test"},
		Published: true,
		Featured:  false,
	}

	assert.NoError(t, repo.UpdatePost(post))
	assert.NoError(t, mock.ExpectationsWereMet())
}
