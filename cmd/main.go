package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-backend/config"
	"blog-backend/internal/api/comment"
	"blog-backend/internal/api/post"
	"blog-backend/internal/api/user"
	"blog-backend/internal/middleware"
	"blog-backend/internal/repository/mysql"
	"blog-backend/internal/service"
	"blog-backend/internal/storage"
	"blog-backend/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	// 测试数据库连接
	if err := db.Ping(); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 初始化图片上传网关
	uploader, err := newUploader()
	if err != nil {
		util.Logger.Fatal("初始化图片上传网关失败", zap.Error(err))
	}

	// 初始化存储库、服务和处理器
	userRepo := mysql.NewUserRepository(db)
	contentRepo := mysql.NewContentRepository(db)

	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(contentRepo, uploader)
	commentService := service.NewCommentService(contentRepo)

	authHandler := user.NewAuthHandler(userService)
	postHandler := post.NewPostHandler(postService)
	commentHandler := comment.NewCommentHandler(commentService)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	// 设置 Gin 路由
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
		"sort",
		"limit",
		"allposts",
	}
	r.Use(cors.New(corsConfig))

	// 用户相关路由
	r.POST("/users", authHandler.Register)
	r.POST("/users/login", authHandler.Login)
	r.GET("/user", middleware.AuthOptional(userService), authHandler.CurrentUser)

	// 文章相关路由。GET 路由树内 /posts 下统一使用 :url 作为参数名
	r.GET("/posts", middleware.AuthOptional(userService), postHandler.List)
	r.GET("/posts/:url", middleware.AuthOptional(userService), postHandler.Detail)
	r.POST("/posts", middleware.AuthRequired(userService), middleware.AdminRequired(), postHandler.Create)
	r.PUT("/posts/:id", middleware.AuthRequired(userService), middleware.AdminRequired(), postHandler.Update)
	r.DELETE("/posts/:id", middleware.AuthRequired(userService), middleware.AdminRequired(), postHandler.Delete)

	// 评论相关路由
	r.POST("/posts/:id/comments", middleware.AuthRequired(userService), commentHandler.Create)
	r.GET("/posts/:url/comments", commentHandler.List)
	r.DELETE("/comments/:commentId", middleware.AuthRequired(userService), commentHandler.Delete)

	// 回复相关路由
	r.POST("/comments/:commentId/replies", middleware.AuthRequired(userService), commentHandler.CreateReply)
	r.GET("/comments/:commentId/replies", commentHandler.ListReplies)
	r.DELETE("/comments/:commentId/replies/:replyId", middleware.AuthRequired(userService), commentHandler.DeleteReply)

	// 创建一个带有超时的 http.Server
	srv := &http.Server{
		Addr:    ":" + config.AppConfig.Port,
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动", zap.String("port", config.AppConfig.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("本次运行的错误统计", zap.Any("error_counts", errorMonitor.GetErrorCounts()))
	util.Logger.Info("服务器已优雅关闭")
}

// newUploader 根据配置选择图片上传后端
func newUploader() (storage.Uploader, error) {
	switch config.AppConfig.ImageBackend {
	case "s3":
		return storage.NewS3Client(config.AppConfig.S3Region, config.AppConfig.S3Bucket)
	case "gcs":
		return storage.NewGCSClient(config.AppConfig.GCSProjectID, config.AppConfig.GCSBucketName, config.AppConfig.GCSCredentialsFile)
	default:
		return storage.NewImgurClient(config.AppConfig.ImgurClientID, config.AppConfig.ImgurAPIURL), nil
	}
}
