// Package main runs the farm education HTTP server with WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/farmwise/backend/config"
	"github.com/farmwise/backend/internal/auth"
	"github.com/farmwise/backend/internal/catalog"
	"github.com/farmwise/backend/internal/chat"
	"github.com/farmwise/backend/internal/likes"
	"github.com/farmwise/backend/internal/media"
	"github.com/farmwise/backend/internal/middleware"
	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/internal/progress"
	"github.com/farmwise/backend/internal/qna"
	"github.com/farmwise/backend/internal/quizzes"
	"github.com/farmwise/backend/internal/realtime"
	"github.com/farmwise/backend/internal/stats"
	"github.com/farmwise/backend/internal/stock"
	"github.com/farmwise/backend/internal/videos"
	"github.com/farmwise/backend/pkg/database"
	"github.com/farmwise/backend/pkg/queue"
	"github.com/farmwise/backend/pkg/redis"
	"github.com/farmwise/backend/pkg/response"
	"github.com/farmwise/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), database.PoolOptions{
		MaxConns:        int32(cfg.Database.MaxConns),
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			logger.Fatal("migrate", zap.Error(err))
		}
	}

	// Redis is optional: without it realtime stays local and media cleanup is skipped.
	var (
		hubPub   realtime.RedisPublisher
		hubSub   realtime.RedisSubscriber
		jobQueue media.Enqueuer
	)
	rdb, err := redis.NewClient(ctx, redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}, logger)
	if err != nil {
		logger.Warn("redis unavailable, running single-instance", zap.Error(err))
	} else {
		defer rdb.Close()
		ps := realtime.NewRedisPubSub(rdb.Client, logger)
		hubPub, hubSub = ps, ps
		jobQueue = queue.NewQueue(rdb.Client, logger)
	}

	var (
		bucket media.Bucket
		keys   media.KeyResolver
	)
	if cfg.AWS.Region != "" {
		s3Client, err := storage.NewS3(ctx, storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			MediaBucket:          cfg.AWS.MediaBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}, logger)
		if err != nil {
			logger.Warn("s3 unavailable, media uploads disabled", zap.Error(err))
		} else {
			bucket, keys = s3Client, s3Client
		}
	}
	cleaner := media.NewCleaner(keys, jobQueue, logger)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	hub := realtime.NewHub(logger, hubPub, hubSub)

	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	videoRepo := videos.NewRepository(pool)
	videoHandler := videos.NewHandler(videoRepo, logger)

	quizRepo := quizzes.NewRepository(pool)
	quizHandler := quizzes.NewHandler(quizRepo, logger)

	animalRepo, err := catalog.NewRepository(pool, models.KindAnimal)
	if err != nil {
		logger.Fatal("animals", zap.Error(err))
	}
	cropRepo, err := catalog.NewRepository(pool, models.KindCrop)
	if err != nil {
		logger.Fatal("crops", zap.Error(err))
	}
	animalHandler := catalog.NewHandler(models.KindAnimal, animalRepo, quizRepo, cleaner, logger)
	cropHandler := catalog.NewHandler(models.KindCrop, cropRepo, quizRepo, cleaner, logger)

	qnaRepo := qna.NewRepository(pool)
	likeService, err := likes.NewService(likes.NewRepository(pool), map[models.ContentType]likes.Resolver{
		models.ContentQuestion: qnaRepo.VideoIDForQuestion,
		models.ContentReply:    qnaRepo.VideoIDForReply,
	}, hub, logger)
	if err != nil {
		logger.Fatal("likes", zap.Error(err))
	}
	likeHandler := likes.NewHandler(likeService, logger)
	qnaHandler := qna.NewHandler(qnaRepo, videoRepo, likeService, hub, logger)

	progressHandler := progress.NewHandler(progress.NewService(progress.NewRepository(pool), quizRepo), logger)
	chatHandler := chat.NewHandler(chat.NewService(chat.NewRepository(pool)), logger)
	stockHandler := stock.NewHandler(stock.NewRepository(pool), logger)
	statsHandler := stats.NewHandler(stats.NewRepository(pool), logger)
	mediaHandler := media.NewHandler(bucket, logger)

	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, cfg.RateLimit.TTL)
	limiterDone := make(chan struct{})
	go limiter.RunSweeper(limiterDone)
	defer close(limiterDone)
	limited := middleware.RateLimit(limiter)
	admin := middleware.RequireRole(models.RoleAdmin)

	origins := config.SplitOrigins(cfg.Server.CORSAllowedOrigins)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(origins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, logger, jwtService, origins))

	// Public
	public := router.Group("/api")
	{
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/login", authHandler.Login)

		public.GET("/videos", videoHandler.List)
		public.GET("/videos/category/:category", videoHandler.ListByCategory)
		public.GET("/videos/search", videoHandler.Search)
		public.GET("/videos/:id", videoHandler.GetByID)

		public.GET("/additional-videos", videoHandler.ListAdditional)
		public.GET("/additional-videos/video/:videoId", videoHandler.ListAdditionalByVideo)
		public.GET("/additional-videos/:id", videoHandler.GetAdditional)

		public.GET("/quizzes", quizHandler.List)
		public.GET("/quizzes/:id", quizHandler.GetByID)
		public.GET("/quizzes/:id/questions", quizHandler.ListQuestions)

		for prefix, h := range map[string]*catalog.Handler{"/animals": animalHandler, "/crops": cropHandler} {
			public.GET(prefix, h.List)
			public.GET(prefix+"/category/:category", h.ListByCategory)
			public.GET(prefix+"/search", h.Search)
			public.GET(prefix+"/:id", h.GetByID)
		}

		public.GET("/likes/count/:contentType/:contentId", likeHandler.Count)
		public.GET("/likes/:contentType/:contentId", likeHandler.List)
	}

	// Protected API (JWT required)
	api := router.Group("/api")
	api.Use(middleware.JWT(jwtService))
	{
		api.GET("/users", admin, authHandler.List)
		api.GET("/stats", admin, statsHandler.Get)

		api.POST("/videos", admin, videoHandler.Create)
		api.PUT("/videos/:id", admin, videoHandler.Update)
		api.DELETE("/videos/:id", admin, videoHandler.Delete)

		api.POST("/additional-videos", admin, videoHandler.CreateAdditional)
		api.PUT("/additional-videos/:id", admin, videoHandler.UpdateAdditional)
		api.DELETE("/additional-videos/:id", admin, videoHandler.DeleteAdditional)

		api.POST("/quizzes", admin, quizHandler.Create)
		api.PUT("/quizzes/:id", admin, quizHandler.Update)
		api.DELETE("/quizzes/:id", admin, quizHandler.Delete)
		api.POST("/quizzes/:id/questions", admin, quizHandler.CreateQuestion)
		api.DELETE("/quizzes/:id/questions/:questionId", admin, quizHandler.DeleteQuestion)

		for prefix, h := range map[string]*catalog.Handler{"/animals": animalHandler, "/crops": cropHandler} {
			api.POST(prefix, admin, h.Create)
			api.PUT(prefix+"/:id", admin, h.Update)
			api.DELETE(prefix+"/:id", admin, h.Delete)
		}

		// QnA and replies
		api.GET("/qna", qnaHandler.ListQuestions)
		api.GET("/qna/video/:videoId", qnaHandler.ListQuestionsByVideo)
		api.GET("/qna/:id", qnaHandler.GetQuestion)
		api.POST("/qna", qnaHandler.CreateQuestion)
		api.PUT("/qna/:id", qnaHandler.UpdateQuestion)
		api.DELETE("/qna/:id", qnaHandler.DeleteQuestion)
		api.POST("/qna/:id/like", limited, qnaHandler.LikeQuestion)

		api.GET("/replies", qnaHandler.ListReplies)
		api.GET("/replies/qna/:qnaId", qnaHandler.ListRepliesByQuestion)
		api.GET("/replies/:id", qnaHandler.GetReply)
		api.POST("/replies", qnaHandler.CreateReply)
		api.PUT("/replies/:id", qnaHandler.UpdateReply)
		api.DELETE("/replies/:id", qnaHandler.DeleteReply)
		api.POST("/replies/:id/like", limited, qnaHandler.LikeReply)

		// Likes
		api.POST("/likes", limited, likeHandler.Add)
		api.DELETE("/likes", limited, likeHandler.Remove)
		api.POST("/likes/toggle-like", limited, likeHandler.Toggle)
		api.GET("/likes/check/:userId/:contentType/:contentId", likeHandler.Check)

		// Progress
		api.POST("/progress", progressHandler.Submit)
		api.GET("/progress/user/:userId", progressHandler.ListByUser)
		api.GET("/progress/user/:userId/completed-count", progressHandler.CompletedCount)

		// Chat
		api.POST("/chat", limited, chatHandler.Create)
		api.GET("/chat/latest/:userId", chatHandler.Latest)
		api.DELETE("/chat/clear/:userId", chatHandler.Clear)
		api.DELETE("/chat/:id", chatHandler.Delete)

		// Stock
		api.GET("/stock/user/:userId", stockHandler.ListByUser)
		api.GET("/stock/:id", stockHandler.GetByID)
		api.POST("/stock", stockHandler.Create)
		api.PUT("/stock/:id", stockHandler.Update)
		api.DELETE("/stock/:id", stockHandler.Delete)

		// Media (S3-backed; icons are admin-only, author images any user)
		api.POST("/media/upload-url", mediaHandler.UploadURL)
		api.POST("/media/upload", mediaHandler.Upload)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
