package main

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"yatube/config"
	"yatube/internal/api"
	"yatube/internal/api/handler"
	"yatube/internal/cache"
	"yatube/internal/repository"
	"yatube/internal/service"
	"yatube/internal/storage"
	"yatube/pkg/database"
	"yatube/pkg/jwt"
	"yatube/pkg/logger"
	"yatube/pkg/tracing"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			logger.Fatal("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	if cfg.Trace.Enabled {
		shutdown, err := tracing.Init(ctx, cfg.Trace.Endpoint, "yatube")
		if err != nil {
			logger.Fatal("tracing init failed", zap.Error(err))
		}
		defer shutdown(ctx)
	}

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis ping failed", zap.Error(err))
	}

	var images storage.ImageStore
	if cfg.MinIO.Endpoint != "" {
		images, err = storage.NewMinIOStore(cfg.MinIO)
		if err != nil {
			logger.Fatal("minio init failed", zap.Error(err))
		}
	} else {
		logger.Warn("minio endpoint not set, storing images in memory")
		images = storage.NewMemoryStore()
	}

	users := repository.NewUserRepository(db)
	groups := repository.NewGroupRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	follows := repository.NewFollowRepository(db)

	feeds := service.NewFeedService(posts, groups, users, follows)
	postSvc := service.NewPostService(posts, groups, comments)
	relations := service.NewRelationshipService(follows)

	tokens := jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	feedCache := cache.NewFeedCache(rdb, cache.FeedTTL)

	h := handler.New(feeds, postSvc, relations, users, feedCache, images, tokens)
	r := api.NewRouter(h, tokens)

	logger.Info("server starting", zap.String("addr", cfg.Server.Addr))
	if err := r.Run(cfg.Server.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
