package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"yatube/internal/cache"
	"yatube/internal/repository"
	"yatube/internal/service"
	"yatube/internal/storage"
	"yatube/pkg/jwt"
)

type Handler struct {
	feeds     service.FeedService
	posts     service.PostService
	relations service.RelationshipService
	users     repository.UserRepository
	feedCache *cache.FeedCache
	images    storage.ImageStore
	tokens    *jwt.Manager
}

func New(
	feeds service.FeedService,
	posts service.PostService,
	relations service.RelationshipService,
	users repository.UserRepository,
	feedCache *cache.FeedCache,
	images storage.ImageStore,
	tokens *jwt.Manager,
) *Handler {
	return &Handler{
		feeds:     feeds,
		posts:     posts,
		relations: relations,
		users:     users,
		feedCache: feedCache,
		images:    images,
		tokens:    tokens,
	}
}

// pageParam reads the page query parameter. Missing or non-numeric
// values mean page 1.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
