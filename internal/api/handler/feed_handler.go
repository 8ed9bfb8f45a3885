package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"yatube/internal/api/middleware"
	"yatube/internal/service"
	"yatube/pkg/response"
)

const jsonContentType = "application/json; charset=utf-8"

// Index serves the global feed. Pages are rendered once and then served
// from the cache for its TTL, byte for byte, even if posts change
// underneath.
// @Summary Global feed
// @Tags feeds
// @Param page query int false "Page number" default(1)
// @Success 200 {object} response.Response
// @Router / [get]
func (h *Handler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	page := pageParam(c)

	if body, ok := h.feedCache.Get(ctx, page); ok {
		c.Data(http.StatusOK, jsonContentType, body)
		return
	}

	feed, err := h.feeds.Index(ctx, page)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	body, err := json.Marshal(response.Response{Message: "ok", Data: feed})
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.feedCache.Set(ctx, page, body)
	c.Data(http.StatusOK, jsonContentType, body)
}

// GroupFeed serves posts of one group, looked up by slug.
// @Summary Group feed
// @Tags feeds
// @Param slug path string true "Group slug"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /group/{slug}/ [get]
func (h *Handler) GroupFeed(c *gin.Context) {
	group, feed, err := h.feeds.Group(c.Request.Context(), c.Param("slug"), pageParam(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "group not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"group": group, "feed": feed})
}

// Profile serves an author's page with their posts and follow status.
// @Summary Author profile feed
// @Tags feeds
// @Param username path string true "Author username"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /profile/{username}/ [get]
func (h *Handler) Profile(c *gin.Context) {
	view, err := h.feeds.Profile(c.Request.Context(), c.Param("username"), pageParam(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "profile not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, view)
}

// FollowFeed serves posts from the authors the actor follows.
// @Summary Followed authors feed
// @Tags feeds
// @Param page query int false "Page number" default(1)
// @Success 200 {object} response.Response
// @Router /follow/ [get]
func (h *Handler) FollowFeed(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	feed, err := h.feeds.Followed(c.Request.Context(), userID, pageParam(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, feed)
}

// ClearFeedCache drops every cached feed page.
// @Summary Invalidate the feed cache
// @Tags feeds
// @Success 200 {object} response.Response
// @Router /cache/clear/ [post]
func (h *Handler) ClearFeedCache(c *gin.Context) {
	if err := h.feedCache.Clear(c.Request.Context()); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
