package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"yatube/internal/api/middleware"
	"yatube/pkg/response"
)

func redirectToProfile(c *gin.Context, username string) {
	c.Redirect(http.StatusFound, "/profile/"+username+"/")
}

// Follow subscribes the acting user to an author's posts. Following
// yourself or someone you already follow changes nothing; both still
// redirect to the profile.
// @Summary Follow an author
// @Tags follows
// @Param username path string true "Author username"
// @Success 302
// @Failure 404 {object} response.Response
// @Router /profile/{username}/follow/ [get]
func (h *Handler) Follow(c *gin.Context) {
	username := c.Param("username")
	author, err := h.users.GetByUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "profile not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	userID := c.GetString(middleware.ContextUserID)
	if err := h.relations.Follow(c.Request.Context(), userID, author.ID); err != nil {
		response.InternalError(c, err)
		return
	}
	redirectToProfile(c, username)
}

// Unfollow removes the subscription. Unfollowing someone you never
// followed is fine.
// @Summary Unfollow an author
// @Tags follows
// @Param username path string true "Author username"
// @Success 302
// @Failure 404 {object} response.Response
// @Router /profile/{username}/unfollow/ [get]
func (h *Handler) Unfollow(c *gin.Context) {
	username := c.Param("username")
	author, err := h.users.GetByUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "profile not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	userID := c.GetString(middleware.ContextUserID)
	if err := h.relations.Unfollow(c.Request.Context(), userID, author.ID); err != nil {
		response.InternalError(c, err)
		return
	}
	redirectToProfile(c, username)
}
