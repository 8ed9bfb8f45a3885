package handler

import (
	"errors"
	"io"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"yatube/internal/api/middleware"
	"yatube/internal/service"
	"yatube/pkg/response"
)

type postForm struct {
	Text  string `form:"text" json:"text"`
	Group string `form:"group" json:"group" binding:"omitempty,slug"`
}

func redirectToDetail(c *gin.Context, postID string) {
	c.Redirect(http.StatusFound, "/posts/"+postID+"/")
}

// storeImage uploads the optional multipart image field and returns the
// stored key. No attachment is not an error.
func (h *Handler) storeImage(c *gin.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	key := "posts/" + uuid.New().String() + path.Ext(file.Filename)
	return h.images.Upload(c.Request.Context(), key, data, file.Header.Get("Content-Type"))
}

// PostDetail serves one post with its comments and counts.
// @Summary Post detail
// @Tags posts
// @Param id path string true "Post id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /posts/{id}/ [get]
func (h *Handler) PostDetail(c *gin.Context) {
	detail, err := h.posts.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, detail)
}

// CreateForm returns the empty post form.
// @Summary Post creation form
// @Tags posts
// @Success 200 {object} response.Response
// @Router /create/ [get]
func (h *Handler) CreateForm(c *gin.Context) {
	response.Success(c, gin.H{
		"form":    gin.H{"text": "", "group": ""},
		"is_edit": false,
	})
}

// CreatePost creates a post for the acting user. The author field is
// never taken from the request.
// @Summary Create post
// @Tags posts
// @Accept mpfd
// @Success 302
// @Failure 400 {object} response.Response
// @Router /create/ [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		response.ValidationFailed(c, gin.H{"group": "Enter a valid slug."}, gin.H{"text": form.Text, "group": form.Group})
		return
	}
	imageKey, err := h.storeImage(c)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	_, err = h.posts.Create(c.Request.Context(), userID, service.PostInput{
		Text:      form.Text,
		GroupSlug: form.Group,
		Image:     imageKey,
	})
	switch {
	case errors.Is(err, service.ErrTextRequired):
		response.ValidationFailed(c, gin.H{"text": "This field is required."}, gin.H{"text": form.Text, "group": form.Group})
	case errors.Is(err, service.ErrGroupNotFound):
		response.ValidationFailed(c, gin.H{"group": "Unknown group."}, gin.H{"text": form.Text, "group": form.Group})
	case err != nil:
		response.InternalError(c, err)
	default:
		c.Redirect(http.StatusFound, "/profile/"+c.GetString(middleware.ContextUsername)+"/")
	}
}

// EditForm returns the edit form for the post's author. Anyone else is
// sent back to the detail view without an error.
// @Summary Post edit form
// @Tags posts
// @Param id path string true "Post id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /posts/{id}/edit/ [get]
func (h *Handler) EditForm(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString(middleware.ContextUserID)
	row, err := h.posts.GetForEdit(c.Request.Context(), userID, id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "post not found")
	case errors.Is(err, service.ErrNotAuthor):
		redirectToDetail(c, id)
	case err != nil:
		response.InternalError(c, err)
	default:
		groupSlug := ""
		if row.GroupSlug != nil {
			groupSlug = *row.GroupSlug
		}
		response.Success(c, gin.H{
			"form":    gin.H{"text": row.Text, "group": groupSlug},
			"is_edit": true,
			"post_id": row.ID,
		})
	}
}

// EditPost updates a post's text/group/image for its author; a non-author
// is redirected to the detail view with the post untouched.
// @Summary Edit post
// @Tags posts
// @Accept mpfd
// @Param id path string true "Post id"
// @Success 302
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /posts/{id}/edit/ [post]
func (h *Handler) EditPost(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString(middleware.ContextUserID)

	// authorize before touching the form: a non-author never sees
	// validation errors and never reaches the image store
	if _, err := h.posts.GetForEdit(c.Request.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(c, "post not found")
		case errors.Is(err, service.ErrNotAuthor):
			redirectToDetail(c, id)
		default:
			response.InternalError(c, err)
		}
		return
	}

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		response.ValidationFailed(c, gin.H{"group": "Enter a valid slug."}, gin.H{"text": form.Text, "group": form.Group})
		return
	}
	imageKey, err := h.storeImage(c)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	err = h.posts.Update(c.Request.Context(), userID, id, service.PostInput{
		Text:      form.Text,
		GroupSlug: form.Group,
		Image:     imageKey,
	})
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "post not found")
	case errors.Is(err, service.ErrNotAuthor):
		redirectToDetail(c, id)
	case errors.Is(err, service.ErrTextRequired):
		response.ValidationFailed(c, gin.H{"text": "This field is required."}, gin.H{"text": form.Text, "group": form.Group})
	case errors.Is(err, service.ErrGroupNotFound):
		response.ValidationFailed(c, gin.H{"group": "Unknown group."}, gin.H{"text": form.Text, "group": form.Group})
	case err != nil:
		response.InternalError(c, err)
	default:
		redirectToDetail(c, id)
	}
}

// AddComment attaches a comment to a post and returns to the detail
// view. The comment author is always the acting user; empty text writes
// nothing and still redirects.
// @Summary Comment on a post
// @Tags posts
// @Param id path string true "Post id"
// @Success 302
// @Failure 404 {object} response.Response
// @Router /posts/{id}/comment/ [post]
func (h *Handler) AddComment(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString(middleware.ContextUserID)
	_, err := h.posts.AddComment(c.Request.Context(), userID, id, c.PostForm("text"))
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "post not found")
	case errors.Is(err, service.ErrTextRequired):
		redirectToDetail(c, id)
	case err != nil:
		response.InternalError(c, err)
	default:
		redirectToDetail(c, id)
	}
}
