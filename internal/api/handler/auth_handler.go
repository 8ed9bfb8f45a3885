package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"yatube/internal/model"
	"yatube/pkg/response"
)

type credentialsForm struct {
	Username string `form:"username" json:"username" binding:"required,min=1,max=150"`
	Email    string `form:"email" json:"email" binding:"omitempty,email"`
	Password string `form:"password" json:"password" binding:"required,min=6"`
}

const tokenCookieMaxAge = 24 * 60 * 60

// Signup registers a user and logs them in.
// @Summary Register
// @Tags auth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/signup/ [post]
func (h *Handler) Signup(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, "invalid signup form")
		return
	}
	if _, err := h.users.GetByUsername(c.Request.Context(), form.Username); err == nil {
		response.BadRequest(c, "username already taken")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		response.InternalError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	user := &model.User{
		ID:       uuid.New().String(),
		Username: form.Username,
		Email:    form.Email,
		Password: string(hash),
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		response.InternalError(c, err)
		return
	}
	h.issueToken(c, user)
}

// Login checks credentials and sets the session cookie.
// @Summary Log in
// @Tags auth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login/ [post]
func (h *Handler) Login(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, "invalid login form")
		return
	}
	user, err := h.users.GetByUsername(c.Request.Context(), form.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Unauthorized(c, "bad credentials")
			return
		}
		response.InternalError(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)) != nil {
		response.Unauthorized(c, "bad credentials")
		return
	}
	h.issueToken(c, user)
}

func (h *Handler) issueToken(c *gin.Context, user *model.User) {
	token, err := h.tokens.Generate(user.ID, user.Username)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.SetCookie("token", token, tokenCookieMaxAge, "/", "", false, true)

	// only local targets: a "//host" prefix would leave the site
	next := c.Query("next")
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		c.Redirect(http.StatusFound, next)
		return
	}
	response.Success(c, gin.H{"token": token, "username": user.Username})
}
