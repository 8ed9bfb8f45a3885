package api

import (
	"regexp"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "yatube/docs"
	"yatube/internal/api/handler"
	"yatube/internal/api/middleware"
	"yatube/pkg/jwt"
	"yatube/pkg/response"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
	}
}

// NewRouter wires up middleware and routes. Read routes are public; anything
// that writes, plus the follow feed, requires a logged-in user.
func NewRouter(h *handler.Handler, tokens *jwt.Manager) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(otelgin.Middleware("yatube"))
	r.Use(middleware.RateLimit(50, 100))

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "page not found")
	})

	r.GET("/", h.Index)
	r.GET("/group/:slug/", h.GroupFeed)
	r.GET("/profile/:username/", h.Profile)
	r.GET("/posts/:id/", h.PostDetail)

	auth := r.Group("/auth")
	{
		auth.POST("/signup/", h.Signup)
		auth.POST("/login/", h.Login)
	}

	private := r.Group("/", middleware.Auth(tokens))
	{
		private.GET("/create/", h.CreateForm)
		private.POST("/create/", h.CreatePost)
		private.GET("/posts/:id/edit/", h.EditForm)
		private.POST("/posts/:id/edit/", h.EditPost)
		private.POST("/posts/:id/comment/", h.AddComment)
		private.GET("/follow/", h.FollowFeed)
		private.GET("/profile/:username/follow/", h.Follow)
		private.GET("/profile/:username/unfollow/", h.Unfollow)
		private.POST("/cache/clear/", h.ClearFeedCache)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
