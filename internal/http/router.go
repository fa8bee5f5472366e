package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/http/handlers"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/http/middleware"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/metrics"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth     *handlers.AuthHandlers
	Users    *handlers.UserHandlers
	Blogs    *handlers.BlogHandlers
	Category *handlers.CategoryHandlers
	Comments *handlers.CommentHandlers
	Policies *handlers.PolicyHandlers
}

// RouterOptions configures the outer surfaces of the router
type RouterOptions struct {
	// MediaFs is served read-only under MediaPath when set
	MediaFs        afero.Fs
	MediaPath      string
	MetricsEnabled bool
	// OTPLimiter throttles the unauthenticated code endpoints per client IP when set
	OTPLimiter *middleware.RateLimiter
}

// BuildRouter mounts every route. Authenticated routes run the JWT check and then Casbin,
// which matches the request path against the policy table.
func BuildRouter(h Handlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW, log logrus.FieldLogger, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(log), metrics.Middleware(), middleware.ClientContext(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	if opts.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	if opts.MediaFs != nil {
		r.StaticFS(opts.MediaPath, afero.NewHttpFs(opts.MediaFs).Dir("/"))
	}

	throttle := func(c *gin.Context) { c.Next() }
	if opts.OTPLimiter != nil {
		throttle = opts.OTPLimiter.Handler()
	}
	protected := []gin.HandlerFunc{jwtmw.WithJWT(), cb.Enforce()}

	account := r.Group("/api/account")
	account.POST("/login", throttle, h.Auth.Login)
	account.POST("/register", throttle, h.Auth.Register)
	account.POST("/verify", throttle, h.Auth.VerifyOTP)
	account.POST("/token/refresh", h.Auth.Refresh)

	me := account.Group("", protected...)
	me.POST("/logout", h.Auth.Logout)
	me.POST("/two-step-password/create", h.Auth.CreateTwoStepPassword)
	me.POST("/two-step-password/change", h.Auth.ChangeTwoStepPassword)
	me.GET("/profile", h.Users.Profile)
	me.PUT("/profile", h.Users.UpdateProfile)
	me.DELETE("/profile", h.Users.DeleteProfile)
	me.GET("/users", h.Users.List)
	me.GET("/users/:id", h.Users.Get)
	me.PUT("/users/:id", h.Users.Update)
	me.DELETE("/users/:id", h.Users.Delete)

	blog := r.Group("/api/blog")
	blog.GET("", jwtmw.Optional(), h.Blogs.List)
	blog.GET("/categories", h.Category.List)
	blog.GET("/:slug", jwtmw.Optional(), h.Blogs.Get)

	writer := blog.Group("", protected...)
	writer.POST("", h.Blogs.Create)
	writer.PUT("/:slug", h.Blogs.Update)
	writer.DELETE("/:slug", h.Blogs.Delete)
	writer.POST("/:slug/like", h.Blogs.Like)
	writer.POST("/categories", h.Category.Create)
	writer.PUT("/categories/:id", h.Category.Update)
	writer.DELETE("/categories/:id", h.Category.Delete)

	comment := r.Group("/api/comment")
	comment.GET("/:id", h.Comments.ListForBlog)
	commenter := comment.Group("", protected...)
	commenter.POST("/create", h.Comments.Create)
	commenter.PUT("/:id", h.Comments.Update)
	commenter.DELETE("/:id", h.Comments.Delete)

	adm := r.Group("/api/admin", protected...)
	adm.GET("/comments", h.Comments.ListAll)
	adm.GET("/policies", h.Policies.List)
	adm.POST("/policies", h.Policies.Add)
	adm.DELETE("/policies", h.Policies.Remove)

	return r
}
