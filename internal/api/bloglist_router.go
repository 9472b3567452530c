package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fullstack-bloglist/bloglist-e2e/internal/middleware"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/service"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/web"
)

// RouterOptions wires the bloglist HTTP surface.
type RouterOptions struct {
	Service  *service.BlogService
	DB       *sqlx.DB
	Frontend *web.Frontend
	// Registry receives the HTTP collectors and is served on MetricsPath. Nil disables metrics.
	Registry       *prometheus.Registry
	MetricsPath    string
	TestingEnabled bool
}

// NewRouter builds the gin engine serving the API and the frontend page.
func NewRouter(opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())
	if gin.Mode() != gin.TestMode {
		r.Use(gin.Logger())
	}
	if opts.Registry != nil {
		r.Use(middleware.NewHTTPMetrics(opts.Registry).Handle())
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}

	h := NewBlogHandlers(opts.Service, opts.DB)
	authMW := middleware.NewAuthMiddleware(opts.Service)

	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	{
		api.POST("/users", h.CreateUser)
		api.GET("/users", h.ListUsers)
		api.POST("/login", h.Login)

		api.GET("/blogs", h.ListBlogs)
		api.POST("/blogs", authMW.RequireAuth(), h.CreateBlog)
		api.PUT("/blogs/:id", authMW.RequireAuth(), h.UpdateBlog)
		api.POST("/blogs/:id/like", h.LikeBlog)
		api.DELETE("/blogs/:id", authMW.RequireAuth(), h.DeleteBlog)

		if opts.TestingEnabled {
			api.POST("/testing/reset", h.ResetTestingData)
		}
	}

	if opts.Frontend != nil {
		r.GET("/", gin.WrapH(opts.Frontend))
	}

	return r
}
