package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/fullstack-bloglist/bloglist-e2e/internal/auth"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/database"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/middleware"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/models"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/service"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/version"
)

// BlogHandlers serves the /api routes of the bloglist app.
type BlogHandlers struct {
	svc *service.BlogService
	db  *sqlx.DB
}

func NewBlogHandlers(svc *service.BlogService, db *sqlx.DB) *BlogHandlers {
	return &BlogHandlers{svc: svc, db: db}
}

func (h *BlogHandlers) CreateUser(c *gin.Context) {
	var req models.NewUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *BlogHandlers) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *BlogHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BlogHandlers) ListBlogs(c *gin.Context) {
	blogs, err := h.svc.ListBlogs(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, blogs)
}

func (h *BlogHandlers) CreateBlog(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token missing"})
		return
	}

	var in models.BlogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	blog, err := h.svc.CreateBlog(c.Request.Context(), user, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, blog)
}

func (h *BlogHandlers) UpdateBlog(c *gin.Context) {
	var in models.BlogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	blog, err := h.svc.UpdateBlog(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, blog)
}

func (h *BlogHandlers) LikeBlog(c *gin.Context) {
	blog, err := h.svc.LikeBlog(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, blog)
}

func (h *BlogHandlers) DeleteBlog(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token missing"})
		return
	}

	if err := h.svc.DeleteBlog(c.Request.Context(), user, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ResetTestingData wipes every account and blog.
func (h *BlogHandlers) ResetTestingData(c *gin.Context) {
	if err := database.Truncate(c.Request.Context(), h.db); err != nil {
		writeError(c, err)
		return
	}
	log.Printf("[bloglist] testing data reset")
	c.Status(http.StatusNoContent)
}

func (h *BlogHandlers) Health(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": version.GetInfo()})
}

func writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token invalid"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrDuplicateUsername):
		c.JSON(http.StatusConflict, gin.H{"error": "expected `username` to be unique"})
	case database.IsConnectionError(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database unavailable"})
	default:
		log.Printf("[bloglist] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
