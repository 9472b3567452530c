package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/fullstack-bloglist/bloglist-e2e/internal/auth"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/models"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/repository"
)

const minCredentialLength = 3

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("only the creator can delete a blog")
	ErrNotFound           = repository.ErrNotFound
	ErrDuplicateUsername  = repository.ErrDuplicateUsername
)

// ValidationError is returned for malformed input and maps to HTTP 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// UserStore is the account persistence the service needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

// BlogStore is the blog persistence the service needs.
type BlogStore interface {
	Create(ctx context.Context, blog *models.Blog) error
	Get(ctx context.Context, id string) (*models.Blog, error)
	List(ctx context.Context) ([]*models.Blog, error)
	Update(ctx context.Context, blog *models.Blog) error
	IncrementLikes(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}

// BlogService holds the bloglist rules: account creation, login, blog
// creation, likes and owner-only deletion.
type BlogService struct {
	users     UserStore
	blogs     BlogStore
	hasher    *auth.PasswordHasher
	tokens    *auth.JWTManager
	links     *bluemonday.Policy
}

func NewBlogService(users UserStore, blogs BlogStore, hasher *auth.PasswordHasher, tokens *auth.JWTManager) *BlogService {
	return &BlogService{
		users:     users,
		blogs:     blogs,
		hasher:    hasher,
		tokens:    tokens,
		links:     newLinkPolicy(),
	}
}

// newLinkPolicy admits the anchors the frontend renders for blog urls:
// http(s) or relative targets only.
func newLinkPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("http", "https")
	p.AllowAttrs("href").OnElements("a")
	return p
}

func (s *BlogService) CreateUser(ctx context.Context, req models.NewUserRequest) (*models.User, error) {
	username := normalizeUsername(req.Username)
	if len(username) < minCredentialLength {
		return nil, &ValidationError{Field: "username", Message: fmt.Sprintf("must be at least %d characters", minCredentialLength)}
	}
	if len(req.Password) < minCredentialLength {
		return nil, &ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minCredentialLength)}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *BlogService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// Login checks the credentials and issues a bearer token. Unknown users and
// wrong passwords both yield ErrInvalidCredentials.
func (s *BlogService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, normalizeUsername(req.Username))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Verify(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &models.LoginResponse{Token: token, ID: user.ID, Username: user.Username, Name: user.Name}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *BlogService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		// account wiped by a reset while the token was still held
		return nil, auth.ErrInvalidToken
	}
	return user, err
}

func (s *BlogService) ListBlogs(ctx context.Context) ([]*models.Blog, error) {
	return s.blogs.List(ctx)
}

func (s *BlogService) CreateBlog(ctx context.Context, owner *models.User, in models.BlogInput) (*models.Blog, error) {
	blog := &models.Blog{
		ID:     uuid.NewString(),
		Title:  strings.TrimSpace(in.Title),
		Author: strings.TrimSpace(in.Author),
		URL:    strings.TrimSpace(in.URL),
		UserID: owner.ID,
	}
	if in.Likes != nil {
		blog.Likes = *in.Likes
	}
	if err := s.validateBlog(blog); err != nil {
		return nil, err
	}

	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, err
	}
	return s.blogs.Get(ctx, blog.ID)
}

// UpdateBlog replaces title, author, url and likes; omitted fields keep their value.
func (s *BlogService) UpdateBlog(ctx context.Context, id string, in models.BlogInput) (*models.Blog, error) {
	blog, err := s.blogs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != "" {
		blog.Title = strings.TrimSpace(in.Title)
	}
	if in.Author != "" {
		blog.Author = strings.TrimSpace(in.Author)
	}
	if in.URL != "" {
		blog.URL = strings.TrimSpace(in.URL)
	}
	if in.Likes != nil {
		blog.Likes = *in.Likes
	}
	if err := s.validateBlog(blog); err != nil {
		return nil, err
	}

	if err := s.blogs.Update(ctx, blog); err != nil {
		return nil, err
	}
	return s.blogs.Get(ctx, id)
}

func (s *BlogService) LikeBlog(ctx context.Context, id string) (*models.Blog, error) {
	if _, err := s.blogs.IncrementLikes(ctx, id); err != nil {
		return nil, err
	}
	return s.blogs.Get(ctx, id)
}

// DeleteBlog removes a blog; only its creator may do so.
func (s *BlogService) DeleteBlog(ctx context.Context, requester *models.User, id string) error {
	blog, err := s.blogs.Get(ctx, id)
	if err != nil {
		return err
	}
	if blog.UserID != requester.ID {
		return ErrForbidden
	}
	return s.blogs.Delete(ctx, id)
}

// linkable reports whether url survives as the href of a rendered anchor.
func (s *BlogService) linkable(url string) bool {
	anchor := `<a href="` + html.EscapeString(url) + `">link</a>`
	return strings.Contains(s.links.Sanitize(anchor), "href=")
}

func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func (s *BlogService) validateBlog(b *models.Blog) error {
	if b.Title == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if b.URL == "" {
		return &ValidationError{Field: "url", Message: "is required"}
	}
	if !s.linkable(b.URL) {
		return &ValidationError{Field: "url", Message: "must be an http(s) or relative link"}
	}
	if b.Likes < 0 {
		return &ValidationError{Field: "likes", Message: "must not be negative"}
	}
	return nil
}
