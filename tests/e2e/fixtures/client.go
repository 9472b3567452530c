// Package fixtures prepares backend state for the browser scenarios over HTTP:
// it resets the test database and provisions accounts and blogs.
package fixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Account is a user the scenarios log in with.
type Account struct {
	Username string `json:"username" yaml:"username"`
	Name     string `json:"name,omitempty" yaml:"name"`
	Password string `json:"password" yaml:"password"`
	Blogs    []Blog `json:"-" yaml:"blogs"`
}

// Blog is a blog entry to create, either through the UI or through the API.
// Likes is only honoured by the API path; the creation form has no likes field.
type Blog struct {
	Title  string `json:"title" yaml:"title"`
	Author string `json:"author" yaml:"author"`
	URL    string `json:"url" yaml:"url"`
	Likes  int    `json:"likes,omitempty" yaml:"likes"`
}

// Session is a logged-in API session.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// StatusError is returned when the backend answers with an unexpected status.
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// Client talks to the backend under test.
type Client struct {
	baseURL   string
	resetPath string
	http      *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithResetPath overrides the reset endpoint path.
func WithResetPath(path string) Option {
	return func(c *Client) { c.resetPath = path }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a fixture client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		resetPath: "/api/testing/reset",
		http:      &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reset wipes all test data on the backend.
func (c *Client) Reset(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, c.resetPath, "", nil, nil, http.StatusOK, http.StatusNoContent); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	log.Printf("[fixtures] backend reset via %s", c.resetPath)
	return nil
}

// CreateUser provisions an account.
func (c *Client) CreateUser(ctx context.Context, a Account) error {
	if err := c.do(ctx, http.MethodPost, "/api/users", "", a, nil, http.StatusCreated, http.StatusOK); err != nil {
		return fmt.Errorf("create user %q: %w", a.Username, err)
	}
	return nil
}

// Login opens an API session for a.
func (c *Client) Login(ctx context.Context, a Account) (*Session, error) {
	var s Session
	body := map[string]string{"username": a.Username, "password": a.Password}
	if err := c.do(ctx, http.MethodPost, "/api/login", "", body, &s, http.StatusOK); err != nil {
		return nil, fmt.Errorf("login %q: %w", a.Username, err)
	}
	return &s, nil
}

// CreateBlog creates a blog owned by the session's user, including its initial likes.
func (c *Client) CreateBlog(ctx context.Context, s *Session, b Blog) error {
	if err := c.do(ctx, http.MethodPost, "/api/blogs", s.Token, b, nil, http.StatusCreated, http.StatusOK); err != nil {
		return fmt.Errorf("create blog %q: %w", b.Title, err)
	}
	return nil
}

// Seed creates every account of f and, per account, its blogs.
func (c *Client) Seed(ctx context.Context, f *SeedFile) error {
	for _, a := range f.Accounts {
		if err := c.CreateUser(ctx, a); err != nil {
			return err
		}
		if len(a.Blogs) == 0 {
			continue
		}
		s, err := c.Login(ctx, a)
		if err != nil {
			return err
		}
		for _, b := range a.Blogs {
			if err := c.CreateBlog(ctx, s, b); err != nil {
				return err
			}
		}
	}
	log.Printf("[fixtures] seeded %d accounts", len(f.Accounts))
	return nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}, want ...int) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if !statusIn(resp.StatusCode, want) {
		return &StatusError{Method: method, URL: url, Status: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}
	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}

func statusIn(code int, want []int) bool {
	for _, w := range want {
		if code == w {
			return true
		}
	}
	return false
}
