package models

import "time"

// User is a bloglist account as stored by the reference app.
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
}

// Blog is a single blog entry. UserID references the account that created it.
type Blog struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Author    string    `json:"author" db:"author"`
	URL       string    `json:"url" db:"url"`
	Likes     int       `json:"likes" db:"likes"`
	UserID    string    `json:"-" db:"user_id"`
	User      *BlogUser `json:"user,omitempty" db:"-"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// BlogUser is the owner summary embedded in blog responses.
type BlogUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// NewUserRequest is the body of POST /api/users.
type NewUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// BlogInput is the body of POST and PUT /api/blogs.
type BlogInput struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes,omitempty"`
}
