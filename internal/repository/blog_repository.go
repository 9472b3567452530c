package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fullstack-bloglist/bloglist-e2e/internal/models"
)

// BlogRepository handles database operations for blogs
type BlogRepository struct {
	db *sqlx.DB
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db *sqlx.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

type blogRow struct {
	ID           string    `db:"id"`
	Title        string    `db:"title"`
	Author       string    `db:"author"`
	URL          string    `db:"url"`
	Likes        int       `db:"likes"`
	UserID       string    `db:"user_id"`
	CreatedAt    time.Time `db:"created_at"`
	UserUsername string    `db:"user_username"`
	UserName     string    `db:"user_name"`
}

func (r blogRow) toModel() *models.Blog {
	return &models.Blog{
		ID:        r.ID,
		Title:     r.Title,
		Author:    r.Author,
		URL:       r.URL,
		Likes:     r.Likes,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
		User: &models.BlogUser{
			ID:       r.UserID,
			Username: r.UserUsername,
			Name:     r.UserName,
		},
	}
}

const selectBlogs = `
	SELECT b.id, b.title, b.author, b.url, b.likes, b.user_id, b.created_at,
	       u.username AS user_username, u.name AS user_name
	FROM blogs b
	JOIN users u ON u.id = b.user_id`

// Create inserts a blog owned by blog.UserID.
func (r *BlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO blogs (id, title, author, url, likes, user_id)
		VALUES (:id, :title, :author, :url, :likes, :user_id)`, blog)
	if err != nil {
		return fmt.Errorf("create blog %q: %w", blog.Title, err)
	}
	return nil
}

// Get returns ErrNotFound when the blog does not exist.
func (r *BlogRepository) Get(ctx context.Context, id string) (*models.Blog, error) {
	var row blogRow
	err := r.db.GetContext(ctx, &row, selectBlogs+` WHERE b.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blog %s: %w", id, err)
	}
	return row.toModel(), nil
}

// List returns every blog, most liked first; ties keep insertion order.
func (r *BlogRepository) List(ctx context.Context) ([]*models.Blog, error) {
	var rows []blogRow
	if err := r.db.SelectContext(ctx, &rows, selectBlogs+` ORDER BY b.likes DESC, b.rowid`); err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}

	blogs := make([]*models.Blog, 0, len(rows))
	for _, row := range rows {
		blogs = append(blogs, row.toModel())
	}
	return blogs, nil
}

// Update overwrites the editable fields of a blog.
func (r *BlogRepository) Update(ctx context.Context, blog *models.Blog) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE blogs SET title = :title, author = :author, url = :url, likes = :likes
		WHERE id = :id`, blog)
	if err != nil {
		return fmt.Errorf("update blog %s: %w", blog.ID, err)
	}
	return expectOne(res)
}

// IncrementLikes adds one like and returns the new count.
func (r *BlogRepository) IncrementLikes(ctx context.Context, id string) (int, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE blogs SET likes = likes + 1 WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("like blog %s: %w", id, err)
	}
	if err := expectOne(res); err != nil {
		return 0, err
	}

	var likes int
	if err := r.db.GetContext(ctx, &likes, `SELECT likes FROM blogs WHERE id = ?`, id); err != nil {
		return 0, fmt.Errorf("read likes %s: %w", id, err)
	}
	return likes, nil
}

func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete blog %s: %w", id, err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
