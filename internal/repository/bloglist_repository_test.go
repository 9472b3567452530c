package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fullstack-bloglist/bloglist-e2e/internal/database"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/models"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(context.Background(), database.MemoryDSN(""))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, users *UserRepository, id, username string) *models.User {
	t.Helper()
	u := &models.User{ID: id, Username: username, Name: username + " name", PasswordHash: "hash"}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(openTestDB(t))

	seedUser(t, users, "u1", "Duane")

	t.Run("get by username", func(t *testing.T) {
		u, err := users.GetByUsername(ctx, "Duane")
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
		assert.Equal(t, "hash", u.PasswordHash)
	})

	t.Run("get by id", func(t *testing.T) {
		u, err := users.GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Duane", u.Username)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := users.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = users.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := users.Create(ctx, &models.User{ID: "u2", Username: "Duane", PasswordHash: "x"})
		assert.ErrorIs(t, err, ErrDuplicateUsername)
	})

	t.Run("list", func(t *testing.T) {
		seedUser(t, users, "u3", "AnotherUser")
		list, err := users.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "AnotherUser", list[0].Username)
		assert.Equal(t, "Duane", list[1].Username)
	})
}

func TestBlogRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserRepository(db)
	blogs := NewBlogRepository(db)

	owner := seedUser(t, users, "u1", "Duane")

	for _, b := range []*models.Blog{
		{ID: "b1", Title: "Blog 1", Author: "Author 1", URL: "http://blog1.com", Likes: 5, UserID: owner.ID},
		{ID: "b2", Title: "Blog 2", Author: "Author 2", URL: "http://blog2.com", Likes: 10, UserID: owner.ID},
		{ID: "b3", Title: "Blog 3", Author: "Author 3", URL: "http://blog3.com", Likes: 1, UserID: owner.ID},
	} {
		require.NoError(t, blogs.Create(ctx, b))
	}

	t.Run("list is ordered by likes descending", func(t *testing.T) {
		list, err := blogs.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"b2", "b1", "b3"}, []string{list[0].ID, list[1].ID, list[2].ID})
		assert.Equal(t, "Duane", list[0].User.Username)
	})

	t.Run("increment likes", func(t *testing.T) {
		likes, err := blogs.IncrementLikes(ctx, "b3")
		require.NoError(t, err)
		assert.Equal(t, 2, likes)

		_, err = blogs.IncrementLikes(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		b, err := blogs.Get(ctx, "b1")
		require.NoError(t, err)
		b.Title = "Blog 1 (edited)"
		b.Likes = 7
		require.NoError(t, blogs.Update(ctx, b))

		got, err := blogs.Get(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, "Blog 1 (edited)", got.Title)
		assert.Equal(t, 7, got.Likes)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, blogs.Delete(ctx, "b2"))
		_, err := blogs.Get(ctx, "b2")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, blogs.Delete(ctx, "b2"), ErrNotFound)
	})

	t.Run("blog requires an existing owner", func(t *testing.T) {
		err := blogs.Create(ctx, &models.Blog{ID: "b9", Title: "x", URL: "http://x", UserID: "ghost"})
		assert.Error(t, err)
	})
}

func TestBlogRepositoryDriverError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	blogs := NewBlogRepository(sqlx.NewDb(mockDB, "sqlmock"))
	mock.ExpectQuery("SELECT b.id").WillReturnError(errors.New("disk I/O error"))

	_, err = blogs.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list blogs")
	assert.NoError(t, mock.ExpectationsWereMet())
}
