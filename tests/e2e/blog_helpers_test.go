//go:build e2e

package e2e

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fullstack-bloglist/bloglist-e2e/tests/e2e/fixtures"
	"github.com/fullstack-bloglist/bloglist-e2e/tests/e2e/helpers"
)

func TestBlogHelpers(t *testing.T) {
	t.Run("CreateBlog fails with a WaitError when the form never appears", func(t *testing.T) {
		s, _, _ := newBlogScenario(t)

		const timeout = time.Second
		start := time.Now()
		err := helpers.CreateBlog(s.Page, testBlog, timeout)
		elapsed := time.Since(start)

		var waitErr *helpers.WaitError
		require.True(t, errors.As(err, &waitErr), "got %v", err)
		assert.Equal(t, `"new blog" button`, waitErr.Step)
		assert.Equal(t, timeout, waitErr.Timeout)
		assert.GreaterOrEqual(t, elapsed, timeout)
		assert.Less(t, elapsed, timeout+5*time.Second, "a single bounded wait, no retry")
	})

	t.Run("CreateBlog accepts titles that overlap existing ones", func(t *testing.T) {
		s, user, _ := newBlogScenario(t)
		s.Login(user)

		s.CreateBlog(testBlog)
		s.CreateBlog(fixtures.Blog{Title: "Test", Author: "Short Title", URL: "http://short.example"})
		s.CreateBlog(testBlog)

		require.NoError(t, s.Expect().Locator(s.Page.Locator(helpers.BlogEntry)).ToHaveCount(3))
		require.NoError(t, s.Expect().Locator(helpers.BlogByTitle(s.Page, testBlog.Title)).ToHaveCount(2))

		before, after, err := helpers.LikeBlog(s.Page, testBlog.Title, s.WaitTimeout())
		require.NoError(t, err)
		assert.Equal(t, before+1, after)
	})

	t.Run("titles with markup characters are listed verbatim", func(t *testing.T) {
		s, user, _ := newBlogScenario(t)
		s.Login(user)

		blog := fixtures.Blog{Title: `Why a<b & "quotes" matter`, Author: "Generics <T>", URL: "http://markup.example"}
		s.CreateBlog(blog)

		text, err := helpers.FirstBlogByTitle(s.Page, blog.Title).InnerText()
		require.NoError(t, err)
		assert.Contains(t, text, blog.Title)
		assert.Contains(t, text, blog.Author)
	})

	t.Run("consecutive removals each confirm their own dialog", func(t *testing.T) {
		s, user, _ := newBlogScenario(t)
		s.Login(user)

		first := fixtures.Blog{Title: "First to go", Author: "A", URL: "http://first.example"}
		second := fixtures.Blog{Title: "Second to go", Author: "B", URL: "http://second.example"}
		s.CreateBlog(first)
		s.CreateBlog(second)

		for _, b := range []fixtures.Blog{first, second} {
			message, err := helpers.RemoveBlog(s.Page, b.Title, s.WaitTimeout())
			require.NoError(t, err)
			assert.Contains(t, message, b.Title)
			require.NoError(t, s.Expect().Locator(helpers.BlogByTitle(s.Page, b.Title)).ToHaveCount(0))
		}

		assert.Zero(t, s.Page.ListenerCount("dialog"), "no dialog listener should outlive its removal")
	})
}
