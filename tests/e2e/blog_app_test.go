//go:build e2e

package e2e

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fullstack-bloglist/bloglist-e2e/tests/e2e/fixtures"
	"github.com/fullstack-bloglist/bloglist-e2e/tests/e2e/helpers"
)

var testBlog = fixtures.Blog{
	Title:  "Test Blog Title",
	Author: "Test Blog Author",
	URL:    "http://testblogurl.com",
}

// newBlogScenario starts every test from a reset backend holding the two default accounts.
func newBlogScenario(t *testing.T) (s *helpers.Scenario, user, another fixtures.Account) {
	t.Helper()
	user, another = fixtures.DefaultAccounts()
	return helpers.NewScenario(t, suiteConfig, user, another), user, another
}

func TestBlogApp(t *testing.T) {
	t.Run("Login form is shown", func(t *testing.T) {
		s, _, _ := newBlogScenario(t)

		count, err := s.Page.Locator("form").Count()
		require.NoError(t, err)
		assert.Greater(t, count, 0, "Login form should be present")

		for _, selector := range []string{helpers.UsernameInput, helpers.PasswordInput, helpers.SubmitButton} {
			count, err := s.Page.Locator(selector).Count()
			require.NoError(t, err)
			assert.Greater(t, count, 0, "%s should be present", selector)
		}
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("succeeds with correct credentials", func(t *testing.T) {
			s, user, _ := newBlogScenario(t)

			require.NoError(t, helpers.LoginUser(s.Page, user))

			firstParagraph := s.Page.Locator("p").First()
			require.NoError(t, s.Expect().Locator(firstParagraph).ToContainText(user.Username))

			count, err := s.Page.Locator(helpers.LogoutButton).Count()
			require.NoError(t, err)
			assert.Equal(t, 1, count, "Logout button should be visible")
		})

		t.Run("fails with wrong credentials", func(t *testing.T) {
			s, user, _ := newBlogScenario(t)

			wrong := fixtures.Account{Username: user.Username, Password: "wrongpassword"}
			require.NoError(t, helpers.LoginUser(s.Page, wrong))

			require.NoError(t, s.Expect().Locator(s.Page.GetByText("Wrong username or password")).ToBeVisible())

			count, err := s.Page.Locator("form").Count()
			require.NoError(t, err)
			assert.Greater(t, count, 0, "Login form should still be present")
			assert.False(t, helpers.IsLoggedIn(s.Page))
		})
	})

	t.Run("When logged in", func(t *testing.T) {
		t.Run("a new blog can be created", func(t *testing.T) {
			s, user, _ := newBlogScenario(t)
			s.Login(user)

			s.CreateBlog(testBlog)

			text, err := helpers.FirstBlogByTitle(s.Page, testBlog.Title).InnerText()
			require.NoError(t, err)
			assert.Contains(t, text, testBlog.Title)
			assert.Contains(t, text, testBlog.Author)
		})

		t.Run("logging out returns to the login form", func(t *testing.T) {
			s, user, _ := newBlogScenario(t)
			s.Login(user)

			require.NoError(t, helpers.Logout(s.Page, float64(s.WaitTimeout().Milliseconds())))
			assert.False(t, helpers.IsLoggedIn(s.Page))
		})

		t.Run("the session survives a reload", func(t *testing.T) {
			s, user, _ := newBlogScenario(t)
			s.Login(user)

			require.NoError(t, s.Browser.Reload())
			require.NoError(t, s.Expect().Locator(s.Page.Locator(helpers.LogoutButton)).ToBeVisible())
		})
	})

	t.Run("Liking a blog", func(t *testing.T) {
		t.Run("a blog can be liked", func(t *testing.T) {
			s, user, _ := newBlogScenario(t)
			s.Login(user)
			s.CreateBlog(testBlog)

			require.NoError(t, s.Page.Locator(helpers.ViewButton).Click())

			before, after, err := helpers.LikeBlog(s.Page, testBlog.Title, s.WaitTimeout())
			require.NoError(t, err)
			assert.Equal(t, before+1, after, "like count should increase by exactly one")
		})
	})

	t.Run("Deleting a blog", func(t *testing.T) {
		t.Run("the user who added the blog can delete the blog", func(t *testing.T) {
			s, user, _ := newBlogScenario(t)
			s.Login(user)
			s.CreateBlog(testBlog)

			message, err := helpers.RemoveBlog(s.Page, testBlog.Title, s.WaitTimeout())
			require.NoError(t, err)
			t.Logf("Dialog message: %s", message)
			assert.Contains(t, message, testBlog.Title)

			banner := fmt.Sprintf("Blog %s by %s removed", testBlog.Title, testBlog.Author)
			require.NoError(t, s.Expect().Locator(s.Page.GetByText(banner)).ToBeVisible())
			require.NoError(t, s.Expect().Locator(helpers.BlogByTitle(s.Page, testBlog.Title)).ToHaveCount(0))
		})

		t.Run("only the user who added the blog can see the delete button", func(t *testing.T) {
			s, user, another := newBlogScenario(t)
			s.Login(user)
			s.CreateBlog(testBlog)

			require.NoError(t, helpers.Logout(s.Page, float64(s.WaitTimeout().Milliseconds())))
			s.Login(another)

			entry := helpers.FirstBlogByTitle(s.Page, testBlog.Title)
			require.NoError(t, s.Expect().Locator(entry).ToBeVisible())
			require.NoError(t, helpers.ViewBlog(s.Page, testBlog.Title))
			require.NoError(t, s.Expect().Locator(entry.Locator(helpers.LikeButton)).ToBeVisible())

			count, err := s.Page.Locator(helpers.RemoveButton).Count()
			require.NoError(t, err)
			assert.Zero(t, count, "remove button should not be rendered for another user")
		})
	})

	t.Run("Blog order", func(t *testing.T) {
		t.Run("blogs are ordered by number of likes in descending order", func(t *testing.T) {
			s, user, _ := newBlogScenario(t)
			s.Login(user)

			blogs := []fixtures.Blog{
				{Title: "Blog 1", Author: "Author 1", URL: "http://blog1.com", Likes: 5},
				{Title: "Blog 2", Author: "Author 2", URL: "http://blog2.com", Likes: 10},
				{Title: "Blog 3", Author: "Author 3", URL: "http://blog3.com", Likes: 1},
			}
			for _, b := range blogs {
				s.CreateBlog(b)
			}
			// the creation form has no likes field, so the counts are clicked in
			for _, b := range blogs {
				for i := 0; i < b.Likes; i++ {
					_, _, err := helpers.LikeBlog(s.Page, b.Title, s.WaitTimeout())
					require.NoError(t, err)
				}
			}

			require.NoError(t, s.Browser.Reload())
			require.NoError(t, s.Expect().Locator(s.Page.Locator(helpers.BlogEntry)).ToHaveCount(len(blogs)))

			likes, err := helpers.ListedLikes(s.Page)
			require.NoError(t, err)
			assert.True(t, helpers.IsNonIncreasing(likes), "likes should be non-increasing, got %v", likes)
			assert.Equal(t, []int{10, 5, 1}, likes)
		})

		t.Run("blogs seeded with likes over the API are ordered", func(t *testing.T) {
			s, user, _ := newBlogScenario(t)

			session, err := s.Fixtures.Login(t.Context(), user)
			require.NoError(t, err)
			for _, b := range []fixtures.Blog{
				{Title: "Low", Author: "A", URL: "http://low.example", Likes: 1},
				{Title: "High", Author: "B", URL: "http://high.example", Likes: 7},
				{Title: "Middle", Author: "C", URL: "http://middle.example", Likes: 3},
			} {
				require.NoError(t, s.Fixtures.CreateBlog(t.Context(), session, b))
			}

			s.Login(user)
			require.NoError(t, s.Expect().Locator(s.Page.Locator(helpers.BlogEntry)).ToHaveCount(3))

			likes, err := helpers.ListedLikes(s.Page)
			require.NoError(t, err)
			assert.Equal(t, []int{7, 3, 1}, likes)

			titles, err := s.Page.Locator(helpers.BlogEntry).AllInnerTexts()
			require.NoError(t, err)
			require.Len(t, titles, 3)
			assert.Contains(t, titles[0], "High")
		})
	})
}
