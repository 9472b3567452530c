package helpers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/fullstack-bloglist/bloglist-e2e/tests/e2e/fixtures"
)

// Blog list selectors.
const (
	NewBlogButton = `button:has-text("new blog")`
	BlogEntry     = `.blog`
	BlogLikes     = `.blog-likes`
	ViewButton    = `button:has-text("view")`
	LikeButton    = `button:has-text("like")`
	RemoveButton  = `button:has-text("remove")`
)

// DefaultWait bounds every wait in CreateBlog when the caller passes zero.
const DefaultWait = 10 * time.Second

var likesPattern = regexp.MustCompile(`^\s*(-?\d+)`)

// WaitError names the step of a UI flow whose bounded wait expired.
type WaitError struct {
	Step    string
	Timeout time.Duration
	Err     error
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("%s: not satisfied within %s: %v", e.Step, e.Timeout, e.Err)
}

func (e *WaitError) Unwrap() error { return e.Err }

func waitVisible(loc playwright.Locator, step string, timeout time.Duration) error {
	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return &WaitError{Step: step, Timeout: timeout, Err: err}
	}
	return nil
}

// BlogByTitle locates every list entry whose text contains title. Titles may
// overlap ("Test" and "Test Blog Title"), so actions go through FirstBlogByTitle.
func BlogByTitle(page playwright.Page, title string) playwright.Locator {
	return page.Locator(BlogEntry).Filter(playwright.LocatorFilterOptions{HasText: title})
}

// FirstBlogByTitle is the first entry in display order whose text contains title.
func FirstBlogByTitle(page playwright.Page, title string) playwright.Locator {
	return BlogByTitle(page, title).First()
}

// CreateBlog drives the creation flow: open the form, fill title, author and
// url, submit, and wait for one more entry matching the title than before.
// Each of the four waits is bounded by timeout (DefaultWait when zero); there
// is no retry.
func CreateBlog(page playwright.Page, blog fixtures.Blog, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultWait
	}

	newBlog := page.Locator(NewBlogButton)
	if err := waitVisible(newBlog, `"new blog" button`, timeout); err != nil {
		return err
	}
	if err := newBlog.Click(); err != nil {
		return fmt.Errorf("click new blog: %w", err)
	}

	if err := waitVisible(page.Locator("#title"), "blog form", timeout); err != nil {
		return err
	}
	for _, field := range []struct{ selector, value string }{
		{"#title", blog.Title},
		{"#author", blog.Author},
		{"#url", blog.URL},
	} {
		if err := page.Locator(field.selector).Fill(field.value); err != nil {
			return fmt.Errorf("fill %s: %w", field.selector, err)
		}
	}

	matching := BlogByTitle(page, blog.Title)
	existing, err := matching.Count()
	if err != nil {
		return fmt.Errorf("count entries matching %q: %w", blog.Title, err)
	}

	if err := page.Locator(SubmitButton).Click(); err != nil {
		return fmt.Errorf("submit blog form: %w", err)
	}

	expect := playwright.NewPlaywrightAssertions(float64(timeout.Milliseconds()))
	if err := expect.Locator(matching).ToHaveCount(existing + 1); err != nil {
		return &WaitError{Step: fmt.Sprintf("blog %q in list", blog.Title), Timeout: timeout, Err: err}
	}
	return nil
}

// ViewBlog expands the entry's details if they are collapsed.
func ViewBlog(page playwright.Page, title string) error {
	view := FirstBlogByTitle(page, title).Locator(ViewButton)
	count, err := view.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	if err := view.Click(); err != nil {
		return fmt.Errorf("view %q: %w", title, err)
	}
	return nil
}

// ParseLikes extracts the count from texts like "5", "5 likes" or "5 likes like".
func ParseLikes(text string) (int, error) {
	m := likesPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, fmt.Errorf("no like count in %q", text)
	}
	return strconv.Atoi(m[1])
}

// LikeCount reads the like count rendered inside entry.
func LikeCount(entry playwright.Locator) (int, error) {
	text, err := entry.Locator(BlogLikes).First().TextContent()
	if err != nil {
		return 0, fmt.Errorf("read likes: %w", err)
	}
	return ParseLikes(text)
}

// LikeBlog clicks the entry's like button and waits until the displayed count
// changes. It returns the counts before and after the click.
func LikeBlog(page playwright.Page, title string, timeout time.Duration) (before, after int, err error) {
	if timeout <= 0 {
		timeout = DefaultWait
	}
	if err := ViewBlog(page, title); err != nil {
		return 0, 0, err
	}

	entry := FirstBlogByTitle(page, title)
	counter := entry.Locator(BlogLikes + " span")
	beforeText, err := counter.TextContent()
	if err != nil {
		return 0, 0, fmt.Errorf("read likes of %q: %w", title, err)
	}
	if before, err = ParseLikes(beforeText); err != nil {
		return 0, 0, err
	}

	if err := entry.Locator(LikeButton).Click(); err != nil {
		return 0, 0, fmt.Errorf("like %q: %w", title, err)
	}

	expect := playwright.NewPlaywrightAssertions(float64(timeout.Milliseconds()))
	if err := expect.Locator(counter).Not().ToHaveText(strings.TrimSpace(beforeText)); err != nil {
		return before, 0, &WaitError{Step: fmt.Sprintf("like count of %q to change", title), Timeout: timeout, Err: err}
	}

	afterText, err := counter.TextContent()
	if err != nil {
		return before, 0, fmt.Errorf("read likes of %q: %w", title, err)
	}
	after, err = ParseLikes(afterText)
	return before, after, err
}

// RemoveBlog expands the entry, clicks remove and accepts the confirmation
// dialog. The dialog listener is registered for this one dialog only. It
// returns the dialog's message.
func RemoveBlog(page playwright.Page, title string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultWait
	}
	if err := ViewBlog(page, title); err != nil {
		return "", err
	}

	type outcome struct {
		message string
		err     error
	}
	done := make(chan outcome, 1)
	accept := func(dialog playwright.Dialog) {
		done <- outcome{message: dialog.Message(), err: dialog.Accept()}
	}
	page.Once("dialog", accept)

	if err := FirstBlogByTitle(page, title).Locator(RemoveButton).Click(); err != nil {
		page.RemoveListener("dialog", accept)
		return "", fmt.Errorf("click remove on %q: %w", title, err)
	}

	select {
	case o := <-done:
		if o.err != nil {
			return o.message, fmt.Errorf("accept dialog: %w", o.err)
		}
		return o.message, nil
	case <-time.After(timeout):
		page.RemoveListener("dialog", accept)
		return "", &WaitError{Step: "confirmation dialog", Timeout: timeout, Err: fmt.Errorf("no dialog opened")}
	}
}

// ListedLikes returns the like count of every entry in display order.
func ListedLikes(page playwright.Page) ([]int, error) {
	entries, err := page.Locator(BlogEntry).All()
	if err != nil {
		return nil, err
	}
	likes := make([]int, 0, len(entries))
	for i, entry := range entries {
		n, err := LikeCount(entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		likes = append(likes, n)
	}
	return likes, nil
}

// IsNonIncreasing reports whether values never grow from one element to the next.
func IsNonIncreasing(values []int) bool {
	for i := 0; i+1 < len(values); i++ {
		if values[i] < values[i+1] {
			return false
		}
	}
	return true
}
