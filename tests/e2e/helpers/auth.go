package helpers

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/fullstack-bloglist/bloglist-e2e/tests/e2e/fixtures"
)

// Login form selectors.
const (
	UsernameInput = `input[name="Username"]`
	PasswordInput = `input[name="Password"]`
	SubmitButton  = `button[type="submit"]`
	LogoutButton  = `button:has-text("logout")`
)

// LoginUser fills the login form with the account's credentials and submits it.
// It does not wait for the outcome: success shows the logged-in view, failure an
// error banner. Each step is bounded by the page's default timeout.
func LoginUser(page playwright.Page, account fixtures.Account) error {
	if err := page.Locator(UsernameInput).Fill(account.Username); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	if err := page.Locator(PasswordInput).Fill(account.Password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := page.Locator(SubmitButton).Click(); err != nil {
		return fmt.Errorf("submit login form: %w", err)
	}
	return nil
}

// LoginAndWait logs in and waits for the logout control, which only the logged-in view renders.
func LoginAndWait(page playwright.Page, account fixtures.Account, timeoutMillis float64) error {
	if err := LoginUser(page, account); err != nil {
		return err
	}
	if err := page.Locator(LogoutButton).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(timeoutMillis),
	}); err != nil {
		return fmt.Errorf("login as %q did not complete: %w", account.Username, err)
	}
	return nil
}

// Logout clicks the logout control and waits for the login form to come back.
func Logout(page playwright.Page, timeoutMillis float64) error {
	if err := page.Locator(LogoutButton).Click(); err != nil {
		return fmt.Errorf("click logout: %w", err)
	}
	if err := page.Locator(UsernameInput).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(timeoutMillis),
	}); err != nil {
		return fmt.Errorf("login form did not reappear after logout: %w", err)
	}
	return nil
}

// IsLoggedIn reports whether the logged-in view is showing.
func IsLoggedIn(page playwright.Page) bool {
	count, err := page.Locator(LogoutButton).Count()
	return err == nil && count > 0
}
