package helpers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"

	"github.com/fullstack-bloglist/bloglist-e2e/tests/e2e/config"
	"github.com/fullstack-bloglist/bloglist-e2e/tests/e2e/fixtures"
)

// Scenario is one browser test with a clean backend. NewScenario acquires it;
// cleanup registered on t releases it on every exit path.
type Scenario struct {
	T        *testing.T
	Config   *config.TestConfig
	Fixtures *fixtures.Client
	Browser  *BrowserHelper
	Page     playwright.Page
	Accounts []fixtures.Account
}

// NewScenario resets the backend, provisions accounts, opens a browser and
// navigates to the frontend. The backend is reset again when the test ends.
func NewScenario(t *testing.T, cfg *config.TestConfig, accounts ...fixtures.Account) *Scenario {
	t.Helper()

	client := fixtures.NewClient(cfg.BackendURL,
		fixtures.WithResetPath(cfg.ResetPath),
		fixtures.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	require.NoError(t, client.Reset(ctx), "backend reset failed")
	for _, a := range accounts {
		require.NoError(t, client.CreateUser(ctx, a), "provisioning %s failed", a.Username)
	}

	browser := NewBrowserHelper(t, cfg)
	s := &Scenario{
		T:        t,
		Config:   cfg,
		Fixtures: client,
		Browser:  browser,
		Accounts: accounts,
	}

	t.Cleanup(func() {
		browser.TearDown()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		if err := client.Reset(ctx); err != nil {
			t.Errorf("backend reset after scenario failed: %v", err)
		}
	})

	require.NoError(t, browser.Setup(), "Failed to setup browser")
	s.Page = browser.Page
	require.NoError(t, browser.NavigateTo("/"), "Failed to open the application")
	return s
}

// WaitTimeout is the bound used for helper waits in this scenario.
func (s *Scenario) WaitTimeout() time.Duration {
	return s.Config.WaitTimeout
}

// Login logs in as a and waits for the logged-in view.
func (s *Scenario) Login(a fixtures.Account) {
	s.T.Helper()
	require.NoError(s.T, LoginAndWait(s.Page, a, float64(s.Config.WaitTimeout.Milliseconds())))
}

// CreateBlog creates b through the UI.
func (s *Scenario) CreateBlog(b fixtures.Blog) {
	s.T.Helper()
	require.NoError(s.T, CreateBlog(s.Page, b, s.Config.WaitTimeout))
}

// Expect returns assertions bounded by the scenario's wait timeout.
func (s *Scenario) Expect() playwright.PlaywrightAssertions {
	return playwright.NewPlaywrightAssertions(float64(s.Config.WaitTimeout.Milliseconds()))
}
